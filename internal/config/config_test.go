package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/couplecards/internal/model"
)

type ConfigSuite struct {
	suite.Suite
}

func TestConfigSuite(t *testing.T) {
	suite.Run(t, new(ConfigSuite))
}

func (s *ConfigSuite) TestDefaults() {
	cfg, err := LoadFrom(map[string]string{})
	s.Require().NoError(err)

	s.Equal(StorageTypeSQLite, cfg.StorageType)
	s.Equal("couples.db", cfg.DBPath)
	s.Empty(cfg.RedisURL)
	s.Equal(model.DeviceTypeAndroid, cfg.Device())
	s.Equal(8080, cfg.Port)
	s.Equal(3*time.Second, cfg.FirstTouchAnimation)

	level, err := cfg.SlogLevel()
	s.Require().NoError(err)
	s.Equal(slog.LevelInfo, level)
}

func (s *ConfigSuite) TestOverrides() {
	cfg, err := LoadFrom(map[string]string{
		"COUPLES_STORAGE":               "memory",
		"COUPLES_REDIS_URL":             "redis://cache:6379/2",
		"COUPLES_DEVICE_TYPE":           "iOS",
		"COUPLES_PORT":                  "9090",
		"COUPLES_LOG_LEVEL":             "debug",
		"COUPLES_DECK_PATH":             "/decks/custom.yaml",
		"COUPLES_FIRST_TOUCH_ANIMATION": "1500ms",
	})
	s.Require().NoError(err)

	s.Equal(StorageTypeMemory, cfg.StorageType)
	s.Equal("redis://cache:6379/2", cfg.RedisURL)
	s.Equal(model.DeviceTypeIOS, cfg.Device())
	s.Equal(9090, cfg.Port)
	s.Equal("/decks/custom.yaml", cfg.DeckPath)
	s.Equal(1500*time.Millisecond, cfg.FirstTouchAnimation)

	level, err := cfg.SlogLevel()
	s.Require().NoError(err)
	s.Equal(slog.LevelDebug, level)
}

func (s *ConfigSuite) TestInvalidValues() {
	cases := []map[string]string{
		{"COUPLES_STORAGE": "postgres"},
		{"COUPLES_STORAGE": "redis"},
		{"COUPLES_DB_PATH": " "},
		{"COUPLES_DEVICE_TYPE": "windows-phone"},
		{"COUPLES_PORT": "0"},
		{"COUPLES_PORT": "not-a-number"},
		{"COUPLES_LOG_LEVEL": "verbose"},
		{"COUPLES_FIRST_TOUCH_ANIMATION": "soon"},
	}
	for _, environ := range cases {
		_, err := LoadFrom(environ)
		s.Error(err, "%v", environ)
	}
}

func (s *ConfigSuite) TestRedisStorageUsesRedisURL() {
	cfg, err := LoadFrom(map[string]string{
		"COUPLES_STORAGE":   "redis",
		"COUPLES_REDIS_URL": "redis://cache:6379/1",
	})
	s.Require().NoError(err)
	s.Equal(StorageTypeRedis, cfg.StorageType)
}

func (s *ConfigSuite) TestLoadDotEnvMissingFileIsIgnored() {
	s.NoError(LoadDotEnv(filepath.Join(s.T().TempDir(), ".env")))
}

func (s *ConfigSuite) TestLoadDotEnvDoesNotOverrideEnvironment() {
	path := filepath.Join(s.T().TempDir(), ".env")
	s.Require().NoError(os.WriteFile(path, []byte("COUPLES_TEST_FROM_FILE=file\nCOUPLES_TEST_PRESET=file\n"), 0o600))
	s.T().Setenv("COUPLES_TEST_PRESET", "env")
	s.T().Cleanup(func() { _ = os.Unsetenv("COUPLES_TEST_FROM_FILE") })

	s.Require().NoError(LoadDotEnv(path))
	s.Equal("file", os.Getenv("COUPLES_TEST_FROM_FILE"))
	s.Equal("env", os.Getenv("COUPLES_TEST_PRESET"))
}
