// Package sqlite provides a SQLite-backed storage implementation.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mcoot/couplecards/internal/model"
	"github.com/mcoot/couplecards/internal/storage"
	"github.com/mcoot/couplecards/internal/storage/sqlite/migrations"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

// MemoryPath opens a private in-memory database
const MemoryPath = ":memory:"

// Store persists the question deck, player config and history in SQLite
type Store struct {
	sqlDB *sql.DB
}

// Ensure Store implements the interface
var _ storage.Storage = (*Store)(nil)

// Open opens a SQLite store at path and applies embedded migrations
func Open(ctx context.Context, path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	if path != MemoryPath {
		path = filepath.Clean(path)
	}
	dsn := path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if path == MemoryPath {
		// Every connection to :memory: is a separate database
		sqlDB.SetMaxOpenConns(1)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := applyMigrations(ctx, sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// DB exposes the underlying handle for tests that need raw access
func (s *Store) DB() *sql.DB {
	return s.sqlDB
}

// Category operations

func (s *Store) ListCategories(ctx context.Context) ([]model.Category, error) {
	rows, err := s.sqlDB.QueryContext(ctx, `SELECT id, name, emoji FROM categories ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	categories := []model.Category{}
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Emoji); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

func (s *Store) InsertCategory(ctx context.Context, name, emoji string) (model.CategoryID, error) {
	res, err := s.sqlDB.ExecContext(ctx, `INSERT INTO categories (name, emoji) VALUES (?, ?)`, name, emoji)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("insert category %q: %w", name, storage.ErrDuplicateCategory)
		}
		if isCheckViolation(err) {
			return 0, fmt.Errorf("insert category: %w", storage.ErrBlankCategoryName)
		}
		return 0, fmt.Errorf("insert category %q: %w", name, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert category %q: %w", name, err)
	}
	return model.CategoryID(id), nil
}

func (s *Store) DeleteAllCategories(ctx context.Context) error {
	if _, err := s.sqlDB.ExecContext(ctx, `DELETE FROM categories`); err != nil {
		return fmt.Errorf("delete categories: %w", err)
	}
	return nil
}

// Question operations

func (s *Store) ListQuestions(ctx context.Context) ([]model.Question, error) {
	rows, err := s.sqlDB.QueryContext(ctx, `SELECT id, category_id, text, created_at FROM questions ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	defer rows.Close()

	questions := []model.Question{}
	for rows.Next() {
		var q model.Question
		if err := rows.Scan(&q.ID, &q.CategoryID, &q.Text, &q.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	return questions, nil
}

func (s *Store) RandomQuestion(ctx context.Context) (*model.Question, error) {
	var q model.Question
	err := s.sqlDB.QueryRowContext(ctx,
		`SELECT id, category_id, text, created_at FROM questions ORDER BY RANDOM() LIMIT 1`,
	).Scan(&q.ID, &q.CategoryID, &q.Text, &q.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("random question: %w", err)
	}
	return &q, nil
}

func (s *Store) InsertQuestion(ctx context.Context, categoryID model.CategoryID, text string, createdAt int64) (model.QuestionID, error) {
	res, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO questions (category_id, text, created_at) VALUES (?, ?, ?)`,
		int64(categoryID), text, createdAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return 0, fmt.Errorf("insert question for category %d: %w", categoryID, storage.ErrUnknownCategory)
		}
		return 0, fmt.Errorf("insert question for category %d: %w", categoryID, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert question: %w", err)
	}
	return model.QuestionID(id), nil
}

func (s *Store) DeleteAllQuestions(ctx context.Context) error {
	if _, err := s.sqlDB.ExecContext(ctx, `DELETE FROM questions`); err != nil {
		return fmt.Errorf("delete questions: %w", err)
	}
	return nil
}

// Player config operations

func (s *Store) GetPlayerConfig(ctx context.Context) (*model.PlayerConfig, error) {
	var (
		cfg         model.PlayerConfig
		partnerID   sql.NullString
		partnerName sql.NullString
		deviceType  string
		setupMethod string
	)
	err := s.sqlDB.QueryRowContext(ctx,
		`SELECT player_id, player_name, partner_id, partner_name, device_type, setup_method, setup_date
		 FROM player_config WHERE slot = 1`,
	).Scan(&cfg.PlayerID, &cfg.PlayerName, &partnerID, &partnerName, &deviceType, &setupMethod, &cfg.SetupDate)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get player config: %w", err)
	}
	if partnerID.Valid {
		id := model.PlayerID(partnerID.String)
		cfg.PartnerID = &id
	}
	if partnerName.Valid {
		name := partnerName.String
		cfg.PartnerName = &name
	}
	cfg.DeviceType = model.DeviceType(deviceType)
	cfg.SetupMethod = model.SetupMethod(setupMethod)
	return &cfg, nil
}

func (s *Store) ReplacePlayerConfig(ctx context.Context, cfg model.PlayerConfig) error {
	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace player config: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM player_config`); err != nil {
		return fmt.Errorf("clear player config: %w", err)
	}

	var partnerID, partnerName sql.NullString
	if cfg.PartnerID != nil {
		partnerID = sql.NullString{String: string(*cfg.PartnerID), Valid: true}
	}
	if cfg.PartnerName != nil {
		partnerName = sql.NullString{String: *cfg.PartnerName, Valid: true}
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO player_config (slot, player_id, player_name, partner_id, partner_name, device_type, setup_method, setup_date)
		 VALUES (1, ?, ?, ?, ?, ?, ?, ?)`,
		string(cfg.PlayerID), cfg.PlayerName, partnerID, partnerName,
		string(cfg.DeviceType), string(cfg.SetupMethod), cfg.SetupDate,
	); err != nil {
		return fmt.Errorf("insert player config: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit player config: %w", err)
	}
	return nil
}

func (s *Store) DeletePlayerConfig(ctx context.Context) error {
	if _, err := s.sqlDB.ExecContext(ctx, `DELETE FROM player_config`); err != nil {
		return fmt.Errorf("delete player config: %w", err)
	}
	return nil
}

// History operations

const historyColumns = `id, question_id, question_text, category_id, category_name, category_emoji, asked_at, your_turn, is_first_touch`

func (s *Store) ListHistory(ctx context.Context, limit int) ([]model.QuestionHistory, error) {
	return s.queryHistory(ctx, "list history",
		`SELECT `+historyColumns+` FROM question_history ORDER BY asked_at DESC, id DESC LIMIT ?`,
		limit,
	)
}

func (s *Store) ListHistoryByCategory(ctx context.Context, categoryID model.CategoryID) ([]model.QuestionHistory, error) {
	return s.queryHistory(ctx, "list history by category",
		`SELECT `+historyColumns+` FROM question_history WHERE category_id = ? ORDER BY asked_at DESC, id DESC`,
		int64(categoryID),
	)
}

func (s *Store) InsertHistory(ctx context.Context, entry model.QuestionHistory) (model.HistoryID, error) {
	res, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO question_history (question_id, question_text, category_id, category_name, category_emoji, asked_at, your_turn, is_first_touch)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		int64(entry.QuestionID), entry.QuestionText, int64(entry.CategoryID),
		entry.CategoryName, entry.CategoryEmoji, entry.AskedAt,
		boolToInt(entry.YourTurn), boolToInt(entry.IsFirstTouch),
	)
	if err != nil {
		return 0, fmt.Errorf("insert history: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert history: %w", err)
	}
	return model.HistoryID(id), nil
}

func (s *Store) FirstTouchEntry(ctx context.Context) (*model.QuestionHistory, error) {
	entries, err := s.queryHistory(ctx, "first touch entry",
		`SELECT `+historyColumns+` FROM question_history WHERE is_first_touch = 1 ORDER BY asked_at ASC, id ASC LIMIT 1`,
	)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, nil
	}
	return &entries[0], nil
}

func (s *Store) DeleteAllHistory(ctx context.Context) error {
	if _, err := s.sqlDB.ExecContext(ctx, `DELETE FROM question_history`); err != nil {
		return fmt.Errorf("delete history: %w", err)
	}
	return nil
}

func (s *Store) queryHistory(ctx context.Context, op, query string, args ...any) ([]model.QuestionHistory, error) {
	rows, err := s.sqlDB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	entries := []model.QuestionHistory{}
	for rows.Next() {
		var (
			h            model.QuestionHistory
			yourTurn     int64
			isFirstTouch int64
		)
		if err := rows.Scan(
			&h.ID, &h.QuestionID, &h.QuestionText,
			&h.CategoryID, &h.CategoryName, &h.CategoryEmoji,
			&h.AskedAt, &yourTurn, &isFirstTouch,
		); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		h.YourTurn = yourTurn != 0
		h.IsFirstTouch = isFirstTouch != 0
		entries = append(entries, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return entries, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func isUniqueViolation(err error) bool {
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}

func isCheckViolation(err error) bool {
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) && sqliteErr.Code() == sqlite3lib.SQLITE_CONSTRAINT_CHECK {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "check constraint failed")
}

func isForeignKeyViolation(err error) bool {
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) && sqliteErr.Code() == sqlite3lib.SQLITE_CONSTRAINT_FOREIGNKEY {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "foreign key constraint failed")
}
