package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/couplecards/internal/dependencies/random"
	"github.com/mcoot/couplecards/internal/model"
	"github.com/mcoot/couplecards/internal/storage"
)

const (
	categorySequence = "category"
	questionSequence = "question"
	historySequence  = "history"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	random random.Random
}

// New creates a new Redis storage instance. rnd drives RandomQuestion.
func New(cfg Config, rnd random.Random) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	pingTimeout := cfg.PingTimeout
	if pingTimeout <= 0 {
		pingTimeout = DefaultConfig().PingTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	return NewWithClient(client, rnd), nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, rnd random.Random) *Storage {
	return &Storage{
		client: client,
		random: rnd,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Category operations

func (s *Storage) ListCategories(ctx context.Context) ([]model.Category, error) {
	ids, err := s.client.ZRange(ctx, categoriesIndexKey(), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	return getAll[model.Category](ctx, s.client, ids, func(id string) string {
		return fmt.Sprintf("%s:category:%s", keyPrefix, id)
	})
}

func (s *Storage) InsertCategory(ctx context.Context, name, emoji string) (model.CategoryID, error) {
	if name == "" {
		return 0, storage.ErrBlankCategoryName
	}
	seq, err := s.client.Incr(ctx, sequenceKey(categorySequence)).Result()
	if err != nil {
		return 0, err
	}
	id := model.CategoryID(seq)

	// The name index doubles as the uniqueness constraint
	claimed, err := s.client.HSetNX(ctx, categoryNameIndexKey(), name, int64(id)).Result()
	if err != nil {
		return 0, err
	}
	if !claimed {
		return 0, storage.ErrDuplicateCategory
	}

	data, err := json.Marshal(model.Category{ID: id, Name: name, Emoji: emoji})
	if err == nil {
		pipe := s.client.TxPipeline()
		pipe.Set(ctx, categoryKey(id), data, 0)
		pipe.ZAdd(ctx, categoriesIndexKey(), redis.Z{Score: float64(id), Member: int64(id)})
		_, err = pipe.Exec(ctx)
	}
	if err != nil {
		// Release the name so a retry is not reported as a duplicate
		if delErr := s.client.HDel(context.WithoutCancel(ctx), categoryNameIndexKey(), name).Err(); delErr != nil {
			return 0, errors.Join(err, delErr)
		}
		return 0, err
	}
	return id, nil
}

// DeleteAllCategories removes every category together with its questions
func (s *Storage) DeleteAllCategories(ctx context.Context) error {
	ids, err := s.client.ZRange(ctx, categoriesIndexKey(), 0, -1).Result()
	if err != nil {
		return err
	}
	questionIDs, err := s.client.ZRange(ctx, questionsIndexKey(), 0, -1).Result()
	if err != nil {
		return err
	}

	keys := []string{categoriesIndexKey(), categoryNameIndexKey(), questionsIndexKey()}
	for _, id := range ids {
		keys = append(keys, fmt.Sprintf("%s:category:%s", keyPrefix, id))
	}
	for _, id := range questionIDs {
		keys = append(keys, fmt.Sprintf("%s:question:%s", keyPrefix, id))
	}
	return s.client.Del(ctx, keys...).Err()
}

// Question operations

func (s *Storage) ListQuestions(ctx context.Context) ([]model.Question, error) {
	ids, err := s.client.ZRange(ctx, questionsIndexKey(), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	return getAll[model.Question](ctx, s.client, ids, func(id string) string {
		return fmt.Sprintf("%s:question:%s", keyPrefix, id)
	})
}

func (s *Storage) RandomQuestion(ctx context.Context) (*model.Question, error) {
	count, err := s.client.ZCard(ctx, questionsIndexKey()).Result()
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, nil
	}

	idx := int64(s.random.Intn(int(count)))
	ids, err := s.client.ZRange(ctx, questionsIndexKey(), idx, idx).Result()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		// Questions were deleted between the two calls
		return nil, nil
	}

	id, err := strconv.ParseInt(ids[0], 10, 64)
	if err != nil {
		return nil, err
	}
	return getOne[model.Question](ctx, s.client, questionKey(model.QuestionID(id)))
}

func (s *Storage) InsertQuestion(ctx context.Context, categoryID model.CategoryID, text string, createdAt int64) (model.QuestionID, error) {
	exists, err := s.client.Exists(ctx, categoryKey(categoryID)).Result()
	if err != nil {
		return 0, err
	}
	if exists == 0 {
		return 0, storage.ErrUnknownCategory
	}

	seq, err := s.client.Incr(ctx, sequenceKey(questionSequence)).Result()
	if err != nil {
		return 0, err
	}
	id := model.QuestionID(seq)

	data, err := json.Marshal(model.Question{
		ID:         id,
		CategoryID: categoryID,
		Text:       text,
		CreatedAt:  createdAt,
	})
	if err != nil {
		return 0, err
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, questionKey(id), data, 0)
	pipe.ZAdd(ctx, questionsIndexKey(), redis.Z{Score: float64(id), Member: int64(id)})
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return id, nil
}

func (s *Storage) DeleteAllQuestions(ctx context.Context) error {
	ids, err := s.client.ZRange(ctx, questionsIndexKey(), 0, -1).Result()
	if err != nil {
		return err
	}
	keys := []string{questionsIndexKey()}
	for _, id := range ids {
		keys = append(keys, fmt.Sprintf("%s:question:%s", keyPrefix, id))
	}
	return s.client.Del(ctx, keys...).Err()
}

// Player config operations

func (s *Storage) GetPlayerConfig(ctx context.Context) (*model.PlayerConfig, error) {
	return getOne[model.PlayerConfig](ctx, s.client, playerConfigKey())
}

// ReplacePlayerConfig overwrites the single configuration key, which is atomic in Redis
func (s *Storage) ReplacePlayerConfig(ctx context.Context, cfg model.PlayerConfig) error {
	data, err := json.Marshal(cfg)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, playerConfigKey(), data, 0).Err()
}

func (s *Storage) DeletePlayerConfig(ctx context.Context) error {
	return s.client.Del(ctx, playerConfigKey()).Err()
}

// History operations

func (s *Storage) ListHistory(ctx context.Context, limit int) ([]model.QuestionHistory, error) {
	if limit == 0 {
		return []model.QuestionHistory{}, nil
	}
	stop := int64(-1)
	if limit > 0 {
		stop = int64(limit) - 1
	}
	return s.listHistory(ctx, historyIndexKey(), stop)
}

func (s *Storage) ListHistoryByCategory(ctx context.Context, categoryID model.CategoryID) ([]model.QuestionHistory, error) {
	return s.listHistory(ctx, historyForCategoryIndexKey(categoryID), -1)
}

func (s *Storage) InsertHistory(ctx context.Context, entry model.QuestionHistory) (model.HistoryID, error) {
	seq, err := s.client.Incr(ctx, sequenceKey(historySequence)).Result()
	if err != nil {
		return 0, err
	}
	entry.ID = model.HistoryID(seq)

	data, err := json.Marshal(entry)
	if err != nil {
		return 0, err
	}

	member := redis.Z{Score: float64(entry.AskedAt), Member: historyMember(entry.ID)}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, historyKey(entry.ID), data, 0)
	pipe.ZAdd(ctx, historyIndexKey(), member)
	pipe.ZAdd(ctx, historyForCategoryIndexKey(entry.CategoryID), member)
	pipe.SAdd(ctx, historyCategoriesKey(), int64(entry.CategoryID))
	if entry.IsFirstTouch {
		pipe.ZAdd(ctx, firstTouchIndexKey(), member)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return entry.ID, nil
}

func (s *Storage) FirstTouchEntry(ctx context.Context) (*model.QuestionHistory, error) {
	members, err := s.client.ZRange(ctx, firstTouchIndexKey(), 0, 0).Result()
	if err != nil {
		return nil, err
	}
	if len(members) == 0 {
		return nil, nil
	}
	id, err := strconv.ParseInt(members[0], 10, 64)
	if err != nil {
		return nil, err
	}
	return getOne[model.QuestionHistory](ctx, s.client, historyKey(model.HistoryID(id)))
}

func (s *Storage) DeleteAllHistory(ctx context.Context) error {
	members, err := s.client.ZRange(ctx, historyIndexKey(), 0, -1).Result()
	if err != nil {
		return err
	}
	categoryIDs, err := s.client.SMembers(ctx, historyCategoriesKey()).Result()
	if err != nil {
		return err
	}

	keys := []string{historyIndexKey(), historyCategoriesKey(), firstTouchIndexKey()}
	for _, m := range members {
		id, err := strconv.ParseInt(m, 10, 64)
		if err != nil {
			return err
		}
		keys = append(keys, historyKey(model.HistoryID(id)))
	}
	for _, c := range categoryIDs {
		keys = append(keys, fmt.Sprintf("%s:idx:history_for_category:%s", keyPrefix, c))
	}
	return s.client.Del(ctx, keys...).Err()
}

// listHistory reads entries from a history index, highest score first.
// Equal scores come back in reverse member order, which is newest insert first.
func (s *Storage) listHistory(ctx context.Context, index string, stop int64) ([]model.QuestionHistory, error) {
	members, err := s.client.ZRevRange(ctx, index, 0, stop).Result()
	if err != nil {
		return nil, err
	}
	return getAll[model.QuestionHistory](ctx, s.client, members, func(m string) string {
		id, _ := strconv.ParseInt(m, 10, 64)
		return historyKey(model.HistoryID(id))
	})
}

// getOne loads a single JSON value, returning nil when the key is missing
func getOne[T any](ctx context.Context, client *redis.Client, key string) (*T, error) {
	data, err := client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// getAll loads JSON values for the given index members in order, skipping
// members whose value has disappeared
func getAll[T any](ctx context.Context, client *redis.Client, members []string, keyFor func(string) string) ([]T, error) {
	result := make([]T, 0, len(members))
	if len(members) == 0 {
		return result, nil
	}

	keys := make([]string, len(members))
	for i, m := range members {
		keys[i] = keyFor(m)
	}

	values, err := client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	for _, raw := range values {
		str, ok := raw.(string)
		if !ok {
			continue
		}
		var v T
		if err := json.Unmarshal([]byte(str), &v); err != nil {
			return nil, err
		}
		result = append(result, v)
	}
	return result, nil
}
