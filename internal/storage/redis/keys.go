package redis

import (
	"fmt"

	"github.com/mcoot/couplecards/internal/model"
)

// Key prefix for all stored data
const keyPrefix = "couples"

// Key generation functions for each entity type

// sequenceKey returns the counter that hands out IDs for an entity
func sequenceKey(entity string) string {
	return fmt.Sprintf("%s:seq:%s", keyPrefix, entity)
}

// categoryKey returns the Redis key for a Category
func categoryKey(id model.CategoryID) string {
	return fmt.Sprintf("%s:category:%d", keyPrefix, id)
}

// categoriesIndexKey returns the ZSET of category IDs scored by ID
func categoriesIndexKey() string {
	return fmt.Sprintf("%s:idx:categories", keyPrefix)
}

// categoryNameIndexKey returns the HASH of category name -> ID
func categoryNameIndexKey() string {
	return fmt.Sprintf("%s:idx:category_name", keyPrefix)
}

// questionKey returns the Redis key for a Question
func questionKey(id model.QuestionID) string {
	return fmt.Sprintf("%s:question:%d", keyPrefix, id)
}

// questionsIndexKey returns the ZSET of question IDs scored by ID
func questionsIndexKey() string {
	return fmt.Sprintf("%s:idx:questions", keyPrefix)
}

// playerConfigKey returns the Redis key for the single player configuration
func playerConfigKey() string {
	return fmt.Sprintf("%s:player_config", keyPrefix)
}

// historyKey returns the Redis key for a history entry
func historyKey(id model.HistoryID) string {
	return fmt.Sprintf("%s:history:%d", keyPrefix, id)
}

// historyIndexKey returns the ZSET of history members scored by asked_at
func historyIndexKey() string {
	return fmt.Sprintf("%s:idx:history", keyPrefix)
}

// historyForCategoryIndexKey returns the history ZSET of one category
func historyForCategoryIndexKey(id model.CategoryID) string {
	return fmt.Sprintf("%s:idx:history_for_category:%d", keyPrefix, id)
}

// historyCategoriesKey returns the SET of category IDs that have history
func historyCategoriesKey() string {
	return fmt.Sprintf("%s:idx:history_categories", keyPrefix)
}

// firstTouchIndexKey returns the ZSET of first-touch history members scored by asked_at
func firstTouchIndexKey() string {
	return fmt.Sprintf("%s:idx:first_touch", keyPrefix)
}

// historyMember encodes a history ID as a ZSET member. Zero padding makes
// lexicographic order match numeric order, so equal scores sort by ID.
func historyMember(id model.HistoryID) string {
	return fmt.Sprintf("%019d", id)
}
