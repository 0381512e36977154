package model

// CategoryID is the store-generated identifier of a category
type CategoryID int64

// Category is a themed bucket of questions
type Category struct {
	ID    CategoryID `json:"id"`
	Name  string     `json:"name"` // unique, non-empty
	Emoji string     `json:"emoji"`
}

// FindCategory returns the category with the given ID, or nil if not present
func FindCategory(categories []Category, id CategoryID) *Category {
	for i := range categories {
		if categories[i].ID == id {
			return &categories[i]
		}
	}
	return nil
}

// CategoriesByName indexes categories by their unique name
func CategoriesByName(categories []Category) map[string]Category {
	byName := make(map[string]Category, len(categories))
	for _, c := range categories {
		byName[c.Name] = c
	}
	return byName
}
