package handler

import (
	"net/http"

	"github.com/mcoot/couplecards/internal/api/response"
	"github.com/mcoot/couplecards/internal/repository"
)

// CategoryHandler serves the category list
type CategoryHandler struct {
	repo *repository.Repository
}

// NewCategoryHandler creates a new category handler
func NewCategoryHandler(repo *repository.Repository) *CategoryHandler {
	return &CategoryHandler{repo: repo}
}

// List handles GET /api/v1/categories
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	response.OK(w, response.CategoriesResponse{Categories: h.repo.GetAllCategories(r.Context())})
}
