package response

import (
	"github.com/mcoot/couplecards/internal/model"
)

// HealthResponse is the response for the health check
type HealthResponse struct {
	Status    string `json:"status"`
	Questions int    `json:"questions"`
	Pairing   bool   `json:"pairing"`
}

// CategoriesResponse lists all categories
type CategoriesResponse struct {
	Categories []model.Category `json:"categories"`
}

// PairingOfferResponse returns the code a payload was offered under
type PairingOfferResponse struct {
	Code string `json:"code"`
}
