package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/zenmart-labs/zenmart-backend/pkg/db/models"
	"github.com/zenmart-labs/zenmart-backend/pkg/types"
)

// ProductDTO is the catalog wire representation. EffectivePrice reflects an
// active flash deal at render time; the canonical price is always included.
type ProductDTO struct {
	ID             uuid.UUID           `json:"id"`
	Name           string              `json:"name"`
	Description    string              `json:"description,omitempty"`
	Category       string              `json:"category"`
	MainCategory   string              `json:"mainCategory,omitempty"`
	Subcategory    string              `json:"subcategory,omitempty"`
	Brand          *string             `json:"brand,omitempty"`
	Price          decimal.Decimal     `json:"price"`
	FlashPrice     *decimal.Decimal    `json:"flashPrice,omitempty"`
	FlashEndsAt    *time.Time          `json:"flashEndsAt,omitempty"`
	FlashActive    bool                `json:"flashActive"`
	EffectivePrice decimal.Decimal     `json:"effectivePrice"`
	Images         []string            `json:"images"`
	Variants       types.VariantGroups `json:"variants,omitempty"`
	Stock          int                 `json:"stock"`
	Sales          int                 `json:"sales"`
	CreatedAt      time.Time           `json:"createdAt"`
}

// ProductPage wraps a listing with its pagination summary.
type ProductPage struct {
	Products   []ProductDTO `json:"products"`
	Total      int64        `json:"total"`
	Page       int          `json:"page"`
	TotalPages int          `json:"totalPages"`
}

func toProductDTO(p *models.Product, now time.Time) ProductDTO {
	flashActive := p.FlashActive(now)
	effective := p.Price
	if flashActive && p.FlashPrice != nil {
		effective = *p.FlashPrice
	}
	images := []string(p.Images)
	if images == nil {
		images = []string{}
	}
	return ProductDTO{
		ID:             p.ID,
		Name:           p.Name,
		Description:    p.Description,
		Category:       p.Category,
		MainCategory:   p.MainCategory,
		Subcategory:    p.Subcategory,
		Brand:          p.Brand,
		Price:          p.Price,
		FlashPrice:     p.FlashPrice,
		FlashEndsAt:    p.FlashEndsAt,
		FlashActive:    flashActive,
		EffectivePrice: effective,
		Images:         images,
		Variants:       p.Variants,
		Stock:          p.Stock,
		Sales:          p.Sales,
		CreatedAt:      p.CreatedAt,
	}
}
