package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/zenmart-labs/zenmart-backend/pkg/types"
)

// Product is the canonical catalog listing. Price is the canonical unit
// price; FlashPrice/FlashEndsAt describe an optional time-boxed deal.
type Product struct {
	ID           uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	Name         string              `gorm:"column:name;not null"`
	Description  string              `gorm:"column:description"`
	Category     string              `gorm:"column:category;not null;index:idx_products_category"`
	MainCategory string              `gorm:"column:main_category"`
	Subcategory  string              `gorm:"column:subcategory"`
	Brand        *string             `gorm:"column:brand"`
	Price        decimal.Decimal     `gorm:"column:price;type:numeric(12,2);not null"`
	FlashPrice   *decimal.Decimal    `gorm:"column:flash_price;type:numeric(12,2)"`
	FlashEndsAt  *time.Time          `gorm:"column:flash_ends_at"`
	Images       pq.StringArray      `gorm:"column:images;type:text[]"`
	Variants     types.VariantGroups `gorm:"column:variants;type:jsonb;serializer:json"`
	Stock        int                 `gorm:"column:stock;not null;default:0"`
	Sales        int                 `gorm:"column:sales;not null;default:0"`
	CreatedAt    time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

func (p *Product) BeforeCreate(_ *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// FlashActive reports whether the flash deal applies at the given instant:
// a flash price is set and the window has not elapsed.
func (p *Product) FlashActive(now time.Time) bool {
	if p.FlashPrice == nil {
		return false
	}
	if p.FlashEndsAt == nil {
		return true
	}
	return p.FlashEndsAt.After(now)
}
