package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/zenmart-labs/zenmart-backend/pkg/types"
)

// CartItem is one line in a cart. Line identity is the combination of
// cart, product, and canonical variant signature; adds that collide on
// that identity merge quantities instead of inserting a second row.
// Price is the effective unit price snapshot taken at add/update time.
type CartItem struct {
	ID               uuid.UUID              `gorm:"column:id;type:uuid;primaryKey"`
	CartID           uuid.UUID              `gorm:"column:cart_id;type:uuid;not null;uniqueIndex:idx_cart_line_identity"`
	ProductID        uuid.UUID              `gorm:"column:product_id;type:uuid;not null;uniqueIndex:idx_cart_line_identity"`
	VariantSignature string                 `gorm:"column:variant_signature;not null;default:'';uniqueIndex:idx_cart_line_identity"`
	Variant          types.VariantSelection `gorm:"column:variant;type:jsonb;serializer:json"`
	Quantity         int                    `gorm:"column:quantity;not null"`
	Price            decimal.Decimal        `gorm:"column:price;type:numeric(12,2);not null"`
	PricedAt         time.Time              `gorm:"column:priced_at;not null"`
	CreatedAt        time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}

func (ci *CartItem) BeforeCreate(_ *gorm.DB) error {
	if ci.ID == uuid.Nil {
		ci.ID = uuid.New()
	}
	return nil
}
