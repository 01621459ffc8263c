package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/zenmart-labs/zenmart-backend/pkg/types"
)

// OrderItem snapshots one purchased line: the product name and image are
// copied at checkout so the order renders even if the product is later
// edited or deleted.
type OrderItem struct {
	ID        uuid.UUID              `gorm:"column:id;type:uuid;primaryKey"`
	OrderID   uuid.UUID              `gorm:"column:order_id;type:uuid;not null;index:idx_order_items_order"`
	ProductID uuid.UUID              `gorm:"column:product_id;type:uuid;not null"`
	Name      string                 `gorm:"column:name;not null"`
	Image     string                 `gorm:"column:image"`
	Variant   types.VariantSelection `gorm:"column:variant;type:jsonb;serializer:json"`
	Quantity  int                    `gorm:"column:quantity;not null"`
	Price     decimal.Decimal        `gorm:"column:price;type:numeric(12,2);not null"`
}

func (oi *OrderItem) BeforeCreate(_ *gorm.DB) error {
	if oi.ID == uuid.Nil {
		oi.ID = uuid.New()
	}
	return nil
}
