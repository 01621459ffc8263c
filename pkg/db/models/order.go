package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/zenmart-labs/zenmart-backend/pkg/enums"
	"github.com/zenmart-labs/zenmart-backend/pkg/types"
)

// Order is an immutable materialization of a cart at checkout time.
// Items, prices, and the shipping address are snapshots; later catalog
// edits never affect a placed order.
type Order struct {
	ID              uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	UserID          uuid.UUID           `gorm:"column:user_id;type:uuid;not null;index:idx_orders_user"`
	Items           []OrderItem         `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	ShippingAddress types.Address       `gorm:"column:shipping_address;type:jsonb;serializer:json"`
	PaymentMethod   enums.PaymentMethod `gorm:"column:payment_method;not null"`
	PaymentStatus   enums.PaymentStatus `gorm:"column:payment_status;not null;default:'Pending'"`
	Status          enums.OrderStatus   `gorm:"column:status;not null;default:'Pending'"`
	TotalAmount     decimal.Decimal     `gorm:"column:total_amount;type:numeric(12,2);not null"`
	CreatedAt       time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

func (o *Order) BeforeCreate(_ *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}
