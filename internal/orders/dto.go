package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/zenmart-labs/zenmart-backend/pkg/db/models"
	"github.com/zenmart-labs/zenmart-backend/pkg/enums"
	"github.com/zenmart-labs/zenmart-backend/pkg/types"
)

// ItemDTO is one purchased line as rendered to the client.
type ItemDTO struct {
	ProductID uuid.UUID              `json:"productId"`
	Name      string                 `json:"name"`
	Image     string                 `json:"image,omitempty"`
	Variant   types.VariantSelection `json:"variant,omitempty"`
	Quantity  int                    `json:"quantity"`
	Price     decimal.Decimal        `json:"price"`
}

// OrderDTO is the order wire representation.
type OrderDTO struct {
	ID              uuid.UUID           `json:"id"`
	UserID          uuid.UUID           `json:"userId"`
	Items           []ItemDTO           `json:"items"`
	ShippingAddress types.Address       `json:"shippingAddress"`
	PaymentMethod   enums.PaymentMethod `json:"paymentMethod"`
	PaymentStatus   enums.PaymentStatus `json:"paymentStatus"`
	Status          enums.OrderStatus   `json:"status"`
	TotalAmount     decimal.Decimal     `json:"totalAmount"`
	CreatedAt       time.Time           `json:"createdAt"`
}

// OrderPage wraps an admin listing with its pagination summary.
type OrderPage struct {
	Orders     []OrderDTO `json:"orders"`
	Total      int64      `json:"total"`
	Page       int        `json:"page"`
	TotalPages int        `json:"totalPages"`
}

func toOrderDTO(o *models.Order) OrderDTO {
	items := make([]ItemDTO, 0, len(o.Items))
	for i := range o.Items {
		item := &o.Items[i]
		items = append(items, ItemDTO{
			ProductID: item.ProductID,
			Name:      item.Name,
			Image:     item.Image,
			Variant:   item.Variant,
			Quantity:  item.Quantity,
			Price:     item.Price,
		})
	}
	return OrderDTO{
		ID:              o.ID,
		UserID:          o.UserID,
		Items:           items,
		ShippingAddress: o.ShippingAddress,
		PaymentMethod:   o.PaymentMethod,
		PaymentStatus:   o.PaymentStatus,
		Status:          o.Status,
		TotalAmount:     o.TotalAmount,
		CreatedAt:       o.CreatedAt,
	}
}
