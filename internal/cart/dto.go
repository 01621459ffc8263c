package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/zenmart-labs/zenmart-backend/pkg/db/models"
	"github.com/zenmart-labs/zenmart-backend/pkg/types"
)

// LineView is one renderable cart line joined with its product.
type LineView struct {
	ProductID uuid.UUID              `json:"productId"`
	Name      string                 `json:"name"`
	Image     string                 `json:"image,omitempty"`
	Variant   types.VariantSelection `json:"variant,omitempty"`
	Quantity  int                    `json:"quantity"`
	Price     decimal.Decimal        `json:"price"`
	Subtotal  decimal.Decimal        `json:"subtotal"`
	PricedAt  time.Time              `json:"pricedAt"`
}

// View is the cart as rendered to the client. Lines whose product no longer
// exists are omitted from the view but stay in storage.
type View struct {
	CartID uuid.UUID       `json:"cartId"`
	Items  []LineView      `json:"items"`
	Total  decimal.Decimal `json:"total"`
}

func buildView(cart *models.Cart, productsByID map[uuid.UUID]*models.Product) *View {
	view := &View{
		CartID: cart.ID,
		Items:  []LineView{},
		Total:  decimal.Zero,
	}
	for i := range cart.Items {
		item := &cart.Items[i]
		product, ok := productsByID[item.ProductID]
		if !ok || product == nil {
			continue
		}
		image := ""
		if len(product.Images) > 0 {
			image = product.Images[0]
		}
		subtotal := item.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		view.Items = append(view.Items, LineView{
			ProductID: item.ProductID,
			Name:      product.Name,
			Image:     image,
			Variant:   item.Variant,
			Quantity:  item.Quantity,
			Price:     item.Price,
			Subtotal:  subtotal,
			PricedAt:  item.PricedAt,
		})
		view.Total = view.Total.Add(subtotal)
	}
	return view
}
