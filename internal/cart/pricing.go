package cart

import (
	"github.com/shopspring/decimal"

	"github.com/zenmart-labs/zenmart-backend/pkg/db/models"
)

// ResolveEffectivePrice picks the unit price snapshot for a cart line.
// Precedence: a positive client-supplied price wins, then the product's
// flash price, then the canonical price. The flash window is intentionally
// not consulted here; an expired flash price still applies until checkout
// re-resolves the line.
func ResolveEffectivePrice(clientPrice *decimal.Decimal, product *models.Product) decimal.Decimal {
	if clientPrice != nil && clientPrice.IsPositive() {
		return *clientPrice
	}
	if product == nil {
		return decimal.Zero
	}
	if product.FlashPrice != nil && product.FlashPrice.IsPositive() {
		return *product.FlashPrice
	}
	return product.Price
}

// ResolveCheckoutPrice re-derives a line price at order time. The stored cart
// price wins when positive, then the flash price, then the canonical price.
func ResolveCheckoutPrice(cartPrice decimal.Decimal, product *models.Product) decimal.Decimal {
	if cartPrice.IsPositive() {
		return cartPrice
	}
	if product == nil {
		return decimal.Zero
	}
	if product.FlashPrice != nil && product.FlashPrice.IsPositive() {
		return *product.FlashPrice
	}
	return product.Price
}
