package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/zenmart-labs/zenmart-backend/pkg/db/models"
	pkgerrors "github.com/zenmart-labs/zenmart-backend/pkg/errors"
	"github.com/zenmart-labs/zenmart-backend/pkg/types"
)

// ProductLoader is the slice of the catalog the cart needs.
type ProductLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error)
}

// Service exposes cart operations keyed by the owning user.
type Service interface {
	AddLineItem(ctx context.Context, userID uuid.UUID, input AddLineItemInput) (*View, error)
	UpdateLineItem(ctx context.Context, userID uuid.UUID, input UpdateLineItemInput) (*View, error)
	RemoveLineItem(ctx context.Context, userID uuid.UUID, productID uuid.UUID, variant types.VariantSelection) (*View, error)
	ReadCart(ctx context.Context, userID uuid.UUID) (*View, error)
}

type service struct {
	repo     Repository
	products ProductLoader
	now      func() time.Time
}

// NewService builds a cart service backed by the provided stack.
func NewService(repo Repository, products ProductLoader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	return &service{repo: repo, products: products, now: time.Now}, nil
}

// AddLineItemInput captures one add-to-cart request. Price, when positive,
// overrides the resolved product price (trusted storefront pricing).
type AddLineItemInput struct {
	ProductID uuid.UUID
	Quantity  int
	Variant   types.VariantSelection
	Price     *decimal.Decimal
}

// UpdateLineItemInput sets the absolute quantity of an existing line.
type UpdateLineItemInput struct {
	ProductID uuid.UUID
	Quantity  int
	Variant   types.VariantSelection
}

// AddLineItem merges the quantity into an existing line with the same product
// and variant signature, or creates a new line. Both paths refresh the line's
// price snapshot. A non-positive quantity defaults to 1.
func (s *service) AddLineItem(ctx context.Context, userID uuid.UUID, input AddLineItemInput) (*View, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if input.ProductID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if input.Quantity < 1 {
		input.Quantity = 1
	}

	product, err := s.loadProduct(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}

	cart, err := s.repo.FindOrCreateByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart")
	}

	price := ResolveEffectivePrice(input.Price, product)
	signature := input.Variant.Signature()
	now := s.now()

	existing, err := s.repo.FindItem(ctx, cart.ID, input.ProductID, signature)
	switch {
	case err == nil:
		existing.Quantity += input.Quantity
		existing.Price = price
		existing.PricedAt = now
		if _, err := s.repo.SaveItem(ctx, existing); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update cart line")
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		item := &models.CartItem{
			CartID:           cart.ID,
			ProductID:        input.ProductID,
			VariantSignature: signature,
			Variant:          input.Variant,
			Quantity:         input.Quantity,
			Price:            price,
			PricedAt:         now,
		}
		if _, err := s.repo.CreateItem(ctx, item); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create cart line")
		}
	default:
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "find cart line")
	}

	return s.ReadCart(ctx, userID)
}

// UpdateLineItem replaces the quantity of an existing line and re-resolves
// the price snapshot from the product.
func (s *service) UpdateLineItem(ctx context.Context, userID uuid.UUID, input UpdateLineItemInput) (*View, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if input.ProductID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if input.Quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	cart, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart")
	}

	signature := input.Variant.Signature()
	item, err := s.repo.FindItem(ctx, cart.ID, input.ProductID, signature)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart line not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "find cart line")
	}

	product, err := s.loadProduct(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}

	item.Quantity = input.Quantity
	item.Price = ResolveEffectivePrice(nil, product)
	item.PricedAt = s.now()
	if _, err := s.repo.SaveItem(ctx, item); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update cart line")
	}

	return s.ReadCart(ctx, userID)
}

// RemoveLineItem deletes the matching line. Removing an absent line is a no-op.
func (s *service) RemoveLineItem(ctx context.Context, userID uuid.UUID, productID uuid.UUID, variant types.VariantSelection) (*View, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if productID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}

	cart, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return s.emptyView(), nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart")
	}

	if err := s.repo.DeleteItem(ctx, cart.ID, productID, variant.Signature()); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "remove cart line")
	}

	return s.ReadCart(ctx, userID)
}

// ReadCart renders the cart, omitting lines whose product has been deleted.
// The underlying rows are left untouched.
func (s *service) ReadCart(ctx context.Context, userID uuid.UUID) (*View, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}

	cart, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return s.emptyView(), nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart")
	}

	productsByID, err := s.loadProducts(ctx, cart)
	if err != nil {
		return nil, err
	}

	return buildView(cart, productsByID), nil
}

func (s *service) loadProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
	}
	return product, nil
}

func (s *service) loadProducts(ctx context.Context, cart *models.Cart) (map[uuid.UUID]*models.Product, error) {
	ids := make([]uuid.UUID, 0, len(cart.Items))
	for i := range cart.Items {
		ids = append(ids, cart.Items[i].ProductID)
	}
	products, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load products")
	}
	byID := make(map[uuid.UUID]*models.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}
	return byID, nil
}

func (s *service) emptyView() *View {
	return &View{Items: []LineView{}, Total: decimal.Zero}
}
