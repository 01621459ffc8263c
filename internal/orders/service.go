package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/zenmart-labs/zenmart-backend/internal/cart"
	"github.com/zenmart-labs/zenmart-backend/pkg/db/models"
	"github.com/zenmart-labs/zenmart-backend/pkg/enums"
	pkgerrors "github.com/zenmart-labs/zenmart-backend/pkg/errors"
	"github.com/zenmart-labs/zenmart-backend/pkg/pagination"
	"github.com/zenmart-labs/zenmart-backend/pkg/types"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// CatalogAccess joins the catalog reads and writes checkout needs.
type CatalogAccess interface {
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error)
	IncrementSales(ctx context.Context, id uuid.UUID, qty int) error
}

// Actor identifies the caller for ownership checks.
type Actor struct {
	UserID uuid.UUID
	Role   enums.UserRole
}

func (a Actor) isAdmin() bool {
	return a.Role == enums.UserRoleAdmin
}

// Service exposes order placement and lifecycle operations.
type Service interface {
	PlaceOrder(ctx context.Context, userID uuid.UUID, input PlaceOrderInput) (*OrderDTO, error)
	GetOrder(ctx context.Context, actor Actor, orderID uuid.UUID) (*OrderDTO, error)
	ListMine(ctx context.Context, userID uuid.UUID) ([]OrderDTO, error)
	ListAll(ctx context.Context, page pagination.Params) (*OrderPage, error)
	UpdateStatus(ctx context.Context, orderID uuid.UUID, status enums.OrderStatus) (*OrderDTO, error)
	Cancel(ctx context.Context, actor Actor, orderID uuid.UUID) (*OrderDTO, error)
	Delete(ctx context.Context, orderID uuid.UUID) error
	MarkPaymentSuccess(ctx context.Context, actor Actor, orderID uuid.UUID) (*OrderDTO, error)
}

type service struct {
	repo           Repository
	cartRepo       cart.Repository
	catalog        CatalogAccess
	catalogTx      func(tx *gorm.DB) CatalogAccess
	tx             txRunner
	defaultCountry string
	now            func() time.Time
}

// NewService builds an orders service backed by the provided stack.
// catalogTx rebinds the catalog access inside a transaction; it may be nil
// when catalog writes do not need to join the checkout transaction.
func NewService(repo Repository, cartRepo cart.Repository, catalogAccess CatalogAccess, catalogTx func(tx *gorm.DB) CatalogAccess, tx txRunner, defaultCountry string) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if cartRepo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if catalogAccess == nil {
		return nil, fmt.Errorf("catalog access required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if defaultCountry == "" {
		defaultCountry = "India"
	}
	return &service{
		repo:           repo,
		cartRepo:       cartRepo,
		catalog:        catalogAccess,
		catalogTx:      catalogTx,
		tx:             tx,
		defaultCountry: defaultCountry,
		now:            time.Now,
	}, nil
}

// PlaceOrderInput captures the checkout payload.
type PlaceOrderInput struct {
	ShippingAddress types.Address
	PaymentMethod   enums.PaymentMethod
}

// PlaceOrder materializes the user's cart into an immutable order and clears
// the cart. The order insert and the cart clear commit in one transaction;
// a failure on either side leaves both untouched.
func (s *service) PlaceOrder(ctx context.Context, userID uuid.UUID, input PlaceOrderInput) (*OrderDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if input.PaymentMethod == "" {
		input.PaymentMethod = enums.PaymentMethodCOD
	}
	if !input.PaymentMethod.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown payment method")
	}
	if field := input.ShippingAddress.FirstMissingField(); field != "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("%s is required", field)).
			WithDetails(map[string]string{"field": field})
	}
	address := input.ShippingAddress.WithDefaultCountry(s.defaultCountry)

	userCart, err := s.cartRepo.FindByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeEmptyCart, "cart is empty")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart")
	}
	if len(userCart.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeEmptyCart, "cart is empty")
	}

	productsByID, err := s.loadProducts(ctx, userCart)
	if err != nil {
		return nil, err
	}

	items := make([]models.OrderItem, 0, len(userCart.Items))
	total := decimal.Zero
	for i := range userCart.Items {
		line := &userCart.Items[i]
		product, ok := productsByID[line.ProductID]
		if !ok || product == nil {
			continue
		}
		price := cart.ResolveCheckoutPrice(line.Price, product)
		if !price.IsPositive() {
			continue
		}
		image := ""
		if len(product.Images) > 0 {
			image = product.Images[0]
		}
		items = append(items, models.OrderItem{
			ProductID: line.ProductID,
			Name:      product.Name,
			Image:     image,
			Variant:   line.Variant,
			Quantity:  line.Quantity,
			Price:     price,
		})
		total = total.Add(price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	if len(items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeEmptyCart, "cart has no purchasable items")
	}

	paymentStatus := enums.PaymentStatusPaid
	if input.PaymentMethod == enums.PaymentMethodCOD {
		paymentStatus = enums.PaymentStatusPending
	}

	order := &models.Order{
		UserID:          userID,
		Items:           items,
		ShippingAddress: address,
		PaymentMethod:   input.PaymentMethod,
		PaymentStatus:   paymentStatus,
		Status:          enums.OrderStatusPending,
		TotalAmount:     total,
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if _, err := s.repo.WithTx(tx).Create(ctx, order); err != nil {
			return fmt.Errorf("create order: %w", err)
		}
		if s.catalogTx != nil {
			recorder := s.catalogTx(tx)
			for i := range items {
				if err := recorder.IncrementSales(ctx, items[i].ProductID, items[i].Quantity); err != nil {
					return fmt.Errorf("record sales: %w", err)
				}
			}
		}
		if err := s.cartRepo.WithTx(tx).ClearItems(ctx, userCart.ID); err != nil {
			return fmt.Errorf("clear cart: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "place order")
	}

	dto := toOrderDTO(order)
	return &dto, nil
}

// GetOrder returns the order when the actor owns it or is an admin.
func (s *service) GetOrder(ctx context.Context, actor Actor, orderID uuid.UUID) (*OrderDTO, error) {
	order, err := s.findOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != actor.UserID && !actor.isAdmin() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "not your order")
	}
	dto := toOrderDTO(order)
	return &dto, nil
}

func (s *service) ListMine(ctx context.Context, userID uuid.UUID) ([]OrderDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	orders, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list orders")
	}
	dtos := make([]OrderDTO, 0, len(orders))
	for i := range orders {
		dtos = append(dtos, toOrderDTO(&orders[i]))
	}
	return dtos, nil
}

func (s *service) ListAll(ctx context.Context, page pagination.Params) (*OrderPage, error) {
	orders, total, err := s.repo.ListAll(ctx, page)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list orders")
	}
	dtos := make([]OrderDTO, 0, len(orders))
	for i := range orders {
		dtos = append(dtos, toOrderDTO(&orders[i]))
	}
	return &OrderPage{
		Orders:     dtos,
		Total:      total,
		Page:       pagination.NormalizePage(page.Page),
		TotalPages: pagination.TotalPages(total, page.Limit),
	}, nil
}

// UpdateStatus overwrites the fulfillment status. Any valid status may be set
// from any other; no transition graph is enforced.
func (s *service) UpdateStatus(ctx context.Context, orderID uuid.UUID, status enums.OrderStatus) (*OrderDTO, error) {
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown order status")
	}
	order, err := s.findOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	order.Status = status
	if _, err := s.repo.Save(ctx, order); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update order")
	}
	dto := toOrderDTO(order)
	return &dto, nil
}

// Cancel sets the order to Cancelled unconditionally. Owners and admins only.
func (s *service) Cancel(ctx context.Context, actor Actor, orderID uuid.UUID) (*OrderDTO, error) {
	order, err := s.findOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != actor.UserID && !actor.isAdmin() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "not your order")
	}

	order.Status = enums.OrderStatusCancelled
	if _, err := s.repo.Save(ctx, order); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "cancel order")
	}
	dto := toOrderDTO(order)
	return &dto, nil
}

// Delete removes the order and its items permanently.
func (s *service) Delete(ctx context.Context, orderID uuid.UUID) error {
	if orderID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	if err := s.repo.Delete(ctx, orderID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete order")
	}
	return nil
}

// MarkPaymentSuccess records a completed payment: payment status Paid,
// fulfillment moves to Processing.
func (s *service) MarkPaymentSuccess(ctx context.Context, actor Actor, orderID uuid.UUID) (*OrderDTO, error) {
	order, err := s.findOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != actor.UserID && !actor.isAdmin() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "not your order")
	}

	order.PaymentStatus = enums.PaymentStatusPaid
	order.Status = enums.OrderStatusProcessing
	if _, err := s.repo.Save(ctx, order); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mark payment")
	}
	dto := toOrderDTO(order)
	return &dto, nil
}

func (s *service) findOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order")
	}
	return order, nil
}

func (s *service) loadProducts(ctx context.Context, userCart *models.Cart) (map[uuid.UUID]*models.Product, error) {
	ids := make([]uuid.UUID, 0, len(userCart.Items))
	for i := range userCart.Items {
		ids = append(ids, userCart.Items[i].ProductID)
	}
	products, err := s.catalog.FindByIDs(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load products")
	}
	byID := make(map[uuid.UUID]*models.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}
	return byID, nil
}
