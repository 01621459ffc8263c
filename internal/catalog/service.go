package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/zenmart-labs/zenmart-backend/pkg/db/models"
	pkgerrors "github.com/zenmart-labs/zenmart-backend/pkg/errors"
	"github.com/zenmart-labs/zenmart-backend/pkg/pagination"
	"github.com/zenmart-labs/zenmart-backend/pkg/types"
)

// Service exposes catalog read and admin write operations.
type Service interface {
	GetProduct(ctx context.Context, id uuid.UUID) (*ProductDTO, error)
	ListProducts(ctx context.Context, filter ListFilter) (*ProductPage, error)
	ListFlashDeals(ctx context.Context) ([]ProductDTO, error)
	ListCategories(ctx context.Context) ([]string, error)
	CreateProduct(ctx context.Context, input ProductInput) (*ProductDTO, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, input ProductInput) (*ProductDTO, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo Repository
	now  func() time.Time
}

// NewService builds a catalog service backed by the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &service{repo: repo, now: time.Now}, nil
}

// ProductInput captures the payload for creating or replacing a product.
type ProductInput struct {
	Name         string
	Description  string
	Category     string
	MainCategory string
	Subcategory  string
	Brand        *string
	Price        decimal.Decimal
	FlashPrice   *decimal.Decimal
	FlashEndsAt  *time.Time
	Images       []string
	Variants     types.VariantGroups
	Stock        int
}

func (in ProductInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "product name is required")
	}
	if strings.TrimSpace(in.Category) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "product category is required")
	}
	if in.Price.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "product price must be non-negative")
	}
	if in.FlashPrice != nil && in.FlashPrice.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "flash price must be non-negative")
	}
	if in.Stock < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "stock must be non-negative")
	}
	return nil
}

func (s *service) GetProduct(ctx context.Context, id uuid.UUID) (*ProductDTO, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
	}
	dto := toProductDTO(product, s.now())
	return &dto, nil
}

func (s *service) ListProducts(ctx context.Context, filter ListFilter) (*ProductPage, error) {
	if filter.Sort != "" && !filter.Sort.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown sort option")
	}

	products, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list products")
	}

	now := s.now()
	dtos := make([]ProductDTO, 0, len(products))
	for i := range products {
		dtos = append(dtos, toProductDTO(&products[i], now))
	}

	return &ProductPage{
		Products:   dtos,
		Total:      total,
		Page:       pagination.NormalizePage(filter.Page.Page),
		TotalPages: pagination.TotalPages(total, filter.Page.Limit),
	}, nil
}

func (s *service) ListFlashDeals(ctx context.Context) ([]ProductDTO, error) {
	now := s.now()
	products, err := s.repo.ListFlashDeals(ctx, now)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list flash deals")
	}
	dtos := make([]ProductDTO, 0, len(products))
	for i := range products {
		dtos = append(dtos, toProductDTO(&products[i], now))
	}
	return dtos, nil
}

func (s *service) ListCategories(ctx context.Context) ([]string, error) {
	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list categories")
	}
	return categories, nil
}

func (s *service) CreateProduct(ctx context.Context, input ProductInput) (*ProductDTO, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	product := &models.Product{
		Name:         strings.TrimSpace(input.Name),
		Description:  input.Description,
		Category:     strings.TrimSpace(input.Category),
		MainCategory: strings.TrimSpace(input.MainCategory),
		Subcategory:  strings.TrimSpace(input.Subcategory),
		Brand:        input.Brand,
		Price:        input.Price,
		FlashPrice:   input.FlashPrice,
		FlashEndsAt:  input.FlashEndsAt,
		Images:       pq.StringArray(input.Images),
		Variants:     input.Variants,
		Stock:        input.Stock,
	}

	created, err := s.repo.Create(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create product")
	}
	dto := toProductDTO(created, s.now())
	return &dto, nil
}

func (s *service) UpdateProduct(ctx context.Context, id uuid.UUID, input ProductInput) (*ProductDTO, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if err := input.validate(); err != nil {
		return nil, err
	}

	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
	}

	product.Name = strings.TrimSpace(input.Name)
	product.Description = input.Description
	product.Category = strings.TrimSpace(input.Category)
	product.MainCategory = strings.TrimSpace(input.MainCategory)
	product.Subcategory = strings.TrimSpace(input.Subcategory)
	product.Brand = input.Brand
	product.Price = input.Price
	product.FlashPrice = input.FlashPrice
	product.FlashEndsAt = input.FlashEndsAt
	product.Images = pq.StringArray(input.Images)
	product.Variants = input.Variants
	product.Stock = input.Stock

	updated, err := s.repo.Update(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update product")
	}
	dto := toProductDTO(updated, s.now())
	return &dto, nil
}

func (s *service) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete product")
	}
	return nil
}
