package controllers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/zenmart-labs/zenmart-backend/api/responses"
	"github.com/zenmart-labs/zenmart-backend/api/validators"
	catalogsvc "github.com/zenmart-labs/zenmart-backend/internal/catalog"
	"github.com/zenmart-labs/zenmart-backend/pkg/enums"
	pkgerrors "github.com/zenmart-labs/zenmart-backend/pkg/errors"
	"github.com/zenmart-labs/zenmart-backend/pkg/logger"
	"github.com/zenmart-labs/zenmart-backend/pkg/pagination"
	"github.com/zenmart-labs/zenmart-backend/pkg/types"
)

// ProductList handles the public catalog listing with filtering, search,
// sorting and pagination.
func ProductList(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		query := r.URL.Query()
		filter := catalogsvc.ListFilter{
			Category:     strings.TrimSpace(query.Get("category")),
			MainCategory: strings.TrimSpace(query.Get("mainCategory")),
			Subcategory:  strings.TrimSpace(query.Get("subcategory")),
			Search:       strings.TrimSpace(query.Get("search")),
			MinPrice:     decimalParam(query.Get("minPrice")),
			MaxPrice:     decimalParam(query.Get("maxPrice")),
			InStock:      query.Get("inStock") == "true",
			Sort:         enums.ProductSort(strings.TrimSpace(query.Get("sort"))),
			Page:         pageParams(r),
		}

		page, err := svc.ListProducts(r.Context(), filter)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, responses.Payload{
			"products":   page.Products,
			"total":      page.Total,
			"page":       page.Page,
			"totalPages": page.TotalPages,
		})
	}
}

// ProductGet handles a single product lookup.
func ProductGet(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		id, err := pathID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.GetProduct(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, responses.Payload{"product": product})
	}
}

// ProductFlashDeals lists products with a live flash price.
func ProductFlashDeals(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		products, err := svc.ListFlashDeals(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, responses.Payload{"products": products})
	}
}

// ProductCategories lists the distinct catalog categories.
func ProductCategories(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		categories, err := svc.ListCategories(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, responses.Payload{"categories": categories})
	}
}

type productRequest struct {
	Name         string              `json:"name" validate:"required"`
	Description  string              `json:"description"`
	Category     string              `json:"category" validate:"required"`
	MainCategory string              `json:"mainCategory"`
	Subcategory  string              `json:"subcategory"`
	Brand        *string             `json:"brand"`
	Price        decimal.Decimal     `json:"price"`
	FlashPrice   *decimal.Decimal    `json:"flashPrice"`
	FlashEndsAt  *time.Time          `json:"flashEndsAt"`
	Images       []string            `json:"images"`
	Variants     types.VariantGroups `json:"variants"`
	Stock        int                 `json:"stock" validate:"min=0"`
}

func (p productRequest) toInput() catalogsvc.ProductInput {
	return catalogsvc.ProductInput{
		Name:         p.Name,
		Description:  p.Description,
		Category:     p.Category,
		MainCategory: p.MainCategory,
		Subcategory:  p.Subcategory,
		Brand:        p.Brand,
		Price:        p.Price,
		FlashPrice:   p.FlashPrice,
		FlashEndsAt:  p.FlashEndsAt,
		Images:       p.Images,
		Variants:     p.Variants,
		Stock:        p.Stock,
	}
}

// ProductCreate handles admin product creation.
func ProductCreate(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		var payload productRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.CreateProduct(r.Context(), payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, responses.Payload{"product": product})
	}
}

// ProductUpdate handles admin product replacement.
func ProductUpdate(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		id, err := pathID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload productRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.UpdateProduct(r.Context(), id, payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, responses.Payload{"product": product})
	}
}

// ProductDelete handles admin product removal.
func ProductDelete(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		id, err := pathID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteProduct(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, responses.Payload{"deleted": true})
	}
}

func pathID(r *http.Request, name string) (uuid.UUID, error) {
	raw := chi.URLParam(r, name)
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, name+" is required")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid "+name)
	}
	return id, nil
}

func decimalParam(raw string) *decimal.Decimal {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	value, err := decimal.NewFromString(raw)
	if err != nil {
		return nil
	}
	return &value
}

func parseUUID(raw, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid "+name)
	}
	return id, nil
}

func pageParams(r *http.Request) pagination.Params {
	query := r.URL.Query()
	page, _ := strconv.Atoi(query.Get("page"))
	limit, _ := strconv.Atoi(query.Get("limit"))
	return pagination.Params{
		Page:  pagination.NormalizePage(page),
		Limit: pagination.NormalizeLimit(limit),
	}
}
