package controllers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/zenmart-labs/zenmart-backend/api/middleware"
	"github.com/zenmart-labs/zenmart-backend/api/responses"
	"github.com/zenmart-labs/zenmart-backend/api/validators"
	cartsvc "github.com/zenmart-labs/zenmart-backend/internal/cart"
	"github.com/zenmart-labs/zenmart-backend/pkg/enums"
	pkgerrors "github.com/zenmart-labs/zenmart-backend/pkg/errors"
	"github.com/zenmart-labs/zenmart-backend/pkg/logger"
	"github.com/zenmart-labs/zenmart-backend/pkg/types"
)

// cartUserID resolves the {userId} path segment and enforces ownership:
// a user may only touch their own cart, admins may touch any cart.
func cartUserID(r *http.Request) (uuid.UUID, error) {
	authed, err := authedUserID(r)
	if err != nil {
		return uuid.Nil, err
	}
	target, err := pathID(r, "userId")
	if err != nil {
		return uuid.Nil, err
	}
	if target != authed && middleware.RoleFromContext(r.Context()) != enums.UserRoleAdmin.String() {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeForbidden, "cannot access another user's cart")
	}
	return target, nil
}

// CartRead returns the cart view for the user in the path.
func CartRead(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		userID, err := cartUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.ReadCart(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, responses.Payload{"cart": view})
	}
}

type addCartLineRequest struct {
	ProductID string                 `json:"productId" validate:"required,uuid"`
	Quantity  int                    `json:"quantity"`
	Variant   types.VariantSelection `json:"variants"`
	Price     *decimal.Decimal       `json:"price"`
}

func (p addCartLineRequest) toInput() (cartsvc.AddLineItemInput, error) {
	productID, err := parseUUID(p.ProductID, "product id")
	if err != nil {
		return cartsvc.AddLineItemInput{}, err
	}
	return cartsvc.AddLineItemInput{
		ProductID: productID,
		Quantity:  p.Quantity,
		Variant:   p.Variant,
		Price:     p.Price,
	}, nil
}

// CartAdd merges a line into the authenticated user's cart, creating the
// cart on first use. A non-positive quantity falls back to 1.
func CartAdd(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		userID, err := authedUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload addCartLineRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.AddLineItem(r.Context(), userID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, responses.Payload{"cart": view})
	}
}

type updateCartLineRequest struct {
	Quantity int                    `json:"quantity" validate:"required,min=1"`
	Variant  types.VariantSelection `json:"variants"`
}

// CartUpdate sets the absolute quantity of the line identified by the
// path product id and the variant in the body.
func CartUpdate(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		userID, err := cartUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := pathID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateCartLineRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.UpdateLineItem(r.Context(), userID, cartsvc.UpdateLineItemInput{
			ProductID: productID,
			Quantity:  payload.Quantity,
			Variant:   payload.Variant,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, responses.Payload{"cart": view})
	}
}

type removeCartLineRequest struct {
	Variant types.VariantSelection `json:"variants"`
}

// CartRemove deletes the matching line. The variant selection rides in an
// optional JSON body; an absent body targets the variant-free line.
func CartRemove(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		userID, err := cartUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := pathID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload removeCartLineRequest
		if r.ContentLength != 0 {
			if err := validators.DecodeJSONBody(r, &payload); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}

		view, err := svc.RemoveLineItem(r.Context(), userID, productID, payload.Variant)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, responses.Payload{"cart": view})
	}
}
