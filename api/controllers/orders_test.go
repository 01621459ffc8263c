package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	ordersvc "github.com/zenmart-labs/zenmart-backend/internal/orders"
	"github.com/zenmart-labs/zenmart-backend/pkg/enums"
	pkgerrors "github.com/zenmart-labs/zenmart-backend/pkg/errors"
	"github.com/zenmart-labs/zenmart-backend/pkg/pagination"
)

type stubOrdersService struct {
	order      *ordersvc.OrderDTO
	page       *ordersvc.OrderPage
	err        error
	lastInput  ordersvc.PlaceOrderInput
	lastStatus enums.OrderStatus
}

func (s *stubOrdersService) PlaceOrder(ctx context.Context, userID uuid.UUID, input ordersvc.PlaceOrderInput) (*ordersvc.OrderDTO, error) {
	s.lastInput = input
	return s.order, s.err
}

func (s *stubOrdersService) GetOrder(ctx context.Context, actor ordersvc.Actor, orderID uuid.UUID) (*ordersvc.OrderDTO, error) {
	return s.order, s.err
}

func (s *stubOrdersService) ListMine(ctx context.Context, userID uuid.UUID) ([]ordersvc.OrderDTO, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []ordersvc.OrderDTO{}, nil
}

func (s *stubOrdersService) ListAll(ctx context.Context, page pagination.Params) (*ordersvc.OrderPage, error) {
	return s.page, s.err
}

func (s *stubOrdersService) UpdateStatus(ctx context.Context, orderID uuid.UUID, status enums.OrderStatus) (*ordersvc.OrderDTO, error) {
	s.lastStatus = status
	return s.order, s.err
}

func (s *stubOrdersService) Cancel(ctx context.Context, actor ordersvc.Actor, orderID uuid.UUID) (*ordersvc.OrderDTO, error) {
	return s.order, s.err
}

func (s *stubOrdersService) Delete(ctx context.Context, orderID uuid.UUID) error {
	return s.err
}

func (s *stubOrdersService) MarkPaymentSuccess(ctx context.Context, actor ordersvc.Actor, orderID uuid.UUID) (*ordersvc.OrderDTO, error) {
	return s.order, s.err
}

const checkoutBody = `{"address":{"fullName":"Asha Rao","phone":"9999999999","street":"12 MG Road","city":"Bengaluru","state":"Karnataka","postalCode":"560001"},"paymentMethod":"upi"}`

func TestOrderPlaceSuccess(t *testing.T) {
	svc := &stubOrdersService{order: &ordersvc.OrderDTO{ID: uuid.New(), Status: enums.OrderStatusPending}}
	handler := OrderPlace(svc, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodPost, "/api/orders", []byte(checkoutBody)))

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.lastInput.PaymentMethod != enums.PaymentMethodUPI {
		t.Fatalf("expected upi got %s", svc.lastInput.PaymentMethod)
	}
	if svc.lastInput.ShippingAddress.City != "Bengaluru" {
		t.Fatalf("expected city Bengaluru got %s", svc.lastInput.ShippingAddress.City)
	}
}

func TestOrderPlaceDefaultsPaymentMethodToCOD(t *testing.T) {
	svc := &stubOrdersService{order: &ordersvc.OrderDTO{ID: uuid.New(), Status: enums.OrderStatusPending}}
	handler := OrderPlace(svc, nil)

	body := []byte(`{"address":{"fullName":"Asha Rao","phone":"9999999999","street":"12 MG Road","city":"Bengaluru","state":"Karnataka","postalCode":"560001"}}`)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodPost, "/api/orders", body))

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.lastInput.PaymentMethod != enums.PaymentMethodCOD {
		t.Fatalf("expected cod got %s", svc.lastInput.PaymentMethod)
	}
}

func TestOrderPlaceEmptyCart(t *testing.T) {
	svc := &stubOrdersService{err: pkgerrors.New(pkgerrors.CodeEmptyCart, "cart is empty")}
	handler := OrderPlace(svc, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodPost, "/api/orders", []byte(checkoutBody)))

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d: %s", resp.Code, resp.Body.String())
	}

	var envelope struct {
		Success bool   `json:"success"`
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Code != "EMPTY_CART" {
		t.Fatalf("expected EMPTY_CART got %s", envelope.Code)
	}
	if envelope.Message != "cart is empty" {
		t.Fatalf("unexpected message %q", envelope.Message)
	}
}

func TestOrderPlaceRejectsUnknownPaymentMethod(t *testing.T) {
	svc := &stubOrdersService{order: &ordersvc.OrderDTO{}}
	handler := OrderPlace(svc, nil)

	body := []byte(`{"address":{"fullName":"A","phone":"1","street":"s","city":"c","state":"st","postalCode":"1"},"paymentMethod":"crypto"}`)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodPost, "/api/orders", body))

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestAdminOrderUpdateStatus(t *testing.T) {
	svc := &stubOrdersService{order: &ordersvc.OrderDTO{ID: uuid.New(), Status: enums.OrderStatusShipped}}
	handler := AdminOrderUpdateStatus(svc, nil)

	req := authedRequest(http.MethodPut, "/api/admin/orders/x/status", []byte(`{"status":"Shipped"}`))
	req = withChiParam(req, "id", uuid.NewString())
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.lastStatus != enums.OrderStatusShipped {
		t.Fatalf("expected Shipped got %s", svc.lastStatus)
	}
}

func TestAdminOrderUpdateStatusRejectsUnknownValue(t *testing.T) {
	svc := &stubOrdersService{order: &ordersvc.OrderDTO{}}
	handler := AdminOrderUpdateStatus(svc, nil)

	req := authedRequest(http.MethodPut, "/api/admin/orders/x/status", []byte(`{"status":"Lost"}`))
	req = withChiParam(req, "id", uuid.NewString())
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d: %s", resp.Code, resp.Body.String())
	}
}
