package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/zenmart-labs/zenmart-backend/api/middleware"
	cartsvc "github.com/zenmart-labs/zenmart-backend/internal/cart"
	"github.com/zenmart-labs/zenmart-backend/pkg/types"
)

type stubCartService struct {
	view    *cartsvc.View
	err     error
	lastAdd cartsvc.AddLineItemInput
}

func (s *stubCartService) AddLineItem(ctx context.Context, userID uuid.UUID, input cartsvc.AddLineItemInput) (*cartsvc.View, error) {
	s.lastAdd = input
	return s.view, s.err
}

func (s *stubCartService) UpdateLineItem(ctx context.Context, userID uuid.UUID, input cartsvc.UpdateLineItemInput) (*cartsvc.View, error) {
	return s.view, s.err
}

func (s *stubCartService) RemoveLineItem(ctx context.Context, userID uuid.UUID, productID uuid.UUID, variant types.VariantSelection) (*cartsvc.View, error) {
	return s.view, s.err
}

func (s *stubCartService) ReadCart(ctx context.Context, userID uuid.UUID) (*cartsvc.View, error) {
	return s.view, s.err
}

func authedRequestAs(userID, method, target string, body []byte) *http.Request {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, bytes.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	req.Header.Set("Content-Type", "application/json")
	ctx := middleware.WithUserID(req.Context(), userID)
	return req.WithContext(ctx)
}

func authedRequest(method, target string, body []byte) *http.Request {
	return authedRequestAs(uuid.NewString(), method, target, body)
}

func TestCartAddSuccess(t *testing.T) {
	svc := &stubCartService{view: &cartsvc.View{Items: []cartsvc.LineView{}, Total: decimal.Zero}}
	handler := CartAdd(svc, nil)

	productID := uuid.NewString()
	payload := []byte(`{"productId":"` + productID + `","quantity":2,"variants":{"Size":"M"},"price":149.5}`)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodPost, "/api/cart", payload))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}

	var envelope struct {
		Success bool            `json:"success"`
		Cart    json.RawMessage `json:"cart"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !envelope.Success {
		t.Fatal("expected success envelope")
	}
	if svc.lastAdd.Quantity != 2 {
		t.Fatalf("expected quantity 2 got %d", svc.lastAdd.Quantity)
	}
	if svc.lastAdd.Variant["Size"] != "M" {
		t.Fatalf("expected variant Size=M got %v", svc.lastAdd.Variant)
	}
	if svc.lastAdd.Price == nil || !svc.lastAdd.Price.Equal(decimal.NewFromFloat(149.5)) {
		t.Fatalf("expected price 149.5 got %v", svc.lastAdd.Price)
	}
}

func TestCartAddRejectsUnauthenticated(t *testing.T) {
	svc := &stubCartService{view: &cartsvc.View{}}
	handler := CartAdd(svc, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/cart", bytes.NewReader([]byte(`{"productId":"`+uuid.NewString()+`","quantity":1}`)))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestCartAddRejectsInvalidBody(t *testing.T) {
	svc := &stubCartService{view: &cartsvc.View{}}
	handler := CartAdd(svc, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodPost, "/api/cart", []byte(`{"quantity":0}`)))

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d: %s", resp.Code, resp.Body.String())
	}

	var envelope struct {
		Success bool   `json:"success"`
		Code    string `json:"code"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Success {
		t.Fatal("expected failure envelope")
	}
	if envelope.Code != "VALIDATION_ERROR" {
		t.Fatalf("expected VALIDATION_ERROR got %s", envelope.Code)
	}
}

func TestCartRemoveWithoutBody(t *testing.T) {
	svc := &stubCartService{view: &cartsvc.View{Items: []cartsvc.LineView{}, Total: decimal.Zero}}
	handler := CartRemove(svc, nil)

	userID := uuid.NewString()
	productID := uuid.NewString()
	req := authedRequestAs(userID, http.MethodDelete, "/api/cart/"+userID+"/"+productID, nil)
	req = withChiParam(req, "userId", userID)
	req = withChiParam(req, "productId", productID)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestCartReadRejectsForeignCart(t *testing.T) {
	svc := &stubCartService{view: &cartsvc.View{}}
	handler := CartRead(svc, nil)

	otherID := uuid.NewString()
	req := authedRequest(http.MethodGet, "/api/cart/"+otherID, nil)
	req = withChiParam(req, "userId", otherID)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d: %s", resp.Code, resp.Body.String())
	}

	var envelope struct {
		Success bool   `json:"success"`
		Code    string `json:"code"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Code != "FORBIDDEN" {
		t.Fatalf("expected FORBIDDEN got %s", envelope.Code)
	}
}

func TestCartReadAllowsAdminAccess(t *testing.T) {
	svc := &stubCartService{view: &cartsvc.View{Items: []cartsvc.LineView{}, Total: decimal.Zero}}
	handler := CartRead(svc, nil)

	otherID := uuid.NewString()
	req := authedRequest(http.MethodGet, "/api/cart/"+otherID, nil)
	req = req.WithContext(middleware.WithRole(req.Context(), "admin"))
	req = withChiParam(req, "userId", otherID)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
}
