package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

type fakeIdempotencyStore struct {
	mu      sync.Mutex
	records map[string]string
}

func newFakeIdempotencyStore() *fakeIdempotencyStore {
	return &fakeIdempotencyStore{records: map[string]string{}}
}

func (f *fakeIdempotencyStore) Get(_ context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	value, ok := f.records[key]
	if !ok {
		return "", redis.Nil
	}
	return value, nil
}

func (f *fakeIdempotencyStore) SetNX(_ context.Context, key string, value any, _ time.Duration) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.records[key]; ok {
		return false, nil
	}
	f.records[key] = value.(string)
	return true, nil
}

func (f *fakeIdempotencyStore) IdempotencyKey(scope, id string) string {
	return "zm:idempotency:" + scope + ":" + id
}

func (f *fakeIdempotencyStore) Del(_ context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, key := range keys {
		delete(f.records, key)
	}
	return nil
}

func checkoutRequest(body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/orders", bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestIdempotencyReplaysStoredResponse(t *testing.T) {
	store := newFakeIdempotencyStore()
	calls := 0
	handler := Idempotency(store, time.Hour, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"success":true,"order":{"id":"abc"}}`))
	}))

	first := checkoutRequest(`{"paymentMethod":"upi"}`)
	first.Header.Set("Idempotency-Key", "key-1")
	firstResp := httptest.NewRecorder()
	handler.ServeHTTP(firstResp, first)

	second := checkoutRequest(`{"paymentMethod":"upi"}`)
	second.Header.Set("Idempotency-Key", "key-1")
	secondResp := httptest.NewRecorder()
	handler.ServeHTTP(secondResp, second)

	if calls != 1 {
		t.Fatalf("expected handler invoked once, got %d", calls)
	}
	if secondResp.Code != http.StatusCreated {
		t.Fatalf("expected replayed 201 got %d", secondResp.Code)
	}
	if firstResp.Body.String() != secondResp.Body.String() {
		t.Fatalf("expected identical bodies, got %q vs %q", firstResp.Body.String(), secondResp.Body.String())
	}
}

func TestIdempotencyRejectsKeyReuseWithDifferentBody(t *testing.T) {
	store := newFakeIdempotencyStore()
	handler := Idempotency(store, time.Hour, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))

	first := checkoutRequest(`{"paymentMethod":"upi"}`)
	first.Header.Set("Idempotency-Key", "key-1")
	handler.ServeHTTP(httptest.NewRecorder(), first)

	second := checkoutRequest(`{"paymentMethod":"cod"}`)
	second.Header.Set("Idempotency-Key", "key-1")
	secondResp := httptest.NewRecorder()
	handler.ServeHTTP(secondResp, second)

	if secondResp.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d: %s", secondResp.Code, secondResp.Body.String())
	}

	var envelope struct {
		Success bool   `json:"success"`
		Code    string `json:"code"`
	}
	if err := json.Unmarshal(secondResp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Code != "IDEMPOTENCY_KEY_REUSED" {
		t.Fatalf("expected IDEMPOTENCY_KEY_REUSED got %s", envelope.Code)
	}
}

func TestIdempotencyPassesThroughWithoutKey(t *testing.T) {
	store := newFakeIdempotencyStore()
	calls := 0
	handler := Idempotency(store, time.Hour, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusCreated)
	}))

	for i := 0; i < 2; i++ {
		handler.ServeHTTP(httptest.NewRecorder(), checkoutRequest(`{"paymentMethod":"upi"}`))
	}
	if calls != 2 {
		t.Fatalf("expected both requests handled, got %d", calls)
	}
}

func TestIdempotencyIgnoresUnmatchedRoutes(t *testing.T) {
	store := newFakeIdempotencyStore()
	calls := 0
	handler := Idempotency(store, time.Hour, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/cart", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Idempotency-Key", "key-1")
	for i := 0; i < 2; i++ {
		handler.ServeHTTP(httptest.NewRecorder(), req.Clone(req.Context()))
	}
	if calls != 2 {
		t.Fatalf("expected no idempotency on unmatched route, got %d calls", calls)
	}
}
