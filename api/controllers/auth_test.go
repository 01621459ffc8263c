package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	usersvc "github.com/zenmart-labs/zenmart-backend/internal/users"
	"github.com/zenmart-labs/zenmart-backend/pkg/enums"
	pkgerrors "github.com/zenmart-labs/zenmart-backend/pkg/errors"
)

type stubUsersService struct {
	result *usersvc.AuthResult
	user   *usersvc.UserDTO
	err    error
}

func (s *stubUsersService) Register(ctx context.Context, input usersvc.RegisterInput) (*usersvc.AuthResult, error) {
	return s.result, s.err
}

func (s *stubUsersService) Login(ctx context.Context, input usersvc.LoginInput) (*usersvc.AuthResult, error) {
	return s.result, s.err
}

func (s *stubUsersService) GetProfile(ctx context.Context, userID uuid.UUID) (*usersvc.UserDTO, error) {
	return s.user, s.err
}

func (s *stubUsersService) ListUsers(ctx context.Context) ([]usersvc.UserDTO, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []usersvc.UserDTO{}, nil
}

func (s *stubUsersService) PromoteUser(ctx context.Context, actorID, targetID uuid.UUID) (*usersvc.UserDTO, error) {
	return s.user, s.err
}

func (s *stubUsersService) DemoteUser(ctx context.Context, actorID, targetID uuid.UUID) (*usersvc.UserDTO, error) {
	return s.user, s.err
}

func (s *stubUsersService) DeleteUser(ctx context.Context, actorID, targetID uuid.UUID) error {
	return s.err
}

func TestRegisterSuccess(t *testing.T) {
	result := &usersvc.AuthResult{
		User:  usersvc.UserDTO{ID: uuid.New(), Email: "asha@example.com", Role: enums.UserRoleUser},
		Token: "signed-token",
	}
	handler := Register(&stubUsersService{result: result}, nil)

	body := []byte(`{"name":"Asha Rao","email":"asha@example.com","password":"secret-pass"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/auth/signup", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}

	var envelope struct {
		Success bool             `json:"success"`
		Token   string           `json:"token"`
		User    *usersvc.UserDTO `json:"user"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !envelope.Success {
		t.Fatal("expected success envelope")
	}
	if envelope.Token != "signed-token" {
		t.Fatalf("expected token got %q", envelope.Token)
	}
	if envelope.User == nil || envelope.User.Email != "asha@example.com" {
		t.Fatalf("unexpected user %+v", envelope.User)
	}
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	handler := Register(&stubUsersService{}, nil)

	body := []byte(`{"name":"Asha","email":"asha@example.com","password":"short"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/auth/signup", bytes.NewReader(body))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	handler := Login(&stubUsersService{err: pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")}, nil)

	body := []byte(`{"email":"asha@example.com","password":"wrong-pass"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(body))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d: %s", resp.Code, resp.Body.String())
	}

	var envelope struct {
		Success bool   `json:"success"`
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Success {
		t.Fatal("expected failure envelope")
	}
	if envelope.Code != "UNAUTHORIZED" {
		t.Fatalf("expected UNAUTHORIZED got %s", envelope.Code)
	}
	if envelope.Message != "invalid credentials" {
		t.Fatalf("unexpected message %q", envelope.Message)
	}
}

func TestProfileRequiresAuth(t *testing.T) {
	handler := Profile(&stubUsersService{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/profile", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}
