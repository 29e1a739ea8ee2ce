package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/freshstarthq/freshstart-backend/api/middleware"
	"github.com/freshstarthq/freshstart-backend/internal/registry"
	"github.com/freshstarthq/freshstart-backend/pkg/db/models"
	"github.com/freshstarthq/freshstart-backend/pkg/enums"
	pkgerrors "github.com/freshstarthq/freshstart-backend/pkg/errors"
)

type stubRegistryService struct {
	item *models.RegistryItem
	err  error

	gotClaim registry.ClaimItemInput
}

func (s *stubRegistryService) ListItems(ctx context.Context, callerID uuid.UUID, profileID *uuid.UUID) ([]models.RegistryItem, error) {
	return nil, s.err
}

func (s *stubRegistryService) ListPublic(ctx context.Context, profileID uuid.UUID) ([]models.RegistryItem, error) {
	return nil, s.err
}

func (s *stubRegistryService) CreateItem(ctx context.Context, callerID uuid.UUID, input registry.CreateItemInput) (*models.RegistryItem, error) {
	return s.item, s.err
}

func (s *stubRegistryService) UpdateItem(ctx context.Context, callerID uuid.UUID, itemID uuid.UUID, input registry.UpdateItemInput) (*models.RegistryItem, error) {
	return s.item, s.err
}

func (s *stubRegistryService) DeleteItem(ctx context.Context, callerID uuid.UUID, itemID uuid.UUID) error {
	return s.err
}

func (s *stubRegistryService) ClaimItem(ctx context.Context, itemID uuid.UUID, input registry.ClaimItemInput) (*models.RegistryItem, error) {
	s.gotClaim = input
	return s.item, s.err
}

func claimRequest(t *testing.T, itemID uuid.UUID, body string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/registry-items/"+itemID.String()+"/claim", bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")

	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", itemID.String())
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestRegistryItemClaimSuccess(t *testing.T) {
	itemID := uuid.New()
	svc := &stubRegistryService{item: &models.RegistryItem{ID: itemID, Status: enums.ItemClaimed}}
	handler := RegistryItemClaim(svc, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, claimRequest(t, itemID, `{"name":"Aunt Carol","message":"So proud of you"}`))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.gotClaim.Name != "Aunt Carol" {
		t.Fatalf("expected claimant name forwarded, got %q", svc.gotClaim.Name)
	}

	var envelope struct {
		Data models.RegistryItem `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Status != enums.ItemClaimed {
		t.Fatalf("expected claimed status, got %s", envelope.Data.Status)
	}
}

func TestRegistryItemClaimConflict(t *testing.T) {
	svc := &stubRegistryService{err: pkgerrors.New(pkgerrors.CodeConflict, "item has already been claimed")}
	handler := RegistryItemClaim(svc, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, claimRequest(t, uuid.New(), `{"name":"Aunt Carol"}`))

	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", resp.Code)
	}
}

func TestRegistryItemClaimRequiresName(t *testing.T) {
	svc := &stubRegistryService{}
	handler := RegistryItemClaim(svc, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, claimRequest(t, uuid.New(), `{"message":"good luck"}`))

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestRegistryItemCreateRequiresUserContext(t *testing.T) {
	handler := RegistryItemCreate(&stubRegistryService{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/registry-items", bytes.NewReader([]byte(`{}`)))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestRegistryItemsListForwardsProfileFilter(t *testing.T) {
	svc := &stubRegistryService{}
	handler := RegistryItemsList(svc, nil)

	target := uuid.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/registry-items?profile_id="+target.String(), nil)
	req = req.WithContext(middleware.WithUserID(req.Context(), uuid.NewString()))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
}
