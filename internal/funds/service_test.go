package funds

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/freshstarthq/freshstart-backend/pkg/db/models"
	"github.com/freshstarthq/freshstart-backend/pkg/enums"
	pkgerrors "github.com/freshstarthq/freshstart-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type stubFundStore struct {
	mu    sync.Mutex
	funds map[uuid.UUID]*models.CashFund
}

func newStubFundStore() *stubFundStore {
	return &stubFundStore{funds: map[uuid.UUID]*models.CashFund{}}
}

func (s *stubFundStore) Create(_ context.Context, fund *models.CashFund) (*models.CashFund, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if fund.ID == uuid.Nil {
		fund.ID = uuid.New()
	}
	copied := *fund
	s.funds[fund.ID] = &copied
	return fund, nil
}

func (s *stubFundStore) GetByID(_ context.Context, id uuid.UUID) (*models.CashFund, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fund, ok := s.funds[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *fund
	return &copied, nil
}

func (s *stubFundStore) ListByProfile(_ context.Context, profileID uuid.UUID, activeOnly bool) ([]models.CashFund, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var rows []models.CashFund
	for _, fund := range s.funds {
		if fund.ProfileID != profileID {
			continue
		}
		if activeOnly && !fund.IsActive {
			continue
		}
		rows = append(rows, *fund)
	}
	return rows, nil
}

func (s *stubFundStore) Update(_ context.Context, id uuid.UUID, updates map[string]any) (*models.CashFund, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fund, ok := s.funds[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	if v, ok := updates["goal_cents"]; ok {
		fund.GoalCents = v.(int64)
	}
	if v, ok := updates["is_active"]; ok {
		fund.IsActive = v.(bool)
	}
	if _, ok := updates["raised_cents"]; ok {
		return nil, errors.New("raised_cents must never be written by the API")
	}
	copied := *fund
	return &copied, nil
}

type stubAuthorizer struct {
	own map[uuid.UUID]uuid.UUID
}

func (a *stubAuthorizer) ResolveWriteTarget(_ context.Context, callerID uuid.UUID, profileID *uuid.UUID) (*models.Profile, error) {
	ownID, ok := a.own[callerID]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "profile not found")
	}
	if profileID != nil && *profileID != ownID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "not allowed to manage this registry")
	}
	return &models.Profile{ID: ownID}, nil
}

func (a *stubAuthorizer) AssertProfileControl(_ context.Context, callerID, profileID uuid.UUID) (*models.Profile, error) {
	if a.own[callerID] != profileID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "not allowed to manage this registry")
	}
	return &models.Profile{ID: profileID}, nil
}

func assertCode(t *testing.T, err error, want pkgerrors.Code) {
	t.Helper()
	var coded *pkgerrors.Error
	if !errors.As(err, &coded) {
		t.Fatalf("expected coded error, got %v", err)
	}
	if coded.Code() != want {
		t.Fatalf("expected code %s, got %s (%v)", want, coded.Code(), err)
	}
}

func TestCreateFundDefaultsActive(t *testing.T) {
	store := newStubFundStore()
	userID := uuid.New()
	profileID := uuid.New()
	svc, err := NewService(store, &stubAuthorizer{own: map[uuid.UUID]uuid.UUID{userID: profileID}})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	fund, err := svc.CreateFund(context.Background(), userID, CreateFundInput{
		Title:     "Moving truck",
		FundType:  enums.FundMoving,
		GoalCents: 50_000,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !fund.IsActive {
		t.Fatal("expected new fund to be active")
	}
	if fund.RaisedCents != 0 {
		t.Fatalf("expected raised 0, got %d", fund.RaisedCents)
	}
}

func TestCreateFundRejectsUnknownType(t *testing.T) {
	store := newStubFundStore()
	userID := uuid.New()
	svc, err := NewService(store, &stubAuthorizer{own: map[uuid.UUID]uuid.UUID{userID: uuid.New()}})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	_, err = svc.CreateFund(context.Background(), userID, CreateFundInput{
		Title:     "Mystery",
		FundType:  enums.FundType("lottery"),
		GoalCents: 10_000,
	})
	assertCode(t, err, pkgerrors.CodeValidation)
}

func TestDeactivateFundHidesItFromPublicList(t *testing.T) {
	store := newStubFundStore()
	userID := uuid.New()
	profileID := uuid.New()
	svc, err := NewService(store, &stubAuthorizer{own: map[uuid.UUID]uuid.UUID{userID: profileID}})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	fund, err := svc.CreateFund(context.Background(), userID, CreateFundInput{
		Title:     "Legal fees",
		FundType:  enums.FundLegal,
		GoalCents: 200_000,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	inactive := false
	if _, err := svc.UpdateFund(context.Background(), userID, fund.ID, UpdateFundInput{IsActive: &inactive}); err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	public, err := svc.ListPublic(context.Background(), profileID)
	if err != nil {
		t.Fatalf("public list: %v", err)
	}
	if len(public) != 0 {
		t.Fatalf("expected deactivated fund hidden, got %d rows", len(public))
	}

	all, err := svc.ListFunds(context.Background(), userID, nil)
	if err != nil {
		t.Fatalf("owner list: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("expected owner to still see the fund, got %d rows", len(all))
	}
}

func TestUpdateFundRequiresControl(t *testing.T) {
	store := newStubFundStore()
	userID := uuid.New()
	profileID := uuid.New()
	svc, err := NewService(store, &stubAuthorizer{own: map[uuid.UUID]uuid.UUID{userID: profileID}})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	fund, err := svc.CreateFund(context.Background(), userID, CreateFundInput{
		Title:     "Therapy",
		FundType:  enums.FundTherapy,
		GoalCents: 80_000,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	goal := int64(90_000)
	_, err = svc.UpdateFund(context.Background(), uuid.New(), fund.ID, UpdateFundInput{GoalCents: &goal})
	assertCode(t, err, pkgerrors.CodeForbidden)
}
