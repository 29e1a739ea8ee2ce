package encouragements

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/freshstarthq/freshstart-backend/pkg/db/models"
	pkgerrors "github.com/freshstarthq/freshstart-backend/pkg/errors"
	"github.com/freshstarthq/freshstart-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type stubEncStore struct {
	mu   sync.Mutex
	rows []models.Encouragement
}

func (s *stubEncStore) Create(_ context.Context, enc *models.Encouragement) (*models.Encouragement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if enc.ID == uuid.Nil {
		enc.ID = uuid.New()
	}
	if enc.CreatedAt.IsZero() {
		enc.CreatedAt = time.Now().UTC()
	}
	s.rows = append(s.rows, *enc)
	return enc, nil
}

func (s *stubEncStore) ListVisible(_ context.Context, profileID uuid.UUID, cursor *pagination.Cursor, limit int) ([]models.Encouragement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var matched []models.Encouragement
	for _, row := range s.rows {
		if row.ProfileID != profileID || row.Hidden {
			continue
		}
		if cursor != nil && !row.CreatedAt.Before(cursor.CreatedAt) {
			continue
		}
		matched = append(matched, row)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	if len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

type stubProfiles struct {
	known map[uuid.UUID]bool
}

func (s *stubProfiles) GetByID(_ context.Context, id uuid.UUID) (*models.Profile, error) {
	if !s.known[id] {
		return nil, gorm.ErrRecordNotFound
	}
	return &models.Profile{ID: id}, nil
}

func TestCreateEncouragement(t *testing.T) {
	store := &stubEncStore{}
	profileID := uuid.New()
	svc, err := NewService(store, &stubProfiles{known: map[uuid.UUID]bool{profileID: true}})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	created, err := svc.Create(context.Background(), CreateInput{
		ProfileID:  profileID,
		AuthorName: "Priya",
		Message:    "rooting for you",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.AuthorName != "Priya" {
		t.Fatalf("expected author kept, got %q", created.AuthorName)
	}

	anon, err := svc.Create(context.Background(), CreateInput{
		ProfileID:   profileID,
		AuthorName:  "Priya",
		Message:     "this one is secret",
		IsAnonymous: true,
	})
	if err != nil {
		t.Fatalf("create anonymous: %v", err)
	}
	if anon.AuthorName != "" {
		t.Fatalf("expected anonymous author blanked, got %q", anon.AuthorName)
	}
}

func TestCreateEncouragementUnknownProfile(t *testing.T) {
	svc, err := NewService(&stubEncStore{}, &stubProfiles{known: map[uuid.UUID]bool{}})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	_, err = svc.Create(context.Background(), CreateInput{
		ProfileID: uuid.New(),
		Message:   "hello?",
	})
	var coded *pkgerrors.Error
	if !errors.As(err, &coded) || coded.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestListWallPagination(t *testing.T) {
	store := &stubEncStore{}
	profileID := uuid.New()
	svc, err := NewService(store, &stubProfiles{known: map[uuid.UUID]bool{profileID: true}})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	base := time.Now().UTC().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		store.rows = append(store.rows, models.Encouragement{
			ID:        uuid.New(),
			ProfileID: profileID,
			Message:   fmt.Sprintf("note %d", i),
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
	}
	// A hidden note never shows on the wall.
	store.rows = append(store.rows, models.Encouragement{
		ID:        uuid.New(),
		ProfileID: profileID,
		Message:   "moderated away",
		Hidden:    true,
		CreatedAt: base.Add(10 * time.Minute),
	})

	first, err := svc.ListWall(context.Background(), profileID, pagination.Params{Limit: 3})
	if err != nil {
		t.Fatalf("first page: %v", err)
	}
	if len(first.Encouragements) != 3 || !first.HasMore {
		t.Fatalf("expected full first page with more, got %d rows, hasMore=%v",
			len(first.Encouragements), first.HasMore)
	}
	if first.Encouragements[0].Message != "note 4" {
		t.Fatalf("expected newest first, got %q", first.Encouragements[0].Message)
	}

	second, err := svc.ListWall(context.Background(), profileID, pagination.Params{
		Limit:  3,
		Cursor: first.NextCursor,
	})
	if err != nil {
		t.Fatalf("second page: %v", err)
	}
	if len(second.Encouragements) != 2 || second.HasMore {
		t.Fatalf("expected final page of 2, got %d rows, hasMore=%v",
			len(second.Encouragements), second.HasMore)
	}
}

func TestListWallRejectsBadCursor(t *testing.T) {
	profileID := uuid.New()
	svc, err := NewService(&stubEncStore{}, &stubProfiles{known: map[uuid.UUID]bool{profileID: true}})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	_, err = svc.ListWall(context.Background(), profileID, pagination.Params{Cursor: "not-base64!"})
	var coded *pkgerrors.Error
	if !errors.As(err, &coded) || coded.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}
}
