package registry

import (
	"context"
	"time"

	"github.com/freshstarthq/freshstart-backend/pkg/db"
	"github.com/freshstarthq/freshstart-backend/pkg/db/models"
	"github.com/freshstarthq/freshstart-backend/pkg/enums"
	pkgerrors "github.com/freshstarthq/freshstart-backend/pkg/errors"
	"github.com/google/uuid"
)

// itemStore is the persistence surface the service needs.
type itemStore interface {
	Create(ctx context.Context, item *models.RegistryItem) (*models.RegistryItem, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.RegistryItem, error)
	ListByProfile(ctx context.Context, profileID uuid.UUID) ([]models.RegistryItem, error)
	NextSortOrder(ctx context.Context, profileID uuid.UUID) (int, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) (*models.RegistryItem, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Claim(ctx context.Context, id uuid.UUID, name, email, message string, now time.Time) (bool, error)
}

// profileAuthorizer resolves which profile a caller may write to. Satisfied
// by the profiles service.
type profileAuthorizer interface {
	ResolveWriteTarget(ctx context.Context, callerID uuid.UUID, profileID *uuid.UUID) (*models.Profile, error)
	AssertProfileControl(ctx context.Context, callerID, profileID uuid.UUID) (*models.Profile, error)
}

// Service exposes registry item management and the public claim action.
type Service interface {
	ListItems(ctx context.Context, callerID uuid.UUID, profileID *uuid.UUID) ([]models.RegistryItem, error)
	ListPublic(ctx context.Context, profileID uuid.UUID) ([]models.RegistryItem, error)
	CreateItem(ctx context.Context, callerID uuid.UUID, input CreateItemInput) (*models.RegistryItem, error)
	UpdateItem(ctx context.Context, callerID uuid.UUID, itemID uuid.UUID, input UpdateItemInput) (*models.RegistryItem, error)
	DeleteItem(ctx context.Context, callerID uuid.UUID, itemID uuid.UUID) error
	ClaimItem(ctx context.Context, itemID uuid.UUID, input ClaimItemInput) (*models.RegistryItem, error)
}

type service struct {
	store    itemStore
	profiles profileAuthorizer
	now      func() time.Time
}

// NewService builds a registry item service.
func NewService(store itemStore, profiles profileAuthorizer) (Service, error) {
	if store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item store is required")
	}
	if profiles == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "profile authorizer is required")
	}
	return &service{store: store, profiles: profiles, now: time.Now}, nil
}

// ListItems returns the items on the caller's own registry, or on a proxy
// registry the caller controls.
func (s *service) ListItems(ctx context.Context, callerID uuid.UUID, profileID *uuid.UUID) ([]models.RegistryItem, error) {
	target, err := s.profiles.ResolveWriteTarget(ctx, callerID, profileID)
	if err != nil {
		return nil, err
	}
	rows, err := s.store.ListByProfile(ctx, target.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list registry items")
	}
	return rows, nil
}

// ListPublic returns a profile's items for visitor-facing pages. Privacy is
// enforced upstream when the profile itself is resolved.
func (s *service) ListPublic(ctx context.Context, profileID uuid.UUID) ([]models.RegistryItem, error) {
	rows, err := s.store.ListByProfile(ctx, profileID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list registry items")
	}
	return rows, nil
}

// CreateItem adds an item to the resolved target registry.
func (s *service) CreateItem(ctx context.Context, callerID uuid.UUID, input CreateItemInput) (*models.RegistryItem, error) {
	target, err := s.profiles.ResolveWriteTarget(ctx, callerID, input.ProfileID)
	if err != nil {
		return nil, err
	}
	if !input.Category.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown item category")
	}
	priority := input.Priority
	if priority == "" {
		priority = enums.PriorityWant
	}
	if !priority.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown item priority")
	}
	quantity := input.Quantity
	if quantity == 0 {
		quantity = 1
	}

	sortOrder, err := s.store.NextSortOrder(ctx, target.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "assign sort order")
	}

	item := &models.RegistryItem{
		ProfileID:            target.ID,
		Title:                input.Title,
		Description:          input.Description,
		ProductURL:           input.ProductURL,
		ImageURL:             input.ImageURL,
		AffiliateURL:         input.AffiliateURL,
		PriceCents:           input.PriceCents,
		Retailer:             input.Retailer,
		Category:             input.Category,
		Priority:             priority,
		Status:               enums.ItemAvailable,
		Quantity:             quantity,
		SortOrder:            sortOrder,
		GroupGiftTargetCents: input.GroupGiftTargetCents,
	}
	created, err := s.store.Create(ctx, item)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create registry item")
	}
	return created, nil
}

// UpdateItem applies whitelisted updates to an item the caller controls.
func (s *service) UpdateItem(ctx context.Context, callerID uuid.UUID, itemID uuid.UUID, input UpdateItemInput) (*models.RegistryItem, error) {
	item, err := s.loadControlled(ctx, callerID, itemID)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if input.Title != nil {
		updates["title"] = *input.Title
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.ProductURL != nil {
		updates["product_url"] = *input.ProductURL
	}
	if input.ImageURL != nil {
		updates["image_url"] = *input.ImageURL
	}
	if input.AffiliateURL != nil {
		updates["affiliate_url"] = *input.AffiliateURL
	}
	if input.PriceCents != nil {
		updates["price_cents"] = *input.PriceCents
	}
	if input.Retailer != nil {
		updates["retailer"] = *input.Retailer
	}
	if input.Category != nil {
		if !input.Category.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown item category")
		}
		updates["category"] = *input.Category
	}
	if input.Priority != nil {
		if !input.Priority.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown item priority")
		}
		updates["priority"] = *input.Priority
	}
	if input.Quantity != nil {
		updates["quantity"] = *input.Quantity
	}
	if input.SortOrder != nil {
		updates["sort_order"] = *input.SortOrder
	}
	if input.GroupGiftTargetCents != nil {
		updates["group_gift_target_cents"] = *input.GroupGiftTargetCents
	}

	updated, err := s.store.Update(ctx, item.ID, updates)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update registry item")
	}
	return updated, nil
}

// DeleteItem removes an item the caller controls.
func (s *service) DeleteItem(ctx context.Context, callerID uuid.UUID, itemID uuid.UUID) error {
	item, err := s.loadControlled(ctx, callerID, itemID)
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, item.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete registry item")
	}
	return nil
}

// ClaimItem marks an available item as claimed by a visitor. An item is
// claimed exactly once; repeat attempts report a conflict.
func (s *service) ClaimItem(ctx context.Context, itemID uuid.UUID, input ClaimItemInput) (*models.RegistryItem, error) {
	claimed, err := s.store.Claim(ctx, itemID, input.Name, input.Email, input.Message, s.now().UTC())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "claim registry item")
	}
	if !claimed {
		if _, err := s.store.GetByID(ctx, itemID); err != nil {
			if db.IsNotFound(err) {
				return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "registry item not found")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load registry item")
		}
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "item has already been claimed")
	}
	item, err := s.store.GetByID(ctx, itemID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load registry item")
	}
	return item, nil
}

func (s *service) loadControlled(ctx context.Context, callerID, itemID uuid.UUID) (*models.RegistryItem, error) {
	item, err := s.store.GetByID(ctx, itemID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "registry item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load registry item")
	}
	if _, err := s.profiles.AssertProfileControl(ctx, callerID, item.ProfileID); err != nil {
		return nil, err
	}
	return item, nil
}
