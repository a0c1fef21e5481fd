// Package service implements the profile and expense repositories: domain
// operations over the document store, plus the aggregate statistics the
// dashboard reads.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/spendbook/backend/internal/log"
	"github.com/spendbook/backend/internal/model"
	"github.com/spendbook/backend/internal/store"
)

// ProfileService is the repository for profiles.
type ProfileService struct {
	store  store.Store
	logger *log.Logger
}

// NewProfileService creates a profile repository over the given store.
func NewProfileService(s store.Store, logger *log.Logger) *ProfileService {
	return &ProfileService{store: s, logger: logger.WithComponent("profile_service")}
}

// Create persists a new profile owned by userID and returns it.
func (s *ProfileService) Create(ctx context.Context, userID string, in model.CreateProfileInput) (*model.Profile, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	profile := &model.Profile{
		ID:        uuid.New().String(),
		Name:      in.Name,
		Type:      in.Type,
		Currency:  in.Currency,
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.store.CreateProfile(ctx, profile); err != nil {
		s.logger.Error("create profile failed", "user_id", userID, "error", err)
		return nil, fmt.Errorf("create profile: %w", err)
	}
	return profile, nil
}

// ListByUser returns every profile owned by the user.
func (s *ProfileService) ListByUser(ctx context.Context, userID string) ([]*model.Profile, error) {
	profiles, err := s.store.ListProfilesByUser(ctx, userID)
	if err != nil {
		s.logger.Error("list profiles failed", "user_id", userID, "error", err)
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	return profiles, nil
}

// Update merges the patch into the profile, stamping a fresh UpdatedAt. An
// empty patch changes nothing but the stamp.
func (s *ProfileService) Update(ctx context.Context, profileID string, patch model.ProfilePatch) error {
	if err := patch.Validate(); err != nil {
		return err
	}
	if err := s.store.UpdateProfile(ctx, profileID, patch); err != nil {
		s.logger.Error("update profile failed", "profile_id", profileID, "error", err)
		return fmt.Errorf("update profile: %w", err)
	}
	return nil
}

// Delete removes the profile and cascade-deletes its expenses. The cascade is
// not atomic: a failure partway leaves remaining expenses in place, and the
// profile is only removed once its expenses are gone.
func (s *ProfileService) Delete(ctx context.Context, profileID string) error {
	deleted, err := s.store.DeleteExpensesByProfile(ctx, profileID)
	if err != nil {
		s.logger.Error("cascade delete expenses failed", "profile_id", profileID, "error", err)
		return fmt.Errorf("delete profile expenses: %w", err)
	}
	if deleted > 0 {
		s.logger.Info("cascade deleted expenses", "profile_id", profileID, "count", deleted)
	}

	if err := s.store.DeleteProfile(ctx, profileID); err != nil {
		s.logger.Error("delete profile failed", "profile_id", profileID, "error", err)
		return fmt.Errorf("delete profile: %w", err)
	}
	return nil
}
