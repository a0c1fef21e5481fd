package session

import (
	"context"
	"sync"
	"time"

	"github.com/spendbook/backend/internal/auth"
	"github.com/spendbook/backend/internal/log"
	"github.com/spendbook/backend/internal/model"
	"github.com/spendbook/backend/internal/service"
)

// ProfileSession is the authoritative cache of one user's profiles plus the
// active-profile selection. The active profile, when set, is always the same
// entry as its counterpart in the cached list.
type ProfileSession struct {
	mu       sync.Mutex
	svc      *service.ProfileService
	logger   *log.Logger
	user     *auth.UserClaims
	state    State
	profiles []*model.Profile
	active   *model.Profile
	lastErr  error
}

// NewProfileSession creates an unbound profile session.
func NewProfileSession(svc *service.ProfileService, logger *log.Logger) *ProfileSession {
	return &ProfileSession{
		svc:    svc,
		logger: logger.WithComponent("profile_session"),
		state:  StateUninitialized,
	}
}

// Start binds the session to a user identity and loads their profiles. A
// load failure is recorded in the session state (previously cached profiles
// are kept) and also returned for the caller's benefit.
func (s *ProfileSession) Start(ctx context.Context, claims *auth.UserClaims) error {
	s.mu.Lock()
	s.user = claims
	s.state = StateLoading
	uid := claims.UID
	s.mu.Unlock()

	return s.load(ctx, uid)
}

// Refresh reloads the profile list for the bound user.
func (s *ProfileSession) Refresh(ctx context.Context) error {
	s.mu.Lock()
	if s.user == nil {
		s.mu.Unlock()
		return ErrSignedOut
	}
	s.state = StateLoading
	uid := s.user.UID
	s.mu.Unlock()

	return s.load(ctx, uid)
}

func (s *ProfileSession) load(ctx context.Context, uid string) error {
	profiles, err := s.svc.ListByUser(ctx, uid)

	s.mu.Lock()
	defer s.mu.Unlock()

	// Signed out (or switched identity) while the fetch was in flight.
	if s.user == nil || s.user.UID != uid {
		return nil
	}

	if err != nil {
		s.state = StateError
		s.lastErr = err
		s.logger.Error("profile load failed", "user_id", uid, "error", err)
		return err
	}

	s.state = StateReady
	s.lastErr = nil
	s.profiles = profiles

	// Re-point the active selection at the refreshed entry; fall back to the
	// first profile when the selection is gone or was never made.
	var active *model.Profile
	if s.active != nil {
		for _, p := range profiles {
			if p.ID == s.active.ID {
				active = p
				break
			}
		}
	}
	if active == nil && len(profiles) > 0 {
		active = profiles[0]
	}
	s.active = active
	return nil
}

// Reset clears the session on sign-out: no user, empty cache, no active
// profile.
func (s *ProfileSession) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.user = nil
	s.profiles = nil
	s.active = nil
	s.state = StateUninitialized
	s.lastErr = nil
}

// Create persists a new profile for the bound user and appends it to the
// cache. If the cache had no profiles before this call, the new profile
// becomes active.
func (s *ProfileSession) Create(ctx context.Context, in model.CreateProfileInput) (*model.Profile, error) {
	s.mu.Lock()
	user := s.user
	s.mu.Unlock()
	if user == nil {
		return nil, ErrSignedOut
	}

	profile, err := s.svc.Create(ctx, user.UID, in)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil || s.user.UID != user.UID {
		// Signed out mid-create; the profile is persisted but this session
		// no longer caches it.
		return profile.Clone(), nil
	}
	wasEmpty := len(s.profiles) == 0
	s.profiles = append(s.profiles, profile)
	if wasEmpty {
		s.active = profile
	}
	return profile.Clone(), nil
}

// Update merges the patch into the persisted profile and then into the
// cached entry. The active selection shares the entry, so it stays coherent.
func (s *ProfileSession) Update(ctx context.Context, profileID string, patch model.ProfilePatch) error {
	if err := s.svc.Update(ctx, profileID, patch); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.profiles {
		if p.ID == profileID {
			patch.Apply(p)
			p.UpdatedAt = time.Now().UTC()
			if s.active != nil && s.active.ID == profileID {
				s.active = p
			}
			break
		}
	}
	return nil
}

// Delete removes the persisted profile and drops it from the cache. If the
// deleted profile was active, the first remaining profile becomes active, or
// none when the cache is empty.
func (s *ProfileSession) Delete(ctx context.Context, profileID string) error {
	if err := s.svc.Delete(ctx, profileID); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	remaining := s.profiles[:0]
	for _, p := range s.profiles {
		if p.ID != profileID {
			remaining = append(remaining, p)
		}
	}
	s.profiles = remaining

	if s.active != nil && s.active.ID == profileID {
		if len(s.profiles) > 0 {
			s.active = s.profiles[0]
		} else {
			s.active = nil
		}
	}
	return nil
}

// SetActive selects a cached profile as active. Selection only changes which
// expenses are visible; it mutates no stored data.
func (s *ProfileSession) SetActive(profileID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.profiles {
		if p.ID == profileID {
			s.active = p
			return nil
		}
	}
	return ErrUnknownProfile
}

// Profiles returns a snapshot of the cached profiles.
func (s *ProfileSession) Profiles() []*model.Profile {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*model.Profile, len(s.profiles))
	for i, p := range s.profiles {
		out[i] = p.Clone()
	}
	return out
}

// Active returns a snapshot of the active profile, or nil.
func (s *ProfileSession) Active() *model.Profile {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active == nil {
		return nil
	}
	return s.active.Clone()
}

// State reports the load lifecycle state.
func (s *ProfileSession) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Err returns the last load error, or nil.
func (s *ProfileSession) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}
