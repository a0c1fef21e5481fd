// Package session holds the per-user state stores: an authoritative
// in-memory cache of the user's profiles with the active-profile selection,
// and a cache of the active profile's expenses. Caches change only after the
// underlying repository call succeeds, so they always reflect
// repository-confirmed state.
package session

import "errors"

var (
	// ErrSignedOut reports a mutation attempted with no signed-in user.
	ErrSignedOut = errors.New("no signed-in user")
	// ErrNoActiveProfile reports an expense mutation attempted with no
	// active profile selected.
	ErrNoActiveProfile = errors.New("no active profile")
	// ErrUnknownProfile reports an activation request for a profile that is
	// not in the session cache.
	ErrUnknownProfile = errors.New("profile not in session cache")
)

// State describes where a session cache is in its load lifecycle.
type State int

const (
	// StateUninitialized means no user (or no active profile) is bound yet.
	StateUninitialized State = iota
	// StateLoading means a fetch is in flight.
	StateLoading
	// StateReady means the cache reflects the last successful fetch.
	StateReady
	// StateError means the last fetch failed; any previously cached data is
	// retained so the caller stays usable with stale state.
	StateError
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}
