package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func claimsCapture(captured **UserClaims) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if claims, ok := GetUserClaims(r.Context()); ok {
			*captured = claims
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestExtractTokenFromHeader(t *testing.T) {
	token, err := ExtractTokenFromHeader("Bearer abc123")
	require.NoError(t, err)
	assert.Equal(t, "abc123", token)

	token, err = ExtractTokenFromHeader("bearer abc123")
	require.NoError(t, err, "scheme is case-insensitive")
	assert.Equal(t, "abc123", token)

	_, err = ExtractTokenFromHeader("")
	require.Error(t, err)

	_, err = ExtractTokenFromHeader("Basic abc123")
	require.Error(t, err)

	_, err = ExtractTokenFromHeader("abc123")
	require.Error(t, err)
}

func TestRequireAuth(t *testing.T) {
	_, err := RequireAuth(context.Background())
	require.ErrorIs(t, err, ErrUnauthenticated)

	want := &UserClaims{UID: "u1"}
	got, err := RequireAuth(WithUserClaims(context.Background(), want))
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestDebugMiddleware(t *testing.T) {
	t.Run("injects claims from headers when enabled", func(t *testing.T) {
		var captured *UserClaims
		handler := DebugMiddleware(true)(claimsCapture(&captured))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Debug-User-ID", "debug-user")
		req.Header.Set("X-Debug-User-Name", "Debug User")
		handler.ServeHTTP(httptest.NewRecorder(), req)

		require.NotNil(t, captured)
		assert.Equal(t, "debug-user", captured.UID)
		assert.Equal(t, "Debug User", captured.DisplayName)
		assert.Equal(t, "debug-user@debug.local", captured.Email, "email derives from uid when absent")
	})

	t.Run("ignores headers when disabled", func(t *testing.T) {
		var captured *UserClaims
		handler := DebugMiddleware(false)(claimsCapture(&captured))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Debug-User-ID", "debug-user")
		handler.ServeHTTP(httptest.NewRecorder(), req)

		assert.Nil(t, captured)
	})
}

func TestLocalDevMiddleware(t *testing.T) {
	t.Run("fills in the fixed dev user", func(t *testing.T) {
		var captured *UserClaims
		handler := LocalDevMiddleware()(claimsCapture(&captured))

		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

		require.NotNil(t, captured)
		assert.Equal(t, "local-dev-user", captured.UID)
		assert.True(t, captured.Verified)
	})

	t.Run("defers to claims already present", func(t *testing.T) {
		var captured *UserClaims
		handler := LocalDevMiddleware()(claimsCapture(&captured))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req = req.WithContext(WithUserClaims(req.Context(), &UserClaims{UID: "impersonated"}))
		handler.ServeHTTP(httptest.NewRecorder(), req)

		require.NotNil(t, captured)
		assert.Equal(t, "impersonated", captured.UID, "debug impersonation wins over the fixed user")
	})
}
