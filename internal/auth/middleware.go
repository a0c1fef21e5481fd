package auth

import (
	"net/http"
)

// Middleware returns HTTP middleware that verifies the Firebase Bearer token
// and injects the resulting user claims into the request context. Requests
// without a valid token are rejected with 401.
func Middleware(firebaseAuth *FirebaseAuth) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := ExtractTokenFromHeader(r.Header.Get("Authorization"))
			if err != nil {
				unauthorized(w)
				return
			}

			claims, err := firebaseAuth.VerifyToken(r.Context(), token)
			if err != nil {
				unauthorized(w)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUserClaims(r.Context(), claims)))
		})
	}
}

// DebugMiddleware allows impersonation via headers when auth is skipped.
// ONLY use this in development - never in production!
func DebugMiddleware(skipAuth bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if skipAuth {
				if uid := r.Header.Get("X-Debug-User-ID"); uid != "" {
					claims := &UserClaims{
						UID:         uid,
						Email:       r.Header.Get("X-Debug-User-Email"),
						DisplayName: r.Header.Get("X-Debug-User-Name"),
						Verified:    true,
					}
					if claims.Email == "" {
						claims.Email = uid + "@debug.local"
					}
					r = r.WithContext(WithUserClaims(r.Context(), claims))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// LocalDevMiddleware provides a fixed mock user for local development with
// the memory store, so no Firebase project setup is needed.
func LocalDevMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := GetUserClaims(r.Context()); !ok {
				claims := &UserClaims{
					UID:         "local-dev-user",
					Email:       "dev@localhost",
					DisplayName: "Local Dev User",
					Verified:    true,
				}
				r = r.WithContext(WithUserClaims(r.Context(), claims))
			}
			next.ServeHTTP(w, r)
		})
	}
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"unauthenticated"}`))
}
