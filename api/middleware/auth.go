package middleware

import (
	"net/http"
	"strings"

	"github.com/skeldnet/cosmetics-backend/api/responses"
	"github.com/skeldnet/cosmetics-backend/pkg/accounts"
	pkgerrors "github.com/skeldnet/cosmetics-backend/pkg/errors"
	"github.com/skeldnet/cosmetics-backend/pkg/logger"
)

// Auth verifies the game client's `token:userId` authorization header
// against the account service and seeds the request context with the
// verified profile. Verification is uncached; every request round-trips.
func Auth(verifier accounts.Verifier, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := r.Header.Get("Authorization")
			if raw == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "Authentication error: Missing authorization header"))
				return
			}

			token, userID, ok := splitCredential(raw)
			if !ok {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "Authentication error: Malformed authorization header"))
				return
			}

			user, err := verifier.Authenticate(r.Context(), token, userID)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}

			ctx := WithUser(r.Context(), user)
			if logg != nil {
				ctx = logg.WithUserID(ctx, user.ClientID)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequirePerk gates a route on a named permission. Runs after Auth.
func RequirePerk(perk string, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := UserFromContext(r.Context())
			if user == nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "Authentication error: Missing authorization header"))
				return
			}
			if !user.HasPerk(perk) {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "Permissions Error: Missing perk \""+perk+"\""))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func splitCredential(raw string) (token, userID string, ok bool) {
	parts := strings.SplitN(raw, ":", 2)
	if len(parts) != 2 {
		return "", "", false
	}
	token = strings.TrimSpace(parts[0])
	userID = strings.TrimSpace(parts[1])
	if token == "" || userID == "" {
		return "", "", false
	}
	return token, userID, true
}
