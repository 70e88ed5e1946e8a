// Package middleware holds the access guard gating protected routes.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/xpertlabs/xpert-account-api/internal/model"
	"github.com/xpertlabs/xpert-account-api/internal/repository"
	"github.com/xpertlabs/xpert-account-api/internal/response"
	"github.com/xpertlabs/xpert-account-api/shared/auth"
)

type contextKey struct{}

var currentUserKey = contextKey{}

const unauthorizedMessage = "invalid token or unauthorized access"

// CurrentUser returns the account the guard attached to the request
// context, or false when the request did not pass through it.
func CurrentUser(ctx context.Context) (*model.UserWithRole, bool) {
	user, ok := ctx.Value(currentUserKey).(*model.UserWithRole)
	return user, ok
}

// WithCurrentUser attaches an account to the context the way the guard
// does.
func WithCurrentUser(ctx context.Context, user *model.UserWithRole) context.Context {
	return context.WithValue(ctx, currentUserKey, user)
}

// Authenticate is the sole authorization checkpoint for protected
// operations. It validates the bearer token, loads the account joined
// with its role, and rejects with 401 when the account is missing,
// unverified or inactive. Public auth routes bypass it entirely.
func Authenticate(
	jwtAuth auth.JWTAuthenticator,
	userRepo repository.UserRepository,
	logger *zerolog.Logger,
) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")

			tokenStr, found := strings.CutPrefix(header, "Bearer ")
			if !found || tokenStr == "" {
				response.Error(w, http.StatusUnauthorized, unauthorizedMessage)
				return
			}

			claims, err := jwtAuth.ValidateToken(tokenStr)
			if err != nil {
				logger.Warn().Err(err).Msg("rejected bearer token")
				response.Error(w, http.StatusUnauthorized, unauthorizedMessage)
				return
			}

			user, err := userRepo.GetUserWithRole(r.Context(), claims.UserID)
			if err != nil {
				response.Error(w, http.StatusUnauthorized, unauthorizedMessage)
				return
			}

			if !user.IsVerified || !user.IsActive {
				response.Error(w, http.StatusUnauthorized, unauthorizedMessage)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithCurrentUser(r.Context(), user)))
		})
	}
}
