package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"movie-catalog/pkg/auth"
	"movie-catalog/pkg/utils"

	"go.uber.org/zap"
)

// TokenVerifier resolves an access token to the id of an existing user
type TokenVerifier interface {
	GetUserID(ctx context.Context, accessToken string) (int64, error)
}

// StaffChecker reports whether a user may manage the catalog
type StaffChecker interface {
	IsStaff(ctx context.Context, userID int64) (bool, error)
}

// BearerAuth requires "Authorization: Bearer <access token>" and puts the
// user id into the request context.
func BearerAuth(verifier TokenVerifier, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				utils.ResponseUnauthorized(w, "Authorization header missing")
				return
			}

			scheme, token, found := strings.Cut(authHeader, " ")
			if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
				utils.ResponseUnauthorized(w, "Invalid token format. Use: Bearer <token>")
				return
			}
			token = strings.TrimSpace(token)

			userID, err := verifier.GetUserID(r.Context(), token)
			switch {
			case err == nil:
			case errors.Is(err, auth.ErrTokenExpired):
				utils.ResponseUnauthorized(w, auth.ErrTokenExpired.Error())
				return
			case errors.Is(err, auth.ErrInvalidToken):
				utils.ResponseUnauthorized(w, auth.ErrInvalidToken.Error())
				return
			case errors.Is(err, auth.ErrInvalidCredentials):
				utils.ResponseUnauthorized(w, auth.ErrInvalidCredentials.Error())
				return
			default:
				logger.Error("Failed to verify access token", zap.Error(err))
				utils.ResponseInternalError(w, "Internal server error")
				return
			}

			ctx := utils.SetUserContext(r.Context(), userID)
			ctx = utils.SetTokenContext(ctx, token)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Staff must run after BearerAuth
func Staff(checker StaffChecker, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := utils.GetUserIDFromContext(r.Context())
			if !ok {
				utils.ResponseUnauthorized(w, "Authentication required")
				return
			}

			staff, err := checker.IsStaff(r.Context(), userID)
			if err != nil {
				logger.Error("Staff check: failed to get user",
					zap.Error(err), zap.Int64("user_id", userID))
				utils.ResponseInternalError(w, "Internal server error")
				return
			}

			if !staff {
				logger.Warn("Staff check: access denied",
					zap.Int64("user_id", userID),
					zap.String("path", r.URL.Path))
				utils.ResponseForbidden(w, "Staff access required")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
