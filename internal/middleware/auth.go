package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/ratehub/ratehub/internal/auth"
	"github.com/ratehub/ratehub/internal/model"
)

// UserResolver looks up an account by ID. Implemented by *repository.Repository.
type UserResolver interface {
	GetUserByID(ctx context.Context, id int64) (*model.User, error)
}

// AuthConfig holds configuration for the auth middleware.
type AuthConfig struct {
	Logger *slog.Logger
	Tokens *auth.TokenService
	Users  UserResolver
}

// Auth returns a middleware that authenticates requests with a bearer token.
// It extracts the token from the Authorization header, verifies signature
// and expiry, then re-resolves the subject against the user store - a
// deliberate lookup, not a cache, so a deleted account invalidates every
// token issued for it. On success a Principal is injected into the request
// context; the principal never carries the password hash.
func Auth(cfg AuthConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractBearerToken(r)
			if token == "" {
				// Missing or malformed header: reject without touching
				// the token service.
				cfg.Logger.Warn("authentication failed",
					slog.String("reason", "missing_token"),
					slog.String("ip", r.RemoteAddr),
					slog.String("endpoint", r.Method+" "+r.URL.Path),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				writeAuthError(w)
				return
			}

			claims, err := cfg.Tokens.Verify(token)
			if err != nil {
				cfg.Logger.Warn("authentication failed",
					slog.String("reason", "invalid_token"),
					slog.String("ip", r.RemoteAddr),
					slog.String("endpoint", r.Method+" "+r.URL.Path),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				writeAuthError(w)
				return
			}

			user, err := cfg.Users.GetUserByID(r.Context(), claims.UserID)
			if err != nil {
				// Account no longer exists, or the store failed. Either
				// way the request is not authenticated.
				cfg.Logger.Warn("authentication failed",
					slog.String("reason", "unknown_subject"),
					slog.Int64("user_id", claims.UserID),
					slog.String("ip", r.RemoteAddr),
					slog.String("endpoint", r.Method+" "+r.URL.Path),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				writeAuthError(w)
				return
			}

			principal := model.Principal{UserID: user.ID, Username: user.Username}

			cfg.Logger.Info("authentication successful",
				slog.Int64("user_id", principal.UserID),
				slog.String("username", principal.Username),
				slog.String("ip", r.RemoteAddr),
				slog.String("endpoint", r.Method+" "+r.URL.Path),
				slog.String("request_id", GetRequestID(r.Context())),
			)

			ctx := auth.ContextWithPrincipal(r.Context(), principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// extractBearerToken extracts the token from "Authorization: Bearer <token>".
// Returns "" for a missing or malformed header.
func extractBearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(authHeader, "Bearer ")
}

// writeAuthError writes a 401 Unauthorized response.
// Uses the same message for all auth failures to prevent enumeration.
func writeAuthError(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"Invalid or missing token","code":"UNAUTHORIZED"}`))
}
