package http

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"growshare-backend/internal/config"
	"growshare-backend/internal/domain"
	"growshare-backend/internal/logger"
	"growshare-backend/internal/security"
	"growshare-backend/internal/service"
)

const requestIDHeader = "X-Request-ID"

type userCtxKey struct{}

// RequestID tags the request context with a request id logger, reusing the
// caller's X-Request-ID when present.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		ctx := logger.WithRequestID(r.Context(), id)
		logger.DebugContext(ctx, "→ HTTP request", "method", r.Method, "path", r.URL.Path)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

type AuthMiddleware struct {
	tokenManager security.TokenManager
	authSvc      service.AuthService
}

func NewAuthMiddleware(tm security.TokenManager, authSvc service.AuthService) *AuthMiddleware {
	return &AuthMiddleware{tokenManager: tm, authSvc: authSvc}
}

// Handler authenticates requests to routes whose security level requires an
// access token and stores the resolved user in the request context.
func (m *AuthMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route := ""
		if current := mux.CurrentRoute(r); current != nil {
			route = current.GetName()
		}
		if config.GetSecurityLevel(route) == config.SecurityPublic {
			next.ServeHTTP(w, r)
			return
		}

		ctx := r.Context()
		token := bearerToken(r)
		if token == "" {
			writeMessage(w, http.StatusUnauthorized, msgUnauthorized)
			return
		}
		claims, err := m.tokenManager.ValidateToken(token)
		if err != nil {
			logger.DebugContext(ctx, "Rejected token", "route", route, "error", err)
			writeMessage(w, http.StatusUnauthorized, msgUnauthorized)
			return
		}

		user, err := m.authSvc.ResolveUser(ctx, claims.Subject)
		if err != nil {
			if errors.Is(err, domain.ErrUserNotFound) {
				writeMessage(w, http.StatusNotFound, "user not found")
				return
			}
			writeError(ctx, w, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(ctx, userCtxKey{}, user)))
	})
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "Bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

// currentUser returns the authenticated caller. It is only nil on public routes.
func currentUser(r *http.Request) *domain.User {
	user, _ := r.Context().Value(userCtxKey{}).(*domain.User)
	return user
}
