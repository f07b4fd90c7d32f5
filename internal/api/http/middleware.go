package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"sailing-club-backend/internal/config"
	"sailing-club-backend/internal/domain"
	"sailing-club-backend/internal/logger"
	"sailing-club-backend/internal/metrics"
	"sailing-club-backend/internal/security"
)

const requestIDHeader = "X-Request-ID"

type principalKey struct{}

func withPrincipal(ctx context.Context, p domain.Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// principalFrom returns the caller set by the auth middleware. Public routes
// have none.
func principalFrom(ctx context.Context) (domain.Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(domain.Principal)
	return p, ok
}

// requestID reuses the caller's X-Request-ID or assigns a new one, echoes it
// on the response and attaches it to the request's log context.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(logger.WithRequestID(r.Context(), id)))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func routeName(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if name := route.GetName(); name != "" {
			return name
		}
	}
	return "unknown"
}

func routeTemplate(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tpl, err := route.GetPathTemplate(); err == nil {
			return tpl
		}
	}
	return r.URL.Path
}

// instrument logs every request once on completion and records it in the
// HTTP metrics.
func instrument(m *metrics.Metrics) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			started := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			elapsed := time.Since(started)
			m.ObserveHTTP(routeName(r), r.Method, rec.status, elapsed)
			logger.InfoContext(r.Context(), "HTTP request",
				"method", r.Method,
				"route", routeTemplate(r),
				"status", rec.status,
				"duration_ms", elapsed.Milliseconds(),
			)
		})
	}
}

// authenticate enforces the access level configured for the matched route.
func authenticate(tokens security.TokenManager) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			level := config.GetAccessLevel(routeName(r))
			if level == config.AccessPublic {
				next.ServeHTTP(w, r)
				return
			}

			token, ok := bearerToken(r)
			if !ok {
				writeError(w, r, domain.Unauthenticated("authorization token is not provided"))
				return
			}
			claims, err := tokens.ValidateToken(token)
			if err != nil {
				writeError(w, r, domain.Unauthenticated("invalid token: %v", err))
				return
			}
			if claims.Type != security.TokenTypeAccess {
				writeError(w, r, domain.Unauthenticated("access token required"))
				return
			}

			p := claims.Principal()
			if level == config.AccessAdmin && !p.IsAdmin() {
				writeError(w, r, domain.Forbidden("administrator role required"))
				return
			}

			ctx := logger.WithUserID(withPrincipal(r.Context(), p), p.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		return strings.TrimSpace(header[7:]), true
	}
	return "", false
}
