package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/ahmedanwarabdulaziz/ASC-sub000/internal/domain"
	"github.com/ahmedanwarabdulaziz/ASC-sub000/internal/service"
	"github.com/ahmedanwarabdulaziz/ASC-sub000/pkg/errors"
	"github.com/ahmedanwarabdulaziz/ASC-sub000/pkg/logger"
)

// ContextKey represents keys used in request context
type ContextKey string

const (
	// ActorContextKey is the key for the authenticated actor in context
	ActorContextKey ContextKey = "actor"
	// RequestIDContextKey is the key for request ID in context
	RequestIDContextKey ContextKey = "request_id"
)

// Auth creates an authentication middleware. The bearer token names an
// actor id which must exist in the directory.
func Auth(authService service.AuthService, directory service.DirectoryService, logger *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Extract token from Authorization header
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeErrorResponse(w, r, errors.NewAuthenticationError("Authorization header is required"), logger)
				return
			}

			if !strings.HasPrefix(authHeader, "Bearer ") {
				writeErrorResponse(w, r, errors.NewAuthenticationError("Invalid authorization header format"), logger)
				return
			}

			token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
			if token == "" {
				writeErrorResponse(w, r, errors.NewAuthenticationError("Token is required"), logger)
				return
			}

			ctx := r.Context()
			actorID, err := authService.ValidateToken(ctx, token)
			if err != nil {
				logger.WithError(err).Debug("Token validation failed")
				writeErrorResponse(w, r, errors.NewAuthenticationError("Invalid or expired token"), logger)
				return
			}

			actor, err := directory.GetActor(ctx, actorID)
			if err != nil {
				if errors.IsType(err, errors.ErrorTypeNotFound) {
					writeErrorResponse(w, r, errors.NewAuthenticationError("Unknown actor"), logger)
					return
				}
				writeErrorResponse(w, r, errors.As(err), logger)
				return
			}

			r = r.WithContext(WithActor(ctx, actor))
			logger.WithField("actor_id", actor.ID).Debug("Actor authenticated successfully")

			next.ServeHTTP(w, r)
		})
	}
}

// WithActor stores the authenticated actor in ctx
func WithActor(ctx context.Context, actor *domain.Actor) context.Context {
	return context.WithValue(ctx, ActorContextKey, actor)
}

// ActorFromContext returns the authenticated actor, nil when there is none
func ActorFromContext(ctx context.Context) *domain.Actor {
	actor, _ := ctx.Value(ActorContextKey).(*domain.Actor)
	return actor
}

// RequestID creates a middleware that adds a unique request ID to each request
func RequestID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := r.Header.Get("X-Request-ID")
			if requestID == "" {
				requestID = uuid.NewString()
			}

			ctx := context.WithValue(r.Context(), RequestIDContextKey, requestID)
			w.Header().Set("X-Request-ID", requestID)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequestIDFromContext returns the request id set by RequestID
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(RequestIDContextKey).(string)
	return id
}

// RequestLogger logs one line per request with status and duration
func RequestLogger(logger *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			entry := logger.WithFields(map[string]interface{}{
				"request_id":  RequestIDFromContext(r.Context()),
				"method":      r.Method,
				"path":        r.URL.Path,
				"status":      ww.Status(),
				"bytes":       ww.BytesWritten(),
				"duration_ms": time.Since(start).Milliseconds(),
			})
			if ww.Status() >= http.StatusInternalServerError {
				entry.Warn("Request completed")
				return
			}
			entry.Debug("Request completed")
		})
	}
}

// writeErrorResponse writes an error response to the client
func writeErrorResponse(w http.ResponseWriter, r *http.Request, appErr *errors.AppError, logger *logger.Logger) {
	if appErr.StatusCode >= http.StatusInternalServerError {
		logger.WithError(appErr).Error("Request error")
	}
	errors.Write(w, appErr, RequestIDFromContext(r.Context()))
}
