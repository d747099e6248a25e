package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ahmedanwarabdulaziz/ASC-sub000/internal/domain"
	apperrors "github.com/ahmedanwarabdulaziz/ASC-sub000/pkg/errors"
	"github.com/ahmedanwarabdulaziz/ASC-sub000/pkg/logger"
)

type mockAuth struct{ mock.Mock }

func (m *mockAuth) ValidateToken(ctx context.Context, token string) (string, error) {
	args := m.Called(ctx, token)
	return args.String(0), args.Error(1)
}

func (m *mockAuth) IssueToken(actorID string, ttl time.Duration) (string, error) {
	args := m.Called(actorID, ttl)
	return args.String(0), args.Error(1)
}

type mockDirectory struct{ mock.Mock }

func (m *mockDirectory) GetActor(ctx context.Context, id string) (*domain.Actor, error) {
	args := m.Called(ctx, id)
	actor, _ := args.Get(0).(*domain.Actor)
	return actor, args.Error(1)
}

func (m *mockDirectory) ListVisible(ctx context.Context, viewer *domain.Actor) ([]domain.Actor, error) {
	args := m.Called(ctx, viewer)
	return args.Get(0).([]domain.Actor), args.Error(1)
}

func (m *mockDirectory) CreateActor(ctx context.Context, creator *domain.Actor, req *domain.CreateActorRequest) (*domain.Actor, error) {
	args := m.Called(ctx, creator, req)
	actor, _ := args.Get(0).(*domain.Actor)
	return actor, args.Error(1)
}

func errorType(t *testing.T, rec *httptest.ResponseRecorder) apperrors.ErrorType {
	t.Helper()
	var body apperrors.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Error.Type
}

func TestAuth(t *testing.T) {
	leader := &domain.Actor{ID: "l1", Role: domain.RoleTeamLeader, SupervisorID: "s"}

	auth := new(mockAuth)
	auth.On("ValidateToken", mock.Anything, "good").Return("l1", nil)
	auth.On("ValidateToken", mock.Anything, "orphan").Return("gone", nil)
	auth.On("ValidateToken", mock.Anything, "broken").Return("", errors.New("bad signature"))

	dir := new(mockDirectory)
	dir.On("GetActor", mock.Anything, "l1").Return(leader, nil)
	dir.On("GetActor", mock.Anything, "gone").Return(nil, apperrors.NewNotFoundError("Actor"))

	var seen *domain.Actor
	h := RequestID()(Auth(auth, dir, logger.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = ActorFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})))

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized},
		{"empty token", "Bearer ", http.StatusUnauthorized},
		{"invalid token", "Bearer broken", http.StatusUnauthorized},
		{"unknown actor", "Bearer orphan", http.StatusUnauthorized},
		{"valid", "Bearer good", http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen = nil
			req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
			if tt.status == http.StatusUnauthorized {
				assert.Equal(t, apperrors.ErrorTypeAuthentication, errorType(t, rec))
				assert.Nil(t, seen)
			} else {
				assert.Equal(t, leader, seen)
			}
		})
	}
	auth.AssertExpectations(t)
}

func TestRequestID_PropagatesIncoming(t *testing.T) {
	var got string
	h := RequestID()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = RequestIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "abc-123", got)
	assert.Equal(t, "abc-123", rec.Header().Get("X-Request-ID"))
}

func TestRateLimit(t *testing.T) {
	mw, err := RateLimit("2-M", logger.Nop())
	require.NoError(t, err)
	h := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/summary", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
		if rec.Code == http.StatusTooManyRequests {
			assert.Equal(t, apperrors.ErrorTypeRateLimit, errorType(t, rec))
		}
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	_, err = RateLimit("lots", logger.Nop())
	assert.Error(t, err)

	passthrough, err := RateLimit("", logger.Nop())
	require.NoError(t, err)
	assert.NotNil(t, passthrough)
}

func TestCORS_Preflight(t *testing.T) {
	cfg := DefaultCORSConfig()
	cfg.AllowedOrigins = []string{"http://localhost:5173"}
	h := CORS(cfg, logger.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/summary", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPut)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/api/v1/summary", nil)
	req.Header.Set("Origin", "http://evil.example")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
