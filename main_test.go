package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahmedanwarabdulaziz/ASC-sub000/internal/config"
	"github.com/ahmedanwarabdulaziz/ASC-sub000/internal/container"
	"github.com/ahmedanwarabdulaziz/ASC-sub000/internal/domain"
	"github.com/ahmedanwarabdulaziz/ASC-sub000/pkg/logger"
)

func TestSetupRouter(t *testing.T) {
	cfg := &config.Config{
		Environment:    "test",
		DatabaseDriver: config.DriverSQLite,
		SQLitePath:     filepath.Join(t.TempDir(), "canvass.sqlite"),
		JWTSecret:      "secret",
		RateLimit:      "100-M",
	}
	c, err := container.New(context.Background(), cfg, logger.Nop())
	require.NoError(t, err)
	defer c.Close()

	require.NoError(t, c.Repos.Actor.Create(context.Background(), &domain.Actor{
		ID: "admin", Role: domain.RoleAdmin, ShortCode: "ADM", Name: "Ada",
	}))
	token, err := c.Services.Auth.IssueToken("admin", time.Hour)
	require.NoError(t, err)

	router, err := setupRouter(c)
	require.NoError(t, err)

	tests := []struct {
		name     string
		path     string
		token    string
		wantCode int
	}{
		{name: "health", path: "/health", wantCode: http.StatusOK},
		{name: "metrics", path: "/metrics", wantCode: http.StatusOK},
		{name: "api without token", path: "/api/v1/me", wantCode: http.StatusUnauthorized},
		{name: "api with token", path: "/api/v1/me", token: token, wantCode: http.StatusOK},
		{name: "unknown route", path: "/nowhere", wantCode: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code, rec.Body.String())
			assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
		})
	}
}

func TestSetupRouter_RejectsBadRateLimit(t *testing.T) {
	cfg := &config.Config{
		DatabaseDriver: config.DriverSQLite,
		SQLitePath:     filepath.Join(t.TempDir(), "canvass.sqlite"),
		RateLimit:      "often",
	}
	c, err := container.New(context.Background(), cfg, logger.Nop())
	require.NoError(t, err)
	defer c.Close()

	_, err = setupRouter(c)
	assert.Error(t, err)
}
