package api

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthHandler(t *testing.T) {
	ok := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("dial tcp 10.0.0.5:5432: connection refused") }

	t.Run("healthy", func(t *testing.T) {
		h := NewHealthHandler(map[string]HealthCheck{"database": ok, "cache": ok}, nil)
		w := serve(t, http.MethodGet, "/health", "/health", h.Health, nil, "")

		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"status":"healthy"}`, w.Body.String())
	})

	t.Run("no checks", func(t *testing.T) {
		h := NewHealthHandler(nil, nil)
		w := serve(t, http.MethodGet, "/health", "/health", h.Health, nil, "")
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("failing dependency", func(t *testing.T) {
		h := NewHealthHandler(map[string]HealthCheck{"database": down, "cache": ok}, nil)
		w := serve(t, http.MethodGet, "/health", "/health", h.Health, nil, "")

		require.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.JSONEq(t, `{"status":"unhealthy","failing":["database"]}`, w.Body.String())
	})
}
