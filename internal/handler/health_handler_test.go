package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/cssprep-api/internal/config"
	"github.com/noah-isme/cssprep-api/internal/handler"
)

func TestHealthCheckReportsProbes(t *testing.T) {
	cfg := config.Config{AppName: "cssprep-test", AppEnv: "test"}

	healthy := fiber.New()
	healthy.Get("/health", handler.HealthCheck(cfg, map[string]handler.HealthProbe{
		"database": func(context.Context) error { return nil },
	}))
	resp, err := healthy.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	degraded := fiber.New()
	degraded.Get("/health", handler.HealthCheck(cfg, map[string]handler.HealthProbe{
		"database": func(context.Context) error { return nil },
		"redis":    func(context.Context) error { return errors.New("connection refused") },
	}))
	resp, err = degraded.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var body struct {
		Data handler.HealthResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(raw, &body))
	require.Equal(t, "degraded", body.Data.Status)
	require.Equal(t, "down", body.Data.Checks["redis"])
	require.Equal(t, "up", body.Data.Checks["database"])
	require.False(t, body.Data.AIEnabled)
}
