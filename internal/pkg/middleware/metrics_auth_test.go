package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsBasicAuth(t *testing.T) {
	t.Setenv("METRICS_USER", "ops")
	t.Setenv("METRICS_PASSWORD", "s3cret")

	app := fiber.New()
	app.Get("/stats", MetricsBasicAuth(), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/stats", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	req := httptest.NewRequest("GET", "/stats", nil)
	req.SetBasicAuth("ops", "s3cret")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
}

func TestMetricsBasicAuthWithoutPassword(t *testing.T) {
	t.Setenv("METRICS_PASSWORD", "")

	app := fiber.New()
	app.Get("/stats", MetricsBasicAuth(), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})

	req := httptest.NewRequest("GET", "/stats", nil)
	req.SetBasicAuth("admin", "")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
