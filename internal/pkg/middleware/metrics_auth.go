package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/basicauth"

	"github.com/ManuelReschke/PayLedger/internal/pkg/env"
)

// MetricsBasicAuth guards operational endpoints with METRICS_USER/METRICS_PASSWORD.
// Without a configured password every request is rejected.
func MetricsBasicAuth() fiber.Handler {
	user := env.GetEnv("METRICS_USER", "admin")
	password := env.GetEnv("METRICS_PASSWORD", "")
	if password == "" {
		return func(c *fiber.Ctx) error {
			return c.SendStatus(fiber.StatusUnauthorized)
		}
	}
	return basicauth.New(basicauth.Config{
		Users: map[string]string{
			user: password,
		},
	})
}
