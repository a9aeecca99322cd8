package router

import (
	"strconv"
	"time"

	"github.com/ManuelReschke/PayLedger/app/controllers"
	"github.com/ManuelReschke/PayLedger/internal/pkg/env"
	"github.com/ManuelReschke/PayLedger/internal/pkg/middleware"
	"github.com/ManuelReschke/PayLedger/internal/pkg/session"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

type ApiRouter struct {
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	maxRequests, err := strconv.Atoi(env.GetEnv("API_RATE_LIMIT", "30"))
	if err != nil || maxRequests <= 0 {
		maxRequests = 30
	}

	api := app.Group("/api")
	api.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
			"message": "Hello from api",
		})
	})

	// API v1 routes
	v1 := api.Group("/v1", limiter.New(limiter.Config{
		Max:        maxRequests,
		Expiration: time.Minute,
		Storage:    session.NewLimiterStorage(),
	}))

	bc := controllers.GetBillingController()
	v1.Post("/checkout/orders", middleware.RequireAPISessionAuth, bc.HandleCreateOrder)
	v1.Get("/user/subscription", middleware.RequireAPISessionAuth, bc.HandleUserSubscription)
	v1.Get("/billing/notifications/stats", middleware.MetricsBasicAuth(), bc.HandleNotificationStats)
}

func NewApiRouter() *ApiRouter {
	return &ApiRouter{}
}
