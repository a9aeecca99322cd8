package router

import (
	"github.com/ManuelReschke/PayLedger/app/controllers"
	"github.com/ManuelReschke/PayLedger/internal/pkg/middleware"
	"github.com/ManuelReschke/PayLedger/internal/pkg/session"

	"github.com/gofiber/fiber/v2"
)

const zpayWebhookPath = "/api/checkout/providers/zpay/webhook"

type HttpRouter struct {
}

func (h HttpRouter) InstallRouter(app *fiber.App) {
	// init session
	store := session.NewSessionStore()

	// Apply UserContext middleware globally as first middleware
	app.Use(middleware.UserContextMiddleware(store))

	// Provider callbacks are registered ahead of the rate limited API group.
	bc := controllers.GetBillingController()
	app.Post(zpayWebhookPath, bc.HandlePaymentNotification)
	app.Get(zpayWebhookPath, bc.HandlePaymentReturn)
}

func NewHttpRouter() *HttpRouter {
	return &HttpRouter{}
}
