package controllers

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/ManuelReschke/PayLedger/internal/pkg/billing"
	"github.com/ManuelReschke/PayLedger/internal/pkg/metrics/counter"
	"github.com/ManuelReschke/PayLedger/internal/pkg/usercontext"
)

const (
	notificationTimeout = 15 * time.Second
	paymentResultView   = "payment_result"
	dashboardPath       = "/dashboard"
)

var billingController *BillingController

// CreateOrderRequest is the body of POST /api/v1/checkout/orders.
type CreateOrderRequest struct {
	PlanRef string `json:"plan_ref" form:"plan_ref" validate:"required,max=100"`
	PayType string `json:"pay_type" form:"pay_type" validate:"omitempty,oneof=alipay wxpay"`
}

// BillingController serves checkout, provider notifications and the
// subscription overview.
type BillingController struct {
	svc      *billing.Service
	counter  *counter.Counter
	validate *validator.Validate
}

func NewBillingController(svc *billing.Service, c *counter.Counter) *BillingController {
	return &BillingController{
		svc:      svc,
		counter:  c,
		validate: validator.New(),
	}
}

// InitializeBillingController installs the global billing controller used by the router.
func InitializeBillingController(svc *billing.Service, c *counter.Counter) {
	billingController = NewBillingController(svc, c)
}

// GetBillingController returns the global billing controller instance
func GetBillingController() *BillingController {
	return billingController
}

// HandleCreateOrder creates a pending order for the logged-in owner and
// returns the provider redirect.
func (bc *BillingController) HandleCreateOrder(c *fiber.Ctx) error {
	user := usercontext.GetUserContext(c)
	if !user.IsLoggedIn || user.OwnerID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}

	var req CreateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_request"})
	}
	if err := bc.validate.Struct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_request", "message": err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), notificationTimeout)
	defer cancel()

	order, err := bc.svc.CreateOrder(ctx, user.OwnerID, req.PlanRef, req.PayType)
	if err != nil {
		switch {
		case errors.Is(err, billing.ErrProductNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "product_not_found"})
		case errors.Is(err, billing.ErrInvalidPaymentMethod):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_payment_method"})
		default:
			log.Errorf("[Billing] Create order failed for plan %s: %v", req.PlanRef, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "order_create_failed"})
		}
	}
	return c.Status(fiber.StatusCreated).JSON(order)
}

// HandlePaymentNotification processes a server-to-server provider
// notification and answers with the literal acknowledgement token.
func (bc *BillingController) HandlePaymentNotification(c *fiber.Ctx) error {
	fields := billing.NormalizeNotification(c.Get(fiber.HeaderContentType), c.Body())
	outcome := bc.reconcile(c, fields)
	return c.Status(outcome.HTTPStatus()).SendString(outcome.Ack())
}

// HandlePaymentReturn processes the browser return, whose query carries the
// same signed fields, and renders the result page on success.
func (bc *BillingController) HandlePaymentReturn(c *fiber.Ctx) error {
	fields := billing.NormalizeQuery(string(c.Request().URI().QueryString()))
	outcome := bc.reconcile(c, fields)
	if outcome.HTTPStatus() != fiber.StatusOK {
		return c.Status(outcome.HTTPStatus()).SendString(outcome.Ack())
	}
	return c.Render(paymentResultView, fiber.Map{
		"OrderRef":    fields.Get(billing.FieldOrderRef),
		"RedirectURL": dashboardPath,
		"Settled":     outcome == billing.OutcomeSuccess,
	})
}

func (bc *BillingController) reconcile(c *fiber.Ctx, fields billing.Fields) billing.Outcome {
	ctx, cancel := context.WithTimeout(context.Background(), notificationTimeout)
	defer cancel()

	deliveryID := billing.NewDeliveryID()
	outcome := bc.svc.Reconcile(ctx, fields)
	log.Infow("payment notification processed",
		"delivery_id", deliveryID,
		"outcome", outcome.String(),
		"method", c.Method(),
		"acknowledged", outcome.Acknowledged(),
	)

	if err := bc.svc.RecordNotification(ctx, deliveryID, fields, outcome); err != nil {
		log.Warnw("payment notification audit failed", "delivery_id", deliveryID, "error", err)
	}
	if err := bc.counter.AddNotificationOutcome(ctx, outcome.String()); err != nil {
		log.Warnw("payment notification counter failed", "delivery_id", deliveryID, "error", err)
	}
	return outcome
}

// HandleUserSubscription returns the owner's purchase history and active subscription.
func (bc *BillingController) HandleUserSubscription(c *fiber.Ctx) error {
	user := usercontext.GetUserContext(c)
	if !user.IsLoggedIn || user.OwnerID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}

	overview, err := bc.svc.SubscriptionOverview(c.UserContext(), user.OwnerID)
	if err != nil {
		log.Errorf("[Billing] Subscription overview failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "subscription_lookup_failed"})
	}
	return c.JSON(overview)
}

// HandleNotificationStats returns the per-outcome notification totals.
func (bc *BillingController) HandleNotificationStats(c *fiber.Ctx) error {
	stats, err := bc.counter.NotificationOutcomes(c.UserContext())
	if err != nil {
		log.Errorf("[Billing] Reading notification counters failed: %v", err)
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "counters_unavailable"})
	}
	return c.JSON(fiber.Map{"outcomes": stats})
}
