package handlers

import (
	"encoding/json"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v81"

	"github.com/example/virtumart/internal/services"
)

// WebhookHandler receives payment confirmations from Stripe.
type WebhookHandler struct {
	stripe *services.StripeService
	orders *services.OrderService
}

// NewWebhookHandler constructs WebhookHandler.
func NewWebhookHandler(stripeService *services.StripeService, orders *services.OrderService) *WebhookHandler {
	return &WebhookHandler{stripe: stripeService, orders: orders}
}

// HandleStripeWebhook verifies the payload signature and applies the paid
// transition on checkout completion. The payload is adversarial input:
// nothing is mutated before the signature check passes.
func (h *WebhookHandler) HandleStripeWebhook(c *fiber.Ctx) error {
	event, err := h.stripe.ConstructWebhookEvent(c.Body(), c.Get("Stripe-Signature"))
	if err != nil {
		log.Printf("[Webhook] signature verification failed: %v", err)
		return fiber.NewError(fiber.StatusBadRequest, "invalid payload or signature")
	}

	switch event.Type {
	case "checkout.session.completed":
		var session stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "malformed session payload")
		}

		orderID, err := uuid.Parse(session.Metadata["order_id"])
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "missing order_id metadata")
		}

		if err := h.orders.MarkPaid(c.Context(), orderID); err != nil {
			if err == services.ErrOrderNotFound {
				return fiber.NewError(fiber.StatusBadRequest, "unknown order")
			}
			return err
		}

		log.Printf("[Webhook] order %s marked paid", orderID)
		return c.SendStatus(fiber.StatusOK)
	default:
		// Deliveries for event types we don't act on are acknowledged.
		return c.SendStatus(fiber.StatusOK)
	}
}
