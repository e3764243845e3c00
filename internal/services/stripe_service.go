package services

import (
	"errors"
	"log"
	"math"

	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/client"
	"github.com/stripe/stripe-go/v81/webhook"

	"github.com/example/virtumart/internal/models"
)

// ErrMissingPriceID is returned when a basket row references a product
// that was never registered with Stripe.
var ErrMissingPriceID = errors.New("product has no stripe price id")

// StripeService wraps an explicitly constructed Stripe client. The key is
// scoped to this service instead of the package-global stripe.Key.
type StripeService struct {
	api           *client.API
	webhookSecret string
}

// NewStripeService constructs a StripeService with its own API client.
func NewStripeService(secretKey, webhookSecret string) *StripeService {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &StripeService{api: api, webhookSecret: webhookSecret}
}

// RegisterProductPrice creates a Stripe product and price for a catalog
// product and returns the new price id. Prices are in USD cents.
func (s *StripeService) RegisterProductPrice(name string, price float64) (string, error) {
	prod, err := s.api.Products.New(&stripe.ProductParams{
		Name: stripe.String(name),
	})
	if err != nil {
		return "", err
	}

	pr, err := s.api.Prices.New(&stripe.PriceParams{
		Product:    stripe.String(prod.ID),
		UnitAmount: stripe.Int64(int64(math.Round(price * 100))),
		Currency:   stripe.String(string(stripe.CurrencyUSD)),
	})
	if err != nil {
		return "", err
	}

	log.Printf("[Stripe] registered price %s for product %q", pr.ID, name)
	return pr.ID, nil
}

// LineItems projects basket rows into checkout line items. Products must
// be loaded and must carry a Stripe price id.
func LineItems(baskets []models.Basket) ([]*stripe.CheckoutSessionLineItemParams, error) {
	items := make([]*stripe.CheckoutSessionLineItemParams, 0, len(baskets))
	for i := range baskets {
		b := &baskets[i]
		if b.Product == nil || b.Product.StripePriceID == "" {
			return nil, ErrMissingPriceID
		}
		items = append(items, &stripe.CheckoutSessionLineItemParams{
			Price:    stripe.String(b.Product.StripePriceID),
			Quantity: stripe.Int64(int64(b.Quantity)),
		})
	}
	return items, nil
}

// CreateCheckoutSession requests a hosted checkout session carrying the
// order id as correlation metadata.
func (s *StripeService) CreateCheckoutSession(items []*stripe.CheckoutSessionLineItemParams, orderID, successURL, cancelURL string) (*stripe.CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{
		LineItems:  items,
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(successURL),
		CancelURL:  stripe.String(cancelURL),
	}
	params.AddMetadata("order_id", orderID)

	return s.api.CheckoutSessions.New(params)
}

// ConstructWebhookEvent verifies the payload signature against the shared
// webhook secret and decodes the event.
func (s *StripeService) ConstructWebhookEvent(payload []byte, signature string) (stripe.Event, error) {
	return webhook.ConstructEvent(payload, signature, s.webhookSecret)
}
