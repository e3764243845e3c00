package services

import (
	"testing"

	"github.com/example/virtumart/internal/models"
)

func TestLineItems(t *testing.T) {
	baskets := []models.Basket{
		{Quantity: 2, Product: &models.Product{Name: "A", Price: 10.00, StripePriceID: "price_a"}},
		{Quantity: 1, Product: &models.Product{Name: "B", Price: 5.00, StripePriceID: "price_b"}},
	}

	items, err := LineItems(baskets)
	if err != nil {
		t.Fatalf("LineItems returned error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("len(items) = %d, want 2", len(items))
	}

	if *items[0].Price != "price_a" || *items[0].Quantity != 2 {
		t.Errorf("unexpected first line item: price=%s quantity=%d", *items[0].Price, *items[0].Quantity)
	}
	if *items[1].Price != "price_b" || *items[1].Quantity != 1 {
		t.Errorf("unexpected second line item: price=%s quantity=%d", *items[1].Price, *items[1].Quantity)
	}
}

func TestLineItemsMissingPriceID(t *testing.T) {
	baskets := []models.Basket{
		{Quantity: 1, Product: &models.Product{Name: "A", Price: 10.00}},
	}

	if _, err := LineItems(baskets); err != ErrMissingPriceID {
		t.Errorf("LineItems = %v, want ErrMissingPriceID", err)
	}
}

func TestLineItemsUnloadedProduct(t *testing.T) {
	baskets := []models.Basket{{Quantity: 1}}

	if _, err := LineItems(baskets); err != ErrMissingPriceID {
		t.Errorf("LineItems = %v, want ErrMissingPriceID", err)
	}
}
