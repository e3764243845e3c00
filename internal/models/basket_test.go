package models

import (
	"testing"

	"github.com/google/uuid"
)

func TestLineSum(t *testing.T) {
	basket := Basket{
		Quantity: 3,
		Product:  &Product{Name: "Keyboard", Price: 49.99},
	}

	if got, want := basket.LineSum(), 149.97; got != want {
		t.Errorf("LineSum() = %v, want %v", got, want)
	}
}

func TestLineSumWithoutProduct(t *testing.T) {
	basket := Basket{Quantity: 2}
	if got := basket.LineSum(); got != 0 {
		t.Errorf("LineSum() without product = %v, want 0", got)
	}
}

func TestTotals(t *testing.T) {
	productA := &Product{BaseModel: BaseModel{ID: uuid.New()}, Name: "A", Price: 10.00}
	productB := &Product{BaseModel: BaseModel{ID: uuid.New()}, Name: "B", Price: 5.00}

	baskets := []Basket{
		{Product: productA, Quantity: 2},
		{Product: productB, Quantity: 1},
	}

	if got, want := TotalSum(baskets), 25.00; got != want {
		t.Errorf("TotalSum() = %v, want %v", got, want)
	}
	if got, want := TotalQuantity(baskets), 3; got != want {
		t.Errorf("TotalQuantity() = %v, want %v", got, want)
	}
}

func TestTotalsEmpty(t *testing.T) {
	if got := TotalSum(nil); got != 0 {
		t.Errorf("TotalSum(nil) = %v, want 0", got)
	}
	if got := TotalQuantity(nil); got != 0 {
		t.Errorf("TotalQuantity(nil) = %v, want 0", got)
	}
}
