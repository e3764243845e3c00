package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/virtumart/internal/config"
	"github.com/example/virtumart/internal/middleware"
	"github.com/example/virtumart/internal/models"
	"github.com/example/virtumart/internal/services"
)

func newOrderApp(db *gorm.DB, cfg *config.Config) *fiber.App {
	app := fiber.New()
	handler := NewOrderHandler(db, cfg, nil)

	protected := app.Group("/api", middleware.AuthMiddleware(cfg))
	protected.Post("/checkout", handler.Checkout)
	protected.Get("/orders", handler.List)
	protected.Get("/orders/:id", handler.Get)
	protected.Put("/admin/orders/:id/status", handler.UpdateStatus)

	return app
}

func TestCheckoutRejectsEmptyBasket(t *testing.T) {
	db := newTestDB(t)
	cfg := newTestConfig()
	app := newOrderApp(db, cfg)

	_, token := createUserWithToken(t, db, cfg, "gina")

	body := map[string]interface{}{
		"first_name": "Gina",
		"last_name":  "Smith",
		"email":      "gina@example.com",
		"address":    "1 Main St",
	}
	resp := performRequest(t, app, jsonRequest(t, http.MethodPost, "/api/checkout", token, body))
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusBadRequest)
	}

	var count int64
	if err := db.Model(&models.Order{}).Count(&count).Error; err != nil {
		t.Fatalf("failed to count orders: %v", err)
	}
	if count != 0 {
		t.Errorf("orders created for empty basket: %d", count)
	}
}

func TestCheckoutRequiresContactFields(t *testing.T) {
	db := newTestDB(t)
	cfg := newTestConfig()
	app := newOrderApp(db, cfg)

	_, token := createUserWithToken(t, db, cfg, "hank")

	body := map[string]interface{}{"first_name": "Hank"}
	resp := performRequest(t, app, jsonRequest(t, http.MethodPost, "/api/checkout", token, body))
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusBadRequest)
	}
}

func TestOrderGetIsScopedToInitiator(t *testing.T) {
	db := newTestDB(t)
	cfg := newTestConfig()
	app := newOrderApp(db, cfg)

	owner, ownerToken := createUserWithToken(t, db, cfg, "ivan")
	_, otherToken := createUserWithToken(t, db, cfg, "judy")

	order := models.Order{Status: models.OrderStatusPaid, InitiatorID: owner.ID}
	if err := db.Create(&order).Error; err != nil {
		t.Fatalf("failed to create order: %v", err)
	}

	resp := performRequest(t, app, jsonRequest(t, http.MethodGet, "/api/orders/"+order.ID.String(), ownerToken, nil))
	if resp.StatusCode != http.StatusOK {
		t.Errorf("owner lookup status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	resp = performRequest(t, app, jsonRequest(t, http.MethodGet, "/api/orders/"+order.ID.String(), otherToken, nil))
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("foreign lookup status = %d, want %d", resp.StatusCode, http.StatusNotFound)
	}
}

func TestUpdateStatusMovesForward(t *testing.T) {
	db := newTestDB(t)
	cfg := newTestConfig()
	app := newOrderApp(db, cfg)

	user, token := createUserWithToken(t, db, cfg, "kate")
	order := models.Order{Status: models.OrderStatusPaid, InitiatorID: user.ID}
	if err := db.Create(&order).Error; err != nil {
		t.Fatalf("failed to create order: %v", err)
	}

	resp := performRequest(t, app, jsonRequest(t, http.MethodPut, "/api/admin/orders/"+order.ID.String()+"/status", token, map[string]interface{}{"status": models.OrderStatusOnWay}))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var updated models.Order
	if err := db.First(&updated, "id = ?", order.ID).Error; err != nil {
		t.Fatalf("failed to reload order: %v", err)
	}
	if updated.Status != models.OrderStatusOnWay {
		t.Errorf("status = %d, want %d", updated.Status, models.OrderStatusOnWay)
	}
}

func TestUpdateStatusRejectsBackwardMove(t *testing.T) {
	db := newTestDB(t)
	cfg := newTestConfig()
	app := newOrderApp(db, cfg)

	user, token := createUserWithToken(t, db, cfg, "liam")
	order := models.Order{Status: models.OrderStatusOnWay, InitiatorID: user.ID}
	if err := db.Create(&order).Error; err != nil {
		t.Fatalf("failed to create order: %v", err)
	}

	for _, status := range []int{models.OrderStatusPaid, models.OrderStatusOnWay} {
		resp := performRequest(t, app, jsonRequest(t, http.MethodPut, "/api/admin/orders/"+order.ID.String()+"/status", token, map[string]interface{}{"status": status}))
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("status %d: response = %d, want %d", status, resp.StatusCode, http.StatusBadRequest)
		}
	}

	var unchanged models.Order
	if err := db.First(&unchanged, "id = ?", order.ID).Error; err != nil {
		t.Fatalf("failed to reload order: %v", err)
	}
	if unchanged.Status != models.OrderStatusOnWay {
		t.Errorf("status mutated by rejected update: %d", unchanged.Status)
	}
}

func TestUpdateStatusRejectsPaidTransition(t *testing.T) {
	db := newTestDB(t)
	cfg := newTestConfig()
	app := newOrderApp(db, cfg)

	user, token := createUserWithToken(t, db, cfg, "noel")
	product := models.Product{Name: "Gizmo", Price: 8.00, StripePriceID: "price_g"}
	if err := db.Create(&product).Error; err != nil {
		t.Fatalf("failed to create product: %v", err)
	}
	basket := models.Basket{UserID: user.ID, ProductID: product.ID, Quantity: 1}
	if err := db.Create(&basket).Error; err != nil {
		t.Fatalf("failed to create basket: %v", err)
	}
	order := models.Order{Status: models.OrderStatusCreated, InitiatorID: user.ID}
	if err := db.Create(&order).Error; err != nil {
		t.Fatalf("failed to create order: %v", err)
	}

	resp := performRequest(t, app, jsonRequest(t, http.MethodPut, "/api/admin/orders/"+order.ID.String()+"/status", token, map[string]interface{}{"status": models.OrderStatusPaid}))
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusBadRequest)
	}

	var unchanged models.Order
	if err := db.First(&unchanged, "id = ?", order.ID).Error; err != nil {
		t.Fatalf("failed to reload order: %v", err)
	}
	if unchanged.Status != models.OrderStatusCreated {
		t.Fatalf("order reached paid outside the payment flow: status = %d", unchanged.Status)
	}

	// The payment confirmation path still owns the transition: it must
	// find the order unpaid and take the snapshot.
	if err := services.NewOrderService(db).MarkPaid(context.Background(), order.ID); err != nil {
		t.Fatalf("MarkPaid returned error: %v", err)
	}
	if err := db.First(&unchanged, "id = ?", order.ID).Error; err != nil {
		t.Fatalf("failed to reload order: %v", err)
	}
	history, err := unchanged.History()
	if err != nil {
		t.Fatalf("failed to decode history: %v", err)
	}
	if len(history.PurchasedItems) != 1 || history.TotalSum != 8.00 {
		t.Errorf("snapshot missing after payment confirmation: %+v", history)
	}
}

func TestUpdateStatusRejectsOutOfRange(t *testing.T) {
	db := newTestDB(t)
	cfg := newTestConfig()
	app := newOrderApp(db, cfg)

	user, token := createUserWithToken(t, db, cfg, "mona")
	order := models.Order{Status: models.OrderStatusPaid, InitiatorID: user.ID}
	if err := db.Create(&order).Error; err != nil {
		t.Fatalf("failed to create order: %v", err)
	}

	resp := performRequest(t, app, jsonRequest(t, http.MethodPut, "/api/admin/orders/"+order.ID.String()+"/status", token, map[string]interface{}{"status": models.OrderStatusDelivered + 1}))
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusBadRequest)
	}
}
