package handlers

import (
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/virtumart/internal/config"
	"github.com/example/virtumart/internal/middleware"
	"github.com/example/virtumart/internal/models"
	"github.com/example/virtumart/internal/services"
	"github.com/example/virtumart/internal/utils"
)

// OrderHandler manages checkout and order endpoints.
type OrderHandler struct {
	db     *gorm.DB
	cfg    *config.Config
	stripe *services.StripeService
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(db *gorm.DB, cfg *config.Config, stripe *services.StripeService) *OrderHandler {
	return &OrderHandler{db: db, cfg: cfg, stripe: stripe}
}

type checkoutRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Address   string `json:"address"`
}

// Checkout creates an order row and a hosted checkout session for the
// user's current basket, returning the session URL to redirect to.
func (h *OrderHandler) Checkout(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req checkoutRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.FirstName == "" || req.LastName == "" || req.Email == "" || req.Address == "" {
		return fiber.NewError(fiber.StatusBadRequest, "missing required fields")
	}

	var baskets []models.Basket
	if err := h.db.Preload("Product").Where("user_id = ?", userID).
		Find(&baskets).Error; err != nil {
		return err
	}

	if len(baskets) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "basket is empty")
	}

	if err := h.ensurePriceIDs(baskets); err != nil {
		log.Printf("[Checkout] stripe price registration failed: %v", err)
		return fiber.NewError(fiber.StatusBadGateway, "failed to register product with payment provider")
	}

	items, err := services.LineItems(baskets)
	if err != nil {
		return err
	}

	order := models.Order{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		Address:     req.Address,
		Status:      models.OrderStatusCreated,
		InitiatorID: userID,
	}
	if err := h.db.Create(&order).Error; err != nil {
		return err
	}

	session, err := h.stripe.CreateCheckoutSession(
		items,
		order.ID.String(),
		fmt.Sprintf("%s/orders/success", h.cfg.DomainName),
		fmt.Sprintf("%s/orders/canceled", h.cfg.DomainName),
	)
	if err != nil {
		// Don't leave an orphaned CREATED order behind.
		if delErr := h.db.Delete(&order).Error; delErr != nil {
			log.Printf("[Checkout] failed to clean up order %s: %v", order.ID, delErr)
		}
		log.Printf("[Checkout] stripe session creation failed: %v", err)
		return fiber.NewError(fiber.StatusBadGateway, "failed to create checkout session")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":  true,
		"url":      session.URL,
		"order_id": order.ID,
	})
}

// ensurePriceIDs lazily registers Stripe prices for basket products that
// still lack one, persisting the returned ids.
func (h *OrderHandler) ensurePriceIDs(baskets []models.Basket) error {
	for i := range baskets {
		product := baskets[i].Product
		if product == nil || product.StripePriceID != "" {
			continue
		}

		priceID, err := h.stripe.RegisterProductPrice(product.Name, product.Price)
		if err != nil {
			return err
		}

		if err := h.db.Model(product).Update("stripe_price_id", priceID).Error; err != nil {
			return err
		}
		product.StripePriceID = priceID
	}
	return nil
}

// List returns the requesting user's orders, newest first.
func (h *OrderHandler) List(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	pg := utils.ParsePagination(c)
	query := h.db.Model(&models.Order{}).Where("initiator_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var orders []models.Order
	if err := query.Order("created_at desc").
		Limit(pg.Limit).Offset(pg.Offset).
		Find(&orders).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    orders,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}

// Get returns a single order owned by the requesting user.
func (h *OrderHandler) Get(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var order models.Order
	if err := h.db.First(&order, "id = ? AND initiator_id = ?", id, userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "order not found")
		}
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": order})
}

type updateStatusRequest struct {
	Status *int `json:"status"`
}

// UpdateStatus advances an order's status. Statuses only move forward;
// ON_WAY and DELIVERED are set here, out of band of the payment flow.
// PAID is never settable here: it is reached only through the payment
// confirmation, which also snapshots and clears the basket.
func (h *OrderHandler) UpdateStatus(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var req updateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.Status == nil || *req.Status > models.OrderStatusDelivered {
		return fiber.NewError(fiber.StatusBadRequest, "invalid status")
	}
	if *req.Status == models.OrderStatusPaid {
		return fiber.NewError(fiber.StatusBadRequest, "paid status is set by payment confirmation")
	}

	var order models.Order
	if err := h.db.First(&order, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "order not found")
		}
		return err
	}

	if *req.Status <= order.Status {
		return fiber.NewError(fiber.StatusBadRequest, "status can only move forward")
	}

	if err := h.db.Model(&order).Update("status", *req.Status).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": order})
}
