package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/virtumart/internal/middleware"
	"github.com/example/virtumart/internal/models"
)

// BasketHandler manages the authenticated user's basket.
type BasketHandler struct {
	db *gorm.DB
}

// NewBasketHandler constructs BasketHandler.
func NewBasketHandler(db *gorm.DB) *BasketHandler {
	return &BasketHandler{db: db}
}

// List returns the user's basket rows plus derived totals.
func (h *BasketHandler) List(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var baskets []models.Basket
	if err := h.db.Preload("Product").Where("user_id = ?", userID).
		Order("created_at asc").Find(&baskets).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success":        true,
		"data":           baskets,
		"total_sum":      models.TotalSum(baskets),
		"total_quantity": models.TotalQuantity(baskets),
	})
}

// Add creates a basket row with quantity 1 or increments an existing one.
func (h *BasketHandler) Add(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	productID, err := uuid.Parse(c.Params("product_id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid product id")
	}

	var product models.Product
	if err := h.db.First(&product, "id = ?", productID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "product not found")
		}
		return err
	}

	var basket models.Basket
	err = h.db.Where("user_id = ? AND product_id = ?", userID, productID).
		First(&basket).Error
	if err == gorm.ErrRecordNotFound {
		basket = models.Basket{UserID: userID, ProductID: productID, Quantity: 1}
		if err := h.db.Create(&basket).Error; err != nil {
			return err
		}
	} else if err != nil {
		return err
	} else {
		basket.Quantity++
		if err := h.db.Save(&basket).Error; err != nil {
			return err
		}
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": basket})
}

type updateBasketRequest struct {
	Quantity *int `json:"quantity"`
}

// Update overwrites a row's quantity; zero deletes the row.
func (h *BasketHandler) Update(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	basketID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var req updateBasketRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.Quantity == nil {
		return fiber.NewError(fiber.StatusBadRequest, "quantity is required")
	}
	if *req.Quantity < 0 {
		return fiber.NewError(fiber.StatusBadRequest, "quantity must not be negative")
	}

	var basket models.Basket
	if err := h.db.First(&basket, "id = ? AND user_id = ?", basketID, userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "basket row not found")
		}
		return err
	}

	if *req.Quantity == 0 {
		if err := h.db.Delete(&basket).Error; err != nil {
			return err
		}
		return c.JSON(fiber.Map{"success": true, "deleted": true})
	}

	basket.Quantity = *req.Quantity
	if err := h.db.Save(&basket).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": basket})
}

// Remove deletes a basket row unconditionally.
func (h *BasketHandler) Remove(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	basketID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	if err := h.db.Delete(&models.Basket{}, "id = ? AND user_id = ?", basketID, userID).Error; err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}
