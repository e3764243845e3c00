package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/virtumart/internal/models"
	"github.com/example/virtumart/internal/services"
	"github.com/example/virtumart/internal/utils"
)

// ProductHandler manages catalog products.
type ProductHandler struct {
	db     *gorm.DB
	stripe *services.StripeService
}

// NewProductHandler constructs ProductHandler.
func NewProductHandler(db *gorm.DB, stripe *services.StripeService) *ProductHandler {
	return &ProductHandler{db: db, stripe: stripe}
}

// List returns paginated products, optionally filtered by category.
func (h *ProductHandler) List(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)
	query := h.db.Model(&models.Product{})

	if categoryID := c.Query("category_id"); categoryID != "" {
		parsed, err := uuid.Parse(categoryID)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid category_id")
		}
		query = query.Where("category_id = ?", parsed)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var products []models.Product
	if err := query.Preload("Category").
		Order("name asc").
		Limit(pg.Limit).Offset(pg.Offset).
		Find(&products).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    products,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}

// Get returns a single product.
func (h *ProductHandler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var product models.Product
	if err := h.db.Preload("Category").First(&product, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "product not found")
		}
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": product})
}

type productRequest struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Price       *float64   `json:"price"`
	Quantity    int        `json:"quantity"`
	Image       string     `json:"image"`
	CategoryID  *uuid.UUID `json:"category_id"`
}

// Create persists a new product, registering it with Stripe first. If the
// external call fails the save is aborted; no half-initialized row is left.
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var req productRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.Name == "" {
		return fiber.NewError(fiber.StatusBadRequest, "name is required")
	}
	if req.Price == nil || *req.Price < 0 {
		return fiber.NewError(fiber.StatusBadRequest, "price must be non-negative")
	}

	product := models.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       *req.Price,
		Quantity:    req.Quantity,
		Image:       req.Image,
		CategoryID:  req.CategoryID,
	}

	priceID, err := h.stripe.RegisterProductPrice(product.Name, product.Price)
	if err != nil {
		log.Printf("[Product] stripe price registration failed for %q: %v", product.Name, err)
		return fiber.NewError(fiber.StatusBadGateway, "failed to register product with payment provider")
	}
	product.StripePriceID = priceID

	if err := h.db.Create(&product).Error; err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": product})
}

// Update modifies an existing product. A product that still lacks a Stripe
// price id gets one before the save completes.
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var product models.Product
	if err := h.db.First(&product, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "product not found")
		}
		return err
	}

	var req productRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.Name != "" {
		product.Name = req.Name
	}
	if req.Price != nil {
		if *req.Price < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "price must be non-negative")
		}
		product.Price = *req.Price
	}
	if req.Description != "" {
		product.Description = req.Description
	}
	if req.Image != "" {
		product.Image = req.Image
	}
	if req.Quantity != 0 {
		product.Quantity = req.Quantity
	}
	if req.CategoryID != nil {
		product.CategoryID = req.CategoryID
	}

	if product.StripePriceID == "" {
		priceID, err := h.stripe.RegisterProductPrice(product.Name, product.Price)
		if err != nil {
			log.Printf("[Product] stripe price registration failed for %q: %v", product.Name, err)
			return fiber.NewError(fiber.StatusBadGateway, "failed to register product with payment provider")
		}
		product.StripePriceID = priceID
	}

	if err := h.db.Save(&product).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": product})
}

// Delete removes a product by ID.
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	if err := h.db.Delete(&models.Product{}, "id = ?", id).Error; err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}
