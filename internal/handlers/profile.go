package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/virtumart/internal/middleware"
	"github.com/example/virtumart/internal/models"
)

// ProfileHandler manages user profile endpoints.
type ProfileHandler struct {
	db     *gorm.DB
	client *http.Client
}

// NewProfileHandler constructs ProfileHandler.
func NewProfileHandler(db *gorm.DB) *ProfileHandler {
	return &ProfileHandler{
		db:     db,
		client: &http.Client{Timeout: 5 * time.Second},
	}
}

// GetProfile returns the authenticated user's profile and basket summary.
func (h *ProfileHandler) GetProfile(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var user models.User
	if err := h.db.First(&user, "id = ?", userID).Error; err != nil {
		return err
	}

	var baskets []models.Basket
	if err := h.db.Preload("Product").Where("user_id = ?", userID).
		Find(&baskets).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"id":          user.ID,
			"username":    user.Username,
			"email":       user.Email,
			"first_name":  user.FirstName,
			"last_name":   user.LastName,
			"image_url":   user.ImageURL,
			"is_verified": user.IsVerified,
			"created_at":  user.CreatedAt,
		},
		"baskets":   baskets,
		"total_sum": models.TotalSum(baskets),
	})
}

type updateProfileRequest struct {
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	ImageURL  *string `json:"image_url"`
}

// UpdateProfile updates profile fields. Username and email are read-only.
// An unreachable image URL is silently cleared instead of failing.
func (h *ProfileHandler) UpdateProfile(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req updateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	updates := map[string]interface{}{}
	if req.FirstName != "" {
		updates["first_name"] = req.FirstName
	}
	if req.LastName != "" {
		updates["last_name"] = req.LastName
	}
	if req.ImageURL != nil {
		updates["image_url"] = h.checkImageURL(*req.ImageURL)
	}
	if len(updates) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "no fields to update")
	}
	updates["updated_at"] = time.Now()

	if err := h.db.Model(&models.User{}).Where("id = ?", userID).Updates(updates).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "message": "profile updated"})
}

// checkImageURL probes the URL and returns it only if it answers 200.
func (h *ProfileHandler) checkImageURL(imageURL string) string {
	if imageURL == "" {
		return ""
	}

	resp, err := h.client.Get(imageURL)
	if err != nil {
		log.Printf("[Profile] image url unreachable, clearing: %v", err)
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("[Profile] image url returned %d, clearing", resp.StatusCode)
		return ""
	}

	return imageURL
}
