package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/virtumart/internal/config"
	"github.com/example/virtumart/internal/handlers"
	"github.com/example/virtumart/internal/middleware"
	"github.com/example/virtumart/internal/services"
)

// Register wires up all HTTP routes.
func Register(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	mailService := services.NewMailService(cfg.SMTPHost, cfg.SMTPPort, cfg.EmailFrom)
	stripeService := services.NewStripeService(cfg.StripeSecretKey, cfg.StripeWebhookSecret)
	verificationService := services.NewVerificationService(db, mailService, cfg.DomainName, cfg.VerificationExpires)
	orderService := services.NewOrderService(db)

	authHandler := handlers.NewAuthHandler(db, cfg, verificationService)
	catalogHandler := handlers.NewCatalogHandler(db)
	productHandler := handlers.NewProductHandler(db, stripeService)
	basketHandler := handlers.NewBasketHandler(db)
	orderHandler := handlers.NewOrderHandler(db, cfg, stripeService)
	webhookHandler := handlers.NewWebhookHandler(stripeService, orderService)
	profileHandler := handlers.NewProfileHandler(db)

	api := app.Group("/api")

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/logout", authHandler.Logout)
	auth.Get("/verify-email", authHandler.VerifyEmail)

	// Catalog routes
	categories := api.Group("/categories")
	categories.Get("/", catalogHandler.ListCategories)
	categories.Post("/", catalogHandler.CreateCategory)
	categories.Get("/:id", catalogHandler.GetCategory)
	categories.Put("/:id", catalogHandler.UpdateCategory)
	categories.Delete("/:id", catalogHandler.DeleteCategory)

	products := api.Group("/products")
	products.Get("/", productHandler.List)
	products.Post("/", productHandler.Create)
	products.Get("/:id", productHandler.Get)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", productHandler.Delete)

	// Stripe webhook: unauthenticated, signature-checked
	api.Post("/stripe/webhook", webhookHandler.HandleStripeWebhook)

	// Protected routes
	protected := api.Group("", middleware.AuthMiddleware(cfg))

	protected.Get("/basket", basketHandler.List)
	protected.Post("/basket/add/:product_id", basketHandler.Add)
	protected.Put("/basket/:id", basketHandler.Update)
	protected.Delete("/basket/:id", basketHandler.Remove)

	protected.Post("/checkout", orderHandler.Checkout)
	protected.Get("/orders", orderHandler.List)
	protected.Get("/orders/:id", orderHandler.Get)

	protected.Get("/profile", profileHandler.GetProfile)
	protected.Put("/profile", profileHandler.UpdateProfile)

	protected.Put("/admin/orders/:id/status", orderHandler.UpdateStatus)
}
