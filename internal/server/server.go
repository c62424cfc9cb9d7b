package server

import (
	"fmt"
	"time"

	"tokopos/internal/admission"
	"tokopos/internal/config"
	"tokopos/internal/handlers"
	"tokopos/internal/middleware"
	"tokopos/internal/pricing"
	"tokopos/internal/repositories"
	"tokopos/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"go.uber.org/zap"
)

// App is the assembled HTTP application and the services behind it.
type App struct {
	Fiber   *fiber.App
	Auth    *services.AuthService
	Sales   *services.SaleService
	Loyalty *services.LoyaltyService
	Gate    *admission.Gate
}

// NewCalculator builds the pricing calculator named by the configuration.
func NewCalculator(cfg *config.Config) (*pricing.Calculator, error) {
	discount, err := pricing.DiscountPolicyByName(cfg.DiscountPolicy)
	if err != nil {
		return nil, err
	}
	vat, err := pricing.VATPolicyByName(cfg.VATPolicy)
	if err != nil {
		return nil, err
	}
	return pricing.NewCalculator(discount, vat, pricing.Settings{
		DiscountPercent: cfg.DiscountPercent,
		DiscountFlat:    cfg.DiscountFlat,
		VATPercent:      cfg.VATPercent,
	}), nil
}

// New wires services and handlers over store. publisher may be nil when
// messaging is disabled.
func New(cfg *config.Config, store repositories.Store, publisher services.SaleEventPublisher, log *zap.Logger) (*App, error) {
	calculator, err := NewCalculator(cfg)
	if err != nil {
		return nil, fmt.Errorf("invalid pricing configuration: %w", err)
	}
	gate := admission.NewGate(cfg.SalesMaxConcurrent)

	authService := services.NewAuthService(store.Users(), cfg.JWTSecret, cfg.TokenTTL, log.Named("auth"))
	productService := services.NewProductService(store.Products(), log.Named("products"))
	customerService := services.NewCustomerService(store.Customers(), log.Named("customers"))
	saleService := services.NewSaleService(store, gate, calculator, publisher, log.Named("sales"), cfg.SaleTxTimeout)
	reportService := services.NewReportService(store.Sales())
	loyaltyService, err := services.NewLoyaltyService(store.Customers(), log.Named("loyalty"))
	if err != nil {
		return nil, err
	}

	app := fiber.New(fiber.Config{AppName: "tokopos"})
	if cfg.AppEnv != "test" {
		app.Use(logger.New())
	}

	messaging := "disabled"
	if publisher != nil {
		messaging = "enabled"
	}
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status":    "healthy",
			"time":      time.Now().Format(time.RFC3339),
			"messaging": messaging,
			"sales": fiber.Map{
				"in_flight": gate.InFlight(),
				"capacity":  gate.Capacity(),
			},
		})
	})

	apiV1 := app.Group("/api/v1")
	handlers.NewAuthHandler(authService, log.Named("http")).RegisterRoutes(apiV1)

	protected := apiV1.Group("", middleware.AuthRequired(authService, log.Named("http")))
	handlers.NewProductHandler(productService, log.Named("http")).RegisterRoutes(protected)
	handlers.NewCustomerHandler(customerService, log.Named("http")).RegisterRoutes(protected)
	handlers.NewSaleHandler(saleService, reportService, log.Named("http")).RegisterRoutes(protected)

	return &App{
		Fiber:   app,
		Auth:    authService,
		Sales:   saleService,
		Loyalty: loyaltyService,
		Gate:    gate,
	}, nil
}
