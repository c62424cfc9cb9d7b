package handlers

import (
	"fmt"
	"time"

	"tokopos/internal/middleware"
	"tokopos/internal/models"
	"tokopos/internal/repositories"
	"tokopos/internal/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// SaleHandler handles HTTP requests for sales and sales reports.
type SaleHandler struct {
	sales   *services.SaleService
	reports *services.ReportService
	logger  *zap.Logger
}

// NewSaleHandler creates a new SaleHandler.
func NewSaleHandler(sales *services.SaleService, reports *services.ReportService, logger *zap.Logger) *SaleHandler {
	return &SaleHandler{
		sales:   sales,
		reports: reports,
		logger:  logger,
	}
}

// RegisterRoutes registers the sale and report routes with the Fiber app.
func (h *SaleHandler) RegisterRoutes(router fiber.Router) {
	saleRoutes := router.Group("/sales")
	saleRoutes.Post("/", h.HandleCreateSale)
	saleRoutes.Get("/", h.HandleListSales)
	saleRoutes.Get("/:id", h.HandleGetSale)

	router.Get("/sales-report/summary", h.HandleGetSummary)
}

// HandleCreateSale runs the sale transaction.
func (h *SaleHandler) HandleCreateSale(c *fiber.Ctx) error {
	var req models.CreateSaleRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body", err)
	}

	sale, err := h.sales.CreateSale(c.UserContext(), req)
	if err != nil {
		return respondError(c, h.logger, err, "Sale transaction failed")
	}
	if cashier, ok := middleware.CurrentPrincipal(c); ok {
		h.logger.Debug("sale recorded", zap.Uint("sale_id", sale.ID), zap.String("cashier", cashier.Username))
	}
	return c.Status(fiber.StatusOK).JSON(sale)
}

// HandleGetSale retrieves a sale with its details.
func (h *SaleHandler) HandleGetSale(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return badRequest(c, "Invalid sale ID", err)
	}
	sale, err := h.sales.GetSale(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.logger, err, "Could not retrieve sale")
	}
	return c.JSON(sale)
}

// HandleListSales retrieves a page of sales, optionally bounded by ?startDate and ?endDate.
func (h *SaleHandler) HandleListSales(c *fiber.Ctx) error {
	from, err := parseDateParam(c.Query("startDate"))
	if err != nil {
		return badRequest(c, "Invalid startDate", err)
	}
	to, err := parseDateParam(c.Query("endDate"))
	if err != nil {
		return badRequest(c, "Invalid endDate", err)
	}

	page, pageSize := c.QueryInt("page", 1), c.QueryInt("pageSize", services.DefaultPageSize)
	page, pageSize = services.ClampPage(page, pageSize)
	opts := services.PageOptions("", page, pageSize)
	sales, total, err := h.sales.ListSales(c.UserContext(), repositories.SaleQuery{
		From:   from,
		To:     to,
		Offset: opts.Offset,
		Limit:  opts.Limit,
	})
	if err != nil {
		return respondError(c, h.logger, err, "Could not retrieve sales")
	}
	return c.JSON(fiber.Map{
		"items":    sales,
		"total":    total,
		"page":     page,
		"pageSize": pageSize,
	})
}

// HandleGetSummary totals sales between ?startDate and ?endDate, both included.
func (h *SaleHandler) HandleGetSummary(c *fiber.Ctx) error {
	start, err := parseDateParam(c.Query("startDate"))
	if err != nil {
		return badRequest(c, "Invalid startDate", err)
	}
	end, err := parseDateParam(c.Query("endDate"))
	if err != nil {
		return badRequest(c, "Invalid endDate", err)
	}

	summary, err := h.reports.GetSummary(c.UserContext(), start, end)
	if err != nil {
		return respondError(c, h.logger, err, "Could not build sales summary")
	}
	return c.JSON(summary)
}

// parseDateParam accepts RFC 3339 timestamps or plain dates, which mean
// midnight UTC. An empty value yields the zero time.
func parseDateParam(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.DateOnly, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%q is neither a date (YYYY-MM-DD) nor an RFC 3339 timestamp", value)
	}
	return t, nil
}
