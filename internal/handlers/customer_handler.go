package handlers

import (
	"fmt"

	"tokopos/internal/models"
	"tokopos/internal/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// CustomerHandler handles HTTP requests for customers.
type CustomerHandler struct {
	service *services.CustomerService
	logger  *zap.Logger
}

// NewCustomerHandler creates a new CustomerHandler.
func NewCustomerHandler(service *services.CustomerService, logger *zap.Logger) *CustomerHandler {
	return &CustomerHandler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes registers the customer routes with the Fiber app.
func (h *CustomerHandler) RegisterRoutes(router fiber.Router) {
	customerRoutes := router.Group("/customers")
	customerRoutes.Get("/", h.HandleListCustomers)
	customerRoutes.Get("/:id", h.HandleGetCustomer)
	customerRoutes.Post("/", h.HandleCreateCustomer)
	customerRoutes.Put("/:id", h.HandleUpdateCustomer)
	customerRoutes.Delete("/:id", h.HandleDeleteCustomer)
}

func (h *CustomerHandler) HandleListCustomers(c *fiber.Ctx) error {
	page, pageSize := c.QueryInt("page", 1), c.QueryInt("pageSize", services.DefaultPageSize)
	page, pageSize = services.ClampPage(page, pageSize)
	customers, total, err := h.service.ListCustomers(c.UserContext(), services.PageOptions(c.Query("search"), page, pageSize))
	if err != nil {
		return respondError(c, h.logger, err, "Could not retrieve customers")
	}
	return c.JSON(fiber.Map{
		"items":    customers,
		"total":    total,
		"page":     page,
		"pageSize": pageSize,
	})
}

func (h *CustomerHandler) HandleGetCustomer(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return badRequest(c, "Invalid customer ID", err)
	}
	customer, err := h.service.GetCustomerByID(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.logger, err, "Could not retrieve customer")
	}
	return c.JSON(customer)
}

func (h *CustomerHandler) HandleCreateCustomer(c *fiber.Ctx) error {
	var customer models.Customer
	if err := c.BodyParser(&customer); err != nil {
		return badRequest(c, "Invalid request body", err)
	}
	if err := h.service.CreateCustomer(c.UserContext(), &customer); err != nil {
		return respondError(c, h.logger, err, "Could not create customer")
	}
	return c.Status(fiber.StatusCreated).JSON(customer)
}

func (h *CustomerHandler) HandleUpdateCustomer(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return badRequest(c, "Invalid customer ID", err)
	}
	var upd models.CustomerUpdate
	if err := c.BodyParser(&upd); err != nil {
		return badRequest(c, "Invalid request body", err)
	}
	customer, err := h.service.UpdateCustomer(c.UserContext(), id, upd)
	if err != nil {
		return respondError(c, h.logger, err, "Could not update customer")
	}
	return c.JSON(customer)
}

func (h *CustomerHandler) HandleDeleteCustomer(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return badRequest(c, "Invalid customer ID", err)
	}
	if err := h.service.DeleteCustomer(c.UserContext(), id); err != nil {
		return respondError(c, h.logger, err, "Could not delete customer")
	}
	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("Customer %d deleted successfully", id),
	})
}
