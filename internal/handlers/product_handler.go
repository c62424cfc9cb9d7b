package handlers

import (
	"fmt"

	"tokopos/internal/models"
	"tokopos/internal/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ProductHandler handles HTTP requests for products.
type ProductHandler struct {
	service *services.ProductService
	logger  *zap.Logger
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes registers the product routes with the Fiber app.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleListProducts)
	productRoutes.Get("/:id", h.HandleGetProduct)
	productRoutes.Post("/", h.HandleCreateProduct)
	productRoutes.Put("/:id", h.HandleUpdateProduct)
	productRoutes.Delete("/:id", h.HandleDeleteProduct)
}

// HandleListProducts retrieves a page of products, optionally filtered by ?search.
func (h *ProductHandler) HandleListProducts(c *fiber.Ctx) error {
	page, pageSize := c.QueryInt("page", 1), c.QueryInt("pageSize", services.DefaultPageSize)
	page, pageSize = services.ClampPage(page, pageSize)
	products, total, err := h.service.ListProducts(c.UserContext(), services.PageOptions(c.Query("search"), page, pageSize))
	if err != nil {
		return respondError(c, h.logger, err, "Could not retrieve products")
	}
	return c.JSON(fiber.Map{
		"items":    products,
		"total":    total,
		"page":     page,
		"pageSize": pageSize,
	})
}

// HandleGetProduct retrieves a single product by its ID.
func (h *ProductHandler) HandleGetProduct(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return badRequest(c, "Invalid product ID", err)
	}
	product, err := h.service.GetProductByID(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.logger, err, "Could not retrieve product")
	}
	return c.JSON(product)
}

// HandleCreateProduct creates a new product.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var product models.Product
	if err := c.BodyParser(&product); err != nil {
		return badRequest(c, "Invalid request body", err)
	}
	if err := h.service.CreateProduct(c.UserContext(), &product); err != nil {
		return respondError(c, h.logger, err, "Could not create product")
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

// HandleUpdateProduct updates only the fields present in the request body.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return badRequest(c, "Invalid product ID", err)
	}
	var upd models.ProductUpdate
	if err := c.BodyParser(&upd); err != nil {
		return badRequest(c, "Invalid request body", err)
	}
	product, err := h.service.UpdateProduct(c.UserContext(), id, upd)
	if err != nil {
		return respondError(c, h.logger, err, "Could not update product")
	}
	return c.JSON(product)
}

// HandleDeleteProduct soft-deletes a product.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return badRequest(c, "Invalid product ID", err)
	}
	if err := h.service.DeleteProduct(c.UserContext(), id); err != nil {
		return respondError(c, h.logger, err, "Could not delete product")
	}
	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("Product %d deleted successfully", id),
	})
}
