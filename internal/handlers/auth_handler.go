package handlers

import (
	"tokopos/internal/models"
	"tokopos/internal/services"
	"tokopos/internal/validation"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// AuthHandler handles HTTP requests for authentication.
type AuthHandler struct {
	authService *services.AuthService
	logger      *zap.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

// RegisterRoutes registers the authentication routes with the Fiber app.
func (h *AuthHandler) RegisterRoutes(router fiber.Router) {
	authRoutes := router.Group("/auth")
	authRoutes.Post("/register", h.HandleRegister)
	authRoutes.Post("/token", h.HandleToken)
	authRoutes.Post("/login", h.HandleToken)
}

// HandleRegister handles new user registration.
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	var user models.User
	if err := c.BodyParser(&user); err != nil {
		return badRequest(c, "Invalid request body", err)
	}

	if err := h.authService.RegisterUser(c.UserContext(), &user); err != nil {
		return respondError(c, h.logger, err, "Registration failed")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User registered successfully",
		"user":    user,
	})
}

// TokenRequest represents the request body for token issuance.
type TokenRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// HandleToken checks the credentials and issues a JWT token.
func (h *AuthHandler) HandleToken(c *fiber.Ctx) error {
	var req TokenRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body", err)
	}
	if err := validation.Struct(req); err != nil {
		return respondError(c, h.logger, err, "Validation failed")
	}

	token, err := h.authService.LoginUser(c.UserContext(), req.Username, req.Password)
	if err != nil {
		h.logger.Info("authentication failed", zap.String("username", req.Username), zap.Error(err))
		return respondError(c, h.logger, err, "Authentication failed")
	}

	return c.JSON(fiber.Map{
		"message": "Login successful",
		"token":   token,
	})
}
