package handlers

import (
	"log"
	"lookbook-service/internal/service"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	loginAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lookbook_login_attempts_total",
			Help: "Total number of login attempts",
		},
		[]string{"status"},
	)

	registrationAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lookbook_registration_attempts_total",
			Help: "Total number of registration attempts",
		},
		[]string{"status"},
	)

	logoutAttempts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "lookbook_logout_attempts_total",
			Help: "Total number of logout attempts",
		},
	)
)

type AuthHandler struct {
	userService *service.UserService
	jwtService  *service.JWTService
}

func NewAuthHandler(userService *service.UserService, jwtService *service.JWTService) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		jwtService:  jwtService,
	}
}

func (h *AuthHandler) RegisterRoutes(app *fiber.App) {
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	authGroup := app.Group("/public/auth")
	authGroup.Post("/register", h.Register)
	authGroup.Post("/login", h.Login)
	authGroup.Post("/logout", h.Logout)
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Register(c fiber.Ctx) error {
	var req credentialsRequest
	if err := c.Bind().Body(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	user, err := h.userService.Register(c.Context(), req.Email, req.Password)
	if err != nil {
		registrationAttempts.WithLabelValues("failure").Inc()
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	registrationAttempts.WithLabelValues("success").Inc()

	token, err := h.jwtService.GenerateToken(user.ID.Hex(), user.Email)
	if err != nil {
		log.Printf("Error generating token for %s: %v", user.Email, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Account created successfully",
		"data": fiber.Map{
			"user":  user,
			"token": token,
		},
	})
}

func (h *AuthHandler) Login(c fiber.Ctx) error {
	var req credentialsRequest
	if err := c.Bind().Body(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	user, err := h.userService.Authenticate(c.Context(), req.Email, req.Password)
	if err != nil {
		loginAttempts.WithLabelValues("failure").Inc()
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	token, err := h.jwtService.GenerateToken(user.ID.Hex(), user.Email)
	if err != nil {
		loginAttempts.WithLabelValues("failure").Inc()
		log.Printf("Error generating token for %s: %v", user.Email, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	loginAttempts.WithLabelValues("success").Inc()

	return c.JSON(fiber.Map{
		"message": "Logged in successfully",
		"data": fiber.Map{
			"user":  user,
			"token": token,
		},
	})
}

// Logout is stateless on the server; the client drops its token. Kept as an
// endpoint so clients have a single sign-out call and the attempt is counted.
func (h *AuthHandler) Logout(c fiber.Ctx) error {
	logoutAttempts.Inc()
	return c.JSON(fiber.Map{
		"message": "Logged out successfully",
	})
}
