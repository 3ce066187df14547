package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ridehail/internal/service"
)

// AuthHandler handles registration and login endpoints.
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type registerRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	Phone       string `json:"phone"`
	Role        string `json:"role"`
	VehicleType string `json:"vehicle_type"`
	AdminToken  string `json:"admin_token"`
}

func (r registerRequest) toService() service.RegisterRequest {
	return service.RegisterRequest{
		Name:        r.Name,
		Email:       r.Email,
		Password:    r.Password,
		Phone:       r.Phone,
		Role:        r.Role,
		VehicleType: r.VehicleType,
	}
}

// Register handles POST /v1/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, service.ErrInvalidSignupInput)
		return
	}

	user, err := h.authService.Register(c.Request.Context(), req.toService())
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusCreated, "account created", toUserDTO(user))
}

// RegisterAdmin handles POST /v1/admin/register
func (h *AuthHandler) RegisterAdmin(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, service.ErrInvalidSignupInput)
		return
	}

	user, err := h.authService.RegisterAdmin(c.Request.Context(), req.toService(), req.AdminToken)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusCreated, "admin account created", toUserDTO(user))
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles POST /v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, service.ErrInvalidCredentials)
		return
	}

	result, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "login successful", gin.H{
		"token": result.Token,
		"user":  toUserDTO(result.User),
	})
}
