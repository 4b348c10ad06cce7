package controllers

import (
	"net/http"

	"guesthouse-backend/middleware"
	"guesthouse-backend/services"
	"guesthouse-backend/utils"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	Auth *services.AuthService
}

func NewAuthController(as *services.AuthService) *AuthController {
	return &AuthController{Auth: as}
}

type loginPayload struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type registerPayload struct {
	Username string `json:"username" binding:"required,min=3"`
	Password string `json:"password" binding:"required,min=6"`
	Email    string `json:"email" binding:"omitempty,email"`
	Name     string `json:"name"`
	Role     string `json:"role" binding:"omitempty,oneof=admin user"`
}

func (ac *AuthController) Login(c *gin.Context) {
	var payload loginPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "username and password required")
		return
	}

	result, err := ac.Auth.Login(c.Request.Context(), payload.Username, payload.Password, c.ClientIP())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, result)
}

// Register is admin-only; there is no self sign-up.
func (ac *AuthController) Register(c *gin.Context) {
	var payload registerPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		bindError(c, err)
		return
	}

	user, err := ac.Auth.Register(c.Request.Context(), services.RegisterInput{
		Username: payload.Username,
		Password: payload.Password,
		Email:    payload.Email,
		Name:     payload.Name,
		Role:     payload.Role,
	}, middleware.ActorFrom(c), c.ClientIP())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, user)
}

func (ac *AuthController) Me(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		utils.JSONError(c, http.StatusUnauthorized, "authentication required")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, user)
}
