package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apperrors "github.com/shopswift/backend/errors"
	"github.com/shopswift/backend/services"
)

type AuthController struct {
	auth services.AuthService
}

func NewAuthController(auth services.AuthService) *AuthController {
	return &AuthController{auth: auth}
}

// Register creates a new customer account and returns a signed token.
func (ac *AuthController) Register(c *gin.Context) {
	var input services.RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		apperrors.Respond(c, apperrors.BadRequest(err.Error()))
		return
	}

	user, token, err := ac.auth.Register(c.Request.Context(), input)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	respond(c, http.StatusCreated, gin.H{"user": user, "token": token})
}

func (ac *AuthController) Login(c *gin.Context) {
	var input services.LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		apperrors.Respond(c, apperrors.BadRequest(err.Error()))
		return
	}

	user, token, err := ac.auth.Login(c.Request.Context(), input)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	respond(c, http.StatusOK, gin.H{"user": user, "token": token})
}
