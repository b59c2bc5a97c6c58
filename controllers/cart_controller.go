package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apperrors "github.com/shopswift/backend/errors"
	"github.com/shopswift/backend/middleware"
	"github.com/shopswift/backend/services"
)

type CartController struct {
	carts services.CartService
}

func NewCartController(carts services.CartService) *CartController {
	return &CartController{carts: carts}
}

func (cc *CartController) GetCart(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		apperrors.Respond(c, apperrors.Unauthorized("Authorization required"))
		return
	}

	cart, err := cc.carts.Get(c.Request.Context(), userID)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	respond(c, http.StatusOK, cart)
}

func (cc *CartController) AddItem(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		apperrors.Respond(c, apperrors.Unauthorized("Authorization required"))
		return
	}

	var input services.CartItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		apperrors.Respond(c, apperrors.BadRequest(err.Error()))
		return
	}

	cart, err := cc.carts.AddItem(c.Request.Context(), userID, input.ProductID, input.Quantity)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	respond(c, http.StatusOK, cart)
}

func (cc *CartController) UpdateItem(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		apperrors.Respond(c, apperrors.Unauthorized("Authorization required"))
		return
	}

	var input struct {
		Quantity int `json:"quantity" binding:"required,gt=0"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		apperrors.Respond(c, apperrors.BadRequest(err.Error()))
		return
	}

	cart, err := cc.carts.UpdateItem(c.Request.Context(), userID, c.Param("productId"), input.Quantity)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	respond(c, http.StatusOK, cart)
}

func (cc *CartController) RemoveItem(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		apperrors.Respond(c, apperrors.Unauthorized("Authorization required"))
		return
	}

	cart, err := cc.carts.RemoveItem(c.Request.Context(), userID, c.Param("productId"))
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	respond(c, http.StatusOK, cart)
}

func (cc *CartController) Clear(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		apperrors.Respond(c, apperrors.Unauthorized("Authorization required"))
		return
	}

	if err := cc.carts.Clear(c.Request.Context(), userID); err != nil {
		apperrors.Respond(c, err)
		return
	}

	respond(c, http.StatusOK, gin.H{"message": "Cart cleared"})
}
