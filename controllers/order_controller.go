package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apperrors "github.com/shopswift/backend/errors"
	"github.com/shopswift/backend/middleware"
	"github.com/shopswift/backend/services"
)

type OrderController struct {
	orders services.OrderService
}

func NewOrderController(orders services.OrderService) *OrderController {
	return &OrderController{orders: orders}
}

// Checkout converts the caller's cart into an order.
func (oc *OrderController) Checkout(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		apperrors.Respond(c, apperrors.Unauthorized("Authorization required"))
		return
	}

	order, err := oc.orders.CreateOrder(c.Request.Context(), userID)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	respond(c, http.StatusCreated, order)
}

func (oc *OrderController) GetByID(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		apperrors.Respond(c, apperrors.Unauthorized("Authorization required"))
		return
	}

	order, err := oc.orders.GetOrderByID(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	respond(c, http.StatusOK, order)
}

func (oc *OrderController) List(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		apperrors.Respond(c, apperrors.Unauthorized("Authorization required"))
		return
	}

	list, err := oc.orders.ListOrders(c.Request.Context(), userID,
		queryInt(c, "page", 1), queryInt(c, "limit", 10))
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	respond(c, http.StatusOK, list)
}

// UpdateStatus is admin-only and routes enforce that.
func (oc *OrderController) UpdateStatus(c *gin.Context) {
	var input services.UpdateOrderStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		apperrors.Respond(c, apperrors.BadRequest(err.Error()))
		return
	}

	order, err := oc.orders.UpdateStatus(c.Request.Context(), c.Param("id"), input.Status)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	respond(c, http.StatusOK, order)
}
