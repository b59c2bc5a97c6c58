package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	apperrors "github.com/shopswift/backend/errors"
	"github.com/shopswift/backend/repository"
	"github.com/shopswift/backend/services"
)

type ProductController struct {
	products services.ProductService
}

func NewProductController(products services.ProductService) *ProductController {
	return &ProductController{products: products}
}

func (pc *ProductController) Create(c *gin.Context) {
	var input services.CreateProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		apperrors.Respond(c, apperrors.BadRequest(err.Error()))
		return
	}

	product, err := pc.products.Create(c.Request.Context(), input)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	respond(c, http.StatusCreated, product)
}

// GetAll lists products with pagination, filtering, and sorting taken from
// the query string.
func (pc *ProductController) GetAll(c *gin.Context) {
	query := repository.ProductQuery{
		Page:     queryInt(c, "page", 1),
		Limit:    queryInt(c, "limit", 10),
		Category: c.Query("category"),
		Sort:     c.Query("sort"),
	}
	if v, err := strconv.ParseFloat(c.Query("minPrice"), 64); err == nil {
		query.MinPrice = &v
	}
	if v, err := strconv.ParseFloat(c.Query("maxPrice"), 64); err == nil {
		query.MaxPrice = &v
	}

	list, err := pc.products.GetAll(c.Request.Context(), query)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	respond(c, http.StatusOK, list)
}

func (pc *ProductController) GetByID(c *gin.Context) {
	product, err := pc.products.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	respond(c, http.StatusOK, product)
}

func (pc *ProductController) Update(c *gin.Context) {
	var input services.UpdateProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		apperrors.Respond(c, apperrors.BadRequest(err.Error()))
		return
	}

	product, err := pc.products.Update(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	respond(c, http.StatusOK, product)
}

func (pc *ProductController) Delete(c *gin.Context) {
	if err := pc.products.Delete(c.Request.Context(), c.Param("id")); err != nil {
		apperrors.Respond(c, err)
		return
	}

	respond(c, http.StatusOK, gin.H{"message": "Product deleted"})
}

func queryInt(c *gin.Context, key string, fallback int) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return fallback
	}
	return v
}
