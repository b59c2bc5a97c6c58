package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopswift/backend/controllers"
	"github.com/shopswift/backend/middleware"
	"github.com/shopswift/backend/services"
)

// Register wires every API route onto the engine. Product reads are public;
// product writes and order status changes are admin-only; cart and order
// routes require a valid token.
func Register(
	r *gin.Engine,
	tokens services.TokenService,
	auth *controllers.AuthController,
	products *controllers.ProductController,
	carts *controllers.CartController,
	orders *controllers.OrderController,
) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", auth.Register)
		authGroup.POST("/login", auth.Login)
	}

	productGroup := api.Group("/products")
	{
		productGroup.GET("", products.GetAll)
		productGroup.GET("/:id", products.GetByID)

		admin := productGroup.Group("")
		admin.Use(middleware.AuthRequired(tokens), middleware.AdminRequired())
		{
			admin.POST("", products.Create)
			admin.PUT("/:id", products.Update)
			admin.DELETE("/:id", products.Delete)
		}
	}

	cartGroup := api.Group("/cart")
	cartGroup.Use(middleware.AuthRequired(tokens))
	{
		cartGroup.GET("", carts.GetCart)
		cartGroup.POST("/items", carts.AddItem)
		cartGroup.PUT("/items/:productId", carts.UpdateItem)
		cartGroup.DELETE("/items/:productId", carts.RemoveItem)
		cartGroup.DELETE("", carts.Clear)
	}

	orderGroup := api.Group("/orders")
	orderGroup.Use(middleware.AuthRequired(tokens))
	{
		orderGroup.POST("", orders.Checkout)
		orderGroup.GET("", orders.List)
		orderGroup.GET("/:id", orders.GetByID)
		orderGroup.PATCH("/:id/status", middleware.AdminRequired(), orders.UpdateStatus)
	}
}
