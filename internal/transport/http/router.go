package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ApiHandleFunctions groups the per-context HTTP APIs mounted on the router.
type ApiHandleFunctions struct {
	ProductAPI  ProductAPI
	CartAPI     CartAPI
	CheckoutAPI CheckoutAPI
	OrderAPI    OrderAPI
	UserAPI     UserAPI
}

// NewRouter builds the gin engine with the full route table.
func NewRouter(handlers ApiHandleFunctions) *gin.Engine {
	return NewRouterWithGinEngine(gin.Default(), handlers)
}

// NewRouterWithGinEngine mounts the route table on a caller-provided engine.
func NewRouterWithGinEngine(router *gin.Engine, handlers ApiHandleFunctions) *gin.Engine {
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/v1")
	{
		products := v1.Group("/products")
		{
			products.GET("", handlers.ProductAPI.ListProducts)
			products.POST("", handlers.ProductAPI.AddProduct)
			products.GET("/:productId", handlers.ProductAPI.GetProductByID)
			products.DELETE("/:productId", handlers.ProductAPI.DeleteProduct)
			products.GET("/:productId/stock", handlers.ProductAPI.GetStock)
			products.PUT("/:productId/stock", handlers.ProductAPI.RestockProduct)
		}

		cart := v1.Group("/cart", RequireUser())
		{
			cart.GET("", handlers.CartAPI.GetCart)
			cart.POST("/items", handlers.CartAPI.AddItems)
			cart.PATCH("/items", handlers.CartAPI.UpdateItems)
			cart.DELETE("/items/:productId", handlers.CartAPI.RemoveItem)
		}

		checkout := v1.Group("/checkout", RequireUser())
		{
			checkout.GET("/quote", handlers.CheckoutAPI.Quote)
			checkout.POST("/order", handlers.CheckoutAPI.PlaceOrder)
		}

		orders := v1.Group("/orders")
		{
			orders.GET("", handlers.OrderAPI.ListOrders)
			orders.GET("/summary", handlers.OrderAPI.Summary)
			orders.GET("/mine", RequireUser(), handlers.OrderAPI.ListMyOrders)
			orders.GET("/:orderId", handlers.OrderAPI.GetOrderByID)
			orders.PATCH("/:orderId/status", handlers.OrderAPI.UpdateOrderStatus)
			orders.DELETE("/:orderId", handlers.OrderAPI.DeleteOrder)
		}

		users := v1.Group("/users")
		{
			users.POST("", handlers.UserAPI.Register)
			users.POST("/login", handlers.UserAPI.Login)
			users.POST("/logout", handlers.UserAPI.Logout)
			users.GET("/:userId", handlers.UserAPI.GetUserByID)
			users.PUT("/:userId", handlers.UserAPI.UpdateProfile)
			users.DELETE("/:userId", handlers.UserAPI.DeleteUser)
		}
	}

	return router
}
