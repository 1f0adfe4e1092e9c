package routes

import (
	"github.com/gin-gonic/gin"
	orderControllers "github.com/momagdy121/ecommerce-api/controllers/order"
	"github.com/momagdy121/ecommerce-api/middleware"
)

func SetupOrderRoutes(r *gin.Engine, d Deps) {
	orders := r.Group("/orders")
	{
		// websocket endpoint for real-time order updates (admin dashboard)
		orders.GET("/ws", orderControllers.OrderWebSocketHandler)

		// User-facing checkout operations (JWT)
		authed := orders.Group("")
		authed.Use(middleware.ValidateToken)
		{
			// Create a new order from the caller's cart
			authed.POST("", orderControllers.CreateOrderHandler(d.Checkout))

			// Fetch the caller's orders
			authed.GET("/mine", orderControllers.GetUserOrdersHandler(d.Orders))
			authed.GET("/:orderID", orderControllers.GetOrderByIDHandler(d.Orders))

			// Cancel an order (only before it ships)
			authed.PUT("/:orderID/cancel", orderControllers.CancelOrderHandler(d.Checkout))
		}

		// Admin operations (API key)
		admin := orders.Group("")
		admin.Use(middleware.ValidateAPIKey)
		{
			// Fetch all orders
			admin.GET("", orderControllers.GetAllOrdersHandler(d.Orders))

			// Export all orders as xlsx
			admin.GET("/export", orderControllers.ExportOrdersToExcel(d.Orders))

			// Update order status / tracking number
			admin.PUT("/:orderID/status", orderControllers.UpdateOrderStatusHandler(d.Checkout))
		}
	}
}
