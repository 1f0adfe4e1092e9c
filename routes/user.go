package routes

import (
	"github.com/gin-gonic/gin"
	cartControllers "github.com/momagdy121/ecommerce-api/controllers/cart"
	notificationControllers "github.com/momagdy121/ecommerce-api/controllers/notification"
	userControllers "github.com/momagdy121/ecommerce-api/controllers/user"
	"github.com/momagdy121/ecommerce-api/middleware"
)

// SetupUserRoutes registers all "/user/*" endpoints. Requires JWT middleware.
func SetupUserRoutes(r *gin.Engine, d Deps) {
	userGroup := r.Group("/user")
	userGroup.Use(middleware.ValidateToken)
	{
		// ──────────────── User Profile ────────────────
		userGroup.GET("/", userControllers.GetUser(d.DB))    // GET /user/
		userGroup.PUT("/", userControllers.UpdateUser(d.DB)) // PUT /user/

		// ──────────────── Shopping Cart ────────────────
		cartGroup := userGroup.Group("/cart")
		{
			cartGroup.GET("/", cartControllers.GetUserCart(d.DB))                  // GET /user/cart
			cartGroup.POST("/", cartControllers.UpdateCartItem(d.DB))              // POST /user/cart
			cartGroup.DELETE("/:product_id", cartControllers.DeleteCartItem(d.DB)) // DELETE /user/cart/:product_id
			cartGroup.DELETE("/", cartControllers.ClearUserCart(d.DB))             // DELETE /user/cart
		}

		// ──────────────── Notifications ────────────────
		userGroup.GET("/notifications", notificationControllers.ListNotifications(d.Notifier))
		userGroup.PUT("/notifications/:id/read", notificationControllers.MarkNotificationRead(d.Notifier))
	}
}
