package routes

import (
	"github.com/gin-gonic/gin"
	couponControllers "github.com/momagdy121/ecommerce-api/controllers/coupon"
	paymentControllers "github.com/momagdy121/ecommerce-api/controllers/payment"
	productControllers "github.com/momagdy121/ecommerce-api/controllers/product"
	userControllers "github.com/momagdy121/ecommerce-api/controllers/user"
	"github.com/momagdy121/ecommerce-api/middleware"
)

// SetupAdminRoutes registers all "/admin/*" endpoints plus the payment
// callback surface. Requires the API-key middleware.
func SetupAdminRoutes(r *gin.Engine, d Deps) {
	adminGroup := r.Group("/admin")
	adminGroup.Use(middleware.ValidateAPIKey)
	{
		// ──────────────── Catalog Management ────────────────
		adminGroup.POST("/products", productControllers.CreateProduct(d.DB))
		adminGroup.PUT("/products/:id", productControllers.UpdateProduct(d.DB))
		adminGroup.DELETE("/products/:id", productControllers.DeleteProduct(d.DB))

		// ──────────────── Coupons ────────────────
		adminGroup.POST("/coupons", couponControllers.CreateCoupon(d.CouponStore))
		adminGroup.GET("/coupons", couponControllers.ListCoupons(d.CouponStore))
		adminGroup.PUT("/coupons/:id/deactivate", couponControllers.DeactivateCoupon(d.CouponStore))

		// ──────────────── Users ────────────────
		adminGroup.GET("/users", userControllers.GetAllUsers(d.DB))
	}

	// Payment lifecycle updates land here from gateway callbacks.
	payments := r.Group("/payments")
	payments.Use(middleware.ValidateAPIKey)
	{
		payments.GET("/order/:orderID", paymentControllers.GetPaymentByOrderHandler(d.Payments))
		payments.PUT("/order/:orderID/status", paymentControllers.UpdatePaymentStatusHandler(d.Payments, d.Orders))
	}
}
