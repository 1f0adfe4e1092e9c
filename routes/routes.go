package routes

import (
	"github.com/gin-gonic/gin"
	couponControllers "github.com/momagdy121/ecommerce-api/controllers/coupon"
	productControllers "github.com/momagdy121/ecommerce-api/controllers/product"
	"github.com/momagdy121/ecommerce-api/services"
	"github.com/momagdy121/ecommerce-api/store"
	"gorm.io/gorm"
)

// Deps bundles everything the route groups need. The checkout core is only
// reachable through its service; collaborator CRUD talks to the DB directly.
type Deps struct {
	DB       *gorm.DB
	Checkout *services.CheckoutService
	Coupons  *services.CouponService

	CouponStore *store.CouponStore
	Orders      *store.OrderStore
	Payments    *store.PaymentStore
	Notifier    *store.Notifier
}

// SetupRoutes is the single entry-point that wires up all route groups.
func SetupRoutes(r *gin.Engine, d Deps) {
	// Public catalog browsing + coupon dry-run (no auth)
	r.GET("/products", productControllers.GetProducts(d.DB))
	r.GET("/products/:id", productControllers.GetProductByID(d.DB))
	r.POST("/coupons/validate", couponControllers.ValidateCoupon(d.Coupons))

	// User routes (JWT-protected)
	SetupUserRoutes(r, d)

	// Order routes (JWT for users, API key for admin operations)
	SetupOrderRoutes(r, d)

	// Admin routes (API-key-protected)
	SetupAdminRoutes(r, d)
}
