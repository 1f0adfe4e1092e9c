package orderControllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/momagdy121/ecommerce-api/models"
	"github.com/momagdy121/ecommerce-api/services"
	"github.com/momagdy121/ecommerce-api/store"
)

// -------- Request Structs --------

type CreateOrderRequest struct {
	ShippingAddress models.Address `json:"shipping_address" binding:"required"`
	PaymentMethod   string         `json:"payment_method"` // defaults to cod
	CouponCode      string         `json:"coupon_code"`
	Notes           string         `json:"notes"`
}

type UpdateOrderStatusRequest struct {
	Status         string `json:"status"`
	TrackingNumber string `json:"tracking_number"`
}

// -------- Helpers --------

func currentUserID(c *gin.Context) (string, bool) {
	userIDVal, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return "", false
	}
	userID, ok := userIDVal.(string)
	if !ok || userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return "", false
	}
	return userID, true
}

func orderIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.Atoi(c.Param("orderID"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
		return 0, false
	}
	return uint(id), true
}

// statusForError maps service errors onto HTTP status codes.
func statusForError(err error) int {
	switch {
	case errors.Is(err, services.ErrOrderNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrPartialCheckout):
		return http.StatusInternalServerError
	case services.IsBusinessError(err):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// -------- Handlers --------

// CreateOrderHandler converts the caller's cart into an order.
// POST /orders
func CreateOrderHandler(checkout *services.CheckoutService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}

		var req CreateOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		method, ok := models.ValidPaymentMethod(req.PaymentMethod)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payment method"})
			return
		}

		order, err := checkout.CreateOrder(services.CreateOrderInput{
			UserID:          userID,
			ShippingAddress: req.ShippingAddress,
			PaymentMethod:   method,
			CouponCode:      req.CouponCode,
			Notes:           req.Notes,
		})
		if err != nil {
			c.JSON(statusForError(err), gin.H{"error": err.Error()})
			return
		}

		broadcastOrderEvent(*order)
		c.JSON(http.StatusCreated, order)
	}
}

// CancelOrderHandler cancels the caller's own order.
// PUT /orders/:orderID/cancel
func CancelOrderHandler(checkout *services.CheckoutService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		orderID, ok := orderIDParam(c)
		if !ok {
			return
		}

		order, err := checkout.CancelOrder(orderID, userID)
		if err != nil {
			c.JSON(statusForError(err), gin.H{"error": err.Error()})
			return
		}

		broadcastOrderEvent(*order)
		c.JSON(http.StatusOK, order)
	}
}

// UpdateOrderStatusHandler sets a new status and/or tracking number (admin).
// PUT /orders/:orderID/status
func UpdateOrderStatusHandler(checkout *services.CheckoutService) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, ok := orderIDParam(c)
		if !ok {
			return
		}
		var req UpdateOrderStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		if req.Status == "" && req.TrackingNumber == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Nothing to update"})
			return
		}

		order, err := checkout.UpdateOrderStatus(orderID, req.Status, req.TrackingNumber)
		if err != nil {
			c.JSON(statusForError(err), gin.H{"error": err.Error()})
			return
		}

		broadcastOrderEvent(*order)
		c.JSON(http.StatusOK, order)
	}
}

// GetAllOrdersHandler lists every order (admin).
// GET /orders
func GetAllOrdersHandler(orders *store.OrderStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		all, err := orders.FindAll()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, all)
	}
}

// GetUserOrdersHandler lists the caller's orders.
// GET /orders/mine
func GetUserOrdersHandler(orders *store.OrderStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		mine, err := orders.FindByUser(userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, mine)
	}
}

// GetOrderByIDHandler returns one of the caller's orders.
// GET /orders/:orderID
func GetOrderByIDHandler(orders *store.OrderStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		orderID, ok := orderIDParam(c)
		if !ok {
			return
		}
		order, err := orders.FindByID(orderID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if order == nil || order.UserID != userID {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}
		c.JSON(http.StatusOK, order)
	}
}
