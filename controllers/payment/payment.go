package paymentControllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/momagdy121/ecommerce-api/models"
	"github.com/momagdy121/ecommerce-api/store"
)

type UpdatePaymentStatusRequest struct {
	Status     string `json:"status" binding:"required"`
	GatewayRef string `json:"gateway_ref"`
}

func mapPaymentState(status string) (models.PaymentState, bool) {
	switch models.PaymentState(status) {
	case models.PaymentStatePending,
		models.PaymentStateProcessing,
		models.PaymentStateCompleted,
		models.PaymentStateFailed,
		models.PaymentStateRefunded,
		models.PaymentStateCancelled:
		return models.PaymentState(status), true
	}
	return "", false
}

// orderPaymentStatus mirrors a payment lifecycle state onto the order's
// coarser payment_status field. Pending/processing map to pending.
func orderPaymentStatus(state models.PaymentState) models.PaymentStatus {
	switch state {
	case models.PaymentStateCompleted:
		return models.PaymentStatusPaid
	case models.PaymentStateFailed:
		return models.PaymentStatusFailed
	case models.PaymentStateRefunded:
		return models.PaymentStatusRefunded
	}
	return models.PaymentStatusPending
}

// UpdatePaymentStatusHandler is the surface gateway callbacks land on: it
// moves the payment record through its lifecycle and mirrors the outcome
// onto the order.
// PUT /payments/order/:orderID/status
func UpdatePaymentStatusHandler(payments *store.PaymentStore, orders *store.OrderStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, err := strconv.Atoi(c.Param("orderID"))
		if err != nil || orderID <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
			return
		}

		var req UpdatePaymentStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		state, ok := mapPaymentState(req.Status)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payment status"})
			return
		}

		payment, err := payments.FindByOrderID(uint(orderID))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load payment"})
			return
		}
		if payment == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Payment not found"})
			return
		}

		if err := payments.UpdateStatus(payment.ID, state); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update payment status"})
			return
		}
		if err := orders.Update(payment.OrderID, map[string]interface{}{
			"payment_status": orderPaymentStatus(state),
		}); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update order payment status"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Payment status updated successfully"})
	}
}

// GetPaymentByOrderHandler returns the payment record linked to an order (admin).
// GET /payments/order/:orderID
func GetPaymentByOrderHandler(payments *store.PaymentStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, err := strconv.Atoi(c.Param("orderID"))
		if err != nil || orderID <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
			return
		}
		payment, err := payments.FindByOrderID(uint(orderID))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load payment"})
			return
		}
		if payment == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Payment not found"})
			return
		}
		c.JSON(http.StatusOK, payment)
	}
}
