package services

import (
	"errors"
	"sync"
	"testing"

	"github.com/momagdy121/ecommerce-api/models"
)

func testProducts() []*models.Product {
	return []*models.Product{
		{ID: 1, Title: "Keyboard", Price: 40, Stock: 10, IsActive: true},
		{ID: 2, Title: "Mouse", Price: 25, DiscountPrice: 20, Stock: 5, IsActive: true},
	}
}

func checkoutInput(userID string) CreateOrderInput {
	return CreateOrderInput{
		UserID:        userID,
		PaymentMethod: models.PaymentMethodCOD,
		ShippingAddress: models.Address{
			Country: "EG", City: "Cairo", Street: "1 Tahrir Sq", PostalCode: "11511",
		},
	}
}

func TestCreateOrderHappyPath(t *testing.T) {
	f := newCheckoutFixture(testProducts())
	f.carts.put("u1",
		models.CartItem{ProductID: 1, Quantity: 2, UnitPrice: 40},
		models.CartItem{ProductID: 2, Quantity: 3, UnitPrice: 25}, // stale snapshot, real price is 20
	)

	order, err := f.svc.CreateOrder(checkoutInput("u1"))
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}

	// 2*40 + 3*20 (effective price, not the cart's stale snapshot)
	if order.TotalPrice != 140 {
		t.Errorf("TotalPrice = %v, want 140", order.TotalPrice)
	}
	if order.Discount != 0 {
		t.Errorf("Discount = %v, want 0", order.Discount)
	}
	if order.OrderStatus != models.OrderStatusPending || order.PaymentStatus != models.PaymentStatusPending {
		t.Errorf("statuses = %s/%s, want pending/pending", order.OrderStatus, order.PaymentStatus)
	}
	if len(order.Items) != 2 {
		t.Fatalf("len(Items) = %d, want 2", len(order.Items))
	}
	if order.Items[1].UnitPrice != 20 || order.Items[1].Title != "Mouse" {
		t.Errorf("item snapshot = %+v, want Mouse at 20", order.Items[1])
	}

	if got := f.catalog.stock(1); got != 8 {
		t.Errorf("product 1 stock = %d, want 8", got)
	}
	if got := f.catalog.stock(2); got != 2 {
		t.Errorf("product 2 stock = %d, want 2", got)
	}
	if f.carts.itemCount("u1") != 0 {
		t.Error("cart should be empty after checkout")
	}

	if f.payments.count() != 1 {
		t.Fatalf("payments = %d, want exactly 1", f.payments.count())
	}
	payment := f.payments.byOrder(order.ID)
	if payment == nil {
		t.Fatal("no payment linked to order")
	}
	if payment.Amount != order.TotalPrice {
		t.Errorf("payment amount = %v, want %v", payment.Amount, order.TotalPrice)
	}
	if payment.Status != models.PaymentStatePending {
		t.Errorf("COD payment status = %s, want pending", payment.Status)
	}
	if order.PaymentID != payment.ID {
		t.Errorf("order.PaymentID = %d, want %d", order.PaymentID, payment.ID)
	}

	if sent := f.notifier.sent(); len(sent) != 1 || sent[0] != models.NotificationOrderPlaced {
		t.Errorf("notifications = %v, want one order_placed", sent)
	}
}

func TestCreateOrderEmptyCart(t *testing.T) {
	f := newCheckoutFixture(testProducts(), validCoupon("SAVE20", models.DiscountPercentage, 20))

	// Missing cart
	in := checkoutInput("nobody")
	in.CouponCode = "SAVE20"
	if _, err := f.svc.CreateOrder(in); !errors.Is(err, ErrEmptyCart) {
		t.Errorf("missing cart: err = %v, want ErrEmptyCart", err)
	}

	// Present but empty cart
	f.carts.put("u1")
	in.UserID = "u1"
	if _, err := f.svc.CreateOrder(in); !errors.Is(err, ErrEmptyCart) {
		t.Errorf("empty cart: err = %v, want ErrEmptyCart", err)
	}

	if f.orders.count() != 0 || f.payments.count() != 0 {
		t.Error("empty-cart rejection must not create orders or payments")
	}
	if f.catalog.stock(1) != 10 || f.catalog.stock(2) != 5 {
		t.Error("empty-cart rejection must not touch stock")
	}
	if f.coupons.usedCount("SAVE20") != 0 {
		t.Error("empty-cart rejection must not redeem the coupon")
	}
}

func TestCreateOrderInsufficientStock(t *testing.T) {
	f := newCheckoutFixture(testProducts())
	f.carts.put("u1",
		models.CartItem{ProductID: 1, Quantity: 1},
		models.CartItem{ProductID: 2, Quantity: 6}, // only 5 in stock
	)

	_, err := f.svc.CreateOrder(checkoutInput("u1"))
	var stockErr *InsufficientStockError
	if !errors.As(err, &stockErr) {
		t.Fatalf("err = %v, want InsufficientStockError", err)
	}
	if stockErr.Title != "Mouse" || stockErr.Available != 5 {
		t.Errorf("stockErr = %+v, want Mouse/5", stockErr)
	}

	// Validation covers the whole cart before anything is written: product 1
	// had enough stock but must not have been decremented.
	if f.catalog.stock(1) != 10 {
		t.Errorf("product 1 stock = %d, want untouched 10", f.catalog.stock(1))
	}
	if f.orders.count() != 0 {
		t.Error("no order should exist after a validation failure")
	}
	if f.carts.itemCount("u1") != 2 {
		t.Error("cart must survive a failed checkout")
	}
}

func TestCreateOrderInactiveProduct(t *testing.T) {
	products := testProducts()
	products[0].IsActive = false
	f := newCheckoutFixture(products)
	f.carts.put("u1", models.CartItem{ProductID: 1, Quantity: 1})

	_, err := f.svc.CreateOrder(checkoutInput("u1"))
	var unavailErr *ProductUnavailableError
	if !errors.As(err, &unavailErr) {
		t.Fatalf("err = %v, want ProductUnavailableError", err)
	}
	if unavailErr.Title != "Keyboard" {
		t.Errorf("unavailErr.Title = %q, want Keyboard", unavailErr.Title)
	}
}

func TestCreateOrderWithPercentageCoupon(t *testing.T) {
	f := newCheckoutFixture(
		[]*models.Product{{ID: 1, Title: "Desk", Price: 50, Stock: 10, IsActive: true}},
		validCoupon("SAVE20", models.DiscountPercentage, 20),
	)
	f.carts.put("u1", models.CartItem{ProductID: 1, Quantity: 2}) // subtotal 100

	in := checkoutInput("u1")
	in.CouponCode = "save20" // lower case on purpose
	order, err := f.svc.CreateOrder(in)
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}

	if order.Discount != 20 || order.TotalPrice != 80 {
		t.Errorf("discount/total = %v/%v, want 20/80", order.Discount, order.TotalPrice)
	}
	if order.CouponCode != "SAVE20" {
		t.Errorf("CouponCode = %q, want normalized SAVE20", order.CouponCode)
	}
	if f.coupons.usedCount("SAVE20") != 1 {
		t.Errorf("usedCount = %d, want exactly 1", f.coupons.usedCount("SAVE20"))
	}
	if payment := f.payments.byOrder(order.ID); payment == nil || payment.Amount != 80 {
		t.Errorf("payment amount should be the discounted total, got %+v", payment)
	}
}

// A $50 fixed coupon on a $30 cart produces a -$20 total: the historical
// unfloored behavior, kept until FloorTotalAtZero is flipped.
func TestCreateOrderFixedCouponGoesNegative(t *testing.T) {
	f := newCheckoutFixture(
		[]*models.Product{{ID: 1, Title: "Cable", Price: 30, Stock: 3, IsActive: true}},
		validCoupon("FLAT50", models.DiscountFixed, 50),
	)
	f.carts.put("u1", models.CartItem{ProductID: 1, Quantity: 1})

	in := checkoutInput("u1")
	in.CouponCode = "FLAT50"
	order, err := f.svc.CreateOrder(in)
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	if order.TotalPrice != -20 {
		t.Errorf("TotalPrice = %v, want -20 (unfloored)", order.TotalPrice)
	}
}

func TestCreateOrderCouponExhausted(t *testing.T) {
	coupon := validCoupon("ONCE", models.DiscountFixed, 5)
	coupon.UsageLimit = 1
	coupon.UsedCount = 1
	f := newCheckoutFixture(testProducts(), coupon)
	f.carts.put("u1", models.CartItem{ProductID: 1, Quantity: 1})

	in := checkoutInput("u1")
	in.CouponCode = "ONCE"
	if _, err := f.svc.CreateOrder(in); !errors.Is(err, ErrCouponExhausted) {
		t.Errorf("err = %v, want ErrCouponExhausted", err)
	}
	if f.orders.count() != 0 || f.catalog.stock(1) != 10 {
		t.Error("coupon rejection happens before any write")
	}
}

func TestCreateOrderCardPaymentIsProcessing(t *testing.T) {
	f := newCheckoutFixture(testProducts())
	f.carts.put("u1", models.CartItem{ProductID: 1, Quantity: 1})

	in := checkoutInput("u1")
	in.PaymentMethod = models.PaymentMethodCard
	order, err := f.svc.CreateOrder(in)
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	if payment := f.payments.byOrder(order.ID); payment == nil || payment.Status != models.PaymentStateProcessing {
		t.Errorf("card payment status should be processing, got %+v", payment)
	}
}

// Two checkouts race for the same 5 units of stock. Exactly one may win;
// the loser must fail with an insufficient-stock error and stock must end
// at 0, never negative. Regression test for the atomic-decrement discipline.
func TestConcurrentCheckoutsDoNotOversell(t *testing.T) {
	f := newCheckoutFixture([]*models.Product{
		{ID: 1, Title: "Limited", Price: 10, Stock: 5, IsActive: true},
	})
	f.carts.put("u1", models.CartItem{ProductID: 1, Quantity: 5})
	f.carts.put("u2", models.CartItem{ProductID: 1, Quantity: 5})

	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i, user := range []string{"u1", "u2"} {
		wg.Add(1)
		go func(i int, user string) {
			defer wg.Done()
			_, errs[i] = f.svc.CreateOrder(checkoutInput(user))
		}(i, user)
	}
	wg.Wait()

	var successes int
	for _, err := range errs {
		if err == nil {
			successes++
			continue
		}
		// The loser fails either at validation (clean rejection) or at the
		// conditional decrement (compensated partial failure); both must
		// carry the insufficient-stock cause.
		var stockErr *InsufficientStockError
		if !errors.As(err, &stockErr) {
			t.Errorf("loser error = %v, want InsufficientStockError", err)
		}
	}
	if successes != 1 {
		t.Fatalf("successes = %d, want exactly 1", successes)
	}
	if got := f.catalog.stock(1); got != 0 {
		t.Errorf("stock = %d, want 0 (never negative)", got)
	}
}

// A failure after the order record exists must compensate every completed
// step and surface ErrPartialCheckout instead of silently succeeding.
func TestCreateOrderPartialFailureCompensates(t *testing.T) {
	f := newCheckoutFixture(
		[]*models.Product{{ID: 1, Title: "Lamp", Price: 60, Stock: 4, IsActive: true}},
		validCoupon("SAVE20", models.DiscountPercentage, 20),
	)
	f.carts.put("u1", models.CartItem{ProductID: 1, Quantity: 2})
	f.payments.failNext = errors.New("payments table offline")

	in := checkoutInput("u1")
	in.CouponCode = "SAVE20"
	_, err := f.svc.CreateOrder(in)
	if !errors.Is(err, ErrPartialCheckout) {
		t.Fatalf("err = %v, want ErrPartialCheckout", err)
	}
	var perr *PartialCheckoutError
	if !errors.As(err, &perr) || perr.OrderID == 0 {
		t.Fatalf("err = %v, want PartialCheckoutError with order id", err)
	}

	order, _ := f.orders.FindByID(perr.OrderID)
	if order == nil || order.OrderStatus != models.OrderStatusCancelled {
		t.Errorf("order should be compensated to cancelled, got %+v", order)
	}
	if got := f.catalog.stock(1); got != 4 {
		t.Errorf("stock = %d, want restored 4", got)
	}
	if f.coupons.usedCount("SAVE20") != 0 {
		t.Error("coupon redemption should be rolled back for a never-completed checkout")
	}
}

func TestNotifierFailureDoesNotFailCheckout(t *testing.T) {
	f := newCheckoutFixture(testProducts())
	f.notifier.failed = errors.New("smtp down")
	f.carts.put("u1", models.CartItem{ProductID: 1, Quantity: 1})

	if _, err := f.svc.CreateOrder(checkoutInput("u1")); err != nil {
		t.Fatalf("notifier failure must not fail checkout, got %v", err)
	}
}

// ---- Cancellation ----

func paidConfirmedOrder(f *checkoutFixture, userID string) *models.Order {
	order := &models.Order{
		OrderRef:      "ref-1",
		UserID:        userID,
		OrderStatus:   models.OrderStatusConfirmed,
		PaymentStatus: models.PaymentStatusPaid,
		TotalPrice:    100,
		Items: []models.OrderItem{
			{ProductID: 1, Title: "Keyboard", Quantity: 2, UnitPrice: 40},
			{ProductID: 2, Title: "Mouse", Quantity: 1, UnitPrice: 20},
		},
	}
	if err := f.orders.Create(order); err != nil {
		panic(err)
	}
	payment := &models.Payment{OrderID: order.ID, UserID: userID, Amount: 100, Status: models.PaymentStateCompleted}
	if err := f.payments.Create(payment); err != nil {
		panic(err)
	}
	f.orders.Update(order.ID, map[string]interface{}{"payment_id": payment.ID})
	order.PaymentID = payment.ID
	return order
}

func TestCancelOrderRestoresStockAndRefunds(t *testing.T) {
	f := newCheckoutFixture(testProducts())
	order := paidConfirmedOrder(f, "u1")

	cancelled, err := f.svc.CancelOrder(order.ID, "u1")
	if err != nil {
		t.Fatalf("CancelOrder: %v", err)
	}

	if cancelled.OrderStatus != models.OrderStatusCancelled {
		t.Errorf("OrderStatus = %s, want cancelled", cancelled.OrderStatus)
	}
	if cancelled.PaymentStatus != models.PaymentStatusRefunded {
		t.Errorf("PaymentStatus = %s, want refunded", cancelled.PaymentStatus)
	}
	// Stock restored exactly once per item.
	if f.catalog.stock(1) != 12 || f.catalog.stock(2) != 6 {
		t.Errorf("stock = %d/%d, want 12/6", f.catalog.stock(1), f.catalog.stock(2))
	}
	if payment := f.payments.byOrder(order.ID); payment == nil || payment.Status != models.PaymentStateRefunded {
		t.Errorf("linked payment should be refunded, got %+v", payment)
	}
}

func TestCancelOrderShippedNotCancellable(t *testing.T) {
	f := newCheckoutFixture(testProducts())
	order := paidConfirmedOrder(f, "u1")
	f.orders.Update(order.ID, map[string]interface{}{"order_status": models.OrderStatusShipped})

	_, err := f.svc.CancelOrder(order.ID, "u1")
	if !errors.Is(err, ErrNotCancellable) {
		t.Fatalf("err = %v, want ErrNotCancellable", err)
	}
	if f.catalog.stock(1) != 10 {
		t.Error("stock must stay untouched for a non-cancellable order")
	}
	if payment := f.payments.byOrder(order.ID); payment.Status != models.PaymentStateCompleted {
		t.Error("payment must stay untouched for a non-cancellable order")
	}
}

func TestCancelOrderAlreadyCancelled(t *testing.T) {
	f := newCheckoutFixture(testProducts())
	order := paidConfirmedOrder(f, "u1")

	if _, err := f.svc.CancelOrder(order.ID, "u1"); err != nil {
		t.Fatalf("first cancel: %v", err)
	}
	if _, err := f.svc.CancelOrder(order.ID, "u1"); !errors.Is(err, ErrAlreadyCancelled) {
		t.Errorf("second cancel: err = %v, want ErrAlreadyCancelled", err)
	}
	// A double cancel must not restore stock twice.
	if f.catalog.stock(1) != 12 {
		t.Errorf("stock = %d, want 12 after a single restore", f.catalog.stock(1))
	}
}

func TestCancelOrderOwnershipEnforced(t *testing.T) {
	f := newCheckoutFixture(testProducts())
	order := paidConfirmedOrder(f, "u1")

	if _, err := f.svc.CancelOrder(order.ID, "intruder"); !errors.Is(err, ErrOrderNotFound) {
		t.Errorf("err = %v, want ErrOrderNotFound", err)
	}
	if _, err := f.svc.CancelOrder(9999, "u1"); !errors.Is(err, ErrOrderNotFound) {
		t.Errorf("missing order: err = %v, want ErrOrderNotFound", err)
	}
}

// Redeemed stays redeemed: cancelling an order does not refund the coupon's
// usage counter.
func TestCancelOrderKeepsCouponUsage(t *testing.T) {
	f := newCheckoutFixture(
		[]*models.Product{{ID: 1, Title: "Desk", Price: 50, Stock: 10, IsActive: true}},
		validCoupon("SAVE20", models.DiscountPercentage, 20),
	)
	f.carts.put("u1", models.CartItem{ProductID: 1, Quantity: 2})

	in := checkoutInput("u1")
	in.CouponCode = "SAVE20"
	order, err := f.svc.CreateOrder(in)
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	if _, err := f.svc.CancelOrder(order.ID, "u1"); err != nil {
		t.Fatalf("CancelOrder: %v", err)
	}
	if f.coupons.usedCount("SAVE20") != 1 {
		t.Errorf("usedCount = %d, want 1 (not refunded on cancel)", f.coupons.usedCount("SAVE20"))
	}
}

// ---- Admin status updates ----

func TestUpdateOrderStatusIsPermissive(t *testing.T) {
	f := newCheckoutFixture(testProducts())
	order := paidConfirmedOrder(f, "u1")

	// Forward...
	if _, err := f.svc.UpdateOrderStatus(order.ID, "delivered", ""); err != nil {
		t.Fatalf("forward update: %v", err)
	}
	// ...and deliberately backward: the admin UI depends on this.
	updated, err := f.svc.UpdateOrderStatus(order.ID, "pending", "")
	if err != nil {
		t.Fatalf("backward update: %v", err)
	}
	if updated.OrderStatus != models.OrderStatusPending {
		t.Errorf("OrderStatus = %s, want pending", updated.OrderStatus)
	}
}

func TestUpdateOrderStatusValidation(t *testing.T) {
	f := newCheckoutFixture(testProducts())
	order := paidConfirmedOrder(f, "u1")

	if _, err := f.svc.UpdateOrderStatus(order.ID, "teleported", ""); !errors.Is(err, ErrInvalidStatus) {
		t.Errorf("err = %v, want ErrInvalidStatus", err)
	}
	if _, err := f.svc.UpdateOrderStatus(404, "pending", ""); !errors.Is(err, ErrOrderNotFound) {
		t.Errorf("err = %v, want ErrOrderNotFound", err)
	}
}

func TestUpdateOrderStatusTrackingNumber(t *testing.T) {
	f := newCheckoutFixture(testProducts())
	order := paidConfirmedOrder(f, "u1")

	updated, err := f.svc.UpdateOrderStatus(order.ID, "shipped", "TRACK-42")
	if err != nil {
		t.Fatalf("UpdateOrderStatus: %v", err)
	}
	if updated.TrackingNumber != "TRACK-42" || updated.OrderStatus != models.OrderStatusShipped {
		t.Errorf("updated = %s/%s, want shipped/TRACK-42", updated.OrderStatus, updated.TrackingNumber)
	}
	if sent := f.notifier.sent(); len(sent) == 0 || sent[len(sent)-1] != models.NotificationOrderUpdated {
		t.Errorf("expected an order_status_updated notification, got %v", sent)
	}
}
