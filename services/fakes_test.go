package services

import (
	"sync"
	"time"

	"github.com/momagdy121/ecommerce-api/models"
)

// In-memory stand-ins for the store package. They mirror the real stores'
// atomic semantics under a mutex so the orchestrator can be exercised
// concurrently without a database.

type memCatalog struct {
	mu       sync.Mutex
	products map[uint]*models.Product
}

func newMemCatalog(products ...*models.Product) *memCatalog {
	m := &memCatalog{products: make(map[uint]*models.Product)}
	for _, p := range products {
		cp := *p
		m.products[p.ID] = &cp
	}
	return m
}

func (m *memCatalog) GetProduct(id uint) (*models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (m *memCatalog) DecrementStock(id uint, qty int) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok || p.Stock < qty {
		return false, nil
	}
	p.Stock -= qty
	return true, nil
}

func (m *memCatalog) IncrementStock(id uint, qty int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.products[id]; ok {
		p.Stock += qty
	}
	return nil
}

func (m *memCatalog) stock(id uint) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.products[id]; ok {
		return p.Stock
	}
	return -1
}

type memCarts struct {
	mu    sync.Mutex
	carts map[string]*models.Cart
}

func newMemCarts() *memCarts {
	return &memCarts{carts: make(map[string]*models.Cart)}
}

func (m *memCarts) put(userID string, items ...models.CartItem) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.carts[userID] = &models.Cart{CartID: uint(len(m.carts) + 1), UserID: userID, Items: items}
}

func (m *memCarts) GetCart(userID string) (*models.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cart, ok := m.carts[userID]
	if !ok {
		return nil, nil
	}
	cp := *cart
	cp.Items = append([]models.CartItem(nil), cart.Items...)
	return &cp, nil
}

func (m *memCarts) ClearCart(userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if cart, ok := m.carts[userID]; ok {
		cart.Items = nil
	}
	return nil
}

func (m *memCarts) itemCount(userID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if cart, ok := m.carts[userID]; ok {
		return len(cart.Items)
	}
	return 0
}

type memCoupons struct {
	mu      sync.Mutex
	coupons map[string]*models.Coupon
}

func newMemCoupons(coupons ...*models.Coupon) *memCoupons {
	m := &memCoupons{coupons: make(map[string]*models.Coupon)}
	for _, c := range coupons {
		cp := *c
		m.coupons[c.Code] = &cp
	}
	return m
}

func (m *memCoupons) FindActiveByCode(code string, now time.Time) (*models.Coupon, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.coupons[code]
	if !ok || !c.IsActive || now.Before(c.ValidFrom) || now.After(c.ValidUntil) {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (m *memCoupons) IncrementUsage(code string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.coupons[code]
	if !ok {
		return false, nil
	}
	if c.UsageLimit > 0 && c.UsedCount >= c.UsageLimit {
		return false, nil
	}
	c.UsedCount++
	return true, nil
}

func (m *memCoupons) DecrementUsage(code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.coupons[code]; ok && c.UsedCount > 0 {
		c.UsedCount--
	}
	return nil
}

func (m *memCoupons) usedCount(code string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.coupons[code]; ok {
		return c.UsedCount
	}
	return -1
}

type memOrders struct {
	mu     sync.Mutex
	seq    uint
	orders map[uint]*models.Order
}

func newMemOrders() *memOrders {
	return &memOrders{orders: make(map[uint]*models.Order)}
}

func (m *memOrders) Create(order *models.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	order.ID = m.seq
	cp := *order
	cp.Items = append([]models.OrderItem(nil), order.Items...)
	m.orders[order.ID] = &cp
	return nil
}

func (m *memOrders) FindByID(id uint) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	order, ok := m.orders[id]
	if !ok {
		return nil, nil
	}
	cp := *order
	cp.Items = append([]models.OrderItem(nil), order.Items...)
	return &cp, nil
}

func (m *memOrders) Update(id uint, fields map[string]interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	order, ok := m.orders[id]
	if !ok {
		return nil
	}
	for k, v := range fields {
		switch k {
		case "order_status":
			order.OrderStatus = v.(models.OrderStatus)
		case "payment_status":
			order.PaymentStatus = v.(models.PaymentStatus)
		case "payment_id":
			order.PaymentID = v.(uint)
		case "tracking_number":
			order.TrackingNumber = v.(string)
		}
	}
	return nil
}

func (m *memOrders) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.orders)
}

type memPayments struct {
	mu       sync.Mutex
	seq      uint
	payments map[uint]*models.Payment
	failNext error
}

func newMemPayments() *memPayments {
	return &memPayments{payments: make(map[uint]*models.Payment)}
}

func (m *memPayments) Create(payment *models.Payment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failNext != nil {
		err := m.failNext
		m.failNext = nil
		return err
	}
	m.seq++
	payment.ID = m.seq
	cp := *payment
	m.payments[payment.ID] = &cp
	return nil
}

func (m *memPayments) UpdateStatus(id uint, status models.PaymentState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.payments[id]; ok {
		p.Status = status
	}
	return nil
}

func (m *memPayments) byOrder(orderID uint) *models.Payment {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.payments {
		if p.OrderID == orderID {
			cp := *p
			return &cp
		}
	}
	return nil
}

func (m *memPayments) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.payments)
}

type memNotifier struct {
	mu     sync.Mutex
	types  []string
	failed error
}

func (m *memNotifier) Notify(userID, typ, title, message, data string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failed != nil {
		return m.failed
	}
	m.types = append(m.types, typ)
	return nil
}

func (m *memNotifier) sent() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.types...)
}

// checkoutFixture wires a CheckoutService to fresh fakes.
type checkoutFixture struct {
	catalog  *memCatalog
	carts    *memCarts
	coupons  *memCoupons
	orders   *memOrders
	payments *memPayments
	notifier *memNotifier
	svc      *CheckoutService
}

func newCheckoutFixture(products []*models.Product, coupons ...*models.Coupon) *checkoutFixture {
	f := &checkoutFixture{
		catalog:  newMemCatalog(products...),
		carts:    newMemCarts(),
		coupons:  newMemCoupons(coupons...),
		orders:   newMemOrders(),
		payments: newMemPayments(),
		notifier: &memNotifier{},
	}
	f.svc = NewCheckoutService(f.catalog, f.carts, f.coupons, f.orders, f.payments, f.notifier)
	return f
}
