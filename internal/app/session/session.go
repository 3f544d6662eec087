package session

import (
	"errors"
	"sync"

	"github.com/yorkie01/restaurant-order-system/internal/app/model"
)

var (
	ErrUnknownTable    = errors.New("unknown table number")
	ErrSubmitInFlight  = errors.New("order submission already in flight")
)

// TableSession 1テーブル分の注文セッション状態
// カートと未会計累計金額のキャッシュを明示的に所有する。
type TableSession struct {
	TableNumber string

	mu           sync.Mutex
	cart         *Cart
	runningTotal int
	submitting   bool
}

func newTableSession(tableNumber string, runningTotal int) *TableSession {
	return &TableSession{
		TableNumber:  tableNumber,
		cart:         NewCart(),
		runningTotal: runningTotal,
	}
}

// AddItem adds one unit of the menu item to the cart.
func (s *TableSession) AddItem(item model.MenuItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart.AddLine(item)
}

// ChangeQuantity adjusts a cart line by delta, removing it at zero or below.
func (s *TableSession) ChangeQuantity(menuItemID uint, delta int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart.ChangeQuantity(menuItemID, delta)
}

// RemoveItem removes a cart line unconditionally.
func (s *TableSession) RemoveItem(menuItemID uint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart.RemoveLine(menuItemID)
}

// ClearCart empties the cart without touching the running total.
func (s *TableSession) ClearCart() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart.Clear()
}

// CartLines returns a snapshot of the current cart lines.
func (s *TableSession) CartLines() []CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Lines()
}

// CartIsEmpty reports whether the cart has no lines.
func (s *TableSession) CartIsEmpty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.IsEmpty()
}

// RunningTotal returns the cached unsettled balance for the table.
func (s *TableSession) RunningTotal() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.runningTotal
}

// setRunningTotal replaces the cached balance (session bootstrap).
func (s *TableSession) setRunningTotal(amount int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runningTotal = amount
}

// BeginSubmit marks a submission in flight. A second submission from the
// same session while one is pending is rejected, mirroring the disabled
// submit control on the ordering screen.
func (s *TableSession) BeginSubmit() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.submitting {
		return ErrSubmitInFlight
	}
	s.submitting = true
	return nil
}

// EndSubmit clears the in-flight flag.
func (s *TableSession) EndSubmit() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.submitting = false
}

// CompleteSubmit applies a committed order: the order total is added to the
// cached running total and the cart is emptied.
func (s *TableSession) CompleteSubmit(orderTotal int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runningTotal += orderTotal
	s.cart.Clear()
}

// CompleteCheckout zeroes the cached running total and empties the cart.
func (s *TableSession) CompleteCheckout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runningTotal = 0
	s.cart.Clear()
}
