package store

import (
	"context"
	"log/slog"
	"sync"

	"storefront/internal/client"
	"storefront/internal/models"
)

// OrdersSlice owns the order history and the selected order. Orders
// are immutable snapshots; the only client-initiated transition is
// pending -> cancelled.
type OrdersSlice struct {
	mu sync.Mutex
	opState

	api *client.Client
	log *slog.Logger

	listGate gate
	selGate  gate

	items    []models.Order
	selected *models.Order
}

type OrdersState struct {
	Items    []models.Order
	Selected *models.Order
	Loading  bool
	Err      string
}

func newOrdersSlice(api *client.Client, log *slog.Logger) *OrdersSlice {
	return &OrdersSlice{api: api, log: log}
}

func (s *OrdersSlice) Snapshot() OrdersState {
	s.mu.Lock()
	defer s.mu.Unlock()
	state := OrdersState{
		Items:   models.CloneOrders(s.items),
		Loading: s.loading(),
		Err:     s.err,
	}
	if s.selected != nil {
		o := s.selected.Clone()
		state.Selected = &o
	}
	return state
}

func (s *OrdersSlice) FetchOrders(ctx context.Context) error {
	s.mu.Lock()
	s.begin()
	tok := s.listGate.next()
	s.mu.Unlock()

	page, err := s.api.Orders(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.endFetch(&s.listGate, tok, err, "Failed to fetch orders") {
		return err
	}
	s.items = page.Results
	return nil
}

func (s *OrdersSlice) FetchOrder(ctx context.Context, id int) error {
	s.mu.Lock()
	s.begin()
	tok := s.selGate.next()
	s.mu.Unlock()

	order, err := s.api.Order(ctx, id)

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.endFetch(&s.selGate, tok, err, "Failed to fetch order") {
		return err
	}
	s.selected = order
	return nil
}

// Checkout creates an order from the current cart. The new order
// arrives pending, is prepended to the history, and becomes the
// selected order so the confirmation view can render it directly.
func (s *OrdersSlice) Checkout(ctx context.Context, req models.CheckoutRequest) (*models.Order, error) {
	s.mu.Lock()
	s.begin()
	s.mu.Unlock()

	order, err := s.api.Checkout(ctx, req)

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.end(err, "Failed to create order") {
		return nil, err
	}
	s.items = append([]models.Order{*order}, s.items...)
	s.selected = order
	created := order.Clone()
	return &created, nil
}

// CancelOrder cancels a pending order and merges the updated record.
// A 404 here is a real error, not a benign no-op: the server answers
// 404 for orders that are past pending, and the user needs to see
// that the cancellation did not happen.
func (s *OrdersSlice) CancelOrder(ctx context.Context, id int) error {
	s.mu.Lock()
	s.begin()
	s.mu.Unlock()

	order, err := s.api.CancelOrder(ctx, id)

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.end(err, "Failed to cancel order") {
		return err
	}
	for i := range s.items {
		if s.items[i].ID == order.ID {
			s.items[i] = *order
			break
		}
	}
	if s.selected != nil && s.selected.ID == order.ID {
		s.selected = order
	}
	return nil
}

func (s *OrdersSlice) ClearSelected() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = nil
}

func (s *OrdersSlice) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = ""
}
