package store

import (
	"context"
	"log/slog"
	"sync"

	"storefront/internal/client"
	"storefront/internal/models"
)

// CartSlice owns the authenticated user's cart.
//
// Consistency policy: add-to-cart applies the full cart the server
// returns; removal and quantity updates mutate the cached cart locally
// and recompute total_amount from the remaining line subtotals instead
// of refetching. The local recompute matches the server's calculation
// for the same item set, so drift can only come from concurrent
// price changes and is bounded by the next FetchCart. That refetch is
// left to the caller; mutations stay single-round-trip.
type CartSlice struct {
	mu sync.Mutex
	opState

	api *client.Client
	log *slog.Logger

	fetchGate gate
	cart      *models.Cart
}

type CartState struct {
	Cart    *models.Cart
	Loading bool
	Err     string
}

func newCartSlice(api *client.Client, log *slog.Logger) *CartSlice {
	return &CartSlice{api: api, log: log}
}

func (s *CartSlice) Snapshot() CartState {
	s.mu.Lock()
	defer s.mu.Unlock()
	state := CartState{Loading: s.loading(), Err: s.err}
	if s.cart != nil {
		c := s.cart.Clone()
		state.Cart = &c
	}
	return state
}

func (s *CartSlice) FetchCart(ctx context.Context) error {
	s.mu.Lock()
	s.begin()
	tok := s.fetchGate.next()
	s.mu.Unlock()

	cart, err := s.api.Cart(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.endFetch(&s.fetchGate, tok, err, "Failed to fetch cart") {
		return err
	}
	s.cart = cart
	return nil
}

func (s *CartSlice) AddToCart(ctx context.Context, postID, quantity int) error {
	s.mu.Lock()
	s.begin()
	s.mu.Unlock()

	cart, err := s.api.AddToCart(ctx, postID, quantity)

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.end(err, "Failed to add item to cart") {
		return err
	}
	s.cart = cart
	return nil
}

// RemoveFromCart drops a line and recomputes the total locally. A 404
// means the line is already gone (double-submit); that is a no-op
// success and the local filter still applies.
func (s *CartSlice) RemoveFromCart(ctx context.Context, itemID int) error {
	s.mu.Lock()
	s.begin()
	s.mu.Unlock()

	err := s.api.RemoveFromCart(ctx, itemID)
	if client.IsNotFound(err) {
		err = nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.end(err, "Failed to remove item from cart") {
		return err
	}
	s.dropItem(itemID)
	return nil
}

// UpdateQuantity sets a line's quantity. The server answers with the
// updated line, or deletes it when the quantity drops to zero or
// below; either way the total is recomputed locally.
func (s *CartSlice) UpdateQuantity(ctx context.Context, itemID, quantity int) error {
	s.mu.Lock()
	s.begin()
	s.mu.Unlock()

	item, err := s.api.UpdateCartItem(ctx, itemID, quantity)
	if client.IsNotFound(err) {
		item, err = nil, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.end(err, "Failed to update cart item") {
		return err
	}
	if item == nil {
		s.dropItem(itemID)
		return nil
	}
	if s.cart != nil {
		for i := range s.cart.Items {
			if s.cart.Items[i].ID == item.ID {
				s.cart.Items[i] = *item
				break
			}
		}
		s.cart.TotalAmount = models.ComputeTotal(s.cart.Items)
	}
	return nil
}

// ClearLocal forgets the cached cart without a server call; checkout
// empties the cart server-side and the view resets the local copy.
func (s *CartSlice) ClearLocal() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart = nil
}

func (s *CartSlice) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = ""
}

// dropItem filters a line out and recomputes the total. Callers hold
// the mutex.
func (s *CartSlice) dropItem(itemID int) {
	if s.cart == nil {
		return
	}
	kept := s.cart.Items[:0]
	for _, item := range s.cart.Items {
		if item.ID != itemID {
			kept = append(kept, item)
		}
	}
	s.cart.Items = kept
	s.cart.TotalAmount = models.ComputeTotal(s.cart.Items)
}
