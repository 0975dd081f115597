package services

import (
	"sync"
	"time"

	"storefront/internal/models"
)

// CartService owns the per-user singleton carts. Totals are always
// recomputed from the live post prices before a cart leaves the
// service, matching what the serializer upstream did.
type CartService struct {
	mu         sync.RWMutex
	carts      map[int]*models.Cart // user_id -> cart
	nextCartID int
	nextItemID int
}

func NewCartService() *CartService {
	return &CartService{
		carts:      make(map[int]*models.Cart),
		nextCartID: 1,
		nextItemID: 1,
	}
}

// GetOrCreate returns the user's cart, creating an empty one on first
// touch.
func (s *CartService) GetOrCreate(userID int) models.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getOrCreateLocked(userID).Clone()
}

func (s *CartService) getOrCreateLocked(userID int) *models.Cart {
	cart, ok := s.carts[userID]
	if !ok {
		now := time.Now().UTC()
		cart = &models.Cart{
			ID:        s.nextCartID,
			Items:     []models.CartItem{},
			CreatedAt: now,
			UpdatedAt: now,
		}
		s.nextCartID++
		s.carts[userID] = cart
	}
	cart.TotalAmount = models.ComputeTotal(cart.Items)
	return cart
}

// Add puts quantity of a post into the cart. Adding a post already in
// the cart merges into the existing line instead of creating another.
func (s *CartService) Add(userID int, post models.Post, quantity int) models.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart := s.getOrCreateLocked(userID)
	merged := false
	for i := range cart.Items {
		if cart.Items[i].Post.ID == post.ID {
			cart.Items[i].Quantity += quantity
			cart.Items[i].Post = post
			merged = true
			break
		}
	}
	if !merged {
		cart.Items = append(cart.Items, models.CartItem{
			ID:       s.nextItemID,
			Post:     post,
			Quantity: quantity,
			AddedAt:  time.Now().UTC(),
		})
		s.nextItemID++
	}
	cart.UpdatedAt = time.Now().UTC()
	cart.TotalAmount = models.ComputeTotal(cart.Items)
	return cart.Clone()
}

// Remove deletes a line from the user's cart. It reports false when
// the line does not exist or belongs to another user's cart.
func (s *CartService) Remove(userID, itemID int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart, ok := s.carts[userID]
	if !ok {
		return false
	}
	for i, item := range cart.Items {
		if item.ID == itemID {
			cart.Items = append(cart.Items[:i], cart.Items[i+1:]...)
			cart.UpdatedAt = time.Now().UTC()
			cart.TotalAmount = models.ComputeTotal(cart.Items)
			return true
		}
	}
	return false
}

// UpdateQuantity sets a line's quantity. A quantity of zero or less
// deletes the line (deleted=true). found=false when the line is not
// in the user's cart.
func (s *CartService) UpdateQuantity(userID, itemID, quantity int) (item *models.CartItem, deleted, found bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart, ok := s.carts[userID]
	if !ok {
		return nil, false, false
	}
	for i := range cart.Items {
		if cart.Items[i].ID != itemID {
			continue
		}
		if quantity <= 0 {
			cart.Items = append(cart.Items[:i], cart.Items[i+1:]...)
			cart.UpdatedAt = time.Now().UTC()
			cart.TotalAmount = models.ComputeTotal(cart.Items)
			return nil, true, true
		}
		cart.Items[i].Quantity = quantity
		cart.UpdatedAt = time.Now().UTC()
		cart.TotalAmount = models.ComputeTotal(cart.Items)
		updated := cart.Items[i].Clone()
		return &updated, false, true
	}
	return nil, false, false
}

// Items returns a copy of the cart lines for checkout.
func (s *CartService) Items(userID int) []models.CartItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cart, ok := s.carts[userID]
	if !ok {
		return nil
	}
	items := make([]models.CartItem, len(cart.Items))
	for i, item := range cart.Items {
		items[i] = item.Clone()
	}
	return items
}

// Clear empties the user's cart after checkout.
func (s *CartService) Clear(userID int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart, ok := s.carts[userID]
	if !ok {
		return
	}
	cart.Items = []models.CartItem{}
	cart.TotalAmount = 0
	cart.UpdatedAt = time.Now().UTC()
}

// DropPost removes a deleted listing from every cart, the way the
// database cascade did upstream.
func (s *CartService) DropPost(postID int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, cart := range s.carts {
		kept := cart.Items[:0]
		changed := false
		for _, item := range cart.Items {
			if item.Post.ID == postID {
				changed = true
				continue
			}
			kept = append(kept, item)
		}
		if changed {
			cart.Items = kept
			cart.UpdatedAt = time.Now().UTC()
			cart.TotalAmount = models.ComputeTotal(cart.Items)
		}
	}
}
