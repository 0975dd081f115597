package services

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"storefront/internal/models"
)

// OrderService owns the order history. Orders snapshot their line
// prices at creation and never track the live listings afterward.
type OrderService struct {
	mu         sync.RWMutex
	orders     map[int]*models.Order
	userOrders map[int][]int // user_id -> order ids, oldest first
	nextID     int
	nextItemID int
}

func NewOrderService() *OrderService {
	return &OrderService{
		orders:     make(map[int]*models.Order),
		userOrders: make(map[int][]int),
		nextID:     1,
		nextItemID: 1,
	}
}

// Create builds a pending order from the given cart lines, freezing
// each line's price at the post's current value.
func (s *OrderService) Create(user models.User, items []models.CartItem, req models.CheckoutRequest) (*models.Order, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("cart is empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	order := &models.Order{
		ID:              s.nextID,
		User:            user,
		Status:          models.OrderStatusPending,
		PaymentMethod:   req.PaymentMethod,
		ShippingAddress: req.ShippingAddress,
		ContactInfo:     req.ContactInfo,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	s.nextID++

	var total float64
	for _, item := range items {
		post := item.Post.Clone()
		order.Items = append(order.Items, models.OrderItem{
			ID:        s.nextItemID,
			Post:      &post,
			Quantity:  item.Quantity,
			Price:     post.Price,
			CreatedAt: now,
		})
		s.nextItemID++
		total += float64(post.Price) * float64(item.Quantity)
	}
	order.TotalAmount = models.Money(total)

	s.orders[order.ID] = order
	s.userOrders[user.ID] = append(s.userOrders[user.ID], order.ID)

	c := order.Clone()
	return &c, nil
}

// ListByUser returns the user's orders, newest first.
func (s *OrderService) ListByUser(userID int) []models.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.userOrders[userID]
	orders := make([]models.Order, 0, len(ids))
	for _, id := range ids {
		if order, ok := s.orders[id]; ok {
			orders = append(orders, order.Clone())
		}
	}
	sort.Slice(orders, func(i, j int) bool {
		if orders[i].CreatedAt.Equal(orders[j].CreatedAt) {
			return orders[i].ID > orders[j].ID
		}
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
	return orders
}

func (s *OrderService) Get(id, userID int) (*models.Order, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	order, ok := s.orders[id]
	if !ok || order.User.ID != userID {
		return nil, false
	}
	c := order.Clone()
	return &c, true
}

// Cancel moves a pending order to cancelled. Orders past pending are
// not visible to the cancel path, so they report not-found rather
// than a conflict, preserving the original API's behavior.
func (s *OrderService) Cancel(id, userID int) (*models.Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.orders[id]
	if !ok || order.User.ID != userID || order.Status != models.OrderStatusPending {
		return nil, false
	}
	order.Status = models.OrderStatusCancelled
	order.UpdatedAt = time.Now().UTC()

	c := order.Clone()
	return &c, true
}

// DropPost detaches a deleted listing from historical order lines;
// the frozen price and quantity stay.
func (s *OrderService) DropPost(postID int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, order := range s.orders {
		for i := range order.Items {
			if order.Items[i].Post != nil && order.Items[i].Post.ID == postID {
				order.Items[i].Post = nil
			}
		}
	}
}
