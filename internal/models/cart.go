package models

import "time"

type Cart struct {
	ID          int        `json:"id"`
	Items       []CartItem `json:"items"`
	TotalAmount Money      `json:"total_amount"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type CartItem struct {
	ID       int       `json:"id"`
	Post     Post      `json:"post"`
	Quantity int       `json:"quantity"`
	AddedAt  time.Time `json:"added_at"`
}

// Subtotal is the line amount at the post's current price.
func (i CartItem) Subtotal() Money {
	return Money(float64(i.Post.Price) * float64(i.Quantity))
}

// ComputeTotal sums the line subtotals. It matches the server's own
// total calculation given the same item set.
func ComputeTotal(items []CartItem) Money {
	var total float64
	for _, item := range items {
		total += float64(item.Subtotal())
	}
	return Money(total)
}

type AddToCartRequest struct {
	PostID   int `json:"post_id" binding:"required"`
	Quantity int `json:"quantity" binding:"required,gt=0"`
}

// UpdateCartItemRequest uses a pointer so that an explicit zero
// quantity (which deletes the line) survives required validation.
type UpdateCartItemRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}
