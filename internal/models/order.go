package models

import "time"

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

type ContactInfo struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

type Order struct {
	ID              int           `json:"id"`
	User            User          `json:"user"`
	Status          OrderStatus   `json:"status"`
	PaymentMethod   PaymentMethod `json:"payment_method"`
	TotalAmount     Money         `json:"total_amount"`
	ShippingAddress string        `json:"shipping_address"`
	ContactInfo     ContactInfo   `json:"contact_info"`
	Items           []OrderItem   `json:"items"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

// OrderItem freezes the price at purchase time. Post may be nil when
// the listing was deleted after the order was placed.
type OrderItem struct {
	ID        int       `json:"id"`
	Post      *Post     `json:"post"`
	Quantity  int       `json:"quantity"`
	Price     Money     `json:"price"`
	CreatedAt time.Time `json:"created_at"`
}

// OrderPage is the paginated listing envelope for orders.
type OrderPage struct {
	Count   int     `json:"count"`
	Results []Order `json:"results"`
}

type CheckoutRequest struct {
	PaymentMethod   PaymentMethod `json:"payment_method" binding:"required"`
	ShippingAddress string        `json:"shipping_address" binding:"required"`
	ContactInfo     ContactInfo   `json:"contact_info" binding:"required"`
}
