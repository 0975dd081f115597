package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/internal/models"
	"storefront/internal/services"
)

type OrderHandler struct {
	orderService *services.OrderService
	cartService  *services.CartService
}

func NewOrderHandler(orderService *services.OrderService, cartService *services.CartService) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		cartService:  cartService,
	}
}

// GET /api/orders/
func (h *OrderHandler) List(c *gin.Context) {
	user, _ := currentUser(c)
	orders := h.orderService.ListByUser(user.ID)
	c.JSON(http.StatusOK, gin.H{
		"count":   len(orders),
		"results": orders,
	})
}

// GET /api/orders/:id/
func (h *OrderHandler) Get(c *gin.Context) {
	user, _ := currentUser(c)
	id, ok := pathID(c)
	if !ok {
		return
	}

	order, exists := h.orderService.Get(id, user.ID)
	if !exists {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Not found."})
		return
	}
	c.JSON(http.StatusOK, order)
}

// POST /api/orders/create/
// Checkout: snapshots the cart into a pending order and clears it.
func (h *OrderHandler) Create(c *gin.Context) {
	user, _ := currentUser(c)

	var req models.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !req.PaymentMethod.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payment method"})
		return
	}

	items := h.cartService.Items(user.ID)
	order, err := h.orderService.Create(user, items, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cart is empty"})
		return
	}

	h.cartService.Clear(user.ID)
	c.JSON(http.StatusCreated, order)
}

// PUT /api/orders/:id/cancel/
// Only pending orders are visible to the cancel path; anything else
// answers 404.
func (h *OrderHandler) Cancel(c *gin.Context) {
	user, _ := currentUser(c)
	id, ok := pathID(c)
	if !ok {
		return
	}

	order, cancelled := h.orderService.Cancel(id, user.ID)
	if !cancelled {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Not found."})
		return
	}
	c.JSON(http.StatusOK, order)
}
