package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/internal/models"
	"storefront/internal/services"
)

type CartHandler struct {
	cartService *services.CartService
	postService *services.PostService
}

func NewCartHandler(cartService *services.CartService, postService *services.PostService) *CartHandler {
	return &CartHandler{
		cartService: cartService,
		postService: postService,
	}
}

// GET /api/orders/cart/
// The cart is a per-user singleton, created empty on first access.
func (h *CartHandler) Get(c *gin.Context) {
	user, _ := currentUser(c)
	cart := h.cartService.GetOrCreate(user.ID)
	c.JSON(http.StatusOK, cart)
}

// POST /api/orders/cart/add/
// Returns the full updated cart.
func (h *CartHandler) Add(c *gin.Context) {
	user, _ := currentUser(c)

	var req models.AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Post ID is required"})
		return
	}

	post, exists := h.postService.Get(req.PostID)
	if !exists {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Not found."})
		return
	}

	cart := h.cartService.Add(user.ID, *post, req.Quantity)
	c.JSON(http.StatusOK, cart)
}

// DELETE /api/orders/cart/remove/:id/
func (h *CartHandler) Remove(c *gin.Context) {
	user, _ := currentUser(c)
	itemID, ok := pathID(c)
	if !ok {
		return
	}

	if !h.cartService.Remove(user.ID, itemID) {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Not found."})
		return
	}
	c.Status(http.StatusNoContent)
}

// PATCH /api/orders/cart/update/:id/
// Returns the updated line, or 204 when a zero quantity deletes it.
func (h *CartHandler) UpdateItem(c *gin.Context) {
	user, _ := currentUser(c)
	itemID, ok := pathID(c)
	if !ok {
		return
	}

	var req models.UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Quantity is required"})
		return
	}

	item, deleted, found := h.cartService.UpdateQuantity(user.ID, itemID, *req.Quantity)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Not found."})
		return
	}
	if deleted {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, item)
}
