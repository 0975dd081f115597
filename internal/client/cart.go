package client

import (
	"context"
	"fmt"
	"net/http"

	"storefront/internal/models"
)

func (c *Client) Cart(ctx context.Context) (*models.Cart, error) {
	var cart models.Cart
	if err := c.getJSON(ctx, "/orders/cart/", nil, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

// AddToCart adds quantity of a post and returns the full updated cart.
// Adding a post already in the cart merges into the existing line.
func (c *Client) AddToCart(ctx context.Context, postID, quantity int) (*models.Cart, error) {
	var cart models.Cart
	req := models.AddToCartRequest{PostID: postID, Quantity: quantity}
	if err := c.sendJSON(ctx, http.MethodPost, "/orders/cart/add/", req, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

func (c *Client) RemoveFromCart(ctx context.Context, itemID int) error {
	path := fmt.Sprintf("/orders/cart/remove/%d/", itemID)
	return c.do(ctx, http.MethodDelete, path, nil, nil, "", nil)
}

// UpdateCartItem sets a line's quantity and returns the updated item.
// A quantity of zero or less deletes the line server-side (204); the
// returned item is nil in that case.
func (c *Client) UpdateCartItem(ctx context.Context, itemID, quantity int) (*models.CartItem, error) {
	path := fmt.Sprintf("/orders/cart/update/%d/", itemID)
	req := models.UpdateCartItemRequest{Quantity: &quantity}
	if quantity <= 0 {
		return nil, c.sendJSON(ctx, http.MethodPatch, path, req, nil)
	}
	var item models.CartItem
	if err := c.sendJSON(ctx, http.MethodPatch, path, req, &item); err != nil {
		return nil, err
	}
	return &item, nil
}
