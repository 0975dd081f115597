package client

import (
	"context"
	"fmt"
	"net/http"

	"storefront/internal/models"
)

func (c *Client) Orders(ctx context.Context) (*models.OrderPage, error) {
	var page models.OrderPage
	if err := c.getJSON(ctx, "/orders/", nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *Client) Order(ctx context.Context, id int) (*models.Order, error) {
	var order models.Order
	if err := c.getJSON(ctx, fmt.Sprintf("/orders/%d/", id), nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// Checkout turns the current cart into an order. The server snapshots
// line prices, clears the cart, and returns the order in pending state.
func (c *Client) Checkout(ctx context.Context, req models.CheckoutRequest) (*models.Order, error) {
	var order models.Order
	if err := c.sendJSON(ctx, http.MethodPost, "/orders/create/", req, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// CancelOrder cancels a pending order. Orders past pending are not
// cancellable; the server answers 404 for those.
func (c *Client) CancelOrder(ctx context.Context, id int) (*models.Order, error) {
	var order models.Order
	path := fmt.Sprintf("/orders/%d/cancel/", id)
	if err := c.sendJSON(ctx, http.MethodPut, path, nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}
