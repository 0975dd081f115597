package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"storefront/internal/models"
)

// Posts fetches one listing page. Zero-value query fields are omitted
// and the server applies its defaults (page 1, newest first).
func (c *Client) Posts(ctx context.Context, q models.PostQuery) (*models.PostPage, error) {
	params := url.Values{}
	if q.Page > 0 {
		params.Set("page", strconv.Itoa(q.Page))
	}
	if q.Search != "" {
		params.Set("search", q.Search)
	}
	if q.Sort != "" {
		params.Set("sort", q.Sort)
	}
	var page models.PostPage
	if err := c.getJSON(ctx, "/posts/", params, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *Client) Post(ctx context.Context, id int) (*models.Post, error) {
	var post models.Post
	if err := c.getJSON(ctx, fmt.Sprintf("/posts/%d/", id), nil, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

func (c *Client) CreatePost(ctx context.Context, form PostForm) (*models.Post, error) {
	body, contentType, err := form.encode()
	if err != nil {
		return nil, err
	}
	var post models.Post
	if err := c.do(ctx, http.MethodPost, "/posts/create/", nil, body, contentType, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

func (c *Client) UpdatePost(ctx context.Context, id int, form PostForm) (*models.Post, error) {
	body, contentType, err := form.encode()
	if err != nil {
		return nil, err
	}
	var post models.Post
	path := fmt.Sprintf("/posts/%d/edit/", id)
	if err := c.do(ctx, http.MethodPut, path, nil, body, contentType, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

func (c *Client) DeletePost(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/posts/%d/delete/", id), nil, nil, "", nil)
}
