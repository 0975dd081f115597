package client

import (
	"context"
	"net/http"

	"storefront/internal/models"
)

// Register creates an account. The server logs the new user in as a
// side effect, setting the session cookie on this client's jar.
func (c *Client) Register(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	var user models.User
	if err := c.sendJSON(ctx, http.MethodPost, "/users/register/", req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) Login(ctx context.Context, username, password string) (*models.User, error) {
	var user models.User
	req := models.LoginRequest{Username: username, Password: password}
	if err := c.sendJSON(ctx, http.MethodPost, "/users/login/", req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) Logout(ctx context.Context) error {
	return c.sendJSON(ctx, http.MethodPost, "/users/logout/", nil, nil)
}

func (c *Client) Profile(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := c.getJSON(ctx, "/users/profile/", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateProfile submits changed fields as multipart form data; avatar
// may be nil when the profile photo is unchanged.
func (c *Client) UpdateProfile(ctx context.Context, upd models.ProfileUpdate, avatar *FileUpload) (*models.User, error) {
	body, contentType, err := encodeProfileForm(upd, avatar)
	if err != nil {
		return nil, err
	}
	var user models.User
	if err := c.do(ctx, http.MethodPut, "/users/profile/edit/", nil, body, contentType, &user); err != nil {
		return nil, err
	}
	return &user, nil
}
