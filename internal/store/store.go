// Package store holds the client-side cache of server resources.
//
// Each resource group (auth, posts, cart, orders) has exactly one
// slice: the sole owner of that group's cached state. All mutation
// flows through the slice's operation methods; views read immutable
// snapshots and never touch entity state directly. Operations follow
// a fixed three-phase shape: begin (loading set, error cleared), then
// the network call, then fulfilled (merge) or rejected (error text
// recorded). A rejected operation never panics or escalates past the
// slice; the error is state, and retrying the triggering action is
// always safe.
package store

import (
	"errors"
	"log/slog"

	"storefront/internal/client"
	"storefront/internal/session"
)

// Store aggregates the four resource slices over one API client.
type Store struct {
	Auth   *AuthSlice
	Posts  *PostsSlice
	Cart   *CartSlice
	Orders *OrdersSlice
}

// New builds the slices and wires the client's auth-failure hook to
// auth invalidation, so any 401/403 anywhere clears cached identity.
func New(api *client.Client, cache *session.Cache, log *slog.Logger) *Store {
	if log == nil {
		log = slog.Default()
	}
	s := &Store{
		Auth:   newAuthSlice(api, cache, log),
		Posts:  newPostsSlice(api, log),
		Cart:   newCartSlice(api, log),
		Orders: newOrdersSlice(api, log),
	}
	api.SetAuthFailureHook(s.Auth.Invalidate)
	return s
}

// errText turns an operation failure into the message recorded in
// slice state. Server-provided messages win over transport noise.
func errText(err error, fallback string) string {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	if err != nil && err.Error() != "" {
		return err.Error()
	}
	return fallback
}
