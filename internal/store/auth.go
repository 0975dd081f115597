package store

import (
	"context"
	"log/slog"
	"sync"

	"storefront/internal/client"
	"storefront/internal/models"
	"storefront/internal/session"
)

// AuthSlice owns the authenticated user. The in-memory copy is the
// single source of truth at runtime; the durable cache is read once at
// construction (session restore across restarts) and written through
// on every change after that.
type AuthSlice struct {
	mu sync.Mutex
	opState

	api   *client.Client
	cache *session.Cache
	log   *slog.Logger

	profileGate gate
	user        *models.User
}

type AuthState struct {
	User    *models.User
	Loading bool
	Err     string
}

func newAuthSlice(api *client.Client, cache *session.Cache, log *slog.Logger) *AuthSlice {
	s := &AuthSlice{api: api, cache: cache, log: log}
	if cache != nil {
		user, err := cache.Load()
		if err != nil {
			log.Warn("session restore failed", "err", err)
		}
		s.user = user
	}
	return s
}

func (s *AuthSlice) Snapshot() AuthState {
	s.mu.Lock()
	defer s.mu.Unlock()
	state := AuthState{Loading: s.loading(), Err: s.err}
	if s.user != nil {
		u := *s.user
		state.User = &u
	}
	return state
}

func (s *AuthSlice) Register(ctx context.Context, req models.RegisterRequest) error {
	s.mu.Lock()
	s.begin()
	s.mu.Unlock()

	user, err := s.api.Register(ctx, req)

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.end(err, "Registration failed") {
		return err
	}
	s.setUser(user)
	return nil
}

func (s *AuthSlice) Login(ctx context.Context, username, password string) error {
	s.mu.Lock()
	s.begin()
	s.mu.Unlock()

	user, err := s.api.Login(ctx, username, password)

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.end(err, "Login failed") {
		return err
	}
	s.setUser(user)
	return nil
}

// Logout forgets the local identity regardless of whether the server
// call succeeds: the user asked to be logged out, and a failed request
// must not leave a ghost session behind.
func (s *AuthSlice) Logout(ctx context.Context) error {
	s.mu.Lock()
	s.begin()
	s.mu.Unlock()

	err := s.api.Logout(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.end(err, "Logout failed")
	s.setUser(nil)
	return err
}

func (s *AuthSlice) FetchProfile(ctx context.Context) error {
	s.mu.Lock()
	s.begin()
	tok := s.profileGate.next()
	s.mu.Unlock()

	user, err := s.api.Profile(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.endFetch(&s.profileGate, tok, err, "Failed to fetch profile") {
		return err
	}
	s.setUser(user)
	return nil
}

func (s *AuthSlice) UpdateProfile(ctx context.Context, upd models.ProfileUpdate, avatar *client.FileUpload) error {
	s.mu.Lock()
	s.begin()
	s.mu.Unlock()

	user, err := s.api.UpdateProfile(ctx, upd, avatar)

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.end(err, "Failed to update profile") {
		return err
	}
	s.setUser(user)
	return nil
}

// Invalidate drops the cached identity, in memory and on disk. The
// API client calls it on every 401/403 response.
func (s *AuthSlice) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setUser(nil)
}

func (s *AuthSlice) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = ""
}

// setUser updates state and writes through to the durable cache.
// Callers hold the mutex.
func (s *AuthSlice) setUser(user *models.User) {
	s.user = user
	if s.cache == nil {
		return
	}
	var err error
	if user == nil {
		err = s.cache.Clear()
	} else {
		err = s.cache.Save(user)
	}
	if err != nil {
		s.log.Warn("session cache write failed", "err", err)
	}
}
