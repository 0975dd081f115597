// Package services implements the in-memory backend behind the stub
// API server. State lives in maps guarded by RWMutexes; every public
// method returns copies, never internal pointers.
package services

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"storefront/internal/models"
)

type account struct {
	user     models.User
	password string
}

type sessionInfo struct {
	userID int
	csrf   string
}

// AccountService owns users and their cookie sessions. Credentials
// are held in memory only; this backend exists for development and
// tests, not production traffic.
type AccountService struct {
	mu         sync.RWMutex
	accounts   map[int]*account
	byUsername map[string]int
	sessions   map[string]*sessionInfo
	nextID     int
}

func NewAccountService() *AccountService {
	return &AccountService{
		accounts:   make(map[int]*account),
		byUsername: make(map[string]int),
		sessions:   make(map[string]*sessionInfo),
		nextID:     1,
	}
}

func (s *AccountService) Register(req models.RegisterRequest) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.byUsername[req.Username]; taken {
		return nil, fmt.Errorf("a user with that username already exists")
	}
	for _, acc := range s.accounts {
		if acc.user.Email == req.Email {
			return nil, fmt.Errorf("a user with that email already exists")
		}
	}

	user := models.User{
		ID:        s.nextID,
		Username:  req.Username,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	}
	s.accounts[user.ID] = &account{user: user, password: req.Password}
	s.byUsername[user.Username] = user.ID
	s.nextID++

	u := user
	return &u, nil
}

func (s *AccountService) Authenticate(username, password string) (*models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byUsername[username]
	if !ok {
		return nil, false
	}
	acc := s.accounts[id]
	if acc.password != password {
		return nil, false
	}
	u := acc.user
	return &u, true
}

// CreateSession mints a session id and its CSRF token.
func (s *AccountService) CreateSession(userID int) (sessionID, csrfToken string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sessionID = uuid.NewString()
	csrfToken = uuid.NewString()
	s.sessions[sessionID] = &sessionInfo{userID: userID, csrf: csrfToken}
	return sessionID, csrfToken
}

// ResolveSession maps a session cookie to its user and CSRF token.
func (s *AccountService) ResolveSession(sessionID string) (*models.User, string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	info, ok := s.sessions[sessionID]
	if !ok {
		return nil, "", false
	}
	acc, ok := s.accounts[info.userID]
	if !ok {
		return nil, "", false
	}
	u := acc.user
	return &u, info.csrf, true
}

func (s *AccountService) DeleteSession(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
}

func (s *AccountService) Get(id int) (*models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	acc, ok := s.accounts[id]
	if !ok {
		return nil, false
	}
	u := acc.user
	return &u, true
}

// Update applies a profile edit and returns the stored user.
func (s *AccountService) Update(id int, apply func(*models.User)) (*models.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.accounts[id]
	if !ok {
		return nil, false
	}
	apply(&acc.user)
	u := acc.user
	return &u, true
}

// Seed registers a user directly, for sample data and tests.
func (s *AccountService) Seed(username, password, email, firstName, lastName string) models.User {
	user, err := s.Register(models.RegisterRequest{
		Username:  username,
		Email:     email,
		Password:  password,
		Password2: password,
		FirstName: firstName,
		LastName:  lastName,
	})
	if err != nil {
		panic(fmt.Sprintf("seed user %s: %v", username, err))
	}
	return *user
}
