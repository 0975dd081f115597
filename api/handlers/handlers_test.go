package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/api/handlers"
	"storefront/internal/models"
	"storefront/internal/services"
)

type fixture struct {
	t   *testing.T
	srv *httptest.Server
	jar *cookiejar.Jar

	accountService *services.AccountService
	postService    *services.PostService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	accountService := services.NewAccountService()
	postService := services.NewPostService()
	cartService := services.NewCartService()
	orderService := services.NewOrderService()

	srv := httptest.NewServer(handlers.NewRouter(accountService, postService, cartService, orderService))
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	return &fixture{
		t:              t,
		srv:            srv,
		jar:            jar,
		accountService: accountService,
		postService:    postService,
	}
}

func (f *fixture) client() *http.Client {
	return &http.Client{Jar: f.jar}
}

// request issues one JSON request with the fixture's cookie jar,
// attaching the CSRF header unless withCSRF is false.
func (f *fixture) request(method, path string, body any, withCSRF bool) *http.Response {
	f.t.Helper()

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		require.NoError(f.t, err)
		reader = bytes.NewReader(buf)
	}
	req, err := http.NewRequest(method, f.srv.URL+path, reader)
	require.NoError(f.t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if withCSRF {
		if token := f.csrfToken(); token != "" {
			req.Header.Set("X-CSRFToken", token)
		}
	}

	resp, err := f.client().Do(req)
	require.NoError(f.t, err)
	f.t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func (f *fixture) csrfToken() string {
	u, err := url.Parse(f.srv.URL)
	require.NoError(f.t, err)
	for _, ck := range f.jar.Cookies(u) {
		if ck.Name == handlers.CSRFCookie {
			return ck.Value
		}
	}
	return ""
}

func (f *fixture) login(username, password string) *http.Response {
	return f.request(http.MethodPost, "/api/users/login/", models.LoginRequest{
		Username: username,
		Password: password,
	}, false)
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestRegisterLogsUserIn(t *testing.T) {
	f := newFixture(t)

	resp := f.request(http.MethodPost, "/api/users/register/", models.RegisterRequest{
		Username:  "carol",
		Email:     "carol@example.com",
		Password:  "password123",
		Password2: "password123",
		FirstName: "Carol",
		LastName:  "Danvers",
	}, false)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// Registration sets both cookies, so the profile is immediately
	// readable.
	assert.NotEmpty(t, f.csrfToken())
	resp = f.request(http.MethodGet, "/api/users/profile/", nil, false)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	user := decode[models.User](t, resp)
	assert.Equal(t, "carol", user.Username)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	f := newFixture(t)
	f.accountService.Seed("dave", "password123", "dave@example.com", "Dave", "Lister")

	resp := f.login("dave", "wrong")
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body := decode[map[string]string](t, resp)
	assert.Equal(t, "Invalid credentials", body["error"])
}

func TestProtectedRoutesRequireSession(t *testing.T) {
	f := newFixture(t)

	resp := f.request(http.MethodGet, "/api/orders/cart/", nil, false)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body := decode[map[string]string](t, resp)
	assert.Equal(t, "Authentication credentials were not provided.", body["detail"])
}

func TestCSRFEnforcedOnMutations(t *testing.T) {
	f := newFixture(t)
	user := f.accountService.Seed("dave", "password123", "dave@example.com", "Dave", "Lister")
	post := f.postService.Create(user, "Toaster", 15, nil)

	resp := f.login("dave", "password123")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	add := models.AddToCartRequest{PostID: post.ID, Quantity: 1}

	// Without the header the mutation is rejected even though the
	// session cookie is valid.
	resp = f.request(http.MethodPost, "/api/orders/cart/add/", add, false)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	body := decode[map[string]string](t, resp)
	assert.Equal(t, "CSRF Failed: CSRF token missing or incorrect.", body["detail"])

	resp = f.request(http.MethodPost, "/api/orders/cart/add/", add, true)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Reads pass without the header.
	resp = f.request(http.MethodGet, "/api/orders/cart/", nil, false)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestListInvalidPage(t *testing.T) {
	f := newFixture(t)
	user := f.accountService.Seed("dave", "password123", "dave@example.com", "Dave", "Lister")
	for i := 0; i < 3; i++ {
		f.postService.Create(user, fmt.Sprintf("Listing %d", i+1), 10, nil)
	}

	resp := f.request(http.MethodGet, "/api/posts/?page=2", nil, false)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	body := decode[map[string]string](t, resp)
	assert.Equal(t, "Invalid page.", body["detail"])
}

func TestListEnvelope(t *testing.T) {
	f := newFixture(t)
	user := f.accountService.Seed("dave", "password123", "dave@example.com", "Dave", "Lister")
	for i := 0; i < 12; i++ {
		f.postService.Create(user, fmt.Sprintf("Listing %d", i+1), 10, nil)
	}

	resp := f.request(http.MethodGet, "/api/posts/", nil, false)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	page := decode[models.PostPage](t, resp)
	assert.Equal(t, 12, page.Count)
	assert.Len(t, page.Results, 9)
}

func TestNonNumericIDAnswers404(t *testing.T) {
	f := newFixture(t)

	resp := f.request(http.MethodGet, "/api/posts/abc/", nil, false)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestPostDeleteIsOwnerOnly(t *testing.T) {
	f := newFixture(t)
	owner := f.accountService.Seed("owner", "password123", "owner@example.com", "Own", "Er")
	f.accountService.Seed("other", "password123", "other@example.com", "Oth", "Er")
	post := f.postService.Create(owner, "Lamp", 25, nil)

	resp := f.login("other", "password123")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = f.request(http.MethodDelete, fmt.Sprintf("/api/posts/%d/delete/", post.ID), nil, true)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	// The listing is still there.
	_, exists := f.postService.Get(post.ID)
	assert.True(t, exists)
}
