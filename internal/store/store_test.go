package store_test

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/api/handlers"
	"storefront/internal/client"
	"storefront/internal/models"
	"storefront/internal/services"
	"storefront/internal/session"
	"storefront/internal/store"
)

type env struct {
	t *testing.T

	store *store.Store
	cache *session.Cache
	jar   *cookiejar.Jar
	base  *url.URL

	accountService *services.AccountService
	postService    *services.PostService
	cartService    *services.CartService
	orderService   *services.OrderService

	seller models.User
	buyer  models.User
}

// newEnv boots the stub API in-process and builds a store against it.
// Two accounts exist: a seller owning the listings and a buyer.
func newEnv(t *testing.T) *env {
	t.Helper()
	gin.SetMode(gin.TestMode)

	accountService := services.NewAccountService()
	postService := services.NewPostService()
	cartService := services.NewCartService()
	orderService := services.NewOrderService()

	router := handlers.NewRouter(accountService, postService, cartService, orderService)
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	base, err := url.Parse(srv.URL)
	require.NoError(t, err)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	api, err := client.New(srv.URL+"/api",
		client.WithHTTPClient(&http.Client{Jar: jar}),
		client.WithLogger(discardLogger()),
	)
	require.NoError(t, err)

	cache := session.New(filepath.Join(t.TempDir(), "user.json"))

	return &env{
		t:              t,
		store:          store.New(api, cache, discardLogger()),
		cache:          cache,
		jar:            jar,
		base:           base,
		accountService: accountService,
		postService:    postService,
		cartService:    cartService,
		orderService:   orderService,
		seller:         accountService.Seed("seller", "hunter22well", "seller@example.com", "Sal", "Vendor"),
		buyer:          accountService.Seed("buyer", "hunter22well", "buyer@example.com", "Bea", "Shopper"),
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// seedPosts creates n listings owned by the seller, priced 10.00,
// 11.00, ... in creation order.
func (e *env) seedPosts(n int) []models.Post {
	posts := make([]models.Post, n)
	for i := 0; i < n; i++ {
		p := e.postService.Create(e.seller, "Listing", models.Money(10+float64(i)), nil)
		posts[i] = *p
	}
	return posts
}

func (e *env) login(username string) {
	require.NoError(e.t, e.store.Auth.Login(context.Background(), username, "hunter22well"))
	require.NotNil(e.t, e.store.Auth.Snapshot().User)
}

// breakSession replaces the session cookie with garbage so the next
// authenticated request comes back 401.
func (e *env) breakSession() {
	e.jar.SetCookies(e.base, []*http.Cookie{{
		Name:  handlers.SessionCookie,
		Value: "bogus",
		Path:  "/",
	}})
}

func upload(name, content string) client.FileUpload {
	return client.FileUpload{Name: name, Content: bytes.NewReader([]byte(content))}
}

func TestFetchPostsPagination(t *testing.T) {
	e := newEnv(t)
	e.seedPosts(57)

	require.NoError(t, e.store.Posts.FetchPosts(context.Background(), models.PostQuery{Page: 1}))

	snap := e.store.Posts.Snapshot()
	assert.Len(t, snap.Items, 9)
	assert.Equal(t, 57, snap.TotalCount)
	assert.False(t, snap.Loading)
	assert.Empty(t, snap.Err)
}

func TestFetchPostsAppendMode(t *testing.T) {
	e := newEnv(t)
	e.seedPosts(57)
	ctx := context.Background()

	require.NoError(t, e.store.Posts.FetchPosts(ctx, models.PostQuery{Page: 1}))
	require.NoError(t, e.store.Posts.FetchPosts(ctx, models.PostQuery{Page: 2, Append: true}))

	snap := e.store.Posts.Snapshot()
	assert.Len(t, snap.Items, 18)
	assert.Equal(t, 57, snap.TotalCount)

	// Page mode replaces wholesale.
	require.NoError(t, e.store.Posts.FetchPosts(ctx, models.PostQuery{Page: 3}))
	assert.Len(t, e.store.Posts.Snapshot().Items, 9)
}

func TestFetchPostsSearchAndSort(t *testing.T) {
	e := newEnv(t)
	e.postService.Create(e.seller, "Vintage camera", 50, nil)
	e.postService.Create(e.seller, "Ceramic mug", 12, nil)
	e.postService.Create(e.seller, "Another camera strap", 8, nil)
	ctx := context.Background()

	require.NoError(t, e.store.Posts.FetchPosts(ctx, models.PostQuery{Search: "camera", Sort: models.SortPriceAsc}))

	snap := e.store.Posts.Snapshot()
	require.Len(t, snap.Items, 2)
	assert.Equal(t, 2, snap.TotalCount)
	assert.Equal(t, "Another camera strap", snap.Items[0].Caption)
	assert.Equal(t, "Vintage camera", snap.Items[1].Caption)
}

func TestCreatePostPrepends(t *testing.T) {
	e := newEnv(t)
	e.seedPosts(9)
	e.login("seller")
	ctx := context.Background()

	require.NoError(t, e.store.Posts.FetchPosts(ctx, models.PostQuery{Page: 1}))
	before := e.store.Posts.Snapshot()

	created, err := e.store.Posts.CreatePost(ctx, client.PostForm{
		Caption: "Fresh listing",
		Price:   19.99,
		Images:  []client.FileUpload{upload("front.jpg", "jpegbytes")},
	})
	require.NoError(t, err)
	require.NotNil(t, created)

	snap := e.store.Posts.Snapshot()
	assert.Len(t, snap.Items, len(before.Items)+1)
	assert.Equal(t, before.TotalCount+1, snap.TotalCount)
	assert.Equal(t, "Fresh listing", snap.Items[0].Caption)
	assert.Equal(t, created.ID, snap.Items[0].ID)
	require.Len(t, snap.Items[0].Images, 1)
}

func TestUpdatePostReplacesInPlace(t *testing.T) {
	e := newEnv(t)
	posts := e.seedPosts(3)
	e.login("seller")
	ctx := context.Background()

	require.NoError(t, e.store.Posts.FetchPosts(ctx, models.PostQuery{Sort: models.SortOldest}))
	require.NoError(t, e.store.Posts.FetchPost(ctx, posts[1].ID))

	require.NoError(t, e.store.Posts.UpdatePost(ctx, posts[1].ID, client.PostForm{
		Caption: "Updated caption",
		Price:   99.50,
	}))

	snap := e.store.Posts.Snapshot()
	require.Len(t, snap.Items, 3)
	assert.Equal(t, posts[1].ID, snap.Items[1].ID)
	assert.Equal(t, "Updated caption", snap.Items[1].Caption)
	assert.Equal(t, models.Money(99.50), snap.Items[1].Price)
	// Unrelated entries untouched.
	assert.Equal(t, posts[0].Caption, snap.Items[0].Caption)
	assert.Equal(t, posts[2].Caption, snap.Items[2].Caption)
	// Selected refreshed along with the list entry.
	require.NotNil(t, snap.Selected)
	assert.Equal(t, "Updated caption", snap.Selected.Caption)
}

func TestDeletePostFiltersAndClearsSelected(t *testing.T) {
	e := newEnv(t)
	posts := e.seedPosts(3)
	e.login("seller")
	ctx := context.Background()

	require.NoError(t, e.store.Posts.FetchPosts(ctx, models.PostQuery{}))
	require.NoError(t, e.store.Posts.FetchPost(ctx, posts[0].ID))

	require.NoError(t, e.store.Posts.DeletePost(ctx, posts[0].ID))

	snap := e.store.Posts.Snapshot()
	assert.Len(t, snap.Items, 2)
	assert.Equal(t, 2, snap.TotalCount)
	for _, p := range snap.Items {
		assert.NotEqual(t, posts[0].ID, p.ID)
	}
	assert.Nil(t, snap.Selected)
}

func TestDoubleDeleteIsBenign(t *testing.T) {
	e := newEnv(t)
	posts := e.seedPosts(2)
	e.login("seller")
	ctx := context.Background()

	require.NoError(t, e.store.Posts.FetchPosts(ctx, models.PostQuery{}))
	require.NoError(t, e.store.Posts.DeletePost(ctx, posts[0].ID))

	// The second delete hits 404 server-side and must not surface an
	// error: the entity is gone either way.
	require.NoError(t, e.store.Posts.DeletePost(ctx, posts[0].ID))

	snap := e.store.Posts.Snapshot()
	assert.Empty(t, snap.Err)
	assert.Len(t, snap.Items, 1)
	assert.Equal(t, 1, snap.TotalCount)
}

func TestAddToCartEmptyCart(t *testing.T) {
	e := newEnv(t)
	posts := e.seedPosts(3)
	e.login("buyer")
	ctx := context.Background()

	require.NoError(t, e.store.Cart.AddToCart(ctx, posts[0].ID, 1))

	snap := e.store.Cart.Snapshot()
	require.NotNil(t, snap.Cart)
	require.Len(t, snap.Cart.Items, 1)
	assert.Equal(t, posts[0].ID, snap.Cart.Items[0].Post.ID)
	assert.Equal(t, 1, snap.Cart.Items[0].Quantity)
	assert.Equal(t, posts[0].Price, snap.Cart.TotalAmount)
}

func TestAddToCartMergesExistingLine(t *testing.T) {
	e := newEnv(t)
	posts := e.seedPosts(1)
	e.login("buyer")
	ctx := context.Background()

	require.NoError(t, e.store.Cart.AddToCart(ctx, posts[0].ID, 1))
	require.NoError(t, e.store.Cart.AddToCart(ctx, posts[0].ID, 2))

	snap := e.store.Cart.Snapshot()
	require.Len(t, snap.Cart.Items, 1)
	assert.Equal(t, 3, snap.Cart.Items[0].Quantity)
}

func TestRemoveLastCartItem(t *testing.T) {
	e := newEnv(t)
	posts := e.seedPosts(1)
	e.login("buyer")
	ctx := context.Background()

	require.NoError(t, e.store.Cart.AddToCart(ctx, posts[0].ID, 1))
	itemID := e.store.Cart.Snapshot().Cart.Items[0].ID

	require.NoError(t, e.store.Cart.RemoveFromCart(ctx, itemID))

	snap := e.store.Cart.Snapshot()
	assert.Empty(t, snap.Cart.Items)
	assert.Equal(t, models.Money(0), snap.Cart.TotalAmount)
}

func TestRemoveRecomputeMatchesServer(t *testing.T) {
	e := newEnv(t)
	posts := e.seedPosts(2)
	e.login("buyer")
	ctx := context.Background()

	require.NoError(t, e.store.Cart.AddToCart(ctx, posts[0].ID, 2))
	require.NoError(t, e.store.Cart.AddToCart(ctx, posts[1].ID, 3))
	first := e.store.Cart.Snapshot().Cart.Items[0].ID

	require.NoError(t, e.store.Cart.RemoveFromCart(ctx, first))
	local := e.store.Cart.Snapshot().Cart.TotalAmount

	// The local recompute must equal what the server computes for the
	// same remaining set.
	require.NoError(t, e.store.Cart.FetchCart(ctx))
	assert.Equal(t, e.store.Cart.Snapshot().Cart.TotalAmount, local)
	assert.Equal(t, posts[1].Price*3, local)
}

func TestDoubleRemoveIsBenign(t *testing.T) {
	e := newEnv(t)
	posts := e.seedPosts(1)
	e.login("buyer")
	ctx := context.Background()

	require.NoError(t, e.store.Cart.AddToCart(ctx, posts[0].ID, 1))
	itemID := e.store.Cart.Snapshot().Cart.Items[0].ID

	require.NoError(t, e.store.Cart.RemoveFromCart(ctx, itemID))
	require.NoError(t, e.store.Cart.RemoveFromCart(ctx, itemID))

	snap := e.store.Cart.Snapshot()
	assert.Empty(t, snap.Err)
	assert.Empty(t, snap.Cart.Items)
}

func TestUpdateQuantityRecomputesTotal(t *testing.T) {
	e := newEnv(t)
	posts := e.seedPosts(1)
	e.login("buyer")
	ctx := context.Background()

	require.NoError(t, e.store.Cart.AddToCart(ctx, posts[0].ID, 1))
	itemID := e.store.Cart.Snapshot().Cart.Items[0].ID

	require.NoError(t, e.store.Cart.UpdateQuantity(ctx, itemID, 5))

	snap := e.store.Cart.Snapshot()
	assert.Equal(t, 5, snap.Cart.Items[0].Quantity)
	assert.Equal(t, models.Money(float64(posts[0].Price)*5), snap.Cart.TotalAmount)

	// Zero quantity deletes the line.
	require.NoError(t, e.store.Cart.UpdateQuantity(ctx, itemID, 0))
	snap = e.store.Cart.Snapshot()
	assert.Empty(t, snap.Cart.Items)
	assert.Equal(t, models.Money(0), snap.Cart.TotalAmount)
}

func TestCheckout(t *testing.T) {
	e := newEnv(t)
	posts := e.seedPosts(2)
	e.login("buyer")
	ctx := context.Background()

	require.NoError(t, e.store.Cart.AddToCart(ctx, posts[0].ID, 2))

	order, err := e.store.Orders.Checkout(ctx, models.CheckoutRequest{
		PaymentMethod:   models.PaymentStripe,
		ShippingAddress: "1 Infinite Loop",
		ContactInfo: models.ContactInfo{
			FirstName: "Bea", LastName: "Shopper",
			Email: "buyer@example.com", Phone: "555-0100",
		},
	})
	require.NoError(t, err)

	snap := e.store.Orders.Snapshot()
	require.Len(t, snap.Items, 1)
	assert.Equal(t, order.ID, snap.Items[0].ID)
	assert.Equal(t, models.OrderStatusPending, snap.Items[0].Status)
	require.NotNil(t, snap.Selected)
	assert.Equal(t, order.ID, snap.Selected.ID)
	assert.Equal(t, posts[0].Price*2, order.TotalAmount)

	// Checkout empties the cart server-side.
	require.NoError(t, e.store.Cart.FetchCart(ctx))
	assert.Empty(t, e.store.Cart.Snapshot().Cart.Items)
}

func TestCheckoutEmptyCartFails(t *testing.T) {
	e := newEnv(t)
	e.login("buyer")
	ctx := context.Background()

	_, err := e.store.Orders.Checkout(ctx, models.CheckoutRequest{
		PaymentMethod:   models.PaymentBank,
		ShippingAddress: "somewhere",
		ContactInfo:     models.ContactInfo{FirstName: "B", LastName: "S", Email: "b@e.com", Phone: "1"},
	})
	require.Error(t, err)

	snap := e.store.Orders.Snapshot()
	assert.NotEmpty(t, snap.Err)
	assert.Empty(t, snap.Items)
	assert.False(t, snap.Loading)
}

func TestCancelOrder(t *testing.T) {
	e := newEnv(t)
	posts := e.seedPosts(1)
	e.login("buyer")
	ctx := context.Background()

	require.NoError(t, e.store.Cart.AddToCart(ctx, posts[0].ID, 1))
	order, err := e.store.Orders.Checkout(ctx, models.CheckoutRequest{
		PaymentMethod:   models.PaymentBank,
		ShippingAddress: "somewhere",
		ContactInfo:     models.ContactInfo{FirstName: "B", LastName: "S", Email: "b@e.com", Phone: "1"},
	})
	require.NoError(t, err)

	require.NoError(t, e.store.Orders.CancelOrder(ctx, order.ID))

	snap := e.store.Orders.Snapshot()
	assert.Equal(t, models.OrderStatusCancelled, snap.Items[0].Status)
	assert.Equal(t, models.OrderStatusCancelled, snap.Selected.Status)

	// A second cancel is a real error: the order is no longer pending.
	require.Error(t, e.store.Orders.CancelOrder(ctx, order.ID))
	assert.NotEmpty(t, e.store.Orders.Snapshot().Err)
}

func TestOrderItemsFreezePriceAcrossPostDeletion(t *testing.T) {
	e := newEnv(t)
	posts := e.seedPosts(1)
	e.login("buyer")
	ctx := context.Background()

	require.NoError(t, e.store.Cart.AddToCart(ctx, posts[0].ID, 1))
	order, err := e.store.Orders.Checkout(ctx, models.CheckoutRequest{
		PaymentMethod:   models.PaymentBank,
		ShippingAddress: "somewhere",
		ContactInfo:     models.ContactInfo{FirstName: "B", LastName: "S", Email: "b@e.com", Phone: "1"},
	})
	require.NoError(t, err)

	// The seller deletes the listing after the sale.
	require.True(t, e.postService.Delete(posts[0].ID, e.seller.ID))
	e.orderService.DropPost(posts[0].ID)

	require.NoError(t, e.store.Orders.FetchOrder(ctx, order.ID))
	snap := e.store.Orders.Snapshot()
	require.Len(t, snap.Selected.Items, 1)
	assert.Nil(t, snap.Selected.Items[0].Post)
	assert.Equal(t, posts[0].Price, snap.Selected.Items[0].Price)
}

func TestLoginBadCredentials(t *testing.T) {
	e := newEnv(t)

	err := e.store.Auth.Login(context.Background(), "buyer", "wrong")
	require.Error(t, err)

	snap := e.store.Auth.Snapshot()
	assert.NotEmpty(t, snap.Err)
	assert.Nil(t, snap.User)
	assert.False(t, snap.Loading)
}

func TestAuthFailureClearsPersistedIdentity(t *testing.T) {
	e := newEnv(t)
	e.login("buyer")

	cached, err := e.cache.Load()
	require.NoError(t, err)
	require.NotNil(t, cached)

	e.breakSession()
	require.Error(t, e.store.Auth.FetchProfile(context.Background()))

	assert.Nil(t, e.store.Auth.Snapshot().User)
	cached, err = e.cache.Load()
	require.NoError(t, err)
	assert.Nil(t, cached)
}

func TestAuthFailureFromAnySliceClearsIdentity(t *testing.T) {
	e := newEnv(t)
	e.seedPosts(1)
	e.login("buyer")
	e.breakSession()

	// A 401 on a cart fetch, not an auth operation, must still clear
	// the cached identity.
	require.Error(t, e.store.Cart.FetchCart(context.Background()))

	assert.Nil(t, e.store.Auth.Snapshot().User)
	cached, err := e.cache.Load()
	require.NoError(t, err)
	assert.Nil(t, cached)
}

func TestLogoutClearsStateEvenWhenServerFails(t *testing.T) {
	e := newEnv(t)
	e.login("buyer")
	e.breakSession()

	e.store.Auth.Logout(context.Background())

	assert.Nil(t, e.store.Auth.Snapshot().User)
	cached, err := e.cache.Load()
	require.NoError(t, err)
	assert.Nil(t, cached)
}

func TestProfileUpdateRipplesIntoListings(t *testing.T) {
	e := newEnv(t)
	e.seedPosts(1)
	e.login("seller")
	ctx := context.Background()

	bio := "Selling odds and ends"
	require.NoError(t, e.store.Auth.UpdateProfile(ctx, models.ProfileUpdate{Bio: &bio}, nil))
	assert.Equal(t, bio, e.store.Auth.Snapshot().User.Bio)

	require.NoError(t, e.store.Posts.FetchPosts(ctx, models.PostQuery{}))
	assert.Equal(t, bio, e.store.Posts.Snapshot().Items[0].User.Bio)
}

func TestSessionRestoreOnBoot(t *testing.T) {
	e := newEnv(t)
	e.login("buyer")

	// A second process with the same cache file starts out identified
	// without talking to the network.
	api, err := client.New("http://localhost:1/api", client.WithLogger(discardLogger()))
	require.NoError(t, err)
	rebooted := store.New(api, e.cache, discardLogger())

	snap := rebooted.Auth.Snapshot()
	require.NotNil(t, snap.User)
	assert.Equal(t, "buyer", snap.User.Username)
}

func TestSnapshotIsolation(t *testing.T) {
	e := newEnv(t)
	e.seedPosts(2)
	ctx := context.Background()

	require.NoError(t, e.store.Posts.FetchPosts(ctx, models.PostQuery{}))

	snap := e.store.Posts.Snapshot()
	snap.Items[0].Caption = "mutated by a reader"

	assert.NotEqual(t, "mutated by a reader", e.store.Posts.Snapshot().Items[0].Caption)
}
