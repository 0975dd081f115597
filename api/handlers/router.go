package handlers

import (
	"github.com/gin-gonic/gin"

	"storefront/internal/services"
)

// NewRouter assembles the API under /api with the session and CSRF
// middleware applied globally.
func NewRouter(accountService *services.AccountService, postService *services.PostService, cartService *services.CartService, orderService *services.OrderService) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(SessionMiddleware(accountService))
	router.Use(RequireCSRF())

	authHandler := NewAuthHandler(accountService, postService)
	postHandler := NewPostHandler(postService, cartService, orderService)
	cartHandler := NewCartHandler(cartService, postService)
	orderHandler := NewOrderHandler(orderService, cartService)

	api := router.Group("/api")

	users := api.Group("/users")
	{
		users.POST("/register/", authHandler.Register)
		users.POST("/login/", authHandler.Login)
		users.POST("/logout/", RequireAuth(), authHandler.Logout)
		users.GET("/profile/", RequireAuth(), authHandler.Profile)
		users.PUT("/profile/edit/", RequireAuth(), authHandler.UpdateProfile)
	}

	posts := api.Group("/posts")
	{
		posts.GET("/", postHandler.List)
		posts.GET("/:id/", postHandler.Get)
		posts.POST("/create/", RequireAuth(), postHandler.Create)
		posts.PUT("/:id/edit/", RequireAuth(), postHandler.Update)
		posts.DELETE("/:id/delete/", RequireAuth(), postHandler.Delete)
	}

	orders := api.Group("/orders")
	{
		orders.GET("/", RequireAuth(), orderHandler.List)
		orders.POST("/create/", RequireAuth(), orderHandler.Create)
		orders.GET("/cart/", RequireAuth(), cartHandler.Get)
		orders.POST("/cart/add/", RequireAuth(), cartHandler.Add)
		orders.DELETE("/cart/remove/:id/", RequireAuth(), cartHandler.Remove)
		orders.PATCH("/cart/update/:id/", RequireAuth(), cartHandler.UpdateItem)
		orders.GET("/:id/", RequireAuth(), orderHandler.Get)
		orders.PUT("/:id/cancel/", RequireAuth(), orderHandler.Cancel)
	}

	return router
}
