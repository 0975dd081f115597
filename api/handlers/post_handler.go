package handlers

import (
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"

	"storefront/internal/models"
	"storefront/internal/services"
)

type PostHandler struct {
	postService  *services.PostService
	cartService  *services.CartService
	orderService *services.OrderService
}

func NewPostHandler(postService *services.PostService, cartService *services.CartService, orderService *services.OrderService) *PostHandler {
	return &PostHandler{
		postService:  postService,
		cartService:  cartService,
		orderService: orderService,
	}
}

// GET /api/posts/?page=&search=&sort=&page_size=
func (h *PostHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", strconv.Itoa(services.DefaultPageSize)))
	search := c.Query("search")
	sortKey := c.DefaultQuery("sort", models.SortNewest)

	results, total, ok := h.postService.List(search, sortKey, page, pageSize)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Invalid page."})
		return
	}
	if results == nil {
		results = []models.Post{}
	}
	c.JSON(http.StatusOK, gin.H{
		"count":   total,
		"results": results,
	})
}

// GET /api/posts/:id/
func (h *PostHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	post, exists := h.postService.Get(id)
	if !exists {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Not found."})
		return
	}
	c.JSON(http.StatusOK, post)
}

// POST /api/posts/create/
// Multipart: caption, price, repeated images files.
func (h *PostHandler) Create(c *gin.Context) {
	user, _ := currentUser(c)

	caption, price, imageNames, ok := h.bindListingForm(c)
	if !ok {
		return
	}

	post := h.postService.Create(user, caption, price, imageNames)
	c.JSON(http.StatusCreated, post)
}

// PUT /api/posts/:id/edit/
// Multipart: caption, price, repeated existing_images ids to keep,
// repeated images files to add.
func (h *PostHandler) Update(c *gin.Context) {
	user, _ := currentUser(c)
	id, ok := pathID(c)
	if !ok {
		return
	}

	caption, price, imageNames, ok := h.bindListingForm(c)
	if !ok {
		return
	}
	var keep []int
	for _, raw := range c.PostFormArray("existing_images") {
		if imgID, err := strconv.Atoi(raw); err == nil {
			keep = append(keep, imgID)
		}
	}

	post, exists := h.postService.Update(id, user.ID, caption, price, keep, imageNames)
	if !exists {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Not found."})
		return
	}
	c.JSON(http.StatusOK, post)
}

// DELETE /api/posts/:id/delete/
func (h *PostHandler) Delete(c *gin.Context) {
	user, _ := currentUser(c)
	id, ok := pathID(c)
	if !ok {
		return
	}

	if !h.postService.Delete(id, user.ID) {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Not found."})
		return
	}

	// Cascade: live carts drop the listing, order history detaches it
	// but keeps the frozen prices.
	h.cartService.DropPost(id)
	h.orderService.DropPost(id)

	c.Status(http.StatusNoContent)
}

// bindListingForm validates the shared create/edit multipart fields.
func (h *PostHandler) bindListingForm(c *gin.Context) (caption string, price models.Money, imageNames []string, ok bool) {
	caption = c.PostForm("caption")
	if caption == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Caption is required"})
		return "", 0, nil, false
	}
	value, err := strconv.ParseFloat(c.PostForm("price"), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Price is required"})
		return "", 0, nil, false
	}
	if value < 0.01 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Price must be at least 0.01"})
		return "", 0, nil, false
	}

	if form, err := c.MultipartForm(); err == nil {
		for _, file := range form.File["images"] {
			imageNames = append(imageNames, filepath.Base(file.Filename))
		}
	}
	return caption, models.Money(value), imageNames, true
}

// pathID parses the :id segment; anything non-numeric is a 404, the
// same answer a missing row gets.
func pathID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Not found."})
		return 0, false
	}
	return id, true
}
