package handlers

import (
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"storefront/internal/models"
	"storefront/internal/services"
)

const sessionMaxAge = 14 * 24 * 60 * 60 // two weeks, like the upstream session backend

type AuthHandler struct {
	accountService *services.AccountService
	postService    *services.PostService
}

func NewAuthHandler(accountService *services.AccountService, postService *services.PostService) *AuthHandler {
	return &AuthHandler{
		accountService: accountService,
		postService:    postService,
	}
}

// POST /api/users/register/
// Creates the account and logs the new user straight in.
func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.accountService.Register(req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.setSessionCookies(c, user.ID)
	c.JSON(http.StatusCreated, user)
}

// POST /api/users/login/
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please provide both username and password"})
		return
	}

	user, ok := h.accountService.Authenticate(req.Username, req.Password)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	h.setSessionCookies(c, user.ID)
	c.JSON(http.StatusOK, user)
}

// POST /api/users/logout/
func (h *AuthHandler) Logout(c *gin.Context) {
	if sid, err := c.Cookie(SessionCookie); err == nil {
		h.accountService.DeleteSession(sid)
	}
	c.SetCookie(SessionCookie, "", -1, "/", "", false, true)
	c.SetCookie(CSRFCookie, "", -1, "/", "", false, false)
	c.Status(http.StatusOK)
}

// GET /api/users/profile/
func (h *AuthHandler) Profile(c *gin.Context) {
	user, _ := currentUser(c)
	c.JSON(http.StatusOK, user)
}

// PUT /api/users/profile/edit/
// Multipart: changed fields plus an optional profile_photo file.
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	user, _ := currentUser(c)

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid form data"})
		return
	}

	field := func(name string) (string, bool) {
		values, ok := form.Value[name]
		if !ok || len(values) == 0 {
			return "", false
		}
		return values[0], true
	}

	if method, ok := field("preferred_payment_method"); ok {
		if !models.PaymentMethod(method).Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payment method"})
			return
		}
	}

	updated, ok := h.accountService.Update(user.ID, func(u *models.User) {
		if v, ok := field("first_name"); ok {
			u.FirstName = v
		}
		if v, ok := field("last_name"); ok {
			u.LastName = v
		}
		if v, ok := field("email"); ok {
			u.Email = v
		}
		if v, ok := field("bio"); ok {
			u.Bio = v
		}
		if v, ok := field("phone"); ok {
			u.Phone = v
		}
		if v, ok := field("delivery_address"); ok {
			u.DeliveryAddress = v
		}
		if v, ok := field("preferred_payment_method"); ok {
			u.PreferredPaymentMethod = models.PaymentMethod(v)
		}
		if files, ok := form.File["profile_photo"]; ok && len(files) > 0 {
			u.ProfilePhoto = "/media/profile_photos/" + filepath.Base(files[0].Filename)
		}
	})
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Not found."})
		return
	}

	// Listings embed their owner, so profile edits ripple into them.
	h.postService.RefreshOwner(*updated)

	c.JSON(http.StatusOK, updated)
}

func (h *AuthHandler) setSessionCookies(c *gin.Context, userID int) {
	sid, csrf := h.accountService.CreateSession(userID)
	c.SetCookie(SessionCookie, sid, sessionMaxAge, "/", "", false, true)
	c.SetCookie(CSRFCookie, csrf, sessionMaxAge, "/", "", false, false)
}
