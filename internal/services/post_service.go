package services

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"storefront/internal/models"
)

// DefaultPageSize matches the listing page size the client was built
// against.
const DefaultPageSize = 9

const MaxPageSize = 100

// PostService owns the listings.
type PostService struct {
	mu          sync.RWMutex
	posts       map[int]*models.Post
	nextID      int
	nextImageID int
}

func NewPostService() *PostService {
	return &PostService{
		posts:       make(map[int]*models.Post),
		nextID:      1,
		nextImageID: 1,
	}
}

// List filters, sorts, and paginates the listings. It returns the
// requested page and the total match count. Pages are 1-based; a page
// past the end reports ok=false (the handler answers 404, like the
// paginator the client expects).
func (s *PostService) List(search, sortKey string, page, pageSize int) (results []models.Post, total int, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	if page <= 0 {
		page = 1
	}

	needle := strings.ToLower(search)
	var matched []models.Post
	for _, p := range s.posts {
		if needle != "" &&
			!strings.Contains(strings.ToLower(p.Caption), needle) &&
			!strings.Contains(strings.ToLower(p.User.Username), needle) {
			continue
		}
		matched = append(matched, p.Clone())
	}

	switch sortKey {
	case models.SortOldest:
		sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.Before(matched[j].CreatedAt) })
	case models.SortPriceAsc:
		sort.Slice(matched, func(i, j int) bool { return matched[i].Price < matched[j].Price })
	case models.SortPriceDesc:
		sort.Slice(matched, func(i, j int) bool { return matched[i].Price > matched[j].Price })
	default: // newest first
		sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })
	}

	total = len(matched)
	start := (page - 1) * pageSize
	if start > 0 && start >= total {
		return nil, total, false
	}
	end := start + pageSize
	if end > total {
		end = total
	}
	if start >= end {
		return []models.Post{}, total, true
	}
	return matched[start:end], total, true
}

func (s *PostService) Get(id int) (*models.Post, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.posts[id]
	if !ok {
		return nil, false
	}
	c := p.Clone()
	return &c, true
}

func (s *PostService) Create(owner models.User, caption string, price models.Money, imageNames []string) *models.Post {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	post := &models.Post{
		ID:        s.nextID,
		User:      owner,
		Caption:   caption,
		Price:     price,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.nextID++
	for i, name := range imageNames {
		post.Images = append(post.Images, models.PostImage{
			ID:    s.nextImageID,
			Image: fmt.Sprintf("/media/posts/%d/%s", post.ID, name),
			Order: i,
		})
		s.nextImageID++
	}
	s.posts[post.ID] = post

	c := post.Clone()
	return &c
}

// Update edits a listing. Only the owner's posts are visible to the
// edit path, so a non-owner gets the same not-found as a missing id.
// keepImageIDs names the existing images to retain, in order; new
// images are appended after them.
func (s *PostService) Update(id, ownerID int, caption string, price models.Money, keepImageIDs []int, newImageNames []string) (*models.Post, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	post, ok := s.posts[id]
	if !ok || post.User.ID != ownerID {
		return nil, false
	}

	post.Caption = caption
	post.Price = price
	post.UpdatedAt = time.Now().UTC()

	keep := make(map[int]bool, len(keepImageIDs))
	for _, imgID := range keepImageIDs {
		keep[imgID] = true
	}
	var images []models.PostImage
	for _, img := range post.Images {
		if keep[img.ID] {
			img.Order = len(images)
			images = append(images, img)
		}
	}
	for _, name := range newImageNames {
		images = append(images, models.PostImage{
			ID:    s.nextImageID,
			Image: fmt.Sprintf("/media/posts/%d/%s", post.ID, name),
			Order: len(images),
		})
		s.nextImageID++
	}
	post.Images = images

	c := post.Clone()
	return &c, true
}

// Delete removes a listing, owner-only like Update.
func (s *PostService) Delete(id, ownerID int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	post, ok := s.posts[id]
	if !ok || post.User.ID != ownerID {
		return false
	}
	delete(s.posts, id)
	return true
}

// RefreshOwner propagates a profile edit into the owner's listings,
// which embed the user.
func (s *PostService) RefreshOwner(user models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, post := range s.posts {
		if post.User.ID == user.ID {
			post.User = user
		}
	}
}
