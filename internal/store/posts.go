package store

import (
	"context"
	"log/slog"
	"sync"

	"storefront/internal/client"
	"storefront/internal/models"
)

// PostsSlice owns the cached listing pages and the selected post.
type PostsSlice struct {
	mu sync.Mutex
	opState

	api *client.Client
	log *slog.Logger

	listGate gate
	selGate  gate

	items      []models.Post
	totalCount int
	selected   *models.Post
}

type PostsState struct {
	Items      []models.Post
	TotalCount int
	Selected   *models.Post
	Loading    bool
	Err        string
}

func newPostsSlice(api *client.Client, log *slog.Logger) *PostsSlice {
	return &PostsSlice{api: api, log: log}
}

func (s *PostsSlice) Snapshot() PostsState {
	s.mu.Lock()
	defer s.mu.Unlock()
	state := PostsState{
		Items:      models.ClonePosts(s.items),
		TotalCount: s.totalCount,
		Loading:    s.loading(),
		Err:        s.err,
	}
	if s.selected != nil {
		p := s.selected.Clone()
		state.Selected = &p
	}
	return state
}

// FetchPosts loads one listing page. Page mode replaces the cached
// items wholesale; append mode concatenates, which is what an
// infinite-scroll consumer restarts from page 1 with. TotalCount
// always takes the server's count.
func (s *PostsSlice) FetchPosts(ctx context.Context, q models.PostQuery) error {
	s.mu.Lock()
	s.begin()
	tok := s.listGate.next()
	s.mu.Unlock()

	page, err := s.api.Posts(ctx, q)

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.endFetch(&s.listGate, tok, err, "Failed to fetch posts") {
		return err
	}
	if q.Append {
		s.items = append(s.items, page.Results...)
	} else {
		s.items = page.Results
	}
	s.totalCount = page.Count
	return nil
}

func (s *PostsSlice) FetchPost(ctx context.Context, id int) error {
	s.mu.Lock()
	s.begin()
	tok := s.selGate.next()
	s.mu.Unlock()

	post, err := s.api.Post(ctx, id)

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.endFetch(&s.selGate, tok, err, "Failed to fetch post") {
		return err
	}
	s.selected = post
	return nil
}

// CreatePost publishes a listing; the new post is prepended so it
// shows up first, the way the server's newest-first ordering would
// place it on the next full fetch.
func (s *PostsSlice) CreatePost(ctx context.Context, form client.PostForm) (*models.Post, error) {
	s.mu.Lock()
	s.begin()
	s.mu.Unlock()

	post, err := s.api.CreatePost(ctx, form)

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.end(err, "Failed to create post") {
		return nil, err
	}
	s.items = append([]models.Post{*post}, s.items...)
	s.totalCount++
	created := post.Clone()
	return &created, nil
}

func (s *PostsSlice) UpdatePost(ctx context.Context, id int, form client.PostForm) error {
	s.mu.Lock()
	s.begin()
	s.mu.Unlock()

	post, err := s.api.UpdatePost(ctx, id, form)

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.end(err, "Failed to update post") {
		return err
	}
	for i := range s.items {
		if s.items[i].ID == post.ID {
			s.items[i] = *post
			break
		}
	}
	if s.selected != nil && s.selected.ID == post.ID {
		s.selected = post
	}
	return nil
}

// DeletePost removes a listing. A 404 means someone (possibly a
// double-click) already deleted it; the slice treats that as success
// and still drops the entity locally.
func (s *PostsSlice) DeletePost(ctx context.Context, id int) error {
	s.mu.Lock()
	s.begin()
	s.mu.Unlock()

	err := s.api.DeletePost(ctx, id)
	if client.IsNotFound(err) {
		err = nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.end(err, "Failed to delete post") {
		return err
	}
	kept := s.items[:0]
	removed := false
	for _, p := range s.items {
		if p.ID == id {
			removed = true
			continue
		}
		kept = append(kept, p)
	}
	s.items = kept
	if removed && s.totalCount > 0 {
		s.totalCount--
	}
	if s.selected != nil && s.selected.ID == id {
		s.selected = nil
	}
	return nil
}

func (s *PostsSlice) ClearSelected() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = nil
}

func (s *PostsSlice) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = ""
}
