package models

import "time"

type Post struct {
	ID        int         `json:"id"`
	User      User        `json:"user"`
	Caption   string      `json:"caption"`
	Price     Money       `json:"price"`
	Images    []PostImage `json:"images"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

type PostImage struct {
	ID    int    `json:"id"`
	Image string `json:"image"`
	Order int    `json:"order"`
}

// PostPage is the paginated listing envelope returned by the posts
// endpoint: {count, results}.
type PostPage struct {
	Count   int    `json:"count"`
	Results []Post `json:"results"`
}

// Sort keys accepted by the posts listing. Anything else falls back to
// the default newest-first ordering.
const (
	SortNewest    = "-created_at"
	SortOldest    = "created_at"
	SortPriceAsc  = "price"
	SortPriceDesc = "-price"
)

// PostQuery parameterizes a listing fetch. Append switches the posts
// slice from page mode (replace) to incremental mode (concatenate).
type PostQuery struct {
	Page   int
	Search string
	Sort   string
	Append bool
}
