package domain

import (
	"context"
	"math"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ListingQuery is the composed filter for the listing collection.
// Zero values mean "no constraint" except IncludeUnpublished, which
// defaults to the published-only view.
type ListingQuery struct {
	Type               ListingType
	City               string
	Search             string
	MinPrice           *float64
	MaxPrice           *float64
	IncludeUnpublished bool
	SortBy             string
	SortDesc           bool
	Page               int64
	Limit              int64
}

func (q ListingQuery) Skip() int64 {
	return (q.Page - 1) * q.Limit
}

type Pagination struct {
	CurrentPage  int64 `json:"currentPage"`
	TotalPages   int64 `json:"totalPages"`
	TotalItems   int64 `json:"totalItems"`
	ItemsPerPage int64 `json:"itemsPerPage"`
	HasNextPage  bool  `json:"hasNextPage"`
	HasPrevPage  bool  `json:"hasPrevPage"`
}

func NewPagination(page, limit, total int64) Pagination {
	totalPages := int64(math.Ceil(float64(total) / float64(limit)))
	return Pagination{
		CurrentPage:  page,
		TotalPages:   totalPages,
		TotalItems:   total,
		ItemsPerPage: limit,
		HasNextPage:  page < totalPages,
		HasPrevPage:  page > 1,
	}
}

type ListingStore interface {
	Insert(ctx context.Context, listing *Listing) (*Listing, error)
	Get(ctx context.Context, id primitive.ObjectID) (*Listing, error)
	GetBySlug(ctx context.Context, slug string) (*Listing, error)
	// GetByNamePattern matches the given regular expression
	// case-insensitively against the full name field.
	GetByNamePattern(ctx context.Context, pattern string) (*Listing, error)
	// SearchAny does a case-insensitive substring match over name,
	// address, city and locality plus a raw equality check on the id
	// field, returning the first document in store order.
	SearchAny(ctx context.Context, term string) (*Listing, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	Find(ctx context.Context, query ListingQuery) ([]*Listing, int64, error)
	Replace(ctx context.Context, listing *Listing) error
	SetRating(ctx context.Context, id primitive.ObjectID, rating float64, count int64) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// ListingCache is a read-through cache for resolved listings keyed by
// id or slug.
type ListingCache interface {
	Post(ctx context.Context, key string, listing *Listing) error
	Get(ctx context.Context, key string) (*Listing, error)
	Del(ctx context.Context, key string) error
}
