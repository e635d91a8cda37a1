package domain

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ReviewStore interface {
	Insert(ctx context.Context, review *Review) (*Review, error)
	Get(ctx context.Context, id primitive.ObjectID) (*Review, error)
	GetByUserAndListing(ctx context.Context, user string, listing primitive.ObjectID) (*Review, error)
	GetByListing(ctx context.Context, listing primitive.ObjectID) ([]*Review, error)
	Replace(ctx context.Context, review *Review) error
	AddReply(ctx context.Context, id primitive.ObjectID, reply Reply) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	// AggregateForListing computes the average rating and review count
	// over every review referencing the listing.
	AggregateForListing(ctx context.Context, listing primitive.ObjectID) (float64, int64, error)
}
