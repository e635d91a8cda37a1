package domain

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ReportStore interface {
	Insert(ctx context.Context, report *Report) (*Report, error)
	Get(ctx context.Context, id primitive.ObjectID) (*Report, error)
	GetAll(ctx context.Context, status ReportStatus) ([]*Report, error)
	Resolve(ctx context.Context, id primitive.ObjectID) error
}
