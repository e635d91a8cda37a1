package domain

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type BookingStore interface {
	Insert(ctx context.Context, booking *Booking) (*Booking, error)
	Get(ctx context.Context, id primitive.ObjectID) (*Booking, error)
	GetByUser(ctx context.Context, user string) ([]*Booking, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status BookingStatus) error
}
