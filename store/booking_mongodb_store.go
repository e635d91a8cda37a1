package store

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/isinghranjeet/eassy-to-rent-backend/domain"
	apperrors "github.com/isinghranjeet/eassy-to-rent-backend/errors"
)

const BOOKING_COLLECTION = "bookings"

type BookingMongoDBStore struct {
	bookings *mongo.Collection
	tracer   trace.Tracer
	logger   *logrus.Logger
}

func NewBookingMongoDBStore(client *mongo.Client, tracer trace.Tracer, logger *logrus.Logger) domain.BookingStore {
	bookings := client.Database(DATABASE).Collection(BOOKING_COLLECTION)
	return &BookingMongoDBStore{
		bookings: bookings,
		tracer:   tracer,
		logger:   logger,
	}
}

func (store *BookingMongoDBStore) Insert(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	ctx, span := store.tracer.Start(ctx, "BookingStore.Insert")
	defer span.End()

	booking.ID = primitive.NewObjectID()
	result, err := store.bookings.InsertOne(ctx, booking)
	if err != nil {
		span.SetStatus(codes.Error, "Error inserting booking")
		store.logger.Errorf("insert booking: %s", err)
		return nil, translate(err)
	}
	booking.ID = result.InsertedID.(primitive.ObjectID)
	return booking, nil
}

func (store *BookingMongoDBStore) Get(ctx context.Context, id primitive.ObjectID) (*domain.Booking, error) {
	ctx, span := store.tracer.Start(ctx, "BookingStore.Get")
	defer span.End()

	result := store.bookings.FindOne(ctx, bson.M{"_id": id})

	var booking domain.Booking
	if err := result.Decode(&booking); err != nil {
		return nil, translate(err)
	}
	return &booking, nil
}

func (store *BookingMongoDBStore) GetByUser(ctx context.Context, user string) ([]*domain.Booking, error) {
	ctx, span := store.tracer.Start(ctx, "BookingStore.GetByUser")
	defer span.End()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := store.bookings.Find(ctx, bson.M{"user": user}, opts)
	if err != nil {
		span.SetStatus(codes.Error, "Error finding bookings")
		store.logger.Errorf("find bookings: %s", err)
		return nil, translate(err)
	}
	defer cursor.Close(ctx)

	var bookings []*domain.Booking
	for cursor.Next(ctx) {
		var booking domain.Booking
		if err := cursor.Decode(&booking); err != nil {
			return nil, translate(err)
		}
		bookings = append(bookings, &booking)
	}
	if err := cursor.Err(); err != nil {
		return nil, translate(err)
	}
	return bookings, nil
}

func (store *BookingMongoDBStore) UpdateStatus(ctx context.Context, id primitive.ObjectID, status domain.BookingStatus) error {
	ctx, span := store.tracer.Start(ctx, "BookingStore.UpdateStatus")
	defer span.End()

	update := bson.M{"$set": bson.M{"status": status, "updatedAt": time.Now()}}
	result, err := store.bookings.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		span.SetStatus(codes.Error, "Error updating booking status")
		store.logger.Errorf("update booking status: %s", err)
		return translate(err)
	}
	if result.MatchedCount == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
