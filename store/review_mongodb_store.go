package store

import (
	"context"

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

const REVIEW_COLLECTION = "reviews"

type ReviewMongoDBStore struct {
	reviews *mongo.Collection
	tracer  trace.Tracer
	logger  *logrus.Logger
}

func NewReviewMongoDBStore(client *mongo.Client, tracer trace.Tracer, logger *logrus.Logger) domain.ReviewStore {
	reviews := client.Database(DATABASE).Collection(REVIEW_COLLECTION)
	return &ReviewMongoDBStore{
		reviews: reviews,
		tracer:  tracer,
		logger:  logger,
	}
}

func (store *ReviewMongoDBStore) Insert(ctx context.Context, review *domain.Review) (*domain.Review, error) {
	ctx, span := store.tracer.Start(ctx, "ReviewStore.Insert")
	defer span.End()

	review.ID = primitive.NewObjectID()
	result, err := store.reviews.InsertOne(ctx, review)
	if err != nil {
		span.SetStatus(codes.Error, "Error inserting review")
		store.logger.Errorf("insert review: %s", err)
		return nil, translate(err)
	}
	review.ID = result.InsertedID.(primitive.ObjectID)
	return review, nil
}

func (store *ReviewMongoDBStore) Get(ctx context.Context, id primitive.ObjectID) (*domain.Review, error) {
	ctx, span := store.tracer.Start(ctx, "ReviewStore.Get")
	defer span.End()

	return store.filterOne(ctx, bson.M{"_id": id})
}

func (store *ReviewMongoDBStore) GetByUserAndListing(ctx context.Context, user string, listing primitive.ObjectID) (*domain.Review, error) {
	ctx, span := store.tracer.Start(ctx, "ReviewStore.GetByUserAndListing")
	defer span.End()

	return store.filterOne(ctx, bson.M{"user": user, "pgListing": listing})
}

func (store *ReviewMongoDBStore) GetByListing(ctx context.Context, listing primitive.ObjectID) ([]*domain.Review, error) {
	ctx, span := store.tracer.Start(ctx, "ReviewStore.GetByListing")
	defer span.End()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := store.reviews.Find(ctx, bson.M{"pgListing": listing}, opts)
	if err != nil {
		span.SetStatus(codes.Error, "Error finding reviews")
		store.logger.Errorf("find reviews: %s", err)
		return nil, translate(err)
	}
	defer cursor.Close(ctx)

	return decodeReviews(ctx, cursor)
}

func (store *ReviewMongoDBStore) Replace(ctx context.Context, review *domain.Review) error {
	ctx, span := store.tracer.Start(ctx, "ReviewStore.Replace")
	defer span.End()

	result, err := store.reviews.ReplaceOne(ctx, bson.M{"_id": review.ID}, review)
	if err != nil {
		span.SetStatus(codes.Error, "Error replacing review")
		store.logger.Errorf("replace review: %s", err)
		return translate(err)
	}
	if result.MatchedCount == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (store *ReviewMongoDBStore) AddReply(ctx context.Context, id primitive.ObjectID, reply domain.Reply) error {
	ctx, span := store.tracer.Start(ctx, "ReviewStore.AddReply")
	defer span.End()

	update := bson.M{"$push": bson.M{"replies": reply}}
	result, err := store.reviews.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		span.SetStatus(codes.Error, "Error adding reply")
		store.logger.Errorf("add reply: %s", err)
		return translate(err)
	}
	if result.MatchedCount == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (store *ReviewMongoDBStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	ctx, span := store.tracer.Start(ctx, "ReviewStore.Delete")
	defer span.End()

	result, err := store.reviews.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		span.SetStatus(codes.Error, "Error deleting review")
		store.logger.Errorf("delete review: %s", err)
		return translate(err)
	}
	if result.DeletedCount == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (store *ReviewMongoDBStore) AggregateForListing(ctx context.Context, listing primitive.ObjectID) (float64, int64, error) {
	ctx, span := store.tracer.Start(ctx, "ReviewStore.AggregateForListing")
	defer span.End()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"pgListing": listing}}},
		{{Key: "$group", Value: bson.M{
			"_id":    "$pgListing",
			"rating": bson.M{"$avg": "$rating"},
			"count":  bson.M{"$sum": 1},
		}}},
	}

	cursor, err := store.reviews.Aggregate(ctx, pipeline)
	if err != nil {
		span.SetStatus(codes.Error, "Error aggregating reviews")
		store.logger.Errorf("aggregate reviews: %s", err)
		return 0, 0, translate(err)
	}
	defer cursor.Close(ctx)

	var result struct {
		Rating float64 `bson:"rating"`
		Count  int64   `bson:"count"`
	}
	if !cursor.Next(ctx) {
		if err := cursor.Err(); err != nil {
			return 0, 0, translate(err)
		}
		// No reviews left for this listing.
		return 0, 0, nil
	}
	if err := cursor.Decode(&result); err != nil {
		return 0, 0, translate(err)
	}
	return result.Rating, result.Count, nil
}

func (store *ReviewMongoDBStore) filterOne(ctx context.Context, filter interface{}) (*domain.Review, error) {
	result := store.reviews.FindOne(ctx, filter)

	var review domain.Review
	if err := result.Decode(&review); err != nil {
		return nil, translate(err)
	}
	return &review, nil
}

func decodeReviews(ctx context.Context, cursor *mongo.Cursor) (reviews []*domain.Review, err error) {
	for cursor.Next(ctx) {
		var review domain.Review
		err = cursor.Decode(&review)
		if err != nil {
			return
		}
		reviews = append(reviews, &review)
	}
	err = cursor.Err()
	return
}
