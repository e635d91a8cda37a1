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

const (
	DATABASE           = "easytorent"
	LISTING_COLLECTION = "pglistings"
)

type ListingMongoDBStore struct {
	listings *mongo.Collection
	tracer   trace.Tracer
	logger   *logrus.Logger
}

func NewListingMongoDBStore(client *mongo.Client, tracer trace.Tracer, logger *logrus.Logger) domain.ListingStore {
	listings := client.Database(DATABASE).Collection(LISTING_COLLECTION)
	return &ListingMongoDBStore{
		listings: listings,
		tracer:   tracer,
		logger:   logger,
	}
}

func (store *ListingMongoDBStore) Insert(ctx context.Context, listing *domain.Listing) (*domain.Listing, error) {
	ctx, span := store.tracer.Start(ctx, "ListingStore.Insert")
	defer span.End()

	listing.ID = primitive.NewObjectID()
	result, err := store.listings.InsertOne(ctx, listing)
	if err != nil {
		span.SetStatus(codes.Error, "Error inserting listing")
		store.logger.Errorf("insert listing: %s", err)
		return nil, translate(err)
	}
	listing.ID = result.InsertedID.(primitive.ObjectID)
	return listing, nil
}

func (store *ListingMongoDBStore) Get(ctx context.Context, id primitive.ObjectID) (*domain.Listing, error) {
	ctx, span := store.tracer.Start(ctx, "ListingStore.Get")
	defer span.End()

	return store.filterOne(ctx, bson.M{"_id": id})
}

func (store *ListingMongoDBStore) GetBySlug(ctx context.Context, slug string) (*domain.Listing, error) {
	ctx, span := store.tracer.Start(ctx, "ListingStore.GetBySlug")
	defer span.End()

	return store.filterOne(ctx, bson.M{"slug": slug})
}

func (store *ListingMongoDBStore) GetByNamePattern(ctx context.Context, pattern string) (*domain.Listing, error) {
	ctx, span := store.tracer.Start(ctx, "ListingStore.GetByNamePattern")
	defer span.End()

	filter := bson.M{"name": primitive.Regex{Pattern: pattern, Options: "i"}}
	return store.filterOne(ctx, filter)
}

func (store *ListingMongoDBStore) SearchAny(ctx context.Context, term string) (*domain.Listing, error) {
	ctx, span := store.tracer.Start(ctx, "ListingStore.SearchAny")
	defer span.End()

	substring := primitive.Regex{Pattern: regexQuote(term), Options: "i"}
	or := []bson.M{
		{"name": substring},
		{"address": substring},
		{"city": substring},
		{"locality": substring},
	}
	if id, err := primitive.ObjectIDFromHex(term); err == nil {
		or = append(or, bson.M{"_id": id})
	}
	return store.filterOne(ctx, bson.M{"$or": or})
}

func (store *ListingMongoDBStore) SlugExists(ctx context.Context, slug string) (bool, error) {
	ctx, span := store.tracer.Start(ctx, "ListingStore.SlugExists")
	defer span.End()

	count, err := store.listings.CountDocuments(ctx, bson.M{"slug": slug})
	if err != nil {
		span.SetStatus(codes.Error, "Error counting slugs")
		return false, translate(err)
	}
	return count > 0, nil
}

func (store *ListingMongoDBStore) Find(ctx context.Context, query domain.ListingQuery) ([]*domain.Listing, int64, error) {
	ctx, span := store.tracer.Start(ctx, "ListingStore.Find")
	defer span.End()

	filter := composeFilter(query)

	total, err := store.listings.CountDocuments(ctx, filter)
	if err != nil {
		span.SetStatus(codes.Error, "Error counting listings")
		store.logger.Errorf("count listings: %s", err)
		return nil, 0, translate(err)
	}

	order := 1
	if query.SortDesc {
		order = -1
	}
	opts := options.Find().
		SetSort(bson.D{{Key: query.SortBy, Value: order}}).
		SetSkip(query.Skip()).
		SetLimit(query.Limit)

	cursor, err := store.listings.Find(ctx, filter, opts)
	if err != nil {
		span.SetStatus(codes.Error, "Error finding listings")
		store.logger.Errorf("find listings: %s", err)
		return nil, 0, translate(err)
	}
	defer cursor.Close(ctx)

	listings, err := decodeListings(ctx, cursor)
	if err != nil {
		span.SetStatus(codes.Error, "Error decoding listings")
		return nil, 0, translate(err)
	}
	return listings, total, nil
}

func (store *ListingMongoDBStore) Replace(ctx context.Context, listing *domain.Listing) error {
	ctx, span := store.tracer.Start(ctx, "ListingStore.Replace")
	defer span.End()

	result, err := store.listings.ReplaceOne(ctx, bson.M{"_id": listing.ID}, listing)
	if err != nil {
		span.SetStatus(codes.Error, "Error replacing listing")
		store.logger.Errorf("replace listing: %s", err)
		return translate(err)
	}
	if result.MatchedCount == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (store *ListingMongoDBStore) SetRating(ctx context.Context, id primitive.ObjectID, rating float64, count int64) error {
	ctx, span := store.tracer.Start(ctx, "ListingStore.SetRating")
	defer span.End()

	update := bson.M{"$set": bson.M{"rating": rating, "reviewCount": count}}
	result, err := store.listings.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		span.SetStatus(codes.Error, "Error updating rating")
		store.logger.Errorf("set rating: %s", err)
		return translate(err)
	}
	if result.MatchedCount == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (store *ListingMongoDBStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	ctx, span := store.tracer.Start(ctx, "ListingStore.Delete")
	defer span.End()

	result, err := store.listings.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		span.SetStatus(codes.Error, "Error deleting listing")
		store.logger.Errorf("delete listing: %s", err)
		return translate(err)
	}
	if result.DeletedCount == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (store *ListingMongoDBStore) filterOne(ctx context.Context, filter interface{}) (*domain.Listing, error) {
	result := store.listings.FindOne(ctx, filter)

	var listing domain.Listing
	if err := result.Decode(&listing); err != nil {
		return nil, translate(err)
	}
	return &listing, nil
}

func composeFilter(query domain.ListingQuery) bson.M {
	filter := bson.M{}
	if query.Type != "" {
		filter["type"] = query.Type
	}
	if query.City != "" {
		filter["city"] = primitive.Regex{Pattern: regexQuote(query.City), Options: "i"}
	}
	if query.Search != "" {
		substring := primitive.Regex{Pattern: regexQuote(query.Search), Options: "i"}
		filter["$or"] = []bson.M{
			{"name": substring},
			{"address": substring},
			{"city": substring},
			{"description": substring},
		}
	}
	price := bson.M{}
	if query.MinPrice != nil {
		price["$gte"] = *query.MinPrice
	}
	if query.MaxPrice != nil {
		price["$lte"] = *query.MaxPrice
	}
	if len(price) > 0 {
		filter["price"] = price
	}
	if !query.IncludeUnpublished {
		filter["published"] = true
	}
	return filter
}

func decodeListings(ctx context.Context, cursor *mongo.Cursor) (listings []*domain.Listing, err error) {
	for cursor.Next(ctx) {
		var listing domain.Listing
		err = cursor.Decode(&listing)
		if err != nil {
			return
		}
		listings = append(listings, &listing)
	}
	err = cursor.Err()
	return
}
