package store

import (
	"context"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/isinghranjeet/eassy-to-rent-backend/domain"
)

const CREDENTIALS_COLLECTION = "credentials"

type AuthMongoDBStore struct {
	credentials *mongo.Collection
	tracer      trace.Tracer
	logger      *logrus.Logger
}

func NewAuthMongoDBStore(client *mongo.Client, tracer trace.Tracer, logger *logrus.Logger) domain.AuthStore {
	credentials := client.Database(DATABASE).Collection(CREDENTIALS_COLLECTION)
	return &AuthMongoDBStore{
		credentials: credentials,
		tracer:      tracer,
		logger:      logger,
	}
}

func (store *AuthMongoDBStore) Register(ctx context.Context, credentials *domain.Credentials) error {
	ctx, span := store.tracer.Start(ctx, "AuthStore.Register")
	defer span.End()

	credentials.ID = primitive.NewObjectID()
	result, err := store.credentials.InsertOne(ctx, credentials)
	if err != nil {
		span.SetStatus(codes.Error, "Error inserting credentials")
		store.logger.Errorf("insert credentials: %s", err)
		return translate(err)
	}
	credentials.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}

func (store *AuthMongoDBStore) GetByUsername(ctx context.Context, username string) (*domain.Credentials, error) {
	ctx, span := store.tracer.Start(ctx, "AuthStore.GetByUsername")
	defer span.End()

	result := store.credentials.FindOne(ctx, bson.M{"username": username})

	var credentials domain.Credentials
	if err := result.Decode(&credentials); err != nil {
		return nil, translate(err)
	}
	return &credentials, nil
}
