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

const REPORT_COLLECTION = "reports"

type ReportMongoDBStore struct {
	reports *mongo.Collection
	tracer  trace.Tracer
	logger  *logrus.Logger
}

func NewReportMongoDBStore(client *mongo.Client, tracer trace.Tracer, logger *logrus.Logger) domain.ReportStore {
	reports := client.Database(DATABASE).Collection(REPORT_COLLECTION)
	return &ReportMongoDBStore{
		reports: reports,
		tracer:  tracer,
		logger:  logger,
	}
}

func (store *ReportMongoDBStore) Insert(ctx context.Context, report *domain.Report) (*domain.Report, error) {
	ctx, span := store.tracer.Start(ctx, "ReportStore.Insert")
	defer span.End()

	report.ID = primitive.NewObjectID()
	result, err := store.reports.InsertOne(ctx, report)
	if err != nil {
		span.SetStatus(codes.Error, "Error inserting report")
		store.logger.Errorf("insert report: %s", err)
		return nil, translate(err)
	}
	report.ID = result.InsertedID.(primitive.ObjectID)
	return report, nil
}

func (store *ReportMongoDBStore) Get(ctx context.Context, id primitive.ObjectID) (*domain.Report, error) {
	ctx, span := store.tracer.Start(ctx, "ReportStore.Get")
	defer span.End()

	result := store.reports.FindOne(ctx, bson.M{"_id": id})

	var report domain.Report
	if err := result.Decode(&report); err != nil {
		return nil, translate(err)
	}
	return &report, nil
}

func (store *ReportMongoDBStore) GetAll(ctx context.Context, status domain.ReportStatus) ([]*domain.Report, error) {
	ctx, span := store.tracer.Start(ctx, "ReportStore.GetAll")
	defer span.End()

	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := store.reports.Find(ctx, filter, opts)
	if err != nil {
		span.SetStatus(codes.Error, "Error finding reports")
		store.logger.Errorf("find reports: %s", err)
		return nil, translate(err)
	}
	defer cursor.Close(ctx)

	var reports []*domain.Report
	for cursor.Next(ctx) {
		var report domain.Report
		if err := cursor.Decode(&report); err != nil {
			return nil, translate(err)
		}
		reports = append(reports, &report)
	}
	if err := cursor.Err(); err != nil {
		return nil, translate(err)
	}
	return reports, nil
}

func (store *ReportMongoDBStore) Resolve(ctx context.Context, id primitive.ObjectID) error {
	ctx, span := store.tracer.Start(ctx, "ReportStore.Resolve")
	defer span.End()

	update := bson.M{"$set": bson.M{"status": domain.ReportResolved}}
	result, err := store.reports.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		span.SetStatus(codes.Error, "Error resolving report")
		store.logger.Errorf("resolve report: %s", err)
		return translate(err)
	}
	if result.MatchedCount == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
