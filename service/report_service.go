package application

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/isinghranjeet/eassy-to-rent-backend/domain"
	apperrors "github.com/isinghranjeet/eassy-to-rent-backend/errors"
)

type ReportService struct {
	reports  domain.ReportStore
	listings domain.ListingStore
	tracer   trace.Tracer
	logger   *logrus.Logger
}

func NewReportService(reports domain.ReportStore, listings domain.ListingStore, tracer trace.Tracer, logger *logrus.Logger) *ReportService {
	return &ReportService{
		reports:  reports,
		listings: listings,
		tracer:   tracer,
		logger:   logger,
	}
}

func (service *ReportService) Create(ctx context.Context, requester domain.Principal, listingID, reason, details string) (*domain.Report, error) {
	ctx, span := service.tracer.Start(ctx, "ReportService.Create")
	defer span.End()

	id, err := primitive.ObjectIDFromHex(listingID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrInvalidArgument, apperrors.InvalidListingIdentifierError)
	}
	if strings.TrimSpace(reason) == "" {
		return nil, apperrors.ErrInvalidArgument
	}

	if _, err := service.listings.Get(ctx, id); err != nil {
		return nil, err
	}

	report := &domain.Report{
		PgListing: id,
		Reporter:  requester.Username,
		Reason:    reason,
		Details:   details,
		Status:    domain.ReportOpen,
		CreatedAt: time.Now(),
	}
	report, err = service.reports.Insert(ctx, report)
	if err != nil {
		span.SetStatus(codes.Error, "Report insert failed")
		return nil, err
	}
	return report, nil
}

func (service *ReportService) GetAll(ctx context.Context, status domain.ReportStatus) ([]*domain.Report, error) {
	ctx, span := service.tracer.Start(ctx, "ReportService.GetAll")
	defer span.End()

	return service.reports.GetAll(ctx, status)
}

func (service *ReportService) Resolve(ctx context.Context, reportID string) error {
	ctx, span := service.tracer.Start(ctx, "ReportService.Resolve")
	defer span.End()

	id, err := primitive.ObjectIDFromHex(reportID)
	if err != nil {
		return fmt.Errorf("%w: %s", apperrors.ErrInvalidArgument, apperrors.ReportNotFoundError)
	}
	return service.reports.Resolve(ctx, id)
}
