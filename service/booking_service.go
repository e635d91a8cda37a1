package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/isinghranjeet/eassy-to-rent-backend/domain"
	apperrors "github.com/isinghranjeet/eassy-to-rent-backend/errors"
)

const depositMonths = 2

type BookingService struct {
	bookings    domain.BookingStore
	listings    domain.ListingStore
	credentials domain.AuthStore
	notifier    BookingNotifier
	tracer      trace.Tracer
	logger      *logrus.Logger
}

func NewBookingService(bookings domain.BookingStore, listings domain.ListingStore, credentials domain.AuthStore, notifier BookingNotifier, tracer trace.Tracer, logger *logrus.Logger) *BookingService {
	return &BookingService{
		bookings:    bookings,
		listings:    listings,
		credentials: credentials,
		notifier:    notifier,
		tracer:      tracer,
		logger:      logger,
	}
}

func (service *BookingService) Create(ctx context.Context, requester domain.Principal, listingID, roomType string, startDate time.Time, durationMonths int) (*domain.Booking, error) {
	ctx, span := service.tracer.Start(ctx, "BookingService.Create")
	defer span.End()

	id, err := primitive.ObjectIDFromHex(listingID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrInvalidArgument, apperrors.InvalidListingIdentifierError)
	}
	if durationMonths < 1 {
		return nil, apperrors.ErrInvalidArgument
	}

	listing, err := service.listings.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	booking := &domain.Booking{
		Reference:      uuid.NewString(),
		User:           requester.Username,
		PgListing:      listing.ID,
		RoomType:       roomType,
		StartDate:      startDate,
		DurationMonths: durationMonths,
		MonthlyRent:    listing.Price,
		TotalAmount:    listing.Price * float64(durationMonths),
		Deposit:        listing.Price * depositMonths,
		Status:         domain.Pending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	booking, err = service.bookings.Insert(ctx, booking)
	if err != nil {
		span.SetStatus(codes.Error, "Booking insert failed")
		return nil, err
	}
	return booking, nil
}

func (service *BookingService) GetByUser(ctx context.Context, requester domain.Principal) ([]*domain.Booking, error) {
	ctx, span := service.tracer.Start(ctx, "BookingService.GetByUser")
	defer span.End()

	return service.bookings.GetByUser(ctx, requester.Username)
}

// UpdateStatus advances the booking state machine. Cancelled and
// completed are terminal.
func (service *BookingService) UpdateStatus(ctx context.Context, bookingID string, next domain.BookingStatus) (*domain.Booking, error) {
	ctx, span := service.tracer.Start(ctx, "BookingService.UpdateStatus")
	defer span.End()

	booking, err := service.getBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if !booking.Status.CanTransitionTo(next) {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrInvalidArgument, apperrors.InvalidBookingStatusError)
	}

	if err := service.bookings.UpdateStatus(ctx, booking.ID, next); err != nil {
		span.SetStatus(codes.Error, "Booking status update failed")
		return nil, err
	}
	booking.Status = next

	if next == domain.Confirmed {
		service.notifyConfirmed(ctx, booking)
	}
	return booking, nil
}

func (service *BookingService) Cancel(ctx context.Context, requester domain.Principal, bookingID string) (*domain.Booking, error) {
	ctx, span := service.tracer.Start(ctx, "BookingService.Cancel")
	defer span.End()

	booking, err := service.getBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.User != requester.Username && !requester.IsAdmin() {
		return nil, apperrors.ErrForbidden
	}
	if !booking.Status.CanTransitionTo(domain.Cancelled) {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrInvalidArgument, apperrors.InvalidBookingStatusError)
	}

	if err := service.bookings.UpdateStatus(ctx, booking.ID, domain.Cancelled); err != nil {
		span.SetStatus(codes.Error, "Booking cancel failed")
		return nil, err
	}
	booking.Status = domain.Cancelled
	return booking, nil
}

func (service *BookingService) getBooking(ctx context.Context, bookingID string) (*domain.Booking, error) {
	id, err := primitive.ObjectIDFromHex(bookingID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrInvalidArgument, apperrors.BookingNotFoundError)
	}
	return service.bookings.Get(ctx, id)
}

// notifyConfirmed sends the confirmation mail best effort; the status
// change has already been persisted.
func (service *BookingService) notifyConfirmed(ctx context.Context, booking *domain.Booking) {
	credentials, err := service.credentials.GetByUsername(ctx, booking.User)
	if err != nil {
		service.logger.Warnf("lookup booker %s for confirmation mail: %s", booking.User, err)
		return
	}
	if credentials.Email == "" {
		return
	}
	if err := service.notifier.BookingConfirmed(credentials.Email, booking); err != nil {
		service.logger.Warnf("send confirmation mail for %s: %s", booking.Reference, err)
	}
}
