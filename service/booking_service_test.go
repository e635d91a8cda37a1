package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/isinghranjeet/eassy-to-rent-backend/domain"
	apperrors "github.com/isinghranjeet/eassy-to-rent-backend/errors"
)

func newBookingFixture(t *testing.T) (*BookingService, *fakeNotifier, *domain.Listing) {
	t.Helper()
	listings := &fakeListingStore{}
	listingService := NewListingService(listings, newFakeListingCache(), testTracer(), testLogger())
	listing := mustCreateListing(t, listingService, "Booked PG", domain.Boys, 8000)

	credentials := &fakeAuthStore{}
	require.NoError(t, credentials.Register(context.Background(), &domain.Credentials{
		Username: "alice",
		Email:    "alice@example.com",
		UserType: domain.RegularUser,
	}))

	notifier := &fakeNotifier{}
	service := NewBookingService(&fakeBookingStore{}, listings, credentials, notifier, testTracer(), testLogger())
	return service, notifier, listing
}

func TestBookingCreateComputesAmounts(t *testing.T) {
	service, _, listing := newBookingFixture(t)

	booking, err := service.Create(context.Background(), asUser("alice"), listing.ID.Hex(), "double", time.Now(), 6)
	require.NoError(t, err)

	assert.NotEmpty(t, booking.Reference)
	assert.Equal(t, 8000.0, booking.MonthlyRent)
	assert.Equal(t, 48000.0, booking.TotalAmount)
	assert.Equal(t, 16000.0, booking.Deposit)
	assert.Equal(t, domain.Pending, booking.Status)
}

func TestBookingCreateValidation(t *testing.T) {
	service, _, listing := newBookingFixture(t)
	ctx := context.Background()

	_, err := service.Create(ctx, asUser("alice"), "not-a-hex-id", "double", time.Now(), 6)
	assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)

	_, err = service.Create(ctx, asUser("alice"), listing.ID.Hex(), "double", time.Now(), 0)
	assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)

	_, err = service.Create(ctx, asUser("alice"), primitive.NewObjectID().Hex(), "double", time.Now(), 6)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestBookingConfirmSendsNotification(t *testing.T) {
	service, notifier, listing := newBookingFixture(t)
	ctx := context.Background()

	booking, err := service.Create(ctx, asUser("alice"), listing.ID.Hex(), "double", time.Now(), 3)
	require.NoError(t, err)

	confirmed, err := service.UpdateStatus(ctx, booking.ID.Hex(), domain.Confirmed)
	require.NoError(t, err)
	assert.Equal(t, domain.Confirmed, confirmed.Status)
	assert.Equal(t, []string{booking.Reference}, notifier.confirmed)
}

func TestBookingRejectsInvalidTransitions(t *testing.T) {
	service, notifier, listing := newBookingFixture(t)
	ctx := context.Background()

	booking, err := service.Create(ctx, asUser("alice"), listing.ID.Hex(), "double", time.Now(), 3)
	require.NoError(t, err)

	_, err = service.UpdateStatus(ctx, booking.ID.Hex(), domain.Cancelled)
	require.NoError(t, err)

	// Cancelled is terminal.
	_, err = service.UpdateStatus(ctx, booking.ID.Hex(), domain.Confirmed)
	assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)
	_, err = service.UpdateStatus(ctx, booking.ID.Hex(), domain.Completed)
	assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)
	assert.Empty(t, notifier.confirmed)
}

func TestBookingCancelOwnership(t *testing.T) {
	service, _, listing := newBookingFixture(t)
	ctx := context.Background()

	booking, err := service.Create(ctx, asUser("alice"), listing.ID.Hex(), "double", time.Now(), 3)
	require.NoError(t, err)

	_, err = service.Cancel(ctx, asUser("mallory"), booking.ID.Hex())
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	cancelled, err := service.Cancel(ctx, asUser("alice"), booking.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, domain.Cancelled, cancelled.Status)

	_, err = service.Cancel(ctx, asUser("alice"), booking.ID.Hex())
	assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)
}

func TestBookingAdminMayCancel(t *testing.T) {
	service, _, listing := newBookingFixture(t)
	ctx := context.Background()

	booking, err := service.Create(ctx, asUser("alice"), listing.ID.Hex(), "double", time.Now(), 3)
	require.NoError(t, err)

	cancelled, err := service.Cancel(ctx, asAdmin("root"), booking.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, domain.Cancelled, cancelled.Status)
}

func TestBookingGetByUser(t *testing.T) {
	service, _, listing := newBookingFixture(t)
	ctx := context.Background()

	_, err := service.Create(ctx, asUser("alice"), listing.ID.Hex(), "single", time.Now(), 3)
	require.NoError(t, err)
	_, err = service.Create(ctx, asUser("bob"), listing.ID.Hex(), "double", time.Now(), 6)
	require.NoError(t, err)

	mine, err := service.GetByUser(ctx, asUser("alice"))
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "alice", mine[0].User)
}
