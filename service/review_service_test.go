package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/isinghranjeet/eassy-to-rent-backend/domain"
	apperrors "github.com/isinghranjeet/eassy-to-rent-backend/errors"
)

func newReviewFixture(t *testing.T) (*ReviewService, *fakeListingStore, *domain.Listing) {
	t.Helper()
	listings := &fakeListingStore{}
	cache := newFakeListingCache()
	listingService := NewListingService(listings, cache, testTracer(), testLogger())

	listing := mustCreateListing(t, listingService, "Rated PG", domain.Boys, 8000)
	service := NewReviewService(&fakeReviewStore{}, listings, cache, testTracer(), testLogger())
	return service, listings, listing
}

func asUser(username string) domain.Principal {
	return domain.Principal{UserID: username + "-id", Username: username, UserType: domain.RegularUser}
}

func asAdmin(username string) domain.Principal {
	return domain.Principal{UserID: username + "-id", Username: username, UserType: domain.Admin}
}

func TestReviewCreateRecomputesRating(t *testing.T) {
	service, _, listing := newReviewFixture(t)
	ctx := context.Background()

	for user, rating := range map[string]int{"alice": 4, "bob": 5, "carol": 3} {
		_, err := service.Create(ctx, asUser(user), listing.ID.Hex(), rating, "stay", "fine")
		require.NoError(t, err)
	}

	assert.Equal(t, 4.0, listing.Rating)
	assert.Equal(t, int64(3), listing.ReviewCount)
}

func TestReviewRatingRoundsToOneDecimal(t *testing.T) {
	service, _, listing := newReviewFixture(t)
	ctx := context.Background()

	// 4 and 5 average to 4.5; adding a 5 gives 4.666... which rounds to 4.7.
	_, err := service.Create(ctx, asUser("alice"), listing.ID.Hex(), 4, "", "")
	require.NoError(t, err)
	_, err = service.Create(ctx, asUser("bob"), listing.ID.Hex(), 5, "", "")
	require.NoError(t, err)
	assert.Equal(t, 4.5, listing.Rating)

	_, err = service.Create(ctx, asUser("carol"), listing.ID.Hex(), 5, "", "")
	require.NoError(t, err)
	assert.Equal(t, 4.7, listing.Rating)
}

func TestReviewDeleteRecomputesRating(t *testing.T) {
	service, _, listing := newReviewFixture(t)
	ctx := context.Background()

	_, err := service.Create(ctx, asUser("alice"), listing.ID.Hex(), 4, "", "")
	require.NoError(t, err)
	_, err = service.Create(ctx, asUser("bob"), listing.ID.Hex(), 5, "", "")
	require.NoError(t, err)
	low, err := service.Create(ctx, asUser("carol"), listing.ID.Hex(), 3, "", "")
	require.NoError(t, err)

	require.NoError(t, service.Delete(ctx, asUser("carol"), low.ID.Hex()))
	assert.Equal(t, 4.5, listing.Rating)
	assert.Equal(t, int64(2), listing.ReviewCount)
}

func TestReviewDeleteLastReviewZeroesRating(t *testing.T) {
	service, _, listing := newReviewFixture(t)
	ctx := context.Background()

	review, err := service.Create(ctx, asUser("alice"), listing.ID.Hex(), 5, "", "")
	require.NoError(t, err)
	assert.Equal(t, 5.0, listing.Rating)

	require.NoError(t, service.Delete(ctx, asUser("alice"), review.ID.Hex()))
	assert.Zero(t, listing.Rating)
	assert.Zero(t, listing.ReviewCount)
}

func TestReviewRejectsDuplicatePerUser(t *testing.T) {
	service, _, listing := newReviewFixture(t)
	ctx := context.Background()

	_, err := service.Create(ctx, asUser("alice"), listing.ID.Hex(), 4, "", "")
	require.NoError(t, err)

	_, err = service.Create(ctx, asUser("alice"), listing.ID.Hex(), 5, "", "")
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	assert.Equal(t, int64(1), listing.ReviewCount)
}

func TestReviewCreateValidation(t *testing.T) {
	service, _, listing := newReviewFixture(t)
	ctx := context.Background()

	_, err := service.Create(ctx, asUser("alice"), "not-a-hex-id", 4, "", "")
	assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)

	_, err = service.Create(ctx, asUser("alice"), listing.ID.Hex(), 0, "", "")
	assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)

	_, err = service.Create(ctx, asUser("alice"), listing.ID.Hex(), 6, "", "")
	assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)
}

func TestReviewUpdateRecomputesRating(t *testing.T) {
	service, _, listing := newReviewFixture(t)
	ctx := context.Background()

	review, err := service.Create(ctx, asUser("alice"), listing.ID.Hex(), 2, "meh", "noisy")
	require.NoError(t, err)

	updated, err := service.Update(ctx, asUser("alice"), review.ID.Hex(), 5, "better", "renovated")
	require.NoError(t, err)
	assert.Equal(t, 5, updated.Rating)
	assert.Equal(t, 5.0, listing.Rating)
}

func TestReviewOnlyAuthorMayUpdate(t *testing.T) {
	service, _, listing := newReviewFixture(t)
	ctx := context.Background()

	review, err := service.Create(ctx, asUser("alice"), listing.ID.Hex(), 4, "", "")
	require.NoError(t, err)

	_, err = service.Update(ctx, asUser("mallory"), review.ID.Hex(), 1, "", "")
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	// Admins moderate via delete, not edit.
	_, err = service.Update(ctx, asAdmin("root"), review.ID.Hex(), 1, "", "")
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestReviewAdminMayDelete(t *testing.T) {
	service, _, listing := newReviewFixture(t)
	ctx := context.Background()

	review, err := service.Create(ctx, asUser("alice"), listing.ID.Hex(), 4, "", "")
	require.NoError(t, err)

	err = service.Delete(ctx, asUser("mallory"), review.ID.Hex())
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	require.NoError(t, service.Delete(ctx, asAdmin("root"), review.ID.Hex()))
}

func TestReviewReplyPermissions(t *testing.T) {
	service, _, listing := newReviewFixture(t)
	ctx := context.Background()
	listing.OwnerId = "owner-id"

	review, err := service.Create(ctx, asUser("alice"), listing.ID.Hex(), 4, "", "")
	require.NoError(t, err)

	_, err = service.Reply(ctx, asUser("mallory"), review.ID.Hex(), "thanks!")
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	owner := domain.Principal{UserID: "owner-id", Username: "owner", UserType: domain.RegularUser}
	replied, err := service.Reply(ctx, owner, review.ID.Hex(), "thanks for staying!")
	require.NoError(t, err)
	require.Len(t, replied.Replies, 1)
	assert.Equal(t, "owner", replied.Replies[0].Author)

	replied, err = service.Reply(ctx, asAdmin("root"), review.ID.Hex(), "noted")
	require.NoError(t, err)
	assert.Len(t, replied.Replies, 2)

	_, err = service.Reply(ctx, owner, review.ID.Hex(), "   ")
	assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)
}

func TestReviewForMissingListing(t *testing.T) {
	service, listings, listing := newReviewFixture(t)
	ctx := context.Background()

	require.NoError(t, listings.Delete(ctx, listing.ID))
	_, err := service.Create(ctx, asUser("alice"), listing.ID.Hex(), 4, "", "")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
