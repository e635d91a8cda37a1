package application

import (
	"context"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/isinghranjeet/eassy-to-rent-backend/domain"
	apperrors "github.com/isinghranjeet/eassy-to-rent-backend/errors"
)

func newListingFixture() (*ListingService, *fakeListingStore, *fakeListingCache) {
	store := &fakeListingStore{}
	cache := newFakeListingCache()
	return NewListingService(store, cache, testTracer(), testLogger()), store, cache
}

func mustCreateListing(t *testing.T, service *ListingService, name string, listingType domain.ListingType, price float64) *domain.Listing {
	t.Helper()
	listing, err := service.Create(context.Background(), &domain.Listing{
		Name:  name,
		Type:  listingType,
		Price: price,
	})
	require.NoError(t, err)
	listing.Published = true
	return listing
}

func TestResolveByObjectID(t *testing.T) {
	service, _, _ := newListingFixture()
	seeded := mustCreateListing(t, service, "Royal Boys PG", domain.Boys, 8000)

	resolved, err := service.Resolve(context.Background(), seeded.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, seeded.ID, resolved.ID)
}

func TestResolveBySlug(t *testing.T) {
	service, _, _ := newListingFixture()
	seeded := mustCreateListing(t, service, "Royal Boys PG", domain.Boys, 8000)
	require.Equal(t, "royal-boys-pg", seeded.Slug)

	resolved, err := service.Resolve(context.Background(), "royal-boys-pg")
	require.NoError(t, err)
	assert.Equal(t, seeded.ID, resolved.ID)
}

func TestResolveByName(t *testing.T) {
	service, _, _ := newListingFixture()
	seeded := mustCreateListing(t, service, "Royal Boys PG", domain.Boys, 8000)

	// Spaces and hyphens are interchangeable, match is case-insensitive.
	for _, identifier := range []string{"royal boys pg", "Royal-Boys-PG", "royal boys-pg"} {
		resolved, err := service.Resolve(context.Background(), identifier)
		require.NoError(t, err, identifier)
		assert.Equal(t, seeded.ID, resolved.ID, identifier)
	}
}

func TestResolveBySubstring(t *testing.T) {
	service, _, _ := newListingFixture()
	seeded := mustCreateListing(t, service, "Sunshine Residency", domain.Girls, 9500)
	seeded.Locality = "Koramangala"

	resolved, err := service.Resolve(context.Background(), "koramangala")
	require.NoError(t, err)
	assert.Equal(t, seeded.ID, resolved.ID)
}

func TestResolveRejectsPlaceholderIdentifiers(t *testing.T) {
	service, _, _ := newListingFixture()

	for _, identifier := range []string{"", "  ", "undefined", "null"} {
		_, err := service.Resolve(context.Background(), identifier)
		assert.ErrorIs(t, err, apperrors.ErrInvalidArgument, identifier)
	}
}

func TestResolveExhaustedChainIsNotFound(t *testing.T) {
	service, _, _ := newListingFixture()
	mustCreateListing(t, service, "Royal Boys PG", domain.Boys, 8000)

	_, err := service.Resolve(context.Background(), "no-such-listing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestResolveAbortsOnStoreOutage(t *testing.T) {
	service, store, _ := newListingFixture()
	mustCreateListing(t, service, "Royal Boys PG", domain.Boys, 8000)
	store.unavailable = true

	_, err := service.Resolve(context.Background(), "royal-boys-pg")
	assert.ErrorIs(t, err, apperrors.ErrUnavailable)
	assert.NotErrorIs(t, err, apperrors.ErrNotFound)
}

func TestResolveCachesHits(t *testing.T) {
	service, store, cache := newListingFixture()
	seeded := mustCreateListing(t, service, "Royal Boys PG", domain.Boys, 8000)

	_, err := service.Resolve(context.Background(), "royal-boys-pg")
	require.NoError(t, err)
	assert.Contains(t, cache.items, seeded.ID.Hex())
	assert.Contains(t, cache.items, seeded.Slug)

	// A cached identifier is served without touching the store.
	store.unavailable = true
	resolved, err := service.Resolve(context.Background(), seeded.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, seeded.ID, resolved.ID)
}

func TestNamePattern(t *testing.T) {
	assert.Equal(t, "^royal[ -]boys[ -]pg$", NamePattern("royal boys pg"))
	assert.Equal(t, "^royal[ -]boys[ -]pg$", NamePattern("royal-boys pg"))
	assert.Equal(t, `^a\.b$`, NamePattern("a.b"))
}

func TestParseSearchQueryDefaults(t *testing.T) {
	query, err := ParseSearchQuery(url.Values{}, domain.Principal{})
	require.NoError(t, err)

	assert.Equal(t, "createdAt", query.SortBy)
	assert.True(t, query.SortDesc)
	assert.Equal(t, int64(1), query.Page)
	assert.Equal(t, int64(10), query.Limit)
	assert.False(t, query.IncludeUnpublished)
}

func TestParseSearchQueryInvalidInput(t *testing.T) {
	_, err := ParseSearchQuery(url.Values{"type": {"mixed"}}, domain.Principal{})
	assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)

	_, err = ParseSearchQuery(url.Values{"minPrice": {"cheap"}}, domain.Principal{})
	assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)

	_, err = ParseSearchQuery(url.Values{"maxPrice": {"10k"}}, domain.Principal{})
	assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)
}

func TestParseSearchQueryClampsLimit(t *testing.T) {
	query, err := ParseSearchQuery(url.Values{"limit": {"500"}, "page": {"4"}}, domain.Principal{})
	require.NoError(t, err)
	assert.Equal(t, int64(100), query.Limit)
	assert.Equal(t, int64(4), query.Page)
}

func TestParseSearchQueryAdminViewRequiresAdminRole(t *testing.T) {
	values := url.Values{"admin": {"true"}}

	asUser, err := ParseSearchQuery(values, domain.Principal{UserType: domain.RegularUser})
	require.NoError(t, err)
	assert.False(t, asUser.IncludeUnpublished)

	asAdmin, err := ParseSearchQuery(values, domain.Principal{UserType: domain.Admin})
	require.NoError(t, err)
	assert.True(t, asAdmin.IncludeUnpublished)
}

func TestSearchExcludesUnpublishedByDefault(t *testing.T) {
	service, _, _ := newListingFixture()
	mustCreateListing(t, service, "Visible One", domain.Boys, 7000)
	mustCreateListing(t, service, "Visible Two", domain.Girls, 9000)
	hidden := mustCreateListing(t, service, "Hidden", domain.CoEd, 8000)
	hidden.Published = false

	listings, pagination, err := service.Search(context.Background(), domain.ListingQuery{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, listings, 2)
	assert.Equal(t, int64(2), pagination.TotalItems)

	listings, _, err = service.Search(context.Background(), domain.ListingQuery{Page: 1, Limit: 10, IncludeUnpublished: true})
	require.NoError(t, err)
	assert.Len(t, listings, 3)
}

func TestSearchPriceRange(t *testing.T) {
	service, _, _ := newListingFixture()
	mustCreateListing(t, service, "Budget", domain.Boys, 5000)
	mid := mustCreateListing(t, service, "Mid Range", domain.Boys, 8000)
	mustCreateListing(t, service, "Premium", domain.Boys, 12000)

	min, max := 6000.0, 10000.0
	listings, _, err := service.Search(context.Background(), domain.ListingQuery{
		MinPrice: &min,
		MaxPrice: &max,
		Page:     1,
		Limit:    10,
	})
	require.NoError(t, err)
	require.Len(t, listings, 1)
	assert.Equal(t, mid.ID, listings[0].ID)
}

func TestSearchPagination(t *testing.T) {
	service, _, _ := newListingFixture()
	for i := 0; i < 25; i++ {
		mustCreateListing(t, service, "Listing "+string(rune('A'+i)), domain.Boys, 7000)
	}

	listings, pagination, err := service.Search(context.Background(), domain.ListingQuery{Page: 3, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, listings, 5)
	assert.Equal(t, int64(25), pagination.TotalItems)
	assert.Equal(t, int64(3), pagination.TotalPages)
	assert.False(t, pagination.HasNextPage)
	assert.True(t, pagination.HasPrevPage)
}

func TestCreateAppliesDefaults(t *testing.T) {
	service, _, _ := newListingFixture()

	listing, err := service.Create(context.Background(), &domain.Listing{
		Name:   "Green Nest",
		Type:   domain.Girls,
		Price:  6500,
		Rating: 4.9, // client-supplied ratings are discarded
	})
	require.NoError(t, err)

	assert.Equal(t, domain.DefaultCity, listing.City)
	assert.Equal(t, domain.Available, listing.Availability)
	assert.Equal(t, "green-nest", listing.Slug)
	assert.Zero(t, listing.Rating)
	assert.Zero(t, listing.ReviewCount)
	assert.False(t, listing.CreatedAt.IsZero())
}

func TestCreateValidation(t *testing.T) {
	service, _, _ := newListingFixture()

	_, err := service.Create(context.Background(), &domain.Listing{Name: "  ", Type: domain.Boys, Price: 1})
	assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)

	_, err = service.Create(context.Background(), &domain.Listing{Name: "X", Type: "mixed", Price: 1})
	assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)

	_, err = service.Create(context.Background(), &domain.Listing{Name: "X", Type: domain.Boys, Price: -1})
	assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)
}

func TestCreateSuffixesCollidingSlugs(t *testing.T) {
	service, _, _ := newListingFixture()

	first := mustCreateListing(t, service, "Royal Boys PG", domain.Boys, 8000)
	second := mustCreateListing(t, service, "Royal Boys PG", domain.Boys, 8500)
	third := mustCreateListing(t, service, "Royal Boys PG", domain.Boys, 9000)

	assert.Equal(t, "royal-boys-pg", first.Slug)
	assert.Equal(t, "royal-boys-pg-2", second.Slug)
	assert.Equal(t, "royal-boys-pg-3", third.Slug)
}

func TestPatchRenameRegeneratesSlug(t *testing.T) {
	service, _, cache := newListingFixture()
	seeded := mustCreateListing(t, service, "Old Name PG", domain.Boys, 8000)

	_, err := service.Resolve(context.Background(), seeded.Slug)
	require.NoError(t, err)

	name := "New Name PG"
	updated, err := service.Patch(context.Background(), seeded.ID.Hex(), &domain.ListingPatch{Name: &name})
	require.NoError(t, err)

	assert.Equal(t, "New Name PG", updated.Name)
	assert.Equal(t, "new-name-pg", updated.Slug)
	assert.NotContains(t, cache.items, "old-name-pg")
	assert.NotContains(t, cache.items, seeded.ID.Hex())
}

func TestPatchKeepsOwnSlugWhenNameUnchanged(t *testing.T) {
	service, _, _ := newListingFixture()
	seeded := mustCreateListing(t, service, "Stable PG", domain.Boys, 8000)

	price := 9000.0
	updated, err := service.Patch(context.Background(), seeded.ID.Hex(), &domain.ListingPatch{Price: &price})
	require.NoError(t, err)
	assert.Equal(t, "stable-pg", updated.Slug)
	assert.Equal(t, 9000.0, updated.Price)
}

func TestPatchValidation(t *testing.T) {
	service, _, _ := newListingFixture()
	seeded := mustCreateListing(t, service, "Valid PG", domain.Boys, 8000)

	bad := -5.0
	_, err := service.Patch(context.Background(), seeded.ID.Hex(), &domain.ListingPatch{Price: &bad})
	assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)

	badType := domain.ListingType("mixed")
	_, err = service.Patch(context.Background(), seeded.ID.Hex(), &domain.ListingPatch{Type: &badType})
	assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)
}

func TestSetFlag(t *testing.T) {
	service, _, _ := newListingFixture()
	seeded := mustCreateListing(t, service, "Flagged PG", domain.Boys, 8000)
	seeded.Published = false

	published, err := service.SetFlag(context.Background(), seeded.ID.Hex(), "published", true)
	require.NoError(t, err)
	assert.True(t, published.Published)

	featured, err := service.SetFlag(context.Background(), seeded.Slug, "featured", true)
	require.NoError(t, err)
	assert.True(t, featured.Featured)

	_, err = service.SetFlag(context.Background(), seeded.ID.Hex(), "premium", true)
	assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)
}

func TestDeleteListing(t *testing.T) {
	service, _, _ := newListingFixture()
	seeded := mustCreateListing(t, service, "Doomed PG", domain.Boys, 8000)

	require.NoError(t, service.Delete(context.Background(), seeded.Slug))

	_, err := service.Resolve(context.Background(), seeded.ID.Hex())
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
