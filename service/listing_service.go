package application

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/isinghranjeet/eassy-to-rent-backend/domain"
	apperrors "github.com/isinghranjeet/eassy-to-rent-backend/errors"
)

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100
)

var sortableFields = map[string]bool{
	"createdAt":   true,
	"updatedAt":   true,
	"price":       true,
	"rating":      true,
	"reviewCount": true,
	"name":        true,
}

type ListingService struct {
	store  domain.ListingStore
	cache  domain.ListingCache
	tracer trace.Tracer
	logger *logrus.Logger
}

func NewListingService(store domain.ListingStore, cache domain.ListingCache, tracer trace.Tracer, logger *logrus.Logger) *ListingService {
	return &ListingService{
		store:  store,
		cache:  cache,
		tracer: tracer,
		logger: logger,
	}
}

// Resolve maps one opaque identifier to exactly one listing, trying
// progressively looser interpretations and stopping at the first hit:
// ObjectID lookup, slug equality, anchored name match, broad substring
// match. A store outage aborts the chain; only an exhausted chain is a
// not-found.
func (service *ListingService) Resolve(ctx context.Context, identifier string) (*domain.Listing, error) {
	ctx, span := service.tracer.Start(ctx, "ListingService.Resolve")
	defer span.End()

	identifier = strings.TrimSpace(identifier)
	if identifier == "" || identifier == "undefined" || identifier == "null" {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrInvalidArgument, apperrors.InvalidListingIdentifierError)
	}

	if cached, err := service.cache.Get(ctx, identifier); err == nil {
		return cached, nil
	}

	attempts := []func(context.Context) (*domain.Listing, error){
		func(ctx context.Context) (*domain.Listing, error) {
			id, err := primitive.ObjectIDFromHex(identifier)
			if err != nil {
				// Not id-shaped, skip the primary-key lookup.
				return nil, apperrors.ErrNotFound
			}
			return service.store.Get(ctx, id)
		},
		func(ctx context.Context) (*domain.Listing, error) {
			return service.store.GetBySlug(ctx, identifier)
		},
		func(ctx context.Context) (*domain.Listing, error) {
			return service.store.GetByNamePattern(ctx, NamePattern(identifier))
		},
		func(ctx context.Context) (*domain.Listing, error) {
			return service.store.SearchAny(ctx, identifier)
		},
	}

	for _, attempt := range attempts {
		listing, err := attempt(ctx)
		if err == nil {
			service.cacheResolved(ctx, listing)
			return listing, nil
		}
		if !errors.Is(err, apperrors.ErrNotFound) {
			span.SetStatus(codes.Error, "Listing lookup failed")
			return nil, err
		}
	}

	return nil, fmt.Errorf("%w: %s", apperrors.ErrNotFound, apperrors.ListingNotFoundError)
}

// NamePattern treats the input as a listing name in which spaces and
// hyphens are interchangeable: every internal word boundary matches
// either character, anchored at both ends.
func NamePattern(input string) string {
	parts := strings.FieldsFunc(input, func(r rune) bool {
		return r == ' ' || r == '-'
	})
	quoted := make([]string, 0, len(parts))
	for _, part := range parts {
		quoted = append(quoted, regexp.QuoteMeta(part))
	}
	return "^" + strings.Join(quoted, "[ -]") + "$"
}

// ParseSearchQuery turns raw query parameters into a composed listing
// query. The admin view (unpublished listings included) is only granted
// when the requester actually holds the Admin role.
func ParseSearchQuery(values url.Values, requester domain.Principal) (domain.ListingQuery, error) {
	query := domain.ListingQuery{
		SortBy:   "createdAt",
		SortDesc: true,
		Page:     defaultPage,
		Limit:    defaultLimit,
	}

	if raw := values.Get("type"); raw != "" && raw != "all" {
		listingType := domain.ListingType(raw)
		if !listingType.Valid() {
			return query, fmt.Errorf("%w: %s", apperrors.ErrInvalidArgument, apperrors.InvalidListingTypeError)
		}
		query.Type = listingType
	}
	query.City = values.Get("city")
	query.Search = values.Get("search")

	if raw := values.Get("minPrice"); raw != "" {
		bound, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return query, fmt.Errorf("%w: %s", apperrors.ErrInvalidArgument, apperrors.InvalidPriceBoundError)
		}
		query.MinPrice = &bound
	}
	if raw := values.Get("maxPrice"); raw != "" {
		bound, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return query, fmt.Errorf("%w: %s", apperrors.ErrInvalidArgument, apperrors.InvalidPriceBoundError)
		}
		query.MaxPrice = &bound
	}

	if admin, _ := strconv.ParseBool(values.Get("admin")); admin && requester.IsAdmin() {
		query.IncludeUnpublished = true
	}

	if sortBy := values.Get("sortBy"); sortBy != "" && sortableFields[sortBy] {
		query.SortBy = sortBy
	}
	if order := values.Get("sortOrder"); order != "" {
		query.SortDesc = !strings.EqualFold(order, "asc")
	}

	if raw := values.Get("page"); raw != "" {
		if page, err := strconv.ParseInt(raw, 10, 64); err == nil && page > 0 {
			query.Page = page
		}
	}
	if raw := values.Get("limit"); raw != "" {
		if limit, err := strconv.ParseInt(raw, 10, 64); err == nil && limit > 0 {
			if limit > maxLimit {
				limit = maxLimit
			}
			query.Limit = limit
		}
	}

	return query, nil
}

func (service *ListingService) Search(ctx context.Context, query domain.ListingQuery) ([]*domain.Listing, domain.Pagination, error) {
	ctx, span := service.tracer.Start(ctx, "ListingService.Search")
	defer span.End()

	listings, total, err := service.store.Find(ctx, query)
	if err != nil {
		span.SetStatus(codes.Error, "Listing search failed")
		return nil, domain.Pagination{}, err
	}
	return listings, domain.NewPagination(query.Page, query.Limit, total), nil
}

func (service *ListingService) Create(ctx context.Context, listing *domain.Listing) (*domain.Listing, error) {
	ctx, span := service.tracer.Start(ctx, "ListingService.Create")
	defer span.End()

	if strings.TrimSpace(listing.Name) == "" {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrInvalidArgument, apperrors.ListingNameRequiredError)
	}
	if !listing.Type.Valid() {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrInvalidArgument, apperrors.InvalidListingTypeError)
	}
	if listing.Price < 0 {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrInvalidArgument, apperrors.InvalidPriceError)
	}

	if listing.City == "" {
		listing.City = domain.DefaultCity
	}
	if listing.Availability == "" {
		listing.Availability = domain.Available
	}
	if listing.Location.Type == "" {
		listing.Location = domain.OriginPoint()
	}
	listing.Rating = 0
	listing.ReviewCount = 0

	slug, err := service.uniqueSlug(ctx, listing.Name, "")
	if err != nil {
		return nil, err
	}
	listing.Slug = slug

	now := time.Now()
	listing.CreatedAt = now
	listing.UpdatedAt = now

	return service.store.Insert(ctx, listing)
}

// Patch applies a typed partial update. The slug is regenerated when
// the name changes; rating and reviewCount have no patch fields.
func (service *ListingService) Patch(ctx context.Context, identifier string, patch *domain.ListingPatch) (*domain.Listing, error) {
	ctx, span := service.tracer.Start(ctx, "ListingService.Patch")
	defer span.End()

	listing, err := service.Resolve(ctx, identifier)
	if err != nil {
		return nil, err
	}
	oldSlug := listing.Slug

	if patch.Name != nil && *patch.Name != listing.Name {
		if strings.TrimSpace(*patch.Name) == "" {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrInvalidArgument, apperrors.ListingNameRequiredError)
		}
		listing.Name = *patch.Name
		slug, err := service.uniqueSlug(ctx, listing.Name, oldSlug)
		if err != nil {
			return nil, err
		}
		listing.Slug = slug
	}
	if patch.Price != nil {
		if *patch.Price < 0 {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrInvalidArgument, apperrors.InvalidPriceError)
		}
		listing.Price = *patch.Price
	}
	if patch.Type != nil {
		if !patch.Type.Valid() {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrInvalidArgument, apperrors.InvalidListingTypeError)
		}
		listing.Type = *patch.Type
	}
	applyStringPatches(listing, patch)
	if patch.RoomTypes != nil {
		listing.RoomTypes = *patch.RoomTypes
	}
	if patch.Images != nil {
		listing.Images = *patch.Images
	}
	if patch.Gallery != nil {
		listing.Gallery = *patch.Gallery
	}
	if patch.Amenities != nil {
		listing.Amenities = *patch.Amenities
	}
	if patch.Published != nil {
		listing.Published = *patch.Published
	}
	if patch.Verified != nil {
		listing.Verified = *patch.Verified
	}
	if patch.Featured != nil {
		listing.Featured = *patch.Featured
	}
	if patch.Location != nil {
		listing.Location = *patch.Location
	}

	listing.UpdatedAt = time.Now()
	if err := service.store.Replace(ctx, listing); err != nil {
		span.SetStatus(codes.Error, "Listing update failed")
		return nil, err
	}

	service.dropCached(ctx, listing.ID.Hex(), oldSlug, listing.Slug)
	return listing, nil
}

func applyStringPatches(listing *domain.Listing, patch *domain.ListingPatch) {
	fields := []struct {
		src *string
		dst *string
	}{
		{patch.Description, &listing.Description},
		{patch.City, &listing.City},
		{patch.Locality, &listing.Locality},
		{patch.Address, &listing.Address},
		{patch.Distance, &listing.Distance},
		{patch.MapLink, &listing.MapLink},
		{patch.Availability, &listing.Availability},
		{patch.OwnerName, &listing.OwnerName},
		{patch.OwnerPhone, &listing.OwnerPhone},
		{patch.OwnerEmail, &listing.OwnerEmail},
		{patch.ContactEmail, &listing.ContactEmail},
		{patch.ContactPhone, &listing.ContactPhone},
	}
	for _, field := range fields {
		if field.src != nil {
			*field.dst = *field.src
		}
	}
}

// SetFlag flips one of the classification flags (published, featured,
// verified) on a listing.
func (service *ListingService) SetFlag(ctx context.Context, identifier string, flag string, value bool) (*domain.Listing, error) {
	ctx, span := service.tracer.Start(ctx, "ListingService.SetFlag")
	defer span.End()

	listing, err := service.Resolve(ctx, identifier)
	if err != nil {
		return nil, err
	}

	switch flag {
	case "published":
		listing.Published = value
	case "featured":
		listing.Featured = value
	case "verified":
		listing.Verified = value
	default:
		return nil, apperrors.ErrInvalidArgument
	}

	listing.UpdatedAt = time.Now()
	if err := service.store.Replace(ctx, listing); err != nil {
		span.SetStatus(codes.Error, "Listing flag update failed")
		return nil, err
	}

	service.dropCached(ctx, listing.ID.Hex(), listing.Slug)
	return listing, nil
}

func (service *ListingService) Delete(ctx context.Context, identifier string) error {
	ctx, span := service.tracer.Start(ctx, "ListingService.Delete")
	defer span.End()

	listing, err := service.Resolve(ctx, identifier)
	if err != nil {
		return err
	}

	if err := service.store.Delete(ctx, listing.ID); err != nil {
		span.SetStatus(codes.Error, "Listing delete failed")
		return err
	}

	service.dropCached(ctx, listing.ID.Hex(), listing.Slug)
	return nil
}

// uniqueSlug derives a slug from the name and suffixes -2, -3, ... on
// collision with another listing. keep allows a listing to retain its
// own slug across updates.
func (service *ListingService) uniqueSlug(ctx context.Context, name string, keep string) (string, error) {
	base := domain.Slugify(name)
	if base == "" {
		base = "listing"
	}

	slug := base
	for suffix := 2; ; suffix++ {
		if slug == keep {
			return slug, nil
		}
		exists, err := service.store.SlugExists(ctx, slug)
		if err != nil {
			return "", err
		}
		if !exists {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, suffix)
	}
}

func (service *ListingService) cacheResolved(ctx context.Context, listing *domain.Listing) {
	if err := service.cache.Post(ctx, listing.ID.Hex(), listing); err != nil {
		service.logger.Warnf("cache listing by id: %s", err)
	}
	if listing.Slug == "" {
		return
	}
	if err := service.cache.Post(ctx, listing.Slug, listing); err != nil {
		service.logger.Warnf("cache listing by slug: %s", err)
	}
}

func (service *ListingService) dropCached(ctx context.Context, keys ...string) {
	for _, key := range keys {
		if key == "" {
			continue
		}
		if err := service.cache.Del(ctx, key); err != nil {
			service.logger.Warnf("drop cached listing %s: %s", key, err)
		}
	}
}
