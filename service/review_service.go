package application

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/isinghranjeet/eassy-to-rent-backend/domain"
	apperrors "github.com/isinghranjeet/eassy-to-rent-backend/errors"
)

type ReviewService struct {
	reviews  domain.ReviewStore
	listings domain.ListingStore
	cache    domain.ListingCache
	tracer   trace.Tracer
	logger   *logrus.Logger
}

func NewReviewService(reviews domain.ReviewStore, listings domain.ListingStore, cache domain.ListingCache, tracer trace.Tracer, logger *logrus.Logger) *ReviewService {
	return &ReviewService{
		reviews:  reviews,
		listings: listings,
		cache:    cache,
		tracer:   tracer,
		logger:   logger,
	}
}

func (service *ReviewService) GetByListing(ctx context.Context, listingID string) ([]*domain.Review, error) {
	ctx, span := service.tracer.Start(ctx, "ReviewService.GetByListing")
	defer span.End()

	id, err := primitive.ObjectIDFromHex(listingID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrInvalidArgument, apperrors.InvalidListingIdentifierError)
	}
	return service.reviews.GetByListing(ctx, id)
}

func (service *ReviewService) Create(ctx context.Context, requester domain.Principal, listingID string, rating int, title, comment string) (*domain.Review, error) {
	ctx, span := service.tracer.Start(ctx, "ReviewService.Create")
	defer span.End()

	id, err := primitive.ObjectIDFromHex(listingID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrInvalidArgument, apperrors.InvalidListingIdentifierError)
	}
	if rating < 1 || rating > 5 {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrInvalidArgument, apperrors.InvalidRatingError)
	}

	if _, err := service.listings.Get(ctx, id); err != nil {
		return nil, err
	}

	// One review per (user, listing). The duplicate must be rejected
	// before any aggregation runs.
	existing, err := service.reviews.GetByUserAndListing(ctx, requester.Username, id)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrConflict, apperrors.DuplicateReviewError)
	}

	now := time.Now()
	review := &domain.Review{
		PgListing: id,
		User:      requester.Username,
		Rating:    rating,
		Title:     title,
		Comment:   comment,
		CreatedAt: now,
		UpdatedAt: now,
	}
	review, err = service.reviews.Insert(ctx, review)
	if err != nil {
		span.SetStatus(codes.Error, "Review insert failed")
		return nil, err
	}

	service.recomputeRating(ctx, id)
	return review, nil
}

func (service *ReviewService) Update(ctx context.Context, requester domain.Principal, reviewID string, rating int, title, comment string) (*domain.Review, error) {
	ctx, span := service.tracer.Start(ctx, "ReviewService.Update")
	defer span.End()

	review, err := service.getOwn(ctx, requester, reviewID, false)
	if err != nil {
		return nil, err
	}
	if rating < 1 || rating > 5 {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrInvalidArgument, apperrors.InvalidRatingError)
	}

	review.Rating = rating
	review.Title = title
	review.Comment = comment
	review.UpdatedAt = time.Now()

	if err := service.reviews.Replace(ctx, review); err != nil {
		span.SetStatus(codes.Error, "Review update failed")
		return nil, err
	}

	service.recomputeRating(ctx, review.PgListing)
	return review, nil
}

func (service *ReviewService) Delete(ctx context.Context, requester domain.Principal, reviewID string) error {
	ctx, span := service.tracer.Start(ctx, "ReviewService.Delete")
	defer span.End()

	review, err := service.getOwn(ctx, requester, reviewID, true)
	if err != nil {
		return err
	}

	if err := service.reviews.Delete(ctx, review.ID); err != nil {
		span.SetStatus(codes.Error, "Review delete failed")
		return err
	}

	service.recomputeRating(ctx, review.PgListing)
	return nil
}

// Reply appends an owner/admin reply to a review. Only the listing
// owner and admins may reply.
func (service *ReviewService) Reply(ctx context.Context, requester domain.Principal, reviewID string, text string) (*domain.Review, error) {
	ctx, span := service.tracer.Start(ctx, "ReviewService.Reply")
	defer span.End()

	if strings.TrimSpace(text) == "" {
		return nil, apperrors.ErrInvalidArgument
	}

	id, err := primitive.ObjectIDFromHex(reviewID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrInvalidArgument, apperrors.ReviewNotFoundError)
	}
	review, err := service.reviews.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if !requester.IsAdmin() {
		listing, err := service.listings.Get(ctx, review.PgListing)
		if err != nil {
			return nil, err
		}
		if listing.OwnerId != requester.UserID {
			return nil, apperrors.ErrForbidden
		}
	}

	reply := domain.Reply{
		Author:    requester.Username,
		Text:      text,
		CreatedAt: time.Now(),
	}
	if err := service.reviews.AddReply(ctx, id, reply); err != nil {
		span.SetStatus(codes.Error, "Review reply failed")
		return nil, err
	}

	review.Replies = append(review.Replies, reply)
	return review, nil
}

func (service *ReviewService) getOwn(ctx context.Context, requester domain.Principal, reviewID string, adminMayAct bool) (*domain.Review, error) {
	id, err := primitive.ObjectIDFromHex(reviewID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrInvalidArgument, apperrors.ReviewNotFoundError)
	}
	review, err := service.reviews.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if review.User != requester.Username && !(adminMayAct && requester.IsAdmin()) {
		return nil, apperrors.ErrForbidden
	}
	return review, nil
}

// recomputeRating rebuilds the listing's derived rating and review
// count from the full review set. A failure here leaves the cached
// values stale until the next successful review mutation, which is
// accepted; the review mutation itself has already succeeded.
func (service *ReviewService) recomputeRating(ctx context.Context, listing primitive.ObjectID) {
	average, count, err := service.reviews.AggregateForListing(ctx, listing)
	if err != nil {
		service.logger.Errorf("aggregate ratings for %s: %s", listing.Hex(), err)
		return
	}

	rating := 0.0
	if count > 0 {
		rating = math.Round(average*10) / 10
	}

	if err := service.listings.SetRating(ctx, listing, rating, count); err != nil {
		service.logger.Errorf("write rating for %s: %s", listing.Hex(), err)
		return
	}

	// Cached copies now carry a stale rating.
	if err := service.cache.Del(ctx, listing.Hex()); err != nil {
		service.logger.Warnf("drop cached listing %s: %s", listing.Hex(), err)
	}
}
