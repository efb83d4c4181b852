// Copyright (c) 2026 Wanderlust. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package review

import (
	"context"
	"log/slog"

	"github.com/taibuivan/wanderlust/internal/platform/apperr"
	"github.com/taibuivan/wanderlust/internal/platform/ctxutil"
	"github.com/taibuivan/wanderlust/pkg/uuid"
)

// Service implements review use cases.
type Service struct {
	reviews  Repository
	listings ListingChecker
}

// NewService constructs a new [Service].
func NewService(reviews Repository, listings ListingChecker) *Service {
	return &Service{reviews: reviews, listings: listings}
}

// ListByListing returns the reviews shown on a listing page.
func (service *Service) ListByListing(ctx context.Context, listingID string) ([]Review, error) {
	return service.reviews.ListByListing(ctx, listingID)
}

/*
Create attaches a new review to a listing.

Returns:
  - *Review: Created entity
  - error: apperr.NotFound if the listing does not exist
*/
func (service *Service) Create(ctx context.Context, listingID, authorID string, input Input) (*Review, error) {
	if err := service.listings.Exists(ctx, listingID); err != nil {
		return nil, err
	}

	review := &Review{
		ID:        uuid.New(),
		ListingID: listingID,
		AuthorID:  authorID,
		Rating:    input.Rating,
		Comment:   input.Comment,
	}

	if err := service.reviews.Create(ctx, review); err != nil {
		return nil, err
	}

	ctxutil.GetLogger(ctx).InfoContext(ctx, "review_created",
		slog.String("review_id", review.ID),
		slog.String("listing_id", listingID),
	)
	return review, nil
}

/*
AuthorOf returns the author id of a review under the given listing.

A review addressed through a listing it does not belong to is reported as not
found, so a valid review id cannot be deleted through somebody else's listing.
*/
func (service *Service) AuthorOf(ctx context.Context, listingID, reviewID string) (string, error) {
	if !uuid.Valid(reviewID) {
		return "", apperr.NotFound("Review")
	}

	review, err := service.reviews.FindByID(ctx, reviewID)
	if err != nil {
		return "", err
	}
	if review.ListingID != listingID {
		return "", apperr.NotFound("Review")
	}
	return review.AuthorID, nil
}

// Delete removes a review.
func (service *Service) Delete(ctx context.Context, reviewID string) error {
	if err := service.reviews.Delete(ctx, reviewID); err != nil {
		return err
	}

	ctxutil.GetLogger(ctx).InfoContext(ctx, "review_deleted", slog.String("review_id", reviewID))
	return nil
}
