// Copyright (c) 2026 Wanderlust. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package review manages guest reviews of listings.

Reviews live under a listing (/listings/{id}/reviews). Any logged-in member may
post one, and only its author may delete it.
*/
package review

import (
	"context"
	"time"
)

// # Domain Entities

// Review is a rating and comment left on a listing.
type Review struct {
	ID             string
	ListingID      string
	AuthorID       string
	AuthorUsername string
	Rating         int
	Comment        string
	CreatedAt      time.Time
}

// # Repository Contracts

// Repository defines the persistence contract for reviews.
type Repository interface {
	// ListByListing returns the reviews of a listing with their authors, newest first.
	ListByListing(ctx context.Context, listingID string) ([]Review, error)

	/*
		FindByID retrieves a single review.

		Returns:
		  - error: apperr.NotFound if absent
	*/
	FindByID(ctx context.Context, id string) (*Review, error)

	// Create inserts a new review.
	Create(ctx context.Context, review *Review) error

	// Delete removes a review.
	Delete(ctx context.Context, id string) error
}

// ListingChecker confirms that a listing exists before a review is attached.
type ListingChecker interface {
	Exists(ctx context.Context, listingID string) error
}

// # Messages

const (
	MessageCreated = "New review created!"
	MessageDeleted = "Review deleted!"
)
