// Copyright (c) 2026 Wanderlust. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package listing manages the rental listings shown on Wanderlust.

Anyone may browse listings. Creating one requires a login, and only its owner
may edit or delete it. Those rules are enforced by the route guards; this
package supplies the owner lookup they call on every request.

# Architecture

  - Entities: Listing, Image, Filter.
  - Service: listing use cases, image storage and cascade cleanup.
  - Delivery: the /listings pages.
*/
package listing

import (
	"context"
	"time"

	"github.com/taibuivan/wanderlust/pkg/pagination"
)

// # Domain Entities

// Image points at a stored listing photo.
type Image struct {
	URL      string
	Filename string
}

// Listing is a place offered for rent.
type Listing struct {
	ID            string
	Title         string
	Description   string
	Image         Image
	Price         int
	Location      string
	Country       string
	Category      string
	OwnerID       string
	OwnerUsername string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Filter narrows the index page.
type Filter struct {
	// Search matches title, location, country or category, ignoring case.
	Search string
	// Category matches the category exactly.
	Category string
}

// IsEmpty reports whether the filter matches everything.
func (f Filter) IsEmpty() bool { return f.Search == "" && f.Category == "" }

// # Categories

// CategoryOther lets the owner type their own category.
const CategoryOther = "Other"

// Categories is the fixed set offered by the listing form.
var Categories = []string{
	"Trending",
	"Rooms",
	"Iconic Cities",
	"Mountains",
	"Castles",
	"Amazing Pools",
	"Camping",
	"Farms",
	"Arctic",
	"Domes",
	"Boats",
	CategoryOther,
}

// # Repository Contracts

// Repository defines the persistence contract for listings.
type Repository interface {
	/*
		List returns one page of listings matching filter, newest first, and
		the total number of matches.
	*/
	List(ctx context.Context, filter Filter, page pagination.Params) ([]Listing, int, error)

	/*
		FindByID retrieves a listing with its owner's username.

		Returns:
		  - error: apperr.NotFound if absent
	*/
	FindByID(ctx context.Context, id string) (*Listing, error)

	/*
		OwnerOf returns the owner id of a listing, or "" if it has none.

		Returns:
		  - error: apperr.NotFound if absent
	*/
	OwnerOf(ctx context.Context, id string) (string, error)

	// Create inserts a new listing.
	Create(ctx context.Context, listing *Listing) error

	// Update overwrites the mutable fields of a listing.
	Update(ctx context.Context, listing *Listing) error

	// Delete removes a listing. Its reviews are removed by the database.
	Delete(ctx context.Context, id string) error
}

// # Messages

const (
	MessageNotFound     = "Listing not found"
	MessageNoResults    = "No listings found for your search or category."
	MessageImageMissing = "Image upload failed"
	MessageCreated      = "Successfully created a new listing!"
	MessageUpdated      = "Successfully updated the listing!"
	MessageDeleted      = "Successfully deleted the listing!"
)
