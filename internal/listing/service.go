// Copyright (c) 2026 Wanderlust. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package listing

import (
	"context"
	"log/slog"
	"mime/multipart"

	"github.com/taibuivan/wanderlust/internal/platform/apperr"
	"github.com/taibuivan/wanderlust/internal/platform/ctxutil"
	"github.com/taibuivan/wanderlust/internal/review"
	"github.com/taibuivan/wanderlust/internal/upload"
	"github.com/taibuivan/wanderlust/pkg/pagination"
	"github.com/taibuivan/wanderlust/pkg/uuid"
)

// ReviewLister loads the reviews shown on a listing page.
type ReviewLister interface {
	ListByListing(ctx context.Context, listingID string) ([]review.Review, error)
}

// Upload is an image file sent with a listing form.
type Upload struct {
	File   multipart.File
	Header *multipart.FileHeader
}

// Service implements listing use cases.
type Service struct {
	listings Repository
	reviews  ReviewLister
	images   upload.Store
}

// NewService constructs a new [Service].
func NewService(listings Repository, reviews ReviewLister, images upload.Store) *Service {
	return &Service{listings: listings, reviews: reviews, images: images}
}

// # Read Flow

/*
List returns one page of the index.

Returns:
  - []Listing: the page
  - pagination.Meta: page numbers for the pager
*/
func (service *Service) List(ctx context.Context, filter Filter, page pagination.Params) ([]Listing, pagination.Meta, error) {
	listings, total, err := service.listings.List(ctx, filter, page)
	if err != nil {
		return nil, pagination.Meta{}, err
	}
	return listings, pagination.NewMeta(page, total), nil
}

/*
Get loads a listing with its owner and reviews.

Returns:
  - error: apperr.NotFound for unknown or malformed ids
*/
func (service *Service) Get(ctx context.Context, id string) (*Listing, []review.Review, error) {
	listing, err := service.Find(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	reviews, err := service.reviews.ListByListing(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return listing, reviews, nil
}

// Find loads a listing without its reviews.
func (service *Service) Find(ctx context.Context, id string) (*Listing, error) {
	if !uuid.Valid(id) {
		return nil, apperr.NotFound("Listing")
	}
	return service.listings.FindByID(ctx, id)
}

// OwnerOf returns the owner id used by the ownership guard. It always reads storage.
func (service *Service) OwnerOf(ctx context.Context, id string) (string, error) {
	if !uuid.Valid(id) {
		return "", apperr.NotFound("Listing")
	}
	return service.listings.OwnerOf(ctx, id)
}

// Exists reports apperr.NotFound when the listing is gone.
func (service *Service) Exists(ctx context.Context, id string) error {
	_, err := service.OwnerOf(ctx, id)
	return err
}

// # Write Flow

/*
Create stores the image and inserts a listing owned by ownerID.

An image is mandatory. If the insert fails the stored image is removed again.

Returns:
  - *Listing: Created entity
  - error: apperr.ValidationError with [MessageImageMissing] when image is nil
*/
func (service *Service) Create(ctx context.Context, ownerID string, input Input, image *Upload) (*Listing, error) {
	if image == nil {
		return nil, apperr.ValidationError(MessageImageMissing)
	}

	url, storageID, err := service.images.Save(ctx, image.File, image.Header)
	if err != nil {
		return nil, err
	}

	listing := &Listing{
		ID:      uuid.New(),
		OwnerID: ownerID,
		Image:   Image{URL: url, Filename: storageID},
	}
	input.apply(listing)

	if err := service.listings.Create(ctx, listing); err != nil {
		service.discardImage(ctx, storageID)
		return nil, err
	}

	ctxutil.GetLogger(ctx).InfoContext(ctx, "listing_created",
		slog.String("listing_id", listing.ID),
		slog.String("owner_id", ownerID),
	)
	return listing, nil
}

/*
Update overwrites a listing's fields.

The image is replaced by an uploaded file if one was sent, otherwise by
input.ImageURL if set, otherwise it is kept. A replaced stored file is removed
after the update succeeds.
*/
func (service *Service) Update(ctx context.Context, id string, input Input, image *Upload) (*Listing, error) {
	listing, err := service.Find(ctx, id)
	if err != nil {
		return nil, err
	}

	previous := listing.Image
	switch {
	case image != nil:
		url, storageID, err := service.images.Save(ctx, image.File, image.Header)
		if err != nil {
			return nil, err
		}
		listing.Image = Image{URL: url, Filename: storageID}
	case input.ImageURL != "":
		listing.Image = Image{URL: input.ImageURL}
	}
	input.apply(listing)

	if err := service.listings.Update(ctx, listing); err != nil {
		if listing.Image.Filename != previous.Filename {
			service.discardImage(ctx, listing.Image.Filename)
		}
		return nil, err
	}

	if listing.Image.Filename != previous.Filename {
		service.discardImage(ctx, previous.Filename)
	}

	ctxutil.GetLogger(ctx).InfoContext(ctx, "listing_updated", slog.String("listing_id", id))
	return listing, nil
}

// Delete removes a listing, its reviews and its stored image.
func (service *Service) Delete(ctx context.Context, id string) error {
	listing, err := service.Find(ctx, id)
	if err != nil {
		return err
	}

	if err := service.listings.Delete(ctx, id); err != nil {
		return err
	}
	service.discardImage(ctx, listing.Image.Filename)

	ctxutil.GetLogger(ctx).InfoContext(ctx, "listing_deleted", slog.String("listing_id", id))
	return nil
}

// discardImage removes a stored file. Failures only leave an orphan behind,
// so they are logged and not returned.
func (service *Service) discardImage(ctx context.Context, storageID string) {
	if storageID == "" {
		return
	}
	if err := service.images.Delete(ctx, storageID); err != nil {
		ctxutil.GetLogger(ctx).WarnContext(ctx, "listing_image_delete_failed",
			slog.String("storage_id", storageID),
			slog.Any("error", err),
		)
	}
}

// apply copies the editable fields onto listing.
func (input Input) apply(listing *Listing) {
	listing.Title = input.Title
	listing.Description = input.Description
	listing.Price = input.Price
	listing.Location = input.Location
	listing.Country = input.Country
	listing.Category = input.Category
}
