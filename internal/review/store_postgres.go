// Copyright (c) 2026 Wanderlust. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package review

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/wanderlust/internal/platform/database/schema"
	"github.com/taibuivan/wanderlust/internal/platform/dberr"
)

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new Postgres review repository.
func NewRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

var (
	tbl    = schema.CatalogReview
	author = schema.UserAccount
)

var selectReview = fmt.Sprintf(`
	SELECT r.%s, r.%s, COALESCE(r.%s::text, ''), COALESCE(u.%s, ''), r.%s, r.%s, r.%s
	FROM %s r
	LEFT JOIN %s u ON u.%s = r.%s`,
	tbl.ID, tbl.ListingID, tbl.AuthorID, author.Username, tbl.Rating, tbl.Comment, tbl.CreatedAt,
	tbl.Table,
	author.Table, author.ID, tbl.AuthorID,
)

type scanner interface {
	Scan(dest ...any) error
}

func scanReview(row scanner) (*Review, error) {
	review := &Review{}
	err := row.Scan(
		&review.ID,
		&review.ListingID,
		&review.AuthorID,
		&review.AuthorUsername,
		&review.Rating,
		&review.Comment,
		&review.CreatedAt,
	)
	return review, err
}

// ListByListing returns the reviews of one listing, newest first.
func (repository *PostgresRepository) ListByListing(ctx context.Context, listingID string) ([]Review, error) {
	query := selectReview + fmt.Sprintf(" WHERE r.%s = $1 ORDER BY r.%s DESC", tbl.ListingID, tbl.CreatedAt)

	rows, err := repository.pool.Query(ctx, query, listingID)
	if err != nil {
		return nil, dberr.Wrap(err, "Review", "postgres_review_list")
	}
	defer rows.Close()

	var reviews []Review
	for rows.Next() {
		review, err := scanReview(rows)
		if err != nil {
			return nil, dberr.Wrap(err, "Review", "postgres_review_scan")
		}
		reviews = append(reviews, *review)
	}
	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "Review", "postgres_review_list")
	}

	return reviews, nil
}

// FindByID retrieves a review by its id.
func (repository *PostgresRepository) FindByID(ctx context.Context, id string) (*Review, error) {
	query := selectReview + fmt.Sprintf(" WHERE r.%s = $1", tbl.ID)

	review, err := scanReview(repository.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "Review", "postgres_review_find")
	}
	return review, nil
}

// Create inserts a review and fills its timestamp.
func (repository *PostgresRepository) Create(ctx context.Context, review *Review) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING %s`,
		tbl.Table,
		tbl.ID, tbl.ListingID, tbl.AuthorID, tbl.Rating, tbl.Comment,
		tbl.CreatedAt,
	)

	err := repository.pool.QueryRow(ctx, query,
		review.ID, review.ListingID, review.AuthorID, review.Rating, review.Comment,
	).Scan(&review.CreatedAt)

	return dberr.Wrap(err, "Review", "postgres_review_create")
}

// Delete removes a review.
func (repository *PostgresRepository) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE %s = $1", tbl.Table, tbl.ID)

	tag, err := repository.pool.Exec(ctx, query, id)
	if err != nil {
		return dberr.Wrap(err, "Review", "postgres_review_delete")
	}
	if tag.RowsAffected() == 0 {
		return dberr.Wrap(pgx.ErrNoRows, "Review", "postgres_review_delete")
	}
	return nil
}
