// Copyright (c) 2026 Wanderlust. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package listing

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/wanderlust/internal/platform/database/schema"
	"github.com/taibuivan/wanderlust/internal/platform/dberr"
	"github.com/taibuivan/wanderlust/pkg/pagination"
)

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new Postgres listing repository.
func NewRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

var (
	tbl   = schema.CatalogListing
	owner = schema.UserAccount
)

// selectListing joins the owner's username. The join is LEFT so listings
// whose owner was deleted are still shown.
var selectListing = fmt.Sprintf(`
	SELECT l.%s, l.%s, l.%s, l.%s, l.%s, l.%s, l.%s, l.%s, l.%s,
	       COALESCE(l.%s::text, ''), COALESCE(u.%s, ''), l.%s, l.%s
	FROM %s l
	LEFT JOIN %s u ON u.%s = l.%s`,
	tbl.ID, tbl.Title, tbl.Description, tbl.ImageURL, tbl.ImageFilename, tbl.Price,
	tbl.Location, tbl.Country, tbl.Category,
	tbl.OwnerID, owner.Username, tbl.CreatedAt, tbl.UpdatedAt,
	tbl.Table,
	owner.Table, owner.ID, tbl.OwnerID,
)

type scanner interface {
	Scan(dest ...any) error
}

func scanListing(row scanner) (*Listing, error) {
	listing := &Listing{}
	err := row.Scan(
		&listing.ID,
		&listing.Title,
		&listing.Description,
		&listing.Image.URL,
		&listing.Image.Filename,
		&listing.Price,
		&listing.Location,
		&listing.Country,
		&listing.Category,
		&listing.OwnerID,
		&listing.OwnerUsername,
		&listing.CreatedAt,
		&listing.UpdatedAt,
	)
	return listing, err
}

// escapeLike neutralizes LIKE wildcards in user input.
func escapeLike(value string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(value)
}

// buildWhere renders the filter as a WHERE clause and its arguments.
func buildWhere(filter Filter) (string, []any) {
	var (
		clauses []string
		args    []any
	)

	if filter.Search != "" {
		args = append(args, "%"+escapeLike(filter.Search)+"%")
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf("(l.%s ILIKE %s OR l.%s ILIKE %s OR l.%s ILIKE %s OR l.%s ILIKE %s)",
			tbl.Title, placeholder, tbl.Location, placeholder,
			tbl.Country, placeholder, tbl.Category, placeholder,
		))
	}

	if filter.Category != "" {
		args = append(args, filter.Category)
		clauses = append(clauses, fmt.Sprintf("l.%s = $%d", tbl.Category, len(args)))
	}

	if len(clauses) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

// buildListQuery renders the page query and the matching count query.
func buildListQuery(filter Filter, page pagination.Params) (listQuery, countQuery string, args []any) {
	where, args := buildWhere(filter)

	countQuery = fmt.Sprintf("SELECT COUNT(*) FROM %s l%s", tbl.Table, where)

	listQuery = fmt.Sprintf("%s%s ORDER BY l.%s DESC LIMIT $%d OFFSET $%d",
		selectListing, where, tbl.CreatedAt, len(args)+1, len(args)+2,
	)

	return listQuery, countQuery, args
}

/*
List returns one page of listings that match filter.

Returns:
  - []Listing: the page, newest first
  - int: total matches across all pages
*/
func (repository *PostgresRepository) List(ctx context.Context, filter Filter, page pagination.Params) ([]Listing, int, error) {
	listQuery, countQuery, args := buildListQuery(filter, page)

	var total int
	if err := repository.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "Listing", "postgres_listing_count")
	}

	rows, err := repository.pool.Query(ctx, listQuery, append(args, page.Limit, page.Offset())...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "Listing", "postgres_listing_list")
	}
	defer rows.Close()

	listings := make([]Listing, 0, page.Limit)
	for rows.Next() {
		listing, err := scanListing(rows)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "Listing", "postgres_listing_scan")
		}
		listings = append(listings, *listing)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "Listing", "postgres_listing_list")
	}

	return listings, total, nil
}

// FindByID retrieves a listing and its owner's username.
func (repository *PostgresRepository) FindByID(ctx context.Context, id string) (*Listing, error) {
	query := selectListing + fmt.Sprintf(" WHERE l.%s = $1", tbl.ID)

	listing, err := scanListing(repository.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "Listing", "postgres_listing_find")
	}
	return listing, nil
}

// OwnerOf reads only the owner reference.
func (repository *PostgresRepository) OwnerOf(ctx context.Context, id string) (string, error) {
	query := fmt.Sprintf("SELECT COALESCE(%s::text, '') FROM %s WHERE %s = $1", tbl.OwnerID, tbl.Table, tbl.ID)

	var ownerID string
	if err := repository.pool.QueryRow(ctx, query, id).Scan(&ownerID); err != nil {
		return "", dberr.Wrap(err, "Listing", "postgres_listing_owner")
	}
	return ownerID, nil
}

// Create inserts a listing and fills its timestamps.
func (repository *PostgresRepository) Create(ctx context.Context, listing *Listing) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING %s, %s`,
		tbl.Table,
		tbl.ID, tbl.Title, tbl.Description, tbl.ImageURL, tbl.ImageFilename,
		tbl.Price, tbl.Location, tbl.Country, tbl.Category, tbl.OwnerID,
		tbl.CreatedAt, tbl.UpdatedAt,
	)

	err := repository.pool.QueryRow(ctx, query,
		listing.ID, listing.Title, listing.Description, listing.Image.URL, listing.Image.Filename,
		listing.Price, listing.Location, listing.Country, listing.Category, listing.OwnerID,
	).Scan(&listing.CreatedAt, &listing.UpdatedAt)

	return dberr.Wrap(err, "Listing", "postgres_listing_create")
}

// Update overwrites the editable fields. The owner never changes.
func (repository *PostgresRepository) Update(ctx context.Context, listing *Listing) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = $4, %s = $5, %s = $6, %s = $7, %s = $8, %s = $9, %s = NOW()
		WHERE %s = $1
		RETURNING %s`,
		tbl.Table,
		tbl.Title, tbl.Description, tbl.ImageURL, tbl.ImageFilename,
		tbl.Price, tbl.Location, tbl.Country, tbl.Category, tbl.UpdatedAt,
		tbl.ID,
		tbl.UpdatedAt,
	)

	err := repository.pool.QueryRow(ctx, query,
		listing.ID, listing.Title, listing.Description, listing.Image.URL, listing.Image.Filename,
		listing.Price, listing.Location, listing.Country, listing.Category,
	).Scan(&listing.UpdatedAt)

	return dberr.Wrap(err, "Listing", "postgres_listing_update")
}

// Delete removes a listing. Reviews go with it through ON DELETE CASCADE.
func (repository *PostgresRepository) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE %s = $1", tbl.Table, tbl.ID)

	tag, err := repository.pool.Exec(ctx, query, id)
	if err != nil {
		return dberr.Wrap(err, "Listing", "postgres_listing_delete")
	}
	if tag.RowsAffected() == 0 {
		return dberr.Wrap(pgx.ErrNoRows, "Listing", "postgres_listing_delete")
	}
	return nil
}
