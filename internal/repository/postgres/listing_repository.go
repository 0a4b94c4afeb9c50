package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/gdugdh24/transitia-backend/internal/domain"
	"github.com/gdugdh24/transitia-backend/internal/repository"
	"github.com/jmoiron/sqlx"
)

const listingColumns = `id, owner_id, role, region, city, duration, budget,
	has_children, vibe, title, description, created_at`

type listingRepository struct {
	db *sqlx.DB
}

func NewListingRepository(db *sqlx.DB) repository.ListingRepository {
	return &listingRepository{db: db}
}

func (r *listingRepository) Create(ctx context.Context, listing *domain.Listing) error {
	query := `
		INSERT INTO listings (
			owner_id, role, region, city, duration, budget,
			has_children, vibe, title, description
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at
	`
	return r.db.QueryRowContext(
		ctx, query,
		listing.OwnerID, listing.Role, listing.Region, listing.City, listing.Duration,
		listing.Budget, listing.HasChildren, listing.Vibe, listing.Title, listing.Description,
	).Scan(&listing.ID, &listing.CreatedAt)
}

func (r *listingRepository) GetByID(ctx context.Context, id int64) (*domain.Listing, error) {
	var listing domain.Listing
	query := `SELECT ` + listingColumns + ` FROM listings WHERE id = $1`
	err := r.db.GetContext(ctx, &listing, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrListingNotFound
		}
		return nil, err
	}
	return &listing, nil
}

func (r *listingRepository) List(ctx context.Context, filter domain.ListingFilter) ([]*domain.Listing, error) {
	listings := []*domain.Listing{}

	query := `SELECT ` + listingColumns + ` FROM listings WHERE 1=1`
	args := []interface{}{}
	argCount := 1

	if filter.Region != "" {
		query += fmt.Sprintf(" AND region = $%d", argCount)
		args = append(args, filter.Region)
		argCount++
	}

	if filter.City != "" {
		query += fmt.Sprintf(" AND city = $%d", argCount)
		args = append(args, filter.City)
		argCount++
	}

	if filter.Role != "" {
		query += fmt.Sprintf(" AND role = $%d", argCount)
		args = append(args, filter.Role)
		argCount++
	}

	query += fmt.Sprintf(" ORDER BY created_at DESC, id DESC LIMIT $%d", argCount)
	args = append(args, filter.Limit)

	err := r.db.SelectContext(ctx, &listings, query, args...)
	return listings, err
}
