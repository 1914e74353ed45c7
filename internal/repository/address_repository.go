package repository

import (
	"context"
	"fmt"

	"shopkart/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// addressRepository implements the AddressRepository interface using PostgreSQL.
type addressRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewAddressRepository creates a new PostgreSQL-backed address repository.
func NewAddressRepository(pool *pgxpool.Pool, logger zerolog.Logger) AddressRepository {
	return &addressRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "address").Logger(),
	}
}

// GetByID retrieves an address by its ID.
func (r *addressRepository) GetByID(ctx context.Context, id int64) (*model.Address, error) {
	var a model.Address
	err := r.pool.QueryRow(ctx, `
		SELECT id, street, building, city, state, country, pincode
		FROM addresses
		WHERE id = $1
	`, id).Scan(&a.ID, &a.Street, &a.Building, &a.City, &a.State, &a.Country, &a.Pincode)
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Int64("address_id", id).Msg("address not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Int64("address_id", id).Msg("failed to query address")
		return nil, fmt.Errorf("failed to query address: %w", err)
	}

	return &a, nil
}

// Create inserts a new address and fills in its generated ID.
func (r *addressRepository) Create(ctx context.Context, a *model.Address) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO addresses (street, building, city, state, country, pincode)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`, a.Street, a.Building, a.City, a.State, a.Country, a.Pincode).Scan(&a.ID)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to create address")
		return fmt.Errorf("failed to create address: %w", err)
	}

	return nil
}
