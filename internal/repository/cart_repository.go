package repository

import (
	"context"
	"fmt"

	"shopkart/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

const cartColumns = `id, user_id, email, total_price, created_at, updated_at`

// cartRepository implements the CartRepository interface using PostgreSQL.
type cartRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewCartRepository creates a new PostgreSQL-backed cart repository.
func NewCartRepository(pool *pgxpool.Pool, logger zerolog.Logger) CartRepository {
	return &cartRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "cart").Logger(),
	}
}

// BeginTx starts a new database transaction.
func (r *cartRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return tx, nil
}

func scanCart(row pgx.Row, c *model.Cart) error {
	return row.Scan(&c.ID, &c.UserID, &c.Email, &c.TotalPrice, &c.CreatedAt, &c.UpdatedAt)
}

func (r *cartRepository) getCart(ctx context.Context, query string, arg any) (*model.Cart, error) {
	var c model.Cart
	err := scanCart(r.pool.QueryRow(ctx, query, arg), &c)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		r.logger.Error().Err(err).Msg("failed to query cart")
		return nil, fmt.Errorf("failed to query cart: %w", err)
	}
	return &c, nil
}

// GetByUserID retrieves a user's cart.
func (r *cartRepository) GetByUserID(ctx context.Context, userID int64) (*model.Cart, error) {
	return r.getCart(ctx, `SELECT `+cartColumns+` FROM carts WHERE user_id = $1`, userID)
}

// GetByEmail retrieves a cart by its owner's email.
func (r *cartRepository) GetByEmail(ctx context.Context, email string) (*model.Cart, error) {
	return r.getCart(ctx, `SELECT `+cartColumns+` FROM carts WHERE email = $1`, email)
}

// GetByID retrieves a cart by ID.
func (r *cartRepository) GetByID(ctx context.Context, id int64) (*model.Cart, error) {
	return r.getCart(ctx, `SELECT `+cartColumns+` FROM carts WHERE id = $1`, id)
}

// Create lazily creates the user's cart with a zero total. The unique user_id
// index makes concurrent first-adds converge on one row.
func (r *cartRepository) Create(ctx context.Context, cart *model.Cart) error {
	query := `
		INSERT INTO carts (user_id, email)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE SET email = EXCLUDED.email
		RETURNING ` + cartColumns

	if err := scanCart(r.pool.QueryRow(ctx, query, cart.UserID, cart.Email), cart); err != nil {
		r.logger.Error().Err(err).Int64("user_id", cart.UserID).Msg("failed to create cart")
		return fmt.Errorf("failed to create cart: %w", err)
	}

	r.logger.Debug().Int64("cart_id", cart.ID).Int64("user_id", cart.UserID).Msg("cart resolved")

	return nil
}

// Lock locks the cart row for the duration of the transaction.
func (r *cartRepository) Lock(ctx context.Context, tx pgx.Tx, cartID int64) (*model.Cart, error) {
	var c model.Cart
	err := scanCart(tx.QueryRow(ctx, `SELECT `+cartColumns+` FROM carts WHERE id = $1 FOR UPDATE`, cartID), &c)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		r.logger.Error().Err(err).Int64("cart_id", cartID).Msg("failed to lock cart")
		return nil, fmt.Errorf("failed to lock cart: %w", err)
	}
	return &c, nil
}

const cartItemColumns = `id, cart_id, product_id, quantity, product_price, discount`

func collectCartItems(rows pgx.Rows) ([]model.CartItem, error) {
	defer rows.Close()

	var items []model.CartItem
	for rows.Next() {
		var item model.CartItem
		if err := rows.Scan(&item.ID, &item.CartID, &item.ProductID, &item.Quantity, &item.ProductPrice, &item.Discount); err != nil {
			return nil, fmt.Errorf("failed to scan cart item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cart items: %w", err)
	}

	return items, nil
}

// GetItems retrieves all lines of a cart.
func (r *cartRepository) GetItems(ctx context.Context, cartID int64) ([]model.CartItem, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+cartItemColumns+` FROM cart_items WHERE cart_id = $1 ORDER BY id`, cartID)
	if err != nil {
		r.logger.Error().Err(err).Int64("cart_id", cartID).Msg("failed to query cart items")
		return nil, fmt.Errorf("failed to query cart items: %w", err)
	}

	return collectCartItems(rows)
}

// GetItemsTx retrieves all lines of a cart within the transaction.
func (r *cartRepository) GetItemsTx(ctx context.Context, tx pgx.Tx, cartID int64) ([]model.CartItem, error) {
	rows, err := tx.Query(ctx, `SELECT `+cartItemColumns+` FROM cart_items WHERE cart_id = $1 ORDER BY id`, cartID)
	if err != nil {
		r.logger.Error().Err(err).Int64("cart_id", cartID).Msg("failed to query cart items")
		return nil, fmt.Errorf("failed to query cart items: %w", err)
	}

	return collectCartItems(rows)
}

// GetItemTx retrieves the cart's line for one product within the transaction.
func (r *cartRepository) GetItemTx(ctx context.Context, tx pgx.Tx, cartID, productID int64) (*model.CartItem, error) {
	var item model.CartItem
	err := tx.QueryRow(ctx,
		`SELECT `+cartItemColumns+` FROM cart_items WHERE cart_id = $1 AND product_id = $2`,
		cartID, productID,
	).Scan(&item.ID, &item.CartID, &item.ProductID, &item.Quantity, &item.ProductPrice, &item.Discount)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		r.logger.Error().Err(err).Int64("cart_id", cartID).Int64("product_id", productID).Msg("failed to query cart item")
		return nil, fmt.Errorf("failed to query cart item: %w", err)
	}

	return &item, nil
}

// InsertItem inserts a new line within the transaction.
func (r *cartRepository) InsertItem(ctx context.Context, tx pgx.Tx, item *model.CartItem) error {
	query := `
		INSERT INTO cart_items (cart_id, product_id, quantity, product_price, discount)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	err := tx.QueryRow(ctx, query,
		item.CartID, item.ProductID, item.Quantity, item.ProductPrice, item.Discount,
	).Scan(&item.ID)
	if err != nil {
		r.logger.Error().Err(err).
			Int64("cart_id", item.CartID).
			Int64("product_id", item.ProductID).
			Msg("failed to insert cart item")
		return fmt.Errorf("failed to insert cart item: %w", err)
	}

	return nil
}

// UpdateItem rewrites a line's quantity and price/discount snapshot within the transaction.
func (r *cartRepository) UpdateItem(ctx context.Context, tx pgx.Tx, item *model.CartItem) error {
	query := `
		UPDATE cart_items
		SET quantity = $2, product_price = $3, discount = $4
		WHERE id = $1
	`

	tag, err := tx.Exec(ctx, query, item.ID, item.Quantity, item.ProductPrice, item.Discount)
	if err != nil {
		r.logger.Error().Err(err).Int64("cart_item_id", item.ID).Msg("failed to update cart item")
		return fmt.Errorf("failed to update cart item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("cart item %d does not exist", item.ID)
	}

	return nil
}

// DeleteItem removes the cart's line for one product within the transaction.
func (r *cartRepository) DeleteItem(ctx context.Context, tx pgx.Tx, cartID, productID int64) (bool, error) {
	tag, err := tx.Exec(ctx,
		`DELETE FROM cart_items WHERE cart_id = $1 AND product_id = $2`, cartID, productID)
	if err != nil {
		r.logger.Error().Err(err).Int64("cart_id", cartID).Int64("product_id", productID).Msg("failed to delete cart item")
		return false, fmt.Errorf("failed to delete cart item: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// RecomputeTotal rewrites the cart's total from its current lines within the
// transaction. Summing the lines instead of adjusting by deltas keeps the
// total immune to drift.
func (r *cartRepository) RecomputeTotal(ctx context.Context, tx pgx.Tx, cartID int64) (float64, error) {
	query := `
		UPDATE carts
		SET total_price = COALESCE((
		        SELECT SUM(product_price * quantity)
		        FROM cart_items
		        WHERE cart_id = carts.id
		    ), 0),
		    updated_at = NOW()
		WHERE id = $1
		RETURNING total_price
	`

	var total float64
	if err := tx.QueryRow(ctx, query, cartID).Scan(&total); err != nil {
		r.logger.Error().Err(err).Int64("cart_id", cartID).Msg("failed to recompute cart total")
		return 0, fmt.Errorf("failed to recompute cart total: %w", err)
	}

	return total, nil
}

// FindCartIDsByProduct returns the IDs of all carts currently holding the product.
func (r *cartRepository) FindCartIDsByProduct(ctx context.Context, productID int64) ([]int64, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT DISTINCT cart_id FROM cart_items WHERE product_id = $1 ORDER BY cart_id`, productID)
	if err != nil {
		r.logger.Error().Err(err).Int64("product_id", productID).Msg("failed to query carts by product")
		return nil, fmt.Errorf("failed to query carts by product: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan cart id: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cart ids: %w", err)
	}

	return ids, nil
}

// GetAll retrieves every cart.
func (r *cartRepository) GetAll(ctx context.Context) ([]model.Cart, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+cartColumns+` FROM carts ORDER BY id`)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query carts")
		return nil, fmt.Errorf("failed to query carts: %w", err)
	}
	defer rows.Close()

	var carts []model.Cart
	for rows.Next() {
		var c model.Cart
		if err := rows.Scan(&c.ID, &c.UserID, &c.Email, &c.TotalPrice, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan cart: %w", err)
		}
		carts = append(carts, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating carts: %w", err)
	}

	return carts, nil
}
