package service

import (
	"context"
	"fmt"

	"shopkart/internal/auth"
	"shopkart/internal/model"
	"shopkart/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// cartService implements CartService.
type cartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	logger      zerolog.Logger
}

// NewCartService creates a new cart service.
func NewCartService(
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
	logger zerolog.Logger,
) CartService {
	return &cartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		logger:      logger.With().Str("service", "cart").Logger(),
	}
}

// AddToCart adds a new line for the product to the caller's cart.
func (s *cartService) AddToCart(ctx context.Context, p auth.Principal, productID int64, quantity int) (*model.CartResponse, error) {
	if quantity <= 0 {
		return nil, model.NewInvalidState(model.ErrCodeInvalidQuantity, "Quantity must be greater than zero.")
	}

	// Lazily resolve the caller's cart.
	cart := &model.Cart{UserID: p.UserID, Email: p.Email}
	if err := s.cartRepo.Create(ctx, cart); err != nil {
		return nil, fmt.Errorf("failed to resolve cart: %w", err)
	}

	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to load product: %w", err)
	}
	if product == nil {
		s.logger.Warn().Int64("product_id", productID).Msg("product not found")
		return nil, model.NewNotFound(model.ErrCodeProductNotFound, "Product with productId %d not found.", productID)
	}

	tx, err := s.cartRepo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to add to cart: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	locked, err := s.cartRepo.Lock(ctx, tx, cart.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to add to cart: %w", err)
	}
	if locked == nil {
		err = model.NewNotFound(model.ErrCodeCartNotFound, "Cart not found with id %d", cart.ID)
		return nil, err
	}

	existing, err := s.cartRepo.GetItemTx(ctx, tx, cart.ID, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to add to cart: %w", err)
	}
	if existing != nil {
		s.logger.Warn().
			Int64("cart_id", cart.ID).
			Int64("product_id", productID).
			Msg("product already in cart")
		err = model.NewConflict(model.ErrCodeProductInCart, "Product %s already exists in the cart.", product.Name)
		return nil, err
	}

	if product.Quantity == 0 {
		err = model.NewInvalidState(model.ErrCodeOutOfStock, "Product %s has no quantity.", product.Name)
		return nil, err
	}
	if product.Quantity < quantity {
		err = model.NewInvalidState(model.ErrCodeInsufficientStock, "Product %s has no enough quantity.", product.Name)
		return nil, err
	}

	// Snapshot the product's current special price and discount into the line.
	item := &model.CartItem{
		CartID:       cart.ID,
		ProductID:    productID,
		Quantity:     quantity,
		ProductPrice: product.SpecialPrice,
		Discount:     product.Discount,
	}
	if err = s.cartRepo.InsertItem(ctx, tx, item); err != nil {
		return nil, fmt.Errorf("failed to add to cart: %w", err)
	}

	total, err := s.cartRepo.RecomputeTotal(ctx, tx, cart.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to add to cart: %w", err)
	}

	items, err := s.cartRepo.GetItemsTx(ctx, tx, cart.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to add to cart: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to add to cart: %w", err)
	}

	s.logger.Info().
		Int64("cart_id", cart.ID).
		Int64("product_id", productID).
		Int("quantity", quantity).
		Float64("total_price", total).
		Msg("product added to cart")

	return s.buildCartResponse(ctx, cart.ID, total, items)
}

// AdjustQuantity changes an existing line's quantity by delta (+1 or -1).
func (s *cartService) AdjustQuantity(ctx context.Context, p auth.Principal, productID int64, delta int) (*model.CartResponse, error) {
	cart, err := s.cartRepo.GetByUserID(ctx, p.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	if cart == nil {
		return nil, model.NewNotFound(model.ErrCodeCartNotFound, "Cart not found with emailId %s", p.Email)
	}

	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to load product: %w", err)
	}
	if product == nil {
		return nil, model.NewNotFound(model.ErrCodeProductNotFound, "Product not found with id %d", productID)
	}

	abs := delta
	if abs < 0 {
		abs = -abs
	}
	if product.Quantity == 0 {
		return nil, model.NewInvalidState(model.ErrCodeOutOfStock, "Product %s has no quantity", product.Name)
	}
	if product.Quantity < abs {
		return nil, model.NewInvalidState(model.ErrCodeInsufficientStock, "Product %s has no enough quantity", product.Name)
	}

	tx, err := s.cartRepo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to adjust quantity: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	if _, err = s.cartRepo.Lock(ctx, tx, cart.ID); err != nil {
		return nil, fmt.Errorf("failed to adjust quantity: %w", err)
	}

	item, err := s.cartRepo.GetItemTx(ctx, tx, cart.ID, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to adjust quantity: %w", err)
	}
	if item == nil {
		err = model.NewNotFound(model.ErrCodeCartItemNotFound,
			"Cart item not found with cartId %d and productId %d", cart.ID, productID)
		return nil, err
	}

	newQuantity := item.Quantity + delta
	if newQuantity < 0 {
		err = model.NewInvalidState(model.ErrCodeNegativeQuantity, "The resulting quantity cannot be negative.")
		return nil, err
	}

	if newQuantity == 0 {
		// Zero collapses to the removal path; no zero-quantity line is stored.
		if _, err = s.cartRepo.DeleteItem(ctx, tx, cart.ID, productID); err != nil {
			return nil, fmt.Errorf("failed to adjust quantity: %w", err)
		}
	} else {
		// Refresh the snapshot to the product's current special price.
		item.Quantity = newQuantity
		item.ProductPrice = product.SpecialPrice
		item.Discount = product.Discount
		if err = s.cartRepo.UpdateItem(ctx, tx, item); err != nil {
			return nil, fmt.Errorf("failed to adjust quantity: %w", err)
		}
	}

	total, err := s.cartRepo.RecomputeTotal(ctx, tx, cart.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to adjust quantity: %w", err)
	}

	items, err := s.cartRepo.GetItemsTx(ctx, tx, cart.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to adjust quantity: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to adjust quantity: %w", err)
	}

	s.logger.Info().
		Int64("cart_id", cart.ID).
		Int64("product_id", productID).
		Int("delta", delta).
		Int("quantity", newQuantity).
		Float64("total_price", total).
		Msg("cart quantity adjusted")

	return s.buildCartResponse(ctx, cart.ID, total, items)
}

// RemoveFromCart deletes the cart's line for the product inside its own
// transaction.
func (s *cartService) RemoveFromCart(ctx context.Context, cartID, productID int64) (string, error) {
	tx, err := s.cartRepo.BeginTx(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to remove from cart: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	locked, err := s.cartRepo.Lock(ctx, tx, cartID)
	if err != nil {
		return "", fmt.Errorf("failed to remove from cart: %w", err)
	}
	if locked == nil {
		err = model.NewNotFound(model.ErrCodeCartNotFound, "Cart not found with id %d", cartID)
		return "", err
	}

	var message string
	message, err = s.RemoveFromCartTx(ctx, tx, cartID, productID)
	if err != nil {
		return "", err
	}

	if err = tx.Commit(ctx); err != nil {
		return "", fmt.Errorf("failed to remove from cart: %w", err)
	}

	return message, nil
}

// RemoveFromCartTx deletes one line and rebalances the cart total within the
// caller's transaction. The caller must already hold the cart row lock.
func (s *cartService) RemoveFromCartTx(ctx context.Context, tx pgx.Tx, cartID, productID int64) (string, error) {
	item, err := s.cartRepo.GetItemTx(ctx, tx, cartID, productID)
	if err != nil {
		return "", fmt.Errorf("failed to remove from cart: %w", err)
	}
	if item == nil {
		return "", model.NewNotFound(model.ErrCodeCartItemNotFound,
			"Cart item not found with cartId %d and productId %d", cartID, productID)
	}

	productName := fmt.Sprintf("%d", productID)
	if product, perr := s.productRepo.GetByID(ctx, productID); perr == nil && product != nil {
		productName = product.Name
	}

	if _, err := s.cartRepo.DeleteItem(ctx, tx, cartID, productID); err != nil {
		return "", fmt.Errorf("failed to remove from cart: %w", err)
	}

	total, err := s.cartRepo.RecomputeTotal(ctx, tx, cartID)
	if err != nil {
		return "", fmt.Errorf("failed to remove from cart: %w", err)
	}

	s.logger.Info().
		Int64("cart_id", cartID).
		Int64("product_id", productID).
		Float64("total_price", total).
		Msg("product removed from cart")

	return fmt.Sprintf("Product %s deleted successfully.", productName), nil
}

// Reprice refreshes the line's price snapshot from the product's current
// special price.
func (s *cartService) Reprice(ctx context.Context, cartID, productID int64) error {
	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return fmt.Errorf("failed to load product: %w", err)
	}
	if product == nil {
		return model.NewNotFound(model.ErrCodeProductNotFound, "Product not found with id %d", productID)
	}

	tx, err := s.cartRepo.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to reprice cart: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	locked, err := s.cartRepo.Lock(ctx, tx, cartID)
	if err != nil {
		return fmt.Errorf("failed to reprice cart: %w", err)
	}
	if locked == nil {
		err = model.NewNotFound(model.ErrCodeCartNotFound, "Cart not found with id %d", cartID)
		return err
	}

	item, err := s.cartRepo.GetItemTx(ctx, tx, cartID, productID)
	if err != nil {
		return fmt.Errorf("failed to reprice cart: %w", err)
	}
	if item == nil {
		err = model.NewNotFound(model.ErrCodeCartItemNotFound,
			"Cart item not found with cartId %d and productId %d", cartID, productID)
		return err
	}

	item.ProductPrice = product.SpecialPrice
	if err = s.cartRepo.UpdateItem(ctx, tx, item); err != nil {
		return fmt.Errorf("failed to reprice cart: %w", err)
	}

	total, err := s.cartRepo.RecomputeTotal(ctx, tx, cartID)
	if err != nil {
		return fmt.Errorf("failed to reprice cart: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to reprice cart: %w", err)
	}

	s.logger.Debug().
		Int64("cart_id", cartID).
		Int64("product_id", productID).
		Float64("total_price", total).
		Msg("cart line repriced")

	return nil
}

// GetCart retrieves the caller's cart view.
func (s *cartService) GetCart(ctx context.Context, p auth.Principal) (*model.CartResponse, error) {
	cart, err := s.cartRepo.GetByUserID(ctx, p.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	if cart == nil {
		return nil, model.NewNotFound(model.ErrCodeCartNotFound, "Cart not found with emailId %s", p.Email)
	}

	items, err := s.cartRepo.GetItems(ctx, cart.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart items: %w", err)
	}

	return s.buildCartResponse(ctx, cart.ID, cart.TotalPrice, items)
}

// GetAllCarts retrieves every cart's view.
func (s *cartService) GetAllCarts(ctx context.Context) ([]model.CartResponse, error) {
	carts, err := s.cartRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load carts: %w", err)
	}

	responses := make([]model.CartResponse, 0, len(carts))
	for _, cart := range carts {
		items, err := s.cartRepo.GetItems(ctx, cart.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load cart items: %w", err)
		}
		resp, err := s.buildCartResponse(ctx, cart.ID, cart.TotalPrice, items)
		if err != nil {
			return nil, err
		}
		responses = append(responses, *resp)
	}

	return responses, nil
}

// buildCartResponse assembles the cart view: total plus each line re-expressed
// as a product view carrying the line quantity.
func (s *cartService) buildCartResponse(ctx context.Context, cartID int64, total float64, items []model.CartItem) (*model.CartResponse, error) {
	productIDs := make([]int64, len(items))
	for i, item := range items {
		productIDs[i] = item.ProductID
	}

	products, err := s.productRepo.GetByIDs(ctx, productIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart products: %w", err)
	}

	byID := make(map[int64]*model.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	views := make([]model.ProductView, 0, len(items))
	for _, item := range items {
		product, ok := byID[item.ProductID]
		if !ok {
			continue
		}
		views = append(views, product.View(item.Quantity))
	}

	return &model.CartResponse{
		ID:         cartID,
		TotalPrice: total,
		Products:   views,
	}, nil
}
