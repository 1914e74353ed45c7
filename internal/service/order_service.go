package service

import (
	"context"
	"fmt"
	"time"

	"shopkart/internal/model"
	"shopkart/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// orderService implements OrderService.
type orderService struct {
	orderRepo   repository.OrderRepository
	cartRepo    repository.CartRepository
	addressRepo repository.AddressRepository
	productRepo repository.ProductRepository
	cartService CartService
	logger      zerolog.Logger
}

// NewOrderService creates a new order service.
func NewOrderService(
	orderRepo repository.OrderRepository,
	cartRepo repository.CartRepository,
	addressRepo repository.AddressRepository,
	productRepo repository.ProductRepository,
	cartService CartService,
	logger zerolog.Logger,
) OrderService {
	return &orderService{
		orderRepo:   orderRepo,
		cartRepo:    cartRepo,
		addressRepo: addressRepo,
		productRepo: productRepo,
		cartService: cartService,
		logger:      logger.With().Str("service", "order").Logger(),
	}
}

// PlaceOrder converts the caller's cart into an order, payment and order items,
// decrements stock and empties the cart. Everything after validation happens in
// one transaction; any failure rolls the whole placement back.
func (s *orderService) PlaceOrder(ctx context.Context, email string, req *model.PlaceOrderRequest) (*model.OrderResponse, error) {
	// A retried placement with the same key returns the original order instead
	// of double-submitting.
	if req.IdempotencyKey != nil && *req.IdempotencyKey != "" {
		existing, err := s.orderRepo.GetByIdempotencyKey(ctx, *req.IdempotencyKey)
		if err != nil {
			return nil, fmt.Errorf("failed to place order: %w", err)
		}
		if existing != nil {
			s.logger.Info().
				Str("order_id", existing.ID.String()).
				Msg("duplicate placement detected, returning existing order")
			return s.GetByID(ctx, existing.ID)
		}
	}

	cart, err := s.cartRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	if cart == nil {
		s.logger.Warn().Str("email", email).Msg("cart not found")
		return nil, model.NewNotFound(model.ErrCodeCartNotFound, "Cart not found with email: %s", email)
	}

	address, err := s.addressRepo.GetByID(ctx, req.AddressID)
	if err != nil {
		return nil, fmt.Errorf("failed to load address: %w", err)
	}
	if address == nil {
		s.logger.Warn().Int64("address_id", req.AddressID).Msg("address not found")
		return nil, model.NewNotFound(model.ErrCodeAddressNotFound, "Address not found with id: %d", req.AddressID)
	}

	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to place order: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	// Serialise against concurrent mutations of the same cart.
	locked, err := s.cartRepo.Lock(ctx, tx, cart.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to place order: %w", err)
	}
	if locked == nil {
		err = model.NewNotFound(model.ErrCodeCartNotFound, "Cart not found with email: %s", email)
		return nil, err
	}

	cartItems, err := s.cartRepo.GetItemsTx(ctx, tx, cart.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to place order: %w", err)
	}
	if len(cartItems) == 0 {
		s.logger.Warn().Int64("cart_id", cart.ID).Msg("cart is empty")
		err = model.NewInvalidState(model.ErrCodeEmptyCart, "Cart is empty")
		return nil, err
	}

	productIDs := make([]int64, len(cartItems))
	for i, item := range cartItems {
		productIDs[i] = item.ProductID
	}
	products, err := s.productRepo.GetByIDs(ctx, productIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}
	productsByID := make(map[int64]*model.Product, len(products))
	for i := range products {
		productsByID[products[i].ID] = &products[i]
	}

	order := &model.Order{
		ID:             uuid.New(),
		Email:          email,
		OrderDate:      time.Now(),
		TotalAmount:    locked.TotalPrice,
		OrderStatus:    model.OrderStatusAccepted,
		AddressID:      address.ID,
		IdempotencyKey: req.IdempotencyKey,
	}
	if err = s.orderRepo.CreateOrder(ctx, tx, order); err != nil {
		return nil, fmt.Errorf("failed to place order: %w", err)
	}

	payment := &model.Payment{
		ID:                uuid.New(),
		OrderID:           order.ID,
		PaymentMethod:     req.PaymentMethod,
		PgName:            req.PgName,
		PgPaymentID:       req.PgPaymentID,
		PgStatus:          req.PgStatus,
		PgResponseMessage: req.PgResponseMessage,
	}
	if err = s.orderRepo.CreatePayment(ctx, tx, payment); err != nil {
		return nil, fmt.Errorf("failed to place order: %w", err)
	}

	orderItems := make([]model.OrderItem, len(cartItems))
	for i, item := range cartItems {
		orderItems[i] = model.OrderItem{
			ID:                  uuid.New(),
			OrderID:             order.ID,
			ProductID:           item.ProductID,
			Quantity:            item.Quantity,
			Discount:            item.Discount,
			OrderedProductPrice: item.ProductPrice,
		}
	}
	if err = s.orderRepo.CreateOrderItems(ctx, tx, orderItems); err != nil {
		return nil, fmt.Errorf("failed to place order: %w", err)
	}

	// Conditional decrement: the losing side of a concurrent race on the same
	// product fails here and the whole placement rolls back.
	for _, item := range cartItems {
		var ok bool
		ok, err = s.productRepo.DecrementStock(ctx, tx, item.ProductID, item.Quantity)
		if err != nil {
			return nil, fmt.Errorf("failed to place order: %w", err)
		}
		if !ok {
			name := fmt.Sprintf("%d", item.ProductID)
			if product := productsByID[item.ProductID]; product != nil {
				name = product.Name
			}
			s.logger.Warn().
				Int64("product_id", item.ProductID).
				Int("quantity", item.Quantity).
				Msg("insufficient stock at placement")
			err = model.NewInvalidState(model.ErrCodeInsufficientStock, "Product %s has no enough quantity.", name)
			return nil, err
		}
	}

	for _, item := range cartItems {
		if _, err = s.cartService.RemoveFromCartTx(ctx, tx, cart.ID, item.ProductID); err != nil {
			return nil, fmt.Errorf("failed to place order: %w", err)
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to place order: %w", err)
	}

	s.logger.Info().
		Str("order_id", order.ID.String()).
		Str("email", email).
		Int("item_count", len(orderItems)).
		Float64("total_amount", order.TotalAmount).
		Msg("order placed successfully")

	return s.buildOrderResponse(order, payment, orderItems, productsByID), nil
}

// GetByID retrieves an order by its ID with payment, items and product details.
func (s *orderService) GetByID(ctx context.Context, id uuid.UUID) (*model.OrderResponse, error) {
	order, payment, items, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if order == nil {
		return nil, model.NewNotFound(model.ErrCodeOrderNotFound, "Order not found with id: %s", id)
	}

	productIDs := make([]int64, len(items))
	for i, item := range items {
		productIDs[i] = item.ProductID
	}
	products, err := s.productRepo.GetByIDs(ctx, productIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}
	productsByID := make(map[int64]*model.Product, len(products))
	for i := range products {
		productsByID[products[i].ID] = &products[i]
	}

	return s.buildOrderResponse(order, payment, items, productsByID), nil
}

// buildOrderResponse assembles the order view returned across the API boundary.
func (s *orderService) buildOrderResponse(
	order *model.Order,
	payment *model.Payment,
	items []model.OrderItem,
	productsByID map[int64]*model.Product,
) *model.OrderResponse {
	itemViews := make([]model.OrderItemView, 0, len(items))
	for _, item := range items {
		view := model.OrderItemView{
			Quantity:            item.Quantity,
			Discount:            item.Discount,
			OrderedProductPrice: item.OrderedProductPrice,
		}
		if product := productsByID[item.ProductID]; product != nil {
			view.Product = product.View(item.Quantity)
		} else {
			view.Product = model.ProductView{ID: item.ProductID, Quantity: item.Quantity}
		}
		itemViews = append(itemViews, view)
	}

	return &model.OrderResponse{
		ID:          order.ID,
		Email:       order.Email,
		OrderDate:   order.OrderDate,
		TotalAmount: order.TotalAmount,
		OrderStatus: order.OrderStatus,
		AddressID:   order.AddressID,
		Payment:     payment,
		Items:       itemViews,
	}
}
