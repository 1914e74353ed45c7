package service

import (
	"context"
	"fmt"

	"shopkart/internal/model"
	"shopkart/internal/pricing"
	"shopkart/internal/repository"

	"github.com/rs/zerolog"
)

// productService implements ProductService.
type productService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	cartRepo     repository.CartRepository
	cartService  CartService
	logger       zerolog.Logger
}

// NewProductService creates a new product service.
func NewProductService(
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	cartRepo repository.CartRepository,
	cartService CartService,
	logger zerolog.Logger,
) ProductService {
	return &productService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		cartRepo:     cartRepo,
		cartService:  cartService,
		logger:       logger.With().Str("service", "product").Logger(),
	}
}

// Create adds a product to a category, deriving its special price.
func (s *productService) Create(ctx context.Context, categoryID int64, req *model.ProductRequest) (*model.Product, error) {
	category, err := s.categoryRepo.GetByID(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to load category: %w", err)
	}
	if category == nil {
		return nil, model.NewNotFound(model.ErrCodeCategoryNotFound, "Category not found")
	}

	exists, err := s.productRepo.ExistsInCategory(ctx, categoryID, req.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to check product: %w", err)
	}
	if exists {
		return nil, model.NewConflict(model.ErrCodeProductExists, "Product already exists")
	}

	product := &model.Product{
		Name:         req.Name,
		Description:  req.Description,
		Image:        "default.png",
		Quantity:     req.Quantity,
		Price:        req.Price,
		Discount:     req.Discount,
		SpecialPrice: pricing.SpecialPrice(req.Price, req.Discount),
		CategoryID:   categoryID,
	}
	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	s.logger.Info().
		Int64("product_id", product.ID).
		Int64("category_id", categoryID).
		Msg("product created")

	return product, nil
}

// Update rewrites a product, re-derives its special price and reprices every
// cart line holding the product.
func (s *productService) Update(ctx context.Context, productID int64, req *model.ProductRequest) (*model.Product, error) {
	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to load product: %w", err)
	}
	if product == nil {
		return nil, model.NewNotFound(model.ErrCodeProductNotFound, "Product not found")
	}

	product.Name = req.Name
	product.Description = req.Description
	product.Quantity = req.Quantity
	product.Price = req.Price
	product.Discount = req.Discount
	product.SpecialPrice = pricing.SpecialPrice(req.Price, req.Discount)

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	cartIDs, err := s.cartRepo.FindCartIDsByProduct(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to find carts holding product: %w", err)
	}
	for _, cartID := range cartIDs {
		if err := s.cartService.Reprice(ctx, cartID, productID); err != nil {
			return nil, fmt.Errorf("failed to reprice cart %d: %w", cartID, err)
		}
	}

	s.logger.Info().
		Int64("product_id", productID).
		Int("repriced_carts", len(cartIDs)).
		Msg("product updated")

	return product, nil
}

// Delete removes a product, first removing it from every cart holding it.
func (s *productService) Delete(ctx context.Context, productID int64) (*model.Product, error) {
	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to load product: %w", err)
	}
	if product == nil {
		return nil, model.NewNotFound(model.ErrCodeProductNotFound, "Product not found")
	}

	cartIDs, err := s.cartRepo.FindCartIDsByProduct(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to find carts holding product: %w", err)
	}
	for _, cartID := range cartIDs {
		if _, err := s.cartService.RemoveFromCart(ctx, cartID, productID); err != nil {
			return nil, fmt.Errorf("failed to remove product from cart %d: %w", cartID, err)
		}
	}

	if err := s.productRepo.Delete(ctx, productID); err != nil {
		return nil, fmt.Errorf("failed to delete product: %w", err)
	}

	s.logger.Info().
		Int64("product_id", productID).
		Int("purged_carts", len(cartIDs)).
		Msg("product deleted")

	return product, nil
}

// GetByID retrieves a single product.
func (s *productService) GetByID(ctx context.Context, id int64) (*model.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	if product == nil {
		return nil, model.NewNotFound(model.ErrCodeProductNotFound, "Product not found with id %d", id)
	}

	return product, nil
}

// GetByCategory retrieves a category's products with pagination.
func (s *productService) GetByCategory(ctx context.Context, categoryID int64, limit, offset int) ([]model.Product, error) {
	category, err := s.categoryRepo.GetByID(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to load category: %w", err)
	}
	if category == nil {
		return nil, model.NewNotFound(model.ErrCodeCategoryNotFound, "Category not found")
	}

	limit, offset = clampPage(limit, offset)

	products, err := s.productRepo.GetByCategory(ctx, categoryID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to get products: %w", err)
	}

	return products, nil
}

// Search retrieves products matching a name keyword with pagination.
func (s *productService) Search(ctx context.Context, keyword string, limit, offset int) ([]model.Product, error) {
	limit, offset = clampPage(limit, offset)

	products, err := s.productRepo.Search(ctx, keyword, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to search products: %w", err)
	}

	return products, nil
}

// CreateCategory adds a new category.
func (s *productService) CreateCategory(ctx context.Context, req *model.CategoryRequest) (*model.Category, error) {
	category := &model.Category{Name: req.Name}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	s.logger.Info().Int64("category_id", category.ID).Msg("category created")

	return category, nil
}

func clampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
