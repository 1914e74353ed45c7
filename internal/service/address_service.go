package service

import (
	"context"
	"fmt"

	"shopkart/internal/model"
	"shopkart/internal/repository"

	"github.com/rs/zerolog"
)

// addressService implements AddressService.
type addressService struct {
	addressRepo repository.AddressRepository
	logger      zerolog.Logger
}

// NewAddressService creates a new address service.
func NewAddressService(addressRepo repository.AddressRepository, logger zerolog.Logger) AddressService {
	return &addressService{
		addressRepo: addressRepo,
		logger:      logger.With().Str("service", "address").Logger(),
	}
}

// Create adds a new address.
func (s *addressService) Create(ctx context.Context, req *model.AddressRequest) (*model.Address, error) {
	address := &model.Address{
		Street:   req.Street,
		Building: req.Building,
		City:     req.City,
		State:    req.State,
		Country:  req.Country,
		Pincode:  req.Pincode,
	}
	if err := s.addressRepo.Create(ctx, address); err != nil {
		return nil, fmt.Errorf("failed to create address: %w", err)
	}

	return address, nil
}

// GetByID retrieves an address.
func (s *addressService) GetByID(ctx context.Context, id int64) (*model.Address, error) {
	address, err := s.addressRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get address: %w", err)
	}
	if address == nil {
		return nil, model.NewNotFound(model.ErrCodeAddressNotFound, "Address not found with id: %d", id)
	}

	return address, nil
}
