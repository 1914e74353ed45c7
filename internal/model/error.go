package model

import (
	"errors"
	"fmt"
)

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON       = "INVALID_JSON"
	ErrCodeCartNotFound      = "CART_NOT_FOUND"
	ErrCodeCartItemNotFound  = "CART_ITEM_NOT_FOUND"
	ErrCodeProductNotFound   = "PRODUCT_NOT_FOUND"
	ErrCodeCategoryNotFound  = "CATEGORY_NOT_FOUND"
	ErrCodeAddressNotFound   = "ADDRESS_NOT_FOUND"
	ErrCodeOrderNotFound     = "ORDER_NOT_FOUND"
	ErrCodeProductInCart     = "PRODUCT_IN_CART"
	ErrCodeProductExists     = "PRODUCT_EXISTS"
	ErrCodeOutOfStock        = "OUT_OF_STOCK"
	ErrCodeInsufficientStock = "INSUFFICIENT_STOCK"
	ErrCodeNegativeQuantity  = "NEGATIVE_QUANTITY"
	ErrCodeEmptyCart         = "EMPTY_CART"
	ErrCodeInvalidQuantity   = "INVALID_QUANTITY"
	ErrCodeUnauthorised      = "UNAUTHORIZED"
	ErrCodeInternalError     = "INTERNAL_ERROR"
)

// ErrorKind classifies a domain error for boundary mapping.
type ErrorKind int

const (
	// KindNotFound marks a missing cart, item, product, category, address or order.
	KindNotFound ErrorKind = iota
	// KindConflict marks a duplicate-resource violation.
	KindConflict
	// KindInvalidState marks a business-rule violation such as insufficient stock.
	KindInvalidState
)

// DomainError is a business error surfaced directly to the caller.
type DomainError struct {
	Kind    ErrorKind
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewNotFound creates a not-found domain error.
func NewNotFound(code, format string, args ...any) *DomainError {
	return &DomainError{Kind: KindNotFound, Code: code, Message: fmt.Sprintf(format, args...)}
}

// NewConflict creates a duplicate-resource domain error.
func NewConflict(code, format string, args ...any) *DomainError {
	return &DomainError{Kind: KindConflict, Code: code, Message: fmt.Sprintf(format, args...)}
}

// NewInvalidState creates a business-rule-violation domain error.
func NewInvalidState(code, format string, args ...any) *DomainError {
	return &DomainError{Kind: KindInvalidState, Code: code, Message: fmt.Sprintf(format, args...)}
}

// AsDomainError unwraps err into a DomainError if it carries one.
func AsDomainError(err error) (*DomainError, bool) {
	var de *DomainError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// IsNotFound reports whether err is a not-found domain error.
func IsNotFound(err error) bool {
	de, ok := AsDomainError(err)
	return ok && de.Kind == KindNotFound
}
