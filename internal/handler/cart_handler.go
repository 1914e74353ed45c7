package handler

import (
	"net/http"
	"strconv"
	"strings"

	"shopkart/internal/auth"
	"shopkart/internal/model"
	"shopkart/internal/service"

	"github.com/rs/zerolog"
)

// CartHandler handles cart-related HTTP requests.
type CartHandler struct {
	service service.CartService
	logger  zerolog.Logger
}

// NewCartHandler creates a new cart handler.
func NewCartHandler(service service.CartService, logger zerolog.Logger) *CartHandler {
	return &CartHandler{
		service: service,
		logger:  logger.With().Str("handler", "cart").Logger(),
	}
}

// Get handles GET /api/cart requests for the caller's cart.
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing caller identity", h.logger)
		return
	}

	cart, err := h.service.GetCart(r.Context(), principal)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, cart)
}

// GetAll handles GET /api/carts requests.
func (h *CartHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	carts, err := h.service.GetAllCarts(r.Context())
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, carts)
}

// AddItem handles POST /api/cart/items requests.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing caller identity", h.logger)
		return
	}

	var req model.AddToCartRequest
	if !decodeAndValidate(w, r, &req, h.logger) {
		return
	}

	cart, err := h.service.AddToCart(r.Context(), principal, req.ProductID, req.Quantity)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, cart)
}

// AdjustItem handles PUT /api/cart/items/{productId}/{operation} requests.
// The operation path segment is "increase", "decrease" or "delete"; it is
// translated into a signed unit delta for the service.
func (h *CartHandler) AdjustItem(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing caller identity", h.logger)
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/api/cart/items/")
	parts := strings.Split(rest, "/")
	if len(parts) != 2 {
		writeError(w, http.StatusBadRequest, "expected /api/cart/items/{productId}/{operation}", h.logger)
		return
	}

	productID, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid product ID", h.logger)
		return
	}

	delta := 1
	switch strings.ToLower(parts[1]) {
	case "increase":
	case "decrease", "delete":
		delta = -1
	default:
		writeError(w, http.StatusBadRequest, "operation must be increase, decrease or delete", h.logger)
		return
	}

	cart, err := h.service.AdjustQuantity(r.Context(), principal, productID, delta)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, cart)
}

// RemoveItem handles DELETE /api/carts/{cartId}/products/{productId} requests.
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/carts/")
	parts := strings.Split(rest, "/")
	if len(parts) != 3 || parts[1] != "products" {
		writeError(w, http.StatusBadRequest, "expected /api/carts/{cartId}/products/{productId}", h.logger)
		return
	}

	cartID, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid cart ID", h.logger)
		return
	}
	productID, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid product ID", h.logger)
		return
	}

	message, err := h.service.RemoveFromCart(r.Context(), cartID, productID)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": message})
}
