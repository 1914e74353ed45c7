package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"shopkart/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestOrderHandler_Place(t *testing.T) {
	logger := zerolog.Nop()

	orderID := uuid.New()
	testResponse := &model.OrderResponse{
		ID:          orderID,
		Email:       testPrincipal.Email,
		OrderDate:   time.Now(),
		TotalAmount: 270.00,
		OrderStatus: model.OrderStatusAccepted,
		AddressID:   5,
		Items: []model.OrderItemView{
			{Product: model.ProductView{ID: 10, Name: "Widget", Quantity: 2}, Quantity: 2, OrderedProductPrice: 90.00},
		},
	}

	tests := []struct {
		name           string
		requestBody    interface{}
		mockReturn     *model.OrderResponse
		mockError      error
		expectedStatus int
		expectService  bool
	}{
		{
			name:           "Success",
			requestBody:    &model.PlaceOrderRequest{AddressID: 5, PaymentMethod: "card"},
			mockReturn:     testResponse,
			expectedStatus: http.StatusCreated,
			expectService:  true,
		},
		{
			name:           "Empty cart",
			requestBody:    &model.PlaceOrderRequest{AddressID: 5, PaymentMethod: "card"},
			mockError:      model.NewInvalidState(model.ErrCodeEmptyCart, "Cart is empty"),
			expectedStatus: http.StatusBadRequest,
			expectService:  true,
		},
		{
			name:           "Address not found",
			requestBody:    &model.PlaceOrderRequest{AddressID: 99, PaymentMethod: "card"},
			mockError:      model.NewNotFound(model.ErrCodeAddressNotFound, "Address not found with id: 99"),
			expectedStatus: http.StatusNotFound,
			expectService:  true,
		},
		{
			name:           "Insufficient stock",
			requestBody:    &model.PlaceOrderRequest{AddressID: 5, PaymentMethod: "card"},
			mockError:      model.NewInvalidState(model.ErrCodeInsufficientStock, "Product Widget has no enough quantity."),
			expectedStatus: http.StatusBadRequest,
			expectService:  true,
		},
		{
			name:           "Validation error - missing payment method",
			requestBody:    &model.PlaceOrderRequest{AddressID: 5},
			expectedStatus: http.StatusBadRequest,
			expectService:  false,
		},
		{
			name:           "Validation error - missing address",
			requestBody:    &model.PlaceOrderRequest{PaymentMethod: "card"},
			expectedStatus: http.StatusBadRequest,
			expectService:  false,
		},
		{
			name:           "Invalid JSON",
			requestBody:    "not json",
			expectedStatus: http.StatusBadRequest,
			expectService:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockOrderService)
			handler := NewOrderHandler(mockService, logger)

			if tt.expectService {
				mockService.On("PlaceOrder", mock.Anything, testPrincipal.Email, mock.AnythingOfType("*model.PlaceOrderRequest")).
					Return(tt.mockReturn, tt.mockError)
			}

			var body bytes.Buffer
			if s, ok := tt.requestBody.(string); ok {
				body.WriteString(s)
			} else {
				require.NoError(t, json.NewEncoder(&body).Encode(tt.requestBody))
			}

			r := withPrincipal(httptest.NewRequest(http.MethodPost, "/api/orders", &body))
			w := httptest.NewRecorder()

			handler.Place(w, r)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus == http.StatusCreated {
				var resp model.OrderResponse
				require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
				assert.Equal(t, orderID, resp.ID)
				assert.Equal(t, model.OrderStatusAccepted, resp.OrderStatus)
				assert.Equal(t, 270.00, resp.TotalAmount)
			}

			mockService.AssertExpectations(t)
		})
	}
}

func TestOrderHandler_Place_MissingIdentity(t *testing.T) {
	mockService := new(MockOrderService)
	handler := NewOrderHandler(mockService, zerolog.Nop())

	body := bytes.NewBufferString(`{"addressId": 5, "paymentMethod": "card"}`)
	r := httptest.NewRequest(http.MethodPost, "/api/orders", body)
	w := httptest.NewRecorder()

	handler.Place(w, r)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	mockService.AssertNotCalled(t, "PlaceOrder", mock.Anything, mock.Anything, mock.Anything)
}

func TestOrderHandler_GetByID(t *testing.T) {
	logger := zerolog.Nop()

	orderID := uuid.New()
	testResponse := &model.OrderResponse{
		ID:          orderID,
		OrderStatus: model.OrderStatusAccepted,
		TotalAmount: 180.00,
	}

	tests := []struct {
		name           string
		path           string
		mockReturn     *model.OrderResponse
		mockError      error
		expectedStatus int
		expectService  bool
	}{
		{
			name:           "Success",
			path:           "/api/orders/" + orderID.String(),
			mockReturn:     testResponse,
			expectedStatus: http.StatusOK,
			expectService:  true,
		},
		{
			name:           "Not found",
			path:           "/api/orders/" + orderID.String(),
			mockError:      model.NewNotFound(model.ErrCodeOrderNotFound, "Order not found with id: %s", orderID),
			expectedStatus: http.StatusNotFound,
			expectService:  true,
		},
		{
			name:           "Invalid UUID",
			path:           "/api/orders/not-a-uuid",
			expectedStatus: http.StatusBadRequest,
			expectService:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockOrderService)
			handler := NewOrderHandler(mockService, logger)

			if tt.expectService {
				mockService.On("GetByID", mock.Anything, orderID).Return(tt.mockReturn, tt.mockError)
			}

			r := httptest.NewRequest(http.MethodGet, tt.path, nil)
			w := httptest.NewRecorder()

			handler.GetByID(w, r)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus == http.StatusOK {
				var resp model.OrderResponse
				require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
				assert.Equal(t, orderID, resp.ID)
			}

			mockService.AssertExpectations(t)
		})
	}
}
