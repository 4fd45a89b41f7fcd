package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"clothing-store/internal/model"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockOrderService is a mock implementation of OrderService.
type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) CreateOrder(ctx context.Context, req *model.OrderRequest) (*model.Order, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderService) List(ctx context.Context) ([]model.Order, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Order), args.Error(1)
}

func (m *MockOrderService) GetByID(ctx context.Context, id string) (*model.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderService) UpdateStatus(ctx context.Context, id string, status model.OrderStatus) (*model.Order, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func TestOrderHandler_Create(t *testing.T) {
	validBody := `{
		"customerName": "Ana",
		"customerPhone": "555",
		"customerAddress": "1 Main St",
		"items": [{"product": "P1", "productName": "Tee", "quantity": 2, "size": "M", "color": "Black", "price": 20}]
	}`

	tests := []struct {
		name           string
		body           string
		setupMock      func(m *MockOrderService)
		expectedStatus int
		expectedError  string
	}{
		{
			name: "Success",
			body: validBody,
			setupMock: func(m *MockOrderService) {
				m.On("CreateOrder", mock.Anything, mock.MatchedBy(func(req *model.OrderRequest) bool {
					return req.CustomerName == "Ana" && len(req.Items) == 1 &&
						req.Items[0].Product == "P1" && req.Items[0].Quantity == 2 && req.DeliveryFee == nil
				})).Return(&model.Order{ID: "O1", TotalAmount: 48, DeliveryFee: 8, Status: model.OrderStatusPending}, nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "Malformed JSON",
			body:           `{"customerName":`,
			setupMock:      func(m *MockOrderService) {},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "Invalid request body",
		},
		{
			name: "Empty body reaches validation",
			body: "",
			setupMock: func(m *MockOrderService) {
				m.On("CreateOrder", mock.Anything, mock.Anything).Return(nil, model.ErrMissingOrderFields)
			},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "Customer information and items are required",
		},
		{
			name: "Storage failure",
			body: validBody,
			setupMock: func(m *MockOrderService) {
				m.On("CreateOrder", mock.Anything, mock.Anything).
					Return(nil, model.NewStorageError("Error creating order", errors.New("db down")))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedError:  "Error creating order",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockOrderService)
			tt.setupMock(svc)

			r := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(tt.body))
			r.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			NewOrderHandler(svc, false, zerolog.Nop()).Create(w, r)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedError != "" {
				assert.Equal(t, tt.expectedError, decodeError(t, w).Error)
			} else {
				var order model.Order
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &order))
				assert.Equal(t, 48.0, order.TotalAmount)
			}
			svc.AssertExpectations(t)
		})
	}
}

func TestOrderHandler_List(t *testing.T) {
	svc := new(MockOrderService)
	svc.On("List", mock.Anything).Return([]model.Order{{ID: "O2"}, {ID: "O1"}}, nil)

	w := httptest.NewRecorder()
	NewOrderHandler(svc, false, zerolog.Nop()).List(w, httptest.NewRequest(http.MethodGet, "/api/orders", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	var orders []model.Order
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &orders))
	require.Len(t, orders, 2)
	assert.Equal(t, "O2", orders[0].ID)
}

func TestOrderHandler_Get(t *testing.T) {
	svc := new(MockOrderService)
	svc.On("GetByID", mock.Anything, "O1").Return(&model.Order{ID: "O1"}, nil)
	svc.On("GetByID", mock.Anything, "missing").Return(nil, model.ErrOrderNotFound)

	h := NewOrderHandler(svc, false, zerolog.Nop())

	w := httptest.NewRecorder()
	h.Get(w, withURLParam(httptest.NewRequest(http.MethodGet, "/api/orders/O1", nil), "id", "O1"))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	h.Get(w, withURLParam(httptest.NewRequest(http.MethodGet, "/api/orders/missing", nil), "id", "missing"))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Order not found", decodeError(t, w).Error)
}

func TestOrderHandler_UpdateStatus(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		mockStatus     model.OrderStatus
		mockError      error
		expectedStatus int
	}{
		{
			name:           "Success",
			body:           `{"status":"processing"}`,
			mockStatus:     model.OrderStatusProcessing,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Invalid status",
			body:           `{"status":"shipped"}`,
			mockStatus:     model.OrderStatus("shipped"),
			mockError:      model.ErrInvalidStatus,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Missing status",
			body:           `{}`,
			mockStatus:     model.OrderStatus(""),
			mockError:      model.ErrInvalidStatus,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Not found",
			body:           `{"status":"completed"}`,
			mockStatus:     model.OrderStatusCompleted,
			mockError:      model.ErrOrderNotFound,
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockOrderService)
			if tt.mockError != nil {
				svc.On("UpdateStatus", mock.Anything, "O1", tt.mockStatus).Return(nil, tt.mockError)
			} else {
				svc.On("UpdateStatus", mock.Anything, "O1", tt.mockStatus).
					Return(&model.Order{ID: "O1", Status: tt.mockStatus}, nil)
			}

			r := httptest.NewRequest(http.MethodPut, "/api/orders/O1/status", strings.NewReader(tt.body))
			w := httptest.NewRecorder()
			NewOrderHandler(svc, false, zerolog.Nop()).UpdateStatus(w, withURLParam(r, "id", "O1"))

			assert.Equal(t, tt.expectedStatus, w.Code)
			svc.AssertExpectations(t)
		})
	}
}
