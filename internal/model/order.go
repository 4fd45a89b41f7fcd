package model

import "time"

// DefaultDeliveryFee applies when an order request omits deliveryFee.
const DefaultDeliveryFee = 8.0

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// IsValid reports whether s is one of the four known statuses.
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

// IsConventionalTransition reports whether from -> to follows
// pending -> processing -> {completed|cancelled}. Same-status updates count as conventional.
func IsConventionalTransition(from, to OrderStatus) bool {
	if from == to {
		return true
	}
	switch from {
	case OrderStatusPending:
		return to == OrderStatusProcessing
	case OrderStatusProcessing:
		return to == OrderStatusCompleted || to == OrderStatusCancelled
	}
	return false
}

// Order represents a customer order. Line items are owned by the order.
type Order struct {
	ID              string      `json:"id" db:"id"`
	CustomerName    string      `json:"customerName" db:"customer_name"`
	CustomerPhone   string      `json:"customerPhone" db:"customer_phone"`
	CustomerAddress string      `json:"customerAddress" db:"customer_address"`
	Items           []OrderItem `json:"items" db:"items"`
	TotalAmount     float64     `json:"totalAmount" db:"total_amount"`
	DeliveryFee     float64     `json:"deliveryFee" db:"delivery_fee"`
	Status          OrderStatus `json:"status" db:"status"`
	CreatedAt       time.Time   `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time   `json:"updatedAt" db:"updated_at"`
}

// OrderItem represents a line item in an order. ProductName and Price are
// snapshots taken at checkout. Product is the current catalogue record,
// filled in on reads and nil when the product has since been deleted.
type OrderItem struct {
	ProductID   string   `json:"productId"`
	Product     *Product `json:"product,omitempty"`
	ProductName string   `json:"productName"`
	Quantity    int      `json:"quantity"`
	Size        string   `json:"size,omitempty"`
	Color       string   `json:"color,omitempty"`
	Price       float64  `json:"price"`
}

// Subtotal returns price x quantity.
func (i OrderItem) Subtotal() float64 {
	return i.Price * float64(i.Quantity)
}

// OrderRequest represents the request payload for creating an order.
type OrderRequest struct {
	CustomerName    string             `json:"customerName" validate:"required"`
	CustomerPhone   string             `json:"customerPhone" validate:"required"`
	CustomerAddress string             `json:"customerAddress" validate:"required"`
	Items           []OrderItemRequest `json:"items" validate:"required,min=1"`
	DeliveryFee     *float64           `json:"deliveryFee,omitempty"`
}

// OrderItemRequest represents a single item in an order request.
type OrderItemRequest struct {
	Product     string   `json:"product" validate:"required"`
	ProductName string   `json:"productName" validate:"required"`
	Quantity    int      `json:"quantity" validate:"min=1"`
	Size        string   `json:"size,omitempty"`
	Color       string   `json:"color,omitempty"`
	Price       *float64 `json:"price" validate:"required,min=0"`
}

// StatusUpdateRequest is the body of a status change.
type StatusUpdateRequest struct {
	Status OrderStatus `json:"status"`
}
