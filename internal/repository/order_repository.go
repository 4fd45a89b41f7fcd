package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"clothing-store/internal/model"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

const orderColumns = `id, customer_name, customer_phone, customer_address, items, total_amount, delivery_fee, status, created_at, updated_at`

// orderItemRecord is the JSONB shape of an embedded line item.
type orderItemRecord struct {
	Product     string  `json:"product"`
	ProductName string  `json:"productName"`
	Quantity    int     `json:"quantity"`
	Size        string  `json:"size,omitempty"`
	Color       string  `json:"color,omitempty"`
	Price       float64 `json:"price"`
}

func encodeItems(items []model.OrderItem) (string, error) {
	records := make([]orderItemRecord, len(items))
	for i, item := range items {
		records[i] = orderItemRecord{
			Product:     item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			Size:        item.Size,
			Color:       item.Color,
			Price:       item.Price,
		}
	}

	data, err := json.Marshal(records)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func decodeItems(data []byte) ([]model.OrderItem, error) {
	var records []orderItemRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, err
	}

	items := make([]model.OrderItem, len(records))
	for i, rec := range records {
		items[i] = model.OrderItem{
			ProductID:   rec.Product,
			ProductName: rec.ProductName,
			Quantity:    rec.Quantity,
			Size:        rec.Size,
			Color:       rec.Color,
			Price:       rec.Price,
		}
	}
	return items, nil
}

// orderRepository implements the OrderRepository interface using PostgreSQL.
type orderRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewOrderRepository creates a new PostgreSQL-backed order repository.
func NewOrderRepository(pool *pgxpool.Pool, logger zerolog.Logger) OrderRepository {
	return &orderRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "order").Logger(),
	}
}

func scanOrder(row rowScanner) (*model.Order, error) {
	var (
		order model.Order
		items []byte
	)
	err := row.Scan(
		&order.ID, &order.CustomerName, &order.CustomerPhone, &order.CustomerAddress,
		&items, &order.TotalAmount, &order.DeliveryFee, &order.Status,
		&order.CreatedAt, &order.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	order.Items, err = decodeItems(items)
	if err != nil {
		return nil, fmt.Errorf("failed to decode order items: %w", err)
	}

	return &order, nil
}

// Create inserts an order with its embedded items and assigns its ID.
func (r *orderRepository) Create(ctx context.Context, order *model.Order) error {
	order.ID = uuid.NewString()

	items, err := encodeItems(order.Items)
	if err != nil {
		return fmt.Errorf("failed to encode order items: %w", err)
	}

	query := `
		INSERT INTO orders (` + orderColumns + `)
		VALUES ($1, $2, $3, $4, $5::jsonb, $6, $7, $8, $9, $10)
	`

	_, err = r.pool.Exec(ctx, query,
		order.ID, order.CustomerName, order.CustomerPhone, order.CustomerAddress,
		items, order.TotalAmount, order.DeliveryFee, order.Status,
		order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("order_id", order.ID).
			Msg("failed to create order")
		return fmt.Errorf("failed to create order: %w", err)
	}

	r.logger.Debug().
		Str("order_id", order.ID).
		Int("items", len(order.Items)).
		Msg("order created successfully")

	return nil
}

// List retrieves all orders, newest first.
func (r *orderRepository) List(ctx context.Context) ([]model.Order, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+orderColumns+` FROM orders ORDER BY created_at DESC, id DESC`)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query orders")
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	orders := []model.Order{}
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan order row")
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, *order)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating order rows")
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}

	return orders, nil
}

// GetByID retrieves an order by its ID along with its items.
func (r *orderRepository) GetByID(ctx context.Context, id string) (*model.Order, error) {
	order, err := scanOrder(r.pool.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str("order_id", id).Msg("order not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("order_id", id).Msg("failed to query order")
		return nil, fmt.Errorf("failed to query order: %w", err)
	}

	return order, nil
}

// UpdateStatus sets the status and modification time and returns the stored order.
func (r *orderRepository) UpdateStatus(ctx context.Context, id string, status model.OrderStatus, updatedAt time.Time) (*model.Order, error) {
	query := `
		UPDATE orders SET status = $2, updated_at = $3
		WHERE id = $1
		RETURNING ` + orderColumns

	order, err := scanOrder(r.pool.QueryRow(ctx, query, id, status, updatedAt))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str("order_id", id).Msg("order not found for status update")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("order_id", id).Str("status", string(status)).Msg("failed to update order status")
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	return order, nil
}
