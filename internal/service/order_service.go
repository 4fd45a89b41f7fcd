package service

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"clothing-store/internal/metrics"
	"clothing-store/internal/model"
	"clothing-store/internal/repository"

	"github.com/rs/zerolog"
)

// orderService implements OrderService.
type orderService struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	reprice     bool
	logger      zerolog.Logger
}

// NewOrderService creates a new order service. When repriceFromCatalog is set,
// item names and prices are taken from the catalogue for products that still
// exist instead of trusting the client's snapshot.
func NewOrderService(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	repriceFromCatalog bool,
	logger zerolog.Logger,
) OrderService {
	return &orderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		reprice:     repriceFromCatalog,
		logger:      logger.With().Str("service", "order").Logger(),
	}
}

// CreateOrder validates a checkout and stores a pending order.
func (s *orderService) CreateOrder(ctx context.Context, req *model.OrderRequest) (*model.Order, error) {
	if req == nil {
		return nil, model.ErrMissingOrderFields
	}

	req.CustomerName = strings.TrimSpace(req.CustomerName)
	req.CustomerPhone = strings.TrimSpace(req.CustomerPhone)
	req.CustomerAddress = strings.TrimSpace(req.CustomerAddress)

	if err := validate.Struct(req); err != nil {
		s.logger.Debug().Err(err).Msg("order request missing fields")
		return nil, model.ErrMissingOrderFields.Wrap(err)
	}

	fee := model.DefaultDeliveryFee
	if req.DeliveryFee != nil {
		fee = *req.DeliveryFee
		if fee < 0 || math.IsNaN(fee) || math.IsInf(fee, 0) {
			return nil, model.ErrInvalidDeliveryFee
		}
	}

	items := make([]model.OrderItem, len(req.Items))
	for i := range req.Items {
		item := &req.Items[i]
		item.Product = strings.TrimSpace(item.Product)
		item.ProductName = strings.TrimSpace(item.ProductName)

		if err := validate.Struct(item); err != nil {
			s.logger.Debug().Err(err).Int("item", i).Msg("invalid order item")
			return nil, model.ErrInvalidOrderItems.Wrap(fmt.Errorf("item %d: %w", i, err))
		}

		items[i] = model.OrderItem{
			ProductID:   item.Product,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			Size:        strings.TrimSpace(item.Size),
			Color:       strings.TrimSpace(item.Color),
			Price:       *item.Price,
		}
	}

	if s.reprice {
		if err := s.repriceItems(ctx, items); err != nil {
			s.logger.Error().Err(err).Msg("failed to load catalogue prices")
			return nil, model.NewStorageError("Error creating order", err)
		}
	}

	total := fee
	for _, item := range items {
		total += item.Subtotal()
	}

	now := time.Now().UTC()
	order := &model.Order{
		CustomerName:    req.CustomerName,
		CustomerPhone:   req.CustomerPhone,
		CustomerAddress: req.CustomerAddress,
		Items:           items,
		TotalAmount:     total,
		DeliveryFee:     fee,
		Status:          model.OrderStatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		s.logger.Error().Err(err).Msg("failed to create order")
		return nil, model.NewStorageError("Error creating order", err)
	}

	metrics.OrdersCreated.Inc()

	s.logger.Info().
		Str("order_id", order.ID).
		Int("items", len(items)).
		Float64("total", total).
		Msg("order created")

	return order, nil
}

// repriceItems overwrites name and price with the catalogue values of
// products that still exist. Unknown references keep the client snapshot.
func (s *orderService) repriceItems(ctx context.Context, items []model.OrderItem) error {
	byID, err := s.productsByID(ctx, items)
	if err != nil {
		return err
	}

	for i := range items {
		p, ok := byID[items[i].ProductID]
		if !ok {
			continue
		}
		if items[i].Price != p.Price {
			s.logger.Warn().
				Str("product_id", p.ID).
				Float64("client_price", items[i].Price).
				Float64("catalogue_price", p.Price).
				Msg("repricing order item from catalogue")
		}
		items[i].Price = p.Price
		items[i].ProductName = p.Name
	}
	return nil
}

// productsByID loads the distinct products referenced by items.
func (s *orderService) productsByID(ctx context.Context, items []model.OrderItem) (map[string]*model.Product, error) {
	seen := make(map[string]bool, len(items))
	ids := make([]string, 0, len(items))
	for _, item := range items {
		if item.ProductID != "" && !seen[item.ProductID] {
			seen[item.ProductID] = true
			ids = append(ids, item.ProductID)
		}
	}

	byID := make(map[string]*model.Product, len(ids))
	if len(ids) == 0 {
		return byID, nil
	}

	products, err := s.productRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	for i := range products {
		byID[products[i].ID] = &products[i]
	}
	return byID, nil
}

// expandProducts attaches the current product record to every item whose
// product still exists. Deleted products leave Product nil.
func (s *orderService) expandProducts(ctx context.Context, orders []model.Order) error {
	var items []model.OrderItem
	for _, o := range orders {
		items = append(items, o.Items...)
	}

	byID, err := s.productsByID(ctx, items)
	if err != nil {
		return err
	}

	for i := range orders {
		for j := range orders[i].Items {
			orders[i].Items[j].Product = byID[orders[i].Items[j].ProductID]
		}
	}
	return nil
}

// List retrieves all orders, newest first, with products expanded.
func (s *orderService) List(ctx context.Context) ([]model.Order, error) {
	orders, err := s.orderRepo.List(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list orders")
		return nil, model.NewStorageError("Error fetching orders", err)
	}

	if err := s.expandProducts(ctx, orders); err != nil {
		s.logger.Error().Err(err).Msg("failed to expand order products")
		return nil, model.NewStorageError("Error fetching orders", err)
	}

	s.logger.Debug().Int("count", len(orders)).Msg("retrieved orders")

	return orders, nil
}

// GetByID retrieves an order with products expanded.
func (s *orderService) GetByID(ctx context.Context, id string) (*model.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", id).Msg("failed to get order")
		return nil, model.NewStorageError("Error fetching order", err)
	}

	if order == nil {
		s.logger.Debug().Str("order_id", id).Msg("order not found")
		return nil, model.ErrOrderNotFound
	}

	if err := s.expandProducts(ctx, []model.Order{*order}); err != nil {
		s.logger.Error().Err(err).Str("order_id", id).Msg("failed to expand order products")
		return nil, model.NewStorageError("Error fetching order", err)
	}

	return order, nil
}

// UpdateStatus moves an order to status. Any transition between known
// statuses is accepted; unconventional ones are logged and counted.
func (s *orderService) UpdateStatus(ctx context.Context, id string, status model.OrderStatus) (*model.Order, error) {
	if !status.IsValid() {
		return nil, model.ErrInvalidStatus
	}

	current, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", id).Msg("failed to get order")
		return nil, model.NewStorageError("Error updating order status", err)
	}

	if current == nil {
		return nil, model.ErrOrderNotFound
	}

	updated, err := s.orderRepo.UpdateStatus(ctx, id, status, time.Now().UTC())
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", id).Msg("failed to update order status")
		return nil, model.NewStorageError("Error updating order status", err)
	}

	if updated == nil {
		return nil, model.ErrOrderNotFound
	}

	conventional := model.IsConventionalTransition(current.Status, status)
	if !conventional {
		s.logger.Warn().
			Str("order_id", id).
			Str("from", string(current.Status)).
			Str("to", string(status)).
			Msg("unconventional order status transition")
	}
	if current.Status != status {
		metrics.RecordStatusTransition(string(current.Status), string(status), conventional)
	}

	if err := s.expandProducts(ctx, []model.Order{*updated}); err != nil {
		s.logger.Error().Err(err).Str("order_id", id).Msg("failed to expand order products")
		return nil, model.NewStorageError("Error updating order status", err)
	}

	s.logger.Info().
		Str("order_id", id).
		Str("status", string(status)).
		Msg("order status updated")

	return updated, nil
}
