package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"clothing-store/internal/database"
	"clothing-store/internal/model"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// orderItemDocument stores the product reference as an ObjectID when it is
// one, so lookups against the products collection keep working. The driver
// decodes ObjectIDs into the string field as hex.
type orderItemDocument struct {
	Product     any     `bson:"product"`
	ProductName string  `bson:"productName"`
	Quantity    int     `bson:"quantity"`
	Size        string  `bson:"size,omitempty"`
	Color       string  `bson:"color,omitempty"`
	Price       float64 `bson:"price"`
}

type orderItemReadDocument struct {
	Product     string  `bson:"product"`
	ProductName string  `bson:"productName"`
	Quantity    int     `bson:"quantity"`
	Size        string  `bson:"size,omitempty"`
	Color       string  `bson:"color,omitempty"`
	Price       float64 `bson:"price"`
}

type orderDocument struct {
	ID              primitive.ObjectID      `bson:"_id,omitempty"`
	CustomerName    string                  `bson:"customerName"`
	CustomerPhone   string                  `bson:"customerPhone"`
	CustomerAddress string                  `bson:"customerAddress"`
	Items           []orderItemReadDocument `bson:"items"`
	TotalAmount     float64                 `bson:"totalAmount"`
	DeliveryFee     float64                 `bson:"deliveryFee"`
	Status          model.OrderStatus       `bson:"status"`
	CreatedAt       time.Time               `bson:"createdAt"`
	UpdatedAt       time.Time               `bson:"updatedAt"`
}

func (d *orderDocument) toModel() model.Order {
	items := make([]model.OrderItem, len(d.Items))
	for i, it := range d.Items {
		items[i] = model.OrderItem{
			ProductID:   it.Product,
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			Size:        it.Size,
			Color:       it.Color,
			Price:       it.Price,
		}
	}

	return model.Order{
		ID:              d.ID.Hex(),
		CustomerName:    d.CustomerName,
		CustomerPhone:   d.CustomerPhone,
		CustomerAddress: d.CustomerAddress,
		Items:           items,
		TotalAmount:     d.TotalAmount,
		DeliveryFee:     d.DeliveryFee,
		Status:          d.Status,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
}

func productRef(id string) any {
	if oid, err := primitive.ObjectIDFromHex(id); err == nil {
		return oid
	}
	return id
}

// mongoOrderRepository implements OrderRepository on a MongoDB collection.
type mongoOrderRepository struct {
	collection *mongo.Collection
	logger     zerolog.Logger
}

// NewMongoOrderRepository creates a MongoDB-backed order repository.
func NewMongoOrderRepository(db *mongo.Database, logger zerolog.Logger) OrderRepository {
	return &mongoOrderRepository{
		collection: db.Collection(database.OrdersCollection),
		logger:     logger.With().Str("repository", "order").Str("store", "mongodb").Logger(),
	}
}

func (r *mongoOrderRepository) Create(ctx context.Context, order *model.Order) error {
	id := primitive.NewObjectID()

	items := make([]orderItemDocument, len(order.Items))
	for i, it := range order.Items {
		items[i] = orderItemDocument{
			Product:     productRef(it.ProductID),
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			Size:        it.Size,
			Color:       it.Color,
			Price:       it.Price,
		}
	}

	doc := bson.M{
		"_id":             id,
		"customerName":    order.CustomerName,
		"customerPhone":   order.CustomerPhone,
		"customerAddress": order.CustomerAddress,
		"items":           items,
		"totalAmount":     order.TotalAmount,
		"deliveryFee":     order.DeliveryFee,
		"status":          order.Status,
		"createdAt":       order.CreatedAt,
		"updatedAt":       order.UpdatedAt,
	}

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		r.logger.Error().Err(err).Msg("failed to create order")
		return fmt.Errorf("failed to create order: %w", err)
	}

	order.ID = id.Hex()
	r.logger.Debug().Str("order_id", order.ID).Int("items", len(order.Items)).Msg("order created successfully")

	return nil
}

func (r *mongoOrderRepository) List(ctx context.Context) ([]model.Order, error) {
	cursor, err := r.collection.Find(ctx, bson.D{}, options.Find().SetSort(newestFirst))
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query orders")
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}

	var docs []orderDocument
	if err := cursor.All(ctx, &docs); err != nil {
		r.logger.Error().Err(err).Msg("failed to decode orders")
		return nil, fmt.Errorf("failed to decode orders: %w", err)
	}

	orders := make([]model.Order, len(docs))
	for i := range docs {
		orders[i] = docs[i].toModel()
	}
	return orders, nil
}

func (r *mongoOrderRepository) GetByID(ctx context.Context, id string) (*model.Order, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}

	var doc orderDocument
	if err := r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("order_id", id).Msg("failed to query order")
		return nil, fmt.Errorf("failed to query order: %w", err)
	}

	order := doc.toModel()
	return &order, nil
}

func (r *mongoOrderRepository) UpdateStatus(ctx context.Context, id string, status model.OrderStatus, updatedAt time.Time) (*model.Order, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}

	update := bson.M{"$set": bson.M{"status": status, "updatedAt": updatedAt}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc orderDocument
	if err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("order_id", id).Msg("failed to update order status")
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	order := doc.toModel()
	return &order, nil
}
