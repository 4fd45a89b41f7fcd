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

type productDocument struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	Name          string             `bson:"name"`
	Description   string             `bson:"description"`
	Price         float64            `bson:"price"`
	Category      string             `bson:"category"`
	ImageURLs     []string           `bson:"imageUrls"`
	Colors        []string           `bson:"colors"`
	InStock       bool               `bson:"inStock"`
	StockQuantity int                `bson:"stockQuantity"`
	CreatedAt     time.Time          `bson:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt"`
}

func (d *productDocument) toModel() model.Product {
	return model.Product{
		ID:            d.ID.Hex(),
		Name:          d.Name,
		Description:   d.Description,
		Price:         d.Price,
		Category:      d.Category,
		ImageURLs:     nonNil(d.ImageURLs),
		Colors:        nonNil(d.Colors),
		InStock:       d.InStock,
		StockQuantity: d.StockQuantity,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
}

// objectIDs converts the well-formed hex ids and drops the rest.
func objectIDs(ids []string) []primitive.ObjectID {
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if oid, err := primitive.ObjectIDFromHex(id); err == nil {
			oids = append(oids, oid)
		}
	}
	return oids
}

var newestFirst = bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}

// mongoProductRepository implements ProductRepository on a MongoDB collection.
type mongoProductRepository struct {
	collection *mongo.Collection
	logger     zerolog.Logger
}

// NewMongoProductRepository creates a MongoDB-backed product repository.
func NewMongoProductRepository(db *mongo.Database, logger zerolog.Logger) ProductRepository {
	return &mongoProductRepository{
		collection: db.Collection(database.ProductsCollection),
		logger:     logger.With().Str("repository", "product").Str("store", "mongodb").Logger(),
	}
}

func (r *mongoProductRepository) find(ctx context.Context, filter any) ([]model.Product, error) {
	cursor, err := r.collection.Find(ctx, filter, options.Find().SetSort(newestFirst))
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query products")
		return nil, fmt.Errorf("failed to query products: %w", err)
	}

	var docs []productDocument
	if err := cursor.All(ctx, &docs); err != nil {
		r.logger.Error().Err(err).Msg("failed to decode products")
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}

	products := make([]model.Product, len(docs))
	for i := range docs {
		products[i] = docs[i].toModel()
	}
	return products, nil
}

func (r *mongoProductRepository) List(ctx context.Context) ([]model.Product, error) {
	return r.find(ctx, bson.D{})
}

func (r *mongoProductRepository) GetByID(ctx context.Context, id string) (*model.Product, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		r.logger.Debug().Str("product_id", id).Msg("malformed product id")
		return nil, nil
	}

	var doc productDocument
	if err := r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("product_id", id).Msg("failed to query product")
		return nil, fmt.Errorf("failed to query product: %w", err)
	}

	p := doc.toModel()
	return &p, nil
}

func (r *mongoProductRepository) GetByIDs(ctx context.Context, ids []string) ([]model.Product, error) {
	oids := objectIDs(ids)
	if len(oids) == 0 {
		return []model.Product{}, nil
	}
	return r.find(ctx, bson.M{"_id": bson.M{"$in": oids}})
}

func (r *mongoProductRepository) Create(ctx context.Context, p *model.Product) error {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = p.CreatedAt
	}

	doc := productDocument{
		ID:            primitive.NewObjectID(),
		Name:          p.Name,
		Description:   p.Description,
		Price:         p.Price,
		Category:      p.Category,
		ImageURLs:     nonNil(p.ImageURLs),
		Colors:        nonNil(p.Colors),
		InStock:       p.InStock,
		StockQuantity: p.StockQuantity,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		r.logger.Error().Err(err).Str("name", p.Name).Msg("failed to insert product")
		return fmt.Errorf("failed to insert product: %w", err)
	}

	p.ID = doc.ID.Hex()
	return nil
}

func (r *mongoProductRepository) Update(ctx context.Context, id string, update *model.ProductUpdate, updatedAt time.Time) (*model.Product, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}

	set := bson.M{"updatedAt": updatedAt}
	if update.Name != nil {
		set["name"] = *update.Name
	}
	if update.Description != nil {
		set["description"] = *update.Description
	}
	if update.Price != nil {
		set["price"] = *update.Price
	}
	if update.Category != nil {
		set["category"] = *update.Category
	}
	if update.ImageURLs != nil {
		set["imageUrls"] = nonNil(*update.ImageURLs)
	}
	if update.Colors != nil {
		set["colors"] = nonNil(*update.Colors)
	}
	if update.InStock != nil {
		set["inStock"] = *update.InStock
	}
	if update.StockQuantity != nil {
		set["stockQuantity"] = *update.StockQuantity
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc productDocument
	err = r.collection.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("product_id", id).Msg("failed to update product")
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	p := doc.toModel()
	return &p, nil
}

func (r *mongoProductRepository) Delete(ctx context.Context, id string) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, nil
	}

	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		r.logger.Error().Err(err).Str("product_id", id).Msg("failed to delete product")
		return false, fmt.Errorf("failed to delete product: %w", err)
	}

	return res.DeletedCount > 0, nil
}
