package service

import (
	"context"
	"math"
	"strings"
	"time"

	"clothing-store/internal/metrics"
	"clothing-store/internal/model"
	"clothing-store/internal/repository"

	"github.com/rs/zerolog"
)

// productService implements ProductService.
type productService struct {
	repo   repository.ProductRepository
	logger zerolog.Logger
}

// NewProductService creates a new product service.
func NewProductService(repo repository.ProductRepository, logger zerolog.Logger) ProductService {
	return &productService{
		repo:   repo,
		logger: logger.With().Str("service", "product").Logger(),
	}
}

// List retrieves all products, newest first.
func (s *productService) List(ctx context.Context) ([]model.Product, error) {
	products, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list products")
		return nil, model.NewStorageError("Error fetching products", err)
	}

	s.logger.Debug().Int("count", len(products)).Msg("retrieved products")

	return products, nil
}

// GetByID retrieves a single product by ID.
func (s *productService) GetByID(ctx context.Context, id string) (*model.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("product_id", id).Msg("failed to get product")
		return nil, model.NewStorageError("Error fetching product", err)
	}

	if product == nil {
		s.logger.Debug().Str("product_id", id).Msg("product not found")
		return nil, model.ErrProductNotFound
	}

	return product, nil
}

func validPrice(p float64) bool {
	return p >= 0 && !math.IsNaN(p) && !math.IsInf(p, 0)
}

// Create validates input, encodes images and stores a new product.
func (s *productService) Create(ctx context.Context, input *model.ProductInput, images []model.ImageUpload) (*model.Product, error) {
	if input == nil {
		return nil, model.ErrMissingProductFields
	}

	name := strings.TrimSpace(input.Name)
	description := strings.TrimSpace(input.Description)
	category := strings.TrimSpace(input.Category)

	if name == "" || description == "" || category == "" || input.Price == nil {
		return nil, model.ErrMissingProductFields
	}

	if !validPrice(*input.Price) {
		return nil, model.ErrInvalidPrice
	}

	stock := 0
	if input.StockQuantity != nil {
		if *input.StockQuantity < 0 {
			return nil, model.ErrInvalidStock
		}
		stock = *input.StockQuantity
	}

	inStock := true
	if input.InStock != nil {
		inStock = *input.InStock
	}

	colors := normalizeList(input.Colors)
	if len(colors) == 0 {
		colors = append([]string(nil), model.DefaultColors...)
	}

	if len(images) > model.MaxProductImages {
		s.logger.Warn().Int("uploaded", len(images)).Msg("ignoring images beyond the product limit")
		images = images[:model.MaxProductImages]
	}

	imageURLs, err := encodeImages(images)
	if err != nil {
		s.logger.Warn().Err(err).Msg("rejected product images")
		return nil, err
	}

	now := time.Now().UTC()
	product := &model.Product{
		Name:          name,
		Description:   description,
		Price:         *input.Price,
		Category:      category,
		ImageURLs:     imageURLs,
		Colors:        colors,
		InStock:       inStock,
		StockQuantity: stock,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.repo.Create(ctx, product); err != nil {
		s.logger.Error().Err(err).Str("name", name).Msg("failed to create product")
		return nil, model.NewStorageError("Error creating product", err)
	}

	metrics.ProductImagesStored.Add(float64(len(imageURLs)))

	s.logger.Info().
		Str("product_id", product.ID).
		Int("images", len(imageURLs)).
		Msg("product created")

	return product, nil
}

// Update applies a partial update. New uploads are appended to the kept
// images (or replace the list when none are declared); a kept list alone
// replaces the stored one. The result is capped at MaxProductImages.
func (s *productService) Update(ctx context.Context, id string, update *model.ProductUpdate, images []model.ImageUpload) (*model.Product, error) {
	if update == nil {
		update = &model.ProductUpdate{}
	}

	if update.Price != nil && !validPrice(*update.Price) {
		return nil, model.ErrInvalidPrice
	}

	if update.StockQuantity != nil && *update.StockQuantity < 0 {
		return nil, model.ErrInvalidStock
	}

	for _, field := range []*string{update.Name, update.Description, update.Category} {
		if field != nil {
			*field = strings.TrimSpace(*field)
			if *field == "" {
				return nil, model.ErrMissingProductFields
			}
		}
	}

	if update.Colors != nil {
		colors := normalizeList(*update.Colors)
		update.Colors = &colors
	}

	var kept []string
	if update.ExistingImages != nil {
		kept = normalizeList(*update.ExistingImages)
	}

	switch {
	case len(images) > 0:
		if len(images) > model.MaxProductImages {
			s.logger.Warn().Int("uploaded", len(images)).Msg("ignoring images beyond the product limit")
			images = images[:model.MaxProductImages]
		}

		added, err := encodeImages(images)
		if err != nil {
			s.logger.Warn().Err(err).Str("product_id", id).Msg("rejected product images")
			return nil, err
		}

		merged := capImages(append(kept, added...))
		update.ImageURLs = &merged
		metrics.ProductImagesStored.Add(float64(len(added)))

	case update.ExistingImages != nil:
		kept = capImages(kept)
		update.ImageURLs = &kept
	}

	product, err := s.repo.Update(ctx, id, update, time.Now().UTC())
	if err != nil {
		s.logger.Error().Err(err).Str("product_id", id).Msg("failed to update product")
		return nil, model.NewStorageError("Error updating product", err)
	}

	if product == nil {
		return nil, model.ErrProductNotFound
	}

	s.logger.Info().Str("product_id", id).Int("images", len(product.ImageURLs)).Msg("product updated")

	return product, nil
}

// Delete removes a product. Orders referencing it are left untouched.
func (s *productService) Delete(ctx context.Context, id string) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("product_id", id).Msg("failed to delete product")
		return model.NewStorageError("Error deleting product", err)
	}

	if !deleted {
		return model.ErrProductNotFound
	}

	s.logger.Info().Str("product_id", id).Msg("product deleted")

	return nil
}
