package model

import "time"

const (
	// MaxProductImages caps the number of images stored on a product.
	MaxProductImages = 5
	// MaxImageSize is the per-image upload limit in bytes.
	MaxImageSize = 5 << 20
)

// DefaultColors is applied when a product is created without colours.
var DefaultColors = []string{"Black", "White", "Gray", "Navy", "Green"}

// Product represents a clothing item in the catalogue.
type Product struct {
	ID            string    `json:"id" db:"id"`
	Name          string    `json:"name" db:"name"`
	Description   string    `json:"description" db:"description"`
	Price         float64   `json:"price" db:"price"`
	Category      string    `json:"category" db:"category"`
	ImageURLs     []string  `json:"imageUrls" db:"image_urls"`
	Colors        []string  `json:"colors" db:"colors"`
	InStock       bool      `json:"inStock" db:"in_stock"`
	StockQuantity int       `json:"stockQuantity" db:"stock_quantity"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time `json:"updatedAt" db:"updated_at"`
}

// ProductInput carries the fields of a new product after form decoding.
// Price is nil when the field was not supplied.
type ProductInput struct {
	Name          string
	Description   string
	Price         *float64
	Category      string
	Colors        []string
	InStock       *bool
	StockQuantity *int
}

// ProductUpdate is a partial update; nil fields are left unchanged.
type ProductUpdate struct {
	Name          *string
	Description   *string
	Price         *float64
	Category      *string
	Colors        *[]string
	InStock       *bool
	StockQuantity *int
	// ExistingImages is the client's list of images to keep, nil when not sent.
	ExistingImages *[]string
	// ImageURLs is resolved by the service from ExistingImages and new uploads.
	ImageURLs *[]string
}

// ImageUpload is one uploaded image part as declared by the client.
type ImageUpload struct {
	Filename    string
	ContentType string
	Data        []byte
}
