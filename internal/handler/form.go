package handler

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"clothing-store/internal/model"

	"github.com/goccy/go-json"
)

const (
	// imagesField is the multipart file field carrying product images.
	imagesField = "images"
	// maxUploadBody bounds a product form, leaving room for uploads beyond the
	// kept limit so they can be ignored instead of failing the request.
	maxUploadBody = 2*model.MaxProductImages*model.MaxImageSize + 1<<20
	// maxFormMemory is held in memory before parts spill to temp files.
	maxFormMemory = 32 << 20
)

// productForm is a parsed product request.
type productForm struct {
	values url.Values
	images []model.ImageUpload
	// ignored counts uploaded images beyond MaxProductImages.
	ignored int
}

// parseProductForm accepts multipart and urlencoded bodies.
func parseProductForm(w http.ResponseWriter, r *http.Request) (*productForm, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBody)

	err := r.ParseMultipartForm(maxFormMemory)
	if errors.Is(err, http.ErrNotMultipart) {
		err = r.ParseForm()
	}
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, model.ErrImageTooLarge.Wrap(err)
		}
		return nil, model.ErrInvalidRequestBody.Wrap(err)
	}

	form := &productForm{values: r.PostForm}
	if r.MultipartForm != nil {
		headers := r.MultipartForm.File[imagesField]
		if len(headers) > model.MaxProductImages {
			form.ignored = len(headers) - model.MaxProductImages
			headers = headers[:model.MaxProductImages]
		}
		images, err := readImages(headers)
		if err != nil {
			return nil, err
		}
		form.images = images
	}
	return form, nil
}

// readImages loads the uploaded parts. Each read stops one byte past the size
// limit so oversized files are detected without buffering them.
func readImages(headers []*multipart.FileHeader) ([]model.ImageUpload, error) {
	images := make([]model.ImageUpload, 0, len(headers))
	for _, fh := range headers {
		if fh.Size > model.MaxImageSize {
			return nil, model.ErrImageTooLarge.Wrap(fmt.Errorf("%q is %d bytes", fh.Filename, fh.Size))
		}

		f, err := fh.Open()
		if err != nil {
			return nil, model.ErrInvalidRequestBody.Wrap(err)
		}
		data, err := io.ReadAll(io.LimitReader(f, model.MaxImageSize+1))
		f.Close()
		if err != nil {
			return nil, model.ErrInvalidRequestBody.Wrap(err)
		}

		images = append(images, model.ImageUpload{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Data:        data,
		})
	}
	return images, nil
}

// text returns the trimmed value of key and whether it carried anything.
func (f *productForm) text(key string) (string, bool) {
	v := strings.TrimSpace(f.values.Get(key))
	return v, v != ""
}

func (f *productForm) price() (*float64, error) {
	v, ok := f.text("price")
	if !ok {
		return nil, nil
	}
	p, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil, model.ErrInvalidPrice.Wrap(err)
	}
	return &p, nil
}

func (f *productForm) stockQuantity() (*int, error) {
	v, ok := f.text("stockQuantity")
	if !ok {
		return nil, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil, model.ErrInvalidStock.Wrap(err)
	}
	return &n, nil
}

// inStock is true only for the literal "true"; anything else sent is false.
func (f *productForm) inStock() *bool {
	if _, present := f.values["inStock"]; !present {
		return nil
	}
	v := strings.TrimSpace(f.values.Get("inStock")) == "true"
	return &v
}

// list decodes a list field. Repeated fields are the list as sent. A single
// value starting with "[" must be a JSON array of strings. Otherwise the value
// is split on commas when splitCommas is set, or taken as one entry.
func (f *productForm) list(key string, splitCommas bool) (*[]string, error) {
	values, present := f.values[key]
	if !present {
		return nil, nil
	}

	if len(values) != 1 {
		out := append([]string(nil), values...)
		return &out, nil
	}

	v := strings.TrimSpace(values[0])
	switch {
	case strings.HasPrefix(v, "["):
		var out []string
		if err := json.Unmarshal([]byte(v), &out); err != nil {
			return nil, model.ErrInvalidListField.Wrap(fmt.Errorf("%s: %w", key, err))
		}
		if out == nil {
			out = []string{}
		}
		return &out, nil
	case v == "":
		out := []string{}
		return &out, nil
	case splitCommas:
		out := strings.Split(v, ",")
		return &out, nil
	default:
		out := []string{v}
		return &out, nil
	}
}

// productInput builds a creation request from the form.
func (f *productForm) productInput() (*model.ProductInput, error) {
	price, err := f.price()
	if err != nil {
		return nil, err
	}
	stock, err := f.stockQuantity()
	if err != nil {
		return nil, err
	}
	colors, err := f.list("colors", true)
	if err != nil {
		return nil, err
	}

	input := &model.ProductInput{
		Name:          f.values.Get("name"),
		Description:   f.values.Get("description"),
		Price:         price,
		Category:      f.values.Get("category"),
		InStock:       f.inStock(),
		StockQuantity: stock,
	}
	if colors != nil {
		input.Colors = *colors
	}
	return input, nil
}

// productUpdate builds a partial update. Blank text fields count as not sent.
func (f *productForm) productUpdate() (*model.ProductUpdate, error) {
	price, err := f.price()
	if err != nil {
		return nil, err
	}
	stock, err := f.stockQuantity()
	if err != nil {
		return nil, err
	}
	colors, err := f.list("colors", true)
	if err != nil {
		return nil, err
	}
	existing, err := f.list("existingImages", false)
	if err != nil {
		return nil, err
	}

	update := &model.ProductUpdate{
		Price:          price,
		Colors:         colors,
		InStock:        f.inStock(),
		StockQuantity:  stock,
		ExistingImages: existing,
	}
	if v, ok := f.text("name"); ok {
		update.Name = &v
	}
	if v, ok := f.text("description"); ok {
		update.Description = &v
	}
	if v, ok := f.text("category"); ok {
		update.Category = &v
	}
	return update, nil
}
