package service

import (
	"encoding/base64"
	"fmt"
	"mime"
	"path/filepath"
	"strings"

	"clothing-store/internal/model"
)

var allowedImageExtensions = map[string]bool{
	".jpeg": true,
	".jpg":  true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// imageMediaType returns the declared media type without parameters, lower-cased.
func imageMediaType(contentType string) string {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(contentType))
	}
	return mediaType
}

// validateImage checks both the declared extension and the declared MIME type.
func validateImage(img model.ImageUpload) error {
	ext := strings.ToLower(filepath.Ext(img.Filename))
	mediaType := imageMediaType(img.ContentType)

	if !allowedImageExtensions[ext] || !allowedImageTypes[mediaType] {
		return model.ErrInvalidImage.Wrap(fmt.Errorf("rejected %q with type %q", img.Filename, img.ContentType))
	}

	if len(img.Data) > model.MaxImageSize {
		return model.ErrImageTooLarge.Wrap(fmt.Errorf("%q is %d bytes", img.Filename, len(img.Data)))
	}

	return nil
}

// imageDataURL encodes img as data:<mime>;base64,<payload>.
func imageDataURL(img model.ImageUpload) string {
	return "data:" + imageMediaType(img.ContentType) + ";base64," + base64.StdEncoding.EncodeToString(img.Data)
}

// encodeImages validates every upload before encoding any; one bad file rejects all.
func encodeImages(images []model.ImageUpload) ([]string, error) {
	for _, img := range images {
		if err := validateImage(img); err != nil {
			return nil, err
		}
	}

	urls := make([]string, len(images))
	for i, img := range images {
		urls[i] = imageDataURL(img)
	}
	return urls, nil
}

func capImages(urls []string) []string {
	if len(urls) > model.MaxProductImages {
		return urls[:model.MaxProductImages]
	}
	return urls
}

// normalizeList trims entries and drops empty ones.
func normalizeList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
