package utils

import (
	"errors"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

const MaxImageSize = 5 << 20

var (
	ErrImageTooLarge = errors.New("file size exceeds maximum allowed size")
	ErrImageType     = errors.New("invalid file type, only images are allowed")
)

var allowedImageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// ValidateImage checks an uploaded product image before it is sent to storage.
func ValidateImage(header *multipart.FileHeader, maxSize int64) error {
	if maxSize <= 0 {
		maxSize = MaxImageSize
	}
	if header.Size > maxSize {
		return ErrImageTooLarge
	}
	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedImageExtensions[ext] {
		return ErrImageType
	}
	return nil
}

var unsafeNameChars = regexp.MustCompile(`[^a-z0-9-]+`)

// ImageName is the storage name of a new image for a product slug.
func ImageName(slug string, now time.Time) string {
	name := unsafeNameChars.ReplaceAllString(strings.ToLower(slug), "_")
	if name == "" || name == "_" {
		name = "product"
	}
	return fmt.Sprintf("%s_%d", name, now.Unix())
}
