package libs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

const (
	imageFolder        = "pastry"
	deliveryTransforms = "q_auto,f_auto"
)

var ErrCloudinaryDisabled = errors.New("cloudinary is not configured")

// Cloudinary builds delivery URLs for catalog images and uploads new ones.
// A zero Cloudinary (no CLOUDINARY_URL) resolves no URLs and refuses uploads.
type Cloudinary struct {
	cld *cloudinary.Cloudinary
}

func NewCloudinary(cloudinaryURL string) (*Cloudinary, error) {
	if cloudinaryURL == "" {
		return &Cloudinary{}, nil
	}
	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return nil, fmt.Errorf("cloudinary init from URL: %w", err)
	}
	cld.Config.URL.Secure = true
	return &Cloudinary{cld: cld}, nil
}

func (c *Cloudinary) Enabled() bool {
	return c != nil && c.cld != nil
}

// URL returns the delivery URL of an image public id. Absolute URLs are
// returned untouched.
func (c *Cloudinary) URL(publicID string) string {
	if publicID == "" {
		return ""
	}
	if strings.HasPrefix(publicID, "http://") || strings.HasPrefix(publicID, "https://") {
		return publicID
	}
	if !c.Enabled() {
		return ""
	}

	img, err := c.cld.Image(publicID)
	if err != nil {
		return ""
	}
	img.Transformation = deliveryTransforms
	url, err := img.String()
	if err != nil {
		return ""
	}
	return url
}

// Upload stores an image under the shop folder and returns its public id.
func (c *Cloudinary) Upload(ctx context.Context, file io.Reader, name string) (string, error) {
	if !c.Enabled() {
		return "", ErrCloudinaryDisabled
	}

	resp, err := c.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		PublicID: name,
		Folder:   imageFolder,
	})
	if err != nil {
		return "", fmt.Errorf("cloudinary upload: %w", err)
	}
	if resp.Error.Message != "" {
		return "", fmt.Errorf("cloudinary upload: %s", resp.Error.Message)
	}
	if resp.PublicID == "" {
		return "", fmt.Errorf("cloudinary upload: empty response")
	}
	return resp.PublicID, nil
}

func (c *Cloudinary) Delete(ctx context.Context, publicID string) error {
	if !c.Enabled() {
		return ErrCloudinaryDisabled
	}

	result, err := c.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	if err != nil {
		return fmt.Errorf("cloudinary destroy %s: %w", publicID, err)
	}
	if result.Result != "ok" && result.Result != "not found" {
		return fmt.Errorf("cloudinary destroy %s: %s", publicID, result.Result)
	}
	return nil
}
