package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Amie-dev/cloudinary-saas/internal/config"
	"github.com/Amie-dev/cloudinary-saas/internal/domain"
	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/cloudinary/cloudinary-go/v2/asset"
	cldconfig "github.com/cloudinary/cloudinary-go/v2/config"
)

// cloudinaryStorage implements MediaStorage on top of the Cloudinary SDK.
type cloudinaryStorage struct {
	cfg config.CloudinaryConfig
	cld *cloudinary.Cloudinary
}

// NewCloudinaryStorage creates a Cloudinary backed media service client.
// A zero timeout leaves upload requests without a deadline of their own.
func NewCloudinaryStorage(cfg config.CloudinaryConfig, timeout time.Duration) (MediaStorage, error) {
	conf, err := cldconfig.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("cloudinary config: %w", err)
	}
	if cfg.APIBase != "" {
		conf.API.UploadPrefix = strings.TrimRight(cfg.APIBase, "/")
	}
	if cfg.DeliveryBase != "" {
		u, err := url.Parse(cfg.DeliveryBase)
		if err != nil || u.Host == "" {
			return nil, fmt.Errorf("cloudinary delivery_base %q is not an absolute URL", cfg.DeliveryBase)
		}
		conf.URL.SharedHost = u.Host
	}
	// Plain, stable delivery URLs: no forced v1 segment, no analytics query.
	conf.URL.ForceVersion = false
	conf.URL.Analytics = false

	cld, err := cloudinary.NewFromConfiguration(*conf)
	if err != nil {
		return nil, fmt.Errorf("cloudinary client: %w", err)
	}
	cld.Upload.Client = http.Client{Timeout: timeout}

	return &cloudinaryStorage{cfg: cfg, cld: cld}, nil
}

func (s *cloudinaryStorage) Configured() bool {
	return s.cfg.Configured()
}

// Upload sends the file as a signed upload into params.Folder.
func (s *cloudinaryStorage) Upload(ctx context.Context, body io.Reader, params UploadParams) (*Asset, error) {
	if !s.Configured() {
		return nil, ErrNotConfigured
	}

	res, err := s.cld.Upload.Upload(ctx, body, uploader.UploadParams{
		Folder:       params.Folder,
		ResourceType: string(params.ResourceType),
	})
	if err != nil {
		return nil, fmt.Errorf("cloudinary upload: %w", err)
	}
	if res.Error.Message != "" {
		return nil, fmt.Errorf("cloudinary upload: %s", res.Error.Message)
	}
	if res.PublicID == "" {
		return nil, errors.New("cloudinary upload: response has no public_id")
	}

	rt := domain.ResourceType(res.ResourceType)
	if rt == "" {
		rt = params.ResourceType
	}
	return &Asset{
		PublicID:     res.PublicID,
		Bytes:        int64(res.Bytes),
		Duration:     responseDuration(res.Response),
		Format:       res.Format,
		ResourceType: rt,
		SecureURL:    res.SecureURL,
	}, nil
}

// Delete destroys an asset by public id.
func (s *cloudinaryStorage) Delete(ctx context.Context, publicID string, resourceType domain.ResourceType) error {
	if !s.Configured() {
		return ErrNotConfigured
	}

	res, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID:     publicID,
		ResourceType: string(resourceType),
	})
	if err != nil {
		return fmt.Errorf("cloudinary destroy: %w", err)
	}
	if res.Error.Message != "" {
		return fmt.Errorf("cloudinary destroy: %s", res.Error.Message)
	}

	switch res.Result {
	case "ok":
		return nil
	case "not found":
		return fmt.Errorf("%w: %s", ErrAssetNotFound, publicID)
	default:
		return fmt.Errorf("cloudinary destroy: unexpected result %q", res.Result)
	}
}

// RenditionURL builds a delivery URL. Only the cloud name is needed for it.
func (s *cloudinaryStorage) RenditionURL(_ context.Context, publicID string, resourceType domain.ResourceType, t Transformation) (string, error) {
	if s.cfg.CloudName == "" {
		return "", ErrNotConfigured
	}

	source := publicID
	if t.Format != "" {
		source += "." + t.Format
	}

	var (
		a   *asset.Asset
		err error
	)
	if resourceType == domain.ResourceVideo {
		a, err = s.cld.Video(source)
	} else {
		a, err = s.cld.Image(source)
	}
	if err != nil {
		return "", fmt.Errorf("cloudinary asset %s: %w", publicID, err)
	}
	a.Transformation = t.Params

	return a.String()
}

// responseDuration reads "duration" from the raw upload response; the typed
// result has no field for it. Images carry none and yield 0.
func responseDuration(raw interface{}) float64 {
	var fields map[string]interface{}
	switch v := raw.(type) {
	case map[string]interface{}:
		fields = v
	case *map[string]interface{}:
		if v != nil {
			fields = *v
		}
	}
	d, _ := fields["duration"].(float64)
	return d
}
