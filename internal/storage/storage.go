package storage

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/Amie-dev/cloudinary-saas/internal/domain"
)

// Default expiry duration for presigned URLs
const DefaultPresignedURLExpiry = 15 * time.Minute

// Error constants for storage layer
var (
	// ErrNotConfigured is returned by every operation of a backend that is missing credentials.
	ErrNotConfigured = errors.New("media service credentials not found")
	ErrAssetNotFound = errors.New("asset not found in media service")
)

// UploadParams describes where an upload lands.
type UploadParams struct {
	Folder       string
	ResourceType domain.ResourceType
	// FileName is the client-side name of the file. Optional.
	FileName string
}

// Asset is what the media service reports back for an accepted upload.
type Asset struct {
	PublicID     string
	Bytes        int64
	Duration     float64
	Format       string
	ResourceType domain.ResourceType
	SecureURL    string
}

// Transformation is a delivery-time rendition: a transformation string and the
// output extension. Zero value means the original asset.
type Transformation struct {
	Params string
	Format string
}

// MediaStorage defines the interface for the external media service.
type MediaStorage interface {
	// Upload sends the whole body to the media service and waits for it to accept it.
	Upload(ctx context.Context, body io.Reader, params UploadParams) (*Asset, error)

	// Delete removes an asset. Used to clean up orphans after a failed store write.
	Delete(ctx context.Context, publicID string, resourceType domain.ResourceType) error

	// RenditionURL returns a URL the browser can fetch the transformed asset from.
	RenditionURL(ctx context.Context, publicID string, resourceType domain.ResourceType, t Transformation) (string, error)

	// Configured reports whether the backend holds the credentials it needs.
	Configured() bool
}
