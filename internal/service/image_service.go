package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/Amie-dev/cloudinary-saas/internal/domain"
	"github.com/Amie-dev/cloudinary-saas/internal/logger"
	"github.com/Amie-dev/cloudinary-saas/internal/metrics"
	"github.com/Amie-dev/cloudinary-saas/internal/storage"
)

// SocialImage is one social preset with the rendition URL for a given image.
type SocialImage struct {
	domain.SocialFormat
	URL string `json:"url"`
}

type ImageService interface {
	// UploadImage stores an image for the social share tool. Nothing is persisted locally.
	UploadImage(ctx context.Context, fileName string, body io.Reader) (string, error)
	SocialImages(ctx context.Context, publicID string) ([]SocialImage, error)
}

type imageService struct {
	media   storage.MediaStorage
	metrics *metrics.UploadMetrics
	log     *logger.Logger
	folder  string
}

func NewImageService(media storage.MediaStorage, uploadMetrics *metrics.UploadMetrics, log *logger.Logger, folder string) ImageService {
	if log == nil {
		log = logger.Nop()
	}
	return &imageService{
		media:   media,
		metrics: uploadMetrics,
		log:     log,
		folder:  folder,
	}
}

func (s *imageService) UploadImage(ctx context.Context, fileName string, body io.Reader) (string, error) {
	if body == nil {
		return "", ErrFileMissing
	}

	start := time.Now()
	asset, err := s.media.Upload(ctx, body, storage.UploadParams{
		Folder:       s.folder,
		ResourceType: domain.ResourceImage,
		FileName:     fileName,
	})
	s.metrics.ObserveUpload(string(domain.ResourceImage), time.Since(start), err)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrMediaUpload, err)
	}

	s.log.Info(s.log.WithField(ctx, "public_id", asset.PublicID), "image accepted by media service")
	return asset.PublicID, nil
}

func (s *imageService) SocialImages(ctx context.Context, publicID string) ([]SocialImage, error) {
	out := make([]SocialImage, 0, len(domain.SocialFormats))
	for _, f := range domain.SocialFormats {
		url, err := s.media.RenditionURL(ctx, publicID, domain.ResourceImage, storage.SocialRendition(f.Width, f.Height))
		if err != nil {
			return nil, err
		}
		out = append(out, SocialImage{SocialFormat: f, URL: url})
	}
	return out, nil
}
