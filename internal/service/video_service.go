package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/Amie-dev/cloudinary-saas/internal/config"
	"github.com/Amie-dev/cloudinary-saas/internal/domain"
	"github.com/Amie-dev/cloudinary-saas/internal/logger"
	"github.com/Amie-dev/cloudinary-saas/internal/metrics"
	"github.com/Amie-dev/cloudinary-saas/internal/repository"
	"github.com/Amie-dev/cloudinary-saas/internal/storage"
)

// --- Error Definitions ---
var (
	ErrFileMissing   = errors.New("no file uploaded")
	ErrMediaUpload   = errors.New("media service upload failed")
	ErrVideoPersist  = errors.New("video metadata could not be saved")
	ErrVideoNotFound = errors.New("video not found")
)

// compensationTimeout bounds the cleanup call made after the request has already failed.
const compensationTimeout = 15 * time.Second

// UploadVideoInput is the parsed multipart form of a video upload.
type UploadVideoInput struct {
	Title        string
	Description  string
	OriginalSize string
	FileName     string
	Data         []byte
}

// VideoDetail is a stored video plus the rendition URLs the UI needs.
type VideoDetail struct {
	Video                 domain.Video `json:"video"`
	ThumbnailURL          string       `json:"thumbnailUrl"`
	PreviewURL            string       `json:"previewUrl"`
	StreamURL             string       `json:"streamUrl"`
	CompressionPercentage int          `json:"compressionPercentage"`
}

type VideoService interface {
	// UploadVideo sends the file to the media service, then records its metadata.
	UploadVideo(ctx context.Context, in UploadVideoInput) (*domain.Video, error)
	ListVideos(ctx context.Context) ([]domain.Video, error)
	// ListVideoDetails is ListVideos with renditions resolved, for the dashboard grid.
	ListVideoDetails(ctx context.Context) ([]VideoDetail, error)
	GetVideo(ctx context.Context, id string) (*VideoDetail, error)
}

// videoService implements the VideoService interface.
type videoService struct {
	videos       repository.VideoRepository
	media        storage.MediaStorage
	metrics      *metrics.UploadMetrics
	log          *logger.Logger
	folder       string
	compensation string
}

// NewVideoService creates a new instance of videoService.
func NewVideoService(
	videos repository.VideoRepository,
	media storage.MediaStorage,
	uploadMetrics *metrics.UploadMetrics,
	log *logger.Logger,
	cfg config.MediaConfig,
) VideoService {
	if log == nil {
		log = logger.Nop()
	}
	compensation := cfg.Compensation
	if compensation == "" {
		compensation = config.CompensationNone
	}
	return &videoService{
		videos:       videos,
		media:        media,
		metrics:      uploadMetrics,
		log:          log,
		folder:       cfg.VideoFolder,
		compensation: compensation,
	}
}

func (s *videoService) UploadVideo(ctx context.Context, in UploadVideoInput) (*domain.Video, error) {
	if in.Data == nil {
		return nil, ErrFileMissing
	}

	start := time.Now()
	asset, err := s.media.Upload(ctx, bytes.NewReader(in.Data), storage.UploadParams{
		Folder:       s.folder,
		ResourceType: domain.ResourceVideo,
		FileName:     in.FileName,
	})
	s.metrics.ObserveUpload(string(domain.ResourceVideo), time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMediaUpload, err)
	}

	ctx = s.log.WithField(ctx, "public_id", asset.PublicID)
	s.log.Info(ctx, "video accepted by media service")

	originalSize := in.OriginalSize
	if originalSize == "" {
		originalSize = strconv.Itoa(len(in.Data))
	}

	video := &domain.Video{
		Title:          in.Title,
		Description:    domain.OptionalText(in.Description),
		PublicID:       asset.PublicID,
		OriginalSize:   originalSize,
		CompressedSize: strconv.FormatInt(asset.Bytes, 10),
		Duration:       asset.Duration,
	}
	if _, err := s.videos.Create(ctx, video); err != nil {
		s.compensate(ctx, asset)
		return nil, fmt.Errorf("%w: %w", ErrVideoPersist, err)
	}

	return video, nil
}

// compensate handles the remote asset left behind by a failed store write.
// The request is already failing, so this runs on a detached context.
func (s *videoService) compensate(ctx context.Context, asset *storage.Asset) {
	if s.compensation == config.CompensationNone {
		s.log.Warn(ctx, "store write failed; orphaned media asset left in place")
		s.metrics.IncCompensation(s.compensation, "skipped")
		return
	}

	cleanupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), compensationTimeout)
	defer cancel()

	if err := s.media.Delete(cleanupCtx, asset.PublicID, asset.ResourceType); err != nil {
		s.log.Error(ctx, "failed to delete orphaned media asset", err)
		s.metrics.IncCompensation(s.compensation, metrics.OutcomeFailure)
		return
	}
	s.log.Info(ctx, "deleted orphaned media asset")
	s.metrics.IncCompensation(s.compensation, metrics.OutcomeSuccess)
}

func (s *videoService) ListVideos(ctx context.Context) ([]domain.Video, error) {
	videos, err := s.videos.List(ctx)
	if err != nil {
		return nil, err
	}
	if videos == nil {
		videos = []domain.Video{}
	}
	return videos, nil
}

func (s *videoService) ListVideoDetails(ctx context.Context) ([]VideoDetail, error) {
	videos, err := s.ListVideos(ctx)
	if err != nil {
		return nil, err
	}

	details := make([]VideoDetail, 0, len(videos))
	for _, v := range videos {
		d, err := s.detail(ctx, v)
		if err != nil {
			return nil, err
		}
		details = append(details, *d)
	}
	return details, nil
}

func (s *videoService) GetVideo(ctx context.Context, id string) (*VideoDetail, error) {
	video, err := s.videos.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrVideoNotFound
		}
		return nil, err
	}
	return s.detail(ctx, *video)
}

func (s *videoService) detail(ctx context.Context, v domain.Video) (*VideoDetail, error) {
	d := &VideoDetail{Video: v, CompressionPercentage: v.CompressionPercentage()}

	var err error
	if d.ThumbnailURL, err = s.media.RenditionURL(ctx, v.PublicID, domain.ResourceVideo, storage.ThumbnailRendition); err != nil {
		return nil, err
	}
	if d.PreviewURL, err = s.media.RenditionURL(ctx, v.PublicID, domain.ResourceVideo, storage.PreviewRendition); err != nil {
		return nil, err
	}
	if d.StreamURL, err = s.media.RenditionURL(ctx, v.PublicID, domain.ResourceVideo, storage.StreamRendition); err != nil {
		return nil, err
	}
	return d, nil
}
