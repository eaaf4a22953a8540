package sqldb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Amie-dev/cloudinary-saas/internal/domain"
	"github.com/Amie-dev/cloudinary-saas/internal/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// videoRecord is the row shape of the videos table.
type videoRecord struct {
	ID             string    `gorm:"column:id;type:varchar(36);primaryKey"`
	Title          string    `gorm:"column:title;not null"`
	Description    *string   `gorm:"column:description"`
	PublicID       string    `gorm:"column:public_id;not null"`
	OriginalSize   string    `gorm:"column:original_size;not null"`
	CompressedSize string    `gorm:"column:compressed_size;not null"`
	Duration       float64   `gorm:"column:duration;not null"`
	CreatedAt      time.Time `gorm:"column:created_at;not null"`
}

func (videoRecord) TableName() string { return "videos" }

func (r *videoRecord) BeforeCreate(*gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

func (r *videoRecord) toDomain() domain.Video {
	return domain.Video{
		ID:             r.ID,
		Title:          r.Title,
		Description:    r.Description,
		PublicID:       r.PublicID,
		OriginalSize:   r.OriginalSize,
		CompressedSize: r.CompressedSize,
		Duration:       r.Duration,
		CreatedAt:      r.CreatedAt,
	}
}

// videoRepository implements repository.VideoRepository on GORM.
type videoRepository struct {
	db *gorm.DB
}

// NewVideoRepository creates a Video repository backed by a relational database.
func NewVideoRepository(db *gorm.DB) repository.VideoRepository {
	return &videoRepository{db: db}
}

// Create inserts a new row and writes the generated ID and timestamp back to video.
func (r *videoRepository) Create(ctx context.Context, video *domain.Video) (string, error) {
	if video == nil || video.PublicID == "" {
		return "", fmt.Errorf("%w: video requires a publicId", repository.ErrInvalidRecord)
	}

	rec := &videoRecord{
		Title:          video.Title,
		Description:    video.Description,
		PublicID:       video.PublicID,
		OriginalSize:   video.OriginalSize,
		CompressedSize: video.CompressedSize,
		Duration:       video.Duration,
		CreatedAt:      time.Now().UTC(),
	}
	if err := r.db.WithContext(ctx).Create(rec).Error; err != nil {
		return "", fmt.Errorf("insert video: %w", err)
	}

	video.ID = rec.ID
	video.CreatedAt = rec.CreatedAt
	return rec.ID, nil
}

// List returns every row in the database's natural order.
func (r *videoRepository) List(ctx context.Context) ([]domain.Video, error) {
	var rows []videoRecord
	if err := r.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list videos: %w", err)
	}

	videos := make([]domain.Video, 0, len(rows))
	for i := range rows {
		videos = append(videos, rows[i].toDomain())
	}
	return videos, nil
}

func (r *videoRepository) GetByID(ctx context.Context, id string) (*domain.Video, error) {
	var rec videoRecord
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("get video %s: %w", id, err)
	}
	v := rec.toDomain()
	return &v, nil
}

func (r *videoRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (r *videoRepository) Close(context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
