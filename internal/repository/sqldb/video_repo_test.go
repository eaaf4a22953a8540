package sqldb

import (
	"context"
	"fmt"
	"testing"

	"github.com/Amie-dev/cloudinary-saas/internal/config"
	"github.com/Amie-dev/cloudinary-saas/internal/domain"
	"github.com/Amie-dev/cloudinary-saas/internal/repository"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// setupTestDB opens a private in-memory SQLite database with migrations applied.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	cfg := config.DatabaseConfig{
		Driver: config.DriverSQLite,
		DSN:    fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()),
	}
	ctx := context.Background()

	conn, err := Open(ctx, cfg, nil)
	require.NoError(t, err, "open sqlite")
	require.NoError(t, Migrate(ctx, conn, cfg.Driver), "migrate sqlite")

	t.Cleanup(func() {
		if sqlDB, err := conn.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return conn
}

func newVideo(title string) *domain.Video {
	return &domain.Video{
		Title:          title,
		PublicID:       "video-upload/" + title,
		OriginalSize:   "10485760",
		CompressedSize: "5242880",
		Duration:       12.5,
	}
}

func TestVideoRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("Create assigns id and timestamp", func(t *testing.T) {
		repo := NewVideoRepository(setupTestDB(t))
		v := newVideo("demo")

		id, err := repo.Create(ctx, v)
		require.NoError(t, err)

		assert.NotEmpty(t, id)
		assert.Equal(t, id, v.ID)
		assert.False(t, v.CreatedAt.IsZero())
	})

	t.Run("Create rejects missing publicId", func(t *testing.T) {
		repo := NewVideoRepository(setupTestDB(t))

		_, err := repo.Create(ctx, &domain.Video{Title: "orphan"})
		assert.ErrorIs(t, err, repository.ErrInvalidRecord)
	})

	t.Run("GetByID round trips fields", func(t *testing.T) {
		repo := NewVideoRepository(setupTestDB(t))
		v := newVideo("clip")
		v.Description = domain.OptionalText("a clip")
		_, err := repo.Create(ctx, v)
		require.NoError(t, err)

		got, err := repo.GetByID(ctx, v.ID)
		require.NoError(t, err)

		assert.Equal(t, v.Title, got.Title)
		assert.Equal(t, v.PublicID, got.PublicID)
		assert.Equal(t, v.OriginalSize, got.OriginalSize)
		assert.Equal(t, v.CompressedSize, got.CompressedSize)
		assert.Equal(t, v.Duration, got.Duration)
		require.NotNil(t, got.Description)
		assert.Equal(t, "a clip", *got.Description)
	})

	t.Run("GetByID unknown", func(t *testing.T) {
		repo := NewVideoRepository(setupTestDB(t))

		_, err := repo.GetByID(ctx, uuid.NewString())
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("List empty store", func(t *testing.T) {
		repo := NewVideoRepository(setupTestDB(t))

		videos, err := repo.List(ctx)
		require.NoError(t, err)
		assert.NotNil(t, videos)
		assert.Empty(t, videos)
	})

	t.Run("List returns every created record", func(t *testing.T) {
		repo := NewVideoRepository(setupTestDB(t))

		want := map[string]bool{}
		for i := 0; i < 5; i++ {
			v := newVideo(fmt.Sprintf("v%d", i))
			_, err := repo.Create(ctx, v)
			require.NoError(t, err)
			want[v.ID] = true
		}

		first, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, first, 5)
		for _, v := range first {
			assert.True(t, want[v.ID], "unexpected id %s", v.ID)
			assert.Nil(t, v.Description)
		}

		second, err := repo.List(ctx)
		require.NoError(t, err)
		assert.ElementsMatch(t, ids(first), ids(second))
	})

	t.Run("Migrate is idempotent", func(t *testing.T) {
		conn := setupTestDB(t)
		assert.NoError(t, Migrate(ctx, conn, config.DriverSQLite))
	})

	t.Run("Ping", func(t *testing.T) {
		repo := NewVideoRepository(setupTestDB(t))
		assert.NoError(t, repo.Ping(ctx))
	})
}

func ids(videos []domain.Video) []string {
	out := make([]string, len(videos))
	for i, v := range videos {
		out[i] = v.ID
	}
	return out
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), config.DatabaseConfig{Driver: "oracle", DSN: "x"}, nil)
	assert.Error(t, err)
}
