package service

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/Amie-dev/cloudinary-saas/internal/domain"
	"github.com/Amie-dev/cloudinary-saas/internal/repository"
	"github.com/Amie-dev/cloudinary-saas/internal/storage"
)

type fakeVideoRepo struct {
	mu        sync.Mutex
	videos    []domain.Video
	createErr error
	listErr   error
	creates   int
}

func (r *fakeVideoRepo) Create(_ context.Context, v *domain.Video) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.creates++
	if r.createErr != nil {
		return "", r.createErr
	}
	v.ID = fmt.Sprintf("vid-%d", len(r.videos)+1)
	r.videos = append(r.videos, *v)
	return v.ID, nil
}

func (r *fakeVideoRepo) List(context.Context) ([]domain.Video, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	return append([]domain.Video(nil), r.videos...), nil
}

func (r *fakeVideoRepo) GetByID(_ context.Context, id string) (*domain.Video, error) {
	for i := range r.videos {
		if r.videos[i].ID == id {
			v := r.videos[i]
			return &v, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeVideoRepo) Ping(context.Context) error  { return nil }
func (r *fakeVideoRepo) Close(context.Context) error { return nil }

type fakeMedia struct {
	mu              sync.Mutex
	asset           storage.Asset
	uploadErr       error
	deleteErr       error
	uploads         []storage.UploadParams
	uploadBody      [][]byte
	deletes         []string
	deleteErrAtCall error
}

func (m *fakeMedia) Upload(_ context.Context, body io.Reader, params storage.UploadParams) (*storage.Asset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, _ := io.ReadAll(body)
	m.uploads = append(m.uploads, params)
	m.uploadBody = append(m.uploadBody, data)
	if m.uploadErr != nil {
		return nil, m.uploadErr
	}
	a := m.asset
	a.ResourceType = params.ResourceType
	return &a, nil
}

func (m *fakeMedia) Delete(ctx context.Context, publicID string, _ domain.ResourceType) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deletes = append(m.deletes, publicID)
	m.deleteErrAtCall = ctx.Err()
	return m.deleteErr
}

func (m *fakeMedia) RenditionURL(_ context.Context, publicID string, rt domain.ResourceType, t storage.Transformation) (string, error) {
	return fmt.Sprintf("https://cdn.test/%s/%s/%s.%s", rt, t.Params, publicID, t.Format), nil
}

func (m *fakeMedia) Configured() bool { return true }
