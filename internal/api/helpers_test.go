package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/Amie-dev/cloudinary-saas/internal/auth"
	"github.com/Amie-dev/cloudinary-saas/internal/config"
	"github.com/Amie-dev/cloudinary-saas/internal/domain"
	"github.com/Amie-dev/cloudinary-saas/internal/logger"
	"github.com/Amie-dev/cloudinary-saas/internal/repository"
	"github.com/Amie-dev/cloudinary-saas/internal/service"
	"github.com/Amie-dev/cloudinary-saas/internal/storage"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-session-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

// memoryRepo is an in-memory repository.VideoRepository.
type memoryRepo struct {
	mu      sync.Mutex
	videos  []domain.Video
	failAll error
	pingErr error
}

func (r *memoryRepo) Create(_ context.Context, v *domain.Video) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failAll != nil {
		return "", r.failAll
	}
	v.ID = fmt.Sprintf("video-%d", len(r.videos)+1)
	v.CreatedAt = time.Now().UTC()
	r.videos = append(r.videos, *v)
	return v.ID, nil
}

func (r *memoryRepo) List(context.Context) ([]domain.Video, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failAll != nil {
		return nil, r.failAll
	}
	return append([]domain.Video{}, r.videos...), nil
}

func (r *memoryRepo) GetByID(_ context.Context, id string) (*domain.Video, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.videos {
		if r.videos[i].ID == id {
			v := r.videos[i]
			return &v, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memoryRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.videos)
}

func (r *memoryRepo) Ping(context.Context) error  { return r.pingErr }
func (r *memoryRepo) Close(context.Context) error { return nil }

// stubMedia plays the media service: it halves every upload and reports a fixed duration.
type stubMedia struct {
	mu         sync.Mutex
	configured bool
	uploadErr  error
	uploads    int
}

func (m *stubMedia) Upload(_ context.Context, body io.Reader, params storage.UploadParams) (*storage.Asset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.uploads++
	if !m.configured {
		return nil, storage.ErrNotConfigured
	}
	if m.uploadErr != nil {
		return nil, m.uploadErr
	}
	n, _ := io.Copy(io.Discard, body)
	return &storage.Asset{
		PublicID:     fmt.Sprintf("%s/asset-%d", params.Folder, m.uploads),
		Bytes:        n / 2,
		Duration:     30,
		ResourceType: params.ResourceType,
	}, nil
}

func (m *stubMedia) Delete(context.Context, string, domain.ResourceType) error { return nil }

func (m *stubMedia) RenditionURL(_ context.Context, publicID string, rt domain.ResourceType, t storage.Transformation) (string, error) {
	if !m.configured {
		return "", storage.ErrNotConfigured
	}
	return fmt.Sprintf("https://cdn.test/%s/upload/%s/%s.%s", rt, t.Params, publicID, t.Format), nil
}

func (m *stubMedia) Configured() bool { return m.configured }

type testApp struct {
	router *gin.Engine
	repo   *memoryRepo
	media  *stubMedia
}

func newTestApp(t *testing.T, mutate ...func(*config.Config)) *testApp {
	t.Helper()

	cfg := config.Config{
		Server: config.ServerConfig{MaxUploadBytes: 64 << 20},
		Media:  config.MediaConfig{VideoFolder: "video-upload", ImageFolder: "social-share", Compensation: config.CompensationDelete},
		Auth:   config.AuthConfig{JWTSecret: testSecret, CookieName: "__session", SignInURL: "https://accounts.test/sign-in", SignUpURL: "https://accounts.test/sign-up"},
	}
	for _, m := range mutate {
		m(&cfg)
	}

	repo := &memoryRepo{}
	media := &stubMedia{configured: true}
	verifier, err := auth.NewVerifier(cfg.Auth)
	require.NoError(t, err)

	log := logger.Nop()
	reg := prometheus.NewRegistry()
	router, err := NewRouter(Dependencies{
		Config:       cfg,
		Log:          log,
		Verifier:     verifier,
		VideoService: service.NewVideoService(repo, media, nil, log, cfg.Media),
		ImageService: service.NewImageService(media, nil, log, cfg.Media.ImageFolder),
		Health:       repo,
		Gatherer:     reg,
	})
	require.NoError(t, err)

	return &testApp{router: router, repo: repo, media: media}
}

func sessionToken(t *testing.T, userID string) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func (a *testApp) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func withSession(t *testing.T, req *http.Request) *http.Request {
	req.AddCookie(&http.Cookie{Name: "__session", Value: sessionToken(t, "user_123")})
	return req
}

// multipartRequest builds a POST with the given text fields and, when fileData is non-nil, a file part.
func multipartRequest(t *testing.T, target string, fields map[string]string, fileName string, fileData []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if fileData != nil {
		part, err := w.CreateFormFile("file", fileName)
		require.NoError(t, err)
		_, err = part.Write(fileData)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

var errStoreDown = errors.New("store down")

func withOrigins(origins ...string) func(*config.Config) {
	return func(c *config.Config) {
		c.Server.AllowedOrigins = origins
	}
}
