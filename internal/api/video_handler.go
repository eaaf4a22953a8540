package api

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/Amie-dev/cloudinary-saas/internal/logger"
	"github.com/Amie-dev/cloudinary-saas/internal/service"
	"github.com/Amie-dev/cloudinary-saas/internal/storage"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

type uploadVideoRequest struct {
	Title        string                `form:"title"`
	Description  string                `form:"description"`
	OriginalSize string                `form:"originalSize"`
	File         *multipart.FileHeader `form:"file" binding:"required"`
}

// VideoHandler holds the video service dependency.
type VideoHandler struct {
	videoService   service.VideoService
	log            *logger.Logger
	maxUploadBytes int64
}

// NewVideoHandler creates a new VideoHandler. A non-positive maxUploadBytes disables the body limit.
func NewVideoHandler(videoService service.VideoService, log *logger.Logger, maxUploadBytes int64) *VideoHandler {
	return &VideoHandler{videoService: videoService, log: log, maxUploadBytes: maxUploadBytes}
}

// UploadVideo godoc
// @Summary Upload a video
// @Description Sends the file to the media service for compression and stores its metadata.
// @Tags videos
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Video file"
// @Param title formData string false "Title"
// @Param description formData string false "Description"
// @Param originalSize formData string false "Size of the file in bytes as chosen by the client"
// @Success 200 {object} domain.Video
// @Failure 400 {object} gin.H "No file uploaded"
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 413 {object} gin.H "File too large"
// @Failure 500 {object} gin.H "Upload failed"
// @Router /api/video-upload [post]
func (h *VideoHandler) UploadVideo(c *gin.Context) {
	if _, err := getUserIDFromContext(c); err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	limitBody(c, h.maxUploadBytes)
	var req uploadVideoRequest
	if err := c.ShouldBindWith(&req, binding.FormMultipart); err != nil {
		respondUploadBindError(c, err)
		return
	}

	data, err := readFormFile(req.File)
	if err != nil {
		h.log.Error(c.Request.Context(), "failed to read uploaded video", err)
		abortWithError(c, http.StatusInternalServerError, "Upload failed")
		return
	}

	video, err := h.videoService.UploadVideo(c.Request.Context(), service.UploadVideoInput{
		Title:        req.Title,
		Description:  req.Description,
		OriginalSize: req.OriginalSize,
		FileName:     req.File.Filename,
		Data:         data,
	})
	if err != nil {
		h.log.Error(c.Request.Context(), "video upload failed", err)
		switch {
		case errors.Is(err, service.ErrFileMissing):
			abortWithError(c, http.StatusBadRequest, "No file uploaded")
		case errors.Is(err, storage.ErrNotConfigured):
			abortWithError(c, http.StatusInternalServerError, "Media service credentials not found")
		default:
			abortWithError(c, http.StatusInternalServerError, "Upload failed")
		}
		return
	}

	c.JSON(http.StatusOK, video)
}

// ListVideos godoc
// @Summary List videos
// @Description Returns every stored video. Readable without a session.
// @Tags videos
// @Produce json
// @Success 200 {array} domain.Video
// @Failure 500 {object} gin.H "Failed to fetch videos"
// @Router /api/videos [get]
func (h *VideoHandler) ListVideos(c *gin.Context) {
	videos, err := h.videoService.ListVideos(c.Request.Context())
	if err != nil {
		h.log.Error(c.Request.Context(), "failed to fetch videos", err)
		abortWithError(c, http.StatusInternalServerError, "Failed to fetch videos")
		return
	}
	c.JSON(http.StatusOK, videos)
}

// GetVideo godoc
// @Summary Get one video with its rendition URLs
// @Tags videos
// @Produce json
// @Param id path string true "Video ID"
// @Success 200 {object} service.VideoDetail
// @Failure 404 {object} gin.H "Video not found"
// @Failure 500 {object} gin.H "Failed to fetch video"
// @Router /api/videos/{id} [get]
func (h *VideoHandler) GetVideo(c *gin.Context) {
	detail, err := h.videoService.GetVideo(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrVideoNotFound) {
			abortWithError(c, http.StatusNotFound, "Video not found")
			return
		}
		h.log.Error(c.Request.Context(), "failed to fetch video", err)
		abortWithError(c, http.StatusInternalServerError, "Failed to fetch video")
		return
	}
	c.JSON(http.StatusOK, detail)
}

func limitBody(c *gin.Context, max int64) {
	if max > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, max)
	}
}

// respondUploadBindError maps a multipart binding failure to 413 or 400.
func respondUploadBindError(c *gin.Context, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		abortWithError(c, http.StatusRequestEntityTooLarge, "File too large")
		return
	}
	abortWithError(c, http.StatusBadRequest, "No file uploaded")
}

func readFormFile(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
