package api

import (
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/Amie-dev/cloudinary-saas/internal/logger"
	"github.com/Amie-dev/cloudinary-saas/internal/service"
	"github.com/Amie-dev/cloudinary-saas/internal/storage"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

type uploadImageRequest struct {
	File *multipart.FileHeader `form:"file" binding:"required"`
}

type socialFormatsQuery struct {
	PublicID string `form:"publicId" binding:"required"`
}

type ImageHandler struct {
	imageService   service.ImageService
	log            *logger.Logger
	maxUploadBytes int64
}

func NewImageHandler(imageService service.ImageService, log *logger.Logger, maxUploadBytes int64) *ImageHandler {
	return &ImageHandler{imageService: imageService, log: log, maxUploadBytes: maxUploadBytes}
}

// UploadImage godoc
// @Summary Upload an image for the social share tool
// @Tags images
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Image file"
// @Success 200 {object} map[string]string "public_id"
// @Failure 400 {object} gin.H "No file uploaded"
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 500 {object} gin.H "Upload failed"
// @Router /api/image-upload [post]
func (h *ImageHandler) UploadImage(c *gin.Context) {
	if _, err := getUserIDFromContext(c); err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	limitBody(c, h.maxUploadBytes)
	var req uploadImageRequest
	if err := c.ShouldBindWith(&req, binding.FormMultipart); err != nil {
		respondUploadBindError(c, err)
		return
	}

	f, err := req.File.Open()
	if err != nil {
		h.log.Error(c.Request.Context(), "failed to open uploaded image", err)
		abortWithError(c, http.StatusInternalServerError, "Upload failed")
		return
	}
	defer f.Close()

	publicID, err := h.imageService.UploadImage(c.Request.Context(), req.File.Filename, f)
	if err != nil {
		h.log.Error(c.Request.Context(), "image upload failed", err)
		if errors.Is(err, storage.ErrNotConfigured) {
			abortWithError(c, http.StatusInternalServerError, "Media service credentials not found")
			return
		}
		abortWithError(c, http.StatusInternalServerError, "Upload failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{"public_id": publicID})
}

// SocialFormats godoc
// @Summary Social preset renditions of an uploaded image
// @Tags images
// @Produce json
// @Param publicId query string true "Public ID returned by image upload"
// @Success 200 {array} service.SocialImage
// @Failure 400 {object} gin.H "publicId is required"
// @Router /api/social-formats [get]
func (h *ImageHandler) SocialFormats(c *gin.Context) {
	var q socialFormatsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		abortWithError(c, http.StatusBadRequest, "publicId is required")
		return
	}

	images, err := h.imageService.SocialImages(c.Request.Context(), q.PublicID)
	if err != nil {
		h.log.Error(c.Request.Context(), "failed to build social renditions", err)
		abortWithError(c, http.StatusInternalServerError, "Failed to build social formats")
		return
	}
	c.JSON(http.StatusOK, images)
}
