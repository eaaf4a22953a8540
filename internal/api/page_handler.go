package api

import (
	"net/http"

	"github.com/Amie-dev/cloudinary-saas/internal/config"
	"github.com/Amie-dev/cloudinary-saas/internal/domain"
	"github.com/Amie-dev/cloudinary-saas/internal/logger"
	"github.com/Amie-dev/cloudinary-saas/internal/service"
	"github.com/Amie-dev/cloudinary-saas/internal/web"
	"github.com/gin-gonic/gin"
)

// PageHandler renders the HTML pages. Access rules are enforced by GuardMiddleware.
type PageHandler struct {
	videoService service.VideoService
	authCfg      config.AuthConfig
	log          *logger.Logger
}

func NewPageHandler(videoService service.VideoService, authCfg config.AuthConfig, log *logger.Logger) *PageHandler {
	return &PageHandler{videoService: videoService, authCfg: authCfg, log: log}
}

func (h *PageHandler) Landing(c *gin.Context) {
	h.render(c, web.PageLanding, web.PageData{})
}

func (h *PageHandler) SignIn(c *gin.Context) {
	h.render(c, web.PageSignIn, web.PageData{Title: "Sign in", ProviderURL: h.authCfg.SignInURL})
}

func (h *PageHandler) SignUp(c *gin.Context) {
	h.render(c, web.PageSignUp, web.PageData{Title: "Sign up", ProviderURL: h.authCfg.SignUpURL})
}

// Home renders the video grid. A store failure is shown inline rather than as an error page.
func (h *PageHandler) Home(c *gin.Context) {
	data := web.PageData{Title: "Home"}
	videos, err := h.videoService.ListVideoDetails(c.Request.Context())
	if err != nil {
		h.log.Error(c.Request.Context(), "failed to fetch videos", err)
		data.Error = "Failed to fetch videos"
	} else {
		data.Videos = videos
	}
	h.render(c, web.PageHome, data)
}

func (h *PageHandler) VideoUpload(c *gin.Context) {
	h.render(c, web.PageVideoUpload, web.PageData{Title: "Upload Video", MaxBytes: web.MaxClientVideoBytes})
}

func (h *PageHandler) SocialShare(c *gin.Context) {
	h.render(c, web.PageSocialShare, web.PageData{
		Title:         "Social Share",
		Formats:       domain.SocialFormats,
		DefaultFormat: domain.DefaultSocialFormat,
	})
}

func (h *PageHandler) render(c *gin.Context, page string, data web.PageData) {
	data.SignedIn = isSignedIn(c)
	c.HTML(http.StatusOK, page, data)
}
