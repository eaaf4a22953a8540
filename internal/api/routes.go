package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/Amie-dev/cloudinary-saas/internal/auth"
	"github.com/Amie-dev/cloudinary-saas/internal/config"
	"github.com/Amie-dev/cloudinary-saas/internal/logger"
	"github.com/Amie-dev/cloudinary-saas/internal/service"
	"github.com/Amie-dev/cloudinary-saas/internal/web"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HealthChecker is satisfied by the video repository.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// Dependencies are the process-lifetime singletons the HTTP layer needs.
type Dependencies struct {
	Config       config.Config
	Log          *logger.Logger
	Verifier     auth.Verifier
	VideoService service.VideoService
	ImageService service.ImageService
	Health       HealthChecker
	// Gatherer backs /metrics. Nil disables the endpoint.
	Gatherer prometheus.Gatherer
}

// NewRouter builds a gin engine with middleware, templates and every route.
func NewRouter(deps Dependencies) (*gin.Engine, error) {
	if deps.Log == nil {
		deps.Log = logger.Nop()
	}

	router := gin.New()
	router.Use(RequestID(deps.Log), RequestLogger(deps.Log), Recoverer(deps.Log))
	if len(deps.Config.Server.AllowedOrigins) > 0 {
		router.Use(CORS(deps.Config.Server.AllowedOrigins))
	}
	router.Use(SessionMiddleware(deps.Verifier, deps.Config.Auth.CookieName, deps.Log), GuardMiddleware())

	tmpl, err := web.Templates()
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	router.SetHTMLTemplate(tmpl)

	SetupRoutes(router, deps)
	return router, nil
}

func SetupRoutes(router *gin.Engine, deps Dependencies) {
	maxUpload := deps.Config.Server.MaxUploadBytes
	videoHandler := NewVideoHandler(deps.VideoService, deps.Log, maxUpload)
	imageHandler := NewImageHandler(deps.ImageService, deps.Log, maxUpload)
	pageHandler := NewPageHandler(deps.VideoService, deps.Config.Auth, deps.Log)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	router.GET("/healthz", healthz(deps.Health, deps.Log))
	if deps.Gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}
	router.StaticFS("/static", web.Static())

	// --- Pages ---
	router.GET("/", pageHandler.Landing)
	router.GET("/signin", pageHandler.SignIn)
	router.GET("/signup", pageHandler.SignUp)
	router.GET("/home", pageHandler.Home)
	router.GET("/video-upload", pageHandler.VideoUpload)
	router.GET("/social-share", pageHandler.SocialShare)

	// --- API ---
	apiGroup := router.Group("/api")
	{
		// GET /api/videos is the one API route readable without a session.
		apiGroup.GET("/videos", videoHandler.ListVideos)
		apiGroup.GET("/videos/:id", videoHandler.GetVideo)
		apiGroup.POST("/video-upload", videoHandler.UploadVideo)

		apiGroup.POST("/image-upload", imageHandler.UploadImage)
		apiGroup.GET("/social-formats", imageHandler.SocialFormats)
	}
}

func healthz(checker HealthChecker, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if checker == nil {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := checker.Ping(ctx); err != nil {
			log.Error(c.Request.Context(), "health check failed", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
