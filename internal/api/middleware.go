package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Amie-dev/cloudinary-saas/internal/auth"
	"github.com/Amie-dev/cloudinary-saas/internal/guard"
	"github.com/Amie-dev/cloudinary-saas/internal/logger"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Constants for context keys
const (
	ContextUserIDKey    = "userID"
	ContextSessionIDKey = "sessionID"
)

const requestIDHeader = "X-Request-Id"

// RequestID tags the request with an id, taken from the client when it sends one.
func RequestID(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := c.GetHeader(requestIDHeader)
		if reqID == "" {
			reqID = uuid.NewString()
		}
		c.Header(requestIDHeader, reqID)
		c.Request = c.Request.WithContext(log.WithRequestID(c.Request.Context(), reqID))
		c.Next()
	}
}

// RequestLogger logs the start and completion of every request.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := log.WithFields(c.Request.Context(), map[string]any{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
		})
		c.Request = c.Request.WithContext(ctx)
		start := time.Now()
		log.Info(ctx, "request.start")

		c.Next()

		// Handlers may have attached more fields (user id) further down.
		ctx = log.WithFields(c.Request.Context(), map[string]any{
			"status":      c.Writer.Status(),
			"duration_ms": time.Since(start).Milliseconds(),
		})
		log.Info(ctx, "request.complete")
	}
}

// Recoverer turns a panic into a logged 500.
func Recoverer(log *logger.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, rec any) {
		ctx := log.WithField(c.Request.Context(), "panic", rec)
		log.Error(ctx, "panic.recovered", fmt.Errorf("panic: %v", rec))
		abortWithError(c, http.StatusInternalServerError, "Internal server error")
	})
}

// SessionMiddleware resolves the session token, if any, into a user id on the context.
// A missing or invalid token leaves the request signed out; it never aborts.
func SessionMiddleware(verifier auth.Verifier, cookieName string, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := auth.TokenFromRequest(c.Request, cookieName)
		if token == "" {
			c.Next()
			return
		}

		session, err := verifier.Verify(token)
		if err != nil {
			log.Debug(log.WithField(c.Request.Context(), "reason", err.Error()), "session rejected")
			c.Next()
			return
		}

		c.Set(ContextUserIDKey, session.UserID)
		if session.SessionID != "" {
			c.Set(ContextSessionIDKey, session.SessionID)
		}
		c.Request = c.Request.WithContext(log.WithUserID(c.Request.Context(), session.UserID))
		c.Next()
	}
}

// GuardMiddleware applies the route access table. Must run AFTER SessionMiddleware.
func GuardMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if guard.Bypass(path) {
			c.Next()
			return
		}

		_, err := getUserIDFromContext(c)
		outcome := guard.Decide(guard.Classify(path), err == nil)
		switch outcome {
		case guard.Allow:
			c.Next()
		case guard.Unauthorized:
			abortWithError(c, http.StatusUnauthorized, "Unauthorized")
		default:
			c.Redirect(http.StatusFound, guard.Location(outcome))
			c.Abort()
		}
	}
}

// CORS allows the configured browser origins to call the API with credentials.
func CORS(origins []string) gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", requestIDHeader},
		ExposeHeaders:    []string{requestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}

// Helper to return JSON error response and abort request
func abortWithError(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, gin.H{"error": message})
}

// Helper function to get User ID from context (used by handlers)
func getUserIDFromContext(c *gin.Context) (string, error) {
	idRaw, exists := c.Get(ContextUserIDKey)
	if !exists {
		return "", errors.New("user ID not found in context")
	}
	idStr, ok := idRaw.(string)
	if !ok || idStr == "" {
		return "", errors.New("invalid user ID type in context")
	}
	return idStr, nil
}

func isSignedIn(c *gin.Context) bool {
	_, err := getUserIDFromContext(c)
	return err == nil
}
