package router

import (
	"net/http"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/WorkEnrich-llc/wds-assignment-service/internal/config"
	"github.com/WorkEnrich-llc/wds-assignment-service/internal/handler"
	"github.com/WorkEnrich-llc/wds-assignment-service/internal/middleware"
	"github.com/WorkEnrich-llc/wds-assignment-service/internal/response"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Assignment *handler.AssignmentHandler
	Draft      *handler.DraftHandler
	Media      *handler.MediaHandler
	WS         *handler.WSHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(handlers *Handlers, cfg *config.Config) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	router.Use(middleware.Brotli(brotli.DefaultCompression))

	// Uploaded media. URLs are HMAC-signed with an expiry, so the files can
	// be cached hard without leaking past the signature window.
	uploads := router.Group("/uploads")
	uploads.Use(middleware.CacheControl(31536000))
	{
		uploads.GET("/:filename", handlers.Media.ServeAsset)
	}

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// Rate limiter for draft mutations (300 requests per minute per IP):
	// generous enough for rapid editing, tight enough to stop runaway
	// clients from pinning a session lock.
	draftLimiter := middleware.NewRateLimiter(300, time.Minute)

	// ─── Back-office API (JWT) ─────────────────────────────────────────
	api := router.Group("/api/v1/backoffice")
	api.Use(middleware.RequireBackOfficeJWT(cfg.JWTSecret))
	{
		api.GET("/assignments", handlers.Assignment.ListAssignments)
		api.GET("/assignments/:assignment_id", handlers.Assignment.GetAssignment)

		drafts := api.Group("/drafts")
		drafts.Use(draftLimiter.Middleware())
		{
			drafts.POST("", handlers.Draft.OpenDraft)
			drafts.GET("/:draft_id", handlers.Draft.GetDraft)
			drafts.DELETE("/:draft_id", handlers.Draft.DiscardDraft)
			drafts.PATCH("/:draft_id", handlers.Draft.UpdateMeta)
			drafts.GET("/:draft_id/validate", handlers.Draft.ValidateDraft)
			drafts.POST("/:draft_id/submit", handlers.Draft.SubmitDraft)

			drafts.POST("/:draft_id/questions", handlers.Draft.AddQuestion)
			drafts.PATCH("/:draft_id/questions/:index", handlers.Draft.PatchQuestion)
			drafts.DELETE("/:draft_id/questions/:index", handlers.Draft.DeleteQuestion)
			drafts.POST("/:draft_id/questions/:index/duplicate", handlers.Draft.DuplicateQuestion)

			drafts.POST("/:draft_id/questions/:index/answers", handlers.Draft.AddAnswer)
			drafts.PATCH("/:draft_id/questions/:index/answers/:answer_index", handlers.Draft.PatchAnswer)
			drafts.DELETE("/:draft_id/questions/:index/answers/:answer_index", handlers.Draft.DeleteAnswer)
			drafts.PUT("/:draft_id/questions/:index/correct-answer", handlers.Draft.MarkCorrectAnswer)

			drafts.POST("/:draft_id/questions/:index/media", handlers.Draft.UploadMedia)
			drafts.DELETE("/:draft_id/questions/:index/media/:media_index", handlers.Draft.DeleteMedia)
		}
	}

	// ─── WebSocket (token query auth) ──────────────────────────────────
	ws := router.Group("/ws/v1")
	ws.Use(middleware.RequireBackOfficeWSAuth(cfg.JWTSecret))
	{
		ws.GET("/backoffice/notifications", handlers.WS.NotificationStream)
	}

	return router
}
