package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"autonote-backend/internal/notes"
	"autonote-backend/internal/shared/config"
	"autonote-backend/internal/shared/metrics"
	"autonote-backend/internal/shared/server/middleware"
	"autonote-backend/internal/shared/server/respond"
)

// RouterDeps carries the handlers the router wires up.
type RouterDeps struct {
	Config       config.Config
	NotesHandler *notes.Handler
	RateLimiter  *middleware.RateLimiter
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		middleware.ClientID(),
		middleware.RateLimit(middleware.RateLimitConfig{
			Rules: map[string]middleware.RateLimitRule{
				"NOTES": {
					Rate:  float64(deps.Config.RatePerMinute) / 60.0,
					Burst: deps.Config.RatePerMinute,
				},
			},
			DefaultGroup: "NOTES",
			GroupFor: func(c *gin.Context) string {
				// Reads and health checks are not rate limited.
				if c.Request.Method == http.MethodPost {
					return "NOTES"
				}
				return "OPEN"
			},
			Limiter: deps.RateLimiter,
		}),
	)

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})
	if deps.NotesHandler != nil {
		deps.NotesHandler.RegisterRoutes(api)
	}

	r.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})
	r.GET("/metrics", metrics.Handler())

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
