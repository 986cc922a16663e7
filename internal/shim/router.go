package shim

import (
	"github.com/gin-gonic/gin"

	"portal-client/internal/shared/config"
	"portal-client/internal/shared/server/middleware"
)

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(cfg config.Config, pages PageCreator) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(cfg.CORSAllowOrigin),
	)

	handler := NewHandler(pages)

	// The contact endpoint is public; throttle per client IP.
	throttle := middleware.RateLimit(middleware.NewRateLimiter(nil), middleware.RateLimitRule{Rate: 0.5, Burst: 5})
	handler.RegisterRoutes(r.Group("/api"), throttle)

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":3001"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
