package routes

import (
	"net/http"

	"setshaba-be/config"
	"setshaba-be/controllers"
	"setshaba-be/middlewares"
	"setshaba-be/models"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// NewRouter wires every route group. With a nil counter citizen issue reports
// are limited per process with a MemoryCounter.
func NewRouter(cfg config.Config, h *controllers.Handler, logger *zap.Logger, counter middlewares.Counter) (*gin.Engine, error) {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := models.RegisterValidators(v); err != nil {
			return nil, err
		}
	}

	r := gin.New()
	r.Use(gin.Recovery(), middlewares.RequestLogging(logger))

	if len(cfg.CORSOrigins) > 0 {
		corsConfig := cors.DefaultConfig()
		corsConfig.AllowOrigins = cfg.CORSOrigins
		corsConfig.AllowCredentials = true
		corsConfig.AddAllowHeaders("Authorization", middlewares.RequestIDHeader)
		corsConfig.AddExposeHeaders(middlewares.RequestIDHeader)
		r.Use(cors.New(corsConfig))
	}

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	auth := middlewares.AuthMiddleware(cfg.JWTSecret)
	if counter == nil {
		counter = middlewares.NewMemoryCounter(nil)
	}
	limiter := middlewares.IssueRateLimiter(counter, cfg.IssueLimitPrefix, cfg.IssueDailyLimit)

	AuthRoutes(r, h, auth)
	IssueRoutes(r, h, auth, limiter)
	PortalRoutes(r, h)
	AdminRoutes(r, h, auth)

	return r, nil
}
