package http

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/khoahotran/portfolio-builder/internal/config"
	"github.com/khoahotran/portfolio-builder/pkg/auth"
	"github.com/khoahotran/portfolio-builder/pkg/logger"
	"github.com/khoahotran/portfolio-builder/pkg/metrics"
)

type Handlers struct {
	Auth        *AuthHandler
	Profile     *ProfileHandler
	Portfolio   *PortfolioHandler
	Project     *ProjectHandler
	Integration *IntegrationHandler
	SEO         *SEOHandler
	Upload      *UploadHandler
}

type RouterDeps struct {
	Config      config.Config
	Logger      logger.Logger
	JWT         *auth.JWTService
	RateCounter RateCounter
	Metrics     *metrics.HTTPMetrics
	// Gatherer backs GET /api/metrics; nil disables the endpoint.
	Gatherer prometheus.Gatherer
	Handlers Handlers
}

func NewRouter(d RouterDeps) *gin.Engine {
	router := gin.New()
	router.Use(
		gin.Recovery(),
		RequestLogger(d.Logger),
		d.Metrics.Middleware(),
		SecurityHeaders(),
		cors.New(cors.Config{
			AllowOrigins:     []string{d.Config.App.ClientURL},
			AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
		BodyLimit(MaxBodyBytes),
		ErrorMiddleware(d.Logger),
	)
	router.MaxMultipartMemory = MaxBodyBytes

	h := d.Handlers
	authMiddleware := AuthMiddleware(d.JWT, d.Logger)

	api := router.Group("/api")
	api.Use(RateLimitMiddleware(d.RateCounter, d.Config.RateLimit.Max, d.Config.RateLimit.Window, d.Logger))
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "OK", "timestamp": time.Now().UTC()})
		})
		if d.Gatherer != nil {
			api.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))
		}

		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", h.Auth.Register)
			authGroup.POST("/login", h.Auth.Login)
			authGroup.GET("/profile", authMiddleware, h.Profile.GetProfile)
			authGroup.PUT("/profile", authMiddleware, h.Profile.UpdateProfile)
		}

		portfolio := api.Group("/portfolio")
		{
			portfolio.PUT("/section-order", authMiddleware, h.Portfolio.SetSectionOrder)
			portfolio.PUT("/section-visibility", authMiddleware, h.Portfolio.SetSectionVisibility)
			portfolio.PUT("/profile", authMiddleware, h.Profile.UpdateProfile)
			portfolio.GET("/:username", h.Portfolio.GetPortfolio)
			portfolio.GET("/:username/feed", h.Portfolio.GetFeed)
		}

		projects := api.Group("/projects", authMiddleware)
		{
			projects.GET("", h.Project.ListProjects)
			projects.POST("", h.Project.CreateProject)
			projects.GET("/:id", h.Project.GetProject)
			projects.PUT("/:id", h.Project.UpdateProject)
			projects.DELETE("/:id", h.Project.DeleteProject)
		}

		integrations := api.Group("/integrations", authMiddleware)
		{
			integrations.GET("", h.Integration.List)
			integrations.GET("/:provider/connect-url", h.Integration.ConnectURL)
			integrations.POST("/:provider/callback", h.Integration.Callback)
			integrations.POST("/:provider/disconnect", h.Integration.Disconnect)
			integrations.POST("/:provider/sync", h.Integration.Sync)
		}

		seo := api.Group("/seo")
		{
			seo.GET("/data", authMiddleware, h.SEO.GetSEOData)
			seo.PUT("/data", authMiddleware, h.SEO.UpdateSEOData)
			seo.GET("/analysis", authMiddleware, h.SEO.GetAnalysis)
			seo.POST("/suggestions", authMiddleware, h.SEO.GenerateSuggestions)
			seo.GET("/preview/:username", h.SEO.GetPreview)
		}

		api.POST("/uploads/:kind", authMiddleware, h.Upload.UploadAsset)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Route not found"})
	})
	return router
}
