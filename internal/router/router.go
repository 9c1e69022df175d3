package router

import (
	"net/http"
	"time"

	"kefu/config"
	"kefu/internal/auth"
	"kefu/internal/handler"
	"kefu/internal/middleware"
	"kefu/internal/repository"
	"kefu/internal/service"
	"kefu/internal/web"
	"kefu/internal/ws"
	"kefu/pkg/cloudinary"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Deps carries everything Setup wires together. DB and Blob may be nil.
type Deps struct {
	Config  *config.Config
	DB      *gorm.DB
	Blob    cloudinary.Client
	Limiter *middleware.InMemoryRateLimiter
	Log     *zap.Logger
}

func Setup(d Deps) (*gin.Engine, error) {
	cfg := d.Config
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	pages, err := web.Templates()
	if err != nil {
		return nil, err
	}
	authn, err := auth.NewAuthenticator(&cfg.Admin, &cfg.JWT)
	if err != nil {
		return nil, err
	}
	limiter := d.Limiter
	if limiter == nil {
		limiter = middleware.NewInMemoryRateLimiter(cfg.RateLimit.Limit, cfg.RateLimit.Window)
	}
	metrics := middleware.NewMetrics()

	r := gin.New()
	r.Use(ginzap.Ginzap(d.Log, time.RFC3339, true))
	r.Use(ginzap.RecoveryWithZap(d.Log, true))
	r.Use(metrics.Handler())
	r.Use(cors.New(cors.Config{
		AllowOrigins:  cfg.Server.CORSOrigins,
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}))

	hlog := d.Log.With(zap.String("component", "http"))
	repos := repository.New(d.DB)
	hub := ws.NewHub()

	chatSvc := service.NewChatService(repos.Messages, repos.Visitors, repos.Profiles, hub, cfg.Chat.AutoReply, d.Log)
	uploadSvc := service.NewUploadService(d.Blob, repos.Files, cfg.Upload.MaxBytes, metrics.UploadedBytes, d.Log)

	messageHandler := handler.NewMessageHandler(chatSvc, authn, cfg.Chat, hlog)
	profileHandler := handler.NewProfileHandler(repos.Profiles, hlog)
	templateHandler := handler.NewTemplateHandler(repos.Templates, repos.Profiles, hlog)
	linkHandler := handler.NewLinkHandler(repos.Links, repos.Persistent, hlog)
	welcomeHandler := handler.NewWelcomeHandler(repos.Welcome, hlog)
	uploadHandler := handler.NewUploadHandler(uploadSvc, hlog)
	adminHandler := handler.NewAdminHandler(authn, hlog)
	healthHandler := handler.NewHealthHandler(d.DB, uploadSvc)
	pageHandler := handler.NewPageHandler(pages, repos.Links, hlog)

	adminMw := middleware.AdminRequired(authn)
	limited := middleware.RateLimit(limiter)
	identify := middleware.IdentifyAdmin(authn)

	r.GET("/healthz", healthHandler.Health)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})))

	api := r.Group("/api")
	{
		api.POST("/admin/login", limited, adminHandler.Login)
		api.GET("/admin/session", adminHandler.Session)

		api.GET("/messages", messageHandler.List)
		api.POST("/messages", limited, identify, messageHandler.Create)
		api.DELETE("/messages", adminMw, messageHandler.Clear)

		api.GET("/profile", profileHandler.Get)
		api.PUT("/profile", adminMw, profileHandler.Update)

		api.GET("/templates", templateHandler.List)
		api.POST("/templates", adminMw, templateHandler.Create)
		api.PUT("/templates/:id", adminMw, templateHandler.Update)
		api.DELETE("/templates", adminMw, templateHandler.Delete)

		api.GET("/links", linkHandler.List)
		api.GET("/links/:id", linkHandler.Get)
		api.POST("/links", adminMw, linkHandler.Create)
		api.PUT("/links", adminMw, linkHandler.Update)
		api.DELETE("/links", adminMw, linkHandler.Delete)

		api.GET("/welcome-config", welcomeHandler.Get)
		api.POST("/welcome-config", adminMw, welcomeHandler.Save)

		api.POST("/upload", limited, uploadHandler.Upload)
		api.GET("/upload", uploadHandler.List)
	}

	r.GET("/ws/chat", handler.UpgradeChatWS(hub, authn, hlog))

	r.GET("/", pageHandler.Index)
	r.GET("/chat", pageHandler.Chat)
	r.GET("/chat/:channel", pageHandler.Chat)
	r.GET("/admin", pageHandler.Admin)
	r.GET("/l/:id", pageHandler.Landing)
	r.NoRoute(func(c *gin.Context) {
		if len(c.Request.URL.Path) >= 5 && c.Request.URL.Path[:5] == "/api/" {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		pageHandler.NotFound(c)
	})

	return r, nil
}
