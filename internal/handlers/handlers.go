package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"miniportfolio/api/internal/config"
	"miniportfolio/api/internal/middleware"
	"miniportfolio/api/internal/models"
	"miniportfolio/api/internal/repository"
	"miniportfolio/api/internal/service"
)

type HandlerSet struct {
	log              zerolog.Logger
	cfg              *config.AppConfig
	db               *pgxpool.Pool
	users            repository.UserStore
	authService      *service.AuthService
	portfolioService *service.PortfolioService
}

func NewHandlerSet(log zerolog.Logger, db *pgxpool.Pool, cfg *config.AppConfig) HandlerSet {
	userStore := repository.NewPostgresUserStore(db)

	return HandlerSet{
		log:              log,
		cfg:              cfg,
		db:               db,
		users:            userStore,
		authService:      service.NewAuthService(userStore, cfg, log),
		portfolioService: service.NewPortfolioService(userStore, log),
	}
}

func (h HandlerSet) Register(router *gin.RouterGroup) {
	router.GET("/healthz", h.Health)

	auth := router.Group("/auth")
	auth.POST("/register", h.RegisterUser)
	auth.POST("/login", h.Login)

	me := router.Group("/auth")
	me.Use(middleware.Auth(h.cfg))
	me.GET("/me", h.Me)

	portfolio := router.Group("/portfolio")
	portfolio.Use(middleware.Auth(h.cfg))
	portfolio.GET("", h.GetPortfolio)
	portfolio.POST("", h.ReplacePortfolio)

	admin := router.Group("/admin")
	admin.Use(
		middleware.Auth(h.cfg),
		middleware.RequireRoles(h.users, models.UserRoleAdmin),
	)
	admin.GET("/users", h.AdminListUsers)
	admin.DELETE("/users", h.AdminDeactivateUser)
	admin.GET("/stats", h.AdminStats)
}
