package api

import (
	"log/slog"

	userDelivery "vidtube-backend/internal/user/delivery"
	userUsecasePkg "vidtube-backend/internal/user/usecase"
	"vidtube-backend/pkg/config"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	userUsecase userUsecasePkg.UserUsecase
	userHandler *userDelivery.UserHandler
	config      *config.Config
	logger      *slog.Logger
}

func NewHandler(userUc userUsecasePkg.UserUsecase, cfg *config.Config, logger *slog.Logger) *Handler {
	return &Handler{
		userUsecase: userUc,
		userHandler: userDelivery.NewUserHandler(userUc, cfg, logger),
		config:      cfg,
		logger:      logger,
	}
}

func (h *Handler) Start(addr string) error {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	// CORS middleware
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if h.config.CORSOrigin != "*" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", h.config.CORSOrigin)
		} else if origin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		} else {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	SetupRoutes(r, h.userUsecase, h.userHandler, h.logger)

	return r.Run(addr)
}
