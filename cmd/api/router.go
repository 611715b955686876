package api

import (
	"log/slog"
	"net/http"

	"vidtube-backend/internal/user/delivery"
	userUsecase "vidtube-backend/internal/user/usecase"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, userUc userUsecase.UserUsecase, userHandler *delivery.UserHandler, logger *slog.Logger) {
	api := r.Group("/api/v1")
	{
		// Health check (no auth required)
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		users := api.Group("/users")
		{
			users.POST("/register", delivery.Wrap(logger, userHandler.Register))
			users.POST("/login", delivery.Wrap(logger, userHandler.Login))
			users.POST("/refresh-token", delivery.Wrap(logger, userHandler.RefreshToken))
			users.POST("/logout", delivery.AuthMiddleware(userUc), delivery.Wrap(logger, userHandler.Logout))
			users.GET("/me", delivery.AuthMiddleware(userUc), delivery.Wrap(logger, userHandler.Me))
		}
	}
}
