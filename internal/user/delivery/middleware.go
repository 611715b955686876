package delivery

import (
	"net/http"
	"strings"

	"vidtube-backend/internal/user/usecase"
	"vidtube-backend/pkg/response"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware validates the access token from the session cookie or the
// Authorization header and attaches the sanitized user to the context.
func AuthMiddleware(userUsecase usecase.UserUsecase) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie("accessToken")
		if token == "" {
			authHeader := c.GetHeader("Authorization")
			if parts := strings.Split(authHeader, " "); len(parts) == 2 && parts[0] == "Bearer" {
				token = parts[1]
			}
		}
		if token == "" {
			abortUnauthorized(c, "unauthorized request")
			return
		}

		user, err := userUsecase.ValidateAccessToken(token)
		if err != nil {
			abortUnauthorized(c, "invalid access token")
			return
		}

		c.Set("user", user.Sanitized())
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, response.FailureEnvelope{
		StatusCode: http.StatusUnauthorized,
		Message:    message,
		Success:    false,
	})
}
