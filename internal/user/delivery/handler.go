package delivery

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"

	userdomain "vidtube-backend/internal/user/domain"
	userdto "vidtube-backend/internal/user/dto"
	"vidtube-backend/internal/user/usecase"
	"vidtube-backend/pkg/config"
	"vidtube-backend/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type UserHandler struct {
	userUsecase usecase.UserUsecase
	config      *config.Config
	logger      *slog.Logger
}

func NewUserHandler(userUsecase usecase.UserUsecase, cfg *config.Config, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		userUsecase: userUsecase,
		config:      cfg,
		logger:      logger,
	}
}

// Wrap is the single error boundary: handlers return errors, and any error
// that escapes is rendered as the failure envelope instead of crashing or
// leaking a stack trace.
func Wrap(logger *slog.Logger, h func(c *gin.Context) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		err := h(c)
		if err == nil {
			return
		}
		var appErr *response.AppError
		if !errors.As(err, &appErr) {
			logger.Error("unhandled error", "path", c.FullPath(), "error", err)
			appErr = response.NewAppError(http.StatusInternalServerError, "internal server error")
		}
		c.JSON(appErr.StatusCode, response.FailureEnvelope{
			StatusCode: appErr.StatusCode,
			Message:    appErr.Message,
			Success:    false,
		})
	}
}

// spoolFile writes the first uploaded file for the field to the temp dir and
// returns its local path, or "" when the field is absent.
func (h *UserHandler) spoolFile(c *gin.Context, field string) (string, error) {
	file, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return "", nil
		}
		return "", err
	}
	dst := filepath.Join(h.config.TempUploadDir, fmt.Sprintf("%s%s", uuid.New(), filepath.Ext(file.Filename)))
	if err := c.SaveUploadedFile(file, dst); err != nil {
		return "", err
	}
	return dst, nil
}

func (h *UserHandler) Register(c *gin.Context) error {
	var req userdto.RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		return response.NewAppError(http.StatusBadRequest, "all fields are required")
	}

	avatarPath, err := h.spoolFile(c, "avatar")
	if err != nil {
		return err
	}
	coverPath, err := h.spoolFile(c, "coverImage")
	if err != nil {
		return err
	}

	created, err := h.userUsecase.Register(c.Request.Context(), &req, avatarPath, coverPath)
	if err != nil {
		return err
	}

	// The body keeps statusCode 200 while the transport says 201; existing
	// clients depend on the envelope as-is.
	c.JSON(http.StatusCreated, response.New(http.StatusOK, created, "User registered successfully"))
	return nil
}

func (h *UserHandler) Login(c *gin.Context) error {
	var req userdto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return response.NewAppError(http.StatusBadRequest, "username or password is required")
	}

	session, err := h.userUsecase.Login(c.Request.Context(), &req)
	if err != nil {
		return err
	}

	h.setSessionCookies(c, session.AccessToken, session.RefreshToken)
	c.JSON(http.StatusOK, response.New(http.StatusOK, session, "User logged in Successfully"))
	return nil
}

func (h *UserHandler) Logout(c *gin.Context) error {
	user := CurrentUser(c)
	if user == nil {
		return response.NewAppError(http.StatusUnauthorized, "unauthorized request")
	}

	if err := h.userUsecase.Logout(c.Request.Context(), user.ID); err != nil {
		return err
	}

	h.clearSessionCookies(c)
	c.JSON(http.StatusOK, response.New(http.StatusOK, gin.H{}, "User logged out successfully"))
	return nil
}

func (h *UserHandler) RefreshToken(c *gin.Context) error {
	incoming, _ := c.Cookie("refreshToken")
	if incoming == "" {
		var req userdto.RefreshRequest
		if err := c.ShouldBindJSON(&req); err == nil {
			incoming = req.RefreshToken
		}
	}

	pair, err := h.userUsecase.RefreshSession(c.Request.Context(), incoming)
	if err != nil {
		return err
	}

	h.setSessionCookies(c, pair.AccessToken, pair.RefreshToken)
	c.JSON(http.StatusOK, response.New(http.StatusOK, pair, "Access token refreshed"))
	return nil
}

func (h *UserHandler) Me(c *gin.Context) error {
	user := CurrentUser(c)
	if user == nil {
		return response.NewAppError(http.StatusUnauthorized, "unauthorized request")
	}
	c.JSON(http.StatusOK, response.New(http.StatusOK, user, "User fetched successfully"))
	return nil
}

// Session cookies carry no explicit expiry; they live for the browser
// session while the tokens bound their own validity.
func (h *UserHandler) setSessionCookies(c *gin.Context, accessToken, refreshToken string) {
	c.SetCookie("accessToken", accessToken, 0, "/", "", h.config.CookieSecure, true)
	c.SetCookie("refreshToken", refreshToken, 0, "/", "", h.config.CookieSecure, true)
}

func (h *UserHandler) clearSessionCookies(c *gin.Context) {
	c.SetCookie("accessToken", "", -1, "/", "", h.config.CookieSecure, true)
	c.SetCookie("refreshToken", "", -1, "/", "", h.config.CookieSecure, true)
}

// CurrentUser returns the authenticated identity attached by AuthMiddleware.
func CurrentUser(c *gin.Context) *userdomain.User {
	v, ok := c.Get("user")
	if !ok {
		return nil
	}
	user, ok := v.(*userdomain.User)
	if !ok {
		return nil
	}
	return user
}
