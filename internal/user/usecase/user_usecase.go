package usecase

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	userdomain "vidtube-backend/internal/user/domain"
	userdto "vidtube-backend/internal/user/dto"
	"vidtube-backend/internal/user/repository"
	"vidtube-backend/pkg/config"
	"vidtube-backend/pkg/response"
	"vidtube-backend/pkg/storage"
)

var errNoSuchUser = errors.New("user not found")

// userUsecase implements UserUsecase interface
type userUsecase struct {
	userRepo repository.UserRepository
	uploader storage.Uploader
	config   *config.Config
	logger   *slog.Logger
}

// NewUserUsecase creates a new instance of userUsecase
func NewUserUsecase(userRepo repository.UserRepository, uploader storage.Uploader, cfg *config.Config, logger *slog.Logger) UserUsecase {
	return &userUsecase{
		userRepo: userRepo,
		uploader: uploader,
		config:   cfg,
		logger:   logger,
	}
}

func (u *userUsecase) Register(ctx context.Context, req *userdto.RegisterRequest, avatarPath, coverPath string) (*userdomain.User, error) {
	for _, field := range []string{req.FullName, req.Email, req.Username, req.Password} {
		if strings.TrimSpace(field) == "" {
			return nil, response.NewAppError(http.StatusBadRequest, "all fields are required")
		}
	}

	existing, err := u.userRepo.FindByUsernameOrEmail(req.Username, req.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, response.NewAppError(http.StatusConflict, "user with email or username already exists")
	}

	if avatarPath == "" {
		return nil, response.NewAppError(http.StatusBadRequest, "avatar file is required")
	}

	avatar, err := u.uploader.Upload(ctx, avatarPath)
	if err != nil || avatar == nil {
		// Upload failure and missing file surface as the same client error;
		// the provider's reason only goes to the log.
		u.logger.Error("avatar upload failed", "path", avatarPath, "error", err)
		return nil, response.NewAppError(http.StatusBadRequest, "avatar file is required")
	}

	coverImageURL := ""
	if coverPath != "" {
		if cover, err := u.uploader.Upload(ctx, coverPath); err == nil && cover != nil {
			coverImageURL = cover.URL
		} else {
			u.logger.Warn("cover image upload failed", "path", coverPath, "error", err)
		}
	}

	hashedPassword, err := repository.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &userdomain.User{
		FullName:   req.FullName,
		Avatar:     avatar.URL,
		CoverImage: coverImageURL,
		Email:      req.Email,
		Password:   hashedPassword,
		Username:   strings.ToLower(req.Username),
	}
	if err := u.userRepo.Create(user); err != nil {
		return nil, err
	}

	created, err := u.userRepo.FindByID(user.ID)
	if err != nil || created == nil {
		return nil, response.NewAppError(http.StatusInternalServerError,
			"something went wrong while registering the user")
	}

	return created.Sanitized(), nil
}

func (u *userUsecase) Login(ctx context.Context, req *userdto.LoginRequest) (*userdto.SessionData, error) {
	if req.Username == "" && req.Email == "" {
		return nil, response.NewAppError(http.StatusBadRequest, "username or password is required")
	}

	user, err := u.userRepo.FindByUsernameOrEmail(req.Username, req.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, response.NewAppError(http.StatusNotFound, "user does not exist")
	}

	if !repository.CheckPasswordHash(req.Password, user.Password) {
		return nil, response.NewAppError(http.StatusUnauthorized, "invalid user credentials")
	}

	accessToken, refreshToken, err := u.issueTokens(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	loggedIn, err := u.userRepo.FindByID(user.ID)
	if err != nil || loggedIn == nil {
		return nil, response.NewAppError(http.StatusInternalServerError,
			"something went wrong while logging in the user")
	}

	return &userdto.SessionData{
		User:         loggedIn.Sanitized(),
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// Logout clears the stored refresh token. Clearing an already-empty field is
// a no-op, so repeated logouts are safe.
func (u *userUsecase) Logout(ctx context.Context, userID string) error {
	return u.userRepo.UpdateRefreshToken(userID, "")
}

func (u *userUsecase) RefreshSession(ctx context.Context, refreshToken string) (*userdto.TokenPair, error) {
	if refreshToken == "" {
		return nil, response.NewAppError(http.StatusUnauthorized, "unauthorized request")
	}

	claims, err := u.parseRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}

	user, err := u.userRepo.FindByID(claims.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, response.NewAppError(http.StatusUnauthorized, "invalid refresh token")
	}

	// Only the stored current value is honored; an older token that still
	// verifies cryptographically has been superseded.
	if user.RefreshToken != refreshToken {
		return nil, response.NewAppError(http.StatusUnauthorized, "refresh token is expired or used")
	}

	accessToken, newRefreshToken, err := u.issueTokens(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	return &userdto.TokenPair{AccessToken: accessToken, RefreshToken: newRefreshToken}, nil
}

func (u *userUsecase) ValidateAccessToken(tokenString string) (*userdomain.User, error) {
	claims, err := u.parseAccessToken(tokenString)
	if err != nil {
		return nil, err
	}

	user, err := u.userRepo.FindByID(claims.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, response.NewAppError(http.StatusUnauthorized, "invalid access token")
	}

	return user, nil
}
