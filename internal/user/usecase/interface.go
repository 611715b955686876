package usecase

import (
	"context"

	userdomain "vidtube-backend/internal/user/domain"
	userdto "vidtube-backend/internal/user/dto"
)

// UserUsecase orchestrates the account lifecycle: registration with media
// attachments, credential login, logout, and refresh-token rotation.
type UserUsecase interface {
	// Register creates the identity. avatarPath/coverPath are local spooled
	// file paths; coverPath may be empty. Returns the sanitized record.
	Register(ctx context.Context, req *userdto.RegisterRequest, avatarPath, coverPath string) (*userdomain.User, error)
	Login(ctx context.Context, req *userdto.LoginRequest) (*userdto.SessionData, error)
	Logout(ctx context.Context, userID string) error
	RefreshSession(ctx context.Context, refreshToken string) (*userdto.TokenPair, error)
	ValidateAccessToken(tokenString string) (*userdomain.User, error)
}
