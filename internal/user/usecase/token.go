package usecase

import (
	"context"
	"net/http"
	"time"

	"vidtube-backend/pkg/response"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type AccessTokenClaims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
	jwt.RegisteredClaims
}

type RefreshTokenClaims struct {
	UserID string `json:"user_id"`
	// TokenID makes every minted token unique even within one clock second,
	// so rotation always supersedes the stored value.
	TokenID string `json:"token_id"`
	jwt.RegisteredClaims
}

// issueTokens mints an access/refresh pair for the user and persists the
// refresh token as the single current value, superseding any prior one.
// Any underlying failure is flattened to one 500 so callers never see
// signing-key or storage detail; the true cause is logged here.
func (u *userUsecase) issueTokens(ctx context.Context, userID string) (accessToken, refreshToken string, err error) {
	fail := func(cause error) (string, string, error) {
		u.logger.Error("token generation failed", "user_id", userID, "error", cause)
		return "", "", response.NewAppError(http.StatusInternalServerError,
			"something went wrong while generating refresh and access token")
	}

	user, err := u.userRepo.FindByID(userID)
	if err != nil {
		return fail(err)
	}
	if user == nil {
		return fail(errNoSuchUser)
	}

	now := time.Now()

	accessToken, err = jwt.NewWithClaims(jwt.SigningMethodHS256, AccessTokenClaims{
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
		FullName: user.FullName,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(u.config.AccessTokenExpiry)),
		},
	}).SignedString([]byte(u.config.AccessTokenSecret))
	if err != nil {
		return fail(err)
	}

	refreshToken, err = jwt.NewWithClaims(jwt.SigningMethodHS256, RefreshTokenClaims{
		UserID:  user.ID,
		TokenID: uuid.New().String(),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(u.config.RefreshTokenExpiry)),
		},
	}).SignedString([]byte(u.config.RefreshTokenSecret))
	if err != nil {
		return fail(err)
	}

	// Single-field patch: rotation must not trip validation on other columns.
	if err := u.userRepo.UpdateRefreshToken(user.ID, refreshToken); err != nil {
		return fail(err)
	}

	return accessToken, refreshToken, nil
}

func (u *userUsecase) parseRefreshToken(tokenString string) (*RefreshTokenClaims, error) {
	claims := &RefreshTokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(u.config.RefreshTokenSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, response.NewAppError(http.StatusUnauthorized, "invalid refresh token")
	}
	return claims, nil
}

func (u *userUsecase) parseAccessToken(tokenString string) (*AccessTokenClaims, error) {
	claims := &AccessTokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(u.config.AccessTokenSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, response.NewAppError(http.StatusUnauthorized, "invalid access token")
	}
	return claims, nil
}
