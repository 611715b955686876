package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	userdomain "vidtube-backend/internal/user/domain"
	userdto "vidtube-backend/internal/user/dto"
	"vidtube-backend/internal/user/repository"
	"vidtube-backend/pkg/config"
	"vidtube-backend/pkg/response"
	"vidtube-backend/pkg/storage"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUserRepo struct {
	users     map[string]*userdomain.User
	findErr   error
	updateErr error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*userdomain.User{}}
}

func (r *fakeUserRepo) Create(user *userdomain.User) error {
	user.ID = uuid.New().String()
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()
	c := *user
	r.users[user.ID] = &c
	return nil
}

func (r *fakeUserRepo) FindByID(id string) (*userdomain.User, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	c := *u
	return &c, nil
}

func (r *fakeUserRepo) FindByUsernameOrEmail(username, email string) (*userdomain.User, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	for _, u := range r.users {
		if (username != "" && u.Username == username) || (email != "" && u.Email == email) {
			c := *u
			return &c, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) UpdateRefreshToken(id, token string) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	if u, ok := r.users[id]; ok {
		u.RefreshToken = token
	}
	return nil
}

type fakeUploader struct {
	calls   int
	failErr error
}

func (f *fakeUploader) Upload(_ context.Context, localFilePath string) (*storage.UploadResult, error) {
	f.calls++
	if f.failErr != nil {
		return nil, f.failErr
	}
	return &storage.UploadResult{URL: fmt.Sprintf("https://media.test/%s", localFilePath)}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		AccessTokenSecret:  "test-access-secret",
		AccessTokenExpiry:  15 * time.Minute,
		RefreshTokenSecret: "test-refresh-secret",
		RefreshTokenExpiry: 24 * time.Hour,
	}
}

func newTestUsecase(t *testing.T) (UserUsecase, *fakeUserRepo, *fakeUploader) {
	t.Helper()
	repo := newFakeUserRepo()
	up := &fakeUploader{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewUserUsecase(repo, up, testConfig(), logger), repo, up
}

func registerReq() *userdto.RegisterRequest {
	return &userdto.RegisterRequest{
		FullName: "Ada Lovelace",
		Email:    "ada@x.io",
		Username: "Ada",
		Password: "secret1",
	}
}

func registerTestUser(t *testing.T, uc UserUsecase) *userdomain.User {
	t.Helper()
	created, err := uc.Register(context.Background(), registerReq(), "avatar.png", "")
	require.NoError(t, err)
	return created
}

func appErrCode(t *testing.T, err error) int {
	t.Helper()
	var appErr *response.AppError
	require.ErrorAs(t, err, &appErr)
	return appErr.StatusCode
}

func TestRegisterMissingFieldsRejected(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *userdto.RegisterRequest)
	}{
		{"empty full name", func(r *userdto.RegisterRequest) { r.FullName = "" }},
		{"empty email", func(r *userdto.RegisterRequest) { r.Email = "" }},
		{"empty username", func(r *userdto.RegisterRequest) { r.Username = "" }},
		{"empty password", func(r *userdto.RegisterRequest) { r.Password = "" }},
		{"whitespace full name", func(r *userdto.RegisterRequest) { r.FullName = "   " }},
		{"whitespace password", func(r *userdto.RegisterRequest) { r.Password = "\t\n" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc, repo, up := newTestUsecase(t)
			req := registerReq()
			tt.mutate(req)

			_, err := uc.Register(context.Background(), req, "avatar.png", "")

			assert.Equal(t, http.StatusBadRequest, appErrCode(t, err))
			assert.EqualError(t, err, "all fields are required")
			assert.Empty(t, repo.users, "no record should be created")
			assert.Zero(t, up.calls, "nothing should be uploaded")
		})
	}
}

func TestRegisterDuplicateRejected(t *testing.T) {
	uc, repo, _ := newTestUsecase(t)
	registerTestUser(t, uc)

	tests := []struct {
		name   string
		mutate func(r *userdto.RegisterRequest)
	}{
		{"same username", func(r *userdto.RegisterRequest) { r.Email = "other@x.io"; r.Username = "ada" }},
		{"same email", func(r *userdto.RegisterRequest) { r.Username = "grace" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := registerReq()
			tt.mutate(req)

			_, err := uc.Register(context.Background(), req, "avatar.png", "")

			assert.Equal(t, http.StatusConflict, appErrCode(t, err))
			assert.Len(t, repo.users, 1, "no duplicate record")
		})
	}
}

func TestRegisterRequiresAvatar(t *testing.T) {
	uc, repo, _ := newTestUsecase(t)

	_, err := uc.Register(context.Background(), registerReq(), "", "")

	assert.Equal(t, http.StatusBadRequest, appErrCode(t, err))
	assert.EqualError(t, err, "avatar file is required")
	assert.Empty(t, repo.users)
}

func TestRegisterAvatarUploadFailure(t *testing.T) {
	uc, repo, up := newTestUsecase(t)
	up.failErr = errors.New("provider unreachable")

	_, err := uc.Register(context.Background(), registerReq(), "avatar.png", "")

	assert.Equal(t, http.StatusBadRequest, appErrCode(t, err))
	assert.EqualError(t, err, "avatar file is required")
	assert.Empty(t, repo.users)
}

func TestRegisterSuccess(t *testing.T) {
	uc, repo, up := newTestUsecase(t)

	created, err := uc.Register(context.Background(), registerReq(), "avatar.png", "cover.png")
	require.NoError(t, err)

	assert.Equal(t, "ada", created.Username, "username is stored lower-cased")
	assert.Equal(t, "ada@x.io", created.Email)
	assert.Equal(t, "Ada Lovelace", created.FullName)
	assert.Equal(t, "https://media.test/avatar.png", created.Avatar)
	assert.Equal(t, "https://media.test/cover.png", created.CoverImage)
	assert.Empty(t, created.Password, "sanitized record has no password")
	assert.Empty(t, created.RefreshToken, "sanitized record has no refresh token")
	assert.Equal(t, 2, up.calls)

	stored := repo.users[created.ID]
	require.NotNil(t, stored)
	assert.NotEqual(t, "secret1", stored.Password, "password is stored hashed")
	assert.True(t, repository.CheckPasswordHash("secret1", stored.Password))
}

func TestRegisterCoverImageOptional(t *testing.T) {
	uc, _, _ := newTestUsecase(t)

	created, err := uc.Register(context.Background(), registerReq(), "avatar.png", "")
	require.NoError(t, err)

	assert.Equal(t, "", created.CoverImage, "cover image defaults to empty")
}

func TestLoginRequiresUsernameOrEmail(t *testing.T) {
	uc, _, _ := newTestUsecase(t)

	_, err := uc.Login(context.Background(), &userdto.LoginRequest{Password: "secret1"})

	assert.Equal(t, http.StatusBadRequest, appErrCode(t, err))
	assert.EqualError(t, err, "username or password is required")
}

func TestLoginUnknownUser(t *testing.T) {
	uc, _, _ := newTestUsecase(t)

	_, err := uc.Login(context.Background(), &userdto.LoginRequest{Username: "nobody", Password: "secret1"})

	assert.Equal(t, http.StatusNotFound, appErrCode(t, err))
}

func TestLoginWrongPassword(t *testing.T) {
	uc, repo, _ := newTestUsecase(t)
	created := registerTestUser(t, uc)

	_, err := uc.Login(context.Background(), &userdto.LoginRequest{Username: "ada", Password: "wrong"})

	assert.Equal(t, http.StatusUnauthorized, appErrCode(t, err))
	assert.EqualError(t, err, "invalid user credentials")
	assert.Empty(t, repo.users[created.ID].RefreshToken, "stored refresh token unchanged")
}

func TestLoginSuccess(t *testing.T) {
	uc, repo, _ := newTestUsecase(t)
	created := registerTestUser(t, uc)

	session, err := uc.Login(context.Background(), &userdto.LoginRequest{Username: "ada", Password: "secret1"})
	require.NoError(t, err)

	assert.NotEmpty(t, session.AccessToken)
	assert.NotEmpty(t, session.RefreshToken)
	assert.NotEqual(t, session.AccessToken, session.RefreshToken)
	assert.Equal(t, session.RefreshToken, repo.users[created.ID].RefreshToken, "refresh token persisted")
	assert.Equal(t, "ada", session.User.Username)
	assert.Empty(t, session.User.Password)
	assert.Empty(t, session.User.RefreshToken)
}

func TestLoginByEmail(t *testing.T) {
	uc, _, _ := newTestUsecase(t)
	registerTestUser(t, uc)

	session, err := uc.Login(context.Background(), &userdto.LoginRequest{Email: "ada@x.io", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "ada", session.User.Username)
}

func TestSequentialLoginsRotateRefreshToken(t *testing.T) {
	uc, repo, _ := newTestUsecase(t)
	created := registerTestUser(t, uc)

	first, err := uc.Login(context.Background(), &userdto.LoginRequest{Username: "ada", Password: "secret1"})
	require.NoError(t, err)
	second, err := uc.Login(context.Background(), &userdto.LoginRequest{Username: "ada", Password: "secret1"})
	require.NoError(t, err)

	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)
	assert.Equal(t, second.RefreshToken, repo.users[created.ID].RefreshToken, "only the latest value is current")
}

func TestLogoutClearsRefreshTokenAndIsIdempotent(t *testing.T) {
	uc, repo, _ := newTestUsecase(t)
	created := registerTestUser(t, uc)

	_, err := uc.Login(context.Background(), &userdto.LoginRequest{Username: "ada", Password: "secret1"})
	require.NoError(t, err)
	require.NotEmpty(t, repo.users[created.ID].RefreshToken)

	require.NoError(t, uc.Logout(context.Background(), created.ID))
	assert.Empty(t, repo.users[created.ID].RefreshToken)

	// Second logout is a no-op on the already-cleared field.
	require.NoError(t, uc.Logout(context.Background(), created.ID))
	assert.Empty(t, repo.users[created.ID].RefreshToken)
}

func TestRefreshSessionRotates(t *testing.T) {
	uc, repo, _ := newTestUsecase(t)
	created := registerTestUser(t, uc)

	session, err := uc.Login(context.Background(), &userdto.LoginRequest{Username: "ada", Password: "secret1"})
	require.NoError(t, err)

	pair, err := uc.RefreshSession(context.Background(), session.RefreshToken)
	require.NoError(t, err)

	assert.NotEqual(t, session.RefreshToken, pair.RefreshToken)
	assert.Equal(t, pair.RefreshToken, repo.users[created.ID].RefreshToken)

	// The superseded token no longer matches the stored current value.
	_, err = uc.RefreshSession(context.Background(), session.RefreshToken)
	assert.Equal(t, http.StatusUnauthorized, appErrCode(t, err))
	assert.EqualError(t, err, "refresh token is expired or used")
}

func TestRefreshSessionRejectsMissingOrGarbageToken(t *testing.T) {
	uc, _, _ := newTestUsecase(t)

	_, err := uc.RefreshSession(context.Background(), "")
	assert.Equal(t, http.StatusUnauthorized, appErrCode(t, err))

	_, err = uc.RefreshSession(context.Background(), "not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, appErrCode(t, err))
}

func TestValidateAccessToken(t *testing.T) {
	uc, _, _ := newTestUsecase(t)
	registerTestUser(t, uc)

	session, err := uc.Login(context.Background(), &userdto.LoginRequest{Username: "ada", Password: "secret1"})
	require.NoError(t, err)

	user, err := uc.ValidateAccessToken(session.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "ada", user.Username)

	_, err = uc.ValidateAccessToken("garbage")
	assert.Equal(t, http.StatusUnauthorized, appErrCode(t, err))
}
