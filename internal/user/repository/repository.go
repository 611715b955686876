package repository

import userdomain "vidtube-backend/internal/user/domain"

// UserRepository is the persistence contract for identity records.
type UserRepository interface {
	Create(user *userdomain.User) error
	FindByID(id string) (*userdomain.User, error)
	FindByUsernameOrEmail(username, email string) (*userdomain.User, error)
	// UpdateRefreshToken patches the refresh-token column only, so token
	// rotation cannot fail on unrelated record validation. An empty token
	// clears the session.
	UpdateRefreshToken(id, token string) error
}
