// Package tokens is the token store: the access/refresh token pair
// currently on record for each user.
package tokens

import (
	"context"

	"github.com/dmitrijs2005/postkeeper/internal/server/models"
)

// Repository persists one token pair per user.
type Repository interface {
	// Save stores the pair for userID, replacing any pair already on record.
	Save(ctx context.Context, userID int64, accessToken, refreshToken string) error

	// FindByUserID returns common.ErrorNotFound when the user has no pair.
	FindByUserID(ctx context.Context, userID int64) (*models.Session, error)

	// FindByRefreshToken returns common.ErrorNotFound when no pair holds token.
	FindByRefreshToken(ctx context.Context, token string) (*models.Session, error)

	// DeleteAccessToken forgets the access token while keeping the refresh
	// token on record. Deleting an unknown token is not an error.
	DeleteAccessToken(ctx context.Context, token string) error

	// DeleteRefreshToken removes the pair holding token. Deleting an unknown
	// token is not an error.
	DeleteRefreshToken(ctx context.Context, token string) error

	// FindSessionByUsername joins users and tokens by username.
	// It returns common.ErrorNotFound when there is no such user or pair.
	FindSessionByUsername(ctx context.Context, userName string) (*models.Session, error)
}
