// Package users is the credential store: registered users and their
// password hashes.
package users

import (
	"context"

	"github.com/dmitrijs2005/postkeeper/internal/server/models"
)

type Repository interface {
	// Create inserts user and fills in its generated ID and CreatedAt.
	// A taken username yields common.ErrorAlreadyExists.
	Create(ctx context.Context, user *models.User) (*models.User, error)

	// GetUserByLogin returns common.ErrorNotFound when no user has that name.
	GetUserByLogin(ctx context.Context, login string) (*models.User, error)
}
