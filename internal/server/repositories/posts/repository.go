// Package posts is the authoritative post store.
package posts

import (
	"context"

	"github.com/dmitrijs2005/postkeeper/internal/server/models"
)

type Repository interface {
	// Create inserts post and fills in its generated ID and CreatedAt.
	// An unknown UserID yields common.ErrorValidation.
	Create(ctx context.Context, post *models.Post) (*models.Post, error)

	// List returns every post in insertion (id) order.
	List(ctx context.Context) ([]*models.Post, error)
}
