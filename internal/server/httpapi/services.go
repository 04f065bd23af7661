package httpapi

import (
	"context"

	"github.com/dmitrijs2005/postkeeper/internal/server/auth"
	"github.com/dmitrijs2005/postkeeper/internal/server/models"
	"github.com/dmitrijs2005/postkeeper/internal/server/services"
)

type AuthService interface {
	ValidateCredentials(ctx context.Context, userName, password string) (*models.User, error)
	Login(ctx context.Context, user *models.User) (*services.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (string, error)
	Logout(ctx context.Context, accessToken string) error
	Authenticate(ctx context.Context, accessToken string) (*auth.Claims, error)
	FindSessionByUsername(ctx context.Context, userName string) (*models.Session, error)
}

type UserService interface {
	Register(ctx context.Context, userName, password string) (*models.User, error)
}

type PostService interface {
	Create(ctx context.Context, title, content string, userID int64) (*models.Post, error)
	List(ctx context.Context) ([]*models.Post, error)
}
