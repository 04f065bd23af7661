package services

import (
	"context"
	"crypto/subtle"
	"database/sql"
	"errors"
	"time"

	"github.com/dmitrijs2005/postkeeper/internal/common"
	"github.com/dmitrijs2005/postkeeper/internal/dbx"
	"github.com/dmitrijs2005/postkeeper/internal/server/auth"
	"github.com/dmitrijs2005/postkeeper/internal/server/config"
	"github.com/dmitrijs2005/postkeeper/internal/server/models"
	"github.com/dmitrijs2005/postkeeper/internal/server/repositories/repomanager"
)

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// CredentialValidator checks a username/password pair.
type CredentialValidator interface {
	ValidateCredentials(ctx context.Context, userName, password string) (*models.User, error)
}

// AuthService issues, refreshes and revokes token pairs.
//
// A user has at most one stored pair. Login returns the stored pair while
// both of its tokens still verify and replaces it otherwise. Logout forgets
// only the access token; the refresh token stays usable until it expires.
type AuthService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	credentials CredentialValidator
	codec       *auth.Codec

	accessTokenValidityDuration          time.Duration
	refreshTokenValidityDuration         time.Duration
	refreshedAccessTokenValidityDuration time.Duration
}

func NewAuthService(db *sql.DB, m repomanager.RepositoryManager, credentials CredentialValidator, codec *auth.Codec, cfg *config.Config) *AuthService {
	return &AuthService{
		db:                                   db,
		repomanager:                          m,
		credentials:                          credentials,
		codec:                                codec,
		accessTokenValidityDuration:          cfg.AccessTokenValidityDuration,
		refreshTokenValidityDuration:         cfg.RefreshTokenValidityDuration,
		refreshedAccessTokenValidityDuration: cfg.RefreshedAccessTokenValidityDuration,
	}
}

func (s *AuthService) ValidateCredentials(ctx context.Context, userName, password string) (*models.User, error) {
	return s.credentials.ValidateCredentials(ctx, userName, password)
}

func (s *AuthService) Login(ctx context.Context, user *models.User) (*TokenPair, error) {
	repo := s.repomanager.Tokens(s.db)

	existing, err := repo.FindByUserID(ctx, user.ID)
	switch {
	case err == nil:
		if s.codec.Valid(existing.AccessToken) && s.codec.Valid(existing.RefreshToken) {
			return &TokenPair{AccessToken: existing.AccessToken, RefreshToken: existing.RefreshToken}, nil
		}
	case errors.Is(err, common.ErrorNotFound):
		existing = nil
	default:
		return nil, errors.Join(common.ErrorStorage, err)
	}

	claims := auth.Claims{Subject: user.ID, UserName: user.UserName}

	accessToken, err := s.codec.Sign(claims, s.accessTokenValidityDuration)
	if err != nil {
		return nil, errors.Join(common.ErrorInternal, err)
	}

	refreshToken, err := s.codec.Sign(claims, s.refreshTokenValidityDuration)
	if err != nil {
		return nil, errors.Join(common.ErrorInternal, err)
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		txRepo := s.repomanager.Tokens(tx)

		if existing != nil {
			if err := txRepo.DeleteAccessToken(ctx, existing.AccessToken); err != nil {
				return err
			}
			if err := txRepo.DeleteRefreshToken(ctx, existing.RefreshToken); err != nil {
				return err
			}
		}

		return txRepo.Save(ctx, user.ID, accessToken, refreshToken)
	})
	if err != nil {
		return nil, errors.Join(common.ErrorStorage, err)
	}

	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// Refresh mints a new access token for a stored, still valid refresh token.
// The refresh token itself is kept.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	repo := s.repomanager.Tokens(s.db)

	stored, err := repo.FindByRefreshToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.ErrRefreshTokenNotFound
		}
		return "", errors.Join(common.ErrorStorage, err)
	}

	claims, err := s.codec.Verify(refreshToken)
	if err != nil || claims.Subject != stored.UserID {
		return "", common.ErrRefreshTokenInvalid
	}

	accessToken, err := s.codec.Sign(*claims, s.refreshedAccessTokenValidityDuration)
	if err != nil {
		return "", errors.Join(common.ErrorInternal, err)
	}

	if err := repo.Save(ctx, claims.Subject, accessToken, refreshToken); err != nil {
		return "", errors.Join(common.ErrorStorage, err)
	}

	return accessToken, nil
}

// Logout forgets accessToken. Unknown tokens are ignored.
func (s *AuthService) Logout(ctx context.Context, accessToken string) error {
	if err := s.repomanager.Tokens(s.db).DeleteAccessToken(ctx, accessToken); err != nil {
		return errors.Join(common.ErrorStorage, err)
	}
	return nil
}

// ValidateToken reports whether token verifies, without consulting storage.
func (s *AuthService) ValidateToken(token string) bool {
	return s.codec.Valid(token)
}

// Authenticate verifies accessToken and checks that it is the access token
// currently on record for its subject, so logged-out tokens are rejected.
func (s *AuthService) Authenticate(ctx context.Context, accessToken string) (*auth.Claims, error) {
	claims, err := s.codec.Verify(accessToken)
	if err != nil {
		return nil, errors.Join(common.ErrorUnauthorized, err)
	}

	stored, err := s.repomanager.Tokens(s.db).FindByUserID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, errors.Join(common.ErrorStorage, err)
	}

	if subtle.ConstantTimeCompare([]byte(stored.AccessToken), []byte(accessToken)) != 1 {
		return nil, common.ErrorUnauthorized
	}

	return claims, nil
}

func (s *AuthService) FindSessionByUsername(ctx context.Context, userName string) (*models.Session, error) {
	session, err := s.repomanager.Tokens(s.db).FindSessionByUsername(ctx, userName)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, err
		}
		return nil, errors.Join(common.ErrorStorage, err)
	}
	return session, nil
}
