package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/postkeeper/internal/common"
	"github.com/dmitrijs2005/postkeeper/internal/server/config"
	"github.com/dmitrijs2005/postkeeper/internal/server/models"
	"github.com/dmitrijs2005/postkeeper/internal/server/repositories/repomanager"
	"golang.org/x/crypto/bcrypt"
)

type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	hashCost    int

	dummyOnce sync.Once
	dummyHash []byte
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		db:          db,
		repomanager: m,
		hashCost:    cfg.PasswordHashCost,
	}
}

// Register creates a user with a bcrypt hash of password.
func (s *UserService) Register(ctx context.Context, userName, password string) (*models.User, error) {
	if userName == "" || password == "" {
		return nil, fmt.Errorf("%w: username and password are required", common.ErrorValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, fmt.Errorf("%w: password is too long", common.ErrorValidation)
		}
		return nil, errors.Join(common.ErrorInternal, err)
	}

	repo := s.repomanager.Users(s.db)

	user, err := repo.Create(ctx, &models.User{UserName: userName, PasswordHash: string(hash)})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, err
		}
		return nil, errors.Join(common.ErrorStorage, err)
	}

	return user, nil
}

// ValidateCredentials returns the user when password matches its stored
// hash and (nil, nil) when the user is unknown or the password is wrong.
// Only storage faults are reported as errors.
func (s *UserService) ValidateCredentials(ctx context.Context, userName, password string) (*models.User, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetUserByLogin(ctx, userName)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			// keep timing close to the wrong-password path
			_ = bcrypt.CompareHashAndPassword(s.dummy(), []byte(password))
			return nil, nil
		}
		return nil, errors.Join(common.ErrorStorage, err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, nil
	}

	return user, nil
}

func (s *UserService) dummy() []byte {
	s.dummyOnce.Do(func() {
		hash, err := bcrypt.GenerateFromPassword([]byte("postkeeper-dummy-password"), s.hashCost)
		if err != nil {
			hash, _ = bcrypt.GenerateFromPassword([]byte("postkeeper-dummy-password"), bcrypt.DefaultCost)
		}
		s.dummyHash = hash
	})
	return s.dummyHash
}
