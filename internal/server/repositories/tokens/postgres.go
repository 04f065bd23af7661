package tokens

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/postkeeper/internal/common"
	"github.com/dmitrijs2005/postkeeper/internal/dbx"
	"github.com/dmitrijs2005/postkeeper/internal/server/models"
)

// PostgresRepository implements Repository over dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Save upserts the pair keyed by user_id.
func (r *PostgresRepository) Save(ctx context.Context, userID int64, accessToken, refreshToken string) error {
	query := `
		INSERT INTO tokens (user_id, access_token, refresh_token)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id)
		DO UPDATE SET access_token = EXCLUDED.access_token, refresh_token = EXCLUDED.refresh_token
	`
	if _, err := r.db.ExecContext(ctx, query, userID, accessToken, refreshToken); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) FindByUserID(ctx context.Context, userID int64) (*models.Session, error) {
	query := `
		SELECT user_id, access_token, refresh_token
		FROM tokens
		WHERE user_id = $1
	`
	return r.scanOne(r.db.QueryRowContext(ctx, query, userID))
}

func (r *PostgresRepository) FindByRefreshToken(ctx context.Context, token string) (*models.Session, error) {
	query := `
		SELECT user_id, access_token, refresh_token
		FROM tokens
		WHERE refresh_token = $1
	`
	return r.scanOne(r.db.QueryRowContext(ctx, query, token))
}

// DeleteAccessToken blanks the access token column. An empty token matches
// nothing, so logged-out rows are never touched again.
func (r *PostgresRepository) DeleteAccessToken(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	query := `
		UPDATE tokens SET access_token = ''
		WHERE access_token = $1
	`
	if _, err := r.db.ExecContext(ctx, query, token); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) DeleteRefreshToken(ctx context.Context, token string) error {
	query := `
		DELETE FROM tokens
		WHERE refresh_token = $1
	`
	if _, err := r.db.ExecContext(ctx, query, token); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) FindSessionByUsername(ctx context.Context, userName string) (*models.Session, error) {
	query := `
		SELECT t.user_id, u.username, t.access_token, t.refresh_token
		FROM users u
		INNER JOIN tokens t ON u.id = t.user_id
		WHERE u.username = $1
	`
	s := &models.Session{}
	err := r.db.QueryRowContext(ctx, query, userName).
		Scan(&s.UserID, &s.UserName, &s.AccessToken, &s.RefreshToken)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return s, nil
}

func (r *PostgresRepository) scanOne(row *sql.Row) (*models.Session, error) {
	s := &models.Session{}
	if err := row.Scan(&s.UserID, &s.AccessToken, &s.RefreshToken); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return s, nil
}
