package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/postkeeper/internal/common"
	"github.com/dmitrijs2005/postkeeper/internal/logging"
	"github.com/dmitrijs2005/postkeeper/internal/server/cache"
	"github.com/dmitrijs2005/postkeeper/internal/server/config"
	"github.com/dmitrijs2005/postkeeper/internal/server/models"
	"github.com/dmitrijs2005/postkeeper/internal/server/repositories/repomanager"
)

// PostService writes posts to the store and keeps the full post list cached
// under common.PostsCacheKey.
//
// Two concurrent Create calls may both read the cached list before either
// writes it back, dropping one post from the cache until the key expires.
// The store is unaffected.
type PostService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	cache       cache.Cache
	cacheTTL    time.Duration
	logger      logging.Logger
}

func NewPostService(db *sql.DB, m repomanager.RepositoryManager, c cache.Cache, cfg *config.Config, logger logging.Logger) *PostService {
	return &PostService{
		db:          db,
		repomanager: m,
		cache:       c,
		cacheTTL:    cfg.PostsCacheTTL,
		logger:      logger,
	}
}

func (s *PostService) Create(ctx context.Context, title, content string, userID int64) (*models.Post, error) {
	if title == "" || content == "" || userID <= 0 {
		return nil, fmt.Errorf("%w: title, content and user_id are required", common.ErrorValidation)
	}

	repo := s.repomanager.Posts(s.db)

	post, err := repo.Create(ctx, &models.Post{Title: title, Content: content, UserID: userID})
	if err != nil {
		if errors.Is(err, common.ErrorValidation) {
			return nil, err
		}
		return nil, errors.Join(common.ErrorStorage, err)
	}

	if err := s.appendToCache(ctx, post); err != nil {
		s.logger.Error(ctx, "post cache update failed", "post_id", post.ID, "error", err)
		if delErr := s.cache.Del(ctx, common.PostsCacheKey); delErr != nil {
			s.logger.Error(ctx, "post cache invalidation failed", "error", delErr)
		}
		return nil, errors.Join(common.ErrorStorage, err)
	}

	return post, nil
}

// List serves the post list from the cache, falling back to the store and
// repopulating the cache on a miss.
func (s *PostService) List(ctx context.Context) ([]*models.Post, error) {
	posts, err := s.cachedPosts(ctx)
	if err == nil {
		return posts, nil
	}
	if !errors.Is(err, cache.ErrMiss) {
		s.logger.Warn(ctx, "post cache read failed", "error", err)
	}

	posts, err = s.repomanager.Posts(s.db).List(ctx)
	if err != nil {
		return nil, errors.Join(common.ErrorStorage, err)
	}

	if err := s.storePosts(ctx, posts); err != nil {
		s.logger.Warn(ctx, "post cache write failed", "error", err)
	}

	return posts, nil
}

func (s *PostService) appendToCache(ctx context.Context, post *models.Post) error {
	posts, err := s.cachedPosts(ctx)
	switch {
	case err == nil:
		posts = append(posts, post)
	case errors.Is(err, cache.ErrMiss):
		// the store already holds post
		posts, err = s.repomanager.Posts(s.db).List(ctx)
		if err != nil {
			return err
		}
	default:
		return err
	}

	return s.storePosts(ctx, posts)
}

// cachedPosts returns cache.ErrMiss for absent and undecodable entries.
func (s *PostService) cachedPosts(ctx context.Context) ([]*models.Post, error) {
	data, err := s.cache.Get(ctx, common.PostsCacheKey)
	if err != nil {
		return nil, err
	}

	var posts []*models.Post
	if err := json.Unmarshal(data, &posts); err != nil {
		s.logger.Warn(ctx, "discarding undecodable post cache entry", "error", err)
		return nil, cache.ErrMiss
	}
	if posts == nil {
		posts = []*models.Post{}
	}
	return posts, nil
}

func (s *PostService) storePosts(ctx context.Context, posts []*models.Post) error {
	data, err := json.Marshal(posts)
	if err != nil {
		return fmt.Errorf("encode posts: %w", err)
	}
	return s.cache.Set(ctx, common.PostsCacheKey, data, s.cacheTTL)
}
