package services

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/postkeeper/internal/common"
	"github.com/dmitrijs2005/postkeeper/internal/dbx"
	"github.com/dmitrijs2005/postkeeper/internal/server/cache"
	"github.com/dmitrijs2005/postkeeper/internal/server/config"
	"github.com/dmitrijs2005/postkeeper/internal/server/models"
	"github.com/dmitrijs2005/postkeeper/internal/server/repositories/posts"
	"github.com/dmitrijs2005/postkeeper/internal/server/repositories/tokens"
	"github.com/dmitrijs2005/postkeeper/internal/server/repositories/users"
	"golang.org/x/crypto/bcrypt"
)

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func testConfig() *config.Config {
	return &config.Config{
		SecretKey:                            "k",
		AccessTokenValidityDuration:          3 * time.Hour,
		RefreshTokenValidityDuration:         7 * 24 * time.Hour,
		RefreshedAccessTokenValidityDuration: 15 * time.Minute,
		PasswordHashCost:                     bcrypt.MinCost,
		PostsCacheTTL:                        time.Hour,
	}
}

// --- users ---

type fakeUsersRepo struct {
	mu     sync.Mutex
	byName map[string]*models.User
	nextID int64

	createErr error
	getErr    error
	calls     int
}

func newFakeUsersRepo() *fakeUsersRepo {
	return &fakeUsersRepo{byName: map[string]*models.User{}}
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.createErr != nil {
		return nil, f.createErr
	}
	if _, ok := f.byName[u.UserName]; ok {
		return nil, common.ErrorAlreadyExists
	}
	f.nextID++
	out := *u
	out.ID = f.nextID
	out.CreatedAt = time.Now()
	f.byName[u.UserName] = &out
	return &out, nil
}

func (f *fakeUsersRepo) GetUserByLogin(ctx context.Context, login string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.byName[login]
	if !ok {
		return nil, common.ErrorNotFound
	}
	out := *u
	return &out, nil
}

// --- tokens ---

type fakeTokensRepo struct {
	mu        sync.Mutex
	rows      map[int64]models.Session
	userNames map[int64]string

	findErr error
	saveErr error
	delErr  error
	saves   int
}

func newFakeTokensRepo() *fakeTokensRepo {
	return &fakeTokensRepo{rows: map[int64]models.Session{}, userNames: map[int64]string{}}
}

func (f *fakeTokensRepo) Save(ctx context.Context, userID int64, accessToken, refreshToken string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saves++
	f.rows[userID] = models.Session{UserID: userID, AccessToken: accessToken, RefreshToken: refreshToken}
	return nil
}

func (f *fakeTokensRepo) FindByUserID(ctx context.Context, userID int64) (*models.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.findErr != nil {
		return nil, f.findErr
	}
	row, ok := f.rows[userID]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &row, nil
}

func (f *fakeTokensRepo) FindByRefreshToken(ctx context.Context, token string) (*models.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.findErr != nil {
		return nil, f.findErr
	}
	for _, row := range f.rows {
		if row.RefreshToken == token {
			return &row, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeTokensRepo) DeleteAccessToken(ctx context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.delErr != nil {
		return f.delErr
	}
	if token == "" {
		return nil
	}
	for id, row := range f.rows {
		if row.AccessToken == token {
			row.AccessToken = ""
			f.rows[id] = row
		}
	}
	return nil
}

func (f *fakeTokensRepo) DeleteRefreshToken(ctx context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.delErr != nil {
		return f.delErr
	}
	for id, row := range f.rows {
		if row.RefreshToken == token {
			delete(f.rows, id)
		}
	}
	return nil
}

func (f *fakeTokensRepo) FindSessionByUsername(ctx context.Context, userName string) (*models.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.findErr != nil {
		return nil, f.findErr
	}
	for id, name := range f.userNames {
		if name != userName {
			continue
		}
		row, ok := f.rows[id]
		if !ok {
			return nil, common.ErrorNotFound
		}
		row.UserName = name
		return &row, nil
	}
	return nil, common.ErrorNotFound
}

// --- posts ---

type fakePostsRepo struct {
	mu     sync.Mutex
	posts  []*models.Post
	nextID int64

	createErr error
	listErr   error
	creates   int
	lists     int
}

func (f *fakePostsRepo) Create(ctx context.Context, p *models.Post) (*models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creates++
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.nextID++
	out := *p
	out.ID = f.nextID
	out.CreatedAt = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	f.posts = append(f.posts, &out)
	return &out, nil
}

func (f *fakePostsRepo) List(ctx context.Context) ([]*models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lists++
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]*models.Post, 0, len(f.posts))
	for _, p := range f.posts {
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// --- cache ---

type fakeCache struct {
	mu   sync.Mutex
	data map[string][]byte
	ttls map[string]time.Duration

	getErr error
	setErr error
	delErr error
	dels   int
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (c *fakeCache) Get(ctx context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return nil, c.getErr
	}
	v, ok := c.data[key]
	if !ok {
		return nil, cache.ErrMiss
	}
	return v, nil
}

func (c *fakeCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.setErr != nil {
		return c.setErr
	}
	c.data[key] = value
	c.ttls[key] = ttl
	return nil
}

func (c *fakeCache) Del(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dels++
	if c.delErr != nil {
		return c.delErr
	}
	delete(c.data, key)
	return nil
}

// --- repository manager ---

type fakeRepoManager struct {
	u *fakeUsersRepo
	t *fakeTokensRepo
	p *fakePostsRepo
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{u: newFakeUsersRepo(), t: newFakeTokensRepo(), p: &fakePostsRepo{}}
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) users.Repository           { return m.u }
func (m *fakeRepoManager) Tokens(db dbx.DBTX) tokens.Repository         { return m.t }
func (m *fakeRepoManager) Posts(db dbx.DBTX) posts.Repository           { return m.p }
