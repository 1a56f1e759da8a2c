package services

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"

	"github.com/anavarro-dev/recetas/internal/client/models"
	"github.com/anavarro-dev/recetas/internal/client/repositories/metadata"
	"github.com/anavarro-dev/recetas/internal/client/session"
	"github.com/anavarro-dev/recetas/internal/logging"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// metadataRepoSeq disambiguates the shared in-memory DSN when a single test
// opens more than one repo.
var metadataRepoSeq atomic.Int64

func setupMetadataRepo(t *testing.T) metadata.Repository {
	t.Helper()
	db, err := sql.Open("sqlite", fmt.Sprintf("file:%s-%d?mode=memory&cache=shared", t.Name(), metadataRepoSeq.Add(1)))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE metadata (
  key   TEXT PRIMARY KEY,
  value BLOB NOT NULL
);
`)
	require.NoError(t, err)
	return metadata.NewSQLiteRepository(db)
}

// newSessionStore returns a store backed by an in-memory repo, optionally
// pre-authenticated.
func newSessionStore(t *testing.T, authenticated bool) *session.Store {
	t.Helper()
	store := session.New(setupMetadataRepo(t), testLogger())
	if authenticated {
		require.NoError(t, store.Set(context.Background(), models.Session{Token: "tok123", UserID: "u1"}))
	}
	return store
}

// fakeClient implements api.Client for service tests. It records the order
// of calls and answers from configurable fields.
type fakeClient struct {
	calls []string

	LoginRet *models.Session
	LoginErr error

	RegisterErr error
	LogoutErr   error

	ListRet []models.Recipe
	ListErr error

	GetRet map[string]models.Recipe
	GetErr error

	CreateErr error
	UpdateErr error
	DeleteErr error

	RecentRet []models.Recipe
	RecentErr error

	RemoveRecentErr error
	RemovedRecent   []string

	FavRet []models.Recipe
	FavErr error

	ToggleFn func(id string) ([]models.Recipe, error)
}

func (f *fakeClient) record(call string) {
	f.calls = append(f.calls, call)
}

func (f *fakeClient) Login(ctx context.Context, email, password string) (*models.Session, error) {
	f.record("login")
	if f.LoginErr != nil {
		return nil, f.LoginErr
	}
	if f.LoginRet != nil {
		return f.LoginRet, nil
	}
	return &models.Session{Token: "tok123", UserID: "u1"}, nil
}

func (f *fakeClient) Register(ctx context.Context, username, email, password string) error {
	f.record("register")
	return f.RegisterErr
}

func (f *fakeClient) Logout(ctx context.Context) error {
	f.record("logout")
	return f.LogoutErr
}

func (f *fakeClient) ListRecipes(ctx context.Context) ([]models.Recipe, error) {
	f.record("list")
	return f.ListRet, f.ListErr
}

func (f *fakeClient) GetRecipe(ctx context.Context, id string) (*models.Recipe, error) {
	f.record("get " + id)
	if f.GetErr != nil {
		return nil, f.GetErr
	}
	if r, ok := f.GetRet[id]; ok {
		return &r, nil
	}
	return &models.Recipe{ID: id, Title: "recipe " + id}, nil
}

func (f *fakeClient) CreateRecipe(ctx context.Context, input models.RecipeInput) error {
	f.record("create")
	return f.CreateErr
}

func (f *fakeClient) UpdateRecipe(ctx context.Context, id string, input models.RecipeInput) error {
	f.record("update " + id)
	return f.UpdateErr
}

func (f *fakeClient) DeleteRecipe(ctx context.Context, id string) error {
	f.record("delete " + id)
	return f.DeleteErr
}

func (f *fakeClient) RecentRecipes(ctx context.Context) ([]models.Recipe, error) {
	f.record("recent")
	return f.RecentRet, f.RecentErr
}

func (f *fakeClient) RemoveRecent(ctx context.Context, id string) error {
	f.record("remove-recent " + id)
	f.RemovedRecent = append(f.RemovedRecent, id)
	return f.RemoveRecentErr
}

func (f *fakeClient) FavoriteRecipes(ctx context.Context) ([]models.Recipe, error) {
	f.record("favorites")
	return f.FavRet, f.FavErr
}

func (f *fakeClient) ToggleFavorite(ctx context.Context, id string) ([]models.Recipe, error) {
	f.record("toggle " + id)
	if f.ToggleFn != nil {
		return f.ToggleFn(id)
	}
	return nil, nil
}
