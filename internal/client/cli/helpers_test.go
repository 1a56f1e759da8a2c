package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/anavarro-dev/recetas/internal/client/api"
	"github.com/anavarro-dev/recetas/internal/client/models"
	"github.com/anavarro-dev/recetas/internal/client/repositories/metadata"
	"github.com/anavarro-dev/recetas/internal/client/services"
	"github.com/anavarro-dev/recetas/internal/client/session"
	"github.com/anavarro-dev/recetas/internal/logging"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func setupMetadataRepo(t *testing.T) metadata.Repository {
	t.Helper()
	db, err := sql.Open("sqlite", "file:"+t.Name()+"?mode=memory&cache=shared")
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

func readerFromLines(lines ...string) *bufio.Reader {
	var b strings.Builder
	for _, l := range lines {
		b.WriteString(l)
		b.WriteString("\n")
	}
	return bufio.NewReader(strings.NewReader(b.String()))
}

// capturePrintln routes printlnFn into a slice for the duration of the test.
func capturePrintln(t *testing.T) *[]string {
	t.Helper()
	var out []string
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) {
		out = append(out, strings.TrimRight(fmt.Sprintln(a...), "\n"))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return &out
}

// newTestApp wires real services over an in-memory metadata repo and the
// given gateway, with scripted stdin.
func newTestApp(t *testing.T, client api.Client, authenticated bool, input ...string) *App {
	t.Helper()
	ctx := context.Background()

	repo := setupMetadataRepo(t)
	sessions := session.New(repo, testLogger())
	if authenticated {
		require.NoError(t, sessions.Set(ctx, models.Session{Token: "tok123", UserID: "u1"}))
	}

	tracker := services.NewLocalTracker(repo)
	favorites := services.NewFavoritesReconciler(client, sessions, testLogger())
	auth := services.NewAuthService(client, sessions, testLogger())
	recipes := services.NewRecipeService(client, sessions, tracker, favorites, testLogger())

	return &App{
		log:       testLogger(),
		sessions:  sessions,
		auth:      auth,
		recipes:   recipes,
		favorites: favorites,
		tracker:   tracker,
		exit:      services.NewExitCoordinator(auth),
		reader:    readerFromLines(input...),
	}
}

// fakeClient implements api.Client for command tests. It records the order
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

	FavRet []models.Recipe
	FavErr error

	ToggleFn func(id string) ([]models.Recipe, error)

	LastInput models.RecipeInput
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
	f.LastInput = input
	return f.CreateErr
}

func (f *fakeClient) UpdateRecipe(ctx context.Context, id string, input models.RecipeInput) error {
	f.record("update " + id)
	f.LastInput = input
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
