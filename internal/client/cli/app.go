package cli

import (
	"bufio"
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/anavarro-dev/recetas/internal/client/api"
	"github.com/anavarro-dev/recetas/internal/client/config"
	"github.com/anavarro-dev/recetas/internal/client/models"
	"github.com/anavarro-dev/recetas/internal/client/repositories/metadata"
	"github.com/anavarro-dev/recetas/internal/client/services"
	"github.com/anavarro-dev/recetas/internal/client/session"
	"github.com/anavarro-dev/recetas/internal/client/storage"
	"github.com/anavarro-dev/recetas/internal/logging"

	_ "modernc.org/sqlite"
)

type App struct {
	config    *config.Config
	log       logging.Logger
	sessions  *session.Store
	auth      services.AuthService
	recipes   *services.RecipeService
	favorites *services.FavoritesReconciler
	tracker   services.Tracker
	exit      *services.ExitCoordinator
	reader    *bufio.Reader

	// lastShown maps on-screen numbers to recipes for the selection prompts.
	lastShown []models.Recipe
}

func NewApp(c *config.Config) (*App, error) {

	ctx := context.Background()

	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))

	db, err := storage.InitDatabase(ctx, c.DatabaseDSN)
	if err != nil {
		log.Printf("error initializing database: %s", err.Error())
		return nil, err
	}

	repo := metadata.NewSQLiteRepository(db)

	sessions := session.New(repo, logger)
	if err := sessions.Restore(ctx); err != nil {
		logger.Warn(ctx, "session restore failed", "error", err)
	}

	apiClient := api.NewHTTPClient(c.ServerBaseURL, sessions, c.RequestTimeout, logger)

	var tracker services.Tracker
	if c.RecencyBacking == config.BackingSynced {
		tracker = services.NewSyncedTracker(apiClient, sessions, logger)
	} else {
		tracker = services.NewLocalTracker(repo)
	}

	favorites := services.NewFavoritesReconciler(apiClient, sessions, logger)
	auth := services.NewAuthService(apiClient, sessions, logger)
	recipes := services.NewRecipeService(apiClient, sessions, tracker, favorites, logger)

	return &App{
		config:    c,
		log:       logger,
		sessions:  sessions,
		auth:      auth,
		recipes:   recipes,
		favorites: favorites,
		tracker:   tracker,
		exit:      services.NewExitCoordinator(auth),
		reader:    bufio.NewReader(os.Stdin),
	}, nil
}

func (a *App) isLoggedIn() bool {
	_, ok := a.sessions.Current()
	return ok
}

func (a *App) getStatus() string {
	if sess, ok := a.sessions.Current(); ok {
		return "(" + sess.UserID + ")"
	}
	return "(anonymous)"
}

// afterLogin loads session-scoped state: the favorite set is fetched once
// per session establishment, and the server-synchronized recency backing
// fetches its list fresh. Failures here are background refreshes: logged,
// never surfaced.
func (a *App) afterLogin(ctx context.Context) {
	if err := a.favorites.Refresh(ctx); err != nil {
		a.log.Warn(ctx, "favorites refresh failed", "error", err)
	}
	if r, ok := a.tracker.(services.Refresher); ok {
		if err := r.Refresh(ctx); err != nil {
			a.log.Warn(ctx, "recency refresh failed", "error", err)
		}
	}
}

func (a *App) Run(ctx context.Context) {
	log.Println("Welcome to recetas CLI (type 'help' for commands)")

	if a.isLoggedIn() {
		// restored session from a previous run
		a.afterLogin(ctx)
	}

	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.getStatus, scanner)
}
