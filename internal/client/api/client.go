// Package api implements the remote recipe gateway: a stateless wrapper
// around the HTTP/JSON endpoints of the recipe service. The gateway unwraps
// the response envelope and maps failures to typed errors; it holds no state
// of its own beyond the base URL and the token source.
package api

import (
	"context"

	"github.com/anavarro-dev/recetas/internal/client/models"
)

// TokenSource supplies the current bearer token, or "" when anonymous.
// The session store implements it; the gateway only ever reads the token.
type TokenSource interface {
	Token() string
}

// Client is the request contract against the recipe service. All methods
// except Login and Register require a bearer token; with no token they fail
// with ErrNotAuthenticated before any network I/O.
type Client interface {
	Login(ctx context.Context, email, password string) (*models.Session, error)
	Register(ctx context.Context, username, email, password string) error
	Logout(ctx context.Context) error

	ListRecipes(ctx context.Context) ([]models.Recipe, error)
	GetRecipe(ctx context.Context, id string) (*models.Recipe, error)
	CreateRecipe(ctx context.Context, input models.RecipeInput) error
	UpdateRecipe(ctx context.Context, id string, input models.RecipeInput) error
	DeleteRecipe(ctx context.Context, id string) error

	RecentRecipes(ctx context.Context) ([]models.Recipe, error)
	RemoveRecent(ctx context.Context, id string) error

	FavoriteRecipes(ctx context.Context) ([]models.Recipe, error)
	ToggleFavorite(ctx context.Context, id string) ([]models.Recipe, error)
}
