package services

import (
	"context"

	"github.com/anavarro-dev/recetas/internal/client/api"
	"github.com/anavarro-dev/recetas/internal/client/models"
	"github.com/anavarro-dev/recetas/internal/client/session"
	"github.com/anavarro-dev/recetas/internal/logging"
)

// FavoritesReconciler caches the server-authoritative favorite set.
// Membership is never computed locally: every toggle sends the identifier to
// the server and replaces the whole snapshot with the returned set, so the
// client cannot drift from the server. Last response wins.
type FavoritesReconciler struct {
	client   api.Client
	sessions *session.Store
	log      logging.Logger
	recipes  []models.Recipe
	members  map[string]struct{}
}

func NewFavoritesReconciler(client api.Client, sessions *session.Store, log logging.Logger) *FavoritesReconciler {
	return &FavoritesReconciler{
		client:   client,
		sessions: sessions,
		log:      log,
		members:  make(map[string]struct{}),
	}
}

func (f *FavoritesReconciler) replace(recipes []models.Recipe) {
	members := make(map[string]struct{}, len(recipes))
	for _, r := range recipes {
		members[r.ID] = struct{}{}
	}
	f.recipes = recipes
	f.members = members
}

// Refresh fetches the full favorite set. Called on session establishment;
// with no session it is a no-op.
func (f *FavoritesReconciler) Refresh(ctx context.Context) error {
	if _, ok := f.sessions.Current(); !ok {
		return nil
	}
	recipes, err := f.client.FavoriteRecipes(ctx)
	if err != nil {
		return err
	}
	f.replace(recipes)
	return nil
}

// Toggle flips membership of id on the server and adopts the returned set
// wholesale. No speculative local update happens before the response.
func (f *FavoritesReconciler) Toggle(ctx context.Context, id string) error {
	if _, ok := f.sessions.Current(); !ok {
		return nil
	}
	recipes, err := f.client.ToggleFavorite(ctx, id)
	if err != nil {
		return err
	}
	f.replace(recipes)
	return nil
}

// IsFavorite checks membership against the last snapshot only.
func (f *FavoritesReconciler) IsFavorite(id string) bool {
	_, ok := f.members[id]
	return ok
}

// Recipes returns the last-fetched favorite recipes for rendering.
func (f *FavoritesReconciler) Recipes() []models.Recipe {
	return f.recipes
}

// Forget drops id from the local snapshot without a server call. Used when
// the recipe itself was just deleted, so the snapshot does not present a
// dangling reference before the next refresh.
func (f *FavoritesReconciler) Forget(id string) {
	if _, ok := f.members[id]; !ok {
		return
	}
	delete(f.members, id)
	filtered := make([]models.Recipe, 0, len(f.recipes))
	for _, r := range f.recipes {
		if r.ID != id {
			filtered = append(filtered, r)
		}
	}
	f.recipes = filtered
}
