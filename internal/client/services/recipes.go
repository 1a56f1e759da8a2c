package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/anavarro-dev/recetas/internal/client/api"
	"github.com/anavarro-dev/recetas/internal/client/models"
	"github.com/anavarro-dev/recetas/internal/client/session"
	"github.com/anavarro-dev/recetas/internal/logging"
)

// recipeResolver is satisfied by trackers that can resolve a tracked
// identifier to a full recipe themselves (the server-synchronized backing).
type recipeResolver interface {
	Resolve(id string) (models.Recipe, bool)
}

// RecipeService wraps recipe CRUD and keeps an in-memory index of the last
// listing, used to resolve recency identifiers for display and to filter by
// title. Anonymous sessions fetch nothing.
type RecipeService struct {
	client    api.Client
	sessions  *session.Store
	tracker   Tracker
	favorites *FavoritesReconciler
	log       logging.Logger
	loaded    []models.Recipe
	index     map[string]models.Recipe
}

func NewRecipeService(client api.Client, sessions *session.Store, tracker Tracker, favorites *FavoritesReconciler, log logging.Logger) *RecipeService {
	return &RecipeService{
		client:    client,
		sessions:  sessions,
		tracker:   tracker,
		favorites: favorites,
		log:       log,
		index:     make(map[string]models.Recipe),
	}
}

// List fetches all community recipes and rebuilds the index. With no
// session it returns an empty list without touching the network.
func (s *RecipeService) List(ctx context.Context) ([]models.Recipe, error) {
	if _, ok := s.sessions.Current(); !ok {
		return nil, nil
	}

	recipes, err := s.client.ListRecipes(ctx)
	if err != nil {
		return nil, err
	}

	index := make(map[string]models.Recipe, len(recipes))
	for _, r := range recipes {
		index[r.ID] = r
	}
	s.loaded = recipes
	s.index = index
	return recipes, nil
}

// Search filters the last listing by case-insensitive title substring.
func (s *RecipeService) Search(term string) []models.Recipe {
	if term == "" {
		return s.loaded
	}
	needle := strings.ToLower(term)
	out := make([]models.Recipe, 0, len(s.loaded))
	for _, r := range s.loaded {
		if strings.Contains(strings.ToLower(r.Title), needle) {
			out = append(out, r)
		}
	}
	return out
}

// View fetches one recipe and records the view with the active tracker.
// The fetch completes before the tracker acts, so under the synchronized
// backing the subsequent recency re-fetch observes the server's post-view
// state.
func (s *RecipeService) View(ctx context.Context, id string) (*models.Recipe, error) {
	recipe, err := s.client.GetRecipe(ctx, id)
	if err != nil {
		return nil, err
	}
	s.index[recipe.ID] = *recipe

	if err := s.tracker.RecordView(ctx, id); err != nil {
		// The view itself succeeded; a tracking failure should not hide it.
		s.log.Warn(ctx, "recording view failed", "id", id, "error", err)
	}
	return recipe, nil
}

func (s *RecipeService) Create(ctx context.Context, input models.RecipeInput) error {
	return s.client.CreateRecipe(ctx, input)
}

// Update replaces title, ingredients and instructions atomically.
// Ownership is enforced server-side.
func (s *RecipeService) Update(ctx context.Context, id string, input models.RecipeInput) error {
	return s.client.UpdateRecipe(ctx, id, input)
}

// Delete removes the recipe server-side, then immediately filters it out of
// the index, the recency record and the favorites snapshot, so no view can
// present a dangling reference while round trips are still settling.
func (s *RecipeService) Delete(ctx context.Context, id string) error {
	if err := s.client.DeleteRecipe(ctx, id); err != nil {
		return err
	}

	delete(s.index, id)
	filtered := make([]models.Recipe, 0, len(s.loaded))
	for _, r := range s.loaded {
		if r.ID != id {
			filtered = append(filtered, r)
		}
	}
	s.loaded = filtered

	if err := s.tracker.RemoveIfPresent(ctx, id); err != nil {
		s.log.Warn(ctx, "removing deleted recipe from recency failed", "id", id, "error", err)
	}
	s.favorites.Forget(id)
	return nil
}

// Recent resolves the tracked identifiers to full recipes for display.
// Identifiers that no longer resolve (the recipe was deleted, or was never
// part of the loaded listing) are silently omitted.
func (s *RecipeService) Recent(ctx context.Context) ([]models.Recipe, error) {
	ids, err := s.tracker.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing recency record: %w", err)
	}

	resolver, _ := s.tracker.(recipeResolver)

	out := make([]models.Recipe, 0, len(ids))
	for _, id := range ids {
		if r, ok := s.index[id]; ok {
			out = append(out, r)
			continue
		}
		if resolver != nil {
			if r, ok := resolver.Resolve(id); ok {
				out = append(out, r)
			}
		}
	}
	return out, nil
}

// Forget removes one identifier from the recency record on explicit user
// request.
func (s *RecipeService) Forget(ctx context.Context, id string) error {
	return s.tracker.RemoveIfPresent(ctx, id)
}

// IsOwner reports whether the recipe belongs to the authenticated user.
// Display-level only; the server enforces ownership on mutation.
func (s *RecipeService) IsOwner(r models.Recipe) bool {
	userID := s.sessions.UserID()
	return userID != "" && r.OwnerID == userID
}
