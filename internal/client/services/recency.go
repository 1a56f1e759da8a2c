package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/anavarro-dev/recetas/internal/client/api"
	"github.com/anavarro-dev/recetas/internal/client/models"
	"github.com/anavarro-dev/recetas/internal/client/repositories/metadata"
	"github.com/anavarro-dev/recetas/internal/client/session"
	"github.com/anavarro-dev/recetas/internal/logging"
)

// RecencyCap bounds the recently-viewed list. Mutations beyond the cap
// evict the oldest entries.
const RecencyCap = 10

// RecencyStorageKey is where the local backing keeps its serialized list.
const RecencyStorageKey = "recent_recipes"

// Tracker answers "what did this user recently open": ordered most-recent
// first, no duplicates, at most RecencyCap entries. Two backings exist —
// client-local and server-synchronized — and callers stay agnostic of which
// one is active.
type Tracker interface {
	// RecordView notes that the recipe was just opened, moving it to the
	// front of the list.
	RecordView(ctx context.Context, id string) error

	// List returns the tracked identifiers, most recent first.
	List(ctx context.Context) ([]string, error)

	// RemoveIfPresent drops the identifier from the list. The local removal
	// is immediate; no server round trip is required for it.
	RemoveIfPresent(ctx context.Context, id string) error
}

// Refresher is implemented by backings that fetch their state from the
// server on session establishment.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// promote returns ids with id at the front, duplicates removed and the
// result capped. Re-viewing an already-listed recipe therefore reorders
// instead of growing the list.
func promote(ids []string, id string) []string {
	out := make([]string, 0, len(ids)+1)
	out = append(out, id)
	for _, v := range ids {
		if v == id {
			continue
		}
		out = append(out, v)
	}
	if len(out) > RecencyCap {
		out = out[:RecencyCap]
	}
	return out
}

// dedupeCapped normalizes a server-supplied list through the same rules the
// local backing enforces: first occurrence wins, length capped.
func dedupeCapped(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
		if len(out) == RecencyCap {
			break
		}
	}
	return out
}

// LocalTracker keeps the recency list in the metadata store as an ordered
// JSON array under RecencyStorageKey. Its storage survives restarts and is
// independent of the token lifecycle; it is not synchronized across devices.
type LocalTracker struct {
	repo metadata.Repository
}

func NewLocalTracker(repo metadata.Repository) *LocalTracker {
	return &LocalTracker{repo: repo}
}

func (t *LocalTracker) load(ctx context.Context) ([]string, error) {
	raw, err := t.repo.Get(ctx, RecencyStorageKey)
	if err != nil {
		return nil, fmt.Errorf("loading recency list: %w", err)
	}
	if len(raw) == 0 {
		return nil, nil
	}
	var ids []string
	if err := json.Unmarshal(raw, &ids); err != nil {
		return nil, fmt.Errorf("decoding recency list: %w", err)
	}
	return ids, nil
}

func (t *LocalTracker) save(ctx context.Context, ids []string) error {
	raw, err := json.Marshal(ids)
	if err != nil {
		return err
	}
	if err := t.repo.Set(ctx, RecencyStorageKey, raw); err != nil {
		return fmt.Errorf("saving recency list: %w", err)
	}
	return nil
}

func (t *LocalTracker) RecordView(ctx context.Context, id string) error {
	ids, err := t.load(ctx)
	if err != nil {
		return err
	}
	return t.save(ctx, promote(ids, id))
}

func (t *LocalTracker) List(ctx context.Context) ([]string, error) {
	return t.load(ctx)
}

func (t *LocalTracker) RemoveIfPresent(ctx context.Context, id string) error {
	ids, err := t.load(ctx)
	if err != nil {
		return err
	}
	filtered := make([]string, 0, len(ids))
	for _, v := range ids {
		if v != id {
			filtered = append(filtered, v)
		}
	}
	if len(filtered) == len(ids) {
		return nil
	}
	return t.save(ctx, filtered)
}

// SyncedTracker mirrors the server-side recency list, which is authoritative
// across devices. Viewing a recipe the tracker does not yet know triggers a
// fetch-by-id (the server records the view as a side effect) strictly before
// the recency re-fetch, so the re-fetch reflects the post-view state.
type SyncedTracker struct {
	client   api.Client
	sessions *session.Store
	log      logging.Logger
	ids      []string
	recipes  map[string]models.Recipe
}

func NewSyncedTracker(client api.Client, sessions *session.Store, log logging.Logger) *SyncedTracker {
	return &SyncedTracker{
		client:   client,
		sessions: sessions,
		log:      log,
		recipes:  make(map[string]models.Recipe),
	}
}

// Refresh replaces the cached list with the server's current one,
// normalized through the same dedup/cap rules as the local backing.
func (t *SyncedTracker) Refresh(ctx context.Context) error {
	recipes, err := t.client.RecentRecipes(ctx)
	if err != nil {
		return err
	}

	byID := make(map[string]models.Recipe, len(recipes))
	ids := make([]string, 0, len(recipes))
	for _, r := range recipes {
		if _, ok := byID[r.ID]; ok {
			continue
		}
		byID[r.ID] = r
		ids = append(ids, r.ID)
	}

	t.ids = dedupeCapped(ids)
	t.recipes = byID
	return nil
}

func (t *SyncedTracker) RecordView(ctx context.Context, id string) error {
	if _, ok := t.sessions.Current(); !ok {
		return nil
	}

	// The server records a view when the recipe is fetched by id. A recipe
	// already in the cached list has just been fetched by the caller; an
	// unknown one (opened from the community list) has not, so fetch it
	// first. Either way the re-fetch below must observe the post-view state.
	if _, known := t.recipes[id]; !known {
		if _, err := t.client.GetRecipe(ctx, id); err != nil {
			if errors.Is(err, api.ErrNotAuthenticated) {
				return nil
			}
			return err
		}
	}

	t.ids = promote(t.ids, id)
	if err := t.Refresh(ctx); err != nil {
		// Keep the locally promoted order; the next refresh reconverges.
		t.log.Warn(ctx, "recency refresh failed", "error", err)
	}
	return nil
}

func (t *SyncedTracker) List(ctx context.Context) ([]string, error) {
	out := make([]string, len(t.ids))
	copy(out, t.ids)
	return out, nil
}

// RemoveIfPresent filters the cached list immediately, then asks the server
// to forget the entry. The server call is best-effort: a dangling entry
// server-side is tolerated and skipped at render time.
func (t *SyncedTracker) RemoveIfPresent(ctx context.Context, id string) error {
	filtered := make([]string, 0, len(t.ids))
	for _, v := range t.ids {
		if v != id {
			filtered = append(filtered, v)
		}
	}
	present := len(filtered) != len(t.ids)
	t.ids = filtered
	delete(t.recipes, id)

	if !present {
		return nil
	}
	if _, ok := t.sessions.Current(); !ok {
		return nil
	}
	if err := t.client.RemoveRecent(ctx, id); err != nil {
		t.log.Warn(ctx, "server-side recent removal failed", "id", id, "error", err)
	}
	return nil
}

// Resolve returns the server-supplied recipe for a tracked identifier.
// Used by the recipe service to render the recency list without another
// round trip.
func (t *SyncedTracker) Resolve(id string) (models.Recipe, bool) {
	r, ok := t.recipes[id]
	return r, ok
}
