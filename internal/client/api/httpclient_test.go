package api

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/anavarro-dev/recetas/internal/client/models"
	"github.com/anavarro-dev/recetas/internal/logging"
	"github.com/stretchr/testify/require"
)

type staticToken string

func (s staticToken) Token() string { return string(s) }

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func newTestClient(t *testing.T, token string, handler http.HandlerFunc) *HTTPClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewHTTPClient(srv.URL, staticToken(token), 5*time.Second, testLogger())
}

func writeEnvelope(t *testing.T, w http.ResponseWriter, returnCode, message string, data any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	err := json.NewEncoder(w).Encode(map[string]any{
		"returnCode": returnCode,
		"message":    message,
		"data":       data,
	})
	require.NoError(t, err)
}

func TestHTTPClient_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("success returns session", func(t *testing.T) {
		c := newTestClient(t, "", func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodPost, r.Method)
			require.Equal(t, "/api/auth/login", r.URL.Path)
			require.Empty(t, r.Header.Get("Authorization"))
			require.NotEmpty(t, r.Header.Get("X-Request-Id"))

			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			require.Equal(t, "a@b.com", body["email"])
			require.Equal(t, "pw", body["password"])

			writeEnvelope(t, w, "SUCCESS", "", map[string]string{"jwt": "tok123", "userId": "u1"})
		})

		sess, err := c.Login(ctx, "a@b.com", "pw")
		require.NoError(t, err)
		require.Equal(t, "tok123", sess.Token)
		require.Equal(t, "u1", sess.UserID)
	})

	t.Run("server message surfaces", func(t *testing.T) {
		c := newTestClient(t, "", func(w http.ResponseWriter, r *http.Request) {
			writeEnvelope(t, w, "INVALID_CREDENTIALS", "wrong password", nil)
		})

		_, err := c.Login(ctx, "a@b.com", "nope")
		var authErr *AuthenticationError
		require.ErrorAs(t, err, &authErr)
		require.Equal(t, "wrong password", authErr.Message)
	})

	t.Run("missing message falls back", func(t *testing.T) {
		c := newTestClient(t, "", func(w http.ResponseWriter, r *http.Request) {
			writeEnvelope(t, w, "ERROR", "", nil)
		})

		_, err := c.Login(ctx, "a@b.com", "pw")
		var authErr *AuthenticationError
		require.ErrorAs(t, err, &authErr)
		require.Equal(t, loginFallbackMessage, authErr.Message)
	})

	t.Run("error status with envelope body keeps the message", func(t *testing.T) {
		c := newTestClient(t, "", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			writeEnvelope(t, w, "UNAUTHORIZED", "bad credentials", nil)
		})

		_, err := c.Login(ctx, "a@b.com", "pw")
		var authErr *AuthenticationError
		require.ErrorAs(t, err, &authErr)
		require.Equal(t, "bad credentials", authErr.Message)
	})
}

func TestHTTPClient_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("non-success is a registration error", func(t *testing.T) {
		c := newTestClient(t, "", func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/api/users", r.URL.Path)
			writeEnvelope(t, w, "DUPLICATE", "email already taken", nil)
		})

		err := c.Register(ctx, "ana", "a@b.com", "pw")
		var regErr *RegistrationError
		require.ErrorAs(t, err, &regErr)
		require.Equal(t, "email already taken", regErr.Message)
	})

	t.Run("success", func(t *testing.T) {
		c := newTestClient(t, "", func(w http.ResponseWriter, r *http.Request) {
			writeEnvelope(t, w, "SUCCESS", "", nil)
		})
		require.NoError(t, c.Register(ctx, "ana", "a@b.com", "pw"))
	})
}

func TestHTTPClient_AuthenticatedCalls(t *testing.T) {
	ctx := context.Background()

	t.Run("bearer header is attached", func(t *testing.T) {
		c := newTestClient(t, "tok123", func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "Bearer tok123", r.Header.Get("Authorization"))
			writeEnvelope(t, w, "SUCCESS", "", []models.Recipe{{ID: "r1", Title: "Paella"}})
		})

		recipes, err := c.ListRecipes(ctx)
		require.NoError(t, err)
		require.Len(t, recipes, 1)
		require.Equal(t, "Paella", recipes[0].Title)
	})

	t.Run("empty token short-circuits without network", func(t *testing.T) {
		called := false
		c := newTestClient(t, "", func(w http.ResponseWriter, r *http.Request) {
			called = true
		})

		_, err := c.ListRecipes(ctx)
		require.ErrorIs(t, err, ErrNotAuthenticated)
		require.False(t, called)
	})

	t.Run("non-success becomes a gateway error", func(t *testing.T) {
		c := newTestClient(t, "tok123", func(w http.ResponseWriter, r *http.Request) {
			writeEnvelope(t, w, "NOT_FOUND", "no such recipe", nil)
		})

		_, err := c.GetRecipe(ctx, "missing")
		var gwErr *GatewayError
		require.ErrorAs(t, err, &gwErr)
		require.Equal(t, "no such recipe", gwErr.Message)
	})

	t.Run("get recipe decodes the payload", func(t *testing.T) {
		c := newTestClient(t, "tok123", func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/api/recipes/r42", r.URL.Path)
			writeEnvelope(t, w, "SUCCESS", "", models.Recipe{ID: "r42", Title: "Tortilla", OwnerID: "u1"})
		})

		recipe, err := c.GetRecipe(ctx, "r42")
		require.NoError(t, err)
		require.Equal(t, "Tortilla", recipe.Title)
		require.Equal(t, "u1", recipe.OwnerID)
	})

	t.Run("toggle favorite sends recipeId and returns full set", func(t *testing.T) {
		c := newTestClient(t, "tok123", func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodPost, r.Method)
			require.Equal(t, "/api/favorite-recipes", r.URL.Path)

			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			require.Equal(t, "r7", body["recipeId"])

			writeEnvelope(t, w, "SUCCESS", "", []models.Recipe{{ID: "r7"}, {ID: "r9"}})
		})

		favs, err := c.ToggleFavorite(ctx, "r7")
		require.NoError(t, err)
		require.Len(t, favs, 2)
	})

	t.Run("remove recent uses the id query parameter", func(t *testing.T) {
		c := newTestClient(t, "tok123", func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodDelete, r.Method)
			require.Equal(t, "/api/recent-recipes", r.URL.Path)
			require.Equal(t, "r7", r.URL.Query().Get("id"))
			writeEnvelope(t, w, "SUCCESS", "", nil)
		})

		require.NoError(t, c.RemoveRecent(ctx, "r7"))
	})

	t.Run("update sends the full replacement body", func(t *testing.T) {
		c := newTestClient(t, "tok123", func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodPut, r.Method)
			require.Equal(t, "/api/recipes/r1", r.URL.Path)

			var body models.RecipeInput
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			require.Equal(t, "Gazpacho", body.Title)
			require.Equal(t, []string{"tomate", "pepino"}, body.Ingredients)

			writeEnvelope(t, w, "SUCCESS", "", nil)
		})

		err := c.UpdateRecipe(ctx, "r1", models.RecipeInput{
			Title:        "Gazpacho",
			Ingredients:  []string{"tomate", "pepino"},
			Instructions: "mezclar y enfriar",
		})
		require.NoError(t, err)
	})
}
