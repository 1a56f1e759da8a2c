package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/anavarro-dev/recetas/internal/client/models"
	"github.com/anavarro-dev/recetas/internal/logging"
	"github.com/google/uuid"
)

// returnCodeSuccess is the only envelope code that indicates success.
// Anything else (or an undecodable body) is a failure.
const returnCodeSuccess = "SUCCESS"

// Generic fallbacks used when the server supplies no diagnostic message.
const (
	loginFallbackMessage    = "unable to sign in"
	registerFallbackMessage = "unable to register"
)

// envelope is the wire format shared by every endpoint:
// {returnCode, data, message}.
type envelope struct {
	ReturnCode string          `json:"returnCode"`
	Message    string          `json:"message"`
	Data       json.RawMessage `json:"data"`
}

type loginData struct {
	JWT    string `json:"jwt"`
	UserID string `json:"userId"`
}

// HTTPClient implements Client over HTTP/JSON.
type HTTPClient struct {
	baseURL string
	tokens  TokenSource
	http    *http.Client
	log     logging.Logger
}

// NewHTTPClient returns a gateway bound to baseURL. The bearer token is read
// from tokens on every authenticated call; the gateway never stores it.
func NewHTTPClient(baseURL string, tokens TokenSource, timeout time.Duration, log logging.Logger) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		tokens:  tokens,
		http:    &http.Client{Timeout: timeout},
		log:     log,
	}
}

// roundTrip issues one request and decodes the response envelope. Callers
// judge success by ReturnCode. An HTTP error status whose body still carries
// a decodable envelope is reported through the envelope, so the server's
// message survives; anything else comes back as a plain error.
func (c *HTTPClient) roundTrip(ctx context.Context, method, path string, body any, token string) (*envelope, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	requestID := uuid.NewString()
	req.Header.Set("X-Request-Id", requestID)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		if resp.StatusCode >= http.StatusBadRequest {
			return nil, fmt.Errorf("unexpected status %s", resp.Status)
		}
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	c.log.Debug(ctx, "gateway call",
		"method", method, "path", path,
		"status", resp.StatusCode, "returnCode", env.ReturnCode,
		"requestId", requestID)

	return &env, nil
}

// call performs an authenticated request and returns the envelope payload.
// With no token it short-circuits to ErrNotAuthenticated without touching
// the network.
func (c *HTTPClient) call(ctx context.Context, method, path string, body any) (json.RawMessage, error) {
	token := c.tokens.Token()
	if token == "" {
		return nil, ErrNotAuthenticated
	}

	op := method + " " + path
	env, err := c.roundTrip(ctx, method, path, body, token)
	if err != nil {
		return nil, &GatewayError{Op: op, Err: err}
	}
	if env.ReturnCode != returnCodeSuccess {
		return nil, &GatewayError{Op: op, Message: env.Message}
	}
	return env.Data, nil
}

func decodeRecipes(data json.RawMessage, op string) ([]models.Recipe, error) {
	var recipes []models.Recipe
	if err := json.Unmarshal(data, &recipes); err != nil {
		return nil, &GatewayError{Op: op, Err: err}
	}
	return recipes, nil
}

// Login exchanges credentials for a session. Failures of any kind surface as
// *AuthenticationError; the server's message is preferred over the fallback.
func (c *HTTPClient) Login(ctx context.Context, email, password string) (*models.Session, error) {
	body := map[string]string{"email": email, "password": password}

	env, err := c.roundTrip(ctx, http.MethodPost, "/api/auth/login", body, "")
	if err != nil {
		c.log.Error(ctx, "login request failed", "error", err)
		return nil, &AuthenticationError{Message: loginFallbackMessage}
	}
	if env.ReturnCode != returnCodeSuccess {
		msg := env.Message
		if msg == "" {
			msg = loginFallbackMessage
		}
		return nil, &AuthenticationError{Message: msg}
	}

	var data loginData
	if err := json.Unmarshal(env.Data, &data); err != nil {
		c.log.Error(ctx, "login response malformed", "error", err)
		return nil, &AuthenticationError{Message: loginFallbackMessage}
	}
	return &models.Session{Token: data.JWT, UserID: data.UserID}, nil
}

// Register creates an account. It does not establish a session; the caller
// is expected to log in afterwards. Failures surface as *RegistrationError.
func (c *HTTPClient) Register(ctx context.Context, username, email, password string) error {
	body := map[string]string{"username": username, "email": email, "password": password}

	env, err := c.roundTrip(ctx, http.MethodPost, "/api/users", body, "")
	if err != nil {
		c.log.Error(ctx, "register request failed", "error", err)
		return &RegistrationError{Message: registerFallbackMessage}
	}
	if env.ReturnCode != returnCodeSuccess {
		msg := env.Message
		if msg == "" {
			msg = registerFallbackMessage
		}
		return &RegistrationError{Message: msg}
	}
	return nil
}

// Logout notifies the server that the session is ending so it can clean up
// session-scoped state. The local session is not touched here.
func (c *HTTPClient) Logout(ctx context.Context) error {
	_, err := c.call(ctx, http.MethodPost, "/api/auth/logout", map[string]string{})
	return err
}

func (c *HTTPClient) ListRecipes(ctx context.Context) ([]models.Recipe, error) {
	data, err := c.call(ctx, http.MethodGet, "/api/recipes", nil)
	if err != nil {
		return nil, err
	}
	return decodeRecipes(data, "GET /api/recipes")
}

func (c *HTTPClient) GetRecipe(ctx context.Context, id string) (*models.Recipe, error) {
	path := "/api/recipes/" + url.PathEscape(id)
	data, err := c.call(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	var recipe models.Recipe
	if err := json.Unmarshal(data, &recipe); err != nil {
		return nil, &GatewayError{Op: "GET " + path, Err: err}
	}
	return &recipe, nil
}

func (c *HTTPClient) CreateRecipe(ctx context.Context, input models.RecipeInput) error {
	_, err := c.call(ctx, http.MethodPost, "/api/recipes", input)
	return err
}

func (c *HTTPClient) UpdateRecipe(ctx context.Context, id string, input models.RecipeInput) error {
	_, err := c.call(ctx, http.MethodPut, "/api/recipes/"+url.PathEscape(id), input)
	return err
}

func (c *HTTPClient) DeleteRecipe(ctx context.Context, id string) error {
	_, err := c.call(ctx, http.MethodDelete, "/api/recipes/"+url.PathEscape(id), nil)
	return err
}

func (c *HTTPClient) RecentRecipes(ctx context.Context) ([]models.Recipe, error) {
	data, err := c.call(ctx, http.MethodGet, "/api/recent-recipes", nil)
	if err != nil {
		return nil, err
	}
	return decodeRecipes(data, "GET /api/recent-recipes")
}

func (c *HTTPClient) RemoveRecent(ctx context.Context, id string) error {
	_, err := c.call(ctx, http.MethodDelete, "/api/recent-recipes?id="+url.QueryEscape(id), nil)
	return err
}

func (c *HTTPClient) FavoriteRecipes(ctx context.Context) ([]models.Recipe, error) {
	data, err := c.call(ctx, http.MethodGet, "/api/favorite-recipes", nil)
	if err != nil {
		return nil, err
	}
	return decodeRecipes(data, "GET /api/favorite-recipes")
}

// ToggleFavorite flips membership of id server-side and returns the complete
// updated favorite list. The client never computes membership locally.
func (c *HTTPClient) ToggleFavorite(ctx context.Context, id string) ([]models.Recipe, error) {
	data, err := c.call(ctx, http.MethodPost, "/api/favorite-recipes", map[string]string{"recipeId": id})
	if err != nil {
		return nil, err
	}
	return decodeRecipes(data, "POST /api/favorite-recipes")
}
