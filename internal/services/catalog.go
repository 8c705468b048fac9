package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/mawshu/movie-tracker/internal/models"
	"github.com/mawshu/movie-tracker/internal/shared"
	"golang.org/x/time/rate"
)

const defaultBaseURL string = "http://localhost:8080"

// RequestIDHeader carries a per-request id so client and service logs can be correlated.
const RequestIDHeader = "X-Request-ID"

// CatalogService implements [Catalog] against the service's JSON API.
type CatalogService struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *log.Logger
}

// NewCatalogService creates a client for the service at baseURL.
//
// A nil client uses [http.DefaultClient]; a nil limiter disables pacing.
func NewCatalogService(baseURL string, client *http.Client, limiter *rate.Limiter) *CatalogService {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &CatalogService{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: client,
		limiter:    limiter,
	}
}

// NewCatalogServiceFromConfig builds a [CatalogService] with the configured timeout and rate limit.
func NewCatalogServiceFromConfig(cfg shared.ServiceConfig) *CatalogService {
	client := &http.Client{Timeout: cfg.Timeout()}

	var limiter *rate.Limiter
	if cfg.RateLimit > 0 {
		burst := max(cfg.Burst, 1)
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}
	return NewCatalogService(cfg.BaseURL, client, limiter)
}

// SetLogger enables debug logging of each request.
func (c *CatalogService) SetLogger(l *log.Logger) {
	c.logger = l
}

// BaseURL returns the service root this client talks to.
func (c *CatalogService) BaseURL() string {
	return c.baseURL
}

type apiErrorBody struct {
	Status  int    `json:"status"`
	Error   string `json:"error"`
	Message string `json:"message"`
	Path    string `json:"path"`
}

// doRequest sends body as JSON and decodes the response into result.
//
// 204 and empty bodies leave result untouched. Non-2xx responses become [*shared.APIError].
func (c *CatalogService) doRequest(ctx context.Context, method, endpoint string, body, result any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("%w: %v", shared.ErrTransport, err)
		}
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	requestID := shared.GenerateID()
	req.Header.Set(RequestIDHeader, requestID)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if c.logger != nil {
		c.logger.Debug("request", "method", method, "path", endpoint, "request_id", requestID)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: request failed: %w", shared.ErrTransport, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: failed to read response: %w", shared.ErrTransport, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := decodeAPIError(resp.StatusCode, data, endpoint)
		if c.logger != nil {
			c.logger.Debug("request failed", "status", resp.StatusCode, "path", endpoint, "request_id", requestID, "message", apiErr.Message)
		}
		return apiErr
	}

	if result == nil || resp.StatusCode == http.StatusNoContent || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}

	if err := json.Unmarshal(data, result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// decodeAPIError takes the message from the JSON "message" field or a bare JSON string,
// falling back to the raw body.
func decodeAPIError(status int, data []byte, endpoint string) *shared.APIError {
	var body apiErrorBody
	if err := json.Unmarshal(data, &body); err == nil {
		path := body.Path
		if path == "" {
			path = endpoint
		}
		return shared.NewAPIError(status, body.Message, path)
	}

	var message string
	if err := json.Unmarshal(data, &message); err == nil {
		return shared.NewAPIError(status, strings.TrimSpace(message), endpoint)
	}

	return shared.NewAPIError(status, strings.TrimSpace(string(data)), endpoint)
}

// ListUsers returns every account known to the service.
func (c *CatalogService) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := c.doRequest(ctx, http.MethodGet, "/api/users", nil, &users); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// CreateUser registers a new account.
func (c *CatalogService) CreateUser(ctx context.Context, user models.NewUser) (*models.User, error) {
	var created models.User
	if err := c.doRequest(ctx, http.MethodPost, "/api/users", user, &created); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return &created, nil
}

// SearchMovies queries the upstream catalog.
func (c *CatalogService) SearchMovies(ctx context.Context, q models.SearchQuery) ([]models.Movie, error) {
	params := url.Values{}
	params.Set("query", q.Query)
	if q.Year > 0 {
		params.Set("year", strconv.Itoa(q.Year))
	}
	if q.Page > 0 {
		params.Set("page", strconv.Itoa(q.Page))
	}
	if q.Size > 0 {
		params.Set("size", strconv.Itoa(q.Size))
	}

	var movies []models.Movie
	if err := c.doRequest(ctx, http.MethodGet, "/api/movies/search?"+params.Encode(), nil, &movies); err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}
	return movies, nil
}

// GetMovie fetches an imported movie by its numeric id.
func (c *CatalogService) GetMovie(ctx context.Context, id int64) (*models.Movie, error) {
	var movie models.Movie
	if err := c.doRequest(ctx, http.MethodGet, fmt.Sprintf("/api/movies/%d", id), nil, &movie); err != nil {
		return nil, fmt.Errorf("failed to get movie %d: %w", id, err)
	}
	return &movie, nil
}

// ImportMovie imports a catalog movie by external id, returning the stored record.
func (c *CatalogService) ImportMovie(ctx context.Context, externalID string) (*models.Movie, error) {
	var movie models.Movie
	endpoint := "/api/movies/import/" + url.PathEscape(externalID)
	if err := c.doRequest(ctx, http.MethodPost, endpoint, nil, &movie); err != nil {
		return nil, fmt.Errorf("failed to import movie %s: %w", externalID, err)
	}
	return &movie, nil
}

func libraryPath(userID int64) string {
	return fmt.Sprintf("/api/users/%d/library", userID)
}

// GetLibrary returns the user's full library.
func (c *CatalogService) GetLibrary(ctx context.Context, userID int64) ([]models.LibraryEntry, error) {
	var entries []models.LibraryEntry
	if err := c.doRequest(ctx, http.MethodGet, libraryPath(userID), nil, &entries); err != nil {
		return nil, fmt.Errorf("failed to get library: %w", err)
	}
	return entries, nil
}

// UpsertLibraryEntry creates or updates the entry for externalID.
func (c *CatalogService) UpsertLibraryEntry(ctx context.Context, userID int64, externalID string, status models.Status) (*models.LibraryEntry, error) {
	payload := struct {
		ExternalID string        `json:"externalId"`
		Status     models.Status `json:"status"`
	}{externalID, status}

	var entry models.LibraryEntry
	if err := c.doRequest(ctx, http.MethodPost, libraryPath(userID), payload, &entry); err != nil {
		return nil, fmt.Errorf("failed to save library entry: %w", err)
	}
	return &entry, nil
}

func (c *CatalogService) patchEntry(ctx context.Context, userID, entryID int64, field string, payload any) (*models.LibraryEntry, error) {
	endpoint := fmt.Sprintf("%s/%d/%s", libraryPath(userID), entryID, field)

	var entry models.LibraryEntry
	if err := c.doRequest(ctx, http.MethodPatch, endpoint, payload, &entry); err != nil {
		return nil, fmt.Errorf("failed to update %s: %w", field, err)
	}
	return &entry, nil
}

// UpdateStatus patches only the entry's status.
func (c *CatalogService) UpdateStatus(ctx context.Context, userID, entryID int64, status models.Status) (*models.LibraryEntry, error) {
	return c.patchEntry(ctx, userID, entryID, "status", map[string]models.Status{"status": status})
}

// UpdateRating patches the rating; nil is sent as JSON null.
func (c *CatalogService) UpdateRating(ctx context.Context, userID, entryID int64, rating *int) (*models.LibraryEntry, error) {
	return c.patchEntry(ctx, userID, entryID, "rating", map[string]*int{"rating": rating})
}

// UpdateLiked patches the liked flag.
func (c *CatalogService) UpdateLiked(ctx context.Context, userID, entryID int64, liked bool) (*models.LibraryEntry, error) {
	return c.patchEntry(ctx, userID, entryID, "liked", map[string]bool{"liked": liked})
}

// DeleteLibraryEntry removes the entry entirely.
func (c *CatalogService) DeleteLibraryEntry(ctx context.Context, userID, entryID int64) error {
	endpoint := fmt.Sprintf("%s/%d", libraryPath(userID), entryID)
	if err := c.doRequest(ctx, http.MethodDelete, endpoint, nil, nil); err != nil {
		return fmt.Errorf("failed to delete library entry: %w", err)
	}
	return nil
}

// ListWatchlists returns the user's watchlists with their items.
func (c *CatalogService) ListWatchlists(ctx context.Context, userID int64) ([]models.Watchlist, error) {
	var lists []models.Watchlist
	if err := c.doRequest(ctx, http.MethodGet, fmt.Sprintf("/api/users/%d/watchlists", userID), nil, &lists); err != nil {
		return nil, fmt.Errorf("failed to list watchlists: %w", err)
	}
	return lists, nil
}

// CreateWatchlist creates an empty watchlist.
func (c *CatalogService) CreateWatchlist(ctx context.Context, userID int64, title, description string) (*models.Watchlist, error) {
	payload := struct {
		Title       string `json:"title"`
		Description string `json:"description,omitempty"`
	}{title, description}

	var list models.Watchlist
	if err := c.doRequest(ctx, http.MethodPost, fmt.Sprintf("/api/users/%d/watchlists", userID), payload, &list); err != nil {
		return nil, fmt.Errorf("failed to create watchlist: %w", err)
	}
	return &list, nil
}

// GetWatchlist fetches one watchlist with its items in persisted order.
func (c *CatalogService) GetWatchlist(ctx context.Context, watchlistID int64) (*models.Watchlist, error) {
	var list models.Watchlist
	if err := c.doRequest(ctx, http.MethodGet, fmt.Sprintf("/api/watchlists/%d", watchlistID), nil, &list); err != nil {
		return nil, fmt.Errorf("failed to get watchlist %d: %w", watchlistID, err)
	}
	return &list, nil
}

// DeleteWatchlist removes the watchlist and its items.
func (c *CatalogService) DeleteWatchlist(ctx context.Context, watchlistID int64) error {
	if err := c.doRequest(ctx, http.MethodDelete, fmt.Sprintf("/api/watchlists/%d", watchlistID), nil, nil); err != nil {
		return fmt.Errorf("failed to delete watchlist %d: %w", watchlistID, err)
	}
	return nil
}

// AddWatchlistItem adds a movie by external id.
func (c *CatalogService) AddWatchlistItem(ctx context.Context, watchlistID int64, externalID string) (*models.WatchlistItem, error) {
	payload := map[string]string{"externalId": externalID}

	var item models.WatchlistItem
	if err := c.doRequest(ctx, http.MethodPost, fmt.Sprintf("/api/watchlists/%d/items", watchlistID), payload, &item); err != nil {
		return nil, fmt.Errorf("failed to add %s to watchlist %d: %w", externalID, watchlistID, err)
	}
	return &item, nil
}

// RemoveWatchlistItem removes one item.
func (c *CatalogService) RemoveWatchlistItem(ctx context.Context, watchlistID, itemID int64) error {
	endpoint := fmt.Sprintf("/api/watchlists/%d/items/%d", watchlistID, itemID)
	if err := c.doRequest(ctx, http.MethodDelete, endpoint, nil, nil); err != nil {
		return fmt.Errorf("failed to remove item %d: %w", itemID, err)
	}
	return nil
}

// ReorderWatchlist sends the complete desired order in one request.
func (c *CatalogService) ReorderWatchlist(ctx context.Context, watchlistID int64, itemIDs []int64) error {
	if itemIDs == nil {
		itemIDs = []int64{}
	}
	payload := map[string][]int64{"orderedItemIds": itemIDs}

	endpoint := fmt.Sprintf("/api/watchlists/%d/items/reorder", watchlistID)
	if err := c.doRequest(ctx, http.MethodPatch, endpoint, payload, nil); err != nil {
		return fmt.Errorf("failed to reorder watchlist %d: %w", watchlistID, err)
	}
	return nil
}

// Ping checks that the service answers at all, for setup diagnostics.
func (c *CatalogService) Ping(ctx context.Context) error {
	err := c.doRequest(ctx, http.MethodGet, "/api/users", nil, nil)
	if errors.Is(err, shared.ErrTransport) {
		return fmt.Errorf("%w at %s: %w", shared.ErrServiceUnavailable, c.baseURL, err)
	}
	return err
}

var _ Catalog = (*CatalogService)(nil)
