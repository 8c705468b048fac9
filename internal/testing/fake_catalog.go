package testing

import (
	"context"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/mawshu/movie-tracker/internal/models"
	"github.com/mawshu/movie-tracker/internal/shared"
)

// Call records one operation issued against a [FakeCatalog].
type Call struct {
	Op   string
	Args []any
}

// FakeCatalog is an in-memory stand-in for the catalog/library service.
//
// It mirrors the service's observable rules: duplicate watchlist adds are 409s, new items get
// position max+1, reorder renumbers from 1, library upserts are keyed by (user, externalId),
// and unknown ids are 404s. Every call is recorded; [FakeCatalog.FailWhen] scripts errors.
type FakeCatalog struct {
	mu sync.Mutex

	nextID     int64
	catalog    []models.Movie // upstream search results, keyed by ExternalID
	imported   map[string]*models.Movie
	users      []models.User
	library    map[int64][]*models.LibraryEntry // by user id
	watchlists map[int64]*models.Watchlist
	order      []int64 // watchlist creation order

	calls []Call
	hooks map[string]func(args []any) error

	Now func() time.Time
}

// NewFakeCatalog returns a fake whose upstream catalog contains movies.
func NewFakeCatalog(movies ...models.Movie) *FakeCatalog {
	return &FakeCatalog{
		nextID:     100,
		catalog:    slices.Clone(movies),
		imported:   make(map[string]*models.Movie),
		library:    make(map[int64][]*models.LibraryEntry),
		watchlists: make(map[int64]*models.Watchlist),
		hooks:      make(map[string]func(args []any) error),
		Now:        func() time.Time { return time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC) },
	}
}

// FailWhen installs a hook run before op; a non-nil return is the call's error and the
// operation has no effect.
func (f *FakeCatalog) FailWhen(op string, hook func(args []any) error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hooks[op] = hook
}

// Calls returns a copy of the recorded calls.
func (f *FakeCatalog) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.calls)
}

// CallsTo returns the recorded calls to op.
func (f *FakeCatalog) CallsTo(op string) []Call {
	var out []Call
	for _, c := range f.Calls() {
		if c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

// ResetCalls clears the call log.
func (f *FakeCatalog) ResetCalls() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = nil
}

// Conflict builds the service's duplicate-membership response.
func Conflict(message string) error {
	return shared.NewAPIError(http.StatusConflict, message, "")
}

// ServerError builds a generic failure response.
func ServerError(message string) error {
	return shared.NewAPIError(http.StatusInternalServerError, message, "")
}

func notFound(what string) error {
	return shared.NewAPIError(http.StatusNotFound, what+" not found", "")
}

// record logs the call and runs its hook. Callers hold f.mu.
func (f *FakeCatalog) record(ctx context.Context, op string, args ...any) error {
	f.calls = append(f.calls, Call{Op: op, Args: args})
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", shared.ErrTransport, err)
	}
	if hook, ok := f.hooks[op]; ok {
		return hook(args)
	}
	return nil
}

func (f *FakeCatalog) id() int64 {
	f.nextID++
	return f.nextID
}

func (f *FakeCatalog) now() models.Timestamp {
	return models.NewTimestamp(f.Now())
}

// AddUser seeds a user and returns it.
func (f *FakeCatalog) AddUser(username string) models.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	u := models.User{ID: f.id(), Username: username, Email: username + "@example.com", CreatedAt: f.now()}
	f.users = append(f.users, u)
	return u
}

// SeedWatchlist creates a watchlist for userID holding the given external ids, in order.
func (f *FakeCatalog) SeedWatchlist(userID int64, title string, externalIDs ...string) *models.Watchlist {
	f.mu.Lock()
	defer f.mu.Unlock()

	w := f.createWatchlist(userID, title, "")
	for _, ext := range externalIDs {
		if _, err := f.addItem(w, ext); err != nil {
			panic(fmt.Sprintf("seed watchlist: %v", err))
		}
	}
	return cloneWatchlist(w)
}

// SeedEntry creates a library entry without recording a call.
func (f *FakeCatalog) SeedEntry(userID int64, externalID string, status models.Status) models.LibraryEntry {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, err := f.upsert(userID, externalID, status)
	if err != nil {
		panic(fmt.Sprintf("seed entry: %v", err))
	}
	return *e
}

// EntryCount returns how many library entries userID has.
func (f *FakeCatalog) EntryCount(userID int64) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.library[userID])
}

func (f *FakeCatalog) ListUsers(ctx context.Context) ([]models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record(ctx, "ListUsers"); err != nil {
		return nil, err
	}
	return slices.Clone(f.users), nil
}

func (f *FakeCatalog) CreateUser(ctx context.Context, user models.NewUser) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record(ctx, "CreateUser", user); err != nil {
		return nil, err
	}

	for _, u := range f.users {
		if u.Email == user.Email {
			return nil, Conflict("Email already exists")
		}
		if u.Username == user.Username {
			return nil, Conflict("Username already exists")
		}
	}

	u := models.User{ID: f.id(), Email: user.Email, Username: user.Username, CreatedAt: f.now()}
	f.users = append(f.users, u)
	return &u, nil
}

func (f *FakeCatalog) SearchMovies(ctx context.Context, q models.SearchQuery) ([]models.Movie, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record(ctx, "SearchMovies", q); err != nil {
		return nil, err
	}

	needle := strings.ToLower(q.Query)
	var matches []models.Movie
	for _, m := range f.catalog {
		if !strings.Contains(strings.ToLower(m.Title), needle) {
			continue
		}
		if q.Year > 0 && m.Year != q.Year {
			continue
		}
		matches = append(matches, models.Movie{
			ExternalID: m.ExternalID, Title: m.Title, Year: m.Year,
			PosterURL: m.PosterURL, Overview: m.Overview,
		})
	}

	page, size := max(q.Page, 1), q.Size
	if size <= 0 {
		size = 10
	}
	start := (page - 1) * size
	if start >= len(matches) {
		return []models.Movie{}, nil
	}
	return matches[start:min(start+size, len(matches))], nil
}

func (f *FakeCatalog) GetMovie(ctx context.Context, id int64) (*models.Movie, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record(ctx, "GetMovie", id); err != nil {
		return nil, err
	}
	for _, m := range f.imported {
		if m.ID == id {
			movie := *m
			return &movie, nil
		}
	}
	return nil, notFound("Movie")
}

func (f *FakeCatalog) ImportMovie(ctx context.Context, externalID string) (*models.Movie, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record(ctx, "ImportMovie", externalID); err != nil {
		return nil, err
	}
	m, err := f.importMovie(externalID)
	if err != nil {
		return nil, err
	}
	movie := *m
	return &movie, nil
}

func (f *FakeCatalog) importMovie(externalID string) (*models.Movie, error) {
	if m, ok := f.imported[externalID]; ok {
		return m, nil
	}
	idx := slices.IndexFunc(f.catalog, func(m models.Movie) bool { return m.ExternalID == externalID })
	if idx < 0 {
		return nil, notFound("Movie")
	}
	m := f.catalog[idx]
	m.ID = f.id()
	f.imported[externalID] = &m
	return &m, nil
}

func (f *FakeCatalog) GetLibrary(ctx context.Context, userID int64) ([]models.LibraryEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record(ctx, "GetLibrary", userID); err != nil {
		return nil, err
	}
	out := make([]models.LibraryEntry, 0, len(f.library[userID]))
	for _, e := range f.library[userID] {
		out = append(out, cloneEntry(e))
	}
	return out, nil
}

func (f *FakeCatalog) UpsertLibraryEntry(ctx context.Context, userID int64, externalID string, status models.Status) (*models.LibraryEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record(ctx, "UpsertLibraryEntry", userID, externalID, status); err != nil {
		return nil, err
	}
	e, err := f.upsert(userID, externalID, status)
	if err != nil {
		return nil, err
	}
	out := cloneEntry(e)
	return &out, nil
}

func (f *FakeCatalog) upsert(userID int64, externalID string, status models.Status) (*models.LibraryEntry, error) {
	m, err := f.importMovie(externalID)
	if err != nil {
		return nil, err
	}

	for _, e := range f.library[userID] {
		if e.ExternalID() == externalID {
			f.applyStatus(e, status)
			return e, nil
		}
	}

	e := &models.LibraryEntry{ID: f.id(), Movie: m, CreatedAt: f.now()}
	f.applyStatus(e, status)
	f.library[userID] = append(f.library[userID], e)
	return e, nil
}

func (f *FakeCatalog) applyStatus(e *models.LibraryEntry, status models.Status) {
	e.Status = status
	e.UpdatedAt = f.now()
	switch status {
	case models.StatusWatched:
		if e.WatchedAt == nil {
			ts := f.now()
			e.WatchedAt = &ts
		}
	case models.StatusPlanned:
		e.WatchedAt = nil
	}
}

func (f *FakeCatalog) entry(userID, entryID int64) (*models.LibraryEntry, error) {
	for _, e := range f.library[userID] {
		if e.ID == entryID {
			return e, nil
		}
	}
	return nil, notFound("UserMovie")
}

func (f *FakeCatalog) patch(ctx context.Context, op string, userID, entryID int64, value any, apply func(*models.LibraryEntry)) (*models.LibraryEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record(ctx, op, userID, entryID, value); err != nil {
		return nil, err
	}
	e, err := f.entry(userID, entryID)
	if err != nil {
		return nil, err
	}
	apply(e)
	e.UpdatedAt = f.now()
	out := cloneEntry(e)
	return &out, nil
}

func (f *FakeCatalog) UpdateStatus(ctx context.Context, userID, entryID int64, status models.Status) (*models.LibraryEntry, error) {
	return f.patch(ctx, "UpdateStatus", userID, entryID, status, func(e *models.LibraryEntry) {
		e.WatchedAt = nil
		f.applyStatus(e, status)
	})
}

func (f *FakeCatalog) UpdateRating(ctx context.Context, userID, entryID int64, rating *int) (*models.LibraryEntry, error) {
	return f.patch(ctx, "UpdateRating", userID, entryID, rating, func(e *models.LibraryEntry) {
		if rating == nil {
			e.Rating = nil
			return
		}
		r := *rating
		e.Rating = &r
	})
}

func (f *FakeCatalog) UpdateLiked(ctx context.Context, userID, entryID int64, liked bool) (*models.LibraryEntry, error) {
	return f.patch(ctx, "UpdateLiked", userID, entryID, liked, func(e *models.LibraryEntry) {
		e.Liked = liked
	})
}

func (f *FakeCatalog) DeleteLibraryEntry(ctx context.Context, userID, entryID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record(ctx, "DeleteLibraryEntry", userID, entryID); err != nil {
		return err
	}
	if _, err := f.entry(userID, entryID); err != nil {
		return err
	}
	f.library[userID] = slices.DeleteFunc(f.library[userID], func(e *models.LibraryEntry) bool { return e.ID == entryID })
	return nil
}

func (f *FakeCatalog) ListWatchlists(ctx context.Context, userID int64) ([]models.Watchlist, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record(ctx, "ListWatchlists", userID); err != nil {
		return nil, err
	}
	var out []models.Watchlist
	for _, id := range f.order {
		if w := f.watchlists[id]; w.UserID == userID {
			out = append(out, *cloneWatchlist(w))
		}
	}
	return out, nil
}

func (f *FakeCatalog) CreateWatchlist(ctx context.Context, userID int64, title, description string) (*models.Watchlist, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record(ctx, "CreateWatchlist", userID, title, description); err != nil {
		return nil, err
	}
	return cloneWatchlist(f.createWatchlist(userID, title, description)), nil
}

func (f *FakeCatalog) createWatchlist(userID int64, title, description string) *models.Watchlist {
	w := &models.Watchlist{ID: f.id(), UserID: userID, Title: title, Description: description, CreatedAt: f.now()}
	f.watchlists[w.ID] = w
	f.order = append(f.order, w.ID)
	return w
}

func (f *FakeCatalog) GetWatchlist(ctx context.Context, watchlistID int64) (*models.Watchlist, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record(ctx, "GetWatchlist", watchlistID); err != nil {
		return nil, err
	}
	w, ok := f.watchlists[watchlistID]
	if !ok {
		return nil, notFound("Watchlist")
	}
	return cloneWatchlist(w), nil
}

func (f *FakeCatalog) DeleteWatchlist(ctx context.Context, watchlistID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record(ctx, "DeleteWatchlist", watchlistID); err != nil {
		return err
	}
	if _, ok := f.watchlists[watchlistID]; !ok {
		return notFound("Watchlist")
	}
	delete(f.watchlists, watchlistID)
	f.order = slices.DeleteFunc(f.order, func(id int64) bool { return id == watchlistID })
	return nil
}

func (f *FakeCatalog) AddWatchlistItem(ctx context.Context, watchlistID int64, externalID string) (*models.WatchlistItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record(ctx, "AddWatchlistItem", watchlistID, externalID); err != nil {
		return nil, err
	}
	w, ok := f.watchlists[watchlistID]
	if !ok {
		return nil, notFound("Watchlist")
	}
	item, err := f.addItem(w, externalID)
	if err != nil {
		return nil, err
	}
	out := *item
	return &out, nil
}

func (f *FakeCatalog) addItem(w *models.Watchlist, externalID string) (*models.WatchlistItem, error) {
	m, err := f.importMovie(externalID)
	if err != nil {
		return nil, err
	}

	next := 1
	for _, it := range w.Items {
		if it.Movie.ExternalID == externalID {
			return nil, Conflict("Movie already exists in this watchlist")
		}
		next = max(next, it.Position+1)
	}

	w.Items = append(w.Items, models.WatchlistItem{ID: f.id(), Position: next, AddedAt: f.now(), Movie: *m})
	return &w.Items[len(w.Items)-1], nil
}

func (f *FakeCatalog) RemoveWatchlistItem(ctx context.Context, watchlistID, itemID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record(ctx, "RemoveWatchlistItem", watchlistID, itemID); err != nil {
		return err
	}
	w, ok := f.watchlists[watchlistID]
	if !ok {
		return notFound("Watchlist")
	}
	idx := slices.IndexFunc(w.Items, func(it models.WatchlistItem) bool { return it.ID == itemID })
	if idx < 0 {
		return notFound("Watchlist item")
	}
	w.Items = slices.Delete(w.Items, idx, idx+1)
	return nil
}

// ReorderWatchlist assigns positions 1..n in the given order. Unknown ids fail the whole request.
func (f *FakeCatalog) ReorderWatchlist(ctx context.Context, watchlistID int64, itemIDs []int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record(ctx, "ReorderWatchlist", watchlistID, slices.Clone(itemIDs)); err != nil {
		return err
	}
	w, ok := f.watchlists[watchlistID]
	if !ok {
		return notFound("Watchlist")
	}

	positions := make(map[int64]int, len(itemIDs))
	for i, id := range itemIDs {
		if !slices.ContainsFunc(w.Items, func(it models.WatchlistItem) bool { return it.ID == id }) {
			return notFound(fmt.Sprintf("Watchlist item %d", id))
		}
		positions[id] = i + 1
	}
	for i := range w.Items {
		if p, ok := positions[w.Items[i].ID]; ok {
			w.Items[i].Position = p
		}
	}
	return nil
}

// cloneWatchlist copies w with items sorted by position, as the service returns them.
func cloneWatchlist(w *models.Watchlist) *models.Watchlist {
	out := *w
	out.Items = slices.Clone(w.Items)
	slices.SortStableFunc(out.Items, func(a, b models.WatchlistItem) int { return a.Position - b.Position })
	if out.Items == nil {
		out.Items = []models.WatchlistItem{}
	}
	return &out
}

func cloneEntry(e *models.LibraryEntry) models.LibraryEntry {
	out := *e
	if e.Movie != nil {
		m := *e.Movie
		out.Movie = &m
	}
	if e.Rating != nil {
		r := *e.Rating
		out.Rating = &r
	}
	if e.WatchedAt != nil {
		ts := *e.WatchedAt
		out.WatchedAt = &ts
	}
	return out
}
