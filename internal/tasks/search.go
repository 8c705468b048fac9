package tasks

import (
	"context"
	"fmt"
	"strings"

	"github.com/mawshu/movie-tracker/internal/models"
	"github.com/mawshu/movie-tracker/internal/services"
	"github.com/mawshu/movie-tracker/internal/shared"
	"github.com/sourcegraph/conc/pool"
)

// DefaultPageSize is the number of search results per page.
const DefaultPageSize = 6

// SearchClient is the subset of [services.Catalog] a [Searcher] needs.
type SearchClient interface {
	services.Movies
	services.Library
	services.Watchlists
}

// SearchResult is one catalog movie annotated with the user's library membership.
type SearchResult struct {
	Movie      models.Movie
	Membership Membership
	InLibrary  bool
}

// Ref returns the [EntryRef] for changing this result's status.
func (r SearchResult) Ref() EntryRef {
	return EntryRef{ExternalID: r.Movie.ExternalID, EntryID: r.Membership.EntryID, Status: r.Membership.Status}
}

// SearchPage is one page of annotated results plus the user's watchlists, which callers
// offer as add-to targets.
type SearchPage struct {
	Query      models.SearchQuery
	Results    []SearchResult
	Watchlists []models.Watchlist
	Index      LibraryIndex
	HasMore    bool // The page came back full
}

// Searcher runs catalog searches for one user.
type Searcher struct {
	client   SearchClient
	userID   int64
	pageSize int
}

// NewSearcher creates a [Searcher]. A non-positive pageSize uses [DefaultPageSize].
func NewSearcher(client SearchClient, userID int64, pageSize int) *Searcher {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Searcher{client: client, userID: userID, pageSize: pageSize}
}

func (s *Searcher) normalize(q models.SearchQuery) (models.SearchQuery, error) {
	q.Query = strings.TrimSpace(q.Query)
	if q.Query == "" {
		return q, fmt.Errorf("%w: search query", shared.ErrMissingArgument)
	}
	if q.Page <= 0 {
		q.Page = 1
	}
	if q.Size <= 0 {
		q.Size = s.pageSize
	}
	return q, nil
}

// Search fetches the library, the watchlists, and the result page concurrently, then
// annotates each result from a freshly built [LibraryIndex]. The first failure cancels the rest.
func (s *Searcher) Search(ctx context.Context, q models.SearchQuery, progress chan<- ProgressUpdate) (*SearchPage, error) {
	q, err := s.normalize(q)
	if err != nil {
		return nil, err
	}

	var (
		entries    []models.LibraryEntry
		watchlists []models.Watchlist
		movies     []models.Movie
	)

	p := pool.New().WithErrors().WithContext(ctx).WithCancelOnError().WithFirstError()
	p.Go(func(ctx context.Context) error {
		var err error
		entries, err = s.client.GetLibrary(ctx, s.userID)
		if err == nil {
			sendProgress(progress, fetchLibraryUpdate(len(entries)))
		}
		return err
	})
	p.Go(func(ctx context.Context) error {
		var err error
		watchlists, err = s.client.ListWatchlists(ctx, s.userID)
		if err == nil {
			sendProgress(progress, fetchWatchlistsUpdate(len(watchlists)))
		}
		return err
	})
	p.Go(func(ctx context.Context) error {
		var err error
		movies, err = s.client.SearchMovies(ctx, q)
		return err
	})
	if err := p.Wait(); err != nil {
		return nil, err
	}

	page := s.annotate(q, movies, BuildIndex(entries))
	page.Watchlists = watchlists
	sendProgress(progress, searchUpdate(q, len(movies)))
	return page, nil
}

// Next fetches the page after prev. Like Search, it refetches the library and watchlists so
// the annotations reflect any status change made since prev was loaded.
func (s *Searcher) Next(ctx context.Context, prev *SearchPage, progress chan<- ProgressUpdate) (*SearchPage, error) {
	q := prev.Query
	q.Page++
	return s.Search(ctx, q, progress)
}

func (s *Searcher) annotate(q models.SearchQuery, movies []models.Movie, ix LibraryIndex) *SearchPage {
	results := make([]SearchResult, 0, len(movies))
	for _, m := range movies {
		membership, ok := ix.Lookup(m.ExternalID)
		results = append(results, SearchResult{Movie: m, Membership: membership, InLibrary: ok})
	}
	return &SearchPage{
		Query:   q,
		Results: results,
		Index:   ix,
		HasMore: len(movies) == q.Size,
	}
}
