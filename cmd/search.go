package main

import (
	"context"
	"fmt"

	"github.com/mawshu/movie-tracker/internal/models"
	"github.com/mawshu/movie-tracker/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Search runs a catalog search and marks results already in the user's library.
// With --pages, following pages are loaded the way "load more" does, each against a fresh library fetch.
func (r *Runner) Search(ctx context.Context, cmd *cli.Command) error {
	userID, err := r.currentUser(ctx)
	if err != nil {
		return err
	}

	q := models.SearchQuery{
		Query: cmd.StringArg("query"),
		Year:  cmd.Int("year"),
		Page:  cmd.Int("page"),
		Size:  cmd.Int("size"),
	}

	searcher := r.searcher(userID)
	page, err := searcher.Search(ctx, q, nil)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if !cmd.Bool("no-history") {
		r.recordSearch(ctx, page.Query)
	}

	pages := []*tasks.SearchPage{page}
	for len(pages) < cmd.Int("pages") && page.HasMore {
		if page, err = searcher.Next(ctx, page, nil); err != nil {
			return fmt.Errorf("failed to load page %d: %w", len(pages)+1, err)
		}
		pages = append(pages, page)
	}

	if cmd.Bool("json") {
		var results []tasks.SearchResult
		for _, p := range pages {
			results = append(results, p.Results...)
		}
		return r.writeJSON(results, cmd.Bool("pretty"))
	}

	for _, p := range pages {
		r.printSearchPage(p)
	}

	last := pages[len(pages)-1]
	if last.HasMore {
		r.writePlainln("More results: movietracker search %q --page %d", last.Query.Query, last.Query.Page+1)
	}
	return nil
}

func (r *Runner) printSearchPage(page *tasks.SearchPage) {
	title := fmt.Sprintf("Results for %q (page %d)", page.Query.Query, page.Query.Page)
	if page.Query.Year > 0 {
		title = fmt.Sprintf("Results for %q, %d (page %d)", page.Query.Query, page.Query.Year, page.Query.Page)
	}
	r.writePlainHeader(title)

	if len(page.Results) == 0 {
		r.writePlain("No movies found\n")
		return
	}

	for _, res := range page.Results {
		label := ""
		if res.InLibrary {
			label = fmt.Sprintf("[%s]", res.Membership.Status.Label())
		}
		r.writePlain("%-12s %-40s %-6s %s\n", res.Movie.ExternalID, res.Movie.Title, yearLabel(res.Movie.Year), label)
	}
}

// recordSearch stores q in the recent-search history. Failures are logged, not returned.
func (r *Runner) recordSearch(ctx context.Context, q models.SearchQuery) {
	if r.history == nil {
		return
	}
	if err := r.history.Record(ctx, q); err != nil {
		r.logger.Warn("failed to record search", "query", q.Query, "error", err)
	}
}

// SearchHistory lists or clears recent searches.
func (r *Runner) SearchHistory(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireDB(); err != nil {
		return err
	}

	if cmd.Bool("clear") {
		if err := r.history.Clear(ctx); err != nil {
			return fmt.Errorf("failed to clear search history: %w", err)
		}
		r.writePlain("✓ Search history cleared\n")
		return nil
	}

	recent, err := r.history.Recent(ctx, cmd.Int("limit"))
	if err != nil {
		return fmt.Errorf("failed to load search history: %w", err)
	}

	if len(recent) == 0 {
		r.writePlain("No recent searches\n")
		return nil
	}

	r.writePlainHeader("Recent searches")
	for i, s := range recent {
		if s.Year > 0 {
			r.writePlain("%2d. %s (%d)\n", i+1, s.Query, s.Year)
		} else {
			r.writePlain("%2d. %s\n", i+1, s.Query)
		}
	}
	return nil
}

// MovieImport imports a catalog movie by external id.
func (r *Runner) MovieImport(ctx context.Context, cmd *cli.Command) error {
	externalID, err := requireArg("external id", cmd.StringArg("external-id"))
	if err != nil {
		return err
	}

	movie, err := r.catalog.ImportMovie(ctx, externalID)
	if err != nil {
		return fmt.Errorf("failed to import movie %s: %w", externalID, err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(movie, cmd.Bool("pretty"))
	}
	r.writePlain("✓ Imported %s as movie %d\n", movieLabel(*movie), movie.ID)
	return nil
}

// MovieShow prints one imported movie.
func (r *Runner) MovieShow(ctx context.Context, cmd *cli.Command) error {
	id, err := parseID("movie id", cmd.StringArg("id"))
	if err != nil {
		return err
	}

	movie, err := r.catalog.GetMovie(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get movie %d: %w", id, err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(movie, cmd.Bool("pretty"))
	}

	r.writePlainHeader(movieLabel(*movie))
	r.writePlain("External ID: %s\n", movie.ExternalID)
	if movie.RuntimeMinutes > 0 {
		r.writePlain("Runtime:     %d min\n", movie.RuntimeMinutes)
	}
	if movie.Overview != "" {
		r.writePlainln("%s", movie.Overview)
	}
	return nil
}

func yearLabel(year int) string {
	if year == 0 {
		return "-"
	}
	return fmt.Sprintf("%d", year)
}

func movieLabel(m models.Movie) string {
	if m.Year == 0 {
		return m.Title
	}
	return fmt.Sprintf("%s (%d)", m.Title, m.Year)
}

// refFor resolves the library entry for externalID from a fresh library fetch.
func (r *Runner) refFor(ctx context.Context, userID int64, externalID string) (tasks.EntryRef, error) {
	entries, err := r.catalog.GetLibrary(ctx, userID)
	if err != nil {
		return tasks.EntryRef{}, fmt.Errorf("failed to load library: %w", err)
	}
	return tasks.BuildIndex(entries).Ref(externalID), nil
}
