package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/mawshu/movie-tracker/internal/formatter"
	"github.com/mawshu/movie-tracker/internal/models"
	"github.com/mawshu/movie-tracker/internal/shared"
	"github.com/mawshu/movie-tracker/internal/tasks"
	"github.com/urfave/cli/v3"
)

// libraryView fetches the user's library and applies the --status, --sort, and --dir flags.
func (r *Runner) libraryView(ctx context.Context, cmd *cli.Command, userID int64) ([]models.LibraryEntry, error) {
	status := models.StatusUnset
	if s := strings.TrimSpace(cmd.String("status")); s != "" && !strings.EqualFold(s, "all") {
		parsed, err := models.ParseStatus(s)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", shared.ErrInvalidArgument, err)
		}
		status = parsed
	}

	key, err := tasks.ParseSortKey(cmd.String("sort"), tasks.EntrySortKeys)
	if err != nil {
		return nil, err
	}
	dir, err := tasks.ParseDirection(cmd.String("dir"), tasks.Descending)
	if err != nil {
		return nil, err
	}

	entries, err := r.catalog.GetLibrary(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load library: %w", err)
	}
	return tasks.LibraryView(entries, status, key, dir), nil
}

// LibraryList prints the user's library entries.
func (r *Runner) LibraryList(ctx context.Context, cmd *cli.Command) error {
	userID, err := r.currentUser(ctx)
	if err != nil {
		return err
	}

	entries, err := r.libraryView(ctx, cmd, userID)
	if err != nil {
		return err
	}
	entries = tasks.FilterEntries(entries, cmd.String("filter"))

	if cmd.Bool("json") {
		return r.writeJSON(entries, cmd.Bool("pretty"))
	}

	r.writePlainHeader(fmt.Sprintf("Library (%d movies)", len(entries)))
	for _, e := range entries {
		r.writePlain("%s\n", entryLine(e))
	}
	return nil
}

func entryLine(e models.LibraryEntry) string {
	var m models.Movie
	if e.Movie != nil {
		m = *e.Movie
	}

	line := fmt.Sprintf("%-12s %-40s %-6s %-12s", m.ExternalID, m.Title, yearLabel(m.Year), e.Status.Label())
	if e.Rating != nil {
		line += fmt.Sprintf(" ★ %d/10", *e.Rating)
	}
	if e.Liked {
		line += " ♥"
	}
	return strings.TrimRight(line, " ")
}

// LibraryStatus marks a movie planned or watched.
func (r *Runner) LibraryStatus(ctx context.Context, cmd *cli.Command) error {
	externalID, err := requireArg("external id", cmd.StringArg("external-id"))
	if err != nil {
		return err
	}
	rawStatus, err := requireArg("status", cmd.StringArg("status"))
	if err != nil {
		return err
	}
	target, err := models.ParseStatus(rawStatus)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidStatus, err)
	}

	userID, err := r.currentUser(ctx)
	if err != nil {
		return err
	}
	engine := tasks.NewStatusEngine(r.catalog, userID)

	var entry *models.LibraryEntry
	if cmd.Bool("force") {
		entry, err = engine.Upsert(ctx, externalID, target)
	} else {
		ref, refErr := r.refFor(ctx, userID, externalID)
		if refErr != nil {
			return refErr
		}
		entry, err = engine.SetStatus(ctx, ref, target)
	}

	if errors.Is(err, shared.ErrStatusUnchanged) {
		r.logger.Info("status unchanged", "movie", externalID, "status", target)
		r.writePlain("%s is already marked %s\n", externalID, target.Label())
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to set status: %w", err)
	}

	r.writePlain("✓ %s → %s\n", movieLabel(entryMovieOf(entry, externalID)), entry.Status.Label())
	return nil
}

// parseRating reads a rating argument; "clear" (or --clear) means no rating.
func parseRating(arg string, clear bool) (*int, error) {
	arg = strings.TrimSpace(arg)
	if clear || strings.EqualFold(arg, "clear") {
		return nil, nil
	}
	if arg == "" {
		return nil, fmt.Errorf("%w: rating", shared.ErrMissingArgument)
	}

	v, err := strconv.Atoi(arg)
	if err != nil {
		return nil, fmt.Errorf("%w: got %q", shared.ErrInvalidRating, arg)
	}
	if err := tasks.ValidateRating(&v); err != nil {
		return nil, err
	}
	return &v, nil
}

// libraryRef resolves externalID and fails when it has no library entry.
func (r *Runner) libraryRef(ctx context.Context, userID int64, externalID string) (tasks.EntryRef, error) {
	ref, err := r.refFor(ctx, userID, externalID)
	if err != nil {
		return ref, err
	}
	if ref.EntryID == 0 {
		return ref, fmt.Errorf("%w: %s is not in your library", shared.ErrNotFound, externalID)
	}
	return ref, nil
}

// LibraryRate sets or clears the rating of a watched movie.
func (r *Runner) LibraryRate(ctx context.Context, cmd *cli.Command) error {
	externalID, err := requireArg("external id", cmd.StringArg("external-id"))
	if err != nil {
		return err
	}
	rating, err := parseRating(cmd.StringArg("rating"), cmd.Bool("clear"))
	if err != nil {
		return err
	}

	userID, err := r.currentUser(ctx)
	if err != nil {
		return err
	}
	ref, err := r.libraryRef(ctx, userID, externalID)
	if err != nil {
		return err
	}

	entry, err := tasks.NewStatusEngine(r.catalog, userID).SetRating(ctx, ref, rating)
	if err != nil {
		return fmt.Errorf("failed to rate %s: %w", externalID, err)
	}

	if entry.Rating == nil {
		r.writePlain("✓ Cleared rating for %s\n", movieLabel(entryMovieOf(entry, externalID)))
	} else {
		r.writePlain("✓ Rated %s %d/10\n", movieLabel(entryMovieOf(entry, externalID)), *entry.Rating)
	}
	return nil
}

// LibraryLike likes or unlikes a watched movie.
func (r *Runner) LibraryLike(ctx context.Context, cmd *cli.Command) error {
	externalID, err := requireArg("external id", cmd.StringArg("external-id"))
	if err != nil {
		return err
	}

	userID, err := r.currentUser(ctx)
	if err != nil {
		return err
	}
	ref, err := r.libraryRef(ctx, userID, externalID)
	if err != nil {
		return err
	}

	liked := !cmd.Bool("unlike")
	entry, err := tasks.NewStatusEngine(r.catalog, userID).SetLiked(ctx, ref, liked)
	if err != nil {
		return fmt.Errorf("failed to update %s: %w", externalID, err)
	}

	if entry.Liked {
		r.writePlain("✓ Liked %s\n", movieLabel(entryMovieOf(entry, externalID)))
	} else {
		r.writePlain("✓ Unliked %s\n", movieLabel(entryMovieOf(entry, externalID)))
	}
	return nil
}

// LibraryRemove deletes a movie's library entry.
func (r *Runner) LibraryRemove(ctx context.Context, cmd *cli.Command) error {
	externalID, err := requireArg("external id", cmd.StringArg("external-id"))
	if err != nil {
		return err
	}

	userID, err := r.currentUser(ctx)
	if err != nil {
		return err
	}
	ref, err := r.libraryRef(ctx, userID, externalID)
	if err != nil {
		return err
	}

	if err := tasks.NewStatusEngine(r.catalog, userID).Remove(ctx, ref.EntryID); err != nil {
		return fmt.Errorf("failed to remove %s: %w", externalID, err)
	}
	r.writePlain("✓ Removed %s from your library\n", externalID)
	return nil
}

// LibraryExport writes the library to a file.
func (r *Runner) LibraryExport(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	userID, err := r.currentUser(ctx)
	if err != nil {
		return err
	}
	entries, err := r.libraryView(ctx, cmd, userID)
	if err != nil {
		return err
	}

	path, err := r.exporter.WriteLibrary(entries, format, cmd.String("output"))
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	r.logger.Info("library exported", "path", path, "entries", len(entries), "format", format)
	r.writePlain("✓ Exported %d movies to %s\n", len(entries), path)
	return nil
}

func entryMovieOf(e *models.LibraryEntry, externalID string) models.Movie {
	if e == nil || e.Movie == nil {
		return models.Movie{ExternalID: externalID, Title: externalID}
	}
	return *e.Movie
}
