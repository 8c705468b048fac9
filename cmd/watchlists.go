package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/mawshu/movie-tracker/internal/formatter"
	"github.com/mawshu/movie-tracker/internal/shared"
	"github.com/mawshu/movie-tracker/internal/tasks"
	"github.com/urfave/cli/v3"
)

func (r *Runner) watchlists(ctx context.Context) (*tasks.WatchlistManager, error) {
	userID, err := r.currentUser(ctx)
	if err != nil {
		return nil, err
	}
	return tasks.NewWatchlistManager(r.catalog, userID), nil
}

// WatchlistList prints the user's watchlists.
func (r *Runner) WatchlistList(ctx context.Context, cmd *cli.Command) error {
	manager, err := r.watchlists(ctx)
	if err != nil {
		return err
	}

	lists, err := manager.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list watchlists: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(lists, cmd.Bool("pretty"))
	}

	r.writePlainHeader(fmt.Sprintf("Watchlists (%d)", len(lists)))
	for _, w := range lists {
		r.writePlain("%4d  %-30s %d movies\n", w.ID, w.Title, len(w.Items))
	}
	return nil
}

// WatchlistCreate creates an empty watchlist.
func (r *Runner) WatchlistCreate(ctx context.Context, cmd *cli.Command) error {
	manager, err := r.watchlists(ctx)
	if err != nil {
		return err
	}

	w, err := manager.Create(ctx, cmd.StringArg("title"), cmd.String("description"))
	if err != nil {
		return fmt.Errorf("failed to create watchlist: %w", err)
	}

	r.logger.Info("watchlist created", "id", w.ID, "title", w.Title)
	r.writePlain("✓ Created watchlist %d (%s)\n", w.ID, w.Title)
	return nil
}

// WatchlistDelete deletes a watchlist.
func (r *Runner) WatchlistDelete(ctx context.Context, cmd *cli.Command) error {
	id, err := parseID("watchlist id", cmd.StringArg("id"))
	if err != nil {
		return err
	}
	manager, err := r.watchlists(ctx)
	if err != nil {
		return err
	}

	if err := manager.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete watchlist %d: %w", id, err)
	}
	r.writePlain("✓ Deleted watchlist %d\n", id)
	return nil
}

// WatchlistShow prints a watchlist's items with an optional display sort and title filter.
func (r *Runner) WatchlistShow(ctx context.Context, cmd *cli.Command) error {
	id, err := parseID("watchlist id", cmd.StringArg("id"))
	if err != nil {
		return err
	}
	key, err := tasks.ParseSortKey(cmd.String("sort"), tasks.ItemSortKeys)
	if err != nil {
		return err
	}
	dir, err := tasks.ParseDirection(cmd.String("dir"), tasks.Ascending)
	if err != nil {
		return err
	}

	manager, err := r.watchlists(ctx)
	if err != nil {
		return err
	}
	w, err := manager.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get watchlist %d: %w", id, err)
	}

	items := tasks.FilterItems(tasks.SortItems(w.Items, key, dir), cmd.String("filter"))

	if cmd.Bool("json") {
		out := *w
		out.Items = items
		return r.writeJSON(out, cmd.Bool("pretty"))
	}

	r.writePlainHeader(fmt.Sprintf("%s (%d movies)", w.Title, len(w.Items)))
	if w.Description != "" {
		r.writePlain("%s\n\n", w.Description)
	}
	for _, it := range items {
		r.writePlain("%3d. [%d] %-12s %s\n", it.Position, it.ID, it.Movie.ExternalID, movieLabel(it.Movie))
	}
	return nil
}

// WatchlistAdd adds a movie to every --to watchlist, one request at a time.
func (r *Runner) WatchlistAdd(ctx context.Context, cmd *cli.Command) error {
	externalID, err := requireArg("external id", cmd.StringArg("external-id"))
	if err != nil {
		return err
	}
	targets, err := parseIDs("watchlist id", cmd.StringSlice("to"))
	if err != nil {
		return err
	}
	if _, err := r.currentUser(ctx); err != nil {
		return err
	}

	r.writePlain("Adding %s to %d watchlist(s)\n", externalID, len(targets))

	progress, stop := r.progressPrinter()
	result, err := tasks.NewMembershipCoordinator(r.catalog).AddToWatchlists(ctx, externalID, targets, progress)
	stop()

	var membershipErr *tasks.MembershipError
	if errors.As(err, &membershipErr) {
		r.logger.Error("add stopped", "watchlist", membershipErr.WatchlistID, "completed", len(membershipErr.Completed), "error", membershipErr.Err)
		if len(membershipErr.Completed) > 0 {
			r.writePlain("Earlier watchlists were updated and remain so.\n")
		}
		return membershipErr
	}
	if err != nil {
		return err
	}

	r.writePlainln("✓ %s: %s", externalID, result.Summary())
	return nil
}

// WatchlistRemove removes one item from a watchlist.
func (r *Runner) WatchlistRemove(ctx context.Context, cmd *cli.Command) error {
	watchlistID, err := parseID("watchlist id", cmd.StringArg("id"))
	if err != nil {
		return err
	}
	itemID, err := parseID("item id", cmd.StringArg("item-id"))
	if err != nil {
		return err
	}
	if _, err := r.currentUser(ctx); err != nil {
		return err
	}

	if err := tasks.NewMembershipCoordinator(r.catalog).RemoveFromWatchlist(ctx, watchlistID, itemID); err != nil {
		return fmt.Errorf("failed to remove item %d: %w", itemID, err)
	}
	r.writePlain("✓ Removed item %d from watchlist %d\n", itemID, watchlistID)
	return nil
}

// WatchlistMove moves one item by --up or --down positions and saves the whole order.
func (r *Runner) WatchlistMove(ctx context.Context, cmd *cli.Command) error {
	watchlistID, err := parseID("watchlist id", cmd.StringArg("id"))
	if err != nil {
		return err
	}
	itemID, err := parseID("item id", cmd.StringArg("item-id"))
	if err != nil {
		return err
	}

	up, down := cmd.Int("up"), cmd.Int("down")
	if up < 0 || down < 0 || (up > 0) == (down > 0) {
		return fmt.Errorf("%w: give exactly one of --up or --down with a positive count", shared.ErrInvalidArgument)
	}

	manager, err := r.watchlists(ctx)
	if err != nil {
		return err
	}
	w, err := manager.Get(ctx, watchlistID)
	if err != nil {
		return fmt.Errorf("failed to get watchlist %d: %w", watchlistID, err)
	}

	session := tasks.NewOrderSession(r.catalog, w)
	move, steps := session.MoveUp, up
	if down > 0 {
		move, steps = session.MoveDown, down
	}
	for range steps {
		if err := move(itemID); err != nil {
			return err
		}
	}

	if !session.Dirty() {
		r.writePlain("Item %d is already at the edge; nothing to save\n", itemID)
		return nil
	}

	progress, stop := r.progressPrinter()
	session.WithProgress(progress)
	err = session.Commit(ctx)
	stop()
	if err != nil {
		return fmt.Errorf("failed to save order: %w", err)
	}

	for _, it := range session.Items() {
		marker := " "
		if it.ID == itemID {
			marker = ">"
		}
		r.writePlain("%s %3d. %s\n", marker, it.Position, movieLabel(it.Movie))
	}
	return nil
}

// WatchlistExport writes a watchlist, in its saved order, to a file.
func (r *Runner) WatchlistExport(ctx context.Context, cmd *cli.Command) error {
	id, err := parseID("watchlist id", cmd.StringArg("id"))
	if err != nil {
		return err
	}
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	manager, err := r.watchlists(ctx)
	if err != nil {
		return err
	}
	w, err := manager.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get watchlist %d: %w", id, err)
	}

	ordered := *w
	ordered.Items = tasks.SortItems(w.Items, tasks.SortPosition, tasks.Ascending)

	path, err := r.exporter.WriteWatchlist(&ordered, format, cmd.String("output"))
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	r.logger.Info("watchlist exported", "id", id, "path", path, "format", format)
	r.writePlain("✓ Exported %s (%d movies) to %s\n", w.Title, len(ordered.Items), path)
	return nil
}

