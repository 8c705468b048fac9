// submodule cmd contains command definitions
package main

import (
	"fmt"

	"github.com/mawshu/movie-tracker/internal/formatter"
	"github.com/urfave/cli/v3"
)

func jsonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Output raw JSON",
		},
		&cli.BoolFlag{
			Name:  "pretty",
			Usage: "Pretty-print JSON output",
			Value: true,
		},
	}
}

func exportFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   fmt.Sprintf("Export format, one of %v", formatter.Formats),
			Value:   string(formatter.FormatCSV),
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output file path (default derived from the format)",
		},
	}
}

// setupCommand handles setup operations for configuration and the local database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "config",
				Usage: "Write config.toml from the built-in template",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
				},
				Action: r.SetupConfig,
			},
			{
				Name:   "database",
				Usage:  "Initialize the session database and run migrations",
				Action: r.SetupDatabase,
			},
			{
				Name:   "rollback",
				Usage:  "Roll back the most recent database migration",
				Action: r.SetupRollback,
			},
			{
				Name:   "ping",
				Usage:  "Check that the catalog service is reachable",
				Action: r.SetupPing,
			},
		},
	}
}

// userCommand handles user selection. There is no login: the chosen id is trusted as-is.
func userCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "user",
		Aliases: []string{"users"},
		Usage:   "List, create, and select users",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List users known to the service",
				Flags:  jsonFlags(),
				Action: r.UserList,
			},
			{
				Name:  "create",
				Usage: "Create a user",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "email", Usage: "Email address", Required: true},
					&cli.StringFlag{Name: "username", Usage: "Username", Required: true},
					&cli.StringFlag{Name: "password", Usage: "Password", Required: true},
					&cli.BoolFlag{Name: "use", Usage: "Select the new user"},
				},
				Action: r.UserCreate,
			},
			{
				Name:      "use",
				Usage:     "Act as the given user id",
				Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
				Action:    r.UserUse,
			},
			{
				Name:   "whoami",
				Usage:  "Show the selected user",
				Action: r.UserWhoami,
			},
			{
				Name:   "logout",
				Usage:  "Forget the selected user",
				Action: r.UserLogout,
			},
		},
	}
}

// searchCommand searches the catalog and annotates results with library membership.
func searchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Search the movie catalog",
		Arguments: []cli.Argument{&cli.StringArg{Name: "query"}},
		Flags: append([]cli.Flag{
			&cli.IntFlag{Name: "year", Aliases: []string{"y"}, Usage: "Only movies released in this year"},
			&cli.IntFlag{Name: "page", Aliases: []string{"p"}, Usage: "Result page (1-based)", Value: 1},
			&cli.IntFlag{Name: "size", Usage: "Results per page (default from config)"},
			&cli.IntFlag{Name: "pages", Usage: "Number of consecutive pages to load", Value: 1},
			&cli.BoolFlag{Name: "no-history", Usage: "Do not record this search"},
		}, jsonFlags()...),
		Action: r.Search,
		Commands: []*cli.Command{
			{
				Name:  "history",
				Usage: "Show recent searches",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "limit", Usage: "Maximum number of searches to show", Value: 10},
					&cli.BoolFlag{Name: "clear", Usage: "Delete the search history"},
				},
				Action: r.SearchHistory,
			},
		},
	}
}

// movieCommand handles single-movie operations.
func movieCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "movie",
		Usage: "Catalog movie operations",
		Commands: []*cli.Command{
			{
				Name:      "import",
				Usage:     "Import a movie by external id",
				Arguments: []cli.Argument{&cli.StringArg{Name: "external-id"}},
				Flags:     jsonFlags(),
				Action:    r.MovieImport,
			},
			{
				Name:      "show",
				Usage:     "Show an imported movie by id",
				Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
				Flags:     jsonFlags(),
				Action:    r.MovieShow,
			},
		},
	}
}

// libraryCommand handles the user's library: statuses, ratings, and likes.
func libraryCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "library",
		Aliases: []string{"lib"},
		Usage:   "Manage watched and watch-later movies",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List library entries",
				Flags: append([]cli.Flag{
					&cli.StringFlag{Name: "status", Aliases: []string{"s"}, Usage: "planned or watched (default all)"},
					&cli.StringFlag{Name: "sort", Usage: "addedAt, title, year, or rating", Value: "addedAt"},
					&cli.StringFlag{Name: "dir", Usage: "asc or desc", Value: "desc"},
					&cli.StringFlag{Name: "filter", Usage: "Only titles containing this text"},
				}, jsonFlags()...),
				Action: r.LibraryList,
			},
			{
				Name:  "status",
				Usage: "Mark a movie planned or watched",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "external-id"},
					&cli.StringArg{Name: "status"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "force", Usage: "Send the status even if the library already has it"},
				},
				Action: r.LibraryStatus,
			},
			{
				Name:  "rate",
				Usage: "Rate a watched movie from 1 to 10",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "external-id"},
					&cli.StringArg{Name: "rating"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "clear", Usage: "Remove the rating"},
				},
				Action: r.LibraryRate,
			},
			{
				Name:      "like",
				Usage:     "Like a watched movie",
				Arguments: []cli.Argument{&cli.StringArg{Name: "external-id"}},
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "unlike", Usage: "Remove the like"},
				},
				Action: r.LibraryLike,
			},
			{
				Name:      "remove",
				Aliases:   []string{"rm"},
				Usage:     "Remove a movie from the library",
				Arguments: []cli.Argument{&cli.StringArg{Name: "external-id"}},
				Action:    r.LibraryRemove,
			},
			{
				Name:  "export",
				Usage: "Export the library",
				Flags: append([]cli.Flag{
					&cli.StringFlag{Name: "status", Aliases: []string{"s"}, Usage: "planned or watched (default all)"},
					&cli.StringFlag{Name: "sort", Usage: "addedAt, title, year, or rating", Value: "addedAt"},
					&cli.StringFlag{Name: "dir", Usage: "asc or desc", Value: "desc"},
				}, exportFlags()...),
				Action: r.LibraryExport,
			},
		},
	}
}

// watchlistCommand handles watchlists, their membership, and their order.
func watchlistCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "watchlist",
		Aliases: []string{"wl"},
		Usage:   "Manage ordered watchlists",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List your watchlists",
				Flags:  jsonFlags(),
				Action: r.WatchlistList,
			},
			{
				Name:      "create",
				Usage:     "Create a watchlist",
				Arguments: []cli.Argument{&cli.StringArg{Name: "title"}},
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "description", Aliases: []string{"d"}, Usage: "Watchlist description"},
				},
				Action: r.WatchlistCreate,
			},
			{
				Name:      "delete",
				Usage:     "Delete a watchlist",
				Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
				Action:    r.WatchlistDelete,
			},
			{
				Name:      "show",
				Usage:     "Show a watchlist's movies",
				Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
				Flags: append([]cli.Flag{
					&cli.StringFlag{Name: "sort", Usage: "position, title, year, or addedAt", Value: "position"},
					&cli.StringFlag{Name: "dir", Usage: "asc or desc", Value: "asc"},
					&cli.StringFlag{Name: "filter", Usage: "Only titles containing this text"},
				}, jsonFlags()...),
				Action: r.WatchlistShow,
			},
			{
				Name:      "add",
				Usage:     "Add a movie to one or more watchlists",
				Arguments: []cli.Argument{&cli.StringArg{Name: "external-id"}},
				Flags: []cli.Flag{
					&cli.StringSliceFlag{
						Name:     "to",
						Usage:    "Target watchlist id (repeat or comma-separate for several)",
						Required: true,
					},
				},
				Action: r.WatchlistAdd,
			},
			{
				Name:  "remove",
				Usage: "Remove an item from a watchlist",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
					&cli.StringArg{Name: "item-id"},
				},
				Action: r.WatchlistRemove,
			},
			{
				Name:  "move",
				Usage: "Move an item up or down and save the new order",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
					&cli.StringArg{Name: "item-id"},
				},
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "up", Usage: "Positions to move up"},
					&cli.IntFlag{Name: "down", Usage: "Positions to move down"},
				},
				Action: r.WatchlistMove,
			},
			{
				Name:      "export",
				Usage:     "Export a watchlist in its saved order",
				Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
				Flags:     exportFlags(),
				Action:    r.WatchlistExport,
			},
		},
	}
}

// tuiCommand returns the top-level TUI command for interactive watchlist ordering.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch interactive TUI for ordering watchlists",
		Action:  r.TUI,
	}
}
