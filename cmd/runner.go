package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/mawshu/movie-tracker/internal/formatter"
	"github.com/mawshu/movie-tracker/internal/repositories"
	"github.com/mawshu/movie-tracker/internal/services"
	"github.com/mawshu/movie-tracker/internal/shared"
	"github.com/mawshu/movie-tracker/internal/tasks"
	"github.com/spf13/afero"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	catalog    services.Catalog
	db         *sql.DB
	sessions   *repositories.SessionRepository
	history    *repositories.SearchHistoryRepository
	exporter   *formatter.Exporter
	fs         afero.Fs
	logger     *log.Logger
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Catalog    services.Catalog
	DB         *sql.DB
	FS         afero.Fs
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration.
//
// Without a Catalog, one is built from the service config. Without a DB, commands that need
// the local session store fail with [shared.ErrServiceUnavailable].
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.FS == nil {
		opts.FS = afero.NewOsFs()
	}
	if opts.Catalog == nil {
		svc := services.NewCatalogServiceFromConfig(opts.Config.Service)
		svc.SetLogger(opts.Logger)
		opts.Catalog = svc
	}

	r := &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		catalog:    opts.Catalog,
		db:         opts.DB,
		exporter:   formatter.NewExporter(opts.FS),
		fs:         opts.FS,
		logger:     opts.Logger,
		output:     opts.Output,
	}
	if opts.DB != nil {
		r.sessions = repositories.NewSessionRepository(opts.DB)
		r.history = repositories.NewSearchHistoryRepository(opts.DB)
	}
	return r
}

// SetLogger replaces the runner's logger, including the one used by the HTTP client.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
	if svc, ok := r.catalog.(*services.CatalogService); ok {
		svc.SetLogger(l)
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, userCommand, searchCommand, movieCommand, libraryCommand, watchlistCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

func (r *Runner) requireDB() error {
	if r.sessions == nil {
		return fmt.Errorf("%w: database not initialized (run 'movietracker setup database')", shared.ErrServiceUnavailable)
	}
	return nil
}

// currentUser resolves the user id to act as: the MOVIETRACKER_USER_ID override first,
// then the stored session.
func (r *Runner) currentUser(ctx context.Context) (int64, error) {
	if r.config.UserID > 0 {
		return r.config.UserID, nil
	}
	if err := r.requireDB(); err != nil {
		return 0, err
	}

	session, err := r.sessions.Current(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w (run 'movietracker user use <id>')", err)
	}
	return session.UserID, nil
}

func (r *Runner) searcher(userID int64) *tasks.Searcher {
	return tasks.NewSearcher(r.catalog, userID, r.config.Search.PageSize)
}

// parseID parses a positive numeric id given on the command line.
func parseID(kind, s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: %s", shared.ErrMissingArgument, kind)
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive number, got %q", shared.ErrInvalidArgument, kind, s)
	}
	return id, nil
}

// parseIDs parses repeated and comma-separated ids, e.g. --to 3 --to 5,7.
func parseIDs(kind string, values []string) ([]int64, error) {
	var ids []int64
	for _, v := range values {
		for part := range strings.SplitSeq(v, ",") {
			if strings.TrimSpace(part) == "" {
				continue
			}
			id, err := parseID(kind, part)
			if err != nil {
				return nil, err
			}
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func requireArg(name, value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", fmt.Errorf("%w: %s", shared.ErrMissingArgument, name)
	}
	return value, nil
}

// progressPrinter drains progress updates onto the output until the returned stop func is called.
func (r *Runner) progressPrinter() (chan<- tasks.ProgressUpdate, func()) {
	progressCh := make(chan tasks.ProgressUpdate, 16)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progressCh {
			r.writePlain("   %s\n", update.Message)
		}
	}()
	return progressCh, func() {
		close(progressCh)
		<-done
	}
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
