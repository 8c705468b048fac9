// package formatter exports watchlists and library listings to CSV, Markdown, plain text, and JSON
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mawshu/movie-tracker/internal/models"
	"github.com/mawshu/movie-tracker/internal/shared"
	"github.com/spf13/afero"
)

// Format is an export file format.
type Format string

const (
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "md"
	FormatText     Format = "txt"
	FormatJSON     Format = "json"
)

// Formats lists the accepted formats in help-text order.
var Formats = []Format{FormatCSV, FormatMarkdown, FormatText, FormatJSON}

// ParseFormat accepts a format name or its common long form ("markdown", "text").
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "csv":
		return FormatCSV, nil
	case "md", "markdown":
		return FormatMarkdown, nil
	case "txt", "text", "":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: format %q (expected one of %v)", shared.ErrInvalidArgument, s, Formats)
	}
}

// Extension returns the file extension for f, including the dot.
func (f Format) Extension() string {
	return "." + string(f)
}

func yearString(year int) string {
	if year == 0 {
		return ""
	}
	return strconv.Itoa(year)
}

func titleWithYear(m models.Movie) string {
	if m.Year == 0 {
		return m.Title
	}
	return fmt.Sprintf("%s (%d)", m.Title, m.Year)
}

func writeCSV(headers []string, records [][]string) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}
	for _, record := range records {
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// WatchlistToCSV converts a watchlist to CSV with columns: Position, ExternalID, Title, Year, AddedAt.
// Rows follow the order of w.Items.
func WatchlistToCSV(w *models.Watchlist) ([]byte, error) {
	records := make([][]string, 0, len(w.Items))
	for _, item := range w.Items {
		records = append(records, []string{
			strconv.Itoa(item.Position),
			item.Movie.ExternalID,
			item.Movie.Title,
			yearString(item.Movie.Year),
			item.AddedAt.String(),
		})
	}
	return writeCSV([]string{"Position", "ExternalID", "Title", "Year", "AddedAt"}, records)
}

// WatchlistToMarkdown converts a watchlist to a numbered Markdown list.
func WatchlistToMarkdown(w *models.Watchlist) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s\n\n", w.Title))
	if w.Description != "" {
		buf.WriteString(fmt.Sprintf("**Description**: %s\n\n", w.Description))
	}
	buf.WriteString(fmt.Sprintf("**Movies**: %d\n\n", len(w.Items)))

	buf.WriteString("## Movies\n\n")
	for i, item := range w.Items {
		buf.WriteString(fmt.Sprintf("%d. %s\n", i+1, titleWithYear(item.Movie)))
	}

	return buf.Bytes(), nil
}

// WatchlistToText converts a watchlist to plain text.
func WatchlistToText(w *models.Watchlist) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Watchlist: %s\n", w.Title))
	if w.Description != "" {
		buf.WriteString(fmt.Sprintf("Description: %s\n", w.Description))
	}
	buf.WriteString(fmt.Sprintf("Movies: %d\n\n", len(w.Items)))

	for i, item := range w.Items {
		buf.WriteString(fmt.Sprintf("%d. %s\n", i+1, titleWithYear(item.Movie)))
	}

	return buf.Bytes(), nil
}

// ToJSON renders v as indented JSON with a trailing newline.
func ToJSON(v any) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return append(data, '\n'), nil
}

// RenderWatchlist renders w in format f.
func RenderWatchlist(w *models.Watchlist, f Format) ([]byte, error) {
	switch f {
	case FormatCSV:
		return WatchlistToCSV(w)
	case FormatMarkdown:
		return WatchlistToMarkdown(w)
	case FormatJSON:
		return ToJSON(w)
	default:
		return WatchlistToText(w)
	}
}

func ratingString(r *int) string {
	if r == nil {
		return ""
	}
	return strconv.Itoa(*r)
}

func entryMovie(e models.LibraryEntry) models.Movie {
	if e.Movie == nil {
		return models.Movie{}
	}
	return *e.Movie
}

// LibraryToCSV converts library entries to CSV with columns:
// ExternalID, Title, Year, Status, Rating, Liked, WatchedAt.
func LibraryToCSV(entries []models.LibraryEntry) ([]byte, error) {
	records := make([][]string, 0, len(entries))
	for _, e := range entries {
		m := entryMovie(e)
		watchedAt := ""
		if e.WatchedAt != nil {
			watchedAt = e.WatchedAt.String()
		}
		records = append(records, []string{
			m.ExternalID,
			m.Title,
			yearString(m.Year),
			string(e.Status),
			ratingString(e.Rating),
			strconv.FormatBool(e.Liked),
			watchedAt,
		})
	}
	return writeCSV([]string{"ExternalID", "Title", "Year", "Status", "Rating", "Liked", "WatchedAt"}, records)
}

// LibraryToMarkdown groups entries by status under one heading each.
func LibraryToMarkdown(entries []models.LibraryEntry) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("# Library\n\n")

	for _, status := range []models.Status{models.StatusPlanned, models.StatusWatched} {
		buf.WriteString(fmt.Sprintf("## %s\n\n", status.Label()))
		n := 0
		for _, e := range entries {
			if e.Status != status {
				continue
			}
			n++
			line := fmt.Sprintf("- %s", titleWithYear(entryMovie(e)))
			if e.Rating != nil {
				line += fmt.Sprintf(" ★ %d/10", *e.Rating)
			}
			if e.Liked {
				line += " ♥"
			}
			buf.WriteString(line + "\n")
		}
		if n == 0 {
			buf.WriteString("_None_\n")
		}
		buf.WriteString("\n")
	}

	return buf.Bytes(), nil
}

// LibraryToText converts library entries to plain text, one line per entry.
func LibraryToText(entries []models.LibraryEntry) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Library: %d movies\n\n", len(entries)))
	for i, e := range entries {
		buf.WriteString(fmt.Sprintf("%d. [%s] %s\n", i+1, e.Status.Label(), titleWithYear(entryMovie(e))))
	}

	return buf.Bytes(), nil
}

// RenderLibrary renders entries in format f.
func RenderLibrary(entries []models.LibraryEntry, f Format) ([]byte, error) {
	switch f {
	case FormatCSV:
		return LibraryToCSV(entries)
	case FormatMarkdown:
		return LibraryToMarkdown(entries)
	case FormatJSON:
		return ToJSON(entries)
	default:
		return LibraryToText(entries)
	}
}

// Exporter writes rendered exports to a filesystem.
type Exporter struct {
	fs afero.Fs
}

// NewExporter creates an [Exporter] writing to fs. A nil fs writes to the OS filesystem.
func NewExporter(fs afero.Fs) *Exporter {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &Exporter{fs: fs}
}

// WriteWatchlist exports w to path, creating parent directories.
//
// Defaults to watchlist_{id}{ext} when path is empty. Returns the path written.
func (e *Exporter) WriteWatchlist(w *models.Watchlist, f Format, path string) (string, error) {
	if path == "" {
		path = fmt.Sprintf("watchlist_%d%s", w.ID, f.Extension())
	}

	data, err := RenderWatchlist(w, f)
	if err != nil {
		return "", fmt.Errorf("failed to render watchlist: %w", err)
	}
	return path, e.write(path, data)
}

// WriteLibrary exports entries to path, creating parent directories.
//
// Defaults to library{ext} when path is empty. Returns the path written.
func (e *Exporter) WriteLibrary(entries []models.LibraryEntry, f Format, path string) (string, error) {
	if path == "" {
		path = "library" + f.Extension()
	}

	data, err := RenderLibrary(entries, f)
	if err != nil {
		return "", fmt.Errorf("failed to render library: %w", err)
	}
	return path, e.write(path, data)
}

func (e *Exporter) write(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := e.fs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := afero.WriteFile(e.fs, path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
