package tasks

import (
	"strings"

	"github.com/mawshu/movie-tracker/internal/models"
	"github.com/mozillazg/go-unidecode"
)

// foldTitle lowercases s and transliterates it to ASCII, so "Amélie" matches "amelie".
func foldTitle(s string) string {
	return strings.ToLower(strings.TrimSpace(unidecode.Unidecode(s)))
}

// MatchTitle reports whether needle occurs in title, ignoring case and diacritics.
// An empty needle matches everything.
func MatchTitle(title, needle string) bool {
	needle = foldTitle(needle)
	return needle == "" || strings.Contains(foldTitle(title), needle)
}

// FilterEntries keeps entries whose movie title matches needle.
func FilterEntries(entries []models.LibraryEntry, needle string) []models.LibraryEntry {
	if strings.TrimSpace(needle) == "" {
		return entries
	}
	out := make([]models.LibraryEntry, 0, len(entries))
	for _, e := range entries {
		if MatchTitle(movieOf(e).Title, needle) {
			out = append(out, e)
		}
	}
	return out
}

// FilterItems keeps watchlist items whose movie title matches needle.
func FilterItems(items []models.WatchlistItem, needle string) []models.WatchlistItem {
	if strings.TrimSpace(needle) == "" {
		return items
	}
	out := make([]models.WatchlistItem, 0, len(items))
	for _, it := range items {
		if MatchTitle(it.Movie.Title, needle) {
			out = append(out, it)
		}
	}
	return out
}
