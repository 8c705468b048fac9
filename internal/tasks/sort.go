package tasks

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/mawshu/movie-tracker/internal/models"
	"github.com/mawshu/movie-tracker/internal/shared"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortKey names a display-only ordering.
type SortKey string

const (
	SortPosition SortKey = "position"
	SortTitle    SortKey = "title"
	SortYear     SortKey = "year"
	SortAddedAt  SortKey = "addedAt"
	SortRating   SortKey = "rating"
)

// Keys valid for watchlist items and library entries respectively.
var (
	ItemSortKeys  = []SortKey{SortPosition, SortTitle, SortYear, SortAddedAt}
	EntrySortKeys = []SortKey{SortAddedAt, SortTitle, SortYear, SortRating}
)

// ParseSortKey matches s case-insensitively against allowed.
func ParseSortKey(s string, allowed []SortKey) (SortKey, error) {
	for _, k := range allowed {
		if strings.EqualFold(string(k), strings.TrimSpace(s)) {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: sort %q (expected one of %v)", shared.ErrInvalidArgument, s, allowed)
}

// Direction of a display sort.
type Direction int

const (
	Ascending Direction = iota
	Descending
)

func (d Direction) String() string {
	if d == Descending {
		return "desc"
	}
	return "asc"
}

// ParseDirection accepts "asc"/"desc" (and the long forms). Empty means def.
func ParseDirection(s string, def Direction) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return def, nil
	case "asc", "ascending":
		return Ascending, nil
	case "desc", "descending":
		return Descending, nil
	default:
		return def, fmt.Errorf("%w: direction %q (expected asc or desc)", shared.ErrInvalidArgument, s)
	}
}

// newCollator returns a locale-aware, case-insensitive title comparator.
// Collators keep internal buffers, so each sort gets its own.
func newCollator() *collate.Collator {
	return collate.New(language.Und, collate.IgnoreCase, collate.Loose)
}

func directed(dir Direction, c int) int {
	if dir == Descending {
		return -c
	}
	return c
}

// SortItems returns a copy of items ordered by key. Ties keep their input order.
// [SortPosition] orders by the Position field; unknown keys do the same.
func SortItems(items []models.WatchlistItem, key SortKey, dir Direction) []models.WatchlistItem {
	out := slices.Clone(items)
	col := newCollator()

	slices.SortStableFunc(out, func(a, b models.WatchlistItem) int {
		var c int
		switch key {
		case SortTitle:
			c = col.CompareString(a.Movie.Title, b.Movie.Title)
		case SortYear:
			c = cmp.Compare(a.Movie.Year, b.Movie.Year)
		case SortAddedAt:
			c = a.AddedAt.Compare(b.AddedAt.Time)
		default:
			c = cmp.Compare(a.Position, b.Position)
		}
		return directed(dir, c)
	})
	return out
}

// SortEntries returns a copy of entries ordered by key. Missing ratings and years sort as zero.
// Unknown keys sort by [SortAddedAt].
func SortEntries(entries []models.LibraryEntry, key SortKey, dir Direction) []models.LibraryEntry {
	out := slices.Clone(entries)
	col := newCollator()

	slices.SortStableFunc(out, func(a, b models.LibraryEntry) int {
		var c int
		switch key {
		case SortTitle:
			c = col.CompareString(movieOf(a).Title, movieOf(b).Title)
		case SortYear:
			c = cmp.Compare(movieOf(a).Year, movieOf(b).Year)
		case SortRating:
			c = cmp.Compare(ratingOf(a), ratingOf(b))
		default:
			c = a.CreatedAt.Compare(b.CreatedAt.Time)
		}
		return directed(dir, c)
	})
	return out
}

func movieOf(e models.LibraryEntry) models.Movie {
	if e.Movie == nil {
		return models.Movie{}
	}
	return *e.Movie
}

func ratingOf(e models.LibraryEntry) int {
	if e.Rating == nil {
		return 0
	}
	return *e.Rating
}

// LibraryView filters entries to status (all when Unset) and sorts them.
func LibraryView(entries []models.LibraryEntry, status models.Status, key SortKey, dir Direction) []models.LibraryEntry {
	filtered := entries
	if status != models.StatusUnset {
		filtered = make([]models.LibraryEntry, 0, len(entries))
		for _, e := range entries {
			if e.Status == status {
				filtered = append(filtered, e)
			}
		}
	}
	return SortEntries(filtered, key, dir)
}
