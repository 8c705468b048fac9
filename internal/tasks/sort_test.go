package tasks

import (
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/mawshu/movie-tracker/internal/models"
	"github.com/mawshu/movie-tracker/internal/shared"
	tu "github.com/mawshu/movie-tracker/internal/testing"
)

func titles(items []models.WatchlistItem) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Movie.Title
	}
	return out
}

func itemOf(id int64, position int, title string, year int) models.WatchlistItem {
	return models.WatchlistItem{ID: id, Position: position, Movie: models.Movie{Title: title, Year: year}}
}

func TestSortItems(t *testing.T) {
	items := []models.WatchlistItem{
		itemOf(1, 4, "Eclipse", 2010),
		itemOf(2, 1, "Aliens", 1986),
		itemOf(3, 3, "Éclair", 1986),
		itemOf(4, 2, "alien", 1979),
	}

	tt := []struct {
		name string
		key  SortKey
		dir  Direction
		want []string
	}{
		{name: "position", key: SortPosition, dir: Ascending, want: []string{"Aliens", "alien", "Éclair", "Eclipse"}},
		{name: "title ignores case and accents", key: SortTitle, dir: Ascending, want: []string{"alien", "Aliens", "Éclair", "Eclipse"}},
		{name: "title descending", key: SortTitle, dir: Descending, want: []string{"Eclipse", "Éclair", "Aliens", "alien"}},
		{name: "year keeps ties stable", key: SortYear, dir: Ascending, want: []string{"alien", "Aliens", "Éclair", "Eclipse"}},
		{name: "unknown key falls back to position", key: SortKey("bogus"), dir: Ascending, want: []string{"Aliens", "alien", "Éclair", "Eclipse"}},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			got := titles(SortItems(items, tc.key, tc.dir))
			if !slices.Equal(got, tc.want) {
				t.Errorf("expected %v, got %v", tc.want, got)
			}
		})
	}

	t.Run("input untouched", func(t *testing.T) {
		before := titles(items)
		SortItems(items, SortTitle, Ascending)
		if !slices.Equal(titles(items), before) {
			t.Error("SortItems modified its input")
		}
	})

	t.Run("added at", func(t *testing.T) {
		in := slices.Clone(items)
		for i := range in {
			in[i].AddedAt = models.NewTimestamp(time.Date(2025, 1, 10-i, 0, 0, 0, 0, time.UTC))
		}
		got := titles(SortItems(in, SortAddedAt, Ascending))
		want := []string{"alien", "Éclair", "Aliens", "Eclipse"}
		if !slices.Equal(got, want) {
			t.Errorf("expected %v, got %v", want, got)
		}
	})
}

func TestSortEntries(t *testing.T) {
	day := func(d int) models.Timestamp {
		return models.NewTimestamp(time.Date(2025, 2, d, 0, 0, 0, 0, time.UTC))
	}
	entries := []models.LibraryEntry{
		{ID: 1, Movie: &models.Movie{Title: "WALL·E", Year: 2008}, Status: models.StatusWatched, Rating: tu.IntPtr(9), CreatedAt: day(3)},
		{ID: 2, Movie: &models.Movie{Title: "Alien", Year: 1979}, Status: models.StatusPlanned, CreatedAt: day(1)},
		{ID: 3, Movie: nil, Status: models.StatusPlanned, CreatedAt: day(2)},
		{ID: 4, Movie: &models.Movie{Title: "Parasite", Year: 2019}, Status: models.StatusWatched, Rating: tu.IntPtr(10), CreatedAt: day(4)},
	}
	ids := func(es []models.LibraryEntry) []int64 {
		out := make([]int64, len(es))
		for i, e := range es {
			out[i] = e.ID
		}
		return out
	}

	tt := []struct {
		name string
		key  SortKey
		dir  Direction
		want []int64
	}{
		{name: "default is added at", key: "", dir: Ascending, want: []int64{2, 3, 1, 4}},
		{name: "title with missing movie first", key: SortTitle, dir: Ascending, want: []int64{3, 2, 4, 1}},
		{name: "year descending", key: SortYear, dir: Descending, want: []int64{4, 1, 2, 3}},
		{name: "rating treats nil as zero", key: SortRating, dir: Descending, want: []int64{4, 1, 2, 3}},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			if got := ids(SortEntries(entries, tc.key, tc.dir)); !slices.Equal(got, tc.want) {
				t.Errorf("expected %v, got %v", tc.want, got)
			}
		})
	}

	t.Run("LibraryView filters by status", func(t *testing.T) {
		got := ids(LibraryView(entries, models.StatusWatched, SortRating, Ascending))
		if !slices.Equal(got, []int64{1, 4}) {
			t.Errorf("expected [1 4], got %v", got)
		}
		if all := LibraryView(entries, models.StatusUnset, SortAddedAt, Ascending); len(all) != len(entries) {
			t.Errorf("expected all %d entries, got %d", len(entries), len(all))
		}
	})
}

func TestParseSortKey(t *testing.T) {
	if k, err := ParseSortKey(" Title ", ItemSortKeys); err != nil || k != SortTitle {
		t.Errorf("expected title, got %q, %v", k, err)
	}
	if k, err := ParseSortKey("addedat", ItemSortKeys); err != nil || k != SortAddedAt {
		t.Errorf("expected addedAt, got %q, %v", k, err)
	}
	if _, err := ParseSortKey("rating", ItemSortKeys); !errors.Is(err, shared.ErrInvalidArgument) {
		t.Errorf("rating is not an item key, got %v", err)
	}
	if _, err := ParseSortKey("rating", EntrySortKeys); err != nil {
		t.Errorf("rating is an entry key, got %v", err)
	}
}

func TestParseDirection(t *testing.T) {
	tt := []struct {
		in      string
		def     Direction
		want    Direction
		wantErr bool
	}{
		{in: "", def: Descending, want: Descending},
		{in: "ASC", def: Descending, want: Ascending},
		{in: "descending", def: Ascending, want: Descending},
		{in: "up", def: Ascending, want: Ascending, wantErr: true},
	}

	for _, tc := range tt {
		got, err := ParseDirection(tc.in, tc.def)
		if (err != nil) != tc.wantErr {
			t.Errorf("ParseDirection(%q): unexpected error %v", tc.in, err)
		}
		if got != tc.want {
			t.Errorf("ParseDirection(%q): expected %s, got %s", tc.in, tc.want, got)
		}
	}
}
