// package models defines the data model shared by the movie tracker client
package models

import (
	"fmt"
	"strings"
	"time"
)

// Status is a user's relationship to a movie in their library.
//
// The zero value is [StatusUnset]: no library entry exists yet.
type Status string

const (
	StatusUnset   Status = ""
	StatusPlanned Status = "PLANNED"
	StatusWatched Status = "WATCHED"
)

// ParseStatus converts user input such as "planned" or "WATCHED" into a [Status].
//
// Only the two settable statuses are accepted.
func ParseStatus(s string) (Status, error) {
	switch Status(strings.ToUpper(strings.TrimSpace(s))) {
	case StatusPlanned:
		return StatusPlanned, nil
	case StatusWatched:
		return StatusWatched, nil
	default:
		return StatusUnset, fmt.Errorf("unknown status %q (expected planned or watched)", s)
	}
}

// Settable reports whether s can be sent to the service.
func (s Status) Settable() bool {
	return s == StatusPlanned || s == StatusWatched
}

func (s Status) String() string {
	if s == StatusUnset {
		return "UNSET"
	}
	return string(s)
}

// Label returns the human-readable name used in listings.
func (s Status) Label() string {
	switch s {
	case StatusPlanned:
		return "Watch later"
	case StatusWatched:
		return "Watched"
	default:
		return "-"
	}
}

// Movie is a catalog record. Search results carry only the external id;
// imported movies also carry the service's numeric id.
type Movie struct {
	ID             int64  `json:"id,omitempty"`
	ExternalID     string `json:"externalId"`
	Title          string `json:"title"`
	Year           int    `json:"year,omitempty"`
	RuntimeMinutes int    `json:"runtimeMinutes,omitempty"`
	PosterURL      string `json:"posterUrl,omitempty"`
	Overview       string `json:"overview,omitempty"`
}

// SearchQuery is one page of a catalog search. Zero Year means any year.
type SearchQuery struct {
	Query string
	Year  int
	Page  int // 1-based
	Size  int
}

// User is an account known to the service. There is no authentication: the numeric id is trusted as-is.
type User struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	CreatedAt Timestamp `json:"createdAt"`
}

// NewUser is the payload for creating a [User].
type NewUser struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// LibraryEntry is a user's tracked relationship to one movie, unique per (user, movie).
type LibraryEntry struct {
	ID        int64      `json:"id"`
	Movie     *Movie     `json:"movie"`
	Status    Status     `json:"status"`
	Rating    *int       `json:"rating"`
	Liked     bool       `json:"liked"`
	WatchedAt *Timestamp `json:"watchedAt,omitempty"`
	CreatedAt Timestamp  `json:"createdAt"`
	UpdatedAt Timestamp  `json:"updatedAt"`
}

// ExternalID returns the embedded movie's external id, or "" when the movie is missing.
func (e LibraryEntry) ExternalID() string {
	if e.Movie == nil {
		return ""
	}
	return e.Movie.ExternalID
}

// Watchlist is a user-owned, named, ordered collection of movies.
type Watchlist struct {
	ID          int64           `json:"id"`
	UserID      int64           `json:"userId"`
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	CreatedAt   Timestamp       `json:"createdAt"`
	Items       []WatchlistItem `json:"items"`
}

// WatchlistItem is one movie's membership in a [Watchlist].
//
// Position defines a strict total order within the watchlist; values need not be contiguous.
type WatchlistItem struct {
	ID       int64     `json:"id"`
	Position int       `json:"position"`
	AddedAt  Timestamp `json:"addedAt"`
	Movie    Movie     `json:"movie"`
}

// Timestamp wraps [time.Time] to accept the service's zone-less date-times
// ("2025-03-01T18:04:05.123456") as well as RFC 3339.
type Timestamp struct {
	time.Time
}

const localDateTime = "2006-01-02T15:04:05.999999999"

var timestampLayouts = []string{time.RFC3339Nano, localDateTime, "2006-01-02"}

// NewTimestamp wraps t.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t}
}

// ParseTimestamp parses any of the layouts the service is known to emit.
func ParseTimestamp(s string) (Timestamp, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Timestamp{Time: t}, nil
		}
	}
	return Timestamp{}, fmt.Errorf("unrecognized timestamp %q", s)
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*t = Timestamp{}
		return nil
	}

	parsed, err := ParseTimestamp(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + t.Format(localDateTime) + `"`), nil
}

// String formats the timestamp for listings; zero values render as "-".
func (t Timestamp) String() string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02 15:04")
}
