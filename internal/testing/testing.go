// package testing contains shared testing utilities: a fake catalog service, failing I/O doubles, and file assertions
package testing

import (
	"errors"
	"io"
	"net/http"
	"os"
	"testing"

	"github.com/mawshu/movie-tracker/internal/models"
)

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}

// Movies returns a small upstream catalog for engine tests.
func Movies() []models.Movie {
	return []models.Movie{
		{ExternalID: "603", Title: "The Matrix", Year: 1999, Overview: "A hacker learns the truth."},
		{ExternalID: "604", Title: "The Matrix Reloaded", Year: 2003},
		{ExternalID: "605", Title: "The Matrix Revolutions", Year: 2003},
		{ExternalID: "348", Title: "Alien", Year: 1979},
		{ExternalID: "679", Title: "Aliens", Year: 1986},
		{ExternalID: "78", Title: "Blade Runner", Year: 1982},
		{ExternalID: "335984", Title: "Blade Runner 2049", Year: 2017},
		{ExternalID: "62", Title: "2001: A Space Odyssey", Year: 1968},
		{ExternalID: "1091", Title: "The Thing", Year: 1982},
		{ExternalID: "694", Title: "The Shining", Year: 1980},
		{ExternalID: "11", Title: "Star Wars", Year: 1977},
		{ExternalID: "218", Title: "The Terminator", Year: 1984},
		{ExternalID: "280", Title: "Terminator 2: Judgment Day", Year: 1991},
		{ExternalID: "10681", Title: "WALL·E", Year: 2008},
		{ExternalID: "129", Title: "Spirited Away", Year: 2001},
		{ExternalID: "496243", Title: "Parasite", Year: 2019},
		{ExternalID: "550", Title: "Fight Club", Year: 1999},
		{ExternalID: "13", Title: "Forrest Gump", Year: 1994},
	}
}

// IntPtr returns a pointer to v.
func IntPtr(v int) *int {
	return &v
}
