// package testing contains shared testing utilities
package testing

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"io"
	"net/http"
	"os"
	"sync"
	"testing"

	"github.com/desertthunder/festify/internal/models"
)

// FakeCatalog is a test double for [services.Catalog]
type FakeCatalog struct {
	mu      sync.Mutex
	Results map[string][]models.ArtistCandidate
	Err     error
	Calls   []string
	// Hook runs before the lookup; it may block to simulate a slow call.
	Hook func(ctx context.Context, query string) error
}

func (f *FakeCatalog) SearchArtists(ctx context.Context, query string) ([]models.ArtistCandidate, error) {
	f.mu.Lock()
	f.Calls = append(f.Calls, query)
	f.mu.Unlock()

	if f.Hook != nil {
		if err := f.Hook(ctx, query); err != nil {
			return nil, err
		}
	}
	if f.Err != nil {
		return nil, f.Err
	}
	return f.Results[query], nil
}

// CallCount returns how many searches were made.
func (f *FakeCatalog) CallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Calls)
}

// FakeRecognizer is a test double for [services.Recognizer]
type FakeRecognizer struct {
	mu    sync.Mutex
	Names []string
	Err   error
	calls int
	Hook  func(ctx context.Context, poster *models.Poster) error
}

func (f *FakeRecognizer) ScanPoster(ctx context.Context, poster *models.Poster) ([]string, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()

	if f.Hook != nil {
		if err := f.Hook(ctx, poster); err != nil {
			return nil, err
		}
	}
	if f.Err != nil {
		return nil, f.Err
	}
	return f.Names, nil
}

func (f *FakeRecognizer) CallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// FakePlaylistCreator is a test double for [services.PlaylistCreator] that records every request.
type FakePlaylistCreator struct {
	mu       sync.Mutex
	Result   *models.PlaylistResult
	Err      error
	Requests []models.PlaylistRequest
	Hook     func(ctx context.Context, req models.PlaylistRequest) error
}

func (f *FakePlaylistCreator) CreatePlaylist(ctx context.Context, req models.PlaylistRequest) (*models.PlaylistResult, error) {
	f.mu.Lock()
	f.Requests = append(f.Requests, req)
	f.mu.Unlock()

	if f.Hook != nil {
		if err := f.Hook(ctx, req); err != nil {
			return nil, err
		}
	}
	if f.Err != nil {
		return nil, f.Err
	}
	if f.Result != nil {
		res := *f.Result
		return &res, nil
	}
	return &models.PlaylistResult{URL: "https://open.spotify.com/playlist/fake", Name: req.Name}, nil
}

func (f *FakePlaylistCreator) CallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Requests)
}

// LastRequest returns the most recent request, if any.
func (f *FakePlaylistCreator) LastRequest() (models.PlaylistRequest, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.Requests) == 0 {
		return models.PlaylistRequest{}, false
	}
	return f.Requests[len(f.Requests)-1], true
}

// PNG returns a minimal valid 1x1 PNG image.
func PNG(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("Failed to encode png: %v", err)
	}
	return buf.Bytes()
}

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

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
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
