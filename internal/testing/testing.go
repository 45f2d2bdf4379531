// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"testing"

	"github.com/desertthunder/yamusic/internal/models"
	"github.com/desertthunder/yamusic/internal/shared"
)

// MockService is a test double for [services.Service].
//
// Reads return the configured fixtures; Err, when set, is returned by every call. Calls records the operations in order.
type MockService struct {
	mu sync.Mutex

	UID          int64
	Token        string
	GenreList    []models.Genre
	PlaylistList []models.Playlist[models.TrackReference]
	Details      map[int64]models.Playlist[models.Track]
	Found        models.SearchResult
	Err          error
	DetailErr    map[int64]error
	Calls        []string
}

func (m *MockService) record(format string, args ...any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, fmt.Sprintf(format, args...))
}

func (m *MockService) Authenticate(ctx context.Context, login, password string) error {
	m.record("Authenticate %s", login)
	if m.Err != nil {
		return m.Err
	}
	m.UID = 1
	m.Token = "mock-token"
	return nil
}

func (m *MockService) IsAuthenticated() bool { return m.UID != 0 }
func (m *MockService) UserID() int64         { return m.UID }

func (m *MockService) Credentials() shared.CredentialsConfig {
	return shared.CredentialsConfig{AccessToken: m.Token, UserID: m.UID}
}

func (m *MockService) Genres(ctx context.Context) ([]models.Genre, error) {
	m.record("Genres")
	return m.GenreList, m.Err
}

func (m *MockService) Album(ctx context.Context, albumID int64) (*models.Album, error) {
	m.record("Album %d", albumID)
	if m.Err != nil {
		return nil, m.Err
	}
	return &models.Album{ID: albumID}, nil
}

func (m *MockService) SimilarTracks(ctx context.Context, trackID int64) (*models.Similar, error) {
	m.record("SimilarTracks %d", trackID)
	if m.Err != nil {
		return nil, m.Err
	}
	return &models.Similar{Track: models.Track{ID: trackID}}, nil
}

func (m *MockService) Playlists(ctx context.Context, userID int64) ([]models.Playlist[models.TrackReference], error) {
	m.record("Playlists %d", userID)
	return m.PlaylistList, m.Err
}

func (m *MockService) Playlist(ctx context.Context, kind, userID int64, rich bool) (*models.Playlist[models.TrackReference], error) {
	m.record("Playlist %d", kind)
	if m.Err != nil {
		return nil, m.Err
	}
	for _, p := range m.PlaylistList {
		if p.Kind == kind {
			p.Tracks = []models.TrackReference{}
			return &p, nil
		}
	}
	return nil, fmt.Errorf("playlist %d: %w", kind, shared.ErrNotFound)
}

func (m *MockService) PlaylistDetail(ctx context.Context, kind, userID int64) (*models.Playlist[models.Track], error) {
	m.record("PlaylistDetail %d", kind)
	if m.Err != nil {
		return nil, m.Err
	}
	if err := m.DetailErr[kind]; err != nil {
		return nil, err
	}
	p, ok := m.Details[kind]
	if !ok {
		return nil, fmt.Errorf("playlist %d: %w", kind, shared.ErrNotFound)
	}
	return &p, nil
}

func (m *MockService) PlaylistByTitle(ctx context.Context, title string, userID int64) (*models.Playlist[models.TrackReference], error) {
	m.record("PlaylistByTitle %s", title)
	if m.Err != nil {
		return nil, m.Err
	}
	for _, p := range m.PlaylistList {
		if p.Title == title {
			p.Tracks = []models.TrackReference{}
			return &p, nil
		}
	}
	return nil, fmt.Errorf("playlist %q: %w", title, shared.ErrNotFound)
}

func (m *MockService) CreatePlaylist(ctx context.Context, title string, visibility models.Visibility) (*models.Playlist[models.TrackReference], error) {
	m.record("CreatePlaylist %s %s", title, visibility)
	if m.Err != nil {
		return nil, m.Err
	}
	return &models.Playlist[models.TrackReference]{Kind: 1000, Title: title, Owner: models.User{UID: m.UID}, Visibility: &visibility}, nil
}

func (m *MockService) RenamePlaylist(ctx context.Context, kind int64, title string) error {
	m.record("RenamePlaylist %d %s", kind, title)
	return m.Err
}

func (m *MockService) DeletePlaylist(ctx context.Context, kind int64) error {
	m.record("DeletePlaylist %d", kind)
	return m.Err
}

func (m *MockService) InsertTracks(ctx context.Context, kind int64, keys []models.TrackKey, at int, ignoreDuplicates bool) (*models.Playlist[models.TrackReference], error) {
	m.record("InsertTracks %d %v at=%d dedupe=%t", kind, keys, at, ignoreDuplicates)
	if m.Err != nil {
		return nil, m.Err
	}
	return &models.Playlist[models.TrackReference]{Kind: kind, TrackCount: int64(len(keys))}, nil
}

func (m *MockService) AddTracks(ctx context.Context, kind int64, tracks []models.Track, at int, ignoreDuplicates bool) (*models.Playlist[models.TrackReference], error) {
	m.record("AddTracks %d %d at=%d dedupe=%t", kind, len(tracks), at, ignoreDuplicates)
	if m.Err != nil {
		return nil, m.Err
	}
	return &models.Playlist[models.TrackReference]{Kind: kind, TrackCount: int64(len(tracks))}, nil
}

func (m *MockService) DeleteTracks(ctx context.Context, kind int64, from, to int) (*models.Playlist[models.TrackReference], error) {
	m.record("DeleteTracks %d %d..%d", kind, from, to)
	if m.Err != nil {
		return nil, m.Err
	}
	return &models.Playlist[models.TrackReference]{Kind: kind}, nil
}

func (m *MockService) Search(ctx context.Context, query string, searchType models.SearchType, page int) (*models.SearchResult, error) {
	m.record("Search %s %s %d", query, searchType, page)
	if m.Err != nil {
		return nil, m.Err
	}
	found := m.Found
	return &found, nil
}

func (m *MockService) SearchArtists(ctx context.Context, name string, page int) ([]models.Artist, error) {
	m.record("SearchArtists %s", name)
	return m.Found.Artists, m.Err
}

func (m *MockService) SearchAlbums(ctx context.Context, title string, page int) ([]models.Album, error) {
	m.record("SearchAlbums %s", title)
	return m.Found.Albums, m.Err
}

func (m *MockService) SearchTracks(ctx context.Context, title string, page int) ([]models.Track, error) {
	m.record("SearchTracks %s", title)
	return m.Found.Tracks, m.Err
}

func (m *MockService) Name() string { return "mock" }

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
