// package services defines interface Service for the Yandex Music API and its HTTP implementation
package services

import (
	"context"

	"github.com/desertthunder/yamusic/internal/models"
)

// Service defines the catalog read, search and playlist mutation operations of the music service.
//
// A userID of zero means the authenticated user.
type Service interface {
	// Authenticate exchanges a login and password for an access token.
	Authenticate(ctx context.Context, login, password string) error

	// IsAuthenticated reports whether an access token and user id are held.
	IsAuthenticated() bool

	// UserID returns the authenticated user's id, zero when not authenticated.
	UserID() int64

	Genres(ctx context.Context) ([]models.Genre, error)
	Album(ctx context.Context, albumID int64) (*models.Album, error)
	SimilarTracks(ctx context.Context, trackID int64) (*models.Similar, error)

	// Playlists lists a user's playlists; the returned playlists carry no track list.
	Playlists(ctx context.Context, userID int64) ([]models.Playlist[models.TrackReference], error)

	// Playlist fetches a single playlist with its track list, embedding full tracks when rich is set.
	Playlist(ctx context.Context, kind, userID int64, rich bool) (*models.Playlist[models.TrackReference], error)

	// PlaylistDetail fetches a single playlist with every slot decoded as a full track.
	PlaylistDetail(ctx context.Context, kind, userID int64) (*models.Playlist[models.Track], error)

	// PlaylistByTitle fetches the first playlist whose title matches exactly.
	PlaylistByTitle(ctx context.Context, title string, userID int64) (*models.Playlist[models.TrackReference], error)

	CreatePlaylist(ctx context.Context, title string, visibility models.Visibility) (*models.Playlist[models.TrackReference], error)
	RenamePlaylist(ctx context.Context, kind int64, title string) error
	DeletePlaylist(ctx context.Context, kind int64) error

	// InsertTracks inserts track keys at a position against a freshly fetched revision.
	InsertTracks(ctx context.Context, kind int64, keys []models.TrackKey, at int, ignoreDuplicates bool) (*models.Playlist[models.TrackReference], error)

	// AddTracks is InsertTracks for full tracks, keyed by their first album.
	AddTracks(ctx context.Context, kind int64, tracks []models.Track, at int, ignoreDuplicates bool) (*models.Playlist[models.TrackReference], error)

	// DeleteTracks removes the inclusive range from..to; pass diff.ToEnd to delete through the last track.
	DeleteTracks(ctx context.Context, kind int64, from, to int) (*models.Playlist[models.TrackReference], error)

	Search(ctx context.Context, query string, searchType models.SearchType, page int) (*models.SearchResult, error)
	SearchArtists(ctx context.Context, name string, page int) ([]models.Artist, error)
	SearchAlbums(ctx context.Context, title string, page int) ([]models.Album, error)
	SearchTracks(ctx context.Context, title string, page int) ([]models.Track, error)

	// Name returns the name of the service
	Name() string
}
