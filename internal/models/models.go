package models

import "github.com/desertthunder/yamusic/internal/schema"

// Envelopes used by the API: most endpoints nest their payload under "result".
var (
	InResult     = schema.Envelope{One: "result"}
	InResultList = schema.Envelope{Many: "result"}
)

// TrackKey is the (track id, album id) pair that identifies a track inside a playlist.
type TrackKey struct {
	ID      int64 `json:"id"`
	AlbumID int64 `json:"albumId"`
}

// PlaylistID identifies a playlist by its kind and the uid of its owner.
type PlaylistID struct {
	Kind  int64
	Owner int64
}

// PlaylistItem is the set of track representations a [Playlist] can hold.
type PlaylistItem interface {
	TrackReference | Track

	Key() (TrackKey, error)
}
