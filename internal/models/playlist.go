package models

import (
	"errors"
	"fmt"
	"iter"
	"time"

	"github.com/desertthunder/yamusic/internal/schema"
	"github.com/desertthunder/yamusic/internal/shared"
)

// TrackReference is a playlist slot. It always carries the (id, album id) pair and embeds the full [Track]
// only when the playlist was fetched with rich tracks.
type TrackReference struct {
	ID        int64
	AlbumID   int64
	Timestamp time.Time
	Track     *Track
}

// IsRich reports whether the full track detail is embedded.
func (r TrackReference) IsRich() bool { return r.Track != nil }

// Unwrap returns the embedded track, failing with [shared.ErrTrackNotLoaded] for lazy references.
func (r TrackReference) Unwrap() (Track, error) {
	if r.Track == nil {
		return Track{}, fmt.Errorf("%w: track %d:%d", shared.ErrTrackNotLoaded, r.ID, r.AlbumID)
	}
	return *r.Track, nil
}

func (r TrackReference) Key() (TrackKey, error) {
	return TrackKey{ID: r.ID, AlbumID: r.AlbumID}, nil
}

// Equal compares identity only; embedded track detail is ignored.
func (r TrackReference) Equal(other TrackReference) bool {
	return r.ID == other.ID && r.AlbumID == other.AlbumID
}

// Playlist is a user playlist holding tracks of type T.
//
// Tracks is nil when the playlist came from a list view and non-nil (possibly empty) from a detail fetch.
type Playlist[T PlaylistItem] struct {
	Kind       int64
	Title      string
	Owner      User
	TrackCount int64
	Cover      map[string]any
	Tags       []any
	DurationMs int64
	Created    *time.Time
	Modified   *time.Time
	Revision   *int64
	Visibility *Visibility
	LikesCount *int64
	Collective *bool
	Tracks     []T
}

func (p Playlist[T]) ID() PlaylistID {
	return PlaylistID{Kind: p.Kind, Owner: p.Owner.UID}
}

func (p Playlist[T]) Equal(other Playlist[T]) bool { return p.ID() == other.ID() }

// HasTracks reports whether the track list was part of the response.
func (p Playlist[T]) HasTracks() bool { return p.Tracks != nil }

// All yields the tracks in playlist order; an absent track list yields nothing.
func (p Playlist[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, t := range p.Tracks {
			if !yield(t) {
				return
			}
		}
	}
}

// Keys returns the identity of every track in order.
func (p Playlist[T]) Keys() ([]TrackKey, error) {
	keys := make([]TrackKey, 0, len(p.Tracks))
	for t := range p.All() {
		k, err := t.Key()
		if err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, nil
}

// Rich converts a detail view whose references all embed their track into a playlist of tracks.
func Rich(p Playlist[TrackReference]) (Playlist[Track], error) {
	out := Playlist[Track]{
		Kind:       p.Kind,
		Title:      p.Title,
		Owner:      p.Owner,
		TrackCount: p.TrackCount,
		Cover:      p.Cover,
		Tags:       p.Tags,
		DurationMs: p.DurationMs,
		Created:    p.Created,
		Modified:   p.Modified,
		Revision:   p.Revision,
		Visibility: p.Visibility,
		LikesCount: p.LikesCount,
		Collective: p.Collective,
	}
	if p.Tracks == nil {
		return out, nil
	}

	out.Tracks = make([]Track, 0, len(p.Tracks))
	for i, ref := range p.Tracks {
		t, err := ref.Unwrap()
		if err != nil {
			return Playlist[Track]{}, fmt.Errorf("playlist %d slot %d: %w", p.Kind, i, err)
		}
		out.Tracks = append(out.Tracks, t)
	}
	return out, nil
}

var trackRefSchema = &schema.Schema{
	Entity: "TrackReference",
	Fields: []schema.Field{
		{Name: "id", Kind: schema.Int, Required: true},
		{Name: "albumId", Kind: schema.Int, Nullable: true},
		{Name: "timestamp", Kind: schema.Time, Required: true},
		{Name: "track", Kind: schema.Object, Schema: trackSchema, Nullable: true},
	},
	Check: func(r schema.Record) error {
		if !r.Has("albumId") && !r.Has("track") {
			return errors.New("albumId is required when the track is not embedded")
		}
		return nil
	},
}

func buildTrackRef(r schema.Record) TrackReference {
	ref := TrackReference{
		ID:        r.Int("id"),
		Timestamp: r.Time("timestamp"),
	}
	if r.Has("track") {
		t := buildTrack(r.Record("track"))
		ref.Track = &t
	}
	if albumID := r.OptInt("albumId"); albumID != nil {
		ref.AlbumID = *albumID
	} else if ref.Track != nil {
		ref.AlbumID = ref.Track.Albums[0].ID
	}
	return ref
}

// playlistSchema declares the playlist fields around the given tracks field.
func playlistSchema(tracks schema.Field) *schema.Schema {
	tracks.Name = "tracks"
	tracks.Kind = schema.List
	tracks.Nullable = true
	return &schema.Schema{
		Entity: "Playlist",
		Fields: []schema.Field{
			{Name: "kind", Kind: schema.Int, Required: true},
			{Name: "title", Kind: schema.String, Required: true},
			{Name: "owner", Kind: schema.Object, Schema: userSchema, Required: true},
			{Name: "trackCount", Kind: schema.Int, Nullable: true, Default: int64(0)},
			{Name: "cover", Kind: schema.Map, Nullable: true, Default: map[string]any{}},
			{Name: "tags", Kind: schema.List, Elem: schema.Raw, Nullable: true, Default: []any{}},
			{Name: "durationMs", Aliases: []string{"duration"}, Kind: schema.Int, Nullable: true, Default: int64(0)},
			{Name: "created", Kind: schema.Time, Nullable: true},
			{Name: "modified", Kind: schema.Time, Nullable: true},
			{Name: "revision", Kind: schema.Int, Nullable: true},
			{Name: "visibility", Kind: schema.Enum, Members: names(visibilities), Nullable: true},
			{Name: "likesCount", Kind: schema.Int, Nullable: true},
			{Name: "collective", Kind: schema.Bool, Nullable: true},
			tracks,
		},
	}
}

func playlistBuilder[T PlaylistItem](item func(schema.Record) T) func(schema.Record) Playlist[T] {
	return func(r schema.Record) Playlist[T] {
		p := Playlist[T]{
			Kind:       r.Int("kind"),
			Title:      r.String("title"),
			Owner:      buildUser(r.Record("owner")),
			TrackCount: r.Int("trackCount"),
			Cover:      r.Map("cover"),
			Tags:       r.List("tags"),
			DurationMs: r.Int("durationMs"),
			Created:    r.OptTime("created"),
			Modified:   r.OptTime("modified"),
			Revision:   r.OptInt("revision"),
			LikesCount: r.OptInt("likesCount"),
			Collective: r.OptBool("collective"),
		}
		if r.Has("visibility") {
			v := Visibility(r.String("visibility"))
			p.Visibility = &v
		}
		if recs := r.Records("tracks"); recs != nil {
			p.Tracks = make([]T, 0, len(recs))
			for _, rec := range recs {
				p.Tracks = append(p.Tracks, item(rec))
			}
		}
		return p
	}
}

var (
	TrackReferences = schema.Decoder[TrackReference]{Schema: trackRefSchema, Build: buildTrackRef}

	// PlaylistRefs decodes playlists whose tracks are [TrackReference] slots.
	PlaylistRefs = schema.Decoder[Playlist[TrackReference]]{
		Schema: playlistSchema(schema.Field{Schema: trackRefSchema}),
		Build:  playlistBuilder(buildTrackRef),
	}

	// PlaylistTracks decodes a rich detail view straight into tracks, unwrapping the "track" key of every slot.
	PlaylistTracks = schema.Decoder[Playlist[Track]]{
		Schema: playlistSchema(schema.Field{Schema: trackSchema, Envelope: schema.Envelope{One: "track"}}),
		Build:  playlistBuilder(buildTrack),
	}
)
