package models

import "github.com/desertthunder/yamusic/internal/schema"

// SearchResult holds the independent sections of a search response; a section the server omits is empty.
type SearchResult struct {
	Text      string
	Albums    []Album
	Artists   []Artist
	Tracks    []Track
	Playlists []Playlist[TrackReference]
}

// Total is the number of matches across every section.
func (s SearchResult) Total() int {
	return len(s.Albums) + len(s.Artists) + len(s.Tracks) + len(s.Playlists)
}

// Similar is a track with the tracks the service recommends alongside it.
type Similar struct {
	Track         Track
	SimilarTracks []Track
}

var listPlaylistSchema = playlistSchema(schema.Field{Schema: trackRefSchema})

func searchSection(name string, s *schema.Schema) schema.Field {
	return schema.Field{
		Name:     name,
		Kind:     schema.List,
		Schema:   s,
		Envelope: schema.Envelope{Many: "results"},
		Nullable: true,
		Default:  []schema.Record{},
	}
}

var searchSchema = &schema.Schema{
	Entity: "SearchResult",
	Fields: []schema.Field{
		{Name: "text", Kind: schema.String, Nullable: true, Default: ""},
		searchSection("albums", albumSchema),
		searchSection("artists", artistSchema),
		searchSection("tracks", trackSchema),
		searchSection("playlists", listPlaylistSchema),
	},
}

var similarSchema = &schema.Schema{
	Entity: "Similar",
	Fields: []schema.Field{
		{Name: "track", Kind: schema.Object, Schema: trackSchema, Required: true},
		{Name: "similarTracks", Kind: schema.List, Schema: trackSchema, Nullable: true, Default: []schema.Record{}},
	},
}

func buildSearchResult(r schema.Record) SearchResult {
	s := SearchResult{
		Text:      r.String("text"),
		Albums:    []Album{},
		Artists:   []Artist{},
		Tracks:    []Track{},
		Playlists: []Playlist[TrackReference]{},
	}
	for _, rec := range r.Records("albums") {
		s.Albums = append(s.Albums, buildAlbum(rec))
	}
	for _, rec := range r.Records("artists") {
		s.Artists = append(s.Artists, buildArtist(rec))
	}
	for _, rec := range r.Records("tracks") {
		s.Tracks = append(s.Tracks, buildTrack(rec))
	}
	buildPlaylist := playlistBuilder(buildTrackRef)
	for _, rec := range r.Records("playlists") {
		s.Playlists = append(s.Playlists, buildPlaylist(rec))
	}
	return s
}

func buildSimilar(r schema.Record) Similar {
	s := Similar{
		Track:         buildTrack(r.Record("track")),
		SimilarTracks: make([]Track, 0, len(r.Records("similarTracks"))),
	}
	for _, rec := range r.Records("similarTracks") {
		s.SimilarTracks = append(s.SimilarTracks, buildTrack(rec))
	}
	return s
}

var (
	SearchResults = schema.Decoder[SearchResult]{Schema: searchSchema, Build: buildSearchResult}
	SimilarTracks = schema.Decoder[Similar]{Schema: similarSchema, Build: buildSimilar}
)
