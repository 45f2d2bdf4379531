package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/desertthunder/yamusic/internal/schema"
	"github.com/desertthunder/yamusic/internal/shared"
)

// Genre is a catalog genre. Ids are slugs such as "rock"; numeric ids are kept in their decimal form.
type Genre struct {
	ID          string
	Title       string
	FullTitle   string
	TracksCount int64
	SubGenres   []Genre
}

func (g Genre) Equal(other Genre) bool { return g.ID == other.ID }

// User is the account that owns a playlist.
type User struct {
	UID      int64
	Login    string
	Name     string
	Verified bool
	Sex      Sex
}

func (u User) Equal(other User) bool { return u.UID == other.UID }

type Album struct {
	ID          int64
	Title       string
	Year        *int
	ReleaseDate *time.Time
	TrackCount  int64
	Genre       string
}

func (a Album) Equal(other Album) bool { return a.ID == other.ID }

type Artist struct {
	ID       int64
	Name     string
	Composer bool
	Genres   []string
}

func (a Artist) Equal(other Artist) bool { return a.ID == other.ID }

// Track is a full catalog track. A decoded track always carries at least one album.
type Track struct {
	ID              int64
	RealID          string
	Title           string
	Type            string
	DurationMs      int64
	Albums          []Album
	Artists         []Artist
	Available       bool
	LyricsAvailable bool
	CoverURI        string
}

func (t Track) Equal(other Track) bool { return t.ID == other.ID }

// AlbumID returns the id of the first album the track appears on.
func (t Track) AlbumID() (int64, error) {
	if len(t.Albums) == 0 {
		return 0, &shared.FormatError{Entity: "Track", Path: "albums", Reason: fmt.Sprintf("track %d has no albums", t.ID)}
	}
	return t.Albums[0].ID, nil
}

func (t Track) Key() (TrackKey, error) {
	albumID, err := t.AlbumID()
	if err != nil {
		return TrackKey{}, err
	}
	return TrackKey{ID: t.ID, AlbumID: albumID}, nil
}

// ArtistNames joins the artist names with a comma.
func (t Track) ArtistNames() string {
	names := make([]string, len(t.Artists))
	for i, a := range t.Artists {
		names[i] = a.Name
	}
	return strings.Join(names, ", ")
}

func (t Track) String() string {
	if len(t.Artists) == 0 {
		return t.Title
	}
	return t.ArtistNames() + " - " + t.Title
}

var genreSchema = &schema.Schema{
	Entity: "Genre",
	Fields: []schema.Field{
		{Name: "id", Kind: schema.String, Required: true},
		{Name: "title", Kind: schema.String, Required: true},
		{Name: "fullTitle", Kind: schema.String, Nullable: true, Default: ""},
		{Name: "tracksCount", Kind: schema.Int, Nullable: true, Default: int64(0)},
	},
}

func init() {
	genreSchema.Fields = append(genreSchema.Fields, schema.Field{
		Name: "subGenres", Kind: schema.List, Schema: genreSchema, Nullable: true, Default: []schema.Record{},
	})
}

var userSchema = &schema.Schema{
	Entity: "User",
	Fields: []schema.Field{
		{Name: "uid", Kind: schema.Int, Required: true},
		{Name: "login", Kind: schema.String, Required: true},
		{Name: "name", Kind: schema.String, Nullable: true, Default: ""},
		{Name: "verified", Kind: schema.Bool, Default: false},
		{Name: "sex", Kind: schema.Enum, Members: names(sexes), Nullable: true, Default: string(SexUnknown)},
	},
}

var albumSchema = &schema.Schema{
	Entity: "Album",
	Fields: []schema.Field{
		{Name: "id", Kind: schema.Int, Required: true},
		{Name: "title", Kind: schema.String, Required: true},
		{Name: "year", Kind: schema.Int, Nullable: true},
		{Name: "releaseDate", Kind: schema.Time, Nullable: true},
		{Name: "trackCount", Kind: schema.Int, Nullable: true, Default: int64(0)},
		{Name: "genre", Kind: schema.String, Nullable: true, Default: ""},
	},
}

var artistSchema = &schema.Schema{
	Entity: "Artist",
	Fields: []schema.Field{
		{Name: "id", Kind: schema.Int, Required: true},
		{Name: "name", Kind: schema.String, Required: true},
		{Name: "composer", Kind: schema.Bool, Nullable: true, Default: false},
		{Name: "genres", Kind: schema.List, Elem: schema.String, Nullable: true, Default: []string{}},
	},
}

var trackSchema = &schema.Schema{
	Entity: "Track",
	Fields: []schema.Field{
		{Name: "id", Kind: schema.Int, Required: true},
		{Name: "realId", Kind: schema.String, Nullable: true, Default: ""},
		{Name: "title", Kind: schema.String, Required: true},
		{Name: "type", Kind: schema.String, Nullable: true, Default: "music"},
		{Name: "durationMs", Aliases: []string{"duration"}, Kind: schema.Int, Nullable: true, Default: int64(0)},
		{Name: "albums", Kind: schema.List, Schema: albumSchema, Required: true, MinItems: 1},
		{Name: "artists", Kind: schema.List, Schema: artistSchema, Nullable: true, Default: []schema.Record{}},
		{Name: "available", Kind: schema.Bool, Default: false},
		{Name: "lyricsAvailable", Kind: schema.Bool, Nullable: true, Default: false},
		{Name: "coverUri", Kind: schema.String, Nullable: true, Default: ""},
	},
}

func buildGenre(r schema.Record) Genre {
	g := Genre{
		ID:          r.String("id"),
		Title:       r.String("title"),
		FullTitle:   r.String("fullTitle"),
		TracksCount: r.Int("tracksCount"),
	}
	for _, sub := range r.Records("subGenres") {
		g.SubGenres = append(g.SubGenres, buildGenre(sub))
	}
	return g
}

func buildUser(r schema.Record) User {
	return User{
		UID:      r.Int("uid"),
		Login:    r.String("login"),
		Name:     r.String("name"),
		Verified: r.Bool("verified"),
		Sex:      Sex(r.String("sex")),
	}
}

func buildAlbum(r schema.Record) Album {
	a := Album{
		ID:          r.Int("id"),
		Title:       r.String("title"),
		ReleaseDate: r.OptTime("releaseDate"),
		TrackCount:  r.Int("trackCount"),
		Genre:       r.String("genre"),
	}
	if year := r.OptInt("year"); year != nil {
		y := int(*year)
		a.Year = &y
	}
	return a
}

func buildArtist(r schema.Record) Artist {
	return Artist{
		ID:       r.Int("id"),
		Name:     r.String("name"),
		Composer: r.Bool("composer"),
		Genres:   r.Strings("genres"),
	}
}

func buildTrack(r schema.Record) Track {
	t := Track{
		ID:              r.Int("id"),
		RealID:          r.String("realId"),
		Title:           r.String("title"),
		Type:            r.String("type"),
		DurationMs:      r.Int("durationMs"),
		Available:       r.Bool("available"),
		LyricsAvailable: r.Bool("lyricsAvailable"),
		CoverURI:        r.String("coverUri"),
	}
	for _, album := range r.Records("albums") {
		t.Albums = append(t.Albums, buildAlbum(album))
	}
	t.Artists = make([]Artist, 0, len(r.Records("artists")))
	for _, artist := range r.Records("artists") {
		t.Artists = append(t.Artists, buildArtist(artist))
	}
	return t
}

var (
	Genres  = schema.Decoder[Genre]{Schema: genreSchema, Build: buildGenre}
	Users   = schema.Decoder[User]{Schema: userSchema, Build: buildUser}
	Albums  = schema.Decoder[Album]{Schema: albumSchema, Build: buildAlbum}
	Artists = schema.Decoder[Artist]{Schema: artistSchema, Build: buildArtist}
	Tracks  = schema.Decoder[Track]{Schema: trackSchema, Build: buildTrack}
)
