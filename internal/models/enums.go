package models

import (
	"fmt"
	"strings"

	"github.com/desertthunder/yamusic/internal/shared"
)

type Visibility string

const (
	VisibilityPublic  Visibility = "public"
	VisibilityPrivate Visibility = "private"
)

type Sex string

const (
	SexUnknown Sex = "unknown"
	SexMale    Sex = "male"
	SexFemale  Sex = "female"
)

// SearchType restricts a search to one section of the catalog.
type SearchType string

const (
	SearchAll    SearchType = "all"
	SearchArtist SearchType = "artist"
	SearchAlbum  SearchType = "album"
	SearchTrack  SearchType = "track"
)

var (
	visibilities = []Visibility{VisibilityPublic, VisibilityPrivate}
	sexes        = []Sex{SexUnknown, SexMale, SexFemale}
	searchTypes  = []SearchType{SearchAll, SearchArtist, SearchAlbum, SearchTrack}
)

// ParseVisibility matches s against the members case-insensitively.
func ParseVisibility(s string) (Visibility, error) { return parseEnum("visibility", s, visibilities) }

func ParseSex(s string) (Sex, error) { return parseEnum("sex", s, sexes) }

func ParseSearchType(s string) (SearchType, error) { return parseEnum("search type", s, searchTypes) }

func (v Visibility) MarshalText() ([]byte, error) { return []byte(v), nil }

func (v *Visibility) UnmarshalText(text []byte) error {
	parsed, err := ParseVisibility(string(text))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

func (s Sex) MarshalText() ([]byte, error) { return []byte(s), nil }

func (s *Sex) UnmarshalText(text []byte) error {
	parsed, err := ParseSex(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

func (t SearchType) MarshalText() ([]byte, error) { return []byte(t), nil }

func (t *SearchType) UnmarshalText(text []byte) error {
	parsed, err := ParseSearchType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

func parseEnum[E ~string](kind, s string, members []E) (E, error) {
	for _, m := range members {
		if strings.EqualFold(string(m), s) {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: unknown %s %q (want one of %s)", shared.ErrInvalidArgument, kind, s, strings.Join(names(members), ", "))
}

func names[E ~string](members []E) []string {
	out := make([]string, len(members))
	for i, m := range members {
		out[i] = string(m)
	}
	return out
}
