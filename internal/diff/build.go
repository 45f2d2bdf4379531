package diff

import (
	"fmt"

	"github.com/desertthunder/yamusic/internal/models"
	"github.com/desertthunder/yamusic/internal/shared"
)

// ToEnd selects the last track of the playlist as the end of a delete range.
const ToEnd = -1

// BuildInsert builds an insert of keys at position at (0 prepends).
//
// With ignoreDuplicates, keys whose track id is already in the playlist, or repeated in keys, are dropped
// silently; the playlist must then carry its track list. The resulting operation may be [Op.Empty].
func BuildInsert[T models.PlaylistItem](p models.Playlist[T], keys []models.TrackKey, at int, ignoreDuplicates bool) (Op, error) {
	if len(keys) == 0 {
		return Op{}, fmt.Errorf("%w: no tracks to insert", shared.ErrMissingArgument)
	}
	if at < 0 || int64(at) > p.TrackCount {
		return Op{}, fmt.Errorf("%w: position %d outside playlist %d of %d track(s)", shared.ErrInvalidArgument, at, p.Kind, p.TrackCount)
	}

	tracks := keys
	if ignoreDuplicates {
		if !p.HasTracks() {
			return Op{}, fmt.Errorf("%w: playlist %d was fetched without its tracks", shared.ErrInvalidArgument, p.Kind)
		}
		current, err := p.Keys()
		if err != nil {
			return Op{}, err
		}
		tracks = withoutDuplicates(keys, current)
	}

	return Op{Kind: Insert, At: at, Tracks: tracks}, nil
}

// BuildDelete builds a delete of the inclusive range from..to; pass [ToEnd] to delete through the last track.
func BuildDelete[T models.PlaylistItem](p models.Playlist[T], from, to int) (Op, error) {
	if p.TrackCount == 0 {
		return Op{}, fmt.Errorf("%w: playlist %d is empty", shared.ErrInvalidArgument, p.Kind)
	}
	if to == ToEnd {
		to = int(p.TrackCount) - 1
	}
	if from < 0 || from > to || int64(to) >= p.TrackCount {
		return Op{}, fmt.Errorf("%w: range %d..%d outside playlist %d of %d track(s)", shared.ErrInvalidArgument, from, to, p.Kind, p.TrackCount)
	}

	return Op{Kind: Delete, From: from, To: to}, nil
}

func withoutDuplicates(keys, current []models.TrackKey) []models.TrackKey {
	seen := make(map[int64]struct{}, len(current)+len(keys))
	for _, k := range current {
		seen[k.ID] = struct{}{}
	}

	out := make([]models.TrackKey, 0, len(keys))
	for _, k := range keys {
		if _, ok := seen[k.ID]; ok {
			continue
		}
		seen[k.ID] = struct{}{}
		out = append(out, k)
	}
	return out
}
