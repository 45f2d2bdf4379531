package diff

import (
	"fmt"
	"slices"

	"github.com/desertthunder/yamusic/internal/models"
	"github.com/desertthunder/yamusic/internal/shared"
)

// Apply previews the operation against a local key list and returns the resulting list; keys is not modified.
func (o Op) Apply(keys []models.TrackKey) ([]models.TrackKey, error) {
	switch o.Kind {
	case Insert:
		if o.At < 0 || o.At > len(keys) {
			return nil, fmt.Errorf("%w: position %d outside %d track(s)", shared.ErrInvalidArgument, o.At, len(keys))
		}
		return slices.Insert(slices.Clone(keys), o.At, o.Tracks...), nil
	case Delete:
		if o.From < 0 || o.From > o.To || o.To >= len(keys) {
			return nil, fmt.Errorf("%w: range %d..%d outside %d track(s)", shared.ErrInvalidArgument, o.From, o.To, len(keys))
		}
		return slices.Delete(slices.Clone(keys), o.From, o.To+1), nil
	default:
		return nil, fmt.Errorf("%w: unknown operation %q", shared.ErrInvalidArgument, o.Kind)
	}
}
