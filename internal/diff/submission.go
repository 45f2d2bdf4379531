package diff

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/desertthunder/yamusic/internal/models"
	"github.com/desertthunder/yamusic/internal/shared"
)

// Submission is the change-relative request body: the playlist kind, its captured revision and the operations.
type Submission struct {
	Kind     int64
	Revision int64
	Ops      []Op
}

// NewSubmission captures the revision of a freshly fetched playlist.
func NewSubmission[T models.PlaylistItem](p models.Playlist[T], ops ...Op) (Submission, error) {
	if p.Revision == nil {
		return Submission{}, fmt.Errorf("%w: playlist %d has no revision", shared.ErrInvalidArgument, p.Kind)
	}
	if len(ops) == 0 {
		return Submission{}, fmt.Errorf("%w: no operations", shared.ErrMissingArgument)
	}
	return Submission{Kind: p.Kind, Revision: *p.Revision, Ops: ops}, nil
}

// Form encodes the submission as the url-encoded POST body.
func (s Submission) Form() (url.Values, error) {
	encoded, err := Encode(s.Ops...)
	if err != nil {
		return nil, err
	}
	return url.Values{
		"kind":     {strconv.FormatInt(s.Kind, 10)},
		"diff":     {encoded},
		"revision": {strconv.FormatInt(s.Revision, 10)},
	}, nil
}

// Encode serializes operations as the compact JSON array the server expects in the diff field.
func Encode(ops ...Op) (string, error) {
	if ops == nil {
		ops = []Op{}
	}
	data, err := json.Marshal(ops)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func Decode(s string) ([]Op, error) {
	var ops []Op
	if err := json.Unmarshal([]byte(s), &ops); err != nil {
		return nil, fmt.Errorf("%w: diff: %w", shared.ErrInvalidArgument, err)
	}
	return ops, nil
}
