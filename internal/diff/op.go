package diff

import (
	"encoding/json"
	"fmt"

	"github.com/desertthunder/yamusic/internal/models"
	"github.com/desertthunder/yamusic/internal/shared"
)

type OpKind string

const (
	Insert OpKind = "insert"
	Delete OpKind = "delete"
)

// Op is a single insert or delete instruction.
//
// Insert uses At and Tracks; Delete uses the inclusive index range From..To.
type Op struct {
	Kind   OpKind
	At     int
	Tracks []models.TrackKey
	From   int
	To     int
}

// Empty reports whether applying the operation would leave the playlist unchanged.
func (o Op) Empty() bool {
	return o.Kind == Insert && len(o.Tracks) == 0
}

func (o Op) String() string {
	switch o.Kind {
	case Insert:
		return fmt.Sprintf("insert %d track(s) at %d", len(o.Tracks), o.At)
	case Delete:
		return fmt.Sprintf("delete %d..%d", o.From, o.To)
	default:
		return "unknown operation " + string(o.Kind)
	}
}

type insertWire struct {
	Op     OpKind            `json:"op"`
	At     int               `json:"at"`
	Tracks []models.TrackKey `json:"tracks"`
}

type deleteWire struct {
	Op   OpKind `json:"op"`
	From int    `json:"from"`
	To   int    `json:"to"`
}

func (o Op) MarshalJSON() ([]byte, error) {
	switch o.Kind {
	case Insert:
		tracks := o.Tracks
		if tracks == nil {
			tracks = []models.TrackKey{}
		}
		return json.Marshal(insertWire{Op: Insert, At: o.At, Tracks: tracks})
	case Delete:
		return json.Marshal(deleteWire{Op: Delete, From: o.From, To: o.To})
	default:
		return nil, fmt.Errorf("%w: unknown operation %q", shared.ErrInvalidArgument, o.Kind)
	}
}

func (o *Op) UnmarshalJSON(data []byte) error {
	var wire struct {
		Op     OpKind            `json:"op"`
		At     *int              `json:"at"`
		Tracks []models.TrackKey `json:"tracks"`
		From   *int              `json:"from"`
		To     *int              `json:"to"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	switch wire.Op {
	case Insert:
		if wire.At == nil {
			return fmt.Errorf("%w: insert without position", shared.ErrInvalidArgument)
		}
		*o = Op{Kind: Insert, At: *wire.At, Tracks: wire.Tracks}
	case Delete:
		if wire.From == nil || wire.To == nil {
			return fmt.Errorf("%w: delete without range", shared.ErrInvalidArgument)
		}
		*o = Op{Kind: Delete, From: *wire.From, To: *wire.To}
	default:
		return fmt.Errorf("%w: unknown operation %q", shared.ErrInvalidArgument, wire.Op)
	}
	return nil
}
