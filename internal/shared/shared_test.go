package shared

import (
	"errors"
	"strings"
	"testing"
)

func TestFormatError(t *testing.T) {
	t.Run("unwraps to ErrResponseFormat", func(t *testing.T) {
		var err error = &FormatError{Entity: "Track", Path: "id", Reason: "required field missing"}
		if !errors.Is(err, ErrResponseFormat) {
			t.Error("expected FormatError to match ErrResponseFormat")
		}
	})

	t.Run("message names entity, path and envelope", func(t *testing.T) {
		err := &FormatError{Entity: "Genre", Path: "result", Envelope: "result", Reason: "required field missing"}
		msg := err.Error()
		for _, want := range []string{"Genre", "at result", `envelope "result"`, "required field missing"} {
			if !strings.Contains(msg, want) {
				t.Errorf("expected %q in %q", want, msg)
			}
		}
	})

	t.Run("Nest", func(t *testing.T) {
		tc := []struct {
			name   string
			path   string
			parent string
			want   string
		}{
			{name: "field under parent", path: "id", parent: "albums[0]", want: "albums[0].id"},
			{name: "index under parent", path: "[2].id", parent: "tracks", want: "tracks[2].id"},
			{name: "empty path", path: "", parent: "owner", want: "owner"},
			{name: "empty parent", path: "id", parent: "", want: "id"},
		}

		for _, tt := range tc {
			t.Run(tt.name, func(t *testing.T) {
				err := &FormatError{Entity: "Album", Path: tt.path}
				if got := err.Nest(tt.parent).Path; got != tt.want {
					t.Errorf("Nest() path = %v, want %v", got, tt.want)
				}
				if err.Path != tt.path {
					t.Error("Nest() should not modify the receiver")
				}
			})
		}
	})
}

func TestFormatDuration(t *testing.T) {
	tc := []struct {
		ms   int64
		want string
	}{
		{ms: 0, want: "0:00"},
		{ms: 334000, want: "5:34"},
		{ms: 3725000, want: "1:02:05"},
	}

	for _, tt := range tc {
		if got := FormatDuration(tt.ms); got != tt.want {
			t.Errorf("FormatDuration(%d) = %v, want %v", tt.ms, got, tt.want)
		}
	}
}
