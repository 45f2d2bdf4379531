package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/yamusic/internal/models"
	"github.com/desertthunder/yamusic/internal/shared"
)

// int64Arg parses a required numeric positional argument.
func int64Arg(cmd *cli.Command, name string) (int64, error) {
	raw := cmd.StringArg(name)
	if raw == "" {
		return 0, fmt.Errorf("%w: %s", shared.ErrMissingArgument, name)
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be numeric, got %q", shared.ErrInvalidArgument, name, raw)
	}
	return v, nil
}

// Genres lists catalog genres with their sub-genres indented.
func (r *Runner) Genres(ctx context.Context, cmd *cli.Command) error {
	genres, err := r.service.Genres(ctx)
	if err != nil {
		return err
	}
	if done, err := r.write(cmd, genres); done {
		return err
	}

	r.writePlainHeader(fmt.Sprintf("Genres (%d)", len(genres)))
	var walk func(gs []models.Genre, depth int)
	walk = func(gs []models.Genre, depth int) {
		for _, g := range gs {
			r.writePlain("%s%-24s %s\n", strings.Repeat("  ", depth), g.ID, g.Title)
			walk(g.SubGenres, depth+1)
		}
	}
	walk(genres, 0)
	return nil
}

// Album shows an album.
func (r *Runner) Album(ctx context.Context, cmd *cli.Command) error {
	id, err := int64Arg(cmd, "id")
	if err != nil {
		return err
	}

	album, err := r.service.Album(ctx, id)
	if err != nil {
		return err
	}
	if done, err := r.write(cmd, album); done {
		return err
	}

	r.writePlain("%d  %s\n", album.ID, album.Title)
	if album.Year != nil {
		r.writePlain("Year: %d\n", *album.Year)
	}
	if album.Genre != "" {
		r.writePlain("Genre: %s\n", album.Genre)
	}
	return r.writePlain("Tracks: %d\n", album.TrackCount)
}

// Similar lists tracks similar to the given track.
func (r *Runner) Similar(ctx context.Context, cmd *cli.Command) error {
	id, err := int64Arg(cmd, "track")
	if err != nil {
		return err
	}

	similar, err := r.service.SimilarTracks(ctx, id)
	if err != nil {
		return err
	}
	if done, err := r.write(cmd, similar); done {
		return err
	}

	r.writePlainHeader("Similar to " + similar.Track.String())
	r.writeTracks(similar.SimilarTracks)
	return nil
}

// Search queries the catalog and prints each non-empty section.
func (r *Runner) Search(ctx context.Context, cmd *cli.Command) error {
	query := cmd.StringArg("query")
	if query == "" {
		return fmt.Errorf("%w: query", shared.ErrMissingArgument)
	}
	searchType, err := models.ParseSearchType(cmd.String("type"))
	if err != nil {
		return err
	}

	found, err := r.service.Search(ctx, query, searchType, cmd.Int("page"))
	if err != nil {
		return err
	}
	if done, err := r.write(cmd, found); done {
		return err
	}

	if found.Total() == 0 {
		return r.writePlain("No results for %q\n", query)
	}
	if len(found.Artists) > 0 {
		r.writePlainln("Artists")
		for _, a := range found.Artists {
			r.writePlain("  %-10d %s\n", a.ID, a.Name)
		}
	}
	if len(found.Albums) > 0 {
		r.writePlainln("Albums")
		for _, a := range found.Albums {
			r.writePlain("  %-10d %s\n", a.ID, a.Title)
		}
	}
	if len(found.Tracks) > 0 {
		r.writePlainln("Tracks")
		r.writeTracks(found.Tracks)
	}
	if len(found.Playlists) > 0 {
		r.writePlainln("Playlists")
		for _, p := range found.Playlists {
			r.writePlain("  %d:%d  %s\n", p.Owner.UID, p.Kind, p.Title)
		}
	}
	return nil
}

// writeTracks prints tracks as "id:albumId  artists - title  duration".
func (r *Runner) writeTracks(tracks []models.Track) {
	for _, t := range tracks {
		key := strconv.FormatInt(t.ID, 10)
		if albumID, err := t.AlbumID(); err == nil {
			key += ":" + strconv.FormatInt(albumID, 10)
		}
		r.writePlain("  %-20s %s  %s\n", key, t, shared.FormatDuration(t.DurationMs))
	}
}
