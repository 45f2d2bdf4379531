package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/yamusic/internal/diff"
	"github.com/desertthunder/yamusic/internal/formatter"
	"github.com/desertthunder/yamusic/internal/models"
	"github.com/desertthunder/yamusic/internal/shared"
	"github.com/desertthunder/yamusic/internal/tasks"
	"github.com/desertthunder/yamusic/internal/ui"
)

// parseTrackKey parses "id:albumId".
func parseTrackKey(s string) (models.TrackKey, error) {
	id, album, ok := strings.Cut(s, ":")
	if !ok {
		return models.TrackKey{}, fmt.Errorf("%w: track %q must be id:albumId", shared.ErrInvalidArgument, s)
	}
	trackID, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return models.TrackKey{}, fmt.Errorf("%w: track id %q is not numeric", shared.ErrInvalidArgument, id)
	}
	albumID, err := strconv.ParseInt(album, 10, 64)
	if err != nil {
		return models.TrackKey{}, fmt.Errorf("%w: album id %q is not numeric", shared.ErrInvalidArgument, album)
	}
	return models.TrackKey{ID: trackID, AlbumID: albumID}, nil
}

// PlaylistsList lists a user's playlists.
func (r *Runner) PlaylistsList(ctx context.Context, cmd *cli.Command) error {
	playlists, err := r.service.Playlists(ctx, cmd.Int64("user"))
	if err != nil {
		return err
	}
	if done, err := r.write(cmd, playlists); done {
		return err
	}

	r.writePlainHeader(fmt.Sprintf("Playlists (%d)", len(playlists)))
	for _, p := range playlists {
		visibility := ""
		if p.Visibility != nil {
			visibility = string(*p.Visibility)
		}
		r.writePlain("%-8d %-40s %5d tracks  %s\n", p.Kind, p.Title, p.TrackCount, visibility)
	}
	return nil
}

// PlaylistsShow prints a playlist with its full tracks.
func (r *Runner) PlaylistsShow(ctx context.Context, cmd *cli.Command) error {
	userID := cmd.Int64("user")

	var kind int64
	if title := cmd.String("title"); title != "" {
		ref, err := r.service.PlaylistByTitle(ctx, title, userID)
		if err != nil {
			return err
		}
		kind, userID = ref.Kind, ref.Owner.UID
	} else {
		var err error
		if kind, err = int64Arg(cmd, "kind"); err != nil {
			return err
		}
	}

	playlist, err := r.service.PlaylistDetail(ctx, kind, userID)
	if err != nil {
		return err
	}
	if done, err := r.write(cmd, playlist); done {
		return err
	}

	text, err := formatter.ExportToText(*playlist)
	if err != nil {
		return err
	}
	return r.writePlain("%s", text)
}

// PlaylistsCreate creates a playlist owned by the authenticated user.
func (r *Runner) PlaylistsCreate(ctx context.Context, cmd *cli.Command) error {
	title := cmd.StringArg("title")
	if title == "" {
		return fmt.Errorf("%w: title", shared.ErrMissingArgument)
	}
	visibility, err := models.ParseVisibility(cmd.String("visibility"))
	if err != nil {
		return err
	}

	playlist, err := r.service.CreatePlaylist(ctx, title, visibility)
	if err != nil {
		return err
	}
	if done, err := r.write(cmd, playlist); done {
		return err
	}
	return r.writePlain("%s\n", ui.Success("Created %q (kind %d)", playlist.Title, playlist.Kind))
}

// PlaylistsRename renames a playlist.
func (r *Runner) PlaylistsRename(ctx context.Context, cmd *cli.Command) error {
	kind, err := int64Arg(cmd, "kind")
	if err != nil {
		return err
	}
	title := cmd.StringArg("title")
	if title == "" {
		return fmt.Errorf("%w: title", shared.ErrMissingArgument)
	}

	if err := r.service.RenamePlaylist(ctx, kind, title); err != nil {
		return err
	}
	return r.writePlain("%s\n", ui.Success("Renamed playlist %d to %q", kind, title))
}

// PlaylistsDelete deletes a playlist.
func (r *Runner) PlaylistsDelete(ctx context.Context, cmd *cli.Command) error {
	kind, err := int64Arg(cmd, "kind")
	if err != nil {
		return err
	}

	if err := r.service.DeletePlaylist(ctx, kind); err != nil {
		return err
	}
	return r.writePlain("%s\n", ui.Success("Deleted playlist %d", kind))
}

// PlaylistsAdd inserts tracks into a playlist, or previews the change with --dry-run.
func (r *Runner) PlaylistsAdd(ctx context.Context, cmd *cli.Command) error {
	kind, err := int64Arg(cmd, "kind")
	if err != nil {
		return err
	}

	raw := cmd.StringSlice("track")
	keys := make([]models.TrackKey, 0, len(raw))
	for _, s := range raw {
		key, err := parseTrackKey(s)
		if err != nil {
			return err
		}
		keys = append(keys, key)
	}

	at := cmd.Int("at")
	ignoreDuplicates := !cmd.Bool("allow-duplicates")

	if cmd.Bool("dry-run") {
		return r.preview(ctx, kind, func(p models.Playlist[models.TrackReference]) (diff.Op, error) {
			return diff.BuildInsert(p, keys, at, ignoreDuplicates)
		})
	}

	playlist, err := r.service.InsertTracks(ctx, kind, keys, at, ignoreDuplicates)
	if err != nil {
		return err
	}
	return r.writePlain("%s\n", ui.Success("%q now has %d track(s)", playlist.Title, playlist.TrackCount))
}

// PlaylistsRemove deletes a range of tracks, or previews the change with --dry-run.
func (r *Runner) PlaylistsRemove(ctx context.Context, cmd *cli.Command) error {
	kind, err := int64Arg(cmd, "kind")
	if err != nil {
		return err
	}
	from, to := cmd.Int("from"), cmd.Int("to")

	if cmd.Bool("dry-run") {
		return r.preview(ctx, kind, func(p models.Playlist[models.TrackReference]) (diff.Op, error) {
			return diff.BuildDelete(p, from, to)
		})
	}

	playlist, err := r.service.DeleteTracks(ctx, kind, from, to)
	if err != nil {
		return err
	}
	return r.writePlain("%s\n", ui.Success("%q now has %d track(s)", playlist.Title, playlist.TrackCount))
}

// preview builds an operation against the current playlist and applies it locally without submitting.
func (r *Runner) preview(ctx context.Context, kind int64, build func(models.Playlist[models.TrackReference]) (diff.Op, error)) error {
	playlist, err := r.service.Playlist(ctx, kind, 0, false)
	if err != nil {
		return err
	}
	op, err := build(*playlist)
	if err != nil {
		return err
	}

	r.writePlain("Playlist %q (kind %d)\n", playlist.Title, playlist.Kind)
	if op.Empty() {
		return r.writePlain("%s\n", ui.Warning("nothing to change"))
	}

	keys, err := playlist.Keys()
	if err != nil {
		return err
	}
	after, err := op.Apply(keys)
	if err != nil {
		return err
	}

	encoded, err := diff.Encode(op)
	if err != nil {
		return err
	}
	r.writePlain("Would %s: %d -> %d track(s)\n", op, len(keys), len(after))
	return r.writePlain("diff: %s\n", encoded)
}

// PlaylistsBackup writes every playlist as playlist,artist,title,album rows.
func (r *Runner) PlaylistsBackup(ctx context.Context, cmd *cli.Command) error {
	var out io.Writer = r.output
	path := cmd.String("output")
	if path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create backup file: %w", err)
		}
		defer f.Close()
		out = f
	}

	progress, wait := r.progress(path != "")
	result, err := r.engine.Backup(ctx, progress, tasks.BackupOpts{
		UserID: cmd.Int64("user"),
		Kinds:  cmd.Int64Slice("kind"),
		Output: out,
		Pool:   poolOpts(cmd),
	})
	close(progress)
	wait()
	if err != nil {
		return err
	}

	if path == "" {
		r.logger.Info("backup complete", "playlists", result.Succeeded, "failed", result.Failed, "rows", len(result.Rows))
		return nil
	}
	r.writePlain("%s\n", ui.Success("Backed up %d playlist(s), %d track(s) to %s", result.Succeeded, len(result.Rows), path))
	if result.Failed > 0 {
		r.writePlain("%s\n", ui.Warning("%d playlist(s) could not be fetched", result.Failed))
	}
	return nil
}

// PlaylistsExport writes each playlist to its own file(s).
func (r *Runner) PlaylistsExport(ctx context.Context, cmd *cli.Command) error {
	progress, wait := r.progress(true)
	result, err := r.engine.Export(ctx, progress, tasks.ExportOpts{
		UserID:      cmd.Int64("user"),
		Kinds:       cmd.Int64Slice("kind"),
		Format:      cmd.String("format"),
		OutputDir:   cmd.String("dir"),
		CoverClient: r.httpClient,
		Pool:        poolOpts(cmd),
	})
	close(progress)
	wait()
	if err != nil {
		return err
	}

	r.writePlainln("Export Complete!")
	r.writePlain("Directory: %s\n", result.OutputDirectory)
	r.writePlain("Exported: %d/%d\n", result.SuccessfulExports, result.TotalPlaylists)
	if result.FailedExports > 0 {
		r.writePlain("%s\n", ui.Warning("%d playlist(s) failed", result.FailedExports))
	}
	return r.writePlain("Manifest: %s\n", result.ManifestPath)
}

func poolOpts(cmd *cli.Command) tasks.PoolOpts {
	return tasks.PoolOpts{Workers: cmd.Int("workers"), RateLimit: cmd.Float64("rate")}
}

// progress starts a reader for engine updates and returns the channel and a wait func to call after closing it.
//
// Updates are printed when show is set and logged at debug level otherwise.
func (r *Runner) progress(show bool) (chan tasks.ProgressUpdate, func()) {
	ch := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range ch {
			if show {
				r.writePlain("%s\n", ui.ProgressLine(update))
			} else {
				r.logger.Debug(update.Message, "phase", update.Phase)
			}
		}
	}()
	return ch, func() { <-done }
}
