package tasks

import (
	"context"
	"fmt"
	"io"

	"github.com/desertthunder/yamusic/internal/formatter"
)

// BackupOpts configures a playlist backup.
type BackupOpts struct {
	UserID int64     // Owner of the playlists; 0 means the authenticated user
	Kinds  []int64   // Restrict the backup to these playlist kinds
	Output io.Writer // Receives the CSV when set
	Pool   PoolOpts
}

// BackupResult contains the fetched playlists and the flattened rows.
type BackupResult struct {
	Playlists []PlaylistResult
	Rows      []formatter.BackupRow
	Succeeded int
	Failed    int
}

// Backup fetches every playlist of a user and flattens the tracks into playlist/artist/title/album rows.
//
// Rows follow the order of the user's playlist list. A playlist that fails to fetch is counted and skipped.
func (e *PlaylistEngine) Backup(ctx context.Context, progress chan<- ProgressUpdate, opts BackupOpts) (*BackupResult, error) {
	refs, err := e.listPlaylists(ctx, progress, opts.UserID, opts.Kinds)
	if err != nil {
		return nil, err
	}

	fetched, err := e.fetchAll(ctx, progress, refs, opts.Pool)
	if err != nil {
		return nil, err
	}

	result := &BackupResult{Playlists: fetched, Rows: []formatter.BackupRow{}}
	for _, res := range fetched {
		if res.Err != nil {
			result.Failed++
			continue
		}
		result.Succeeded++
		result.Rows = append(result.Rows, formatter.BackupRows(*res.Detail)...)
	}

	if opts.Output != nil {
		e.sendProgress(progress, writingBackupUpdate(len(result.Rows)))
		if err := formatter.WriteBackupCSV(opts.Output, result.Rows); err != nil {
			return result, fmt.Errorf("failed to write backup: %w", err)
		}
	}

	e.logger.Info("backup complete", "playlists", result.Succeeded, "failed", result.Failed, "rows", len(result.Rows))
	return result, nil
}
