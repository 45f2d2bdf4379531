// package tasks implements long-running playlist operations on top of [services.Service].
package tasks

import (
	"context"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"

	"github.com/desertthunder/yamusic/internal/models"
	"github.com/desertthunder/yamusic/internal/services"
	"github.com/desertthunder/yamusic/internal/shared"
)

const (
	defaultWorkers   = 4
	maxWorkers       = 10
	defaultRateLimit = 5.0
)

// PlaylistResult is the outcome of fetching one playlist's tracks.
//
// Detail is nil when Err is set.
type PlaylistResult struct {
	Ref    models.Playlist[models.TrackReference]
	Detail *models.Playlist[models.Track]
	Err    error
}

// Engine defines the bulk operations run by the CLI.
type Engine interface {
	// Backup fetches every playlist of a user and flattens them into backup rows.
	Backup(ctx context.Context, progress chan<- ProgressUpdate, opts BackupOpts) (*BackupResult, error)

	// Export writes every playlist of a user into its own file(s) under a directory.
	Export(ctx context.Context, progress chan<- ProgressUpdate, opts ExportOpts) (*ExportResult, error)
}

// PoolOpts bounds the detail fetches of a bulk operation.
type PoolOpts struct {
	Workers   int     // Concurrent fetches (default 4, at most 10)
	RateLimit float64 // Detail requests per second (default 5)
}

func (o PoolOpts) normalize() PoolOpts {
	if o.Workers <= 0 {
		o.Workers = defaultWorkers
	}
	if o.Workers > maxWorkers {
		o.Workers = maxWorkers
	}
	if o.RateLimit <= 0 {
		o.RateLimit = defaultRateLimit
	}
	return o
}

var _ Engine = (*PlaylistEngine)(nil)

// PlaylistEngine implements [Engine] against a single service.
type PlaylistEngine struct {
	service services.Service
	logger  *log.Logger
}

// NewPlaylistEngine creates a new PlaylistEngine for the service.
func NewPlaylistEngine(service services.Service, logger *log.Logger) *PlaylistEngine {
	if logger == nil {
		logger = log.Default()
	}
	return &PlaylistEngine{service: service, logger: logger}
}

// sendProgress sends a progress update through the channel without blocking.
func (e *PlaylistEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// listPlaylists returns the user's playlists, optionally restricted to kinds (in list order).
func (e *PlaylistEngine) listPlaylists(ctx context.Context, progress chan<- ProgressUpdate, userID int64, kinds []int64) ([]models.Playlist[models.TrackReference], error) {
	if e.service == nil {
		return nil, fmt.Errorf("%w: service not initialized", shared.ErrServiceUnavailable)
	}

	e.sendProgress(progress, fetchingPlaylistsUpdate(userID))
	refs, err := e.service.Playlists(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list playlists: %w", err)
	}

	if len(kinds) > 0 {
		wanted := make(map[int64]bool, len(kinds))
		for _, k := range kinds {
			wanted[k] = true
		}
		filtered := refs[:0:0]
		for _, ref := range refs {
			if wanted[ref.Kind] {
				filtered = append(filtered, ref)
			}
		}
		refs = filtered
	}

	e.sendProgress(progress, foundPlaylistsUpdate(len(refs)))
	return refs, nil
}

// fetchAll fetches the detail view of every playlist with a bounded worker pool.
//
// Results keep the order of refs. Per-playlist failures are recorded in the result; only a cancelled context
// aborts the whole run.
func (e *PlaylistEngine) fetchAll(ctx context.Context, progress chan<- ProgressUpdate, refs []models.Playlist[models.TrackReference], opts PoolOpts) ([]PlaylistResult, error) {
	opts = opts.normalize()
	total := len(refs)
	results := make([]PlaylistResult, total)
	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)

	type done struct {
		index int
		res   PlaylistResult
	}

	jobs := make(chan int, total)
	out := make(chan done, total)

	var wg sync.WaitGroup
	for range min(opts.Workers, max(total, 1)) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				ref := refs[i]
				if err := limiter.Wait(ctx); err != nil {
					out <- done{i, PlaylistResult{Ref: ref, Err: err}}
					continue
				}
				detail, err := e.service.PlaylistDetail(ctx, ref.Kind, ref.Owner.UID)
				out <- done{i, PlaylistResult{Ref: ref, Detail: detail, Err: err}}
			}
		}()
	}

	for i := range refs {
		jobs <- i
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(out)
	}()

	completed := 0
	for d := range out {
		completed++
		results[d.index] = d.res
		if d.res.Err != nil {
			e.logger.Warn("playlist fetch failed", "kind", d.res.Ref.Kind, "title", d.res.Ref.Title, "error", d.res.Err)
			e.sendProgress(progress, fetchFailedUpdate(completed, total, d.res))
			continue
		}
		e.logger.Debug("playlist fetched", "kind", d.res.Ref.Kind, "tracks", len(d.res.Detail.Tracks))
		e.sendProgress(progress, fetchedTracksUpdate(completed, total, d.res))
	}

	if err := ctx.Err(); err != nil {
		return results, err
	}
	return results, nil
}
