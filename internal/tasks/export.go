package tasks

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/desertthunder/yamusic/internal/formatter"
	"github.com/desertthunder/yamusic/internal/models"
	"github.com/desertthunder/yamusic/internal/shared"
)

// ExportOpts contains configuration for per-playlist exports.
type ExportOpts struct {
	UserID      int64        // Owner of the playlists; 0 means the authenticated user
	Kinds       []int64      // Restrict the export to these playlist kinds
	Format      string       // Export format: json, csv, markdown, txt
	OutputDir   string       // Base output directory (default: yamusic_export_{epoch})
	CoverClient *http.Client // Downloads covers for markdown exports when set
	Pool        PoolOpts
}

// PlaylistExportResult describes the files written for one playlist.
type PlaylistExportResult struct {
	Kind    int64    `json:"kind"`
	Title   string   `json:"title"`
	Success bool     `json:"success"`
	Files   []string `json:"files,omitempty"`
	Error   string   `json:"error,omitempty"`
}

// ExportResult summarizes an export run.
type ExportResult struct {
	Format            string                 `json:"format"`
	OutputDirectory   string                 `json:"output_directory"`
	TotalPlaylists    int                    `json:"total_playlists"`
	SuccessfulExports int                    `json:"successful_exports"`
	FailedExports     int                    `json:"failed_exports"`
	Results           []PlaylistExportResult `json:"results"`
	ManifestPath      string                 `json:"-"`
}

// Export writes each playlist of a user to OutputDir in the requested format and records an export_manifest.json.
//
// Playlists are fetched concurrently; files are written in list order.
func (e *PlaylistEngine) Export(ctx context.Context, progress chan<- ProgressUpdate, opts ExportOpts) (*ExportResult, error) {
	if opts.Format == "" {
		opts.Format = "json"
	}
	switch opts.Format {
	case "json", "csv", "markdown", "txt":
	default:
		return nil, fmt.Errorf("%w: unknown export format %q", shared.ErrInvalidArgument, opts.Format)
	}
	if opts.OutputDir == "" {
		opts.OutputDir = fmt.Sprintf("yamusic_export_%d", time.Now().Unix())
	}

	refs, err := e.listPlaylists(ctx, progress, opts.UserID, opts.Kinds)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	fetched, err := e.fetchAll(ctx, progress, refs, opts.Pool)
	if err != nil {
		return nil, err
	}

	result := &ExportResult{
		Format:          opts.Format,
		OutputDirectory: opts.OutputDir,
		TotalPlaylists:  len(fetched),
		Results:         make([]PlaylistExportResult, 0, len(fetched)),
	}

	for i, res := range fetched {
		entry := PlaylistExportResult{Kind: res.Ref.Kind, Title: res.Ref.Title}
		var written []string
		err := fmt.Errorf("failed to fetch playlist: %w", res.Err)
		if res.Err == nil {
			written, err = e.exportPlaylist(ctx, *res.Detail, opts)
		}

		if err != nil {
			entry.Error = err.Error()
			result.FailedExports++
			e.sendProgress(progress, exportFailedUpdate(i+1, len(fetched), res.Ref.Title, err))
		} else {
			entry.Success = true
			entry.Files = written
			result.SuccessfulExports++
			e.sendProgress(progress, exportCompletedUpdate(i+1, len(fetched), res.Ref.Title, len(written)))
		}
		result.Results = append(result.Results, entry)
	}

	manifestPath := filepath.Join(opts.OutputDir, "export_manifest.json")
	data, err := shared.MarshalJSON(result, true)
	if err != nil {
		return result, fmt.Errorf("export completed but failed to encode manifest: %w", err)
	}
	if err := os.WriteFile(manifestPath, data, 0644); err != nil {
		return result, fmt.Errorf("export completed but failed to write manifest: %w", err)
	}
	result.ManifestPath = manifestPath
	return result, nil
}

// exportPlaylist writes a single playlist in the configured format and returns the created files.
func (e *PlaylistEngine) exportPlaylist(ctx context.Context, p models.Playlist[models.Track], opts ExportOpts) ([]string, error) {
	base := filepath.Join(opts.OutputDir, formatter.BaseName(p))

	switch opts.Format {
	case "csv":
		res, err := formatter.WriteCSVExport(p, base)
		if err != nil {
			return nil, fmt.Errorf("CSV export failed: %w", err)
		}
		return []string{res.TracksFile, res.MetadataFile}, nil
	case "markdown":
		res, err := formatter.WriteMarkdownExport(ctx, p, base, formatter.MarkdownOpts{Client: opts.CoverClient})
		if err != nil {
			return nil, fmt.Errorf("markdown export failed: %w", err)
		}
		return res.Files, nil
	case "txt":
		path, err := formatter.WriteTextExport(p, base+"_tracks.txt")
		if err != nil {
			return nil, fmt.Errorf("text export failed: %w", err)
		}
		return []string{path}, nil
	default:
		data, err := shared.MarshalJSON(p, true)
		if err != nil {
			return nil, fmt.Errorf("JSON marshal failed: %w", err)
		}
		path := base + ".json"
		if err := os.WriteFile(path, data, 0644); err != nil {
			return nil, fmt.Errorf("JSON write failed: %w", err)
		}
		return []string{path}, nil
	}
}
