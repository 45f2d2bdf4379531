// package formatter renders playlists for backup and display (CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/yamusic/internal/models"
	"github.com/desertthunder/yamusic/internal/shared"
)

// BackupHeader is the header row of a playlist backup.
var BackupHeader = []string{"playlist", "artist", "title", "album"}

// BackupRow is one track of a playlist backup.
//
// Artist and Album come from the first artist and album of the track and are empty when the track has none.
type BackupRow struct {
	Playlist string
	Artist   string
	Title    string
	Album    string
}

func (r BackupRow) Record() []string {
	return []string{r.Playlist, r.Artist, r.Title, r.Album}
}

// BackupRows flattens a playlist into backup rows in track order.
func BackupRows(p models.Playlist[models.Track]) []BackupRow {
	rows := make([]BackupRow, 0, len(p.Tracks))
	for track := range p.All() {
		row := BackupRow{Playlist: p.Title, Title: track.Title}
		if len(track.Artists) > 0 {
			row.Artist = track.Artists[0].Name
		}
		if len(track.Albums) > 0 {
			row.Album = track.Albums[0].Title
		}
		rows = append(rows, row)
	}
	return rows
}

// WriteBackupCSV writes the header and rows to w.
func WriteBackupCSV(w io.Writer, rows []BackupRow) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(BackupHeader); err != nil {
		return fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, row := range rows {
		if err := writer.Write(row.Record()); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("CSV writer error: %w", err)
	}
	return nil
}

// ExportToCSV renders a single playlist as a backup CSV.
func ExportToCSV(p models.Playlist[models.Track]) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteBackupCSV(&buf, BackupRows(p)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ExportToMarkdown renders a playlist as Markdown with an optional cover image
func ExportToMarkdown(p models.Playlist[models.Track], imageFilename string) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# %s\n\n", p.Title)

	if imageFilename != "" {
		fmt.Fprintf(&buf, "![Cover](%s)\n\n", imageFilename)
	}

	if owner := ownerName(p.Owner); owner != "" {
		fmt.Fprintf(&buf, "**Owner**: %s\n", owner)
	}
	fmt.Fprintf(&buf, "**Tracks**: %d\n", len(p.Tracks))
	if p.Visibility != nil {
		fmt.Fprintf(&buf, "**Visibility**: %s\n", *p.Visibility)
	}
	if p.DurationMs > 0 {
		fmt.Fprintf(&buf, "**Duration**: %s\n", shared.FormatDuration(p.DurationMs))
	}
	buf.WriteString("\n## Tracks\n\n")

	i := 0
	for track := range p.All() {
		i++
		albumPart := ""
		if len(track.Albums) > 0 && track.Albums[0].Title != "" {
			albumPart = fmt.Sprintf(" (%s)", track.Albums[0].Title)
		}
		fmt.Fprintf(&buf, "%d. %s%s [%s]\n", i, track, albumPart, shared.FormatDuration(track.DurationMs))
	}

	return buf.Bytes(), nil
}

// ExportToText renders a playlist as a plain text listing
func ExportToText(p models.Playlist[models.Track]) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "Playlist: %s\n", p.Title)
	if owner := ownerName(p.Owner); owner != "" {
		fmt.Fprintf(&buf, "Owner: %s\n", owner)
	}
	fmt.Fprintf(&buf, "Tracks: %d\n\n", len(p.Tracks))

	i := 0
	for track := range p.All() {
		i++
		fmt.Fprintf(&buf, "%d. %s\n", i, track)
	}

	return buf.Bytes(), nil
}

// Metadata is the JSON manifest written next to a playlist export.
type Metadata struct {
	Kind       int64              `json:"kind"`
	Title      string             `json:"title"`
	OwnerUID   int64              `json:"ownerUid"`
	OwnerLogin string             `json:"ownerLogin,omitempty"`
	TrackCount int64              `json:"trackCount"`
	DurationMs int64              `json:"durationMs,omitempty"`
	Revision   *int64             `json:"revision,omitempty"`
	Visibility *models.Visibility `json:"visibility,omitempty"`
	Created    *time.Time         `json:"created,omitempty"`
	Modified   *time.Time         `json:"modified,omitempty"`
	Cover      string             `json:"cover,omitempty"`
}

// NewMetadata captures the playlist fields kept in a manifest (tracks excluded).
func NewMetadata[T models.PlaylistItem](p models.Playlist[T]) Metadata {
	return Metadata{
		Kind:       p.Kind,
		Title:      p.Title,
		OwnerUID:   p.Owner.UID,
		OwnerLogin: p.Owner.Login,
		TrackCount: p.TrackCount,
		DurationMs: p.DurationMs,
		Revision:   p.Revision,
		Visibility: p.Visibility,
		Created:    p.Created,
		Modified:   p.Modified,
		Cover:      CoverURL(p.Cover, ""),
	}
}

// ToMetadataJSON generates the JSON manifest of a playlist
func ToMetadataJSON[T models.PlaylistItem](p models.Playlist[T]) ([]byte, error) {
	return shared.MarshalJSON(NewMetadata(p), true)
}

// CoverURL builds an image URL from a playlist cover.
//
// Covers carry a host-relative uri with a "%%" size placeholder; size defaults to 400x400.
// Mosaic covers without a uri yield an empty string.
func CoverURL(cover map[string]any, size string) string {
	uri, _ := cover["uri"].(string)
	if uri == "" {
		return ""
	}
	if size == "" {
		size = "400x400"
	}
	return "https://" + strings.Replace(uri, "%%", size, 1)
}

// DownloadImage fetches an image and returns the raw bytes
func DownloadImage(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	if url == "" {
		return nil, fmt.Errorf("%w: empty URL provided", shared.ErrMissingArgument)
	}
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download image: status %d", resp.StatusCode)
	}

	imageData, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}
	return imageData, nil
}

// BaseName is the default file stem of a playlist export: {owner uid}_{kind}.
func BaseName[T models.PlaylistItem](p models.Playlist[T]) string {
	return strconv.FormatInt(p.Owner.UID, 10) + "_" + strconv.FormatInt(p.Kind, 10)
}

// CSVExportResult contains the paths of files created by WriteCSVExport
type CSVExportResult struct {
	TracksFile   string
	MetadataFile string
}

// WriteCSVExport exports a playlist to CSV with an accompanying metadata JSON file.
//
// Creates {base}_tracks.csv and {base}_metadata.json; base defaults to [BaseName].
func WriteCSVExport(p models.Playlist[models.Track], baseFilepath string) (*CSVExportResult, error) {
	if baseFilepath == "" {
		baseFilepath = BaseName(p)
	}

	csvData, err := ExportToCSV(p)
	if err != nil {
		return nil, fmt.Errorf("failed to generate CSV: %w", err)
	}

	tracksFile := baseFilepath + "_tracks.csv"
	if err := os.WriteFile(tracksFile, csvData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write CSV file: %w", err)
	}

	metadataJSON, err := ToMetadataJSON(p)
	if err != nil {
		return nil, fmt.Errorf("failed to generate metadata JSON: %w", err)
	}

	metadataFile := baseFilepath + "_metadata.json"
	if err := os.WriteFile(metadataFile, metadataJSON, 0644); err != nil {
		return nil, fmt.Errorf("failed to write metadata file: %w", err)
	}

	return &CSVExportResult{TracksFile: tracksFile, MetadataFile: metadataFile}, nil
}

// MarkdownExportResult contains information about files created by WriteMarkdownExport
type MarkdownExportResult struct {
	Directory  string
	Files      []string
	CoverImage string
}

// MarkdownOpts controls cover handling for WriteMarkdownExport.
//
// A nil Client skips the cover download.
type MarkdownOpts struct {
	Client *http.Client
	Warn   io.Writer
}

// WriteMarkdownExport exports a playlist to {dir}/README.md and, when a cover can be fetched, {dir}/cover.jpg.
//
// The directory defaults to [BaseName]. A failed cover download is reported to opts.Warn and does not fail the export.
func WriteMarkdownExport(ctx context.Context, p models.Playlist[models.Track], outputDir string, opts MarkdownOpts) (*MarkdownExportResult, error) {
	if outputDir == "" {
		outputDir = BaseName(p)
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	result := &MarkdownExportResult{Directory: outputDir, Files: []string{}}
	warn := opts.Warn
	if warn == nil {
		warn = io.Discard
	}

	var coverImageFilename string
	if url := CoverURL(p.Cover, ""); url != "" && opts.Client != nil {
		imageData, err := DownloadImage(ctx, opts.Client, url)
		if err != nil {
			fmt.Fprintf(warn, "Warning: failed to download cover image: %v\n", err)
		} else {
			coverImageFilename = "cover.jpg"
			coverImagePath := filepath.Join(outputDir, coverImageFilename)
			if err := os.WriteFile(coverImagePath, imageData, 0644); err != nil {
				fmt.Fprintf(warn, "Warning: failed to save cover image: %v\n", err)
				coverImageFilename = ""
			} else {
				result.CoverImage = coverImagePath
				result.Files = append(result.Files, coverImagePath)
			}
		}
	}

	mdData, err := ExportToMarkdown(p, coverImageFilename)
	if err != nil {
		return nil, fmt.Errorf("failed to generate Markdown: %w", err)
	}

	mdFile := filepath.Join(outputDir, "README.md")
	if err := os.WriteFile(mdFile, mdData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write Markdown file: %w", err)
	}
	result.Files = append(result.Files, mdFile)

	return result, nil
}

// WriteTextExport exports a playlist to plain text, defaulting to {base}_tracks.txt.
func WriteTextExport(p models.Playlist[models.Track], path string) (string, error) {
	if path == "" {
		path = BaseName(p) + "_tracks.txt"
	}

	textData, err := ExportToText(p)
	if err != nil {
		return "", fmt.Errorf("failed to generate text: %w", err)
	}

	if err := os.WriteFile(path, textData, 0644); err != nil {
		return "", fmt.Errorf("failed to write text file: %w", err)
	}
	return path, nil
}

func ownerName(u models.User) string {
	if u.Name != "" {
		return u.Name
	}
	return u.Login
}
