// Package downloader persists selected font records to disk. Filenames
// are derived from the font metadata and made collision-safe with
// integer suffixes; downloads run strictly in order so the collision
// scheme can observe prior writes and progress stays monotonic.
package downloader

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"

	"github.com/hellenic-development/webfont-extractor/pkg/fetcher"
	"github.com/hellenic-development/webfont-extractor/pkg/font"
	"github.com/hellenic-development/webfont-extractor/pkg/urlutil"
)

// Outcome reports the result of one download attempt. A failed download
// never aborts the remaining records; the error is captured here.
type Outcome struct {
	Record   font.Record
	FilePath string // set on success
	Err      error  // nil on success
}

// Success reports whether the download completed and the file was
// written.
func (o Outcome) Success() bool {
	return o.Err == nil
}

// ProgressFunc receives the number of completed attempts and the total
// after every download, successful or not.
type ProgressFunc func(completed, total int)

// DefaultDir returns the user's downloads directory, falling back to
// ~/Downloads when the platform does not advertise one.
func DefaultDir() string {
	if dir := xdg.UserDirs.Download; dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "Downloads"
	}
	return filepath.Join(home, "Downloads")
}

// Download persists one font record into destDir, creating the
// directory if needed. Existing files are never overwritten: when the
// generated name is taken, "_1", "_2", ... suffixes are probed until a
// free path is found. Inline records are decoded from their base64
// payload; remote records are fetched over HTTP. All failures are
// captured in the Outcome.
func Download(client *fetcher.Client, rec font.Record, destDir string) Outcome {
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return Outcome{Record: rec, Err: fmt.Errorf("creating directory %q: %w", destDir, err)}
	}

	base := baseFilename(rec)
	ext := rec.Format.Extension()
	path := filepath.Join(destDir, base+ext)
	for counter := 1; pathExists(path); counter++ {
		path = filepath.Join(destDir, fmt.Sprintf("%s_%d%s", base, counter, ext))
	}

	data, err := fontBytes(client, rec)
	if err != nil {
		return Outcome{Record: rec, Err: err}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return Outcome{Record: rec, Err: fmt.Errorf("writing %q: %w", path, err)}
	}

	return Outcome{Record: rec, FilePath: path}
}

// DownloadAll processes records strictly in order, invoking onProgress
// after each attempt regardless of its outcome. A nil onProgress is
// allowed.
func DownloadAll(client *fetcher.Client, records []font.Record, destDir string, onProgress ProgressFunc) []Outcome {
	outcomes := make([]Outcome, 0, len(records))
	total := len(records)

	for i, rec := range records {
		outcomes = append(outcomes, Download(client, rec, destDir))
		if onProgress != nil {
			onProgress(i+1, total)
		}
	}

	return outcomes
}

func fontBytes(client *fetcher.Client, rec font.Record) ([]byte, error) {
	if rec.IsInline {
		if rec.InlinePayload == "" {
			return nil, fmt.Errorf("inline font %q has no base64 payload", rec.Family)
		}
		data, err := base64.StdEncoding.DecodeString(rec.InlinePayload)
		if err != nil {
			return nil, fmt.Errorf("decoding inline font %q: %w", rec.Family, err)
		}
		return data, nil
	}

	data, err := client.FetchBytes(rec.SourceURL)
	if err != nil {
		return nil, fmt.Errorf("downloading %q: %w", rec.Family, err)
	}
	return data, nil
}

// baseFilename builds the extension-less filename for a record:
// sanitized family, plus weight and style tokens when they differ from
// the Regular/normal defaults.
func baseFilename(rec font.Record) string {
	name := rec.Family
	if rec.Weight != "" && rec.Weight != "Regular" {
		name += "-" + rec.Weight
	}
	if rec.Style != "" {
		name += "-" + font.TitleStyle(rec.Style)
	}

	base := urlutil.SanitizeFilename(name)
	if base == "" {
		base = "font"
	}
	return base
}

func pathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
