package webfontextractor

import (
	"fmt"
	"time"

	"github.com/hellenic-development/webfont-extractor/pkg/css"
	"github.com/hellenic-development/webfont-extractor/pkg/downloader"
	"github.com/hellenic-development/webfont-extractor/pkg/extractor"
	"github.com/hellenic-development/webfont-extractor/pkg/fetcher"
	"github.com/hellenic-development/webfont-extractor/pkg/font"
	"github.com/hellenic-development/webfont-extractor/pkg/formatter"
	"github.com/hellenic-development/webfont-extractor/pkg/urlutil"
)

// Version of the webfont-extractor module.
const Version = "1.0.0"

// Options configures the extraction.
type Options struct {
	// PageURL is the page to extract fonts from. It must be an absolute
	// http or https URL.
	PageURL string

	// AllFormats keeps every format variant per family instead of only
	// the best-ranked one.
	AllFormats bool

	// PolicyFile optionally points to a YAML selector policy; empty
	// applies the built-in defaults.
	PolicyFile string

	// SkipAccessibilityCheck disables the reachability probes; records
	// then keep their placeholder Accessible value.
	SkipAccessibilityCheck bool

	// Timeout bounds each HTTP request. Zero applies
	// fetcher.DefaultTimeout.
	Timeout time.Duration

	// DownloadFonts persists the discovered fonts to DownloadDir.
	DownloadFonts bool

	// DownloadDir receives the font files; empty means the user's
	// downloads directory.
	DownloadDir string

	// IncludeInaccessible also downloads fonts whose probe failed.
	IncludeInaccessible bool

	// OnProgress, when set, receives (completed, total) after every
	// download attempt.
	OnProgress downloader.ProgressFunc

	Logger Logger // nil = no logging
}

// Logger receives progress messages. A nil Logger means silent operation.
type Logger interface {
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// Result contains the extraction output.
type Result struct {
	PageURL   string
	Fonts     []font.Record
	Markdown  string // formatted markdown report
	Downloads []downloader.Outcome
}

func (o *Options) logInfo(f string, a ...any) {
	if o.Logger != nil {
		o.Logger.Infof(f, a...)
	}
}

func (o *Options) logWarn(f string, a ...any) {
	if o.Logger != nil {
		o.Logger.Warnf(f, a...)
	}
}

// Run executes the font extraction pipeline and returns the result.
// The returned error covers only failures that invalidate the whole
// operation: an invalid target URL, an unloadable policy file, or an
// unreachable page. Broken individual stylesheets and failed probes
// degrade the result instead; a page using no web fonts yields an empty
// Fonts list and no error.
func Run(opts Options) (*Result, error) {
	if !urlutil.IsValid(opts.PageURL) {
		return nil, fmt.Errorf("invalid URL %q: must be an absolute http or https URL", opts.PageURL)
	}

	policy := css.DefaultPolicy()
	if opts.PolicyFile != "" {
		loaded, err := css.LoadPolicy(opts.PolicyFile)
		if err != nil {
			return nil, fmt.Errorf("load selector policy: %w", err)
		}
		policy = loaded
	}

	client := fetcher.NewClient(opts.Timeout)

	opts.logInfo("Fetching %s...", urlutil.Domain(opts.PageURL))
	page, err := client.GatherStylesheets(opts.PageURL)
	if err != nil {
		return nil, fmt.Errorf("gather stylesheets: %w", err)
	}
	opts.logInfo("Collected %d stylesheet(s)", len(page.Sheets))

	fonts := extractor.Extract(page, extractor.Options{
		AllFormats: opts.AllFormats,
		Policy:     policy,
	})
	opts.logInfo("Found %d font(s) in use", len(fonts))

	if !opts.SkipAccessibilityCheck && len(fonts) > 0 {
		opts.logInfo("Checking font accessibility...")
		fonts = extractor.CheckAccessibility(client, fonts)
	}

	result := &Result{
		PageURL:  opts.PageURL,
		Fonts:    fonts,
		Markdown: formatter.ToMarkdown(fonts, opts.PageURL),
	}

	if opts.DownloadFonts && len(fonts) > 0 {
		result.Downloads = downloadFonts(&opts, client, fonts)
	}

	return result, nil
}

// downloadFonts persists the selected records, skipping inaccessible
// ones unless the caller opted in.
func downloadFonts(opts *Options, client *fetcher.Client, fonts []font.Record) []downloader.Outcome {
	selected := make([]font.Record, 0, len(fonts))
	for _, rec := range fonts {
		if !rec.Accessible && !opts.IncludeInaccessible {
			opts.logWarn("Skipping inaccessible font %s (%s)", rec.Family, rec.Variant())
			continue
		}
		selected = append(selected, rec)
	}

	destDir := opts.DownloadDir
	if destDir == "" {
		destDir = downloader.DefaultDir()
	}

	opts.logInfo("Downloading %d font(s) to %s...", len(selected), destDir)
	outcomes := downloader.DownloadAll(client, selected, destDir, opts.OnProgress)

	for _, outcome := range outcomes {
		if !outcome.Success() {
			opts.logWarn("%v", outcome.Err)
		}
	}
	return outcomes
}
