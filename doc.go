// Package webfontextractor locates the web fonts a page actually
// renders with, resolves them to downloadable locations, verifies
// reachability, and retrieves them to local storage under
// collision-safe names. It parses HTML and CSS without a browser
// engine: stylesheets are gathered recursively through @import,
// @font-face declarations become candidate records, and a selector
// policy separates families used by page content from decorative
// library fonts (icons, math renderers, syntax highlighters).
//
// The CLI lives in cmd/webfont-extractor; this root package exposes the
// same pipeline as a Go API so that callers can embed extraction in
// their own tools without shelling out.
//
// # Import
//
// The module path contains a hyphen but Go package names cannot, so the
// package is named webfontextractor:
//
//	import "github.com/hellenic-development/webfont-extractor" // package webfontextractor
//
// # Quick start
//
//	result, err := webfontextractor.Run(webfontextractor.Options{
//	    PageURL:       "https://example.com",
//	    DownloadFonts: true,
//	    DownloadDir:   "fonts",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, rec := range result.Fonts {
//	    fmt.Println(rec.Family, rec.Variant(), rec.Format)
//	}
//
// # Logging
//
// Pass a [Logger] implementation in [Options.Logger] to receive progress
// messages. A nil Logger silences all output.
//
//	type myLogger struct{}
//	func (l *myLogger) Infof(f string, a ...any)  { log.Printf("[INFO]  "+f, a...) }
//	func (l *myLogger) Warnf(f string, a ...any)  { log.Printf("[WARN]  "+f, a...) }
//	func (l *myLogger) Errorf(f string, a ...any) { log.Printf("[ERROR] "+f, a...) }
//
// # Selector policy
//
// Which CSS rules count as "page content" is heuristic policy data, not
// parser logic. The defaults live in css.DefaultPolicy; point
// [Options.PolicyFile] at a YAML file to tune the allow/deny lists
// without rebuilding.
//
// # Formats
//
// By default each family/weight/style keeps only its best container
// format (woff2 ranks highest, then woff, ttf, otf, eot). Set
// [Options.AllFormats] to keep every variant, deduplicated by URL.
package webfontextractor
