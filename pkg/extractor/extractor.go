// Package extractor turns gathered page CSS into the final list of font
// records: it computes the set of families the page actually uses,
// filters @font-face candidates against it, and collapses format
// variants by quality rank. It also annotates records with reachability
// information.
package extractor

import (
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/hellenic-development/webfont-extractor/pkg/css"
	"github.com/hellenic-development/webfont-extractor/pkg/fetcher"
	"github.com/hellenic-development/webfont-extractor/pkg/font"
)

// Options controls extraction behavior.
type Options struct {
	// AllFormats keeps every format variant of each family, deduplicated
	// only by exact source URL. When false (the default) each
	// family/weight/style group keeps its single best-ranked format.
	AllFormats bool

	// Policy overrides the selector policy used to decide which CSS
	// rules count as page content. Nil applies css.DefaultPolicy.
	Policy *css.Policy
}

// Extract runs the analysis pipeline over an already-gathered page and
// returns the discovered font records in stable parse order. An empty
// result means the page uses no matching web fonts; it is not an error.
func Extract(page *fetcher.Page, opts Options) []font.Record {
	policy := opts.Policy
	if policy == nil {
		policy = css.DefaultPolicy()
	}

	// Live families: referenced by a content-affecting rule in any
	// stylesheet, or by any inline style attribute.
	live := make(map[string]bool)
	for _, sheet := range page.Sheets {
		for _, family := range css.UsedFamilies(sheet.Content, policy) {
			live[strings.ToLower(family)] = true
		}
	}
	for _, attr := range page.InlineStyleValues {
		for _, family := range css.FamiliesInStyleAttr(attr, policy) {
			live[strings.ToLower(family)] = true
		}
	}

	var candidates []font.Record
	for _, sheet := range page.Sheets {
		candidates = append(candidates, css.ParseFontFaces(sheet.Content, sheet.BaseURL)...)
	}

	used := make([]font.Record, 0, len(candidates))
	for _, rec := range candidates {
		if live[strings.ToLower(rec.Family)] {
			used = append(used, rec)
		}
	}

	if opts.AllFormats {
		return dedupeByURL(used)
	}
	return bestFormatPerVariant(used)
}

// dedupeByURL drops records whose exact source URL was already seen,
// preserving order.
func dedupeByURL(records []font.Record) []font.Record {
	seen := make(map[string]bool, len(records))
	result := make([]font.Record, 0, len(records))
	for _, rec := range records {
		if seen[rec.SourceURL] {
			continue
		}
		seen[rec.SourceURL] = true
		result = append(result, rec)
	}
	return result
}

// bestFormatPerVariant keeps one record per family/weight/style group:
// the highest format rank, first-seen winning ties. The family part of
// the key is lowercased to match the case-insensitive family
// comparisons used everywhere else. Group order follows first
// appearance.
func bestFormatPerVariant(records []font.Record) []font.Record {
	best := make(map[string]font.Record, len(records))
	var order []string

	for _, rec := range records {
		key := strings.ToLower(rec.Family) + "|" + rec.Weight + "|" + rec.Style
		current, exists := best[key]
		if !exists {
			best[key] = rec
			order = append(order, key)
			continue
		}
		if rec.Format.Rank() > current.Format.Rank() {
			best[key] = rec
		}
	}

	result := make([]font.Record, 0, len(order))
	for _, key := range order {
		result = append(result, best[key])
	}
	return result
}

// CheckAccessibility probes every remote record concurrently and
// returns the records with Accessible and SizeBytes populated. Inline
// records pass through accessible, with no network call. A probe
// failure marks its record inaccessible; it never surfaces as an error.
func CheckAccessibility(client *fetcher.Client, records []font.Record) []font.Record {
	checked := make([]font.Record, len(records))

	var g errgroup.Group
	for i, rec := range records {
		i, rec := i, rec
		if rec.IsInline {
			rec.Accessible = true
			checked[i] = rec
			continue
		}

		g.Go(func() error {
			ok, size, err := client.Probe(rec.SourceURL)
			if err != nil {
				rec.Accessible = false
			} else {
				rec.Accessible = ok
				if size > 0 {
					rec.SizeBytes = size
				}
			}
			checked[i] = rec
			return nil
		})
	}
	_ = g.Wait() // probe goroutines never return errors

	return checked
}
