package formatter

import (
	"fmt"
	"strings"

	"github.com/hellenic-development/webfont-extractor/pkg/font"
	"github.com/hellenic-development/webfont-extractor/pkg/urlutil"
)

// ToMarkdown renders the discovered font records as a markdown report
// for the page at pageURL: one table row per record with its family,
// variant, format, size, reachability, and source.
func ToMarkdown(records []font.Record, pageURL string) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("# Web Fonts - %s\n\n", urlutil.Domain(pageURL)))
	sb.WriteString(fmt.Sprintf("Fonts used by <%s>.\n\n", pageURL))

	if len(records) == 0 {
		sb.WriteString("No web fonts found on this page.\n")
		return sb.String()
	}

	sb.WriteString("| Family | Variant | Format | Size | Accessible | Source |\n")
	sb.WriteString("|--------|---------|--------|------|------------|--------|\n")
	for _, rec := range records {
		sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s | %s | %s |\n",
			rec.Family,
			rec.Variant(),
			strings.ToUpper(string(rec.Format)),
			formatSize(rec.SizeBytes),
			accessibleMark(rec.Accessible),
			sourceCell(rec)))
	}
	sb.WriteString("\n")

	return sb.String()
}

func accessibleMark(accessible bool) string {
	if accessible {
		return "yes"
	}
	return "no"
}

func sourceCell(rec font.Record) string {
	if rec.IsInline {
		return "inline (data URI)"
	}
	return fmt.Sprintf("<%s>", rec.SourceURL)
}

// formatSize renders a byte count in a compact human-readable unit.
// Zero means the size is unknown.
func formatSize(bytes int64) string {
	switch {
	case bytes <= 0:
		return "-"
	case bytes < 1024:
		return fmt.Sprintf("%d B", bytes)
	case bytes < 1024*1024:
		return fmt.Sprintf("%.1f KB", float64(bytes)/1024)
	default:
		return fmt.Sprintf("%.1f MB", float64(bytes)/(1024*1024))
	}
}
