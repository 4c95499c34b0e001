// Package font defines the font asset model shared across the pipeline:
// the discovered Record, the container Format with its quality ranking,
// and CSS weight normalization.
package font

import "strings"

// Format identifies a web font container format.
type Format string

// Recognized font container formats, plus Unknown for anything that
// cannot be classified.
const (
	WOFF2   Format = "woff2"
	WOFF    Format = "woff"
	TTF     Format = "ttf"
	OTF     Format = "otf"
	EOT     Format = "eot"
	Unknown Format = "unknown"
)

// Rank returns the quality ordering used to pick the best variant per
// family/weight/style group. Higher is better.
func (f Format) Rank() int {
	switch f {
	case WOFF2:
		return 5
	case WOFF:
		return 4
	case TTF:
		return 3
	case OTF:
		return 2
	case EOT:
		return 1
	default:
		return 0
	}
}

// Extension returns the file extension (with leading dot) used when the
// format is persisted to disk. Unknown formats fall back to ".font".
func (f Format) Extension() string {
	switch f {
	case WOFF2, WOFF, TTF, OTF, EOT:
		return "." + string(f)
	default:
		return ".font"
	}
}

// Record represents one discovered font asset.
type Record struct {
	// Family as declared in @font-face, case preserved. Comparisons
	// elsewhere are case-insensitive.
	Family string

	// SourceURL is the absolute URL of the asset, or the full data: URI
	// for inline fonts.
	SourceURL string

	Format Format

	// Weight is the normalized human-readable weight name ("Bold").
	// Empty means Regular.
	Weight string

	// Style is the lowercase style keyword ("italic"). Empty means normal.
	Style string

	// Accessible is populated by the accessibility check. Inline records
	// are always accessible.
	Accessible bool

	// IsInline is true when SourceURL is a data: URI.
	IsInline bool

	// InlinePayload holds the base64 text of an inline asset.
	InlinePayload string

	// SizeBytes is taken from a successful reachability probe; 0 means
	// unknown.
	SizeBytes int64
}

// Variant returns a short human-readable weight/style description,
// defaulting to "Regular".
func (r Record) Variant() string {
	parts := make([]string, 0, 2)
	if r.Weight != "" && r.Weight != "Regular" {
		parts = append(parts, r.Weight)
	}
	if r.Style != "" {
		parts = append(parts, TitleStyle(r.Style))
	}
	if len(parts) == 0 {
		return "Regular"
	}
	return strings.Join(parts, " ")
}

// TitleStyle upper-cases the first letter of a style keyword for
// filenames and display ("italic" -> "Italic").
func TitleStyle(style string) string {
	if style == "" {
		return ""
	}
	return strings.ToUpper(style[:1]) + style[1:]
}

// hintFormats maps substrings of format() hints and data: URI MIME types
// to formats. Order matters: woff2 must be tested before woff.
var hintFormats = []struct {
	substr string
	format Format
}{
	{"woff2", WOFF2},
	{"woff", WOFF},
	{"truetype", TTF},
	{"ttf", TTF},
	{"embedded-opentype", EOT},
	{"vnd.ms-fontobject", EOT},
	{"opentype", OTF},
	{"otf", OTF},
	{"eot", EOT},
}

// Classify determines the container format of a font URL. An explicit
// hint (the format(...) value of a src entry, or a MIME type embedded in
// a data: URI) takes precedence over extension inference on the URL
// itself. Matching is case-insensitive and by substring, so hints like
// "truetype-variations" still classify as TTF.
func Classify(rawURL, hint string) Format {
	if hint != "" {
		if f, ok := matchHint(hint); ok {
			return f
		}
	}

	lower := strings.ToLower(rawURL)
	switch {
	case strings.Contains(lower, ".woff2"):
		return WOFF2
	case strings.Contains(lower, ".woff"):
		return WOFF
	case strings.Contains(lower, ".ttf"):
		return TTF
	case strings.Contains(lower, ".otf"):
		return OTF
	case strings.Contains(lower, ".eot"):
		return EOT
	}

	// Data URIs carry their MIME type before the payload.
	if strings.HasPrefix(lower, "data:") {
		if f, ok := matchHint(lower); ok {
			return f
		}
	}

	return Unknown
}

func matchHint(hint string) (Format, bool) {
	lower := strings.ToLower(hint)
	for _, h := range hintFormats {
		if strings.Contains(lower, h.substr) {
			return h.format, true
		}
	}
	return Unknown, false
}

// weightNames maps numeric CSS weights and the normal/bold keywords to
// canonical names.
var weightNames = map[string]string{
	"100":    "Thin",
	"200":    "ExtraLight",
	"300":    "Light",
	"400":    "Regular",
	"normal": "Regular",
	"500":    "Medium",
	"600":    "SemiBold",
	"700":    "Bold",
	"bold":   "Bold",
	"800":    "ExtraBold",
	"900":    "Black",
}

// NormalizeWeight maps a CSS font-weight value to its canonical name
// (Thin through Black). Unrecognized input passes through verbatim.
func NormalizeWeight(raw string) string {
	if name, ok := weightNames[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return name
	}
	return raw
}
