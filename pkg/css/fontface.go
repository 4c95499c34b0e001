package css

import (
	"regexp"
	"strings"

	"github.com/hellenic-development/webfont-extractor/pkg/font"
	"github.com/hellenic-development/webfont-extractor/pkg/urlutil"
)

var (
	// fontFaceBodyRe is fontFaceBlockRe with the block body captured.
	fontFaceBodyRe = regexp.MustCompile(`(?is)@font-face\s*\{([^{}]*(?:\{[^{}]*\}[^{}]*)*)\}`)

	faceFamilyRe = regexp.MustCompile(`(?i)font-family\s*:\s*["']?([^"';}` + "\n" + `]+)["']?`)
	faceWeightRe = regexp.MustCompile(`(?i)font-weight\s*:\s*([^;}` + "\n" + `]+)`)
	faceStyleRe  = regexp.MustCompile(`(?i)font-style\s*:\s*([^;}` + "\n" + `]+)`)
	// The src value ends at a semicolon outside parentheses; data: URIs
	// carry semicolons inside url(...), so paren groups are consumed
	// whole.
	srcDeclRe = regexp.MustCompile(`(?i)src\s*:\s*((?:[^;()]|\([^)]*\))+)`)

	// srcEntryRe matches one url(...) entry and its optional format(...)
	// hint inside a src declaration value.
	srcEntryRe = regexp.MustCompile(`(?i)url\(\s*["']?([^"')\s]+)["']?\s*\)(?:\s*format\(\s*["']?([^"')]+)["']?\s*\))?`)
)

// ParseFontFaces extracts every @font-face block from cssText and emits
// one candidate Record per url() entry in its src declaration. A block
// without a font-family or src declaration is skipped. Relative URLs
// resolve against baseURL; data: URIs keep their base64 payload inline.
// Records start with Accessible set, to be overwritten by a later probe.
func ParseFontFaces(cssText, baseURL string) []font.Record {
	var records []font.Record

	for _, block := range fontFaceBodyRe.FindAllStringSubmatch(cssText, -1) {
		body := block[1]

		familyMatch := faceFamilyRe.FindStringSubmatch(body)
		if familyMatch == nil {
			continue
		}
		family := strings.TrimSpace(familyMatch[1])

		var weight string
		if m := faceWeightRe.FindStringSubmatch(body); m != nil {
			weight = font.NormalizeWeight(m[1])
		}

		// "normal" style is the default and stored as absent.
		var style string
		if m := faceStyleRe.FindStringSubmatch(body); m != nil {
			style = strings.ToLower(strings.TrimSpace(m[1]))
			if style == "normal" {
				style = ""
			}
		}

		srcMatch := srcDeclRe.FindStringSubmatch(body)
		if srcMatch == nil {
			continue
		}

		for _, entry := range srcEntryRe.FindAllStringSubmatch(srcMatch[1], -1) {
			rawURL, hint := entry[1], entry[2]
			records = append(records, newRecord(family, weight, style, rawURL, hint, baseURL))
		}
	}

	return records
}

func newRecord(family, weight, style, rawURL, hint, baseURL string) font.Record {
	rec := font.Record{
		Family: family,
		Weight: weight,
		Style:  style,
		Format: font.Classify(rawURL, hint),

		// Placeholder until the accessibility probe runs.
		Accessible: true,
	}

	if strings.HasPrefix(rawURL, "data:") {
		rec.IsInline = true
		rec.SourceURL = rawURL
		if idx := strings.Index(rawURL, "base64,"); idx >= 0 {
			rec.InlinePayload = rawURL[idx+len("base64,"):]
		}
	} else {
		rec.SourceURL = urlutil.Resolve(baseURL, rawURL)
	}

	return rec
}
