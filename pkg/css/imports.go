package css

import (
	"regexp"

	"github.com/hellenic-development/webfont-extractor/pkg/urlutil"
)

// importRe matches both @import url("...") and bare @import "..." forms.
var importRe = regexp.MustCompile(`(?i)@import\s+(?:url\()?["']?([^"');\s]+)["']?\)?`)

// ImportURLs returns the stylesheet URLs referenced by @import
// statements in cssText, resolved against baseURL, in source order.
func ImportURLs(cssText, baseURL string) []string {
	matches := importRe.FindAllStringSubmatch(cssText, -1)
	urls := make([]string, 0, len(matches))
	for _, m := range matches {
		urls = append(urls, urlutil.Resolve(baseURL, m[1]))
	}
	return urls
}
