// Package css implements the pattern-matching side of the pipeline:
// deciding which font families a stylesheet actually uses, parsing
// @font-face blocks into candidate records, and scanning @import
// references. All matchers are package-level compiled regular
// expressions operating statelessly on the input string, so concurrent
// calls never share matcher position state.
package css

import (
	"regexp"
	"strings"
)

var (
	// fontFaceBlockRe matches a whole @font-face block, tolerating one
	// level of nested braces.
	fontFaceBlockRe = regexp.MustCompile(`(?is)@font-face\s*\{[^{}]*(?:\{[^{}]*\}[^{}]*)*\}`)

	// ruleRe matches flat "selector { declarations }" blocks. Rules
	// nested inside at-rules (media queries) still match on their own
	// because neither capture group may cross a brace.
	ruleRe = regexp.MustCompile(`(?s)([^{}]+)\{([^{}]+)\}`)

	familyDeclRe    = regexp.MustCompile(`(?i)font-family\s*:\s*([^;]+)`)
	shorthandRe     = regexp.MustCompile(`(?i)font\s*:\s*([^;]+)`)
	quotedNameRe    = regexp.MustCompile(`["']([^"']+)["']`)
	surroundQuoteRe = regexp.MustCompile(`^["']|["']$`)
)

// UsedFamilies scans CSS text and returns the font family names
// referenced by rules the policy accepts as genuine page content.
// @font-face blocks are stripped first so that declaring a family never
// counts as using it. Names keep their declared case and are
// deduplicated case-insensitively, in order of first appearance.
func UsedFamilies(cssText string, policy *Policy) []string {
	stripped := fontFaceBlockRe.ReplaceAllString(cssText, "")

	var families []string
	seen := make(map[string]bool)
	add := func(names []string) {
		for _, name := range names {
			key := strings.ToLower(name)
			if !seen[key] {
				seen[key] = true
				families = append(families, name)
			}
		}
	}

	for _, rule := range ruleRe.FindAllStringSubmatch(stripped, -1) {
		selector := strings.TrimSpace(rule[1])
		declarations := rule[2]

		if !policy.IsPrimarySelector(selector) {
			continue
		}
		add(familiesInDeclarations(declarations, policy))
	}

	return families
}

// FamiliesInStyleAttr extracts font family names from the value of an
// inline style attribute. Inline styles are attached directly to page
// elements, so the selector policy does not apply; only the generic
// family keywords are filtered out.
func FamiliesInStyleAttr(styleValue string, policy *Policy) []string {
	return familiesInDeclarations(styleValue, policy)
}

// familiesInDeclarations pulls family names out of a declaration list:
// every name in a font-family value, plus quoted names inside a font
// shorthand value.
func familiesInDeclarations(declarations string, policy *Policy) []string {
	var families []string

	if m := familyDeclRe.FindStringSubmatch(declarations); m != nil {
		families = append(families, FamiliesFromValue(m[1], policy)...)
	}

	if m := shorthandRe.FindStringSubmatch(declarations); m != nil {
		for _, quoted := range quotedNameRe.FindAllStringSubmatch(m[1], -1) {
			if name := strings.TrimSpace(quoted[1]); name != "" && !policy.IsGenericFamily(name) {
				families = append(families, name)
			}
		}
	}

	return families
}

// FamiliesFromValue splits a font-family declaration value into
// individual names, stripping quotes and dropping generic CSS keyword
// families.
func FamiliesFromValue(value string, policy *Policy) []string {
	var families []string
	for _, part := range strings.Split(value, ",") {
		name := strings.TrimSpace(surroundQuoteRe.ReplaceAllString(strings.TrimSpace(part), ""))
		if name == "" || policy.IsGenericFamily(name) {
			continue
		}
		families = append(families, name)
	}
	return families
}
