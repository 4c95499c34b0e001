package css

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrPolicyNotFound is returned when the policy file does not exist.
var ErrPolicyNotFound = errors.New("policy file not found")

// Policy decides which CSS rules count as genuine page content when
// collecting used font families. It is data, not code: the default lists
// below are a heuristic and can be replaced wholesale from a YAML file
// without touching the analyzer.
type Policy struct {
	// SkipPatterns are case-insensitive regular expressions matched
	// against whole selectors. A match rejects the rule; these identify
	// library and widget fonts (math renderers, syntax highlighters,
	// icon fonts) whose families are not page content.
	SkipPatterns []string `yaml:"skip_patterns"`

	// PrimaryTags are structural/content element selectors. A rule is
	// accepted when its selector contains one of these as a whole token.
	PrimaryTags []string `yaml:"primary_tags"`

	// ContainerPrefixes are conventional container class names; a
	// selector starting with ".<prefix>" is accepted.
	ContainerPrefixes []string `yaml:"container_prefixes"`

	// GenericFamilies are CSS keyword families that never name a real
	// font asset and are dropped from font-family values.
	GenericFamilies []string `yaml:"generic_families"`

	skip      []*regexp.Regexp
	tags      []*regexp.Regexp
	container *regexp.Regexp
	generic   map[string]bool
}

// DefaultPolicy returns the built-in selector policy, compiled and ready
// for use.
func DefaultPolicy() *Policy {
	p := &Policy{
		SkipPatterns: []string{
			`\.katex`, `\.math`, `\.latex`, `\.mathjax`,
			`\.hljs`, `\.highlight`, `\.prism`, `\.syntax`,
			`\.fa-`, `\.icon`, `\.material-icons`,
			`\.emoji`, `\.flag-`,
		},
		PrimaryTags: []string{
			"body", "html", ":root", "*",
			"p", "h1", "h2", "h3", "h4", "h5", "h6",
			"a", "span", "div", "li", "ul", "ol",
			"main", "article", "section", "header", "footer", "nav", "aside",
			"button", "input", "textarea", "label", "form",
			"td", "th", "table", "caption",
			"blockquote", "pre", "code", "em", "strong", "b", "i",
		},
		ContainerPrefixes: []string{
			"container", "wrapper", "content", "main", "page", "app", "root", "layout",
		},
		GenericFamilies: []string{
			"serif", "sans-serif", "monospace", "cursive", "fantasy",
			"system-ui", "ui-serif", "ui-sans-serif", "ui-monospace", "ui-rounded",
			"inherit", "initial", "unset", "revert",
		},
	}
	if err := p.Compile(); err != nil {
		// The default lists are constants; a compile failure is a bug.
		panic(err)
	}
	return p
}

// LoadPolicy reads a selector policy from a YAML file. Sections left
// empty in the file keep their built-in defaults. Returns
// ErrPolicyNotFound when the file does not exist.
func LoadPolicy(path string) (*Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrPolicyNotFound
		}
		return nil, err
	}

	var loaded Policy
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return nil, fmt.Errorf("parsing policy file %s: %w", path, err)
	}

	p := DefaultPolicy()
	if len(loaded.SkipPatterns) > 0 {
		p.SkipPatterns = loaded.SkipPatterns
	}
	if len(loaded.PrimaryTags) > 0 {
		p.PrimaryTags = loaded.PrimaryTags
	}
	if len(loaded.ContainerPrefixes) > 0 {
		p.ContainerPrefixes = loaded.ContainerPrefixes
	}
	if len(loaded.GenericFamilies) > 0 {
		p.GenericFamilies = loaded.GenericFamilies
	}

	if err := p.Compile(); err != nil {
		return nil, fmt.Errorf("compiling policy file %s: %w", path, err)
	}
	return p, nil
}

// Compile builds the matchers from the list data. It must be called
// after any of the list fields are modified.
func (p *Policy) Compile() error {
	p.skip = p.skip[:0]
	for _, pat := range p.SkipPatterns {
		re, err := regexp.Compile(`(?i)` + pat)
		if err != nil {
			return fmt.Errorf("invalid skip pattern %q: %w", pat, err)
		}
		p.skip = append(p.skip, re)
	}

	p.tags = p.tags[:0]
	for _, tag := range p.PrimaryTags {
		// Match the tag as a whole selector token: "body", ".nav body",
		// "body.dark" — but not "tbody".
		re, err := regexp.Compile(`(^|[\s,>+~])` + regexp.QuoteMeta(strings.ToLower(tag)) + `([\s,>+~.#:\[]|$)`)
		if err != nil {
			return fmt.Errorf("invalid primary tag %q: %w", tag, err)
		}
		p.tags = append(p.tags, re)
	}

	p.container = nil
	if len(p.ContainerPrefixes) > 0 {
		quoted := make([]string, len(p.ContainerPrefixes))
		for i, pre := range p.ContainerPrefixes {
			quoted[i] = regexp.QuoteMeta(pre)
		}
		re, err := regexp.Compile(`(?i)^\.(` + strings.Join(quoted, "|") + `)`)
		if err != nil {
			return fmt.Errorf("invalid container prefixes: %w", err)
		}
		p.container = re
	}

	p.generic = make(map[string]bool, len(p.GenericFamilies))
	for _, g := range p.GenericFamilies {
		p.generic[strings.ToLower(g)] = true
	}
	return nil
}

// IsPrimarySelector reports whether selector targets genuine page
// content. Skip patterns are checked first; a library match rejects the
// selector even when it also mentions a primary tag.
func (p *Policy) IsPrimarySelector(selector string) bool {
	for _, re := range p.skip {
		if re.MatchString(selector) {
			return false
		}
	}

	lower := strings.ToLower(selector)
	for i, re := range p.tags {
		if lower == strings.ToLower(p.PrimaryTags[i]) || re.MatchString(lower) {
			return true
		}
	}

	return p.container != nil && p.container.MatchString(selector)
}

// IsGenericFamily reports whether name is a CSS keyword family
// (sans-serif, system-ui, inherit, ...) rather than a real font name.
func (p *Policy) IsGenericFamily(name string) bool {
	return p.generic[strings.ToLower(name)]
}
