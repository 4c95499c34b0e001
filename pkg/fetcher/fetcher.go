// Package fetcher performs all network I/O for the pipeline: fetching
// the target page, discovering and recursively fetching its
// stylesheets, probing font URLs for reachability, and retrieving font
// bytes for download.
package fetcher

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/hellenic-development/webfont-extractor/pkg/css"
	"github.com/hellenic-development/webfont-extractor/pkg/urlutil"
)

const (
	// userAgent matches a modern desktop browser; several CDNs
	// refuse font and CSS requests from obvious bot agents.
	userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	acceptDocuments = "text/html,text/css,*/*"

	// DefaultTimeout bounds every request issued by a zero-configured
	// Client.
	DefaultTimeout = 30 * time.Second
)

// Stylesheet is one unit of CSS text together with the URL its relative
// references resolve against.
type Stylesheet struct {
	Content string
	BaseURL string
}

// Page holds everything gathered from a target page that the pipeline
// analyzes: every stylesheet (inline blocks, linked sheets, and their
// transitive imports) and the values of inline style attributes.
type Page struct {
	URL               string
	Sheets            []Stylesheet
	InlineStyleValues []string
}

// Client issues the HTTP requests for the pipeline with a fixed
// browser-like User-Agent.
type Client struct {
	httpClient *http.Client
}

// NewClient creates a Client. A zero timeout applies DefaultTimeout.
func NewClient(timeout time.Duration) *Client {
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	transport := &http.Transport{
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
	}

	return &Client{
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
	}
}

// FetchText retrieves the body of url as text. A transport error or
// non-2xx status is returned as an error.
func (c *Client) FetchText(url string) (string, error) {
	body, err := c.fetch(url, acceptDocuments)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// FetchBytes retrieves the raw body of url, used for font downloads.
func (c *Client) FetchBytes(url string) ([]byte, error) {
	return c.fetch(url, "*/*")
}

func (c *Client) fetch(url, accept string) ([]byte, error) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", accept)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status %d for %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}
	return body, nil
}

// Probe issues a metadata-only HEAD request against url. It reports
// whether the URL answered with a 2xx status and the Content-Length if
// the server provided one. Transport errors are returned to the caller,
// who treats them as "not accessible" rather than failing.
func (c *Client) Probe(url string) (ok bool, sizeBytes int64, err error) {
	req, err := http.NewRequest(http.MethodHead, url, nil)
	if err != nil {
		return false, 0, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, 0, fmt.Errorf("probing %s: %w", url, err)
	}
	defer resp.Body.Close()

	ok = resp.StatusCode >= 200 && resp.StatusCode < 300
	if resp.ContentLength > 0 {
		sizeBytes = resp.ContentLength
	}
	return ok, sizeBytes, nil
}

// GatherStylesheets fetches the page at pageURL and collects all CSS it
// references: inline <style> blocks anchored to the page URL, linked
// stylesheets deduplicated by resolved URL, and every stylesheet those
// reach transitively through @import. Traversal is sequential
// depth-first with a call-scoped visited set, so import cycles
// terminate and each stylesheet contributes its content exactly once.
// A failure to fetch the page itself is fatal; a failure on any linked
// or imported stylesheet silently skips that unit.
func (c *Client) GatherStylesheets(pageURL string) (*Page, error) {
	html, err := c.FetchText(pageURL)
	if err != nil {
		return nil, fmt.Errorf("fetching page: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parsing page HTML: %w", err)
	}

	page := &Page{URL: pageURL}

	doc.Find("style").Each(func(_ int, s *goquery.Selection) {
		if text := s.Text(); strings.TrimSpace(text) != "" {
			page.Sheets = append(page.Sheets, Stylesheet{Content: text, BaseURL: pageURL})
		}
	})

	doc.Find("[style]").Each(func(_ int, s *goquery.Selection) {
		if v, exists := s.Attr("style"); exists && v != "" {
			page.InlineStyleValues = append(page.InlineStyleValues, v)
		}
	})

	// Linked stylesheets, deduplicated by resolved URL. Attribute order
	// inside the tag does not matter here.
	var linked []string
	seen := make(map[string]bool)
	doc.Find("link[href]").Each(func(_ int, s *goquery.Selection) {
		rel, _ := s.Attr("rel")
		if !strings.EqualFold(strings.TrimSpace(rel), "stylesheet") {
			return
		}
		href, _ := s.Attr("href")
		if href == "" {
			return
		}
		resolved := urlutil.Resolve(pageURL, href)
		if !seen[resolved] {
			seen[resolved] = true
			linked = append(linked, resolved)
		}
	})

	visited := make(map[string]bool)
	for _, sheetURL := range linked {
		c.fetchWithImports(sheetURL, visited, &page.Sheets)
	}

	return page, nil
}

// fetchWithImports fetches one stylesheet and recurses into its @import
// references depth-first. Already-visited URLs are skipped without a
// re-fetch; unreachable stylesheets contribute nothing but do not stop
// traversal of their siblings.
func (c *Client) fetchWithImports(url string, visited map[string]bool, sheets *[]Stylesheet) {
	if visited[url] {
		return
	}
	visited[url] = true

	content, err := c.FetchText(url)
	if err != nil {
		return
	}
	*sheets = append(*sheets, Stylesheet{Content: content, BaseURL: url})

	for _, importURL := range css.ImportURLs(content, url) {
		c.fetchWithImports(importURL, visited, sheets)
	}
}
