package fetcher

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// countingMux records how many times each path is fetched.
type countingMux struct {
	mu     sync.Mutex
	counts map[string]int
	routes map[string]string // path -> body
	status map[string]int    // path -> forced status
}

func newCountingMux() *countingMux {
	return &countingMux{
		counts: make(map[string]int),
		routes: make(map[string]string),
		status: make(map[string]int),
	}
}

func (m *countingMux) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	m.mu.Lock()
	m.counts[r.URL.Path]++
	m.mu.Unlock()

	if code, ok := m.status[r.URL.Path]; ok {
		w.WriteHeader(code)
		return
	}
	body, ok := m.routes[r.URL.Path]
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	fmt.Fprint(w, body)
}

func (m *countingMux) count(path string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.counts[path]
}

func TestGatherStylesheets(t *testing.T) {
	mux := newCountingMux()
	server := httptest.NewServer(mux)
	defer server.Close()

	mux.routes["/"] = `<html><head>
		<link rel="stylesheet" href="/css/a.css">
		<link href="/css/b.css" rel="stylesheet">
		<link rel="stylesheet" href="/css/a.css">
		<link rel="icon" href="/favicon.ico">
		<style>body { font-family: Inline; }</style>
	</head>
	<body><p style="font-family: Attr">hi</p></body></html>`
	mux.routes["/css/a.css"] = `@import url(imported.css); body { color: red; }`
	mux.routes["/css/imported.css"] = `p { font-family: Deep; }`
	mux.routes["/css/b.css"] = `h1 { font-family: Second; }`

	client := NewClient(0)
	page, err := client.GatherStylesheets(server.URL + "/")
	if err != nil {
		t.Fatalf("GatherStylesheets() error = %v", err)
	}

	// Inline <style>, a.css, its import, then b.css: depth-first order.
	wantBases := []string{
		server.URL + "/",
		server.URL + "/css/a.css",
		server.URL + "/css/imported.css",
		server.URL + "/css/b.css",
	}
	if len(page.Sheets) != len(wantBases) {
		t.Fatalf("got %d sheets, want %d: %+v", len(page.Sheets), len(wantBases), page.Sheets)
	}
	for i, want := range wantBases {
		if page.Sheets[i].BaseURL != want {
			t.Errorf("sheet %d base = %q, want %q", i, page.Sheets[i].BaseURL, want)
		}
	}

	if len(page.InlineStyleValues) != 1 || page.InlineStyleValues[0] != "font-family: Attr" {
		t.Errorf("InlineStyleValues = %v, want the one style attribute", page.InlineStyleValues)
	}

	// The duplicated <link> must not trigger a second fetch.
	if got := mux.count("/css/a.css"); got != 1 {
		t.Errorf("a.css fetched %d times, want 1", got)
	}
}

func TestGatherStylesheetsImportCycle(t *testing.T) {
	mux := newCountingMux()
	server := httptest.NewServer(mux)
	defer server.Close()

	mux.routes["/"] = `<html><head><link rel="stylesheet" href="/a.css"></head></html>`
	mux.routes["/a.css"] = `@import url(b.css); body { font-family: FromA; }`
	mux.routes["/b.css"] = `@import url(a.css); p { font-family: FromB; }`

	client := NewClient(0)
	page, err := client.GatherStylesheets(server.URL + "/")
	if err != nil {
		t.Fatalf("GatherStylesheets() error = %v", err)
	}

	if len(page.Sheets) != 2 {
		t.Fatalf("got %d sheets, want each side of the cycle exactly once", len(page.Sheets))
	}
	if mux.count("/a.css") != 1 || mux.count("/b.css") != 1 {
		t.Errorf("cycle members fetched %d and %d times, want 1 and 1",
			mux.count("/a.css"), mux.count("/b.css"))
	}
}

func TestGatherStylesheetsBrokenImportSkipped(t *testing.T) {
	mux := newCountingMux()
	server := httptest.NewServer(mux)
	defer server.Close()

	mux.routes["/"] = `<html><head><link rel="stylesheet" href="/a.css"></head></html>`
	mux.routes["/a.css"] = `@import url(missing.css); body { font-family: Kept; }`
	// /missing.css 404s.

	client := NewClient(0)
	page, err := client.GatherStylesheets(server.URL + "/")
	if err != nil {
		t.Fatalf("GatherStylesheets() error = %v", err)
	}

	if len(page.Sheets) != 1 {
		t.Fatalf("got %d sheets, want only a.css", len(page.Sheets))
	}
	if page.Sheets[0].BaseURL != server.URL+"/a.css" {
		t.Errorf("sheet base = %q", page.Sheets[0].BaseURL)
	}
}

func TestGatherStylesheetsUnreachablePage(t *testing.T) {
	mux := newCountingMux()
	mux.status["/"] = http.StatusInternalServerError
	server := httptest.NewServer(mux)
	defer server.Close()

	client := NewClient(0)
	if _, err := client.GatherStylesheets(server.URL + "/"); err == nil {
		t.Error("GatherStylesheets() expected error for unreachable page")
	}
}

func TestFetchText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") == "" {
			t.Error("request missing User-Agent header")
		}
		if r.URL.Path == "/missing" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		fmt.Fprint(w, "content")
	}))
	defer server.Close()

	client := NewClient(0)

	body, err := client.FetchText(server.URL + "/ok")
	if err != nil {
		t.Fatalf("FetchText() error = %v", err)
	}
	if body != "content" {
		t.Errorf("FetchText() = %q, want %q", body, "content")
	}

	if _, err := client.FetchText(server.URL + "/missing"); err == nil {
		t.Error("FetchText() expected error for 404")
	}
}

func TestProbe(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodHead {
			t.Errorf("probe used method %s, want HEAD", r.Method)
		}
		switch r.URL.Path {
		case "/font.woff2":
			w.Header().Set("Content-Length", "12345")
			w.WriteHeader(http.StatusOK)
		default:
			w.WriteHeader(http.StatusForbidden)
		}
	}))
	defer server.Close()

	client := NewClient(0)

	ok, size, err := client.Probe(server.URL + "/font.woff2")
	if err != nil {
		t.Fatalf("Probe() error = %v", err)
	}
	if !ok {
		t.Error("Probe() ok = false, want true")
	}
	if size != 12345 {
		t.Errorf("Probe() size = %d, want 12345", size)
	}

	ok, _, err = client.Probe(server.URL + "/denied")
	if err != nil {
		t.Fatalf("Probe() error = %v", err)
	}
	if ok {
		t.Error("Probe() ok = true for 403, want false")
	}

	// A dead endpoint is a transport error, not a panic.
	server.Close()
	if _, _, err := client.Probe(server.URL + "/font.woff2"); err == nil {
		t.Error("Probe() expected transport error after server close")
	}
}
