package downloader

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/hellenic-development/webfont-extractor/pkg/fetcher"
	"github.com/hellenic-development/webfont-extractor/pkg/font"
)

func fontServer(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/foo.woff2":
			fmt.Fprint(w, "woff2-bytes")
		case "/bar.woff":
			fmt.Fprint(w, "woff-bytes")
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func TestDownloadRemote(t *testing.T) {
	server := fontServer(t)
	dir := t.TempDir()
	client := fetcher.NewClient(0)

	rec := font.Record{Family: "Open Sans", Format: font.WOFF2, SourceURL: server.URL + "/foo.woff2"}
	outcome := Download(client, rec, dir)

	if !outcome.Success() {
		t.Fatalf("Download() failed: %v", outcome.Err)
	}
	want := filepath.Join(dir, "Open-Sans.woff2")
	if outcome.FilePath != want {
		t.Errorf("FilePath = %q, want %q", outcome.FilePath, want)
	}
	data, err := os.ReadFile(outcome.FilePath)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "woff2-bytes" {
		t.Errorf("file content = %q", data)
	}
}

func TestDownloadFilenameVariantTokens(t *testing.T) {
	server := fontServer(t)
	dir := t.TempDir()
	client := fetcher.NewClient(0)

	tests := []struct {
		name string
		rec  font.Record
		want string
	}{
		{
			name: "regular weight omitted",
			rec:  font.Record{Family: "Foo", Weight: "Regular", Format: font.WOFF2, SourceURL: server.URL + "/foo.woff2"},
			want: "Foo.woff2",
		},
		{
			name: "bold token included",
			rec:  font.Record{Family: "Foo", Weight: "Bold", Format: font.WOFF2, SourceURL: server.URL + "/foo.woff2"},
			want: "Foo-Bold.woff2",
		},
		{
			name: "style token title-cased",
			rec:  font.Record{Family: "Foo", Weight: "Bold", Style: "italic", Format: font.WOFF, SourceURL: server.URL + "/bar.woff"},
			want: "Foo-Bold-Italic.woff",
		},
		{
			name: "unknown format extension",
			rec:  font.Record{Family: "Foo", Format: font.Unknown, SourceURL: server.URL + "/foo.woff2"},
			want: "Foo.font",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outcome := Download(client, tt.rec, dir)
			if !outcome.Success() {
				t.Fatalf("Download() failed: %v", outcome.Err)
			}
			if got := filepath.Base(outcome.FilePath); got != tt.want {
				t.Errorf("filename = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDownloadCollisionSuffixes(t *testing.T) {
	server := fontServer(t)
	dir := t.TempDir()
	client := fetcher.NewClient(0)

	rec := font.Record{Family: "Foo", Format: font.WOFF2, SourceURL: server.URL + "/foo.woff2"}

	var paths []string
	for i := 0; i < 3; i++ {
		outcome := Download(client, rec, dir)
		if !outcome.Success() {
			t.Fatalf("download %d failed: %v", i, outcome.Err)
		}
		paths = append(paths, filepath.Base(outcome.FilePath))
	}

	want := []string{"Foo.woff2", "Foo_1.woff2", "Foo_2.woff2"}
	for i := range want {
		if paths[i] != want[i] {
			t.Errorf("download %d wrote %q, want %q", i, paths[i], want[i])
		}
	}
	for _, p := range want {
		if _, err := os.Stat(filepath.Join(dir, p)); err != nil {
			t.Errorf("expected file %q to exist: %v", p, err)
		}
	}
}

func TestDownloadInline(t *testing.T) {
	dir := t.TempDir()

	rec := font.Record{
		Family:        "Inline",
		Format:        font.WOFF2,
		SourceURL:     "data:font/woff2;base64,AAAA",
		IsInline:      true,
		InlinePayload: "AAAA",
	}

	// No client needed: inline downloads must not touch the network.
	outcome := Download(fetcher.NewClient(0), rec, dir)
	if !outcome.Success() {
		t.Fatalf("Download() failed: %v", outcome.Err)
	}

	data, err := os.ReadFile(outcome.FilePath)
	if err != nil {
		t.Fatal(err)
	}
	// "AAAA" decodes to exactly 3 zero bytes.
	if len(data) != 3 {
		t.Errorf("decoded %d bytes, want 3", len(data))
	}
}

func TestDownloadInlineBadPayload(t *testing.T) {
	dir := t.TempDir()

	rec := font.Record{Family: "Broken", Format: font.WOFF2, IsInline: true, InlinePayload: "!!!not-base64!!!"}
	outcome := Download(fetcher.NewClient(0), rec, dir)
	if outcome.Success() {
		t.Error("Download() succeeded with invalid base64, want failure")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("failed download left %d files behind", len(entries))
	}
}

func TestDownloadRemoteFailure(t *testing.T) {
	server := fontServer(t)
	dir := t.TempDir()

	rec := font.Record{Family: "Gone", Format: font.WOFF2, SourceURL: server.URL + "/missing.woff2"}
	outcome := Download(fetcher.NewClient(0), rec, dir)
	if outcome.Success() {
		t.Error("Download() succeeded for a 404, want failure")
	}
	if outcome.Err == nil {
		t.Error("failed outcome must carry an error")
	}
}

func TestDownloadAll(t *testing.T) {
	server := fontServer(t)
	dir := t.TempDir()
	client := fetcher.NewClient(0)

	records := []font.Record{
		{Family: "A", Format: font.WOFF2, SourceURL: server.URL + "/foo.woff2"},
		{Family: "B", Format: font.WOFF2, SourceURL: server.URL + "/missing.woff2"},
		{Family: "C", Format: font.WOFF, SourceURL: server.URL + "/bar.woff"},
	}

	var progress [][2]int
	outcomes := DownloadAll(client, records, dir, func(completed, total int) {
		progress = append(progress, [2]int{completed, total})
	})

	if len(outcomes) != 3 {
		t.Fatalf("got %d outcomes, want 3", len(outcomes))
	}
	if !outcomes[0].Success() || outcomes[1].Success() || !outcomes[2].Success() {
		t.Errorf("outcome successes = %v %v %v, want true false true",
			outcomes[0].Success(), outcomes[1].Success(), outcomes[2].Success())
	}

	// Progress fires after every attempt, including the failed one.
	want := [][2]int{{1, 3}, {2, 3}, {3, 3}}
	if len(progress) != len(want) {
		t.Fatalf("progress called %d times, want %d", len(progress), len(want))
	}
	for i := range want {
		if progress[i] != want[i] {
			t.Errorf("progress %d = %v, want %v", i, progress[i], want[i])
		}
	}
}

func TestDownloadAllNilProgress(t *testing.T) {
	server := fontServer(t)
	dir := t.TempDir()

	records := []font.Record{{Family: "A", Format: font.WOFF2, SourceURL: server.URL + "/foo.woff2"}}
	outcomes := DownloadAll(fetcher.NewClient(0), records, dir, nil)
	if len(outcomes) != 1 || !outcomes[0].Success() {
		t.Errorf("outcomes = %+v", outcomes)
	}
}

func TestDefaultDir(t *testing.T) {
	if DefaultDir() == "" {
		t.Error("DefaultDir() returned empty path")
	}
}
