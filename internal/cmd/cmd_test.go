package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/cobra"

	"github.com/Belphemur/TVApi/internal/config"
)

const catalogPage = `[
  {"_id": "tt0944947", "imdb_id": "tt0944947", "tvdb_id": 121361, "title": "Game of Thrones", "year": "2011",
   "images": {"poster": "https://img.example/got.jpg"}, "rating": {"percentage": 90}, "num_seasons": 8},
  {"_id": "tt0903747", "imdb_id": "tt0903747", "tvdb_id": "81189", "title": "Breaking Bad", "year": "2008",
   "rating": {"percentage": 94}, "num_seasons": 5}
]`

// run executes the root command with args and returns its standard output.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
		fetchIDsOnly = false
	})
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestFetch_IDs(t *testing.T) {
	var mu sync.Mutex
	var gotURI string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		gotURI = r.URL.RequestURI()
		mu.Unlock()
		_, _ = w.Write([]byte(catalogPage))
	}))
	defer srv.Close()

	out, err := run(t, "fetch", "--api-url", srv.URL, "--no-translate", "--page", "2", "--genre", "drama", "--ids")
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}

	var ids []string
	if err := json.Unmarshal([]byte(out), &ids); err != nil {
		t.Fatalf("decode output %q: %v", out, err)
	}
	if diff := cmp.Diff([]string{"121361", "81189"}, ids); diff != "" {
		t.Errorf("ids mismatch (-want +got):\n%s", diff)
	}

	mu.Lock()
	defer mu.Unlock()
	if !strings.HasPrefix(gotURI, "/shows/2?") || !strings.Contains(gotURI, "genre=drama") {
		t.Errorf("Unexpected catalog request %q", gotURI)
	}
}

func TestDetail_RemoteError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"error": true, "status_message": "Show not found"}`))
	}))
	defer srv.Close()

	_, err := run(t, "detail", "tt404", "--api-url", srv.URL, "--no-translate")
	if err == nil || !strings.Contains(err.Error(), "Show not found") {
		t.Fatalf("Expected the remote error message, got %v", err)
	}
}

func TestDetail_RequiresID(t *testing.T) {
	if _, err := run(t, "detail"); err == nil {
		t.Fatal("Expected an argument error")
	}
}

func TestEffectiveConfig(t *testing.T) {
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().StringVarP(&language, "language", "l", "", "")
	cmd.Flags().StringSliceVar(&apiURLs, "api-url", nil, "")
	cmd.Flags().StringVar(&uniqueID, "unique-id", "", "")
	cmd.Flags().BoolVar(&noEnrich, "no-translate", false, "")
	t.Cleanup(func() {
		language, uniqueID, apiURLs, noEnrich = "", "", nil, false
	})

	if err := cmd.ParseFlags([]string{"--language", "fr", "--unique-id", "imdb_id", "--api-url", "https://a.example/,https://b.example/"}); err != nil {
		t.Fatalf("ParseFlags: %v", err)
	}

	cfg := effectiveConfig(cmd)
	if !cfg.Translate || cfg.Language != "fr" {
		t.Errorf("Expected translation into fr, got translate=%v language=%q", cfg.Translate, cfg.Language)
	}
	if cfg.UniqueID != "imdb_id" {
		t.Errorf("UniqueID = %q", cfg.UniqueID)
	}
	if diff := cmp.Diff([]string{"https://a.example/", "https://b.example/"}, cfg.APIURLs); diff != "" {
		t.Errorf("APIURLs mismatch (-want +got):\n%s", diff)
	}
}

func TestEffectiveConfig_DoesNotMutateGlobal(t *testing.T) {
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().BoolVar(&noEnrich, "no-translate", false, "")
	t.Cleanup(func() { noEnrich = false })

	if err := cmd.ParseFlags([]string{"--no-translate"}); err != nil {
		t.Fatalf("ParseFlags: %v", err)
	}

	global := config.GetConfig()
	global.Translate = true
	t.Cleanup(func() { global.Translate = false })

	if effectiveConfig(cmd).Translate {
		t.Error("Expected --no-translate to disable translation")
	}
	if !global.Translate {
		t.Error("Expected the loaded configuration to stay untouched")
	}
}
