package provider

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/Belphemur/TVApi/internal/apperrors"
	"github.com/Belphemur/TVApi/internal/client"
	"github.com/Belphemur/TVApi/internal/config"
	"github.com/Belphemur/TVApi/internal/models"
)

// mockClient is a scripted client.Client.
type mockClient struct {
	shows     []models.RawShow
	show      *models.RawShow
	err       error
	calls     int
	gotFilter models.Filters
	gotID     string
}

func (m *mockClient) GetShows(ctx context.Context, filters models.Filters) ([]models.RawShow, error) {
	m.calls++
	m.gotFilter = filters
	return m.shows, m.err
}

func (m *mockClient) GetShow(ctx context.Context, id string) (*models.RawShow, error) {
	m.calls++
	m.gotID = id
	return m.show, m.err
}

func (m *mockClient) GetRandomShow(ctx context.Context) (*models.RawShow, error) {
	m.calls++
	return m.show, m.err
}

func (m *mockClient) Endpoints() []string { return []string{"https://mock.example/"} }

func (m *mockClient) Close() error { return nil }

// mockEnricher records its input and applies a fixed synopsis.
type mockEnricher struct {
	synopsis    string
	gotPrevious *models.Show
	gotDebug    bool
	calls       int
}

func (m *mockEnricher) Enrich(ctx context.Context, show models.Show, previous *models.Show, debug bool) models.Show {
	m.calls++
	m.gotPrevious = previous
	m.gotDebug = debug
	out := show.Clone()
	out.Synopsis = m.synopsis
	return out
}

func rawShows() []models.RawShow {
	return []models.RawShow{
		{MongoID: "tt0944947", ImdbID: "tt0944947", TvdbID: "121361", Title: "Game of Thrones", Rating: models.RawRating{Percentage: 87}, Images: models.RawImages{Poster: "https://img.example/got.jpg", Fanart: "https://img.example/got-f.jpg"}},
		{MongoID: "tt0903747", ImdbID: "tt0903747", TvdbID: "81189", Title: "<b>Breaking Bad</b>", Genres: []string{"Drama", "drama"}},
		{MongoID: "tt2861424", TvdbID: "275274", Title: "Rick and Morty"},
	}
}

func TestTVApi_Fetch(t *testing.T) {
	mc := &mockClient{shows: rawShows()}
	p := New(&config.Config{UniqueID: "tvdb_id"}, mc, nil)

	filters := models.Filters{Genre: "drama", Page: 2}
	result, err := p.Fetch(context.Background(), filters)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if !result.HasMore {
		t.Error("Expected hasMore to always be true")
	}
	if mc.gotFilter != filters {
		t.Errorf("Expected filters to be forwarded, got %+v", mc.gotFilter)
	}
	if len(result.Results) != 3 {
		t.Fatalf("Expected 3 results, got %d", len(result.Results))
	}

	first := result.Results[0]
	if first.Rating != 8.7 || first.Backdrop != "https://img.example/got-f.jpg" || first.Type != models.ItemTypeTVShow {
		t.Errorf("Unexpected normalized record %+v", first)
	}
	second := result.Results[1]
	if second.Title != "Breaking Bad" {
		t.Errorf("Expected markup to be stripped, got %q", second.Title)
	}
	if diff := cmp.Diff([]string{"drama"}, second.Genres); diff != "" {
		t.Errorf("Genres mismatch (-want +got):\n%s", diff)
	}
	for _, show := range result.Results {
		if show.Subtitle == nil {
			t.Errorf("Expected subtitle placeholder on %q", show.Title)
		}
	}
}

func TestTVApi_ExtractIDs(t *testing.T) {
	tests := []struct {
		uniqueID string
		want     []string
	}{
		{"tvdb_id", []string{"121361", "81189", "275274"}},
		{"imdb_id", []string{"tt0944947", "tt0903747", "tt2861424"}},
	}

	for _, tt := range tests {
		t.Run(tt.uniqueID, func(t *testing.T) {
			p := New(&config.Config{UniqueID: tt.uniqueID}, &mockClient{shows: rawShows()}, nil)
			result, err := p.Fetch(context.Background(), models.Filters{})
			if err != nil {
				t.Fatalf("Expected no error, got: %v", err)
			}

			got := p.ExtractIDs(result)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ExtractIDs mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTVApi_ExtractIDs_Empty(t *testing.T) {
	p := New(&config.Config{}, &mockClient{}, nil)
	if got := p.ExtractIDs(nil); len(got) != 0 {
		t.Errorf("Expected no ids for a nil result, got %v", got)
	}
	if got := p.ExtractIDs(&models.FetchResult{}); len(got) != 0 {
		t.Errorf("Expected no ids for an empty result, got %v", got)
	}
}

func TestTVApi_Detail(t *testing.T) {
	mc := &mockClient{show: &models.RawShow{
		TvdbID:   "121361",
		Title:    "Game of Thrones",
		Synopsis: "Seven noble families.",
		Episodes: []models.RawEpisode{{TvdbID: "3254641", Season: 1, Episode: 1}},
	}}
	me := &mockEnricher{synopsis: "<p>Sept familles nobles.</p>"}
	p := New(&config.Config{UniqueID: "tvdb_id"}, mc, me)

	previous := &models.Show{TvdbID: "121361", Title: "Game of Thrones"}
	show, err := p.Detail(context.Background(), " 121361 ", previous, true)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if mc.gotID != "121361" {
		t.Errorf("Expected trimmed id, got %q", mc.gotID)
	}
	if me.calls != 1 || me.gotPrevious != previous || !me.gotDebug {
		t.Errorf("Expected enricher to receive previous record and debug flag, got %+v", me)
	}
	if show.Synopsis != "Sept familles nobles." {
		t.Errorf("Expected enriched synopsis to be sanitized, got %q", show.Synopsis)
	}
	if len(show.Episodes) != 1 || show.Subtitle == nil {
		t.Errorf("Expected detail shape, got %+v", show)
	}
}

func TestTVApi_Detail_EmptyID(t *testing.T) {
	mc := &mockClient{}
	p := New(&config.Config{}, mc, nil)

	_, err := p.Detail(context.Background(), "   ", nil, false)
	if !errors.Is(err, &apperrors.ErrInvalidRequest{}) {
		t.Errorf("Expected ErrInvalidRequest, got %v", err)
	}
	if mc.calls != 0 {
		t.Errorf("Expected no network call, got %d", mc.calls)
	}
}

func TestTVApi_Random(t *testing.T) {
	me := &mockEnricher{synopsis: "should not be applied"}
	mc := &mockClient{show: &models.RawShow{TvdbID: "275274", Title: "Rick and Morty", Synopsis: "Rick."}}
	p := New(&config.Config{}, mc, me)

	show, err := p.Random(context.Background())
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if show.Title != "Rick and Morty" || show.Synopsis != "Rick." {
		t.Errorf("Unexpected random show %+v", show)
	}
	if me.calls != 0 {
		t.Error("Expected random shows not to be localized")
	}
}

func TestTVApi_ErrorsPropagateWithoutData(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"exhausted", &apperrors.ErrEndpointsExhausted{Attempts: 2, Err: &apperrors.ErrHTTPStatus{StatusCode: 502}}},
		{"remote", apperrors.NewRemoteError("Show not found")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New(&config.Config{}, &mockClient{err: tt.err, shows: rawShows()}, nil)

			result, err := p.Fetch(context.Background(), models.Filters{})
			if !errors.Is(err, tt.err) || result != nil {
				t.Errorf("Fetch = (%v, %v), want (nil, %v)", result, err, tt.err)
			}
			show, err := p.Detail(context.Background(), "1", nil, false)
			if !errors.Is(err, tt.err) || show != nil {
				t.Errorf("Detail = (%v, %v), want (nil, %v)", show, err, tt.err)
			}
			show, err = p.Random(context.Background())
			if !errors.Is(err, tt.err) || show != nil {
				t.Errorf("Random = (%v, %v), want (nil, %v)", show, err, tt.err)
			}
		})
	}
}

func TestTVApi_Config(t *testing.T) {
	p := New(&config.Config{UniqueID: "imdb_id"}, &mockClient{}, nil)

	want := Config{
		Name:     "TVApi",
		UniqueID: "imdb_id",
		TabName:  "TVApi",
		Type:     models.ItemTypeTVShow,
		Args:     map[string]ArgType{"apiURL": ArgTypeArray, "translate": ArgTypeString, "language": ArgTypeString},
		Metadata: "trakttv:show-metadata",
	}
	if diff := cmp.Diff(want, p.Config()); diff != "" {
		t.Errorf("Config mismatch (-want +got):\n%s", diff)
	}

	p.Config().Args["apiURL"] = ArgTypeString
	if p.Config().Args["apiURL"] != ArgTypeArray {
		t.Error("Expected Config to return an independent value")
	}

	if got := New(&config.Config{}, &mockClient{}, nil).Config().UniqueID; got != "tvdb_id" {
		t.Errorf("Expected default unique id tvdb_id, got %q", got)
	}
}

func TestTVApi_EndToEndQueryAndFallback(t *testing.T) {
	var (
		mu   sync.Mutex
		uris []string
	)
	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer down.Close()
	up := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		uris = append(uris, r.URL.RequestURI())
		mu.Unlock()
		_, _ = w.Write([]byte(`[{"_id":"tt0944947","tvdb_id":"121361","title":"Game of Thrones","images":{"poster":"https://img.example/p.jpg","fanart":"https://img.example/f.jpg"},"rating":{"percentage":87}}]`))
	}))
	defer up.Close()

	cfg := &config.Config{APIURLs: []string{down.URL, up.URL}, UniqueID: "tvdb_id", ClientTimeout: "5s"}
	c, err := client.NewClient(cfg)
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	defer c.Close()

	p := New(cfg, c, nil)
	result, err := p.Fetch(context.Background(), models.Filters{Genre: "horror", Sorter: "rating", Page: 2})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(uris) != 1 {
		t.Fatalf("Expected one request on the fallback endpoint, got %v", uris)
	}
	if !strings.HasPrefix(uris[0], "/shows/2?") || !strings.Contains(uris[0], "genre=horror&sort=rating") {
		t.Errorf("Unexpected request URI %q", uris[0])
	}
	if len(result.Results) != 1 || result.Results[0].Rating != 8.7 {
		t.Errorf("Unexpected result %+v", result)
	}
}
