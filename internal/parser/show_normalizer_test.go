package parser

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/Belphemur/TVApi/internal/models"
)

const rawDetailJSON = `{
	"_id": "tt0944947",
	"imdb_id": "tt0944947",
	"tvdb_id": 121361,
	"title": "Game of Thrones",
	"year": "2011",
	"slug": "game-of-thrones",
	"synopsis": "Seven noble families fight for control.",
	"runtime": "60",
	"rating": {"percentage": 87, "watching": 12, "votes": 100},
	"country": "us",
	"network": "HBO",
	"status": "ended",
	"num_seasons": 8,
	"genres": ["drama", "fantasy"],
	"images": {"poster": "https://img.example/p.jpg", "fanart": "https://img.example/f.jpg", "banner": "https://img.example/b.jpg"},
	"episodes": [
		{"tvdb_id": 3254641, "season": 1, "episode": 1, "title": "Winter Is Coming", "overview": "Eddard Stark is torn.", "first_aired": 1303084800,
		 "torrents": {"0": {"url": "magnet:?xt=720", "seeds": 10, "peers": 2}, "720p": {"url": "magnet:?xt=720", "seeds": 10, "peers": 2, "provider": "EZTV"}}},
		{"tvdb_id": "3436411", "season": 1, "episode": 2, "title": "The Kingsroad"}
	]
}`

func decodeRaw(t *testing.T, body string) models.RawShow {
	t.Helper()
	var raw models.RawShow
	if err := json.Unmarshal([]byte(body), &raw); err != nil {
		t.Fatalf("Failed to decode raw show: %v", err)
	}
	return raw
}

func TestRating(t *testing.T) {
	t.Parallel()
	tests := []struct {
		percentage float64
		want       float64
	}{
		{87, 8.7},
		{100, 10},
		{0, 0},
		{55.5, 5.55},
	}
	for _, tt := range tests {
		if got := Rating(models.RawRating{Percentage: tt.percentage}); got != tt.want {
			t.Errorf("Rating(%v) = %v, want %v", tt.percentage, got, tt.want)
		}
	}
}

func TestShowNormalizer_FullShape(t *testing.T) {
	t.Parallel()
	n := NewShowNormalizer(UniqueIDTvdb)
	got := n.Normalize(decodeRaw(t, rawDetailJSON))

	if got.ID != "121361" {
		t.Errorf("Expected id to carry tvdb_id, got %q", got.ID)
	}
	if got.Type != models.ItemTypeTVShow {
		t.Errorf("Expected type tvshow, got %q", got.Type)
	}
	if got.Poster != "https://img.example/p.jpg" || got.Backdrop != "https://img.example/f.jpg" {
		t.Errorf("Unexpected images poster=%q backdrop=%q", got.Poster, got.Backdrop)
	}
	if got.Rating != 8.7 {
		t.Errorf("Expected rating 8.7, got %v", got.Rating)
	}
	if got.Subtitle == nil || len(got.Subtitle) != 0 {
		t.Errorf("Expected empty subtitle placeholder, got %v", got.Subtitle)
	}
	if got.Slug != "game-of-thrones" || got.Network != "HBO" || got.Synopsis == "" {
		t.Errorf("Expected full shape to keep every field, got %+v", got)
	}
}

func TestShowNormalizer_CompactShape(t *testing.T) {
	t.Parallel()
	n := NewShowNormalizer(UniqueIDImdb)
	got := n.Normalize(decodeRaw(t, rawDetailJSON))

	want := models.Show{
		ID:         "tt0944947",
		ImdbID:     "tt0944947",
		Title:      "Game of Thrones",
		Year:       "2011",
		Genres:     []string{"drama", "fantasy"},
		Rating:     8.7,
		Poster:     "https://img.example/p.jpg",
		Type:       models.ItemTypeTVShow,
		NumSeasons: 8,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Compact shape mismatch (-want +got):\n%s", diff)
	}
}

func TestShowNormalizer_CompactFallsBackToMongoID(t *testing.T) {
	t.Parallel()
	n := NewShowNormalizer(UniqueIDImdb)
	got := n.Normalize(decodeRaw(t, `{"_id":"tt2861424","title":"Rick and Morty"}`))
	if got.ID != "tt2861424" || got.ImdbID != "tt2861424" {
		t.Errorf("Expected _id to be used as imdb id, got id=%q imdb=%q", got.ID, got.ImdbID)
	}
}

func TestShowNormalizer_DetailShape(t *testing.T) {
	t.Parallel()
	n := NewShowNormalizer(UniqueIDTvdb)
	got := n.NormalizeDetail(decodeRaw(t, rawDetailJSON))

	want := models.Show{
		ID:         "121361",
		ImdbID:     "tt0944947",
		TvdbID:     "121361",
		Title:      "Game of Thrones",
		Year:       "2011",
		Genres:     []string{"drama", "fantasy"},
		Rating:     8.7,
		Poster:     "https://img.example/p.jpg",
		Backdrop:   "https://img.example/f.jpg",
		Type:       models.ItemTypeTVShow,
		NumSeasons: 8,
		Runtime:    "60",
		Synopsis:   "Seven noble families fight for control.",
		Status:     "ended",
		Network:    "HBO",
		Country:    "us",
		Episodes: []models.Episode{
			{
				TvdbID:     "3254641",
				Season:     1,
				Episode:    1,
				Title:      "Winter Is Coming",
				Overview:   "Eddard Stark is torn.",
				FirstAired: 1303084800,
				Torrents: map[string]models.Torrent{
					"720p": {URL: "magnet:?xt=720", Seeds: 10, Peers: 2, Provider: "EZTV"},
				},
			},
			{TvdbID: "3436411", Season: 1, Episode: 2, Title: "The Kingsroad"},
		},
		Subtitle: map[string]string{},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Detail shape mismatch (-want +got):\n%s", diff)
	}
}

func TestShowNormalizer_NormalizeListKeepsOrder(t *testing.T) {
	t.Parallel()
	raws := []models.RawShow{
		{TvdbID: "3", Title: "C"},
		{TvdbID: "1", Title: "A"},
		{TvdbID: "2", Title: "B"},
	}
	shows := NewShowNormalizer(UniqueIDTvdb).NormalizeList(raws)
	if len(shows) != 3 {
		t.Fatalf("Expected 3 shows, got %d", len(shows))
	}
	for i, show := range shows {
		if show.ID != raws[i].TvdbID.String() {
			t.Errorf("Position %d: expected id %q, got %q", i, raws[i].TvdbID, show.ID)
		}
	}
}

func TestNewShowNormalizer_UnknownUniqueID(t *testing.T) {
	t.Parallel()
	if got := NewShowNormalizer("slug").UniqueID(); got != UniqueIDTvdb {
		t.Errorf("Expected fallback to tvdb_id, got %q", got)
	}
}

func TestNormalizeTorrents_SingleZeroKeyKept(t *testing.T) {
	t.Parallel()
	got := normalizeTorrents(map[string]models.RawTorrent{"0": {URL: "magnet:?only"}})
	if _, ok := got["0"]; !ok {
		t.Errorf("Expected a lone \"0\" entry to be kept, got %v", got)
	}
}
