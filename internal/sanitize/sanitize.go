// Package sanitize reduces normalized show records to the content the host
// application is allowed to display.
package sanitize

import (
	"math"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/Belphemur/TVApi/internal/config"
	"github.com/Belphemur/TVApi/internal/models"
)

const maxRating = 10

// markupPattern matches an HTML tag or character entity. A bare "<" or "&" in
// prose does not.
var markupPattern = regexp.MustCompile(`<[a-zA-Z/!][^<>]*>|&(#[0-9]+|#[xX][0-9a-fA-F]+|[a-zA-Z][a-zA-Z0-9]*);`)

// Sanitizer is the last step of every provider operation and is
// authoritative for the final shape of a record.
type Sanitizer struct{}

// New creates a Sanitizer.
func New() *Sanitizer {
	return &Sanitizer{}
}

// Shows sanitizes every record, keeping order.
func (s *Sanitizer) Shows(shows []models.Show) []models.Show {
	out := make([]models.Show, 0, len(shows))
	for _, show := range shows {
		out = append(out, s.Show(show))
	}
	return out
}

// Show returns a sanitized copy of show. The input is not modified.
func (s *Sanitizer) Show(show models.Show) models.Show {
	out := show.Clone()

	out.ID = strings.TrimSpace(out.ID)
	out.ImdbID = strings.TrimSpace(out.ImdbID)
	out.TvdbID = strings.TrimSpace(out.TvdbID)
	out.Title = Text(out.Title)
	out.Year = Text(out.Year)
	out.Slug = strings.TrimSpace(out.Slug)
	out.Runtime = Text(out.Runtime)
	out.Synopsis = Text(out.Synopsis)
	out.Status = Text(out.Status)
	out.Network = Text(out.Network)
	out.Country = Text(out.Country)
	out.Genres = Genres(out.Genres)
	out.Rating = Rating(out.Rating)
	out.Poster = ImageURL(out.Poster)
	out.Backdrop = ImageURL(out.Backdrop)
	if out.Type == "" {
		out.Type = models.ItemTypeTVShow
	}
	if out.NumSeasons < 0 {
		out.NumSeasons = 0
	}
	if out.Subtitle == nil {
		out.Subtitle = map[string]string{}
	}

	for i := range out.Episodes {
		out.Episodes[i] = episode(out.Episodes[i])
	}
	return out
}

func episode(e models.Episode) models.Episode {
	e.TvdbID = strings.TrimSpace(e.TvdbID)
	e.Title = Text(e.Title)
	e.Overview = Text(e.Overview)
	if len(e.Torrents) > 0 {
		torrents := make(map[string]models.Torrent, len(e.Torrents))
		for quality, torrent := range e.Torrents {
			if strings.TrimSpace(torrent.URL) == "" {
				continue
			}
			torrents[quality] = torrent
		}
		e.Torrents = torrents
	}
	return e
}

// Text strips markup and entities from s and trims surrounding whitespace.
func Text(s string) string {
	s = strings.TrimSpace(s)
	if !markupPattern.MatchString(s) {
		return s
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		logger := config.GetLogger()
		logger.Debug().Err(err).Msg("Failed to parse markup, keeping raw text")
		return s
	}
	doc.Find("script, style").Remove()
	return strings.TrimSpace(doc.Text())
}

// ImageURL returns raw when it is an absolute http(s) URL and "" otherwise.
func ImageURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return ""
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return ""
	}
	return u.String()
}

// Rating rounds r to one decimal and clamps it to [0, 10].
func Rating(r float64) float64 {
	if math.IsNaN(r) || r < 0 {
		return 0
	}
	if r > maxRating {
		return maxRating
	}
	return math.Round(r*10) / 10
}

// Genres lower-cases, trims and de-duplicates genres, keeping first-seen order.
func Genres(genres []string) []string {
	if len(genres) == 0 {
		return genres
	}
	seen := make(map[string]struct{}, len(genres))
	out := make([]string, 0, len(genres))
	for _, g := range genres {
		g = strings.ToLower(Text(g))
		if g == "" {
			continue
		}
		if _, dup := seen[g]; dup {
			continue
		}
		seen[g] = struct{}{}
		out = append(out, g)
	}
	return out
}
