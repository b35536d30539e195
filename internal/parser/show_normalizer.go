package parser

import (
	"github.com/Belphemur/TVApi/internal/models"
)

// Unique-id fields a provider can be configured with.
const (
	UniqueIDTvdb = "tvdb_id"
	UniqueIDImdb = "imdb_id"
)

// duplicateQualityKey is the torrents entry the catalog fills with a copy of the best quality.
const duplicateQualityKey = "0"

// ShowNormalizer implements the DetailNormalizer interface for catalog shows.
// The list shape depends on the configured unique-id field: tvdb_id selects
// the full shape, imdb_id the compact one.
type ShowNormalizer struct {
	uniqueID string
}

var _ DetailNormalizer[models.RawShow, models.Show] = (*ShowNormalizer)(nil)

// NewShowNormalizer creates a normalizer keyed on uniqueID. Unknown values fall back to tvdb_id.
func NewShowNormalizer(uniqueID string) *ShowNormalizer {
	if uniqueID != UniqueIDImdb {
		uniqueID = UniqueIDTvdb
	}
	return &ShowNormalizer{uniqueID: uniqueID}
}

// UniqueID returns the field whose value becomes Show.ID.
func (n *ShowNormalizer) UniqueID() string {
	return n.uniqueID
}

// Normalize builds the list shape of raw.
func (n *ShowNormalizer) Normalize(raw models.RawShow) models.Show {
	if n.uniqueID == UniqueIDImdb {
		return n.compact(raw)
	}
	return n.full(raw)
}

// NormalizeList applies Normalize to every record, keeping order.
func (n *ShowNormalizer) NormalizeList(raws []models.RawShow) []models.Show {
	shows := make([]models.Show, 0, len(raws))
	for _, raw := range raws {
		shows = append(shows, n.Normalize(raw))
	}
	return shows
}

// NormalizeDetail builds the detail shape: the compact projection plus
// runtime, backdrop, synopsis, status, episodes and the subtitle placeholder.
func (n *ShowNormalizer) NormalizeDetail(raw models.RawShow) models.Show {
	show := n.compact(raw)
	show.ID = n.idOf(raw)
	show.TvdbID = raw.TvdbID.String()
	show.Runtime = raw.Runtime.String()
	show.Backdrop = raw.Images.Fanart
	show.Synopsis = raw.Synopsis
	show.Status = raw.Status
	show.Network = raw.Network
	show.Country = raw.Country
	show.Episodes = normalizeEpisodes(raw.Episodes)
	show.Subtitle = map[string]string{}
	return show
}

// full copies every field and derives type, poster, backdrop and the subtitle placeholder.
func (n *ShowNormalizer) full(raw models.RawShow) models.Show {
	return models.Show{
		ID:         n.idOf(raw),
		ImdbID:     imdbIDOf(raw),
		TvdbID:     raw.TvdbID.String(),
		Title:      raw.Title,
		Year:       raw.Year.String(),
		Slug:       raw.Slug,
		Genres:     raw.Genres,
		Rating:     Rating(raw.Rating),
		Poster:     raw.Images.Poster,
		Backdrop:   raw.Images.Fanart,
		Type:       models.ItemTypeTVShow,
		NumSeasons: raw.NumSeasons,
		Runtime:    raw.Runtime.String(),
		Synopsis:   raw.Synopsis,
		Status:     raw.Status,
		Network:    raw.Network,
		Country:    raw.Country,
		Episodes:   normalizeEpisodes(raw.Episodes),
		Subtitle:   map[string]string{},
	}
}

// compact projects only the fields a list display needs.
func (n *ShowNormalizer) compact(raw models.RawShow) models.Show {
	return models.Show{
		ID:         imdbIDOf(raw),
		ImdbID:     imdbIDOf(raw),
		Title:      raw.Title,
		Year:       raw.Year.String(),
		Genres:     raw.Genres,
		Rating:     Rating(raw.Rating),
		Poster:     raw.Images.Poster,
		Type:       models.ItemTypeTVShow,
		NumSeasons: raw.NumSeasons,
	}
}

func (n *ShowNormalizer) idOf(raw models.RawShow) string {
	if n.uniqueID == UniqueIDImdb {
		return imdbIDOf(raw)
	}
	return raw.TvdbID.String()
}

// imdbIDOf prefers imdb_id and falls back to _id, which the catalog keys on the IMDb id.
func imdbIDOf(raw models.RawShow) string {
	if raw.ImdbID != "" {
		return raw.ImdbID.String()
	}
	return raw.MongoID.String()
}

// Rating converts the catalog percentage (0-100) to the host's 0-10 scale.
func Rating(r models.RawRating) float64 {
	return r.Percentage / 10
}

func normalizeEpisodes(raws []models.RawEpisode) []models.Episode {
	if raws == nil {
		return nil
	}
	episodes := make([]models.Episode, 0, len(raws))
	for _, raw := range raws {
		episodes = append(episodes, models.Episode{
			TvdbID:     raw.TvdbID.String(),
			Season:     raw.Season,
			Episode:    raw.Episode,
			Title:      raw.Title,
			FirstAired: raw.FirstAired,
			DateBased:  raw.DateBased,
			Overview:   raw.Overview,
			Torrents:   normalizeTorrents(raw.Torrents),
		})
	}
	return episodes
}

func normalizeTorrents(raws map[string]models.RawTorrent) map[string]models.Torrent {
	if len(raws) == 0 {
		return nil
	}
	torrents := make(map[string]models.Torrent, len(raws))
	for quality, raw := range raws {
		if quality == duplicateQualityKey && len(raws) > 1 {
			continue
		}
		torrents[quality] = models.Torrent{
			URL:      raw.URL,
			Seeds:    raw.Seeds,
			Peers:    raw.Peers,
			Provider: raw.Provider,
		}
	}
	return torrents
}
