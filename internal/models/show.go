package models

// ItemType tags the kind of record handed to the host application.
type ItemType string

const ItemTypeTVShow ItemType = "tvshow"

// Show is the canonical TV show record returned to the host application.
type Show struct {
	ID         string            `json:"id"`
	ImdbID     string            `json:"imdb_id,omitempty"`
	TvdbID     string            `json:"tvdb_id,omitempty"`
	Title      string            `json:"title"`
	Year       string            `json:"year,omitempty"`
	Slug       string            `json:"slug,omitempty"`
	Genres     []string          `json:"genres,omitempty"`
	Rating     float64           `json:"rating"`
	Poster     string            `json:"poster,omitempty"`
	Backdrop   string            `json:"backdrop,omitempty"`
	Type       ItemType          `json:"type"`
	NumSeasons int               `json:"num_seasons"`
	Runtime    string            `json:"runtime,omitempty"`
	Synopsis   string            `json:"synopsis,omitempty"`
	Status     string            `json:"status,omitempty"`
	Network    string            `json:"network,omitempty"`
	Country    string            `json:"country,omitempty"`
	Episodes   []Episode         `json:"episodes,omitempty"`
	Subtitle   map[string]string `json:"subtitle"`
}

// Clone returns a copy of the show whose episode slice can be modified
// without touching the original.
func (s Show) Clone() Show {
	c := s
	if s.Genres != nil {
		c.Genres = append([]string(nil), s.Genres...)
	}
	if s.Episodes != nil {
		c.Episodes = make([]Episode, len(s.Episodes))
		copy(c.Episodes, s.Episodes)
	}
	if s.Subtitle != nil {
		c.Subtitle = make(map[string]string, len(s.Subtitle))
		for k, v := range s.Subtitle {
			c.Subtitle[k] = v
		}
	}
	return c
}

// Episode is the canonical episode record nested in a show detail.
type Episode struct {
	TvdbID     string             `json:"tvdb_id"`
	Season     int                `json:"season"`
	Episode    int                `json:"episode"`
	Title      string             `json:"title,omitempty"`
	FirstAired int64              `json:"first_aired,omitempty"`
	DateBased  bool               `json:"date_based,omitempty"`
	Overview   string             `json:"overview,omitempty"`
	Torrents   map[string]Torrent `json:"torrents,omitempty"`
}

// Torrent describes one quality variant of an episode.
type Torrent struct {
	URL      string `json:"url"`
	Seeds    int    `json:"seeds"`
	Peers    int    `json:"peers"`
	Provider string `json:"provider,omitempty"`
}

// FetchResult is the list response of a provider fetch.
type FetchResult struct {
	Results []Show `json:"results"`
	HasMore bool   `json:"hasMore"`
}
