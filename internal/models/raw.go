package models

import (
	"encoding/json"
	"strings"
)

// FlexString decodes a JSON string or number into a string.
// The catalog mirrors disagree on whether ids and years are quoted.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	if len(data) == 0 || string(data) == "null" {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(strings.TrimSpace(s))
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = FlexString(n.String())
	return nil
}

func (f FlexString) String() string {
	return string(f)
}

// RawShow is a show record as returned by the catalog API.
type RawShow struct {
	MongoID     FlexString   `json:"_id"`
	ImdbID      FlexString   `json:"imdb_id"`
	TvdbID      FlexString   `json:"tvdb_id"`
	Title       string       `json:"title"`
	Year        FlexString   `json:"year"`
	Slug        string       `json:"slug"`
	NumSeasons  int          `json:"num_seasons"`
	Images      RawImages    `json:"images"`
	Rating      RawRating    `json:"rating"`
	Synopsis    string       `json:"synopsis"`
	Runtime     FlexString   `json:"runtime"`
	Status      string       `json:"status"`
	Genres      []string     `json:"genres"`
	Country     string       `json:"country"`
	Network     string       `json:"network"`
	AirDay      string       `json:"air_day"`
	AirTime     string       `json:"air_time"`
	LastUpdated int64        `json:"last_updated"`
	Episodes    []RawEpisode `json:"episodes"`
}

// RawImages holds the artwork URLs of a show.
type RawImages struct {
	Poster string `json:"poster"`
	Fanart string `json:"fanart"`
	Banner string `json:"banner"`
}

// RawRating holds the community rating of a show. Percentage is 0-100.
type RawRating struct {
	Percentage float64 `json:"percentage"`
	Watching   int     `json:"watching"`
	Votes      int     `json:"votes"`
	Loved      int     `json:"loved"`
	Hated      int     `json:"hated"`
}

// RawEpisode is an episode entry of a show detail.
type RawEpisode struct {
	TvdbID     FlexString            `json:"tvdb_id"`
	Season     int                   `json:"season"`
	Episode    int                   `json:"episode"`
	Title      string                `json:"title"`
	Overview   string                `json:"overview"`
	FirstAired int64                 `json:"first_aired"`
	DateBased  bool                  `json:"date_based"`
	Torrents   map[string]RawTorrent `json:"torrents"`
}

// RawTorrent is one torrent entry of an episode. The "0" key of the torrents
// map usually duplicates the best quality and is skipped by the normalizer.
type RawTorrent struct {
	URL      string `json:"url"`
	Seeds    int    `json:"seeds"`
	Peers    int    `json:"peers"`
	Provider string `json:"provider"`
}

// RemoteStatus is the application level error marker of the catalog API.
type RemoteStatus struct {
	Error         json.RawMessage `json:"error"`
	StatusMessage string          `json:"status_message"`
}

// Failed reports whether the error marker is present and truthy.
func (r RemoteStatus) Failed() bool {
	switch strings.TrimSpace(string(r.Error)) {
	case "", "null", "false", "0", `""`:
		return false
	default:
		return true
	}
}
