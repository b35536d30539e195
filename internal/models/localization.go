package models

// Language is one language offered by the localization source.
type Language struct {
	Abbreviation string `json:"abbreviation"`
	Name         string `json:"name"`
}

// Localization holds translated text for a show and its episodes.
type Localization struct {
	Overview string                `json:"overview"`
	Episodes []EpisodeLocalization `json:"episodes"`
}

// EpisodeLocalization is the translated overview of one episode, keyed by the
// localization source's episode id.
type EpisodeLocalization struct {
	ID       string `json:"id"`
	Overview string `json:"overview"`
}
