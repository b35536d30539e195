// Package localization augments show details with translated text from a
// secondary metadata source, bounded by a timeout.
package localization

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/Belphemur/TVApi/internal/config"
	"github.com/Belphemur/TVApi/internal/metrics"
	"github.com/Belphemur/TVApi/internal/models"
)

// DefaultTimeout bounds how long a detail call waits for the secondary source.
const DefaultTimeout = 2000 * time.Millisecond

// Options configures an Enricher.
type Options struct {
	Enabled        bool
	Language       string // active language of the host
	SourceLanguage string // language of the primary catalog
	Timeout        time.Duration
}

// OptionsFromConfig reads the translate, language, source_language and
// enrichment.timeout settings.
func OptionsFromConfig(cfg *config.Config) Options {
	opts := Options{
		Enabled:        cfg.Translate,
		Language:       cfg.Language,
		SourceLanguage: cfg.SourceLanguage,
		Timeout:        DefaultTimeout,
	}
	if cfg.Enrichment.Timeout != "" {
		if parsed, err := time.ParseDuration(cfg.Enrichment.Timeout); err != nil || parsed <= 0 {
			logger := config.GetLogger()
			logger.Warn().Str("timeout", cfg.Enrichment.Timeout).Msg("Invalid enrichment timeout, using default 2s")
		} else {
			opts.Timeout = parsed
		}
	}
	return opts
}

// Enricher merges translated overviews into show details.
type Enricher struct {
	source    Source
	languages *Languages
	opts      Options
}

type lookupResult struct {
	localization *models.Localization
	err          error
}

// NewEnricher creates an Enricher and, when translation applies, loads the
// source language list once. A failed load leaves the Unsupported set in
// place and enrichment is skipped for the lifetime of the Enricher.
func NewEnricher(ctx context.Context, source Source, opts Options) *Enricher {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.SourceLanguage == "" {
		opts.SourceLanguage = "en"
	}

	e := &Enricher{source: source, languages: Unsupported, opts: opts}
	if !e.active() {
		return e
	}

	e.languages = LoadLanguages(ctx, source)
	return e
}

// LoadLanguages fetches the language list of source, returning Unsupported on failure.
func LoadLanguages(ctx context.Context, source Source) *Languages {
	logger := config.GetLogger()

	list, err := source.Languages(ctx)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to load localization languages, overviews can't be translated")
		metrics.LocalizationLanguages.Set(0)
		return Unsupported
	}

	languages := NewLanguages(list)
	metrics.LocalizationLanguages.Set(float64(languages.Len()))
	logger.Info().Int("languages", languages.Len()).Msg("Localization languages loaded")
	return languages
}

// Languages returns the language set loaded at construction.
func (e *Enricher) Languages() *Languages {
	return e.languages
}

// active reports whether translation is configured for a language other than the source one.
func (e *Enricher) active() bool {
	return e.opts.Enabled && e.source != nil && e.opts.Language != "" &&
		!SameLanguage(e.opts.Language, e.opts.SourceLanguage)
}

// Enrich returns show with its synopsis and episode overviews replaced by
// translations when the secondary source answers within the timeout.
// On timeout, error or unsupported language show is returned unchanged;
// a lookup that finishes late is discarded. show itself is never modified.
// The series is looked up by show.TvdbID, or previous.TvdbID when empty.
func (e *Enricher) Enrich(ctx context.Context, show models.Show, previous *models.Show, debug bool) models.Show {
	logger := config.GetLogger()
	level := zerolog.DebugLevel
	if debug {
		level = zerolog.InfoLevel
	}

	if !e.active() {
		metrics.EnrichmentTotal.WithLabelValues(metrics.EnrichmentDisabled).Inc()
		return show
	}

	lang, ok := e.languages.Lookup(e.opts.Language)
	if !ok {
		metrics.EnrichmentTotal.WithLabelValues(metrics.EnrichmentUnsupported).Inc()
		logger.WithLevel(level).Str("language", e.opts.Language).Msg("Language not offered by localization source, skipping")
		return show
	}

	seriesID := show.TvdbID
	if seriesID == "" && previous != nil {
		seriesID = previous.TvdbID
	}
	if seriesID == "" {
		metrics.EnrichmentTotal.WithLabelValues(metrics.EnrichmentFailed).Inc()
		logger.WithLevel(level).Str("title", show.Title).Msg("No tvdb id to localize, skipping")
		return show
	}

	logger.WithLevel(level).Str("title", show.Title).Str("tvdb_id", seriesID).Str("language", lang).Msg("Request to localization source")

	lookupCtx, cancel := context.WithTimeout(ctx, e.opts.Timeout)
	defer cancel()

	// Buffered so a lookup finishing after the timeout never blocks.
	results := make(chan lookupResult, 1)
	go func() {
		localization, err := e.source.SeriesLocalization(lookupCtx, seriesID, lang)
		results <- lookupResult{localization: localization, err: err}
	}()

	select {
	case <-lookupCtx.Done():
		if errors.Is(lookupCtx.Err(), context.DeadlineExceeded) {
			metrics.EnrichmentTotal.WithLabelValues(metrics.EnrichmentTimeout).Inc()
		} else {
			metrics.EnrichmentTotal.WithLabelValues(metrics.EnrichmentFailed).Inc()
		}
		logger.WithLevel(level).Dur("timeout", e.opts.Timeout).Str("tvdb_id", seriesID).Msg("Localization did not finish in time, returning untranslated show")
		return show
	case res := <-results:
		if res.err != nil || res.localization == nil {
			metrics.EnrichmentTotal.WithLabelValues(metrics.EnrichmentFailed).Inc()
			logger.Warn().Err(res.err).Str("tvdb_id", seriesID).Msg("Localization lookup failed, returning untranslated show")
			return show
		}
		metrics.EnrichmentTotal.WithLabelValues(metrics.EnrichmentApplied).Inc()
		merged, matched := Merge(show, res.localization)
		logger.WithLevel(level).Str("tvdb_id", seriesID).Int("episodes", matched).Msg("Localization applied")
		return merged
	}
}

// Merge returns a copy of show with the localized overview as synopsis and
// each localized episode overview set on the episode with the same tvdb id.
// Empty translations and unmatched episodes are left alone. It returns the
// number of episodes updated.
func Merge(show models.Show, localization *models.Localization) (models.Show, int) {
	out := show.Clone()
	if localization.Overview != "" {
		out.Synopsis = localization.Overview
	}

	index := make(map[string]int, len(out.Episodes))
	for i, episode := range out.Episodes {
		if _, dup := index[episode.TvdbID]; !dup && episode.TvdbID != "" {
			index[episode.TvdbID] = i
		}
	}

	matched := 0
	for _, localized := range localization.Episodes {
		if localized.Overview == "" {
			continue
		}
		if i, ok := index[localized.ID]; ok {
			out.Episodes[i].Overview = localized.Overview
			matched++
		}
	}
	return out, matched
}
