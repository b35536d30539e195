// Package provider exposes the TVApi metadata provider to a host media application.
package provider

import (
	"context"
	"strings"
	"time"

	"github.com/Belphemur/TVApi/internal/apperrors"
	"github.com/Belphemur/TVApi/internal/client"
	"github.com/Belphemur/TVApi/internal/config"
	"github.com/Belphemur/TVApi/internal/metrics"
	"github.com/Belphemur/TVApi/internal/models"
	"github.com/Belphemur/TVApi/internal/parser"
	"github.com/Belphemur/TVApi/internal/sanitize"
)

// Provider is the capability set a host uses to browse TV shows.
type Provider interface {
	Config() Config
	Fetch(ctx context.Context, filters models.Filters) (*models.FetchResult, error)
	Detail(ctx context.Context, id string, previous *models.Show, debug bool) (*models.Show, error)
	Random(ctx context.Context) (*models.Show, error)
	ExtractIDs(result *models.FetchResult) []string
}

// Enricher augments a show detail with translated text. It never fails.
type Enricher interface {
	Enrich(ctx context.Context, show models.Show, previous *models.Show, debug bool) models.Show
}

// TVApi implements Provider on top of the catalog mirrors.
type TVApi struct {
	config     Config
	client     client.Client
	enricher   Enricher
	normalizer *parser.ShowNormalizer
	sanitizer  *sanitize.Sanitizer
}

var _ Provider = (*TVApi)(nil)

// New creates the provider. enricher may be nil, in which case details are
// never localized.
func New(cfg *config.Config, c client.Client, enricher Enricher) *TVApi {
	normalizer := parser.NewShowNormalizer(cfg.UniqueID)
	return &TVApi{
		config:     NewConfig(normalizer.UniqueID()),
		client:     c,
		enricher:   enricher,
		normalizer: normalizer,
		sanitizer:  sanitize.New(),
	}
}

// Config returns the registration metadata of the provider.
func (p *TVApi) Config() Config {
	return p.config.clone()
}

// Fetch returns one page of shows matching filters. HasMore is always true:
// the catalog does not report pagination bounds.
func (p *TVApi) Fetch(ctx context.Context, filters models.Filters) (result *models.FetchResult, err error) {
	defer observe("fetch", time.Now(), &err)
	logger := config.GetLogger()

	raws, err := p.client.GetShows(ctx, filters)
	if err != nil {
		logger.Error().Err(err).Int("page", filters.Page).Msg("Failed to fetch shows")
		return nil, err
	}

	shows := p.sanitizer.Shows(p.normalizer.NormalizeList(raws))
	logger.Info().Int("count", len(shows)).Int("page", filters.Page).Msg("Fetched shows")
	return &models.FetchResult{Results: shows, HasMore: true}, nil
}

// Detail returns the full record of show id. previous is the list record the
// host already holds; its tvdb id is used for localization when the detail
// lacks one. debug raises the enrichment logs to info level.
func (p *TVApi) Detail(ctx context.Context, id string, previous *models.Show, debug bool) (show *models.Show, err error) {
	defer observe("detail", time.Now(), &err)
	logger := config.GetLogger()

	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperrors.NewInvalidRequestError("id", "must not be empty")
	}

	raw, err := p.client.GetShow(ctx, id)
	if err != nil {
		logger.Error().Err(err).Str("id", id).Msg("Failed to fetch show detail")
		return nil, err
	}

	detail := p.normalizer.NormalizeDetail(*raw)
	if p.enricher != nil {
		detail = p.enricher.Enrich(ctx, detail, previous, debug)
	}

	sanitized := p.sanitizer.Show(detail)
	return &sanitized, nil
}

// Random returns the detail record of a random show. It is not localized.
func (p *TVApi) Random(ctx context.Context) (show *models.Show, err error) {
	defer observe("random", time.Now(), &err)

	raw, err := p.client.GetRandomShow(ctx)
	if err != nil {
		logger := config.GetLogger()
		logger.Error().Err(err).Msg("Failed to fetch random show")
		return nil, err
	}

	sanitized := p.sanitizer.Show(p.normalizer.NormalizeDetail(*raw))
	return &sanitized, nil
}

// ExtractIDs returns the unique-id value of every result, in order.
func (p *TVApi) ExtractIDs(result *models.FetchResult) []string {
	if result == nil {
		return []string{}
	}
	ids := make([]string, 0, len(result.Results))
	for _, show := range result.Results {
		ids = append(ids, uniqueIDOf(show, p.config.UniqueID))
	}
	return ids
}

func uniqueIDOf(show models.Show, field string) string {
	var id string
	switch field {
	case parser.UniqueIDImdb:
		id = show.ImdbID
	default:
		id = show.TvdbID
	}
	if id == "" {
		id = show.ID
	}
	return id
}

func observe(operation string, start time.Time, err *error) {
	status := "ok"
	if *err != nil {
		status = "error"
	}
	metrics.OperationDuration.WithLabelValues(operation, status).Observe(time.Since(start).Seconds())
}
