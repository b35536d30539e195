package cmd

import (
	"context"
	"fmt"

	"github.com/Belphemur/TVApi/internal/client"
	"github.com/Belphemur/TVApi/internal/config"
	"github.com/Belphemur/TVApi/internal/localization"
	"github.com/Belphemur/TVApi/internal/provider"
)

// app holds the provider and the resources it owns.
type app struct {
	provider  *provider.TVApi
	languages *localization.Languages
	client    client.Client
}

// newApp wires the catalog client, the localization source and the provider.
func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	logger := config.GetLogger()

	catalog, err := client.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("create catalog client: %w", err)
	}

	opts := localization.OptionsFromConfig(cfg)
	enricher := localization.NewEnricher(ctx, localization.NewTVDBClient(cfg), opts)

	logger.Info().
		Strs("api_url", catalog.Endpoints()).
		Str("unique_id", cfg.UniqueID).
		Bool("translate", opts.Enabled).
		Str("language", opts.Language).
		Int("localization_languages", enricher.Languages().Len()).
		Msg("Provider ready")

	return &app{
		provider:  provider.New(cfg, catalog, enricher),
		languages: enricher.Languages(),
		client:    catalog,
	}, nil
}

func (a *app) Close() error {
	return a.client.Close()
}
