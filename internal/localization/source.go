package localization

import (
	"context"

	"github.com/Belphemur/TVApi/internal/models"
)

// Source is a secondary metadata service offering translated show text.
type Source interface {
	// Languages lists the languages the source can translate into.
	Languages(ctx context.Context) ([]models.Language, error)
	// SeriesLocalization returns the translated overview of a series and its
	// episodes, lang being one of the abbreviations returned by Languages.
	SeriesLocalization(ctx context.Context, seriesID, lang string) (*models.Localization, error)
}
