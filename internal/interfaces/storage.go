package interfaces

import (
	"context"
	"time"

	"github.com/myntr-ai/myntr/internal/models"
)

// IndicatorStore serves rows of the country-year indicator table.
type IndicatorStore interface {
	// Latest returns the most recent row for a country (last in file order).
	Latest(country string) (*models.IndicatorRow, error)

	// Rows returns every row for a country in file order.
	Rows(country string) ([]models.IndicatorRow, error)
}

// QuoteCache caches quotes by normalized symbol.
type QuoteCache interface {
	// Get returns the cached quote and true on a hit.
	Get(ctx context.Context, symbol string) (*models.Quote, bool, error)

	// Set stores a quote for ttl.
	Set(ctx context.Context, symbol string, quote *models.Quote, ttl time.Duration) error

	Close() error
}
