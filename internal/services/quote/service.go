// Package quote provides a cached live quote service
package quote

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/myntr-ai/myntr/internal/common"
	"github.com/myntr-ai/myntr/internal/interfaces"
	"github.com/myntr-ai/myntr/internal/metrics"
	"github.com/myntr-ai/myntr/internal/models"
)

var (
	// ErrInvalidSymbol is returned for symbols that fail normalization.
	ErrInvalidSymbol = errors.New("invalid symbol")

	// ErrNotFound is returned when the provider has no price and no name for a symbol.
	ErrNotFound = errors.New("symbol not found")
)

var symbolPattern = regexp.MustCompile(`^[A-Z0-9.\-=^]{1,20}$`)

// NormalizeSymbol trims and upper-cases a ticker and checks its charset.
func NormalizeSymbol(symbol string) (string, error) {
	s := strings.ToUpper(strings.TrimSpace(symbol))
	if !symbolPattern.MatchString(s) {
		return "", fmt.Errorf("%w: %q", ErrInvalidSymbol, symbol)
	}
	return s, nil
}

// Service implements MarketService over a provider and a cache.
type Service struct {
	provider interfaces.QuoteProvider
	cache    interfaces.QuoteCache
	ttl      time.Duration
	logger   *common.Logger
}

// NewService creates a new quote service.
// cache may be nil, in which case every lookup reaches the provider.
func NewService(provider interfaces.QuoteProvider, cache interfaces.QuoteCache, ttl time.Duration, logger *common.Logger) *Service {
	return &Service{
		provider: provider,
		cache:    cache,
		ttl:      ttl,
		logger:   logger,
	}
}

// GetQuote returns the quote for symbol, served from cache while fresh.
func (s *Service) GetQuote(ctx context.Context, symbol string) (*models.Quote, error) {
	normalized, err := NormalizeSymbol(symbol)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		cached, ok, err := s.cache.Get(ctx, normalized)
		switch {
		case err != nil:
			metrics.QuoteCacheLookups.WithLabelValues("error").Inc()
			s.logger.Warn().Err(err).Str("symbol", normalized).Msg("Quote cache read failed")
		case ok:
			metrics.QuoteCacheLookups.WithLabelValues("hit").Inc()
			return cached, nil
		default:
			metrics.QuoteCacheLookups.WithLabelValues("miss").Inc()
		}
	}

	quote, err := s.provider.GetQuote(ctx, normalized)
	if err != nil {
		return nil, fmt.Errorf("quote %s: %w", normalized, err)
	}
	if quote.Empty() {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, normalized)
	}
	quote.Symbol = normalized

	if s.cache != nil {
		if err := s.cache.Set(ctx, normalized, quote, s.ttl); err != nil {
			s.logger.Warn().Err(err).Str("symbol", normalized).Msg("Quote cache write failed")
		}
	}

	s.logger.Debug().Str("symbol", normalized).Msg("Quote fetched from provider")
	return quote, nil
}

// Ensure Service implements MarketService
var _ interfaces.MarketService = (*Service)(nil)
