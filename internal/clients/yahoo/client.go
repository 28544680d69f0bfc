// Package yahoo provides live quotes from Yahoo Finance via go-yfinance
package yahoo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	yfmodels "github.com/wnjoon/go-yfinance/pkg/models"
	"github.com/wnjoon/go-yfinance/pkg/ticker"

	"github.com/myntr-ai/myntr/internal/common"
	"github.com/myntr-ai/myntr/internal/interfaces"
	"github.com/myntr-ai/myntr/internal/models"
)

// ErrSymbolNotFound is returned when the provider knows nothing about a symbol.
var ErrSymbolNotFound = errors.New("symbol not found")

// infoFetcher loads the Yahoo info record for a symbol.
type infoFetcher func(symbol string) (*yfmodels.Info, error)

// Client implements QuoteProvider on Yahoo Finance
type Client struct {
	fetch  infoFetcher
	logger *common.Logger
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a new Yahoo Finance client
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		fetch:  fetchInfo,
		logger: common.NewSilentLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func fetchInfo(symbol string) (*yfmodels.Info, error) {
	t, err := ticker.New(symbol)
	if err != nil {
		return nil, fmt.Errorf("failed to create ticker: %w", err)
	}
	defer t.Close()

	info, err := t.Info()
	if err != nil {
		return nil, fmt.Errorf("failed to get info: %w", err)
	}
	return info, nil
}

// GetQuote returns current price, name, market cap and trailing P/E for symbol.
// go-yfinance is not context aware; ctx is only checked before the call.
func (c *Client) GetQuote(ctx context.Context, symbol string) (*models.Quote, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	info, err := c.fetch(symbol)
	if err != nil {
		c.logger.Debug().Err(err).Str("symbol", symbol).Msg("Yahoo info lookup failed")
		return nil, err
	}
	if info == nil {
		return nil, ErrSymbolNotFound
	}

	quote := quoteFromInfo(symbol, info)
	if quote.Empty() {
		return nil, ErrSymbolNotFound
	}
	return quote, nil
}

// quoteFromInfo maps an info record, treating zero values as absent.
// Values are copied before taking addresses so the quote never aliases provider memory.
func quoteFromInfo(symbol string, info *yfmodels.Info) *models.Quote {
	q := &models.Quote{Symbol: symbol}

	if info.CurrentPrice > 0 {
		price := float64(info.CurrentPrice)
		q.CurrentPrice = &price
	}
	if name := strings.TrimSpace(info.LongName); name != "" {
		q.CompanyName = &name
	}
	if info.MarketCap > 0 {
		marketCap := float64(info.MarketCap)
		q.MarketCap = &marketCap
	}
	if info.TrailingPE > 0 {
		pe := float64(info.TrailingPE)
		q.PERatio = &pe
	}

	return q
}

// Ensure Client implements QuoteProvider
var _ interfaces.QuoteProvider = (*Client)(nil)
