package quote

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/myntr-ai/myntr/internal/common"
	"github.com/myntr-ai/myntr/internal/models"
	"github.com/myntr-ai/myntr/internal/storage/cache"
)

// --- Mocks ---

type mockProvider struct {
	quote   *models.Quote
	err     error
	calls   int
	symbols []string
}

func (m *mockProvider) GetQuote(_ context.Context, symbol string) (*models.Quote, error) {
	m.calls++
	m.symbols = append(m.symbols, symbol)
	if m.err != nil {
		return nil, m.err
	}
	if m.quote == nil {
		return nil, nil
	}
	q := *m.quote
	return &q, nil
}

type brokenCache struct{}

func (brokenCache) Get(context.Context, string) (*models.Quote, bool, error) {
	return nil, false, errors.New("cache down")
}
func (brokenCache) Set(context.Context, string, *models.Quote, time.Duration) error {
	return errors.New("cache down")
}
func (brokenCache) Close() error { return nil }

func price(v float64) *float64 { return &v }

func TestNormalizeSymbol(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "aapl", want: "AAPL"},
		{in: "  thyao.is ", want: "THYAO.IS"},
		{in: "^GSPC", want: "^GSPC"},
		{in: "EURUSD=X", want: "EURUSD=X"},
		{in: "BRK-B", want: "BRK-B"},
		{in: "", wantErr: true},
		{in: "AA PL", wantErr: true},
		{in: "../etc", wantErr: true},
		{in: "ABCDEFGHIJKLMNOPQRSTU", wantErr: true},
	}
	for _, tt := range tests {
		got, err := NormalizeSymbol(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidSymbol) {
				t.Errorf("NormalizeSymbol(%q) error = %v, want ErrInvalidSymbol", tt.in, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("NormalizeSymbol(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
		}
	}
}

func TestGetQuote_CachesProviderResult(t *testing.T) {
	provider := &mockProvider{quote: &models.Quote{CurrentPrice: price(10)}}
	svc := NewService(provider, cache.NewMemory(), time.Minute, common.NewSilentLogger())

	for i := 0; i < 3; i++ {
		q, err := svc.GetQuote(context.Background(), "aapl")
		if err != nil {
			t.Fatalf("GetQuote: %v", err)
		}
		if q.Symbol != "AAPL" {
			t.Errorf("Symbol = %q, want AAPL", q.Symbol)
		}
	}
	if provider.calls != 1 {
		t.Errorf("provider calls = %d, want 1", provider.calls)
	}
	if provider.symbols[0] != "AAPL" {
		t.Errorf("provider received %q, want normalized symbol", provider.symbols[0])
	}
}

func TestGetQuote_NoCache(t *testing.T) {
	provider := &mockProvider{quote: &models.Quote{CurrentPrice: price(10)}}
	svc := NewService(provider, nil, time.Minute, common.NewSilentLogger())

	svc.GetQuote(context.Background(), "AAPL")
	svc.GetQuote(context.Background(), "AAPL")
	if provider.calls != 2 {
		t.Errorf("provider calls = %d, want 2", provider.calls)
	}
}

func TestGetQuote_EmptyIsNotFound(t *testing.T) {
	provider := &mockProvider{quote: &models.Quote{}}
	svc := NewService(provider, cache.NewMemory(), time.Minute, common.NewSilentLogger())

	_, err := svc.GetQuote(context.Background(), "ZZZZ")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
}

func TestGetQuote_ProviderErrorPropagates(t *testing.T) {
	boom := errors.New("HTTP 404")
	svc := NewService(&mockProvider{err: boom}, cache.NewMemory(), time.Minute, common.NewSilentLogger())

	_, err := svc.GetQuote(context.Background(), "ZZZZ")
	if !errors.Is(err, boom) {
		t.Fatalf("error = %v, want wrapped provider error", err)
	}
}

func TestGetQuote_InvalidSymbolSkipsProvider(t *testing.T) {
	provider := &mockProvider{quote: &models.Quote{CurrentPrice: price(1)}}
	svc := NewService(provider, nil, time.Minute, common.NewSilentLogger())

	if _, err := svc.GetQuote(context.Background(), "bad symbol!"); !errors.Is(err, ErrInvalidSymbol) {
		t.Fatalf("error = %v, want ErrInvalidSymbol", err)
	}
	if provider.calls != 0 {
		t.Errorf("provider called for invalid symbol")
	}
}

func TestGetQuote_CacheErrorsAreMisses(t *testing.T) {
	provider := &mockProvider{quote: &models.Quote{CurrentPrice: price(5)}}
	svc := NewService(provider, brokenCache{}, time.Minute, common.NewSilentLogger())

	q, err := svc.GetQuote(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("cache failure must not fail the request: %v", err)
	}
	if *q.CurrentPrice != 5 {
		t.Errorf("CurrentPrice = %v, want 5", *q.CurrentPrice)
	}
}
