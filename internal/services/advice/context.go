package advice

import (
	"errors"
	"fmt"
	"strings"

	"github.com/myntr-ai/myntr/internal/interfaces"
)

var (
	ErrNoIndicatorTable = errors.New("indicator table not loaded")
	ErrCountryNotFound  = errors.New("country not found in indicator table")
	ErrIndicatorMissing = errors.New("indicator value missing")
)

// ContextBuilder formats the latest market indicators for a country into prompt context.
type ContextBuilder struct {
	store   interfaces.IndicatorStore
	country string
}

// NewContextBuilder creates a builder. store may be nil when no table could be loaded.
func NewContextBuilder(store interfaces.IndicatorStore, country string) *ContextBuilder {
	return &ContextBuilder{store: store, country: country}
}

// Build returns the context block for the given risk label.
func (b *ContextBuilder) Build(riskTolerance string) (string, error) {
	if b.store == nil {
		return "", ErrNoIndicatorTable
	}

	row, err := b.store.Latest(b.country)
	if err != nil {
		return "", fmt.Errorf("lookup %s: %w", b.country, err)
	}
	if row == nil {
		return "", fmt.Errorf("%w: %s", ErrCountryNotFound, b.country)
	}
	if !row.Complete() {
		return "", fmt.Errorf("%w: %s %d", ErrIndicatorMissing, b.country, row.Year)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Risk toleransı: %s\n", riskTolerance)
	sb.WriteString("Piyasa göstergeleri:\n")
	fmt.Fprintf(&sb, "- Borsa değeri/GSYİH: %.2f%%\n", *row.StockMarketCapitalizationGDP)
	fmt.Fprintf(&sb, "- Banka kredileri/GSYİH: %.2f%%\n", *row.BankCreditToBankDeposits)
	fmt.Fprintf(&sb, "- Finansal sistem mevduatları/GSYİH: %.2f%%", *row.FinancialSystemDepositsGDP)
	return sb.String(), nil
}
