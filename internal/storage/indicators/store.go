// Package indicators loads the country-year financial development table.
package indicators

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/myntr-ai/myntr/internal/common"
	"github.com/myntr-ai/myntr/internal/interfaces"
	"github.com/myntr-ai/myntr/internal/models"
)

// Column names read from the CSV header.
const (
	ColumnCountry          = "country_name"
	ColumnYear             = "year"
	ColumnStockMarketCap   = "stock_market_capitalization_to_gdp"
	ColumnBankCredit       = "bank_credit_to_bank_deposits"
	ColumnFinancialDeposit = "financial_system_deposits_to_gdp"
)

// ErrMissingColumn is returned when the header lacks a required column.
var ErrMissingColumn = errors.New("missing column")

// Store is an in-memory indicator table indexed by country.
// It is immutable after Load and safe for concurrent readers.
type Store struct {
	path      string
	byCountry map[string][]models.IndicatorRow
	total     int
}

// Load reads the CSV at path. A missing file is reported as an error wrapping os.ErrNotExist.
func Load(path string, logger *common.Logger) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open indicator table %s: %w", path, err)
	}
	defer f.Close()

	s, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse indicator table %s: %w", path, err)
	}
	s.path = path

	logger.Info().
		Str("path", path).
		Int("rows", s.total).
		Int("countries", len(s.byCountry)).
		Msg("Indicator table loaded")

	return s, nil
}

// Parse reads a header-addressed CSV. Blank or unparsable ratio cells become nil.
func Parse(r io.Reader) (*Store, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))] = i
	}
	for _, col := range []string{ColumnCountry, ColumnYear} {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, col)
		}
	}

	s := &Store{byCountry: make(map[string][]models.IndicatorRow)}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read record: %w", err)
		}

		country := cell(record, index, ColumnCountry)
		if country == "" {
			continue
		}
		year, _ := strconv.Atoi(cell(record, index, ColumnYear))

		row := models.IndicatorRow{
			CountryName:                  country,
			Year:                         year,
			StockMarketCapitalizationGDP: ratio(record, index, ColumnStockMarketCap),
			BankCreditToBankDeposits:     ratio(record, index, ColumnBankCredit),
			FinancialSystemDepositsGDP:   ratio(record, index, ColumnFinancialDeposit),
		}
		s.byCountry[country] = append(s.byCountry[country], row)
		s.total++
	}

	return s, nil
}

func cell(record []string, index map[string]int, column string) string {
	i, ok := index[column]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

func ratio(record []string, index map[string]int, column string) *float64 {
	raw := cell(record, index, column)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &v
}

// Latest returns the last row for country in file order, or nil when the country is absent.
func (s *Store) Latest(country string) (*models.IndicatorRow, error) {
	rows := s.byCountry[country]
	if len(rows) == 0 {
		return nil, nil
	}
	row := rows[len(rows)-1]
	return &row, nil
}

// Rows returns a copy of every row for country in file order.
func (s *Store) Rows(country string) ([]models.IndicatorRow, error) {
	rows := s.byCountry[country]
	out := make([]models.IndicatorRow, len(rows))
	copy(out, rows)
	return out, nil
}

// Len returns the total number of rows loaded.
func (s *Store) Len() int {
	return s.total
}

// Ensure Store implements IndicatorStore
var _ interfaces.IndicatorStore = (*Store)(nil)
