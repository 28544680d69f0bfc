package indicators

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/myntr-ai/myntr/internal/common"
)

const sampleCSV = `country_name,year,stock_market_capitalization_to_gdp,bank_credit_to_bank_deposits,financial_system_deposits_to_gdp,other
Turkey,2019,23.1,118.4,49.9,x
Germany,2020,55.0,80.2,80.0,y
Turkey,2020,27.456,112.0,57.333,z
Turkey,2021,,105.5,60.1,w
`

func TestParse_LatestIsLastInFileOrder(t *testing.T) {
	s, err := Parse(strings.NewReader(sampleCSV))
	require.NoError(t, err)
	assert.Equal(t, 4, s.Len())

	row, err := s.Latest("Turkey")
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.Equal(t, 2021, row.Year)
	assert.Nil(t, row.StockMarketCapitalizationGDP, "blank cells are nil")
	require.NotNil(t, row.BankCreditToBankDeposits)
	assert.InDelta(t, 105.5, *row.BankCreditToBankDeposits, 1e-9)
	assert.False(t, row.Complete())
}

func TestParse_Rows(t *testing.T) {
	s, err := Parse(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	rows, err := s.Rows("Turkey")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []int{2019, 2020, 2021}, []int{rows[0].Year, rows[1].Year, rows[2].Year})
	assert.True(t, rows[1].Complete())

	rows[0].Year = 1900
	again, _ := s.Rows("Turkey")
	assert.Equal(t, 2019, again[0].Year, "Rows returns a copy")
}

func TestParse_UnknownCountry(t *testing.T) {
	s, err := Parse(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	row, err := s.Latest("Narnia")
	require.NoError(t, err)
	assert.Nil(t, row)

	rows, err := s.Rows("Narnia")
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestParse_MissingColumn(t *testing.T) {
	_, err := Parse(strings.NewReader("year,stock_market_capitalization_to_gdp\n2020,1\n"))
	assert.True(t, errors.Is(err, ErrMissingColumn))
}

func TestParse_MissingRatioColumn(t *testing.T) {
	s, err := Parse(strings.NewReader("country_name,year\nTurkey,2020\n"))
	require.NoError(t, err)

	row, _ := s.Latest("Turkey")
	require.NotNil(t, row)
	assert.Nil(t, row.FinancialSystemDepositsGDP)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gfd.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleCSV), 0o644))

	s, err := Load(path, common.NewSilentLogger())
	require.NoError(t, err)
	assert.Equal(t, 4, s.Len())
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.csv"), common.NewSilentLogger())
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}
