package models

// IndicatorRow is one country-year row of the global financial development table.
// Ratio fields are nil when the source cell is blank or unparsable.
type IndicatorRow struct {
	CountryName                  string   `json:"country_name"`
	Year                         int      `json:"year"`
	StockMarketCapitalizationGDP *float64 `json:"stock_market_capitalization_to_gdp"`
	BankCreditToBankDeposits     *float64 `json:"bank_credit_to_bank_deposits"`
	FinancialSystemDepositsGDP   *float64 `json:"financial_system_deposits_to_gdp"`
}

// Complete reports whether all three ratios used in prompts are present.
func (r IndicatorRow) Complete() bool {
	return r.StockMarketCapitalizationGDP != nil &&
		r.BankCreditToBankDeposits != nil &&
		r.FinancialSystemDepositsGDP != nil
}
