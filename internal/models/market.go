package models

import "time"

// Quote is the live market snapshot served by GET /market-data/{symbol}.
// Provider fields are pointers because the upstream source omits them freely.
type Quote struct {
	Symbol       string   `json:"symbol"`
	CurrentPrice *float64 `json:"current_price"`
	CompanyName  *string  `json:"company_name"`
	MarketCap    *float64 `json:"market_cap"`
	PERatio      *float64 `json:"pe_ratio"`
}

// Empty reports whether the provider returned nothing identifying the symbol.
func (q *Quote) Empty() bool {
	return q == nil || (q.CurrentPrice == nil && q.CompanyName == nil)
}

// CachedQuote is the value stored by quote caches.
type CachedQuote struct {
	Quote    Quote     `json:"quote"`
	CachedAt time.Time `json:"cached_at"`
}
