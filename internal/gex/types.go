package gex

import "time"

// StrikeGex aggregates dealer gamma exposure at one strike. NetGex is always
// the sum over ByExpiration.
type StrikeGex struct {
	NetGex       float64            `json:"netGex"`
	ByExpiration map[string]float64 `json:"byExpiration"`
}

// Result is the served GEX artifact for one symbol.
//
// SpotPrice is the first non-null index price observed across fetched
// tickers in fetch order, not an average. Expirations is chronologically
// ascending under the expiry-token parse. Strike keys are canonical decimal
// strings ("50000", "92500.5").
type Result struct {
	Currency    string                `json:"currency"`
	SpotPrice   float64               `json:"spotPrice"`
	LastUpdated time.Time             `json:"lastUpdated"`
	Expirations []string              `json:"expirations"`
	Strikes     map[string]*StrikeGex `json:"strikes"`
}
