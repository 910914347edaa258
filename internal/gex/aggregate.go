package gex

import (
	"strconv"

	"github.com/dgnsrekt/deribit-gex/internal/batch"
	"github.com/dgnsrekt/deribit-gex/internal/deribit"
)

// spotFromTickers returns the first non-null index price across tickers in
// fetch order. Zero when no ticker carries one.
func spotFromTickers(tickers []batch.Result[*deribit.Ticker]) float64 {
	for _, t := range tickers {
		if t.OK && t.Value != nil && t.Value.IndexPrice != nil {
			return *t.Value.IndexPrice
		}
	}
	return 0
}

// strikeKey renders a strike as its canonical decimal string, so 50000.0
// keys as "50000" and 92500.5 as "92500.5".
func strikeKey(strike float64) string {
	return strconv.FormatFloat(strike, 'f', -1, 64)
}

// aggregate computes per-option gamma exposure and folds it into the
// strike x expiration table. Instruments are paired index-for-index with
// ticker results; an absent ticker or nil gamma excludes that instrument
// entirely (no zero-valued contribution).
//
// GEX per option = gamma * openInterest * contractSize * spot^2 * 0.01 * sign,
// with sign +1 for calls and -1 for puts. The 0.01 and squared-spot terms
// encode the 1% spot-move dollar-gamma convention.
func aggregate(instruments []deribit.Instrument, openInterest map[string]float64, tickers []batch.Result[*deribit.Ticker], spot float64) (map[string]*StrikeGex, []string) {
	strikes := make(map[string]*StrikeGex)
	seen := make(map[string]bool)
	expirations := make([]string, 0)

	for i, inst := range instruments {
		ticker := tickers[i]
		if !ticker.OK || ticker.Value == nil || ticker.Value.Greeks.Gamma == nil {
			continue
		}

		gamma := *ticker.Value.Greeks.Gamma
		oi := openInterest[inst.Name]
		sign := -1.0
		if inst.IsCall() {
			sign = 1.0
		}

		exposure := gamma * oi * inst.EffectiveContractSize() * spot * spot * 0.01 * sign
		expiry := ExpiryToken(inst.Name)

		key := strikeKey(inst.Strike)
		bucket, ok := strikes[key]
		if !ok {
			bucket = &StrikeGex{ByExpiration: make(map[string]float64)}
			strikes[key] = bucket
		}
		bucket.NetGex += exposure
		bucket.ByExpiration[expiry] += exposure

		if !seen[expiry] {
			seen[expiry] = true
			expirations = append(expirations, expiry)
		}
	}

	SortExpiries(expirations)
	return strikes, expirations
}
