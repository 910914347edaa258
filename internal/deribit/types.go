package deribit

// OptionType values as Deribit reports them.
const (
	OptionTypeCall = "call"
	OptionTypePut  = "put"
)

// Instrument is one row of the public/get_instruments response.
// ContractSize is occasionally absent from the payload; EffectiveContractSize
// normalizes that to 1.
type Instrument struct {
	Name         string  `json:"instrument_name"`
	Strike       float64 `json:"strike"`
	OptionType   string  `json:"option_type"`
	ContractSize float64 `json:"contract_size"`
}

// EffectiveContractSize returns the contract size, defaulting to 1 when the
// instrument record omits it.
func (i Instrument) EffectiveContractSize() float64 {
	if i.ContractSize <= 0 {
		return 1
	}
	return i.ContractSize
}

// IsCall reports whether the instrument is a call option.
func (i Instrument) IsCall() bool {
	return i.OptionType == OptionTypeCall
}

// BookSummary is one row of public/get_book_summary_by_currency. Only the
// open interest is consumed here.
type BookSummary struct {
	Name         string  `json:"instrument_name"`
	OpenInterest float64 `json:"open_interest"`
}

// Greeks carries the per-option greeks from a ticker response. Gamma is a
// pointer because Deribit can return null for illiquid series; a nil gamma
// means "no contribution", never zero.
type Greeks struct {
	Delta *float64 `json:"delta"`
	Gamma *float64 `json:"gamma"`
	Vega  *float64 `json:"vega"`
	Theta *float64 `json:"theta"`
}

// Ticker is the subset of public/ticker consumed by the GEX pipeline.
type Ticker struct {
	Name       string   `json:"instrument_name"`
	IndexPrice *float64 `json:"index_price"`
	Greeks     Greeks   `json:"greeks"`
}
