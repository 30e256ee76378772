package model

import "strings"

// ScanKind identifies which detector emitted an opportunity.
type ScanKind string

// Detector names. These are also the keys of the contradiction report's
// scan_counts block.
const (
	ScanBinaryComplement ScanKind = "binary_complement"
	ScanMultiOutcome     ScanKind = "multi_outcome"
	ScanMonotonicity     ScanKind = "monotonicity"
	ScanCrossEvent       ScanKind = "cross_event"
	ScanCryptoTime       ScanKind = "crypto_time"
)

// Severity buckets an opportunity's per-unit profit.
type Severity string

const (
	SeverityHigh   Severity = "HIGH"
	SeverityMedium Severity = "MEDIUM"
	SeverityLow    Severity = "LOW"
)

// SeverityFor maps profit in cents to a severity tier.
func SeverityFor(profitCents int) Severity {
	switch {
	case profitCents >= 5:
		return SeverityHigh
	case profitCents >= 3:
		return SeverityMedium
	default:
		return SeverityLow
	}
}

// PriceLevel is a single resting level in an orderbook side.
type PriceLevel struct {
	Price    int `json:"price"`    // cents
	Quantity int `json:"quantity"` // contracts
}

// Orderbook holds resting bids per side. The venue reports each side as
// bids on that side's own contract: "yes" levels are YES buy orders,
// "no" levels are NO buy orders.
type Orderbook struct {
	Yes []PriceLevel `json:"yes"`
	No  []PriceLevel `json:"no"`
}

// Market is a fully-normalized binary market snapshot.
type Market struct {
	Ticker       string   `json:"ticker"`
	EventTicker  string   `json:"event_ticker"`
	SeriesPrefix string   `json:"series_prefix"`
	Category     string   `json:"category"`
	MarketType   string   `json:"market_type"` // "binary" or "scalar"
	StrikeType   string   `json:"strike_type"` // "greater" = threshold contract
	FloorStrike  *float64 `json:"floor_strike"`
	CapStrike    *float64 `json:"cap_strike"`

	// Prices in cents. nil = no quote on that leg. At most one leg may be
	// independently missing; the complement identity yes+no=100 derives it.
	YesBid *int `json:"yes_bid"`
	YesAsk *int `json:"yes_ask"`
	NoBid  *int `json:"no_bid"`
	NoAsk  *int `json:"no_ask"`

	// Derived fields.
	Spread   *int `json:"spread"`     // yes_ask - yes_bid
	YesNoSum *int `json:"yes_no_sum"` // yes_ask + no_ask

	Volume24h    int64  `json:"volume_24h"`
	OpenInterest int64  `json:"open_interest"`
	CloseTime    string `json:"close_time"` // ISO 8601

	// Populated lazily; nil unless prefetched or fetched by the ranker.
	Orderbook *Orderbook `json:"orderbook,omitempty"`
}

// MissingLegs counts how many of the four price fields are unknown.
func (m *Market) MissingLegs() int {
	n := 0
	for _, p := range []*int{m.YesBid, m.YesAsk, m.NoBid, m.NoAsk} {
		if p == nil {
			n++
		}
	}
	return n
}

// Event groups the markets of one venue event.
type Event struct {
	EventTicker       string `json:"event_ticker"`
	Title             string `json:"title"`
	SeriesTicker      string `json:"series_ticker"`
	Category          string `json:"category"`
	MutuallyExclusive bool   `json:"mutually_exclusive"`

	// Child market tickers in listing order. Order carries no meaning but
	// is kept stable for reproducible output.
	MarketTickers []string `json:"market_tickers"`
}

// MarketRef is one market leg of an Opportunity, carrying only the fields
// the emitting detector looked at.
type MarketRef struct {
	Ticker      string   `json:"ticker"`
	YesBid      *int     `json:"yes_bid,omitempty"`
	YesAsk      *int     `json:"yes_ask,omitempty"`
	NoBid       *int     `json:"no_bid,omitempty"`
	NoAsk       *int     `json:"no_ask,omitempty"`
	FloorStrike *float64 `json:"floor_strike,omitempty"`
	CloseTime   string   `json:"close_time,omitempty"`
}

// Opportunity is a single detected pricing contradiction.
type Opportunity struct {
	ScanKind    ScanKind `json:"scan_kind"`
	Severity    Severity `json:"severity"`
	ProfitCents int      `json:"profit_cents"`

	// ProfitIsProxy marks a figure derived from a mispricing magnitude
	// rather than a realizable fill price (multi-outcome sell side with
	// incomplete bid data).
	ProfitIsProxy bool `json:"profit_is_proxy,omitempty"`

	// Description is fully reproducible from the numeric fields above.
	Description string `json:"description"`

	Markets     []MarketRef `json:"markets"`
	EventTicker string      `json:"event_ticker"`
	Category    string      `json:"category"`
	Volume24h   int64       `json:"volume_24h"`
}

// RankedInversion is a monotonicity inversion sized against live books.
type RankedInversion struct {
	Opportunity

	LoAskCents      int   `json:"lo_ask_cents"`      // implied YES ask on the lower strike
	HiBidCents      int   `json:"hi_bid_cents"`      // best YES bid on the higher strike
	ExecProfitCents int   `json:"exec_profit_cents"` // hi_bid - lo_ask at book time
	LoDepth         int   `json:"lo_depth"`
	HiDepth         int   `json:"hi_depth"`
	MinDepth        int   `json:"min_depth"`
	Score           int64 `json:"score"` // exec_profit_cents * min_depth
}

// SeriesPrefixOf returns the ticker's leading dash-separated segment,
// the venue's stable encoding of the series/underlying.
func SeriesPrefixOf(ticker string) string {
	if i := strings.IndexByte(ticker, '-'); i >= 0 {
		return ticker[:i]
	}
	return ticker
}
