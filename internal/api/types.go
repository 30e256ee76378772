package api

// ExchangeStatusResponse from GET /exchange/status
type ExchangeStatusResponse struct {
	ExchangeActive      bool   `json:"exchange_active"`
	TradingActive       bool   `json:"trading_active"`
	EstimatedResumeTime string `json:"exchange_estimated_resume_time,omitempty"`
}

// MarketsResponse from GET /markets
type MarketsResponse struct {
	Markets []APIMarket `json:"markets"`
	Cursor  string      `json:"cursor"`
}

// APIMarket is a market as the venue reports it, before normalization.
// Prices arrive in two encodings: legacy numerics (values above 1 are
// cents, at or below 1 are dollars) and fixed-point dollar strings.
type APIMarket struct {
	Ticker      string `json:"ticker"`
	EventTicker string `json:"event_ticker"`
	Title       string `json:"title"`
	Status      string `json:"status"`
	MarketType  string `json:"market_type"`
	Category    string `json:"category"`

	StrikeType  string   `json:"strike_type"`
	FloorStrike *float64 `json:"floor_strike"`
	CapStrike   *float64 `json:"cap_strike"`

	// Legacy numeric prices.
	YesBid float64 `json:"yes_bid"`
	YesAsk float64 `json:"yes_ask"`
	NoBid  float64 `json:"no_bid"`
	NoAsk  float64 `json:"no_ask"`

	// Fixed-point dollar strings (sub-penny capable).
	YesBidDollars string `json:"yes_bid_dollars"`
	YesAskDollars string `json:"yes_ask_dollars"`
	NoBidDollars  string `json:"no_bid_dollars"`
	NoAskDollars  string `json:"no_ask_dollars"`

	Volume24h    int64 `json:"volume_24h"`
	OpenInterest int64 `json:"open_interest"`

	CloseTime string `json:"close_time"` // ISO 8601
}

// EventsResponse from GET /events?with_nested_markets=true
type EventsResponse struct {
	Events []APIEvent `json:"events"`
	Cursor string     `json:"cursor"`
}

// APIEvent is an event as the venue reports it, optionally carrying its
// nested markets.
type APIEvent struct {
	EventTicker       string      `json:"event_ticker"`
	SeriesTicker      string      `json:"series_ticker"`
	Title             string      `json:"title"`
	Category          string      `json:"category"`
	MutuallyExclusive bool        `json:"mutually_exclusive"`
	Markets           []APIMarket `json:"markets"`
}

// OrderbookResponse from GET /markets/{ticker}/orderbook
type OrderbookResponse struct {
	Orderbook APIOrderbook `json:"orderbook"`
}

// APIOrderbook holds levels as [price_cents, quantity] pairs.
type APIOrderbook struct {
	Yes [][]int `json:"yes"`
	No  [][]int `json:"no"`
}
