package scan

import (
	"log/slog"
	"sort"
	"strconv"

	"github.com/rgoodman/kalshi-scan/internal/model"
)

// Counts holds per-detector opportunity totals for the report artifact.
type Counts struct {
	BinaryComplement int `json:"binary_complement"`
	MultiOutcome     int `json:"multi_outcome"`
	Monotonicity     int `json:"monotonicity"`
	CrossEvent       int `json:"cross_event"`
	CryptoTime       int `json:"crypto_time"`
	Total            int `json:"total"`
}

// Scanner runs the detectors and assembles the combined result.
type Scanner struct {
	logger *slog.Logger
}

// NewScanner creates a scanner. logger may be nil.
func NewScanner(logger *slog.Logger) *Scanner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scanner{logger: logger.With("component", "scanner")}
}

// Scan runs all five detectors and returns their concatenated,
// per-detector-sorted opportunities plus the count breakdown.
func (s *Scanner) Scan(markets map[string]*model.Market, events []model.Event) ([]model.Opportunity, Counts) {
	binary := DetectBinaryComplement(markets)
	multi := DetectMultiOutcome(markets, events)
	mono := DetectMonotonicity(markets)
	cross := DetectCrossEvent(markets, events)
	crypto := DetectTimeConsistency(markets)

	counts := Counts{
		BinaryComplement: len(binary),
		MultiOutcome:     len(multi),
		Monotonicity:     len(mono),
		CrossEvent:       len(cross),
		CryptoTime:       len(crypto),
	}
	counts.Total = counts.BinaryComplement + counts.MultiOutcome +
		counts.Monotonicity + counts.CrossEvent + counts.CryptoTime

	all := make([]model.Opportunity, 0, counts.Total)
	all = append(all, binary...)
	all = append(all, multi...)
	all = append(all, mono...)
	all = append(all, cross...)
	all = append(all, crypto...)

	s.logger.Info("scan complete",
		"binary_complement", counts.BinaryComplement,
		"multi_outcome", counts.MultiOutcome,
		"monotonicity", counts.Monotonicity,
		"cross_event", counts.CrossEvent,
		"crypto_time", counts.CryptoTime,
		"total", counts.Total,
	)

	return all, counts
}

// sortedTickers returns map keys in lexical order so detector iteration is
// deterministic.
func sortedTickers(markets map[string]*model.Market) []string {
	tickers := make([]string, 0, len(markets))
	for t := range markets {
		tickers = append(tickers, t)
	}
	sort.Strings(tickers)
	return tickers
}

// sortOpportunities orders by descending profit, ties broken by the first
// involved ticker.
func sortOpportunities(opps []model.Opportunity) {
	sort.Slice(opps, func(i, j int) bool {
		if opps[i].ProfitCents != opps[j].ProfitCents {
			return opps[i].ProfitCents > opps[j].ProfitCents
		}
		return firstTicker(opps[i]) < firstTicker(opps[j])
	})
}

func firstTicker(o model.Opportunity) string {
	if len(o.Markets) == 0 {
		return ""
	}
	return o.Markets[0].Ticker
}

// fmtStrike renders a strike without trailing zeros.
func fmtStrike(strike float64) string {
	return strconv.FormatFloat(strike, 'f', -1, 64)
}

func sumVolume(ms ...*model.Market) int64 {
	var total int64
	for _, m := range ms {
		total += m.Volume24h
	}
	return total
}
