package surface

import (
	"github.com/rgoodman/kalshi-scan/internal/api"
	"github.com/rgoodman/kalshi-scan/internal/model"
)

// Normalize converts a raw venue market into the canonical model: both
// price encodings collapse to integer cents, a single missing leg is
// derived from the binary-complement identity, and the spread and
// yes_no_sum aggregates are filled in.
func Normalize(am *api.APIMarket) *model.Market {
	m := &model.Market{
		Ticker:       am.Ticker,
		EventTicker:  am.EventTicker,
		SeriesPrefix: model.SeriesPrefixOf(am.Ticker),
		Category:     am.Category,
		MarketType:   am.MarketType,
		StrikeType:   am.StrikeType,
		FloorStrike:  am.FloorStrike,
		CapStrike:    am.CapStrike,
		YesBid:       priceCents(am.YesBidDollars, am.YesBid),
		YesAsk:       priceCents(am.YesAskDollars, am.YesAsk),
		NoBid:        priceCents(am.NoBidDollars, am.NoBid),
		NoAsk:        priceCents(am.NoAskDollars, am.NoAsk),
		Volume24h:    am.Volume24h,
		OpenInterest: am.OpenInterest,
		CloseTime:    am.CloseTime,
	}

	DeriveMissingLeg(m)
	fillDerived(m)
	return m
}

// priceCents prefers the fixed-point dollar string and falls back to the
// legacy numeric field.
func priceCents(dollars string, legacy float64) *int {
	if p := model.ParseCents(dollars); p != nil {
		return p
	}
	return model.ParseCents(legacy)
}

// DeriveMissingLeg fills in exactly one missing price leg using the
// complement identity: yes_bid + no_ask == 100 and yes_ask + no_bid == 100.
// With two or more legs missing nothing can be derived and the market is
// left as-is for per-detector exclusion. Reports whether all four legs are
// known afterward.
func DeriveMissingLeg(m *model.Market) bool {
	if m.MissingLegs() == 1 {
		switch {
		case m.YesBid == nil:
			m.YesBid = model.Cents(100 - *m.NoAsk)
		case m.YesAsk == nil:
			m.YesAsk = model.Cents(100 - *m.NoBid)
		case m.NoBid == nil:
			m.NoBid = model.Cents(100 - *m.YesAsk)
		case m.NoAsk == nil:
			m.NoAsk = model.Cents(100 - *m.YesBid)
		}
	}
	return m.MissingLegs() == 0
}

func fillDerived(m *model.Market) {
	if m.YesBid != nil && m.YesAsk != nil {
		m.Spread = model.Cents(*m.YesAsk - *m.YesBid)
	}
	if m.YesAsk != nil && m.NoAsk != nil {
		m.YesNoSum = model.Cents(*m.YesAsk + *m.NoAsk)
	}
}
