package scan

import (
	"fmt"
	"sort"
	"time"

	"github.com/rgoodman/kalshi-scan/internal/model"
)

// timeSeriesPrefixes are the directional-underlying series where the same
// threshold recurs across expiries. Sport series never share a strike
// across games, so the detector stays scoped to these.
var timeSeriesPrefixes = map[string]bool{
	"KXBTC": true, "KXBTCD": true,
	"KXETH": true, "KXETHD": true,
	"KXSOL": true, "KXSOLD": true,
	"KXXRP": true, "KXXRPD": true,
}

// DetectTimeConsistency flags calendar inversions on directional
// underlyings: a later-expiring "greater" contract at the same strike has
// strictly more time to clear the bar, so its yes_ask cannot be below an
// earlier expiry's. The trade is buy NO near-dated, buy YES far-dated.
func DetectTimeConsistency(markets map[string]*model.Market) []model.Opportunity {
	type groupKey struct {
		underlying string
		strike     float64
	}
	type leg struct {
		market  *model.Market
		closeAt time.Time
	}

	groups := make(map[groupKey][]leg)
	for _, ticker := range sortedTickers(markets) {
		m := markets[ticker]
		if m.StrikeType != "greater" || m.FloorStrike == nil || m.YesAsk == nil {
			continue
		}
		if !timeSeriesPrefixes[m.SeriesPrefix] {
			continue
		}
		closeAt, err := time.Parse(time.RFC3339, m.CloseTime)
		if err != nil {
			continue // malformed close time excludes this market here only
		}
		key := groupKey{underlying: m.SeriesPrefix, strike: *m.FloorStrike}
		groups[key] = append(groups[key], leg{market: m, closeAt: closeAt})
	}

	keys := make([]groupKey, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].underlying != keys[j].underlying {
			return keys[i].underlying < keys[j].underlying
		}
		return keys[i].strike < keys[j].strike
	})

	var opps []model.Opportunity
	for _, key := range keys {
		ladder := groups[key]
		sort.Slice(ladder, func(i, j int) bool {
			if !ladder[i].closeAt.Equal(ladder[j].closeAt) {
				return ladder[i].closeAt.Before(ladder[j].closeAt)
			}
			return ladder[i].market.Ticker < ladder[j].market.Ticker
		})

		for i := 0; i+1 < len(ladder); i++ {
			early, late := ladder[i], ladder[i+1]
			if early.closeAt.Equal(late.closeAt) {
				continue
			}
			if *late.market.YesAsk >= *early.market.YesAsk {
				continue
			}

			profit := *early.market.YesAsk - *late.market.YesAsk
			opps = append(opps, model.Opportunity{
				ScanKind:    model.ScanCryptoTime,
				Severity:    model.SeverityFor(profit),
				ProfitCents: profit,
				Description: fmt.Sprintf("strike %s: close %s yes_ask %d > close %s yes_ask %d: buy NO near-dated, buy YES far-dated, profit %dc",
					fmtStrike(key.strike), early.market.CloseTime, *early.market.YesAsk,
					late.market.CloseTime, *late.market.YesAsk, profit),
				Markets: []model.MarketRef{
					{Ticker: early.market.Ticker, YesAsk: early.market.YesAsk, FloorStrike: early.market.FloorStrike, CloseTime: early.market.CloseTime},
					{Ticker: late.market.Ticker, YesAsk: late.market.YesAsk, FloorStrike: late.market.FloorStrike, CloseTime: late.market.CloseTime},
				},
				EventTicker: early.market.EventTicker,
				Category:    early.market.Category,
				Volume24h:   sumVolume(early.market, late.market),
			})
		}
	}

	sortOpportunities(opps)
	return opps
}
