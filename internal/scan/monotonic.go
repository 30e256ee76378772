package scan

import (
	"fmt"
	"sort"

	"github.com/rgoodman/kalshi-scan/internal/model"
)

// DetectMonotonicity flags alt-strike inversions: among same-team
// "greater" contracts a higher bar is strictly harder to clear, so its
// yes_ask can never legitimately exceed a lower strike's. When it does,
// buying YES at the lower strike and NO at the higher pays at least 100
// whichever way the pair resolves, since clearing the higher bar implies
// clearing the lower one.
func DetectMonotonicity(markets map[string]*model.Market) []model.Opportunity {
	type groupKey struct {
		eventTicker string
		team        string
	}

	groups := make(map[groupKey][]*model.Market)
	for _, ticker := range sortedTickers(markets) {
		m := markets[ticker]
		if m.StrikeType != "greater" || m.FloorStrike == nil || m.YesAsk == nil {
			continue
		}
		key := groupKey{eventTicker: m.EventTicker, team: teamOf(m)}
		groups[key] = append(groups[key], m)
	}

	keys := make([]groupKey, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].eventTicker != keys[j].eventTicker {
			return keys[i].eventTicker < keys[j].eventTicker
		}
		return keys[i].team < keys[j].team
	})

	var opps []model.Opportunity
	for _, key := range keys {
		ladder := groups[key]
		sort.Slice(ladder, func(i, j int) bool {
			if *ladder[i].FloorStrike != *ladder[j].FloorStrike {
				return *ladder[i].FloorStrike < *ladder[j].FloorStrike
			}
			return ladder[i].Ticker < ladder[j].Ticker
		})

		for i := 0; i+1 < len(ladder); i++ {
			lo, hi := ladder[i], ladder[i+1]
			if *hi.YesAsk <= *lo.YesAsk {
				continue
			}

			profit := *hi.YesAsk - *lo.YesAsk
			opps = append(opps, model.Opportunity{
				ScanKind:    model.ScanMonotonicity,
				Severity:    model.SeverityFor(profit),
				ProfitCents: profit,
				Description: fmt.Sprintf("strike %s yes_ask %d < strike %s yes_ask %d: buy YES at the lower strike, buy NO at the higher, profit %dc",
					fmtStrike(*lo.FloorStrike), *lo.YesAsk, fmtStrike(*hi.FloorStrike), *hi.YesAsk, profit),
				Markets: []model.MarketRef{
					{Ticker: lo.Ticker, YesAsk: lo.YesAsk, YesBid: lo.YesBid, NoAsk: lo.NoAsk, FloorStrike: lo.FloorStrike},
					{Ticker: hi.Ticker, YesAsk: hi.YesAsk, YesBid: hi.YesBid, NoAsk: hi.NoAsk, FloorStrike: hi.FloorStrike},
				},
				EventTicker: lo.EventTicker,
				Category:    lo.Category,
				Volume24h:   sumVolume(lo, hi),
			})
		}
	}

	sortOpportunities(opps)
	return opps
}
