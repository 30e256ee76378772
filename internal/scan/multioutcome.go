package scan

import (
	"fmt"

	"github.com/rgoodman/kalshi-scan/internal/model"
)

// N-way sums accumulate more natural noise than a single binary pair, so
// the bands are wider than the binary detector's 98.
const (
	multiOutcomeBuyFloor    = 97
	multiOutcomeSellCeiling = 103
)

// DetectMultiOutcome flags mutually-exclusive events whose outcome asks sum
// far enough from 100: below 97 buying every YES locks in the payout, above
// 103 selling every YES collects more than the single winner pays out.
func DetectMultiOutcome(markets map[string]*model.Market, events []model.Event) []model.Opportunity {
	var opps []model.Opportunity

	for _, ev := range events {
		if !ev.MutuallyExclusive {
			continue
		}

		// Children in listing order, restricted to priced outcomes.
		var legs []*model.Market
		for _, ticker := range ev.MarketTickers {
			m, ok := markets[ticker]
			if !ok || m.YesAsk == nil {
				continue
			}
			legs = append(legs, m)
		}
		if len(legs) < 2 {
			continue
		}

		askSum := 0
		bidSum := 0
		allBids := true
		for _, m := range legs {
			askSum += *m.YesAsk
			if m.YesBid != nil {
				bidSum += *m.YesBid
			} else {
				allBids = false
			}
		}

		switch {
		case askSum < multiOutcomeBuyFloor:
			profit := 100 - askSum
			opps = append(opps, model.Opportunity{
				ScanKind:    model.ScanMultiOutcome,
				Severity:    model.SeverityFor(profit),
				ProfitCents: profit,
				Description: fmt.Sprintf("%d outcome asks sum %d < %d: buy every YES for guaranteed 100, profit %dc",
					len(legs), askSum, multiOutcomeBuyFloor, profit),
				Markets:     legRefs(legs),
				EventTicker: ev.EventTicker,
				Category:    ev.Category,
				Volume24h:   sumVolume(legs...),
			})

		case askSum > multiOutcomeSellCeiling:
			// Realizable profit comes from the bid side; with incomplete
			// bid data the ask overage stands in as a lower-confidence
			// proxy for the mispricing magnitude.
			var profit int
			var desc string
			proxy := !allBids
			if allBids {
				profit = bidSum - 100
				desc = fmt.Sprintf("%d outcome asks sum %d > %d: sell every YES at bid sum %d, profit %dc",
					len(legs), askSum, multiOutcomeSellCeiling, bidSum, profit)
			} else {
				profit = askSum - 100
				desc = fmt.Sprintf("%d outcome asks sum %d > %d: overround %dc (ask proxy, bid data incomplete)",
					len(legs), askSum, multiOutcomeSellCeiling, profit)
			}
			opps = append(opps, model.Opportunity{
				ScanKind:      model.ScanMultiOutcome,
				Severity:      model.SeverityFor(profit),
				ProfitCents:   profit,
				ProfitIsProxy: proxy,
				Description:   desc,
				Markets:       legRefs(legs),
				EventTicker:   ev.EventTicker,
				Category:      ev.Category,
				Volume24h:     sumVolume(legs...),
			})
		}
	}

	sortOpportunities(opps)
	return opps
}

func legRefs(legs []*model.Market) []model.MarketRef {
	refs := make([]model.MarketRef, 0, len(legs))
	for _, m := range legs {
		refs = append(refs, model.MarketRef{
			Ticker: m.Ticker,
			YesBid: m.YesBid,
			YesAsk: m.YesAsk,
		})
	}
	return refs
}
