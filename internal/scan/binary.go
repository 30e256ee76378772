package scan

import (
	"fmt"

	"github.com/rgoodman/kalshi-scan/internal/model"
)

// binaryComplementFloor tolerates normal two-sided spread noise: only ask
// sums strictly below this count as mispricing, not the theoretical 100.
const binaryComplementFloor = 98

// DetectBinaryComplement flags markets where buying both sides costs less
// than the guaranteed 100-cent payout: yes_ask + no_ask < 98.
func DetectBinaryComplement(markets map[string]*model.Market) []model.Opportunity {
	var opps []model.Opportunity

	for _, ticker := range sortedTickers(markets) {
		m := markets[ticker]
		if m.YesAsk == nil || m.NoAsk == nil {
			continue
		}

		sum := *m.YesAsk + *m.NoAsk
		if sum >= binaryComplementFloor {
			continue
		}

		profit := 100 - sum
		opps = append(opps, model.Opportunity{
			ScanKind:    model.ScanBinaryComplement,
			Severity:    model.SeverityFor(profit),
			ProfitCents: profit,
			Description: fmt.Sprintf("yes_ask %d + no_ask %d = %d < %d: buy YES and NO for guaranteed 100, profit %dc",
				*m.YesAsk, *m.NoAsk, sum, binaryComplementFloor, profit),
			Markets: []model.MarketRef{{
				Ticker: m.Ticker,
				YesAsk: m.YesAsk,
				NoAsk:  m.NoAsk,
			}},
			EventTicker: m.EventTicker,
			Category:    m.Category,
			Volume24h:   m.Volume24h,
		})
	}

	sortOpportunities(opps)
	return opps
}
