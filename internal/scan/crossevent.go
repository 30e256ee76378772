package scan

import (
	"fmt"
	"sort"

	"github.com/rgoodman/kalshi-scan/internal/model"
)

// crossEventGapCents is the tolerated disagreement between a team's
// moneyline ask and its lowest-strike alternate-spread ask.
const crossEventGapCents = 5

// gameRole classifies an event within one game's listing family.
type gameRole int

const (
	roleMoneyline gameRole = iota
	roleSpread
	roleTotal
)

// gameSeriesRoles maps the venue's sport series tickers onto roles. Events
// outside this taxonomy are skipped by the cross-event detector.
var gameSeriesRoles = map[string]gameRole{
	"KXNBAGAME": roleMoneyline, "KXNBASPREAD": roleSpread, "KXNBATOTAL": roleTotal,
	"KXNFLGAME": roleMoneyline, "KXNFLSPREAD": roleSpread, "KXNFLTOTAL": roleTotal,
	"KXNHLGAME": roleMoneyline, "KXNHLSPREAD": roleSpread, "KXNHLTOTAL": roleTotal,
	"KXMLBGAME": roleMoneyline, "KXMLBSPREAD": roleSpread, "KXMLBTOTAL": roleTotal,
	"KXWNBAGAME": roleMoneyline, "KXWNBASPREAD": roleSpread, "KXWNBATOTAL": roleTotal,
	"KXNCAAFGAME": roleMoneyline, "KXNCAAFSPREAD": roleSpread, "KXNCAAFTOTAL": roleTotal,
}

// DetectCrossEvent compares, within one game, a team's moneyline ask
// against that team's lowest-strike alternate-spread ask. The lowest
// spread strike is the closest thing to a moneyline-equivalent threshold,
// so the two implied probabilities should roughly agree; a gap above 5
// cents is a contradiction sized at the gap.
func DetectCrossEvent(markets map[string]*model.Market, events []model.Event) []model.Opportunity {
	type game struct {
		moneyline *model.Event
		spread    *model.Event
	}

	games := make(map[string]*game)
	var gameIDs []string
	for i := range events {
		ev := &events[i]
		series := ev.SeriesTicker
		if series == "" {
			series = model.SeriesPrefixOf(ev.EventTicker)
		}
		role, ok := gameSeriesRoles[series]
		if !ok {
			continue
		}
		id := gameIDOf(ev.EventTicker)
		if id == "" {
			continue
		}
		g := games[id]
		if g == nil {
			g = &game{}
			games[id] = g
			gameIDs = append(gameIDs, id)
		}
		switch role {
		case roleMoneyline:
			g.moneyline = ev
		case roleSpread:
			g.spread = ev
		}
	}
	sort.Strings(gameIDs)

	var opps []model.Opportunity
	for _, id := range gameIDs {
		g := games[id]
		if g.moneyline == nil || g.spread == nil {
			continue
		}

		// Lowest-strike "greater" spread market per team.
		lowSpread := make(map[string]*model.Market)
		for _, ticker := range g.spread.MarketTickers {
			m, ok := markets[ticker]
			if !ok || m.StrikeType != "greater" || m.FloorStrike == nil || m.YesAsk == nil {
				continue
			}
			team := teamOf(m)
			if team == "" {
				continue
			}
			cur, seen := lowSpread[team]
			if !seen || *m.FloorStrike < *cur.FloorStrike ||
				(*m.FloorStrike == *cur.FloorStrike && m.Ticker < cur.Ticker) {
				lowSpread[team] = m
			}
		}

		for _, ticker := range g.moneyline.MarketTickers {
			ml, ok := markets[ticker]
			if !ok || ml.YesAsk == nil {
				continue
			}
			team := teamOf(ml)
			sp, ok := lowSpread[team]
			if !ok {
				continue
			}

			gap := *ml.YesAsk - *sp.YesAsk
			if gap < 0 {
				gap = -gap
			}
			if gap <= crossEventGapCents {
				continue
			}

			opps = append(opps, model.Opportunity{
				ScanKind:    model.ScanCrossEvent,
				Severity:    model.SeverityFor(gap),
				ProfitCents: gap,
				Description: fmt.Sprintf("moneyline yes_ask %d vs spread strike %s yes_ask %d: implied-probability gap %dc > %d",
					*ml.YesAsk, fmtStrike(*sp.FloorStrike), *sp.YesAsk, gap, crossEventGapCents),
				Markets: []model.MarketRef{
					{Ticker: ml.Ticker, YesAsk: ml.YesAsk, YesBid: ml.YesBid},
					{Ticker: sp.Ticker, YesAsk: sp.YesAsk, YesBid: sp.YesBid, FloorStrike: sp.FloorStrike},
				},
				EventTicker: g.moneyline.EventTicker,
				Category:    g.moneyline.Category,
				Volume24h:   sumVolume(ml, sp),
			})
		}
	}

	sortOpportunities(opps)
	return opps
}
