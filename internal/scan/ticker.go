package scan

import (
	"strings"

	"github.com/rgoodman/kalshi-scan/internal/model"
)

// teamOf extracts the side segment from a market ticker: the venue encodes
// it as the first dash-separated segment after the event ticker prefix
// (e.g. "KXNBASPREAD-25DEC25DETLAL-DET-5" -> "DET"). Markets whose tickers
// do not extend their event ticker land in a single "" group, which only
// ever compares strikes within the same listing.
func teamOf(m *model.Market) string {
	prefix := m.EventTicker + "-"
	if m.EventTicker == "" || !strings.HasPrefix(m.Ticker, prefix) {
		return ""
	}
	suffix := m.Ticker[len(prefix):]
	if i := strings.IndexByte(suffix, '-'); i >= 0 {
		return suffix[:i]
	}
	return suffix
}

// gameIDOf strips the series segment from an event ticker, leaving the
// venue's shared game identifier ("KXNBAGAME-25DEC25DETLAL" ->
// "25DEC25DETLAL").
func gameIDOf(eventTicker string) string {
	if i := strings.IndexByte(eventTicker, '-'); i >= 0 {
		return eventTicker[i+1:]
	}
	return ""
}
