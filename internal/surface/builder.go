package surface

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/rgoodman/kalshi-scan/internal/api"
	"github.com/rgoodman/kalshi-scan/internal/model"
)

// CategoryRollup aggregates one category's footprint for reporting.
type CategoryRollup struct {
	Events    int   `json:"events"`
	Markets   int   `json:"markets"`
	Volume24h int64 `json:"volume_24h"`
}

// Summary describes snapshot completeness. Every partial failure during a
// build is reflected here so operators can judge the snapshot without
// reading logs.
type Summary struct {
	TotalEvents         int                       `json:"total_events"`
	TotalMarkets        int                       `json:"total_markets"`
	OrphanMarkets       int                       `json:"orphan_markets"`
	AnomalyCount        int                       `json:"anomaly_count"`
	EventsTruncated     bool                      `json:"events_truncated,omitempty"`
	MarketsTruncated    bool                      `json:"markets_truncated,omitempty"`
	OrderbooksRequested int                       `json:"orderbooks_requested"`
	OrderbooksPopulated int                       `json:"orderbooks_populated"`
	Categories          map[string]CategoryRollup `json:"categories"`
}

// TreeEvent is one event node in the series rollup tree.
type TreeEvent struct {
	Title   string   `json:"title"`
	Markets []string `json:"markets"`
}

// Surface is the persisted snapshot artifact.
type Surface struct {
	GeneratedAt time.Time                `json:"generated_at"`
	RunID       string                   `json:"run_id"`
	Summary     Summary                  `json:"summary"`
	Events      []model.Event            `json:"events"`
	Markets     map[string]*model.Market `json:"markets"`

	// Tree maps series ticker -> event ticker -> event node.
	Tree map[string]map[string]TreeEvent `json:"tree"`
}

// Builder assembles a Surface from the venue's two listing endpoints.
type Builder struct {
	client *api.Client
	logger *slog.Logger
}

// NewBuilder creates a surface builder.
func NewBuilder(client *api.Client, logger *slog.Logger) *Builder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Builder{
		client: client,
		logger: logger.With("component", "surface_builder"),
	}
}

// Build produces a full snapshot. topNBooks > 0 additionally prefetches
// order books for the top-N markets by 24h volume.
func (b *Builder) Build(ctx context.Context, topNBooks int) (*Surface, error) {
	surf := &Surface{
		GeneratedAt: time.Now().UTC(),
		RunID:       uuid.NewString(),
		Markets:     make(map[string]*model.Market),
		Tree:        make(map[string]map[string]TreeEvent),
	}

	// Step 1: primary listing, events with nested markets.
	apiEvents, eventsTruncated := b.client.GetAllOpenEvents(ctx)
	surf.Summary.EventsTruncated = eventsTruncated
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for i := range apiEvents {
		ae := &apiEvents[i]
		ev := model.Event{
			EventTicker:       ae.EventTicker,
			Title:             ae.Title,
			SeriesTicker:      ae.SeriesTicker,
			Category:          ae.Category,
			MutuallyExclusive: ae.MutuallyExclusive,
		}
		for j := range ae.Markets {
			m := Normalize(&ae.Markets[j])
			if m.Category == "" {
				m.Category = ae.Category
			}
			surf.Markets[m.Ticker] = m
			ev.MarketTickers = append(ev.MarketTickers, m.Ticker)
		}
		surf.Events = append(surf.Events, ev)
	}

	b.logger.Info("primary listing walked",
		"events", len(surf.Events),
		"markets", len(surf.Markets),
		"truncated", eventsTruncated,
	)

	// Step 2: orphan reconciliation against the flat market listing.
	// Orphans join the flat index but are not attached to any Event; their
	// event_ticker field still names the logical parent for detectors that
	// key off it.
	flat, marketsTruncated := b.client.GetAllOpenMarkets(ctx)
	surf.Summary.MarketsTruncated = marketsTruncated
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for i := range flat {
		if _, ok := surf.Markets[flat[i].Ticker]; ok {
			continue
		}
		surf.Markets[flat[i].Ticker] = Normalize(&flat[i])
		surf.Summary.OrphanMarkets++
	}

	b.logger.Info("orphan reconciliation done",
		"orphans", surf.Summary.OrphanMarkets,
		"truncated", marketsTruncated,
	)

	// Step 3: optional order book prefetch for the most active markets.
	if topNBooks > 0 {
		b.prefetchBooks(ctx, surf, topNBooks)
	}

	b.finishSummary(surf)
	return surf, nil
}

// prefetchBooks attaches order books to the top-N markets by 24h volume.
func (b *Builder) prefetchBooks(ctx context.Context, surf *Surface, topN int) {
	tickers := make([]string, 0, len(surf.Markets))
	for t := range surf.Markets {
		tickers = append(tickers, t)
	}
	sort.Slice(tickers, func(i, j int) bool {
		mi, mj := surf.Markets[tickers[i]], surf.Markets[tickers[j]]
		if mi.Volume24h != mj.Volume24h {
			return mi.Volume24h > mj.Volume24h
		}
		return tickers[i] < tickers[j]
	})
	if topN < len(tickers) {
		tickers = tickers[:topN]
	}
	surf.Summary.OrderbooksRequested = len(tickers)

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	for _, ticker := range tickers {
		ticker := ticker
		g.Go(func() error {
			book, err := b.client.GetOrderbook(gctx, ticker)
			if err != nil {
				b.logger.Warn("orderbook fetch failed", "ticker", ticker, "error", err)
				return nil // a missing book is partial data, not a build failure
			}
			mu.Lock()
			surf.Markets[ticker].Orderbook = book
			surf.Summary.OrderbooksPopulated++
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	b.logger.Info("orderbook prefetch done",
		"requested", surf.Summary.OrderbooksRequested,
		"populated", surf.Summary.OrderbooksPopulated,
	)
}

// finishSummary computes counts, category rollups, and the series tree.
func (b *Builder) finishSummary(surf *Surface) {
	surf.Summary.TotalEvents = len(surf.Events)
	surf.Summary.TotalMarkets = len(surf.Markets)
	surf.Summary.Categories = make(map[string]CategoryRollup)

	for _, m := range surf.Markets {
		if m.MissingLegs() >= 2 {
			surf.Summary.AnomalyCount++
		}
		roll := surf.Summary.Categories[m.Category]
		roll.Markets++
		roll.Volume24h += m.Volume24h
		surf.Summary.Categories[m.Category] = roll
	}

	for _, ev := range surf.Events {
		roll := surf.Summary.Categories[ev.Category]
		roll.Events++
		surf.Summary.Categories[ev.Category] = roll

		series := surf.Tree[ev.SeriesTicker]
		if series == nil {
			series = make(map[string]TreeEvent)
			surf.Tree[ev.SeriesTicker] = series
		}
		series[ev.EventTicker] = TreeEvent{
			Title:   ev.Title,
			Markets: ev.MarketTickers,
		}
	}
}
