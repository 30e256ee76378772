package depth

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/rgoodman/kalshi-scan/internal/model"
)

// DefaultBookConcurrency caps concurrent orderbook fetches.
const DefaultBookConcurrency = 8

// BookFetcher supplies live orderbooks. *api.Client satisfies it.
type BookFetcher interface {
	GetOrderbook(ctx context.Context, ticker string) (*model.Orderbook, error)
}

// Result is the outcome of one ranking pass.
type Result struct {
	Ranked []model.RankedInversion

	// Inversions dropped because the window closed, or because a book was
	// missing or nothing rests at the executable prices.
	Closed  int
	NoDepth int

	BooksFetched int
	BooksFailed  int
}

// Ranker sizes monotonicity inversions against current books.
type Ranker struct {
	fetcher     BookFetcher
	logger      *slog.Logger
	concurrency int
}

// Option configures a Ranker.
type Option func(*Ranker)

// WithConcurrency caps concurrent orderbook fetches.
func WithConcurrency(n int) Option {
	return func(r *Ranker) {
		if n > 0 {
			r.concurrency = n
		}
	}
}

// NewRanker creates a ranker. logger may be nil.
func NewRanker(fetcher BookFetcher, logger *slog.Logger, opts ...Option) *Ranker {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Ranker{
		fetcher:     fetcher,
		logger:      logger.With("component", "depth"),
		concurrency: DefaultBookConcurrency,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Rank fetches books for every monotonicity inversion in opps, recomputes
// the executable edge from resting orders, and returns the top inversions
// by exec_profit * min_depth. Inversions whose books cannot be fetched are
// skipped, not fatal. topN <= 0 means no truncation.
func (r *Ranker) Rank(ctx context.Context, opps []model.Opportunity, topN int) (*Result, error) {
	var inversions []model.Opportunity
	for _, o := range opps {
		if o.ScanKind == model.ScanMonotonicity && len(o.Markets) == 2 {
			inversions = append(inversions, o)
		}
	}

	books, fetched, failed := r.fetchBooks(ctx, inversions)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res := &Result{BooksFetched: fetched, BooksFailed: failed}
	for _, inv := range inversions {
		loBook := books[inv.Markets[0].Ticker]
		hiBook := books[inv.Markets[1].Ticker]
		if loBook == nil || hiBook == nil {
			// A missing book counts the same as an empty one, so
			// ranked + closed + no_depth reconciles with the input.
			res.NoDepth++
			continue
		}

		// Buying YES at the lower strike fills against its resting NO
		// bids, so the implied YES ask there is 100 minus the best NO
		// bid. Buying NO at the higher strike fills against its resting
		// YES bids at 100 minus the best YES bid.
		bestNoBid, ok := bestBid(loBook.No)
		if !ok {
			res.NoDepth++
			continue
		}
		hiBid, ok := bestBid(hiBook.Yes)
		if !ok {
			res.NoDepth++
			continue
		}
		loAsk := 100 - bestNoBid

		execProfit := hiBid - loAsk
		if execProfit <= 0 {
			res.Closed++
			continue
		}

		loDepth := depthAtOrAbove(loBook.No, bestNoBid)
		hiDepth := depthAtOrAbove(hiBook.Yes, hiBid)
		minDepth := loDepth
		if hiDepth < minDepth {
			minDepth = hiDepth
		}
		if minDepth == 0 {
			res.NoDepth++
			continue
		}

		res.Ranked = append(res.Ranked, model.RankedInversion{
			Opportunity:     inv,
			LoAskCents:      loAsk,
			HiBidCents:      hiBid,
			ExecProfitCents: execProfit,
			LoDepth:         loDepth,
			HiDepth:         hiDepth,
			MinDepth:        minDepth,
			Score:           int64(execProfit) * int64(minDepth),
		})
	}

	sort.Slice(res.Ranked, func(i, j int) bool {
		if res.Ranked[i].Score != res.Ranked[j].Score {
			return res.Ranked[i].Score > res.Ranked[j].Score
		}
		return pairKey(res.Ranked[i]) < pairKey(res.Ranked[j])
	})
	if topN > 0 && len(res.Ranked) > topN {
		res.Ranked = res.Ranked[:topN]
	}

	r.logger.Info("ranking complete",
		"inversions", len(inversions),
		"ranked", len(res.Ranked),
		"closed", res.Closed,
		"no_depth", res.NoDepth,
		"books_fetched", res.BooksFetched,
		"books_failed", res.BooksFailed,
	)
	return res, nil
}

// fetchBooks pulls each distinct ticker's book once, concurrently.
func (r *Ranker) fetchBooks(ctx context.Context, inversions []model.Opportunity) (map[string]*model.Orderbook, int, int) {
	tickerSet := make(map[string]bool)
	var tickers []string
	for _, inv := range inversions {
		for _, ref := range inv.Markets {
			if !tickerSet[ref.Ticker] {
				tickerSet[ref.Ticker] = true
				tickers = append(tickers, ref.Ticker)
			}
		}
	}
	sort.Strings(tickers)

	var (
		mu      sync.Mutex
		books   = make(map[string]*model.Orderbook, len(tickers))
		fetched int
		failed  int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)
	for _, ticker := range tickers {
		ticker := ticker
		g.Go(func() error {
			book, err := r.fetcher.GetOrderbook(gctx, ticker)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failed++
				r.logger.Warn("orderbook fetch failed", "ticker", ticker, "error", err)
				return nil
			}
			fetched++
			books[ticker] = book
			return nil
		})
	}
	g.Wait()

	return books, fetched, failed
}

// bestBid returns the highest resting bid price on one side.
func bestBid(levels []model.PriceLevel) (int, bool) {
	best := -1
	for _, lv := range levels {
		if lv.Quantity > 0 && lv.Price > best {
			best = lv.Price
		}
	}
	if best < 0 {
		return 0, false
	}
	return best, true
}

// depthAtOrAbove sums quantity resting at or above the given price.
func depthAtOrAbove(levels []model.PriceLevel, price int) int {
	total := 0
	for _, lv := range levels {
		if lv.Price >= price {
			total += lv.Quantity
		}
	}
	return total
}

func pairKey(ri model.RankedInversion) string {
	return ri.Markets[0].Ticker + "/" + ri.Markets[1].Ticker
}
