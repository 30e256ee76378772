package depth

import (
	"context"
	"errors"
	"testing"

	"github.com/rgoodman/kalshi-scan/internal/model"
)

type fakeFetcher struct {
	books map[string]*model.Orderbook
	calls int
}

func (f *fakeFetcher) GetOrderbook(_ context.Context, ticker string) (*model.Orderbook, error) {
	f.calls++
	book, ok := f.books[ticker]
	if !ok {
		return nil, errors.New("no book")
	}
	return book, nil
}

func inversion(loTicker, hiTicker string) model.Opportunity {
	return model.Opportunity{
		ScanKind:    model.ScanMonotonicity,
		ProfitCents: 5,
		Markets: []model.MarketRef{
			{Ticker: loTicker},
			{Ticker: hiTicker},
		},
	}
}

func TestRank_ScoresAgainstLiveBooks(t *testing.T) {
	// Best NO bid 68 on the lower strike implies a 32c YES ask there; the
	// higher strike's best YES bid is 35, a 3c executable edge.
	fetcher := &fakeFetcher{books: map[string]*model.Orderbook{
		"LO": {No: []model.PriceLevel{{Price: 68, Quantity: 30}, {Price: 68, Quantity: 20}, {Price: 60, Quantity: 99}}},
		"HI": {Yes: []model.PriceLevel{{Price: 35, Quantity: 20}, {Price: 30, Quantity: 100}}},
	}}
	r := NewRanker(fetcher, nil)

	res, err := r.Rank(context.Background(), []model.Opportunity{inversion("LO", "HI")}, 0)
	if err != nil {
		t.Fatalf("Rank: %v", err)
	}
	if len(res.Ranked) != 1 {
		t.Fatalf("ranked = %d, want 1", len(res.Ranked))
	}

	ri := res.Ranked[0]
	if ri.LoAskCents != 32 {
		t.Errorf("LoAskCents = %d, want 32", ri.LoAskCents)
	}
	if ri.HiBidCents != 35 {
		t.Errorf("HiBidCents = %d, want 35", ri.HiBidCents)
	}
	if ri.ExecProfitCents != 3 {
		t.Errorf("ExecProfitCents = %d, want 3", ri.ExecProfitCents)
	}
	if ri.LoDepth != 50 {
		t.Errorf("LoDepth = %d, want 50", ri.LoDepth)
	}
	if ri.HiDepth != 20 {
		t.Errorf("HiDepth = %d, want 20", ri.HiDepth)
	}
	if ri.MinDepth != 20 {
		t.Errorf("MinDepth = %d, want 20", ri.MinDepth)
	}
	if ri.Score != 60 {
		t.Errorf("Score = %d, want 60", ri.Score)
	}
	if res.BooksFetched != 2 || res.BooksFailed != 0 {
		t.Errorf("fetched/failed = %d/%d, want 2/0", res.BooksFetched, res.BooksFailed)
	}
}

func TestRank_DropsClosedWindow(t *testing.T) {
	// Edge gone: implied lo ask 40, hi bid 38.
	fetcher := &fakeFetcher{books: map[string]*model.Orderbook{
		"LO": {No: []model.PriceLevel{{Price: 60, Quantity: 10}}},
		"HI": {Yes: []model.PriceLevel{{Price: 38, Quantity: 10}}},
	}}
	r := NewRanker(fetcher, nil)

	res, err := r.Rank(context.Background(), []model.Opportunity{inversion("LO", "HI")}, 0)
	if err != nil {
		t.Fatalf("Rank: %v", err)
	}
	if len(res.Ranked) != 0 {
		t.Fatalf("closed inversion was ranked: %+v", res.Ranked)
	}
	if res.Closed != 1 {
		t.Errorf("Closed = %d, want 1", res.Closed)
	}
}

func TestRank_DropsEmptySide(t *testing.T) {
	fetcher := &fakeFetcher{books: map[string]*model.Orderbook{
		"LO": {No: []model.PriceLevel{{Price: 68, Quantity: 10}}},
		"HI": {Yes: nil},
	}}
	r := NewRanker(fetcher, nil)

	res, err := r.Rank(context.Background(), []model.Opportunity{inversion("LO", "HI")}, 0)
	if err != nil {
		t.Fatalf("Rank: %v", err)
	}
	if len(res.Ranked) != 0 || res.NoDepth != 1 {
		t.Fatalf("ranked=%d no_depth=%d, want 0/1", len(res.Ranked), res.NoDepth)
	}
}

func TestRank_SkipsUnfetchableBooks(t *testing.T) {
	fetcher := &fakeFetcher{books: map[string]*model.Orderbook{
		"LO": {No: []model.PriceLevel{{Price: 68, Quantity: 10}}},
		// HI missing: fetch errors.
	}}
	r := NewRanker(fetcher, nil)

	res, err := r.Rank(context.Background(), []model.Opportunity{inversion("LO", "HI")}, 0)
	if err != nil {
		t.Fatalf("Rank: %v", err)
	}
	if len(res.Ranked) != 0 {
		t.Fatalf("inversion without books was ranked: %+v", res.Ranked)
	}
	if res.NoDepth != 1 {
		t.Errorf("NoDepth = %d, want the unfetchable inversion counted", res.NoDepth)
	}
	if res.BooksFailed != 1 || res.BooksFetched != 1 {
		t.Errorf("fetched/failed = %d/%d, want 1/1", res.BooksFetched, res.BooksFailed)
	}
}

func TestRank_OrdersByScoreAndTruncates(t *testing.T) {
	fetcher := &fakeFetcher{books: map[string]*model.Orderbook{
		// Score 5 * 10 = 50.
		"A-LO": {No: []model.PriceLevel{{Price: 70, Quantity: 10}}},
		"A-HI": {Yes: []model.PriceLevel{{Price: 35, Quantity: 30}}},
		// Score 2 * 100 = 200.
		"B-LO": {No: []model.PriceLevel{{Price: 70, Quantity: 100}}},
		"B-HI": {Yes: []model.PriceLevel{{Price: 32, Quantity: 200}}},
		// Score 1 * 5 = 5.
		"C-LO": {No: []model.PriceLevel{{Price: 70, Quantity: 5}}},
		"C-HI": {Yes: []model.PriceLevel{{Price: 31, Quantity: 5}}},
	}}
	r := NewRanker(fetcher, nil)

	opps := []model.Opportunity{
		inversion("A-LO", "A-HI"),
		inversion("B-LO", "B-HI"),
		inversion("C-LO", "C-HI"),
		{ScanKind: model.ScanBinaryComplement, Markets: []model.MarketRef{{Ticker: "X"}}},
	}

	res, err := r.Rank(context.Background(), opps, 2)
	if err != nil {
		t.Fatalf("Rank: %v", err)
	}
	if len(res.Ranked) != 2 {
		t.Fatalf("ranked = %d, want 2 after truncation", len(res.Ranked))
	}
	if res.Ranked[0].Markets[0].Ticker != "B-LO" {
		t.Errorf("top inversion = %s, want B-LO", res.Ranked[0].Markets[0].Ticker)
	}
	if res.Ranked[1].Markets[0].Ticker != "A-LO" {
		t.Errorf("second inversion = %s, want A-LO", res.Ranked[1].Markets[0].Ticker)
	}

	// Non-monotonicity kinds never trigger fetches.
	if fetcher.calls != 6 {
		t.Errorf("fetch calls = %d, want 6", fetcher.calls)
	}
}

func TestRank_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fetcher := &fakeFetcher{books: map[string]*model.Orderbook{}}
	r := NewRanker(fetcher, nil)
	if _, err := r.Rank(ctx, []model.Opportunity{inversion("LO", "HI")}, 0); err == nil {
		t.Fatal("cancelled context must surface an error")
	}
}
