package surface

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/rgoodman/kalshi-scan/internal/api"
	"github.com/rgoodman/kalshi-scan/internal/auth"
)

type staticSigner struct{}

func (staticSigner) Sign(method, path string) (map[string]string, error) {
	return map[string]string{auth.HeaderKey: "test"}, nil
}

// venueHandler serves a tiny fixture surface: one event with two nested
// markets, plus a flat listing that carries one orphan.
func venueHandler(t *testing.T) http.Handler {
	t.Helper()
	mux := http.NewServeMux()

	mux.HandleFunc("/events", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("with_nested_markets") != "true" {
			t.Error("events listing must request nested markets")
		}
		fmt.Fprint(w, `{
			"events": [{
				"event_ticker": "KXGAME-25AUG26",
				"series_ticker": "KXGAME",
				"title": "Test game",
				"category": "Sports",
				"mutually_exclusive": true,
				"markets": [
					{"ticker": "KXGAME-25AUG26-AAA", "event_ticker": "KXGAME-25AUG26",
					 "yes_bid": 40, "yes_ask": 45, "no_bid": 55, "no_ask": 60, "volume_24h": 100},
					{"ticker": "KXGAME-25AUG26-BBB", "event_ticker": "KXGAME-25AUG26",
					 "yes_bid": 52, "yes_ask": 57, "no_bid": 43, "volume_24h": 900}
				]
			}],
			"cursor": ""
		}`)
	})

	mux.HandleFunc("/markets", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{
			"markets": [
				{"ticker": "KXGAME-25AUG26-AAA", "event_ticker": "KXGAME-25AUG26",
				 "yes_bid": 40, "yes_ask": 45, "no_bid": 55, "no_ask": 60, "volume_24h": 100},
				{"ticker": "KXLONER-25AUG26-X", "event_ticker": "KXLONER-25AUG26",
				 "category": "Economics", "yes_ask": 30, "volume_24h": 50}
			],
			"cursor": ""
		}`)
	})

	mux.HandleFunc("/markets/KXGAME-25AUG26-BBB/orderbook", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"orderbook": {"yes": [[52, 10]], "no": [[43, 20]]}}`)
	})
	mux.HandleFunc("/markets/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	return mux
}

func newTestBuilder(t *testing.T, handler http.Handler) *Builder {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client := api.NewClient(srv.URL, staticSigner{},
		api.WithRetryPolicy(api.RetryPolicy{Backoff: []time.Duration{0}}),
		api.WithRateLimit(10000),
	)
	return NewBuilder(client, nil)
}

func TestBuild_PrimaryListingAndOrphans(t *testing.T) {
	b := newTestBuilder(t, venueHandler(t))

	surf, err := b.Build(context.Background(), 0)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if surf.Summary.TotalEvents != 1 {
		t.Errorf("TotalEvents = %d, want 1", surf.Summary.TotalEvents)
	}
	if surf.Summary.TotalMarkets != 3 {
		t.Errorf("TotalMarkets = %d, want 3", surf.Summary.TotalMarkets)
	}
	if surf.Summary.OrphanMarkets != 1 {
		t.Errorf("OrphanMarkets = %d, want 1", surf.Summary.OrphanMarkets)
	}
	if surf.Summary.EventsTruncated || surf.Summary.MarketsTruncated {
		t.Error("unexpected truncation flags")
	}

	// The orphan joins the flat index but no Event.
	orphan, ok := surf.Markets["KXLONER-25AUG26-X"]
	if !ok {
		t.Fatal("orphan missing from flat index")
	}
	if orphan.EventTicker != "KXLONER-25AUG26" {
		t.Errorf("orphan EventTicker = %q", orphan.EventTicker)
	}
	for _, ev := range surf.Events {
		for _, ticker := range ev.MarketTickers {
			if ticker == "KXLONER-25AUG26-X" {
				t.Error("orphan must not be attached to an Event")
			}
		}
	}

	// Nested market with a missing leg gets it derived; category is
	// inherited from the event.
	bbb := surf.Markets["KXGAME-25AUG26-BBB"]
	if bbb.NoAsk == nil || *bbb.NoAsk != 48 {
		t.Errorf("derived no_ask = %v, want 48", bbb.NoAsk)
	}
	if bbb.Category != "Sports" {
		t.Errorf("Category = %q, want Sports", bbb.Category)
	}

	// The single-legged orphan counts as an anomaly.
	if surf.Summary.AnomalyCount != 1 {
		t.Errorf("AnomalyCount = %d, want 1", surf.Summary.AnomalyCount)
	}

	// Rollups and tree.
	if roll := surf.Summary.Categories["Sports"]; roll.Markets != 2 || roll.Events != 1 || roll.Volume24h != 1000 {
		t.Errorf("Sports rollup = %+v", roll)
	}
	if node, ok := surf.Tree["KXGAME"]["KXGAME-25AUG26"]; !ok || len(node.Markets) != 2 {
		t.Errorf("tree node = %+v, ok=%v", surf.Tree, ok)
	}
}

func TestBuild_TopNOrderbookPrefetch(t *testing.T) {
	b := newTestBuilder(t, venueHandler(t))

	surf, err := b.Build(context.Background(), 1)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	// Top-1 by 24h volume is BBB (900); its book must be attached.
	if surf.Summary.OrderbooksRequested != 1 {
		t.Errorf("OrderbooksRequested = %d, want 1", surf.Summary.OrderbooksRequested)
	}
	if surf.Summary.OrderbooksPopulated != 1 {
		t.Errorf("OrderbooksPopulated = %d, want 1", surf.Summary.OrderbooksPopulated)
	}
	book := surf.Markets["KXGAME-25AUG26-BBB"].Orderbook
	if book == nil || len(book.Yes) != 1 || book.Yes[0].Quantity != 10 {
		t.Errorf("prefetched book = %+v", book)
	}
	if surf.Markets["KXGAME-25AUG26-AAA"].Orderbook != nil {
		t.Error("non-top-N market must not carry a book")
	}
}

func TestBuild_TruncationFlagged(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/events", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("cursor") == "" {
			fmt.Fprint(w, `{"events": [{"event_ticker": "EV-1", "series_ticker": "EV"}], "cursor": "p2"}`)
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
	})
	mux.HandleFunc("/markets", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"markets": [], "cursor": ""}`)
	})

	b := newTestBuilder(t, mux)
	surf, err := b.Build(context.Background(), 0)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if !surf.Summary.EventsTruncated {
		t.Error("EventsTruncated = false, want true")
	}
	if surf.Summary.TotalEvents != 1 {
		t.Errorf("TotalEvents = %d, want the successful page kept", surf.Summary.TotalEvents)
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	b := newTestBuilder(t, venueHandler(t))
	surf, err := b.Build(context.Background(), 0)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	path := filepath.Join(t.TempDir(), "surface.json")
	if err := WriteSnapshot(path, surf); err != nil {
		t.Fatalf("WriteSnapshot failed: %v", err)
	}

	loaded, err := LoadSnapshot(path)
	if err != nil {
		t.Fatalf("LoadSnapshot failed: %v", err)
	}

	if loaded.RunID != surf.RunID {
		t.Errorf("RunID = %q, want %q", loaded.RunID, surf.RunID)
	}
	if len(loaded.Markets) != len(surf.Markets) {
		t.Errorf("loaded %d markets, want %d", len(loaded.Markets), len(surf.Markets))
	}
	m := loaded.Markets["KXGAME-25AUG26-AAA"]
	if m == nil || m.YesAsk == nil || *m.YesAsk != 45 {
		t.Errorf("loaded market AAA = %+v", m)
	}
}
