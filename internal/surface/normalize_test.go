package surface

import (
	"testing"

	"github.com/rgoodman/kalshi-scan/internal/api"
	"github.com/rgoodman/kalshi-scan/internal/model"
)

func TestNormalize_DualEncodings(t *testing.T) {
	tests := []struct {
		name   string
		market api.APIMarket
		want   [4]*int // yes_bid, yes_ask, no_bid, no_ask
	}{
		{
			name: "dollar strings preferred",
			market: api.APIMarket{
				Ticker:        "T-A",
				YesBidDollars: "0.40", YesAskDollars: "0.45",
				NoBidDollars: "0.55", NoAskDollars: "0.60",
				YesBid: 99, YesAsk: 99, NoBid: 99, NoAsk: 99,
			},
			want: [4]*int{model.Cents(40), model.Cents(45), model.Cents(55), model.Cents(60)},
		},
		{
			name: "legacy cents fallback",
			market: api.APIMarket{
				Ticker: "T-B",
				YesBid: 40, YesAsk: 45, NoBid: 55, NoAsk: 60,
			},
			want: [4]*int{model.Cents(40), model.Cents(45), model.Cents(55), model.Cents(60)},
		},
		{
			name: "legacy dollars fallback",
			market: api.APIMarket{
				Ticker: "T-C",
				YesBid: 0.40, YesAsk: 0.45, NoBid: 0.55, NoAsk: 0.60,
			},
			want: [4]*int{model.Cents(40), model.Cents(45), model.Cents(55), model.Cents(60)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := Normalize(&tt.market)
			got := [4]*int{m.YesBid, m.YesAsk, m.NoBid, m.NoAsk}
			for i, leg := range []string{"yes_bid", "yes_ask", "no_bid", "no_ask"} {
				if got[i] == nil || *got[i] != *tt.want[i] {
					t.Errorf("%s = %v, want %d", leg, got[i], *tt.want[i])
				}
			}
		})
	}
}

func TestDeriveMissingLeg_Invariant(t *testing.T) {
	// For every market with exactly one leg missing, derivation must
	// restore yes_bid+no_ask == 100 and yes_ask+no_bid == 100.
	base := func() *model.Market {
		return &model.Market{
			YesBid: model.Cents(40), YesAsk: model.Cents(45),
			NoBid: model.Cents(55), NoAsk: model.Cents(60),
		}
	}

	tests := []struct {
		name string
		zap  func(*model.Market)
	}{
		{"missing yes_bid", func(m *model.Market) { m.YesBid = nil }},
		{"missing yes_ask", func(m *model.Market) { m.YesAsk = nil }},
		{"missing no_bid", func(m *model.Market) { m.NoBid = nil }},
		{"missing no_ask", func(m *model.Market) { m.NoAsk = nil }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := base()
			tt.zap(m)
			if !DeriveMissingLeg(m) {
				t.Fatal("DeriveMissingLeg reported incomplete market")
			}
			if *m.YesBid+*m.NoAsk != 100 {
				t.Errorf("yes_bid %d + no_ask %d != 100", *m.YesBid, *m.NoAsk)
			}
			if *m.YesAsk+*m.NoBid != 100 {
				t.Errorf("yes_ask %d + no_bid %d != 100", *m.YesAsk, *m.NoBid)
			}
		})
	}
}

func TestDeriveMissingLeg_TwoMissing(t *testing.T) {
	m := &model.Market{YesAsk: model.Cents(45), NoAsk: model.Cents(60)}
	if DeriveMissingLeg(m) {
		t.Error("two missing legs must not be derivable")
	}
	if m.YesBid != nil || m.NoBid != nil {
		t.Error("derivation must not invent legs with two missing")
	}
	if m.MissingLegs() != 2 {
		t.Errorf("MissingLegs = %d, want 2", m.MissingLegs())
	}
}

func TestNormalize_DerivedFields(t *testing.T) {
	m := Normalize(&api.APIMarket{
		Ticker: "KXTEST-25AUG26-X",
		YesBid: 40, YesAsk: 45, NoBid: 55, NoAsk: 60,
	})

	if m.Spread == nil || *m.Spread != 5 {
		t.Errorf("Spread = %v, want 5", m.Spread)
	}
	if m.YesNoSum == nil || *m.YesNoSum != 105 {
		t.Errorf("YesNoSum = %v, want 105", m.YesNoSum)
	}
	if m.SeriesPrefix != "KXTEST" {
		t.Errorf("SeriesPrefix = %q, want KXTEST", m.SeriesPrefix)
	}
}
