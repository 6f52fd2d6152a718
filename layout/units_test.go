package layout

import (
	"math"
	"testing"
)

// TestPtMmRoundTrip checks pt↔mm conversions survive a round trip.
func TestPtMmRoundTrip(t *testing.T) {
	samples := []float64{0, 0.001, 1, 7, 12, 72, 144, 1000}
	for _, pt := range samples {
		mm := pt * PtToMm
		back := mm * MmToPt
		if diff := math.Abs(back - pt); diff > 1e-9 {
			t.Fatalf("pt→mm→pt drift too large: in=%gpt mm=%g back=%g diff=%g", pt, mm, back, diff)
		}
	}
}

func TestLengthToConversions(t *testing.T) {
	in := Length{Value: 1, Unit: UnitIN}
	if got := in.ToMM(); math.Abs(got-25.4) > 1e-9 {
		t.Fatalf("1in to mm: want 25.4, got %g", got)
	}
	cm := Length{Value: 10.6, Unit: UnitCM}
	if got := cm.ToMM(); math.Abs(got-106) > 1e-9 {
		t.Fatalf("10.6cm to mm: want 106, got %g", got)
	}
	pt := Length{Value: 7, Unit: UnitPT}
	if got := pt.ToMM(); math.Abs(got-7*PtToMm) > 1e-9 {
		t.Fatalf("7pt to mm: want %g, got %g", 7*PtToMm, got)
	}
	if got := pt.ToPT(); got != 7 {
		t.Fatalf("7pt to pt: want 7, got %g", got)
	}
	mm := Length{Value: 10, Unit: UnitMM}
	if got := mm.ToPT(); math.Abs(got-10*MmToPt) > 1e-9 {
		t.Fatalf("10mm to pt: want %g, got %g", 10*MmToPt, got)
	}
}

func TestParseLengthFallbackUnit(t *testing.T) {
	l, err := ParseLength("1", UnitMM)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if l.Unit != UnitMM || l.Value != 1 {
		t.Fatalf("unexpected length %v", l)
	}

	l, err = ParseLength("2.1cm", UnitMM)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if got := l.ToMM(); math.Abs(got-21) > 1e-9 {
		t.Fatalf("2.1cm to mm: want 21, got %g", got)
	}
	if l.String() != "2.1cm" {
		t.Fatalf("unexpected string form %q", l.String())
	}
}

func TestParseSize(t *testing.T) {
	w, h, err := ParseSize("10.6cm x 2.1cm", UnitMM)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if math.Abs(w.ToMM()-106) > 1e-9 || math.Abs(h.ToMM()-21) > 1e-9 {
		t.Fatalf("unexpected size %v x %v", w, h)
	}
}
