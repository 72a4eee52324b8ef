package bloom

import (
	"fmt"
	"testing"

	"github.com/EKolev/QuickbaseDemo/pkg/types"
)

func TestNoFalseNegatives(t *testing.T) {
	f := NewWithEstimates(1000, 0.01)

	added := make([]types.FieldValue, 0, 300)
	for i := 0; i < 100; i++ {
		added = append(added,
			types.Uint(uint64(i)),
			types.Int(int64(-i)),
			types.Text(fmt.Sprintf("user%d", i)),
		)
	}
	for _, v := range added {
		f.AddValue(v)
	}

	for _, v := range added {
		if !f.MightContain(v) {
			t.Fatalf("false negative for %v", v)
		}
	}
}

func TestAbsentValuesMostlyRejected(t *testing.T) {
	f := NewWithEstimates(1000, 0.01)
	for i := 0; i < 1000; i++ {
		f.AddValue(types.Int(int64(i)))
	}

	// At the design fill level the false positive rate should be near 1%.
	falsePositives := 0
	probes := 10000
	for i := 0; i < probes; i++ {
		if f.MightContain(types.Int(int64(100000 + i))) {
			falsePositives++
		}
	}
	if rate := float64(falsePositives) / float64(probes); rate > 0.05 {
		t.Fatalf("false positive rate too high: %.4f", rate)
	}
}

func TestTagsDoNotCollide(t *testing.T) {
	f := New(1<<14, 7)
	f.AddValue(types.Uint(5))

	// Int(5) and Text("5") were never added; with a near-empty filter they
	// must not be reported present through tag confusion.
	if f.MightContain(types.Int(5)) {
		t.Error("Int(5) reported present after adding only Uint(5)")
	}
	if f.MightContain(types.Text("5")) {
		t.Error(`Text("5") reported present after adding only Uint(5)`)
	}
}

func TestOptimalParameters(t *testing.T) {
	numBits, numHashes := OptimalParameters(1000, 0.01)
	if numBits < 9000 || numBits > 10000 {
		t.Errorf("unexpected bit count for n=1000 p=0.01: %d", numBits)
	}
	if numHashes < 6 || numHashes > 8 {
		t.Errorf("unexpected hash count for n=1000 p=0.01: %d", numHashes)
	}

	// Degenerate inputs fall back to defaults instead of panicking.
	numBits, numHashes = OptimalParameters(0, 2.0)
	if numBits < 64 || numHashes < 1 {
		t.Errorf("defaults not applied: bits=%d hashes=%d", numBits, numHashes)
	}
}

func TestCountAndFalsePositiveRate(t *testing.T) {
	f := NewWithEstimates(100, 0.01)
	if f.FalsePositiveRate() != 0 {
		t.Fatal("empty filter should report zero FPR")
	}
	for i := 0; i < 100; i++ {
		f.AddValue(types.Uint(uint64(i)))
	}
	if f.Count() != 100 {
		t.Fatalf("expected count 100, got %d", f.Count())
	}
	if fpr := f.FalsePositiveRate(); fpr <= 0 || fpr > 0.05 {
		t.Fatalf("estimated FPR out of range: %f", fpr)
	}
}
