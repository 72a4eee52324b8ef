// Package bloom provides a probabilistic membership filter over field values,
// used to skip exact-match linear scans when a value is definitely absent.
package bloom

import (
	"math"

	"github.com/spaolacci/murmur3"

	"github.com/EKolev/QuickbaseDemo/pkg/types"
)

// Filter tests field-value membership with a configurable false positive
// rate. It guarantees no false negatives: if a value was added, MightContain
// always returns true. Values cannot be removed, so across deletions the
// filter over-approximates the live value set; callers rebuild it during
// compaction. The filter carries no lock and inherits the engine's
// single-writer contract: concurrent MightContain calls are safe as long as
// no AddValue runs alongside them.
type Filter struct {
	bits      []uint64
	numBits   uint64
	numHashes uint64
	count     uint64
}

// New creates a Filter with the given number of bits and hash functions.
func New(numBits, numHashes int) *Filter {
	if numBits <= 0 {
		numBits = 1024
	}
	if numHashes <= 0 {
		numHashes = 7
	}

	// Round up to whole 64-bit words.
	numWords := (numBits + 63) / 64
	return &Filter{
		bits:      make([]uint64, numWords),
		numBits:   uint64(numWords * 64),
		numHashes: uint64(numHashes),
	}
}

// NewWithEstimates creates a Filter sized for the expected number of distinct
// values and target false positive rate.
func NewWithEstimates(expectedItems int, targetFPR float64) *Filter {
	numBits, numHashes := OptimalParameters(expectedItems, targetFPR)
	return New(numBits, numHashes)
}

// OptimalParameters calculates the optimal number of bits and hash functions
// for a given expected item count and target false positive rate.
//
// The formulas are:
//   - m = -n * ln(p) / (ln(2)^2)  where m = bits, n = items, p = FPR
//   - k = (m/n) * ln(2)           where k = hash functions
func OptimalParameters(expectedItems int, targetFPR float64) (numBits, numHashes int) {
	if expectedItems <= 0 {
		expectedItems = 1000
	}
	if targetFPR <= 0 || targetFPR >= 1 {
		targetFPR = 0.01
	}

	n := float64(expectedItems)
	ln2 := math.Ln2

	m := -n * math.Log(targetFPR) / (ln2 * ln2)
	numBits = int(math.Ceil(m))

	k := (m / n) * ln2
	numHashes = int(math.Ceil(k))

	if numBits < 64 {
		numBits = 64
	}
	if numHashes < 1 {
		numHashes = 1
	}
	return numBits, numHashes
}

// AddValue records a field value in the filter.
func (f *Filter) AddValue(v types.FieldValue) {
	h1, h2 := hash128(v)
	for i := uint64(0); i < f.numHashes; i++ {
		// Double hashing: h(i) = h1 + i*h2
		pos := (h1 + i*h2) % f.numBits
		f.bits[pos/64] |= 1 << (pos % 64)
	}
	f.count++
}

// MightContain reports whether the value may have been added. A false return
// is definitive: the value was never added.
func (f *Filter) MightContain(v types.FieldValue) bool {
	h1, h2 := hash128(v)
	for i := uint64(0); i < f.numHashes; i++ {
		pos := (h1 + i*h2) % f.numBits
		if f.bits[pos/64]&(1<<(pos%64)) == 0 {
			return false
		}
	}
	return true
}

// hash128 computes the murmur3 128-bit hash of the value's canonical encoding
// and returns it as two 64-bit values.
func hash128(v types.FieldValue) (uint64, uint64) {
	h := murmur3.New128()
	h.Write(v.Encode())
	return h.Sum128()
}

// NumBits returns the number of bits in the filter.
func (f *Filter) NumBits() int {
	return int(f.numBits)
}

// NumHashes returns the number of hash functions used.
func (f *Filter) NumHashes() int {
	return int(f.numHashes)
}

// Count returns the number of values added to the filter.
func (f *Filter) Count() uint64 {
	return f.count
}

// FalsePositiveRate returns the estimated false positive rate at the current
// fill level.
//
// Formula: (1 - e^(-k*n/m))^k where k = numHashes, n = count, m = numBits.
func (f *Filter) FalsePositiveRate() float64 {
	if f.count == 0 {
		return 0
	}
	k := float64(f.numHashes)
	n := float64(f.count)
	m := float64(f.numBits)
	return math.Pow(1-math.Exp(-k*n/m), k)
}
