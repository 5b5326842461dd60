package core

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Fingerprint is a short content hash used to stamp datasets and artifacts
// so re-runs over identical inputs are recognizably identical.
type Fingerprint string

// NewFingerprint hashes raw bytes into a fingerprint.
func NewFingerprint(data []byte) Fingerprint {
	return Fingerprint(fmt.Sprintf("%016x", xxhash.Sum64(data)))
}

// String returns the string representation
func (f Fingerprint) String() string {
	return string(f)
}

// IsEmpty checks if the fingerprint is empty
func (f Fingerprint) IsEmpty() bool {
	return f == ""
}

// Equals checks if two fingerprints are equal
func (f Fingerprint) Equals(other Fingerprint) bool {
	return f == other
}

// FingerprintCounts produces a deterministic fingerprint of a label->count
// distribution. Keys are sorted so map iteration order cannot leak in.
func FingerprintCounts(counts map[string]int) Fingerprint {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var data strings.Builder
	for _, key := range keys {
		data.WriteString(key)
		data.WriteString(fmt.Sprintf("=%d;", counts[key]))
	}
	return NewFingerprint([]byte(data.String()))
}

// FingerprintSeries fingerprints an ordered sequence of period/value pairs.
func FingerprintSeries(periods []string, values []float64) Fingerprint {
	var data strings.Builder
	for i, p := range periods {
		data.WriteString(p)
		if i < len(values) {
			data.WriteString(fmt.Sprintf("=%.12g;", values[i]))
		}
	}
	return NewFingerprint([]byte(data.String()))
}
