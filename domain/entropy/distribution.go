package entropy

import (
	"sort"

	"entrolab/domain/core"
)

// LabelCount pairs a label with its occurrence count.
type LabelCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Distribution accumulates a label frequency distribution, the common
// currency of every collector: secondary topics on GitHub repositories,
// package keywords on npm, related tags on Stack Overflow. Labels on the
// exclusion list (normally the query terms themselves) are dropped at
// insertion.
type Distribution struct {
	counts   map[string]int
	total    int
	excluded map[string]struct{}
}

// NewDistribution creates an empty distribution that ignores the given
// labels.
func NewDistribution(exclude ...string) *Distribution {
	ex := make(map[string]struct{}, len(exclude))
	for _, l := range exclude {
		ex[l] = struct{}{}
	}
	return &Distribution{counts: make(map[string]int), excluded: ex}
}

// Add records one occurrence of label.
func (d *Distribution) Add(label string) {
	d.AddCount(label, 1)
}

// AddCount records n occurrences of label.
func (d *Distribution) AddCount(label string, n int) {
	if n <= 0 {
		return
	}
	if _, ok := d.excluded[label]; ok {
		return
	}
	d.counts[label] += n
	d.total += n
}

// Total returns the number of recorded label instances.
func (d *Distribution) Total() int { return d.total }

// Distinct returns the number of distinct labels.
func (d *Distribution) Distinct() int { return len(d.counts) }

// Counts returns a copy of the label counts.
func (d *Distribution) Counts() map[string]int {
	out := make(map[string]int, len(d.counts))
	for k, v := range d.counts {
		out[k] = v
	}
	return out
}

// Top returns the k most common labels, ties broken lexically so the
// ordering is identical across runs.
func (d *Distribution) Top(k int) []LabelCount {
	all := make([]LabelCount, 0, len(d.counts))
	for l, c := range d.counts {
		all = append(all, LabelCount{Label: l, Count: c})
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].Count != all[j].Count {
			return all[i].Count > all[j].Count
		}
		return all[i].Label < all[j].Label
	})
	if k >= 0 && k < len(all) {
		all = all[:k]
	}
	return all
}

// Shannon returns the plug-in entropy of the distribution.
func (d *Distribution) Shannon() float64 { return Shannon(d.counts) }

// ChaoShen returns the coverage-adjusted entropy of the distribution.
func (d *Distribution) ChaoShen() float64 { return ChaoShen(d.counts) }

// Fingerprint returns the deterministic content hash of the counts,
// carried into artifacts as a reproducibility stamp.
func (d *Distribution) Fingerprint() core.Fingerprint {
	return core.FingerprintCounts(d.counts)
}
