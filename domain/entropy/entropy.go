// Package entropy implements the diversity measures at the center of the
// pipeline: plug-in Shannon entropy, the Chao-Shen coverage-adjusted
// estimator for undersampled label distributions, and the effective
// species count. All entropies are in nats.
package entropy

import (
	"math"
	"sort"

	"github.com/montanaflynn/stats"
)

// coverageFloor guards the Chao-Shen denominator: labels whose detection
// probability underflows contribute nothing rather than exploding.
const coverageFloor = 1e-15

// Shannon returns the plug-in entropy estimate -sum p ln p of a label
// count distribution. Zero for an empty distribution.
func Shannon(counts map[string]int) float64 {
	values, total := sortedValues(counts)
	if total == 0 {
		return 0
	}
	h, err := stats.Entropy(values)
	if err != nil {
		return 0
	}
	return h
}

// ChaoShen returns the Chao-Shen coverage-adjusted entropy estimate. Each
// plug-in term is inflated by 1/(1-(1-p)^n), the probability that its
// label shows up in a sample of size n at all, which corrects the
// plug-in estimator's downward bias when many labels are rare. Converges
// to Shannon as n grows. Zero for an empty distribution.
func ChaoShen(counts map[string]int) float64 {
	labels := sortedLabels(counts)
	var n int
	for _, l := range labels {
		if counts[l] > 0 {
			n += counts[l]
		}
	}
	if n == 0 {
		return 0
	}
	var h float64
	for _, l := range labels {
		c := counts[l]
		if c <= 0 {
			continue
		}
		p := float64(c) / float64(n)
		denom := 1 - math.Pow(1-p, float64(n))
		if denom < coverageFloor {
			continue
		}
		h -= p * math.Log(p) / denom
	}
	return h
}

// EffectiveSpecies converts an entropy to the equivalent number of
// equally common labels, exp(H).
func EffectiveSpecies(h float64) float64 {
	return math.Exp(h)
}

// sortedLabels returns the label set in lexical order so that float
// summation order, and therefore every computed entropy, is identical
// across runs.
func sortedLabels(counts map[string]int) []string {
	labels := make([]string, 0, len(counts))
	for l := range counts {
		labels = append(labels, l)
	}
	sort.Strings(labels)
	return labels
}

func sortedValues(counts map[string]int) ([]float64, int) {
	labels := sortedLabels(counts)
	values := make([]float64, 0, len(labels))
	total := 0
	for _, l := range labels {
		if c := counts[l]; c > 0 {
			values = append(values, float64(c))
			total += c
		}
	}
	return values, total
}
