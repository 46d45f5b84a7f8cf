// Package sampler implements the inference driver's sampling strategies:
// weighted top-k, unweighted top-k, and top-p (nucleus) sampling over a
// distribution. Grounded directly on inference.rs's three sampling
// functions.
package sampler

import (
	"math/rand/v2"
	"sort"

	"github.com/SamuelLess/chat-clm/internal/ensemble"
)

// rankedEntry is one (token code, probability) pair, used for sorting a
// distribution by descending probability.
type rankedEntry struct {
	code string
	p    float64
}

func rank(dist ensemble.Distribution) []rankedEntry {
	entries := make([]rankedEntry, 0, len(dist))
	for code, p := range dist {
		entries = append(entries, rankedEntry{code: code, p: p})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].p > entries[j].p })
	return entries
}

// TopK returns the top-k entries of dist by descending probability, for
// display purposes (e.g. the inference CLI's candidate listing).
func TopK(dist ensemble.Distribution, k int) []struct {
	Code string
	P    float64
} {
	entries := rank(dist)
	if k > len(entries) {
		k = len(entries)
	}
	out := make([]struct {
		Code string
		P    float64
	}, k)
	for i := 0; i < k; i++ {
		out[i] = struct {
			Code string
			P    float64
		}{entries[i].code, entries[i].p}
	}
	return out
}

// TopKWeighted samples from the k highest-probability tokens, weighted by
// their (renormalized) probability within that subset.
func TopKWeighted(dist ensemble.Distribution, k int) string {
	entries := rank(dist)
	if k > len(entries) {
		k = len(entries)
	}
	top := entries[:k]
	return weightedChoice(top, func(e rankedEntry) float64 { return e.p })
}

// TopKUniform samples uniformly among the k highest-probability tokens,
// ignoring their relative weights.
func TopKUniform(dist ensemble.Distribution, k int) string {
	entries := rank(dist)
	if k > len(entries) {
		k = len(entries)
	}
	top := entries[:k]
	return weightedChoice(top, func(rankedEntry) float64 { return 1.0 })
}

// TopP samples from the smallest prefix (in descending-probability order)
// whose cumulative probability reaches p, weighted by probability within
// that prefix.
func TopP(dist ensemble.Distribution, p float64) string {
	entries := rank(dist)
	var cumulative float64
	cut := len(entries)
	for i, e := range entries {
		cumulative += e.p
		if cumulative >= p {
			cut = i + 1
			break
		}
	}
	return weightedChoice(entries[:cut], func(e rankedEntry) float64 { return e.p })
}

func weightedChoice(entries []rankedEntry, weight func(rankedEntry) float64) string {
	if len(entries) == 0 {
		return ""
	}
	var total float64
	for _, e := range entries {
		total += weight(e)
	}
	if total <= 0 {
		return entries[0].code
	}
	target := rand.Float64() * total
	var acc float64
	for _, e := range entries {
		acc += weight(e)
		if acc >= target {
			return e.code
		}
	}
	return entries[len(entries)-1].code
}
