package ensemble

import "math"

// scoresToDistribution converts per-token ensemble scores into a smoothed
// probability distribution:
//
//	raw[t]  = basis ^ (-score[t])
//	p[t]    = raw[t] / sum(raw)
//	p'[t]   = p[t] + regularization/|V|
//	p''[t]  = p'[t] / sum(p')
//
// Per DESIGN.md's resolution of the spec's open question on numeric
// stability, this deliberately does NOT subtract min(score) before
// exponentiating — it preserves the reference implementation's quirk
// rather than silently fixing it, since the spec says as much explicitly
// ("reference implementation does *not* do this").
func scoresToDistribution(scores map[string]float64, basis, regularization float64) Distribution {
	raw := make(map[string]float64, len(scores))
	var sumRaw float64
	for token, score := range scores {
		v := math.Pow(basis, -score)
		raw[token] = v
		sumRaw += v
	}

	smoothed := make(Distribution, len(scores))
	n := float64(len(scores))
	var sumSmoothed float64
	for token, v := range raw {
		p := v / sumRaw
		p += regularization / n
		smoothed[token] = p
		sumSmoothed += p
	}

	dist := make(Distribution, len(scores))
	for token, p := range smoothed {
		dist[token] = p / sumSmoothed
	}
	return dist
}
