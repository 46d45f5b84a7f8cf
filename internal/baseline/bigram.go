package baseline

import "github.com/SamuelLess/chat-clm/internal/ensemble"

// bigramSmoothing is the additive smoothing constant applied to every seen
// transition count, per the spec.
const bigramSmoothing = 60.0

// Bigram predicts the next token from transition counts observed in the
// training stream: transition[prev][next] -> count.
type Bigram struct {
	transitions map[string]map[string]int
	totals      map[string]int
}

// TrainBigram builds transition counts from adjacent token pairs in tokens.
func TrainBigram(tokens [][]byte) *Bigram {
	transitions := make(map[string]map[string]int)
	totals := make(map[string]int)
	for i := 0; i+1 < len(tokens); i++ {
		prev := ensemble.Code(tokens[i])
		next := ensemble.Code(tokens[i+1])
		if transitions[prev] == nil {
			transitions[prev] = make(map[string]int)
		}
		transitions[prev][next]++
		totals[prev]++
	}
	return &Bigram{transitions: transitions, totals: totals}
}

// ComputeLikelihoods implements ensemble.Model. If prev is absent from the
// transition table, falls back to uniform. Otherwise every seen (prev,t)
// pair gets count[prev][t]+60, and every unseen pair gets the fallback
// count total[prev]/|V| (integer division) + 1 with no smoothing added — the spec's documented open
// question: this resolution preserves the original's literal truncating
// behavior rather than "fixing" it, since the spec flags it as an open
// question to record, not silently correct.
func (b *Bigram) ComputeLikelihoods(prefix [][]byte, allTokens [][]byte) (ensemble.Distribution, error) {
	dist := make(ensemble.Distribution, len(allTokens))

	if len(prefix) == 0 {
		p := 1.0 / float64(len(allTokens))
		for _, t := range allTokens {
			dist[ensemble.Code(t)] = p
		}
		return dist, nil
	}

	prev := ensemble.Code(prefix[len(prefix)-1])
	nextCounts, ok := b.transitions[prev]
	if !ok {
		p := 1.0 / float64(len(allTokens))
		for _, t := range allTokens {
			dist[ensemble.Code(t)] = p
		}
		return dist, nil
	}

	total := b.totals[prev]
	fallback := total/len(allTokens) + 1

	var sum float64
	for _, t := range allTokens {
		code := ensemble.Code(t)
		count, seen := nextCounts[code]
		v := float64(fallback)
		if seen {
			v = float64(count) + bigramSmoothing
		}
		dist[code] = v
		sum += v
	}
	if sum > 0 {
		for k := range dist {
			dist[k] /= sum
		}
	}
	return dist, nil
}
