package baseline

import "github.com/SamuelLess/chat-clm/internal/ensemble"

// Unigram predicts the next token from its overall frequency in the
// training stream, ignoring the prefix entirely.
type Unigram struct {
	counts map[string]int
	total  int
}

// TrainUnigram counts each token's occurrences in tokens.
func TrainUnigram(tokens [][]byte) *Unigram {
	counts := make(map[string]int)
	for _, t := range tokens {
		counts[ensemble.Code(t)]++
	}
	return &Unigram{counts: counts, total: len(tokens)}
}

// ComputeLikelihoods implements ensemble.Model. Per the spec's resolved
// open question, a token present in allTokens (the tokenizer's full
// vocabulary) but absent from the unigram training corpus scores a count
// of 0 rather than failing — the caller is expected to have trained the
// unigram model on the same stream the tokenizer's vocabulary was drawn
// from, but scoring tolerates the mismatch instead of panicking.
func (u *Unigram) ComputeLikelihoods(_ [][]byte, allTokens [][]byte) (ensemble.Distribution, error) {
	dist := make(ensemble.Distribution, len(allTokens))

	if u.total == 0 {
		p := 1.0 / float64(len(allTokens))
		for _, t := range allTokens {
			dist[ensemble.Code(t)] = p
		}
		return dist, nil
	}

	var sum float64
	for _, t := range allTokens {
		v := float64(u.counts[ensemble.Code(t)])
		dist[ensemble.Code(t)] = v
		sum += v
	}
	if sum > 0 {
		for k := range dist {
			dist[k] /= sum
		}
	}
	return dist, nil
}
