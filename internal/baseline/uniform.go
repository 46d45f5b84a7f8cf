// Package baseline implements the three reference models the evaluator
// exercises alongside the ensemble: uniform, unigram, and bigram. Grounded
// on uniform_model.rs and ngram_model.rs; all three satisfy
// ensemble.Model so internal/evaluate can drive them identically.
package baseline

import "github.com/SamuelLess/chat-clm/internal/ensemble"

// Uniform assigns every token the same probability, ignoring both the
// prefix and the training data entirely.
type Uniform struct{}

// NewUniform returns a Uniform model. There is nothing to train.
func NewUniform() *Uniform { return &Uniform{} }

// ComputeLikelihoods implements ensemble.Model.
func (Uniform) ComputeLikelihoods(_ [][]byte, allTokens [][]byte) (ensemble.Distribution, error) {
	dist := make(ensemble.Distribution, len(allTokens))
	p := 1.0 / float64(len(allTokens))
	for _, t := range allTokens {
		dist[ensemble.Code(t)] = p
	}
	return dist, nil
}
