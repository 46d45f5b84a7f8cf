// Package ensemble implements the compression-dictionary ensemble model:
// training one compression dictionary per token-stream shard, and scoring
// candidate next tokens by the marginal compressed-length increment they
// produce across the ensemble.
package ensemble

// Distribution maps a token code (as a string, since []byte is not
// comparable) to its probability. Every model in this repository —
// the ensemble and the three baselines in internal/baseline — returns
// this same shape, so internal/evaluate can drive any of them identically.
type Distribution map[string]float64

// Model is the scoring interface every CLM model implements: given the
// current prefix and the full token vocabulary, return a distribution over
// the vocabulary for the next token. Mirrors the original's
// `trait Model { compute_likelihoods }`.
type Model interface {
	ComputeLikelihoods(prefix [][]byte, allTokens [][]byte) (Distribution, error)
}

// Code converts a token byte code to its Distribution map key.
func Code(token []byte) string { return string(token) }
