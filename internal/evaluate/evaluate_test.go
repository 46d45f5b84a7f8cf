package evaluate

import (
	"testing"

	"github.com/SamuelLess/chat-clm/internal/clmerr"
	"github.com/SamuelLess/chat-clm/internal/ensemble"
	"github.com/SamuelLess/chat-clm/internal/tokenizer"
)

// uniformFake implements ensemble.Model without depending on the
// compression primitive, so evaluate.Evaluate can be exercised in
// isolation.
type uniformFake struct{}

func (uniformFake) ComputeLikelihoods(_ [][]byte, allTokens [][]byte) (ensemble.Distribution, error) {
	dist := make(ensemble.Distribution, len(allTokens))
	p := 1.0 / float64(len(allTokens))
	for _, t := range allTokens {
		dist[ensemble.Code(t)] = p
	}
	return dist, nil
}

// brokenModel returns an empty distribution, so every ground-truth lookup
// in Evaluate is guaranteed to miss regardless of vocabulary iteration
// order.
type brokenModel struct{}

func (brokenModel) ComputeLikelihoods(_ [][]byte, allTokens [][]byte) (ensemble.Distribution, error) {
	return ensemble.Distribution{}, nil
}

func trainedTokenizer(t *testing.T, text string, vocabSize int) *tokenizer.Tokenizer {
	t.Helper()
	tok := tokenizer.New(4)
	tok.Train(text, vocabSize)
	return tok
}

func TestEvaluateShortStreamIsZeroStats(t *testing.T) {
	text := "a b"
	tok := trainedTokenizer(t, text, 10)
	stats, err := Evaluate(uniformFake{}, text, tok, nil)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if stats != (Stats{}) {
		t.Errorf("Evaluate on a stream shorter than warmup = %+v, want zero value", stats)
	}
}

func TestEvaluateComputesPerplexityForUniformModel(t *testing.T) {
	text := "the quick brown fox jumps over the lazy dog again and again and again"
	tok := trainedTokenizer(t, text, 40)

	stats, err := Evaluate(uniformFake{}, text, tok, nil)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	allTokens := tok.Tokens()
	wantPerplexity := float64(len(allTokens))
	if diff := stats.Perplexity - wantPerplexity; diff < -1e-6 || diff > 1e-6 {
		t.Errorf("Perplexity = %v, want %v (uniform model over |V|=%d)", stats.Perplexity, wantPerplexity, len(allTokens))
	}
}

func TestEvaluateFailsWhenGroundTruthMissingFromDistribution(t *testing.T) {
	text := "the quick brown fox jumps over the lazy dog again and again and again"
	tok := trainedTokenizer(t, text, 40)

	_, err := Evaluate(brokenModel{}, text, tok, nil)
	if err == nil {
		t.Fatal("Evaluate did not fail when the ground-truth token was omitted from the distribution")
	}
	if !clmerr.Is(err, clmerr.DistributionViolation) {
		t.Errorf("error = %v, want a DistributionViolation", err)
	}
}
