package evaluate

import (
	"math"
	"testing"
)

func TestComputeStatsUniformLikelihoods(t *testing.T) {
	// A constant likelihood stream has a degenerate (zero) cross-entropy
	// variance, so perplexity is exactly exp(-log(l)) = 1/l with zero stderr.
	likelihoods := []float64{0.25, 0.25, 0.25, 0.25}
	stats := computeStats(likelihoods, 2.0, 8)

	wantPerplexity := 1.0 / 0.25
	if math.Abs(stats.Perplexity-wantPerplexity) > 1e-9 {
		t.Errorf("Perplexity = %v, want %v", stats.Perplexity, wantPerplexity)
	}
	if stats.PerplexityStderr != 0 {
		t.Errorf("PerplexityStderr = %v, want 0 for a constant likelihood stream", stats.PerplexityStderr)
	}
	wantPPT := wantPerplexity / 8
	if math.Abs(stats.PPT-wantPPT) > 1e-9 {
		t.Errorf("PPT = %v, want %v", stats.PPT, wantPPT)
	}
	wantTimePerToken := 2.0 / 4.0
	if stats.TimePerToken != wantTimePerToken {
		t.Errorf("TimePerToken = %v, want %v", stats.TimePerToken, wantTimePerToken)
	}
}

func TestComputeStatsEmptyInput(t *testing.T) {
	stats := computeStats(nil, 1.0, 100)
	if stats != (Stats{}) {
		t.Errorf("computeStats(nil) = %+v, want zero value", stats)
	}
}

func TestComputeStatsSingleSampleHasZeroStderr(t *testing.T) {
	stats := computeStats([]float64{0.5}, 1.0, 10)
	if stats.PerplexityStderr != 0 {
		t.Errorf("single-sample PerplexityStderr = %v, want 0 (Bessel correction undefined for n=1)", stats.PerplexityStderr)
	}
}
