// Package evaluate implements the evaluator: streaming a held-out test
// sequence through a model, collecting ground-truth likelihoods, and
// computing perplexity and related statistics with running variance
// estimation. Grounded on evaluate.rs.
package evaluate

import "math"

// warmupTokens is the number of leading tokens that form an unscored
// warm-up prefix before evaluation begins.
const warmupTokens = 32

// Stats holds the evaluator's output statistics, per the spec's data
// model: averaged likelihood, cross-entropy mean, perplexity and its
// standard error, per-token perplexity and its standard error, and wall
// time per scored position.
type Stats struct {
	AverageLikelihood float64 `json:"average_likelihood"`
	CrossEntropy      float64 `json:"cross_entropy"`
	Perplexity        float64 `json:"perplexity"`
	PerplexityStderr  float64 `json:"perplexity_stderr"`
	TimePerToken      float64 `json:"time_per_token"`
	PPT               float64 `json:"ppt"`
	PPTStderr         float64 `json:"ppt_stderr"`
}

// computeStats implements the §3/§4.5 statistics formulas over the
// collected per-position ground-truth likelihoods.
func computeStats(likelihoods []float64, elapsedSeconds float64, vocabSize int) Stats {
	if len(likelihoods) == 0 {
		return Stats{}
	}

	var sum float64
	for _, l := range likelihoods {
		sum += l
	}
	avgLikelihood := sum / float64(len(likelihoods))

	crossEntropies := make([]float64, len(likelihoods))
	var ceSum float64
	for i, l := range likelihoods {
		ce := -math.Log(l)
		crossEntropies[i] = ce
		ceSum += ce
	}
	ceMean := ceSum / float64(len(crossEntropies))

	var ceVarianceSum float64
	for _, ce := range crossEntropies {
		d := ce - ceMean
		ceVarianceSum += d * d
	}
	n := len(crossEntropies)
	var ceStderr float64
	if n > 1 {
		ceVariance := ceVarianceSum / float64(n-1) // Bessel-corrected
		ceStderr = math.Sqrt(ceVariance) / math.Sqrt(float64(n))
	}

	perplexity := math.Exp(ceMean)
	perplexityStderr := perplexity * ceStderr

	v := float64(vocabSize)
	ppt := perplexity / v
	pptStderr := perplexityStderr / v

	return Stats{
		AverageLikelihood: avgLikelihood,
		CrossEntropy:      ceMean,
		Perplexity:        perplexity,
		PerplexityStderr:  perplexityStderr,
		TimePerToken:      elapsedSeconds / float64(len(likelihoods)),
		PPT:               ppt,
		PPTStderr:         pptStderr,
	}
}
