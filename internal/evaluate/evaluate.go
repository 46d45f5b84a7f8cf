package evaluate

import (
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/SamuelLess/chat-clm/internal/clmerr"
	"github.com/SamuelLess/chat-clm/internal/ensemble"
	"github.com/SamuelLess/chat-clm/internal/tokenizer"
)

// Evaluate encodes text with tok, then for every position from the
// warm-up boundary to the end of the token stream, scores the prefix with
// model and records the ground-truth token's likelihood. Returns the
// aggregate Stats. Fatal per the spec's DistributionViolation if the
// ground-truth token is ever absent from the returned distribution.
func Evaluate(model ensemble.Model, text string, tok *tokenizer.Tokenizer, logger *zap.Logger) (Stats, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	tokens := tok.Encode(text)
	allTokens := tok.Tokens()

	if len(tokens) <= warmupTokens {
		return Stats{}, nil
	}

	likelihoods := make([]float64, 0, len(tokens)-warmupTokens)
	start := time.Now()

	for pos := warmupTokens; pos < len(tokens); pos++ {
		prefix := tokens[:pos]
		truth := tokens[pos]

		dist, err := model.ComputeLikelihoods(prefix, allTokens)
		if err != nil {
			return Stats{}, err
		}
		if err := checkDistribution(dist, logger); err != nil {
			return Stats{}, err
		}

		likelihood, ok := dist[ensemble.Code(truth)]
		if !ok {
			return Stats{}, clmerr.New(clmerr.DistributionViolation,
				"ground-truth token at position %d absent from model distribution", pos)
		}
		likelihoods = append(likelihoods, likelihood)
	}

	elapsed := time.Since(start).Seconds()
	stats := computeStats(likelihoods, elapsed, len(allTokens))
	logger.Info("evaluation complete",
		zap.Int("positions", len(likelihoods)),
		zap.Float64("perplexity", stats.Perplexity),
		zap.Float64("ppt", stats.PPT))
	return stats, nil
}

// checkDistribution validates that every probability is finite and
// non-negative (fatal if not), and warns (non-fatal) if the distribution's
// sum deviates from 1 by more than 1e-3.
func checkDistribution(dist ensemble.Distribution, logger *zap.Logger) error {
	var total float64
	for token, p := range dist {
		if math.IsInf(p, 0) || math.IsNaN(p) || p < 0 {
			return clmerr.New(clmerr.DistributionViolation,
				"token %x has non-finite or negative probability %v", []byte(token), p)
		}
		total += p
	}
	if math.Abs(total-1.0) > 1e-3 {
		logger.Warn("distribution sum deviates from 1", zap.Float64("sum", total))
	}
	return nil
}
