package ensemble

import (
	"hash/fnv"

	"github.com/SamuelLess/chat-clm/internal/dictcompress"
)

// ComputeLikelihoods scores every candidate in allTokens by the average
// marginal compressed-length increment it contributes across the
// ensemble, then converts those scores into a smoothed probability
// distribution. Implements ensemble.Model.
func (e *Ensemble) ComputeLikelihoods(prefix [][]byte, allTokens [][]byte) (Distribution, error) {
	ctx := contextWindow(prefix, e.Options.ContextWindow)
	ctxBytes := concatTokens(ctx)

	scores := make(map[string]float64, len(allTokens))
	for _, t := range allTokens {
		scores[Code(t)] = 0
	}

	ensembleSize := float64(len(e.prepared))
	for shardIdx, dict := range e.prepared {
		base, err := e.compressedLength(shardIdx, dict, ctxBytes)
		if err != nil {
			return nil, err
		}
		for _, t := range allTokens {
			withToken := append(append([]byte(nil), ctxBytes...), t...)
			withLen, err := e.compressedLength(shardIdx, dict, withToken)
			if err != nil {
				return nil, err
			}
			scores[Code(t)] += float64(withLen-base) / ensembleSize
		}
	}

	return scoresToDistribution(scores, e.Options.InferenceBasis, e.Options.Regularization), nil
}

// compressedLength compresses data against the shard's prepared dictionary
// and returns the compressed length, memoizing on (shard, hash(data)) since
// the same context prefix is recompressed repeatedly across candidate
// tokens within one prediction and across adjacent predictions.
func (e *Ensemble) compressedLength(shardIdx int, dict *dictcompress.PreparedDict, data []byte) (int, error) {
	key := cacheKey{shard: shardIdx, hash: hashBytes(data)}
	if e.cache != nil {
		if n, ok := e.cache.Get(key); ok {
			return n, nil
		}
	}

	ctx := dictcompress.NewContext()
	defer ctx.Release()

	n, err := ctx.CompressWithDict(data, dict)
	if err != nil {
		return 0, err
	}
	if e.cache != nil {
		e.cache.Add(key, n)
	}
	return n, nil
}

func hashBytes(b []byte) uint64 {
	h := fnv.New64a()
	_, _ = h.Write(b)
	return h.Sum64()
}

// contextWindow returns the last window tokens of prefix (or all of it, if
// shorter).
func contextWindow(prefix [][]byte, window int) [][]byte {
	if window <= 0 || len(prefix) <= window {
		return prefix
	}
	return prefix[len(prefix)-window:]
}

func concatTokens(tokens [][]byte) []byte {
	var out []byte
	for _, t := range tokens {
		out = append(out, t...)
	}
	return out
}
