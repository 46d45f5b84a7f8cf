package ensemble

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/SamuelLess/chat-clm/internal/clmconfig"
	"github.com/SamuelLess/chat-clm/internal/dictcompress"
)

// compressedLengthCacheSize bounds the per-ensemble compressed-length memo so
// long inference sessions don't grow it unboundedly.
const compressedLengthCacheSize = 1 << 16

// cacheKey identifies one memoized (shard, byte-sequence) compression call.
type cacheKey struct {
	shard int
	hash  uint64
}

// Ensemble holds N (shard-dictionary, prepared-dictionary) pairs plus the
// training options used to build them — the compression level and context
// window are part of the contract and are needed again at inference time.
// Invariant: len(shardDicts) == len(prepared) at all times.
type Ensemble struct {
	shardDicts [][]byte
	prepared   []*dictcompress.PreparedDict
	Options    clmconfig.TrainingOptions

	cache  *lru.Cache[cacheKey, int]
	logger *zap.Logger
}

// Train partitions tokens into Options.EnsembleSize contiguous shards of
// ceil(N/E) tokens (the final shard may be shorter), trains one dictionary
// per shard in parallel, and materializes one prepared compression handle
// per dictionary at TrainCompressionLevel. Shard order in the returned
// ensemble always matches shard index, regardless of completion order.
func Train(tokens [][]byte, opts clmconfig.TrainingOptions, logger *zap.Logger) (*Ensemble, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	shards := partitionShards(tokens, opts.EnsembleSize)
	shardDicts := make([][]byte, len(shards))

	g := new(errgroup.Group)
	for i, shard := range shards {
		i, shard := i, shard
		g.Go(func() error {
			dict, err := trainShardDictionary(shard, opts)
			if err != nil {
				return fmt.Errorf("shard %d: %w", i, err)
			}
			shardDicts[i] = dict
			logger.Info("shard dictionary trained", zap.Int("shard", i), zap.Int("tokens", len(shard)), zap.Int("dict_bytes", len(dict)))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return newEnsemble(shardDicts, opts, logger)
}

// Load rebuilds an ensemble from previously persisted shard dictionaries,
// re-preparing each at the options' compression level.
func Load(shardDicts [][]byte, opts clmconfig.TrainingOptions, logger *zap.Logger) (*Ensemble, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	return newEnsemble(shardDicts, opts, logger)
}

func newEnsemble(shardDicts [][]byte, opts clmconfig.TrainingOptions, logger *zap.Logger) (*Ensemble, error) {
	prepared := make([]*dictcompress.PreparedDict, len(shardDicts))
	for i, dict := range shardDicts {
		pd, err := dictcompress.NewPreparedDict(dict, opts.TrainCompressionLevel)
		if err != nil {
			// Release everything already prepared before surfacing the error.
			for _, done := range prepared[:i] {
				if done != nil {
					_ = done.Close()
				}
			}
			return nil, fmt.Errorf("preparing dictionary %d: %w", i, err)
		}
		prepared[i] = pd
	}

	cache, _ := lru.New[cacheKey, int](compressedLengthCacheSize)

	return &Ensemble{
		shardDicts: shardDicts,
		prepared:   prepared,
		Options:    opts,
		cache:      cache,
		logger:     logger,
	}, nil
}

// ShardDictionaries returns the raw, persistable dictionary payloads —
// exactly what internal/persist writes to disk.
func (e *Ensemble) ShardDictionaries() [][]byte { return e.shardDicts }

// Close releases every prepared dictionary. Must be called exactly once
// when the ensemble is no longer needed.
func (e *Ensemble) Close() error {
	var firstErr error
	for _, pd := range e.prepared {
		if err := pd.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// partitionShards splits tokens into n contiguous shards of ceil(len/n)
// tokens each; the final shard may be shorter. Deterministic, index-ordered.
func partitionShards(tokens [][]byte, n int) [][][]byte {
	if n <= 0 {
		n = 1
	}
	shardSize := (len(tokens) + n - 1) / n
	if shardSize == 0 {
		shardSize = 1
	}

	shards := make([][][]byte, 0, n)
	for start := 0; start < len(tokens); start += shardSize {
		end := start + shardSize
		if end > len(tokens) {
			end = len(tokens)
		}
		shards = append(shards, tokens[start:end])
	}
	for len(shards) < n {
		shards = append(shards, nil)
	}
	return shards
}
