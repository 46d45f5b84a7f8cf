package ensemble

import (
	"github.com/SamuelLess/chat-clm/internal/clmconfig"
	"github.com/SamuelLess/chat-clm/internal/clmerr"
	"github.com/SamuelLess/chat-clm/internal/dictcompress"
)

// minSubChunks is the fatal precondition from the spec: the dictionary
// trainer refuses to run on fewer than 5 sub-chunks.
const minSubChunks = 5

// minDictionaryBuffer is the fatal precondition on the output buffer size.
const minDictionaryBuffer = 256

// trainShardDictionary flattens a token shard into a single byte stream,
// re-partitions it into training_chunk_size-token sub-chunks, and invokes
// the compression primitive's dictionary-training routine. Grounded on
// trainer.rs's train_model: same preconditions, same buffer sizing
// formula, same parameter pass-through.
func trainShardDictionary(shard [][]byte, opts clmconfig.TrainingOptions) ([]byte, error) {
	if len(shard) == 0 {
		return nil, clmerr.New(clmerr.EmptyShard, "dictionary trainer given an empty shard")
	}

	chunkSize := opts.TrainingChunkSize
	if chunkSize <= 0 {
		chunkSize = 1
	}

	var sampleSizes []int
	var samples []byte
	for start := 0; start < len(shard); start += chunkSize {
		end := start + chunkSize
		if end > len(shard) {
			end = len(shard)
		}
		before := len(samples)
		for _, tok := range shard[start:end] {
			samples = append(samples, tok...)
		}
		sampleSizes = append(sampleSizes, len(samples)-before)
	}

	if len(sampleSizes) < minSubChunks {
		return nil, clmerr.New(clmerr.InsufficientSubChunks,
			"dictionary trainer saw %d sub-chunks, need at least %d", len(sampleSizes), minSubChunks)
	}

	bufferSize := int(float64(len(samples)) * opts.DictionarySizePercentage)
	if bufferSize < minDictionaryBuffer {
		bufferSize = minDictionaryBuffer
	}

	dict, err := dictcompress.TrainDictionary(samples, sampleSizes, bufferSize, dictcompress.Params{
		D:                       opts.D,
		F:                       opts.F,
		K:                       opts.K,
		Steps:                   opts.Steps,
		NbThreads:               opts.NbThreads,
		SplitPoint:              opts.SplitPoint,
		Accel:                   opts.Accel,
		ShrinkDict:              opts.ShrinkDict,
		ShrinkDictMaxRegression: opts.ShrinkDictMaxRegression,
		CompressionLevel:        opts.TrainCompressionLevel,
	})
	if err != nil {
		return nil, clmerr.Wrap(clmerr.CompressionPrimitiveError, err, "shard dictionary training failed")
	}
	return dict, nil
}
