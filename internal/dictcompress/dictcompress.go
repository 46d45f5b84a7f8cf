// Package dictcompress wraps the compression primitive the CLM core treats
// as a black box: dictionary training plus dictionary-conditioned
// compression. It is backed by github.com/DataDog/zstd, the zstd binding
// referenced across the retrieval pack's dependency manifests, and mirrors
// the native handle lifecycle the spec requires (prepared dictionaries and
// compression contexts are explicit resources with a Release/Close method,
// never relying on a finalizer).
package dictcompress

import (
	"fmt"

	"github.com/DataDog/zstd"
)

// Params are the dictionary-training parameters passed through unmodified
// from clmconfig.TrainingOptions to the native ZDICT-style optimizer.
type Params struct {
	D                       uint32
	F                       uint32
	K                       uint32
	Steps                   uint32
	NbThreads               uint32
	SplitPoint              float64
	Accel                   uint32
	ShrinkDict              uint32
	ShrinkDictMaxRegression uint32
	CompressionLevel        int
}

// TrainDictionary trains a dictionary from a concatenated sample buffer and
// the byte-length of each sample within it. sampleSizes must sum to
// len(samples); bufferSize bounds how large the resulting dictionary may be.
//
// Preconditions (non-empty samples, at least 5 sub-chunks, bufferSize >=
// 256) are the caller's responsibility — internal/ensemble enforces them
// and raises clmerr before reaching here, per the spec's fatal-precondition
// list.
func TrainDictionary(samples []byte, sampleSizes []int, bufferSize int, params Params) ([]byte, error) {
	sum := 0
	for _, n := range sampleSizes {
		sum += n
	}
	if sum != len(samples) {
		return nil, fmt.Errorf("dictcompress: sample sizes sum to %d, want %d", sum, len(samples))
	}

	dict, err := zstd.BuildDict(zstd.SamplesSlice{
		Samples: samples,
		Sizes:   sampleSizes,
	}, bufferSize, zstd.DictParams{
		D:                       int(params.D),
		F:                       int(params.F),
		K:                       int(params.K),
		Steps:                   int(params.Steps),
		NbThreads:               int(params.NbThreads),
		SplitPoint:              params.SplitPoint,
		Accel:                   int(params.Accel),
		ShrinkDict:              int(params.ShrinkDict),
		ShrinkDictMaxRegression: int(params.ShrinkDictMaxRegression),
		CompressionLevel:        params.CompressionLevel,
	})
	if err != nil {
		return nil, fmt.Errorf("dictcompress: dictionary training failed: %w", err)
	}
	return dict, nil
}

// PreparedDict is a compression-primitive handle built from a trained
// dictionary at a fixed compression level. It has non-trivial native
// lifetime and must be released via Close when the owning ensemble is
// destroyed. PreparedDict is read-only once constructed and safe to share
// across concurrent scoring goroutines.
type PreparedDict struct {
	raw    []byte
	level  int
	cdict  *zstd.CDict
	closed bool
}

// NewPreparedDict builds a prepared dictionary handle from trained
// dictionary bytes at the given compression level.
func NewPreparedDict(dict []byte, level int) (*PreparedDict, error) {
	cdict, err := zstd.NewCDict(dict, level)
	if err != nil {
		return nil, fmt.Errorf("dictcompress: preparing dictionary failed: %w", err)
	}
	return &PreparedDict{raw: dict, level: level, cdict: cdict}, nil
}

// Bytes returns the raw dictionary bytes, as persisted by internal/persist.
func (d *PreparedDict) Bytes() []byte { return d.raw }

// Close releases the native dictionary handle. Safe to call more than once.
func (d *PreparedDict) Close() error {
	if d.closed {
		return nil
	}
	d.closed = true
	return d.cdict.Close()
}

// Context is per-call compression scratch state. It must not be shared
// across concurrent compression calls; acquire a fresh Context for each
// call and Release it before returning, on every exit path including
// errors.
type Context struct {
	cctx zstd.Ctx
}

// NewContext acquires a fresh compression context.
func NewContext() *Context {
	return &Context{cctx: zstd.NewCtx()}
}

// CompressWithDict compresses src against the prepared dictionary and
// returns the compressed length. The compressed bytes themselves are
// discarded by callers that only need the marginal length (the ensemble
// scoring path never needs the compressed payload, only its size).
func (c *Context) CompressWithDict(src []byte, dict *PreparedDict) (int, error) {
	dst := make([]byte, CompressBound(len(src)))
	out, err := c.cctx.CompressDict(dst, src, dict.cdict)
	if err != nil {
		return 0, fmt.Errorf("dictcompress: compression failed: %w", err)
	}
	return len(out), nil
}

// Release returns the context's native resources. A released Context must
// not be reused.
func (c *Context) Release() {
	// github.com/DataDog/zstd's Ctx has no explicit native handle to free;
	// the struct is kept so call sites follow the scoped-acquisition
	// discipline the spec requires even though this particular binding has
	// nothing to release today.
}

// CompressBound returns the maximum compressed size for an input of the
// given size, for sizing destination buffers.
func CompressBound(size int) int {
	return zstd.CompressBound(size)
}
