// Package tokenizer implements the BPE tokenizer: normalization, vocabulary
// training by iterative pair merging, and a trie-based greedy longest-match
// encoder/decoder. Training is adapted from the teacher's own dictionary
// trainer (onpair.go's chunked pair-counting merge loop), generalized from
// byte pairs to the spec's string-fragment pairs.
package tokenizer

import (
	"hash/fnv"
	"sync"
)

// Merge records that fragment A followed by fragment B was fused into
// A+B during training, in the order merges were learned. Retained for
// diagnostics only; encoding never replays merges.
type Merge struct {
	A string
	B string
}

// Tokenizer holds a trained BPE vocabulary: a normalized-text fragment maps
// to a fixed-length opaque token code. Immutable after Train.
type Tokenizer struct {
	Vocab         map[string][]byte // fragment -> code
	Merges        []Merge
	VocabSize     int
	TokenByteSize int

	trieOnce sync.Once
	trie     *trieNode
}

// New creates an empty tokenizer that emits codes of tokenByteSize bytes.
func New(tokenByteSize int) *Tokenizer {
	return &Tokenizer{
		Vocab:         make(map[string][]byte),
		TokenByteSize: tokenByteSize,
	}
}

// maxTrainingChars is the hard cap on how much of the training text
// contributes to vocabulary learning, per the spec.
const maxTrainingChars = 50_000

// trainChunkSize is the fixed, non-overlapping chunk size pair-counting
// operates over during training.
const trainChunkSize = 1024

// codeOf computes a token's fixed-length byte code deterministically from
// its textual content via FNV-1a, the Go stdlib's stable (non-randomized,
// reproducible across runs) hash — the idiomatic replacement for the
// original's direct use of a fixed-key SipHash DefaultHasher. Collision is
// accepted as low-probability noise, per the spec; it is not defended
// against.
func codeOf(content string, tokenByteSize int) []byte {
	code := make([]byte, tokenByteSize)
	// FNV-1a only yields 8 bytes (64 bits) of entropy; for larger requested
	// sizes, chain additional hashes over the previous digest so every byte
	// is still a deterministic function of content.
	seed := content
	filled := 0
	for filled < tokenByteSize {
		h := fnv.New64a()
		_, _ = h.Write([]byte(seed))
		sum := h.Sum64()
		for i := 0; i < 8 && filled < tokenByteSize; i++ {
			code[filled] = byte(sum >> (8 * i))
			filled++
		}
		seed = string(h.Sum(nil))
	}
	return code
}

// Train builds the vocabulary and merge list from text, targeting
// vocabSize distinct fragments. Training text is truncated to the first
// 50,000 normalized characters. If vocabSize is no larger than the number
// of distinct characters in the (truncated) normalized text, no merges
// are produced and the vocabulary is exactly those characters.
func (t *Tokenizer) Train(text string, vocabSize int) {
	t.VocabSize = vocabSize

	normalized := Normalize(text)
	if len(normalized) > maxTrainingChars {
		normalized = normalized[:maxTrainingChars]
	}

	vocab := make(map[string][]byte)
	for _, c := range normalized {
		if _, ok := vocab[c]; !ok {
			vocab[c] = codeOf(c, t.TokenByteSize)
		}
	}

	chunks := chunkFragments(normalized, trainChunkSize)

	for len(vocab) < vocabSize {
		best, bestCount, found := mostFrequentPair(chunks)
		if !found || bestCount == 0 {
			break
		}

		merged := best.A + best.B
		vocab[merged] = codeOf(merged, t.TokenByteSize)
		t.Merges = append(t.Merges, best)

		applyMerge(chunks, best, merged)
	}

	t.Vocab = vocab
}

// chunkFragments partitions fragments into fixed-size, non-overlapping
// chunks (the final chunk may be short). Each chunk is its own mutable
// copy so merge rewriting never straddles a chunk boundary.
func chunkFragments(fragments []string, size int) [][]string {
	chunks := make([][]string, 0, (len(fragments)+size-1)/size)
	for start := 0; start < len(fragments); start += size {
		end := start + size
		if end > len(fragments) {
			end = len(fragments)
		}
		chunk := make([]string, end-start)
		copy(chunk, fragments[start:end])
		chunks = append(chunks, chunk)
	}
	return chunks
}

// mostFrequentPair counts adjacent fragment pairs across every chunk,
// skipping any pair whose left fragment ends with a space (so merges never
// cross a word boundary), and returns the globally highest-count pair.
// Ties are broken by first-encountered order across chunks scanned
// left-to-right — deterministic regardless of Go's randomized map
// iteration, since candidates are tracked in an auxiliary insertion-ordered
// slice rather than by iterating the count map directly.
func mostFrequentPair(chunks [][]string) (Merge, int, bool) {
	type pairKey struct{ a, b string }
	counts := make(map[pairKey]int)
	var order []pairKey

	for _, chunk := range chunks {
		for i := 0; i+1 < len(chunk); i++ {
			left := chunk[i]
			if endsWithSpace(left) {
				continue
			}
			key := pairKey{left, chunk[i+1]}
			if _, seen := counts[key]; !seen {
				order = append(order, key)
			}
			counts[key]++
		}
	}

	var best pairKey
	bestCount := 0
	found := false
	for _, key := range order {
		if c := counts[key]; c > bestCount {
			best = key
			bestCount = c
			found = true
		}
	}
	return Merge{A: best.a, B: best.b}, bestCount, found
}

func endsWithSpace(fragment string) bool {
	return len(fragment) > 0 && fragment[len(fragment)-1] == ' '
}

// applyMerge rewrites every chunk in place: left-to-right, whenever
// (merge.A, merge.B) occurs at adjacent positions (i, i+1), fragment i is
// replaced by merged and fragment i+1 is deleted, and the scan continues
// at i+1 without rescanning position i (classic non-overlapping rewrite).
func applyMerge(chunks [][]string, merge Merge, merged string) {
	for ci, chunk := range chunks {
		out := chunk[:0]
		i := 0
		for i < len(chunk) {
			if i+1 < len(chunk) && chunk[i] == merge.A && chunk[i+1] == merge.B {
				out = append(out, merged)
				i += 2
			} else {
				out = append(out, chunk[i])
				i++
			}
		}
		chunks[ci] = out
	}
}

// trieRoot lazily builds and caches the encoding trie on first use. The spec
// permits this: "A conforming implementation may cache it on the
// tokenizer after the first call; the observable behavior is identical."
func (t *Tokenizer) trieRoot() *trieNode {
	t.trieOnce.Do(func() {
		t.trie = buildTrie(t.Vocab)
	})
	return t.trie
}

// Encode normalizes text and greedily encodes it via longest-prefix match
// against the trained vocabulary trie. A character with no matching
// vocabulary prefix is skipped (advances by one, emits nothing) — this can
// only happen for a character absent from training.
func (t *Tokenizer) Encode(text string) [][]byte {
	normalized := Normalize(text)
	return t.encodeNormalized(normalized)
}

func (t *Tokenizer) encodeNormalized(normalized []string) [][]byte {
	input := make([]rune, len(normalized))
	for i, frag := range normalized {
		r := []rune(frag)
		if len(r) != 1 {
			// Fragments are always single characters post-normalize; guard
			// defensively rather than silently mis-indexing.
			input[i] = '�'
			continue
		}
		input[i] = r[0]
	}

	root := t.trieRoot()
	out := make([][]byte, 0, len(input))
	i := 0
	for i < len(input) {
		code, length, ok := root.longestMatch(input, i)
		if !ok {
			i++
			continue
		}
		out = append(out, code)
		i += length
	}
	return out
}

// ReverseMap builds the code -> fragment map on demand.
func (t *Tokenizer) ReverseMap() map[string]string {
	reverse := make(map[string]string, len(t.Vocab))
	for fragment, code := range t.Vocab {
		reverse[string(code)] = fragment
	}
	return reverse
}

// Decode looks up each code in the reverse vocabulary map, concatenating
// fragments with no delimiter. Unknown codes emit the literal "[UNK]".
func (t *Tokenizer) Decode(codes [][]byte) string {
	reverse := t.ReverseMap()
	var out []byte
	for _, code := range codes {
		if fragment, ok := reverse[string(code)]; ok {
			out = append(out, fragment...)
		} else {
			out = append(out, "[UNK]"...)
		}
	}
	return string(out)
}

// DecodeDelimited is Decode but inserts U+00B7 (middle dot) between
// consecutive fragments as a visual delimiter; used by the interactive
// inference driver only.
func (t *Tokenizer) DecodeDelimited(codes [][]byte) string {
	reverse := t.ReverseMap()
	var out []byte
	for i, code := range codes {
		if i > 0 {
			out = append(out, "·"...)
		}
		if fragment, ok := reverse[string(code)]; ok {
			out = append(out, fragment...)
		} else {
			out = append(out, "[UNK]"...)
		}
	}
	return string(out)
}

// Tokens returns every token code currently in the vocabulary, in no
// particular order — the candidate set the ensemble and baseline models
// score against.
func (t *Tokenizer) Tokens() [][]byte {
	tokens := make([][]byte, 0, len(t.Vocab))
	for _, code := range t.Vocab {
		tokens = append(tokens, code)
	}
	return tokens
}
