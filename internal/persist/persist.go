// Package persist serializes and deserializes a trained run — ensemble
// shard dictionaries, tokenizer state, and training options — as a single
// self-describing JSON record, per the spec. Grounded on mod.rs's
// SavedRun/save_run/load.
package persist

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/SamuelLess/chat-clm/internal/clmconfig"
	"github.com/SamuelLess/chat-clm/internal/clmerr"
	"github.com/SamuelLess/chat-clm/internal/tokenizer"
)

// tokenizerDoc is the JSON shape of a persisted tokenizer, matching §6's
// `tokenizer: { tokens, merges, vocab_size, token_byte_size }`.
type tokenizerDoc struct {
	Tokens        map[string]string `json:"tokens"` // fragment -> base64(code)
	Merges        [][2]string       `json:"merges"`
	VocabSize     int               `json:"vocab_size"`
	TokenByteSize int               `json:"token_byte_size"`
}

// savedRun is the top-level persisted JSON record, matching §6 exactly:
// `{ dicts, tokenizer, training_options }`.
type savedRun struct {
	Dicts           [][]byte                  `json:"dicts"`
	Tokenizer       tokenizerDoc              `json:"tokenizer"`
	TrainingOptions clmconfig.TrainingOptions `json:"training_options"`
}

// Run is the in-memory, rehydrated form of a persisted model.
type Run struct {
	ShardDicts [][]byte
	Tokenizer  *tokenizer.Tokenizer
	Options    clmconfig.TrainingOptions
}

// Filename returns the `{timestamp}-{model_id}.json` filename for a run
// persisted at instant ts, per §4.6. ts is always formatted in UTC.
func Filename(ts time.Time, modelID string) string {
	if modelID == "" {
		modelID = "without-id"
	}
	return fmt.Sprintf("%s-%s.json", ts.UTC().Format("2006-01-02T15-04-05"), modelID)
}

// Save writes run to dir/{timestamp}-{model_id}.json and returns the full
// path written.
func Save(dir string, shardDicts [][]byte, tok *tokenizer.Tokenizer, opts clmconfig.TrainingOptions, ts time.Time) (string, error) {
	doc := savedRun{
		Dicts:           shardDicts,
		Tokenizer:       toTokenizerDoc(tok),
		TrainingOptions: opts,
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return "", clmerr.Wrap(clmerr.ParseError, err, "encoding saved run")
	}

	path := filepath.Join(dir, Filename(ts, opts.ModelIDOrDefault()))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", clmerr.Wrap(clmerr.InputMissing, err, "writing model file %s", path)
	}
	return path, nil
}

// Load reads and parses a persisted run from path.
func Load(path string) (*Run, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, clmerr.Wrap(clmerr.InputMissing, err, "reading model file %s", path)
	}

	var doc savedRun
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, clmerr.Wrap(clmerr.ParseError, err, "parsing model file %s", path)
	}

	tok, err := fromTokenizerDoc(doc.Tokenizer)
	if err != nil {
		return nil, err
	}

	return &Run{
		ShardDicts: doc.Dicts,
		Tokenizer:  tok,
		Options:    doc.TrainingOptions,
	}, nil
}

// FindBySubstring lists dir and returns every filename, plus the first one
// containing needle as a substring (§6: "substring match against
// persisted filenames").
func FindBySubstring(dir, needle string) (all []string, chosen string, err error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, "", clmerr.Wrap(clmerr.InputMissing, err, "reading model directory %s", dir)
	}

	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		all = append(all, e.Name())
		if chosen == "" && strings.Contains(e.Name(), needle) {
			chosen = e.Name()
		}
	}
	if chosen == "" {
		return all, "", clmerr.New(clmerr.UnknownModel, "no model file matches %q in %s", needle, dir)
	}
	return all, chosen, nil
}

func toTokenizerDoc(tok *tokenizer.Tokenizer) tokenizerDoc {
	tokens := make(map[string]string, len(tok.Vocab))
	for fragment, code := range tok.Vocab {
		tokens[fragment] = base64.StdEncoding.EncodeToString(code)
	}
	merges := make([][2]string, len(tok.Merges))
	for i, m := range tok.Merges {
		merges[i] = [2]string{m.A, m.B}
	}
	return tokenizerDoc{
		Tokens:        tokens,
		Merges:        merges,
		VocabSize:     tok.VocabSize,
		TokenByteSize: tok.TokenByteSize,
	}
}

func fromTokenizerDoc(doc tokenizerDoc) (*tokenizer.Tokenizer, error) {
	tok := tokenizer.New(doc.TokenByteSize)
	tok.VocabSize = doc.VocabSize
	for fragment, encoded := range doc.Tokens {
		code, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			return nil, clmerr.Wrap(clmerr.ParseError, err, "decoding token code for %q", fragment)
		}
		tok.Vocab[fragment] = code
	}
	for _, m := range doc.Merges {
		tok.Merges = append(tok.Merges, tokenizer.Merge{A: m[0], B: m[1]})
	}
	return tok, nil
}
