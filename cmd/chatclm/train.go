package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/SamuelLess/chat-clm/internal/clmconfig"
	"github.com/SamuelLess/chat-clm/internal/clmerr"
	"github.com/SamuelLess/chat-clm/internal/ensemble"
	"github.com/SamuelLess/chat-clm/internal/evaluate"
	"github.com/SamuelLess/chat-clm/internal/persist"
	"github.com/SamuelLess/chat-clm/internal/tokenizer"
)

func newTrainCmd(logger *zap.Logger) *cobra.Command {
	var useDefault bool

	cmd := &cobra.Command{
		Use:   "train",
		Short: "Train a tokenizer and ensemble model, persist the run, and evaluate it",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrain(logger, useDefault)
		},
	}
	cmd.Flags().BoolVar(&useDefault, "use-default", false, "use the built-in default training options instead of reading them from stdin")
	return cmd
}

func runTrain(logger *zap.Logger, useDefault bool) error {
	var opts clmconfig.TrainingOptions
	if useDefault {
		opts = clmconfig.Default()
	} else {
		var err error
		opts, err = readOptions(bufio.NewReader(os.Stdin))
		if err != nil {
			return clmerr.Wrap(clmerr.ParseError, err, "reading training options")
		}
	}
	logger.Info("training options loaded", zap.Any("options", opts))

	trainText, err := readFile(opts.TrainingFile)
	if err != nil {
		return err
	}

	logger.Info("training tokenizer")
	tok := tokenizer.New(opts.TokenByteSize)
	tok.Train(trainText, opts.TokenCount)

	trainTokens, err := loadTrainTokens(opts, tok)
	if err != nil {
		return err
	}
	logger.Info("training ensemble", zap.Int("tokens", len(trainTokens)))

	ens, err := ensemble.Train(trainTokens, opts, logger)
	if err != nil {
		return err
	}
	defer ens.Close()

	path, err := persist.Save(modelDir(), ens.ShardDictionaries(), tok, opts, trainTime())
	if err != nil {
		return err
	}
	logger.Info("run persisted", zap.String("path", path))

	testText, err := readFile(opts.TestFile)
	if err != nil {
		return err
	}

	stats, err := evaluate.Evaluate(ens, testText, tok, logger)
	if err != nil {
		return err
	}
	return printStats("ensemble", stats)
}

// trainTime is factored out so the timestamp component of a persisted
// filename is computed in exactly one place.
func trainTime() time.Time { return time.Now() }

func loadTrainTokens(opts clmconfig.TrainingOptions, tok *tokenizer.Tokenizer) ([][]byte, error) {
	text, err := readFile(opts.TrainingFile)
	if err != nil {
		return nil, err
	}
	cut := int(float64(len(text)) * opts.DatasetPercentage)
	if cut > len(text) {
		cut = len(text)
	}
	return tok.Encode(text[:cut]), nil
}

func readFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", clmerr.Wrap(clmerr.InputMissing, err, "could not open %s", path)
	}
	return string(data), nil
}

func printStats(label string, stats evaluate.Stats) error {
	data, err := json.Marshal(stats)
	if err != nil {
		return err
	}
	fmt.Printf("%s: %s\n", label, data)
	return nil
}
