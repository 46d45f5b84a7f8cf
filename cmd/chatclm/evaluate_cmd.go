package main

import (
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/SamuelLess/chat-clm/internal/baseline"
	"github.com/SamuelLess/chat-clm/internal/ensemble"
	"github.com/SamuelLess/chat-clm/internal/evaluate"
	"github.com/SamuelLess/chat-clm/internal/persist"
)

func newEvaluateCmd(logger *zap.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "evaluate <model-name>",
		Short: "Evaluate a persisted model and the uniform/bigram/unigram baselines on its test file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEvaluate(logger, args[0])
		},
	}
}

func runEvaluate(logger *zap.Logger, modelName string) error {
	_, chosen, err := persist.FindBySubstring(modelDir(), modelName)
	if err != nil {
		return err
	}
	logger.Info("loading model", zap.String("file", chosen))

	run, err := persist.Load(filepath.Join(modelDir(), chosen))
	if err != nil {
		return err
	}

	// The evaluator runs with a fixed regularization, matching the
	// original CLI's eval_model override of the persisted training value.
	run.Options.Regularization = 0.15

	ens, err := ensemble.Load(run.ShardDicts, run.Options, logger)
	if err != nil {
		return err
	}
	defer ens.Close()

	testText, err := readFile(run.Options.TestFile)
	if err != nil {
		return err
	}

	stats, err := evaluate.Evaluate(ens, testText, run.Tokenizer, logger)
	if err != nil {
		return err
	}
	if err := printStats("ensemble", stats); err != nil {
		return err
	}

	trainTokens, err := loadTrainTokens(run.Options, run.Tokenizer)
	if err != nil {
		return err
	}

	logger.Info("evaluating uniform baseline")
	uniformStats, err := evaluate.Evaluate(baseline.NewUniform(), testText, run.Tokenizer, logger)
	if err != nil {
		return err
	}
	if err := printStats("uniform", uniformStats); err != nil {
		return err
	}

	logger.Info("evaluating bigram baseline")
	bigram := baseline.TrainBigram(trainTokens)
	bigramStats, err := evaluate.Evaluate(bigram, testText, run.Tokenizer, logger)
	if err != nil {
		return err
	}
	if err := printStats("bigram", bigramStats); err != nil {
		return err
	}

	logger.Info("evaluating unigram baseline")
	unigram := baseline.TrainUnigram(trainTokens)
	unigramStats, err := evaluate.Evaluate(unigram, testText, run.Tokenizer, logger)
	if err != nil {
		return err
	}
	return printStats("unigram", unigramStats)
}
