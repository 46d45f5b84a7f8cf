// Command chatclm is the CLM training, evaluation, and inference driver,
// grounded on the original implementation's cli.rs. It wires together
// internal/tokenizer, internal/ensemble, internal/baseline,
// internal/evaluate, internal/persist, and internal/sampler.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load() // best-effort; no variables are required by the core

	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintln(os.Stderr, "chatclm: failed to initialize logger:", err)
		os.Exit(1)
	}
	defer logger.Sync()

	root := &cobra.Command{
		Use:   "chatclm",
		Short: "Compression-dictionary-ensemble language model trainer and evaluator",
	}

	root.AddCommand(
		newTrainCmd(logger),
		newEvaluateCmd(logger),
		newInferenceCmd(logger),
	)

	if err := root.Execute(); err != nil {
		logger.Error("command failed", zap.Error(err))
		os.Exit(1)
	}
}
