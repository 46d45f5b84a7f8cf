package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/SamuelLess/chat-clm/internal/ensemble"
	"github.com/SamuelLess/chat-clm/internal/persist"
	"github.com/SamuelLess/chat-clm/internal/sampler"
)

// displayTopK is how many candidates are printed before each sampled step,
// matching the original CLI's print_top_k_tokens(..., 10).
const displayTopK = 10

func newInferenceCmd(logger *zap.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "inference <model-name>",
		Short: "Load a model and interactively continue a prompt, greedily, forever",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInference(logger, args[0])
		},
	}
}

func runInference(logger *zap.Logger, modelName string) error {
	_, chosen, err := persist.FindBySubstring(modelDir(), modelName)
	if err != nil {
		return err
	}
	fmt.Println("Loading model:", chosen)

	run, err := persist.Load(filepath.Join(modelDir(), chosen))
	if err != nil {
		return err
	}

	ens, err := ensemble.Load(run.ShardDicts, run.Options, logger)
	if err != nil {
		return err
	}
	defer ens.Close()

	allTokens := run.Tokenizer.Tokens()

	fmt.Println("Prompt: ")
	prompt, err := readLine(bufio.NewReader(os.Stdin))
	if err != nil {
		return fmt.Errorf("reading prompt: %w", err)
	}

	tokens := run.Tokenizer.Encode(prompt)
	for {
		dist, err := ens.ComputeLikelihoods(tokens, allTokens)
		if err != nil {
			return err
		}

		for _, c := range sampler.TopK(dist, displayTopK) {
			fragment := run.Tokenizer.ReverseMap()[c.Code]
			fmt.Printf("  %q: %.6f\n", fragment, c.P)
		}

		next := sampler.TopKUniform(dist, 1)
		tokens = append(tokens, []byte(next))
		fmt.Println(run.Tokenizer.DecodeDelimited(tokens))
	}
}
