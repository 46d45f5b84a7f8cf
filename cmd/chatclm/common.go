package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/SamuelLess/chat-clm/internal/clmconfig"
)

// modelDir is where persisted runs are written to and loaded from. The
// spec leaves this unspecified beyond "the model directory"; CHATCLM_MODEL_DIR
// overrides the default so a single built binary can point at different
// run directories without a rebuild.
func modelDir() string {
	if dir := os.Getenv("CHATCLM_MODEL_DIR"); dir != "" {
		return dir
	}
	return "models"
}

// readOptions reads one line of structured JSON options from r, per §6's
// "read one line of structured options from standard input".
func readOptions(r *bufio.Reader) (clmconfig.TrainingOptions, error) {
	line, err := r.ReadString('\n')
	if err != nil && line == "" {
		return clmconfig.TrainingOptions{}, fmt.Errorf("reading options line: %w", err)
	}
	var opts clmconfig.TrainingOptions
	if err := json.Unmarshal([]byte(strings.TrimSpace(line)), &opts); err != nil {
		return clmconfig.TrainingOptions{}, fmt.Errorf("parsing options JSON: %w", err)
	}
	return opts, nil
}

// readLine reads a single trimmed line from r, for the inference prompt.
func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
