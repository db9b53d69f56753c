package app

import (
	"bytes"
	"context"
	"os/exec"
)

// processRunner is the production command.Runner backing exec/lint/pipe
// commands: one os/exec.CommandContext invocation per call, stdin
// piped in, combined stdout+stderr captured so a linter's or
// formatter's error output still reaches the status line.
type processRunner struct{}

func newProcessRunner() *processRunner { return &processRunner{} }

func (processRunner) Run(ctx context.Context, name string, args []string, stdin []byte) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	if stdin != nil {
		cmd.Stdin = bytes.NewReader(stdin)
	}
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	err := cmd.Run()
	return out.Bytes(), err
}
