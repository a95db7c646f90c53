package agent

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"
)

// safeReadCommands run without asking. All of them only inspect state.
var safeReadCommands = map[string]bool{
	"ls": true, "cat": true, "grep": true, "find": true, "which": true,
	"command": true, "pwd": true, "echo": true, "head": true, "tail": true,
	"wc": true, "file": true, "stat": true, "df": true, "du": true, "ps": true,
}

// maxObservationOutput caps how much command output enters the step log.
// Longer output keeps the head and tail halves.
const maxObservationOutput = 800

// ExecFunc runs a shell command and returns its combined output and exit
// code. A non-zero exit is not an error; err reports failures to run at
// all (including timeouts via the context).
type ExecFunc func(ctx context.Context, command string) (output string, exitCode int, err error)

// runShell handles the shell tool: safe read commands run immediately,
// anything else goes through the prompter first.
func (r *Runner) runShell(ctx context.Context, step int, command string, events EventFunc) (observation string, cancelled bool) {
	if command == "" {
		return "ERROR: the model used the shell tool without providing a command.", false
	}

	if isSafeCommand(command) {
		events(Event{Type: EventAutoCommand, Step: step, Text: command})
	} else {
		answer, err := r.Prompter.ConfirmCommand(command)
		if err != nil {
			return "", true
		}
		switch a := strings.ToLower(strings.TrimSpace(answer)); a {
		case "y", "yes":
			// approved
		case "", "n", "no":
			return "", true
		default:
			return fmt.Sprintf("The user rejected the proposed command and gave a new instruction: %q", answer), false
		}
	}

	execFn := r.Exec
	if execFn == nil {
		execFn = shellExec
	}
	timeout := r.StepTimeout
	if timeout <= 0 {
		timeout = DefaultStepTimeout
	}
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	output, code, err := execFn(runCtx, command)
	duration := time.Since(start)
	if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		return fmt.Sprintf("ERROR: timeout expired. The command took longer than %s.", timeout), false
	}
	if err != nil {
		return fmt.Sprintf("ERROR: could not run the command: %s", err), false
	}
	if output != "" {
		events(Event{Type: EventCommandOutput, Step: step, Text: output})
	}
	return fmt.Sprintf("Command executed. Exit code: %d. Duration: %.2fs.\n--- OUTPUT ---\n%s\n-------------",
		code, duration.Seconds(), truncateOutput(output)), false
}

// isSafeCommand reports whether the command's program is on the read-only
// allowlist. A leading "./" disqualifies it.
func isSafeCommand(command string) bool {
	name, _, _ := strings.Cut(strings.TrimSpace(command), " ")
	if strings.HasPrefix(name, "./") {
		return false
	}
	return safeReadCommands[name]
}

// truncateOutput keeps the first and last 400 bytes of long output so the
// step log stays a fixed size while still showing how a command ended.
func truncateOutput(s string) string {
	if len(s) <= maxObservationOutput {
		return s
	}
	half := maxObservationOutput / 2
	return s[:half] + "\n\n... (output truncated) ...\n\n" + s[len(s)-half:]
}

// shellExec is the default ExecFunc, running through the system shell
// with stderr folded into stdout.
func shellExec(ctx context.Context, command string) (string, int, error) {
	cmd := exec.CommandContext(ctx, "sh", "-c", command)
	out, err := cmd.CombinedOutput()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return string(out), exitErr.ExitCode(), nil
		}
		return string(out), -1, err
	}
	return string(out), 0, nil
}

// readEnviron collects the working directory and its entries for the
// initial observation. Directories get a trailing slash.
func readEnviron() (string, []string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", nil, err
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() {
			name += "/"
		}
		names = append(names, name)
	}
	return dir, names, nil
}
