package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/nekyl/twob"
	"github.com/nekyl/twob/agent"
	"github.com/nekyl/twob/search"
)

// Run executes the do command.
func (c *DoCmd) Run(deps *Dependencies) error {
	task := strings.Join(c.Query, " ")

	deps.Runner.MaxSteps = c.MaxSteps
	deps.Runner.StepTimeout = time.Duration(c.Timeout) * time.Second

	res, err := deps.Runner.Run(deps.Ctx, task, func(e agent.Event) {
		switch e.Type {
		case agent.EventThought:
			deps.Printer.Panel("🧠 2B's Thinking", e.Text)
		case agent.EventAutoCommand:
			deps.Printer.Info("running read-only command: %s", e.Text)
		case agent.EventCommandOutput:
			fmt.Fprintln(deps.Stdout, e.Text)
		case agent.EventToolCall:
			deps.Printer.Info("%s", e.Text)
		case agent.EventHistoryTrimmed:
			deps.Printer.Info("%s", e.Text)
		}
	})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", twob.ErrorMessage(err))
		return err
	}

	switch {
	case res.Cancelled:
		deps.Printer.Info("Cancelled. That's fine!")
	case res.MaxStepsReached:
		deps.Printer.Warning("Reached the maximum number of steps (%d). Stopping here for safety.", deps.Runner.MaxSteps)
	default:
		deps.Printer.Assistant(res.Closing)
	}
	return nil
}

// agentTools wires the delegated agent capabilities to the same services
// the top-level commands use.
func agentTools(deps *Dependencies) agent.Tools {
	return agent.Tools{
		Search: func(ctx context.Context, query string) (string, error) {
			answer, err := deps.Searcher.Search(ctx, query, search.ModeAgent, nil)
			if err != nil {
				return "", err
			}
			deps.Printer.Panel("🔎 Search Summary", answer.Summary)
			return answer.Summary, nil
		},
		Generate: func(ctx context.Context, query string) error {
			cmd := &GenerateCmd{Query: query}
			return cmd.Run(deps)
		},
		Explain: func(ctx context.Context, query string) error {
			cmd := &ExplainCmd{Query: query}
			return cmd.Run(deps)
		},
		Remember: func(ctx context.Context, text string) error {
			cmd := &RememberAddCmd{Text: text}
			return cmd.Run(deps)
		},
	}
}

// terminalPrompter asks questions on the terminal.
type terminalPrompter struct {
	in  *bufio.Reader
	out io.Writer
}

func newTerminalPrompter(in io.Reader, out io.Writer) *terminalPrompter {
	return &terminalPrompter{in: bufio.NewReader(in), out: out}
}

func (p *terminalPrompter) Ask(question string) (string, error) {
	fmt.Fprintf(p.out, "🤔 2B asks: %s\nYour answer: ", question)
	return p.readLine()
}

func (p *terminalPrompter) ConfirmCommand(command string) (string, error) {
	fmt.Fprintf(p.out, "🚨 Proposed command:\n\n    %s\n\nRun it? [y/N] or type a new instruction: ", command)
	return p.readLine()
}

func (p *terminalPrompter) readLine() (string, error) {
	line, err := p.in.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
