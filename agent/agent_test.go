package agent_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekyl/twob"
	"github.com/nekyl/twob/agent"
	"github.com/nekyl/twob/mock"
)

// scriptedCompleter returns canned replies in order, capturing requests.
type scriptedCompleter struct {
	replies  []string
	requests []twob.CompletionRequest
}

func (c *scriptedCompleter) completer() *mock.Completer {
	return &mock.Completer{
		CompleteFn: func(_ context.Context, req twob.CompletionRequest) (string, error) {
			c.requests = append(c.requests, req)
			if len(c.replies) == 0 {
				return "", errors.New("no scripted reply left")
			}
			reply := c.replies[0]
			c.replies = c.replies[1:]
			return reply, nil
		},
	}
}

// stubPrompter answers questions and confirmations with fixed values.
type stubPrompter struct {
	answer     string
	answerErr  error
	confirm    string
	confirmErr error
	commands   []string
	questions  []string
}

func (p *stubPrompter) Ask(question string) (string, error) {
	p.questions = append(p.questions, question)
	return p.answer, p.answerErr
}

func (p *stubPrompter) ConfirmCommand(command string) (string, error) {
	p.commands = append(p.commands, command)
	return p.confirm, p.confirmErr
}

func stubEnviron() (string, []string, error) {
	return "/home/nekyl/project", []string{"main.go", "data/"}, nil
}

func decision(tool, input string) string {
	return fmt.Sprintf(`{"thought": "next step", "action": {"tool_name": %q, "tool_input": %q}, "task_finished": false}`, tool, input)
}

const finished = `{"thought": "all done", "action": {}, "task_finished": true}`

func TestRunner_Run(t *testing.T) {
	t.Parallel()

	t.Run("SafeCommandThenFinish", func(t *testing.T) {
		t.Parallel()

		script := &scriptedCompleter{replies: []string{
			decision("shell", "ls -la"),
			finished,
			"All wrapped up! What next?",
		}}
		var executed []string
		r := &agent.Runner{
			Completer: script.completer(),
			Prompter:  &stubPrompter{},
			Environ:   stubEnviron,
			Exec: func(_ context.Context, command string) (string, int, error) {
				executed = append(executed, command)
				return "main.go\ndata\n", 0, nil
			},
		}

		res, err := r.Run(context.Background(), "list the project files", nil)
		require.NoError(t, err)
		assert.Equal(t, []string{"ls -la"}, executed)
		assert.Equal(t, 2, res.Steps)
		assert.Equal(t, "All wrapped up! What next?", res.Closing)
		assert.False(t, res.Cancelled)

		// Step two's prompt must carry the observation from step one.
		require.Len(t, script.requests, 3)
		assert.Contains(t, script.requests[1].Message, "tool: shell, input: ls -la")
		assert.Contains(t, script.requests[1].Message, "Exit code: 0")
		assert.Contains(t, script.requests[1].Message, "/home/nekyl/project")
	})

	t.Run("UnsafeCommandNeedsConfirmation", func(t *testing.T) {
		t.Parallel()

		script := &scriptedCompleter{replies: []string{
			decision("shell", "rm -rf build"),
			finished,
			"done",
		}}
		prompter := &stubPrompter{confirm: "y"}
		ran := false
		r := &agent.Runner{
			Completer: script.completer(),
			Prompter:  prompter,
			Environ:   stubEnviron,
			Exec: func(_ context.Context, _ string) (string, int, error) {
				ran = true
				return "", 0, nil
			},
		}

		_, err := r.Run(context.Background(), "clean the build dir", nil)
		require.NoError(t, err)
		assert.Equal(t, []string{"rm -rf build"}, prompter.commands)
		assert.True(t, ran)
	})

	t.Run("DeclinedCommandCancelsRun", func(t *testing.T) {
		t.Parallel()

		script := &scriptedCompleter{replies: []string{
			decision("shell", "rm -rf /tmp/x"),
		}}
		r := &agent.Runner{
			Completer: script.completer(),
			Prompter:  &stubPrompter{confirm: "n"},
			Environ:   stubEnviron,
			Exec: func(_ context.Context, _ string) (string, int, error) {
				t.Fatal("declined command must not run")
				return "", 0, nil
			},
		}

		res, err := r.Run(context.Background(), "delete temp files", nil)
		require.NoError(t, err)
		assert.True(t, res.Cancelled)
		assert.Empty(t, res.Closing)
	})

	t.Run("RejectionWithNewInstructionFeedsBack", func(t *testing.T) {
		t.Parallel()

		script := &scriptedCompleter{replies: []string{
			decision("shell", "apt install jq"),
			finished,
			"done",
		}}
		r := &agent.Runner{
			Completer: script.completer(),
			Prompter:  &stubPrompter{confirm: "use brew instead"},
			Environ:   stubEnviron,
			Exec: func(_ context.Context, _ string) (string, int, error) {
				t.Fatal("rejected command must not run")
				return "", 0, nil
			},
		}

		res, err := r.Run(context.Background(), "install jq", nil)
		require.NoError(t, err)
		assert.False(t, res.Cancelled)
		require.Len(t, script.requests, 3)
		assert.Contains(t, script.requests[1].Message, `use brew instead`)
	})

	t.Run("AskUser", func(t *testing.T) {
		t.Parallel()

		script := &scriptedCompleter{replies: []string{
			decision("ask_user", "which branch should I use?"),
			finished,
			"done",
		}}
		prompter := &stubPrompter{answer: "main"}
		r := &agent.Runner{
			Completer: script.completer(),
			Prompter:  prompter,
			Environ:   stubEnviron,
		}

		_, err := r.Run(context.Background(), "rebase my work", nil)
		require.NoError(t, err)
		assert.Equal(t, []string{"which branch should I use?"}, prompter.questions)
		assert.Contains(t, script.requests[1].Message, `The user answered: \"main\"`)
	})

	t.Run("SearchObservation", func(t *testing.T) {
		t.Parallel()

		script := &scriptedCompleter{replies: []string{
			decision("search", "ollama install"),
			finished,
			"done",
		}}
		r := &agent.Runner{
			Completer: script.completer(),
			Prompter:  &stubPrompter{},
			Environ:   stubEnviron,
			Tools: agent.Tools{
				Search: func(_ context.Context, query string) (string, error) {
					assert.Equal(t, "ollama install", query)
					return "curl -fsSL https://ollama.com/install.sh | sh", nil
				},
			},
		}

		_, err := r.Run(context.Background(), "install ollama", nil)
		require.NoError(t, err)
		assert.Contains(t, script.requests[1].Message, "install.sh")
	})

	t.Run("RememberDelegates", func(t *testing.T) {
		t.Parallel()

		script := &scriptedCompleter{replies: []string{
			decision("remember_add", "buy milk tomorrow at 10am"),
			finished,
			"done",
		}}
		var saved string
		r := &agent.Runner{
			Completer: script.completer(),
			Prompter:  &stubPrompter{},
			Environ:   stubEnviron,
			Tools: agent.Tools{
				Remember: func(_ context.Context, text string) error {
					saved = text
					return nil
				},
			},
		}

		_, err := r.Run(context.Background(), "remind me to buy milk", nil)
		require.NoError(t, err)
		assert.Equal(t, "buy milk tomorrow at 10am", saved)
	})

	t.Run("UnknownToolBecomesObservation", func(t *testing.T) {
		t.Parallel()

		script := &scriptedCompleter{replies: []string{
			decision("teleport", "somewhere"),
			finished,
			"done",
		}}
		r := &agent.Runner{
			Completer: script.completer(),
			Prompter:  &stubPrompter{},
			Environ:   stubEnviron,
		}

		res, err := r.Run(context.Background(), "do something odd", nil)
		require.NoError(t, err)
		assert.Equal(t, 2, res.Steps)
		assert.Contains(t, script.requests[1].Message, "unknown tool")
	})

	t.Run("MaxStepsStopsLoop", func(t *testing.T) {
		t.Parallel()

		script := &scriptedCompleter{replies: []string{
			decision("shell", "ls"),
			decision("shell", "ls"),
			decision("shell", "ls"),
		}}
		r := &agent.Runner{
			Completer: script.completer(),
			Prompter:  &stubPrompter{},
			Environ:   stubEnviron,
			MaxSteps:  2,
			Exec: func(_ context.Context, _ string) (string, int, error) {
				return "", 0, nil
			},
		}

		res, err := r.Run(context.Background(), "loop forever", nil)
		require.NoError(t, err)
		assert.True(t, res.MaxStepsReached)
		assert.Equal(t, 2, res.Steps)
	})

	t.Run("UnparseableReplyFails", func(t *testing.T) {
		t.Parallel()

		script := &scriptedCompleter{replies: []string{"I would rather chat about the weather."}}
		r := &agent.Runner{
			Completer: script.completer(),
			Prompter:  &stubPrompter{},
			Environ:   stubEnviron,
		}

		_, err := r.Run(context.Background(), "broken plan", nil)
		require.Error(t, err)
		assert.Equal(t, twob.EINTERNAL, twob.ErrorCode(err))
	})

	t.Run("ClosingMessageFallback", func(t *testing.T) {
		t.Parallel()

		calls := 0
		completer := &mock.Completer{
			CompleteFn: func(_ context.Context, _ twob.CompletionRequest) (string, error) {
				calls++
				if calls == 1 {
					return finished, nil
				}
				return "", errors.New("api down")
			},
		}
		r := &agent.Runner{
			Completer: completer,
			Prompter:  &stubPrompter{},
			Environ:   stubEnviron,
		}

		res, err := r.Run(context.Background(), "finish immediately", nil)
		require.NoError(t, err)
		assert.Equal(t, "Task complete! Anything else I can help with?", res.Closing)
	})

	t.Run("EmptyRequest", func(t *testing.T) {
		t.Parallel()

		r := &agent.Runner{
			Completer: &mock.Completer{},
			Prompter:  &stubPrompter{},
		}
		_, err := r.Run(context.Background(), "  ", nil)
		require.Error(t, err)
		assert.Equal(t, twob.EINVALID, twob.ErrorCode(err))
	})

	t.Run("EventsReported", func(t *testing.T) {
		t.Parallel()

		script := &scriptedCompleter{replies: []string{
			decision("shell", "cat notes.txt"),
			finished,
			"done",
		}}
		r := &agent.Runner{
			Completer: script.completer(),
			Prompter:  &stubPrompter{},
			Environ:   stubEnviron,
			Exec: func(_ context.Context, _ string) (string, int, error) {
				return "hello", 0, nil
			},
		}

		var events []agent.Event
		_, err := r.Run(context.Background(), "read my notes", func(e agent.Event) {
			events = append(events, e)
		})
		require.NoError(t, err)

		types := make([]agent.EventType, 0, len(events))
		for _, e := range events {
			types = append(types, e.Type)
		}
		assert.Contains(t, types, agent.EventThought)
		assert.Contains(t, types, agent.EventAutoCommand)
		assert.Contains(t, types, agent.EventCommandOutput)
	})
}

func TestRunner_ShellTimeout(t *testing.T) {
	t.Parallel()

	script := &scriptedCompleter{replies: []string{
		decision("shell", "ls"),
		finished,
		"done",
	}}
	r := &agent.Runner{
		Completer:   script.completer(),
		Prompter:    &stubPrompter{},
		Environ:     stubEnviron,
		StepTimeout: 10 * time.Millisecond,
		Exec: func(ctx context.Context, _ string) (string, int, error) {
			<-ctx.Done()
			return "", -1, nil
		},
	}

	_, err := r.Run(context.Background(), "slow command", nil)
	require.NoError(t, err)
	assert.Contains(t, script.requests[1].Message, "timeout expired")
}

func TestRunner_OutputTruncation(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("a", 600) + strings.Repeat("z", 600)
	script := &scriptedCompleter{replies: []string{
		decision("shell", "cat big.log"),
		finished,
		"done",
	}}
	r := &agent.Runner{
		Completer: script.completer(),
		Prompter:  &stubPrompter{},
		Environ:   stubEnviron,
		Exec: func(_ context.Context, _ string) (string, int, error) {
			return long, 0, nil
		},
	}

	_, err := r.Run(context.Background(), "read the log", nil)
	require.NoError(t, err)
	prompt := script.requests[1].Message
	assert.Contains(t, prompt, "(output truncated)")
	assert.NotContains(t, prompt, long)
	assert.Contains(t, prompt, strings.Repeat("a", 400))
	assert.Contains(t, prompt, strings.Repeat("z", 400))
}
