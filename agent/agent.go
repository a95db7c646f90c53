// Package agent implements the step-by-step task loop behind the do
// command. The model plans one action at a time, each action produces an
// observation, and the accumulated step log feeds the next planning call.
package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/nekyl/twob"
)

// Tool names the model may choose from.
const (
	ToolShell    = "shell"
	ToolSearch   = "search"
	ToolGenerate = "generate"
	ToolExplain  = "explain"
	ToolRemember = "remember_add"
	ToolAskUser  = "ask_user"
)

// Context budget for a single planning call. The response buffer is held
// back so the model has room to answer.
const (
	contextLimit   = 262144
	responseBuffer = contextLimit * 8 / 100
)

// DefaultMaxSteps bounds the loop when the caller does not set a limit.
const DefaultMaxSteps = 15

// DefaultStepTimeout bounds a single shell command.
const DefaultStepTimeout = 300 * time.Second

// Decision is one planning step returned by the model.
type Decision struct {
	Thought string `json:"thought"`
	Action  Action `json:"action"`
	// TaskFinished signals that the goal has been reached and no action
	// should run.
	TaskFinished bool `json:"task_finished"`
}

// Action is the tool invocation part of a decision.
type Action struct {
	ToolName  string `json:"tool_name"`
	ToolInput string `json:"tool_input"`
}

// Record is one entry in the step log sent back to the model.
type Record struct {
	Step        int    `json:"step"`
	Action      string `json:"action"`
	Observation string `json:"observation"`
}

// Prompter asks the operator questions during a run.
type Prompter interface {
	// Ask relays a question from the model and returns the answer.
	Ask(question string) (string, error)

	// ConfirmCommand shows a proposed shell command and returns the raw
	// answer. "y"/"yes" approves, "n"/"no"/empty declines, any other
	// answer is treated as a replacement instruction for the model.
	ConfirmCommand(command string) (string, error)
}

// Tools are the delegated capabilities the loop can reach for. Search
// returns the summary that becomes the observation; the others render
// their output directly and only report completion.
type Tools struct {
	Search   func(ctx context.Context, query string) (string, error)
	Generate func(ctx context.Context, query string) error
	Explain  func(ctx context.Context, query string) error
	Remember func(ctx context.Context, text string) error
}

// EventType classifies runner progress events.
type EventType string

const (
	// EventThought carries the model's reasoning for the current step.
	EventThought EventType = "thought"

	// EventAutoCommand announces a read-only command about to run without
	// confirmation.
	EventAutoCommand EventType = "auto_command"

	// EventCommandOutput carries the full output of a shell command.
	EventCommandOutput EventType = "command_output"

	// EventHistoryTrimmed reports that older steps were dropped from the
	// planning prompt to fit the context budget.
	EventHistoryTrimmed EventType = "history_trimmed"

	// EventToolCall announces a delegated tool invocation.
	EventToolCall EventType = "tool_call"
)

// Event is a progress notification during a run.
type Event struct {
	Type EventType
	Step int
	Text string
}

// EventFunc receives progress events. May be nil.
type EventFunc func(event Event)

// Result reports how a run ended.
type Result struct {
	// Steps is how many planning steps ran.
	Steps int

	// Closing is the wrap-up message after task_finished, empty when the
	// run ended another way.
	Closing string

	// Cancelled is set when the operator declined an action or
	// interrupted a question.
	Cancelled bool

	// MaxStepsReached is set when the loop hit the step limit before the
	// model declared the task finished.
	MaxStepsReached bool
}

// Runner drives the agent loop.
type Runner struct {
	Completer twob.Completer
	Tokens    twob.TokenCounter
	Settings  twob.SettingsService
	History   twob.HistoryService
	Prompter  Prompter
	Tools     Tools

	// Exec runs a shell command and returns its combined output and exit
	// code. Defaults to running through the system shell.
	Exec ExecFunc

	// Environ supplies the initial working-directory observation.
	// Defaults to the real process environment.
	Environ func() (dir string, entries []string, err error)

	MaxSteps    int
	StepTimeout time.Duration
}

// Run works toward the request until the model declares it finished, the
// operator cancels, or the step limit is hit.
func (r *Runner) Run(ctx context.Context, request string, events EventFunc) (*Result, error) {
	request = strings.TrimSpace(request)
	if request == "" {
		return nil, twob.Errorf(twob.EINVALID, "task required")
	}
	if r.Completer == nil || r.Prompter == nil {
		return nil, twob.Errorf(twob.EINTERNAL, "agent runner not fully configured")
	}
	maxSteps := r.MaxSteps
	if maxSteps <= 0 {
		maxSteps = DefaultMaxSteps
	}
	if events == nil {
		events = func(Event) {}
	}
	if r.History != nil {
		_ = r.History.AddEntry(ctx, twob.RoleUser, fmt.Sprintf("Run task: %s", request))
	}

	user := r.userName(ctx)
	systemPrompt := agentSystemPrompt(user)

	log := []Record{}
	if rec, ok := r.initialContext(); ok {
		log = append(log, rec)
	}

	res := &Result{}
	for res.Steps < maxSteps {
		res.Steps++

		prompt, trimmed := r.buildPrompt(ctx, user, request, log)
		if trimmed > 0 {
			events(Event{Type: EventHistoryTrimmed, Step: res.Steps,
				Text: fmt.Sprintf("dropped %d earlier steps to fit the planning context", trimmed)})
		}
		raw, err := r.Completer.Complete(ctx, twob.CompletionRequest{
			Message:      prompt,
			SystemPrompt: systemPrompt,
		})
		if err != nil {
			return res, fmt.Errorf("plan step %d: %w", res.Steps, err)
		}

		decision, err := parseDecision(raw)
		if err != nil {
			return res, twob.Errorf(twob.EINTERNAL, "unusable plan from the model: %s", err)
		}
		if decision.Thought != "" {
			events(Event{Type: EventThought, Step: res.Steps, Text: decision.Thought})
		}

		if decision.TaskFinished {
			res.Closing = r.closingMessage(ctx, user, request, log)
			return res, nil
		}

		tool := decision.Action.ToolName
		input := strings.TrimSpace(decision.Action.ToolInput)
		if tool == "" || tool == "None" {
			return res, twob.Errorf(twob.EINTERNAL, "the model proposed no next tool")
		}

		observation, cancelled := r.runTool(ctx, res.Steps, tool, input, events)
		if cancelled {
			res.Cancelled = true
			if r.History != nil {
				_ = r.History.AddEntry(ctx, twob.RoleSystemEvent, fmt.Sprintf("Task %q cancelled by the user.", request))
			}
			return res, nil
		}
		log = append(log, Record{
			Step:        res.Steps,
			Action:      fmt.Sprintf("tool: %s, input: %s", tool, input),
			Observation: observation,
		})
	}
	res.MaxStepsReached = true
	return res, nil
}

// runTool executes one action and returns the observation for the step
// log. cancelled means the operator stopped the run.
func (r *Runner) runTool(ctx context.Context, step int, tool, input string, events EventFunc) (observation string, cancelled bool) {
	switch tool {
	case ToolAskUser:
		answer, err := r.Prompter.Ask(input)
		if err != nil {
			return "The user cancelled the question.", true
		}
		return fmt.Sprintf("The user answered: %q", answer), false

	case ToolSearch:
		events(Event{Type: EventToolCall, Step: step, Text: "searching the web for " + input})
		if r.Tools.Search == nil {
			return "ERROR: the search tool is not available in this session.", false
		}
		summary, err := r.Tools.Search(ctx, input)
		if err != nil || summary == "" {
			return fmt.Sprintf("Search for %q found nothing usable.", input), false
		}
		return fmt.Sprintf("Search result for %q: %s", input, summary), false

	case ToolRemember:
		events(Event{Type: EventToolCall, Step: step, Text: "adding a reminder"})
		if r.Tools.Remember == nil {
			return "ERROR: the reminder tool is not available in this session.", false
		}
		if err := r.Tools.Remember(ctx, input); err != nil {
			return fmt.Sprintf("ERROR: could not save the reminder: %s", err), false
		}
		return fmt.Sprintf("The reminder %q was saved and shown to the user.", input), false

	case ToolGenerate:
		events(Event{Type: EventToolCall, Step: step, Text: "generating code"})
		if r.Tools.Generate == nil {
			return "ERROR: the generate tool is not available in this session.", false
		}
		if err := r.Tools.Generate(ctx, input); err != nil {
			return fmt.Sprintf("ERROR: code generation failed: %s", err), false
		}
		return fmt.Sprintf("Code for %q was generated and shown to the user.", input), false

	case ToolExplain:
		events(Event{Type: EventToolCall, Step: step, Text: "writing an explanation"})
		if r.Tools.Explain == nil {
			return "ERROR: the explain tool is not available in this session.", false
		}
		if err := r.Tools.Explain(ctx, input); err != nil {
			return fmt.Sprintf("ERROR: explanation failed: %s", err), false
		}
		return fmt.Sprintf("An explanation of %q was shown to the user.", input), false

	case ToolShell:
		return r.runShell(ctx, step, input, events)

	default:
		return fmt.Sprintf("ERROR: the model asked for an unknown tool: %q.", tool), false
	}
}

func (r *Runner) userName(ctx context.Context) string {
	user := twob.DefaultUserName
	if r.Settings != nil {
		if name, err := r.Settings.Get(ctx, twob.SettingUser); err == nil && name != "" {
			user = name
		}
	}
	return user
}

// buildPrompt assembles the planning prompt, keeping as many recent steps
// as fit the token budget. Returns how many older steps were dropped.
func (r *Runner) buildPrompt(ctx context.Context, user, request string, log []Record) (string, int) {
	header := fmt.Sprintf("%s's final goal: %q\n\nActions and observations so far:\n", user, request)
	footer := "\n\nGiven the goal and the history, what is the next step? Think carefully and answer in JSON."

	budget := contextLimit - responseBuffer
	budget -= r.countTokens(ctx, header+footer)
	budget -= r.countTokens(ctx, agentSystemPrompt(user))

	kept := make([]Record, 0, len(log))
	used := 0
	dropped := 0
	for i := len(log) - 1; i >= 0; i-- {
		b, err := json.Marshal(log[i])
		if err != nil {
			continue
		}
		cost := r.countTokens(ctx, string(b))
		if used+cost > budget {
			dropped = i + 1
			break
		}
		kept = append([]Record{log[i]}, kept...)
		used += cost
	}

	body, err := json.MarshalIndent(kept, "", "  ")
	if err != nil {
		body = []byte("[]")
	}
	return header + string(body) + footer, dropped
}

func (r *Runner) countTokens(ctx context.Context, text string) int {
	if r.Tokens != nil {
		if n, err := r.Tokens.CountTokens(ctx, text); err == nil {
			return n
		}
	}
	return len(text) / 4
}

// initialContext records the working directory and its entries as step
// zero so the model starts with a picture of the environment.
func (r *Runner) initialContext() (Record, bool) {
	environ := r.Environ
	if environ == nil {
		environ = readEnviron
	}
	dir, entries, err := environ()
	if err != nil {
		return Record{}, false
	}
	return Record{
		Step:   0,
		Action: "initial_context",
		Observation: fmt.Sprintf("Current environment:\n- Directory: %s\n- Files: %s",
			dir, strings.Join(entries, "  ")),
	}, true
}

// closingMessage asks the model for a wrap-up based on the full step log.
// Falls back to a fixed line when the call fails.
func (r *Runner) closingMessage(ctx context.Context, user, request string, log []Record) string {
	history, err := json.MarshalIndent(log, "", "  ")
	if err != nil {
		history = []byte("[]")
	}
	system := fmt.Sprintf("You are 2B. The task you were running for %s has just completed successfully. "+
		"Write a short, friendly closing message in your own voice, and if the task history suggests an "+
		"obvious useful next step, offer it. End by asking %s what they would like to do now.", user, user)
	prompt := fmt.Sprintf("The task %q is complete. Here is the full log of what was done:\n%s\n"+
		"Please write the closing message for %s.", request, history, user)

	msg, err := r.Completer.Complete(ctx, twob.CompletionRequest{
		Message:      prompt,
		SystemPrompt: system,
	})
	if err != nil || strings.TrimSpace(msg) == "" {
		return "Task complete! Anything else I can help with?"
	}
	return msg
}

// parseDecision extracts the first JSON object from the model's reply.
func parseDecision(raw string) (Decision, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end <= start {
		return Decision{}, fmt.Errorf("no JSON object in reply")
	}
	var d Decision
	if err := json.Unmarshal([]byte(raw[start:end+1]), &d); err != nil {
		return Decision{}, fmt.Errorf("decode decision: %w", err)
	}
	return d, nil
}
