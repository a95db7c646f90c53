package gemini

import (
	"context"
	"encoding/json"

	"github.com/nekyl/twob"
)

var _ twob.Dispatcher = (*Dispatcher)(nil)

const dispatcherPrompt = `You are an AI routing agent. Your only job is to analyze the user's request and decide which internal tool should handle it. Respond ONLY with a JSON object.
The available tools are:
- "do": for tasks that involve multiple steps, the filesystem, or running terminal commands. (e.g. "install figlet", "list the files and then delete the .tmp ones")
- "search": for questions that need up-to-date knowledge, opinions, or comparisons. (e.g. "what is the capital of Australia?", "best laptop for programming")
- "remember_add": when the user asks to be reminded of something. (e.g. "remind me to buy milk tomorrow")
- "generate": when the user asks for a script, code snippet, or configuration. (e.g. "write a python script to rename files")
- "explain": when the user asks to explain a command, an error, or some code. (e.g. "what does 'ls -l' do?")
- "chat": the default for anything that fits none of the above, like greetings and general conversation. (e.g. "good morning", "how are you?")
The output JSON object MUST have this structure: {"tool_name": "name_of_the_tool", "tool_input": "the input for the tool"}`

// Dispatcher routes free-form requests to tools using a model call.
type Dispatcher struct {
	completer twob.Completer
}

// NewDispatcher creates a new Dispatcher on top of the given completer.
func NewDispatcher(completer twob.Completer) *Dispatcher {
	return &Dispatcher{completer: completer}
}

// Dispatch classifies the query. Malformed or unrecognized model output
// falls back to a chat decision carrying the original query; an error is
// returned only when the model call itself fails.
func (d *Dispatcher) Dispatch(ctx context.Context, query string) (twob.Decision, error) {
	if query == "" {
		return twob.Decision{}, twob.Errorf(twob.EINVALID, "query required")
	}

	reply, err := d.completer.Complete(ctx, twob.CompletionRequest{
		Message:      query,
		SystemPrompt: dispatcherPrompt,
	})
	if err != nil {
		return twob.Decision{}, err
	}

	chat := twob.Decision{Intent: twob.IntentChat, Input: query}

	raw, ok := firstJSONObject(reply)
	if !ok {
		return chat, nil
	}

	var decision twob.Decision
	if err := json.Unmarshal([]byte(raw), &decision); err != nil {
		return chat, nil
	}
	if !decision.Intent.Valid() {
		return chat, nil
	}
	if decision.Input == "" {
		decision.Input = query
	}
	return decision, nil
}
