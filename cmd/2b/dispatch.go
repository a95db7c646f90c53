package main

import (
	"fmt"
	"strings"

	"github.com/nekyl/twob"
)

// runDispatch routes free-form input: the dispatcher picks a tool and the
// corresponding command runs with the extracted input. Anything the model
// cannot classify becomes a chat message.
func runDispatch(deps *Dependencies, query string) error {
	decision, err := deps.Dispatcher.Dispatch(deps.Ctx, query)
	if err != nil {
		deps.Printer.Warning("I could not decide what to do. Let's talk about it instead?")
		return chatOnce(deps, query)
	}

	// chatOnce records its own user turn; the other tools record the raw
	// request here so history shows what triggered them.
	if decision.Intent != twob.IntentChat {
		_ = deps.History.AddEntry(deps.Ctx, twob.RoleUser, query)
	}
	_ = deps.History.AddEntry(deps.Ctx, twob.RoleSystemEvent, fmt.Sprintf("Dispatcher chose tool %q with input: %q", decision.Intent, clip(decision.Input, 50)))

	switch decision.Intent {
	case twob.IntentDo:
		cmd := &DoCmd{Query: strings.Fields(decision.Input), Timeout: 300, MaxSteps: 20}
		return cmd.Run(deps)
	case twob.IntentSearch:
		cmd := &SearchCmd{Query: strings.Fields(decision.Input)}
		return cmd.Run(deps)
	case twob.IntentRemember:
		cmd := &RememberAddCmd{Text: decision.Input}
		return cmd.Run(deps)
	case twob.IntentGenerate:
		cmd := &GenerateCmd{Query: decision.Input}
		return cmd.Run(deps)
	case twob.IntentExplain:
		cmd := &ExplainCmd{Query: decision.Input}
		return cmd.Run(deps)
	default:
		return chatOnce(deps, query)
	}
}
