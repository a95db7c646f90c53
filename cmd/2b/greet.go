package main

import (
	"fmt"
	"strings"

	"github.com/nekyl/twob"
)

// Run executes the greet command.
func (c *GreetCmd) Run(deps *Dependencies) error {
	_ = deps.History.AddEntry(deps.Ctx, twob.RoleSystemEvent, "Greet command invoked.")

	notDone := false
	reminders, err := deps.Reminders.FindReminders(deps.Ctx, twob.ReminderFilter{Done: &notDone})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", twob.ErrorMessage(err))
		return err
	}

	now := deps.Now()
	pending := make([]string, 0, len(reminders))
	for _, r := range reminders {
		line := r.Task
		if r.NotifyAt != nil {
			if r.NotifyAt.Before(now) {
				line += fmt.Sprintf(" (was due %s)", r.NotifyAt.Format("02/01 15:04"))
			} else {
				line += fmt.Sprintf(" (due %s)", r.NotifyAt.Format("02/01 15:04"))
			}
		}
		pending = append(pending, line)
	}

	prompt := "Write a short, friendly greeting for the terminal. Include an emoji."
	if len(pending) > 0 {
		prompt += fmt.Sprintf(" Subtly mention these pending reminders: %q.", strings.Join(pending, "; "))
	} else {
		prompt += " There are no pending reminders."
	}

	// No wired model (no API key) degrades to the canned greeting so shell
	// startup files can run greet unconditionally.
	greeting := ""
	if deps.Completer != nil {
		reply, err := deps.Completer.Complete(deps.Ctx, twob.CompletionRequest{Message: prompt})
		if err == nil {
			greeting = strings.TrimSpace(reply)
		}
	}
	if greeting == "" {
		greeting = fallbackGreeting(mustGet(deps.Ctx, deps.Settings, twob.SettingPersonality))
		deps.Printer.Assistant(greeting)
		_ = deps.History.AddEntry(deps.Ctx, twob.RoleAssistant, "(Fallback greeting: " + greeting + ")")
	} else {
		deps.Printer.Assistant(greeting)
		_ = deps.History.AddEntry(deps.Ctx, twob.RoleAssistant, "(Generated greeting: " + greeting + ")")
	}

	if len(pending) > 0 {
		deps.Printer.Panel(fmt.Sprintf("⏳ Pending Reminders (%d)", len(pending)), "• "+strings.Join(pending, "\n• "))
	}
	return nil
}

// fallbackGreeting is used when the API is unreachable.
func fallbackGreeting(personality string) string {
	switch personality {
	case "fofa":
		return "Hi there, my dear! How can I pamper you today?"
	case "hacker":
		return "System online. Awaiting commands. Hacker mode engaged."
	default:
		return "Hi! Ready to help."
	}
}
