package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/nekyl/twob"
)

// Run executes the chat command.
func (c *ChatCmd) Run(deps *Dependencies) error {
	if len(c.Query) > 0 {
		return chatOnce(deps, strings.Join(c.Query, " "))
	}
	return chatLoop(deps, true)
}

func chatOnce(deps *Dependencies, message string) error {
	_ = deps.History.AddEntry(deps.Ctx, twob.RoleUser, message)

	reply, err := deps.Completer.Complete(deps.Ctx, twob.CompletionRequest{
		Message:        message,
		IncludeHistory: true,
	})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", twob.ErrorMessage(err))
		return err
	}
	deps.Printer.Assistant(reply)
	_ = deps.History.AddEntry(deps.Ctx, twob.RoleAssistant, reply)
	return nil
}

// chatLoop reads messages until "sair"/"exit" or EOF. greetFirst prints
// the opening line for a fresh `2b chat` session.
func chatLoop(deps *Dependencies, greetFirst bool) error {
	user := mustGet(deps.Ctx, deps.Settings, twob.SettingUser)
	if user == "" {
		user = twob.DefaultUserName
	}
	if greetFirst {
		opening := fmt.Sprintf("Hiii! What do you want to talk about, %s? Type 'sair' or 'exit' to finish.", user)
		deps.Printer.Panel("💬 Chat", opening)
		_ = deps.History.AddEntry(deps.Ctx, twob.RoleAssistant, opening)
	}

	scanner := bufio.NewScanner(deps.Stdin)
	for {
		fmt.Fprintf(deps.Stdout, "\nYou: ")
		if !scanner.Scan() {
			_ = deps.History.AddEntry(deps.Ctx, twob.RoleSystemEvent, "Interactive chat ended (input closed).")
			return scanner.Err()
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if lower := strings.ToLower(input); lower == "sair" || lower == "exit" {
			deps.Printer.Info("See you! Call me anytime.")
			_ = deps.History.AddEntry(deps.Ctx, twob.RoleSystemEvent, "Interactive chat ended ('sair'/'exit').")
			return nil
		}
		if err := chatOnce(deps, input); err != nil {
			return err
		}
	}
}
