package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/nekyl/twob"
)

// Run executes the explain command.
func (c *ExplainCmd) Run(deps *Dependencies) error {
	_ = deps.History.AddEntry(deps.Ctx, twob.RoleSystemEvent, fmt.Sprintf("Explain command invoked. Query: %q, File: %q", c.Query, c.FromFile))

	var prompt string
	switch {
	case c.FromFile != "":
		content, err := os.ReadFile(c.FromFile)
		if err != nil {
			msg := fmt.Sprintf("Oh no, I could not read the file %q: %s", c.FromFile, err)
			deps.Printer.Error("%s", msg)
			_ = deps.History.AddEntry(deps.Ctx, twob.RoleAssistant, msg)
			return twob.Errorf(twob.ENOTFOUND, "file %q not readable", c.FromFile)
		}
		name := filepath.Base(c.FromFile)
		deps.Printer.Panel("📄 "+name, string(content))

		question := c.Query
		if question == "" {
			question = "the overall purpose and behavior of the file"
		}
		prompt = fmt.Sprintf("Based on the content of the file %q below, answer the following question "+
			"or explain the following aspect: %q.\n\nFile content:\n```\n%s\n```\n\n"+
			"Give a clear, concise, useful explanation.", name, question, content)

	case c.Query != "":
		prompt = fmt.Sprintf("Explain the following terminal command or error message clearly and concisely "+
			"for a technology enthusiast. If it is a command, explain what it does, its main flags (when "+
			"present in the example), and a common use case. If it is an error, explain the probable cause "+
			"and likely fixes.\n\nCommand/Error: %q", c.Query)

	default:
		msg := "Tell me what to explain. Use '2b explain \"your command\"' or '2b explain -f your_file.sh'. ✨"
		deps.Printer.Warning("%s", msg)
		_ = deps.History.AddEntry(deps.Ctx, twob.RoleAssistant, msg)
		return twob.Errorf(twob.EINVALID, "nothing to explain")
	}

	_ = deps.History.AddEntry(deps.Ctx, twob.RoleUser, clip("Explain: "+prompt, 200))

	reply, err := deps.Completer.Complete(deps.Ctx, twob.CompletionRequest{
		Message:        prompt,
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

// clip shortens history previews of long prompts.
func clip(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
