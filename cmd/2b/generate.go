package main

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/nekyl/twob"
)

var (
	codeFenceOpen  = regexp.MustCompile("(?m)^```[\\w\\s]*\n")
	codeFenceClose = regexp.MustCompile("\n```\\s*$")
)

// Run executes the generate command.
func (c *GenerateCmd) Run(deps *Dependencies) error {
	_ = deps.History.AddEntry(deps.Ctx, twob.RoleSystemEvent, fmt.Sprintf("Generate command invoked. Query: %q, Lang: %q, Input: %q, Output: %q", c.Query, c.Lang, c.InputFile, c.Output))

	var contextPart string
	if c.InputFile != "" {
		content, err := os.ReadFile(c.InputFile)
		if err != nil {
			msg := fmt.Sprintf("Input file %q not found. 💔", c.InputFile)
			deps.Printer.Error("%s", msg)
			_ = deps.History.AddEntry(deps.Ctx, twob.RoleAssistant, msg)
			return twob.Errorf(twob.ENOTFOUND, "input file %q not readable", c.InputFile)
		}
		name := filepath.Base(c.InputFile)
		deps.Printer.Panel("📎 Context from "+name, string(content))
		contextPart = fmt.Sprintf("Consider the following content of the file %q as the main context:\n```\n%s\n```\n\n", name, content)
	}

	lang := c.Lang
	if lang == "" {
		lang = "bash/shell script"
	}
	prompt := contextPart + fmt.Sprintf("Generate a script, code snippet, or configuration file. "+
		"Language/Type: %s. Goal: %q. "+
		"Include comments explaining the important parts and, when applicable, a short example of how "+
		"to use or run it. Format the main output ONLY as a raw code block, with no explanatory text "+
		"outside the code, and without the ``` delimiters or language tag.", lang, c.Query)

	_ = deps.History.AddEntry(deps.Ctx, twob.RoleUser, clip("Generate: "+prompt, 200))

	reply, err := deps.Completer.Complete(deps.Ctx, twob.CompletionRequest{
		Message:        prompt,
		IncludeHistory: true,
	})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", twob.ErrorMessage(err))
		return err
	}

	code := stripCodeFences(reply)
	display := c.Lang
	if display == "" {
		display = "bash"
	}
	deps.Printer.Assistant(fmt.Sprintf("```%s\n%s\n```", display, code))
	_ = deps.History.AddEntry(deps.Ctx, twob.RoleAssistant, code)

	if c.Output != "" {
		if err := os.WriteFile(c.Output, []byte(code+"\n"), 0644); err != nil {
			deps.Printer.Error("could not save the file to %q: %s", c.Output, err)
			_ = deps.History.AddEntry(deps.Ctx, twob.RoleSystemEvent, fmt.Sprintf("Failed to save generated code to %s: %s.", c.Output, err))
			return fmt.Errorf("save generated code: %w", err)
		}
		deps.Printer.Success("code saved to %q! 💾", c.Output)
		_ = deps.History.AddEntry(deps.Ctx, twob.RoleSystemEvent, fmt.Sprintf("Generated code saved to %s.", c.Output))
	}
	return nil
}

// stripCodeFences removes markdown code-block delimiters the model adds
// despite being told not to.
func stripCodeFences(s string) string {
	s = codeFenceOpen.ReplaceAllString(s, "")
	s = codeFenceClose.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}
