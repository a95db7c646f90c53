package main

import (
	"fmt"
	"strings"

	"github.com/nekyl/twob"
	"github.com/nekyl/twob/search"
)

// Run executes the search command.
func (c *SearchCmd) Run(deps *Dependencies) error {
	query := strings.Join(c.Query, " ")

	_ = deps.History.AddEntry(deps.Ctx, twob.RoleUser, "Search: " + query)

	answer, err := deps.Searcher.Search(deps.Ctx, query, search.ModeUser, func(e search.ProgressEvent) {
		switch e.Type {
		case search.ProgressEngineFailed:
			deps.Printer.Info("%s came up empty, trying the next engine...", e.Engine)
		case search.ProgressRanked:
			deps.Printer.Info("picked the %d most promising results", e.Total)
		case search.ProgressPageFetched:
			deps.Printer.Info("read page %d/%d", e.Completed, e.Total)
		case search.ProgressPageFailed:
			deps.Printer.Info("skipping %s (%v)", e.URL, e.Error)
		case search.ProgressSynthesizing:
			deps.Printer.Info("synthesizing the answer...")
		}
	})
	if err != nil {
		msg := fmt.Sprintf("Sorry, I could not find anything about %q... 😔", query)
		if twob.ErrorCode(err) == twob.EUNAVAILABLE || twob.ErrorCode(err) == twob.ENOTFOUND {
			deps.Printer.Error("%s", msg)
			_ = deps.History.AddEntry(deps.Ctx, twob.RoleAssistant, msg)
		} else {
			fmt.Fprintf(deps.Stderr, "error: %s\n", twob.ErrorMessage(err))
		}
		return err
	}

	if answer.Community {
		deps.Printer.Info("looks like you want opinions; community mode on 🧐")
	}

	deps.Printer.Assistant(answer.Summary)
	deps.Printer.Panel("📚 Sources", twob.FormatSources(answer.Pages))
	deps.Printer.Info("done in %.1fs via %s", answer.Duration.Seconds(), answer.Engine)

	_ = deps.History.AddEntry(deps.Ctx, twob.RoleAssistant, answer.Summary)
	return nil
}
