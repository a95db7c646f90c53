package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/alecthomas/kong"

	"github.com/nekyl/twob"
	"github.com/nekyl/twob/agent"
	"github.com/nekyl/twob/cron"
	"github.com/nekyl/twob/search"
	"github.com/nekyl/twob/tui"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx     context.Context
	Stdout  io.Writer
	Stderr  io.Writer
	Stdin   io.Reader
	Printer *tui.Printer
	Logger  *slog.Logger

	Reminders   twob.ReminderService
	History     twob.HistoryService
	Settings    twob.SettingsService
	Credentials twob.CredentialStore
	Completer   twob.Completer
	Dispatcher  twob.Dispatcher
	Parser      twob.ReminderParser
	Searcher    *search.Searcher
	Runner      *agent.Runner
	Watcher     *cron.Watcher

	// Now is the clock for scheduling decisions. Tests pin it.
	Now func() time.Time
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Do       DoCmd       `cmd:"" aliases:"d" help:"Run a task step by step in the terminal"`
	Search   SearchCmd   `cmd:"" aliases:"s" help:"Search the web and synthesize an answer"`
	Explain  ExplainCmd  `cmd:"" aliases:"ex" help:"Explain a command, error, or file"`
	Generate GenerateCmd `cmd:"" aliases:"gen" help:"Generate code, scripts, or configuration"`
	Chat     ChatCmd     `cmd:"" aliases:"c" help:"Chat interactively or ask a one-off question"`
	Remember RememberCmd `cmd:"" aliases:"rem" help:"Manage reminders"`
	Greet    GreetCmd    `cmd:"" aliases:"hi" help:"Print a greeting with pending reminders"`
	Config   ConfigCmd   `cmd:"" help:"Configure the assistant (api_key, user, personality)"`

	Version kong.VersionFlag `short:"v" help:"Show the program version"`
}

// DoCmd is the "do" subcommand.
type DoCmd struct {
	Query    []string `arg:"" help:"The task to work on"`
	Timeout  int      `default:"300" help:"Timeout per step in seconds"`
	MaxSteps int      `name:"max-steps" default:"20" help:"Maximum number of agent steps"`
}

// SearchCmd is the "search" subcommand.
type SearchCmd struct {
	Query []string `arg:"" help:"What to search for"`
	Debug bool     `help:"Log pipeline internals to stderr"`
}

// ExplainCmd is the "explain" subcommand.
type ExplainCmd struct {
	Query    string `arg:"" optional:"" help:"The command, error, or question about the file"`
	FromFile string `short:"f" name:"from-file" help:"Path of a file to explain"`
}

// GenerateCmd is the "generate" subcommand.
type GenerateCmd struct {
	Query     string `arg:"" help:"Description of what to generate"`
	Lang      string `short:"l" help:"Language or type (e.g. python, bash)"`
	Output    string `short:"o" help:"File to save the generated code to"`
	InputFile string `short:"i" name:"input-file" help:"Input file used as context"`
}

// ChatCmd is the "chat" subcommand.
type ChatCmd struct {
	Query []string `arg:"" optional:"" help:"Question (omit for an interactive chat)"`
}

// GreetCmd is the "greet" subcommand.
type GreetCmd struct{}

// RememberCmd groups the reminder subcommands.
type RememberCmd struct {
	Add   RememberAddCmd   `cmd:"" help:"Add a reminder"`
	Ls    RememberLsCmd    `cmd:"" help:"List reminders"`
	Done  RememberDoneCmd  `cmd:"" help:"Mark a reminder as done"`
	Rm    RememberRmCmd    `cmd:"" help:"Delete reminders by ID, 'all', or 'done'"`
	Watch RememberWatchCmd `cmd:"" help:"Run the due-reminder notifier in the foreground"`
}

// RememberAddCmd is "remember add".
type RememberAddCmd struct {
	Text string `arg:"" help:"Reminder text"`
}

// RememberLsCmd is "remember ls".
type RememberLsCmd struct {
	All bool `help:"Include completed reminders"`
}

// RememberDoneCmd is "remember done".
type RememberDoneCmd struct {
	ID int `arg:"" help:"Reminder ID"`
}

// RememberRmCmd is "remember rm".
type RememberRmCmd struct {
	Target string `arg:"" name:"id" help:"Reminder ID, 'all', or 'done'"`
}

// RememberWatchCmd is "remember watch".
type RememberWatchCmd struct{}

// ConfigCmd is the "config" subcommand.
type ConfigCmd struct {
	Key   string `arg:"" optional:"" help:"Setting key (api_key, personality, user)"`
	Value string `arg:"" optional:"" help:"Value for the setting"`
}
