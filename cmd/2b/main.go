package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"google.golang.org/genai"

	"github.com/nekyl/twob"
	"github.com/nekyl/twob/agent"
	"github.com/nekyl/twob/beeep"
	"github.com/nekyl/twob/cron"
	"github.com/nekyl/twob/gemini"
	"github.com/nekyl/twob/goquery"
	"github.com/nekyl/twob/htmltomarkdown"
	twobhttp "github.com/nekyl/twob/http"
	"github.com/nekyl/twob/keyring"
	"github.com/nekyl/twob/search"
	twobslog "github.com/nekyl/twob/slog"
	"github.com/nekyl/twob/sqlite"
	"github.com/nekyl/twob/trafilatura"
	"github.com/nekyl/twob/tui"
)

// Version is the program version reported by --version.
const Version = "2.0.0"

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path. Set before calling Run().
	DBPath string

	// Stdin for interactive prompts. Defaults to os.Stdin.
	Stdin io.Reader

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB

	// Services for end-to-end testing.
	Reminders twob.ReminderService
	History   twob.HistoryService
	Settings  twob.SettingsService
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	loadEnvFile()
	return &Main{
		DBPath: defaultDBPath(),
		Stdin:  os.Stdin,
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
		Stdin:  m.Stdin,
		Now:    time.Now,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("2b"),
		kong.Description("2B: your personal AI assistant in the terminal."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Vars{"version": "2b " + Version},
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		args = []string{"greet"}
	}
	if args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	// Anything that is not a known command or flag is free text for the
	// dispatcher: `2b "remind me to buy bread tomorrow"` just works.
	freeText := ""
	if !isKnownCommand(args[0]) && !strings.HasPrefix(args[0], "-") {
		freeText = strings.Join(args, " ")
		args = []string{"chat", "placeholder"} // parsed but never run
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	command := kongCtx.Command()
	if freeText != "" {
		command = "dispatch"
	}

	if err := m.openServices(deps); err != nil {
		fmt.Fprintf(stderr, "Hint: Set TWOB_DB to use a different database path\n")
		return err
	}
	defer m.Close()

	debug := cli.Search.Debug
	deps.Logger = newLogger(stderr, debug)

	theme := twob.PersonalityOrDefault(mustGet(ctx, deps.Settings, twob.SettingPersonality)).Theme
	deps.Printer = tui.NewPrinter(stdout, theme)

	if !strings.HasPrefix(command, "config") {
		m.selfHeal(ctx, deps)
	}

	if commandNeedsModel(command) {
		if err := m.wireModel(ctx, deps, debug, ""); err != nil {
			return err
		}
	} else if command == "greet" {
		// Greet runs from shell startup files, so a missing key must not
		// fail the command; without a model it prints a canned greeting.
		if key, _ := resolveAPIKey(ctx, deps); key != "" {
			_ = m.wireModel(ctx, deps, debug, "")
		}
	} else if cli.Config.Key == "api_key" && cli.Config.Value != "" {
		// Emergency keychain repair may want the agent; wire it with the
		// key being configured, best effort.
		_ = m.wireModel(ctx, deps, debug, cli.Config.Value)
	}
	if command == "remember watch" {
		deps.Watcher = cron.NewWatcher(deps.Reminders, beeep.NewNotifier(), deps.Logger)
	}

	if freeText != "" {
		return runDispatch(deps, freeText)
	}
	return kongCtx.Run(deps)
}

// openServices opens the database and wires the storage-backed services.
func (m *Main) openServices(deps *Dependencies) error {
	m.DB = sqlite.NewDB(m.DBPath)
	if err := m.DB.Open(); err != nil {
		return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
	}
	m.Reminders = sqlite.NewReminderService(m.DB)
	m.History = sqlite.NewHistoryService(m.DB)
	m.Settings = sqlite.NewSettingsService(m.DB)

	deps.Reminders = m.Reminders
	deps.History = m.History
	deps.Settings = m.Settings
	deps.Credentials = keyring.NewCredentialStore()
	return nil
}

// wireModel connects the Gemini-backed services and the pipelines that
// depend on them.
func (m *Main) wireModel(ctx context.Context, deps *Dependencies, debug bool, overrideKey string) error {
	apiKey, source := resolveAPIKey(ctx, deps)
	if overrideKey != "" {
		apiKey, source = overrideKey, "override"
	}
	if apiKey == "" {
		fmt.Fprintln(deps.Stderr, "No Gemini API key found. Get one at https://aistudio.google.com/apikey and run '2b config api_key <key>' or set GEMINI_API_KEY.")
		return twob.Errorf(twob.EUNAVAILABLE, "no API key configured")
	}
	if source == "settings" {
		deps.Printer.Warning("your API key is stored insecurely; it will move to the keychain when one is available")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		fmt.Fprintln(deps.Stderr, "Hint: Check that your Gemini API key is valid")
		return fmt.Errorf("failed to connect to Gemini API: %w", err)
	}

	tokens, err := gemini.NewTokenCounter(gemini.Model)
	if err != nil {
		return fmt.Errorf("failed to create token counter: %w", err)
	}

	deps.Completer = gemini.NewCompleter(client, deps.History, deps.Settings, tokens)
	if debug {
		deps.Completer = twobslog.NewLoggingCompleter(deps.Completer, deps.Logger)
	}
	deps.Dispatcher = gemini.NewDispatcher(deps.Completer)
	deps.Parser = gemini.NewReminderParser(deps.Completer, deps.Settings)

	var fetcher twob.Fetcher = twobhttp.NewFetcher()
	var ddg twob.SearchEngine = goquery.NewDuckDuckGo(fetcher)
	var google twob.SearchEngine = goquery.NewGoogle(fetcher)
	if debug {
		fetcher = twobslog.NewLoggingFetcher(fetcher, deps.Logger)
		ddg = twobslog.NewLoggingSearchEngine(ddg, deps.Logger)
		google = twobslog.NewLoggingSearchEngine(google, deps.Logger)
	}
	deps.Searcher = newSearcher(deps, fetcher, ddg, google, tokens)

	deps.Runner = &agent.Runner{
		Completer: deps.Completer,
		Tokens:    tokens,
		Settings:  deps.Settings,
		History:   deps.History,
		Prompter:  newTerminalPrompter(deps.Stdin, deps.Stdout),
		Tools:     agentTools(deps),
	}
	return nil
}

// selfHeal moves an insecurely stored API key into the keychain when one
// becomes available. Runs before every command except config itself.
func (m *Main) selfHeal(ctx context.Context, deps *Dependencies) {
	insecure, err := deps.Settings.Get(ctx, twob.SettingInsecureAPIKey)
	if err != nil || insecure == "" {
		return
	}
	if err := deps.Credentials.SetAPIKey(insecure); err != nil {
		return
	}
	if err := deps.Settings.Delete(ctx, twob.SettingInsecureAPIKey); err != nil {
		return
	}
	deps.Printer.Success("found an insecurely stored API key and moved it into your system keychain")
}

// resolveAPIKey checks the keychain, then the environment, then the
// insecure settings row. The source tells the caller whether to warn.
func resolveAPIKey(ctx context.Context, deps *Dependencies) (key, source string) {
	if key, err := deps.Credentials.APIKey(); err == nil && key != "" {
		return key, "keychain"
	}
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		return key, "env"
	}
	if key, err := deps.Settings.Get(ctx, twob.SettingInsecureAPIKey); err == nil && key != "" {
		return key, "settings"
	}
	return "", ""
}

func newSearcher(deps *Dependencies, fetcher twob.Fetcher, ddg, google twob.SearchEngine, tokens twob.TokenCounter) *search.Searcher {
	return &search.Searcher{
		Engines:   []twob.SearchEngine{ddg, google},
		Fetcher:   fetcher,
		Extractor: trafilatura.NewExtractor(),
		Converter: htmltomarkdown.NewConverter(),
		Completer: deps.Completer,
		Settings:  deps.Settings,
		Tokens:    tokens,
		Limiter:   search.NewDomainLimiter(search.DefaultHostRPS),
	}
}

// commandNeedsModel reports whether the parsed command talks to Gemini.
// Storage-only commands work without an API key.
func commandNeedsModel(command string) bool {
	switch {
	case strings.HasPrefix(command, "config"),
		strings.HasPrefix(command, "remember ls"),
		strings.HasPrefix(command, "remember done"),
		strings.HasPrefix(command, "remember rm"),
		command == "remember watch",
		command == "greet":
		return false
	}
	return true
}

func isKnownCommand(name string) bool {
	switch name {
	case "do", "d", "search", "s", "explain", "ex", "generate", "gen",
		"chat", "c", "remember", "rem", "greet", "hi", "config":
		return true
	}
	return false
}

func newLogger(w io.Writer, debug bool) *slog.Logger {
	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func mustGet(ctx context.Context, settings twob.SettingsService, key string) string {
	v, _ := settings.Get(ctx, key)
	return v
}

// loadEnvFile loads ~/.config/2b/env if present so GEMINI_API_KEY can be
// kept out of shell startup files.
func loadEnvFile() {
	home, err := os.UserHomeDir()
	if err != nil {
		return
	}
	_ = godotenv.Load(filepath.Join(home, ".config", "2b", "env"))
}

func defaultDBPath() string {
	if path := os.Getenv("TWOB_DB"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "2b.db"
	}
	dir := filepath.Join(home, ".config", "2b")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "2b.db")
}
