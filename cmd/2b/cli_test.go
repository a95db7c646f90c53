package main_test

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekyl/twob"
	main "github.com/nekyl/twob/cmd/2b"
	"github.com/nekyl/twob/mock"
	"github.com/nekyl/twob/tui"
)

func TestCLI_HelpShowsAllCommands(t *testing.T) {
	t.Parallel()

	cli := &main.CLI{}
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	parser, err := kong.New(cli,
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
		kong.Vars{"version": "test"},
	)
	require.NoError(t, err)

	_, _ = parser.Parse([]string{"--help"})

	helpOutput := stdout.String()
	expectedCommands := []string{"do", "search", "explain", "generate", "chat", "remember", "greet", "config"}
	for _, cmd := range expectedCommands {
		assert.Contains(t, helpOutput, cmd, "Help should mention %s command", cmd)
	}
}

func TestMain_Run_HelpShowsKongOutput(t *testing.T) {
	t.Parallel()

	m := main.NewMain()
	m.DBPath = filepath.Join(t.TempDir(), "test.db")

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	err := m.Run(context.Background(), []string{"--help"}, stdout, stderr)
	require.NoError(t, err)

	helpOutput := stdout.String()
	for _, cmd := range []string{"do", "search", "remember", "config"} {
		assert.Contains(t, helpOutput, cmd)
	}
}

func TestMain_Run_NoArgsGreets(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")

	m := main.NewMain()
	m.DBPath = filepath.Join(t.TempDir(), "test.db")

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	err := m.Run(context.Background(), nil, stdout, stderr)
	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "2B (neutra)")
}

// testDeps builds Dependencies with permissive mocks. Individual tests
// override the services they exercise.
func testDeps() (*main.Dependencies, *bytes.Buffer) {
	out := &bytes.Buffer{}
	deps := &main.Dependencies{
		Ctx:    context.Background(),
		Stdout: out,
		Stderr: out,
		Stdin:  strings.NewReader(""),
		Printer: tui.NewPrinter(out, twob.PersonalityOrDefault("").Theme),
		History: &mock.HistoryService{
			AddEntryFn: func(context.Context, string, string) error { return nil },
		},
		Settings: &mock.SettingsService{
			GetFn: func(context.Context, string) (string, error) { return "", nil },
		},
		Now: func() time.Time { return time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC) },
	}
	return deps, out
}
