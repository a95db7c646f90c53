package tui_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nekyl/twob"
	"github.com/nekyl/twob/tui"
)

func testTheme() twob.Theme {
	return twob.Theme{Color: "12", Emoji: "🤖", Title: "2B (neutra)"}
}

func TestPrinter_PlainFallback(t *testing.T) {
	t.Parallel()

	// A bytes.Buffer is not a terminal, so output must be plain text.
	var buf bytes.Buffer
	p := tui.NewPrinter(&buf, testTheme())

	p.Assistant("# Hello\nSome *answer* text.")
	out := buf.String()
	assert.Contains(t, out, "--- 🤖 2B (neutra) ---")
	assert.Contains(t, out, "Some *answer* text.")
	assert.NotContains(t, out, "\x1b[")
}

func TestPrinter_StatusLines(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	p := tui.NewPrinter(&buf, testTheme())

	p.Info("checking %d pages", 7)
	p.Success("saved")
	p.Warning("no due time")
	p.Error("api down: %s", "quota")

	out := buf.String()
	assert.Contains(t, out, "checking 7 pages\n")
	assert.Contains(t, out, "✔ saved\n")
	assert.Contains(t, out, "⚠ no due time\n")
	assert.Contains(t, out, "✖ api down: quota\n")
}

func TestPrinter_Panel(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	p := tui.NewPrinter(&buf, testTheme())

	p.Panel("🔎 Search Summary", "three results found\n")
	out := buf.String()
	assert.Contains(t, out, "--- 🔎 Search Summary ---")
	assert.Contains(t, out, "three results found")
	// Trailing newline of the body must not double up.
	assert.NotContains(t, out, "found\n\n")
}

func TestPrinter_WithPlainForcesPlain(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	p := tui.NewPrinter(&buf, testTheme(), tui.WithPlain(), tui.WithWidth(80))

	p.Assistant("plain please")
	assert.NotContains(t, buf.String(), "\x1b[")
}
