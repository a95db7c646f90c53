// Package gemini provides Google Gemini implementations of the twob
// language-model interfaces: completion, intent dispatch, reminder parsing,
// and token counting.
package gemini

import (
	"context"
	"fmt"

	"github.com/nekyl/twob"
	"google.golang.org/genai"
)

// Model is the Gemini model used for all completions.
const Model = "gemini-2.5-flash"

// Token budgeting. The context window is shared between the system prompt,
// the user message, as much history as fits, and room for the response.
const (
	ContextLimit   = 131072
	ResponseBuffer = 1000
)

// Ensure Completer implements twob.Completer at compile time.
var _ twob.Completer = (*Completer)(nil)

// Completer implements twob.Completer using Google Gemini.
type Completer struct {
	client   *genai.Client
	history  twob.HistoryService
	settings twob.SettingsService
	tokens   twob.TokenCounter
	model    string
}

// NewCompleter creates a new Completer. The token counter may be nil, in
// which case a rough byte-length estimate is used for budgeting.
func NewCompleter(client *genai.Client, history twob.HistoryService, settings twob.SettingsService, tokens twob.TokenCounter) *Completer {
	return &Completer{
		client:   client,
		history:  history,
		settings: settings,
		tokens:   tokens,
		model:    Model,
	}
}

// Complete sends the request and returns the model's text reply.
func (c *Completer) Complete(ctx context.Context, req twob.CompletionRequest) (string, error) {
	if req.Message == "" {
		return "", twob.Errorf(twob.EINVALID, "message required")
	}

	systemPrompt := req.SystemPrompt
	if systemPrompt == "" {
		var err error
		systemPrompt, err = c.personalityPrompt(ctx)
		if err != nil {
			return "", err
		}
	}

	systemTokens := c.countTokens(ctx, systemPrompt)
	messageTokens := c.countTokens(ctx, req.Message)
	historyBudget := ContextLimit - systemTokens - messageTokens - ResponseBuffer

	var contents []*genai.Content
	if req.IncludeHistory && historyBudget > 0 {
		historyContents, truncated, used, total := c.historyWithinBudget(ctx, historyBudget)
		contents = append(contents, historyContents...)
		if truncated && c.history != nil {
			// Best-effort; a full context window should not fail the call.
			_ = c.history.AddEntry(ctx, twob.RoleSystemEvent,
				fmt.Sprintf("history truncated for model call: %d/%d entries included", used, total))
		}
	}

	contents = append(contents, genai.NewContentFromText(req.Message, genai.RoleUser))

	result, err := c.client.Models.GenerateContent(ctx, c.model, contents, BuildConfig(systemPrompt))
	if err != nil {
		return "", err
	}
	if result == nil {
		return "", twob.Errorf(twob.EINTERNAL, "gemini returned nil result")
	}

	return result.Text(), nil
}

// BuildConfig returns the generation config used for all completions.
func BuildConfig(systemPrompt string) *genai.GenerateContentConfig {
	temp := float32(0.4)
	return &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: systemPrompt}},
		},
		Temperature: &temp,
	}
}

// personalityPrompt builds the system prompt from the configured
// personality and user name.
func (c *Completer) personalityPrompt(ctx context.Context) (string, error) {
	var name, user string
	if c.settings != nil {
		var err error
		if name, err = c.settings.Get(ctx, twob.SettingPersonality); err != nil {
			return "", err
		}
		if user, err = c.settings.Get(ctx, twob.SettingUser); err != nil {
			return "", err
		}
	}
	if user == "" {
		user = twob.DefaultUserName
	}
	return twob.PersonalityOrDefault(name).SystemPrompt(user), nil
}

// historyWithinBudget loads recent history and returns the newest entries
// that fit the token budget, in chronological order.
func (c *Completer) historyWithinBudget(ctx context.Context, budget int) (contents []*genai.Content, truncated bool, used, total int) {
	if c.history == nil {
		return nil, false, 0, 0
	}

	entries, err := c.history.RecentEntries(ctx, twob.MaxHistoryEntries)
	if err != nil || len(entries) == 0 {
		return nil, false, 0, len(entries)
	}
	total = len(entries)

	spent := 0
	for i := len(entries) - 1; i >= 0; i-- {
		entry := entries[i]

		role := genai.Role(genai.RoleUser)
		content := entry.Content
		switch entry.Role {
		case twob.RoleAssistant:
			role = genai.RoleModel
		case twob.RoleSystemEvent:
			content = "[system context: " + content + "]"
		}

		cost := c.countTokens(ctx, content)
		if spent+cost > budget {
			truncated = true
			break
		}
		spent += cost
		contents = append([]*genai.Content{genai.NewContentFromText(content, role)}, contents...)
	}

	return contents, truncated, len(contents), total
}

// countTokens counts tokens via the configured counter, falling back to a
// rough 4-bytes-per-token estimate when counting is unavailable.
func (c *Completer) countTokens(ctx context.Context, text string) int {
	if text == "" {
		return 0
	}
	if c.tokens != nil {
		if n, err := c.tokens.CountTokens(ctx, text); err == nil {
			return n
		}
	}
	return len(text) / 4
}
