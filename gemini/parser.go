package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/nekyl/twob"
)

var _ twob.ReminderParser = (*ReminderParser)(nil)

// ReminderParser extracts scheduling details from reminder text using a
// model call, then parses the returned date and time locally.
type ReminderParser struct {
	completer twob.Completer
	settings  twob.SettingsService

	// Now is the clock used for "tomorrow"-style context. Tests override it.
	Now func() time.Time
}

// NewReminderParser creates a new ReminderParser.
func NewReminderParser(completer twob.Completer, settings twob.SettingsService) *ReminderParser {
	return &ReminderParser{
		completer: completer,
		settings:  settings,
		Now:       time.Now,
	}
}

// parsedReply is the wire shape the model is asked to produce.
type parsedReply struct {
	Task            string  `json:"task"`
	NotifyDate      *string `json:"notify_date"`
	NotifyTime      *string `json:"notify_time"`
	OriginalRequest string  `json:"original_request"`
}

// ParseReminder interprets relative dates against the current time. Model
// failures and unparseable replies degrade to a plain unscheduled note
// rather than an error.
func (p *ReminderParser) ParseReminder(ctx context.Context, text string) (*twob.ParsedReminder, error) {
	if text == "" {
		return nil, twob.Errorf(twob.EINVALID, "reminder text required")
	}

	fallback := &twob.ParsedReminder{
		Task:            "Reminder: " + text,
		OriginalRequest: text,
	}

	user, personality := p.promptContext(ctx)
	reply, err := p.completer.Complete(ctx, twob.CompletionRequest{
		Message:      text,
		SystemPrompt: p.systemPrompt(user, personality),
	})
	if err != nil || reply == "" {
		return fallback, nil
	}

	raw, ok := firstJSONObject(reply)
	if !ok {
		return fallback, nil
	}
	var parsed parsedReply
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return fallback, nil
	}

	result := &twob.ParsedReminder{
		Task:            parsed.Task,
		OriginalRequest: parsed.OriginalRequest,
	}
	if result.Task == "" {
		result.Task = fmt.Sprintf("Hey, %s! Quick reminder about: %s", user, text)
	}
	if result.OriginalRequest == "" {
		result.OriginalRequest = text
	}
	result.NotifyAt = p.parseWhen(parsed.NotifyDate, parsed.NotifyTime)
	return result, nil
}

// parseWhen combines the model's date and time strings into a local
// timestamp. A missing date means no schedule regardless of time.
func (p *ReminderParser) parseWhen(date, clock *string) *time.Time {
	if date == nil || *date == "" {
		return nil
	}
	s := *date
	if clock != nil && *clock != "" {
		s += " " + *clock
	}
	// The prompt asks for YYYY-MM-DD and HH:MM, but the model does not
	// always comply, so parse leniently.
	when, err := dateparse.ParseIn(s, time.Local)
	if err != nil {
		return nil
	}
	return &when
}

func (p *ReminderParser) promptContext(ctx context.Context) (user, personality string) {
	var name string
	if p.settings != nil {
		name, _ = p.settings.Get(ctx, twob.SettingPersonality)
		user, _ = p.settings.Get(ctx, twob.SettingUser)
	}
	if user == "" {
		user = twob.DefaultUserName
	}
	prompt := twob.PersonalityOrDefault(name).SystemPrompt(user)
	// The history note is irrelevant to a one-shot extraction call.
	if i := strings.Index(prompt, " You have access to a log"); i >= 0 {
		prompt = prompt[:i]
	}
	return user, prompt
}

func (p *ReminderParser) systemPrompt(user, personality string) string {
	now := p.Now()
	return fmt.Sprintf(`You are an AI assistant that analyzes text to extract scheduling details and, crucially, to phrase warm, personalized reminder messages.
Your current personality for this task is: %q
Your goal is to analyze the reminder text provided by %s and structure the following information:

1. Notification message (for the "task" field): write a short, clear, direct, and engaging message in the personality defined above. Use fitting emoji! Important: do not include the date or time in the message.
2. Notification date (for the "notify_date" field): a specific date in YYYY-MM-DD format.
3. Notification time (for the "notify_time" field): a specific time in HH:MM (24-hour) format.

Context for interpreting dates and times:
- THE CURRENT DATE AND TIME IS: %s (%s).
- Interpret relative terms like "tomorrow", "today", "in 5 minutes", "in 2 hours".

Response format:
Respond ONLY with a valid JSON object structured as follows:
{
    "task": "The warm, personalized notification message.",
    "notify_date": "YYYY-MM-DD" or null,
    "notify_time": "HH:MM" or null,
    "original_request": "The exact original text provided by the user."
}`, personality, user, now.Format("2006-01-02 15:04"), now.Weekday())
}
