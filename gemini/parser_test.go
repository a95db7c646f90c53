package gemini_test

import (
	"context"
	"testing"
	"time"

	"github.com/nekyl/twob"
	"github.com/nekyl/twob/gemini"
	"github.com/nekyl/twob/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func emptySettings() *mock.SettingsService {
	return &mock.SettingsService{
		GetFn: func(context.Context, string) (string, error) { return "", nil },
	}
}

func TestReminderParser_ParseReminder_ExtractsSchedule(t *testing.T) {
	t.Parallel()

	completer := &mock.Completer{
		CompleteFn: func(_ context.Context, req twob.CompletionRequest) (string, error) {
			assert.Equal(t, "dentist tomorrow at 10", req.Message)
			assert.Contains(t, req.SystemPrompt, "2025-03-14 09:30")
			assert.Contains(t, req.SystemPrompt, "Friday")
			return `{"task": "Time for the dentist! 🦷", "notify_date": "2025-03-15", "notify_time": "10:00", "original_request": "dentist tomorrow at 10"}`, nil
		},
	}
	parser := gemini.NewReminderParser(completer, emptySettings())
	parser.Now = func() time.Time {
		return time.Date(2025, 3, 14, 9, 30, 0, 0, time.Local)
	}

	parsed, err := parser.ParseReminder(context.Background(), "dentist tomorrow at 10")

	require.NoError(t, err)
	assert.Equal(t, "Time for the dentist! 🦷", parsed.Task)
	assert.Equal(t, "dentist tomorrow at 10", parsed.OriginalRequest)
	require.NotNil(t, parsed.NotifyAt)
	assert.Equal(t, time.Date(2025, 3, 15, 10, 0, 0, 0, time.Local), *parsed.NotifyAt)
}

func TestReminderParser_ParseReminder_DateWithoutTime(t *testing.T) {
	t.Parallel()

	completer := &mock.Completer{
		CompleteFn: func(context.Context, twob.CompletionRequest) (string, error) {
			return `{"task": "Pay the rent! 🏠", "notify_date": "2025-04-01", "notify_time": null, "original_request": "pay rent on april 1st"}`, nil
		},
	}
	parser := gemini.NewReminderParser(completer, emptySettings())

	parsed, err := parser.ParseReminder(context.Background(), "pay rent on april 1st")

	require.NoError(t, err)
	require.NotNil(t, parsed.NotifyAt)
	assert.Equal(t, time.Date(2025, 4, 1, 0, 0, 0, 0, time.Local), *parsed.NotifyAt)
}

func TestReminderParser_ParseReminder_NoDateMeansPlainNote(t *testing.T) {
	t.Parallel()

	completer := &mock.Completer{
		CompleteFn: func(context.Context, twob.CompletionRequest) (string, error) {
			return `{"task": "Remember to drink water! 💧", "notify_date": null, "notify_time": "10:00", "original_request": "drink more water"}`, nil
		},
	}
	parser := gemini.NewReminderParser(completer, emptySettings())

	parsed, err := parser.ParseReminder(context.Background(), "drink more water")

	require.NoError(t, err)
	assert.Nil(t, parsed.NotifyAt)
	assert.Equal(t, "Remember to drink water! 💧", parsed.Task)
}

func TestReminderParser_ParseReminder_FallsBackOnModelFailure(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		reply string
		err   error
	}{
		{"completer error", "", twob.Errorf(twob.EINTERNAL, "boom")},
		{"empty reply", "", nil},
		{"no JSON", "I could not find a date in that.", nil},
		{"invalid JSON", `{"task": `, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			completer := &mock.Completer{
				CompleteFn: func(context.Context, twob.CompletionRequest) (string, error) {
					return tt.reply, tt.err
				},
			}
			parser := gemini.NewReminderParser(completer, emptySettings())

			parsed, err := parser.ParseReminder(context.Background(), "buy milk")

			require.NoError(t, err)
			assert.Equal(t, "Reminder: buy milk", parsed.Task)
			assert.Equal(t, "buy milk", parsed.OriginalRequest)
			assert.Nil(t, parsed.NotifyAt)
		})
	}
}

func TestReminderParser_ParseReminder_UnparseableDateMeansNoSchedule(t *testing.T) {
	t.Parallel()

	completer := &mock.Completer{
		CompleteFn: func(context.Context, twob.CompletionRequest) (string, error) {
			return `{"task": "Do the thing!", "notify_date": "whenever", "notify_time": null, "original_request": "do the thing"}`, nil
		},
	}
	parser := gemini.NewReminderParser(completer, emptySettings())

	parsed, err := parser.ParseReminder(context.Background(), "do the thing")

	require.NoError(t, err)
	assert.Nil(t, parsed.NotifyAt)
	assert.Equal(t, "Do the thing!", parsed.Task)
}

func TestReminderParser_ParseReminder_FillsMissingFields(t *testing.T) {
	t.Parallel()

	settings := &mock.SettingsService{
		GetFn: func(_ context.Context, key string) (string, error) {
			if key == twob.SettingUser {
				return "nekyl", nil
			}
			return "", nil
		},
	}
	completer := &mock.Completer{
		CompleteFn: func(context.Context, twob.CompletionRequest) (string, error) {
			return `{"task": "", "notify_date": null, "notify_time": null, "original_request": ""}`, nil
		},
	}
	parser := gemini.NewReminderParser(completer, settings)

	parsed, err := parser.ParseReminder(context.Background(), "feed the cat")

	require.NoError(t, err)
	assert.Contains(t, parsed.Task, "nekyl")
	assert.Contains(t, parsed.Task, "feed the cat")
	assert.Equal(t, "feed the cat", parsed.OriginalRequest)
}

func TestReminderParser_ParseReminder_ReturnsErrorWhenTextEmpty(t *testing.T) {
	t.Parallel()

	parser := gemini.NewReminderParser(nil, nil)

	_, err := parser.ParseReminder(context.Background(), "")

	require.Error(t, err)
	assert.Equal(t, twob.EINVALID, twob.ErrorCode(err))
}
