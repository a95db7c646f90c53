package main_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekyl/twob"
	main "github.com/nekyl/twob/cmd/2b"
	"github.com/nekyl/twob/mock"
)

func TestRememberAddCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("ScheduledReminder", func(t *testing.T) {
		t.Parallel()

		deps, out := testDeps()
		notifyAt := deps.Now().Add(2 * time.Hour)
		deps.Parser = &mock.ReminderParser{
			ParseReminderFn: func(_ context.Context, text string) (*twob.ParsedReminder, error) {
				return &twob.ParsedReminder{
					Task:            "call the dentist",
					NotifyAt:        &notifyAt,
					OriginalRequest: text,
				}, nil
			},
		}

		var created *twob.Reminder
		deps.Reminders = &mock.ReminderService{
			CreateReminderFn: func(_ context.Context, r *twob.Reminder) error {
				r.ID = 7
				created = r
				return nil
			},
		}

		cmd := &main.RememberAddCmd{Text: "call the dentist in two hours"}
		require.NoError(t, cmd.Run(deps))

		require.NotNil(t, created)
		assert.Equal(t, "call the dentist", created.Task)
		require.NotNil(t, created.NotifyAt)
		assert.Equal(t, notifyAt, *created.NotifyAt)
		assert.Contains(t, out.String(), "Noted! Reminder #7")
		assert.Contains(t, out.String(), "scheduled a notification")
	})

	t.Run("PastDueTimeSavedUnscheduled", func(t *testing.T) {
		t.Parallel()

		deps, out := testDeps()
		notifyAt := deps.Now().Add(-time.Hour)
		deps.Parser = &mock.ReminderParser{
			ParseReminderFn: func(_ context.Context, text string) (*twob.ParsedReminder, error) {
				return &twob.ParsedReminder{Task: "water the plants", NotifyAt: &notifyAt, OriginalRequest: text}, nil
			},
		}

		var created *twob.Reminder
		deps.Reminders = &mock.ReminderService{
			CreateReminderFn: func(_ context.Context, r *twob.Reminder) error {
				r.ID = 1
				created = r
				return nil
			},
		}

		cmd := &main.RememberAddCmd{Text: "water the plants an hour ago"}
		require.NoError(t, cmd.Run(deps))

		require.NotNil(t, created)
		assert.Nil(t, created.NotifyAt)
		assert.Contains(t, out.String(), "saved it unscheduled")
	})

	t.Run("ParserError", func(t *testing.T) {
		t.Parallel()

		deps, _ := testDeps()
		deps.Parser = &mock.ReminderParser{
			ParseReminderFn: func(context.Context, string) (*twob.ParsedReminder, error) {
				return nil, twob.Errorf(twob.EUNAVAILABLE, "model unavailable")
			},
		}

		cmd := &main.RememberAddCmd{Text: "anything"}
		err := cmd.Run(deps)
		require.Error(t, err)
		assert.Equal(t, twob.EUNAVAILABLE, twob.ErrorCode(err))
	})
}

func TestRememberLsCmd_Run(t *testing.T) {
	t.Parallel()

	notifyAt := time.Date(2025, 3, 20, 18, 0, 0, 0, time.UTC)
	reminders := []*twob.Reminder{
		{ID: 1, Task: "buy milk", CreatedAt: time.Date(2025, 3, 14, 8, 0, 0, 0, time.UTC)},
		{ID: 2, Task: "pay rent", NotifyAt: &notifyAt, CreatedAt: time.Date(2025, 3, 14, 8, 5, 0, 0, time.UTC)},
		{ID: 3, Task: "old chore", Done: true, CreatedAt: time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)},
	}

	t.Run("PendingOnly", func(t *testing.T) {
		t.Parallel()

		deps, out := testDeps()
		deps.Reminders = &mock.ReminderService{
			FindRemindersFn: func(context.Context, twob.ReminderFilter) ([]*twob.Reminder, error) {
				return reminders, nil
			},
		}

		cmd := &main.RememberLsCmd{}
		require.NoError(t, cmd.Run(deps))

		assert.Contains(t, out.String(), "buy milk")
		assert.Contains(t, out.String(), "pay rent")
		assert.NotContains(t, out.String(), "old chore")
	})

	t.Run("AllIncludesDone", func(t *testing.T) {
		t.Parallel()

		deps, out := testDeps()
		deps.Reminders = &mock.ReminderService{
			FindRemindersFn: func(context.Context, twob.ReminderFilter) ([]*twob.Reminder, error) {
				return reminders, nil
			},
		}

		cmd := &main.RememberLsCmd{All: true}
		require.NoError(t, cmd.Run(deps))

		assert.Contains(t, out.String(), "old chore")
	})

	t.Run("Empty", func(t *testing.T) {
		t.Parallel()

		deps, out := testDeps()
		deps.Reminders = &mock.ReminderService{
			FindRemindersFn: func(context.Context, twob.ReminderFilter) ([]*twob.Reminder, error) {
				return nil, nil
			},
		}

		cmd := &main.RememberLsCmd{}
		require.NoError(t, cmd.Run(deps))
		assert.Contains(t, out.String(), "no reminders")
	})
}

func TestRememberDoneCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("MarksPendingDone", func(t *testing.T) {
		t.Parallel()

		deps, out := testDeps()
		marked := 0
		deps.Reminders = &mock.ReminderService{
			FindReminderByIDFn: func(_ context.Context, id int) (*twob.Reminder, error) {
				return &twob.Reminder{ID: id, Task: "buy milk"}, nil
			},
			MarkDoneFn: func(_ context.Context, id int) (*twob.Reminder, error) {
				marked = id
				return &twob.Reminder{ID: id, Task: "buy milk", Done: true}, nil
			},
		}

		cmd := &main.RememberDoneCmd{ID: 4}
		require.NoError(t, cmd.Run(deps))
		assert.Equal(t, 4, marked)
		assert.Contains(t, out.String(), "buy milk")
	})

	t.Run("AlreadyDoneIsIdempotent", func(t *testing.T) {
		t.Parallel()

		deps, out := testDeps()
		deps.Reminders = &mock.ReminderService{
			FindReminderByIDFn: func(_ context.Context, id int) (*twob.Reminder, error) {
				return &twob.Reminder{ID: id, Task: "buy milk", Done: true}, nil
			},
			MarkDoneFn: func(context.Context, int) (*twob.Reminder, error) {
				t.Fatal("MarkDone should not be called for a completed reminder")
				return nil, nil
			},
		}

		cmd := &main.RememberDoneCmd{ID: 4}
		require.NoError(t, cmd.Run(deps))
		assert.Contains(t, out.String(), "already")
	})

	t.Run("NotFound", func(t *testing.T) {
		t.Parallel()

		deps, out := testDeps()
		deps.Reminders = &mock.ReminderService{
			FindReminderByIDFn: func(context.Context, int) (*twob.Reminder, error) {
				return nil, twob.Errorf(twob.ENOTFOUND, "reminder not found")
			},
		}

		cmd := &main.RememberDoneCmd{ID: 99}
		err := cmd.Run(deps)
		require.Error(t, err)
		assert.Contains(t, out.String(), "99")
	})
}

func TestRememberRmCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("ByID", func(t *testing.T) {
		t.Parallel()

		deps, _ := testDeps()
		deleted := 0
		deps.Reminders = &mock.ReminderService{
			FindReminderByIDFn: func(_ context.Context, id int) (*twob.Reminder, error) {
				return &twob.Reminder{ID: id, Task: "buy milk"}, nil
			},
			DeleteReminderFn: func(_ context.Context, id int) error {
				deleted = id
				return nil
			},
		}

		cmd := &main.RememberRmCmd{Target: "3"}
		require.NoError(t, cmd.Run(deps))
		assert.Equal(t, 3, deleted)
	})

	t.Run("All", func(t *testing.T) {
		t.Parallel()

		deps, out := testDeps()
		deps.Reminders = &mock.ReminderService{
			DeleteAllRemindersFn: func(context.Context) (int, error) { return 5, nil },
		}

		cmd := &main.RememberRmCmd{Target: "all"}
		require.NoError(t, cmd.Run(deps))
		assert.Contains(t, out.String(), "deleted")
	})

	t.Run("DoneWithNothingToDelete", func(t *testing.T) {
		t.Parallel()

		deps, out := testDeps()
		deps.Reminders = &mock.ReminderService{
			DeleteDoneRemindersFn: func(context.Context) (int, error) { return 0, nil },
		}

		cmd := &main.RememberRmCmd{Target: "done"}
		require.NoError(t, cmd.Run(deps))
		assert.NotEmpty(t, out.String())
	})

	t.Run("InvalidTarget", func(t *testing.T) {
		t.Parallel()

		deps, _ := testDeps()
		deps.Reminders = &mock.ReminderService{}

		cmd := &main.RememberRmCmd{Target: "banana"}
		err := cmd.Run(deps)
		require.Error(t, err)
		assert.Equal(t, twob.EINVALID, twob.ErrorCode(err))
	})
}
