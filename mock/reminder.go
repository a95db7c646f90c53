package mock

import (
	"context"

	"github.com/nekyl/twob"
)

var _ twob.ReminderService = (*ReminderService)(nil)

// ReminderService is a mock implementation of twob.ReminderService.
type ReminderService struct {
	CreateReminderFn      func(ctx context.Context, reminder *twob.Reminder) error
	FindReminderByIDFn    func(ctx context.Context, id int) (*twob.Reminder, error)
	FindRemindersFn       func(ctx context.Context, filter twob.ReminderFilter) ([]*twob.Reminder, error)
	MarkDoneFn            func(ctx context.Context, id int) (*twob.Reminder, error)
	MarkNotifiedFn        func(ctx context.Context, id int) error
	DeleteReminderFn      func(ctx context.Context, id int) error
	DeleteAllRemindersFn  func(ctx context.Context) (int, error)
	DeleteDoneRemindersFn func(ctx context.Context) (int, error)
}

func (s *ReminderService) CreateReminder(ctx context.Context, reminder *twob.Reminder) error {
	return s.CreateReminderFn(ctx, reminder)
}

func (s *ReminderService) FindReminderByID(ctx context.Context, id int) (*twob.Reminder, error) {
	return s.FindReminderByIDFn(ctx, id)
}

func (s *ReminderService) FindReminders(ctx context.Context, filter twob.ReminderFilter) ([]*twob.Reminder, error) {
	return s.FindRemindersFn(ctx, filter)
}

func (s *ReminderService) MarkDone(ctx context.Context, id int) (*twob.Reminder, error) {
	return s.MarkDoneFn(ctx, id)
}

func (s *ReminderService) MarkNotified(ctx context.Context, id int) error {
	return s.MarkNotifiedFn(ctx, id)
}

func (s *ReminderService) DeleteReminder(ctx context.Context, id int) error {
	return s.DeleteReminderFn(ctx, id)
}

func (s *ReminderService) DeleteAllReminders(ctx context.Context) (int, error) {
	return s.DeleteAllRemindersFn(ctx)
}

func (s *ReminderService) DeleteDoneReminders(ctx context.Context) (int, error) {
	return s.DeleteDoneRemindersFn(ctx)
}

var _ twob.ReminderParser = (*ReminderParser)(nil)

// ReminderParser is a mock implementation of twob.ReminderParser.
type ReminderParser struct {
	ParseReminderFn func(ctx context.Context, text string) (*twob.ParsedReminder, error)
}

func (p *ReminderParser) ParseReminder(ctx context.Context, text string) (*twob.ParsedReminder, error) {
	return p.ParseReminderFn(ctx, text)
}
