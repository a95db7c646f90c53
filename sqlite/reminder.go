package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/nekyl/twob"
)

// Compile-time interface verification.
var _ twob.ReminderService = (*ReminderService)(nil)

// ReminderService implements twob.ReminderService using SQLite.
type ReminderService struct {
	db *DB
}

// NewReminderService creates a new ReminderService.
func NewReminderService(db *DB) *ReminderService {
	return &ReminderService{db: db}
}

// CreateReminder creates a new reminder and assigns the next sequential ID.
func (s *ReminderService) CreateReminder(ctx context.Context, reminder *twob.Reminder) error {
	if err := reminder.Validate(); err != nil {
		return err
	}

	if reminder.CreatedAt.IsZero() {
		reminder.CreatedAt = time.Now().UTC()
	}

	var maxID sql.NullInt64
	if err := s.db.QueryRowContext(ctx, `SELECT MAX(id) FROM reminders`).Scan(&maxID); err != nil {
		return err
	}
	reminder.ID = int(maxID.Int64) + 1

	var notifyAt any
	if reminder.NotifyAt != nil {
		notifyAt = reminder.NotifyAt.UTC().Format(time.RFC3339)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO reminders (id, original_request, task, created_at, notify_at, done, notified)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, reminder.ID, reminder.OriginalRequest, reminder.Task,
		reminder.CreatedAt.Format(time.RFC3339), notifyAt,
		boolToInt(reminder.Done), boolToInt(reminder.Notified))

	return err
}

// FindReminderByID retrieves a reminder by ID.
func (s *ReminderService) FindReminderByID(ctx context.Context, id int) (*twob.Reminder, error) {
	reminders, err := s.FindReminders(ctx, twob.ReminderFilter{ID: &id})
	if err != nil {
		return nil, err
	}
	if len(reminders) == 0 {
		return nil, twob.Errorf(twob.ENOTFOUND, "reminder %d not found", id)
	}
	return reminders[0], nil
}

// FindReminders retrieves reminders matching the filter, ordered by ID.
func (s *ReminderService) FindReminders(ctx context.Context, filter twob.ReminderFilter) ([]*twob.Reminder, error) {
	var query strings.Builder
	var args []any

	query.WriteString(`SELECT id, original_request, task, created_at, notify_at, done, notified FROM reminders WHERE 1=1`)

	if filter.ID != nil {
		query.WriteString(" AND id = ?")
		args = append(args, *filter.ID)
	}
	if filter.Done != nil {
		query.WriteString(" AND done = ?")
		args = append(args, boolToInt(*filter.Done))
	}
	if filter.Notified != nil {
		query.WriteString(" AND notified = ?")
		args = append(args, boolToInt(*filter.Notified))
	}
	if filter.DueBefore != nil {
		query.WriteString(" AND notify_at IS NOT NULL AND notify_at <= ?")
		args = append(args, filter.DueBefore.UTC().Format(time.RFC3339))
	}

	query.WriteString(" ORDER BY id")

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reminders []*twob.Reminder
	for rows.Next() {
		reminder, err := scanReminder(rows)
		if err != nil {
			return nil, err
		}
		reminders = append(reminders, reminder)
	}

	return reminders, rows.Err()
}

// MarkDone marks a reminder as completed.
func (s *ReminderService) MarkDone(ctx context.Context, id int) (*twob.Reminder, error) {
	reminder, err := s.FindReminderByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if reminder.Done {
		return reminder, nil
	}

	if _, err := s.db.ExecContext(ctx, `UPDATE reminders SET done = 1 WHERE id = ?`, id); err != nil {
		return nil, err
	}
	reminder.Done = true
	return reminder, nil
}

// MarkNotified records that the due notification fired.
func (s *ReminderService) MarkNotified(ctx context.Context, id int) error {
	res, err := s.db.ExecContext(ctx, `UPDATE reminders SET notified = 1 WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return twob.Errorf(twob.ENOTFOUND, "reminder %d not found", id)
	}
	return nil
}

// DeleteReminder removes a reminder and re-sequences remaining IDs.
func (s *ReminderService) DeleteReminder(ctx context.Context, id int) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM reminders WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return twob.Errorf(twob.ENOTFOUND, "reminder %d not found", id)
	}
	return s.resequence(ctx)
}

// DeleteAllReminders removes every reminder.
func (s *ReminderService) DeleteAllReminders(ctx context.Context) (int, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM reminders`)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}

// DeleteDoneReminders removes completed reminders and re-sequences IDs.
func (s *ReminderService) DeleteDoneReminders(ctx context.Context) (int, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM reminders WHERE done = 1`)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if n > 0 {
		if err := s.resequence(ctx); err != nil {
			return int(n), err
		}
	}
	return int(n), nil
}

// resequence renumbers reminder IDs to 1..N in creation order. The
// two-pass sign flip avoids transient primary key collisions.
func (s *ReminderService) resequence(ctx context.Context) error {
	tx, err := s.db.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		UPDATE reminders SET id = -(
			SELECT rn FROM (
				SELECT id AS rid, ROW_NUMBER() OVER (ORDER BY id) AS rn FROM reminders
			) WHERE rid = reminders.id
		)
	`); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `UPDATE reminders SET id = -id`); err != nil {
		return err
	}

	return tx.Commit()
}

// scanReminder scans a reminder row.
func scanReminder(rows *sql.Rows) (*twob.Reminder, error) {
	var reminder twob.Reminder
	var createdAt string
	var notifyAt sql.NullString
	var done, notified int

	if err := rows.Scan(&reminder.ID, &reminder.OriginalRequest, &reminder.Task,
		&createdAt, &notifyAt, &done, &notified); err != nil {
		return nil, err
	}

	var err error
	reminder.CreatedAt, err = parseRFC3339(createdAt, "created_at")
	if err != nil {
		return nil, err
	}
	if notifyAt.Valid {
		t, err := parseRFC3339(notifyAt.String, "notify_at")
		if err != nil {
			return nil, err
		}
		reminder.NotifyAt = &t
	}
	reminder.Done = done != 0
	reminder.Notified = notified != 0

	return &reminder, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
