package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"churchevents/internal/domain"
)

type ProgramRepository struct {
	DB *sql.DB
}

func NewProgramRepository(db *sql.DB) domain.ProgramRepository {
	return &ProgramRepository{
		DB: db,
	}
}

// GetDay returns the program of one day. A day with no activities is returned as an empty program, not ErrNotFound.
func (r *ProgramRepository) GetDay(ctx context.Context, eventID, day string) (*domain.DayProgram, error) {
	query := `
		SELECT start_time, end_time, label, presenter, updated_at
		FROM event_programs
		WHERE event_id = $1 AND day = $2
		ORDER BY position
	`
	rows, err := r.DB.QueryContext(ctx, query, eventID, day)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	program := &domain.DayProgram{EventID: eventID, Day: day, Activities: domain.Schedule{}}
	for rows.Next() {
		var a domain.Activity
		var updatedAt time.Time
		if err := rows.Scan(&a.Start, &a.End, &a.Label, &a.Presenter, &updatedAt); err != nil {
			return nil, err
		}
		program.Activities = append(program.Activities, a)
		if updatedAt.After(program.UpdatedAt) {
			program.UpdatedAt = updatedAt
		}
	}
	return program, rows.Err()
}

func (r *ProgramRepository) ListByEventID(ctx context.Context, eventID string) ([]*domain.DayProgram, error) {
	query := `
		SELECT to_char(day, 'YYYY-MM-DD'), start_time, end_time, label, presenter, updated_at
		FROM event_programs
		WHERE event_id = $1
		ORDER BY day, position
	`
	rows, err := r.DB.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	programs := make([]*domain.DayProgram, 0)
	var current *domain.DayProgram
	for rows.Next() {
		var day string
		var a domain.Activity
		var updatedAt time.Time
		if err := rows.Scan(&day, &a.Start, &a.End, &a.Label, &a.Presenter, &updatedAt); err != nil {
			return nil, err
		}
		if current == nil || current.Day != day {
			current = &domain.DayProgram{EventID: eventID, Day: day, Activities: domain.Schedule{}}
			programs = append(programs, current)
		}
		current.Activities = append(current.Activities, a)
		if updatedAt.After(current.UpdatedAt) {
			current.UpdatedAt = updatedAt
		}
	}
	return programs, rows.Err()
}

// ReplaceDay deletes the stored day and writes program.Activities in order, in one transaction.
func (r *ProgramRepository) ReplaceDay(ctx context.Context, program *domain.DayProgram) (err error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM event_programs WHERE event_id = $1 AND day = $2`, program.EventID, program.Day); err != nil {
		return fmt.Errorf("clear day: %w", err)
	}
	insert := `
		INSERT INTO event_programs (event_id, day, position, start_time, end_time, label, presenter, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	for i, a := range program.Activities {
		if _, err = tx.ExecContext(ctx, insert, program.EventID, program.Day, i, a.Start, a.End, a.Label, a.Presenter, program.UpdatedAt); err != nil {
			return fmt.Errorf("insert activity %q: %w", a.Label, err)
		}
	}
	return tx.Commit()
}

func (r *ProgramRepository) DeleteDay(ctx context.Context, eventID, day string) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM event_programs WHERE event_id = $1 AND day = $2`, eventID, day)
	return err
}
