package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"churchevents/internal/domain"
)

const registrationColumns = `id, event_id, user_id, ticket_code, checked_in_at, checked_in_by, created_at, updated_at`

type eventRegistrationRepository struct {
	DB *sql.DB
}

func NewEventRegistrationRepository(db *sql.DB) domain.EventRegistrationRepository {
	return &eventRegistrationRepository{
		DB: db,
	}
}

func scanRegistration(row rowScanner, extra ...any) (*domain.EventRegistration, error) {
	reg := &domain.EventRegistration{}
	var checkedAt sql.NullTime
	var checkedBy sql.NullString
	dest := append([]any{&reg.ID, &reg.EventID, &reg.UserID, &reg.TicketCode, &checkedAt, &checkedBy, &reg.CreatedAt, &reg.UpdatedAt}, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	if checkedAt.Valid {
		reg.CheckedInAt = &checkedAt.Time
	}
	if checkedBy.Valid {
		reg.CheckedInBy = &checkedBy.String
	}
	return reg, nil
}

func (r *eventRegistrationRepository) Create(ctx context.Context, reg *domain.EventRegistration) error {
	query := `
		INSERT INTO event_registrations (event_id, user_id, ticket_code, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query, reg.EventID, reg.UserID, reg.TicketCode, reg.CreatedAt, reg.UpdatedAt).
		Scan(&reg.ID)
	if isUniqueViolation(err) {
		return domain.ErrDuplicateRegistration
	}
	return err
}

func (r *eventRegistrationRepository) GetByEventAndUser(ctx context.Context, eventID, userID string) (*domain.EventRegistration, error) {
	query := `SELECT ` + registrationColumns + ` FROM event_registrations WHERE event_id = $1 AND user_id = $2`
	reg, err := scanRegistration(r.DB.QueryRowContext(ctx, query, eventID, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return reg, nil
}

func (r *eventRegistrationRepository) GetByTicketCode(ctx context.Context, eventID, ticketCode string) (*domain.EventRegistration, error) {
	query := `SELECT ` + registrationColumns + ` FROM event_registrations WHERE event_id = $1 AND ticket_code = $2`
	reg, err := scanRegistration(r.DB.QueryRowContext(ctx, query, eventID, ticketCode))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return reg, nil
}

func (r *eventRegistrationRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.EventRegistration, error) {
	query := `SELECT ` + registrationColumns + ` FROM event_registrations WHERE user_id = $1 ORDER BY created_at DESC`
	return r.list(ctx, query, userID)
}

func (r *eventRegistrationRepository) ListByEventID(ctx context.Context, eventID string) ([]*domain.EventRegistration, error) {
	query := `SELECT ` + registrationColumns + ` FROM event_registrations WHERE event_id = $1 ORDER BY created_at`
	return r.list(ctx, query, eventID)
}

func (r *eventRegistrationRepository) list(ctx context.Context, query string, args ...any) ([]*domain.EventRegistration, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var regs []*domain.EventRegistration
	for rows.Next() {
		reg, err := scanRegistration(rows)
		if err != nil {
			return nil, err
		}
		regs = append(regs, reg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if regs == nil {
		regs = []*domain.EventRegistration{}
	}
	return regs, nil
}

func (r *eventRegistrationRepository) ListAttendees(ctx context.Context, eventID string, page domain.PaginationParams) ([]*domain.Attendee, int, error) {
	var total int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM event_registrations WHERE event_id = $1`, eventID).Scan(&total); err != nil {
		return nil, 0, err
	}
	query := `
		SELECT er.id, er.event_id, er.user_id, er.ticket_code, er.checked_in_at, er.checked_in_by, er.created_at, er.updated_at,
			u.email, u.name, u.last_name
		FROM event_registrations er
		INNER JOIN users u ON u.id = er.user_id
		WHERE er.event_id = $1
		ORDER BY u.last_name, u.name, er.created_at
		LIMIT $2 OFFSET $3
	`
	rows, err := r.DB.QueryContext(ctx, query, eventID, page.Limit(), page.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	attendees := make([]*domain.Attendee, 0)
	for rows.Next() {
		a := &domain.Attendee{}
		reg, err := scanRegistration(rows, &a.Email, &a.Name, &a.LastName)
		if err != nil {
			return nil, 0, err
		}
		a.Registration = reg
		attendees = append(attendees, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return attendees, total, nil
}

func (r *eventRegistrationRepository) MarkCheckedIn(ctx context.Context, registrationID, scannerID string, at time.Time) (bool, error) {
	query := `
		UPDATE event_registrations
		SET checked_in_at = $2, checked_in_by = $3, updated_at = $2
		WHERE id = $1 AND checked_in_at IS NULL
	`
	result, err := r.DB.ExecContext(ctx, query, registrationID, at, scannerID)
	if err != nil {
		return false, err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *eventRegistrationRepository) CountByEventID(ctx context.Context, eventID string) (int, int, error) {
	query := `
		SELECT COUNT(*), COUNT(checked_in_at)
		FROM event_registrations
		WHERE event_id = $1
	`
	var registered, checkedIn int
	if err := r.DB.QueryRowContext(ctx, query, eventID).Scan(&registered, &checkedIn); err != nil {
		return 0, 0, err
	}
	return registered, checkedIn, nil
}
