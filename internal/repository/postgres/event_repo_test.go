package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"churchevents/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"
)

var eventRowColumns = []string{"id", "name", "event_code", "owner_id", "starts_on", "ends_on", "description", "venue", "location_lat", "location_lng", "created_at", "updated_at"}

func TestEventRepository_Create(t *testing.T) {
	ctx := context.Background()
	created := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	startsOn := time.Date(2025, 3, 8, 0, 0, 0, 0, time.UTC)
	venue := "Fellowship Hall"

	tests := []struct {
		name    string
		event   *domain.Event
		mock    func(mock sqlmock.Sqlmock)
		wantID    string
		wantErr   bool
		wantErrIs error
	}{
		{
			name: "success",
			event: &domain.Event{
				Name:      "Women's Retreat",
				EventCode: "abcd",
				OwnerID:   "user-uuid-1",
				StartsOn:  &startsOn,
				Venue:     &venue,
				CreatedAt: created,
				UpdatedAt: created,
			},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO events \(name, event_code, owner_id, starts_on, ends_on, description, venue, location_lat, location_lng, created_at, updated_at\)`).
					WithArgs("Women's Retreat", "abcd", "user-uuid-1", startsOn, nil, nil, venue, nil, nil, created, created).
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("ev-uuid-1"))
			},
			wantID: "ev-uuid-1",
		},
		{
			name: "db error",
			event: &domain.Event{
				Name:      "Youth Night",
				EventCode: "wxyz",
				OwnerID:   "user-1",
				CreatedAt: created,
				UpdatedAt: created,
			},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO events`).
					WillReturnError(sql.ErrConnDone)
			},
			wantErr: true,
		},
		{
			name: "event code already taken",
			event: &domain.Event{
				Name:      "Youth Night",
				EventCode: "wxyz22",
				OwnerID:   "user-1",
				CreatedAt: created,
				UpdatedAt: created,
			},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO events`).
					WillReturnError(&pq.Error{Code: "23505", Constraint: "events_event_code_key"})
			},
			wantErr:   true,
			wantErrIs: domain.ErrDuplicateEventCode,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewEventRepository(db)
			err = repo.Create(ctx, tt.event)
			if tt.wantErr {
				require.Error(t, err)
				if tt.wantErrIs != nil {
					require.ErrorIs(t, err, tt.wantErrIs)
				}
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.wantID, tt.event.ID)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestEventRepository_GetByID(t *testing.T) {
	ctx := context.Background()
	ts := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	startsOn := time.Date(2025, 3, 8, 0, 0, 0, 0, time.UTC)
	venue := "Main Sanctuary"

	tests := []struct {
		name    string
		id      string
		mock    func(mock sqlmock.Sqlmock)
		want    *domain.Event
		wantErr error
	}{
		{
			name: "success with nullable columns",
			id:   "ev-1",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT id, name, event_code, owner_id, starts_on`).
					WithArgs("ev-1").
					WillReturnRows(sqlmock.NewRows(eventRowColumns).
						AddRow("ev-1", "Easter Sunday", "abcd", "user-1", startsOn, nil, nil, venue, nil, nil, ts, ts))
			},
			want: &domain.Event{
				ID:        "ev-1",
				Name:      "Easter Sunday",
				EventCode: "abcd",
				OwnerID:   "user-1",
				StartsOn:  &startsOn,
				Venue:     &venue,
				CreatedAt: ts,
				UpdatedAt: ts,
			},
		},
		{
			name: "not found",
			id:   "ev-missing",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT id, name, event_code, owner_id, starts_on`).
					WithArgs("ev-missing").
					WillReturnError(sql.ErrNoRows)
			},
			wantErr: domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewEventRepository(db)
			got, err := repo.GetByID(ctx, tt.id)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				require.Nil(t, got)
				require.NoError(t, mock.ExpectationsWereMet())
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestEventRepository_GetByEventCode_NormalizesCode(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	ts := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`FROM events WHERE event_code = \$1`).
		WithArgs("abcd").
		WillReturnRows(sqlmock.NewRows(eventRowColumns).
			AddRow("ev-1", "Easter Sunday", "abcd", "user-1", nil, nil, nil, nil, nil, nil, ts, ts))

	got, err := NewEventRepository(db).GetByEventCode(context.Background(), "  ABCD ")
	require.NoError(t, err)
	require.Equal(t, "ev-1", got.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepository_ListByOwnerID(t *testing.T) {
	ctx := context.Background()
	d1 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		ownerID string
		mock    func(mock sqlmock.Sqlmock)
		want    []*domain.Event
		wantErr bool
	}{
		{
			name:    "success multiple",
			ownerID: "user-1",
			mock: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows(eventRowColumns).
					AddRow("ev-1", "Retreat", "abcd", "user-1", nil, nil, nil, nil, nil, nil, d1, d1).
					AddRow("ev-2", "Revival", "wxyz", "user-1", nil, nil, nil, nil, nil, nil, d2, d2)
				mock.ExpectQuery(`FROM events WHERE owner_id = \$1`).
					WithArgs("user-1").
					WillReturnRows(rows)
			},
			want: []*domain.Event{
				{ID: "ev-1", Name: "Retreat", EventCode: "abcd", OwnerID: "user-1", CreatedAt: d1, UpdatedAt: d1},
				{ID: "ev-2", Name: "Revival", EventCode: "wxyz", OwnerID: "user-1", CreatedAt: d2, UpdatedAt: d2},
			},
		},
		{
			name:    "success empty",
			ownerID: "user-none",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`FROM events WHERE owner_id = \$1`).
					WithArgs("user-none").
					WillReturnRows(sqlmock.NewRows(eventRowColumns))
			},
			want: []*domain.Event{},
		},
		{
			name:    "db error",
			ownerID: "user-1",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`FROM events WHERE owner_id = \$1`).
					WithArgs("user-1").
					WillReturnError(sql.ErrConnDone)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewEventRepository(db)
			got, err := repo.ListByOwnerID(ctx, tt.ownerID)
			if tt.wantErr {
				require.Error(t, err)
				require.Nil(t, got)
				require.NoError(t, mock.ExpectationsWereMet())
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestEventRepository_ListStartingOn(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	day := time.Date(2025, 3, 8, 0, 0, 0, 0, time.UTC)
	ts := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`FROM events WHERE starts_on = \$1`).
		WithArgs("2025-03-08").
		WillReturnRows(sqlmock.NewRows(eventRowColumns).
			AddRow("ev-1", "Retreat", "abcd", "user-1", day, nil, nil, nil, nil, nil, ts, ts))

	got, err := NewEventRepository(db).ListStartingOn(context.Background(), day)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "ev-1", got[0].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepository_Update(t *testing.T) {
	ctx := context.Background()
	ts := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	name := "Harvest Festival"
	venue := "Parking Lot"

	tests := []struct {
		name    string
		upd     domain.EventUpdate
		mock    func(mock sqlmock.Sqlmock)
		wantErr error
	}{
		{
			name: "sets only provided fields",
			upd:  domain.EventUpdate{Name: &name, Venue: &venue},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`UPDATE events SET updated_at = NOW\(\), name = \$1, venue = \$2\s+WHERE id = \$3`).
					WithArgs(name, venue, "ev-1").
					WillReturnRows(sqlmock.NewRows(eventRowColumns).
						AddRow("ev-1", name, "abcd", "user-1", nil, nil, nil, venue, nil, nil, ts, ts))
			},
		},
		{
			name: "empty update reads current row",
			upd:  domain.EventUpdate{},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`FROM events WHERE id = \$1`).
					WithArgs("ev-1").
					WillReturnRows(sqlmock.NewRows(eventRowColumns).
						AddRow("ev-1", name, "abcd", "user-1", nil, nil, nil, venue, nil, nil, ts, ts))
			},
		},
		{
			name: "not found",
			upd:  domain.EventUpdate{Name: &name},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`UPDATE events SET`).
					WillReturnError(sql.ErrNoRows)
			},
			wantErr: domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			got, err := NewEventRepository(db).Update(ctx, "ev-1", tt.upd)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, name, got.Name)
			require.Equal(t, venue, *got.Venue)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestEventRepository_Delete(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		id         string
		mock       func(mock sqlmock.Sqlmock)
		wantErr    bool
		isNotFound bool
	}{
		{
			name: "success",
			id:   "ev-1",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`DELETE FROM events WHERE id = \$1`).
					WithArgs("ev-1").
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name: "not found",
			id:   "ev-missing",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`DELETE FROM events WHERE id = \$1`).
					WithArgs("ev-missing").
					WillReturnResult(sqlmock.NewResult(0, 0))
			},
			wantErr:    true,
			isNotFound: true,
		},
		{
			name: "db error",
			id:   "ev-1",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`DELETE FROM events`).
					WillReturnError(sql.ErrConnDone)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			err = NewEventRepository(db).Delete(ctx, tt.id)
			if tt.wantErr {
				require.Error(t, err)
				if tt.isNotFound {
					require.ErrorIs(t, err, domain.ErrNotFound)
				}
				return
			}
			require.NoError(t, err)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
