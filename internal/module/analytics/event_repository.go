package analytics

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/tsel-ticketmaster/tm-analytics/pkg/errors"
	"github.com/tsel-ticketmaster/tm-analytics/pkg/status"
)

type EventRepository interface {
	FindUpcomingPublished(ctx context.Context, now time.Time) ([]Event, error)
	FindWithCapacity(ctx context.Context) ([]Event, error)
}

type sqlCommand interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	PrepareContext(ctx context.Context, query string) (*sql.Stmt, error)
}

type eventRepository struct {
	logger *logrus.Logger
	db     *sql.DB
}

func NewEventRepository(logger *logrus.Logger, db *sql.DB) EventRepository {
	return &eventRepository{
		logger: logger,
		db:     db,
	}
}

// FindUpcomingPublished implements EventRepository. It returns published
// events that have not ended yet, ordered by start time then id.
func (r *eventRepository) FindUpcomingPublished(ctx context.Context, now time.Time) ([]Event, error) {
	var cmd sqlCommand = r.db

	query := `
		SELECT
			e.id, e.name, e.organizer_id, o.name, e.start_time, e.end_time, e.location, e.status, e.capacity, e.base_ticket_price
		FROM event e
		JOIN organizer o ON o.id = e.organizer_id
		WHERE
			e.status = $1
			AND e.end_time >= $2
		ORDER BY e.start_time ASC, e.id ASC
	`

	stmt, err := cmd.PrepareContext(ctx, query)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error()
		return nil, errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "an error occurred while getting bunch of upcoming event's properties")
	}
	defer stmt.Close()

	rows, err := stmt.QueryContext(ctx, EventStatusPublished, now)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error()
		return nil, errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "an error occurred while getting bunch of upcoming event's properties")
	}

	defer rows.Close()

	var data = make([]Event, 0)

	for rows.Next() {
		var e Event
		var capacity sql.NullInt64

		if err := rows.Scan(
			&e.ID, &e.Name, &e.OrganizerID, &e.OrganizerName, &e.StartTime, &e.EndTime, &e.Location, &e.Status, &capacity, &e.BaseTicketPrice,
		); err != nil {
			r.logger.WithContext(ctx).WithError(err).Error()
			return nil, errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "an error occurred while getting bunch of upcoming event's properties")
		}

		if capacity.Valid {
			e.Capacity = &capacity.Int64
		}

		data = append(data, e)
	}

	if err := rows.Err(); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error()
		return nil, errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "an error occurred while getting bunch of upcoming event's properties")
	}

	return data, nil
}

// FindWithCapacity implements EventRepository. Events without a defined
// positive capacity are not part of the result.
func (r *eventRepository) FindWithCapacity(ctx context.Context) ([]Event, error) {
	var cmd sqlCommand = r.db

	query := `
		SELECT
			e.id, e.name, e.status, e.capacity
		FROM event e
		WHERE
			e.capacity IS NOT NULL
			AND e.capacity > 0
		ORDER BY e.id ASC
	`

	stmt, err := cmd.PrepareContext(ctx, query)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error()
		return nil, errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "an error occurred while getting bunch of capacity-bearing event's properties")
	}
	defer stmt.Close()

	rows, err := stmt.QueryContext(ctx)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error()
		return nil, errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "an error occurred while getting bunch of capacity-bearing event's properties")
	}

	defer rows.Close()

	var data = make([]Event, 0)

	for rows.Next() {
		var e Event
		var capacity int64

		if err := rows.Scan(&e.ID, &e.Name, &e.Status, &capacity); err != nil {
			r.logger.WithContext(ctx).WithError(err).Error()
			return nil, errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "an error occurred while getting bunch of capacity-bearing event's properties")
		}

		e.Capacity = &capacity

		data = append(data, e)
	}

	if err := rows.Err(); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error()
		return nil, errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "an error occurred while getting bunch of capacity-bearing event's properties")
	}

	return data, nil
}
