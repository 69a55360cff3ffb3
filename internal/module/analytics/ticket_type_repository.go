package analytics

import (
	"context"
	"database/sql"
	"net/http"

	"github.com/sirupsen/logrus"
	"github.com/tsel-ticketmaster/tm-analytics/pkg/errors"
	"github.com/tsel-ticketmaster/tm-analytics/pkg/status"
)

type TicketTypeRepository interface {
	FindAll(ctx context.Context) ([]TicketType, error)
}

type ticketTypeRepository struct {
	logger *logrus.Logger
	db     *sql.DB
}

func NewTicketTypeRepository(logger *logrus.Logger, db *sql.DB) TicketTypeRepository {
	return &ticketTypeRepository{
		logger: logger,
		db:     db,
	}
}

// FindAll implements TicketTypeRepository.
func (r *ticketTypeRepository) FindAll(ctx context.Context) ([]TicketType, error) {
	var cmd sqlCommand = r.db

	query := `
		SELECT
			tt.id, tt.event_id, e.name, tt.name, tt.price, tt.quantity_available, tt.is_active
		FROM ticket_type tt
		JOIN event e ON e.id = tt.event_id
		ORDER BY tt.id ASC
	`

	stmt, err := cmd.PrepareContext(ctx, query)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error()
		return nil, errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "an error occurred while getting bunch of ticket type's properties")
	}
	defer stmt.Close()

	rows, err := stmt.QueryContext(ctx)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error()
		return nil, errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "an error occurred while getting bunch of ticket type's properties")
	}

	defer rows.Close()

	var data = make([]TicketType, 0)

	for rows.Next() {
		var tt TicketType

		if err := rows.Scan(
			&tt.ID, &tt.EventID, &tt.EventName, &tt.Name, &tt.Price, &tt.QuantityAvailable, &tt.IsActive,
		); err != nil {
			r.logger.WithContext(ctx).WithError(err).Error()
			return nil, errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "an error occurred while getting bunch of ticket type's properties")
		}

		data = append(data, tt)
	}

	if err := rows.Err(); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error()
		return nil, errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "an error occurred while getting bunch of ticket type's properties")
	}

	return data, nil
}
