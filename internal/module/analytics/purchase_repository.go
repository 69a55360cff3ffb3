package analytics

import (
	"context"
	"database/sql"
	"net/http"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"github.com/tsel-ticketmaster/tm-analytics/pkg/errors"
	"github.com/tsel-ticketmaster/tm-analytics/pkg/status"
)

// PurchaseRepository aggregates ticket purchases. Every method joins through
// paid orders only, unpaid orders never reach any of the sums.
type PurchaseRepository interface {
	SumSalesByEvent(ctx context.Context, eventIDs []int64) ([]EventSales, error)
	SumSalesByTicketType(ctx context.Context) ([]TicketTypeSales, error)
	SumSalesByEventForCustomer(ctx context.Context, customerID int64) ([]CustomerEventSales, error)
}

type purchaseRepository struct {
	logger *logrus.Logger
	db     *sql.DB
}

func NewPurchaseRepository(logger *logrus.Logger, db *sql.DB) PurchaseRepository {
	return &purchaseRepository{
		logger: logger,
		db:     db,
	}
}

// SumSalesByEvent implements PurchaseRepository. The event id set is passed
// as a single array parameter so the call stays one query regardless of how
// many events are summarised.
func (r *purchaseRepository) SumSalesByEvent(ctx context.Context, eventIDs []int64) ([]EventSales, error) {
	var data = make([]EventSales, 0)

	if len(eventIDs) == 0 {
		return data, nil
	}

	var cmd sqlCommand = r.db

	query := `
		SELECT
			tt.event_id, SUM(tp.quantity), SUM(tp.quantity * tp.purchase_price_per_unit)
		FROM ticket_purchase tp
		JOIN ticket_type tt ON tt.id = tp.ticket_type_id
		JOIN customer_order co ON co.id = tp.order_id
		WHERE
			co.is_paid = TRUE
			AND tt.event_id = ANY($1)
		GROUP BY tt.event_id
	`

	stmt, err := cmd.PrepareContext(ctx, query)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error()
		return nil, errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "an error occurred while getting sales grouped by event")
	}
	defer stmt.Close()

	rows, err := stmt.QueryContext(ctx, pq.Array(eventIDs))
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error()
		return nil, errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "an error occurred while getting sales grouped by event")
	}

	defer rows.Close()

	for rows.Next() {
		var s EventSales

		if err := rows.Scan(&s.EventID, &s.UnitsSold, &s.Revenue); err != nil {
			r.logger.WithContext(ctx).WithError(err).Error()
			return nil, errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "an error occurred while getting sales grouped by event")
		}

		data = append(data, s)
	}

	if err := rows.Err(); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error()
		return nil, errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "an error occurred while getting sales grouped by event")
	}

	return data, nil
}

// SumSalesByTicketType implements PurchaseRepository. Ticket types without
// any paid purchase have no row here, defaulting is the caller's concern.
func (r *purchaseRepository) SumSalesByTicketType(ctx context.Context) ([]TicketTypeSales, error) {
	var cmd sqlCommand = r.db

	query := `
		SELECT
			tp.ticket_type_id, SUM(tp.quantity)
		FROM ticket_purchase tp
		JOIN customer_order co ON co.id = tp.order_id
		WHERE
			co.is_paid = TRUE
		GROUP BY tp.ticket_type_id
	`

	stmt, err := cmd.PrepareContext(ctx, query)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error()
		return nil, errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "an error occurred while getting sales grouped by ticket type")
	}
	defer stmt.Close()

	rows, err := stmt.QueryContext(ctx)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error()
		return nil, errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "an error occurred while getting sales grouped by ticket type")
	}

	defer rows.Close()

	var data = make([]TicketTypeSales, 0)

	for rows.Next() {
		var s TicketTypeSales

		if err := rows.Scan(&s.TicketTypeID, &s.UnitsSold); err != nil {
			r.logger.WithContext(ctx).WithError(err).Error()
			return nil, errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "an error occurred while getting sales grouped by ticket type")
		}

		data = append(data, s)
	}

	if err := rows.Err(); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error()
		return nil, errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "an error occurred while getting sales grouped by ticket type")
	}

	return data, nil
}

// SumSalesByEventForCustomer implements PurchaseRepository. Rows are ordered
// by units sold descending with ties broken by the lowest event id, so the
// first row is the customer's most purchased event.
func (r *purchaseRepository) SumSalesByEventForCustomer(ctx context.Context, customerID int64) ([]CustomerEventSales, error) {
	var cmd sqlCommand = r.db

	query := `
		SELECT
			e.id, e.name, SUM(tp.quantity) AS units_sold
		FROM ticket_purchase tp
		JOIN ticket_type tt ON tt.id = tp.ticket_type_id
		JOIN event e ON e.id = tt.event_id
		JOIN customer_order co ON co.id = tp.order_id
		WHERE
			co.is_paid = TRUE
			AND co.customer_id = $1
		GROUP BY e.id, e.name
		ORDER BY units_sold DESC, e.id ASC
	`

	stmt, err := cmd.PrepareContext(ctx, query)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error()
		return nil, errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "an error occurred while getting customer's sales grouped by event")
	}
	defer stmt.Close()

	rows, err := stmt.QueryContext(ctx, customerID)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error()
		return nil, errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "an error occurred while getting customer's sales grouped by event")
	}

	defer rows.Close()

	var data = make([]CustomerEventSales, 0)

	for rows.Next() {
		var s CustomerEventSales

		if err := rows.Scan(&s.EventID, &s.EventName, &s.UnitsSold); err != nil {
			r.logger.WithContext(ctx).WithError(err).Error()
			return nil, errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "an error occurred while getting customer's sales grouped by event")
		}

		data = append(data, s)
	}

	if err := rows.Err(); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error()
		return nil, errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "an error occurred while getting customer's sales grouped by event")
	}

	return data, nil
}
