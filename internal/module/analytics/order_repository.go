package analytics

import (
	"context"
	"database/sql"
	"net/http"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/tsel-ticketmaster/tm-analytics/pkg/errors"
	"github.com/tsel-ticketmaster/tm-analytics/pkg/status"
)

type OrderRepository interface {
	// CountByCustomer counts every order of the customer, paid or not.
	CountByCustomer(ctx context.Context, customerID int64) (int64, error)
	// SumPaidAmountByCustomer sums order totals over paid orders only. The
	// result is not valid when the customer has no paid order, defaulting to
	// zero is the caller's concern.
	SumPaidAmountByCustomer(ctx context.Context, customerID int64) (decimal.NullDecimal, error)
}

type orderRepository struct {
	logger *logrus.Logger
	db     *sql.DB
}

func NewOrderRepository(logger *logrus.Logger, db *sql.DB) OrderRepository {
	return &orderRepository{
		logger: logger,
		db:     db,
	}
}

// CountByCustomer implements OrderRepository.
func (r *orderRepository) CountByCustomer(ctx context.Context, customerID int64) (int64, error) {
	var cmd sqlCommand = r.db

	query := `
		SELECT
			COUNT(id)
		FROM customer_order
		WHERE
			customer_id = $1
	`

	stmt, err := cmd.PrepareContext(ctx, query)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error()
		return 0, errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "an error occurred while counting customer's orders")
	}
	defer stmt.Close()

	row := stmt.QueryRowContext(ctx, customerID)

	var count int64
	if err := row.Scan(&count); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error()
		return 0, errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "an error occurred while counting customer's orders")
	}

	return count, nil
}

// SumPaidAmountByCustomer implements OrderRepository.
func (r *orderRepository) SumPaidAmountByCustomer(ctx context.Context, customerID int64) (decimal.NullDecimal, error) {
	var cmd sqlCommand = r.db

	query := `
		SELECT
			SUM(total_amount)
		FROM customer_order
		WHERE
			customer_id = $1
			AND is_paid = TRUE
	`

	stmt, err := cmd.PrepareContext(ctx, query)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error()
		return decimal.NullDecimal{}, errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "an error occurred while summing customer's paid orders")
	}
	defer stmt.Close()

	row := stmt.QueryRowContext(ctx, customerID)

	var amount decimal.NullDecimal
	if err := row.Scan(&amount); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error()
		return decimal.NullDecimal{}, errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "an error occurred while summing customer's paid orders")
	}

	return amount, nil
}
