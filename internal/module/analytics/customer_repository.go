package analytics

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"
	"github.com/tsel-ticketmaster/tm-analytics/pkg/errors"
	"github.com/tsel-ticketmaster/tm-analytics/pkg/status"
)

type CustomerRepository interface {
	FindByID(ctx context.Context, ID int64) (Customer, error)
}

type customerRepository struct {
	logger *logrus.Logger
	db     *sql.DB
}

func NewCustomerRepository(logger *logrus.Logger, db *sql.DB) CustomerRepository {
	return &customerRepository{
		logger: logger,
		db:     db,
	}
}

// FindByID implements CustomerRepository.
func (r *customerRepository) FindByID(ctx context.Context, ID int64) (Customer, error) {
	var cmd sqlCommand = r.db

	query := `
		SELECT
			id, name, email
		FROM customer
		WHERE
			id = $1
		LIMIT 1
	`

	stmt, err := cmd.PrepareContext(ctx, query)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error()
		return Customer{}, errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "an error occurred while getting customer's properties")
	}
	defer stmt.Close()

	row := stmt.QueryRowContext(ctx, ID)

	var data Customer
	if err := row.Scan(&data.ID, &data.Name, &data.Email); err != nil {
		if err == sql.ErrNoRows {
			return Customer{}, errors.New(http.StatusNotFound, status.NOT_FOUND, fmt.Sprintf("customer's properties with id '%d' is not found", ID))
		}
		r.logger.WithContext(ctx).WithError(err).Error()
		return Customer{}, errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "an error occurred while getting customer's properties")
	}

	return data, nil
}
