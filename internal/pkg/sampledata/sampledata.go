package sampledata

import (
	"context"
	"database/sql"
	"fmt"
	"math/rand"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/tsel-ticketmaster/tm-analytics/pkg/errors"
	"github.com/tsel-ticketmaster/tm-analytics/pkg/status"
)

const (
	organizerCount  = 3
	customerCount   = 10
	eventCount      = 5
	typesPerEvent   = 2
	orderCount      = 30
	maxLinesPerItem = 3
)

// Generator replaces the dataset with a fresh random sample so the analytics
// report has something to aggregate in development environments.
type Generator struct {
	logger *logrus.Logger
	db     *sql.DB
	rnd    *rand.Rand
}

func NewGenerator(logger *logrus.Logger, db *sql.DB, seed int64) *Generator {
	return &Generator{
		logger: logger,
		db:     db,
		rnd:    rand.New(rand.NewSource(seed)),
	}
}

func (g *Generator) Generate(ctx context.Context) error {
	tx, err := g.db.BeginTx(ctx, nil)
	if err != nil {
		g.logger.WithContext(ctx).WithError(err).Error()
		return errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "an error occurred trying to begin transaction")
	}

	if err := g.generate(ctx, tx); err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		g.logger.WithContext(ctx).WithError(err).Error()
		return errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "an error occurred trying to commit transaction")
	}

	return nil
}

func (g *Generator) generate(ctx context.Context, tx *sql.Tx) error {
	// Children first, the schema protects ticket types that have purchases.
	truncates := []string{
		"DELETE FROM ticket_purchase",
		"DELETE FROM customer_order",
		"DELETE FROM ticket_type",
		"DELETE FROM event",
		"DELETE FROM customer",
		"DELETE FROM organizer",
	}
	for _, q := range truncates {
		if _, err := tx.ExecContext(ctx, q); err != nil {
			g.logger.WithContext(ctx).WithError(err).Error()
			return errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "an error occurred while clearing sample data")
		}
	}

	organizerIDs := make([]int64, 0, organizerCount)
	for i := 0; i < organizerCount; i++ {
		var id int64
		err := tx.QueryRowContext(ctx,
			`INSERT INTO organizer (name, contact_email, description) VALUES ($1, $2, $3) RETURNING id`,
			fmt.Sprintf("Organizer %d", i), fmt.Sprintf("organizer%d@example.com", i), "",
		).Scan(&id)
		if err != nil {
			g.logger.WithContext(ctx).WithError(err).Error()
			return errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "an error occurred while saving organizer's sample properties")
		}
		organizerIDs = append(organizerIDs, id)
	}

	customerIDs := make([]int64, 0, customerCount)
	for i := 0; i < customerCount; i++ {
		var id int64
		err := tx.QueryRowContext(ctx,
			`INSERT INTO customer (name, email) VALUES ($1, $2) RETURNING id`,
			fmt.Sprintf("Customer %d", i), fmt.Sprintf("customer%d@example.com", i),
		).Scan(&id)
		if err != nil {
			g.logger.WithContext(ctx).WithError(err).Error()
			return errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "an error occurred while saving customer's sample properties")
		}
		customerIDs = append(customerIDs, id)
	}

	capacities := []interface{}{nil, int64(100), int64(200)}

	type sampleTicketType struct {
		id    int64
		price decimal.Decimal
	}
	ticketTypes := make([]sampleTicketType, 0, eventCount*typesPerEvent)

	for i := 0; i < eventCount; i++ {
		start := time.Now().AddDate(0, 0, 1+g.rnd.Intn(30))
		end := start.Add(2 * time.Hour)

		var eventID int64
		err := tx.QueryRowContext(ctx,
			`INSERT INTO event (name, organizer_id, start_time, end_time, location, status, capacity, base_ticket_price)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`,
			fmt.Sprintf("Event %d", i),
			organizerIDs[g.rnd.Intn(len(organizerIDs))],
			start, end,
			fmt.Sprintf("Location %d", i),
			"PUBLISHED",
			capacities[g.rnd.Intn(len(capacities))],
			decimal.NewFromInt(int64(10+g.rnd.Intn(91))),
		).Scan(&eventID)
		if err != nil {
			g.logger.WithContext(ctx).WithError(err).Error()
			return errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "an error occurred while saving event's sample properties")
		}

		for j := 0; j < typesPerEvent; j++ {
			price := decimal.NewFromInt(int64(10 + g.rnd.Intn(91)))

			var ticketTypeID int64
			err := tx.QueryRowContext(ctx,
				`INSERT INTO ticket_type (event_id, name, price, quantity_available, is_active)
				 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
				eventID, fmt.Sprintf("Type %d", j), price, 10+g.rnd.Intn(191), true,
			).Scan(&ticketTypeID)
			if err != nil {
				g.logger.WithContext(ctx).WithError(err).Error()
				return errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "an error occurred while saving ticket type's sample properties")
			}

			ticketTypes = append(ticketTypes, sampleTicketType{id: ticketTypeID, price: price})
		}
	}

	for i := 0; i < orderCount; i++ {
		isPaid := g.rnd.Intn(2) == 0

		var orderID int64
		err := tx.QueryRowContext(ctx,
			`INSERT INTO customer_order (customer_id, order_date, total_amount, is_paid)
			 VALUES ($1, $2, $3, $4) RETURNING id`,
			customerIDs[g.rnd.Intn(len(customerIDs))], time.Now(), decimal.Zero, isPaid,
		).Scan(&orderID)
		if err != nil {
			g.logger.WithContext(ctx).WithError(err).Error()
			return errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "an error occurred while saving order's sample properties")
		}

		total := decimal.Zero
		lines := 1 + g.rnd.Intn(maxLinesPerItem)
		for j := 0; j < lines; j++ {
			tt := ticketTypes[g.rnd.Intn(len(ticketTypes))]
			quantity := int64(1 + g.rnd.Intn(5))

			_, err := tx.ExecContext(ctx,
				`INSERT INTO ticket_purchase (order_id, ticket_type_id, quantity, purchase_price_per_unit)
				 VALUES ($1, $2, $3, $4)`,
				orderID, tt.id, quantity, tt.price,
			)
			if err != nil {
				g.logger.WithContext(ctx).WithError(err).Error()
				return errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "an error occurred while saving ticket purchase's sample properties")
			}

			total = total.Add(tt.price.Mul(decimal.NewFromInt(quantity)))
		}

		_, err = tx.ExecContext(ctx,
			`UPDATE customer_order SET total_amount = $1 WHERE id = $2`,
			total, orderID,
		)
		if err != nil {
			g.logger.WithContext(ctx).WithError(err).Error()
			return errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "an error occurred while saving order's sample properties")
		}
	}

	return nil
}
