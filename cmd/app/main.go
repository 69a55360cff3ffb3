package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/tsel-ticketmaster/tm-analytics/config"
	"github.com/tsel-ticketmaster/tm-analytics/internal/module/analytics"
	"github.com/tsel-ticketmaster/tm-analytics/internal/pkg/sampledata"
	"github.com/tsel-ticketmaster/tm-analytics/pkg/applogger"
	"github.com/tsel-ticketmaster/tm-analytics/pkg/monitoring"
	"github.com/tsel-ticketmaster/tm-analytics/pkg/postgresql"
	"github.com/tsel-ticketmaster/tm-analytics/pkg/validator"
)

var c *config.Config

func init() {
	c = config.Get()
}

type report struct {
	UpcomingEvents     analytics.GetUpcomingEventsSummaryResponse          `json:"upcoming_events"`
	TopSellingTickets  analytics.GetTopSellingTicketTypesResponse          `json:"top_selling_ticket_types"`
	LowCapacityEvents  analytics.GetEventsWithLowCapacityRemainingResponse `json:"low_capacity_events"`
	CustomerStatistics *analytics.PurchaseStats                            `json:"customer_statistics,omitempty"`
}

func main() {
	seed := flag.Bool("seed", false, "regenerate the sample dataset before running the report")
	customerID := flag.Int64("customer", 0, "include purchase statistics for this customer id")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger := applogger.GetLogrus()

	// Failures return through run so the monitoring and database teardown
	// deferred there still execute before the process exits.
	if err := run(ctx, logger, *seed, *customerID); err != nil {
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *logrus.Logger, seed bool, customerID int64) error {
	mon := monitoring.NewOpenTelemetry(
		logger,
		c.Application.Name,
		c.Application.Environment,
		c.OpenTelemetry.Endpoint,
	)

	mon.Start(ctx)
	defer mon.Stop(ctx)

	psqldb := postgresql.GetDatabase()
	defer psqldb.Close()
	if err := psqldb.Ping(); err != nil {
		logger.WithContext(ctx).WithError(err).Error("postgresql is not reachable")
		return err
	}

	if seed {
		generator := sampledata.NewGenerator(logger, psqldb, time.Now().UnixNano())
		if err := generator.Generate(ctx); err != nil {
			logger.WithContext(ctx).WithError(err).Error("sample data generation failed")
			return err
		}
		logger.WithContext(ctx).Info("sample data generated")
	}

	validate := validator.Get()

	eventRepo := analytics.NewEventRepository(logger, psqldb)
	ticketTypeRepo := analytics.NewTicketTypeRepository(logger, psqldb)
	purchaseRepo := analytics.NewPurchaseRepository(logger, psqldb)
	orderRepo := analytics.NewOrderRepository(logger, psqldb)
	customerRepo := analytics.NewCustomerRepository(logger, psqldb)

	useCase := analytics.NewAnalyticsUseCase(analytics.AnalyticsUseCaseProperty{
		Logger:               logger,
		Timeout:              c.Application.Timeout,
		Validate:             validate,
		EventRepository:      eventRepo,
		TicketTypeRepository: ticketTypeRepo,
		PurchaseRepository:   purchaseRepo,
		OrderRepository:      orderRepo,
		CustomerRepository:   customerRepo,
	})

	var out report
	var err error

	out.UpcomingEvents, err = useCase.GetUpcomingEventsSummary(ctx)
	if err != nil {
		logger.WithContext(ctx).WithError(err).Error("upcoming events summary failed")
		return err
	}

	out.TopSellingTickets, err = useCase.GetTopSellingTicketTypes(ctx, analytics.GetTopSellingTicketTypesRequest{
		Limit: analytics.DefaultTopSellingLimit,
	})
	if err != nil {
		logger.WithContext(ctx).WithError(err).Error("top selling ticket types failed")
		return err
	}

	out.LowCapacityEvents, err = useCase.GetEventsWithLowCapacityRemaining(ctx, analytics.GetEventsWithLowCapacityRemainingRequest{
		ThresholdPercentage: analytics.DefaultLowCapacityThreshold,
	})
	if err != nil {
		logger.WithContext(ctx).WithError(err).Error("low capacity events failed")
		return err
	}

	if customerID > 0 {
		stats, err := useCase.GetCustomerPurchaseStatistics(ctx, analytics.GetCustomerPurchaseStatisticsRequest{
			CustomerID: customerID,
		})
		if err != nil {
			logger.WithContext(ctx).WithError(err).Error("customer purchase statistics failed")
			return err
		}
		out.CustomerStatistics = &stats
	}

	buff, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		logger.WithContext(ctx).WithError(err).Error("report serialization failed")
		return err
	}

	fmt.Println(string(buff))

	return nil
}
