package analytics

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/tsel-ticketmaster/tm-analytics/pkg/errors"
	"github.com/tsel-ticketmaster/tm-analytics/pkg/status"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// AnalyticsUseCase is the read-only aggregation layer over the ticketing
// dataset. Every operation either returns a fully populated result or an
// error, a legitimate absence of data (no sales yet, unknown capacity) is
// expressed as zero or nil fields, never as an error.
type AnalyticsUseCase interface {
	GetUpcomingEventsSummary(ctx context.Context) (GetUpcomingEventsSummaryResponse, error)
	GetTopSellingTicketTypes(ctx context.Context, req GetTopSellingTicketTypesRequest) (GetTopSellingTicketTypesResponse, error)
	GetCustomerPurchaseStatistics(ctx context.Context, req GetCustomerPurchaseStatisticsRequest) (PurchaseStats, error)
	GetEventsWithLowCapacityRemaining(ctx context.Context, req GetEventsWithLowCapacityRemainingRequest) (GetEventsWithLowCapacityRemainingResponse, error)
}

type analyticsUseCase struct {
	logger               *logrus.Logger
	timeout              time.Duration
	validate             *validator.Validate
	tracer               trace.Tracer
	eventRepository      EventRepository
	ticketTypeRepository TicketTypeRepository
	purchaseRepository   PurchaseRepository
	orderRepository      OrderRepository
	customerRepository   CustomerRepository
}

type AnalyticsUseCaseProperty struct {
	Logger               *logrus.Logger
	Timeout              time.Duration
	Validate             *validator.Validate
	EventRepository      EventRepository
	TicketTypeRepository TicketTypeRepository
	PurchaseRepository   PurchaseRepository
	OrderRepository      OrderRepository
	CustomerRepository   CustomerRepository
}

func NewAnalyticsUseCase(props AnalyticsUseCaseProperty) AnalyticsUseCase {
	return &analyticsUseCase{
		logger:               props.Logger,
		timeout:              props.Timeout,
		validate:             props.Validate,
		tracer:               otel.Tracer("analytics"),
		eventRepository:      props.EventRepository,
		ticketTypeRepository: props.TicketTypeRepository,
		purchaseRepository:   props.PurchaseRepository,
		orderRepository:      props.OrderRepository,
		customerRepository:   props.CustomerRepository,
	}
}

func (u *analyticsUseCase) validateRequest(ctx context.Context, payload interface{}) error {
	err := u.validate.StructCtx(ctx, payload)
	if err == nil {
		return nil
	}

	errorFields := err.(validator.ValidationErrors)

	errMessages := make([]string, len(errorFields))

	for k, errorField := range errorFields {
		errMessages[k] = fmt.Sprintf("invalid '%s' with value '%v'", errorField.Field(), errorField.Value())
	}

	return errors.New(http.StatusBadRequest, status.BAD_REQUEST, strings.Join(errMessages, ", "))
}

// GetUpcomingEventsSummary implements AnalyticsUseCase. It issues one query
// for the events and one batched sales query, the result size does not change
// the query count.
func (u *analyticsUseCase) GetUpcomingEventsSummary(ctx context.Context) (GetUpcomingEventsSummaryResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()

	ctx, span := u.tracer.Start(ctx, "AnalyticsUseCase.GetUpcomingEventsSummary")
	defer span.End()

	events, err := u.eventRepository.FindUpcomingPublished(ctx, time.Now())
	if err != nil {
		return nil, err
	}

	eventIDs := make([]int64, len(events))
	for k, e := range events {
		eventIDs[k] = e.ID
	}

	sales, err := u.purchaseRepository.SumSalesByEvent(ctx, eventIDs)
	if err != nil {
		return nil, err
	}

	salesByEvent := make(map[int64]EventSales, len(sales))
	for _, s := range sales {
		salesByEvent[s.EventID] = s
	}

	resp := make(GetUpcomingEventsSummaryResponse, len(events))
	for k, e := range events {
		// Events without any sale have no aggregate row; the zero value
		// yields 0 units and 0.00 revenue.
		s := salesByEvent[e.ID]

		summary := EventSummary{}
		summary.PopulateFromEntity(e)
		summary.TotalTicketsSold = s.UnitsSold
		summary.TotalRevenue = s.Revenue.Round(2)

		if e.Capacity != nil {
			remaining := *e.Capacity - s.UnitsSold
			if remaining < 0 {
				remaining = 0
			}
			summary.TicketsRemaining = &remaining
		}

		resp[k] = summary
	}

	return resp, nil
}

// GetTopSellingTicketTypes implements AnalyticsUseCase. Ticket types without
// sales are ranked with zero units rather than excluded. Ordering is units
// sold descending with ties broken by ticket type id ascending.
func (u *analyticsUseCase) GetTopSellingTicketTypes(ctx context.Context, req GetTopSellingTicketTypesRequest) (GetTopSellingTicketTypesResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()

	ctx, span := u.tracer.Start(ctx, "AnalyticsUseCase.GetTopSellingTicketTypes")
	defer span.End()

	if req.Limit <= 0 {
		return GetTopSellingTicketTypesResponse{}, nil
	}

	types, err := u.ticketTypeRepository.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	sales, err := u.purchaseRepository.SumSalesByTicketType(ctx)
	if err != nil {
		return nil, err
	}

	unitsByType := make(map[int64]int64, len(sales))
	for _, s := range sales {
		unitsByType[s.TicketTypeID] = s.UnitsSold
	}

	ranks := make(GetTopSellingTicketTypesResponse, len(types))
	for k, tt := range types {
		rank := TicketTypeRank{}
		rank.PopulateFromEntity(tt)
		rank.UnitsSold = unitsByType[tt.ID]
		ranks[k] = rank
	}

	sort.SliceStable(ranks, func(i, j int) bool {
		if ranks[i].UnitsSold != ranks[j].UnitsSold {
			return ranks[i].UnitsSold > ranks[j].UnitsSold
		}
		return ranks[i].ID < ranks[j].ID
	})

	limit := req.Limit
	if limit > int64(len(ranks)) {
		limit = int64(len(ranks))
	}

	return ranks[:limit], nil
}

// GetCustomerPurchaseStatistics implements AnalyticsUseCase. An unknown
// customer id fails with a not-found error instead of zero statistics, so a
// mistyped id is never mistaken for a customer without purchases.
func (u *analyticsUseCase) GetCustomerPurchaseStatistics(ctx context.Context, req GetCustomerPurchaseStatisticsRequest) (PurchaseStats, error) {
	ctx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()

	ctx, span := u.tracer.Start(ctx, "AnalyticsUseCase.GetCustomerPurchaseStatistics")
	defer span.End()

	if err := u.validateRequest(ctx, req); err != nil {
		return PurchaseStats{}, err
	}

	customer, err := u.customerRepository.FindByID(ctx, req.CustomerID)
	if err != nil {
		return PurchaseStats{}, err
	}

	totalOrders, err := u.orderRepository.CountByCustomer(ctx, customer.ID)
	if err != nil {
		return PurchaseStats{}, err
	}

	paidAmount, err := u.orderRepository.SumPaidAmountByCustomer(ctx, customer.ID)
	if err != nil {
		return PurchaseStats{}, err
	}

	stats := PurchaseStats{
		CustomerID:        customer.ID,
		TotalOrdersPlaced: totalOrders,
		TotalAmountSpent:  decimal.Zero.Round(2),
	}
	if paidAmount.Valid {
		stats.TotalAmountSpent = paidAmount.Decimal.Round(2)
	}

	eventSales, err := u.purchaseRepository.SumSalesByEventForCustomer(ctx, customer.ID)
	if err != nil {
		return PurchaseStats{}, err
	}

	if len(eventSales) > 0 {
		name := eventSales[0].EventName
		stats.MostPurchasedEventName = &name
	}

	return stats, nil
}

// GetEventsWithLowCapacityRemaining implements AnalyticsUseCase. Only events
// with a defined positive capacity participate. The remaining percentage is
// computed with decimal arithmetic and clamped at zero for oversold events.
func (u *analyticsUseCase) GetEventsWithLowCapacityRemaining(ctx context.Context, req GetEventsWithLowCapacityRemainingRequest) (GetEventsWithLowCapacityRemainingResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()

	ctx, span := u.tracer.Start(ctx, "AnalyticsUseCase.GetEventsWithLowCapacityRemaining")
	defer span.End()

	if err := u.validateRequest(ctx, req); err != nil {
		return nil, err
	}

	events, err := u.eventRepository.FindWithCapacity(ctx)
	if err != nil {
		return nil, err
	}

	eventIDs := make([]int64, len(events))
	for k, e := range events {
		eventIDs[k] = e.ID
	}

	sales, err := u.purchaseRepository.SumSalesByEvent(ctx, eventIDs)
	if err != nil {
		return nil, err
	}

	unitsByEvent := make(map[int64]int64, len(sales))
	for _, s := range sales {
		unitsByEvent[s.EventID] = s.UnitsSold
	}

	threshold := decimal.NewFromFloat(req.ThresholdPercentage)
	hundred := decimal.NewFromInt(100)

	resp := make(GetEventsWithLowCapacityRemainingResponse, 0, len(events))
	for _, e := range events {
		remaining := *e.Capacity - unitsByEvent[e.ID]
		if remaining < 0 {
			remaining = 0
		}

		percentage := decimal.NewFromInt(remaining).Mul(hundred).DivRound(decimal.NewFromInt(*e.Capacity), 4)

		if percentage.LessThanOrEqual(threshold) {
			resp = append(resp, LowCapacityEvent{
				ID:                         e.ID,
				Name:                       e.Name,
				PercentageTicketsRemaining: percentage,
			})
		}
	}

	sort.SliceStable(resp, func(i, j int) bool {
		if !resp[i].PercentageTicketsRemaining.Equal(resp[j].PercentageTicketsRemaining) {
			return resp[i].PercentageTicketsRemaining.LessThan(resp[j].PercentageTicketsRemaining)
		}
		return resp[i].ID < resp[j].ID
	})

	return resp, nil
}
