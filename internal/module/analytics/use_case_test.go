package analytics

import (
	"context"
	"net/http"
	"testing"
	"time"

	validator "github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tsel-ticketmaster/tm-analytics/pkg/errors"
	"github.com/tsel-ticketmaster/tm-analytics/pkg/status"
)

type mockEventRepository struct {
	mock.Mock
}

func (m *mockEventRepository) FindUpcomingPublished(ctx context.Context, now time.Time) ([]Event, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Event), args.Error(1)
}

func (m *mockEventRepository) FindWithCapacity(ctx context.Context) ([]Event, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Event), args.Error(1)
}

type mockTicketTypeRepository struct {
	mock.Mock
}

func (m *mockTicketTypeRepository) FindAll(ctx context.Context) ([]TicketType, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]TicketType), args.Error(1)
}

type mockPurchaseRepository struct {
	mock.Mock
}

func (m *mockPurchaseRepository) SumSalesByEvent(ctx context.Context, eventIDs []int64) ([]EventSales, error) {
	args := m.Called(ctx, eventIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]EventSales), args.Error(1)
}

func (m *mockPurchaseRepository) SumSalesByTicketType(ctx context.Context) ([]TicketTypeSales, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]TicketTypeSales), args.Error(1)
}

func (m *mockPurchaseRepository) SumSalesByEventForCustomer(ctx context.Context, customerID int64) ([]CustomerEventSales, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]CustomerEventSales), args.Error(1)
}

type mockOrderRepository struct {
	mock.Mock
}

func (m *mockOrderRepository) CountByCustomer(ctx context.Context, customerID int64) (int64, error) {
	args := m.Called(ctx, customerID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockOrderRepository) SumPaidAmountByCustomer(ctx context.Context, customerID int64) (decimal.NullDecimal, error) {
	args := m.Called(ctx, customerID)
	return args.Get(0).(decimal.NullDecimal), args.Error(1)
}

type mockCustomerRepository struct {
	mock.Mock
}

func (m *mockCustomerRepository) FindByID(ctx context.Context, ID int64) (Customer, error) {
	args := m.Called(ctx, ID)
	return args.Get(0).(Customer), args.Error(1)
}

type useCaseMocks struct {
	event      *mockEventRepository
	ticketType *mockTicketTypeRepository
	purchase   *mockPurchaseRepository
	order      *mockOrderRepository
	customer   *mockCustomerRepository
}

func newUseCase() (AnalyticsUseCase, useCaseMocks) {
	m := useCaseMocks{
		event:      &mockEventRepository{},
		ticketType: &mockTicketTypeRepository{},
		purchase:   &mockPurchaseRepository{},
		order:      &mockOrderRepository{},
		customer:   &mockCustomerRepository{},
	}

	uc := NewAnalyticsUseCase(AnalyticsUseCaseProperty{
		Logger:               logrus.New(),
		Timeout:              5 * time.Second,
		Validate:             validator.New(),
		EventRepository:      m.event,
		TicketTypeRepository: m.ticketType,
		PurchaseRepository:   m.purchase,
		OrderRepository:      m.order,
		CustomerRepository:   m.customer,
	})

	return uc, m
}

func int64Ptr(v int64) *int64 {
	return &v
}

func TestGetUpcomingEventsSummary(t *testing.T) {
	uc, m := newUseCase()

	m.event.On("FindUpcomingPublished", mock.Anything, mock.Anything).Return([]Event{
		{ID: 1, Name: "Event 1", OrganizerName: "Organizer 0", Status: EventStatusPublished, Capacity: int64Ptr(50)},
	}, nil)
	m.purchase.On("SumSalesByEvent", mock.Anything, []int64{1}).Return([]EventSales{
		{EventID: 1, UnitsSold: 10, Revenue: decimal.RequireFromString("200.00")},
	}, nil)

	resp, err := uc.GetUpcomingEventsSummary(context.Background())

	require.NoError(t, err)
	require.Len(t, resp, 1)
	assert.Equal(t, int64(1), resp[0].EventID)
	assert.Equal(t, "Event 1", resp[0].EventName)
	assert.Equal(t, "Organizer 0", resp[0].OrganizerName)
	assert.Equal(t, int64(10), resp[0].TotalTicketsSold)
	assert.True(t, resp[0].TotalRevenue.Equal(decimal.RequireFromString("200.00")))
	require.NotNil(t, resp[0].TicketsRemaining)
	assert.Equal(t, int64(40), *resp[0].TicketsRemaining)

	m.event.AssertExpectations(t)
	m.purchase.AssertExpectations(t)
}

func TestGetUpcomingEventsSummary_NoSalesDefaultsToZero(t *testing.T) {
	uc, m := newUseCase()

	// The second event has no ticket types at all; neither has sales.
	m.event.On("FindUpcomingPublished", mock.Anything, mock.Anything).Return([]Event{
		{ID: 1, Name: "Event 1", Capacity: int64Ptr(100)},
		{ID: 2, Name: "Event 2", Capacity: int64Ptr(30)},
	}, nil)
	m.purchase.On("SumSalesByEvent", mock.Anything, []int64{1, 2}).Return([]EventSales{}, nil)

	resp, err := uc.GetUpcomingEventsSummary(context.Background())

	require.NoError(t, err)
	require.Len(t, resp, 2)
	for _, summary := range resp {
		assert.Equal(t, int64(0), summary.TotalTicketsSold)
		assert.True(t, summary.TotalRevenue.IsZero())
	}
	assert.Equal(t, int64(100), *resp[0].TicketsRemaining)
	assert.Equal(t, int64(30), *resp[1].TicketsRemaining)
}

func TestGetUpcomingEventsSummary_NilCapacityStaysNil(t *testing.T) {
	uc, m := newUseCase()

	m.event.On("FindUpcomingPublished", mock.Anything, mock.Anything).Return([]Event{
		{ID: 7, Name: "Open Air"},
	}, nil)
	m.purchase.On("SumSalesByEvent", mock.Anything, []int64{7}).Return([]EventSales{
		{EventID: 7, UnitsSold: 400, Revenue: decimal.RequireFromString("8000.00")},
	}, nil)

	resp, err := uc.GetUpcomingEventsSummary(context.Background())

	require.NoError(t, err)
	require.Len(t, resp, 1)
	assert.Nil(t, resp[0].TicketsRemaining)
	assert.Equal(t, int64(400), resp[0].TotalTicketsSold)
}

func TestGetUpcomingEventsSummary_OversoldClampsRemaining(t *testing.T) {
	uc, m := newUseCase()

	m.event.On("FindUpcomingPublished", mock.Anything, mock.Anything).Return([]Event{
		{ID: 3, Name: "Event 3", Capacity: int64Ptr(20)},
	}, nil)
	m.purchase.On("SumSalesByEvent", mock.Anything, []int64{3}).Return([]EventSales{
		{EventID: 3, UnitsSold: 25, Revenue: decimal.RequireFromString("500.00")},
	}, nil)

	resp, err := uc.GetUpcomingEventsSummary(context.Background())

	require.NoError(t, err)
	require.NotNil(t, resp[0].TicketsRemaining)
	assert.Equal(t, int64(0), *resp[0].TicketsRemaining)
}

func TestGetUpcomingEventsSummary_NoUpcomingEvents(t *testing.T) {
	uc, m := newUseCase()

	m.event.On("FindUpcomingPublished", mock.Anything, mock.Anything).Return([]Event{}, nil)
	m.purchase.On("SumSalesByEvent", mock.Anything, []int64{}).Return([]EventSales{}, nil)

	resp, err := uc.GetUpcomingEventsSummary(context.Background())

	require.NoError(t, err)
	assert.Empty(t, resp)
}

func TestGetUpcomingEventsSummary_StoreErrorPropagates(t *testing.T) {
	uc, m := newUseCase()

	storeErr := errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "an error occurred while getting bunch of upcoming event's properties")
	m.event.On("FindUpcomingPublished", mock.Anything, mock.Anything).Return(nil, storeErr)

	_, err := uc.GetUpcomingEventsSummary(context.Background())

	require.Error(t, err)
	assert.Equal(t, http.StatusInternalServerError, errors.Destruct(err).HTTPStatusCode)
}

func TestGetTopSellingTicketTypes(t *testing.T) {
	uc, m := newUseCase()

	m.ticketType.On("FindAll", mock.Anything).Return([]TicketType{
		{ID: 1, Name: "Early Bird", EventName: "Event 1"},
		{ID: 2, Name: "Regular", EventName: "Event 1"},
		{ID: 3, Name: "VIP", EventName: "Event 2"},
	}, nil)
	m.purchase.On("SumSalesByTicketType", mock.Anything).Return([]TicketTypeSales{
		{TicketTypeID: 2, UnitsSold: 12},
		{TicketTypeID: 3, UnitsSold: 4},
	}, nil)

	resp, err := uc.GetTopSellingTicketTypes(context.Background(), GetTopSellingTicketTypesRequest{Limit: 5})

	require.NoError(t, err)
	require.Len(t, resp, 3)
	assert.Equal(t, int64(2), resp[0].ID)
	assert.Equal(t, int64(12), resp[0].UnitsSold)
	assert.Equal(t, int64(3), resp[1].ID)
	assert.Equal(t, int64(4), resp[1].UnitsSold)
	// Zero sales ranks last, it is not excluded.
	assert.Equal(t, int64(1), resp[2].ID)
	assert.Equal(t, int64(0), resp[2].UnitsSold)
}

func TestGetTopSellingTicketTypes_TieBreaksByID(t *testing.T) {
	uc, m := newUseCase()

	m.ticketType.On("FindAll", mock.Anything).Return([]TicketType{
		{ID: 5, Name: "B", EventName: "Event 1"},
		{ID: 2, Name: "A", EventName: "Event 1"},
	}, nil)
	m.purchase.On("SumSalesByTicketType", mock.Anything).Return([]TicketTypeSales{
		{TicketTypeID: 5, UnitsSold: 9},
		{TicketTypeID: 2, UnitsSold: 9},
	}, nil)

	resp, err := uc.GetTopSellingTicketTypes(context.Background(), GetTopSellingTicketTypesRequest{Limit: 2})

	require.NoError(t, err)
	require.Len(t, resp, 2)
	assert.Equal(t, int64(2), resp[0].ID)
	assert.Equal(t, int64(5), resp[1].ID)
}

func TestGetTopSellingTicketTypes_LimitClampsToAvailable(t *testing.T) {
	uc, m := newUseCase()

	m.ticketType.On("FindAll", mock.Anything).Return([]TicketType{
		{ID: 1, Name: "Only", EventName: "Event 1"},
	}, nil)
	m.purchase.On("SumSalesByTicketType", mock.Anything).Return([]TicketTypeSales{}, nil)

	resp, err := uc.GetTopSellingTicketTypes(context.Background(), GetTopSellingTicketTypesRequest{Limit: 100})

	require.NoError(t, err)
	assert.Len(t, resp, 1)
}

func TestGetTopSellingTicketTypes_NonPositiveLimit(t *testing.T) {
	uc, m := newUseCase()

	resp, err := uc.GetTopSellingTicketTypes(context.Background(), GetTopSellingTicketTypesRequest{Limit: 0})

	require.NoError(t, err)
	assert.Empty(t, resp)
	m.ticketType.AssertNotCalled(t, "FindAll", mock.Anything)
	m.purchase.AssertNotCalled(t, "SumSalesByTicketType", mock.Anything)
}

func TestGetCustomerPurchaseStatistics(t *testing.T) {
	uc, m := newUseCase()

	m.customer.On("FindByID", mock.Anything, int64(1)).Return(Customer{ID: 1, Name: "Customer 1"}, nil)
	m.order.On("CountByCustomer", mock.Anything, int64(1)).Return(int64(3), nil)
	m.order.On("SumPaidAmountByCustomer", mock.Anything, int64(1)).Return(decimal.NullDecimal{
		Decimal: decimal.RequireFromString("150.00"),
		Valid:   true,
	}, nil)
	m.purchase.On("SumSalesByEventForCustomer", mock.Anything, int64(1)).Return([]CustomerEventSales{
		{EventID: 10, EventName: "Event A", UnitsSold: 5},
		{EventID: 11, EventName: "Event B", UnitsSold: 2},
	}, nil)

	stats, err := uc.GetCustomerPurchaseStatistics(context.Background(), GetCustomerPurchaseStatisticsRequest{CustomerID: 1})

	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalOrdersPlaced)
	assert.True(t, stats.TotalAmountSpent.Equal(decimal.RequireFromString("150.00")))
	require.NotNil(t, stats.MostPurchasedEventName)
	assert.Equal(t, "Event A", *stats.MostPurchasedEventName)
}

func TestGetCustomerPurchaseStatistics_OnlyUnpaidOrders(t *testing.T) {
	uc, m := newUseCase()

	m.customer.On("FindByID", mock.Anything, int64(4)).Return(Customer{ID: 4}, nil)
	m.order.On("CountByCustomer", mock.Anything, int64(4)).Return(int64(2), nil)
	m.order.On("SumPaidAmountByCustomer", mock.Anything, int64(4)).Return(decimal.NullDecimal{}, nil)
	m.purchase.On("SumSalesByEventForCustomer", mock.Anything, int64(4)).Return([]CustomerEventSales{}, nil)

	stats, err := uc.GetCustomerPurchaseStatistics(context.Background(), GetCustomerPurchaseStatisticsRequest{CustomerID: 4})

	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalOrdersPlaced)
	assert.True(t, stats.TotalAmountSpent.IsZero())
	assert.Nil(t, stats.MostPurchasedEventName)
}

func TestGetCustomerPurchaseStatistics_NoOrders(t *testing.T) {
	uc, m := newUseCase()

	m.customer.On("FindByID", mock.Anything, int64(9)).Return(Customer{ID: 9}, nil)
	m.order.On("CountByCustomer", mock.Anything, int64(9)).Return(int64(0), nil)
	m.order.On("SumPaidAmountByCustomer", mock.Anything, int64(9)).Return(decimal.NullDecimal{}, nil)
	m.purchase.On("SumSalesByEventForCustomer", mock.Anything, int64(9)).Return([]CustomerEventSales{}, nil)

	stats, err := uc.GetCustomerPurchaseStatistics(context.Background(), GetCustomerPurchaseStatisticsRequest{CustomerID: 9})

	require.NoError(t, err)
	assert.Equal(t, int64(0), stats.TotalOrdersPlaced)
	assert.True(t, stats.TotalAmountSpent.IsZero())
	assert.Nil(t, stats.MostPurchasedEventName)
}

func TestGetCustomerPurchaseStatistics_CustomerNotFound(t *testing.T) {
	uc, m := newUseCase()

	notFound := errors.New(http.StatusNotFound, status.NOT_FOUND, "customer's properties with id '99' is not found")
	m.customer.On("FindByID", mock.Anything, int64(99)).Return(Customer{}, notFound)

	_, err := uc.GetCustomerPurchaseStatistics(context.Background(), GetCustomerPurchaseStatisticsRequest{CustomerID: 99})

	require.Error(t, err)
	ae := errors.Destruct(err)
	assert.Equal(t, http.StatusNotFound, ae.HTTPStatusCode)
	assert.Equal(t, status.NOT_FOUND, ae.Status)
	m.order.AssertNotCalled(t, "CountByCustomer", mock.Anything, mock.Anything)
}

func TestGetCustomerPurchaseStatistics_InvalidCustomerID(t *testing.T) {
	uc, m := newUseCase()

	_, err := uc.GetCustomerPurchaseStatistics(context.Background(), GetCustomerPurchaseStatisticsRequest{CustomerID: 0})

	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, errors.Destruct(err).HTTPStatusCode)
	m.customer.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestGetEventsWithLowCapacityRemaining(t *testing.T) {
	uc, m := newUseCase()

	m.event.On("FindWithCapacity", mock.Anything).Return([]Event{
		{ID: 1, Name: "Nearly Full", Capacity: int64Ptr(100)},
		{ID: 2, Name: "Half Empty", Capacity: int64Ptr(100)},
	}, nil)
	m.purchase.On("SumSalesByEvent", mock.Anything, []int64{1, 2}).Return([]EventSales{
		{EventID: 1, UnitsSold: 95},
		{EventID: 2, UnitsSold: 50},
	}, nil)

	resp, err := uc.GetEventsWithLowCapacityRemaining(context.Background(), GetEventsWithLowCapacityRemainingRequest{ThresholdPercentage: 10})

	require.NoError(t, err)
	require.Len(t, resp, 1)
	assert.Equal(t, int64(1), resp[0].ID)
	assert.True(t, resp[0].PercentageTicketsRemaining.Equal(decimal.RequireFromString("5")))
}

func TestGetEventsWithLowCapacityRemaining_BoundaryIncluded(t *testing.T) {
	uc, m := newUseCase()

	m.event.On("FindWithCapacity", mock.Anything).Return([]Event{
		{ID: 1, Name: "On The Edge", Capacity: int64Ptr(100)},
	}, nil)
	m.purchase.On("SumSalesByEvent", mock.Anything, []int64{1}).Return([]EventSales{
		{EventID: 1, UnitsSold: 90},
	}, nil)

	resp, err := uc.GetEventsWithLowCapacityRemaining(context.Background(), GetEventsWithLowCapacityRemainingRequest{ThresholdPercentage: 10})

	require.NoError(t, err)
	require.Len(t, resp, 1)
	assert.True(t, resp[0].PercentageTicketsRemaining.Equal(decimal.RequireFromString("10")))
}

func TestGetEventsWithLowCapacityRemaining_OversoldClampsToZero(t *testing.T) {
	uc, m := newUseCase()

	m.event.On("FindWithCapacity", mock.Anything).Return([]Event{
		{ID: 1, Name: "Oversold", Capacity: int64Ptr(50)},
	}, nil)
	m.purchase.On("SumSalesByEvent", mock.Anything, []int64{1}).Return([]EventSales{
		{EventID: 1, UnitsSold: 60},
	}, nil)

	resp, err := uc.GetEventsWithLowCapacityRemaining(context.Background(), GetEventsWithLowCapacityRemainingRequest{ThresholdPercentage: 10})

	require.NoError(t, err)
	require.Len(t, resp, 1)
	assert.True(t, resp[0].PercentageTicketsRemaining.IsZero())
}

func TestGetEventsWithLowCapacityRemaining_SortsByPercentageThenID(t *testing.T) {
	uc, m := newUseCase()

	m.event.On("FindWithCapacity", mock.Anything).Return([]Event{
		{ID: 1, Name: "Five Percent", Capacity: int64Ptr(100)},
		{ID: 2, Name: "Two Percent", Capacity: int64Ptr(100)},
		{ID: 3, Name: "Also Two Percent", Capacity: int64Ptr(50)},
	}, nil)
	m.purchase.On("SumSalesByEvent", mock.Anything, []int64{1, 2, 3}).Return([]EventSales{
		{EventID: 1, UnitsSold: 95},
		{EventID: 2, UnitsSold: 98},
		{EventID: 3, UnitsSold: 49},
	}, nil)

	resp, err := uc.GetEventsWithLowCapacityRemaining(context.Background(), GetEventsWithLowCapacityRemainingRequest{ThresholdPercentage: 10})

	require.NoError(t, err)
	require.Len(t, resp, 3)
	assert.Equal(t, int64(2), resp[0].ID)
	assert.Equal(t, int64(3), resp[1].ID)
	assert.Equal(t, int64(1), resp[2].ID)
}

func TestGetEventsWithLowCapacityRemaining_ThresholdOutOfRange(t *testing.T) {
	uc, m := newUseCase()

	for _, threshold := range []float64{-1, 100.5} {
		_, err := uc.GetEventsWithLowCapacityRemaining(context.Background(), GetEventsWithLowCapacityRemainingRequest{ThresholdPercentage: threshold})

		require.Error(t, err)
		ae := errors.Destruct(err)
		assert.Equal(t, http.StatusBadRequest, ae.HTTPStatusCode)
		assert.Equal(t, status.BAD_REQUEST, ae.Status)
	}
	m.event.AssertNotCalled(t, "FindWithCapacity", mock.Anything)
}
