package analytics

const (
	// DefaultTopSellingLimit mirrors the report's usual page of five entries.
	DefaultTopSellingLimit int64 = 5
	// DefaultLowCapacityThreshold is the percentage below which an event is
	// considered nearly sold out.
	DefaultLowCapacityThreshold float64 = 10
)

type GetTopSellingTicketTypesRequest struct {
	Limit int64
}

type GetCustomerPurchaseStatisticsRequest struct {
	CustomerID int64 `validate:"required,gt=0"`
}

type GetEventsWithLowCapacityRemainingRequest struct {
	ThresholdPercentage float64 `validate:"gte=0,lte=100"`
}
