package analytics

import "github.com/shopspring/decimal"

type GetUpcomingEventsSummaryResponse []EventSummary

type EventSummary struct {
	EventID          int64           `json:"event_id"`
	EventName        string          `json:"event_name"`
	TotalTicketsSold int64           `json:"total_tickets_sold"`
	TotalRevenue     decimal.Decimal `json:"total_revenue"`
	TicketsRemaining *int64          `json:"tickets_remaining"`
	OrganizerName    string          `json:"organizer_name"`
}

func (s *EventSummary) PopulateFromEntity(e Event) {
	s.EventID = e.ID
	s.EventName = e.Name
	s.OrganizerName = e.OrganizerName
}

type GetTopSellingTicketTypesResponse []TicketTypeRank

type TicketTypeRank struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	UnitsSold int64  `json:"units_sold"`
	EventName string `json:"event_name"`
}

func (r *TicketTypeRank) PopulateFromEntity(tt TicketType) {
	r.ID = tt.ID
	r.Name = tt.Name
	r.EventName = tt.EventName
}

type PurchaseStats struct {
	CustomerID             int64           `json:"customer_id"`
	TotalOrdersPlaced      int64           `json:"total_orders_placed"`
	TotalAmountSpent       decimal.Decimal `json:"total_amount_spent"`
	MostPurchasedEventName *string         `json:"most_purchased_event_name"`
}

type GetEventsWithLowCapacityRemainingResponse []LowCapacityEvent

type LowCapacityEvent struct {
	ID                         int64           `json:"id"`
	Name                       string          `json:"name"`
	PercentageTicketsRemaining decimal.Decimal `json:"percentage_tickets_remaining"`
}
