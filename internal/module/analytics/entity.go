package analytics

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	EventStatusDraft     string = "DRAFT"
	EventStatusPublished string = "PUBLISHED"
	EventStatusCancelled string = "CANCELLED"
)

type Organizer struct {
	ID           int64
	Name         string
	ContactEmail string
	Description  string
}

type Event struct {
	ID              int64
	Name            string
	OrganizerID     int64
	OrganizerName   string
	StartTime       time.Time
	EndTime         time.Time
	Location        string
	Status          string
	Capacity        *int64
	BaseTicketPrice decimal.Decimal
}

type TicketType struct {
	ID                int64
	EventID           int64
	EventName         string
	Name              string
	Price             decimal.Decimal
	QuantityAvailable int64
	IsActive          bool
}

type Customer struct {
	ID    int64
	Name  string
	Email string
}

type Order struct {
	ID          int64
	CustomerID  int64
	OrderDate   time.Time
	TotalAmount decimal.Decimal
	IsPaid      bool
}

type TicketPurchase struct {
	ID                   int64
	OrderID              int64
	TicketTypeID         int64
	Quantity             int64
	PurchasePricePerUnit decimal.Decimal
}

// EventSales is a paid-only aggregate over ticket purchases grouped by event.
type EventSales struct {
	EventID   int64
	UnitsSold int64
	Revenue   decimal.Decimal
}

// TicketTypeSales is a paid-only aggregate grouped by ticket type.
type TicketTypeSales struct {
	TicketTypeID int64
	UnitsSold    int64
}

// CustomerEventSales is a paid-only aggregate of one customer's purchases
// grouped by event.
type CustomerEventSales struct {
	EventID   int64
	EventName string
	UnitsSold int64
}
