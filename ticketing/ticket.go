package ticketing

import (
	"fmt"
	"strings"
	"time"

	"github.com/yeremiapane/restaurant-pos/models"
)

type TicketLine struct {
	Quantity   int    `json:"quantity"`
	Name       string `json:"name"`
	Notes      string `json:"notes,omitempty"`
	SeatNumber int    `json:"seat_number,omitempty"`
}

// Ticket is the content a bar or kitchen printer needs for one order.
type Ticket struct {
	OrderID     string             `json:"order_id"`
	BusinessID  string             `json:"business_id"`
	Destination models.Destination `json:"destination"`
	TableNumber int                `json:"table_number"`
	Waiter      string             `json:"waiter"`
	CreatedAt   time.Time          `json:"created_at"`
	Lines       []TicketLine       `json:"lines"`
}

// BuildTicket returns false when the order sends nothing to destination;
// such an order gets no ticket rather than an empty one.
func BuildTicket(order models.Order, destination models.Destination) (Ticket, bool) {
	items := ItemsFor(order, destination)
	if len(items) == 0 {
		return Ticket{}, false
	}
	t := Ticket{
		OrderID:     order.ID,
		BusinessID:  order.BusinessID,
		Destination: destination,
		TableNumber: order.TableNumber,
		Waiter:      order.Waiter,
		CreatedAt:   order.CreatedAt,
		Lines:       make([]TicketLine, 0, len(items)),
	}
	for _, item := range items {
		t.Lines = append(t.Lines, TicketLine{
			Quantity:   item.Quantity,
			Name:       item.MenuItem.Name,
			Notes:      strings.TrimSpace(item.Notes),
			SeatNumber: item.SeatNumber,
		})
	}
	return t, true
}

// BuildTickets returns one ticket per destination the order touches.
func BuildTickets(order models.Order) []Ticket {
	var tickets []Ticket
	for _, d := range models.Destinations {
		if t, ok := BuildTicket(order, d); ok {
			tickets = append(tickets, t)
		}
	}
	return tickets
}

// Text renders the ticket as plain text for a receipt printer.
func (t Ticket) Text() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", strings.ToUpper(string(t.Destination)))
	fmt.Fprintf(&b, "Table: %d\n", t.TableNumber)
	fmt.Fprintf(&b, "Waiter: %s\n", t.Waiter)
	fmt.Fprintf(&b, "Time: %s\n", t.CreatedAt.Format("15:04"))
	b.WriteString(strings.Repeat("-", 24) + "\n")
	for _, line := range t.Lines {
		fmt.Fprintf(&b, "%dx %s\n", line.Quantity, line.Name)
		if line.SeatNumber > 0 {
			fmt.Fprintf(&b, "   seat %d\n", line.SeatNumber)
		}
		if line.Notes != "" {
			fmt.Fprintf(&b, "   note: %s\n", line.Notes)
		}
	}
	return b.String()
}
