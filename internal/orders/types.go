package orders

import "time"

// Status is the lifecycle state of an order.
type Status string

// Order statuses, in lifecycle sequence.
const (
	StatusReceived      Status = "RECEIVED"
	StatusInPreparation Status = "IN_PREPARATION"
	StatusShipped       Status = "SHIPPED"
)

// statusRank orders the statuses; transitions never move to a lower rank.
var statusRank = map[Status]int{
	StatusReceived:      0,
	StatusInPreparation: 1,
	StatusShipped:       2,
}

// Known reports whether s is one of the defined statuses.
func (s Status) Known() bool {
	_, ok := statusRank[s]
	return ok
}

// Rank returns the position of s in the lifecycle, or -1 for unknown values.
func (s Status) Rank() int {
	r, ok := statusRank[s]
	if !ok {
		return -1
	}
	return r
}

// allowedTransitions lists the legal forward moves. RECEIVED -> SHIPPED is
// allowed because a shipping document can arrive before the sweep promotes
// the order.
var allowedTransitions = map[Status]map[Status]bool{
	StatusReceived: {
		StatusInPreparation: true,
		StatusShipped:       true,
	},
	StatusInPreparation: {
		StatusShipped: true,
	},
}

// CanTransition reports whether moving from -> to is a legal forward step.
func CanTransition(from, to Status) bool {
	return allowedTransitions[from][to]
}

// Order represents the item stored in the orders DynamoDB table.
type Order struct {
	OrderID           string     `dynamodbav:"order_id" json:"orderId"` // PK
	CustomerEmail     string     `dynamodbav:"customer_email" json:"customerEmail"`
	CustomerName      string     `dynamodbav:"customer_name" json:"customerName"`
	Amount            float64    `dynamodbav:"amount" json:"amount"`
	Status            Status     `dynamodbav:"status" json:"status"`
	ShipmentReference string     `dynamodbav:"shipment_reference,omitempty" json:"shipmentReference,omitempty"`
	CreatedAt         time.Time  `dynamodbav:"created_at" json:"createdAt"`
	ShippedAt         *time.Time `dynamodbav:"shipped_at,omitempty" json:"shippedAt,omitempty"`
	UpdatedAt         time.Time  `dynamodbav:"updated_at" json:"updatedAt"`
}
