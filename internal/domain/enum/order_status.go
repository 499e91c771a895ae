package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// OrderStatus represents the lifecycle status of an order
type OrderStatus int

const (
	OrderStatusPending            OrderStatus = 0
	OrderStatusConfirmed          OrderStatus = 1
	OrderStatusPartiallyPaid      OrderStatus = 2
	OrderStatusFullyPaid          OrderStatus = 3
	OrderStatusReadyForCollection OrderStatus = 4
	OrderStatusCompleted          OrderStatus = 5
	OrderStatusCancelled          OrderStatus = 6
	OrderStatusReversed           OrderStatus = 7
)

var orderStatusNames = [...]string{
	"PENDING",
	"CONFIRMED",
	"PARTIALLY_PAID",
	"FULLY_PAID",
	"READY_FOR_COLLECTION",
	"COMPLETED",
	"CANCELLED",
	"REVERSED",
}

func (s OrderStatus) String() string {
	if s < 0 || int(s) >= len(orderStatusNames) {
		return "UNKNOWN"
	}
	return orderStatusNames[s]
}

// IsTerminal reports whether no further lifecycle transitions are allowed.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusCancelled || s == OrderStatusReversed
}

func (s OrderStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *OrderStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		// Try unmarshaling as int
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*s = OrderStatus(i)
		return nil
	}
	for i, name := range orderStatusNames {
		if name == str {
			*s = OrderStatus(i)
			return nil
		}
	}
	return nil
}

func (s OrderStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *OrderStatus) Scan(value interface{}) error {
	if value == nil {
		*s = OrderStatusPending
		return nil
	}
	switch v := value.(type) {
	case int64:
		*s = OrderStatus(v)
	case int:
		*s = OrderStatus(v)
	}
	return nil
}
