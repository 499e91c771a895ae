package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// OrderType represents the kind of order
type OrderType int

const (
	OrderTypeQuotation        OrderType = 0
	OrderTypeImmediateSale    OrderType = 1
	OrderTypeFutureCollection OrderType = 2
	OrderTypeLayaway          OrderType = 3
)

var orderTypeNames = [...]string{
	"QUOTATION",
	"IMMEDIATE_SALE",
	"FUTURE_COLLECTION",
	"LAYAWAY",
}

func (t OrderType) String() string {
	if t < 0 || int(t) >= len(orderTypeNames) {
		return "UNKNOWN"
	}
	return orderTypeNames[t]
}

// RequiresCollection reports whether the order type ends with a physical
// collection step. Quotations never do.
func (t OrderType) RequiresCollection() bool {
	return t != OrderTypeQuotation
}

// ConsumesStock reports whether creating an order of this type commits
// stock immediately.
func (t OrderType) ConsumesStock() bool {
	return t != OrderTypeQuotation
}

func (t OrderType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *OrderType) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*t = OrderType(i)
		return nil
	}
	for i, name := range orderTypeNames {
		if name == str {
			*t = OrderType(i)
			return nil
		}
	}
	return nil
}

func (t OrderType) Value() (driver.Value, error) {
	return int64(t), nil
}

func (t *OrderType) Scan(value interface{}) error {
	if value == nil {
		*t = OrderTypeQuotation
		return nil
	}
	switch v := value.(type) {
	case int64:
		*t = OrderType(v)
	case int:
		*t = OrderType(v)
	}
	return nil
}
