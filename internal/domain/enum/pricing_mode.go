package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// PricingMode represents how a product is priced: per piece, or per
// square metre of sheet (length x width).
type PricingMode int

const (
	PricingModePiece PricingMode = 0
	PricingModeArea  PricingMode = 1
)

var pricingModeNames = [...]string{
	"PIECE",
	"AREA",
}

func (p PricingMode) String() string {
	if p < 0 || int(p) >= len(pricingModeNames) {
		return "UNKNOWN"
	}
	return pricingModeNames[p]
}

func (p PricingMode) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

func (p *PricingMode) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*p = PricingMode(i)
		return nil
	}
	switch str {
	case "PIECE":
		*p = PricingModePiece
	case "AREA":
		*p = PricingModeArea
	}
	return nil
}

func (p PricingMode) Value() (driver.Value, error) {
	return int64(p), nil
}

func (p *PricingMode) Scan(value interface{}) error {
	if value == nil {
		*p = PricingModePiece
		return nil
	}
	switch v := value.(type) {
	case int64:
		*p = PricingMode(v)
	case int:
		*p = PricingMode(v)
	}
	return nil
}
