package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// MovementType represents the reason code of a stock movement
type MovementType int

const (
	MovementTypeSale       MovementType = 0
	MovementTypeAdd        MovementType = 1
	MovementTypeAdjustment MovementType = 2
	MovementTypeRestock    MovementType = 3
	MovementTypeReturn     MovementType = 4
	MovementTypeDamage     MovementType = 5
	MovementTypeReversal   MovementType = 6
)

var movementTypeNames = [...]string{
	"SALE",
	"ADD",
	"ADJUSTMENT",
	"RESTOCK",
	"RETURN",
	"DAMAGE",
	"REVERSAL",
}

func (t MovementType) String() string {
	if t < 0 || int(t) >= len(movementTypeNames) {
		return "UNKNOWN"
	}
	return movementTypeNames[t]
}

func (t MovementType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *MovementType) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*t = MovementType(i)
		return nil
	}
	for i, name := range movementTypeNames {
		if name == str {
			*t = MovementType(i)
			return nil
		}
	}
	return nil
}

func (t MovementType) Value() (driver.Value, error) {
	return int64(t), nil
}

func (t *MovementType) Scan(value interface{}) error {
	if value == nil {
		*t = MovementTypeAdjustment
		return nil
	}
	switch v := value.(type) {
	case int64:
		*t = MovementType(v)
	case int:
		*t = MovementType(v)
	}
	return nil
}
