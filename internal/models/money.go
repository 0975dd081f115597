package models

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Money is an amount in the store currency. The backend serializes
// decimal fields as JSON strings ("12.50"), while locally computed
// totals travel as numbers, so decoding accepts both.
type Money float64

func (m Money) Float64() float64 { return float64(m) }

func (m Money) String() string {
	return strconv.FormatFloat(float64(m), 'f', 2, 64)
}

func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatFloat(float64(m), 'f', 2, 64)), nil
}

func (m *Money) UnmarshalJSON(data []byte) error {
	if len(data) == 0 {
		return fmt.Errorf("money: empty input")
	}
	s := string(data)
	if s == "null" {
		*m = 0
		return nil
	}
	if s[0] == '"' {
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("money: %w", err)
		}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("money: parsing %q: %w", s, err)
	}
	*m = Money(v)
	return nil
}
