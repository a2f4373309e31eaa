package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// CustomerStatus represents the service state of a subscriber
type CustomerStatus int

const (
	CustomerStatusActive    CustomerStatus = 0
	CustomerStatusSuspended CustomerStatus = 1
	CustomerStatusInactive  CustomerStatus = 2
)

var customerStatusNames = [...]string{"ACTIVE", "SUSPENDED", "INACTIVE"}

func (s CustomerStatus) String() string {
	if s < 0 || int(s) >= len(customerStatusNames) {
		return "UNKNOWN"
	}
	return customerStatusNames[s]
}

// Valid reports whether s is one of the declared statuses
func (s CustomerStatus) Valid() bool {
	return s >= CustomerStatusActive && s <= CustomerStatusInactive
}

// ParseCustomerStatus accepts the status name in any case ("Active", "SUSPENDED").
func ParseCustomerStatus(str string) (CustomerStatus, error) {
	for i, name := range customerStatusNames {
		if strings.EqualFold(str, name) {
			return CustomerStatus(i), nil
		}
	}
	return 0, fmt.Errorf("unknown customer status %q", str)
}

func (s CustomerStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *CustomerStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		if !CustomerStatus(i).Valid() {
			return fmt.Errorf("unknown customer status %d", i)
		}
		*s = CustomerStatus(i)
		return nil
	}
	parsed, err := ParseCustomerStatus(str)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

func (s CustomerStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *CustomerStatus) Scan(value interface{}) error {
	if value == nil {
		*s = CustomerStatusActive
		return nil
	}
	switch v := value.(type) {
	case int64:
		*s = CustomerStatus(v)
	case int:
		*s = CustomerStatus(v)
	}
	return nil
}
