package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// UserRole identifies the kind of authenticated actor
type UserRole int

const (
	UserRoleAdmin UserRole = 0
	UserRoleAgent UserRole = 1
)

func (r UserRole) String() string {
	switch r {
	case UserRoleAdmin:
		return "ADMIN"
	case UserRoleAgent:
		return "AGENT"
	default:
		return "UNKNOWN"
	}
}

// ParseUserRole accepts "ADMIN" or "AGENT" in any case; "staff" is kept as an alias for agents.
func ParseUserRole(str string) (UserRole, error) {
	switch strings.ToUpper(strings.TrimSpace(str)) {
	case "ADMIN":
		return UserRoleAdmin, nil
	case "AGENT", "STAFF":
		return UserRoleAgent, nil
	}
	return 0, fmt.Errorf("unknown user role %q", str)
}

func (r UserRole) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

func (r *UserRole) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*r = UserRole(i)
		return nil
	}
	parsed, err := ParseUserRole(str)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

func (r UserRole) Value() (driver.Value, error) {
	return int64(r), nil
}

func (r *UserRole) Scan(value interface{}) error {
	if value == nil {
		*r = UserRoleAgent
		return nil
	}
	switch v := value.(type) {
	case int64:
		*r = UserRole(v)
	case int:
		*r = UserRole(v)
	}
	return nil
}
