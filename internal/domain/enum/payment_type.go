package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// PaymentType classifies a payment against the balance it was applied to
type PaymentType int

const (
	PaymentTypeFull PaymentType = 0
	PaymentTypePart PaymentType = 1
)

var paymentTypeNames = [...]string{"FULL", "PART"}

func (p PaymentType) String() string {
	if p < 0 || int(p) >= len(paymentTypeNames) {
		return "UNKNOWN"
	}
	return paymentTypeNames[p]
}

// Valid reports whether p is one of the declared payment types
func (p PaymentType) Valid() bool {
	return p >= PaymentTypeFull && p <= PaymentTypePart
}

// ClassifyPayment returns FULL when amount covers the due it was applied to, PART otherwise.
func ClassifyPayment(amount, dueBefore int64) PaymentType {
	if amount >= dueBefore {
		return PaymentTypeFull
	}
	return PaymentTypePart
}

// ParsePaymentType accepts "FULL"/"PART" in any case.
func ParsePaymentType(str string) (PaymentType, error) {
	for i, name := range paymentTypeNames {
		if strings.EqualFold(str, name) {
			return PaymentType(i), nil
		}
	}
	return 0, fmt.Errorf("unknown payment type %q", str)
}

func (p PaymentType) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

func (p *PaymentType) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		if !PaymentType(i).Valid() {
			return fmt.Errorf("unknown payment type %d", i)
		}
		*p = PaymentType(i)
		return nil
	}
	parsed, err := ParsePaymentType(str)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

func (p PaymentType) Value() (driver.Value, error) {
	return int64(p), nil
}

func (p *PaymentType) Scan(value interface{}) error {
	if value == nil {
		*p = PaymentTypeFull
		return nil
	}
	switch v := value.(type) {
	case int64:
		*p = PaymentType(v)
	case int:
		*p = PaymentType(v)
	}
	return nil
}
