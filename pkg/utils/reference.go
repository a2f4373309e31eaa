package utils

import (
	"strings"

	"github.com/google/uuid"
)

// ParseUUID parses a string into a UUID
func ParseUUID(s string) (uuid.UUID, error) {
	return uuid.Parse(s)
}

// ReceiptNumber derives a stable, human-readable receipt number from a transaction id
func ReceiptNumber(transactionID uuid.UUID) string {
	return "RCPT-" + strings.ToUpper(transactionID.String()[:8])
}
