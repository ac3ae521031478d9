package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewOrderID builds a public order identifier: millisecond timestamp plus a
// random suffix. Uniqueness is additionally enforced by a unique index on the
// orders table.
func NewOrderID() string {
	return fmt.Sprintf("ORD-%d-%s", time.Now().UnixMilli(), randomSuffix(6))
}

// NewSKU builds a stock keeping unit for products created without one.
func NewSKU() string {
	return fmt.Sprintf("PRD-%d-%s", time.Now().UnixMilli(), randomSuffix(4))
}

func randomSuffix(n int) string {
	s := strings.ReplaceAll(uuid.NewString(), "-", "")
	return strings.ToUpper(s[:n])
}
