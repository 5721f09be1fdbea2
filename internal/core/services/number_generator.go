package services

import (
	"strings"

	"github.com/google/uuid"
)

// NumberGenerator produces the unique external account numbers, e.g. ACC-1A2B3C4D.
type NumberGenerator struct{}

// GenerateAccountNumber returns a fresh account number. Uniqueness is ultimately
// enforced by the unique constraint on accounts.number.
func (NumberGenerator) GenerateAccountNumber() string {
	return "ACC-" + strings.ToUpper(uuid.NewString()[:8])
}
