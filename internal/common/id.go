package common

import (
	"github.com/google/uuid"
)

// NewAccountID generates a unique account ID with the "acct_" prefix
// Format: acct_<uuid>
func NewAccountID() string {
	return "acct_" + uuid.New().String()
}
