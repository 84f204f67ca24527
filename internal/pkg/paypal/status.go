package paypal

import "strings"

// Provider-reported subscription states.
const (
	StatusActive          = "ACTIVE"
	StatusApprovalPending = "APPROVAL_PENDING"
	StatusApproved        = "APPROVED"
	StatusSuspended       = "SUSPENDED"
	StatusCancelled       = "CANCELLED"
	StatusExpired         = "EXPIRED"
)

// IsActive reports whether the provider considers the subscription live.
func IsActive(status string) bool {
	return strings.ToUpper(strings.TrimSpace(status)) == StatusActive
}

// ToLocalStatus maps a provider status to the local mirror value.
// Provider states are stored lower-cased as reported.
func ToLocalStatus(status string) string {
	return strings.ToLower(strings.TrimSpace(status))
}
