package capabilities

import "context"

// CapabilityVerifyRecords habilita marcar entradas del pasaporte como verified.
const CapabilityVerifyRecords = "passport:verify"

// CapabilitiesResolver decide si un usuario tiene una capability.
type CapabilitiesResolver interface {
	Has(ctx context.Context, userID string, capability string) (bool, error)
}
