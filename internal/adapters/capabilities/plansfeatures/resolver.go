package plansfeatures

import (
	"context"
	"errors"
	"strings"

	"pet-passport/internal/ports/capabilities"
)

var _ capabilities.CapabilitiesResolver = (*Resolver)(nil)

// Resolver responde capabilities consultando plans-features.
type Resolver struct {
	client   *Client
	allowAll bool
}

// NewResolver crea un resolver. allowAll (ALLOW_ALL_CAPABILITIES en dev) devuelve true sin llamar upstream.
func NewResolver(client *Client, allowAll bool) *Resolver {
	return &Resolver{
		client:   client,
		allowAll: allowAll,
	}
}

// Has responde si userID tiene una capability.
func (r *Resolver) Has(ctx context.Context, userID string, capability string) (bool, error) {
	capability = strings.TrimSpace(capability)
	if capability == "" {
		return false, errors.New("capability required")
	}
	if r == nil {
		return false, ErrPlansNotConfigured
	}
	if r.allowAll {
		return true, nil
	}
	if r.client == nil || !r.client.IsConfigured() {
		// fallar explícito antes que permitir sin control
		return false, ErrPlansNotConfigured
	}

	resp, err := r.client.GetCapabilities(ctx, userID)
	if err != nil {
		return false, err
	}
	return resp.Capabilities[capability], nil
}

// VerifierRegistry expone el resolver como registro de verificadores:
// autorizado = tiene la capability passport:verify.
type VerifierRegistry struct {
	Resolver capabilities.CapabilitiesResolver
}

func (v VerifierRegistry) IsAuthorizedVerifier(ctx context.Context, identity string) (bool, error) {
	if v.Resolver == nil {
		return false, ErrPlansNotConfigured
	}
	return v.Resolver.Has(ctx, identity, capabilities.CapabilityVerifyRecords)
}
