package passport

import (
	"context"
	"strings"
)

// OwnerPolicy decide si caller puede operar como dueño del pasaporte.
// Gobierna transfer_owner y los append.
type OwnerPolicy func(p Passport, caller string) error

// RequireOwner: caller == owner actual.
func RequireOwner(p Passport, caller string) error {
	if caller == "" || caller != p.Owner {
		return ErrUnauthorized
	}
	return nil
}

// VerifierPolicy decide quién puede marcar entradas como verified.
// Es independiente de OwnerPolicy: se puede cambiar sin tocar ownership.
type VerifierPolicy interface {
	CanVerify(ctx context.Context, caller string) (bool, error)
}

// AnyAuthenticated acepta cualquier identidad no vacía.
// Es el comportamiento heredado; no valida pertenencia a ningún registro.
type AnyAuthenticated struct{}

func (AnyAuthenticated) CanVerify(_ context.Context, caller string) (bool, error) {
	return strings.TrimSpace(caller) != "", nil
}

// VerifierRegistry es el colaborador que conoce las autoridades acreditadas (p.ej. veterinarios).
type VerifierRegistry interface {
	IsAuthorizedVerifier(ctx context.Context, identity string) (bool, error)
}

// RegistryPolicy exige que el caller esté en el registro.
type RegistryPolicy struct {
	Registry VerifierRegistry
}

func (p RegistryPolicy) CanVerify(ctx context.Context, caller string) (bool, error) {
	caller = strings.TrimSpace(caller)
	if caller == "" || p.Registry == nil {
		return false, nil
	}
	return p.Registry.IsAuthorizedVerifier(ctx, caller)
}

// StaticRegistry es un allowlist fijo (desde config).
type StaticRegistry struct {
	ids map[string]struct{}
}

func NewStaticRegistry(ids ...string) *StaticRegistry {
	r := &StaticRegistry{ids: make(map[string]struct{}, len(ids))}
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		r.ids[id] = struct{}{}
	}
	return r
}

func (r *StaticRegistry) IsAuthorizedVerifier(_ context.Context, identity string) (bool, error) {
	_, ok := r.ids[identity]
	return ok, nil
}
