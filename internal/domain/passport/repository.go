package passport

import "context"

// Ledger es el almacenamiento durable por identificador.
//
// Update hace read-modify-write atómico: carga, aplica fn y persiste solo si fn no
// devuelve error. Si hay conflicto el ledger puede reintentar y volver a llamar fn
// sobre el estado recién leído, así que fn no debe tener efectos fuera del *Passport.
type Ledger interface {
	Create(ctx context.Context, p Passport) error
	Get(ctx context.Context, id string) (Passport, error)
	Update(ctx context.Context, id string, fn func(p *Passport) error) (Passport, error)
	ListByOwner(ctx context.Context, owner string) ([]Passport, error)
}
