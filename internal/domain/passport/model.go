package passport

import "fmt"

// RecordKind identifica uno de los tres logs del pasaporte.
type RecordKind string

const (
	KindVaccination RecordKind = "vaccination"
	KindHealth      RecordKind = "health"
	KindLocation    RecordKind = "location"
)

// ParseVerifiableKind solo acepta los logs que tienen flag verified.
// location no es verificable (no tiene flag).
func ParseVerifiableKind(s string) (RecordKind, error) {
	switch RecordKind(s) {
	case KindVaccination, KindHealth:
		return RecordKind(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidRecordKind, s)
	}
}

// Passport es el registro de identidad + historial de una mascota.
// Los tiempos son segundos epoch (int64 con signo).
type Passport struct {
	ID string

	Name      string
	Species   string
	Breed     string
	BirthDate int64

	Owner       string
	LastUpdated int64

	// Capacity se fija al crear y no cambia nunca.
	Capacity Capacity

	Vaccinations []VaccinationRecord
	Health       []HealthRecord
	Locations    []LocationRecord
}

type VaccinationRecord struct {
	VaccineName      string
	DateAdministered int64
	NextDueDate      int64
	Veterinarian     string
	Verified         bool
}

type HealthRecord struct {
	RecordType   string
	Date         int64
	Description  string
	Veterinarian string
	Verified     bool
}

// LocationRecord es inmutable una vez agregado.
type LocationRecord struct {
	Location  string
	Timestamp int64
	EventType string
}

// Len devuelve el largo actual del log.
func (p Passport) Len(kind RecordKind) int {
	switch kind {
	case KindVaccination:
		return len(p.Vaccinations)
	case KindHealth:
		return len(p.Health)
	case KindLocation:
		return len(p.Locations)
	default:
		return 0
	}
}

// Clone hace deep copy de los logs para que los snapshots no compartan backing arrays.
func (p Passport) Clone() Passport {
	out := p
	out.Vaccinations = append(make([]VaccinationRecord, 0, p.Capacity.Vaccinations), p.Vaccinations...)
	out.Health = append(make([]HealthRecord, 0, p.Capacity.Health), p.Health...)
	out.Locations = append(make([]LocationRecord, 0, p.Capacity.Locations), p.Locations...)
	return out
}

// touch mantiene last_updated monotónico aunque el reloj retroceda.
func (p *Passport) touch(now int64) {
	if now > p.LastUpdated {
		p.LastUpdated = now
	}
}

// TransferOwner reemplaza el owner completo (no hay multi-owner).
func (p *Passport) TransferOwner(newOwner string, now int64) {
	p.Owner = newOwner
	p.touch(now)
}

func (p *Passport) AppendVaccination(r VaccinationRecord, now int64) error {
	if !p.CanAppend(KindVaccination) {
		return fmt.Errorf("%w: vaccination log holds %d", ErrCapacityExceeded, p.Capacity.Vaccinations)
	}
	r.Verified = false
	p.Vaccinations = append(p.Vaccinations, r)
	p.touch(now)
	return nil
}

func (p *Passport) AppendHealth(r HealthRecord, now int64) error {
	if !p.CanAppend(KindHealth) {
		return fmt.Errorf("%w: health log holds %d", ErrCapacityExceeded, p.Capacity.Health)
	}
	r.Verified = false
	p.Health = append(p.Health, r)
	p.touch(now)
	return nil
}

func (p *Passport) AppendLocation(r LocationRecord, now int64) error {
	if !p.CanAppend(KindLocation) {
		return fmt.Errorf("%w: location log holds %d", ErrCapacityExceeded, p.Capacity.Locations)
	}
	p.Locations = append(p.Locations, r)
	p.touch(now)
	return nil
}

// Verify marca la entrada como verificada.
// Devuelve changed=false si ya estaba verificada (no-op, no toca last_updated).
func (p *Passport) Verify(kind RecordKind, index int, now int64) (bool, error) {
	if kind != KindVaccination && kind != KindHealth {
		return false, fmt.Errorf("%w: %q", ErrInvalidRecordKind, kind)
	}
	if index < 0 || index >= p.Len(kind) {
		return false, fmt.Errorf("%w: %s[%d], length %d", ErrIndexOutOfRange, kind, index, p.Len(kind))
	}

	var flag *bool
	if kind == KindVaccination {
		flag = &p.Vaccinations[index].Verified
	} else {
		flag = &p.Health[index].Verified
	}
	if *flag {
		return false, nil
	}
	*flag = true
	p.touch(now)
	return true, nil
}

// Metadata es el descriptor tipo token del pasaporte.
type Metadata struct {
	Name   string
	Symbol string
	URI    string
}

const MetadataSymbol = "PPT"

func (p Passport) Metadata() Metadata {
	return Metadata{
		Name:   "Pet Passport: " + p.Name,
		Symbol: MetadataSymbol,
		URI:    "", // sin hosting de metadata
	}
}

// DueVaccination es una vacuna con next_due_date vencido a la fecha consultada.
type DueVaccination struct {
	Index  int
	Record VaccinationRecord
}

// DueVaccinations lista las vacunas con next_due_date <= asOf, en orden del log.
func (p Passport) DueVaccinations(asOf int64) []DueVaccination {
	out := make([]DueVaccination, 0)
	for i, v := range p.Vaccinations {
		if v.NextDueDate <= asOf {
			out = append(out, DueVaccination{Index: i, Record: v})
		}
	}
	return out
}
