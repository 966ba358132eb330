package passport

import "fmt"

const (
	// DefaultLogCapacity es la cantidad máxima de entradas por log.
	DefaultLogCapacity = 10

	// MaxLogCapacity acota la configuración; el layout guarda los largos como u32.
	MaxLogCapacity = 1000

	// DefaultMaxRecordBytes es el límite de tamaño de un registro en el ledger.
	DefaultMaxRecordBytes = 10240
)

// Capacity fija, por log, el máximo de entradas. Se decide al crear el pasaporte.
type Capacity struct {
	Vaccinations int
	Health       int
	Locations    int
}

// UniformCapacity usa el mismo máximo para los tres logs.
func UniformCapacity(n int) Capacity {
	return Capacity{Vaccinations: n, Health: n, Locations: n}
}

func (c Capacity) Validate() error {
	for kind, n := range map[RecordKind]int{
		KindVaccination: c.Vaccinations,
		KindHealth:      c.Health,
		KindLocation:    c.Locations,
	} {
		if n <= 0 || n > MaxLogCapacity {
			return fmt.Errorf("%w: %s capacity %d out of [1,%d]", ErrInvalidInput, kind, n, MaxLogCapacity)
		}
	}
	return nil
}

func (c Capacity) Max(kind RecordKind) int {
	switch kind {
	case KindVaccination:
		return c.Vaccinations
	case KindHealth:
		return c.Health
	case KindLocation:
		return c.Locations
	default:
		return 0
	}
}

// Remaining = max_capacity - current_length.
func (p Passport) Remaining(kind RecordKind) int {
	r := p.Capacity.Max(kind) - p.Len(kind)
	if r < 0 {
		return 0
	}
	return r
}

func (p Passport) CanAppend(kind RecordKind) bool {
	return p.Remaining(kind) > 0
}

// Tamaños del layout binario persistido.
const (
	discriminatorBytes = 8
	versionBytes       = 1
	lenPrefixBytes     = 4
	i64Bytes           = 8
	boolBytes          = 1
)

func strBudget(max int) int { return lenPrefixBytes + max }

var (
	headerBudget = discriminatorBytes + versionBytes +
		strBudget(MaxNameBytes) + strBudget(MaxSpeciesBytes) + strBudget(MaxBreedBytes) +
		i64Bytes + // birth_date
		strBudget(MaxOwnerBytes) +
		i64Bytes + // last_updated
		3*lenPrefixBytes // capacity

	vaccinationBudget = strBudget(MaxVaccineNameBytes) + 2*i64Bytes + strBudget(MaxVeterinarianBytes) + boolBytes
	healthBudget      = strBudget(MaxRecordTypeBytes) + i64Bytes + strBudget(MaxDescriptionBytes) + strBudget(MaxVeterinarianBytes) + boolBytes
	locationBudget    = strBudget(MaxLocationBytes) + i64Bytes + strBudget(MaxEventTypeBytes)
)

// MaxEncodedSize es el peor caso en bytes de un pasaporte con esa capacidad.
// El ledger reserva este headroom al crear.
func MaxEncodedSize(c Capacity) int {
	return headerBudget +
		lenPrefixBytes + c.Vaccinations*vaccinationBudget +
		lenPrefixBytes + c.Health*healthBudget +
		lenPrefixBytes + c.Locations*locationBudget
}
