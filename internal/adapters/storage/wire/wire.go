// Package wire implementa el layout binario persistido de un Passport.
//
// Little-endian, campos en orden fijo:
//
//	discriminator [8]byte | version u8 |
//	name str | species str | breed str | birth_date i64 | owner str | last_updated i64 |
//	capacity (vaccinations u32, health u32, locations u32) |
//	vaccinations vec | health vec | locations vec
//
// str = u32 len + bytes; vec = u32 count + registros en su orden de campos; bool = u8.
// El ID no va en el payload: es la key del ledger.
package wire

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"pet-passport/internal/domain/passport"
)

// Discriminator identifica un registro de pasaporte; es fijo para todas las versiones del layout.
var Discriminator = [8]byte{167, 1, 40, 45, 213, 3, 76, 101}

const Version uint8 = 1

var (
	ErrBadDiscriminator   = errors.New("wire: not a passport record")
	ErrUnsupportedVersion = errors.New("wire: unsupported format version")
	ErrTruncated          = errors.New("wire: truncated record")
	ErrTrailingBytes      = errors.New("wire: trailing bytes after record")
	ErrCorrupt            = errors.New("wire: corrupt record")
)

// Encode serializa p. No valida límites de dominio, solo que quepan en el layout.
func Encode(p passport.Passport) ([]byte, error) {
	e := &encoder{buf: make([]byte, 0, passport.MaxEncodedSize(p.Capacity))}

	e.buf = append(e.buf, Discriminator[:]...)
	e.buf = append(e.buf, Version)

	e.str(p.Name)
	e.str(p.Species)
	e.str(p.Breed)
	e.i64(p.BirthDate)
	e.str(p.Owner)
	e.i64(p.LastUpdated)

	e.u32(p.Capacity.Vaccinations)
	e.u32(p.Capacity.Health)
	e.u32(p.Capacity.Locations)

	e.u32(len(p.Vaccinations))
	for _, v := range p.Vaccinations {
		e.str(v.VaccineName)
		e.i64(v.DateAdministered)
		e.i64(v.NextDueDate)
		e.str(v.Veterinarian)
		e.boolean(v.Verified)
	}

	e.u32(len(p.Health))
	for _, h := range p.Health {
		e.str(h.RecordType)
		e.i64(h.Date)
		e.str(h.Description)
		e.str(h.Veterinarian)
		e.boolean(h.Verified)
	}

	e.u32(len(p.Locations))
	for _, l := range p.Locations {
		e.str(l.Location)
		e.i64(l.Timestamp)
		e.str(l.EventType)
	}

	if e.err != nil {
		return nil, e.err
	}
	return e.buf, nil
}

// Decode reconstruye el Passport guardado bajo id.
func Decode(id string, b []byte) (passport.Passport, error) {
	if len(b) < len(Discriminator)+1 {
		return passport.Passport{}, ErrTruncated
	}
	if !bytes.Equal(b[:len(Discriminator)], Discriminator[:]) {
		return passport.Passport{}, ErrBadDiscriminator
	}
	if v := b[len(Discriminator)]; v != Version {
		return passport.Passport{}, fmt.Errorf("%w: %d", ErrUnsupportedVersion, v)
	}

	d := &decoder{buf: b, off: len(Discriminator) + 1}
	p := passport.Passport{ID: id}

	p.Name = d.str()
	p.Species = d.str()
	p.Breed = d.str()
	p.BirthDate = d.i64()
	p.Owner = d.str()
	p.LastUpdated = d.i64()

	p.Capacity.Vaccinations = d.u32()
	p.Capacity.Health = d.u32()
	p.Capacity.Locations = d.u32()
	if d.err == nil {
		if err := p.Capacity.Validate(); err != nil {
			return passport.Passport{}, fmt.Errorf("%w: %v", ErrCorrupt, err)
		}
	}

	n := d.count(p.Capacity.Vaccinations)
	p.Vaccinations = make([]passport.VaccinationRecord, 0, p.Capacity.Vaccinations)
	for i := 0; i < n && d.err == nil; i++ {
		p.Vaccinations = append(p.Vaccinations, passport.VaccinationRecord{
			VaccineName:      d.str(),
			DateAdministered: d.i64(),
			NextDueDate:      d.i64(),
			Veterinarian:     d.str(),
			Verified:         d.boolean(),
		})
	}

	n = d.count(p.Capacity.Health)
	p.Health = make([]passport.HealthRecord, 0, p.Capacity.Health)
	for i := 0; i < n && d.err == nil; i++ {
		p.Health = append(p.Health, passport.HealthRecord{
			RecordType:   d.str(),
			Date:         d.i64(),
			Description:  d.str(),
			Veterinarian: d.str(),
			Verified:     d.boolean(),
		})
	}

	n = d.count(p.Capacity.Locations)
	p.Locations = make([]passport.LocationRecord, 0, p.Capacity.Locations)
	for i := 0; i < n && d.err == nil; i++ {
		p.Locations = append(p.Locations, passport.LocationRecord{
			Location:  d.str(),
			Timestamp: d.i64(),
			EventType: d.str(),
		})
	}

	if d.err != nil {
		return passport.Passport{}, d.err
	}
	if d.off != len(b) {
		return passport.Passport{}, ErrTrailingBytes
	}
	return p, nil
}

type encoder struct {
	buf []byte
	err error
}

func (e *encoder) u32(n int) {
	if n < 0 || uint64(n) > math.MaxUint32 {
		e.err = fmt.Errorf("wire: length %d out of range", n)
		return
	}
	e.buf = binary.LittleEndian.AppendUint32(e.buf, uint32(n))
}

func (e *encoder) i64(v int64) {
	e.buf = binary.LittleEndian.AppendUint64(e.buf, uint64(v))
}

func (e *encoder) str(s string) {
	e.u32(len(s))
	e.buf = append(e.buf, s...)
}

func (e *encoder) boolean(v bool) {
	if v {
		e.buf = append(e.buf, 1)
		return
	}
	e.buf = append(e.buf, 0)
}

// decoder deja de leer en el primer error; los valores siguientes son zero.
type decoder struct {
	buf []byte
	off int
	err error
}

func (d *decoder) take(n int) []byte {
	if d.err != nil {
		return nil
	}
	if n < 0 || len(d.buf)-d.off < n {
		d.err = ErrTruncated
		return nil
	}
	b := d.buf[d.off : d.off+n]
	d.off += n
	return b
}

func (d *decoder) u32() int {
	b := d.take(4)
	if b == nil {
		return 0
	}
	return int(binary.LittleEndian.Uint32(b))
}

func (d *decoder) i64() int64 {
	b := d.take(8)
	if b == nil {
		return 0
	}
	return int64(binary.LittleEndian.Uint64(b))
}

func (d *decoder) str() string {
	n := d.u32()
	b := d.take(n)
	if b == nil {
		return ""
	}
	return string(b)
}

func (d *decoder) boolean() bool {
	b := d.take(1)
	if b == nil {
		return false
	}
	switch b[0] {
	case 0:
		return false
	case 1:
		return true
	default:
		d.err = fmt.Errorf("%w: bool byte %d", ErrCorrupt, b[0])
		return false
	}
}

// count lee el largo de un vec; nunca puede superar la capacidad declarada.
func (d *decoder) count(capacity int) int {
	n := d.u32()
	if d.err == nil && n > capacity {
		d.err = fmt.Errorf("%w: %d entries over capacity %d", ErrCorrupt, n, capacity)
		return 0
	}
	return n
}
