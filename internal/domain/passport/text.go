package passport

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Límites en bytes (UTF-8, NFC).
const (
	MaxIDBytes           = 64
	MaxNameBytes         = 32
	MaxSpeciesBytes      = 32
	MaxBreedBytes        = 32
	MaxOwnerBytes        = 64
	MaxVaccineNameBytes  = 32
	MaxVeterinarianBytes = 32
	MaxRecordTypeBytes   = 32
	MaxDescriptionBytes  = 64
	MaxLocationBytes     = 64
	MaxEventTypeBytes    = 32
)

// boundedText normaliza a NFC y recién después aplica el límite en bytes.
func boundedText(field, s string, max int, required bool) (string, error) {
	s = norm.NFC.String(strings.TrimSpace(s))
	if required && s == "" {
		return "", fmt.Errorf("%w: %s is required", ErrInvalidInput, field)
	}
	if len(s) > max {
		return "", fmt.Errorf("%w: %s exceeds %d bytes", ErrInvalidInput, field, max)
	}
	return s, nil
}

// NormalizeIdentity aplica las mismas reglas a identidades de Principal.
func NormalizeIdentity(s string) (string, error) {
	return boundedText("identity", s, MaxOwnerBytes, true)
}

// canonicalCaller: una identidad que no normaliza queda como "" (sin permisos).
func canonicalCaller(s string) string {
	id, err := NormalizeIdentity(s)
	if err != nil {
		return ""
	}
	return id
}

func (r VaccinationRecord) normalized() (VaccinationRecord, error) {
	var err error
	if r.VaccineName, err = boundedText("vaccine_name", r.VaccineName, MaxVaccineNameBytes, true); err != nil {
		return r, err
	}
	if r.Veterinarian, err = boundedText("veterinarian", r.Veterinarian, MaxVeterinarianBytes, false); err != nil {
		return r, err
	}
	r.Verified = false
	return r, nil
}

func (r HealthRecord) normalized() (HealthRecord, error) {
	var err error
	if r.RecordType, err = boundedText("record_type", r.RecordType, MaxRecordTypeBytes, true); err != nil {
		return r, err
	}
	if r.Description, err = boundedText("description", r.Description, MaxDescriptionBytes, false); err != nil {
		return r, err
	}
	if r.Veterinarian, err = boundedText("veterinarian", r.Veterinarian, MaxVeterinarianBytes, false); err != nil {
		return r, err
	}
	r.Verified = false
	return r, nil
}

func (r LocationRecord) normalized() (LocationRecord, error) {
	var err error
	if r.Location, err = boundedText("location", r.Location, MaxLocationBytes, true); err != nil {
		return r, err
	}
	if r.EventType, err = boundedText("event_type", r.EventType, MaxEventTypeBytes, true); err != nil {
		return r, err
	}
	return r, nil
}
