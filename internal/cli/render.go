package cli

import (
	"fmt"
	"io"
	"time"

	"pet-passport/internal/domain/passport"
)

func day(epoch int64) string {
	return time.Unix(epoch, 0).UTC().Format("2006-01-02")
}

func timestamp(epoch int64) string {
	return time.Unix(epoch, 0).UTC().Format(time.RFC3339)
}

func mark(verified bool) string {
	if verified {
		return "verified"
	}
	return "unverified"
}

func renderPassport(w io.Writer, p passport.Passport) {
	fmt.Fprintf(w, "Passport %s\n", p.ID)
	fmt.Fprintf(w, "  name:    %s\n", p.Name)
	fmt.Fprintf(w, "  species: %s\n", p.Species)
	fmt.Fprintf(w, "  breed:   %s\n", p.Breed)
	fmt.Fprintf(w, "  born:    %s\n", day(p.BirthDate))
	fmt.Fprintf(w, "  owner:   %s\n", p.Owner)
	fmt.Fprintf(w, "  updated: %s\n", timestamp(p.LastUpdated))

	fmt.Fprintf(w, "Vaccinations %d/%d\n", len(p.Vaccinations), p.Capacity.Vaccinations)
	for i, v := range p.Vaccinations {
		fmt.Fprintf(w, "  [%d] %s administered %s, next due %s, vet %q, %s\n",
			i, v.VaccineName, day(v.DateAdministered), day(v.NextDueDate), v.Veterinarian, mark(v.Verified))
	}

	fmt.Fprintf(w, "Health records %d/%d\n", len(p.Health), p.Capacity.Health)
	for i, h := range p.Health {
		fmt.Fprintf(w, "  [%d] %s on %s, vet %q, %s: %s\n",
			i, h.RecordType, day(h.Date), h.Veterinarian, mark(h.Verified), h.Description)
	}

	fmt.Fprintf(w, "Locations %d/%d\n", len(p.Locations), p.Capacity.Locations)
	for i, l := range p.Locations {
		fmt.Fprintf(w, "  [%d] %s %s at %s\n", i, l.EventType, l.Location, timestamp(l.Timestamp))
	}
}
