package passport

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"pet-passport/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/passports", func(pr chi.Router) {
		pr.Post("/", createPassportHandler(svc))
		pr.Get("/", listPassportsHandler(svc))

		pr.Route("/{passportID}", func(one chi.Router) {
			// Lectura pública
			one.Get("/", getPassportHandler(svc))
			one.Get("/metadata", metadataHandler(svc))
			one.Get("/vaccinations/due", dueVaccinationsHandler(svc))

			// Owner
			one.Post("/owner", transferOwnerHandler(svc))
			one.Post("/vaccinations", appendVaccinationHandler(svc))
			one.Post("/health", appendHealthHandler(svc))
			one.Post("/locations", appendLocationHandler(svc))

			// Verificador
			one.Post("/records/{kind}/{index}/verify", verifyHandler(svc))
		})
	})
}

type createPassportRequest struct {
	ID        string `json:"id"` // opcional; vacío => UUID
	Name      string `json:"name"`
	Species   string `json:"species"`
	Breed     string `json:"breed"`
	BirthDate int64  `json:"birth_date"` // epoch segundos
}

type transferOwnerRequest struct {
	NewOwner string `json:"new_owner"`
}

type vaccinationRequest struct {
	VaccineName      string `json:"vaccine_name"`
	DateAdministered int64  `json:"date_administered"`
	NextDueDate      int64  `json:"next_due_date"`
	Veterinarian     string `json:"veterinarian"`
}

type healthRequest struct {
	RecordType   string `json:"record_type"`
	Date         int64  `json:"date"`
	Description  string `json:"description"`
	Veterinarian string `json:"veterinarian"`
}

type locationRequest struct {
	Location  string `json:"location"`
	Timestamp int64  `json:"timestamp"`
	EventType string `json:"event_type"`
}

type vaccinationResponse struct {
	VaccineName      string `json:"vaccine_name"`
	DateAdministered int64  `json:"date_administered"`
	NextDueDate      int64  `json:"next_due_date"`
	Veterinarian     string `json:"veterinarian"`
	Verified         bool   `json:"verified"`
}

type healthResponse struct {
	RecordType   string `json:"record_type"`
	Date         int64  `json:"date"`
	Description  string `json:"description"`
	Veterinarian string `json:"veterinarian"`
	Verified     bool   `json:"verified"`
}

type locationResponse struct {
	Location  string `json:"location"`
	Timestamp int64  `json:"timestamp"`
	EventType string `json:"event_type"`
}

type logUsage struct {
	Max       int `json:"max"`
	Used      int `json:"used"`
	Remaining int `json:"remaining"`
}

type capacityResponse struct {
	Vaccinations logUsage `json:"vaccinations"`
	Health       logUsage `json:"health"`
	Locations    logUsage `json:"locations"`
}

// PassportResponse es la vista JSON del pasaporte (API y passportctl --format json).
type PassportResponse struct {
	ID           string                `json:"id"`
	Name         string                `json:"name"`
	Species      string                `json:"species"`
	Breed        string                `json:"breed"`
	BirthDate    int64                 `json:"birth_date"`
	Owner        string                `json:"owner"`
	LastUpdated  int64                 `json:"last_updated"`
	Capacity     capacityResponse      `json:"capacity"`
	Vaccinations []vaccinationResponse `json:"vaccinations"`
	Health       []healthResponse      `json:"health_records"`
	Locations    []locationResponse    `json:"locations"`
}

type MetadataResponse struct {
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
	URI    string `json:"uri"`
}

type DueVaccinationResponse struct {
	Index int `json:"index"`
	vaccinationResponse
}

// createPassportHandler godoc
// @Summary Crear pasaporte
// @Description Crea el pasaporte de una mascota. El caller autenticado queda como owner. Los tres logs arrancan vacíos con la capacidad configurada. Autenticación: `X-Debug-User-ID` (dev) o `Authorization: Bearer <token>` (prod).
// @Tags passports
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param payload body createPassportRequest true "Datos de la mascota; birth_date en epoch segundos"
// @Success 201 {object} PassportResponse
// @Failure 400 {string} string "invalid json / campos inválidos"
// @Failure 401 {string} string "unauthorized"
// @Failure 409 {string} string "passport already exists"
// @Router /passports [post]
func createPassportHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller := middleware.Caller(r.Context())
		if caller == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req createPassportRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		p, err := svc.Create(r.Context(), CreateInput{
			ID:        req.ID,
			Name:      req.Name,
			Species:   req.Species,
			Breed:     req.Breed,
			BirthDate: req.BirthDate,
			Owner:     caller,
		})
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, NewPassportResponse(p))
	}
}

// listPassportsHandler godoc
// @Summary Listar pasaportes por owner
// @Description Lista los pasaportes de un owner. Sin `owner` en query se usa el caller autenticado.
// @Tags passports
// @Produce json
// @Param owner query string false "Identidad del owner"
// @Success 200 {array} PassportResponse
// @Failure 400 {string} string "owner required"
// @Router /passports [get]
func listPassportsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner := strings.TrimSpace(r.URL.Query().Get("owner"))
		if owner == "" {
			owner = middleware.Caller(r.Context())
		}
		if owner == "" {
			http.Error(w, "owner required", http.StatusBadRequest)
			return
		}

		items, err := svc.ListByOwner(r.Context(), owner)
		if err != nil {
			writeError(w, err)
			return
		}

		out := make([]PassportResponse, 0, len(items))
		for _, p := range items {
			out = append(out, NewPassportResponse(p))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// getPassportHandler godoc
// @Summary Obtener pasaporte
// @Description Devuelve el pasaporte completo con sus tres logs. Lectura pública, sin autenticación.
// @Tags passports
// @Produce json
// @Param passportID path string true "ID del pasaporte"
// @Success 200 {object} PassportResponse
// @Failure 404 {string} string "passport not found"
// @Router /passports/{passportID} [get]
func getPassportHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := svc.Get(r.Context(), chi.URLParam(r, "passportID"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, NewPassportResponse(p))
	}
}

// metadataHandler godoc
// @Summary Metadata del pasaporte
// @Description Descriptor estilo token (name, symbol, uri) derivado del pasaporte.
// @Tags passports
// @Produce json
// @Param passportID path string true "ID del pasaporte"
// @Success 200 {object} MetadataResponse
// @Failure 404 {string} string "passport not found"
// @Router /passports/{passportID}/metadata [get]
func metadataHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := svc.Get(r.Context(), chi.URLParam(r, "passportID"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, NewMetadataResponse(p.Metadata()))
	}
}

// dueVaccinationsHandler godoc
// @Summary Vacunas vencidas
// @Description Lista las vacunas con next_due_date <= as_of (epoch segundos, default ahora).
// @Tags passports
// @Produce json
// @Param passportID path string true "ID del pasaporte"
// @Param as_of query int false "Epoch segundos"
// @Success 200 {array} DueVaccinationResponse
// @Failure 400 {string} string "as_of inválido"
// @Failure 404 {string} string "passport not found"
// @Router /passports/{passportID}/vaccinations/due [get]
func dueVaccinationsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		asOf := svc.now()
		if raw := strings.TrimSpace(r.URL.Query().Get("as_of")); raw != "" {
			n, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				http.Error(w, "as_of must be epoch seconds", http.StatusBadRequest)
				return
			}
			asOf = time.Unix(n, 0)
		}

		due, err := svc.DueVaccinations(r.Context(), chi.URLParam(r, "passportID"), asOf)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, NewDueVaccinationResponses(due))
	}
}

// transferOwnerHandler godoc
// @Summary Transferir ownership
// @Description Reemplaza el owner. Solo el owner actual puede transferir.
// @Tags passports
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param passportID path string true "ID del pasaporte"
// @Param payload body transferOwnerRequest true "Nuevo owner"
// @Success 200 {object} PassportResponse
// @Failure 400 {string} string "invalid json / new_owner inválido"
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "passport not found"
// @Router /passports/{passportID}/owner [post]
func transferOwnerHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller := middleware.Caller(r.Context())
		if caller == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req transferOwnerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		id := chi.URLParam(r, "passportID")
		if err := svc.TransferOwner(r.Context(), id, caller, req.NewOwner); err != nil {
			writeError(w, err)
			return
		}
		writeCurrent(w, r, svc, id)
	}
}

// appendVaccinationHandler godoc
// @Summary Agregar vacuna
// @Description Agrega una vacuna al log (verified=false). Solo el owner. 409 si el log está lleno.
// @Tags records
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param passportID path string true "ID del pasaporte"
// @Param payload body vaccinationRequest true "Vacuna; fechas en epoch segundos"
// @Success 201 {object} PassportResponse
// @Failure 400 {string} string "invalid json / campos inválidos"
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "passport not found"
// @Failure 409 {string} string "capacity exceeded"
// @Router /passports/{passportID}/vaccinations [post]
func appendVaccinationHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller := middleware.Caller(r.Context())
		if caller == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req vaccinationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		id := chi.URLParam(r, "passportID")
		err := svc.AppendVaccination(r.Context(), id, caller, VaccinationRecord{
			VaccineName:      req.VaccineName,
			DateAdministered: req.DateAdministered,
			NextDueDate:      req.NextDueDate,
			Veterinarian:     req.Veterinarian,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeCurrentStatus(w, r, svc, id, http.StatusCreated)
	}
}

// appendHealthHandler godoc
// @Summary Agregar registro de salud
// @Description Agrega un registro de salud (verified=false). Solo el owner. 409 si el log está lleno.
// @Tags records
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param passportID path string true "ID del pasaporte"
// @Param payload body healthRequest true "Registro de salud; date en epoch segundos"
// @Success 201 {object} PassportResponse
// @Failure 400 {string} string "invalid json / campos inválidos"
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "passport not found"
// @Failure 409 {string} string "capacity exceeded"
// @Router /passports/{passportID}/health [post]
func appendHealthHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller := middleware.Caller(r.Context())
		if caller == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req healthRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		id := chi.URLParam(r, "passportID")
		err := svc.AppendHealth(r.Context(), id, caller, HealthRecord{
			RecordType:   req.RecordType,
			Date:         req.Date,
			Description:  req.Description,
			Veterinarian: req.Veterinarian,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeCurrentStatus(w, r, svc, id, http.StatusCreated)
	}
}

// appendLocationHandler godoc
// @Summary Agregar evento de ubicación
// @Description Agrega un evento al historial de ubicaciones. Solo el owner. 409 si el log está lleno.
// @Tags records
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param passportID path string true "ID del pasaporte"
// @Param payload body locationRequest true "Ubicación; timestamp en epoch segundos"
// @Success 201 {object} PassportResponse
// @Failure 400 {string} string "invalid json / campos inválidos"
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "passport not found"
// @Failure 409 {string} string "capacity exceeded"
// @Router /passports/{passportID}/locations [post]
func appendLocationHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller := middleware.Caller(r.Context())
		if caller == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req locationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		id := chi.URLParam(r, "passportID")
		err := svc.AppendLocation(r.Context(), id, caller, LocationRecord{
			Location:  req.Location,
			Timestamp: req.Timestamp,
			EventType: req.EventType,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeCurrentStatus(w, r, svc, id, http.StatusCreated)
	}
}

// verifyHandler godoc
// @Summary Verificar entrada
// @Description Marca una vacuna o registro de salud como verificado. Lo decide la política de verificadores, no el ownership. Es idempotente.
// @Tags records
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param passportID path string true "ID del pasaporte"
// @Param kind path string true "vaccination | health"
// @Param index path int true "Índice 0-based en el log"
// @Success 200 {object} PassportResponse
// @Failure 400 {string} string "invalid record kind"
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "passport not found / index out of range"
// @Router /passports/{passportID}/records/{kind}/{index}/verify [post]
func verifyHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller := middleware.Caller(r.Context())
		if caller == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		index, err := strconv.Atoi(chi.URLParam(r, "index"))
		if err != nil {
			// Un índice no numérico nunca existe en el log.
			index = -1
		}

		id := chi.URLParam(r, "passportID")
		if err := svc.Verify(r.Context(), id, caller, chi.URLParam(r, "kind"), index); err != nil {
			writeError(w, err)
			return
		}
		writeCurrent(w, r, svc, id)
	}
}

func writeCurrent(w http.ResponseWriter, r *http.Request, svc *Service, id string) {
	writeCurrentStatus(w, r, svc, id, http.StatusOK)
}

func writeCurrentStatus(w http.ResponseWriter, r *http.Request, svc *Service, id string, status int) {
	p, err := svc.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, status, NewPassportResponse(p))
}

// StatusCode traduce errores del dominio a HTTP.
func StatusCode(err error) int {
	switch {
	case errors.Is(err, ErrInvalidInput),
		errors.Is(err, ErrInvalidRecordKind),
		errors.Is(err, ErrRecordTooLarge):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound),
		errors.Is(err, ErrIndexOutOfRange):
		return http.StatusNotFound
	case errors.Is(err, ErrAlreadyExists),
		errors.Is(err, ErrCapacityExceeded):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := StatusCode(err)
	switch status {
	case http.StatusForbidden:
		http.Error(w, "forbidden", status)
	case http.StatusInternalServerError:
		http.Error(w, "internal error", status)
	default:
		http.Error(w, err.Error(), status)
	}
}

func NewPassportResponse(p Passport) PassportResponse {
	out := PassportResponse{
		ID:          p.ID,
		Name:        p.Name,
		Species:     p.Species,
		Breed:       p.Breed,
		BirthDate:   p.BirthDate,
		Owner:       p.Owner,
		LastUpdated: p.LastUpdated,
		Capacity: capacityResponse{
			Vaccinations: usage(p, KindVaccination),
			Health:       usage(p, KindHealth),
			Locations:    usage(p, KindLocation),
		},
		Vaccinations: make([]vaccinationResponse, 0, len(p.Vaccinations)),
		Health:       make([]healthResponse, 0, len(p.Health)),
		Locations:    make([]locationResponse, 0, len(p.Locations)),
	}
	for _, v := range p.Vaccinations {
		out.Vaccinations = append(out.Vaccinations, toVaccinationResponse(v))
	}
	for _, h := range p.Health {
		out.Health = append(out.Health, healthResponse{
			RecordType:   h.RecordType,
			Date:         h.Date,
			Description:  h.Description,
			Veterinarian: h.Veterinarian,
			Verified:     h.Verified,
		})
	}
	for _, l := range p.Locations {
		out.Locations = append(out.Locations, locationResponse{
			Location:  l.Location,
			Timestamp: l.Timestamp,
			EventType: l.EventType,
		})
	}
	return out
}

func NewMetadataResponse(m Metadata) MetadataResponse {
	return MetadataResponse{Name: m.Name, Symbol: m.Symbol, URI: m.URI}
}

func NewDueVaccinationResponses(due []DueVaccination) []DueVaccinationResponse {
	out := make([]DueVaccinationResponse, 0, len(due))
	for _, d := range due {
		out = append(out, DueVaccinationResponse{Index: d.Index, vaccinationResponse: toVaccinationResponse(d.Record)})
	}
	return out
}

func toVaccinationResponse(v VaccinationRecord) vaccinationResponse {
	return vaccinationResponse{
		VaccineName:      v.VaccineName,
		DateAdministered: v.DateAdministered,
		NextDueDate:      v.NextDueDate,
		Veterinarian:     v.Veterinarian,
		Verified:         v.Verified,
	}
}

func usage(p Passport, kind RecordKind) logUsage {
	return logUsage{Max: p.Capacity.Max(kind), Used: p.Len(kind), Remaining: p.Remaining(kind)}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
