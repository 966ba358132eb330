package router_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	jwtauth "pet-passport/internal/adapters/auth/jwt"
	"pet-passport/internal/domain/passport"
	"pet-passport/internal/router"
)

type passportDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Species     string `json:"species"`
	Breed       string `json:"breed"`
	Owner       string `json:"owner"`
	LastUpdated int64  `json:"last_updated"`
	Capacity    struct {
		Vaccinations struct {
			Max       int `json:"max"`
			Used      int `json:"used"`
			Remaining int `json:"remaining"`
		} `json:"vaccinations"`
	} `json:"capacity"`
	Vaccinations []struct {
		VaccineName string `json:"vaccine_name"`
		Verified    bool   `json:"verified"`
	} `json:"vaccinations"`
	Health []struct {
		RecordType string `json:"record_type"`
		Verified   bool   `json:"verified"`
	} `json:"health_records"`
	Locations []struct {
		Location string `json:"location"`
	} `json:"locations"`
}

func TestHTTP_EndToEnd_CapacityAndVerification(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{AuthVerifier: nil}))
	defer ts.Close()

	ownerA := "owner-a"
	vetB := "vet-b"

	// 1) A crea a Rex
	p := createPassport(t, ts.URL, ownerA, map[string]any{
		"name":       "Rex",
		"species":    "Dog",
		"breed":      "Labrador",
		"birth_date": 1577836800,
	})
	if p.Owner != ownerA || p.Name != "Rex" || p.Breed != "Labrador" {
		t.Fatalf("unexpected passport: %+v", p)
	}
	if len(p.Vaccinations) != 0 || len(p.Health) != 0 || len(p.Locations) != 0 {
		t.Fatalf("expected empty logs, got %+v", p)
	}
	if p.Capacity.Vaccinations.Remaining != passport.DefaultLogCapacity {
		t.Fatalf("expected remaining %d, got %d", passport.DefaultLogCapacity, p.Capacity.Vaccinations.Remaining)
	}

	// 2) B no es owner: no puede agregar
	{
		st, body := doReq(t, ts.URL, "POST", "/passports/"+p.ID+"/vaccinations", vetB, vaccination("Rabies"))
		if st != http.StatusForbidden {
			t.Fatalf("expected 403 append by non-owner, got %d body=%s", st, string(body))
		}
	}

	// 3) A llena el log de vacunas
	for i := 0; i < passport.DefaultLogCapacity; i++ {
		st, body := doReq(t, ts.URL, "POST", "/passports/"+p.ID+"/vaccinations", ownerA, vaccination(fmt.Sprintf("V%d", i)))
		if st != http.StatusCreated {
			t.Fatalf("expected 201 append #%d, got %d body=%s", i, st, string(body))
		}
	}

	// 4) el siguiente excede capacidad y no cambia nada
	{
		st, body := doReq(t, ts.URL, "POST", "/passports/"+p.ID+"/vaccinations", ownerA, vaccination("extra"))
		if st != http.StatusConflict {
			t.Fatalf("expected 409 on full log, got %d body=%s", st, string(body))
		}
		got := getPassport(t, ts.URL, p.ID)
		if len(got.Vaccinations) != passport.DefaultLogCapacity || got.Capacity.Vaccinations.Remaining != 0 {
			t.Fatalf("expected full untouched log, got %d entries", len(got.Vaccinations))
		}
	}

	// 5) B verifica la vacuna 0 (no necesita ser owner)
	{
		st, body := doReq(t, ts.URL, "POST", "/passports/"+p.ID+"/records/vaccination/0/verify", vetB, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 verify, got %d body=%s", st, string(body))
		}
		var got passportDTO
		mustJSON(t, body, &got)
		if !got.Vaccinations[0].Verified || got.Vaccinations[1].Verified {
			t.Fatalf("expected only entry 0 verified, got %+v", got.Vaccinations[:2])
		}
	}

	// 6) verificar de nuevo es idempotente
	{
		before := getPassport(t, ts.URL, p.ID)
		st, body := doReq(t, ts.URL, "POST", "/passports/"+p.ID+"/records/vaccination/0/verify", vetB, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 re-verify, got %d body=%s", st, string(body))
		}
		after := getPassport(t, ts.URL, p.ID)
		if after.LastUpdated != before.LastUpdated {
			t.Fatalf("re-verify must not touch last_updated: %d -> %d", before.LastUpdated, after.LastUpdated)
		}
	}

	// 7) errores de verify
	cases := []struct {
		name   string
		path   string
		caller string
		want   int
	}{
		{"location no es verificable", "/passports/" + p.ID + "/records/location/0/verify", vetB, http.StatusBadRequest},
		{"kind desconocido", "/passports/" + p.ID + "/records/grooming/0/verify", vetB, http.StatusBadRequest},
		{"indice fuera de rango", "/passports/" + p.ID + "/records/health/0/verify", vetB, http.StatusNotFound},
		{"indice no numerico", "/passports/" + p.ID + "/records/vaccination/abc/verify", vetB, http.StatusNotFound},
		{"pasaporte inexistente", "/passports/nope/records/vaccination/0/verify", vetB, http.StatusNotFound},
		{"sin caller", "/passports/" + p.ID + "/records/vaccination/1/verify", "", http.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			st, body := doReq(t, ts.URL, "POST", tc.path, tc.caller, nil)
			if st != tc.want {
				t.Fatalf("expected %d, got %d body=%s", tc.want, st, string(body))
			}
		})
	}
}

func TestHTTP_EndToEnd_TransferOwner(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{AuthVerifier: nil}))
	defer ts.Close()

	ownerA := "owner-a"
	ownerC := "owner-c"

	p := createPassport(t, ts.URL, ownerA, map[string]any{"name": "Rex", "species": "Dog", "breed": "Labrador"})

	// C todavía no es owner
	{
		st, _ := doReq(t, ts.URL, "POST", "/passports/"+p.ID+"/owner", ownerC, map[string]any{"new_owner": ownerC})
		if st != http.StatusForbidden {
			t.Fatalf("expected 403 transfer by non-owner, got %d", st)
		}
	}

	// A transfiere a C
	{
		st, body := doReq(t, ts.URL, "POST", "/passports/"+p.ID+"/owner", ownerA, map[string]any{"new_owner": ownerC})
		if st != http.StatusOK {
			t.Fatalf("expected 200 transfer, got %d body=%s", st, string(body))
		}
		var got passportDTO
		mustJSON(t, body, &got)
		if got.Owner != ownerC {
			t.Fatalf("expected owner %q, got %q", ownerC, got.Owner)
		}
	}

	// A ya no puede agregar
	{
		st, _ := doReq(t, ts.URL, "POST", "/passports/"+p.ID+"/health", ownerA, map[string]any{
			"record_type": "Checkup", "date": 1700000000, "description": "annual",
		})
		if st != http.StatusForbidden {
			t.Fatalf("expected 403 append by previous owner, got %d", st)
		}
	}

	// C sí
	{
		st, body := doReq(t, ts.URL, "POST", "/passports/"+p.ID+"/locations", ownerC, map[string]any{
			"location": "Lisbon", "timestamp": 1700000000, "event_type": "Moved",
		})
		if st != http.StatusCreated {
			t.Fatalf("expected 201 append by new owner, got %d body=%s", st, string(body))
		}
	}

	// el listado por owner refleja la transferencia
	{
		st, body := doReq(t, ts.URL, "GET", "/passports?owner="+ownerC, "", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 list, got %d body=%s", st, string(body))
		}
		var items []passportDTO
		mustJSON(t, body, &items)
		if len(items) != 1 || items[0].ID != p.ID {
			t.Fatalf("expected [%s], got %+v", p.ID, items)
		}

		st, body = doReq(t, ts.URL, "GET", "/passports", ownerA, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 list, got %d", st)
		}
		mustJSON(t, body, &items)
		if len(items) != 0 {
			t.Fatalf("expected no passports for previous owner, got %d", len(items))
		}
	}

	// la lectura es pública
	got := getPassport(t, ts.URL, p.ID)
	if got.Owner != ownerC || len(got.Locations) != 1 {
		t.Fatalf("unexpected passport after transfer: %+v", got)
	}
}

func TestHTTP_CreateErrors(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{AuthVerifier: nil}))
	defer ts.Close()

	st, _ := doReq(t, ts.URL, "POST", "/passports", "", map[string]any{"name": "Rex", "species": "Dog"})
	if st != http.StatusUnauthorized {
		t.Fatalf("expected 401 without caller, got %d", st)
	}

	p := createPassport(t, ts.URL, "owner-a", map[string]any{"id": "rex-1", "name": "Rex", "species": "Dog"})
	if p.ID != "rex-1" {
		t.Fatalf("expected id rex-1, got %q", p.ID)
	}

	st, _ = doReq(t, ts.URL, "POST", "/passports", "owner-b", map[string]any{"id": "rex-1", "name": "Other", "species": "Cat"})
	if st != http.StatusConflict {
		t.Fatalf("expected 409 on duplicate id, got %d", st)
	}

	st, _ = doReq(t, ts.URL, "POST", "/passports", "owner-a", map[string]any{"name": strings.Repeat("x", 33), "species": "Dog"})
	if st != http.StatusBadRequest {
		t.Fatalf("expected 400 on long name, got %d", st)
	}

	st, _ = doReq(t, ts.URL, "GET", "/passports/missing", "", nil)
	if st != http.StatusNotFound {
		t.Fatalf("expected 404 on missing passport, got %d", st)
	}
}

func TestHTTP_MetadataAndDueVaccinations(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{AuthVerifier: nil}))
	defer ts.Close()

	p := createPassport(t, ts.URL, "owner-a", map[string]any{"name": "Rex", "species": "Dog"})

	for _, v := range []map[string]any{
		{"vaccine_name": "Rabies", "date_administered": 1600000000, "next_due_date": 1650000000},
		{"vaccine_name": "Parvo", "date_administered": 1600000000, "next_due_date": 1800000000},
	} {
		st, body := doReq(t, ts.URL, "POST", "/passports/"+p.ID+"/vaccinations", "owner-a", v)
		if st != http.StatusCreated {
			t.Fatalf("expected 201, got %d body=%s", st, string(body))
		}
	}

	st, body := doReq(t, ts.URL, "GET", "/passports/"+p.ID+"/vaccinations/due?as_of=1700000000", "", nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 due, got %d body=%s", st, string(body))
	}
	var due []struct {
		Index       int    `json:"index"`
		VaccineName string `json:"vaccine_name"`
	}
	mustJSON(t, body, &due)
	if len(due) != 1 || due[0].Index != 0 || due[0].VaccineName != "Rabies" {
		t.Fatalf("unexpected due list: %+v", due)
	}

	st, _ = doReq(t, ts.URL, "GET", "/passports/"+p.ID+"/vaccinations/due?as_of=soon", "", nil)
	if st != http.StatusBadRequest {
		t.Fatalf("expected 400 on bad as_of, got %d", st)
	}

	st, body = doReq(t, ts.URL, "GET", "/passports/"+p.ID+"/metadata", "", nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 metadata, got %d", st)
	}
	var meta map[string]string
	mustJSON(t, body, &meta)
	if meta["name"] != "Pet Passport: Rex" || meta["symbol"] != "PPT" || meta["uri"] != "" {
		t.Fatalf("unexpected metadata: %+v", meta)
	}
}

func TestHTTP_BearerAuth(t *testing.T) {
	v, err := jwtauth.NewVerifier("s3cret", "")
	if err != nil {
		t.Fatalf("new verifier: %v", err)
	}
	ts := httptest.NewServer(router.NewRouter(router.Options{AuthVerifier: v}))
	defer ts.Close()

	tok, err := v.Issue("owner-a", "", time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	body := map[string]any{"name": "Rex", "species": "Dog"}

	if st, _ := doBearer(t, ts.URL, "POST", "/passports", "garbage", body); st != http.StatusUnauthorized {
		t.Fatalf("expected 401 on invalid token, got %d", st)
	}
	// con verifier, el header de debug no autentica
	if st, _ := doReq(t, ts.URL, "POST", "/passports", "owner-a", body); st != http.StatusUnauthorized {
		t.Fatalf("expected 401 with debug header in jwt mode, got %d", st)
	}

	st, raw := doBearer(t, ts.URL, "POST", "/passports", tok, body)
	if st != http.StatusCreated {
		t.Fatalf("expected 201 with valid token, got %d body=%s", st, string(raw))
	}
	var p passportDTO
	mustJSON(t, raw, &p)
	if p.Owner != "owner-a" {
		t.Fatalf("expected owner from token subject, got %q", p.Owner)
	}
}

func TestHTTP_OpsEndpoints(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{AuthVerifier: nil}))
	defer ts.Close()

	createPassport(t, ts.URL, "owner-a", map[string]any{"name": "Rex", "species": "Dog"})

	st, body := doReq(t, ts.URL, "GET", "/health", "", nil)
	if st != http.StatusOK || string(body) != "ok" {
		t.Fatalf("expected 200 ok, got %d %q", st, string(body))
	}

	st, body = doReq(t, ts.URL, "GET", "/metrics", "", nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 metrics, got %d", st)
	}
	if !strings.Contains(string(body), `pet_passport_operations_total{operation="create",outcome="ok"} 1`) {
		t.Fatalf("expected create counter in metrics output")
	}

	st, body = doReq(t, ts.URL, "GET", "/swagger/doc.json", "", nil)
	if st != http.StatusOK || !strings.Contains(string(body), "/passports/{passportID}/records/{kind}/{index}/verify") {
		t.Fatalf("expected swagger doc, got %d", st)
	}
}

func createPassport(t *testing.T, baseURL, userID string, body map[string]any) passportDTO {
	t.Helper()

	st, raw := doReq(t, baseURL, "POST", "/passports", userID, body)
	if st != http.StatusCreated {
		t.Fatalf("expected 201 create passport, got %d body=%s", st, string(raw))
	}
	var p passportDTO
	mustJSON(t, raw, &p)
	if p.ID == "" {
		t.Fatalf("expected passport id")
	}
	return p
}

func getPassport(t *testing.T, baseURL, id string) passportDTO {
	t.Helper()

	st, raw := doReq(t, baseURL, "GET", "/passports/"+id, "", nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 get passport, got %d body=%s", st, string(raw))
	}
	var p passportDTO
	mustJSON(t, raw, &p)
	return p
}

func vaccination(name string) map[string]any {
	return map[string]any{
		"vaccine_name":      name,
		"date_administered": 1700000000,
		"next_due_date":     1731536000,
		"veterinarian":      "Dr. Vet",
	}
}

func mustJSON(t *testing.T, raw []byte, v any) {
	t.Helper()
	if err := json.Unmarshal(raw, v); err != nil {
		t.Fatalf("json unmarshal: %v body=%s", err, string(raw))
	}
}

func doBearer(t *testing.T, baseURL, method, path, token string, body any) (int, []byte) {
	t.Helper()
	return do(t, baseURL, method, path, map[string]string{"Authorization": "Bearer " + token}, body)
}

func doReq(t *testing.T, baseURL, method, path, debugUserID string, body any) (int, []byte) {
	t.Helper()

	headers := map[string]string{}
	if debugUserID != "" {
		headers["X-Debug-User-ID"] = debugUserID
	}
	return do(t, baseURL, method, path, headers, body)
}

func do(t *testing.T, baseURL, method, path string, headers map[string]string, body any) (int, []byte) {
	t.Helper()

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("json marshal: %v", err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, baseURL+path, rdr)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer res.Body.Close()

	respBody, _ := io.ReadAll(res.Body)
	return res.StatusCode, respBody
}
