package router_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"appointment-lifecycle/internal/router"
)

func TestHTTP_EndToEnd_AppointmentLifecycle(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{}))
	defer ts.Close()

	org := "org-1"
	staff := ident{userID: "staff-1", role: "staff", org: org}
	doctor := ident{userID: "doctor-1", role: "doctor", org: org}
	patient := ident{userID: "patient-1", role: "patient", org: org}

	futureDate := time.Now().AddDate(0, 0, 2).Format("2006-01-02")

	// 1) Staff agenda una cita para el paciente
	aptID := createAppointment(t, ts.URL, staff, map[string]any{
		"patient_id":       patient.userID,
		"doctor_id":        doctor.userID,
		"doctor_name":      "Dra. Ana Pérez",
		"service_name":     "Consulta general",
		"appointment_date": futureDate,
		"start_time":       "09:30",
		"duration_minutes": 30,
	})

	// 2) El paciente la ve en vigentes
	{
		st, body := doReq(t, ts.URL, "GET", "/appointments?bucket=vigentes", patient, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 listing vigentes, got %d body=%s", st, body)
		}
		var items []map[string]any
		mustDecode(t, body, &items)
		if len(items) != 1 {
			t.Fatalf("expected 1 vigente, got %d", len(items))
		}
		if items[0]["status"] != "pending" {
			t.Fatalf("expected pending, got %v", items[0]["status"])
		}
	}

	// 3) El menú del paciente sobre pending: solo cancelar, con motivo
	{
		st, body := doReq(t, ts.URL, "GET", "/appointments/"+aptID+"/transitions", patient, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 transitions, got %d body=%s", st, body)
		}
		var resp struct {
			Status      string `json:"status"`
			Transitions []struct {
				To             string `json:"to"`
				RequiresReason bool   `json:"requires_reason"`
			} `json:"transitions"`
		}
		mustDecode(t, body, &resp)
		if resp.Status != "pending" {
			t.Fatalf("expected pending, got %s", resp.Status)
		}
		if len(resp.Transitions) != 1 || resp.Transitions[0].To != "cancelled_by_patient" {
			t.Fatalf("unexpected patient menu: %+v", resp.Transitions)
		}
		if !resp.Transitions[0].RequiresReason {
			t.Fatalf("patient cancellation must require a reason")
		}
	}

	// 4) Cancelar sin motivo => 400, y la cita no se toca
	{
		st, _ := doReq(t, ts.URL, "POST", "/appointments/"+aptID+"/status", patient, map[string]any{
			"status": "cancelled_by_patient",
		})
		if st != http.StatusBadRequest {
			t.Fatalf("expected 400 without reason, got %d", st)
		}
	}

	// 5) Transición ilegal (pending -> completed) => 409
	{
		st, _ := doReq(t, ts.URL, "POST", "/appointments/"+aptID+"/status", staff, map[string]any{
			"status": "completed",
		})
		if st != http.StatusConflict {
			t.Fatalf("expected 409 for illegal transition, got %d", st)
		}
	}

	// 6) Staff confirma
	{
		st, body := doReq(t, ts.URL, "POST", "/appointments/"+aptID+"/status", staff, map[string]any{
			"status": "confirmed",
		})
		if st != http.StatusOK {
			t.Fatalf("expected 200 confirming, got %d body=%s", st, body)
		}
		var resp map[string]any
		mustDecode(t, body, &resp)
		if resp["status"] != "confirmed" {
			t.Fatalf("expected confirmed, got %v", resp["status"])
		}
	}

	// 7) Doctor inicia y completa la consulta
	{
		st, _ := doReq(t, ts.URL, "POST", "/appointments/"+aptID+"/status", doctor, map[string]any{
			"status": "in_progress",
		})
		if st != http.StatusOK {
			t.Fatalf("expected 200 starting, got %d", st)
		}
		st, _ = doReq(t, ts.URL, "POST", "/appointments/"+aptID+"/status", doctor, map[string]any{
			"status": "completed",
		})
		if st != http.StatusOK {
			t.Fatalf("expected 200 completing, got %d", st)
		}
	}

	// 8) Estado terminal: menú vacío para todos
	{
		st, body := doReq(t, ts.URL, "GET", "/appointments/"+aptID+"/transitions", staff, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 transitions, got %d", st)
		}
		var resp struct {
			Transitions []any `json:"transitions"`
		}
		mustDecode(t, body, &resp)
		if len(resp.Transitions) != 0 {
			t.Fatalf("expected empty menu on completed, got %+v", resp.Transitions)
		}
	}

	// 9) Completada y futura: historial igual (el estado domina la fecha)
	{
		st, body := doReq(t, ts.URL, "GET", "/appointments?bucket=historial", patient, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 historial, got %d", st)
		}
		var items []map[string]any
		mustDecode(t, body, &items)
		if len(items) != 1 {
			t.Fatalf("expected 1 in historial, got %d", len(items))
		}

		st, body = doReq(t, ts.URL, "GET", "/appointments?bucket=vigentes", patient, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 vigentes, got %d", st)
		}
		mustDecode(t, body, &items)
		if len(items) != 0 {
			t.Fatalf("expected empty vigentes after completion, got %d", len(items))
		}
	}

	// 10) Trail: visible para staff, prohibido para el paciente
	{
		st, body := doReq(t, ts.URL, "GET", "/appointments/"+aptID+"/audit", staff, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 audit for staff, got %d", st)
		}
		var entries []map[string]any
		mustDecode(t, body, &entries)
		if len(entries) != 3 {
			t.Fatalf("expected 3 audit entries, got %d", len(entries))
		}

		st, _ = doReq(t, ts.URL, "GET", "/appointments/"+aptID+"/audit", patient, nil)
		if st != http.StatusForbidden {
			t.Fatalf("expected 403 audit for patient, got %d", st)
		}
	}
}

func TestHTTP_PatientCancellationWithReason(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{}))
	defer ts.Close()

	org := "org-1"
	staff := ident{userID: "staff-1", role: "staff", org: org}
	patient := ident{userID: "patient-1", role: "patient", org: org}

	aptID := createAppointment(t, ts.URL, staff, map[string]any{
		"patient_id":       patient.userID,
		"doctor_id":        "doctor-1",
		"appointment_date": time.Now().AddDate(0, 0, 1).Format("2006-01-02"),
		"start_time":       "11:00",
	})

	st, body := doReq(t, ts.URL, "POST", "/appointments/"+aptID+"/status", patient, map[string]any{
		"status": "cancelled_by_patient",
		"reason": "no puedo asistir",
	})
	if st != http.StatusOK {
		t.Fatalf("expected 200 cancelling with reason, got %d body=%s", st, body)
	}

	// otro paciente no ve ni toca la cita
	stranger := ident{userID: "patient-2", role: "patient", org: org}
	st, _ = doReq(t, ts.URL, "GET", "/appointments/"+aptID, stranger, nil)
	if st != http.StatusForbidden {
		t.Fatalf("expected 403 for another patient, got %d", st)
	}
}

func TestHTTP_AuthGuards(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{}))
	defer ts.Close()

	// sin identidad => 401
	req, _ := http.NewRequest("GET", ts.URL+"/appointments", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request error: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 without identity, got %d", resp.StatusCode)
	}

	// rol desconocido => 403
	st, _ := doReq(t, ts.URL, "GET", "/appointments", ident{userID: "u", role: "ghost", org: "org-1"}, nil)
	if st != http.StatusForbidden {
		t.Fatalf("expected 403 for unknown role, got %d", st)
	}
}

func TestHTTP_StatusLegend(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{}))
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/statuses")
	if err != nil {
		t.Fatalf("request error: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var items []struct {
		Status       string `json:"status"`
		SortPriority int    `json:"sort_priority"`
		Terminal     bool   `json:"terminal"`
	}
	b, _ := io.ReadAll(resp.Body)
	mustDecode(t, b, &items)

	if len(items) != 8 {
		t.Fatalf("expected 8 statuses, got %d", len(items))
	}
	for i := 1; i < len(items); i++ {
		if items[i-1].SortPriority > items[i].SortPriority {
			t.Fatalf("legend out of order at %d", i)
		}
	}
}

// -------------------------
// helpers
// -------------------------

type ident struct {
	userID string
	role   string
	org    string
}

func createAppointment(t *testing.T, baseURL string, who ident, payload map[string]any) string {
	t.Helper()

	st, body := doReq(t, baseURL, "POST", "/appointments", who, payload)
	if st != http.StatusCreated {
		t.Fatalf("expected 201 creating appointment, got %d body=%s", st, body)
	}

	var resp struct {
		ID string `json:"id"`
	}
	mustDecode(t, body, &resp)
	if resp.ID == "" {
		t.Fatalf("create response missing id: %s", body)
	}
	return resp.ID
}

func doReq(t *testing.T, baseURL, method, path string, who ident, payload map[string]any) (int, []byte) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, baseURL+path, body)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("X-Debug-User-ID", who.userID)
	req.Header.Set("X-Debug-Role", who.role)
	req.Header.Set("X-Debug-Org-ID", who.org)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp.StatusCode, b
}

func mustDecode(t *testing.T, b []byte, v any) {
	t.Helper()
	if err := json.Unmarshal(b, v); err != nil {
		t.Fatalf("decode %s: %v", b, err)
	}
}
