package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"appointment-lifecycle/internal/adapters/records"
	"appointment-lifecycle/internal/domain/appointments"
	"appointment-lifecycle/internal/platform/httpclient"
)

// AppointmentsRepo habla con el store hosted vía su API REST estilo
// PostgREST (filtros `col=eq.valor`, PATCH con Prefer: return=representation).
// Las filas que vuelven pasan por el adapter de normalización: el resto del
// sistema nunca ve la forma cruda de las relaciones anidadas.
type AppointmentsRepo struct {
	client *httpclient.Client
	apiKey string
}

const appointmentSelect = "*,doctor:doctors(id,first_name,last_name),service:services(id,name)"

func NewAppointmentsRepo(baseURL, apiKey string, timeout time.Duration) (*AppointmentsRepo, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, fmt.Errorf("rest: base url required")
	}
	client, err := httpclient.NewWithBaseURL(baseURL, timeout)
	if err != nil {
		return nil, err
	}
	return &AppointmentsRepo{client: client, apiKey: strings.TrimSpace(apiKey)}, nil
}

func (r *AppointmentsRepo) Create(ctx context.Context, a appointments.Appointment) error {
	body := map[string]any{
		"id":               a.ID,
		"organization_id":  a.OrganizationID,
		"patient_id":       a.PatientID,
		"doctor_id":        a.DoctorID,
		"status":           a.Status,
		"appointment_date": a.AppointmentDate.Format("2006-01-02"),
		"start_time":       a.StartTime,
		"duration_minutes": a.DurationMinutes,
		"notes":            a.Notes,
		"created_at":       a.CreatedAt,
		"updated_at":       a.UpdatedAt,
	}
	return r.client.DoJSON(ctx, http.MethodPost, "/appointments", r.headers(""), body, nil)
}

func (r *AppointmentsRepo) GetByID(ctx context.Context, id string) (appointments.Appointment, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return appointments.Appointment{}, appointments.ErrNotFound
	}

	path := "/appointments?id=eq." + url.QueryEscape(id) +
		"&select=" + url.QueryEscape(appointmentSelect) + "&limit=1"

	rows, err := r.fetchRows(ctx, http.MethodGet, path, nil)
	if err != nil {
		return appointments.Appointment{}, err
	}
	if len(rows) == 0 {
		return appointments.Appointment{}, appointments.ErrNotFound
	}
	return rows[0], nil
}

func (r *AppointmentsRepo) UpdateStatus(ctx context.Context, id string, toStatus string, reason *string) (appointments.Appointment, error) {
	body := map[string]any{
		"status":     toStatus,
		"updated_at": time.Now().UTC(),
	}
	if reason != nil {
		body["cancellation_reason"] = *reason
	}

	path := "/appointments?id=eq." + url.QueryEscape(strings.TrimSpace(id)) +
		"&select=" + url.QueryEscape(appointmentSelect)

	// return=representation: la respuesta es la fila como quedó en el
	// store, no lo que pedimos. El dominio re-clasifica a partir de eso.
	rows, err := r.fetchRows(ctx, http.MethodPatch, path, body)
	if err != nil {
		return appointments.Appointment{}, err
	}
	if len(rows) == 0 {
		return appointments.Appointment{}, appointments.ErrNotFound
	}
	return rows[0], nil
}

func (r *AppointmentsRepo) ListByOrganization(ctx context.Context, orgID string) ([]appointments.Appointment, error) {
	return r.listWhere(ctx, "organization_id", orgID)
}

func (r *AppointmentsRepo) ListByPatient(ctx context.Context, patientID string) ([]appointments.Appointment, error) {
	return r.listWhere(ctx, "patient_id", patientID)
}

func (r *AppointmentsRepo) ListByDoctor(ctx context.Context, doctorID string) ([]appointments.Appointment, error) {
	return r.listWhere(ctx, "doctor_id", doctorID)
}

func (r *AppointmentsRepo) listWhere(ctx context.Context, column, value string) ([]appointments.Appointment, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}

	path := "/appointments?" + column + "=eq." + url.QueryEscape(value) +
		"&select=" + url.QueryEscape(appointmentSelect) +
		"&order=appointment_date.asc,start_time.asc"

	return r.fetchRows(ctx, http.MethodGet, path, nil)
}

func (r *AppointmentsRepo) fetchRows(ctx context.Context, method, path string, body any) ([]appointments.Appointment, error) {
	var raw json.RawMessage
	prefer := ""
	if method != http.MethodGet {
		prefer = "return=representation"
	}
	if err := r.client.DoJSON(ctx, method, path, r.headers(prefer), body, &raw); err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return []appointments.Appointment{}, nil
	}
	return records.NormalizeAppointments(raw)
}

func (r *AppointmentsRepo) headers(prefer string) map[string]string {
	h := map[string]string{}
	if r.apiKey != "" {
		h["apikey"] = r.apiKey
		h["Authorization"] = "Bearer " + r.apiKey
	}
	if prefer != "" {
		h["Prefer"] = prefer
	}
	return h
}
