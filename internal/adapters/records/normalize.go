package records

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"appointment-lifecycle/internal/domain/appointments"
)

// El store hosted devuelve relaciones anidadas con forma inconsistente
// según cómo se armó el select: `doctor`/`patient` pueden venir como
// objeto, como array de un elemento o directamente ausentes. Este adapter
// resuelve eso en el borde para que el motor solo vea citas tipadas.

type rawAppointment struct {
	ID                 string          `json:"id"`
	OrganizationID     string          `json:"organization_id"`
	PatientID          string          `json:"patient_id"`
	DoctorID           string          `json:"doctor_id"`
	Status             string          `json:"status"`
	CancellationReason string          `json:"cancellation_reason"`
	AppointmentDate    string          `json:"appointment_date"` // YYYY-MM-DD
	StartTime          string          `json:"start_time"`       // HH:MM o HH:MM:SS
	DurationMinutes    int             `json:"duration_minutes"`
	Notes              string          `json:"notes"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
	Doctor             json.RawMessage `json:"doctor"`
	Patient            json.RawMessage `json:"patient"`
	Service            json.RawMessage `json:"service"`
}

type relatedRecord struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

func (r relatedRecord) displayName() string {
	if r.Name != "" {
		return r.Name
	}
	return strings.TrimSpace(r.FirstName + " " + r.LastName)
}

// NormalizeAppointment convierte una fila cruda del store en una cita
// tipada. El status se deja crudo: clasificarlo es del dominio, no de acá.
func NormalizeAppointment(raw []byte) (appointments.Appointment, error) {
	var ra rawAppointment
	if err := json.Unmarshal(raw, &ra); err != nil {
		return appointments.Appointment{}, fmt.Errorf("records: decode appointment: %w", err)
	}
	if strings.TrimSpace(ra.ID) == "" {
		return appointments.Appointment{}, fmt.Errorf("records: appointment without id")
	}

	date, err := time.Parse("2006-01-02", strings.TrimSpace(ra.AppointmentDate))
	if err != nil {
		return appointments.Appointment{}, fmt.Errorf("records: appointment %s: bad date %q", ra.ID, ra.AppointmentDate)
	}

	doctor, err := firstRecord(ra.Doctor)
	if err != nil {
		return appointments.Appointment{}, fmt.Errorf("records: appointment %s: doctor: %w", ra.ID, err)
	}
	service, err := firstRecord(ra.Service)
	if err != nil {
		return appointments.Appointment{}, fmt.Errorf("records: appointment %s: service: %w", ra.ID, err)
	}

	doctorID := ra.DoctorID
	if doctorID == "" {
		doctorID = doctor.ID
	}

	a := appointments.Appointment{
		ID:                 ra.ID,
		OrganizationID:     ra.OrganizationID,
		PatientID:          ra.PatientID,
		DoctorID:           doctorID,
		DoctorName:         doctor.displayName(),
		ServiceName:        service.displayName(),
		Status:             ra.Status,
		CancellationReason: ra.CancellationReason,
		AppointmentDate:    date,
		StartTime:          normalizeClock(ra.StartTime),
		DurationMinutes:    ra.DurationMinutes,
		Notes:              ra.Notes,
		CreatedAt:          ra.CreatedAt,
		UpdatedAt:          ra.UpdatedAt,
	}
	return a, nil
}

// NormalizeAppointments procesa un array de filas (la respuesta de listado
// del store). Una fila inválida corta con error: preferimos fallar visible
// antes que filtrar silenciosamente data corrupta.
func NormalizeAppointments(raw []byte) ([]appointments.Appointment, error) {
	var rows []json.RawMessage
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, fmt.Errorf("records: decode list: %w", err)
	}

	out := make([]appointments.Appointment, 0, len(rows))
	for _, row := range rows {
		a, err := NormalizeAppointment(row)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

// firstRecord resuelve el unwrapping objeto/array-de-uno/ausente.
func firstRecord(raw json.RawMessage) (relatedRecord, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return relatedRecord{}, nil
	}

	switch trimmed[0] {
	case '{':
		var r relatedRecord
		if err := json.Unmarshal(trimmed, &r); err != nil {
			return relatedRecord{}, err
		}
		return r, nil
	case '[':
		var rs []relatedRecord
		if err := json.Unmarshal(trimmed, &rs); err != nil {
			return relatedRecord{}, err
		}
		if len(rs) == 0 {
			return relatedRecord{}, nil
		}
		return rs[0], nil
	default:
		return relatedRecord{}, fmt.Errorf("unexpected shape %q", string(trimmed[:1]))
	}
}

// normalizeClock recorta "09:00:00" a "09:00"; deja pasar lo demás tal
// cual (el modelo tolera horas no parseables cayendo a medianoche).
func normalizeClock(s string) string {
	s = strings.TrimSpace(s)
	if len(s) == 8 && strings.Count(s, ":") == 2 {
		return s[:5]
	}
	return s
}
