package records

import (
	"testing"
)

func TestNormalizeAppointment_DoctorAsObject(t *testing.T) {
	raw := []byte(`{
		"id": "apt-1",
		"organization_id": "org-1",
		"patient_id": "patient-1",
		"doctor_id": "doctor-1",
		"status": "scheduled",
		"appointment_date": "2026-03-11",
		"start_time": "09:00:00",
		"duration_minutes": 30,
		"doctor": {"id": "doctor-1", "first_name": "Ana", "last_name": "Pérez"}
	}`)

	a, err := NormalizeAppointment(raw)
	if err != nil {
		t.Fatalf("NormalizeAppointment error: %v", err)
	}
	if a.DoctorName != "Ana Pérez" {
		t.Fatalf("expected doctor name from object, got %q", a.DoctorName)
	}
	if a.StartTime != "09:00" {
		t.Fatalf("expected HH:MM, got %q", a.StartTime)
	}
	if a.Status != "scheduled" {
		t.Fatalf("status must stay raw, got %q", a.Status)
	}
}

func TestNormalizeAppointment_DoctorAsOneElementArray(t *testing.T) {
	raw := []byte(`{
		"id": "apt-1",
		"organization_id": "org-1",
		"patient_id": "patient-1",
		"status": "pending",
		"appointment_date": "2026-03-11",
		"start_time": "10:30",
		"duration_minutes": 45,
		"doctor": [{"id": "doctor-9", "name": "Dr. House"}]
	}`)

	a, err := NormalizeAppointment(raw)
	if err != nil {
		t.Fatalf("NormalizeAppointment error: %v", err)
	}
	if a.DoctorName != "Dr. House" {
		t.Fatalf("expected doctor name from array, got %q", a.DoctorName)
	}
	// doctor_id ausente en la fila: se resuelve desde el record anidado
	if a.DoctorID != "doctor-9" {
		t.Fatalf("expected doctor id from nested record, got %q", a.DoctorID)
	}
}

func TestNormalizeAppointment_DoctorAbsentOrNull(t *testing.T) {
	for _, doctor := range []string{`null`, `[]`} {
		raw := []byte(`{
			"id": "apt-1",
			"organization_id": "org-1",
			"patient_id": "patient-1",
			"doctor_id": "doctor-1",
			"status": "confirmed",
			"appointment_date": "2026-03-11",
			"start_time": "09:00",
			"duration_minutes": 30,
			"doctor": ` + doctor + `
		}`)

		a, err := NormalizeAppointment(raw)
		if err != nil {
			t.Fatalf("doctor=%s: NormalizeAppointment error: %v", doctor, err)
		}
		if a.DoctorName != "" {
			t.Fatalf("doctor=%s: expected empty doctor name, got %q", doctor, a.DoctorName)
		}
		if a.DoctorID != "doctor-1" {
			t.Fatalf("doctor=%s: expected doctor id from row, got %q", doctor, a.DoctorID)
		}
	}
}

func TestNormalizeAppointment_BadRows(t *testing.T) {
	cases := map[string]string{
		"missing id": `{"status": "pending", "appointment_date": "2026-03-11"}`,
		"bad date":   `{"id": "x", "appointment_date": "11/03/2026"}`,
		"bad doctor": `{"id": "x", "appointment_date": "2026-03-11", "doctor": "who"}`,
		"not json":   `nope`,
	}
	for name, raw := range cases {
		if _, err := NormalizeAppointment([]byte(raw)); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestNormalizeAppointments_List(t *testing.T) {
	raw := []byte(`[
		{"id": "a", "organization_id": "org-1", "patient_id": "p", "doctor_id": "d", "status": "pending", "appointment_date": "2026-03-11", "start_time": "09:00", "duration_minutes": 30},
		{"id": "b", "organization_id": "org-1", "patient_id": "p", "doctor_id": "d", "status": "en_curso", "appointment_date": "2026-03-11", "start_time": "10:00", "duration_minutes": 30}
	]`)

	items, err := NormalizeAppointments(raw)
	if err != nil {
		t.Fatalf("NormalizeAppointments error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(items))
	}

	// una fila corrupta corta todo el listado
	bad := []byte(`[{"id": "a", "appointment_date": "2026-03-11"}, {"status": "pending"}]`)
	if _, err := NormalizeAppointments(bad); err == nil {
		t.Fatalf("expected error for corrupt row")
	}
}
