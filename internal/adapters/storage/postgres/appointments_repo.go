package postgres

import (
	"context"
	"database/sql"
	"strings"

	"appointment-lifecycle/internal/domain/appointments"
)

type AppointmentsRepo struct {
	db *sql.DB
}

func NewAppointmentsRepo(db *sql.DB) *AppointmentsRepo {
	return &AppointmentsRepo{db: db}
}

const appointmentColumns = `
	id, organization_id, patient_id, doctor_id, doctor_name, service_name,
	status, cancellation_reason,
	appointment_date, start_time, duration_minutes, notes,
	created_at, updated_at
`

func (r *AppointmentsRepo) Create(ctx context.Context, a appointments.Appointment) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO appointments (
			id, organization_id, patient_id, doctor_id, doctor_name, service_name,
			status, cancellation_reason,
			appointment_date, start_time, duration_minutes, notes,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
	`,
		a.ID,
		a.OrganizationID,
		a.PatientID,
		a.DoctorID,
		toNullString(a.DoctorName),
		toNullString(a.ServiceName),
		a.Status,
		toNullString(a.CancellationReason),
		a.AppointmentDate,
		a.StartTime,
		a.DurationMinutes,
		a.Notes,
		a.CreatedAt,
		a.UpdatedAt,
	)
	return err
}

func (r *AppointmentsRepo) GetByID(ctx context.Context, id string) (appointments.Appointment, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return appointments.Appointment{}, appointments.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE id = $1
	`, id)

	return scanAppointment(row)
}

// UpdateStatus es un único UPDATE guardado con RETURNING: el registro que
// vuelve es lo que realmente quedó en el store (un trigger del lado del
// server puede pisar el valor pedido; el caller re-clasifica).
func (r *AppointmentsRepo) UpdateStatus(ctx context.Context, id string, toStatus string, reason *string) (appointments.Appointment, error) {
	row := r.db.QueryRowContext(ctx, `
		UPDATE appointments
		SET
			status = $2,
			cancellation_reason = COALESCE($3, cancellation_reason),
			updated_at = now()
		WHERE id = $1
		RETURNING `+appointmentColumns+`
	`, id, toStatus, reason)

	a, err := scanAppointment(row)
	if err != nil {
		return appointments.Appointment{}, err
	}
	return a, nil
}

func (r *AppointmentsRepo) ListByOrganization(ctx context.Context, orgID string) ([]appointments.Appointment, error) {
	return r.listWhere(ctx, "organization_id = $1", orgID)
}

func (r *AppointmentsRepo) ListByPatient(ctx context.Context, patientID string) ([]appointments.Appointment, error) {
	return r.listWhere(ctx, "patient_id = $1", patientID)
}

func (r *AppointmentsRepo) ListByDoctor(ctx context.Context, doctorID string) ([]appointments.Appointment, error) {
	return r.listWhere(ctx, "doctor_id = $1", doctorID)
}

func (r *AppointmentsRepo) listWhere(ctx context.Context, where string, arg any) ([]appointments.Appointment, error) {
	arg, ok := trimStringArg(arg)
	if !ok {
		return nil, nil
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE `+where+`
		ORDER BY appointment_date ASC, start_time ASC
	`, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]appointments.Appointment, 0)
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAppointment(row rowScanner) (appointments.Appointment, error) {
	var a appointments.Appointment
	var doctorName, serviceName, cancellationReason sql.NullString

	if err := row.Scan(
		&a.ID,
		&a.OrganizationID,
		&a.PatientID,
		&a.DoctorID,
		&doctorName,
		&serviceName,
		&a.Status,
		&cancellationReason,
		&a.AppointmentDate,
		&a.StartTime,
		&a.DurationMinutes,
		&a.Notes,
		&a.CreatedAt,
		&a.UpdatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return appointments.Appointment{}, appointments.ErrNotFound
		}
		return appointments.Appointment{}, err
	}

	a.DoctorName = doctorName.String
	a.ServiceName = serviceName.String
	a.CancellationReason = cancellationReason.String
	return a, nil
}

// helpers
func toNullString(s string) sql.NullString {
	s = strings.TrimSpace(s)
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func trimStringArg(arg any) (any, bool) {
	s, ok := arg.(string)
	if !ok {
		return arg, true
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, false
	}
	return s, true
}
