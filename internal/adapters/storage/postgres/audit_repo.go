package postgres

import (
	"context"
	"database/sql"

	"appointment-lifecycle/internal/domain/audit"
	"appointment-lifecycle/internal/domain/status"
)

type AuditRepo struct {
	db *sql.DB
}

func NewAuditRepo(db *sql.DB) *AuditRepo {
	return &AuditRepo{db: db}
}

func (r *AuditRepo) Record(ctx context.Context, e audit.Entry) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO appointment_status_audit (
			id, appointment_id, from_status, to_status, actor_role, actor_id, reason, created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`,
		e.ID,
		e.AppointmentID,
		string(e.From),
		string(e.To),
		string(e.Role),
		e.ActorID,
		toNullString(e.Reason),
		e.CreatedAt,
	)
	return err
}

func (r *AuditRepo) ListByAppointment(ctx context.Context, appointmentID string) ([]audit.Entry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, appointment_id, from_status, to_status, actor_role, actor_id, reason, created_at
		FROM appointment_status_audit
		WHERE appointment_id = $1
		ORDER BY created_at ASC
	`, appointmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]audit.Entry, 0)
	for rows.Next() {
		var e audit.Entry
		var from, to, role string
		var reason sql.NullString

		if err := rows.Scan(
			&e.ID,
			&e.AppointmentID,
			&from,
			&to,
			&role,
			&e.ActorID,
			&reason,
			&e.CreatedAt,
		); err != nil {
			return nil, err
		}

		e.From = status.CanonicalStatus(from)
		e.To = status.CanonicalStatus(to)
		e.Role = status.ActorRole(role)
		e.Reason = reason.String
		out = append(out, e)
	}
	return out, rows.Err()
}
