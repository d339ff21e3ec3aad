package audit

import (
	"context"
	"time"

	"appointment-lifecycle/internal/domain/status"
)

// Entry es el registro inmutable de una transición ejecutada.
// Las transiciones destructivas siempre llegan acá con su motivo capturado.
type Entry struct {
	ID            string
	AppointmentID string

	From status.CanonicalStatus
	To   status.CanonicalStatus

	Role    status.ActorRole
	ActorID string

	Reason string // vacío cuando la transición no exigía motivo

	CreatedAt time.Time
}

// Repository persiste y consulta el trail de transiciones.
type Repository interface {
	Record(ctx context.Context, e Entry) error
	ListByAppointment(ctx context.Context, appointmentID string) ([]Entry, error)
}
