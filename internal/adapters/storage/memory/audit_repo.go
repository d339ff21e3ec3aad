package memory

import (
	"context"
	"errors"
	"sync"

	"appointment-lifecycle/internal/domain/audit"
)

type auditRepo struct {
	mu      sync.RWMutex
	entries []audit.Entry
}

func NewAuditRepo() audit.Repository {
	return &auditRepo{}
}

func (r *auditRepo) Record(ctx context.Context, e audit.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e.ID == "" || e.AppointmentID == "" {
		return errors.New("audit entry requires id and appointment id")
	}
	r.entries = append(r.entries, e)
	return nil
}

func (r *auditRepo) ListByAppointment(ctx context.Context, appointmentID string) ([]audit.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]audit.Entry, 0)
	for _, e := range r.entries {
		if e.AppointmentID == appointmentID {
			out = append(out, e)
		}
	}
	return out, nil
}
