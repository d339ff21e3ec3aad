package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"appointment-lifecycle/internal/domain/appointments"
)

type appointmentsRepo struct {
	mu   sync.RWMutex
	byID map[string]appointments.Appointment
}

func NewAppointmentsRepo() appointments.Repository {
	return &appointmentsRepo{
		byID: make(map[string]appointments.Appointment),
	}
}

func (r *appointmentsRepo) Create(ctx context.Context, a appointments.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if a.ID == "" {
		return errors.New("appointment id required")
	}
	if _, exists := r.byID[a.ID]; exists {
		return errors.New("appointment already exists")
	}
	r.byID[a.ID] = a
	return nil
}

func (r *appointmentsRepo) GetByID(ctx context.Context, id string) (appointments.Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.byID[id]
	if !ok {
		return appointments.Appointment{}, appointments.ErrNotFound
	}
	return a, nil
}

func (r *appointmentsRepo) UpdateStatus(ctx context.Context, id string, toStatus string, reason *string) (appointments.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.byID[id]
	if !ok {
		return appointments.Appointment{}, appointments.ErrNotFound
	}

	a.Status = toStatus
	if reason != nil {
		a.CancellationReason = *reason
	}
	r.byID[id] = a
	return a, nil
}

func (r *appointmentsRepo) ListByOrganization(ctx context.Context, orgID string) ([]appointments.Appointment, error) {
	return r.list(func(a appointments.Appointment) bool { return a.OrganizationID == orgID }), nil
}

func (r *appointmentsRepo) ListByPatient(ctx context.Context, patientID string) ([]appointments.Appointment, error) {
	return r.list(func(a appointments.Appointment) bool { return a.PatientID == patientID }), nil
}

func (r *appointmentsRepo) ListByDoctor(ctx context.Context, doctorID string) ([]appointments.Appointment, error) {
	return r.list(func(a appointments.Appointment) bool { return a.DoctorID == doctorID }), nil
}

func (r *appointmentsRepo) list(match func(appointments.Appointment) bool) []appointments.Appointment {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]appointments.Appointment, 0)
	for _, a := range r.byID {
		if match(a) {
			out = append(out, a)
		}
	}
	// orden estable por fecha+hora para respuestas predecibles
	sort.Slice(out, func(i, j int) bool {
		return out[i].StartsAt().Before(out[j].StartsAt())
	})
	return out
}
