package appointments

import "context"

// Repository es el puerto hacia el colaborador de persistencia.
// UpdateStatus es la única mutación que el motor ejecuta: recibe el estado
// destino como string crudo y devuelve el registro tal como quedó en el
// store (el server puede haber pisado el valor; el caller re-clasifica).
type Repository interface {
	Create(ctx context.Context, a Appointment) error
	GetByID(ctx context.Context, id string) (Appointment, error)
	UpdateStatus(ctx context.Context, id string, toStatus string, reason *string) (Appointment, error)
	ListByOrganization(ctx context.Context, orgID string) ([]Appointment, error)
	ListByPatient(ctx context.Context, patientID string) ([]Appointment, error)
	ListByDoctor(ctx context.Context, doctorID string) ([]Appointment, error)
}
