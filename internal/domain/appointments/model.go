package appointments

import "time"

// Appointment es el resumen tipado de una cita tal como la ve el motor.
// El campo Status se guarda crudo (tal cual vino del store) y se normaliza
// con status.Classifier en el borde; el resto del sistema nunca interpreta
// el string directamente.
type Appointment struct {
	ID             string
	OrganizationID string

	PatientID  string
	DoctorID   string
	DoctorName string

	ServiceName string

	Status string // raw persistido; clasificar antes de usar

	AppointmentDate time.Time // fecha de la cita (medianoche)
	StartTime       string    // "HH:MM"
	DurationMinutes int

	Notes string

	// CancellationReason guarda el último motivo capturado por una
	// transición destructiva (cancelaciones, no_show).
	CancellationReason string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// StartsAt combina fecha + hora de inicio en un instante.
// Si StartTime no parsea, cae en la medianoche de la fecha.
func (a Appointment) StartsAt() time.Time {
	t, err := time.Parse("15:04", a.StartTime)
	if err != nil {
		return a.AppointmentDate
	}
	y, m, d := a.AppointmentDate.Date()
	return time.Date(y, m, d, t.Hour(), t.Minute(), 0, 0, a.AppointmentDate.Location())
}

// EndsAt es StartsAt más la duración.
func (a Appointment) EndsAt() time.Time {
	return a.StartsAt().Add(time.Duration(a.DurationMinutes) * time.Minute)
}
