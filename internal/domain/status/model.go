package status

// CanonicalStatus es el conjunto cerrado de estados que el motor reconoce.
// Los strings crudos que llegan del store se normalizan a uno de estos
// valores vía Classifier; el resto del sistema solo trabaja con canónicos.
type CanonicalStatus string

const (
	Pending            CanonicalStatus = "pending"
	Confirmed          CanonicalStatus = "confirmed"
	InProgress         CanonicalStatus = "in_progress"
	Completed          CanonicalStatus = "completed"
	CancelledByPatient CanonicalStatus = "cancelled_by_patient"
	CancelledByOrg     CanonicalStatus = "cancelled_by_org"
	NoShow             CanonicalStatus = "no_show"

	// Unknown es solo fallback de clasificación: nunca es destino legal
	// de una transición.
	Unknown CanonicalStatus = "unknown"
)

// terminalStatuses: estados sin transiciones salientes.
var terminalStatuses = map[CanonicalStatus]struct{}{
	Completed:          {},
	CancelledByPatient: {},
	CancelledByOrg:     {},
	NoShow:             {},
	Unknown:            {},
}

// IsTerminal indica si el estado no admite ninguna transición saliente.
func (s CanonicalStatus) IsTerminal() bool {
	_, ok := terminalStatuses[s]
	return ok
}

// IsValid indica si el valor pertenece al conjunto canónico (incluye unknown).
func (s CanonicalStatus) IsValid() bool {
	switch s {
	case Pending, Confirmed, InProgress, Completed,
		CancelledByPatient, CancelledByOrg, NoShow, Unknown:
		return true
	}
	return false
}

// ActorRole es la identidad de permisos de quien intenta una transición.
type ActorRole string

const (
	RolePatient    ActorRole = "patient"
	RoleDoctor     ActorRole = "doctor"
	RoleStaff      ActorRole = "staff"
	RoleAdmin      ActorRole = "admin"
	RoleSuperAdmin ActorRole = "superadmin"
)

// IsValid indica si el rol es uno de los reconocidos.
func (r ActorRole) IsValid() bool {
	switch r {
	case RolePatient, RoleDoctor, RoleStaff, RoleAdmin, RoleSuperAdmin:
		return true
	}
	return false
}
