package status

import "sort"

// Transition es una arista legal del grafo de estados, con los roles que
// pueden ejecutarla y si exige capturar un motivo antes de commitear.
type Transition struct {
	From           CanonicalStatus
	To             CanonicalStatus
	AllowedRoles   map[ActorRole]struct{}
	RequiresReason bool
}

// AllowsRole indica si el rol puede ejecutar esta transición.
func (t Transition) AllowsRole(r ActorRole) bool {
	_, ok := t.AllowedRoles[r]
	return ok
}

func roles(rs ...ActorRole) map[ActorRole]struct{} {
	out := make(map[ActorRole]struct{}, len(rs))
	for _, r := range rs {
		out[r] = struct{}{}
	}
	return out
}

// clinicalRoles: quienes operan la agenda del lado del consultorio.
var clinicalRoles = []ActorRole{RoleDoctor, RoleStaff, RoleAdmin, RoleSuperAdmin}

// transitionRules es la tabla autoritativa de transiciones. Es data, no
// branching: cambiar la política es editar esta tabla.
//
//	pending    ──► confirmed ──► in_progress ──► completed
//	    │              │               │
//	    ├──────────────┼───────────────┴──► no_show (con motivo)
//	    │              │
//	    └──────────────┴──► cancelled_by_patient / cancelled_by_org (con motivo)
var transitionRules = buildRules()

func buildRules() []Transition {
	rules := []Transition{
		{From: Pending, To: Confirmed, AllowedRoles: roles(clinicalRoles...)},
		{From: Pending, To: CancelledByPatient, AllowedRoles: roles(RolePatient), RequiresReason: true},
		{From: Pending, To: CancelledByOrg, AllowedRoles: roles(RoleStaff, RoleAdmin, RoleSuperAdmin), RequiresReason: true},

		{From: Confirmed, To: InProgress, AllowedRoles: roles(clinicalRoles...)},
		{From: Confirmed, To: CancelledByPatient, AllowedRoles: roles(RolePatient), RequiresReason: true},
		{From: Confirmed, To: CancelledByOrg, AllowedRoles: roles(RoleStaff, RoleAdmin, RoleSuperAdmin), RequiresReason: true},

		{From: InProgress, To: Completed, AllowedRoles: roles(clinicalRoles...)},
	}

	// no_show aplica desde cualquier estado no terminal, siempre con motivo.
	for _, from := range []CanonicalStatus{Pending, Confirmed, InProgress} {
		rules = append(rules, Transition{
			From:           from,
			To:             NoShow,
			AllowedRoles:   roles(clinicalRoles...),
			RequiresReason: true,
		})
	}

	return rules
}

// AvailableTransitions devuelve las transiciones legales desde un estado
// para un rol, ordenadas por SortPriority del destino ascendente (la acción
// más probable/menos destructiva primero).
//
// Estados terminales devuelven slice vacío sea cual sea el rol: invariante
// duro, no un default de conveniencia.
func AvailableTransitions(from CanonicalStatus, role ActorRole) []Transition {
	out := make([]Transition, 0, 3)
	if from.IsTerminal() {
		return out
	}

	for _, t := range transitionRules {
		if t.From != from {
			continue
		}
		if !t.AllowsRole(role) {
			continue
		}
		out = append(out, t)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return GetConfig(out[i].To).SortPriority < GetConfig(out[j].To).SortPriority
	})
	return out
}

// FindTransition busca la transición exacta (from, to) habilitada para el
// rol. Segundo retorno false si no es legal.
func FindTransition(from, to CanonicalStatus, role ActorRole) (Transition, bool) {
	for _, t := range AvailableTransitions(from, role) {
		if t.To == to {
			return t, true
		}
	}
	return Transition{}, false
}
