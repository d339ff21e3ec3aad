package status

import "time"

// Bucket es un predicado nombrado de agrupación para las vistas de listado.
// Una cita puede pertenecer a cero o más buckets a la vez; el rol solo
// decide qué buckets se exponen, nunca cómo evalúa cada predicado.
type Bucket string

const (
	BucketVigentes    Bucket = "vigentes"
	BucketHistorial   Bucket = "historial"
	BucketHoy         Bucket = "hoy"
	BucketSemana      Bucket = "semana"
	BucketPendientes  Bucket = "pendientes"
	BucketConfirmadas Bucket = "confirmadas"
	BucketCompletadas Bucket = "completadas"
	BucketTodas       Bucket = "todas"
)

// AllBuckets: orden estable para respuestas y tests.
var AllBuckets = []Bucket{
	BucketVigentes,
	BucketHistorial,
	BucketHoy,
	BucketSemana,
	BucketPendientes,
	BucketConfirmadas,
	BucketCompletadas,
	BucketTodas,
}

// bucketsByRole define qué buckets ve cada rol en la UI.
var bucketsByRole = map[ActorRole][]Bucket{
	RolePatient:    {BucketVigentes, BucketHistorial, BucketTodas},
	RoleDoctor:     {BucketHoy, BucketSemana, BucketVigentes, BucketHistorial, BucketTodas},
	RoleStaff:      {BucketPendientes, BucketConfirmadas, BucketCompletadas, BucketHoy, BucketVigentes, BucketHistorial, BucketTodas},
	RoleAdmin:      {BucketPendientes, BucketConfirmadas, BucketCompletadas, BucketHoy, BucketVigentes, BucketHistorial, BucketTodas},
	RoleSuperAdmin: {BucketPendientes, BucketConfirmadas, BucketCompletadas, BucketHoy, BucketVigentes, BucketHistorial, BucketTodas},
}

// BucketsForRole devuelve los buckets expuestos para un rol.
func BucketsForRole(role ActorRole) []Bucket {
	bs, ok := bucketsByRole[role]
	if !ok {
		return []Bucket{BucketTodas}
	}
	out := make([]Bucket, len(bs))
	copy(out, bs)
	return out
}

// historialStatuses: membresía de estado que domina sobre la fecha.
// Una cita futura ya marcada completed es historial, no vigente.
var historialStatuses = map[CanonicalStatus]struct{}{
	Completed:          {},
	CancelledByPatient: {},
	CancelledByOrg:     {},
	NoShow:             {},
}

// MatchesBucket evalúa el predicado de un bucket, independiente del rol.
// Función pura de sus inputs: `now` se inyecta, nunca se lee el reloj acá.
func MatchesBucket(b Bucket, st CanonicalStatus, at time.Time, now time.Time) bool {
	switch b {
	case BucketVigentes:
		if _, done := historialStatuses[st]; done {
			return false
		}
		return at.After(now) && (st == Pending || st == Confirmed)
	case BucketHistorial:
		if _, done := historialStatuses[st]; done {
			return true
		}
		return !at.After(now)
	case BucketHoy:
		return sameCalendarDay(at, now)
	case BucketSemana:
		ws := weekStart(now)
		return !at.Before(ws) && at.Before(ws.AddDate(0, 0, 7))
	case BucketPendientes:
		return st == Pending
	case BucketConfirmadas:
		return st == Confirmed
	case BucketCompletadas:
		return st == Completed
	case BucketTodas:
		return true
	}
	return false
}

// Categorize devuelve los buckets (expuestos para el rol) a los que la cita
// pertenece dado su estado, su instante y el `now` de referencia.
func Categorize(st CanonicalStatus, at time.Time, role ActorRole, now time.Time) []Bucket {
	out := make([]Bucket, 0, 4)
	for _, b := range BucketsForRole(role) {
		if MatchesBucket(b, st, at, now) {
			out = append(out, b)
		}
	}
	return out
}

func sameCalendarDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// weekStart: medianoche del domingo de la semana que contiene t
// (semana domingo–sábado).
func weekStart(t time.Time) time.Time {
	y, m, d := t.Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	return midnight.AddDate(0, 0, -int(midnight.Weekday()))
}
