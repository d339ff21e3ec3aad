package appointments

import (
	"errors"
	"fmt"

	"appointment-lifecycle/internal/domain/status"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
)

// InvalidTransitionError: transición ilegal (incluye el caso from == to).
// Lleva el set legal para diagnóstico: si la UI armó el menú con
// AvailableTransitions nunca debería verse, pero igual se chequea.
type InvalidTransitionError struct {
	From    status.CanonicalStatus
	To      status.CanonicalStatus
	Role    status.ActorRole
	Allowed []status.CanonicalStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("transition %s -> %s not allowed for %s (legal: %v)", e.From, e.To, e.Role, e.Allowed)
}

// ReasonRequiredError: transición destructiva sin motivo capturado.
// Se falla antes de cualquier llamada remota.
type ReasonRequiredError struct {
	From status.CanonicalStatus
	To   status.CanonicalStatus
}

func (e *ReasonRequiredError) Error() string {
	return fmt.Sprintf("transition %s -> %s requires a reason", e.From, e.To)
}

// PersistenceError envuelve una falla opaca del colaborador de
// persistencia. No se reintenta acá; el caller decide.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence: %v", e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
