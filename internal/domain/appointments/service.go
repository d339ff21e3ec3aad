package appointments

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"appointment-lifecycle/internal/domain/audit"
	"appointment-lifecycle/internal/domain/status"
	"appointment-lifecycle/internal/platform/logger"
)

type Service struct {
	repo     Repository
	statuses *status.Classifier
	audit    audit.Repository // opcional: nil desactiva el trail
	log      logger.Logger    // opcional
	now      func() time.Time
}

func NewService(repo Repository, classifier *status.Classifier, auditRepo audit.Repository, log logger.Logger) *Service {
	if classifier == nil {
		classifier = status.NewClassifier()
	}
	return &Service{
		repo:     repo,
		statuses: classifier,
		audit:    auditRepo,
		log:      log,
		now:      time.Now,
	}
}

// Classify expone el clasificador configurado del servicio.
func (s *Service) Classify(raw string) status.CanonicalStatus {
	return s.statuses.Classify(raw)
}

type CreateInput struct {
	OrganizationID string
	PatientID      string
	DoctorID       string
	DoctorName     string
	ServiceName    string

	Date            time.Time
	StartTime       string // "HH:MM"
	DurationMinutes int
	Notes           string

	// AutoConfirm: el flujo de reserva asistida crea directo en confirmed;
	// el flujo self-service crea en pending.
	AutoConfirm bool
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Appointment, error) {
	if strings.TrimSpace(in.OrganizationID) == "" {
		return Appointment{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.PatientID) == "" || strings.TrimSpace(in.DoctorID) == "" {
		return Appointment{}, ErrInvalidInput
	}
	if in.Date.IsZero() {
		return Appointment{}, ErrInvalidInput
	}
	if _, err := time.Parse("15:04", strings.TrimSpace(in.StartTime)); err != nil {
		return Appointment{}, ErrInvalidInput
	}

	dur := in.DurationMinutes
	if dur <= 0 {
		dur = 30
	}

	initial := status.Pending
	if in.AutoConfirm {
		initial = status.Confirmed
	}

	now := s.now()
	a := Appointment{
		ID:              uuid.NewString(),
		OrganizationID:  strings.TrimSpace(in.OrganizationID),
		PatientID:       strings.TrimSpace(in.PatientID),
		DoctorID:        strings.TrimSpace(in.DoctorID),
		DoctorName:      strings.TrimSpace(in.DoctorName),
		ServiceName:     strings.TrimSpace(in.ServiceName),
		Status:          string(initial),
		AppointmentDate: in.Date,
		StartTime:       strings.TrimSpace(in.StartTime),
		DurationMinutes: dur,
		Notes:           strings.TrimSpace(in.Notes),
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.repo.Create(ctx, a); err != nil {
		return Appointment{}, err
	}
	return a, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Appointment, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Appointment{}, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

// AvailableActions clasifica el estado persistido de la cita y devuelve el
// menú de transiciones legales para el rol. También retorna el canónico
// para que el caller no re-clasifique.
func (s *Service) AvailableActions(ctx context.Context, id string, role status.ActorRole) (status.CanonicalStatus, []status.Transition, error) {
	a, err := s.GetByID(ctx, id)
	if err != nil {
		return status.Unknown, nil, err
	}

	st := s.classifyLogged(a.ID, a.Status)
	return st, status.AvailableTransitions(st, role), nil
}

// TransitionRequest es el pedido efímero de una transición. From debe ser
// ya canónico (resultado de Classify, no texto crudo del store).
type TransitionRequest struct {
	AppointmentID string
	From          status.CanonicalStatus
	To            status.CanonicalStatus
	Role          status.ActorRole
	ActorID       string
	Reason        string
	RequestedAt   time.Time
}

// Execute valida y ejecuta una transición.
//
// Las fallas de validación son deterministas y ocurren antes de cualquier
// efecto externo: cero mutaciones parciales sobre un pedido rechazado. La
// mutación se delega al Repository y, en éxito, el estado nuevo se
// re-deriva del registro que devolvió el store (el server puede pisar el
// valor pedido).
func (s *Service) Execute(ctx context.Context, req TransitionRequest) (status.CanonicalStatus, error) {
	if strings.TrimSpace(req.AppointmentID) == "" {
		return status.Unknown, ErrInvalidInput
	}
	if !req.Role.IsValid() {
		return status.Unknown, ErrInvalidInput
	}

	tr, ok := status.FindTransition(req.From, req.To, req.Role)
	if !ok {
		allowed := status.AvailableTransitions(req.From, req.Role)
		targets := make([]status.CanonicalStatus, 0, len(allowed))
		for _, t := range allowed {
			targets = append(targets, t.To)
		}
		return status.Unknown, &InvalidTransitionError{
			From:    req.From,
			To:      req.To,
			Role:    req.Role,
			Allowed: targets,
		}
	}

	reason := strings.TrimSpace(req.Reason)
	if tr.RequiresReason && reason == "" {
		return status.Unknown, &ReasonRequiredError{From: req.From, To: req.To}
	}

	var reasonArg *string
	if reason != "" {
		reasonArg = &reason
	}

	updated, err := s.repo.UpdateStatus(ctx, req.AppointmentID, string(req.To), reasonArg)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return status.Unknown, ErrNotFound
		}
		return status.Unknown, &PersistenceError{Err: err}
	}

	newStatus := s.classifyLogged(req.AppointmentID, updated.Status)

	if s.audit != nil {
		entry := audit.Entry{
			ID:            uuid.NewString(),
			AppointmentID: req.AppointmentID,
			From:          req.From,
			To:            newStatus,
			Role:          req.Role,
			ActorID:       strings.TrimSpace(req.ActorID),
			Reason:        reason,
			CreatedAt:     s.now(),
		}
		// best-effort: el trail no bloquea una transición ya commiteada
		if err := s.audit.Record(ctx, entry); err != nil && s.log != nil {
			s.log.Error("audit record failed", map[string]any{
				"appointment_id": req.AppointmentID,
				"error":          err.Error(),
			})
		}
	}

	return newStatus, nil
}

// ListBucket lista las citas del viewer filtradas por bucket. El bucket
// tiene que estar expuesto para el rol; el scope (org, propias) lo decide
// el rol del viewer.
func (s *Service) ListBucket(ctx context.Context, orgID, actorID string, role status.ActorRole, b status.Bucket) ([]Appointment, error) {
	if !role.IsValid() {
		return nil, ErrInvalidInput
	}
	if !bucketExposed(role, b) {
		return nil, ErrInvalidInput
	}

	var (
		items []Appointment
		err   error
	)
	switch role {
	case status.RolePatient:
		items, err = s.repo.ListByPatient(ctx, actorID)
	case status.RoleDoctor:
		items, err = s.repo.ListByDoctor(ctx, actorID)
	default:
		items, err = s.repo.ListByOrganization(ctx, orgID)
	}
	if err != nil {
		return nil, err
	}

	now := s.now()
	out := make([]Appointment, 0, len(items))
	for _, a := range items {
		st := s.classifyLogged(a.ID, a.Status)
		if status.MatchesBucket(b, st, a.StartsAt(), now) {
			out = append(out, a)
		}
	}
	return out, nil
}

func bucketExposed(role status.ActorRole, b status.Bucket) bool {
	for _, x := range status.BucketsForRole(role) {
		if x == b {
			return true
		}
	}
	return false
}

// classifyLogged clasifica y loguea el fallback a unknown: no es fatal,
// pero indica drift entre el store y la tabla de aliases.
func (s *Service) classifyLogged(id, raw string) status.CanonicalStatus {
	st := s.statuses.Classify(raw)
	if st == status.Unknown && s.log != nil {
		s.log.Warn("unknown appointment status", map[string]any{
			"appointment_id": id,
			"raw_status":     raw,
		})
	}
	return st
}
