package appointments

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"appointment-lifecycle/internal/domain/audit"
	"appointment-lifecycle/internal/domain/status"
	"appointment-lifecycle/internal/middleware"
	"appointment-lifecycle/internal/ports/auth"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, auditRepo audit.Repository) {
	r.Route("/appointments", func(ar chi.Router) {
		ar.Post("/", createAppointmentHandler(svc))
		ar.Get("/", listAppointmentsHandler(svc))

		ar.Route("/{appointmentID}", func(ir chi.Router) {
			ir.Get("/", getAppointmentHandler(svc))
			ir.Get("/transitions", listTransitionsHandler(svc))
			ir.Post("/status", executeTransitionHandler(svc))
			ir.Get("/audit", listAuditHandler(svc, auditRepo))
		})
	})

	// Leyenda de estados y buckets visibles para el rol del caller
	r.Get("/statuses", listStatusesHandler())
	r.Get("/buckets", listBucketsHandler())
}

type createAppointmentRequest struct {
	PatientID       string `json:"patient_id"`
	DoctorID        string `json:"doctor_id"`
	DoctorName      string `json:"doctor_name"`
	ServiceName     string `json:"service_name"`
	AppointmentDate string `json:"appointment_date"` // YYYY-MM-DD
	StartTime       string `json:"start_time"`       // HH:MM
	DurationMinutes int    `json:"duration_minutes"`
	Notes           string `json:"notes"`
	AutoConfirm     bool   `json:"auto_confirm"`
}

type appointmentResponse struct {
	ID             string `json:"id"`
	OrganizationID string `json:"organization_id"`
	PatientID      string `json:"patient_id"`
	DoctorID       string `json:"doctor_id"`
	DoctorName     string `json:"doctor_name,omitempty"`
	ServiceName    string `json:"service_name,omitempty"`

	Status      string `json:"status"`
	StatusLabel string `json:"status_label"`
	ColorToken  string `json:"color_token"`
	IconKey     string `json:"icon_key"`

	AppointmentDate string `json:"appointment_date"`
	StartTime       string `json:"start_time"`
	DurationMinutes int    `json:"duration_minutes"`
	Notes           string `json:"notes,omitempty"`

	CancellationReason string `json:"cancellation_reason,omitempty"`

	Buckets []status.Bucket `json:"buckets,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type transitionResponse struct {
	To             status.CanonicalStatus `json:"to"`
	Label          string                 `json:"label"`
	RequiresReason bool                   `json:"requires_reason"`
}

type executeTransitionRequest struct {
	Status string `json:"status"`
	Reason string `json:"reason"`
}

type auditEntryResponse struct {
	ID        string                 `json:"id"`
	From      status.CanonicalStatus `json:"from"`
	To        status.CanonicalStatus `json:"to"`
	Role      status.ActorRole       `json:"role"`
	ActorID   string                 `json:"actor_id"`
	Reason    string                 `json:"reason,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
}

func createAppointmentHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, role, ok := requireRole(w, r)
		if !ok {
			return
		}

		var req createAppointmentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		date, err := time.Parse("2006-01-02", strings.TrimSpace(req.AppointmentDate))
		if err != nil {
			http.Error(w, "appointment_date must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}

		in := CreateInput{
			OrganizationID:  claims.OrganizationID,
			PatientID:       strings.TrimSpace(req.PatientID),
			DoctorID:        strings.TrimSpace(req.DoctorID),
			DoctorName:      req.DoctorName,
			ServiceName:     req.ServiceName,
			Date:            date,
			StartTime:       req.StartTime,
			DurationMinutes: req.DurationMinutes,
			Notes:           req.Notes,
			AutoConfirm:     req.AutoConfirm,
		}

		// el paciente solo reserva para sí mismo, y nunca auto-confirma
		if role == status.RolePatient {
			in.PatientID = claims.UserID
			in.AutoConfirm = false
		}

		a, err := svc.Create(r.Context(), in)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toAppointmentResponse(svc, a, role, nil))
	}
}

func listAppointmentsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, role, ok := requireRole(w, r)
		if !ok {
			return
		}

		bucket := status.Bucket(strings.TrimSpace(r.URL.Query().Get("bucket")))
		if bucket == "" {
			bucket = status.BucketTodas
		}

		items, err := svc.ListBucket(r.Context(), claims.OrganizationID, claims.UserID, role, bucket)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		now := svc.now()
		out := make([]appointmentResponse, 0, len(items))
		for _, a := range items {
			out = append(out, toAppointmentResponse(svc, a, role, &now))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func getAppointmentHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, role, ok := requireRole(w, r)
		if !ok {
			return
		}

		a, err := svc.GetByID(r.Context(), chi.URLParam(r, "appointmentID"))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		if !canView(claims, role, a) {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		now := svc.now()
		writeJSON(w, http.StatusOK, toAppointmentResponse(svc, a, role, &now))
	}
}

func listTransitionsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, role, ok := requireRole(w, r)
		if !ok {
			return
		}

		id := chi.URLParam(r, "appointmentID")
		a, err := svc.GetByID(r.Context(), id)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		if !canView(claims, role, a) {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		st, actions, err := svc.AvailableActions(r.Context(), id, role)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		out := make([]transitionResponse, 0, len(actions))
		for _, t := range actions {
			out = append(out, transitionResponse{
				To:             t.To,
				Label:          status.GetConfig(t.To).Label,
				RequiresReason: t.RequiresReason,
			})
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"status":      st,
			"transitions": out,
		})
	}
}

func executeTransitionHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, role, ok := requireRole(w, r)
		if !ok {
			return
		}

		id := chi.URLParam(r, "appointmentID")
		a, err := svc.GetByID(r.Context(), id)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		if !canView(claims, role, a) {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		var req executeTransitionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		to := svc.Classify(req.Status)
		newStatus, err := svc.Execute(r.Context(), TransitionRequest{
			AppointmentID: id,
			From:          svc.Classify(a.Status),
			To:            to,
			Role:          role,
			ActorID:       claims.UserID,
			Reason:        req.Reason,
			RequestedAt:   svc.now(),
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"status": newStatus,
			"label":  status.GetConfig(newStatus).Label,
		})
	}
}

func listAuditHandler(svc *Service, auditRepo audit.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, role, ok := requireRole(w, r)
		if !ok {
			return
		}
		// el trail es de operación interna, no de pacientes
		if role == status.RolePatient {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		if auditRepo == nil {
			writeJSON(w, http.StatusOK, []auditEntryResponse{})
			return
		}

		id := chi.URLParam(r, "appointmentID")
		if _, err := svc.GetByID(r.Context(), id); err != nil {
			writeServiceError(w, err)
			return
		}

		entries, err := auditRepo.ListByAppointment(r.Context(), id)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]auditEntryResponse, 0, len(entries))
		for _, e := range entries {
			out = append(out, auditEntryResponse{
				ID:        e.ID,
				From:      e.From,
				To:        e.To,
				Role:      e.Role,
				ActorID:   e.ActorID,
				Reason:    e.Reason,
				CreatedAt: e.CreatedAt,
			})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func listStatusesHandler() http.HandlerFunc {
	type statusResponse struct {
		Status       status.CanonicalStatus `json:"status"`
		Label        string                 `json:"label"`
		ColorToken   string                 `json:"color_token"`
		IconKey      string                 `json:"icon_key"`
		SortPriority int                    `json:"sort_priority"`
		Description  string                 `json:"description"`
		Terminal     bool                   `json:"terminal"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		all := status.AllStatuses()
		out := make([]statusResponse, 0, len(all))
		for _, st := range all {
			c := status.GetConfig(st)
			out = append(out, statusResponse{
				Status:       c.Status,
				Label:        c.Label,
				ColorToken:   c.ColorToken,
				IconKey:      c.IconKey,
				SortPriority: c.SortPriority,
				Description:  c.Description,
				Terminal:     st.IsTerminal(),
			})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func listBucketsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, role, ok := requireRole(w, r)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, status.BucketsForRole(role))
	}
}

// canView: el paciente ve solo sus citas, el doctor las suyas, el resto
// todo dentro de su organización.
func canView(claims auth.Claims, role status.ActorRole, a Appointment) bool {
	switch role {
	case status.RolePatient:
		return a.PatientID == claims.UserID
	case status.RoleDoctor:
		return a.DoctorID == claims.UserID
	default:
		return a.OrganizationID == claims.OrganizationID
	}
}

func requireRole(w http.ResponseWriter, r *http.Request) (auth.Claims, status.ActorRole, bool) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok || strings.TrimSpace(claims.UserID) == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return auth.Claims{}, "", false
	}

	role := status.ActorRole(strings.ToLower(strings.TrimSpace(claims.Role)))
	if !role.IsValid() {
		http.Error(w, "unknown role", http.StatusForbidden)
		return auth.Claims{}, "", false
	}
	return claims, role, true
}

func toAppointmentResponse(svc *Service, a Appointment, role status.ActorRole, now *time.Time) appointmentResponse {
	st := svc.Classify(a.Status)
	cfg := status.GetConfig(st)

	resp := appointmentResponse{
		ID:              a.ID,
		OrganizationID:  a.OrganizationID,
		PatientID:       a.PatientID,
		DoctorID:        a.DoctorID,
		DoctorName:      a.DoctorName,
		ServiceName:     a.ServiceName,
		Status:          string(st),
		StatusLabel:     cfg.Label,
		ColorToken:      cfg.ColorToken,
		IconKey:         cfg.IconKey,
		AppointmentDate: a.AppointmentDate.Format("2006-01-02"),
		StartTime:       a.StartTime,
		DurationMinutes: a.DurationMinutes,
		Notes:           a.Notes,

		CancellationReason: a.CancellationReason,

		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
	if now != nil {
		resp.Buckets = status.Categorize(st, a.StartsAt(), role, *now)
	}
	return resp
}

func writeServiceError(w http.ResponseWriter, err error) {
	var (
		ite *InvalidTransitionError
		rre *ReasonRequiredError
		pe  *PersistenceError
	)
	switch {
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	case errors.As(err, &rre):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.As(err, &ite):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.As(err, &pe):
		http.Error(w, "persistence error", http.StatusBadGateway)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

// writeJSON está duplicado a propósito entre handlers de distintos módulos;
// si se repite en más lugares conviene extraerlo a un helper común.
func writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(v)
}
