package router

import (
	"database/sql"
	"net/http"
	"time"

	mem "appointment-lifecycle/internal/adapters/storage/memory"
	pg "appointment-lifecycle/internal/adapters/storage/postgres"
	"appointment-lifecycle/internal/adapters/storage/rest"
	"appointment-lifecycle/internal/domain/appointments"
	"appointment-lifecycle/internal/domain/audit"
	"appointment-lifecycle/internal/domain/status"
	"appointment-lifecycle/internal/middleware"
	"appointment-lifecycle/internal/platform/logger"
	"appointment-lifecycle/internal/ports/auth"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

type Options struct {
	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev)
	Logger       logger.Logger     // puede ser nil

	// Persistencia, en orden de precedencia. Si ninguna viene seteada,
	// repos in-memory (dev/tests).
	DB           *sql.DB
	StoreBaseURL string
	StoreAPIKey  string

	// Classifier pre-armado (p.ej. con aliases extra desde archivo).
	// Nil usa la tabla default.
	Classifier *status.Classifier
}

func NewRouter(opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Use(middleware.AuthContext(opts.AuthVerifier))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	var (
		apptRepo  appointments.Repository
		auditRepo audit.Repository
	)

	switch {
	case opts.DB != nil:
		apptRepo = pg.NewAppointmentsRepo(opts.DB)
		auditRepo = pg.NewAuditRepo(opts.DB)
	case opts.StoreBaseURL != "":
		repo, err := rest.NewAppointmentsRepo(opts.StoreBaseURL, opts.StoreAPIKey, 10*time.Second)
		if err == nil {
			apptRepo = repo
			// el store hosted no expone el trail; queda local en memoria
			auditRepo = mem.NewAuditRepo()
		}
	}
	if apptRepo == nil {
		apptRepo = mem.NewAppointmentsRepo()
		auditRepo = mem.NewAuditRepo()
	}

	svc := appointments.NewService(apptRepo, opts.Classifier, auditRepo, opts.Logger)

	appointments.RegisterRoutes(r, svc, auditRepo)

	return r
}
