package router

import (
	"database/sql"
	"net/http"
	"os"

	_ "med-tracker/docs"
	"med-tracker/internal/adapters/storage/memory"
	pg "med-tracker/internal/adapters/storage/postgres"
	"med-tracker/internal/domain/doselog"
	"med-tracker/internal/domain/medications"
	"med-tracker/internal/domain/reminders"
	"med-tracker/internal/middleware"
	"med-tracker/internal/platform/logger"
	"med-tracker/internal/ports/auth"
	"med-tracker/internal/scheduler"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Options struct {
	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev)

	// Opcional: si viene, usa Postgres. Si no, in-memory.
	DB *sql.DB

	Logger logger.Logger
}

// New arma el router y el scheduler sobre los mismos services. El caller
// decide si arranca el scheduler o no (los tests no lo necesitan).
func New(opts Options) (http.Handler, *scheduler.Scheduler) {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Use(middleware.AuthContext(opts.AuthVerifier))

	log := opts.Logger
	if log == nil {
		log = logger.NewFromEnv()
	}

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/swagger/*", httpSwagger.WrapHandler)

	var (
		medsRepo    medications.Repository
		historyRepo medications.HistoryRepository
		dlogRepo    doselog.Repository
		markerRepo  reminders.MarkerRepository
		stateRepo   reminders.StateRepository
	)

	// Si no te pasan DB explícita, intenta por env (para dev/handoff)
	db := opts.DB
	if db == nil {
		if dsn := os.Getenv("DB_DSN"); dsn != "" {
			opened, err := pg.Open(dsn)
			if err == nil {
				db = opened
			} else {
				log.Warn("postgres unavailable, falling back to memory", map[string]any{"err": err.Error()})
			}
		}
	}

	if db != nil {
		medsRepo = pg.NewMedicationsRepo(db)
		historyRepo = pg.NewHistoryRepo(db)
		dlogRepo = pg.NewDoseLogRepo(db)
		remRepo := pg.NewRemindersRepo(db)
		markerRepo = remRepo
		stateRepo = remRepo
	} else {
		medsRepo = memory.NewMedicationsRepo()
		historyRepo = memory.NewHistoryRepo()
		dlogRepo = memory.NewDoseLogRepo()
		remRepo := memory.NewRemindersRepo()
		markerRepo = remRepo
		stateRepo = remRepo
	}

	// Services por módulo
	medsSvc := medications.NewService(medsRepo, historyRepo)
	dlogSvc := doselog.NewService(dlogRepo, medsSvc)
	detector := reminders.NewDetector(medsSvc, dlogSvc, markerRepo)
	reconciler := reminders.NewReconciler(medsSvc, dlogSvc, stateRepo)

	// Cada take aceptado queda registrado en el log como entrada "auto".
	medsSvc.OnDoseTaken(dlogSvc.RecordTake)

	// Rutas por módulo
	medications.RegisterRoutes(r, medsSvc)
	doselog.RegisterRoutes(r, dlogSvc)
	reminders.RegisterRoutes(r, detector, reconciler)

	sched := scheduler.New(detector, reconciler, dlogSvc, log)

	return r, sched
}
