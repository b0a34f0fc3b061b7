package router

import (
	"database/sql"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "shelter-status/docs"
	mem "shelter-status/internal/adapters/storage/memory"
	pg "shelter-status/internal/adapters/storage/postgres"
	"shelter-status/internal/domain/reports"
	"shelter-status/internal/domain/scope"
	"shelter-status/internal/domain/statuses"
	"shelter-status/internal/domain/subjects"
	"shelter-status/internal/middleware"
	"shelter-status/internal/platform/logger"
	"shelter-status/internal/ports/auth"
)

type Options struct {
	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev)

	// Opcional: si viene, usa Postgres. Si no, in-memory.
	DB *sql.DB

	// Opcional: logger de requests. Si es nil no se loggea por request.
	Logger logger.Logger
}

func NewRouter(opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	if opts.Logger != nil {
		r.Use(middleware.RequestLogger(opts.Logger))
	}

	r.Use(middleware.AuthContext(opts.AuthVerifier))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	var (
		subjectsRepo subjects.Repository
		statusesRepo statuses.Repository
	)

	// Si no te pasan DB explícita, intenta por env (para dev/handoff)
	db := opts.DB
	if db == nil {
		if dsn := os.Getenv("DB_DSN"); dsn != "" {
			opened, err := pg.Open(dsn)
			if err == nil {
				db = opened
			}
		}
	}

	if db != nil {
		subjectsRepo = pg.NewSubjectsRepo(db)
		statusesRepo = pg.NewStatusesRepo(db)
	} else {
		subjectsRepo = mem.NewSubjectsRepo()
		statusesRepo = mem.NewStatusesRepo()
	}

	// Services por módulo
	subjectsSvc := subjects.NewService(subjectsRepo)
	statusesSvc := statuses.NewService(statusesRepo)
	resolver := scope.NewResolver(subjectsSvc)
	reportsSvc := reports.NewService(statusesSvc)

	// Rutas por módulo
	subjects.RegisterRoutes(r, subjectsSvc)
	statuses.RegisterRoutes(r, statusesSvc, subjectsSvc, resolver)
	statuses.RegisterAdminRoutes(r, statusesSvc)
	reports.RegisterRoutes(r, reportsSvc, resolver)

	return r
}
