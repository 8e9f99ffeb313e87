package router

import (
	"database/sql"
	"net/http"
	"os"
	"time"

	mem "reptile-husbandry/internal/adapters/storage/memory"
	pg "reptile-husbandry/internal/adapters/storage/postgres"

	"reptile-husbandry/internal/adapters/auth/sessiontoken"
	"reptile-husbandry/internal/domain/animals"
	"reptile-husbandry/internal/domain/feedings"
	"reptile-husbandry/internal/domain/measurements"
	"reptile-husbandry/internal/domain/reminders"
	"reptile-husbandry/internal/domain/sessions"
	"reptile-husbandry/internal/domain/users"
	"reptile-husbandry/internal/middleware"
	"reptile-husbandry/internal/ports/auth"

	_ "reptile-husbandry/docs" // swagger spec generado

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Options struct {
	// Opcional: si viene nil se arma el verifier de sesiones local.
	AuthVerifier auth.AuthVerifier

	// Opcional: si viene, usa Postgres. Si no, intenta DB_DSN y cae a in-memory.
	DB *sql.DB

	// TTL de sesiones; 0 => sessions.TTLFromEnv().
	SessionTTL time.Duration
}

// App expone el handler y los services que main necesita (janitor).
type App struct {
	Handler  http.Handler
	Sessions *sessions.Service
}

func NewRouter(opts Options) http.Handler {
	return Build(opts).Handler
}

func Build(opts Options) *App {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)

	var (
		usersRepo        users.Repository
		sessionsRepo     sessions.Repository
		animalsRepo      animals.Repository
		feedingsRepo     feedings.Repository
		measurementsRepo measurements.Repository
		remindersRepo    reminders.Repository
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
		usersRepo = pg.NewUsersRepo(db)
		sessionsRepo = pg.NewSessionsRepo(db)
		animalsRepo = pg.NewAnimalsRepo(db)
		feedingsRepo = pg.NewFeedingsRepo(db)
		measurementsRepo = pg.NewMeasurementsRepo(db)
		remindersRepo = pg.NewRemindersRepo(db)
	} else {
		usersRepo = mem.NewUsersRepo()
		sessionsRepo = mem.NewSessionsRepo()
		animalsRepo = mem.NewAnimalsRepo()
		feedingsRepo = mem.NewFeedingsRepo()
		measurementsRepo = mem.NewMeasurementsRepo()
		remindersRepo = mem.NewRemindersRepo()
	}

	// Services por módulo
	ttl := opts.SessionTTL
	if ttl == 0 {
		ttl = sessions.TTLFromEnv()
	}
	usersSvc := users.NewService(usersRepo)
	sessionsSvc := sessions.NewService(sessionsRepo, ttl)
	feedingsSvc := feedings.NewService(feedingsRepo)
	measurementsSvc := measurements.NewService(measurementsRepo)
	remindersSvc := reminders.NewService(remindersRepo)

	// Borrar un animal cascadea a sus registros; en Postgres el FK
	// también lo hace, los repos in-memory dependen de esto.
	animalsSvc := animals.NewService(animalsRepo,
		feedingsSvc.DeleteByAnimal,
		measurementsSvc.DeleteByAnimal,
		remindersSvc.ClearAnimal,
	)

	verifier := opts.AuthVerifier
	if verifier == nil {
		verifier = sessiontoken.NewVerifier(sessionsSvc, usersSvc)
	}
	r.Use(middleware.AuthContext(verifier))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/swagger/*", httpSwagger.WrapHandler)

	// Rutas por módulo
	users.RegisterRoutes(r, usersSvc, sessionsSvc)
	animals.RegisterRoutes(r, animalsSvc)
	feedings.RegisterRoutes(r, feedingsSvc, animalsSvc)
	measurements.RegisterRoutes(r, measurementsSvc, animalsSvc)
	reminders.RegisterRoutes(r, remindersSvc, animalsSvc)

	return &App{
		Handler:  r,
		Sessions: sessionsSvc,
	}
}
