package router

import (
	"context"
	"database/sql"
	"net/http"
	"strings"
	"time"

	mem "infant-care-log/internal/adapters/storage/memory"
	pg "infant-care-log/internal/adapters/storage/postgres"
	"infant-care-log/internal/docs"
	"infant-care-log/internal/domain/documents"
	"infant-care-log/internal/middleware"
	"infant-care-log/internal/platform/logger"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Options struct {
	// Opcional: si viene, usa Postgres. Si no, se intenta con DSN y si no,
	// in-memory.
	DB  *sql.DB
	DSN string

	Log logger.Logger
}

// NewRouter arma el dev store: una API compatible con el subconjunto REST de
// Firebase que usa el cliente.
func NewRouter(opts Options) http.Handler {
	log := opts.Log
	if log == nil {
		log = logger.Nop()
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.RequestLogger(log))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	docs.SwaggerInfo.BasePath = "/"
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	var repo documents.Repository

	db := opts.DB
	if db == nil {
		if dsn := strings.TrimSpace(opts.DSN); dsn != "" {
			opened, err := openAndMigrate(dsn)
			if err != nil {
				log.Warn("postgres unavailable, using in-memory store", logger.Fields{"err": err})
			} else {
				db = opened
			}
		}
	}

	if db != nil {
		repo = pg.NewDocumentsRepo(db)
		log.Info("dev store backend", logger.Fields{"backend": "postgres"})
	} else {
		repo = mem.NewDocumentRepo()
		log.Info("dev store backend", logger.Fields{"backend": "memory"})
	}

	documents.RegisterRoutes(r, documents.NewService(repo))

	return r
}

func openAndMigrate(dsn string) (*sql.DB, error) {
	db, err := pg.Open(dsn)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pg.Migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
