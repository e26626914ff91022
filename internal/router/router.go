package router

import (
	"database/sql"
	"net/http"
	"os"

	"pet-adoption-api/internal/adapters/auth/jwtauth"
	"pet-adoption-api/internal/adapters/media/memstore"
	mem "pet-adoption-api/internal/adapters/storage/memory"
	pg "pet-adoption-api/internal/adapters/storage/postgres"
	"pet-adoption-api/internal/domain/media"
	"pet-adoption-api/internal/domain/pets"
	"pet-adoption-api/internal/domain/users"
	"pet-adoption-api/internal/middleware"
	"pet-adoption-api/internal/ports/auth"
	mediaport "pet-adoption-api/internal/ports/media"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

type Options struct {
	// Secreto HS256. Vacío => no se construye verifier y el guard
	// responde 500 en toda ruta mutante (falla cerrado, nunca bypass).
	JWTSecret string

	// Si viene, usa Postgres. Si no, repos in-memory (modo dev).
	DB *sql.DB

	// Destino de los uploads. Nil => memstore (modo dev).
	Uploader mediaport.Uploader

	// Carpeta namespaced para las imágenes dentro del object store.
	MediaFolder string

	Log *zap.Logger
}

func NewRouter(opts Options) http.Handler {
	r := chi.NewRouter()

	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.RequestLogger(log))

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("Hello World"))
	})
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

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

	var (
		userRepo users.Repository
		petRepo  pets.Repository
	)
	if db != nil {
		userRepo = pg.NewUsersRepo(db)
		petRepo = pg.NewPetsRepo(db)
	} else {
		userRepo = mem.NewUserRepo()
		petRepo = mem.NewPetRepo()
	}

	uploader := opts.Uploader
	if uploader == nil {
		uploader = memstore.New()
	}

	folder := opts.MediaFolder
	if folder == "" {
		folder = "pets"
	}
	pipeline := media.NewPipeline(uploader, folder)

	// Verifier e issuer comparten secreto y repo de usuarios
	var (
		verifier auth.Verifier
		issuer   auth.TokenIssuer
	)
	if opts.JWTSecret != "" {
		svc, err := jwtauth.New([]byte(opts.JWTSecret), userRepo)
		if err == nil {
			verifier = svc
			issuer = svc
		}
	}

	usersSvc := users.NewService(userRepo, issuer)
	petsSvc := pets.NewService(petRepo, pipeline)

	users.RegisterRoutes(r, usersSvc, log)
	pets.RegisterRoutes(r, petsSvc, middleware.RequireAuth(verifier), log)

	return r
}
