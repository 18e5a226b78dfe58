// Package httpapi exposes the services as a JSON REST API over chi.
package httpapi

import (
	"context"
	"encoding/json"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/lifememo/navi/internal/common"
	"github.com/lifememo/navi/internal/logging"
	"github.com/lifememo/navi/internal/server/catalog"
	"github.com/lifememo/navi/internal/server/models"
	"github.com/lifememo/navi/internal/server/services"
)

type AccountService interface {
	Register(ctx context.Context, in services.RegisterInput) (*services.Session, error)
	Login(ctx context.Context, email, password string) (*services.Session, error)
	Me(ctx context.Context, ownerID int64) (*models.Account, error)
	DeleteAccount(ctx context.Context, ownerID int64) error
	ListAccounts(ctx context.Context) ([]*models.AccountSummary, error)
}

type InterviewService interface {
	List(ctx context.Context, ownerID int64, category string) ([]*models.InterviewAnswer, error)
	Upsert(ctx context.Context, ownerID int64, category string, promptNumber int, answerText string) (*models.InterviewAnswer, error)
	UpdateAnswer(ctx context.Context, ownerID, id int64, answerText string) (*models.InterviewAnswer, error)
	Polish(ctx context.Context, promptText, answerText string) (string, error)
	PolishAll(ctx context.Context, items []models.PolishItem) ([]models.PolishResult, error)
}

type TimelineService interface {
	List(ctx context.Context, ownerID int64, category string) ([]*models.TimelineEvent, error)
	Get(ctx context.Context, ownerID, id int64) (*models.TimelineEvent, error)
	Create(ctx context.Context, ownerID int64, in services.TimelineInput) (*models.TimelineEvent, error)
	Update(ctx context.Context, ownerID, id int64, patch models.TimelinePatch) (*models.TimelineEvent, error)
	Delete(ctx context.Context, ownerID, id int64) error
}

type PhotoService interface {
	Upload(ctx context.Context, ownerID int64, in services.UploadInput) (*models.Photo, error)
	List(ctx context.Context, ownerID int64, category string, order models.SortOrder) ([]*models.Photo, error)
	Delete(ctx context.Context, ownerID, id int64) error
}

type DocumentService interface {
	Generate(ctx context.Context, ownerID int64, category string) ([]byte, catalog.Category, error)
}

// Services groups everything the router dispatches to.
type Services struct {
	Accounts   AccountService
	Interviews InterviewService
	Timelines  TimelineService
	Photos     PhotoService
	Documents  DocumentService
}

// Options tunes the router. UploadDir, when set, is served read-only at
// UploadPrefix.
type Options struct {
	JWTSecret      []byte
	AdminKey       string
	AllowedOrigins []string
	MaxUploadBytes int64
	UploadDir      string
	UploadPrefix   string
}

type Router struct {
	services Services
	logger   logging.Logger
	opts     Options
	now      func() time.Time
}

func NewRouter(s Services, l logging.Logger, o Options) http.Handler {
	r := &Router{services: s, logger: l.With("module", "http_api"), opts: o, now: time.Now}

	mux := chi.NewRouter()
	mux.Use(chimw.RequestID)
	mux.Use(chimw.RealIP)
	mux.Use(chimw.Logger)
	mux.Use(chimw.Recoverer)
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins:   o.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", common.AuthorizationHeaderName, common.AdminKeyHeaderName},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	mux.Get("/health", r.handleHealth)

	mux.Route("/api", func(api chi.Router) {
		api.Post("/auth/register", r.handleRegister)
		api.Post("/auth/login", r.handleLogin)

		api.With(r.adminMiddleware).Get("/admin/accounts", r.handleListAccounts)

		api.Group(func(pr chi.Router) {
			pr.Use(r.authMiddleware)

			pr.Get("/auth/me", r.handleMe)
			pr.Delete("/auth/account", r.handleDeleteAccount)

			pr.Get("/interviews", r.handleListAnswers)
			pr.Post("/interviews", r.handleUpsertAnswer)
			pr.Put("/interviews/{id}", r.handleUpdateAnswer)
			pr.Post("/interviews/polish", r.handlePolish)
			pr.Post("/interviews/polish-all", r.handlePolishAll)

			pr.Get("/timelines", r.handleListEvents)
			pr.Post("/timelines", r.handleCreateEvent)
			pr.Get("/timelines/{id}", r.handleGetEvent)
			pr.Put("/timelines/{id}", r.handleUpdateEvent)
			pr.Delete("/timelines/{id}", r.handleDeleteEvent)

			pr.Get("/photos", r.handleListPhotos)
			pr.Post("/photos", r.handleUploadPhoto)
			pr.Delete("/photos/{id}", r.handleDeletePhoto)

			pr.Get("/documents/pdf", r.handleDocument)
		})
	})

	if o.UploadDir != "" {
		prefix := strings.TrimRight(o.UploadPrefix, "/")
		if prefix == "" {
			prefix = "/uploads"
		}
		mux.Handle(prefix+"/*", http.StripPrefix(prefix, http.FileServer(noDirFS{http.Dir(o.UploadDir)})))
	}

	return mux
}

func (r *Router) handleHealth(w http.ResponseWriter, req *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"timestamp": r.now().UTC().Format(time.RFC3339),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// noDirFS hides directories so the upload mount never renders a listing.
type noDirFS struct {
	fs http.FileSystem
}

func (n noDirFS) Open(name string) (http.File, error) {
	f, err := n.fs.Open(name)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if info.IsDir() {
		f.Close()
		return nil, fs.ErrNotExist
	}
	return f, nil
}
