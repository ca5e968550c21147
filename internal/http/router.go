package http

import (
	"net/http"

	"babelbox/internal/category"
	"babelbox/internal/config"
	"babelbox/internal/db"
	"babelbox/internal/http/handler"
	mw "babelbox/internal/http/middleware"
	"babelbox/internal/item"
	"babelbox/internal/review"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"gorm.io/gorm"
)

// Models lists every table the service owns.
func Models() []any {
	return []any{&item.Item{}, &category.Category{}}
}

// NewRouter wires the services. gdb may be nil: items are then served from
// the sample collection and category endpoints answer 503.
func NewRouter(cfg config.Config, gdb *gorm.DB, ai review.Completer) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(mw.EchoRequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(mw.StoreCheckScope)

	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(mw.CORS(cfg.CORSAllowedOrigins, cfg.CORSAllowCredentials))
	}

	r.NotFound(handler.NotFound)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	probe := &db.Probe{DB: gdb, Models: Models(), Timeout: cfg.DBProbeTimeout}

	catSvc := &category.Service{Probe: probe}
	itemSvc := &item.Service{
		Fallback: item.NewMemory(item.SampleItems()),
		Probe:    probe,
		Colors:   catSvc,
	}
	if gdb != nil {
		catSvc.Repo = &category.Store{DB: gdb}
		itemSvc.Store = &item.Store{DB: gdb}
	}

	ih := &handler.ItemHandler{Svc: itemSvc}
	r.Route("/items", func(r chi.Router) {
		r.Get("/", ih.List)
		r.Get("/all", ih.All)
		r.Post("/", ih.Create)
		r.Get("/{id}", ih.Get)
		r.Put("/{id}", ih.Update)
		r.Delete("/{id}", ih.Delete)
	})

	ch := &handler.CategoryHandler{Svc: catSvc}
	r.Route("/categories", func(r chi.Router) {
		r.Get("/", ch.List)
		r.Post("/", ch.Create)
		r.Get("/{id}", ch.Get)
		r.Put("/{id}", ch.Update)
		r.Delete("/{id}", ch.DeleteByName)
	})

	vh := &handler.ValidateHandler{Gateway: &review.Gateway{Client: ai}}
	r.Post("/validate/content", vh.Content)

	if cfg.ConfigAPI {
		cfgH := &handler.ConfigHandler{File: &config.EnvFile{Path: cfg.EnvFile}}
		r.Route("/config", func(r chi.Router) {
			r.Get("/", cfgH.Get)
			r.Post("/", cfgH.Set)
			r.Post("/batch", cfgH.Batch)
		})
	}

	return r
}
