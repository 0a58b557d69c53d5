package web

import (
	"context"
	"embed"
	"encoding/json"
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/WangYihang/domain-triage/pkg/domain/entity"
)

// maxFormBytes bounds the size of a submitted form
const maxFormBytes = 64 << 10

//go:embed templates/index.html
var templates embed.FS

var indexTemplate = template.Must(template.ParseFS(templates, "templates/index.html"))

// Service defines the interface for domain classification.
type Service interface {
	Classify(ctx context.Context, domain string) *entity.Verdict
}

// Handler wires the web form and JSON API to the classification service.
type Handler struct {
	service Service
	logger  zerolog.Logger
}

type page struct {
	Input  string
	Result *entity.Verdict
}

type apiError struct {
	Error string `json:"error"`
}

// New constructs a handler with its dependencies.
func New(service Service, logger zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger.With().Str("component", "web").Logger(),
	}
}

// Register mounts the endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/", h.HandleIndex)
	r.Post("/", h.HandleSubmit)
	r.Get("/api/classify", h.HandleClassify)
	r.Get("/healthz", h.HandleHealth)
}

// HandleIndex handles GET / requests.
func (h *Handler) HandleIndex(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, page{})
}

// HandleSubmit handles POST / requests carrying a "domain" form field.
func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "malformed form", http.StatusBadRequest)
		return
	}
	if !r.PostForm.Has("domain") {
		http.Error(w, "missing form field: domain", http.StatusBadRequest)
		return
	}

	input := r.PostForm.Get("domain")
	verdict := h.service.Classify(r.Context(), input)
	h.render(w, r, page{Input: input, Result: verdict})
}

// HandleClassify handles GET /api/classify?domain= requests.
func (h *Handler) HandleClassify(w http.ResponseWriter, r *http.Request) {
	input := r.URL.Query().Get("domain")
	if input == "" {
		writeJSON(w, http.StatusBadRequest, apiError{Error: "missing query parameter: domain"})
		return
	}
	writeJSON(w, http.StatusOK, h.service.Classify(r.Context(), input))
}

// HandleHealth handles GET /healthz requests.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, p page) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTemplate.Execute(w, p); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("Failed to render page")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
