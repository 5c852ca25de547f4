// Package server exposes the assistant pipeline and the rule store over
// HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"reglagen/internal/assistant"
	"reglagen/internal/core"
	"reglagen/pkg/schema"
)

// Generator produces a rule definition from a free-text message.
type Generator interface {
	GenerateRuleDefinition(ctx context.Context, message string, recent []schema.RuleDefinition) (*schema.RuleDefinition, error)
}

// RuleStore persists accepted rules and serves the recent history.
type RuleStore interface {
	Save(ctx context.Context, def *schema.RuleDefinition) error
	ListRecent(ctx context.Context, limit int) ([]schema.RuleDefinition, error)
}

const (
	defaultRecentLimit = 15
	maxRecentLimit     = 50
)

// Opaque client-facing message for pipeline failures; full detail stays in
// the logs.
const generationFailureDetail = "No se pudo generar la regla de validación. Inténtalo nuevamente más tarde."

// Server is the HTTP surface of the rule assistant.
type Server struct {
	generator Generator
	store     RuleStore
	logger    core.Logger
	router    *chi.Mux
}

// New assembles the router.
func New(generator Generator, store RuleStore, logger core.Logger) *Server {
	s := &Server{
		generator: generator,
		store:     store,
		logger:    logger,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(120 * time.Second))

	r.Get("/api/v1/health", s.handleHealth)
	r.Post("/api/v1/assistant/analyze", s.handleAnalyze)
	r.Route("/api/v1/rules", func(r chi.Router) {
		r.Post("/", s.handleSaveRule)
		r.Get("/recent", s.handleListRecent)
	})

	s.router = r
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

type analyzeRequest struct {
	Message string `json:"message"`
}

type analyzeResponse struct {
	Rule        *schema.RuleDefinition `json:"rule"`
	NeedsReview bool                   `json:"needs_review"`
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "el cuerpo de la solicitud no es JSON válido")
		return
	}

	recent, err := s.store.ListRecent(r.Context(), defaultRecentLimit)
	if err != nil {
		// Grounding is best effort; generation still works without it.
		s.logger.Warn("failed to load recent rules for grounding", "error", err.Error())
		recent = nil
	}

	def, err := s.generator.GenerateRuleDefinition(r.Context(), req.Message, recent)
	if err != nil {
		s.writeGenerationError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, analyzeResponse{Rule: def, NeedsReview: def.NeedsReview})
}

func (s *Server) writeGenerationError(w http.ResponseWriter, err error) {
	if errors.Is(err, assistant.ErrEmptyMessage) {
		writeError(w, http.StatusBadRequest, "el mensaje no puede estar vacío")
		return
	}

	var offTopic *assistant.OffTopicError
	if errors.As(err, &offTopic) {
		writeError(w, http.StatusBadRequest, offTopic.Reason)
		return
	}

	var genErr *assistant.GenerationError
	if errors.As(err, &genErr) {
		s.logger.Error("rule generation failed",
			"stage", string(genErr.Stage),
			"error", genErr.Error(),
		)
	} else {
		s.logger.Error("rule generation failed", "error", err.Error())
	}
	writeError(w, http.StatusBadGateway, generationFailureDetail)
}

func (s *Server) handleSaveRule(w http.ResponseWriter, r *http.Request) {
	var def schema.RuleDefinition
	if err := json.NewDecoder(r.Body).Decode(&def); err != nil {
		writeError(w, http.StatusBadRequest, "el cuerpo de la solicitud no es una regla válida")
		return
	}
	if def.Nombre == "" || len(def.Header) == 0 {
		writeError(w, http.StatusBadRequest, "la regla debe incluir nombre y un Header con al menos un elemento")
		return
	}

	def.Estado = schema.StateAccepted
	if err := s.store.Save(r.Context(), &def); err != nil {
		s.logger.Error("failed to save rule", "error", err.Error())
		writeError(w, http.StatusInternalServerError, "no se pudo guardar la regla")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"id": def.ID})
}

func (s *Server) handleListRecent(w http.ResponseWriter, r *http.Request) {
	limit := defaultRecentLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil || value <= 0 {
			writeError(w, http.StatusBadRequest, "limit debe ser un entero positivo")
			return
		}
		if value > maxRecentLimit {
			value = maxRecentLimit
		}
		limit = value
	}

	recent, err := s.store.ListRecent(r.Context(), limit)
	if err != nil {
		s.logger.Error("failed to list recent rules", "error", err.Error())
		writeError(w, http.StatusInternalServerError, "no se pudieron listar las reglas recientes")
		return
	}
	if recent == nil {
		recent = []schema.RuleDefinition{}
	}

	writeJSON(w, http.StatusOK, recent)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
