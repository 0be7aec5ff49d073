// Package server exposes the affordability calculator and the pre-approval
// engine over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/hearthside-group/prequal-cli/internal/affordability"
	"github.com/hearthside-group/prequal-cli/internal/cache"
	"github.com/hearthside-group/prequal-cli/internal/config"
	"github.com/hearthside-group/prequal-cli/internal/model"
	"github.com/hearthside-group/prequal-cli/internal/mortgage"
	"github.com/hearthside-group/prequal-cli/internal/notify"
	"github.com/hearthside-group/prequal-cli/internal/preapproval"
	"github.com/hearthside-group/prequal-cli/internal/store"
)

// Server wires the calculators, storage, cache and webhook notifier behind
// a chi router. Store may be nil, in which case results are computed but
// not persisted.
type Server struct {
	cfg      *config.Config
	calc     *affordability.Calculator
	engine   *preapproval.Engine
	rates    mortgage.RateTable
	store    store.Store
	cache    cache.ResultCache
	notifier *notify.Notifier
}

// New creates a Server.
func New(cfg *config.Config, st store.Store, c cache.ResultCache, n *notify.Notifier, rates mortgage.RateTable) *Server {
	return &Server{
		cfg:      cfg,
		calc:     affordability.New(cfg.Search, cfg.Engine),
		engine:   preapproval.NewEngine(cfg.Engine),
		rates:    rates,
		store:    st,
		cache:    c,
		notifier: n,
	}
}

// Router builds the HTTP routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
	r.Use(rateLimit(s.cfg.Server.RatePerSecond, s.cfg.Server.RateBurst))

	r.Get("/health", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/affordability", s.handleAffordability)
		r.Post("/preapprovals", s.handlePreApproval)
		r.Get("/preapprovals/{id}", s.handleGetLead)
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type affordabilityRequest struct {
	AnnualIncome    float64 `json:"annual_income"`
	MonthlyDebt     float64 `json:"monthly_debt"`
	AvailableFunds  float64 `json:"available_funds"`
	MilitaryService bool    `json:"military_service"`
	Location        string  `json:"location"`
}

func (s *Server) handleAffordability(w http.ResponseWriter, r *http.Request) {
	var req affordabilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ctx := r.Context()
	key := cache.Key(req.AnnualIncome, req.MonthlyDebt, req.AvailableFunds, req.MilitaryService)
	if cached, ok := s.cache.Get(ctx, key); ok {
		cached.Location = req.Location
		writeJSON(w, http.StatusOK, cached)
		return
	}

	result, err := s.calc.ComputeBands(req.AnnualIncome, req.MonthlyDebt, req.AvailableFunds, req.MilitaryService, req.Location)
	if err != nil {
		if errors.Is(err, affordability.ErrInvalidInput) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		zap.L().Error("server: affordability failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	if err := s.cache.Set(ctx, key, result); err != nil {
		zap.L().Warn("server: cache write failed", zap.Error(err))
	}
	if s.store != nil {
		rec := store.AffordabilityRecord{
			Location:        req.Location,
			AnnualIncome:    req.AnnualIncome,
			MonthlyDebt:     req.MonthlyDebt,
			AvailableFunds:  req.AvailableFunds,
			MilitaryService: req.MilitaryService,
			Result:          result,
		}
		if err := s.store.RecordAffordability(ctx, rec); err != nil {
			zap.L().Warn("server: record affordability failed", zap.Error(err))
		}
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handlePreApproval(w http.ResponseWriter, r *http.Request) {
	var raw preapproval.RawProfile
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	profile, err := preapproval.Normalize(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	policy := mortgage.DerivePolicy(profile, s.cfg.Engine, s.rates)
	result, err := s.engine.Calculate(profile, policy)
	if err != nil {
		if errors.Is(err, preapproval.ErrInvalidInput) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		zap.L().Error("server: pre-approval failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	lead := model.Lead{
		Name:    raw.Name,
		Email:   raw.Email,
		Phone:   raw.Phone,
		Profile: profile,
		Result:  result,
	}

	if s.store != nil {
		created, err := s.store.CreateLead(r.Context(), lead)
		if err != nil {
			zap.L().Error("server: save lead failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		lead = *created

		if s.notifier != nil && s.notifier.Enabled() {
			// Deliver asynchronously so webhook latency never blocks the
			// response. The request context dies with the handler, so use a
			// fresh one.
			go func(l model.Lead) {
				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				defer cancel()
				if err := s.notifier.NotifyPreApproval(ctx, &l); err != nil {
					zap.L().Error("server: webhook notify failed",
						zap.String("lead_id", l.ID),
						zap.Error(err),
					)
				}
			}(lead)
		}

		writeJSON(w, http.StatusCreated, lead)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleGetLead(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusNotFound, "persistence not configured")
		return
	}

	id := chi.URLParam(r, "id")
	lead, err := s.store.GetLead(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusNotFound, fmt.Sprintf("lead not found: %s", id))
		return
	}
	writeJSON(w, http.StatusOK, lead)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
