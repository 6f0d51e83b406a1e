package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/lead-cli/internal/discovery"
	"github.com/sells-group/lead-cli/internal/enrich"
	"github.com/sells-group/lead-cli/internal/geo"
	"github.com/sells-group/lead-cli/internal/model"
	"github.com/sells-group/lead-cli/internal/store"
)

// maxBodyBytes caps request bodies; area polygons are the largest payload.
const maxBodyBytes = 4 << 20

type discoverer interface {
	DiscoverByText(ctx context.Context, q discovery.TextQuery) ([]model.Lead, error)
	DiscoverByArea(ctx context.Context, q discovery.AreaQuery) (*discovery.AreaResult, error)
	SearchOrganizations(ctx context.Context, f discovery.OrganizationFilters) ([]model.Lead, error)
	SearchPeople(ctx context.Context, f discovery.PeopleFilters) ([]model.Lead, error)
}

type enricher interface {
	Enrich(ctx context.Context, req enrich.Request) *enrich.Result
	EnrichBatch(ctx context.Context, leads []model.Lead, mode model.AIMode) []*enrich.Result
	EnrichManual(ctx context.Context, fields model.HumanFields, mode model.AIMode) (*enrich.ManualResult, error)
	FindOwner(ctx context.Context, q enrich.OwnerQuery) (*enrich.OwnerResult, error)
}

// server exposes discovery and enrichment over HTTP. Discovered and
// enriched leads are kept in repo; the services never see it.
type server struct {
	disc          discoverer
	enr           enricher
	repo          store.LeadRepository
	defaultRadius float64
}

// discoverResponse is returned by every discovery route.
type discoverResponse struct {
	Leads     []model.Lead `json:"leads"`
	Locations []string     `json:"locations,omitempty"`
	Added     int          `json:"added"`
}

type areaRequest struct {
	Query      string            `json:"query"`
	Area       *model.SearchArea `json:"area,omitempty"`
	GeoJSON    json.RawMessage   `json:"geojson,omitempty"`
	Radius     float64           `json:"radius,omitempty"`
	PostalCode string            `json:"postalCode,omitempty"`
	Country    string            `json:"country,omitempty"`
	MaxResults int               `json:"maxResults,omitempty"`
}

type batchRequest struct {
	Leads []model.Lead `json:"leads"`
	Mode  model.AIMode `json:"aiMode,omitempty"`
}

type manualRequest struct {
	Fields model.HumanFields `json:"fields"`
	Mode   model.AIMode      `json:"aiMode,omitempty"`
}

// buildRouter registers every route behind CORS and request logging.
func buildRouter(s *server, allowedOrigins []string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSONStatus(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/discover/text", s.discoverText)
		r.Post("/discover/area", s.discoverArea)
		r.Post("/discover/organizations", s.discoverOrganizations)
		r.Post("/discover/people", s.discoverPeople)

		r.Post("/enrich", s.enrich)
		r.Post("/enrich/batch", s.enrichBatch)
		r.Post("/enrich/manual", s.enrichManual)
		r.Post("/owner", s.findOwner)

		r.Route("/leads", func(r chi.Router) {
			r.Get("/", s.listLeads)
			r.Delete("/", s.clearLeads)
			r.Get("/{id}", s.getLead)
			r.Put("/{id}", s.replaceLead)
		})
	})

	return r
}

func (s *server) discoverText(w http.ResponseWriter, r *http.Request) {
	var q discovery.TextQuery
	if !decodeBody(w, r, &q) {
		return
	}
	leads, err := s.disc.DiscoverByText(r.Context(), q)
	if err != nil {
		writeError(w, err)
		return
	}
	s.respondDiscovered(w, r, leads, nil)
}

func (s *server) discoverArea(w http.ResponseWriter, r *http.Request) {
	var req areaRequest
	if !decodeBody(w, r, &req) {
		return
	}

	q := discovery.AreaQuery{
		Query:      req.Query,
		PostalCode: req.PostalCode,
		Country:    req.Country,
		MaxResults: req.MaxResults,
	}
	switch {
	case len(req.GeoJSON) > 0:
		radius := req.Radius
		if radius <= 0 {
			radius = s.defaultRadius
		}
		area, err := geo.FromGeoJSON(req.GeoJSON, radius)
		if err != nil {
			writeError(w, eris.Wrap(model.ErrInvalidRequest, err.Error()))
			return
		}
		q.Area = area
	case req.Area != nil:
		q.Area = *req.Area
	default:
		writeError(w, eris.Wrap(model.ErrInvalidRequest, "area or geojson is required"))
		return
	}

	res, err := s.disc.DiscoverByArea(r.Context(), q)
	if err != nil {
		writeError(w, err)
		return
	}
	s.respondDiscovered(w, r, res.Leads, res.Locations)
}

func (s *server) discoverOrganizations(w http.ResponseWriter, r *http.Request) {
	var f discovery.OrganizationFilters
	if !decodeBody(w, r, &f) {
		return
	}
	leads, err := s.disc.SearchOrganizations(r.Context(), f)
	if err != nil {
		writeError(w, err)
		return
	}
	s.respondDiscovered(w, r, leads, nil)
}

func (s *server) discoverPeople(w http.ResponseWriter, r *http.Request) {
	var f discovery.PeopleFilters
	if !decodeBody(w, r, &f) {
		return
	}
	leads, err := s.disc.SearchPeople(r.Context(), f)
	if err != nil {
		writeError(w, err)
		return
	}
	s.respondDiscovered(w, r, leads, nil)
}

// respondDiscovered stores the new leads and returns them. A storage
// failure is logged; the discovery result is still returned.
func (s *server) respondDiscovered(w http.ResponseWriter, r *http.Request, leads []model.Lead, locations []string) {
	for i := range leads {
		leads[i].EnsureID()
	}
	added, err := s.repo.Add(r.Context(), leads...)
	if err != nil {
		zap.L().Error("store discovered leads", zap.Error(err))
	}
	if leads == nil {
		leads = []model.Lead{}
	}
	writeJSONStatus(w, http.StatusOK, discoverResponse{Leads: leads, Locations: locations, Added: added})
}

func (s *server) enrich(w http.ResponseWriter, r *http.Request) {
	var req enrich.Request
	if !decodeBody(w, r, &req) {
		return
	}
	res := s.enr.Enrich(r.Context(), req)
	s.save(r.Context(), res.Lead)
	writeJSONStatus(w, http.StatusOK, res)
}

func (s *server) enrichBatch(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if len(req.Leads) == 0 {
		writeError(w, eris.Wrap(model.ErrInvalidRequest, "leads are required"))
		return
	}
	results := s.enr.EnrichBatch(r.Context(), req.Leads, model.ParseAIMode(string(req.Mode)))
	for _, res := range results {
		s.save(r.Context(), res.Lead)
	}
	writeJSONStatus(w, http.StatusOK, results)
}

func (s *server) enrichManual(w http.ResponseWriter, r *http.Request) {
	var req manualRequest
	if !decodeBody(w, r, &req) {
		return
	}
	res, err := s.enr.EnrichManual(r.Context(), req.Fields, model.ParseAIMode(string(req.Mode)))
	if err != nil {
		writeError(w, err)
		return
	}
	s.save(r.Context(), res.Lead)
	writeJSONStatus(w, http.StatusOK, res)
}

// save replaces a stored lead or adds it when it is new.
func (s *server) save(ctx context.Context, lead model.Lead) {
	err := s.repo.Replace(ctx, lead)
	if errors.Is(err, model.ErrNotFound) {
		_, err = s.repo.Add(ctx, lead)
	}
	if err != nil {
		zap.L().Error("store enriched lead", zap.String("lead_id", lead.ID), zap.Error(err))
	}
}

func (s *server) findOwner(w http.ResponseWriter, r *http.Request) {
	var q enrich.OwnerQuery
	if !decodeBody(w, r, &q) {
		return
	}
	res, err := s.enr.FindOwner(r.Context(), q)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSONStatus(w, http.StatusOK, res)
}

func (s *server) listLeads(w http.ResponseWriter, r *http.Request) {
	leads, err := s.repo.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if leads == nil {
		leads = []model.Lead{}
	}
	writeJSONStatus(w, http.StatusOK, leads)
}

func (s *server) getLead(w http.ResponseWriter, r *http.Request) {
	lead, err := s.repo.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSONStatus(w, http.StatusOK, lead)
}

func (s *server) replaceLead(w http.ResponseWriter, r *http.Request) {
	var lead model.Lead
	if !decodeBody(w, r, &lead) {
		return
	}
	lead.ID = chi.URLParam(r, "id")
	if err := s.repo.Replace(r.Context(), lead); err != nil {
		writeError(w, err)
		return
	}
	writeJSONStatus(w, http.StatusOK, lead)
}

func (s *server) clearLeads(w http.ResponseWriter, r *http.Request) {
	if err := s.repo.Clear(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// decodeBody reads a JSON body into v and writes a 400 on failure.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSONStatus(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return false
	}
	return true
}

// writeError maps the error taxonomy onto HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, model.ErrInvalidRequest):
		status = http.StatusBadRequest
	case errors.Is(err, model.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, model.ErrMissingCredentials):
		status = http.StatusServiceUnavailable
	}
	if status >= http.StatusInternalServerError {
		zap.L().Error("request failed", zap.Int("status", status), zap.Error(err))
	}
	writeJSONStatus(w, status, map[string]string{"error": err.Error()})
}

func writeJSONStatus(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Warn("encode response", zap.Error(err))
	}
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		zap.L().Debug("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}
