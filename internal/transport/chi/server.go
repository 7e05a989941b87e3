package chi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/Denis-Wendell/matchmaking-sub000/internal/domain"
	dombatch "github.com/Denis-Wendell/matchmaking-sub000/internal/domain/batch"
	"github.com/Denis-Wendell/matchmaking-sub000/internal/domain/match"
	"github.com/Denis-Wendell/matchmaking-sub000/internal/usecase/explain"
	"github.com/Denis-Wendell/matchmaking-sub000/internal/usecase/catalog"
	healthuc "github.com/Denis-Wendell/matchmaking-sub000/internal/usecase/health"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

// Matcher is the engine facade consumed by the HTTP layer.
type Matcher interface {
	RankCandidates(
		ctx context.Context, caller domain.Caller, postingIDs []string,
		page match.PageRequest, f match.Filters, withExplain bool,
	) (match.Page, error)
	RankPostings(
		ctx context.Context, caller domain.Caller, profileID string,
		page match.PageRequest, f match.Filters, withExplain bool,
	) (match.Page, error)
	RankBySimilarity(
		ctx context.Context, caller domain.Caller, kind domain.Kind, anchorID string,
		page match.PageRequest, withExplain bool,
	) (match.Page, error)
	Reindex(ctx context.Context, kind domain.Kind, limit int) (dombatch.Summary, error)
	Explain(
		ctx context.Context, caller domain.Caller, postingID, profileID string, p explain.Perspective,
	) (match.Result, error)
}

// Catalog writes entities on behalf of their owners.
type Catalog interface {
	UpsertProfile(ctx context.Context, caller domain.Caller, p *domain.Profile) (catalog.Result, error)
	UpsertPosting(ctx context.Context, caller domain.Caller, p *domain.Posting) (catalog.Result, error)
}

// HealthChecker reports component health.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}

// Options tunes the HTTP layer.
type Options struct {
	// MaxPageSize bounds page_size on every ranking endpoint.
	MaxPageSize int
	// Diagnostics exposes internal error detail in 500 responses.
	Diagnostics bool
}

// Server serves the matching API.
type Server struct {
	matcher     Matcher
	catalog     Catalog
	health      HealthChecker
	maxPageSize int
	diagnostics bool
	logger      *zap.Logger
}

// NewServer creates an HTTP API server.
func NewServer(matcher Matcher, entities Catalog, health HealthChecker, opts Options, logger *zap.Logger) *Server {
	if opts.MaxPageSize <= 0 {
		opts.MaxPageSize = match.MaxPageSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		matcher:     matcher,
		catalog:     entities,
		health:      health,
		maxPageSize: opts.MaxPageSize,
		diagnostics: opts.Diagnostics,
		logger:      logger,
	}
}

// Routes registers every endpoint on r.
func (s *Server) Routes(r chi.Router) {
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/reindex/{kind}", s.Reindex)

		r.Group(func(r chi.Router) {
			r.Use(CallerMiddleware)
			r.Post("/matches/candidates", s.RankCandidates)
			r.Post("/matches/postings", s.RankPostings)
			r.Get("/explain", s.Explain)
			r.Get("/{kind}/{id}/similar", s.RankBySimilarity)
			r.Put("/{kind}/{id}", s.Upsert)
		})
	})
}

// RankCandidates handles POST /v1/matches/candidates.
func (s *Server) RankCandidates(w http.ResponseWriter, r *http.Request) {
	var req RankCandidatesRequest
	if !s.decode(w, r, &req) {
		return
	}
	page, filters, err := s.pageAndFilters(req.pageDTO, req.Filters)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	res, err := s.matcher.RankCandidates(r.Context(), callerFrom(r), req.PostingIDs, page, filters, req.Explain)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeOK(w, "candidates ranked", res)
}

// RankPostings handles POST /v1/matches/postings.
func (s *Server) RankPostings(w http.ResponseWriter, r *http.Request) {
	var req RankPostingsRequest
	if !s.decode(w, r, &req) {
		return
	}
	page, filters, err := s.pageAndFilters(req.pageDTO, req.Filters)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	res, err := s.matcher.RankPostings(r.Context(), callerFrom(r), req.ProfileID, page, filters, req.Explain)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeOK(w, "postings ranked", res)
}

// RankBySimilarity handles GET /v1/{kind}/{id}/similar.
func (s *Server) RankBySimilarity(w http.ResponseWriter, r *http.Request) {
	kind, ok := s.kindParam(w, r)
	if !ok {
		return
	}
	var id string
	if err := bindPath(r, "id", &id); err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	params, err := bindSimilarParams(r)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	page, err := match.NewPageRequest(derefInt(params.Page), derefInt(params.PageSize), s.maxPageSize)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	res, err := s.matcher.RankBySimilarity(r.Context(), callerFrom(r), kind, id, page, derefBool(params.Explain))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeOK(w, "similar entities ranked", res)
}

// Upsert handles PUT /v1/{kind}/{id}. It answers 201 when the entity is new.
func (s *Server) Upsert(w http.ResponseWriter, r *http.Request) {
	kind, ok := s.kindParam(w, r)
	if !ok {
		return
	}
	var id string
	if err := bindPath(r, "id", &id); err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	var (
		res catalog.Result
		err error
	)
	switch kind {
	case domain.KindProfile:
		var req ProfileRequest
		if !s.decode(w, r, &req) {
			return
		}
		res, err = s.catalog.UpsertProfile(r.Context(), callerFrom(r), req.toDomain(id))
	case domain.KindPosting:
		var req PostingRequest
		if !s.decode(w, r, &req) {
			return
		}
		res, err = s.catalog.UpsertPosting(r.Context(), callerFrom(r), req.toDomain(id))
	}
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	status, msg := http.StatusOK, string(kind)+" updated"
	if res.Created {
		status, msg = http.StatusCreated, string(kind)+" created"
	}
	writeJSON(w, status, Envelope{Success: true, Message: msg, Data: res})
}

// Reindex handles POST /v1/reindex/{kind}.
func (s *Server) Reindex(w http.ResponseWriter, r *http.Request) {
	kind, ok := s.kindParam(w, r)
	if !ok {
		return
	}
	params, err := bindReindexParams(r)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	sum, err := s.matcher.Reindex(r.Context(), kind, derefInt(params.Limit))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeOK(w, "reindex finished", ReindexResponse{
		Kind: string(kind), OK: sum.OK, Fail: sum.Fail, Skipped: sum.Skipped, Total: sum.Total,
	})
}

// Explain handles GET /v1/explain. Without a perspective parameter the
// caller's role decides it.
func (s *Server) Explain(w http.ResponseWriter, r *http.Request) {
	params, err := bindExplainParams(r)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	caller := callerFrom(r)

	raw := string(caller.Role)
	if params.Perspective != nil && *params.Perspective != "" {
		raw = *params.Perspective
	}
	p, err := explain.ParsePerspective(raw)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	res, err := s.matcher.Explain(r.Context(), caller, params.PostingID, params.ProfileID, p)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeOK(w, "pair explained", res)
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}
	data := HealthResponse{Status: string(report.Status), Checks: checks}

	if report.Status != healthuc.Healthy {
		writeJSON(w, http.StatusServiceUnavailable, Envelope{
			Success: false, Message: "service " + string(report.Status), Data: data,
		})
		return
	}
	writeOK(w, "service healthy", data)
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, dest any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dest); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "invalid request body: "+err.Error())
		return false
	}
	if err := validateStruct(dest); err != nil {
		s.handleDomainError(w, r, err)
		return false
	}
	return true
}

func (s *Server) pageAndFilters(p pageDTO, f filtersDTO) (match.PageRequest, match.Filters, error) {
	page, err := match.NewPageRequest(p.Page, p.PageSize, s.maxPageSize)
	if err != nil {
		return match.PageRequest{}, match.Filters{}, err
	}
	filters, err := f.toDomain()
	if err != nil {
		return match.PageRequest{}, match.Filters{}, err
	}
	return page, filters, nil
}

func (s *Server) kindParam(w http.ResponseWriter, r *http.Request) (domain.Kind, bool) {
	var raw string
	if err := bindPath(r, "kind", &raw); err != nil {
		s.handleDomainError(w, r, err)
		return "", false
	}
	kind, err := domain.ParseKind(raw)
	if err != nil {
		s.handleDomainError(w, r, fmt.Errorf("path: %w", err))
		return "", false
	}
	return kind, true
}

func callerFrom(r *http.Request) domain.Caller {
	c, _ := domain.CallerFromContext(r.Context())
	return c
}
