package chi

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/profilesearch/internal/domain"
	"github.com/kailas-cloud/profilesearch/internal/domain/outcome"
	"github.com/kailas-cloud/profilesearch/internal/domain/query"
	healthuc "github.com/kailas-cloud/profilesearch/internal/usecase/health"
	profileuc "github.com/kailas-cloud/profilesearch/internal/usecase/profile"
)

// BasePath is the mount point of the user API.
const BasePath = "/api/v1/users"

const defaultMaxBodyBytes = 1 << 20

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error) bool

// Server serves the profile lookup, search and registration API.
type Server struct {
	profiles      *profileuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
	maxBodyBytes  int64
}

// NewServer creates an HTTP API server.
func NewServer(profiles *profileuc.Service, health *healthuc.Service, logger *zap.Logger) *Server {
	s := &Server{
		profiles:     profiles,
		health:       health,
		logger:       logger,
		maxBodyBytes: defaultMaxBodyBytes,
	}
	s.errorHandlers = []errorHandler{
		rejectionHandler,
		sentinelHandler(domain.ErrAlreadyExists, http.StatusConflict, outcome.ReasonConflict),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, outcome.ReasonNotFound),
	}
	return s
}

// WithMaxBodyBytes caps the registration request body.
func (s *Server) WithMaxBodyBytes(n int64) *Server {
	if n > 0 {
		s.maxBodyBytes = n
	}
	return s
}

// Mount registers every route on r. Unknown paths answer "endpoint not available".
func (s *Server) Mount(r chi.Router) {
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)

	r.Route(BasePath, func(r chi.Router) {
		r.Get("/", s.ListAll)
		r.Post("/", s.Register)
		r.Get("/findByID/{id}", s.FindByID)
		r.Get("/findByName", s.FindByName)
		r.Get("/findByCountry", s.FindByCountry)
		r.Get("/find", s.Find)
		r.Get("/available", s.Available)
	})

	r.NotFound(s.NotAvailable)
	r.MethodNotAllowed(s.NotAvailable)
}

// ListAll handles GET /api/v1/users/.
func (s *Server) ListAll(w http.ResponseWriter, r *http.Request) {
	o := s.profiles.ListAll(r.Context())
	s.writeOutcome(w, &o)
}

// FindByID handles GET /api/v1/users/findByID/{id}.
func (s *Server) FindByID(w http.ResponseWriter, r *http.Request) {
	o := s.profiles.FindByID(r.Context(), chi.URLParam(r, "id"))
	if o.Kind() != outcome.Found {
		s.logFailure(&o)
		writeJSON(w, o.Status(), itemResponse{Error: strPtr(o.Reason())})
		return
	}
	writeJSON(w, http.StatusOK, itemResponse{Result: profileToJSON(&o.Records()[0])})
}

// FindByName handles GET /api/v1/users/findByName?first=&last=.
func (s *Server) FindByName(w http.ResponseWriter, r *http.Request) {
	s.search(w, r, s.profiles.FindByName)
}

// FindByCountry handles GET /api/v1/users/findByCountry?country=.
func (s *Server) FindByCountry(w http.ResponseWriter, r *http.Request) {
	s.search(w, r, s.profiles.FindByCountry)
}

// Find handles GET /api/v1/users/find with any combination of searchable fields.
func (s *Server) Find(w http.ResponseWriter, r *http.Request) {
	s.search(w, r, s.profiles.Find)
}

// Available handles GET /api/v1/users/available?usrName=.
func (s *Server) Available(w http.ResponseWriter, r *http.Request) {
	params, err := query.FromURL(r.URL.Query())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	available, err := s.profiles.Available(r.Context(), params)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	usrName, _ := params.Lookup(profileuc.ParamUsrName)
	writeJSON(w, http.StatusOK, itemResponse{Result: availabilityJSON{
		UsrName:   usrName.String(),
		Available: available,
	}})
}

// Register handles POST /api/v1/users/ with a JSON body.
func (s *Server) Register(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxBodyBytes))
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	params, err := query.FromJSON(body)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	p, err := s.profiles.Register(r.Context(), params)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, itemResponse{Result: profileToJSON(&p)})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}
	writeJSON(w, httpStatus, healthResponse{Status: string(report.Status), Checks: checks})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// NotAvailable answers every unknown route.
func (s *Server) NotAvailable(w http.ResponseWriter, _ *http.Request) {
	writeError(w, http.StatusNotFound, "endpoint not available")
}

type searchFunc func(ctx context.Context, params query.Params) outcome.Outcome

func (s *Server) search(w http.ResponseWriter, r *http.Request, fn searchFunc) {
	params, err := query.FromURL(r.URL.Query())
	if err != nil {
		o := outcome.Classify(nil, err)
		s.writeOutcome(w, &o)
		return
	}
	o := fn(r.Context(), params)
	s.writeOutcome(w, &o)
}

// writeOutcome renders a search outcome; results is [] for every non-Found outcome.
func (s *Server) writeOutcome(w http.ResponseWriter, o *outcome.Outcome) {
	resp := listResponse{Results: make([]profileJSON, 0, len(o.Records()))}
	if o.Kind() == outcome.Found {
		for i := range o.Records() {
			resp.Results = append(resp.Results, profileToJSON(&o.Records()[i]))
		}
	} else {
		s.logFailure(o)
		resp.Error = strPtr(o.Reason())
	}
	writeJSON(w, o.Status(), resp)
}

func (s *Server) logFailure(o *outcome.Outcome) {
	if o.Kind() == outcome.StoreFailure {
		s.logger.Error("store failure", zap.Error(o.Err()))
	}
}

// rejectionHandler maps validation and empty-query errors to 400 with the bare reason.
func rejectionHandler(w http.ResponseWriter, err error) bool {
	if !domain.IsRejection(err) {
		return false
	}
	writeError(w, http.StatusBadRequest, outcome.RejectionReason(err))
	return true
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, msg string) errorHandler {
	return func(w http.ResponseWriter, err error) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	for _, h := range s.errorHandlers {
		if h(w, err) {
			s.logger.Debug("domain error", zap.Error(err))
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, outcome.ReasonStoreFailure)
}
