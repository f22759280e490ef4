package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mulesoft-labs/twiml"
	"github.com/mulesoft-labs/twiml/internal/flow"
	"github.com/mulesoft-labs/twiml/pkg/adapters/memory"
	"github.com/mulesoft-labs/twiml/pkg/domain"
	"github.com/mulesoft-labs/twiml/pkg/ports"
)

// How long a webhook may hold a call's lock before a stuck handler stops
// blocking retries.
const lockTTL = 15 * time.Second

// Server hosts voice flows behind Twilio-compatible webhook routes.
//
// The entry route /voice/{flow} answers the first webhook of a call; every
// later webhook lands on /callbacks/{target}, which renders the flow named
// after the target. The engine's resolver points gather actions and recording
// callbacks back at this server, so a flow set plus a base URL is a complete
// IVR deployment.
type Server struct {
	store  ports.CallStore
	locker ports.CallLocker
	logger *slog.Logger

	compiler *flow.Compiler
	registry *prometheus.Registry
	metrics  *Metrics

	mu    sync.RWMutex
	flows *flow.Set
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the structured logger for request and render logging.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithLocker sets the lock backend that serializes webhooks per call. The
// default in-process locker is only safe for a single replica.
func WithLocker(locker ports.CallLocker) Option {
	return func(s *Server) {
		s.locker = locker
	}
}

// New builds a Server that renders flows with callbacks rooted at baseURL
// and keeps call state in store.
func New(baseURL string, flows *flow.Set, store ports.CallStore, opts ...Option) (*Server, error) {
	resolver, err := NewBaseURLResolver(baseURL)
	if err != nil {
		return nil, err
	}

	s := &Server{
		store:    store,
		locker:   memory.NewLocker(),
		logger:   slog.New(slog.NewJSONHandler(io.Discard, nil)),
		registry: prometheus.NewRegistry(),
		flows:    flows,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.metrics = NewMetrics(s.registry)
	engine := twiml.New(twiml.WithResolver(resolver), twiml.WithLogger(s.logger))
	s.compiler = flow.NewCompiler(engine)
	return s, nil
}

// ReplaceFlows swaps the served flow set. The watch loop calls this to
// hot-reload flows without restarting the listener.
func (s *Server) ReplaceFlows(set *flow.Set) {
	s.mu.Lock()
	s.flows = set
	s.mu.Unlock()
	s.logger.Info("flows reloaded", "count", set.Len())
}

func (s *Server) lookup(name string) (*flow.Document, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.flows.Lookup(name)
}

// Handler returns the router serving all webhook and operational routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(s.requestLogger)

	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	// Twilio posts webhooks by default, but the builders emit method="GET"
	// actions, so both verbs are routed.
	r.Post("/voice/{flow}", s.handleVoice)
	r.Get("/voice/{flow}", s.handleVoice)
	r.Post("/callbacks/{target}", s.handleCallback)
	r.Get("/callbacks/{target}", s.handleCallback)

	return r
}

// handleVoice answers the first webhook of an inbound call. Twilio supplies a
// CallSid; one is minted for callers that don't (curl, tests).
func (s *Server) handleVoice(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "flow")
	doc, ok := s.lookup(name)
	if !ok {
		http.NotFound(w, r)
		return
	}

	callSID := r.FormValue("CallSid")
	if callSID == "" {
		callSID = "CA" + strings.ReplaceAll(uuid.NewString(), "-", "")
	}

	state := domain.NewCallState(callSID, name)
	state.From = r.FormValue("From")
	state.To = r.FormValue("To")
	if err := s.store.Save(r.Context(), callSID, state); err != nil {
		s.logger.Error("save call state", "call_sid", callSID, "err", err)
		http.Error(w, "storage failure", http.StatusInternalServerError)
		return
	}
	s.logger.Info("call started", "call_sid", callSID, "flow", name, "from", state.From)

	s.render(w, doc, callSID)
}

// handleCallback answers every webhook after the first: gather actions,
// record actions, transcription and status callbacks. The call's lock is held
// across load-fold-save so a retry can't interleave with the original.
func (s *Server) handleCallback(w http.ResponseWriter, r *http.Request) {
	target := chi.URLParam(r, "target")
	doc, ok := s.lookup(target)
	if !ok {
		http.NotFound(w, r)
		return
	}

	callSID := r.FormValue("CallSid")
	if callSID == "" {
		http.Error(w, "CallSid is required", http.StatusBadRequest)
		return
	}

	unlock, err := s.locker.Lock(r.Context(), callSID, lockTTL)
	if err != nil {
		s.logger.Error("lock call", "call_sid", callSID, "err", err)
		http.Error(w, "call is busy", http.StatusConflict)
		return
	}
	defer func() {
		if err := unlock(r.Context()); err != nil {
			s.logger.Warn("unlock call", "call_sid", callSID, "err", err)
		}
	}()

	state, err := s.store.Load(r.Context(), callSID)
	if errors.Is(err, domain.ErrCallNotFound) {
		http.Error(w, "unknown call", http.StatusNotFound)
		return
	}
	if err != nil {
		s.logger.Error("load call state", "call_sid", callSID, "err", err)
		http.Error(w, "storage failure", http.StatusInternalServerError)
		return
	}

	fold(state, target, r)
	state.Touch()
	if err := s.store.Save(r.Context(), callSID, state); err != nil {
		s.logger.Error("save call state", "call_sid", callSID, "err", err)
		http.Error(w, "storage failure", http.StatusInternalServerError)
		return
	}

	s.render(w, doc, callSID)
}

// fold copies the webhook parameters worth keeping into the call state.
// Digits are keyed by the target that received them, so a flow with several
// gathers keeps each answer apart.
func fold(state *domain.CallState, target string, r *http.Request) {
	if digits := r.FormValue("Digits"); digits != "" {
		state.Digits[target] = digits
	}
	if rec := r.FormValue("RecordingUrl"); rec != "" {
		state.RecordingURL = rec
	}
	if text := r.FormValue("TranscriptionText"); text != "" {
		state.Transcription = text
	}
	if r.FormValue("CallStatus") == string(domain.StatusCompleted) {
		state.Status = domain.StatusCompleted
	}
}

func (s *Server) render(w http.ResponseWriter, doc *flow.Document, callSID string) {
	start := time.Now()
	out, err := s.compiler.Render(doc)
	s.metrics.RenderDuration.WithLabelValues(doc.Flow).Observe(time.Since(start).Seconds())
	if err != nil {
		s.metrics.RenderErrors.WithLabelValues(doc.Flow).Inc()
		s.logger.Error("render flow", "flow", doc.Flow, "call_sid", callSID, "err", err)
		http.Error(w, "render failure", http.StatusInternalServerError)
		return
	}
	s.metrics.DocumentsRendered.WithLabelValues(doc.Flow).Inc()

	w.Header().Set("Content-Type", twiml.ContentType)
	if _, err := io.WriteString(w, out); err != nil {
		s.logger.Warn("write response", "flow", doc.Flow, "err", err)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]string{
		"status":  "ok",
		"version": twiml.Version,
	}); err != nil {
		s.logger.Warn("write health response", "err", err)
	}
}

// statusWriter captures the status code a handler wrote, for request logging.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", sw.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}
