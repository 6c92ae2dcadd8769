// Package http exposes document extraction and the table mutation API
// over JSON. Each uploaded document becomes a server-side session that
// subsequent mutation calls address by ID.
package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/fwojciec/docgrid"
)

// ShutdownTimeout is the time given for in-flight requests to complete.
const ShutdownTimeout = 1 * time.Second

// Server wires the extraction pipeline and macro store into an HTTP API.
type Server struct {
	ln     net.Listener
	server *http.Server
	router chi.Router

	// Bind address, e.g. ":8080".
	Addr string

	ExtractService docgrid.ExtractService
	MacroService   docgrid.MacroService

	limiter *rate.Limiter

	mu       sync.Mutex
	sessions map[string]*docgrid.Session
}

// NewServer returns a server with all routes registered. The service
// fields must be set before Open.
func NewServer() *Server {
	s := &Server{
		server:   &http.Server{},
		router:   chi.NewRouter(),
		limiter:  rate.NewLimiter(rate.Limit(4), 8),
		sessions: make(map[string]*docgrid.Session),
	}

	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(60 * time.Second))

	s.router.With(s.limit).Post("/extract", s.handleExtract)

	s.router.Route("/sessions/{sessionID}", func(r chi.Router) {
		r.Get("/", s.handleSessionResult)
		r.Delete("/", s.handleSessionClose)

		r.Route("/tables/{index}", func(r chi.Router) {
			r.Delete("/", s.handleDeleteTable)
			r.Post("/rename", s.handleRename)
			r.Post("/header", s.handleUpdateHeader)
			r.Post("/demote", s.handleDemoteHeader)
			r.Post("/promote", s.handlePromoteRow)
			r.Post("/delete-row", s.handleDeleteRow)
			r.Post("/fill-down", s.handleFillDown)
			r.Post("/name-column", s.handleAddNameColumn)
			r.Post("/split", s.handleSplitRow)
			r.Post("/approve", s.handleApprove)
			r.Post("/restore", s.handleRestoreTable)
			r.Post("/select", s.handleSelect)
			r.Post("/deselect", s.handleDeselect)
		})

		r.Post("/merge", s.handleMerge)

		r.Post("/record/start", s.handleRecordStart)
		r.Post("/record/stop", s.handleRecordStop)
		r.Get("/events", s.handleEvents)
		r.Post("/replay", s.handleReplay)
		r.Post("/macros/{name}", s.handleSaveMacro)
	})

	s.router.Get("/macros", s.handleListMacros)
	s.router.Get("/macros/{name}", s.handleGetMacro)
	s.router.Delete("/macros/{name}", s.handleDeleteMacro)

	s.server.Handler = s.router
	return s
}

// ServeHTTP satisfies http.Handler so tests can drive the router directly.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Open begins listening on the bind address.
func (s *Server) Open() (err error) {
	if s.ln, err = net.Listen("tcp", s.Addr); err != nil {
		return err
	}
	go func() {
		if err := s.server.Serve(s.ln); err != nil && err != http.ErrServerClosed {
			slog.Error("http server", "error", err)
		}
	}()
	return nil
}

// Close gracefully shuts the server down.
func (s *Server) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// URL returns the server's base URL once open.
func (s *Server) URL() string {
	if s.ln == nil {
		return ""
	}
	return "http://" + s.ln.Addr().String()
}

// limit rejects requests above the upload rate with 429.
func (s *Server) limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.Allow() {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			json.NewEncoder(w).Encode(errorResponse{Error: "Too many uploads, slow down.", Code: "rate_limited"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// registerSession stores a session under a fresh ID.
func (s *Server) registerSession(sess *docgrid.Session) string {
	id := uuid.NewString()
	s.mu.Lock()
	s.sessions[id] = sess
	s.mu.Unlock()
	return id
}

// session resolves the request's session ID.
func (s *Server) session(r *http.Request) (*docgrid.Session, error) {
	id := chi.URLParam(r, "sessionID")
	s.mu.Lock()
	sess, ok := s.sessions[id]
	s.mu.Unlock()
	if !ok {
		return nil, docgrid.Errorf(docgrid.ENOTFOUND, "session %q not found", id)
	}
	return sess, nil
}

func (s *Server) dropSession(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

// errorResponse is the JSON shape of every error reply.
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// statusCodes maps application error codes onto HTTP status codes.
var statusCodes = map[string]int{
	docgrid.ECONFLICT:   http.StatusConflict,
	docgrid.EINVALID:    http.StatusBadRequest,
	docgrid.ENOTFOUND:   http.StatusNotFound,
	docgrid.EBADARCHIVE: http.StatusUnprocessableEntity,
	docgrid.EBADDOC:     http.StatusUnprocessableEntity,
	docgrid.EINTERNAL:   http.StatusInternalServerError,
}

// Error writes an application error as a JSON response, logging internal
// details server-side only.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	code := docgrid.ErrorCode(err)
	status, ok := statusCodes[code]
	if !ok {
		status = http.StatusInternalServerError
	}
	if status >= http.StatusInternalServerError {
		slog.Error("request error",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
			"request_id", middleware.GetReqID(r.Context()),
		)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(errorResponse{Error: docgrid.ErrorMessage(err), Code: code})
}

// writeJSON serializes v with the standard headers.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encoding response", "error", err)
	}
}

// sessionETag derives a strong validator from the session-wide
// fingerprint, which covers every table, deleted ones included.
func sessionETag(sess *docgrid.Session) string {
	return `"` + strconv.FormatUint(sess.Fingerprint(), 16) + `"`
}
