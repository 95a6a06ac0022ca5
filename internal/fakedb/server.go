// Package fakedb is an in-memory stand-in for a realtime JSON database.
//
// Server implements the REST semantics rtdb relies on: GET returns the
// subtree, PUT replaces it, POST appends a child under a generated key,
// PATCH merges keys and DELETE removes the subtree. It is used by tests and
// by the rtdb-sandbox command.
package fakedb

import (
	"encoding/json"
	"io"
	"log/slog"
	"math/rand"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Server is an http.Handler holding one JSON tree.
type Server struct {
	mu   sync.RWMutex
	data tree

	prefix   string
	latency  time.Duration
	failRate float64
	failCode int
	denied   []string
	logger   *slog.Logger
	newKey   func() string
}

// Option configures the server.
type Option func(*Server)

// WithPrefix mounts the tree below prefix, e.g. "/db".
func WithPrefix(prefix string) Option {
	return func(s *Server) {
		s.prefix = "/" + strings.Trim(prefix, "/")
	}
}

// WithLatency delays every response by d.
func WithLatency(d time.Duration) Option {
	return func(s *Server) {
		s.latency = d
	}
}

// WithFailures answers a random share of requests (0..1) with code,
// 500 when code is zero.
func WithFailures(rate float64, code int) Option {
	return func(s *Server) {
		if code == 0 {
			code = http.StatusInternalServerError
		}
		s.failRate = rate
		s.failCode = code
	}
}

// WithDenied answers 401 Permission denied for every path at or below prefix.
func WithDenied(prefixes ...string) Option {
	return func(s *Server) {
		for _, p := range prefixes {
			s.denied = append(s.denied, strings.Join(splitPath(p), "/"))
		}
	}
}

// WithLogger sets the logger used for per-request debug records.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithKeyGenerator overrides push key generation (useful in tests).
func WithKeyGenerator(fn func() string) Option {
	return func(s *Server) {
		if fn != nil {
			s.newKey = fn
		}
	}
}

// New creates an empty server.
func New(opts ...Option) *Server {
	s := &Server{
		logger: slog.Default(),
		newKey: func() string {
			// v7 keys sort by creation time, like the service's push keys
			return uuid.Must(uuid.NewV7()).String()
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Seed replaces the whole tree with the JSON document data.
func (s *Server) Seed(data []byte) error {
	value, err := decode(data)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.set(nil, value)
	return nil
}

// SeedFile seeds the tree from a JSON file.
func (s *Server) SeedFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return s.Seed(data)
}

// Export returns the JSON encoding of the subtree at path.
func (s *Server) Export(path string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return json.Marshal(s.data.get(splitPath(path)))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
	s.serve(rec, r)
	s.logger.Debug("fakedb request",
		"method", r.Method,
		"path", r.URL.Path,
		"status", rec.status,
		"duration", time.Since(start))
}

func (s *Server) serve(w http.ResponseWriter, r *http.Request) {
	if s.latency > 0 {
		time.Sleep(s.latency)
	}
	if s.failRate > 0 && rand.Float64() < s.failRate {
		writeError(w, s.failCode, http.StatusText(s.failCode))
		return
	}

	p := r.URL.Path
	if s.prefix != "" && s.prefix != "/" {
		if p != s.prefix && !strings.HasPrefix(p, s.prefix+"/") {
			writeError(w, http.StatusNotFound, "Not Found")
			return
		}
		p = strings.TrimPrefix(p, s.prefix)
	}
	p = strings.TrimSuffix(p, ".json")
	segs := splitPath(p)

	if s.isDenied(segs) {
		writeError(w, http.StatusUnauthorized, "Permission denied")
		return
	}

	switch r.Method {
	case http.MethodGet:
		s.mu.RLock()
		body, err := json.Marshal(s.data.get(segs))
		s.mu.RUnlock()
		writeBody(w, http.StatusOK, body, err)

	case http.MethodPut:
		value, ok := readBody(w, r)
		if !ok {
			return
		}
		// value is part of the tree once stored; encode it before unlocking
		s.mu.Lock()
		s.data.set(segs, value)
		body, err := json.Marshal(value)
		s.mu.Unlock()
		writeBody(w, http.StatusOK, body, err)

	case http.MethodPost:
		value, ok := readBody(w, r)
		if !ok {
			return
		}
		key := s.newKey()
		s.mu.Lock()
		s.data.set(append(segs[:len(segs):len(segs)], key), value)
		s.mu.Unlock()
		writeJSON(w, http.StatusOK, map[string]string{"name": key})

	case http.MethodPatch:
		value, ok := readBody(w, r)
		if !ok {
			return
		}
		fields, isObject := value.(map[string]interface{})
		if !isObject {
			writeError(w, http.StatusBadRequest, "Invalid data; couldn't parse JSON object. Are you sending a JSON object with valid key names?")
			return
		}
		s.mu.Lock()
		for k, v := range fields {
			// keys may address deeper nodes: {"a/b": 1}
			s.data.set(append(segs[:len(segs):len(segs)], splitPath(k)...), v)
		}
		body, err := json.Marshal(value)
		s.mu.Unlock()
		writeBody(w, http.StatusOK, body, err)

	case http.MethodDelete:
		s.mu.Lock()
		s.data.set(segs, nil)
		s.mu.Unlock()
		writeJSON(w, http.StatusOK, nil)

	default:
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func (s *Server) isDenied(segs []string) bool {
	p := strings.Join(segs, "/")
	for _, d := range s.denied {
		if d == "" || p == d || strings.HasPrefix(p, d+"/") {
			return true
		}
	}
	return false
}

func readBody(w http.ResponseWriter, r *http.Request) (interface{}, bool) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return nil, false
	}
	value, err := decode(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid data; couldn't parse JSON object, array, or value.")
		return nil, false
	}
	return value, true
}

func writeJSON(w http.ResponseWriter, status int, value interface{}) {
	body, err := json.Marshal(value)
	writeBody(w, status, body, err)
}

// writeBody writes already encoded JSON, or a 500 when encoding failed.
func writeBody(w http.ResponseWriter, status int, body []byte, err error) {
	if err != nil {
		status = http.StatusInternalServerError
		body = []byte(`{"error":"encoding failed"}`)
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
