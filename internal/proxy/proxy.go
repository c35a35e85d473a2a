package proxy

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

const (
	requestTimeout = 15 * time.Second
	clientVersion  = "0.1.0"
)

// Server is the local /api proxy in front of the hearthd backend. Every
// route maps one verb/path pair 1:1 onto a backend verb/path pair; the
// proxy adds no caching, retries, or coalescing.
type Server struct {
	listen    string
	backend   *url.URL
	changelog string

	mux    *http.ServeMux
	server *http.Server

	// Separate clients: API calls get a timeout, the SSE relay must not.
	api    *http.Client
	stream *http.Client
}

// NewServer builds a proxy that forwards to the given backend base URL.
func NewServer(listen string, backend *url.URL, changelogPath string) *Server {
	s := &Server{
		listen:    listen,
		backend:   backend,
		changelog: changelogPath,
		mux:       http.NewServeMux(),
		api:       &http.Client{Timeout: requestTimeout},
		stream:    &http.Client{},
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	// Collection resources. PUT/DELETE address records via ?id= (or ?code=
	// for freezer items) to match the front end's flat query style.
	s.mux.HandleFunc("GET /api/memories", s.forwardTo("/memories"))
	s.mux.HandleFunc("POST /api/memories", s.forwardTo("/memories"))
	s.mux.HandleFunc("PUT /api/memories", s.forwardKeyed("/memories", "id"))
	s.mux.HandleFunc("DELETE /api/memories", s.forwardKeyed("/memories", "id"))

	s.mux.HandleFunc("GET /api/stock", s.forwardTo("/stock"))
	s.mux.HandleFunc("POST /api/stock", s.forwardTo("/stock"))
	s.mux.HandleFunc("PUT /api/stock", s.forwardKeyed("/stock", "id"))
	s.mux.HandleFunc("DELETE /api/stock", s.forwardKeyed("/stock", "id"))

	s.mux.HandleFunc("GET /api/freezer", s.forwardTo("/freezer"))
	s.mux.HandleFunc("POST /api/freezer", s.forwardTo("/freezer"))
	s.mux.HandleFunc("PATCH /api/freezer", s.forwardKeyed("/freezer", "code"))
	s.mux.HandleFunc("DELETE /api/freezer", s.forwardKeyed("/freezer", "code"))

	s.mux.HandleFunc("GET /api/todos", s.forwardTo("/todos"))
	s.mux.HandleFunc("POST /api/todos", s.forwardTo("/todos"))
	s.mux.HandleFunc("PATCH /api/todos/{id}", s.forwardPathValue("/todos", "id"))
	s.mux.HandleFunc("DELETE /api/todos/{id}", s.forwardPathValue("/todos", "id"))

	s.mux.HandleFunc("GET /api/clients", s.forwardTo("/clients"))
	s.mux.HandleFunc("POST /api/clients/select", s.forwardTo("/clients/select"))

	s.mux.HandleFunc("GET /api/gating/modes", s.forwardTo("/gating/modes"))
	s.mux.HandleFunc("POST /api/gating/start", s.forwardTo("/gating/start"))
	s.mux.HandleFunc("POST /api/gating/stop", s.forwardTo("/gating/stop"))

	s.mux.HandleFunc("POST /api/chat/message", s.forwardTo("/chat/message"))
	s.mux.HandleFunc("POST /api/chat/session", s.forwardTo("/chat/session"))
	s.mux.HandleFunc("DELETE /api/chat/session/{id}", s.forwardPathValue("/chat/session", "id"))

	s.mux.HandleFunc("GET /api/version", s.forwardTo("/version"))
	s.mux.HandleFunc("GET /api/client-version", s.handleClientVersion)

	s.mux.HandleFunc("GET /api/events", s.handleEvents)
}

// forwardTo proxies the request verbatim to the backend path, carrying the
// inbound query string along.
func (s *Server) forwardTo(backendPath string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.forward(w, r, backendPath, r.URL.Query())
	}
}

// forwardKeyed proxies to backendPath/{key} where the key arrives as a
// query parameter on the inbound request.
func (s *Server) forwardKeyed(backendPath, param string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		value := strings.TrimSpace(r.URL.Query().Get(param))
		if value == "" {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("missing %s parameter", param))
			return
		}
		query := r.URL.Query()
		query.Del(param)
		s.forward(w, r, backendPath+"/"+url.PathEscape(value), query)
	}
}

// forwardPathValue proxies to backendPath/{value} taken from the route's
// path wildcard.
func (s *Server) forwardPathValue(backendPath, wildcard string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		value := r.PathValue(wildcard)
		if value == "" {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("missing %s", wildcard))
			return
		}
		s.forward(w, r, backendPath+"/"+url.PathEscape(value), r.URL.Query())
	}
}

// forward performs the actual pass-through: same verb, translated path,
// body and content type carried over, response streamed back. Backend
// error statuses are normalized to a flat {"error": string} body with the
// original status code; an unreachable backend becomes a 503.
func (s *Server) forward(w http.ResponseWriter, r *http.Request, backendPath string, query url.Values) {
	rel := &url.URL{Path: backendPath}
	if len(query) > 0 {
		rel.RawQuery = query.Encode()
	}
	target := s.backend.ResolveReference(rel)

	req, err := http.NewRequestWithContext(r.Context(), r.Method, target.String(), r.Body)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if ct := r.Header.Get("Content-Type"); ct != "" {
		req.Header.Set("Content-Type", ct)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.api.Do(req)
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "backend unavailable")
		return
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		writeError(w, resp.StatusCode, normalizeErrorBody(resp.Body))
		return
	}

	if ct := resp.Header.Get("Content-Type"); ct != "" {
		w.Header().Set("Content-Type", ct)
	}
	w.WriteHeader(resp.StatusCode)
	_, _ = io.Copy(w, resp.Body)
}

// normalizeErrorBody extracts the backend's error message, whatever shape
// the body takes.
func normalizeErrorBody(body io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(body, 64*1024))
	if err != nil || len(raw) == 0 {
		return "backend error"
	}
	var shaped struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(raw, &shaped); err == nil && shaped.Error != "" {
		return shaped.Error
	}
	if trimmed := strings.TrimSpace(string(raw)); trimmed != "" && len(trimmed) < 512 {
		return trimmed
	}
	return "backend error"
}

// handleEvents relays the backend's SSE stream. The inbound request context
// cancels the backend fetch, so a dropped client promptly closes the
// backend-facing stream instead of leaking it.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	target := s.backend.ResolveReference(&url.URL{Path: "/events"})
	req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, target.String(), nil)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := s.stream.Do(req)
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "backend unavailable")
		return
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		writeError(w, resp.StatusCode, normalizeErrorBody(resp.Body))
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	buf := make([]byte, 4096)
	for {
		n, err := resp.Body.Read(buf)
		if n > 0 {
			if _, werr := w.Write(buf[:n]); werr != nil {
				return
			}
			flusher.Flush()
		}
		if err != nil {
			return
		}
	}
}

// handleClientVersion reports the front end's own version plus the leading
// version line of the bundled changelog.
func (s *Server) handleClientVersion(w http.ResponseWriter, r *http.Request) {
	payload := map[string]string{"version": clientVersion}
	if line := firstChangelogVersion(s.changelog); line != "" {
		payload["version"] = line
	}
	writeJSON(w, http.StatusOK, payload)
}

// firstChangelogVersion extracts the version token from the changelog's
// first non-blank line (e.g. "## v0.4.1 - 2026-08-12" yields "0.4.1"), or
// "" when the file is unavailable.
func firstChangelogVersion(path string) string {
	if path == "" {
		return ""
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	for _, line := range strings.Split(string(raw), "\n") {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		for _, field := range fields {
			token := strings.TrimLeft(field, "#v")
			if token != "" && token[0] >= '0' && token[0] <= '9' {
				return token
			}
		}
		return ""
	}
	return ""
}

// Start runs the proxy until ListenAndServe returns.
func (s *Server) Start() error {
	handler := Chain(
		RecoveryMiddleware(),
		LoggingMiddleware(),
	)(s.mux)

	s.server = &http.Server{
		Addr:        s.listen,
		Handler:     handler,
		ReadTimeout: 30 * time.Second,
		IdleTimeout: 120 * time.Second,
	}

	log.Printf("PROXY_START | addr=%s backend=%s", s.listen, s.backend)
	return s.server.ListenAndServe()
}

// Handler exposes the routed handler for tests and embedding.
func (s *Server) Handler() http.Handler {
	return Chain(RecoveryMiddleware())(s.mux)
}

// Shutdown gracefully stops the proxy.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
