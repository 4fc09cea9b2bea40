// Package server is the transport collaborator in front of the watch
// engine: it accepts websocket consumers, forwards their subscribe and
// unsubscribe commands to the registry, and exposes the discovery queries
// over plain HTTP. The engine itself never sees a socket; it only sees the
// watch.Client contract.
package server

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"sessiontail/internal/discovery"
	"sessiontail/internal/watch"
)

// Server wires the transport to the engine.
type Server struct {
	registry  *watch.Registry
	discovery *discovery.Discovery
	upgrader  websocket.Upgrader
	log       *slog.Logger
}

// New creates a Server over a registry and a discovery service.
func New(registry *watch.Registry, disc *discovery.Discovery, log *slog.Logger) *Server {
	return &Server{
		registry:  registry,
		discovery: disc,
		upgrader:  websocket.Upgrader{},
		log:       log,
	}
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWS)
	mux.HandleFunc("/api/sessions", s.handleSessions)
	mux.HandleFunc("/api/sessions/current", s.handleCurrentSession)
	return mux
}

// command is the inbound message shape on the websocket.
type command struct {
	Action  string `json:"action"` // subscribe | unsubscribe
	Project string `json:"project"`
	Session string `json:"session"`
}

// handleWS upgrades the connection and runs its read loop. Every key the
// connection subscribed to is unsubscribed when the socket closes, which is
// the only cleanup path for dead consumers.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", "error", err)
		return
	}

	client := newWSClient(conn, s.log)
	subscribed := make(map[watch.Key]struct{})
	defer func() {
		client.shutdown()
		for key := range subscribed {
			s.registry.Unsubscribe(key, client)
		}
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var cmd command
		if err := json.Unmarshal(data, &cmd); err != nil {
			s.log.Debug("ignoring malformed command", "error", err)
			continue
		}
		if cmd.Project == "" || cmd.Session == "" {
			s.log.Debug("ignoring command without key", "action", cmd.Action)
			continue
		}

		key := watch.Key{Project: cmd.Project, Session: cmd.Session}
		switch cmd.Action {
		case "subscribe":
			s.registry.Subscribe(key, client)
			subscribed[key] = struct{}{}
		case "unsubscribe":
			s.registry.Unsubscribe(key, client)
			delete(subscribed, key)
		default:
			s.log.Debug("ignoring unknown action", "action", cmd.Action)
		}
	}
}

// handleSessions lists sessions, optionally filtered by project.
func (s *Server) handleSessions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	sessions, err := s.discovery.FindActiveSessions(r.URL.Query().Get("project"))
	if err != nil {
		s.log.Warn("list sessions", "error", err)
		http.Error(w, "failed to list sessions", http.StatusInternalServerError)
		return
	}
	if sessions == nil {
		sessions = []discovery.SessionInfo{}
	}
	writeJSON(w, s.log, sessions)
}

// handleCurrentSession resolves the session for a working directory.
func (s *Server) handleCurrentSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	cwd := r.URL.Query().Get("cwd")
	if cwd == "" {
		http.Error(w, "cwd is required", http.StatusBadRequest)
		return
	}

	info, err := s.discovery.CurrentSession(cwd)
	if err != nil {
		s.log.Warn("resolve current session", "cwd", cwd, "error", err)
		http.Error(w, "failed to resolve session", http.StatusInternalServerError)
		return
	}
	if info == nil {
		http.Error(w, "no session for cwd", http.StatusNotFound)
		return
	}
	writeJSON(w, s.log, info)
}

func writeJSON(w http.ResponseWriter, log *slog.Logger, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Debug("write response", "error", err)
	}
}
