package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/go-logr/logr"

	"github.com/DeterminateSystems/queuesimd/internal/config"
	"github.com/DeterminateSystems/queuesimd/lesson"
	"github.com/DeterminateSystems/queuesimd/queue"
)

type Server struct {
	sessions  *Sessions
	broker    *Broker
	heartbeat time.Duration
	log       logr.Logger

	display atomic.Pointer[config.Display]
	catalog atomic.Pointer[lesson.Catalog]
}

func NewServer(cfg *config.Config, sessions *Sessions, broker *Broker, log logr.Logger) *Server {
	s := &Server{
		sessions:  sessions,
		broker:    broker,
		heartbeat: cfg.Heartbeat,
		log:       log,
	}
	s.SetDisplay(cfg.Display)
	s.SetCatalog(cfg.Lessons)
	return s
}

// SetDisplay replaces the display preferences served to clients.
func (s *Server) SetDisplay(d config.Display) {
	s.display.Store(&d)
}

// SetCatalog replaces the lessons new sessions are created from. Existing
// sessions keep the definition they started with.
func (s *Server) SetCatalog(c lesson.Catalog) {
	s.catalog.Store(&c)
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /lessons", s.handleLessons)
	mux.HandleFunc("GET /display", s.handleDisplay)
	mux.HandleFunc("GET /sessions", s.handleListSessions)
	mux.HandleFunc("POST /sessions", s.handleCreateSession)
	mux.HandleFunc("GET /sessions/{id}", s.handleGetSession)
	mux.HandleFunc("DELETE /sessions/{id}", s.handleDeleteSession)
	mux.HandleFunc("GET /sessions/{id}/diagram", s.handleDiagram)
	mux.HandleFunc("POST /sessions/{id}/{op}", s.handleOperation)
	mux.HandleFunc("GET /events", s.handleEvents)
	return mux
}

type errorBody struct {
	Error   string `json:"error"`
	Op      string `json:"op,omitempty"`
	Kind    string `json:"kind,omitempty"`
	Message string `json:"message,omitempty"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error(err, "JSON encoding")
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	var qerr *queue.Error
	switch {
	case errors.As(err, &qerr):
		s.writeJSON(w, http.StatusConflict, errorBody{
			Error:   err.Error(),
			Op:      string(qerr.Op),
			Kind:    qerr.Kind.String(),
			Message: qerr.Message,
		})
	case errors.Is(err, ErrNoSession):
		s.writeJSON(w, http.StatusNotFound, errorBody{Error: err.Error()})
	case errors.Is(err, ErrTooManySessions):
		s.writeJSON(w, http.StatusTooManyRequests, errorBody{Error: err.Error()})
	default:
		s.writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
	}
}

func (s *Server) handleLessons(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, *s.catalog.Load())
}

func (s *Server) handleDisplay(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, *s.display.Load())
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.sessions.Snapshots())
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Lesson string `json:"lesson"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, fmt.Errorf("decoding request: %w", err))
		return
	}

	def, ok := s.catalog.Load().Get(req.Lesson)
	if !ok {
		s.writeJSON(w, http.StatusNotFound, errorBody{Error: fmt.Sprintf("no such lesson: %q", req.Lesson)})
		return
	}

	sess, err := s.sessions.Create(def)
	if errors.Is(err, ErrTooManySessions) {
		s.writeError(w, err)
		return
	}
	if err != nil {
		s.log.Error(err, "creating session")
		s.writeJSON(w, http.StatusInternalServerError, errorBody{Error: err.Error()})
		return
	}
	s.writeJSON(w, http.StatusCreated, sess.Snapshot())
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Get(r.PathValue("id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, sess.Snapshot())
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Delete(r.PathValue("id")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDiagram(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Get(r.PathValue("id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	out, err := sess.Diagram(r.URL.Query().Get("format"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, out)
}

func (s *Server) handleOperation(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Get(r.PathValue("id"))
	if err != nil {
		s.writeError(w, err)
		return
	}

	cmd := lesson.Command{Op: queue.Op(r.PathValue("op"))}
	switch cmd.Op {
	case queue.OpEnqueue:
		var req struct {
			Value    string `json:"value"`
			Priority int    `json:"priority"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.writeError(w, fmt.Errorf("decoding request: %w", err))
			return
		}
		if req.Value == "" {
			s.writeError(w, errors.New("enqueue needs a value"))
			return
		}
		cmd.Value, cmd.Priority = req.Value, req.Priority
	case queue.OpDequeue, queue.OpPeek, queue.OpReset:
	default:
		http.NotFound(w, r)
		return
	}

	snap, err := sess.Apply(r.Context(), cmd)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, snap)
}

func writeEvent(w io.Writer, ev Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "id: %d\ndata: %s\n\n", ev.Seq, data)
	return err
}

// handleEvents streams session events as server-sent events. With
// ?session=<id> only that session is streamed and a Last-Event-ID header
// replays what the client missed; otherwise every session is streamed
// after an initial snapshot of all of them.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("session")

	var sess *Session
	if id != "" {
		var err error
		if sess, err = s.sessions.Get(id); err != nil {
			s.writeError(w, err)
			return
		}
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	// Subscribe before taking the snapshot so nothing falls in between.
	ch, unsubscribe := s.broker.Subscribe(id)
	defer unsubscribe()

	// Mandatory SSE headers
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	// CORS (optional; useful when testing from other origins)
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("X-Accel-Buffering", "no")

	// Tell client to retry in 3s if disconnected
	if _, err := fmt.Fprint(w, "retry: 3000\n\n"); err != nil {
		return
	}

	var lastSeq uint64
	if sess == nil {
		data, err := json.Marshal(s.sessions.Snapshots())
		if err != nil {
			s.log.Error(err, "JSON encoding")
		} else if _, err := fmt.Fprintf(w, "event: sessions\ndata: %s\n\n", data); err != nil {
			return
		}
	} else {
		after, _ := strconv.ParseUint(r.Header.Get("Last-Event-ID"), 10, 64)
		for _, ev := range sess.EventsAfter(after) {
			if err := writeEvent(w, ev); err != nil {
				return
			}
			lastSeq = ev.Seq
		}
	}
	flusher.Flush()

	// Heartbeats to keep connections alive through proxies
	heartbeat := time.NewTicker(s.heartbeat)
	defer heartbeat.Stop()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-heartbeat.C:
			// comment lines are ignored by EventSource but keep the pipe warm
			if _, err := fmt.Fprint(w, ": heartbeat\n\n"); err != nil {
				return
			}
			flusher.Flush()
		case ev, ok := <-ch:
			if !ok {
				return
			}
			// Already sent during replay.
			if sess != nil && ev.Seq <= lastSeq {
				continue
			}
			if err := writeEvent(w, ev); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}
