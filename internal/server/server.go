// Package server exposes the army data tree and the comparison engine
// over HTTP: read endpoints mirroring the static manifest layout, a
// compare endpoint, and a websocket compare session for interactive
// clients.
package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"armycompare/internal/diff"
	"armycompare/internal/store"
	"armycompare/internal/textdiff"
)

// Build metadata injected via -ldflags at build time
var (
	BuildVersion = "dev"
	BuildTime    = ""
)

type Server struct {
	store    *store.Store
	log      *logrus.Logger
	upgrader websocket.Upgrader
}

func New(st *store.Store, log *logrus.Logger) *Server {
	return &Server{
		store:    st,
		log:      log,
		upgrader: websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
	}
}

// Router wires every route. Data endpoints follow the manifest layout
// so a client can switch between this API and a static file host
// without changing paths.
func (s *Server) Router() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/api/healthz", s.handleHealthz).Methods(http.MethodGet)
	r.HandleFunc("/data/systems", s.handleSystems).Methods(http.MethodGet)
	r.HandleFunc("/data/{system}/versions", s.handleVersions).Methods(http.MethodGet)
	r.HandleFunc("/data/{system}/{version}/armies", s.handleArmies).Methods(http.MethodGet)
	r.HandleFunc("/data/{system}/{version}/armies/{id}", s.handleArmy).Methods(http.MethodGet)
	r.HandleFunc("/api/compare/{system}/{id}", s.handleCompare).Methods(http.MethodGet)
	r.HandleFunc("/ws", s.handleWS)
	return withCORS(s.logRequests(r))
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{
		"status":  "ok",
		"version": BuildVersion,
		"built":   BuildTime,
	})
}

func (s *Server) handleSystems(w http.ResponseWriter, r *http.Request) {
	systems, err := s.store.Systems()
	if err != nil {
		s.storeError(w, err)
		return
	}
	writeJSON(w, systems)
}

func (s *Server) handleVersions(w http.ResponseWriter, r *http.Request) {
	versions, err := s.store.Versions(mux.Vars(r)["system"])
	if err != nil {
		s.storeError(w, err)
		return
	}
	writeJSON(w, versions)
}

func (s *Server) handleArmies(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	armies, err := s.store.Armies(vars["system"], vars["version"])
	if err != nil {
		s.storeError(w, err)
		return
	}
	writeJSON(w, armies)
}

func (s *Server) handleArmy(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	doc, err := s.store.Army(vars["system"], vars["version"], vars["id"])
	if err != nil {
		s.storeError(w, err)
		return
	}
	writeJSON(w, doc)
}

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")
	if from == "" || to == "" {
		writeError(w, http.StatusBadRequest, "from and to query parameters are required")
		return
	}
	result, err := s.compare(vars["system"], from, to, vars["id"])
	if err != nil {
		s.compareError(w, err)
		return
	}
	writeJSON(w, result)
}

// compare loads the army from version A, resolves its counterpart in
// version B (exact file id first, fuzzy name prefix second), runs the
// engine, and attaches a unified patch for the background text.
func (s *Server) compare(system, from, to, id string) (*diff.Result, error) {
	docA, err := s.store.Army(system, from, id)
	if err != nil {
		return nil, err
	}
	// FindArmy tries the exact file id first, then the name prefix with
	// the parenthesized uid suffix stripped, which recovers armies whose
	// uid changed between exports.
	docB, err := s.store.FindArmy(system, to, id)
	if err != nil {
		return nil, err
	}

	result, err := diff.Compare(docA, docB)
	if err != nil {
		return nil, err
	}
	if result.Background.Changed {
		result.Background.Patch = textdiff.Unified(
			"background@"+from, "background@"+to,
			result.Background.A, result.Background.B,
		)
	}
	return result, nil
}

func (s *Server) compareError(w http.ResponseWriter, err error) {
	var ambiguous *store.AmbiguousArmyError
	switch {
	case errors.As(err, &ambiguous):
		writeJSONStatus(w, http.StatusConflict, map[string]any{
			"error":      ambiguous.Error(),
			"candidates": ambiguous.Candidates,
		})
	case errors.Is(err, diff.ErrInvalidDocument):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		s.storeError(w, err)
	}
}

func (s *Server) storeError(w http.ResponseWriter, err error) {
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	s.log.WithError(err).Error("store failure")
	writeError(w, http.StatusInternalServerError, "internal error")
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"duration": time.Since(start).String(),
		}).Debug("request")
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	writeJSONStatus(w, http.StatusOK, v)
}

func writeJSONStatus(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSONStatus(w, code, map[string]string{"error": msg})
}

func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
