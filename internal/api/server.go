package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/pbaille/ankigraph/internal/domain"
	"github.com/pbaille/ankigraph/internal/logger"
	"github.com/pbaille/ankigraph/internal/render"
)

// Graph is the read side of a built graph served by the API
type Graph interface {
	Nodes() []domain.NodeView
	VisibleNodes(exclude domain.CategorySet) []domain.NodeView
	Edges(exclude domain.CategorySet) []domain.EdgeView
	TagDictionary() []domain.TagRow
	Stats(exclude domain.CategorySet) domain.Stats
}

// Server exposes one built graph over HTTP
type Server struct {
	graph   Graph
	addr    string
	exclude domain.CategorySet
	render  render.Options
	log     *logger.Logger
}

// New creates a new API server. exclude is used when a request carries no
// exclude parameter.
func New(g Graph, addr string, exclude domain.CategorySet, opts render.Options, log *logger.Logger) *Server {
	if log == nil {
		log = logger.Nop()
	}
	return &Server{graph: g, addr: addr, exclude: exclude, render: opts, log: log}
}

// Handler returns the routed handler
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /nodes", s.listNodes)
	mux.HandleFunc("GET /edges", s.listEdges)
	mux.HandleFunc("GET /tags", s.listTags)
	mux.HandleFunc("GET /stats", s.stats)
	mux.HandleFunc("GET /graph.png", s.renderPNG)

	// Health check
	mux.HandleFunc("GET /health", s.health)

	return withCORS(mux)
}

// Run starts the HTTP server
func (s *Server) Run() error {
	s.log.Info("starting server", "addr", s.addr)
	return http.ListenAndServe(s.addr, s.Handler())
}

// withCORS adds CORS headers for frontend development
func withCORS(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		h.ServeHTTP(w, r)
	})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// exclusions reads ?exclude=a,b; an explicitly empty value disables filtering
func (s *Server) exclusions(r *http.Request) (domain.CategorySet, error) {
	q := r.URL.Query()
	if !q.Has("exclude") {
		return s.exclude, nil
	}
	var names []string
	for _, v := range q["exclude"] {
		names = append(names, strings.Split(v, ",")...)
	}
	return domain.ParseCategorySet(names)
}

func (s *Server) listNodes(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("visible") == "true" {
		exclude, err := s.exclusions(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"nodes":    s.graph.VisibleNodes(exclude),
			"excluded": exclude.Names(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"nodes": s.graph.Nodes(),
	})
}

func (s *Server) listEdges(w http.ResponseWriter, r *http.Request) {
	exclude, err := s.exclusions(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"edges":    s.graph.Edges(exclude),
		"excluded": exclude.Names(),
	})
}

func (s *Server) listTags(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"tags": s.graph.TagDictionary(),
	})
}

func (s *Server) stats(w http.ResponseWriter, r *http.Request) {
	exclude, err := s.exclusions(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, s.graph.Stats(exclude))
}

func (s *Server) renderPNG(w http.ResponseWriter, r *http.Request) {
	exclude, err := s.exclusions(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var buf bytes.Buffer
	if err := render.PNG(&buf, s.graph, exclude, s.render); err != nil {
		s.log.Error("render failed", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
