package web

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/baleybots/go-bal/store"
	"github.com/baleybots/go-bal/visualization"
)

func (s *Server) registerAPI(mux *http.ServeMux) {
	// Compiler
	mux.HandleFunc("POST /api/parse", s.handleParse)
	mux.HandleFunc("POST /api/visual", s.handleVisual)

	// Stored programs
	mux.HandleFunc("GET /api/programs", s.listPrograms)
	mux.HandleFunc("POST /api/programs", s.savePrograms)
	mux.HandleFunc("GET /api/programs/{id}", s.getProgram)
	mux.HandleFunc("DELETE /api/programs/{id}", s.deleteProgram)
	mux.HandleFunc("GET /api/programs/{id}/graph", s.getProgramGraph)
	mux.HandleFunc("GET /api/programs/{id}/svg", s.getProgramSVG)

	// System
	mux.HandleFunc("GET /api/status", s.getStatus)
}

type sourceRequest struct {
	Source string `json:"source"`
}

func decodeSource(w http.ResponseWriter, r *http.Request) (string, bool) {
	var body sourceRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return "", false
	}
	return body.Source, true
}

func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	source, ok := decodeSource(w, r)
	if !ok {
		return
	}

	start := time.Now()
	res := s.results.GetOrParse(source)
	s.record("parse", source, len(res.Entities), len(res.Errors), start)

	jsonResponse(w, res)
}

func (s *Server) handleVisual(w http.ResponseWriter, r *http.Request) {
	source, ok := decodeSource(w, r)
	if !ok {
		return
	}

	start := time.Now()
	comp := s.graphs.GetOrCompile(source)
	s.record("compile", source, len(comp.Graph.Nodes), len(comp.Errors), start)

	jsonResponse(w, comp)
}

func (s *Server) listPrograms(w http.ResponseWriter, r *http.Request) {
	programs, err := s.store.ListPrograms()
	if err != nil {
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if programs == nil {
		programs = []store.Program{}
	}
	jsonResponse(w, programs)
}

func (s *Server) savePrograms(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name   string `json:"name"`
		Source string `json:"source"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if body.Name == "" {
		jsonError(w, "name is required", http.StatusBadRequest)
		return
	}

	// Parse at save time so the listing can show entity and error counts.
	res := s.results.GetOrParse(body.Source)

	p := &store.Program{
		Name:     body.Name,
		Source:   body.Source,
		Entities: len(res.Entities),
		Errors:   len(res.Errors),
	}
	if existing, err := s.store.GetProgramByName(body.Name); err == nil && existing != nil {
		p.ID = existing.ID
	}
	if err := s.store.SaveProgram(p); err != nil {
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	s.hub.Broadcast(Event{Type: "program_saved", Payload: p})
	jsonResponse(w, p)
}

func (s *Server) getProgram(w http.ResponseWriter, r *http.Request) {
	p, err := s.store.GetProgram(r.PathValue("id"))
	if err != nil {
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if p == nil {
		jsonError(w, "program not found", http.StatusNotFound)
		return
	}
	jsonResponse(w, p)
}

func (s *Server) deleteProgram(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.store.DeleteProgram(id); err != nil {
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.hub.Broadcast(Event{Type: "program_deleted", Payload: map[string]string{"id": id}})
	jsonResponse(w, map[string]string{"status": "ok"})
}

func (s *Server) getProgramGraph(w http.ResponseWriter, r *http.Request) {
	p, err := s.store.GetProgram(r.PathValue("id"))
	if err != nil {
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if p == nil {
		jsonError(w, "program not found", http.StatusNotFound)
		return
	}

	start := time.Now()
	comp := s.graphs.GetOrCompile(p.Source)
	s.record("compile", p.Source, len(comp.Graph.Nodes), len(comp.Errors), start)

	jsonResponse(w, comp)
}

func (s *Server) getProgramSVG(w http.ResponseWriter, r *http.Request) {
	p, err := s.store.GetProgram(r.PathValue("id"))
	if err != nil {
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if p == nil {
		jsonError(w, "program not found", http.StatusNotFound)
		return
	}

	comp := s.graphs.GetOrCompile(p.Source)
	if len(comp.Errors) > 0 {
		jsonError(w, "program has compile errors", http.StatusUnprocessableEntity)
		return
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	w.Write([]byte(visualization.RenderSVG(&comp.Graph)))
}

func (s *Server) getStatus(w http.ResponseWriter, r *http.Request) {
	stats := s.results.Stats()
	jsonResponse(w, map[string]any{
		"version":        s.version,
		"uptime_seconds": int(time.Since(s.startedAt).Seconds()),
		"cache": map[string]any{
			"size":     stats.Size,
			"hits":     stats.Hits,
			"misses":   stats.Misses,
			"hit_rate": stats.HitRate,
		},
	})
}

func jsonResponse(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
