package web

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/helmcode/cricshot/pkg/field"
	"github.com/helmcode/cricshot/pkg/model"
	"github.com/helmcode/cricshot/pkg/session"
)

var templateFuncs = template.FuncMap{
	"lower": func(v interface{}) string { return strings.ToLower(fmt.Sprint(v)) },
}

type pageData struct {
	State   session.State
	Bowlers []model.BowlerType
	Lines   []model.Line
	Lengths []model.Length
	SVG     template.HTML
	Notice  string
}

type optionsResponse struct {
	BowlerTypes []model.BowlerType `json:"bowlerTypes"`
	Lines       []model.Line       `json:"lines"`
	Lengths     []model.Length     `json:"lengths"`
	RiskLevels  []model.RiskLevel  `json:"riskLevels"`
}

type selectionRequest struct {
	Field session.Field `json:"field"`
	Value string        `json:"value"`
}

// HealthCheck returns service health
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":   "healthy",
		"service":  "cricshot",
		"sessions": s.sessions.count(),
	})
}

// Index renders the whole page for the caller's session.
func (s *Server) Index(w http.ResponseWriter, r *http.Request) {
	v := s.sessions.get(w, r)
	state := v.controller.Snapshot()

	data := pageData{
		State:   state,
		Bowlers: model.AllBowlerTypes(),
		Lines:   model.AllLines(),
		Lengths: model.AllLengths(),
		SVG:     inlineSVG(state),
		Notice:  v.notices.Take(),
	}

	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, "index.html", data); err != nil {
		s.logger.Error("render page", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

// FormSelection applies the select controls and returns to the page.
func (s *Server) FormSelection(w http.ResponseWriter, r *http.Request) {
	v := s.sessions.get(w, r)
	if err := applyForm(r, v.controller); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// FormAnalyze applies the submitted selection, runs one analysis and
// returns to the page. Failures surface there as a notice.
func (s *Server) FormAnalyze(w http.ResponseWriter, r *http.Request) {
	v := s.sessions.get(w, r)
	if err := applyForm(r, v.controller); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	// The outcome is stored in the session and shown on the next page load.
	_ = v.controller.TriggerAnalysis(detach(r.Context()))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// FieldSVG serves the diagram for the caller's current state.
func (s *Server) FieldSVG(w http.ResponseWriter, r *http.Request) {
	v := s.sessions.get(w, r)
	state := v.controller.Snapshot()
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "no-store")
	field.Render(w, state.Advice, state.Loading)
}

// ListOptions returns every selectable value.
func (s *Server) ListOptions(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, optionsResponse{
		BowlerTypes: model.AllBowlerTypes(),
		Lines:       model.AllLines(),
		Lengths:     model.AllLengths(),
		RiskLevels:  model.AllRiskLevels(),
	})
}

func (s *Server) GetState(w http.ResponseWriter, r *http.Request) {
	v := s.sessions.get(w, r)
	respondJSON(w, http.StatusOK, v.controller.Snapshot())
}

func (s *Server) PutSelection(w http.ResponseWriter, r *http.Request) {
	v := s.sessions.get(w, r)

	var req selectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid request: %v", err))
		return
	}
	if err := v.controller.UpdateSelection(req.Field, req.Value); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, v.controller.Snapshot())
}

// PostAnalyze runs one analysis for the current selection.
func (s *Server) PostAnalyze(w http.ResponseWriter, r *http.Request) {
	v := s.sessions.get(w, r)

	err := v.controller.TriggerAnalysis(detach(r.Context()))
	switch {
	case errors.Is(err, session.ErrAnalysisInFlight):
		respondError(w, http.StatusConflict, err.Error())
	case err != nil:
		// The caller gets the notice here; do not repeat it on the next page.
		msg := v.notices.Take()
		if msg == "" {
			msg = session.FailureMessage
		}
		respondError(w, http.StatusBadGateway, msg)
	default:
		respondJSON(w, http.StatusOK, v.controller.Snapshot())
	}
}

func applyForm(r *http.Request, c *session.Controller) error {
	if err := r.ParseForm(); err != nil {
		return err
	}
	for _, f := range []session.Field{session.FieldBowler, session.FieldLine, session.FieldLength} {
		value := r.PostForm.Get(string(f))
		if value == "" {
			continue
		}
		if err := c.UpdateSelection(f, value); err != nil {
			return err
		}
	}
	return nil
}

// detach keeps request values but drops cancellation: an issued analysis
// runs to completion even if the browser goes away.
func detach(ctx context.Context) context.Context {
	return context.WithoutCancel(ctx)
}

func inlineSVG(state session.State) template.HTML {
	doc := field.RenderString(state.Advice, state.Loading)
	if i := strings.Index(doc, "<svg"); i > 0 {
		doc = doc[i:]
	}
	return template.HTML(doc)
}

func (s *Server) renderPanel(state session.State) (string, error) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, "panel", state); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// respondJSON writes a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError writes an error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
