package http

import (
	"bytes"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"strings"

	"budgetdash/internal/budget"
	"budgetdash/internal/log"
	"budgetdash/internal/report"
)

var templateFuncs = template.FuncMap{
	"queryEscape": url.QueryEscape,
	// pieGradient renders the pie as a CSS conic gradient.
	"pieGradient": func(p report.Pie) template.CSS {
		if len(p.Slices) == 0 {
			return "background: #e5e7eb"
		}
		stops := make([]string, 0, len(p.Slices))
		for _, sl := range p.Slices {
			stops = append(stops, fmt.Sprintf("%s %.1f%% %.1f%%", sl.Color, sl.Offset, sl.Offset+sl.Share))
		}
		return template.CSS("background: conic-gradient(" + strings.Join(stops, ", ") + ")")
	},
}

type indexData struct {
	Departments []string
	Selected    string
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if s.templates == nil {
		log.FromContext(ctx).ErrorContext(ctx, "Templates not loaded", log.FieldPath, r.URL.Path)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	depts, err := s.svc.Departments(ctx)
	if err != nil {
		// The selector still renders; the user can retry.
		log.FromContext(ctx).ErrorContext(ctx, "Department list failed", log.FieldError, err)
	}
	data := indexData{Departments: depts, Selected: strings.TrimSpace(r.URL.Query().Get("department"))}
	s.render(w, r, "index.html", data)
}

// handleBudgetPartial renders cards, table and charts for one department.
// Failures answer with an error status and a notification trigger; htmx does
// not swap error responses, so the previous result stays on screen.
func (s *Server) handleBudgetPartial(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()
	req := budget.Request{Department: q.Get("department"), Ward: q.Get("ward")}

	res, err := s.svc.FetchBudget(ctx, req)
	if err != nil {
		NewHTMXResponse().
			Status(budget.StatusCode(err)).
			TriggerErrorNotification(budget.Message(err)).
			Write(w)
		return
	}

	view := report.NewView(strings.TrimSpace(req.Department), res.Items, res.Summary, s.fmt)
	if s.templates == nil {
		InternalServerError("templates not loaded").Write(w)
		return
	}
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, "budget.html", view); err != nil {
		log.FromContext(ctx).WithComponent(log.ComponentTemplate).ErrorContext(ctx, "Template execution error",
			log.FieldError, err, "template", "budget.html")
		InternalServerError("render failed").Write(w)
		return
	}

	b := NewHTMXResponse().Body(buf.Bytes()).Header("Content-Type", "text/html; charset=utf-8")
	if len(res.Items) == 0 {
		b.TriggerNotification(NotificationInfo, "No valid budget data for "+view.Department, 4000)
	} else {
		b.TriggerBudgetLoaded(view.Department, len(res.Items))
	}
	b.Write(w)
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, data any) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		log.FromContext(r.Context()).WithComponent(log.ComponentTemplate).ErrorContext(r.Context(), "Template execution error",
			log.FieldError, err, "template", name)
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

func writeRateLimitedHTMX(w http.ResponseWriter, r *http.Request) {
	NewHTMXResponse().
		Status(http.StatusTooManyRequests).
		TriggerErrorNotification("Too many requests, please wait a moment").
		Write(w)
}
