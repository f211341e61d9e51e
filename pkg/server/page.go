package server

import (
	"bytes"
	_ "embed"
	"html/template"
	"net/http"

	"go.uber.org/zap"

	"github.com/helmcode/seo-ai/pkg/dashboard"
	"github.com/helmcode/seo-ai/pkg/locale"
	"github.com/helmcode/seo-ai/pkg/model"
	"github.com/helmcode/seo-ai/pkg/session"
)

//go:embed dashboard.html.tmpl
var pageTemplate string

var pageTmpl = template.Must(template.New("dashboard").Parse(pageTemplate))

type moduleItem struct {
	Module      model.Module
	Slug        string
	Title       string
	Description string
	Done        bool
	Pending     bool
	Active      bool
}

type pageData struct {
	Lang        string
	M           *locale.Messages
	View        dashboard.View
	Analyzing   bool
	Progress    int
	Completed   int
	Total       int
	Modules     []moduleItem
	ActiveTitle string
	ActiveSlug  string
	Active      *model.AnalysisResult
	Step        string
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	ctrl, _ := s.controller(w, r)
	view := ctrl.Snapshot()
	msgs := s.opts.Locale.Messages()

	data := pageData{
		Lang:        string(s.opts.Locale),
		M:           msgs,
		View:        view,
		Analyzing:   len(view.Pending) > 0,
		Progress:    view.Progress(),
		Completed:   view.Completed(),
		Total:       len(model.Modules()),
		ActiveTitle: msgs.ModuleTitle(view.ActiveModule),
		ActiveSlug:  view.ActiveModule.Slug(),
		Active:      view.Active(),
		Step:        view.Steps[view.ActiveModule],
	}
	pending := map[model.Module]bool{}
	for _, m := range view.Pending {
		pending[m] = true
	}
	for _, m := range model.Modules() {
		_, done := view.Results[m]
		data.Modules = append(data.Modules, moduleItem{
			Module:      m,
			Slug:        m.Slug(),
			Title:       msgs.ModuleTitle(m),
			Description: msgs.ModuleDescriptions[m],
			Done:        done,
			Pending:     pending[m],
			Active:      m == view.ActiveModule && view.State != session.StateNoDomain,
		})
	}

	var buf bytes.Buffer
	if err := pageTmpl.Execute(&buf, data); err != nil {
		s.logger.Error("Failed to render dashboard", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}
