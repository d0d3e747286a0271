// Package handlers serves the RiskRadar dashboard and its JSON API.
package handlers

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"riskradar/config"
	"riskradar/logger"
	"riskradar/models"
	"riskradar/workflow"
)

const defaultCookieName = "riskradar_session"

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplates = template.Must(template.New("").Funcs(template.FuncMap{
	"lower": func(v any) string { return strings.ToLower(fmt.Sprint(v)) },
	"upper": func(v any) string { return strings.ToUpper(fmt.Sprint(v)) },
	"pct":   func(f float64) string { return fmt.Sprintf("%.0f%%", f*100) },
}).ParseFS(templateFS, "templates/*.html"))

// SettingsStore persists the model choice made from the dashboard.
type SettingsStore interface {
	SaveModel(model models.Model) error
}

type Handler struct {
	store    *workflow.Store
	settings SettingsStore
	session  config.SessionConfig
	logger   logger.Logger
	now      func() time.Time
}

// New creates the HTTP handlers. settings may be nil, in which case
// dashboard choices only last for the session.
func New(store *workflow.Store, settings SettingsStore, session config.SessionConfig, log logger.Logger) *Handler {
	if session.CookieName == "" {
		session.CookieName = defaultCookieName
	}
	return &Handler{
		store:    store,
		settings: settings,
		session:  session,
		logger:   log.With(map[string]interface{}{"component": "http"}),
		now:      time.Now,
	}
}

// Router builds the gin engine with every route registered.
func (h *Handler) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), logger.GinMiddleware(h.logger))
	r.SetHTMLTemplate(pageTemplates)

	r.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/dashboard")
	})
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "sessions": h.store.Len()})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/api/models", h.ListModels)

	s := r.Group("", h.withSession)
	s.GET("/dashboard", h.Dashboard)
	s.GET("/borrowers/:id/memo", h.MemoPage)

	api := s.Group("/api")
	{
		api.GET("/session", h.GetSession)
		api.PUT("/session/credential", h.SetCredential)
		api.PUT("/session/model", h.SetModel)

		api.POST("/resolve", h.Resolve)
		api.DELETE("/candidates", h.DismissCandidates)
		api.POST("/candidates/:index/commit", h.CommitCandidate)

		api.GET("/borrowers", h.ListBorrowers)
		api.GET("/borrowers/:id", h.GetBorrower)
		api.POST("/borrowers/:id/select", h.SelectBorrower)
		api.GET("/borrowers/:id/memo", h.MemoText)
	}
	return r
}
