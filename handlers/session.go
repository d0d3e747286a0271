package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"riskradar/models"
	"riskradar/workflow"
)

const workflowKey = "riskradar.workflow"

// withSession attaches the caller's workflow, issuing a cookie for new
// sessions.
func (h *Handler) withSession(c *gin.Context) {
	cookie, _ := c.Cookie(h.session.CookieName)
	id, w := h.store.GetOrCreate(cookie)
	if id != cookie {
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(h.session.CookieName, id, h.session.MaxAge, "/", "", false, true)
	}
	c.Set(workflowKey, w)
	c.Next()
}

func sessionWorkflow(c *gin.Context) *workflow.Workflow {
	return c.MustGet(workflowKey).(*workflow.Workflow)
}

func (h *Handler) GetSession(c *gin.Context) {
	c.JSON(http.StatusOK, sessionWorkflow(c).Snapshot())
}

type credentialRequest struct {
	APIKey string `json:"apiKey" binding:"required"`
}

// SetCredential replaces the API key of this session only. Keys entered in
// the dashboard are never written to disk or shared with other sessions.
func (h *Handler) SetCredential(c *gin.Context) {
	var req credentialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "apiKey is required"})
		return
	}
	w := sessionWorkflow(c)
	if err := w.SetCredential(req.APIKey); err != nil {
		h.respondError(c, w, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"authState": w.Snapshot().Auth})
}

type modelRequest struct {
	Model string `json:"model" binding:"required"`
}

func (h *Handler) SetModel(c *gin.Context) {
	var req modelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "model is required"})
		return
	}
	model, err := models.ParseModel(req.Model)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	sessionWorkflow(c).SetModel(model)
	if h.settings != nil {
		if err := h.settings.SaveModel(model); err != nil {
			h.logger.WithError(err).Warn("model choice not persisted", nil)
		}
	}
	c.JSON(http.StatusOK, gin.H{"model": model})
}

func (h *Handler) ListModels(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"models":  models.SupportedModels,
		"default": models.DefaultModel,
	})
}
