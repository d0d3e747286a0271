package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"riskradar/models"
)

type resolveRequest struct {
	Query string `json:"query" binding:"required"`
}

// Resolve runs entity resolution for the session. The model call is not
// tied to the client connection; the configured timeout bounds it.
func (h *Handler) Resolve(c *gin.Context) {
	var req resolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query is required"})
		return
	}

	w := sessionWorkflow(c)
	candidates, err := w.Submit(context.WithoutCancel(c.Request.Context()), req.Query)
	if err != nil {
		h.respondError(c, w, err)
		return
	}
	if candidates == nil {
		candidates = []models.CandidateEntity{}
	}
	c.JSON(http.StatusOK, gin.H{"candidates": candidates})
}

// DismissCandidates closes the candidate list without analysis.
func (h *Handler) DismissCandidates(c *gin.Context) {
	w := sessionWorkflow(c)
	if err := w.Dismiss(); err != nil {
		h.respondError(c, w, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// CommitCandidate analyzes the chosen candidate and adds it to the portfolio.
func (h *Handler) CommitCandidate(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid candidate index"})
		return
	}

	w := sessionWorkflow(c)
	borrower, err := w.Commit(context.WithoutCancel(c.Request.Context()), index)
	if err != nil {
		h.respondError(c, w, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"borrower": borrower})
}
