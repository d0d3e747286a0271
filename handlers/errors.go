package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"riskradar/apperrors"
	"riskradar/workflow"
)

// respondError maps workflow and model errors onto HTTP statuses.
func (h *Handler) respondError(c *gin.Context, w *workflow.Workflow, err error) {
	_ = c.Error(err)

	switch {
	case errors.Is(err, workflow.ErrBusy), errors.Is(err, workflow.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	case errors.Is(err, workflow.ErrBorrowerNotFound), errors.Is(err, workflow.ErrCandidateNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	case errors.Is(err, workflow.ErrEmptyQuery), errors.Is(err, workflow.ErrEmptyCredential):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	se, ok := apperrors.As(err)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	status := http.StatusBadGateway
	if se.Kind == apperrors.KindCredential {
		status = http.StatusUnauthorized
	}
	c.JSON(status, gin.H{
		"error":     se.Message,
		"kind":      se.Kind,
		"code":      se.Code,
		"details":   se.Details,
		"retryable": se.Retryable,
		"authState": w.Snapshot().Auth,
	})
}
