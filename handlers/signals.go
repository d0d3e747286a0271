package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"riskradar/models"
	"riskradar/report"
)

// ListBorrowers returns the portfolio, most recent first.
func (h *Handler) ListBorrowers(c *gin.Context) {
	borrowers := sessionWorkflow(c).Borrowers()
	if borrowers == nil {
		borrowers = []models.Borrower{}
	}
	c.JSON(http.StatusOK, gin.H{"borrowers": borrowers})
}

// GetBorrower returns the borrower with its signal feed, covenant triggers,
// ripple view and category composition.
func (h *Handler) GetBorrower(c *gin.Context) {
	w := sessionWorkflow(c)
	b, entry, err := w.Borrower(c.Param("id"))
	if err != nil {
		h.respondError(c, w, err)
		return
	}
	c.JSON(http.StatusOK, report.NewDetail(b, entry))
}

func (h *Handler) SelectBorrower(c *gin.Context) {
	w := sessionWorkflow(c)
	id := c.Param("id")
	if err := w.Select(id); err != nil {
		h.respondError(c, w, err)
		return
	}
	b, entry, err := w.Borrower(id)
	if err != nil {
		h.respondError(c, w, err)
		return
	}
	c.JSON(http.StatusOK, report.NewDetail(b, entry))
}
