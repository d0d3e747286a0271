package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"riskradar/report"
)

// MemoText serves the memo as plain text for clipboard export.
func (h *Handler) MemoText(c *gin.Context) {
	w := sessionWorkflow(c)
	b, entry, err := w.Borrower(c.Param("id"))
	if err != nil {
		h.respondError(c, w, err)
		return
	}
	c.String(http.StatusOK, report.RenderMemo(b, entry, h.now()))
}

// MemoPage renders the printable memo.
func (h *Handler) MemoPage(c *gin.Context) {
	b, entry, err := sessionWorkflow(c).Borrower(c.Param("id"))
	if err != nil {
		c.HTML(http.StatusNotFound, "error.html", gin.H{"error": "Borrower not found"})
		return
	}
	c.HTML(http.StatusOK, "memo.html", report.NewMemo(b, entry, h.now()))
}
