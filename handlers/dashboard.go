package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"riskradar/models"
	"riskradar/report"
	"riskradar/workflow"
)

var dashboardTabs = map[string]bool{"news": true, "legal": true, "supply": true, "memo": true}

type DashboardData struct {
	Snapshot workflow.Snapshot
	Models   []models.ModelInfo
	Tab      string
	Detail   *report.Detail
	Memo     *report.Memo
}

// Dashboard renders the session's view: portfolio, candidate list and the
// selected borrower's tabs.
func (h *Handler) Dashboard(c *gin.Context) {
	tab := c.DefaultQuery("tab", "news")
	if !dashboardTabs[tab] {
		tab = "news"
	}

	snap := sessionWorkflow(c).Snapshot()
	data := DashboardData{
		Snapshot: snap,
		Models:   models.SupportedModels,
		Tab:      tab,
	}
	if snap.Selected != nil && snap.SelectedEntry != nil {
		detail := report.NewDetail(*snap.Selected, *snap.SelectedEntry)
		data.Detail = &detail
		if tab == "memo" {
			memo := report.NewMemo(*snap.Selected, *snap.SelectedEntry, h.now())
			data.Memo = &memo
		}
	}

	c.HTML(http.StatusOK, "dashboard.html", data)
}
