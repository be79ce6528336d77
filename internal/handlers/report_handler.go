package handlers

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/ClinicaVidaNova/clinic-scheduler/internal/cache"
	"github.com/ClinicaVidaNova/clinic-scheduler/internal/httperr"
	"github.com/ClinicaVidaNova/clinic-scheduler/internal/httpresp"
	"github.com/ClinicaVidaNova/clinic-scheduler/internal/middleware"
	"github.com/ClinicaVidaNova/clinic-scheduler/internal/timezone"
	"github.com/ClinicaVidaNova/clinic-scheduler/internal/usecase/report"
)

type ReportHandler struct {
	financial *report.FinancialReport
	cache     *cache.Cache
}

func NewReportHandler(financial *report.FinancialReport, c *cache.Cache) *ReportHandler {
	return &ReportHandler{financial: financial, cache: c}
}

func (h *ReportHandler) Financial(c *gin.Context) {
	acting := middleware.ActingUser(c)

	period := c.DefaultQuery("period", report.PeriodCurrentMonth)
	now := timezone.Now()

	// O cache só vale para coordenadores; a permissão é checada antes.
	if !acting.IsCoordinator() {
		httperr.Handle(c, httperr.Permission("apenas coordenadores acessam o relatório financeiro"))
		return
	}

	key := fmt.Sprintf("report:financial:%s:%s", period, now.Format("2006-01-02"))

	var cached report.FinancialSummary
	if h.cache.Get(c.Request.Context(), key, &cached) {
		httpresp.OK(c, cached)
		return
	}

	summary, err := h.financial.Execute(c.Request.Context(), acting, period, now)
	if err != nil {
		httperr.Handle(c, err)
		return
	}

	h.cache.Set(c.Request.Context(), key, summary)

	httpresp.OK(c, summary)
}
