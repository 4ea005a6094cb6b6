package handlers

import (
	"github.com/gin-gonic/gin"

	"forkful/response"
	"forkful/services"
)

type ReportHandler struct {
	Reports *services.ReportService
}

// reportArgs normalizes the shared report query parameters.
func reportArgs(c *gin.Context) (services.DateRange, string, int, error) {
	dr, err := services.ParseDateRange(c.Query("startDate"), c.Query("endDate"))
	if err != nil {
		return services.DateRange{}, "", 0, err
	}
	return dr, c.Query("groupBy"), queryInt(c, "tzOffset", 0), nil
}

func (h *ReportHandler) UserGrowth(c *gin.Context) {
	dr, groupBy, tz, err := reportArgs(c)
	if err != nil {
		abort(c, err)
		return
	}

	series, err := h.Reports.UserGrowth(c.Request.Context(), dr, groupBy, tz)
	if err != nil {
		abort(c, err)
		return
	}
	response.OK(c, gin.H{"series": series}, "")
}

func (h *ReportHandler) Demographics(c *gin.Context) {
	dr, _, _, err := reportArgs(c)
	if err != nil {
		abort(c, err)
		return
	}

	report, err := h.Reports.Demographics(c.Request.Context(), dr)
	if err != nil {
		abort(c, err)
		return
	}
	response.OK(c, report, "")
}

func (h *ReportHandler) FoodPopularity(c *gin.Context) {
	dr, _, _, err := reportArgs(c)
	if err != nil {
		abort(c, err)
		return
	}

	report, err := h.Reports.FoodPopularity(c.Request.Context(), dr)
	if err != nil {
		abort(c, err)
		return
	}
	response.OK(c, report, "")
}

func (h *ReportHandler) Engagement(c *gin.Context) {
	dr, groupBy, tz, err := reportArgs(c)
	if err != nil {
		abort(c, err)
		return
	}

	series, err := h.Reports.Engagement(c.Request.Context(), dr, groupBy, tz)
	if err != nil {
		abort(c, err)
		return
	}
	response.OK(c, gin.H{"series": series}, "")
}

func (h *ReportHandler) Nutrition(c *gin.Context) {
	userID, err := authedUserID(c)
	if err != nil {
		abort(c, err)
		return
	}
	dr, groupBy, tz, err := reportArgs(c)
	if err != nil {
		abort(c, err)
		return
	}

	report, err := h.Reports.Nutrition(c.Request.Context(), userID, dr, groupBy, tz)
	if err != nil {
		abort(c, err)
		return
	}
	response.OK(c, report, "")
}
