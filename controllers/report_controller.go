package controllers

import (
	"net/http"

	"hostel-backend/services"
	"hostel-backend/utils"

	"github.com/gin-gonic/gin"
)

type ReportController struct {
	Reports *services.ReportService
}

func NewReportController(reports *services.ReportService) *ReportController {
	return &ReportController{Reports: reports}
}

// GET /api/reports/occupancy
func (rc *ReportController) GetOccupancy(c *gin.Context) {
	summary, err := rc.Reports.Occupancy()
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, summary)
}

// GET /api/reports/users/:id
func (rc *ReportController) GetUserSummary(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	summary, err := rc.Reports.UserSummary(id)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, summary)
}

// GET /api/reports/rooms/:id
func (rc *ReportController) GetRoomSummary(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	summary, err := rc.Reports.RoomSummary(id)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, summary)
}

// GET /api/reports/service-requests
func (rc *ReportController) GetServiceRequestStats(c *gin.Context) {
	stats, err := rc.Reports.ServiceRequestStats()
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, stats)
}
