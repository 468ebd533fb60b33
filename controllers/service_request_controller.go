package controllers

import (
	"net/http"
	"strconv"

	"hostel-backend/models"
	"hostel-backend/services"
	"hostel-backend/utils"

	"github.com/gin-gonic/gin"
)

type ServiceRequestController struct {
	Requests *services.ServiceRequestService
}

func NewServiceRequestController(requests *services.ServiceRequestService) *ServiceRequestController {
	return &ServiceRequestController{Requests: requests}
}

type createServiceRequestRequest struct {
	RoomID      uint                          `json:"roomId" binding:"required"`
	ReportedBy  uint                          `json:"reportedBy" binding:"required"`
	Type        models.ServiceRequestType     `json:"type" binding:"required"`
	Priority    models.ServiceRequestPriority `json:"priority"`
	Description string                        `json:"description" binding:"required"`
}

// POST /api/service-requests
func (sc *ServiceRequestController) CreateServiceRequest(c *gin.Context) {
	var req createServiceRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request payload: "+err.Error())
		return
	}
	created, err := sc.Requests.Create(services.CreateServiceRequestInput{
		RoomID:      req.RoomID,
		ReportedBy:  req.ReportedBy,
		Type:        req.Type,
		Priority:    req.Priority,
		Description: req.Description,
	})
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, created)
}

// GET /api/service-requests
func (sc *ServiceRequestController) ListServiceRequests(c *gin.Context) {
	filter := services.ServiceRequestFilter{
		Status:   models.ServiceRequestStatus(c.Query("status")),
		Priority: models.ServiceRequestPriority(c.Query("priority")),
		Type:     models.ServiceRequestType(c.Query("type")),
	}
	if raw := c.Query("roomId"); raw != "" {
		if v, err := strconv.ParseUint(raw, 10, 32); err == nil {
			filter.RoomID = uint(v)
		}
	}
	list, err := sc.Requests.List(filter)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, list)
}

// GET /api/service-requests/:id
func (sc *ServiceRequestController) GetServiceRequest(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	req, err := sc.Requests.GetByID(id)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, req)
}

// POST /api/service-requests/:id/acknowledge
func (sc *ServiceRequestController) AcknowledgeServiceRequest(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	req, err := sc.Requests.Acknowledge(id)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, req)
}

type assignRequest struct {
	StaffID uint `json:"staffId" binding:"required"`
}

// POST /api/service-requests/:id/assign
func (sc *ServiceRequestController) AssignServiceRequest(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req assignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request payload: "+err.Error())
		return
	}
	updated, err := sc.Requests.Assign(id, req.StaffID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, updated)
}

// POST /api/service-requests/:id/start
func (sc *ServiceRequestController) StartServiceRequest(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	req, err := sc.Requests.Start(id)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, req)
}

type resolveRequest struct {
	FeedbackRating  *int   `json:"feedbackRating"`
	FeedbackComment string `json:"feedbackComment"`
	RestoreRoom     bool   `json:"restoreRoom"`
}

// POST /api/service-requests/:id/resolve
func (sc *ServiceRequestController) ResolveServiceRequest(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req resolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request payload: "+err.Error())
		return
	}
	resolved, err := sc.Requests.Resolve(id, services.ResolveInput{
		FeedbackRating:  req.FeedbackRating,
		FeedbackComment: req.FeedbackComment,
		RestoreRoom:     req.RestoreRoom,
	})
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, resolved)
}

// POST /api/service-requests/:id/cancel
func (sc *ServiceRequestController) CancelServiceRequest(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	req, err := sc.Requests.Cancel(id)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, req)
}

type feedbackRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment"`
}

// POST /api/service-requests/:id/feedback
func (sc *ServiceRequestController) AttachFeedback(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req feedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request payload: "+err.Error())
		return
	}
	updated, err := sc.Requests.AttachFeedback(id, req.Rating, req.Comment)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, updated)
}
