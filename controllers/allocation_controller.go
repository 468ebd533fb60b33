package controllers

import (
	"net/http"
	"strconv"

	"hostel-backend/models"
	"hostel-backend/services"
	"hostel-backend/utils"

	"github.com/gin-gonic/gin"
)

type AllocationController struct {
	Allocations *services.AllocationService
}

func NewAllocationController(allocations *services.AllocationService) *AllocationController {
	return &AllocationController{Allocations: allocations}
}

type requestAllocationRequest struct {
	UserID    uint `json:"userId" binding:"required"`
	RoomID    uint `json:"roomId" binding:"required"`
	BedNumber *int `json:"bedNumber"`
}

// POST /api/allocations
func (ac *AllocationController) RequestAllocation(c *gin.Context) {
	var req requestAllocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request payload: "+err.Error())
		return
	}
	alloc, err := ac.Allocations.RequestAllocation(req.UserID, req.RoomID, req.BedNumber)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, alloc)
}

type confirmAllocationRequest struct {
	DepositPaid *float64 `json:"depositPaid"`
}

// POST /api/allocations/:id/confirm
func (ac *AllocationController) ConfirmAllocation(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req confirmAllocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request payload: "+err.Error())
		return
	}
	alloc, err := ac.Allocations.ConfirmAllocation(id, req.DepositPaid)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, alloc)
}

// POST /api/allocations/:id/checkin
func (ac *AllocationController) CheckIn(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	alloc, err := ac.Allocations.CheckIn(id)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, alloc)
}

// POST /api/allocations/:id/checkout
func (ac *AllocationController) CheckOut(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	alloc, err := ac.Allocations.CheckOut(id)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, alloc)
}

// POST /api/allocations/:id/cancel
func (ac *AllocationController) CancelAllocation(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	alloc, err := ac.Allocations.Cancel(id)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, alloc)
}

type amountRequest struct {
	Amount float64 `json:"amount" binding:"required,gt=0"`
}

// POST /api/allocations/:id/refund
func (ac *AllocationController) RecordRefund(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req amountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request payload: "+err.Error())
		return
	}
	alloc, err := ac.Allocations.RecordRefund(id, req.Amount)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, alloc)
}

// POST /api/allocations/:id/rent
func (ac *AllocationController) RecordRentPayment(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req amountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request payload: "+err.Error())
		return
	}
	alloc, err := ac.Allocations.RecordRentPayment(id, req.Amount)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, alloc)
}

// GET /api/allocations
func (ac *AllocationController) ListAllocations(c *gin.Context) {
	filter := services.AllocationFilter{
		Status: models.AllocationStatus(c.Query("status")),
	}
	if raw := c.Query("userId"); raw != "" {
		if v, err := strconv.ParseUint(raw, 10, 32); err == nil {
			filter.UserID = uint(v)
		}
	}
	if raw := c.Query("roomId"); raw != "" {
		if v, err := strconv.ParseUint(raw, 10, 32); err == nil {
			filter.RoomID = uint(v)
		}
	}
	list, err := ac.Allocations.List(filter)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, list)
}

// GET /api/allocations/:id
func (ac *AllocationController) GetAllocation(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	alloc, err := ac.Allocations.GetByID(id)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, alloc)
}
