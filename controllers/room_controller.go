package controllers

import (
	"net/http"
	"strconv"

	"hostel-backend/models"
	"hostel-backend/services"
	"hostel-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
)

type RoomController struct {
	Rooms *services.RoomService
}

func NewRoomController(rooms *services.RoomService) *RoomController {
	return &RoomController{Rooms: rooms}
}

func parseID(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		utils.JSONError(c, http.StatusBadRequest, "invalid id "+raw)
		return 0, false
	}
	return uint(id), true
}

type createRoomRequest struct {
	RoomNumber  string         `json:"roomNumber" binding:"required"`
	Block       string         `json:"block" binding:"required"`
	Floor       int            `json:"floor" binding:"min=0,max=50"`
	Type        string         `json:"type"`
	Capacity    int            `json:"capacity" binding:"required,min=1,max=4"`
	MonthlyRent float64        `json:"monthlyRent" binding:"min=0"`
	Amenities   datatypes.JSON `json:"amenities"`
	Description string         `json:"description"`
}

// POST /api/rooms
func (rc *RoomController) CreateRoom(c *gin.Context) {
	var req createRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request payload: "+err.Error())
		return
	}

	room, err := rc.Rooms.Create(models.Room{
		RoomNumber:  req.RoomNumber,
		Block:       req.Block,
		Floor:       req.Floor,
		Type:        req.Type,
		Capacity:    req.Capacity,
		MonthlyRent: req.MonthlyRent,
		Amenities:   req.Amenities,
		Description: req.Description,
	})
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, room)
}

func roomFilterFromQuery(c *gin.Context) services.RoomFilter {
	filter := services.RoomFilter{
		Block: c.Query("block"),
		Type:  c.Query("type"),
	}
	if raw := c.Query("floor"); raw != "" {
		if floor, err := strconv.Atoi(raw); err == nil {
			filter.Floor = &floor
		}
	}
	return filter
}

// GET /api/rooms
func (rc *RoomController) ListRooms(c *gin.Context) {
	rooms, err := rc.Rooms.List(roomFilterFromQuery(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, rooms)
}

// GET /api/rooms/available
func (rc *RoomController) ListAvailableRooms(c *gin.Context) {
	rooms, err := rc.Rooms.GetAvailableRooms(roomFilterFromQuery(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, rooms)
}

// GET /api/rooms/:id
func (rc *RoomController) GetRoom(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	room, err := rc.Rooms.GetByID(id)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, room)
}

type maintenanceRequest struct {
	Status models.MaintenanceStatus `json:"status" binding:"required"`
}

// PATCH /api/rooms/:id/maintenance — the explicit admin override of a
// room's maintenance status.
func (rc *RoomController) SetMaintenanceStatus(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req maintenanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request payload: "+err.Error())
		return
	}
	room, err := rc.Rooms.SetMaintenanceStatus(id, req.Status)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, room)
}

// POST /api/rooms/:id/retire
func (rc *RoomController) RetireRoom(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	room, err := rc.Rooms.Retire(id)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, room)
}
