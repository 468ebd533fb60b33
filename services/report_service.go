package services

import (
	"errors"
	"time"

	"hostel-backend/apperrors"
	"hostel-backend/models"

	"gorm.io/gorm"
)

// ReportService is the read side: rollups over rooms, allocations and
// service requests. It never mutates; snapshots are taken per query and
// are not required to linearize with concurrent writes.
type ReportService struct {
	DB *gorm.DB

	Now func() time.Time
}

func NewReportService(db *gorm.DB) *ReportService {
	return &ReportService{DB: db, Now: time.Now}
}

// OccupancySummary is the hostel-wide occupancy picture.
type OccupancySummary struct {
	TotalRooms     int64   `json:"totalRooms"`
	ActiveRooms    int64   `json:"activeRooms"`
	AvailableRooms int64   `json:"availableRooms"`
	TotalCapacity  int64   `json:"totalCapacity"`
	TotalOccupied  int64   `json:"totalOccupied"`
	OccupancyRate  float64 `json:"occupancyRate"`
}

func (s *ReportService) Occupancy() (*OccupancySummary, error) {
	var out OccupancySummary
	if err := s.DB.Model(&models.Room{}).Count(&out.TotalRooms).Error; err != nil {
		return nil, err
	}
	if err := s.DB.Model(&models.Room{}).Where("is_active = ?", true).Count(&out.ActiveRooms).Error; err != nil {
		return nil, err
	}
	if err := s.DB.Model(&models.Room{}).
		Where("is_active = ? AND maintenance_status = ? AND current_occupancy < capacity",
			true, models.MaintenanceGood).
		Count(&out.AvailableRooms).Error; err != nil {
		return nil, err
	}

	var totals struct {
		Capacity int64
		Occupied int64
	}
	if err := s.DB.Model(&models.Room{}).
		Select("COALESCE(SUM(capacity),0) AS capacity, COALESCE(SUM(current_occupancy),0) AS occupied").
		Where("is_active = ?", true).
		Scan(&totals).Error; err != nil {
		return nil, err
	}
	out.TotalCapacity = totals.Capacity
	out.TotalOccupied = totals.Occupied
	if out.TotalCapacity > 0 {
		out.OccupancyRate = float64(out.TotalOccupied) / float64(out.TotalCapacity)
	}
	return &out, nil
}

// UserSummary is the per-user allocation and financial rollup.
type UserSummary struct {
	UserID           uint               `json:"userId"`
	TotalAllocations int64              `json:"totalAllocations"`
	ByStatus         map[string]int64   `json:"byStatus"`
	TotalDepositPaid float64            `json:"totalDepositPaid"`
	TotalRefunded    float64            `json:"totalRefunded"`
	TotalRentPaid    float64            `json:"totalRentPaid"`
	Active           *models.Allocation `json:"active,omitempty"`
}

func (s *ReportService) UserSummary(userID uint) (*UserSummary, error) {
	out := UserSummary{UserID: userID, ByStatus: map[string]int64{}}

	var rows []struct {
		Status string
		N      int64
	}
	if err := s.DB.Model(&models.Allocation{}).
		Select("status, COUNT(*) AS n").
		Where("user_id = ?", userID).
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, r := range rows {
		out.ByStatus[r.Status] = r.N
		out.TotalAllocations += r.N
	}

	var money struct {
		Deposit  float64
		Refunded float64
		Rent     float64
	}
	if err := s.DB.Model(&models.Allocation{}).
		Select("COALESCE(SUM(deposit_paid),0) AS deposit, COALESCE(SUM(deposit_refunded),0) AS refunded, COALESCE(SUM(rent_paid),0) AS rent").
		Where("user_id = ?", userID).
		Scan(&money).Error; err != nil {
		return nil, err
	}
	out.TotalDepositPaid = money.Deposit
	out.TotalRefunded = money.Refunded
	out.TotalRentPaid = money.Rent

	var active models.Allocation
	err := s.DB.Preload("Room").
		Where("user_id = ? AND status IN ?", userID, activeStatuses()).
		First(&active).Error
	if err == nil {
		out.Active = &active
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	return &out, nil
}

// RoomSummary is the per-room occupancy and service-request rollup.
type RoomSummary struct {
	Room            models.Room      `json:"room"`
	IsAvailable     bool             `json:"isAvailable"`
	AvailableSpots  int              `json:"availableSpots"`
	ActiveOccupants int64            `json:"activeOccupants"`
	OpenRequests    int64            `json:"openRequests"`
	RequestsByType  map[string]int64 `json:"requestsByType"`
}

func (s *ReportService) RoomSummary(roomID uint) (*RoomSummary, error) {
	var room models.Room
	if err := s.DB.First(&room, roomID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("room %d not found", roomID)
		}
		return nil, err
	}
	out := RoomSummary{
		Room:           room,
		IsAvailable:    room.IsAvailable(),
		AvailableSpots: room.AvailableSpots(),
		RequestsByType: map[string]int64{},
	}

	if err := s.DB.Model(&models.Allocation{}).
		Where("room_id = ? AND status IN ?", roomID, activeStatuses()).
		Count(&out.ActiveOccupants).Error; err != nil {
		return nil, err
	}
	if err := s.DB.Model(&models.ServiceRequest{}).
		Where("room_id = ? AND status NOT IN ?", roomID,
			[]models.ServiceRequestStatus{models.RequestResolved, models.RequestCancelled}).
		Count(&out.OpenRequests).Error; err != nil {
		return nil, err
	}

	var rows []struct {
		Type string
		N    int64
	}
	if err := s.DB.Model(&models.ServiceRequest{}).
		Select("type, COUNT(*) AS n").
		Where("room_id = ?", roomID).
		Group("type").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, r := range rows {
		out.RequestsByType[r.Type] = r.N
	}
	return &out, nil
}

// ServiceRequestStats summarizes the tracker: counts grouped by type
// and by status, plus the mean resolution time over resolved requests.
type ServiceRequestStats struct {
	Total                  int64            `json:"total"`
	ByType                 map[string]int64 `json:"byType"`
	ByStatus               map[string]int64 `json:"byStatus"`
	Resolved               int64            `json:"resolved"`
	AverageResolutionHours float64          `json:"averageResolutionHours"`
}

func (s *ReportService) ServiceRequestStats() (*ServiceRequestStats, error) {
	out := ServiceRequestStats{ByType: map[string]int64{}, ByStatus: map[string]int64{}}

	var byType []struct {
		Type string
		N    int64
	}
	if err := s.DB.Model(&models.ServiceRequest{}).
		Select("type, COUNT(*) AS n").
		Group("type").
		Scan(&byType).Error; err != nil {
		return nil, err
	}
	for _, r := range byType {
		out.ByType[r.Type] = r.N
		out.Total += r.N
	}

	var byStatus []struct {
		Status string
		N      int64
	}
	if err := s.DB.Model(&models.ServiceRequest{}).
		Select("status, COUNT(*) AS n").
		Group("status").
		Scan(&byStatus).Error; err != nil {
		return nil, err
	}
	for _, r := range byStatus {
		out.ByStatus[r.Status] = r.N
	}

	// Resolution time is averaged in Go; date arithmetic differs too
	// much across dialects to do it in portable SQL.
	var resolved []struct {
		CreatedAt     time.Time
		CompletedDate *time.Time
	}
	if err := s.DB.Model(&models.ServiceRequest{}).
		Select("created_at, completed_date").
		Where("status = ? AND completed_date IS NOT NULL", models.RequestResolved).
		Scan(&resolved).Error; err != nil {
		return nil, err
	}
	var totalHours float64
	for _, r := range resolved {
		totalHours += r.CompletedDate.Sub(r.CreatedAt).Hours()
	}
	out.Resolved = int64(len(resolved))
	if out.Resolved > 0 {
		out.AverageResolutionHours = totalHours / float64(out.Resolved)
	}
	return &out, nil
}
