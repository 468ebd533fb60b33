package services

import (
	"errors"
	"strings"

	"hostel-backend/apperrors"
	"hostel-backend/models"

	"gorm.io/gorm"
)

// RoomService owns Room records. All occupancy writes go through
// AdjustOccupancy; no other component mutates the counter directly.
type RoomService struct {
	DB *gorm.DB
}

func NewRoomService(db *gorm.DB) *RoomService {
	return &RoomService{DB: db}
}

// RoomFilter narrows room listings. Zero values mean "any".
type RoomFilter struct {
	Block string
	Floor *int
	Type  string
}

func isDuplicateKeyErr(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "Duplicate entry") || strings.Contains(msg, "UNIQUE constraint failed")
}

func (s *RoomService) Create(room models.Room) (*models.Room, error) {
	room.RoomNumber = strings.TrimSpace(room.RoomNumber)
	if room.RoomNumber == "" {
		return nil, apperrors.NewValidationError("room number is required")
	}
	if room.Capacity < models.MinRoomCapacity || room.Capacity > models.MaxRoomCapacity {
		return nil, apperrors.NewValidationError("capacity must be between %d and %d, got %d",
			models.MinRoomCapacity, models.MaxRoomCapacity, room.Capacity)
	}
	if room.Floor < 0 || room.Floor > models.MaxFloor {
		return nil, apperrors.NewValidationError("floor must be between 0 and %d, got %d", models.MaxFloor, room.Floor)
	}
	if room.MaintenanceStatus == "" {
		room.MaintenanceStatus = models.MaintenanceGood
	}
	if !room.MaintenanceStatus.Valid() {
		return nil, apperrors.NewValidationError("unknown maintenance status %q", room.MaintenanceStatus)
	}

	// New rooms always start empty and active.
	room.ID = 0
	room.CurrentOccupancy = 0
	room.IsActive = true

	if err := s.DB.Create(&room).Error; err != nil {
		if isDuplicateKeyErr(err) {
			return nil, apperrors.NewConflictError("room number %q already exists", room.RoomNumber)
		}
		return nil, apperrors.Wrap(apperrors.KindValidation, "failed to create room", err)
	}
	return &room, nil
}

func (s *RoomService) GetByID(id uint) (*models.Room, error) {
	var room models.Room
	if err := s.DB.First(&room, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("room %d not found", id)
		}
		return nil, err
	}
	return &room, nil
}

// GetAvailableRooms returns rooms satisfying the availability predicate,
// optionally narrowed by block, floor or type. The query is stateless
// and restartable.
func (s *RoomService) GetAvailableRooms(filter RoomFilter) ([]models.Room, error) {
	q := s.DB.
		Where("is_active = ?", true).
		Where("maintenance_status = ?", models.MaintenanceGood).
		Where("current_occupancy < capacity")
	q = applyRoomFilter(q, filter)

	var rooms []models.Room
	if err := q.Order("block, floor, room_number").Find(&rooms).Error; err != nil {
		return nil, err
	}
	return rooms, nil
}

// List returns all rooms, including retired ones, narrowed by filter.
func (s *RoomService) List(filter RoomFilter) ([]models.Room, error) {
	var rooms []models.Room
	if err := applyRoomFilter(s.DB, filter).Order("block, floor, room_number").Find(&rooms).Error; err != nil {
		return nil, err
	}
	return rooms, nil
}

func applyRoomFilter(q *gorm.DB, filter RoomFilter) *gorm.DB {
	if filter.Block != "" {
		q = q.Where("block = ?", filter.Block)
	}
	if filter.Floor != nil {
		q = q.Where("floor = ?", *filter.Floor)
	}
	if filter.Type != "" {
		q = q.Where("type = ?", filter.Type)
	}
	return q
}

// CanAccommodate reports whether the room can take count more occupants.
func (s *RoomService) CanAccommodate(roomID uint, count int) (bool, error) {
	room, err := s.GetByID(roomID)
	if err != nil {
		return false, err
	}
	return room.CanAccommodate(count), nil
}

// AdjustOccupancy applies delta to the room's occupancy counter as a
// single conditional update: the row only changes when the result stays
// within [0, capacity]. Concurrent callers racing for the last slot get
// exactly one success.
func (s *RoomService) AdjustOccupancy(roomID uint, delta int) error {
	return s.AdjustOccupancyTx(s.DB, roomID, delta)
}

// AdjustOccupancyTx is AdjustOccupancy running on the caller's
// transaction, so a status transition and its occupancy adjustment
// commit or roll back as one unit.
func (s *RoomService) AdjustOccupancyTx(tx *gorm.DB, roomID uint, delta int) error {
	res := tx.Model(&models.Room{}).
		Where("id = ?", roomID).
		Where("current_occupancy + ? >= 0 AND current_occupancy + ? <= capacity", delta, delta).
		UpdateColumn("current_occupancy", gorm.Expr("current_occupancy + ?", delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var exists int64
		if err := tx.Model(&models.Room{}).Where("id = ?", roomID).Count(&exists).Error; err != nil {
			return err
		}
		if exists == 0 {
			return apperrors.NewNotFoundError("room %d not found", roomID)
		}
		return apperrors.NewCapacityExceededError("room %d cannot absorb occupancy change %+d", roomID, delta)
	}
	return nil
}

// SetMaintenanceStatus flips the room's condition. Moving away from
// "good" blocks future allocations; existing allocations are untouched.
func (s *RoomService) SetMaintenanceStatus(roomID uint, status models.MaintenanceStatus) (*models.Room, error) {
	if !status.Valid() {
		return nil, apperrors.NewValidationError("unknown maintenance status %q", status)
	}
	room, err := s.GetByID(roomID)
	if err != nil {
		return nil, err
	}
	if err := s.DB.Model(room).UpdateColumn("maintenance_status", status).Error; err != nil {
		return nil, err
	}
	room.MaintenanceStatus = status
	return room, nil
}

// Retire soft-retires a room. Rooms referenced by allocations are never
// physically deleted.
func (s *RoomService) Retire(roomID uint) (*models.Room, error) {
	room, err := s.GetByID(roomID)
	if err != nil {
		return nil, err
	}
	if err := s.DB.Model(room).UpdateColumn("is_active", false).Error; err != nil {
		return nil, err
	}
	room.IsActive = false
	return room, nil
}
