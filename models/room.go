package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// MaintenanceStatus is the physical condition of a room. Only rooms in
// good condition accept new allocations.
type MaintenanceStatus string

const (
	MaintenanceGood        MaintenanceStatus = "good"
	MaintenanceNeedsRepair MaintenanceStatus = "needs_repair"
	MaintenanceUnderway    MaintenanceStatus = "under_maintenance"
	MaintenanceOutOfOrder  MaintenanceStatus = "out_of_order"
)

func (s MaintenanceStatus) Valid() bool {
	switch s {
	case MaintenanceGood, MaintenanceNeedsRepair, MaintenanceUnderway, MaintenanceOutOfOrder:
		return true
	}
	return false
}

const (
	MinRoomCapacity = 1
	MaxRoomCapacity = 4
	MaxFloor        = 50
)

type Room struct {
	gorm.Model

	RoomNumber string `json:"roomNumber" gorm:"column:room_number;uniqueIndex;type:varchar(50)"`
	Block      string `json:"block" gorm:"type:varchar(10);index"`
	Floor      int    `json:"floor"`
	Type       string `json:"type" gorm:"type:varchar(50)"`

	Capacity          int               `json:"capacity"`
	CurrentOccupancy  int               `json:"currentOccupancy" gorm:"column:current_occupancy;default:0"`
	MaintenanceStatus MaintenanceStatus `json:"maintenanceStatus" gorm:"column:maintenance_status;type:varchar(32);default:good"`
	IsActive          bool              `json:"isActive" gorm:"column:is_active;default:true"`

	MonthlyRent float64        `json:"monthlyRent" gorm:"column:monthly_rent"`
	Amenities   datatypes.JSON `json:"amenities,omitempty"`
	Description string         `json:"description" gorm:"type:text"`
}

// IsAvailable is derived, never stored: active, in good condition, and
// with at least one free slot.
func (r *Room) IsAvailable() bool {
	return r.IsActive && r.MaintenanceStatus == MaintenanceGood && r.CurrentOccupancy < r.Capacity
}

// AvailableSpots returns the number of free slots.
func (r *Room) AvailableSpots() int {
	return r.Capacity - r.CurrentOccupancy
}

// CanAccommodate reports whether count more occupants fit right now.
func (r *Room) CanAccommodate(count int) bool {
	return r.IsActive && r.MaintenanceStatus == MaintenanceGood && r.AvailableSpots() >= count
}
