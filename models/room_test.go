package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoomIsAvailable(t *testing.T) {
	room := Room{Capacity: 2, CurrentOccupancy: 0, MaintenanceStatus: MaintenanceGood, IsActive: true}
	assert.True(t, room.IsAvailable())
	assert.Equal(t, 2, room.AvailableSpots())

	room.CurrentOccupancy = 2
	assert.False(t, room.IsAvailable())
	assert.Equal(t, 0, room.AvailableSpots())

	room.CurrentOccupancy = 1
	room.MaintenanceStatus = MaintenanceUnderway
	assert.False(t, room.IsAvailable())

	room.MaintenanceStatus = MaintenanceGood
	room.IsActive = false
	assert.False(t, room.IsAvailable())
}

func TestRoomCanAccommodate(t *testing.T) {
	room := Room{Capacity: 4, CurrentOccupancy: 2, MaintenanceStatus: MaintenanceGood, IsActive: true}
	assert.True(t, room.CanAccommodate(1))
	assert.True(t, room.CanAccommodate(2))
	assert.False(t, room.CanAccommodate(3))

	room.MaintenanceStatus = MaintenanceNeedsRepair
	assert.False(t, room.CanAccommodate(1))
}

func TestMaintenanceStatusValid(t *testing.T) {
	assert.True(t, MaintenanceGood.Valid())
	assert.True(t, MaintenanceOutOfOrder.Valid())
	assert.False(t, MaintenanceStatus("demolished").Valid())
	assert.False(t, MaintenanceStatus("").Valid())
}
