package models

import (
	"math"
	"time"

	"gorm.io/gorm"
)

// AllocationStatus is the lifecycle state of an allocation.
//
//	pending -> allocated -> checked_in -> checked_out
//	pending/allocated -> cancelled
type AllocationStatus string

const (
	AllocationPending    AllocationStatus = "pending"
	AllocationAllocated  AllocationStatus = "allocated"
	AllocationCheckedIn  AllocationStatus = "checked_in"
	AllocationCheckedOut AllocationStatus = "checked_out"
	AllocationCancelled  AllocationStatus = "cancelled"
)

func (s AllocationStatus) Valid() bool {
	switch s {
	case AllocationPending, AllocationAllocated, AllocationCheckedIn, AllocationCheckedOut, AllocationCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further transition is possible.
func (s AllocationStatus) Terminal() bool {
	return s == AllocationCheckedOut || s == AllocationCancelled
}

// Allocation binds one user to one room (and optionally one bed) across
// a stay. Records are never deleted; terminal rows stay for audit.
type Allocation struct {
	ID uint `gorm:"primaryKey" json:"id"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	UserID uint `gorm:"column:user_id;index;uniqueIndex:idx_user_room" json:"userId"`
	RoomID uint `gorm:"column:room_id;index;uniqueIndex:idx_user_room" json:"roomId"`

	ReferenceCode string           `gorm:"column:reference_code;size:64;uniqueIndex" json:"referenceCode"`
	Status        AllocationStatus `gorm:"column:status;type:varchar(32);default:pending;index" json:"status"`
	BedNumber     *int             `gorm:"column:bed_number" json:"bedNumber,omitempty"`

	AllocatedDate time.Time  `gorm:"column:allocated_date" json:"allocatedDate"`
	CheckInDate   *time.Time `gorm:"column:check_in_date" json:"checkInDate,omitempty"`
	CheckOutDate  *time.Time `gorm:"column:check_out_date" json:"checkOutDate,omitempty"`

	DepositPaid     *float64 `gorm:"column:deposit_paid" json:"depositPaid,omitempty"`
	DepositRefunded float64  `gorm:"column:deposit_refunded;default:0" json:"depositRefunded"`
	RentPaid        float64  `gorm:"column:rent_paid;default:0" json:"rentPaid"`

	Room Room `gorm:"foreignKey:RoomID;references:ID" json:"room,omitempty"`
}

// IsActive reports whether the allocation currently holds a slot.
func (a *Allocation) IsActive() bool {
	return a.Status == AllocationAllocated || a.Status == AllocationCheckedIn
}

// RemainingDeposit is the refundable balance.
func (a *Allocation) RemainingDeposit() float64 {
	if a.DepositPaid == nil {
		return 0
	}
	return *a.DepositPaid - a.DepositRefunded
}

// StayDuration returns the stay length in days, ceiling-rounded, between
// check-in and check-out (or now when still checked in). Zero before
// check-in.
func (a *Allocation) StayDuration(now time.Time) int {
	if a.CheckInDate == nil {
		return 0
	}
	end := now
	if a.CheckOutDate != nil {
		end = *a.CheckOutDate
	}
	if end.Before(*a.CheckInDate) {
		return 0
	}
	return int(math.Ceil(end.Sub(*a.CheckInDate).Hours() / 24))
}

// CanTransitionTo reports whether moving from the current status to next
// is a legal step of the lifecycle.
func (a *Allocation) CanTransitionTo(next AllocationStatus) bool {
	switch next {
	case AllocationAllocated:
		return a.Status == AllocationPending
	case AllocationCheckedIn:
		return a.Status == AllocationAllocated
	case AllocationCheckedOut:
		return a.Status == AllocationCheckedIn
	case AllocationCancelled:
		return a.Status == AllocationPending || a.Status == AllocationAllocated
	}
	return false
}
