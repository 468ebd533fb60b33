package services

import (
	"errors"
	"time"

	"hostel-backend/apperrors"
	"hostel-backend/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// AllocationService owns the allocation lifecycle. Status transitions
// are committed as guarded conditional updates (status must still equal
// the expected source state), so two concurrent transitions on the same
// record resolve to exactly one winner, and each transition commits in
// the same transaction as its occupancy adjustment.
type AllocationService struct {
	DB    *gorm.DB
	Rooms *RoomService
	Users UserDirectory

	// Now is the injected clock; tests override it.
	Now func() time.Time
}

func NewAllocationService(db *gorm.DB, rooms *RoomService, users UserDirectory) *AllocationService {
	return &AllocationService{DB: db, Rooms: rooms, Users: users, Now: time.Now}
}

// AllocationFilter narrows allocation listings. Zero values mean "any".
type AllocationFilter struct {
	UserID uint
	RoomID uint
	Status models.AllocationStatus
}

func (s *AllocationService) GetByID(id uint) (*models.Allocation, error) {
	var alloc models.Allocation
	if err := s.DB.Preload("Room").First(&alloc, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("allocation %d not found", id)
		}
		return nil, err
	}
	return &alloc, nil
}

func (s *AllocationService) List(filter AllocationFilter) ([]models.Allocation, error) {
	q := s.DB.Preload("Room").Order("created_at DESC")
	if filter.UserID != 0 {
		q = q.Where("user_id = ?", filter.UserID)
	}
	if filter.RoomID != 0 {
		q = q.Where("room_id = ?", filter.RoomID)
	}
	if filter.Status != "" {
		if !filter.Status.Valid() {
			return nil, apperrors.NewValidationError("unknown allocation status %q", filter.Status)
		}
		q = q.Where("status = ?", filter.Status)
	}
	var list []models.Allocation
	if err := q.Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// GetActiveByUser returns the user's active allocation, if any.
func (s *AllocationService) GetActiveByUser(userID uint) (*models.Allocation, error) {
	var alloc models.Allocation
	err := s.DB.Preload("Room").
		Where("user_id = ? AND status IN ?", userID, activeStatuses()).
		First(&alloc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("user %d has no active allocation", userID)
		}
		return nil, err
	}
	return &alloc, nil
}

func activeStatuses() []models.AllocationStatus {
	return []models.AllocationStatus{models.AllocationAllocated, models.AllocationCheckedIn}
}

func openStatuses() []models.AllocationStatus {
	return []models.AllocationStatus{models.AllocationPending, models.AllocationAllocated, models.AllocationCheckedIn}
}

// RequestAllocation creates a pending allocation. Guards: the requester
// exists and holds no other active allocation anywhere; the room can
// accommodate one more occupant; the requested bed, if any, is inside
// the room's capacity and not claimed by another open allocation.
// Occupancy is not touched yet; the slot is only reserved at confirm.
func (s *AllocationService) RequestAllocation(userID, roomID uint, bedNumber *int) (*models.Allocation, error) {
	exists, err := s.Users.UserExists(userID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperrors.NewNotFoundError("user %d not found", userID)
	}

	var alloc models.Allocation
	txErr := s.DB.Transaction(func(tx *gorm.DB) error {
		var room models.Room
		if err := tx.First(&room, roomID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NewNotFoundError("room %d not found", roomID)
			}
			return err
		}
		if !room.CanAccommodate(1) {
			return apperrors.NewCapacityExceededError("room %s is not available", room.RoomNumber)
		}

		if bedNumber != nil {
			if *bedNumber < 1 || *bedNumber > room.Capacity {
				return apperrors.NewValidationError("bed number %d is outside room capacity %d", *bedNumber, room.Capacity)
			}
			var taken int64
			if err := tx.Model(&models.Allocation{}).
				Where("room_id = ? AND bed_number = ? AND status IN ?", roomID, *bedNumber, openStatuses()).
				Count(&taken).Error; err != nil {
				return err
			}
			if taken > 0 {
				return apperrors.NewConflictError("bed %d in room %s is already taken", *bedNumber, room.RoomNumber)
			}
		}

		var active int64
		if err := tx.Model(&models.Allocation{}).
			Where("user_id = ? AND status IN ?", userID, activeStatuses()).
			Count(&active).Error; err != nil {
			return err
		}
		if active > 0 {
			return apperrors.NewConflictError("user %d already holds an active allocation", userID)
		}

		// The (user, room) pair is unique across the full history;
		// terminal records are retained and still occupy the pair.
		var pair int64
		if err := tx.Model(&models.Allocation{}).
			Where("user_id = ? AND room_id = ?", userID, roomID).
			Count(&pair).Error; err != nil {
			return err
		}
		if pair > 0 {
			return apperrors.NewConflictError("user %d already has an allocation for room %s", userID, room.RoomNumber)
		}

		alloc = models.Allocation{
			UserID:        userID,
			RoomID:        roomID,
			ReferenceCode: uuid.NewString(),
			Status:        models.AllocationPending,
			BedNumber:     bedNumber,
			AllocatedDate: s.Now().UTC(),
		}
		if err := tx.Create(&alloc).Error; err != nil {
			if isDuplicateKeyErr(err) {
				return apperrors.NewConflictError("user %d already has an allocation for room %s", userID, room.RoomNumber)
			}
			return err
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	log.Info().Uint("allocation_id", alloc.ID).Uint("user_id", userID).Uint("room_id", roomID).
		Msg("allocation requested")
	return &alloc, nil
}

// ConfirmAllocation moves a pending allocation to allocated and reserves
// the slot. The occupancy increment and the status flip commit as one
// transaction; when the room filled up since the request, the increment
// fails and the caller gets CapacityExceeded to retry elsewhere.
// The deposit amount must be set by now (zero is fine, absent is not).
func (s *AllocationService) ConfirmAllocation(id uint, deposit *float64) (*models.Allocation, error) {
	alloc, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	if deposit != nil {
		if *deposit < 0 {
			return nil, apperrors.NewValidationError("deposit cannot be negative")
		}
		alloc.DepositPaid = deposit
	}
	if alloc.DepositPaid == nil {
		return nil, apperrors.NewValidationError("deposit amount must be set before confirmation")
	}
	if alloc.Status != models.AllocationPending {
		return nil, apperrors.NewInvalidStateError("cannot confirm allocation in status %q", alloc.Status)
	}

	txErr := s.DB.Transaction(func(tx *gorm.DB) error {
		// A user may have confirmed a different request meanwhile.
		var active int64
		if err := tx.Model(&models.Allocation{}).
			Where("user_id = ? AND status IN ? AND id <> ?", alloc.UserID, activeStatuses(), id).
			Count(&active).Error; err != nil {
			return err
		}
		if active > 0 {
			return apperrors.NewConflictError("user %d already holds an active allocation", alloc.UserID)
		}

		if alloc.BedNumber != nil {
			var taken int64
			if err := tx.Model(&models.Allocation{}).
				Where("room_id = ? AND bed_number = ? AND status IN ? AND id <> ?",
					alloc.RoomID, *alloc.BedNumber, activeStatuses(), id).
				Count(&taken).Error; err != nil {
				return err
			}
			if taken > 0 {
				return apperrors.NewConflictError("bed %d in room %d is already occupied", *alloc.BedNumber, alloc.RoomID)
			}
		}

		if err := s.Rooms.AdjustOccupancyTx(tx, alloc.RoomID, +1); err != nil {
			return err
		}

		res := tx.Model(&models.Allocation{}).
			Where("id = ? AND status = ?", id, models.AllocationPending).
			Updates(map[string]interface{}{
				"status":       models.AllocationAllocated,
				"deposit_paid": *alloc.DepositPaid,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// Lost a race against another transition; the occupancy
			// increment above rolls back with the transaction.
			return apperrors.NewInvalidStateError("allocation %d is no longer pending", id)
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	log.Info().Uint("allocation_id", id).Uint("room_id", alloc.RoomID).Msg("allocation confirmed")
	return s.GetByID(id)
}

// CheckIn stamps the check-in date and moves the allocation to
// checked_in. Occupancy was already counted at confirm. Calling it on
// an allocation that is already checked in is a no-op.
func (s *AllocationService) CheckIn(id uint) (*models.Allocation, error) {
	alloc, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	if alloc.Status == models.AllocationCheckedIn {
		return alloc, nil
	}
	if alloc.Status != models.AllocationAllocated {
		return nil, apperrors.NewInvalidStateError("cannot check in allocation in status %q", alloc.Status)
	}

	updates := map[string]interface{}{"status": models.AllocationCheckedIn}
	if alloc.CheckInDate == nil {
		updates["check_in_date"] = s.Now().UTC()
	}
	res := s.DB.Model(&models.Allocation{}).
		Where("id = ? AND status = ?", id, models.AllocationAllocated).
		Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, apperrors.NewInvalidStateError("allocation %d is no longer in status %q", id, models.AllocationAllocated)
	}
	return s.GetByID(id)
}

// CheckOut ends the stay: stamps the check-out date and releases the
// slot. The status flip and the occupancy decrement commit as one unit.
func (s *AllocationService) CheckOut(id uint) (*models.Allocation, error) {
	alloc, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	if alloc.Status != models.AllocationCheckedIn {
		return nil, apperrors.NewInvalidStateError("cannot check out allocation in status %q", alloc.Status)
	}

	txErr := s.DB.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{"status": models.AllocationCheckedOut}
		if alloc.CheckOutDate == nil {
			updates["check_out_date"] = s.Now().UTC()
		}
		res := tx.Model(&models.Allocation{}).
			Where("id = ? AND status = ?", id, models.AllocationCheckedIn).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperrors.NewInvalidStateError("allocation %d is no longer checked in", id)
		}
		return s.Rooms.AdjustOccupancyTx(tx, alloc.RoomID, -1)
	})
	if txErr != nil {
		return nil, txErr
	}

	log.Info().Uint("allocation_id", id).Uint("room_id", alloc.RoomID).Msg("allocation checked out")
	return s.GetByID(id)
}

// Cancel aborts a pending or allocated allocation. A confirmed slot is
// released; refunds are a separate operation, never implied here.
func (s *AllocationService) Cancel(id uint) (*models.Allocation, error) {
	alloc, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	if !alloc.CanTransitionTo(models.AllocationCancelled) {
		return nil, apperrors.NewInvalidStateError("cannot cancel allocation in status %q", alloc.Status)
	}

	wasAllocated := alloc.Status == models.AllocationAllocated
	txErr := s.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Allocation{}).
			Where("id = ? AND status = ?", id, alloc.Status).
			Update("status", models.AllocationCancelled)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperrors.NewInvalidStateError("allocation %d changed state concurrently", id)
		}
		if wasAllocated {
			return s.Rooms.AdjustOccupancyTx(tx, alloc.RoomID, -1)
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	log.Info().Uint("allocation_id", id).Bool("slot_released", wasAllocated).Msg("allocation cancelled")
	return s.GetByID(id)
}

// RecordRefund books a partial or full deposit return. The running
// total of refunds never exceeds the deposit paid. Refunds are legal
// once a deposit exists, regardless of how the stay ended; only a
// pending allocation (no deposit yet) rejects them.
func (s *AllocationService) RecordRefund(id uint, amount float64) (*models.Allocation, error) {
	if amount <= 0 {
		return nil, apperrors.NewValidationError("refund amount must be positive")
	}
	alloc, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	if alloc.Status == models.AllocationPending || alloc.DepositPaid == nil {
		return nil, apperrors.NewInvalidStateError("allocation %d has no deposit to refund", id)
	}

	txErr := s.DB.Transaction(func(tx *gorm.DB) error {
		// Guarded increment: the refund only lands while it still fits
		// under the deposit, so concurrent refunds cannot overshoot.
		res := tx.Model(&models.Allocation{}).
			Where("id = ? AND deposit_refunded + ? <= deposit_paid", id, amount).
			UpdateColumn("deposit_refunded", gorm.Expr("deposit_refunded + ?", amount))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperrors.NewInvalidRefundError(amount, alloc.RemainingDeposit())
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	log.Info().Uint("allocation_id", id).Float64("amount", amount).Msg("deposit refund recorded")
	return s.GetByID(id)
}

// RecordRentPayment adds to the running rent total for an allocation.
func (s *AllocationService) RecordRentPayment(id uint, amount float64) (*models.Allocation, error) {
	if amount <= 0 {
		return nil, apperrors.NewValidationError("rent amount must be positive")
	}
	alloc, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	if !alloc.IsActive() {
		return nil, apperrors.NewInvalidStateError("cannot record rent for allocation in status %q", alloc.Status)
	}
	if err := s.DB.Model(&models.Allocation{}).
		Where("id = ?", id).
		UpdateColumn("rent_paid", gorm.Expr("rent_paid + ?", amount)).Error; err != nil {
		return nil, err
	}
	return s.GetByID(id)
}
