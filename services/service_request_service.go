package services

import (
	"errors"
	"strings"
	"time"

	"hostel-backend/apperrors"
	"hostel-backend/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// ServiceRequestService tracks reported room defects. Resolving a
// request may restore the room's maintenance status, but only through
// an explicit hook and never while another request on the same room is
// still open.
type ServiceRequestService struct {
	DB    *gorm.DB
	Rooms *RoomService
	Users UserDirectory

	Now func() time.Time
}

func NewServiceRequestService(db *gorm.DB, rooms *RoomService, users UserDirectory) *ServiceRequestService {
	return &ServiceRequestService{DB: db, Rooms: rooms, Users: users, Now: time.Now}
}

// ServiceRequestFilter narrows request listings. Zero values mean "any".
type ServiceRequestFilter struct {
	RoomID   uint
	Status   models.ServiceRequestStatus
	Priority models.ServiceRequestPriority
	Type     models.ServiceRequestType
}

// CreateServiceRequestInput is the payload for Create.
type CreateServiceRequestInput struct {
	RoomID      uint
	ReportedBy  uint
	Type        models.ServiceRequestType
	Priority    models.ServiceRequestPriority
	Description string
}

func (s *ServiceRequestService) Create(input CreateServiceRequestInput) (*models.ServiceRequest, error) {
	if !input.Type.Valid() {
		return nil, apperrors.NewValidationError("unknown service request type %q", input.Type)
	}
	if input.Priority == "" {
		input.Priority = models.PriorityMedium
	}
	if !input.Priority.Valid() {
		return nil, apperrors.NewValidationError("unknown priority %q", input.Priority)
	}
	if strings.TrimSpace(input.Description) == "" {
		return nil, apperrors.NewValidationError("description is required")
	}

	exists, err := s.Users.UserExists(input.ReportedBy)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperrors.NewNotFoundError("user %d not found", input.ReportedBy)
	}
	if _, err := s.Rooms.GetByID(input.RoomID); err != nil {
		return nil, err
	}

	req := models.ServiceRequest{
		TicketCode:  uuid.NewString(),
		RoomID:      input.RoomID,
		ReportedBy:  input.ReportedBy,
		Type:        input.Type,
		Priority:    input.Priority,
		Status:      models.RequestSubmitted,
		Description: strings.TrimSpace(input.Description),
	}
	if err := s.DB.Create(&req).Error; err != nil {
		return nil, err
	}

	log.Info().Uint("request_id", req.ID).Uint("room_id", req.RoomID).
		Str("type", string(req.Type)).Str("priority", string(req.Priority)).
		Msg("service request created")
	return &req, nil
}

func (s *ServiceRequestService) GetByID(id uint) (*models.ServiceRequest, error) {
	var req models.ServiceRequest
	if err := s.DB.Preload("Room").First(&req, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("service request %d not found", id)
		}
		return nil, err
	}
	return &req, nil
}

func (s *ServiceRequestService) List(filter ServiceRequestFilter) ([]models.ServiceRequest, error) {
	q := s.DB.Preload("Room").Order("created_at DESC")
	if filter.RoomID != 0 {
		q = q.Where("room_id = ?", filter.RoomID)
	}
	if filter.Status != "" {
		if !filter.Status.Valid() {
			return nil, apperrors.NewValidationError("unknown status %q", filter.Status)
		}
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Priority != "" {
		if !filter.Priority.Valid() {
			return nil, apperrors.NewValidationError("unknown priority %q", filter.Priority)
		}
		q = q.Where("priority = ?", filter.Priority)
	}
	if filter.Type != "" {
		if !filter.Type.Valid() {
			return nil, apperrors.NewValidationError("unknown type %q", filter.Type)
		}
		q = q.Where("type = ?", filter.Type)
	}
	var list []models.ServiceRequest
	if err := q.Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// transition moves a request from exactly one expected status to the
// next, as a guarded update; a concurrent transition on the same record
// makes the loser fail with InvalidState.
func (s *ServiceRequestService) transition(tx *gorm.DB, id uint, from, to models.ServiceRequestStatus, extra map[string]interface{}) error {
	updates := map[string]interface{}{"status": to}
	for k, v := range extra {
		updates[k] = v
	}
	res := tx.Model(&models.ServiceRequest{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.NewInvalidStateError("service request %d is not in status %q", id, from)
	}
	return nil
}

func (s *ServiceRequestService) Acknowledge(id uint) (*models.ServiceRequest, error) {
	req, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	if !req.CanTransitionTo(models.RequestAcknowledged) {
		return nil, apperrors.NewInvalidStateError("cannot acknowledge service request in status %q", req.Status)
	}
	if err := s.transition(s.DB, id, req.Status, models.RequestAcknowledged, nil); err != nil {
		return nil, err
	}
	return s.GetByID(id)
}

// Assign sets the responsible staff member. Allowed from any
// non-terminal status and does not itself advance the lifecycle.
func (s *ServiceRequestService) Assign(id, staffID uint) (*models.ServiceRequest, error) {
	req, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	if !req.CanAssign() {
		return nil, apperrors.NewInvalidStateError("cannot assign service request in status %q", req.Status)
	}
	exists, err := s.Users.UserExists(staffID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperrors.NewNotFoundError("user %d not found", staffID)
	}
	if err := s.DB.Model(&models.ServiceRequest{}).
		Where("id = ?", id).
		Update("assigned_to", staffID).Error; err != nil {
		return nil, err
	}
	return s.GetByID(id)
}

func (s *ServiceRequestService) Start(id uint) (*models.ServiceRequest, error) {
	req, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	if !req.CanTransitionTo(models.RequestInProgress) {
		return nil, apperrors.NewInvalidStateError("cannot start work on service request in status %q", req.Status)
	}
	if err := s.transition(s.DB, id, req.Status, models.RequestInProgress, nil); err != nil {
		return nil, err
	}
	return s.GetByID(id)
}

// ResolveInput carries the resolution payload. Feedback is optional and
// resolution is the only transition allowed to carry it. RestoreRoom is
// the explicit policy hook that puts the room back to good condition.
type ResolveInput struct {
	FeedbackRating  *int
	FeedbackComment string
	RestoreRoom     bool
}

func (s *ServiceRequestService) Resolve(id uint, input ResolveInput) (*models.ServiceRequest, error) {
	req, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	if !req.CanTransitionTo(models.RequestResolved) {
		return nil, apperrors.NewInvalidStateError("cannot resolve service request in status %q", req.Status)
	}
	if input.FeedbackRating != nil {
		if err := validateRating(*input.FeedbackRating); err != nil {
			return nil, err
		}
	}

	txErr := s.DB.Transaction(func(tx *gorm.DB) error {
		extra := map[string]interface{}{}
		if req.CompletedDate == nil {
			extra["completed_date"] = s.Now().UTC()
		}
		if input.FeedbackRating != nil {
			extra["feedback_rating"] = *input.FeedbackRating
			extra["feedback_comment"] = input.FeedbackComment
		}
		if err := s.transition(tx, id, req.Status, models.RequestResolved, extra); err != nil {
			return err
		}

		if input.RestoreRoom {
			// Another open request on the same room means its
			// maintenance flag is not ours to clear.
			var open int64
			if err := tx.Model(&models.ServiceRequest{}).
				Where("room_id = ? AND id <> ? AND status NOT IN ?",
					req.RoomID, id,
					[]models.ServiceRequestStatus{models.RequestResolved, models.RequestCancelled}).
				Count(&open).Error; err != nil {
				return err
			}
			if open > 0 {
				return apperrors.NewConflictError("room %d has other outstanding service requests", req.RoomID)
			}
			if err := tx.Model(&models.Room{}).
				Where("id = ?", req.RoomID).
				UpdateColumn("maintenance_status", models.MaintenanceGood).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	log.Info().Uint("request_id", id).Bool("room_restored", input.RestoreRoom).Msg("service request resolved")
	return s.GetByID(id)
}

func (s *ServiceRequestService) Cancel(id uint) (*models.ServiceRequest, error) {
	req, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	if !req.CanCancel() {
		return nil, apperrors.NewInvalidStateError("cannot cancel service request in status %q", req.Status)
	}
	if err := s.transition(s.DB, id, req.Status, models.RequestCancelled, nil); err != nil {
		return nil, err
	}
	return s.GetByID(id)
}

// AttachFeedback records an occupant rating on an already resolved
// request. Any other status rejects feedback.
func (s *ServiceRequestService) AttachFeedback(id uint, rating int, comment string) (*models.ServiceRequest, error) {
	if err := validateRating(rating); err != nil {
		return nil, err
	}
	req, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	if req.Status != models.RequestResolved {
		return nil, apperrors.NewInvalidStateError("feedback is only valid on a resolved request, status is %q", req.Status)
	}
	if err := s.DB.Model(&models.ServiceRequest{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"feedback_rating":  rating,
			"feedback_comment": comment,
		}).Error; err != nil {
		return nil, err
	}
	return s.GetByID(id)
}

func validateRating(rating int) error {
	if rating < 1 || rating > 5 {
		return apperrors.NewValidationError("rating must be between 1 and 5, got %d", rating)
	}
	return nil
}
