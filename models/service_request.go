package models

import (
	"time"

	"gorm.io/gorm"
)

type ServiceRequestType string

const (
	RequestMaintenance ServiceRequestType = "maintenance"
	RequestCleaning    ServiceRequestType = "cleaning"
	RequestPestControl ServiceRequestType = "pest_control"
	RequestElectrical  ServiceRequestType = "electrical"
	RequestPlumbing    ServiceRequestType = "plumbing"
	RequestFurniture   ServiceRequestType = "furniture"
	RequestOther       ServiceRequestType = "other"
)

func (t ServiceRequestType) Valid() bool {
	switch t {
	case RequestMaintenance, RequestCleaning, RequestPestControl, RequestElectrical,
		RequestPlumbing, RequestFurniture, RequestOther:
		return true
	}
	return false
}

type ServiceRequestPriority string

const (
	PriorityLow    ServiceRequestPriority = "low"
	PriorityMedium ServiceRequestPriority = "medium"
	PriorityHigh   ServiceRequestPriority = "high"
	PriorityUrgent ServiceRequestPriority = "urgent"
)

func (p ServiceRequestPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// ServiceRequestStatus is the lifecycle state of a service request.
//
//	submitted -> acknowledged -> in_progress -> resolved
//	submitted/acknowledged -> cancelled
type ServiceRequestStatus string

const (
	RequestSubmitted    ServiceRequestStatus = "submitted"
	RequestAcknowledged ServiceRequestStatus = "acknowledged"
	RequestInProgress   ServiceRequestStatus = "in_progress"
	RequestResolved     ServiceRequestStatus = "resolved"
	RequestCancelled    ServiceRequestStatus = "cancelled"
)

func (s ServiceRequestStatus) Valid() bool {
	switch s {
	case RequestSubmitted, RequestAcknowledged, RequestInProgress, RequestResolved, RequestCancelled:
		return true
	}
	return false
}

func (s ServiceRequestStatus) Terminal() bool {
	return s == RequestResolved || s == RequestCancelled
}

// ServiceRequest is a reported issue against a room. Resolving one may
// restore the room's maintenance status through an explicit hook.
type ServiceRequest struct {
	gorm.Model

	TicketCode string `gorm:"column:ticket_code;size:64;uniqueIndex" json:"ticketCode"`
	RoomID     uint   `gorm:"column:room_id;index" json:"roomId"`
	ReportedBy uint   `gorm:"column:reported_by;index" json:"reportedBy"`
	AssignedTo *uint  `gorm:"column:assigned_to" json:"assignedTo,omitempty"`

	Type        ServiceRequestType     `gorm:"type:varchar(32)" json:"type"`
	Priority    ServiceRequestPriority `gorm:"type:varchar(16);default:medium" json:"priority"`
	Status      ServiceRequestStatus   `gorm:"type:varchar(32);default:submitted;index" json:"status"`
	Description string                 `gorm:"type:text" json:"description"`

	CompletedDate *time.Time `gorm:"column:completed_date" json:"completedDate,omitempty"`

	// Feedback is valid only once the request is resolved.
	FeedbackRating  *int   `gorm:"column:feedback_rating" json:"feedbackRating,omitempty"`
	FeedbackComment string `gorm:"column:feedback_comment;type:text" json:"feedbackComment,omitempty"`

	Room Room `gorm:"foreignKey:RoomID;references:ID" json:"room,omitempty"`
}

// CanCancel reports whether the request may still be withdrawn.
func (r *ServiceRequest) CanCancel() bool {
	return r.Status == RequestSubmitted || r.Status == RequestAcknowledged
}

// CanAssign reports whether staff can still be (re)assigned.
func (r *ServiceRequest) CanAssign() bool {
	return !r.Status.Terminal()
}

// CanTransitionTo reports whether moving to next is a legal step.
func (r *ServiceRequest) CanTransitionTo(next ServiceRequestStatus) bool {
	switch next {
	case RequestAcknowledged:
		return r.Status == RequestSubmitted
	case RequestInProgress:
		return r.Status == RequestAcknowledged
	case RequestResolved:
		return r.Status == RequestInProgress
	case RequestCancelled:
		return r.CanCancel()
	}
	return false
}

// ResolutionTime returns hours between creation and completion, or nil
// until the request is resolved.
func (r *ServiceRequest) ResolutionTime() *float64 {
	if r.CompletedDate == nil {
		return nil
	}
	h := r.CompletedDate.Sub(r.CreatedAt).Hours()
	return &h
}
