package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestServiceRequestCanCancel(t *testing.T) {
	assert.True(t, (&ServiceRequest{Status: RequestSubmitted}).CanCancel())
	assert.True(t, (&ServiceRequest{Status: RequestAcknowledged}).CanCancel())
	assert.False(t, (&ServiceRequest{Status: RequestInProgress}).CanCancel())
	assert.False(t, (&ServiceRequest{Status: RequestResolved}).CanCancel())
	assert.False(t, (&ServiceRequest{Status: RequestCancelled}).CanCancel())
}

func TestServiceRequestCanAssign(t *testing.T) {
	assert.True(t, (&ServiceRequest{Status: RequestSubmitted}).CanAssign())
	assert.True(t, (&ServiceRequest{Status: RequestAcknowledged}).CanAssign())
	assert.True(t, (&ServiceRequest{Status: RequestInProgress}).CanAssign())
	assert.False(t, (&ServiceRequest{Status: RequestResolved}).CanAssign())
	assert.False(t, (&ServiceRequest{Status: RequestCancelled}).CanAssign())
}

func TestServiceRequestCanTransitionTo(t *testing.T) {
	req := ServiceRequest{Status: RequestSubmitted}
	assert.True(t, req.CanTransitionTo(RequestAcknowledged))
	assert.True(t, req.CanTransitionTo(RequestCancelled))
	assert.False(t, req.CanTransitionTo(RequestInProgress))
	assert.False(t, req.CanTransitionTo(RequestResolved))

	req.Status = RequestAcknowledged
	assert.True(t, req.CanTransitionTo(RequestInProgress))
	assert.True(t, req.CanTransitionTo(RequestCancelled))
	assert.False(t, req.CanTransitionTo(RequestResolved))

	req.Status = RequestInProgress
	assert.True(t, req.CanTransitionTo(RequestResolved))
	assert.False(t, req.CanTransitionTo(RequestCancelled))

	req.Status = RequestResolved
	for _, to := range []ServiceRequestStatus{RequestAcknowledged, RequestInProgress, RequestResolved, RequestCancelled} {
		assert.False(t, req.CanTransitionTo(to))
	}
}

func TestServiceRequestResolutionTime(t *testing.T) {
	created := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	req := ServiceRequest{Model: gorm.Model{CreatedAt: created}}
	assert.Nil(t, req.ResolutionTime())

	done := created.Add(36 * time.Hour)
	req.CompletedDate = &done
	hours := req.ResolutionTime()
	assert.NotNil(t, hours)
	assert.InDelta(t, 36.0, *hours, 0.001)
}

func TestServiceRequestEnums(t *testing.T) {
	assert.True(t, RequestPlumbing.Valid())
	assert.False(t, ServiceRequestType("gardening").Valid())
	assert.True(t, PriorityUrgent.Valid())
	assert.False(t, ServiceRequestPriority("asap").Valid())
	assert.True(t, RequestResolved.Terminal())
	assert.True(t, RequestCancelled.Terminal())
	assert.False(t, RequestSubmitted.Terminal())
}
