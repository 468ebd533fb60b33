package services

import (
	"testing"
	"time"

	"hostel-backend/apperrors"
	"hostel-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type requestFixture struct {
	db       *gorm.DB
	rooms    *RoomService
	requests *ServiceRequestService
	reporter uint
	room     *models.Room
}

func newRequestFixture(t *testing.T) *requestFixture {
	t.Helper()
	db := newTestDB(t)
	rooms := NewRoomService(db)
	requests := NewServiceRequestService(db, rooms, NewDBUserDirectory(db))
	return &requestFixture{
		db:       db,
		rooms:    rooms,
		requests: requests,
		reporter: createTestUser(t, db, "asha"),
		room:     createTestRoom(t, rooms, "A-101", 2),
	}
}

func (f *requestFixture) submit(t *testing.T) *models.ServiceRequest {
	t.Helper()
	req, err := f.requests.Create(CreateServiceRequestInput{
		RoomID:      f.room.ID,
		ReportedBy:  f.reporter,
		Type:        models.RequestPlumbing,
		Priority:    models.PriorityHigh,
		Description: "leaking tap in the corner sink",
	})
	require.NoError(t, err)
	return req
}

func (f *requestFixture) advanceToInProgress(t *testing.T, id uint) {
	t.Helper()
	_, err := f.requests.Acknowledge(id)
	require.NoError(t, err)
	_, err = f.requests.Start(id)
	require.NoError(t, err)
}

func TestCreateServiceRequest(t *testing.T) {
	f := newRequestFixture(t)

	req := f.submit(t)
	assert.Equal(t, models.RequestSubmitted, req.Status)
	assert.NotEmpty(t, req.TicketCode)
	assert.Nil(t, req.CompletedDate)
}

func TestCreateServiceRequestValidation(t *testing.T) {
	f := newRequestFixture(t)

	_, err := f.requests.Create(CreateServiceRequestInput{
		RoomID: f.room.ID, ReportedBy: f.reporter, Type: "gardening", Description: "x",
	})
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))

	_, err = f.requests.Create(CreateServiceRequestInput{
		RoomID: f.room.ID, ReportedBy: f.reporter, Type: models.RequestCleaning, Priority: "asap", Description: "x",
	})
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))

	_, err = f.requests.Create(CreateServiceRequestInput{
		RoomID: f.room.ID, ReportedBy: f.reporter, Type: models.RequestCleaning, Description: "  ",
	})
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))

	_, err = f.requests.Create(CreateServiceRequestInput{
		RoomID: 9999, ReportedBy: f.reporter, Type: models.RequestCleaning, Description: "x",
	})
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))

	_, err = f.requests.Create(CreateServiceRequestInput{
		RoomID: f.room.ID, ReportedBy: 9999, Type: models.RequestCleaning, Description: "x",
	})
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}

// Scenario: feedback is rejected until the request is resolved, then
// accepted.
func TestFeedbackOnlyOnResolved(t *testing.T) {
	f := newRequestFixture(t)
	req := f.submit(t)

	_, err := f.requests.AttachFeedback(req.ID, 4, "fixed quickly")
	assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidState))

	f.advanceToInProgress(t, req.ID)
	resolved, err := f.requests.Resolve(req.ID, ResolveInput{})
	require.NoError(t, err)
	assert.Equal(t, models.RequestResolved, resolved.Status)
	assert.NotNil(t, resolved.CompletedDate)

	withFeedback, err := f.requests.AttachFeedback(req.ID, 4, "fixed quickly")
	require.NoError(t, err)
	require.NotNil(t, withFeedback.FeedbackRating)
	assert.Equal(t, 4, *withFeedback.FeedbackRating)
	assert.Equal(t, "fixed quickly", withFeedback.FeedbackComment)
}

func TestFeedbackRatingBounds(t *testing.T) {
	f := newRequestFixture(t)
	req := f.submit(t)
	f.advanceToInProgress(t, req.ID)
	_, err := f.requests.Resolve(req.ID, ResolveInput{})
	require.NoError(t, err)

	_, err = f.requests.AttachFeedback(req.ID, 0, "")
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
	_, err = f.requests.AttachFeedback(req.ID, 6, "")
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
}

func TestResolveCarriesFeedback(t *testing.T) {
	f := newRequestFixture(t)
	req := f.submit(t)
	f.advanceToInProgress(t, req.ID)

	resolved, err := f.requests.Resolve(req.ID, ResolveInput{
		FeedbackRating:  iptr(5),
		FeedbackComment: "spotless",
	})
	require.NoError(t, err)
	require.NotNil(t, resolved.FeedbackRating)
	assert.Equal(t, 5, *resolved.FeedbackRating)
}

func TestResolveStampsCompletedDate(t *testing.T) {
	f := newRequestFixture(t)
	req := f.submit(t)
	f.advanceToInProgress(t, req.ID)

	done := time.Date(2026, 3, 5, 15, 0, 0, 0, time.UTC)
	f.requests.Now = fixedClock(done)

	resolved, err := f.requests.Resolve(req.ID, ResolveInput{})
	require.NoError(t, err)
	require.NotNil(t, resolved.CompletedDate)
	assert.True(t, resolved.CompletedDate.Equal(done))
	require.NotNil(t, resolved.ResolutionTime())
}

func TestServiceRequestIllegalTransitions(t *testing.T) {
	f := newRequestFixture(t)
	req := f.submit(t)

	// Resolve and start both skip steps from submitted.
	_, err := f.requests.Resolve(req.ID, ResolveInput{})
	assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidState))
	_, err = f.requests.Start(req.ID)
	assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidState))

	f.advanceToInProgress(t, req.ID)

	// In progress is past the point of no return for cancellation.
	_, err = f.requests.Cancel(req.ID)
	assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidState))
	_, err = f.requests.Acknowledge(req.ID)
	assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidState))

	_, err = f.requests.Resolve(req.ID, ResolveInput{})
	require.NoError(t, err)

	_, err = f.requests.Resolve(req.ID, ResolveInput{})
	assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidState))
	_, err = f.requests.Cancel(req.ID)
	assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidState))
}

func TestCancelServiceRequest(t *testing.T) {
	f := newRequestFixture(t)
	req := f.submit(t)

	cancelled, err := f.requests.Cancel(req.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RequestCancelled, cancelled.Status)

	acked := f.submit(t)
	_, err = f.requests.Acknowledge(acked.ID)
	require.NoError(t, err)
	_, err = f.requests.Cancel(acked.ID)
	require.NoError(t, err)
}

func TestAssignServiceRequest(t *testing.T) {
	f := newRequestFixture(t)
	staff := createTestUser(t, f.db, "warden")
	req := f.submit(t)

	assigned, err := f.requests.Assign(req.ID, staff)
	require.NoError(t, err)
	require.NotNil(t, assigned.AssignedTo)
	assert.Equal(t, staff, *assigned.AssignedTo)
	// Assigning does not advance the lifecycle.
	assert.Equal(t, models.RequestSubmitted, assigned.Status)

	_, err = f.requests.Assign(req.ID, 9999)
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))

	f.advanceToInProgress(t, req.ID)
	_, err = f.requests.Resolve(req.ID, ResolveInput{})
	require.NoError(t, err)
	_, err = f.requests.Assign(req.ID, staff)
	assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidState))
}

// The restore hook puts the room back to good, but only when no other
// request on it is still open.
func TestResolveRestoresRoom(t *testing.T) {
	f := newRequestFixture(t)
	req := f.submit(t)
	_, err := f.rooms.SetMaintenanceStatus(f.room.ID, models.MaintenanceUnderway)
	require.NoError(t, err)

	f.advanceToInProgress(t, req.ID)
	_, err = f.requests.Resolve(req.ID, ResolveInput{RestoreRoom: true})
	require.NoError(t, err)

	room, err := f.rooms.GetByID(f.room.ID)
	require.NoError(t, err)
	assert.Equal(t, models.MaintenanceGood, room.MaintenanceStatus)
}

func TestResolveRefusesRestoreWithOtherOpenRequests(t *testing.T) {
	f := newRequestFixture(t)
	first := f.submit(t)
	second := f.submit(t)
	_, err := f.rooms.SetMaintenanceStatus(f.room.ID, models.MaintenanceNeedsRepair)
	require.NoError(t, err)

	f.advanceToInProgress(t, first.ID)
	_, err = f.requests.Resolve(first.ID, ResolveInput{RestoreRoom: true})
	assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))

	// The refused resolve rolled back entirely: still in progress and
	// the room still flagged.
	current, err := f.requests.GetByID(first.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RequestInProgress, current.Status)

	room, err := f.rooms.GetByID(f.room.ID)
	require.NoError(t, err)
	assert.Equal(t, models.MaintenanceNeedsRepair, room.MaintenanceStatus)

	// Once the other request is gone the hook is allowed again.
	_, err = f.requests.Cancel(second.ID)
	require.NoError(t, err)
	_, err = f.requests.Resolve(first.ID, ResolveInput{RestoreRoom: true})
	require.NoError(t, err)

	room, err = f.rooms.GetByID(f.room.ID)
	require.NoError(t, err)
	assert.Equal(t, models.MaintenanceGood, room.MaintenanceStatus)
}

func TestListServiceRequests(t *testing.T) {
	f := newRequestFixture(t)
	f.submit(t)
	req := f.submit(t)
	_, err := f.requests.Acknowledge(req.ID)
	require.NoError(t, err)

	all, err := f.requests.List(ServiceRequestFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	acked, err := f.requests.List(ServiceRequestFilter{Status: models.RequestAcknowledged})
	require.NoError(t, err)
	assert.Len(t, acked, 1)

	_, err = f.requests.List(ServiceRequestFilter{Status: "weird"})
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
}
