package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func fptr(v float64) *float64 { return &v }

func TestAllocationIsActive(t *testing.T) {
	cases := map[AllocationStatus]bool{
		AllocationPending:    false,
		AllocationAllocated:  true,
		AllocationCheckedIn:  true,
		AllocationCheckedOut: false,
		AllocationCancelled:  false,
	}
	for status, want := range cases {
		a := Allocation{Status: status}
		assert.Equal(t, want, a.IsActive(), "status %s", status)
	}
}

func TestAllocationRemainingDeposit(t *testing.T) {
	a := Allocation{}
	assert.Equal(t, 0.0, a.RemainingDeposit())

	a.DepositPaid = fptr(5000)
	a.DepositRefunded = 3000
	assert.Equal(t, 2000.0, a.RemainingDeposit())
}

func TestAllocationStayDuration(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	a := Allocation{}
	assert.Equal(t, 0, a.StayDuration(now))

	in := now.AddDate(0, 0, -3)
	a.CheckInDate = &in
	assert.Equal(t, 3, a.StayDuration(now))

	// Partial days round up.
	out := in.Add(49 * time.Hour)
	a.CheckOutDate = &out
	assert.Equal(t, 3, a.StayDuration(now))

	out = in.Add(48 * time.Hour)
	a.CheckOutDate = &out
	assert.Equal(t, 2, a.StayDuration(now))
}

func TestAllocationCanTransitionTo(t *testing.T) {
	legal := map[AllocationStatus][]AllocationStatus{
		AllocationPending:    {AllocationAllocated, AllocationCancelled},
		AllocationAllocated:  {AllocationCheckedIn, AllocationCancelled},
		AllocationCheckedIn:  {AllocationCheckedOut},
		AllocationCheckedOut: {},
		AllocationCancelled:  {},
	}
	all := []AllocationStatus{
		AllocationPending, AllocationAllocated, AllocationCheckedIn,
		AllocationCheckedOut, AllocationCancelled,
	}

	for from, targets := range legal {
		allowed := map[AllocationStatus]bool{}
		for _, s := range targets {
			allowed[s] = true
		}
		a := Allocation{Status: from}
		for _, to := range all {
			assert.Equal(t, allowed[to], a.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}
}

func TestAllocationStatusTerminal(t *testing.T) {
	assert.True(t, AllocationCheckedOut.Terminal())
	assert.True(t, AllocationCancelled.Terminal())
	assert.False(t, AllocationPending.Terminal())
	assert.False(t, AllocationAllocated.Terminal())
	assert.False(t, AllocationCheckedIn.Terminal())
}
