package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBookingStatusTransitions(t *testing.T) {
	assert.True(t, Pending.CanTransitionTo(Confirmed))
	assert.True(t, Pending.CanTransitionTo(Cancelled))
	assert.True(t, Pending.CanTransitionTo(Completed))
	assert.True(t, Confirmed.CanTransitionTo(Completed))
	assert.True(t, Confirmed.CanTransitionTo(Cancelled))

	assert.False(t, Cancelled.CanTransitionTo(Confirmed))
	assert.False(t, Cancelled.CanTransitionTo(Pending))
	assert.False(t, Completed.CanTransitionTo(Cancelled))
	assert.False(t, Confirmed.CanTransitionTo(Pending))
}

func TestListingTypeValid(t *testing.T) {
	assert.True(t, Boys.Valid())
	assert.True(t, CoEd.Valid())
	assert.False(t, ListingType("mixed").Valid())
	assert.False(t, ListingType("").Valid())
}
