package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidDay(t *testing.T) {
	assert.True(t, ValidDay("15/09/2026"))
	assert.True(t, ValidDay("01/01/2000"))
	assert.False(t, ValidDay("2026-09-15"))
	assert.False(t, ValidDay("32/01/2026"))
	assert.False(t, ValidDay("15/13/2026"))
	assert.False(t, ValidDay(""))
}

func TestValidClock(t *testing.T) {
	assert.True(t, ValidClock("00:00"))
	assert.True(t, ValidClock("23:59"))
	assert.False(t, ValidClock("24:00"))
	assert.False(t, ValidClock("7:00pm"))
	assert.False(t, ValidClock(""))
}

func TestClockBefore(t *testing.T) {
	assert.True(t, ClockBefore("07:00", "19:00"))
	assert.False(t, ClockBefore("19:00", "07:00"))
	assert.False(t, ClockBefore("08:00", "08:00"))
	assert.False(t, ClockBefore("bad", "08:00"))
}

func TestAcceptanceStatusTerminal(t *testing.T) {
	assert.False(t, AcceptanceStatusPending.Terminal())
	assert.True(t, AcceptanceStatusApproved.Terminal())
	assert.True(t, AcceptanceStatusRejected.Terminal())
	assert.True(t, AcceptanceStatusCancelled.Terminal())
}

func TestActorRoleChecks(t *testing.T) {
	var nilActor *Actor
	assert.False(t, nilActor.IsManager())
	assert.False(t, nilActor.IsSystemAdmin())
	assert.False(t, nilActor.IsClinician())

	assert.True(t, (&Actor{Role: RoleManager}).IsManager())
	assert.True(t, (&Actor{Role: RoleSystemAdmin}).IsSystemAdmin())
	assert.True(t, (&Actor{Role: RoleClinician}).IsClinician())
}
