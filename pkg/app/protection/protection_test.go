package protection

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRoute(t *testing.T) {
	assessmentID := uuid.New()
	sessionID := uuid.New()

	taking := ParseRoute("/assessment/" + assessmentID.String() + "?session=" + sessionID.String())
	assert.True(t, taking.Taking)
	assert.False(t, taking.Result)
	require.NotNil(t, taking.AssessmentID)
	assert.Equal(t, assessmentID, *taking.AssessmentID)
	require.NotNil(t, taking.SessionID)
	assert.Equal(t, sessionID, *taking.SessionID)

	result := ParseRoute("https://exams.example.com/assessment/" + assessmentID.String() + "/result?session=" + sessionID.String())
	assert.False(t, result.Taking)
	assert.True(t, result.Result)

	noSession := ParseRoute("/assessment/" + assessmentID.String() + "/")
	assert.True(t, noSession.Taking)
	assert.Nil(t, noSession.SessionID)

	badSession := ParseRoute("/assessment/" + assessmentID.String() + "?session=nope")
	assert.Nil(t, badSession.SessionID)

	for _, raw := range []string{"/", "/dashboard", "/assessment", "/assessment/not-a-uuid", "/assessment/" + assessmentID.String() + "/edit", "%zz"} {
		r := ParseRoute(raw)
		assert.False(t, r.Taking, raw)
		assert.False(t, r.Result, raw)
	}
}

func TestDerive_AdminIsNeverBlocked(t *testing.T) {
	taking := Route{Taking: true}
	for _, route := range []Route{{}, taking, {Result: true}} {
		for _, inProgress := range []bool{true, false} {
			s := Derive(route, RoleAdmin, inProgress)
			assert.False(t, s.ProtectInputDevice)
			assert.False(t, s.DetectTabExit)
		}
	}
}

func TestDerive_NonConfirmedIsProtected(t *testing.T) {
	for _, role := range []RoleStatus{RoleUnknown, RoleNonAdmin} {
		s := Derive(Route{}, role, false)
		assert.True(t, s.ProtectInputDevice, role.String())
		assert.False(t, s.DetectTabExit)
		assert.False(t, s.WarnBeforeUnload)

		s = Derive(Route{Taking: true}, role, true)
		assert.True(t, s.ProtectInputDevice)
		assert.True(t, s.DetectTabExit)
		assert.True(t, s.WarnBeforeUnload)

		s = Derive(Route{Taking: true}, role, false)
		assert.False(t, s.DetectTabExit)
		assert.False(t, s.WarnBeforeUnload)

		s = Derive(Route{Result: true}, role, true)
		assert.False(t, s.DetectTabExit)
	}
}

func TestDerive_AdminStillWarnsBeforeUnload(t *testing.T) {
	s := Derive(Route{Taking: true}, RoleAdmin, true)
	assert.True(t, s.WarnBeforeUnload)
}

func TestRoleStatus(t *testing.T) {
	assert.Equal(t, RoleAdmin, RoleStatusFromAdmin(true))
	assert.Equal(t, RoleNonAdmin, RoleStatusFromAdmin(false))
	assert.Equal(t, "unknown", RoleUnknown.String())
	assert.Equal(t, "admin", RoleAdmin.String())
	assert.Equal(t, "non_admin", RoleNonAdmin.String())
}

func TestScope(t *testing.T) {
	s := NewScope()
	id := uuid.New()
	assert.False(t, s.InProgress())

	s.Enter(id)
	assert.True(t, s.InProgress())
	assert.True(t, s.InProgressFor(id))
	assert.False(t, s.InProgressFor(uuid.New()))

	assert.True(t, s.Exit())
	assert.False(t, s.Exit())
	assert.False(t, s.InProgress())
}
