package protection

// RoleStatus is the tri-state admin flag. Anything short of a confirmed
// admin is protected.
type RoleStatus int

const (
	RoleUnknown RoleStatus = iota
	RoleNonAdmin
	RoleAdmin
)

func (s RoleStatus) String() string {
	switch s {
	case RoleAdmin:
		return "admin"
	case RoleNonAdmin:
		return "non_admin"
	default:
		return "unknown"
	}
}

func RoleStatusFromAdmin(isAdmin bool) RoleStatus {
	if isAdmin {
		return RoleAdmin
	}
	return RoleNonAdmin
}

type State struct {
	Role               RoleStatus `json:"-"`
	IsAssessmentRoute  bool       `json:"is_assessment_route"`
	InProgress         bool       `json:"in_progress"`
	ProtectInputDevice bool       `json:"protect_input_devices"`
	WarnBeforeUnload   bool       `json:"warn_before_unload"`
	DetectTabExit      bool       `json:"detect_tab_exit"`
}

// Derive is re-evaluated on every route or role change.
func Derive(route Route, role RoleStatus, inProgress bool) State {
	notAdmin := role != RoleAdmin
	return State{
		Role:               role,
		IsAssessmentRoute:  route.Taking,
		InProgress:         inProgress,
		ProtectInputDevice: notAdmin,
		WarnBeforeUnload:   route.Taking && inProgress,
		DetectTabExit:      route.Taking && inProgress && notAdmin,
	}
}
