package securityevent

type Kind string

const (
	KindCopyAttempt         Kind = "COPY_ATTEMPT"
	KindPasteAttempt        Kind = "PASTE_ATTEMPT"
	KindCutAttempt          Kind = "CUT_ATTEMPT"
	KindPrintAttempt        Kind = "PRINT_ATTEMPT"
	KindKeyboardShortcut    Kind = "KEYBOARD_SHORTCUT"
	KindTabSwitch           Kind = "TAB_SWITCH"
	KindContextMenuAttempt  Kind = "CONTEXT_MENU_ATTEMPT"
	KindDevtoolsOpened      Kind = "DEVTOOLS_OPENED"
	KindWindowBlur          Kind = "WINDOW_BLUR"
	KindWindowFocus         Kind = "WINDOW_FOCUS"
	KindAssessmentCancelled Kind = "ASSESSMENT_CANCELLED"
	KindAssessmentStarted   Kind = "ASSESSMENT_STARTED"
)

var kinds = map[Kind]struct{}{
	KindCopyAttempt:         {},
	KindPasteAttempt:        {},
	KindCutAttempt:          {},
	KindPrintAttempt:        {},
	KindKeyboardShortcut:    {},
	KindTabSwitch:           {},
	KindContextMenuAttempt:  {},
	KindDevtoolsOpened:      {},
	KindWindowBlur:          {},
	KindWindowFocus:         {},
	KindAssessmentCancelled: {},
	KindAssessmentStarted:   {},
}

func (k Kind) Valid() bool {
	_, ok := kinds[k]
	return ok
}

func (k Kind) String() string {
	return string(k)
}

func ParseKind(s string) (Kind, bool) {
	k := Kind(s)
	return k, k.Valid()
}
