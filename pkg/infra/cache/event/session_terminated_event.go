package event

type SessionTerminatedEvent struct {
	SessionID    string `json:"session_id"`
	AssessmentID string `json:"assessment_id"`
	Reason       string `json:"reason"`
}

func (e SessionTerminatedEvent) Type() string {
	return SessionTerminatedEventType
}
