package event

type RoleInvalidatedEvent struct {
	UserID string `json:"user_id"`
}

func (e RoleInvalidatedEvent) Type() string {
	return RoleInvalidatedEventType
}
