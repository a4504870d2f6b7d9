package event

import "reflect"

type Event interface {
	Type() string
}

var (
	SessionTerminatedEventType = "SessionTerminatedEvent"
	RoleInvalidatedEventType   = "RoleInvalidatedEvent"
)

var Registry = map[string]reflect.Type{
	SessionTerminatedEventType: reflect.TypeOf(SessionTerminatedEvent{}),
	RoleInvalidatedEventType:   reflect.TypeOf(RoleInvalidatedEvent{}),
}
