package channel

type Channel string

const (
	SessionEventsChannel  Channel = "examwatch:session_events"
	IdentityEventsChannel Channel = "examwatch:identity_events"
)
