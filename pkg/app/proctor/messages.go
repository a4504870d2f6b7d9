package proctor

import (
	"github.com/NeuralTrust/ExamWatch/pkg/app/guard"
	"github.com/NeuralTrust/ExamWatch/pkg/app/protection"
)

type SignalType string

const (
	SignalRoute       SignalType = "route"
	SignalKeyDown     SignalType = "keydown"
	SignalContextMenu SignalType = "contextmenu"
	SignalVisibility  SignalType = "visibility"
	SignalBlur        SignalType = "blur"
	SignalFocus       SignalType = "focus"
	SignalViewport    SignalType = "viewport"
)

func (s SignalType) Valid() bool {
	switch s {
	case SignalRoute, SignalKeyDown, SignalContextMenu, SignalVisibility, SignalBlur, SignalFocus, SignalViewport:
		return true
	}
	return false
}

// Signal is one raw browser observation forwarded by the shim.
type Signal struct {
	Type     SignalType      `json:"type" mapstructure:"type"`
	ID       string          `json:"id,omitempty" mapstructure:"id"`
	Path     string          `json:"path,omitempty" mapstructure:"path"`
	Key      guard.KeyStroke `json:"key,omitempty" mapstructure:"key"`
	Hidden   bool            `json:"hidden,omitempty" mapstructure:"hidden"`
	Viewport guard.Viewport  `json:"viewport,omitempty" mapstructure:"viewport"`
}

type MessageType string

const (
	MessageProtection   MessageType = "protection"
	MessageDecision     MessageType = "decision"
	MessageNotice       MessageType = "notice"
	MessageNavigate     MessageType = "navigate"
	MessageWarningCount MessageType = "warning_count"
)

type NoticeLevel string

const (
	NoticeWarning NoticeLevel = "warning"
	NoticeFinal   NoticeLevel = "final"
	NoticeFatal   NoticeLevel = "fatal"
)

// Message is everything the service pushes to the tab.
type Message struct {
	Type       MessageType       `json:"type"`
	ID         string            `json:"id,omitempty"`
	Protection *protection.State `json:"protection,omitempty"`
	Decision   *guard.Decision   `json:"decision,omitempty"`
	Level      NoticeLevel       `json:"level,omitempty"`
	Text       string            `json:"message,omitempty"`
	Path       string            `json:"path,omitempty"`
	DelayMs    int64             `json:"delay_ms,omitempty"`
	Count      *int              `json:"count,omitempty"`
	Max        int               `json:"max,omitempty"`
}

// Sender delivers messages to the tab. Implementations must be safe for
// concurrent use: timers and the read loop both send.
type Sender interface {
	Send(msg Message) error
}
