package guard

import (
	"strings"

	"github.com/NeuralTrust/ExamWatch/pkg/domain/securityevent"
)

// KeyStroke is the subset of a browser keydown event the classifier needs.
// Key is KeyboardEvent.key; Ctrl and Meta are both accepted as the command
// modifier.
type KeyStroke struct {
	Key   string `json:"key" mapstructure:"key"`
	Ctrl  bool   `json:"ctrl" mapstructure:"ctrl"`
	Meta  bool   `json:"meta" mapstructure:"meta"`
	Alt   bool   `json:"alt" mapstructure:"alt"`
	Shift bool   `json:"shift" mapstructure:"shift"`
}

func (k KeyStroke) command() bool {
	return k.Ctrl || k.Meta
}

func (k KeyStroke) key() string {
	return strings.ToLower(k.Key)
}

// Rule is one row of the keyboard table. It is also served to the browser
// so it can cancel the default action before the round trip.
type Rule struct {
	Kind     securityevent.Kind `json:"kind"`
	Keys     []string           `json:"keys"`
	Command  bool               `json:"command"`
	Alt      bool               `json:"alt"`
	Shift    bool               `json:"shift"`
	Label    string             `json:"label"`
	Warning  string             `json:"warning"`
	matchKey func(KeyStroke) bool
}

func (r Rule) matches(k KeyStroke) bool {
	if r.matchKey != nil {
		return r.matchKey(k)
	}
	if r.Command && !k.command() {
		return false
	}
	if r.Alt && !k.Alt {
		return false
	}
	if r.Shift && !k.Shift {
		return false
	}
	key := k.key()
	for _, candidate := range r.Keys {
		if key == candidate {
			return true
		}
	}
	return false
}

func commandRule(kind securityevent.Kind, key, label, warning string) Rule {
	return Rule{Kind: kind, Keys: []string{key}, Command: true, Label: label, Warning: warning}
}

// rules is evaluated top to bottom; the first match wins.
var rules = []Rule{
	commandRule(securityevent.KindCopyAttempt, "c", "Ctrl+C", "Copying is disabled during the assessment."),
	commandRule(securityevent.KindPasteAttempt, "v", "Ctrl+V", "Pasting is disabled during the assessment."),
	commandRule(securityevent.KindCutAttempt, "x", "Ctrl+X", "Cutting is disabled during the assessment."),
	commandRule(securityevent.KindPrintAttempt, "p", "Ctrl+P", "Printing is disabled during the assessment."),
	commandRule(securityevent.KindKeyboardShortcut, "s", "Ctrl+S", "Saving the page is disabled during the assessment."),
	commandRule(securityevent.KindKeyboardShortcut, "a", "Ctrl+A", "Select all is disabled during the assessment."),
	{
		Kind:    securityevent.KindTabSwitch,
		Keys:    []string{"tab"},
		Alt:     true,
		Label:   "Alt+Tab",
		Warning: "Switching windows is not allowed during the assessment.",
	},
	{
		Kind:    securityevent.KindDevtoolsOpened,
		Keys:    []string{"f12"},
		Label:   "F12",
		Warning: "Developer tools are not allowed during the assessment.",
		matchKey: func(k KeyStroke) bool {
			return k.key() == "f12"
		},
	},
	{
		Kind:    securityevent.KindDevtoolsOpened,
		Keys:    []string{"i"},
		Command: true,
		Shift:   true,
		Label:   "Ctrl+Shift+I",
		Warning: "Developer tools are not allowed during the assessment.",
		matchKey: func(k KeyStroke) bool {
			return k.command() && k.Shift && k.key() == "i"
		},
	},
}

// Rules returns a copy of the keyboard table in evaluation order.
func Rules() []Rule {
	out := make([]Rule, len(rules))
	copy(out, rules)
	return out
}

// Match is the outcome of classifying a blocked keystroke.
type Match struct {
	Kind    securityevent.Kind
	Label   string
	Warning string
}

func (m Match) Details() string {
	return m.Label + " blocked"
}

// Classify returns the first rule matching k.
func Classify(k KeyStroke) (Match, bool) {
	for _, r := range rules {
		if r.matches(k) {
			return Match{Kind: r.Kind, Label: r.Label, Warning: r.Warning}, true
		}
	}
	return Match{}, false
}
