package protection

import (
	"net/url"
	"strings"

	"github.com/google/uuid"
)

const (
	assessmentSegment = "assessment"
	resultSegment     = "result"
	sessionParam      = "session"
)

// Route is what the orchestrator needs to know about the current page.
type Route struct {
	Path         string
	AssessmentID *uuid.UUID
	SessionID    *uuid.UUID
	// Taking is true on the assessment-taking view and false on its result
	// variant and everywhere else.
	Taking bool
	Result bool
}

// ParseRoute recognises /assessment/{id} (taking) and
// /assessment/{id}/result (result). The session comes from the session
// query parameter. Malformed ids leave the route unprotected by the
// tab-exit gate but input guards still follow the role.
func ParseRoute(raw string) Route {
	u, err := url.Parse(raw)
	if err != nil {
		return Route{Path: raw}
	}
	r := Route{Path: u.Path}

	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(segments) < 2 || segments[0] != assessmentSegment {
		return r
	}
	assessmentID, err := uuid.Parse(segments[1])
	if err != nil {
		return r
	}

	switch {
	case len(segments) == 2:
		r.Taking = true
	case len(segments) == 3 && segments[2] == resultSegment:
		r.Result = true
	default:
		return r
	}
	r.AssessmentID = &assessmentID

	if s := u.Query().Get(sessionParam); s != "" {
		if sessionID, err := uuid.Parse(s); err == nil {
			r.SessionID = &sessionID
		}
	}
	return r
}
