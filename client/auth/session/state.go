package session

import (
	"github.com/viant/caseflow/schema"
)

// State represents session state
type State int

const (
	LoggedOut State = iota
	Authenticating
	Authenticated
	Degraded
)

func (s State) String() string {
	switch s {
	case LoggedOut:
		return "logged-out"
	case Authenticating:
		return "authenticating"
	case Authenticated:
		return "authenticated"
	case Degraded:
		return "degraded"
	}
	return "unknown"
}

// Snapshot represents a point in time view of the session
type Snapshot struct {
	State      State
	User       *schema.Identity
	IsLoading  bool
	HasToken   bool
	Err        error
	Generation uint64
}

// Authenticated returns true when identity is known; a present token alone does not authenticate
func (s Snapshot) Authenticated() bool {
	return s.User != nil
}

type session struct {
	token      string
	hasToken   bool
	identity   *schema.Identity
	state      State
	err        error
	generation uint64
}

func (s session) current(generation uint64) bool {
	return s.hasToken && s.generation == generation
}

func (s session) snapshot() Snapshot {
	return Snapshot{
		State:      s.state,
		User:       s.identity.Clone(),
		IsLoading:  s.hasToken && s.state == Authenticating,
		HasToken:   s.hasToken,
		Err:        s.err,
		Generation: s.generation,
	}
}

type eventKind int

const (
	eventSet eventKind = iota
	eventClear
	eventRefetch
	eventFetched
	eventFailed
	eventUnauthorized
)

type event struct {
	kind       eventKind
	token      string
	generation uint64
	identity   *schema.Identity
	err        error
}

// startsFetch returns true if an accepted event requires an identity fetch for the new generation
func (e event) startsFetch() bool {
	return e.kind == eventSet || e.kind == eventRefetch
}

// reduce is the session transition function. It returns false when the event
// is ignored (stale fetch result, foreign credential, nothing to clear).
func reduce(s session, e event) (session, bool) {
	switch e.kind {
	case eventSet:
		if e.token == "" {
			return reduce(s, event{kind: eventClear})
		}
		return session{token: e.token, hasToken: true, state: Authenticating, generation: s.generation + 1}, true
	case eventClear:
		if !s.hasToken && s.state == LoggedOut {
			return s, false
		}
		return session{state: LoggedOut, generation: s.generation + 1}, true
	case eventRefetch:
		if !s.hasToken {
			return s, false
		}
		s.generation++
		s.state = Authenticating
		s.err = nil
		return s, true
	case eventFetched:
		if !s.current(e.generation) || e.identity == nil {
			return s, false
		}
		s.identity = e.identity
		s.state = Authenticated
		s.err = nil
		return s, true
	case eventFailed:
		if !s.current(e.generation) {
			return s, false
		}
		if schema.IsUnauthorized(e.err) {
			return reduce(s, event{kind: eventClear})
		}
		s.state = Degraded
		s.err = e.err
		return s, true
	case eventUnauthorized:
		if !s.hasToken || s.token != e.token {
			return s, false
		}
		return reduce(s, event{kind: eventClear})
	}
	return s, false
}
