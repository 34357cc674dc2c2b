package core

import "time"

// Session is one bounded window of continuous conversation for an identity.
//
// Contract:
//   - At most one active session per identity exists at any instant; the
//     session.Manager is the only component that mutates sessions.
//   - A session is active iff Active is true and now is before Expires.
//   - Touch recomputes LastActivity and Expires; End deactivates.
type Session struct {
	ID           string    `json:"id"`
	Identity     string    `json:"identity"`
	Created      time.Time `json:"created"`
	LastActivity time.Time `json:"last_activity"`
	Expires      time.Time `json:"expires"`
	Active       bool      `json:"active"`
}

// NewSession creates an active session for identity expiring after timeout.
func NewSession(id, identity string, now time.Time, timeout time.Duration) *Session {
	return &Session{
		ID:           id,
		Identity:     identity,
		Created:      now,
		LastActivity: now,
		Expires:      now.Add(timeout),
		Active:       true,
	}
}

// ActiveAt reports whether the session counts as active at the given instant.
func (s *Session) ActiveAt(now time.Time) bool {
	return s.Active && now.Before(s.Expires)
}

// ExpiredAt reports whether the expiry deadline has passed at the given instant.
func (s *Session) ExpiredAt(now time.Time) bool {
	return !now.Before(s.Expires)
}

// Touch records activity at now and pushes the expiry deadline out by timeout.
func (s *Session) Touch(now time.Time, timeout time.Duration) {
	s.LastActivity = now
	s.Expires = now.Add(timeout)
}

// End deactivates the session. Safe to call repeatedly.
func (s *Session) End() {
	s.Active = false
}

// Clone returns a copy safe for independent mutation.
func (s *Session) Clone() *Session {
	clone := *s
	return &clone
}
