package delayed

import "time"

// TimeProvider provides the current time.
// The default provider returns time.Now, which carries a monotonic
// clock reading, so fire instants are unaffected by wall clock changes.
type TimeProvider interface {
	Now() time.Time
}

type timeProvider struct{}

func (p timeProvider) Now() Time {
	return time.Now()
}
