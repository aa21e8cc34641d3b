// Package clock abstracts time so handlers can be tested with a fixed now.
package clock

import "time"

// Clock supplies the current time for createdAt/updatedAt stamps.
type Clock interface {
	Now() time.Time
}

// System is the production clock backed by time.Now.
type System struct{}

func (System) Now() time.Time {
	return time.Now().UTC()
}

// Fixed always returns the same instant. Intended for tests.
type Fixed struct {
	Instant time.Time
}

func (f Fixed) Now() time.Time {
	return f.Instant
}
