package model

import (
	"fmt"
	"strings"
)

// ReadyStatus is the per-user, per-league readiness marker. The empty string
// means not ready, StatusReady means ready, and any other short token is a
// custom status (bye, inj, etc.) that is displayed literally in the table but
// does not count as ready.
type ReadyStatus string

const (
	StatusNotReady ReadyStatus = ""
	StatusReady    ReadyStatus = "X"
)

// MaxStatusLen is the longest status that still fits in a table cell.
const MaxStatusLen = 3

// ParseStatus validates raw command input and returns it as a ReadyStatus.
func ParseStatus(raw string) (ReadyStatus, error) {
	s := strings.TrimSpace(raw)
	if len(s) > MaxStatusLen {
		return StatusNotReady, fmt.Errorf("status must be %d characters or fewer, got: %s", MaxStatusLen, s)
	}
	return ReadyStatus(s), nil
}

func (s ReadyStatus) IsReady() bool {
	return s == StatusReady
}

// Display returns the value shown in a table cell for a league member.
func (s ReadyStatus) Display() string {
	if s == StatusNotReady {
		return " "
	}
	d := strings.ToUpper(string(s))
	if len(d) > MaxStatusLen {
		d = d[:MaxStatusLen]
	}
	return d
}
