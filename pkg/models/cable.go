package models

import "fmt"

// CableStatus is the lifecycle state of a physical cable. A
// decommissioned cable stays on record but no longer carries a path.
type CableStatus string

const (
	CableStatusConnected      CableStatus = "connected"
	CableStatusPlanned        CableStatus = "planned"
	CableStatusDecommissioned CableStatus = "decommissioned"
)

// ParseCableStatus validates a status string from user input.
func ParseCableStatus(s string) (CableStatus, error) {
	switch CableStatus(s) {
	case CableStatusConnected, CableStatusPlanned, CableStatusDecommissioned:
		return CableStatus(s), nil
	}
	return "", fmt.Errorf("unknown cable status %q", s)
}

// Cable is one physical link between exactly two terminations.
type Cable struct {
	ID           int64
	TerminationA TerminationRef
	TerminationB TerminationRef
	Status       CableStatus
	Type         string
	Label        string
	Color        string
	Length       *float64
	LengthUnit   string
}

func (c *Cable) String() string {
	if c.Label != "" {
		return c.Label
	}
	return fmt.Sprintf("#%d", c.ID)
}

// PeerOf returns the termination on the opposite end of the cable from
// ref. ok is false when ref is not attached to this cable.
func (c *Cable) PeerOf(ref TerminationRef) (TerminationRef, bool) {
	switch ref {
	case c.TerminationA:
		return c.TerminationB, true
	case c.TerminationB:
		return c.TerminationA, true
	}
	return TerminationRef{}, false
}

// Terminates reports whether ref is one of the cable's two ends.
func (c *Cable) Terminates(ref TerminationRef) bool {
	return ref == c.TerminationA || ref == c.TerminationB
}
