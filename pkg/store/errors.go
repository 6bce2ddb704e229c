package store

import "fmt"

// NotFoundError reports a missing record. Resource is a termination
// kind or one of "cable", "site", "device".
type NotFoundError struct {
	Resource string
	ID       int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Resource, e.ID)
}
