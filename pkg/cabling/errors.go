package cabling

import "fmt"

// Validation rule identifiers. Each rejected connect request names the
// rule that fired so callers can branch without string matching.
const (
	RuleSelfConnection          = "self-connection"
	RuleIncompatibleTypes       = "incompatible-types"
	RuleAlreadyCabled           = "already-cabled"
	RuleFrontPortOwnRearPort    = "front-port-own-rear-port"
	RuleNonConnectableInterface = "non-connectable-interface"
	RulePositionsMismatch       = "positions-mismatch"
	RuleLengthUnitRequired      = "length-unit-required"
)

// ValidationError rejects a cable that would violate plant integrity.
type ValidationError struct {
	Rule    string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid cable (%s): %s", e.Rule, e.Message)
}

func validationErrorf(rule, format string, args ...any) *ValidationError {
	return &ValidationError{Rule: rule, Message: fmt.Sprintf(format, args...)}
}
