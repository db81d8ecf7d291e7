package contract

import (
	"fmt"
	"strings"
)

// PolicyError reports a misconfigured policy: no rules or no marker. This
// is a setup bug, never a per-definition violation.
type PolicyError struct {
	Policy string
	Reason string
}

func (e *PolicyError) Error() string {
	name := e.Policy
	if name == "" {
		name = "(unnamed)"
	}
	return fmt.Sprintf("contract: policy %s misconfigured: %s", name, e.Reason)
}

// UnmarkedError reports a definition with no methods carrying the policy
// marker and no abstract token in its name.
type UnmarkedError struct {
	Definition string
	Marker     Tag
}

func (e *UnmarkedError) Error() string {
	return fmt.Sprintf("contract: definition %s has no methods marked %q; if that is intentional, include an abstract token such as \"Base\" in the type name", e.Definition, string(e.Marker))
}

// ViolationError carries the complete violation list for one definition.
// Partial results are never reported; aggregation exists so an author sees
// every problem in one pass.
type ViolationError struct {
	Definition string
	Violations []string
}

func (e *ViolationError) Error() string {
	return fmt.Sprintf("contract: validation failed for %s: %s", e.Definition, strings.Join(e.Violations, "; "))
}
