package catalog

import (
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/yungbote/temporalguard/contract"
)

// bulkLimit bounds the validation fan-out on large trees.
const bulkLimit = 8

// BulkError aggregates every per-definition failure from one tree
// validation, in discovery order.
type BulkError struct {
	Failures []error
}

func (e *BulkError) Error() string {
	msgs := make([]string, len(e.Failures))
	for i, f := range e.Failures {
		msgs[i] = f.Error()
	}
	return fmt.Sprintf("catalog: bulk validation failed for %d definitions: %s",
		len(e.Failures), strings.Join(msgs, "; "))
}

func (e *BulkError) Unwrap() []error {
	return e.Failures
}

// Marked pairs a discovered definition with its methods carrying a tag,
// plus the declared target so bootstrap code can bind method values.
type Marked struct {
	Target     any
	Definition *contract.Definition
	Methods    []*contract.Method
}

// MarkedDefinitions collects the tree and keeps every definition with at
// least one method carrying tag, in discovery order. Callers that want
// "everything with marked work" regardless of validity use this directly.
func MarkedDefinitions(root *Module, tag contract.Tag) ([]Marked, error) {
	entries, err := collectEntries(root, ModulePrefix(root.Path()))
	if err != nil {
		return nil, err
	}
	return markedEntries(entries, tag), nil
}

func markedEntries(entries []entry, tag contract.Tag) []Marked {
	var out []Marked
	for _, e := range entries {
		methods := e.def.Marked(tag)
		if len(methods) == 0 {
			continue
		}
		out = append(out, Marked{Target: e.target, Definition: e.def, Methods: methods})
	}
	return out
}

// ValidateTree collects the tree, filters to definitions carrying the
// policy marker and validates each one. It never stops at the first bad
// definition: every failure lands in one *BulkError so the developer sees
// all problems in a single pass. On success the marked pairs come back,
// ready for registration.
//
// Per-definition validation is pure, so it fans out; results re-enter
// discovery order before aggregation because report order is observable.
func ValidateTree(root *Module, p contract.Policy) ([]Marked, error) {
	if err := p.Check(); err != nil {
		return nil, err
	}
	entries, err := collectEntries(root, ModulePrefix(root.Path()))
	if err != nil {
		return nil, err
	}
	marked := markedEntries(entries, p.Marker)

	results := make([]error, len(marked))
	var g errgroup.Group
	g.SetLimit(bulkLimit)
	for i, m := range marked {
		i, m := i, m
		g.Go(func() error {
			results[i] = contract.Validate(p, m.Definition)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var failures []error
	for _, res := range results {
		if res != nil {
			failures = append(failures, res)
		}
	}
	if len(failures) > 0 {
		return nil, &BulkError{Failures: failures}
	}
	return marked, nil
}
