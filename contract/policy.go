package contract

import (
	"fmt"
	"strings"
)

// Policy bundles the marker selecting methods to validate, the rules to run,
// and the option keys those rules require. Built-in policies live in the
// defn package; adding a rule to Rules is the whole extension surface.
type Policy struct {
	Name               string
	Marker             Tag
	Rules              []Rule
	RequiredOptionKeys []string
	// AbstractNameTokens exempt intentionally method-less definitions:
	// a definition with no marked methods passes only when its bare name
	// contains one of these tokens, case-insensitively. Defaults to
	// {"base"}.
	AbstractNameTokens []string
}

var defaultAbstractTokens = []string{"base"}

func (p Policy) abstractTokens() []string {
	if len(p.AbstractNameTokens) > 0 {
		return p.AbstractNameTokens
	}
	return defaultAbstractTokens
}

// Check reports whether the policy itself is usable. A policy without
// rules or without a marker is a programming error, not a property of any
// definition, so it fails identically for all of them.
func (p Policy) Check() error {
	if len(p.Rules) == 0 {
		return &PolicyError{Policy: p.Name, Reason: "no rules configured"}
	}
	if strings.TrimSpace(string(p.Marker)) == "" {
		return &PolicyError{Policy: p.Name, Reason: "no marker configured"}
	}
	return nil
}

// Validate runs every policy rule against every marked method of the
// definition and returns a single error carrying all violations, or nil.
//
// A policy without rules or without a marker is a programming error in the
// policy itself and surfaces as *PolicyError before any method is looked
// at. A definition with no marked methods fails with *UnmarkedError unless
// its name flags it as intentionally abstract; that guard catches
// definitions whose author forgot to mark anything at all.
func Validate(p Policy, d *Definition) error {
	if d == nil {
		return fmt.Errorf("contract: validate: nil definition")
	}
	if err := p.Check(); err != nil {
		return err
	}

	selected := d.Marked(p.Marker)
	if len(selected) == 0 {
		if nameHasToken(d.BareName(), p.abstractTokens()) {
			return nil
		}
		return &UnmarkedError{Definition: d.Name, Marker: p.Marker}
	}

	var violations []string
	for _, m := range selected {
		for _, rule := range p.Rules {
			if rule.Check == nil {
				continue
			}
			for _, msg := range rule.Check(d, m.Name, m) {
				violations = append(violations, attribute(msg, rule.Name, d.Name, m.Name))
			}
		}
	}
	if len(violations) > 0 {
		return &ViolationError{Definition: d.Name, Violations: violations}
	}
	return nil
}

// attribute suffixes a violation with "rule | definition | method" so
// aggregated reports stay traceable.
func attribute(msg, rule, def, method string) string {
	return fmt.Sprintf("%s (%s | %s | %s)", msg, rule, def, method)
}

// Token matching runs against the bare type name, not the package path, so
// a package named "database" does not exempt its whole contents.
func nameHasToken(name string, tokens []string) bool {
	lower := strings.ToLower(name)
	for _, tok := range tokens {
		tok = strings.ToLower(strings.TrimSpace(tok))
		if tok != "" && strings.Contains(lower, tok) {
			return true
		}
	}
	return false
}
