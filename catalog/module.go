// Package catalog models declaration graphs: trees of namespace nodes
// holding definition structs, re-exports and submodules. The collector
// walks a tree depth-first and hands every definition found to the
// validator, which is how a whole codebase gets checked in one call.
package catalog

import "strings"

type memberKind int

const (
	memberDeclared memberKind = iota
	memberAdded
	memberMounted
)

type member struct {
	kind  memberKind
	name  string
	value any
	sub   *Module
}

// Module is one namespace node. Members keep insertion order, which is
// what makes collection order deterministic.
type Module struct {
	path    string
	members []member
}

// New creates a namespace node identified by an import-path-like string,
// e.g. "github.com/acme/billing/cards".
func New(path string) *Module {
	return &Module{path: strings.TrimSpace(path)}
}

func (m *Module) Path() string {
	if m == nil {
		return ""
	}
	return m.path
}

// Declare records definition structs as members. Targets may be
// instances, pointers or typed nils; the collector describes whatever
// form was declared.
func (m *Module) Declare(targets ...any) *Module {
	for _, t := range targets {
		m.members = append(m.members, member{kind: memberDeclared, name: declaredName(t), value: t})
	}
	return m
}

// Add records a named member: a re-export, an alias, a function, a
// constant. Struct-typed values count as definitions like Declare's;
// everything else is carried but never validated.
func (m *Module) Add(name string, v any) *Module {
	m.members = append(m.members, member{kind: memberAdded, name: strings.TrimSpace(name), value: v})
	return m
}

// Mount attaches a submodule edge. Mounting an ancestor is allowed; the
// collector's visited set keeps cycles finite.
func (m *Module) Mount(sub *Module) *Module {
	m.members = append(m.members, member{kind: memberMounted, sub: sub})
	return m
}

func declaredName(target any) string {
	t, ok := structType(target)
	if !ok {
		return ""
	}
	return t.Name()
}
