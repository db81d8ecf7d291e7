// Package contract is the policy-driven validator for remotely invocable
// method definitions. It reasons over normalized descriptors only; building
// descriptors from live Go values is the reflectx package's job, and
// discovering definitions across a declaration tree is the catalog
// package's job.
package contract

import (
	"context"
	"reflect"
)

// Tag is a marker attached to a method at definition time. The validator
// only ever reads tags; attaching them is the defn package's job.
type Tag string

type TagSet map[Tag]struct{}

func NewTagSet(tags ...Tag) TagSet {
	s := make(TagSet, len(tags))
	for _, t := range tags {
		s[t] = struct{}{}
	}
	return s
}

func (s TagSet) Has(t Tag) bool {
	_, ok := s[t]
	return ok
}

func (s TagSet) Add(t Tag) {
	s[t] = struct{}{}
}

// Binding says how a method value relates to its receiver.
type Binding int

const (
	// BindingFree is a plain function with no receiver.
	BindingFree Binding = iota
	// BindingBound is a method value taken from an instance; the receiver
	// is already applied and does not appear in Params.
	BindingBound
	// BindingUnbound is a method taken from a type; the receiver is the
	// leading parameter.
	BindingUnbound
)

func (b Binding) String() string {
	switch b {
	case BindingFree:
		return "free"
	case BindingBound:
		return "bound"
	case BindingUnbound:
		return "unbound"
	default:
		return "unknown"
	}
}

// Param is one declared parameter. A nil Type means the annotation is
// absent, which only happens on hand-built descriptors.
type Param struct {
	Name string
	Type reflect.Type
}

// Method is the normalized view of one method.
type Method struct {
	Name    string
	Binding Binding
	// Params is the raw declared list: it includes the receiver when the
	// binding is unbound and any SDK-injected leading context.
	Params []Param
	// Return is the first declared result. A trailing error result is
	// recorded in HasError and excluded here; nil means the method
	// declares no non-error result.
	Return   reflect.Type
	HasError bool
	Markers  TagSet
}

var contextType = reflect.TypeOf((*context.Context)(nil)).Elem()

// CallerParams returns the arguments a caller supplies: Params minus the
// receiver when unbound, minus a leading Context. Context detection is by
// interface shape rather than identity so that SDK contexts (for example a
// workflow Context) are treated the same as context.Context.
func (m *Method) CallerParams() []Param {
	if m == nil {
		return nil
	}
	params := m.Params
	if m.Binding == BindingUnbound && len(params) > 0 {
		params = params[1:]
	}
	if len(params) > 0 && isInjectedContext(params[0].Type) {
		params = params[1:]
	}
	return params
}

func (m *Method) HasMarker(t Tag) bool {
	return m != nil && m.Markers.Has(t)
}

func isInjectedContext(t reflect.Type) bool {
	if t == nil {
		return false
	}
	if t == contextType {
		return true
	}
	return t.Kind() == reflect.Interface && t.Name() == "Context"
}

// Definition is the normalized view of one definition type.
type Definition struct {
	// Name is the qualified name, e.g. "clonetree.RootAlpha".
	Name string
	// Ancestry lists embedded definition types, root first. Promoted
	// methods appear in Methods as if declared locally.
	Ancestry []string
	// Methods in enumeration order (reflect enumerates exported methods
	// in lexical name order).
	Methods []*Method
	// Attributes snapshots exported field values by name, including
	// promoted fields. The call-option attribute for method M lives under
	// OptsAttr(M).
	Attributes map[string]any
}

// BareName is the definition name without its package qualifier.
func (d *Definition) BareName() string {
	if d == nil {
		return ""
	}
	name := d.Name
	for i := len(name) - 1; i >= 0; i-- {
		if name[i] == '.' {
			return name[i+1:]
		}
	}
	return name
}

func (d *Definition) Method(name string) *Method {
	if d == nil {
		return nil
	}
	for _, m := range d.Methods {
		if m != nil && m.Name == name {
			return m
		}
	}
	return nil
}

// Marked returns the methods carrying the tag, in enumeration order.
func (d *Definition) Marked(t Tag) []*Method {
	if d == nil {
		return nil
	}
	var out []*Method
	for _, m := range d.Methods {
		if m.HasMarker(t) {
			out = append(out, m)
		}
	}
	return out
}
