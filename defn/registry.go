// Package defn attaches invocation markers to method definitions and owns
// the built-in validation policies. Marking happens at definition time,
// typically from an init function next to the type, and is what makes a
// method visible to the validator and the worker bootstrap.
package defn

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/yungbote/temporalguard/contract"
)

const (
	TagActivity    = contract.Tag("activity")
	TagWorkflowRun = contract.Tag("workflow_run")
)

type markKey struct {
	typ    reflect.Type
	method string
}

type markRegistry struct {
	mu    sync.RWMutex
	marks map[markKey]contract.TagSet
}

var registry = &markRegistry{marks: make(map[markKey]contract.TagSet)}

// Activity marks the named methods of target as remotely invocable
// activities. Marking a method twice is a no-op; naming a method the type
// does not have is an error.
func Activity(target any, methods ...string) error {
	return mark(target, TagActivity, methods...)
}

// WorkflowRun marks the single entry-point method of a workflow definition.
func WorkflowRun(target any, method string) error {
	return mark(target, TagWorkflowRun, method)
}

func MustActivity(target any, methods ...string) {
	if err := Activity(target, methods...); err != nil {
		panic(err)
	}
}

func MustWorkflowRun(target any, method string) {
	if err := WorkflowRun(target, method); err != nil {
		panic(err)
	}
}

// Marks reports the tags attached to target's method, including tags
// attached to embedded ancestor definitions. Nil when nothing is marked.
func Marks(target any, method string) contract.TagSet {
	t, err := definitionType(target)
	if err != nil {
		return nil
	}
	return lookup(t, method, map[reflect.Type]bool{})
}

func mark(target any, tag contract.Tag, methods ...string) error {
	t, err := definitionType(target)
	if err != nil {
		return err
	}
	if len(methods) == 0 {
		return fmt.Errorf("defn: mark %s: no methods named", t)
	}
	for _, name := range methods {
		name = strings.TrimSpace(name)
		if name == "" {
			return fmt.Errorf("defn: mark %s: empty method name", t)
		}
		if !hasMethod(t, name) {
			return fmt.Errorf("defn: mark %s: no method %s", t, name)
		}
		registry.add(t, name, tag)
	}
	return nil
}

func lookup(t reflect.Type, method string, seen map[reflect.Type]bool) contract.TagSet {
	if t == nil || seen[t] {
		return nil
	}
	seen[t] = true

	merged := registry.get(t, method)
	if t.Kind() != reflect.Struct {
		return merged
	}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.Anonymous {
			continue
		}
		ft := f.Type
		if ft.Kind() == reflect.Pointer {
			ft = ft.Elem()
		}
		if ft.Kind() != reflect.Struct {
			continue
		}
		from := lookup(ft, method, seen)
		if len(from) == 0 {
			continue
		}
		if merged == nil {
			merged = contract.NewTagSet()
		}
		for tag := range from {
			merged.Add(tag)
		}
	}
	return merged
}

// definitionType normalizes a marking target to its struct type: an
// instance, a pointer (typed nil included) or a reflect.Type all resolve
// to the same key.
func definitionType(target any) (reflect.Type, error) {
	if target == nil {
		return nil, fmt.Errorf("defn: nil definition target")
	}
	t, ok := target.(reflect.Type)
	if !ok {
		t = reflect.TypeOf(target)
	}
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("defn: definition target must be a struct type, got %v", t)
	}
	return t, nil
}

func hasMethod(t reflect.Type, name string) bool {
	if _, ok := t.MethodByName(name); ok {
		return true
	}
	_, ok := reflect.PointerTo(t).MethodByName(name)
	return ok
}

func (r *markRegistry) add(t reflect.Type, method string, tag contract.Tag) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := markKey{typ: t, method: method}
	set, ok := r.marks[key]
	if !ok {
		set = contract.NewTagSet()
		r.marks[key] = set
	}
	set.Add(tag)
}

func (r *markRegistry) get(t reflect.Type, method string) contract.TagSet {
	r.mu.RLock()
	defer r.mu.RUnlock()
	set, ok := r.marks[markKey{typ: t, method: method}]
	if !ok {
		return nil
	}
	out := contract.NewTagSet()
	for tag := range set {
		out.Add(tag)
	}
	return out
}
