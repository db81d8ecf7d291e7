package catalog

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/yungbote/temporalguard/contract"
	"github.com/yungbote/temporalguard/reflectx"
)

// DiscoveryError reports a malformed node met during traversal. It is
// propagated as-is: a broken graph is a programming error, not something
// to validate around.
type DiscoveryError struct {
	Module string
	Member string
	Reason string
}

func (e *DiscoveryError) Error() string {
	switch {
	case e.Module != "" && e.Member != "":
		return fmt.Sprintf("catalog: module %s: member %s: %s", e.Module, e.Member, e.Reason)
	case e.Module != "":
		return fmt.Sprintf("catalog: module %s: %s", e.Module, e.Reason)
	default:
		return fmt.Sprintf("catalog: %s", e.Reason)
	}
}

type entry struct {
	target any
	def    *contract.Definition
}

// Collect walks the tree depth-first and returns every definition found
// under the root's module prefix, deduplicated by type identity, in
// first-discovery order. The prefix bound is what keeps definitions
// merely imported from foreign packages out of the result.
func Collect(root *Module) ([]*contract.Definition, error) {
	entries, err := collectEntries(root, ModulePrefix(root.Path()))
	if err != nil {
		return nil, err
	}
	defs := make([]*contract.Definition, len(entries))
	for i, e := range entries {
		defs[i] = e.def
	}
	return defs, nil
}

// CollectWithin is Collect with an explicit prefix bound instead of the
// one derived from the root path.
func CollectWithin(root *Module, prefix string) ([]*contract.Definition, error) {
	entries, err := collectEntries(root, prefix)
	if err != nil {
		return nil, err
	}
	defs := make([]*contract.Definition, len(entries))
	for i, e := range entries {
		defs[i] = e.def
	}
	return defs, nil
}

// ModulePrefix derives the traversal bound from a root path. Host
// qualified paths ("github.com/org/repo/...") bound at host/org/repo,
// since that triple is what Go type paths share; bare paths bound at
// their first segment.
func ModulePrefix(path string) string {
	path = strings.Trim(strings.TrimSpace(path), "/")
	if path == "" {
		return ""
	}
	segs := strings.Split(path, "/")
	if strings.Contains(segs[0], ".") {
		if len(segs) >= 3 {
			return strings.Join(segs[:3], "/")
		}
		return strings.Join(segs, "/")
	}
	return segs[0]
}

type collector struct {
	prefix  string
	visited map[*Module]bool
	seen    map[reflect.Type]bool
	out     []entry
}

func collectEntries(root *Module, prefix string) ([]entry, error) {
	if root == nil {
		return nil, &DiscoveryError{Reason: "nil module"}
	}
	if strings.TrimSpace(prefix) == "" {
		return nil, &DiscoveryError{Module: root.Path(), Reason: "empty collection prefix"}
	}
	c := &collector{
		prefix:  prefix,
		visited: map[*Module]bool{},
		seen:    map[reflect.Type]bool{},
	}
	if err := c.walk(root); err != nil {
		return nil, err
	}
	return c.out, nil
}

func (c *collector) walk(m *Module) error {
	if c.visited[m] {
		return nil
	}
	c.visited[m] = true
	if m.path == "" {
		return &DiscoveryError{Reason: "empty module path"}
	}

	for _, mem := range m.members {
		switch mem.kind {
		case memberMounted:
			if mem.sub == nil {
				return &DiscoveryError{Module: m.path, Reason: "nil submodule"}
			}
			if !underPrefix(mem.sub.Path(), c.prefix) {
				continue
			}
			if err := c.walk(mem.sub); err != nil {
				return err
			}
		default:
			if mem.value == nil {
				return &DiscoveryError{Module: m.path, Member: mem.name, Reason: "nil member"}
			}
			t, ok := structType(mem.value)
			if !ok {
				// Functions, constants and other re-exports are legitimate
				// members; they just are not definitions.
				continue
			}
			if !underPrefix(t.PkgPath(), c.prefix) {
				continue
			}
			if c.seen[t] {
				continue
			}
			c.seen[t] = true
			d, err := reflectx.Describe(mem.value)
			if err != nil {
				return &DiscoveryError{Module: m.path, Member: mem.name, Reason: err.Error()}
			}
			c.out = append(c.out, entry{target: mem.value, def: d})
		}
	}
	return nil
}

// structType resolves a member value to its definition struct type, or
// reports that the member is not a definition at all.
func structType(v any) (reflect.Type, bool) {
	if v == nil {
		return nil, false
	}
	t, ok := v.(reflect.Type)
	if !ok {
		t = reflect.TypeOf(v)
	}
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return nil, false
	}
	return t, true
}

func underPrefix(path, prefix string) bool {
	if path == "" || prefix == "" {
		return false
	}
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}
