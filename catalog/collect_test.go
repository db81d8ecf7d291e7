package catalog

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/yungbote/temporalguard/defn"
	"github.com/yungbote/temporalguard/options"
)

const testModulePath = "github.com/yungbote/temporalguard/catalog"

type widget struct{ Label string }
type gadget struct{ Label string }
type gizmo struct{ Label string }

type meter struct {
	OptsRead map[string]any
}

func newMeter() *meter {
	return &meter{OptsRead: options.DefaultActivityCallOptions()}
}

func (m *meter) Read(ctx context.Context, in widget) (gadget, error) {
	return gadget{Label: in.Label}, nil
}

type brokenMeter struct{}

func (m *brokenMeter) Read(ctx context.Context, in widget) (gadget, error) {
	return gadget{}, nil
}

func init() {
	defn.MustActivity(&meter{}, "Read")
	defn.MustActivity(&brokenMeter{}, "Read")
}

func TestModulePrefix(t *testing.T) {
	cases := []struct {
		path, want string
	}{
		{"github.com/acme/billing/cards/chips", "github.com/acme/billing"},
		{"github.com/acme/billing", "github.com/acme/billing"},
		{"github.com/acme", "github.com/acme"},
		{"billing/cards", "billing"},
		{"billing", "billing"},
		{" /billing/cards/ ", "billing"},
		{"", ""},
	}
	for _, c := range cases {
		if got := ModulePrefix(c.path); got != c.want {
			t.Fatalf("ModulePrefix(%q): got %q, want %q", c.path, got, c.want)
		}
	}
}

func TestUnderPrefix(t *testing.T) {
	if !underPrefix("github.com/acme/billing/cards", "github.com/acme/billing") {
		t.Fatalf("nested path should match")
	}
	if underPrefix("github.com/acme/billingx", "github.com/acme/billing") {
		t.Fatalf("sibling with shared spelling must not match")
	}
	if underPrefix("time", "") || underPrefix("", "time") {
		t.Fatalf("empty inputs never match")
	}
}

func TestCollect_NilModule(t *testing.T) {
	_, err := Collect(nil)
	var de *DiscoveryError
	if !errors.As(err, &de) || !strings.Contains(de.Error(), "nil module") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCollect_EmptyPathFails(t *testing.T) {
	if _, err := Collect(New("   ")); err == nil {
		t.Fatalf("empty root path should fail")
	}
	_, err := CollectWithin(New(""), testModulePath)
	var de *DiscoveryError
	if !errors.As(err, &de) || !strings.Contains(de.Error(), "module path") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCollectWithin_EmptyPrefixFails(t *testing.T) {
	_, err := CollectWithin(New(testModulePath), " ")
	var de *DiscoveryError
	if !errors.As(err, &de) || !strings.Contains(de.Error(), "prefix") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCollect_NilMemberFails(t *testing.T) {
	root := New(testModulePath).Add("Ghost", nil)
	_, err := Collect(root)
	var de *DiscoveryError
	if !errors.As(err, &de) || de.Member != "Ghost" {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCollect_NilSubmoduleFails(t *testing.T) {
	root := New(testModulePath).Mount(nil)
	_, err := Collect(root)
	var de *DiscoveryError
	if !errors.As(err, &de) || !strings.Contains(de.Error(), "nil submodule") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCollect_SkipsNonStructMembers(t *testing.T) {
	root := New(testModulePath).
		Add("Version", 3).
		Add("Helper", func() {}).
		Declare(widget{})
	defs, err := Collect(root)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(defs) != 1 || defs[0].BareName() != "widget" {
		t.Fatalf("unexpected definitions: %#v", defs)
	}
}

func TestCollect_ExcludesForeignTypes(t *testing.T) {
	root := New(testModulePath).
		Declare(widget{}).
		Add("When", time.Time{})
	defs, err := Collect(root)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(defs) != 1 || defs[0].BareName() != "widget" {
		t.Fatalf("imported foreign types must not be collected: %#v", defs)
	}
}

func TestCollectWithin_PrefixOverride(t *testing.T) {
	root := New(testModulePath).
		Declare(widget{}).
		Add("When", time.Time{})
	defs, err := CollectWithin(root, "time")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(defs) != 1 || defs[0].Name != "time.Time" {
		t.Fatalf("prefix override should rebound membership: %#v", defs)
	}
}

func TestCollect_ForeignSubmoduleNotEntered(t *testing.T) {
	root := New(testModulePath).
		Mount(New("example.com/vendored/kit").Declare(gizmo{}))
	defs, err := Collect(root)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(defs) != 0 {
		t.Fatalf("foreign submodules are out of bounds: %#v", defs)
	}
}

func TestCollect_DedupByTypeIdentity(t *testing.T) {
	root := New(testModulePath).
		Declare(widget{}, &widget{}).
		Add("AlsoAWidget", widget{Label: "alias"})
	defs, err := Collect(root)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(defs) != 1 {
		t.Fatalf("aliases of one type must count once: %#v", defs)
	}
}

func TestCollect_FirstDiscoveryOrder(t *testing.T) {
	inner := New(testModulePath + "/inner").Declare(gadget{})
	root := New(testModulePath).
		Declare(widget{}).
		Mount(inner).
		Declare(gizmo{})
	defs, err := Collect(root)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"widget", "gadget", "gizmo"}
	if len(defs) != len(want) {
		t.Fatalf("unexpected definitions: %#v", defs)
	}
	for i, name := range want {
		if defs[i].BareName() != name {
			t.Fatalf("definition %d: got %q, want %q", i, defs[i].BareName(), name)
		}
	}
}

func TestCollect_LocalCycleTerminates(t *testing.T) {
	a := New(testModulePath + "/a").Declare(widget{})
	b := New(testModulePath + "/b").Declare(gadget{})
	a.Mount(b)
	b.Mount(a)
	defs, err := Collect(a)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(defs) != 2 {
		t.Fatalf("unexpected definitions: %#v", defs)
	}
}
