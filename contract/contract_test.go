package contract

import (
	"context"
	"reflect"
	"testing"
)

type noteIn struct{ Text string }
type noteOut struct{ Saved bool }

// Context mirrors the shape of SDK-injected contexts that are not
// context.Context itself.
type Context interface {
	Done() <-chan struct{}
}

var (
	ctxParam  = Param{Name: "ctx", Type: reflect.TypeOf((*context.Context)(nil)).Elem()}
	wfCtx     = Param{Name: "ctx", Type: reflect.TypeOf((*Context)(nil)).Elem()}
	inParam   = Param{Name: "in", Type: reflect.TypeOf(noteIn{})}
	recvParam = Param{Name: "recv", Type: reflect.TypeOf(&struct{}{})}
)

func TestCallerParams_BoundDropsLeadingContext(t *testing.T) {
	m := &Method{Name: "Save", Binding: BindingBound, Params: []Param{ctxParam, inParam}}
	got := m.CallerParams()
	if len(got) != 1 || got[0].Name != "in" {
		t.Fatalf("unexpected caller params: %#v", got)
	}
}

func TestCallerParams_UnboundDropsReceiverAndContext(t *testing.T) {
	m := &Method{Name: "Save", Binding: BindingUnbound, Params: []Param{recvParam, ctxParam, inParam}}
	got := m.CallerParams()
	if len(got) != 1 || got[0].Name != "in" {
		t.Fatalf("unexpected caller params: %#v", got)
	}
}

func TestCallerParams_FreeKeepsAllButContext(t *testing.T) {
	m := &Method{Name: "Save", Binding: BindingFree, Params: []Param{inParam}}
	if got := m.CallerParams(); len(got) != 1 || got[0].Name != "in" {
		t.Fatalf("unexpected caller params: %#v", got)
	}
}

func TestCallerParams_TreatsSDKContextAsInjected(t *testing.T) {
	m := &Method{Name: "Run", Binding: BindingBound, Params: []Param{wfCtx, inParam}}
	got := m.CallerParams()
	if len(got) != 1 || got[0].Name != "in" {
		t.Fatalf("unexpected caller params: %#v", got)
	}
}

func TestCallerParams_ContextOnlyMeansNoInput(t *testing.T) {
	m := &Method{Name: "Ping", Binding: BindingBound, Params: []Param{ctxParam}}
	if got := m.CallerParams(); len(got) != 0 {
		t.Fatalf("unexpected caller params: %#v", got)
	}
}

func TestDefinition_MethodAndMarked(t *testing.T) {
	save := &Method{Name: "Save", Markers: NewTagSet("activity")}
	load := &Method{Name: "Load"}
	d := &Definition{Name: "notes.Repo", Methods: []*Method{load, save}}

	if got := d.Method("Save"); got != save {
		t.Fatalf("unexpected method lookup: %#v", got)
	}
	if got := d.Method("Missing"); got != nil {
		t.Fatalf("missing method should be nil, got %#v", got)
	}
	marked := d.Marked("activity")
	if len(marked) != 1 || marked[0] != save {
		t.Fatalf("unexpected marked methods: %#v", marked)
	}
}

func TestDefinition_BareName(t *testing.T) {
	d := &Definition{Name: "clonetree.RootAlpha"}
	if got := d.BareName(); got != "RootAlpha" {
		t.Fatalf("unexpected bare name: %q", got)
	}
	d = &Definition{Name: "Unqualified"}
	if got := d.BareName(); got != "Unqualified" {
		t.Fatalf("unexpected bare name: %q", got)
	}
}

func TestBinding_String(t *testing.T) {
	cases := map[Binding]string{
		BindingFree:    "free",
		BindingBound:   "bound",
		BindingUnbound: "unbound",
		Binding(99):    "unknown",
	}
	for b, want := range cases {
		if got := b.String(); got != want {
			t.Fatalf("unexpected string for %d: %q", int(b), got)
		}
	}
}

func TestTagSet(t *testing.T) {
	s := NewTagSet("a")
	if !s.Has("a") || s.Has("b") {
		t.Fatalf("unexpected tag set: %#v", s)
	}
	s.Add("b")
	if !s.Has("b") {
		t.Fatalf("Add did not stick: %#v", s)
	}
}
