package defn

import (
	"strings"
	"testing"
)

type courier struct{}

func (courier) Deliver() {}
func (courier) Track()   {}
func (*courier) Cancel() {}

type baseCourier struct{}

func (baseCourier) Reroute() {}

type nightCourier struct {
	baseCourier
}

type expressCourier struct {
	*baseCourier
}

type shipmentFlow struct{}

func (shipmentFlow) Run()  {}
func (shipmentFlow) Poke() {}

func TestActivity_MarksNamedMethods(t *testing.T) {
	if err := Activity(courier{}, "Deliver"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := Marks(courier{}, "Deliver")
	if !got.Has(TagActivity) {
		t.Fatalf("Deliver should carry the activity tag: %#v", got)
	}
}

func TestActivity_PointerReceiverMethodVisible(t *testing.T) {
	if err := Activity(courier{}, "Cancel"); err != nil {
		t.Fatalf("pointer-receiver method should be markable: %v", err)
	}
	if !Marks(&courier{}, "Cancel").Has(TagActivity) {
		t.Fatalf("Cancel should carry the activity tag")
	}
}

func TestActivity_TypedNilAndInstanceShareKey(t *testing.T) {
	if err := Activity((*courier)(nil), "Track"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !Marks(courier{}, "Track").Has(TagActivity) {
		t.Fatalf("marks via typed nil should resolve for instances too")
	}
}

func TestActivity_UnknownMethodFails(t *testing.T) {
	err := Activity(courier{}, "Teleport")
	if err == nil || !strings.Contains(err.Error(), "no method Teleport") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestActivity_NoMethodsFails(t *testing.T) {
	if err := Activity(courier{}); err == nil {
		t.Fatalf("expected an error for an empty method list")
	}
}

func TestActivity_EmptyMethodNameFails(t *testing.T) {
	if err := Activity(courier{}, "  "); err == nil {
		t.Fatalf("expected an error for a blank method name")
	}
}

func TestActivity_RejectsNonStructTargets(t *testing.T) {
	if err := Activity(42, "Deliver"); err == nil || !strings.Contains(err.Error(), "struct type") {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := Activity(nil, "Deliver"); err == nil {
		t.Fatalf("expected an error for a nil target")
	}
}

func TestMark_Idempotent(t *testing.T) {
	MustActivity(courier{}, "Deliver")
	MustActivity(courier{}, "Deliver")
	got := Marks(courier{}, "Deliver")
	if len(got) != 1 {
		t.Fatalf("re-marking should not grow the tag set: %#v", got)
	}
}

func TestWorkflowRun_MarksRunMethod(t *testing.T) {
	if err := WorkflowRun(shipmentFlow{}, "Run"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := Marks(shipmentFlow{}, "Run")
	if !got.Has(TagWorkflowRun) {
		t.Fatalf("Run should carry the workflow_run tag: %#v", got)
	}
	if got.Has(TagActivity) {
		t.Fatalf("Run should not carry the activity tag: %#v", got)
	}
}

func TestMarks_UnmarkedMethodIsNil(t *testing.T) {
	if got := Marks(shipmentFlow{}, "Poke"); len(got) != 0 {
		t.Fatalf("unmarked method should have no tags: %#v", got)
	}
}

func TestMarks_EmbeddedAncestorVisible(t *testing.T) {
	MustActivity(baseCourier{}, "Reroute")
	if !Marks(nightCourier{}, "Reroute").Has(TagActivity) {
		t.Fatalf("marker on embedded ancestor should be visible on the outer type")
	}
	if !Marks(expressCourier{}, "Reroute").Has(TagActivity) {
		t.Fatalf("marker should be visible through pointer embedding too")
	}
}

func TestMustActivity_PanicsOnUnknownMethod(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected a panic")
		}
	}()
	MustActivity(courier{}, "Teleport")
}
