package widget_test

import (
	"testing"

	"github.com/pulsegram/pulse/widget"
)

func TestDispatchRunsJobsInOrder(t *testing.T) {
	f := newFixture(t)

	var order []int
	f.scope.Dispatch(func() { order = append(order, 1) })
	f.scope.Dispatch(func() { order = append(order, 2) })
	f.scope.Dispatch(func() {
		order = append(order, 3)
		// Jobs queued mid-drain run in the same pass, after earlier ones.
		f.scope.Dispatch(func() { order = append(order, 4) })
	})
	f.scope.Drain()

	want := []int{1, 2, 3, 4}
	for i := range want {
		if i >= len(order) || order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
}

func TestDeliverRunsDocumentHandlersBeforeTarget(t *testing.T) {
	f := newFixture(t)

	var order []string
	f.scope.BindDocument(func(widget.Event) { order = append(order, "document") })
	f.scope.Bind("btn", func(widget.Event) { order = append(order, "target") })

	f.scope.Deliver(widget.Event{Target: "btn", Type: "click"})
	f.scope.Drain()

	if len(order) != 2 || order[0] != "document" || order[1] != "target" {
		t.Errorf("order = %v", order)
	}
}

func TestUnbindStopsDelivery(t *testing.T) {
	f := newFixture(t)

	calls := 0
	f.scope.Bind("btn", func(widget.Event) { calls++ })
	f.scope.Deliver(widget.Event{Target: "btn", Type: "click"})
	f.scope.Drain()
	f.scope.Unbind("btn")
	f.scope.Deliver(widget.Event{Target: "btn", Type: "click"})
	f.scope.Drain()

	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestInContainer(t *testing.T) {
	ev := widget.Event{Target: "x", Containers: []string{"page", "nav-search"}}
	if !ev.InContainer("nav-search") || !ev.InContainer("x") {
		t.Error("expected containment")
	}
	if ev.InContainer("post-1") {
		t.Error("unexpected containment")
	}
}
