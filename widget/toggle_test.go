package widget_test

import (
	"testing"

	"github.com/pulsegram/pulse/internal/errors"
	"github.com/pulsegram/pulse/pkg/api"
	"github.com/pulsegram/pulse/pkg/dom"
	"github.com/pulsegram/pulse/pkg/uitest"
	"github.com/pulsegram/pulse/widget"
)

type fixture struct {
	scope    *widget.Scope
	doc      *dom.Document
	api      *uitest.ScriptedAPI
	notifier *uitest.RecordingNotifier
	clock    *uitest.ManualClock
}

func newFixture(t *testing.T, opts ...widget.ScopeOption) *fixture {
	t.Helper()
	f := &fixture{
		doc:      dom.NewDocument(),
		api:      uitest.NewScriptedAPI(),
		notifier: &uitest.RecordingNotifier{},
		clock:    uitest.NewClock(),
	}
	opts = append([]widget.ScopeOption{
		widget.WithClock(f.clock),
		widget.WithSynchronousRequests(),
	}, opts...)
	f.scope = widget.NewScope(f.api, f.doc, f.notifier, opts...)
	return f
}

func (f *fixture) click(target string, containers ...string) {
	f.scope.Deliver(widget.Event{Target: target, Type: "click", Containers: containers})
	f.scope.Drain()
}

func (f *fixture) input(target, value string, containers ...string) {
	f.scope.Deliver(widget.Event{Target: target, Type: "input", Value: value, Containers: containers})
	f.scope.Drain()
}

func seedLikeButton(f *fixture, postID string, liked bool, count int) {
	classes := []string{"like-btn"}
	if liked {
		classes = append(classes, "liked")
	}
	f.doc.Seed("root", &dom.Node{Tag: "button", ID: "like-btn-" + postID, Classes: classes})
	f.doc.Seed("root", &dom.Node{Tag: "svg", ID: "like-icon-" + postID})
	f.doc.Seed("root", &dom.Node{Tag: "span", ID: "like-count-" + postID})
	widget.NewLikeToggle(f.scope, postID, widget.ToggleSeed{Active: liked, Count: count})
}

func TestLikeReconciliationOverwritesOptimisticGuess(t *testing.T) {
	f := newFixture(t)
	seedLikeButton(f, "42", false, 10)

	// Another user liked concurrently: the server reports 12, not the
	// optimistic 11.
	f.api.Toggles[uitest.CallLikePost] = &api.ToggleResult{Confirmed: true, Active: true, HasCount: true, Count: 12}

	f.click("like-btn-42")

	if !f.doc.HasClass("like-btn-42", "liked") {
		t.Error("button not rendered liked")
	}
	if got := f.doc.Text("like-count-42"); got != "12" {
		t.Errorf("count = %q, want 12", got)
	}
	if got := f.doc.Attr("like-icon-42", "fill"); got != "#ed4956" {
		t.Errorf("icon fill = %q", got)
	}
	if got := f.api.LastArgs["post_id"]; got != "42" {
		t.Errorf("post_id = %q", got)
	}
}

func TestAmbiguousResponseLeavesOptimisticState(t *testing.T) {
	f := newFixture(t)
	seedLikeButton(f, "42", false, 10)
	// Scripted default is an unconfirmed result.

	f.click("like-btn-42")

	if !f.doc.HasClass("like-btn-42", "liked") {
		t.Error("optimistic state dropped on ambiguous response")
	}
	if got := f.doc.Text("like-count-42"); got != "11" {
		t.Errorf("count = %q, want optimistic 11", got)
	}
}

func TestTransportFailureRollsBackOptimisticState(t *testing.T) {
	f := newFixture(t)
	seedLikeButton(f, "42", true, 10)
	f.api.Errs[uitest.CallLikePost] = &errors.TransportError{Endpoint: api.EndpointLikePost, StatusCode: 500}

	f.click("like-btn-42")

	if !f.doc.HasClass("like-btn-42", "liked") {
		t.Error("liked state not restored after transport failure")
	}
	if got := f.doc.Text("like-count-42"); got != "10" {
		t.Errorf("count = %q, want restored 10", got)
	}
}

func TestSecondToggleWhileInFlightIsDropped(t *testing.T) {
	f := newFixture(t)
	seedLikeButton(f, "42", false, 10)

	// Both clicks are queued before the loop runs; the second arrives
	// while the first request's continuation is still pending.
	f.scope.Deliver(widget.Event{Target: "like-btn-42", Type: "click"})
	f.scope.Deliver(widget.Event{Target: "like-btn-42", Type: "click"})
	f.scope.Drain()

	if n := f.api.CallCount(uitest.CallLikePost); n != 1 {
		t.Errorf("requests = %d, want 1 (second click suppressed)", n)
	}
}

func TestCounterNeverRendersBelowZero(t *testing.T) {
	f := newFixture(t)
	seedLikeButton(f, "42", true, 0)

	f.click("like-btn-42")

	if got := f.doc.Text("like-count-42"); got != "0" {
		t.Errorf("count = %q, want clamped 0", got)
	}
}

func TestFollowOverrideRendersAuthoritativeState(t *testing.T) {
	f := newFixture(t)
	f.doc.Seed("root", &dom.Node{Tag: "button", ID: "follow-btn-maria", Text: "Follow"})
	f.doc.Seed("root", &dom.Node{Tag: "span", ID: "follower-count-maria"})
	widget.NewFollowToggle(f.scope, "maria", widget.ToggleSeed{Active: false, Count: 5})

	// The server disagrees with the optimistic "following" guess.
	f.api.Toggles[uitest.CallFollowUser] = &api.ToggleResult{Confirmed: true, Active: false, HasCount: true, Count: 4}

	f.click("follow-btn-maria")

	if f.doc.HasClass("follow-btn-maria", "following") {
		t.Error("following class kept against authoritative false")
	}
	if got := f.doc.Text("follow-btn-maria"); got != "Follow" {
		t.Errorf("label = %q, want Follow", got)
	}
	if got := f.doc.Text("follower-count-maria"); got != "4" {
		t.Errorf("count = %q, want 4", got)
	}
	if got := f.notifier.Last(); got != "success: You unfollowed maria" {
		t.Errorf("notification = %q", got)
	}
}

func TestFollowConfirmedNotifies(t *testing.T) {
	f := newFixture(t)
	f.doc.Seed("root", &dom.Node{Tag: "button", ID: "follow-btn-maria", Text: "Follow"})
	f.doc.Seed("root", &dom.Node{Tag: "span", ID: "follower-count-maria"})
	widget.NewFollowToggle(f.scope, "maria", widget.ToggleSeed{Active: false, Count: 5})
	f.api.Toggles[uitest.CallFollowUser] = &api.ToggleResult{Confirmed: true, Active: true, HasCount: true, Count: 6}

	f.click("follow-btn-maria")

	if got := f.doc.Text("follow-btn-maria"); got != "Following" {
		t.Errorf("label = %q", got)
	}
	if got := f.notifier.Last(); got != "success: You are now following maria" {
		t.Errorf("notification = %q", got)
	}
}

func TestSaveToggleNotifies(t *testing.T) {
	f := newFixture(t)
	f.doc.Seed("root", &dom.Node{Tag: "button", ID: "save-btn-7"})
	f.doc.Seed("root", &dom.Node{Tag: "polygon", ID: "save-icon-7"})
	widget.NewSaveToggle(f.scope, "7", widget.ToggleSeed{})
	f.api.Toggles[uitest.CallSavePost] = &api.ToggleResult{Confirmed: true, Active: true}

	f.click("save-btn-7")

	if !f.doc.HasClass("save-btn-7", "saved") {
		t.Error("saved class missing")
	}
	if got := f.doc.Attr("save-icon-7", "fill"); got != "currentColor" {
		t.Errorf("icon fill = %q", got)
	}
	if got := f.notifier.Last(); got != "success: Post saved" {
		t.Errorf("notification = %q", got)
	}

	f.api.Toggles[uitest.CallSavePost] = &api.ToggleResult{Confirmed: true, Active: false}
	f.click("save-btn-7")
	if got := f.notifier.Last(); got != "success: Post removed from saved" {
		t.Errorf("notification = %q", got)
	}
}

func TestCommentLikeWaitsForServer(t *testing.T) {
	// Held request: no optimistic render while in flight.
	spawner := &uitest.ManualSpawner{}
	f2 := newFixture(t, widget.WithSpawner(spawner.Spawn))
	f2.doc.Seed("root", &dom.Node{Tag: "button", ID: "comment-like-btn-9"})
	f2.doc.Seed("root", &dom.Node{Tag: "span", ID: "comment-likes-9"})
	widget.NewCommentLikeToggle(f2.scope, "9", widget.ToggleSeed{})
	f2.api.Toggles[uitest.CallLikeComment] = &api.ToggleResult{Confirmed: true, Active: true, HasCount: true, Count: 3}

	f2.click("comment-like-btn-9")
	if f2.doc.HasClass("comment-like-btn-9", "liked") {
		t.Error("comment like rendered before server confirmation")
	}

	spawner.ReleaseAll()
	f2.scope.Drain()
	if !f2.doc.HasClass("comment-like-btn-9", "liked") {
		t.Error("confirmed like not rendered")
	}
	if got := f2.doc.Text("comment-likes-9"); got != "3 likes" {
		t.Errorf("likes label = %q", got)
	}
	if f2.doc.Hidden("comment-likes-9") {
		t.Error("likes label hidden at count 3")
	}
}

func TestCommentLikesLabelHiddenAtZero(t *testing.T) {
	f := newFixture(t)
	f.doc.Seed("root", &dom.Node{Tag: "button", ID: "comment-like-btn-9", Classes: []string{"liked"}})
	f.doc.Seed("root", &dom.Node{Tag: "span", ID: "comment-likes-9", Text: "1 likes"})
	widget.NewCommentLikeToggle(f.scope, "9", widget.ToggleSeed{Active: true, Count: 1})
	f.api.Toggles[uitest.CallLikeComment] = &api.ToggleResult{Confirmed: true, Active: false, HasCount: true, Count: 0}

	f.click("comment-like-btn-9")

	if f.doc.HasClass("comment-like-btn-9", "liked") {
		t.Error("liked class kept after unlike")
	}
	if !f.doc.Hidden("comment-likes-9") {
		t.Error("likes label visible at count 0")
	}
}
