package widget_test

import (
	"testing"
	"time"

	"github.com/pulsegram/pulse/internal/errors"
	"github.com/pulsegram/pulse/pkg/api"
	"github.com/pulsegram/pulse/pkg/dom"
	"github.com/pulsegram/pulse/pkg/uitest"
	"github.com/pulsegram/pulse/widget"
)

func seedNewMessageModal(f *fixture) *widget.NewMessageModal {
	f.doc.Seed("root", &dom.Node{Tag: "div", ID: "new-message-modal", Children: []*dom.Node{
		{Tag: "input", ID: "user-search-input"},
		{Tag: "div", ID: "user-search-results"},
		{Tag: "button", ID: "close-message-modal-btn"},
	}})
	f.doc.Seed("root", &dom.Node{Tag: "button", ID: "new-message-btn"})
	f.doc.Apply([]dom.Patch{dom.Hide("new-message-modal")})
	return widget.NewNewMessageModal(f.scope)
}

func TestOpenFocusesSearchInput(t *testing.T) {
	f := newFixture(t)
	seedNewMessageModal(f)

	f.click("new-message-btn")

	if f.doc.Hidden("new-message-modal") {
		t.Error("modal not shown")
	}
	if f.doc.Focused() != "user-search-input" {
		t.Error("search input not focused")
	}
}

func TestCloseResetsSearchState(t *testing.T) {
	f := newFixture(t)
	seedNewMessageModal(f)
	f.api.Searches["ma"] = &api.SearchResults{Users: []api.UserResult{{Username: "maria"}}}

	f.click("new-message-btn")
	f.input("user-search-input", "ma", "new-message-modal")
	f.clock.Advance(300 * time.Millisecond)
	f.scope.Drain()

	f.click("close-message-modal-btn", "new-message-modal")

	if !f.doc.Hidden("new-message-modal") {
		t.Error("modal still visible")
	}
	if got := f.doc.Attr("user-search-input", "value"); got != "" {
		t.Errorf("search input not cleared: %q", got)
	}
	if n := f.doc.ChildCount("user-search-results"); n != 0 {
		t.Errorf("results not cleared: %d children", n)
	}
}

func TestPickingUserCreatesConversationAndNavigates(t *testing.T) {
	f := newFixture(t)
	seedNewMessageModal(f)
	f.api.Searches["ma"] = &api.SearchResults{Users: []api.UserResult{{Username: "maria"}}}
	f.api.ConversationID = "15"

	f.click("new-message-btn")
	f.input("user-search-input", "ma", "new-message-modal")
	f.clock.Advance(300 * time.Millisecond)
	f.scope.Drain()

	f.click("pick-user-maria", "new-message-modal")

	if got := f.api.LastArgs["participants"]; got != "maria" {
		t.Errorf("participants = %q", got)
	}
	navs := f.doc.Navigations()
	if len(navs) != 1 || navs[0] != "/messages/15/" {
		t.Errorf("navigations = %v", navs)
	}
	if !f.doc.Hidden("new-message-modal") {
		t.Error("modal still open after selection")
	}
}

func TestConversationFailureNotifies(t *testing.T) {
	f := newFixture(t)
	seedNewMessageModal(f)
	f.api.Searches["ma"] = &api.SearchResults{Users: []api.UserResult{{Username: "maria"}}}
	f.api.Errs[uitest.CallCreateConversation] = &errors.ApplicationError{Endpoint: api.EndpointCreateConversation}

	f.click("new-message-btn")
	f.input("user-search-input", "ma", "new-message-modal")
	f.clock.Advance(300 * time.Millisecond)
	f.scope.Drain()

	f.click("pick-user-maria", "new-message-modal")

	if got := f.notifier.Last(); got != "error: Failed to create conversation. Please try again." {
		t.Errorf("notification = %q", got)
	}
	if len(f.doc.Navigations()) != 0 {
		t.Error("navigated despite failure")
	}
}
