package widget_test

import (
	"testing"

	"github.com/pulsegram/pulse/pkg/api"
	"github.com/pulsegram/pulse/pkg/dom"
	"github.com/pulsegram/pulse/pkg/uitest"
	"github.com/pulsegram/pulse/widget"
)

func TestMountWiresAnnouncedWidgets(t *testing.T) {
	f := newFixture(t)
	f.doc.Seed("root", &dom.Node{Tag: "button", ID: "like-btn-42"})
	f.doc.Seed("root", &dom.Node{Tag: "svg", ID: "like-icon-42"})
	f.doc.Seed("root", &dom.Node{Tag: "span", ID: "like-count-42"})

	page := widget.NewPage(f.scope)
	if err := page.Mount(widget.MountSpec{Kind: "like", Subject: "42", Count: 10}); err != nil {
		t.Fatalf("Mount: %v", err)
	}
	f.api.Toggles[uitest.CallLikePost] = &api.ToggleResult{Confirmed: true, Active: true, HasCount: true, Count: 11}

	f.click("like-btn-42")

	if !f.doc.HasClass("like-btn-42", "liked") {
		t.Error("mounted like toggle not wired to clicks")
	}
}

func TestMountRejectsUnknownKind(t *testing.T) {
	f := newFixture(t)
	page := widget.NewPage(f.scope)
	if err := page.Mount(widget.MountSpec{Kind: "carousel"}); err == nil {
		t.Fatal("expected error for unknown kind")
	}
}

func TestShareMountOpensNewMessageModal(t *testing.T) {
	f := newFixture(t)
	f.doc.Seed("root", &dom.Node{Tag: "div", ID: "new-message-modal", Children: []*dom.Node{
		{Tag: "input", ID: "user-search-input"},
		{Tag: "div", ID: "user-search-results"},
		{Tag: "button", ID: "close-message-modal-btn"},
	}})
	f.doc.Seed("root", &dom.Node{Tag: "button", ID: "new-message-btn"})
	f.doc.Seed("root", &dom.Node{Tag: "div", ID: "share-modal-42", Children: []*dom.Node{
		{Tag: "button", ID: "share-message-btn-42"},
	}})
	f.doc.Apply([]dom.Patch{dom.Hide("new-message-modal")})

	page := widget.NewPage(f.scope)
	if err := page.Mount(widget.MountSpec{Kind: "new-message"}); err != nil {
		t.Fatalf("Mount new-message: %v", err)
	}
	if err := page.Mount(widget.MountSpec{Kind: "share", Subject: "42", BaseURL: "https://pulse.example"}); err != nil {
		t.Fatalf("Mount share: %v", err)
	}

	f.click("share-message-btn-42", "share-modal-42")

	if f.doc.Hidden("new-message-modal") {
		t.Error("confirmed share did not open the new-message modal")
	}
}
