package widget_test

import (
	"testing"

	"github.com/pulsegram/pulse/internal/errors"
	"github.com/pulsegram/pulse/pkg/api"
	"github.com/pulsegram/pulse/pkg/dom"
	"github.com/pulsegram/pulse/pkg/uitest"
	"github.com/pulsegram/pulse/widget"
)

func seedWizard(f *fixture) *widget.Wizard {
	f.doc.Seed("root", &dom.Node{Tag: "form", ID: "create-post-form", Children: []*dom.Node{
		{Tag: "div", ID: "post-upload", Children: []*dom.Node{
			{Tag: "input", ID: "media-input"},
			{Tag: "button", ID: "next-btn"},
		}},
		{Tag: "div", ID: "post-details", Classes: []string{"hidden"}, Children: []*dom.Node{
			{Tag: "button", ID: "back-btn"},
			{Tag: "button", ID: "share-btn"},
		}},
	}})
	return widget.NewWizard(f.scope)
}

func TestNextWithoutMediaShowsValidationMessage(t *testing.T) {
	f := newFixture(t)
	seedWizard(f)

	f.click("next-btn")

	if got := f.notifier.Last(); got != "error: Please select an image or video" {
		t.Errorf("notification = %q", got)
	}
	if f.doc.HasClass("post-upload", "hidden") {
		t.Error("upload step hidden without media")
	}
}

func TestNextAndBackSwapSections(t *testing.T) {
	f := newFixture(t)
	w := seedWizard(f)
	w.HandleMediaSelect("sunset.jpg", []byte("jpegdata"))

	f.click("next-btn")
	if !f.doc.HasClass("post-upload", "hidden") || f.doc.HasClass("post-details", "hidden") {
		t.Error("sections not swapped on next")
	}
	if f.doc.Disabled("share-btn") {
		t.Error("share disabled on details step")
	}

	f.click("back-btn")
	if f.doc.HasClass("post-upload", "hidden") || !f.doc.HasClass("post-details", "hidden") {
		t.Error("sections not swapped on back")
	}
	if !f.doc.Disabled("share-btn") {
		t.Error("share enabled on upload step")
	}
}

func TestShareSuccessNavigatesToRedirect(t *testing.T) {
	f := newFixture(t)
	w := seedWizard(f)
	w.HandleMediaSelect("sunset.jpg", []byte("jpegdata"))
	f.api.Redirect = "/post/88/"

	f.click("next-btn")
	f.scope.Deliver(widget.Event{Target: "share-btn", Type: "click", Value: "my caption"})
	f.scope.Drain()

	navs := f.doc.Navigations()
	if len(navs) != 1 || navs[0] != "/post/88/" {
		t.Errorf("navigations = %v", navs)
	}
	if got := f.api.LastArgs["caption"]; got != "my caption" {
		t.Errorf("caption = %q", got)
	}
}

func TestShareFailureSurfacesServerMessage(t *testing.T) {
	f := newFixture(t)
	w := seedWizard(f)
	w.HandleMediaSelect("clip.mp4", nil)
	f.api.Errs[uitest.CallCreatePost] = &errors.ApplicationError{
		Endpoint: api.EndpointCreatePost,
		Message:  "file too large",
	}

	f.click("next-btn")
	f.scope.Deliver(widget.Event{Target: "share-btn", Type: "click", Value: "c"})
	f.scope.Drain()

	if got := f.notifier.Last(); got != "error: file too large" {
		t.Errorf("notification = %q", got)
	}
	if f.doc.Disabled("share-btn") {
		t.Error("share still disabled after failure")
	}
	if len(f.doc.Navigations()) != 0 {
		t.Error("navigated despite failure")
	}
}

func TestShareFailureWithoutMessageUsesFallback(t *testing.T) {
	f := newFixture(t)
	w := seedWizard(f)
	w.HandleMediaSelect("clip.mp4", nil)
	f.api.Errs[uitest.CallCreatePost] = &errors.ApplicationError{Endpoint: api.EndpointCreatePost}

	f.click("next-btn")
	f.scope.Deliver(widget.Event{Target: "share-btn", Type: "click"})
	f.scope.Drain()

	if got := f.notifier.Last(); got != "error: Failed to create post" {
		t.Errorf("notification = %q", got)
	}
}
