package widget

import (
	"context"
	stderrors "errors"

	"github.com/pulsegram/pulse/internal/errors"
	"github.com/pulsegram/pulse/pkg/dom"
	"github.com/pulsegram/pulse/pkg/gateway"
)

// selectMediaMessage is shown when Next or Share is pressed without a
// selected file.
const selectMediaMessage = "Please select an image or video"

// Wizard is the two-step post-creation flow: pick media, then add
// details and share. Element contract: post-upload and post-details
// (the two sections), next-btn, back-btn, share-btn, media-input.
type Wizard struct {
	scope *Scope
	media *gateway.Upload
	busy  bool
}

// NewWizard wires the post-creation form. Share starts disabled until
// media is selected and the details step is reached.
func NewWizard(s *Scope) *Wizard {
	w := &Wizard{scope: s}
	s.Bind("media-input", func(ev Event) {
		if ev.Type == "change" {
			w.HandleMediaSelect(ev.Value, nil)
		}
	})
	s.Bind("next-btn", func(ev Event) {
		if ev.Type == "click" {
			w.HandleNext()
		}
	})
	s.Bind("back-btn", func(ev Event) {
		if ev.Type == "click" {
			w.HandleBack()
		}
	})
	s.Bind("share-btn", func(ev Event) {
		if ev.Type == "click" {
			w.HandleShare(ev.Value)
		}
	})
	s.Apply(dom.SetDisabled("share-btn", true))
	return w
}

// HandleMediaSelect records the chosen file. The runtime delivers the
// uploaded bytes alongside the change event.
func (w *Wizard) HandleMediaSelect(filename string, content []byte) {
	if filename == "" {
		w.media = nil
		w.scope.Apply(dom.SetDisabled("share-btn", true))
		return
	}
	w.media = &gateway.Upload{Field: "media", Filename: filename, Content: content}
}

// HandleNext advances to the details step, or complains when no media
// is selected yet.
func (w *Wizard) HandleNext() {
	if w.media == nil {
		w.scope.notifier.Error(selectMediaMessage)
		return
	}
	w.scope.Apply(
		dom.AddClass("post-upload", "hidden"),
		dom.RemoveClass("post-details", "hidden"),
		dom.SetDisabled("share-btn", false),
	)
}

// HandleBack returns to the media step; Share is disabled again.
func (w *Wizard) HandleBack() {
	w.scope.Apply(
		dom.AddClass("post-details", "hidden"),
		dom.RemoveClass("post-upload", "hidden"),
		dom.SetDisabled("share-btn", true),
	)
}

// HandleShare submits the post. Success navigates to the server's
// redirect target; a rejected submission surfaces the server's message.
func (w *Wizard) HandleShare(caption string) {
	if w.media == nil {
		w.scope.notifier.Error(selectMediaMessage)
		return
	}
	if w.busy {
		return
	}
	w.busy = true
	w.scope.Apply(dom.SetDisabled("share-btn", true))

	media := w.media
	w.scope.async(func() {
		redirect, err := w.scope.api.CreatePost(context.Background(),
			map[string]string{"caption": caption}, media)
		w.scope.Dispatch(func() { w.settle(redirect, err) })
	})
}

func (w *Wizard) settle(redirect string, err error) {
	w.busy = false

	if err != nil {
		w.scope.Apply(dom.SetDisabled("share-btn", false))
		var ae *errors.ApplicationError
		if stderrors.As(err, &ae) {
			w.scope.notifier.Error(ae.UserMessage("Failed to create post"))
		}
		return
	}
	w.scope.Apply(dom.Navigate(redirect))
}
