package widget

import (
	"context"

	"github.com/pulsegram/pulse/pkg/dom"
)

// ShareSheet is a post's share modal: copy-link and send-in-message.
// Element contract: share-modal-<id>, copy-link-btn-<id>,
// share-message-btn-<id>, close-share-btn-<id>.
type ShareSheet struct {
	scope   *Scope
	postID  string
	baseURL string
	modalID string

	// OnSendInMessage opens the new-message flow after a confirmed
	// share; the runtime wires it to the modal's Open.
	OnSendInMessage func()
}

// NewShareSheet wires a post's share controls. baseURL is the page
// origin used to build the copied link.
func NewShareSheet(s *Scope, postID, baseURL string) *ShareSheet {
	sh := &ShareSheet{
		scope:   s,
		postID:  postID,
		baseURL: baseURL,
		modalID: "share-modal-" + postID,
	}
	s.Bind("share-open-btn-"+postID, func(ev Event) {
		if ev.Type == "click" {
			sh.Open()
		}
	})
	s.Bind("close-share-btn-"+postID, func(ev Event) {
		if ev.Type == "click" {
			sh.Close()
		}
	})
	s.Bind("copy-link-btn-"+postID, func(ev Event) {
		if ev.Type == "click" {
			sh.HandleCopyLink()
		}
	})
	s.Bind("share-message-btn-"+postID, func(ev Event) {
		if ev.Type == "click" {
			sh.HandleSendInMessage()
		}
	})
	return sh
}

// Open shows the share modal.
func (sh *ShareSheet) Open() {
	sh.scope.Apply(dom.Show(sh.modalID))
}

// Close hides the share modal.
func (sh *ShareSheet) Close() {
	sh.scope.Apply(dom.Hide(sh.modalID))
}

// HandleCopyLink writes the post's URL to the clipboard and closes the
// sheet.
func (sh *ShareSheet) HandleCopyLink() {
	sh.scope.Apply(dom.Clipboard(sh.baseURL + "/post/" + sh.postID + "/"))
	sh.scope.notifier.Success("Link copied to clipboard!")
	sh.Close()
}

// HandleSendInMessage records the share, then hands off to the
// new-message flow.
func (sh *ShareSheet) HandleSendInMessage() {
	sh.scope.async(func() {
		err := sh.scope.api.SharePost(context.Background(), sh.postID, "external")
		sh.scope.Dispatch(func() {
			if err != nil {
				return
			}
			sh.Close()
			if sh.OnSendInMessage != nil {
				sh.OnSendInMessage()
			}
		})
	})
}
