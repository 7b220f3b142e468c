package widget

import (
	"context"

	"github.com/pulsegram/pulse/internal/errors"
	"github.com/pulsegram/pulse/pkg/dom"
)

// NewMessageModal is the start-a-conversation flow: a modal holding a
// user-picker search; picking a user creates the conversation and
// navigates to it. Element contract: new-message-modal,
// user-search-input, user-search-results, new-message-btn,
// close-message-modal-btn.
type NewMessageModal struct {
	scope  *Scope
	picker *Search
	busy   bool
}

// NewNewMessageModal wires the modal and its user picker.
func NewNewMessageModal(s *Scope) *NewMessageModal {
	m := &NewMessageModal{scope: s}
	m.picker = NewUserPicker(s, m.HandleSelect)
	s.Bind("new-message-btn", func(ev Event) {
		if ev.Type == "click" {
			m.Open()
		}
	})
	s.Bind("close-message-modal-btn", func(ev Event) {
		if ev.Type == "click" {
			m.Close()
		}
	})
	return m
}

// Open shows the modal and focuses the search field.
func (m *NewMessageModal) Open() {
	m.scope.Apply(
		dom.Show("new-message-modal"),
		dom.Focus("user-search-input"),
	)
}

// Close hides the modal and resets the search field and results.
func (m *NewMessageModal) Close() {
	m.picker.Close()
	m.scope.Apply(
		dom.Hide("new-message-modal"),
		dom.SetValue("user-search-input", ""),
	)
}

// HandleSelect starts a conversation with the picked user and
// navigates to it.
func (m *NewMessageModal) HandleSelect(username string) {
	if m.busy {
		return
	}
	m.busy = true
	m.scope.async(func() {
		id, err := m.scope.api.CreateConversation(context.Background(), username)
		m.scope.Dispatch(func() {
			m.busy = false
			if err != nil {
				if !errors.IsTransport(err) {
					m.scope.notifier.Error("Failed to create conversation. Please try again.")
				}
				return
			}
			m.Close()
			m.scope.Apply(dom.Navigate("/messages/" + id + "/"))
		})
	})
}
