package widget

import (
	"github.com/pulsegram/pulse/internal/errors"
)

// MountSpec announces one server-rendered widget the client wants
// wired up: its kind, the subject it acts on, and the seeded state the
// page was rendered with.
type MountSpec struct {
	Kind    string `json:"kind"`
	Subject string `json:"subject,omitempty"`
	Active  bool   `json:"active,omitempty"`
	Count   int    `json:"count,omitempty"`
	BaseURL string `json:"base_url,omitempty"`
}

// Page holds the widgets mounted for one client and the wiring between
// them (a confirmed share opens the new-message modal).
type Page struct {
	scope   *Scope
	modal   *NewMessageModal
	toggles map[string]*Toggle
}

// NewPage creates an empty page over the scope.
func NewPage(s *Scope) *Page {
	return &Page{scope: s, toggles: make(map[string]*Toggle)}
}

// Mount wires one widget from its announcement. Unknown kinds are a
// protocol error.
func (p *Page) Mount(spec MountSpec) error {
	seed := ToggleSeed{Active: spec.Active, Count: spec.Count}
	switch spec.Kind {
	case "like":
		p.toggles["like:"+spec.Subject] = NewLikeToggle(p.scope, spec.Subject, seed)
	case "follow":
		p.toggles["follow:"+spec.Subject] = NewFollowToggle(p.scope, spec.Subject, seed)
	case "save":
		p.toggles["save:"+spec.Subject] = NewSaveToggle(p.scope, spec.Subject, seed)
	case "comment-like":
		p.toggles["comment-like:"+spec.Subject] = NewCommentLikeToggle(p.scope, spec.Subject, seed)
	case "search":
		NewGlobalSearch(p.scope)
	case "new-message":
		p.modal = NewNewMessageModal(p.scope)
	case "comment-composer":
		NewCommentComposer(p.scope, spec.Subject, spec.Count)
	case "message-composer":
		NewMessageComposer(p.scope, spec.Subject)
	case "wizard":
		NewWizard(p.scope)
	case "share":
		sh := NewShareSheet(p.scope, spec.Subject, spec.BaseURL)
		sh.OnSendInMessage = func() {
			if p.modal != nil {
				p.modal.Open()
			}
		}
	default:
		return errors.New("E201", errors.CategoryProtocol, "unknown widget kind "+spec.Kind)
	}
	return nil
}
