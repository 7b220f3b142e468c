package widget

import (
	"context"
	"fmt"

	"github.com/pulsegram/pulse/internal/errors"
	"github.com/pulsegram/pulse/pkg/api"
	"github.com/pulsegram/pulse/pkg/dom"
	"github.com/pulsegram/pulse/pkg/reactive"
)

// ToggleSeed is the server-rendered starting state of a toggle.
type ToggleSeed struct {
	Active bool
	Count  int
}

// toggleConfig describes one toggle instance: which elements it owns,
// how active state renders, and which endpoint settles it.
type toggleConfig struct {
	subject       string
	buttonID      string
	iconID        string // optional
	countID       string // optional
	activeClass   string
	activeFill    string
	inactiveFill  string
	activeLabel   string // optional button text swap
	inactiveLabel string
	optimistic    bool
	call          func(ctx context.Context, subject string) (*api.ToggleResult, error)
	onConfirmed   func(t *Toggle, res *api.ToggleResult)
	renderCount   func(t *Toggle, count int) []dom.Patch
}

// Toggle is the optimistic toggle controller instantiated for like,
// follow, save, and comment-like. A click flips the rendered state
// immediately, fires the endpoint, and the authoritative response
// overwrites whatever was guessed.
type Toggle struct {
	scope    *Scope
	cfg      toggleConfig
	active   *reactive.BoolSignal
	count    *reactive.IntSignal
	inFlight bool
	watcher  *reactive.Watcher
}

func newToggle(s *Scope, cfg toggleConfig, seed ToggleSeed) *Toggle {
	t := &Toggle{
		scope:  s,
		cfg:    cfg,
		active: reactive.NewBoolSignal(seed.Active),
		count:  reactive.NewIntSignal(seed.Count),
	}
	t.watcher = reactive.NewWatcher(t.render, nil)
	t.watcher.Run()
	s.Bind(cfg.buttonID, func(Event) { t.HandleClick() })
	return t
}

// HandleClick runs one toggle round. A click while a request for this
// subject is outstanding is dropped.
func (t *Toggle) HandleClick() {
	if t.inFlight {
		t.scope.log.Debug("toggle suppressed, request in flight",
			"subject", t.cfg.subject, "button", t.cfg.buttonID)
		return
	}
	t.inFlight = true

	snapActive := t.active.Peek()
	snapCount := t.count.Peek()

	if t.cfg.optimistic {
		reactive.Batch(func() {
			if snapActive {
				t.active.SetFalse()
				t.count.DecFloor()
			} else {
				t.active.SetTrue()
				t.count.Inc()
			}
		})
	}

	t.scope.async(func() {
		res, err := t.cfg.call(context.Background(), t.cfg.subject)
		t.scope.Dispatch(func() { t.settle(res, err, snapActive, snapCount) })
	})
}

func (t *Toggle) settle(res *api.ToggleResult, err error, snapActive bool, snapCount int) {
	t.inFlight = false

	if err != nil {
		// The gateway already surfaced the generic failure message for
		// transport errors; here the guessed state is rolled back so the
		// page never keeps a state the server did not confirm.
		if errors.IsTransport(err) && t.cfg.optimistic {
			reactive.Batch(func() {
				t.active.Set(snapActive)
				t.count.Set(snapCount)
			})
		}
		return
	}

	if !res.Confirmed {
		// Ambiguous response: the optimistic guess stands.
		t.scope.log.Warn("toggle response missing success indicator",
			"subject", t.cfg.subject)
		return
	}

	reactive.Batch(func() {
		t.active.Set(res.Active)
		if res.HasCount {
			t.count.Set(res.Count)
		}
	})

	if t.cfg.onConfirmed != nil {
		t.cfg.onConfirmed(t, res)
	}
}

// Active reports the currently rendered state.
func (t *Toggle) Active() bool { return t.active.Peek() }

// Count reports the currently rendered counter value.
func (t *Toggle) Count() int { return t.count.Peek() }

func (t *Toggle) render() {
	active := t.active.Get()
	count := t.count.Get()

	var patches []dom.Patch
	if active {
		patches = append(patches, dom.AddClass(t.cfg.buttonID, t.cfg.activeClass))
	} else {
		patches = append(patches, dom.RemoveClass(t.cfg.buttonID, t.cfg.activeClass))
	}
	if t.cfg.iconID != "" {
		fill := t.cfg.inactiveFill
		if active {
			fill = t.cfg.activeFill
		}
		patches = append(patches, dom.SetAttr(t.cfg.iconID, "fill", fill))
	}
	if t.cfg.activeLabel != "" {
		label := t.cfg.inactiveLabel
		if active {
			label = t.cfg.activeLabel
		}
		patches = append(patches, dom.SetText(t.cfg.buttonID, label))
	}
	if t.cfg.renderCount != nil {
		patches = append(patches, t.cfg.renderCount(t, count)...)
	} else if t.cfg.countID != "" {
		patches = append(patches, dom.SetText(t.cfg.countID, fmt.Sprintf("%d", count)))
	}
	t.scope.Apply(patches...)
}

// NewLikeToggle wires the like button of a post. Element contract:
// like-btn-<id>, like-icon-<id>, like-count-<id>.
func NewLikeToggle(s *Scope, postID string, seed ToggleSeed) *Toggle {
	return newToggle(s, toggleConfig{
		subject:      postID,
		buttonID:     "like-btn-" + postID,
		iconID:       "like-icon-" + postID,
		countID:      "like-count-" + postID,
		activeClass:  "liked",
		activeFill:   "#ed4956",
		inactiveFill: "none",
		optimistic:   true,
		call:         s.api.LikePost,
	}, seed)
}

// NewFollowToggle wires the follow button of a user. Element contract:
// follow-btn-<username>, follower-count-<username>. The button label
// swaps between Follow and Following, and a confirmed response surfaces
// a notification naming the user.
func NewFollowToggle(s *Scope, username string, seed ToggleSeed) *Toggle {
	return newToggle(s, toggleConfig{
		subject:       username,
		buttonID:      "follow-btn-" + username,
		countID:       "follower-count-" + username,
		activeClass:   "following",
		activeLabel:   "Following",
		inactiveLabel: "Follow",
		optimistic:    true,
		call:          s.api.FollowUser,
		onConfirmed: func(t *Toggle, res *api.ToggleResult) {
			if res.Active {
				t.scope.notifier.Success("You are now following " + username)
			} else {
				t.scope.notifier.Success("You unfollowed " + username)
			}
		},
	}, seed)
}

// NewSaveToggle wires the save button of a post. Element contract:
// save-btn-<id>, save-icon-<id>. Saves carry no counter.
func NewSaveToggle(s *Scope, postID string, seed ToggleSeed) *Toggle {
	return newToggle(s, toggleConfig{
		subject:      postID,
		buttonID:     "save-btn-" + postID,
		iconID:       "save-icon-" + postID,
		activeClass:  "saved",
		activeFill:   "currentColor",
		inactiveFill: "none",
		optimistic:   true,
		call:         s.api.SavePost,
		renderCount:  func(*Toggle, int) []dom.Patch { return nil },
		onConfirmed: func(t *Toggle, res *api.ToggleResult) {
			if res.Active {
				t.scope.notifier.Success("Post saved")
			} else {
				t.scope.notifier.Success("Post removed from saved")
			}
		},
	}, seed)
}

// NewCommentLikeToggle wires the like button of a comment. Element
// contract: comment-like-btn-<id>, comment-likes-<id> (the "N likes"
// label, shown only when N > 0). Comment likes render nothing until the
// server confirms.
func NewCommentLikeToggle(s *Scope, commentID string, seed ToggleSeed) *Toggle {
	likesID := "comment-likes-" + commentID
	return newToggle(s, toggleConfig{
		subject:     commentID,
		buttonID:    "comment-like-btn-" + commentID,
		activeClass: "liked",
		optimistic:  false,
		call:        s.api.LikeComment,
		renderCount: func(t *Toggle, count int) []dom.Patch {
			if count > 0 {
				return []dom.Patch{
					dom.SetText(likesID, fmt.Sprintf("%d likes", count)),
					dom.Show(likesID),
				}
			}
			return []dom.Patch{dom.Hide(likesID)}
		},
	}, seed)
}
