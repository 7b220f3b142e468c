package widget

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/pulsegram/pulse/el"
	"github.com/pulsegram/pulse/internal/errors"
	"github.com/pulsegram/pulse/pkg/api"
	"github.com/pulsegram/pulse/pkg/dom"
	"github.com/pulsegram/pulse/pkg/reactive"
)

// CommentComposer appends comments to a post's comment list. Submitting
// inserts a provisional entry immediately; the server's response either
// confirms it (replaced with the returned author/text) or removes it.
type CommentComposer struct {
	scope   *Scope
	postID  string
	inputID string
	btnID   string
	listID  string
	countID string
	count   *reactive.IntSignal
	busy    bool
}

// NewCommentComposer wires a post's comment form. Element contract:
// comment-input-<id>, post-comment-btn-<id>, comments-list-<id>,
// comments-count-<id>. seedCount is the server-rendered comment count.
func NewCommentComposer(s *Scope, postID string, seedCount int) *CommentComposer {
	c := &CommentComposer{
		scope:   s,
		postID:  postID,
		inputID: "comment-input-" + postID,
		btnID:   "post-comment-btn-" + postID,
		listID:  "comments-list-" + postID,
		countID: "comments-count-" + postID,
		count:   reactive.NewIntSignal(seedCount),
	}
	s.Bind(c.btnID, func(ev Event) {
		if ev.Type == "click" {
			c.HandleSubmit(ev.Value)
		}
	})
	s.Bind(c.inputID, func(ev Event) {
		if ev.Type == "keypress" && ev.Value != "" {
			// keypress events deliver Enter with the input's text.
			c.HandleSubmit(ev.Value)
		}
	})
	return c
}

// HandleSubmit posts the given text as a comment.
func (c *CommentComposer) HandleSubmit(text string) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		c.scope.notifier.Error("Please enter a comment")
		return
	}
	if c.busy {
		return
	}
	c.busy = true

	tempID := provisionalID()
	c.scope.Apply(
		dom.SetDisabled(c.inputID, true),
		dom.SetDisabled(c.btnID, true),
		dom.SetText(c.btnID, "Posting..."),
		dom.Append(c.listID, el.Div(el.ID(tempID), el.Class("comment", "pending"),
			el.Div(el.Class("comment-content"),
				el.Span(el.Class("comment-message"), el.Text(trimmed)),
			),
		)),
		dom.ScrollEnd(c.listID),
	)

	c.scope.async(func() {
		comment, err := c.scope.api.AddComment(context.Background(), c.postID, trimmed)
		c.scope.Dispatch(func() { c.settle(tempID, trimmed, comment, err) })
	})
}

func (c *CommentComposer) settle(tempID, text string, comment *api.Comment, err error) {
	c.busy = false

	patches := []dom.Patch{
		dom.Remove(tempID),
		dom.SetDisabled(c.inputID, false),
		dom.SetDisabled(c.btnID, false),
		dom.SetText(c.btnID, "Post"),
	}

	if err != nil {
		// Input keeps the typed text so the user can retry.
		c.scope.Apply(patches...)
		if errors.IsApplication(err) {
			c.scope.notifier.Error("Failed to add comment. Please try again.")
		}
		return
	}

	c.count.Inc()
	patches = append(patches,
		dom.Append(c.listID, commentNode(comment)),
		dom.ScrollEnd(c.listID),
		dom.SetText(c.countID, fmt.Sprintf("%d comments", c.count.Peek())),
		dom.SetValue(c.inputID, ""),
	)
	c.scope.Apply(patches...)
	c.scope.notifier.Success("Comment added!")
}

// Count reports the rendered comment count.
func (c *CommentComposer) Count() int { return c.count.Peek() }

func commentNode(comment *api.Comment) *dom.Node {
	return el.Div(el.Class("comment"),
		el.Img(el.Class("comment-avatar"), el.Src(avatarOrDefault(comment.UserAvatar)), el.Alt(comment.Username)),
		el.Div(el.Class("comment-content"),
			el.Div(el.Class("comment-text"),
				el.A(el.Class("comment-username"), el.Href("/profile/"+comment.Username+"/"), el.Text(comment.Username)),
				el.Span(el.Class("comment-message"), el.Text(comment.Text)),
			),
			el.Div(el.Class("comment-meta"),
				el.Span(el.Class("comment-time"), el.Text("now")),
			),
		),
	)
}

// MessageComposer appends messages to an open conversation and keeps
// the conversation list preview in sync.
type MessageComposer struct {
	scope          *Scope
	conversationID string
	inputID        string
	sendID         string
	listID         string
	busy           bool
}

// NewMessageComposer wires the message form of a conversation. Element
// contract: message-input, send-message-btn, messages-list, and on the
// conversation list page conversation-<id> with conversation-last-message-<id>
// and conversation-time-<id>.
func NewMessageComposer(s *Scope, conversationID string) *MessageComposer {
	c := &MessageComposer{
		scope:          s,
		conversationID: conversationID,
		inputID:        "message-input",
		sendID:         "send-message-btn",
		listID:         "messages-list",
	}
	s.Bind(c.inputID, func(ev Event) {
		switch ev.Type {
		case "input":
			c.HandleInput(ev.Value)
		case "keypress":
			if ev.Value != "" {
				c.HandleSubmit(ev.Value)
			}
		}
	})
	s.Bind(c.sendID, func(ev Event) {
		if ev.Type == "click" {
			c.HandleSubmit(ev.Value)
		}
	})
	return c
}

// HandleInput keeps the send button's enabled state in step with the
// input's content.
func (c *MessageComposer) HandleInput(text string) {
	if strings.TrimSpace(text) != "" {
		c.scope.Apply(
			dom.AddClass(c.sendID, "active"),
			dom.SetDisabled(c.sendID, false),
		)
	} else {
		c.scope.Apply(
			dom.RemoveClass(c.sendID, "active"),
			dom.SetDisabled(c.sendID, true),
		)
	}
}

// HandleSubmit sends the given text into the conversation.
func (c *MessageComposer) HandleSubmit(text string) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		c.scope.notifier.Error("Please enter a message")
		return
	}
	if c.busy {
		return
	}
	c.busy = true

	tempID := provisionalID()
	c.scope.Apply(
		dom.SetDisabled(c.inputID, true),
		dom.SetDisabled(c.sendID, true),
		dom.Append(c.listID, el.Div(el.ID(tempID), el.Class("message", "sent", "pending"),
			el.Div(el.Class("message-content"), el.Text(trimmed)),
			el.Div(el.Class("message-time"), el.Text("Sending...")),
		)),
		dom.ScrollEnd(c.listID),
	)

	c.scope.async(func() {
		msg, err := c.scope.api.SendMessage(context.Background(), c.conversationID, trimmed)
		c.scope.Dispatch(func() { c.settle(tempID, trimmed, msg, err) })
	})
}

func (c *MessageComposer) settle(tempID, text string, msg *api.Message, err error) {
	c.busy = false

	patches := []dom.Patch{
		dom.Remove(tempID),
		dom.SetDisabled(c.inputID, false),
		dom.SetDisabled(c.sendID, false),
		dom.Focus(c.inputID),
	}

	if err != nil {
		// Input keeps the typed text so the user can retry.
		c.scope.Apply(patches...)
		if errors.IsApplication(err) {
			c.scope.notifier.Error("Failed to send message. Please try again.")
		}
		return
	}

	patches = append(patches,
		dom.Append(c.listID, el.Div(el.Class("message", "sent"),
			el.Div(el.Class("message-content"), el.Text(msg.Text)),
			el.Div(el.Class("message-time"), el.Text(msg.CreatedAt)),
		)),
		dom.ScrollEnd(c.listID),
		dom.SetValue(c.inputID, ""),
		dom.RemoveClass(c.sendID, "active"),
	)
	patches = append(patches, c.previewPatches(text)...)
	c.scope.Apply(patches...)
}

// previewPatches updates the conversation list entry: truncated last
// message, "now" timestamp, and a move to the top of the list.
func (c *MessageComposer) previewPatches(text string) []dom.Patch {
	itemID := "conversation-" + c.conversationID
	preview := text
	if runes := []rune(preview); len(runes) > 30 {
		preview = string(runes[:30]) + "..."
	}
	return []dom.Patch{
		dom.SetText("conversation-last-message-"+c.conversationID, preview),
		dom.SetText("conversation-time-"+c.conversationID, "now"),
		dom.MoveFront(itemID),
	}
}

func provisionalID() string {
	return "temp-" + uuid.NewString()
}
