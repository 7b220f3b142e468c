package api

import (
	"context"
	"net/url"

	"github.com/tidwall/gjson"

	"github.com/pulsegram/pulse/internal/errors"
	"github.com/pulsegram/pulse/pkg/gateway"
)

// Endpoints consumed by the typed wrappers.
const (
	EndpointLikePost           = "/ajax/like-post/"
	EndpointFollowUser         = "/ajax/follow-user/"
	EndpointSavePost           = "/ajax/save-post/"
	EndpointAddComment         = "/ajax/add-comment/"
	EndpointLikeComment        = "/ajax/like-comment/"
	EndpointSendMessage        = "/ajax/send-message/"
	EndpointSearchPosts        = "/ajax/search-posts/"
	EndpointSearchUsers        = "/ajax/search-users/"
	EndpointCreateConversation = "/ajax/create-conversation/"
	EndpointSharePost          = "/ajax/share-post/"
	EndpointCreatePost         = "/create-post/"
)

// Gateway is the transport the typed wrappers build on. *gateway.Client
// satisfies it.
type Gateway interface {
	PostForm(ctx context.Context, endpoint string, form url.Values) ([]byte, error)
	PostMultipart(ctx context.Context, endpoint string, fields map[string]string, file *gateway.Upload) ([]byte, error)
}

// Client layers the social endpoints over a Gateway.
type Client struct {
	gw Gateway
}

// NewClient wraps a gateway in typed endpoint calls.
func NewClient(gw Gateway) *Client {
	return &Client{gw: gw}
}

// ToggleResult is the authoritative state returned by a toggle endpoint.
// Confirmed reports whether the response carried a success indicator at
// all; an unconfirmed result must not overwrite optimistic state.
type ToggleResult struct {
	Confirmed bool
	Active    bool
	Count     int
	HasCount  bool
}

func toggleResult(body []byte, activeField, countField string) *ToggleResult {
	r := &ToggleResult{}
	if !gjson.GetBytes(body, "success").Exists() {
		return r
	}
	r.Confirmed = true
	r.Active = gjson.GetBytes(body, activeField).Bool()
	if countField != "" {
		if c := gjson.GetBytes(body, countField); c.Exists() {
			r.HasCount = true
			r.Count = int(c.Int())
		}
	}
	return r
}

// LikePost toggles the caller's like on a post.
func (c *Client) LikePost(ctx context.Context, postID string) (*ToggleResult, error) {
	body, err := c.gw.PostForm(ctx, EndpointLikePost, url.Values{"post_id": {postID}})
	if err != nil {
		return nil, err
	}
	return toggleResult(body, "liked", "likes_count"), nil
}

// FollowUser toggles the caller's follow of a user.
func (c *Client) FollowUser(ctx context.Context, username string) (*ToggleResult, error) {
	body, err := c.gw.PostForm(ctx, EndpointFollowUser, url.Values{"username": {username}})
	if err != nil {
		return nil, err
	}
	return toggleResult(body, "following", "followers_count"), nil
}

// SavePost toggles whether a post is in the caller's saved collection.
func (c *Client) SavePost(ctx context.Context, postID string) (*ToggleResult, error) {
	body, err := c.gw.PostForm(ctx, EndpointSavePost, url.Values{"post_id": {postID}})
	if err != nil {
		return nil, err
	}
	return toggleResult(body, "saved", ""), nil
}

// LikeComment toggles the caller's like on a comment.
func (c *Client) LikeComment(ctx context.Context, commentID string) (*ToggleResult, error) {
	body, err := c.gw.PostForm(ctx, EndpointLikeComment, url.Values{"comment_id": {commentID}})
	if err != nil {
		return nil, err
	}
	return toggleResult(body, "liked", "likes_count"), nil
}

// Comment is a confirmed comment as returned by the server.
type Comment struct {
	Username   string
	Text       string
	UserAvatar string
}

// AddComment posts a comment. A success:false response returns an
// *errors.ApplicationError carrying the server's error text.
func (c *Client) AddComment(ctx context.Context, postID, text string) (*Comment, error) {
	body, err := c.gw.PostForm(ctx, EndpointAddComment, url.Values{"post_id": {postID}, "text": {text}})
	if err != nil {
		return nil, err
	}
	if !gjson.GetBytes(body, "success").Bool() {
		return nil, &errors.ApplicationError{
			Endpoint: EndpointAddComment,
			Message:  gjson.GetBytes(body, "error").String(),
		}
	}
	return &Comment{
		Username:   gjson.GetBytes(body, "comment.username").String(),
		Text:       gjson.GetBytes(body, "comment.text").String(),
		UserAvatar: gjson.GetBytes(body, "comment.user_avatar").String(),
	}, nil
}

// Message is a confirmed direct message as returned by the server.
type Message struct {
	Text      string
	CreatedAt string
}

// SendMessage posts a message into a conversation.
func (c *Client) SendMessage(ctx context.Context, conversationID, text string) (*Message, error) {
	body, err := c.gw.PostForm(ctx, EndpointSendMessage, url.Values{"conversation_id": {conversationID}, "text": {text}})
	if err != nil {
		return nil, err
	}
	if !gjson.GetBytes(body, "success").Bool() {
		return nil, &errors.ApplicationError{Endpoint: EndpointSendMessage}
	}
	return &Message{
		Text:      gjson.GetBytes(body, "message.text").String(),
		CreatedAt: gjson.GetBytes(body, "message.created_at").String(),
	}, nil
}

// CreateConversation starts a conversation with the given user and
// returns its id.
func (c *Client) CreateConversation(ctx context.Context, username string) (string, error) {
	body, err := c.gw.PostForm(ctx, EndpointCreateConversation, url.Values{"participants": {username}})
	if err != nil {
		return "", err
	}
	if !gjson.GetBytes(body, "success").Bool() {
		return "", &errors.ApplicationError{Endpoint: EndpointCreateConversation}
	}
	return gjson.GetBytes(body, "conversation_id").String(), nil
}

// SharePost records a share of a post.
func (c *Client) SharePost(ctx context.Context, postID, shareType string) error {
	body, err := c.gw.PostForm(ctx, EndpointSharePost, url.Values{"post_id": {postID}, "share_type": {shareType}})
	if err != nil {
		return err
	}
	if !gjson.GetBytes(body, "success").Bool() {
		return &errors.ApplicationError{Endpoint: EndpointSharePost}
	}
	return nil
}

// CreatePost submits the post-creation form with its media file and
// returns the redirect target. A success:false response returns an
// *errors.ApplicationError carrying the server's error text.
func (c *Client) CreatePost(ctx context.Context, fields map[string]string, media *gateway.Upload) (string, error) {
	body, err := c.gw.PostMultipart(ctx, EndpointCreatePost, fields, media)
	if err != nil {
		return "", err
	}
	if !gjson.GetBytes(body, "success").Bool() {
		return "", &errors.ApplicationError{
			Endpoint: EndpointCreatePost,
			Message:  gjson.GetBytes(body, "error").String(),
		}
	}
	return gjson.GetBytes(body, "redirect").String(), nil
}
