package uitest

import (
	"context"
	"sync"

	"github.com/pulsegram/pulse/pkg/api"
	"github.com/pulsegram/pulse/pkg/gateway"
)

// Endpoint keys used by ScriptedAPI's response and error maps.
const (
	CallLikePost           = "like-post"
	CallFollowUser         = "follow-user"
	CallSavePost           = "save-post"
	CallLikeComment        = "like-comment"
	CallAddComment         = "add-comment"
	CallSendMessage        = "send-message"
	CallSearchPosts        = "search-posts"
	CallSearchUsers        = "search-users"
	CallCreateConversation = "create-conversation"
	CallSharePost          = "share-post"
	CallCreatePost         = "create-post"
)

// ScriptedAPI satisfies widget.API with canned responses. Calls are
// recorded in order for assertions.
type ScriptedAPI struct {
	mu sync.Mutex

	Toggles        map[string]*api.ToggleResult // keyed by endpoint
	Comment        *api.Comment
	Message        *api.Message
	Searches       map[string]*api.SearchResults // keyed by query
	ConversationID string
	Redirect       string
	Errs           map[string]error // keyed by endpoint

	Calls    []string
	LastArgs map[string]string
}

// NewScriptedAPI returns an empty script; endpoints answer with zero
// values until responses are assigned.
func NewScriptedAPI() *ScriptedAPI {
	return &ScriptedAPI{
		Toggles:  make(map[string]*api.ToggleResult),
		Searches: make(map[string]*api.SearchResults),
		Errs:     make(map[string]error),
	}
}

// CallCount returns how many times the endpoint was hit.
func (s *ScriptedAPI) CallCount(endpoint string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.Calls {
		if c == endpoint {
			n++
		}
	}
	return n
}

func (s *ScriptedAPI) record(endpoint string, args map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls = append(s.Calls, endpoint)
	s.LastArgs = args
	return s.Errs[endpoint]
}

func (s *ScriptedAPI) toggle(endpoint string, args map[string]string) (*api.ToggleResult, error) {
	if err := s.record(endpoint, args); err != nil {
		return nil, err
	}
	if res := s.Toggles[endpoint]; res != nil {
		return res, nil
	}
	return &api.ToggleResult{}, nil
}

func (s *ScriptedAPI) LikePost(_ context.Context, postID string) (*api.ToggleResult, error) {
	return s.toggle(CallLikePost, map[string]string{"post_id": postID})
}

func (s *ScriptedAPI) FollowUser(_ context.Context, username string) (*api.ToggleResult, error) {
	return s.toggle(CallFollowUser, map[string]string{"username": username})
}

func (s *ScriptedAPI) SavePost(_ context.Context, postID string) (*api.ToggleResult, error) {
	return s.toggle(CallSavePost, map[string]string{"post_id": postID})
}

func (s *ScriptedAPI) LikeComment(_ context.Context, commentID string) (*api.ToggleResult, error) {
	return s.toggle(CallLikeComment, map[string]string{"comment_id": commentID})
}

func (s *ScriptedAPI) AddComment(_ context.Context, postID, text string) (*api.Comment, error) {
	if err := s.record(CallAddComment, map[string]string{"post_id": postID, "text": text}); err != nil {
		return nil, err
	}
	return s.Comment, nil
}

func (s *ScriptedAPI) SendMessage(_ context.Context, conversationID, text string) (*api.Message, error) {
	if err := s.record(CallSendMessage, map[string]string{"conversation_id": conversationID, "text": text}); err != nil {
		return nil, err
	}
	return s.Message, nil
}

func (s *ScriptedAPI) search(endpoint, query string) (*api.SearchResults, error) {
	if err := s.record(endpoint, map[string]string{"query": query}); err != nil {
		return nil, err
	}
	if res := s.Searches[query]; res != nil {
		return res, nil
	}
	return &api.SearchResults{}, nil
}

func (s *ScriptedAPI) SearchPosts(_ context.Context, query string) (*api.SearchResults, error) {
	return s.search(CallSearchPosts, query)
}

func (s *ScriptedAPI) SearchUsers(_ context.Context, query string) (*api.SearchResults, error) {
	return s.search(CallSearchUsers, query)
}

func (s *ScriptedAPI) CreateConversation(_ context.Context, username string) (string, error) {
	if err := s.record(CallCreateConversation, map[string]string{"participants": username}); err != nil {
		return "", err
	}
	return s.ConversationID, nil
}

func (s *ScriptedAPI) SharePost(_ context.Context, postID, shareType string) error {
	return s.record(CallSharePost, map[string]string{"post_id": postID, "share_type": shareType})
}

func (s *ScriptedAPI) CreatePost(_ context.Context, fields map[string]string, _ *gateway.Upload) (string, error) {
	if err := s.record(CallCreatePost, fields); err != nil {
		return "", err
	}
	return s.Redirect, nil
}

// RecordingNotifier captures notifications as "kind: message" strings.
type RecordingNotifier struct {
	mu       sync.Mutex
	Messages []string
}

func (n *RecordingNotifier) add(kind, message string) {
	n.mu.Lock()
	n.Messages = append(n.Messages, kind+": "+message)
	n.mu.Unlock()
}

func (n *RecordingNotifier) Success(message string) { n.add("success", message) }
func (n *RecordingNotifier) Error(message string)   { n.add("error", message) }
func (n *RecordingNotifier) Info(message string)    { n.add("info", message) }

// Last returns the most recent notification, or "".
func (n *RecordingNotifier) Last() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.Messages) == 0 {
		return ""
	}
	return n.Messages[len(n.Messages)-1]
}
