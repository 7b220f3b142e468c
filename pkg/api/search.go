package api

import (
	"context"
	"net/url"

	"github.com/tidwall/gjson"
)

// UserResult is a user row in a search response.
type UserResult struct {
	Username       string
	FullName       string
	ProfilePicture string
}

// PostResult is a post row in a search response.
type PostResult struct {
	ID       string
	Username string
	Caption  string
	Image    string
}

// SearchResults is the unified search envelope. Two historical response
// shapes exist: `{"users": [...], "posts": [...]}` and a flat
// `{"results": [...]}` where posts are distinguished by a caption field.
// Both decode into this one envelope.
type SearchResults struct {
	Users []UserResult
	Posts []PostResult
}

// Empty reports whether the search matched nothing.
func (r *SearchResults) Empty() bool {
	return len(r.Users) == 0 && len(r.Posts) == 0
}

// SearchPosts runs the global search, matching users and posts. Like
// every other endpoint it is a form-encoded POST carrying the
// anti-forgery token.
func (c *Client) SearchPosts(ctx context.Context, query string) (*SearchResults, error) {
	body, err := c.gw.PostForm(ctx, EndpointSearchPosts, url.Values{"query": {query}})
	if err != nil {
		return nil, err
	}
	return decodeSearch(body), nil
}

// SearchUsers runs the user-picker search; only user rows are expected.
func (c *Client) SearchUsers(ctx context.Context, query string) (*SearchResults, error) {
	body, err := c.gw.PostForm(ctx, EndpointSearchUsers, url.Values{"query": {query}})
	if err != nil {
		return nil, err
	}
	return decodeSearch(body), nil
}

func decodeSearch(body []byte) *SearchResults {
	out := &SearchResults{}

	if users := gjson.GetBytes(body, "users"); users.IsArray() {
		users.ForEach(func(_, v gjson.Result) bool {
			out.Users = append(out.Users, userResult(v))
			return true
		})
	}
	if posts := gjson.GetBytes(body, "posts"); posts.IsArray() {
		posts.ForEach(func(_, v gjson.Result) bool {
			out.Posts = append(out.Posts, postResult(v))
			return true
		})
	}

	// Flat shape: rows carrying a caption are posts, the rest are users.
	if results := gjson.GetBytes(body, "results"); results.IsArray() {
		results.ForEach(func(_, v gjson.Result) bool {
			if v.Get("caption").Exists() {
				out.Posts = append(out.Posts, postResult(v))
			} else {
				out.Users = append(out.Users, userResult(v))
			}
			return true
		})
	}
	return out
}

func userResult(v gjson.Result) UserResult {
	return UserResult{
		Username:       v.Get("username").String(),
		FullName:       v.Get("full_name").String(),
		ProfilePicture: v.Get("profile_picture").String(),
	}
}

func postResult(v gjson.Result) PostResult {
	return PostResult{
		ID:       v.Get("id").String(),
		Username: v.Get("username").String(),
		Caption:  v.Get("caption").String(),
		Image:    v.Get("image").String(),
	}
}
