package widget

import (
	"context"
	"strings"
	"time"

	"github.com/pulsegram/pulse/el"
	"github.com/pulsegram/pulse/pkg/api"
	"github.com/pulsegram/pulse/pkg/dom"
	"github.com/pulsegram/pulse/pkg/reactive"
)

// DebounceWindow is the quiet period after the last keystroke before a
// search query fires.
const DebounceWindow = 300 * time.Millisecond

// searchConfig parameterizes the one controller serving both search
// surfaces: the global navbar search and the new-message user picker.
type searchConfig struct {
	inputID     string
	panelID     string
	containerID string
	minLength   int
	query       func(ctx context.Context, q string) (*api.SearchResults, error)
	render      func(c *Search, res *api.SearchResults) []*dom.Node
	emptyText   string
	emptyClass  string
}

// Search coalesces keystrokes into one query per quiet period and owns
// the result panel. Each scheduled query gets a generation number;
// responses from superseded generations are dropped.
type Search struct {
	scope      *Scope
	cfg        searchConfig
	pending    reactive.TimerHandle
	generation uint64
	boundRows  []string
	onSelect   func(username string)
}

func newSearch(s *Scope, cfg searchConfig) *Search {
	c := &Search{scope: s, cfg: cfg}
	s.Bind(cfg.inputID, func(ev Event) {
		if ev.Type == "input" {
			c.HandleInput(ev.Value)
		}
	})
	s.BindDocument(func(ev Event) {
		if ev.Type == "click" && !ev.InContainer(cfg.containerID) {
			c.Close()
		}
	})
	return c
}

// HandleInput reacts to one edit of the search field. The pending query
// is always cancelled; empty or under-minimum text closes the panel
// immediately with no request, anything else schedules a query for one
// debounce window from now.
func (c *Search) HandleInput(raw string) {
	if c.pending != nil {
		c.pending.Stop()
		c.pending = nil
	}

	text := strings.TrimSpace(raw)
	if len(text) < c.cfg.minLength || text == "" {
		c.Close()
		return
	}

	c.generation++
	gen := c.generation
	c.pending = c.scope.clock.AfterFunc(DebounceWindow, func() {
		c.scope.Dispatch(func() { c.fire(gen, text) })
	})
}

func (c *Search) fire(gen uint64, text string) {
	if gen != c.generation {
		return
	}
	c.scope.async(func() {
		res, err := c.cfg.query(context.Background(), text)
		c.scope.Dispatch(func() {
			if gen != c.generation {
				c.scope.log.Debug("stale search response dropped",
					"input", c.cfg.inputID, "query", text)
				return
			}
			if err != nil {
				// Transport failures already surfaced a notification;
				// the panel keeps its previous content.
				return
			}
			c.renderResults(res)
		})
	})
}

// Close hides the result panel, clears its content, and invalidates any
// in-flight query.
func (c *Search) Close() {
	c.generation++
	c.unbindRows()
	c.scope.Apply(
		dom.ReplaceChildren(c.cfg.panelID),
		dom.Hide(c.cfg.panelID),
	)
}

func (c *Search) renderResults(res *api.SearchResults) {
	c.unbindRows()

	var rows []*dom.Node
	if res.Empty() {
		rows = []*dom.Node{el.Div(el.Class(c.cfg.emptyClass), el.Text(c.cfg.emptyText))}
	} else {
		rows = c.cfg.render(c, res)
	}
	c.scope.Apply(
		dom.ReplaceChildren(c.cfg.panelID, rows...),
		dom.Show(c.cfg.panelID),
	)
}

func (c *Search) bindRow(id string, h Handler) {
	c.scope.Bind(id, h)
	c.boundRows = append(c.boundRows, id)
}

func (c *Search) unbindRows() {
	for _, id := range c.boundRows {
		c.scope.Unbind(id)
	}
	c.boundRows = nil
}

// NewGlobalSearch wires the navbar search. Element contract:
// search-input, search-results (panel), nav-search (bounding container).
// Results mix user and post rows under section titles.
func NewGlobalSearch(s *Scope) *Search {
	return newSearch(s, searchConfig{
		inputID:     "search-input",
		panelID:     "search-results",
		containerID: "nav-search",
		minLength:   1,
		query:       s.api.SearchPosts,
		emptyText:   "No results found",
		emptyClass:  "search-no-results",
		render:      renderGlobalResults,
	})
}

func renderGlobalResults(_ *Search, res *api.SearchResults) []*dom.Node {
	var rows []*dom.Node
	if len(res.Users) > 0 {
		rows = append(rows, el.Div(el.Class("search-section-title"), el.Text("Users")))
		rows = append(rows, el.Range(res.Users, func(u api.UserResult, _ int) *dom.Node {
			return el.A(el.Class("search-result-item"), el.Href("/profile/"+u.Username+"/"),
				el.Img(el.Class("search-avatar"), el.Src(avatarOrDefault(u.ProfilePicture)), el.Alt(u.Username)),
				el.Div(el.Class("search-info"),
					el.Div(el.Class("search-username"), el.Text(u.Username)),
					el.Div(el.Class("search-fullname"), el.Text(u.FullName)),
				),
			)
		})...)
	}
	if len(res.Posts) > 0 {
		rows = append(rows, el.Div(el.Class("search-section-title"), el.Text("Posts")))
		rows = append(rows, el.Range(res.Posts, func(p api.PostResult, _ int) *dom.Node {
			return el.A(el.Class("search-result-item"), el.Href("/post/"+p.ID+"/"),
				el.Img(el.Class("search-avatar"), el.Src(avatarOrDefault(p.Image)), el.Alt("Post")),
				el.Div(el.Class("search-info"),
					el.Div(el.Class("search-username"), el.Text("@"+p.Username)),
					el.Div(el.Class("search-fullname"), el.Text(p.Caption)),
				),
			)
		})...)
	}
	return rows
}

// NewUserPicker wires the new-message modal's user search. Element
// contract: user-search-input, user-search-results, new-message-modal.
// Queries need at least two characters; clicking a row reports the
// picked username to onSelect.
func NewUserPicker(s *Scope, onSelect func(username string)) *Search {
	c := newSearch(s, searchConfig{
		inputID:     "user-search-input",
		panelID:     "user-search-results",
		containerID: "new-message-modal",
		minLength:   2,
		query:       s.api.SearchUsers,
		emptyText:   "No users found",
		emptyClass:  "no-users-found",
		render:      renderUserPickerResults,
	})
	c.onSelect = onSelect
	return c
}

func renderUserPickerResults(c *Search, res *api.SearchResults) []*dom.Node {
	return el.Range(res.Users, func(u api.UserResult, _ int) *dom.Node {
		rowID := "pick-user-" + u.Username
		username := u.Username
		c.bindRow(rowID, func(ev Event) {
			if ev.Type == "click" && c.onSelect != nil {
				c.onSelect(username)
			}
		})
		return el.Div(el.ID(rowID), el.Class("user-search-item"),
			el.Img(el.Class("user-search-avatar"), el.Src(avatarOrDefault(u.ProfilePicture)), el.Alt(u.Username)),
			el.Div(el.Class("user-search-info"),
				el.Div(el.Class("user-search-username"), el.Text(u.Username)),
				el.Div(el.Class("user-search-fullname"), el.Text(u.FullName)),
			),
		)
	})
}

const defaultAvatar = "/static/images/default-avatar.jpg"

func avatarOrDefault(url string) string {
	if url == "" {
		return defaultAvatar
	}
	return url
}
