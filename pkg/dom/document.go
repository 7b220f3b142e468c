package dom

import (
	"strings"
	"sync"
)

// Element is a live element inside a Document.
type Element struct {
	ID       string
	Tag      string
	Text     string
	Disabled bool
	Hidden   bool

	classes  map[string]bool
	attrs    map[string]string
	children []*Element
	parent   *Element
}

// Document is an in-memory page that applies patches the same way the thin
// client does. Tests seed it with the server-rendered contract (element ids,
// classes, data attributes) and assert on the state after widgets run.
//
// Patches addressing unknown ids are ignored, mirroring the original
// implementation's null-checked element queries.
type Document struct {
	mu    sync.Mutex
	root  *Element
	byID  map[string]*Element
	focus string

	navigations []string
	clipboard   []string
}

// NewDocument creates an empty document with a root container.
func NewDocument() *Document {
	root := &Element{ID: "root", Tag: "body", classes: map[string]bool{}, attrs: map[string]string{}}
	return &Document{
		root: root,
		byID: map[string]*Element{"root": root},
	}
}

// Seed adds an element under the given parent, registering it by id.
// It returns the document for chained setup.
func (d *Document) Seed(parentID string, node *Node) *Document {
	d.mu.Lock()
	defer d.mu.Unlock()
	parent := d.byID[parentID]
	if parent == nil {
		parent = d.root
	}
	d.attach(parent, node)
	return d
}

func (d *Document) attach(parent *Element, node *Node) *Element {
	if node == nil {
		return nil
	}
	el := &Element{
		ID:      node.ID,
		Tag:     node.Tag,
		Text:    node.Text,
		classes: map[string]bool{},
		attrs:   map[string]string{},
		parent:  parent,
	}
	for _, c := range node.Classes {
		el.classes[c] = true
	}
	for k, v := range node.Attrs {
		el.attrs[k] = v
	}
	parent.children = append(parent.children, el)
	if el.ID != "" {
		d.byID[el.ID] = el
	}
	for _, child := range node.Children {
		d.attach(el, child)
	}
	return el
}

func (d *Document) detach(el *Element) {
	if el.ID != "" {
		delete(d.byID, el.ID)
	}
	for len(el.children) > 0 {
		d.detach(el.children[0])
	}
	if p := el.parent; p != nil {
		for i, c := range p.children {
			if c == el {
				p.children = append(p.children[:i], p.children[i+1:]...)
				break
			}
		}
	}
}

// Apply implements Sink.
func (d *Document) Apply(patches []Patch) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, p := range patches {
		switch p.Op {
		case OpNavigate:
			d.navigations = append(d.navigations, p.Value)
			continue
		case OpClipboard:
			d.clipboard = append(d.clipboard, p.Value)
			continue
		}

		el := d.byID[p.Target]
		if el == nil {
			continue
		}

		switch p.Op {
		case OpAddClass:
			el.classes[p.Name] = true
		case OpRemoveClass:
			delete(el.classes, p.Name)
		case OpSetAttr:
			if p.Name == "class" {
				el.classes = map[string]bool{}
				for _, c := range strings.Fields(p.Value) {
					el.classes[c] = true
				}
			} else {
				el.attrs[p.Name] = p.Value
			}
		case OpSetText:
			el.Text = p.Value
		case OpSetValue:
			el.attrs["value"] = p.Value
		case OpAppend:
			if p.Node != nil {
				d.attach(el, p.Node)
			}
		case OpReplaceChildren:
			// detach shrinks el.children in place, so drain from the front
			// rather than ranging.
			for len(el.children) > 0 {
				d.detach(el.children[0])
			}
			for _, n := range p.Nodes {
				d.attach(el, n)
			}
		case OpRemove:
			d.detach(el)
		case OpMoveFront:
			if parent := el.parent; parent != nil && len(parent.children) > 1 {
				for i, c := range parent.children {
					if c == el {
						copy(parent.children[1:i+1], parent.children[:i])
						parent.children[0] = el
						break
					}
				}
			}
		case OpScrollEnd:
			el.attrs["data-scrolled"] = "end"
		case OpSetDisabled:
			el.Disabled = p.Value == "true"
		case OpShow:
			el.Hidden = false
		case OpHide:
			el.Hidden = true
		case OpFocus:
			d.focus = p.Target
		}
	}
}

// Exists reports whether an element with the given id is in the page.
func (d *Document) Exists(id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.byID[id] != nil
}

// HasClass reports whether the element carries the class.
func (d *Document) HasClass(id, class string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	el := d.byID[id]
	return el != nil && el.classes[class]
}

// Attr returns the attribute value, or "" for a missing element/attribute.
func (d *Document) Attr(id, name string) string {
	d.mu.Lock()
	defer d.mu.Unlock()
	if el := d.byID[id]; el != nil {
		return el.attrs[name]
	}
	return ""
}

// Text returns the element's text content.
func (d *Document) Text(id string) string {
	d.mu.Lock()
	defer d.mu.Unlock()
	if el := d.byID[id]; el != nil {
		return el.Text
	}
	return ""
}

// Disabled reports the element's disabled state.
func (d *Document) Disabled(id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	el := d.byID[id]
	return el != nil && el.Disabled
}

// Hidden reports whether the element is hidden.
func (d *Document) Hidden(id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	el := d.byID[id]
	return el != nil && el.Hidden
}

// Focused returns the id of the element holding focus, or "".
func (d *Document) Focused() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.focus
}

// ChildIDs returns the ids of the element's direct children, in order.
// Children without ids contribute an empty string.
func (d *Document) ChildIDs(id string) []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	el := d.byID[id]
	if el == nil {
		return nil
	}
	ids := make([]string, len(el.children))
	for i, c := range el.children {
		ids[i] = c.ID
	}
	return ids
}

// ChildCount returns the number of direct children.
func (d *Document) ChildCount(id string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	if el := d.byID[id]; el != nil {
		return len(el.children)
	}
	return 0
}

// ChildrenWithClass returns the ids of direct children carrying the class.
func (d *Document) ChildrenWithClass(id, class string) []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	el := d.byID[id]
	if el == nil {
		return nil
	}
	var ids []string
	for _, c := range el.children {
		if c.classes[class] {
			ids = append(ids, c.ID)
		}
	}
	return ids
}

// ChildTexts returns the text content of the element's direct children.
func (d *Document) ChildTexts(id string) []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	el := d.byID[id]
	if el == nil {
		return nil
	}
	texts := make([]string, len(el.children))
	for i, c := range el.children {
		texts[i] = c.Text
	}
	return texts
}

// Navigations returns the URLs the page was asked to navigate to.
func (d *Document) Navigations() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.navigations...)
}

// ClipboardWrites returns the texts copied to the clipboard.
func (d *Document) ClipboardWrites() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.clipboard...)
}
