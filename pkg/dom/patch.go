package dom

// Op identifies a patch operation.
type Op string

const (
	// OpAddClass adds Name to the target's class list.
	OpAddClass Op = "add_class"

	// OpRemoveClass removes Name from the target's class list.
	OpRemoveClass Op = "remove_class"

	// OpSetAttr sets attribute Name to Value on the target.
	OpSetAttr Op = "set_attr"

	// OpSetText replaces the target's text content with Value.
	OpSetText Op = "set_text"

	// OpAppend appends Node as the target's last child.
	OpAppend Op = "append"

	// OpReplaceChildren removes the target's children and appends Nodes.
	OpReplaceChildren Op = "replace_children"

	// OpRemove removes the target from the page.
	OpRemove Op = "remove"

	// OpMoveFront moves the target to the front of its parent's children.
	OpMoveFront Op = "move_front"

	// OpScrollEnd scrolls the target container to its end.
	OpScrollEnd Op = "scroll_end"

	// OpSetDisabled sets the target's disabled state (Value "true"/"false").
	OpSetDisabled Op = "set_disabled"

	// OpShow makes the target visible.
	OpShow Op = "show"

	// OpHide hides the target.
	OpHide Op = "hide"

	// OpFocus gives the target input focus.
	OpFocus Op = "focus"

	// OpSetValue sets an input element's value to Value.
	OpSetValue Op = "set_value"

	// OpNavigate asks the client to navigate to the URL in Value.
	// Target is unused.
	OpNavigate Op = "navigate"

	// OpClipboard asks the client to copy Value to the clipboard.
	// Target is unused.
	OpClipboard Op = "clipboard"
)

// Patch is a single render instruction, JSON-encodable for the wire.
type Patch struct {
	Op     Op      `json:"op"`
	Target string  `json:"target,omitempty"`
	Name   string  `json:"name,omitempty"`
	Value  string  `json:"value,omitempty"`
	Node   *Node   `json:"node,omitempty"`
	Nodes  []*Node `json:"nodes,omitempty"`
}

// Sink receives patches produced by widgets. Apply is called from the
// owning scope's dispatch loop, one batch per turn.
type Sink interface {
	Apply(patches []Patch)
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(patches []Patch)

// Apply implements Sink.
func (f SinkFunc) Apply(patches []Patch) {
	f(patches)
}

// AddClass builds an add_class patch.
func AddClass(target, class string) Patch {
	return Patch{Op: OpAddClass, Target: target, Name: class}
}

// RemoveClass builds a remove_class patch.
func RemoveClass(target, class string) Patch {
	return Patch{Op: OpRemoveClass, Target: target, Name: class}
}

// SetAttr builds a set_attr patch.
func SetAttr(target, name, value string) Patch {
	return Patch{Op: OpSetAttr, Target: target, Name: name, Value: value}
}

// SetText builds a set_text patch.
func SetText(target, text string) Patch {
	return Patch{Op: OpSetText, Target: target, Value: text}
}

// Append builds an append patch.
func Append(target string, node *Node) Patch {
	return Patch{Op: OpAppend, Target: target, Node: node}
}

// ReplaceChildren builds a replace_children patch.
func ReplaceChildren(target string, nodes ...*Node) Patch {
	return Patch{Op: OpReplaceChildren, Target: target, Nodes: nodes}
}

// Remove builds a remove patch.
func Remove(target string) Patch {
	return Patch{Op: OpRemove, Target: target}
}

// MoveFront builds a move_front patch.
func MoveFront(target string) Patch {
	return Patch{Op: OpMoveFront, Target: target}
}

// ScrollEnd builds a scroll_end patch.
func ScrollEnd(target string) Patch {
	return Patch{Op: OpScrollEnd, Target: target}
}

// SetDisabled builds a set_disabled patch.
func SetDisabled(target string, disabled bool) Patch {
	v := "false"
	if disabled {
		v = "true"
	}
	return Patch{Op: OpSetDisabled, Target: target, Value: v}
}

// Show builds a show patch.
func Show(target string) Patch {
	return Patch{Op: OpShow, Target: target}
}

// Hide builds a hide patch.
func Hide(target string) Patch {
	return Patch{Op: OpHide, Target: target}
}

// Focus builds a focus patch.
func Focus(target string) Patch {
	return Patch{Op: OpFocus, Target: target}
}

// SetValue builds a set_value patch.
func SetValue(target, value string) Patch {
	return Patch{Op: OpSetValue, Target: target, Value: value}
}

// Navigate builds a navigate patch.
func Navigate(url string) Patch {
	return Patch{Op: OpNavigate, Value: url}
}

// Clipboard builds a clipboard patch.
func Clipboard(text string) Patch {
	return Patch{Op: OpClipboard, Value: text}
}
