// Package el provides a small DSL for building dom.Node trees.
//
// Constructors accept a mix of attributes and child nodes:
//
//	el.Div(el.ID("comment-7"), el.Class("comment"),
//	    el.Img(el.Class("comment-avatar"), el.Src(avatar), el.Alt(username)),
//	    el.Span(el.Class("comment-message"), el.Text(text)),
//	)
package el

import (
	"fmt"

	"github.com/pulsegram/pulse/pkg/dom"
)

// Attr applies an attribute to a node under construction.
type Attr func(n *dom.Node)

// El builds a node with the given tag. Arguments may be Attr values,
// *dom.Node children, or []*dom.Node child slices; nils are skipped.
func El(tag string, args ...any) *dom.Node {
	n := &dom.Node{Tag: tag}
	for _, arg := range args {
		switch v := arg.(type) {
		case nil:
		case Attr:
			if v != nil {
				v(n)
			}
		case *dom.Node:
			if v != nil {
				n.Children = append(n.Children, v)
			}
		case []*dom.Node:
			for _, c := range v {
				if c != nil {
					n.Children = append(n.Children, c)
				}
			}
		default:
			panic(fmt.Sprintf("el: unsupported argument type %T", arg))
		}
	}
	return n
}

func Div(args ...any) *dom.Node    { return El("div", args...) }
func Span(args ...any) *dom.Node   { return El("span", args...) }
func A(args ...any) *dom.Node      { return El("a", args...) }
func Img(args ...any) *dom.Node    { return El("img", args...) }
func Button(args ...any) *dom.Node { return El("button", args...) }
func Input(args ...any) *dom.Node  { return El("input", args...) }

// ID sets the node's id.
func ID(id string) Attr {
	return func(n *dom.Node) { n.ID = id }
}

// Class adds classes to the node.
func Class(classes ...string) Attr {
	return func(n *dom.Node) { n.Classes = append(n.Classes, classes...) }
}

// Text sets the node's text content.
func Text(content string) Attr {
	return func(n *dom.Node) { n.Text = content }
}

// Textf sets the node's text content from a format string.
func Textf(format string, args ...any) Attr {
	return Text(fmt.Sprintf(format, args...))
}

// Set sets an arbitrary attribute.
func Set(name, value string) Attr {
	return func(n *dom.Node) { n.SetAttr(name, value) }
}

// Src sets the src attribute.
func Src(url string) Attr { return Set("src", url) }

// Href sets the href attribute.
func Href(url string) Attr { return Set("href", url) }

// Alt sets the alt attribute.
func Alt(text string) Attr { return Set("alt", text) }

// Data sets a data-* attribute.
func Data(key, value string) Attr { return Set("data-"+key, value) }

// If returns node when the condition holds, nil otherwise.
func If(condition bool, node *dom.Node) *dom.Node {
	if condition {
		return node
	}
	return nil
}

// Range maps items to child nodes.
func Range[T any](items []T, fn func(item T, index int) *dom.Node) []*dom.Node {
	nodes := make([]*dom.Node, 0, len(items))
	for i, item := range items {
		if n := fn(item, i); n != nil {
			nodes = append(nodes, n)
		}
	}
	return nodes
}
