package markup

import (
	"html"
	"strings"
)

// Attr is one authored attribute. Boolean attributes (e.g. `correct`) carry
// an empty Val.
type Attr struct {
	Key string
	Val string
}

// Node is the generic authored element tree: an element with a lower-case
// tag name, attributes and ordered children, or a text node (Tag == "").
type Node struct {
	Tag      string
	Attrs    []Attr
	Children []*Node
	Text     string
}

// Element builds an element node.
func Element(tag string, attrs []Attr, children ...*Node) *Node {
	return &Node{Tag: strings.ToLower(tag), Attrs: attrs, Children: children}
}

// TextNode builds a text node.
func TextNode(s string) *Node { return &Node{Text: s} }

func (n *Node) IsText() bool { return n != nil && n.Tag == "" }

// Attr returns the value of an attribute and whether it is present.
func (n *Node) Attr(key string) (string, bool) {
	if n == nil {
		return "", false
	}
	for _, a := range n.Attrs {
		if strings.EqualFold(a.Key, key) {
			return a.Val, true
		}
	}
	return "", false
}

// AttrOr returns the attribute value, or def when the attribute is absent.
func (n *Node) AttrOr(key, def string) string {
	if v, ok := n.Attr(key); ok {
		return v
	}
	return def
}

// Has reports whether the attribute is present, regardless of its value.
func (n *Node) Has(key string) bool {
	_, ok := n.Attr(key)
	return ok
}

// AttrMap copies the attributes into a map.
func (n *Node) AttrMap() map[string]string {
	out := make(map[string]string, len(n.Attrs))
	for _, a := range n.Attrs {
		out[strings.ToLower(a.Key)] = a.Val
	}
	return out
}

// Is reports whether n is an element with the given tag.
func (n *Node) Is(tag string) bool { return n != nil && n.Tag != "" && n.Tag == tag }

// ChildrenByTag returns the direct element children with the given tag.
func (n *Node) ChildrenByTag(tag string) []*Node {
	var out []*Node
	for _, c := range n.Children {
		if c.Is(tag) {
			out = append(out, c)
		}
	}
	return out
}

// Find returns the first descendant (depth-first, document order) with the
// given tag, or nil.
func (n *Node) Find(tag string) *Node {
	for _, c := range n.Children {
		if c.Is(tag) {
			return c
		}
		if f := c.Find(tag); f != nil {
			return f
		}
	}
	return nil
}

// FindAll returns every descendant with the given tag in document order.
// Matches are not searched for further nested matches of the same tag.
func (n *Node) FindAll(tag string) []*Node {
	var out []*Node
	n.Walk(func(c *Node) bool {
		if c.Is(tag) {
			out = append(out, c)
			return false
		}
		return true
	})
	return out
}

// Walk visits the descendants of n in document order. Returning false from
// fn skips the children of the visited node.
func (n *Node) Walk(fn func(*Node) bool) {
	for _, c := range n.Children {
		if fn(c) {
			c.Walk(fn)
		}
	}
}

// Contains reports whether any descendant has the given tag.
func (n *Node) Contains(tag string) bool { return n.Find(tag) != nil }

// TextContent concatenates all descendant text.
func (n *Node) TextContent() string {
	if n.IsText() {
		return n.Text
	}
	var b strings.Builder
	for _, c := range n.Children {
		b.WriteString(c.TextContent())
	}
	return b.String()
}

// InnerHTML serializes the children of n.
func (n *Node) InnerHTML() string {
	var b strings.Builder
	for _, c := range n.Children {
		c.write(&b)
	}
	return b.String()
}

// OuterHTML serializes n including its own tag.
func (n *Node) OuterHTML() string {
	var b strings.Builder
	n.write(&b)
	return b.String()
}

// OpenTag serializes only the start tag of an element.
func (n *Node) OpenTag() string {
	var b strings.Builder
	n.writeOpen(&b)
	return b.String()
}

// CloseTag serializes the end tag of an element ("" for void elements).
func (n *Node) CloseTag() string {
	if n.IsText() || voidElements[n.Tag] {
		return ""
	}
	return "</" + n.Tag + ">"
}

func (n *Node) write(b *strings.Builder) {
	if n.IsText() {
		b.WriteString(html.EscapeString(n.Text))
		return
	}
	n.writeOpen(b)
	if voidElements[n.Tag] {
		return
	}
	for _, c := range n.Children {
		c.write(b)
	}
	b.WriteString(n.CloseTag())
}

func (n *Node) writeOpen(b *strings.Builder) {
	b.WriteByte('<')
	b.WriteString(n.Tag)
	for _, a := range n.Attrs {
		b.WriteByte(' ')
		b.WriteString(a.Key)
		if a.Val != "" {
			b.WriteString(`="`)
			b.WriteString(html.EscapeString(a.Val))
			b.WriteByte('"')
		}
	}
	b.WriteByte('>')
}

var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"source": true, "track": true, "wbr": true,
}
