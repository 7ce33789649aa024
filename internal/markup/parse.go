package markup

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// RootTag names the synthetic element returned by Parse around the parsed
// fragment.
const RootTag = "#fragment"

// Parse reads an authored HTML fragment (slide markup containing lsx-* tags)
// into a Node tree. Text is kept verbatim, including whitespace; comments
// and doctypes are dropped.
//
// Custom elements are never void in HTML, so `<lsx-gap answer="x"/>` opens
// an element that swallows its following siblings. Authors must close gaps
// explicitly.
func Parse(r io.Reader) (*Node, error) {
	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(r, body)
	if err != nil {
		return nil, fmt.Errorf("parse markup: %w", err)
	}
	root := &Node{Tag: RootTag}
	for _, hn := range nodes {
		if c := convert(hn); c != nil {
			root.Children = append(root.Children, c)
		}
	}
	return root, nil
}

// ParseString is Parse over a string.
func ParseString(s string) (*Node, error) {
	return Parse(strings.NewReader(s))
}

// ParseFile parses the markup file at path.
func ParseFile(path string) (*Node, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

func convert(hn *html.Node) *Node {
	switch hn.Type {
	case html.TextNode:
		return &Node{Text: hn.Data}
	case html.ElementNode:
		n := &Node{Tag: strings.ToLower(hn.Data)}
		for _, a := range hn.Attr {
			n.Attrs = append(n.Attrs, Attr{Key: strings.ToLower(a.Key), Val: a.Val})
		}
		for c := hn.FirstChild; c != nil; c = c.NextSibling {
			if cn := convert(c); cn != nil {
				n.Children = append(n.Children, cn)
			}
		}
		return n
	default:
		return nil
	}
}
