package template

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

var errUnterminated = errors.New("root element is not closed")

// node is a minimal element tree. Names are lower-cased; text holds the
// character data that precedes the first child.
type node struct {
	name     string
	text     string
	children []*node
}

// parseTree reads exactly one well-formed element from the start of
// fragment. Content after the root's end tag is ignored.
func parseTree(fragment string) (*node, error) {
	dec := xml.NewDecoder(strings.NewReader(fragment))
	dec.Strict = true
	dec.Entity = xml.HTMLEntity

	var stack []*node
	var root *node
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return nil, errUnterminated
		}
		if err != nil {
			return nil, fmt.Errorf("parse markup: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			n := &node{name: strings.ToLower(t.Name.Local)}
			if len(stack) == 0 {
				if root != nil {
					return nil, errors.New("multiple root elements")
				}
				root = n
			} else {
				parent := stack[len(stack)-1]
				parent.children = append(parent.children, n)
			}
			stack = append(stack, n)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				return root, nil
			}
		case xml.CharData:
			if len(stack) > 0 {
				top := stack[len(stack)-1]
				if len(top.children) == 0 {
					top.text += string(t)
				}
			}
		}
	}
}

// find returns the first child matching a slash-separated path.
func (n *node) find(path string) *node {
	found := n.findAll(path)
	if len(found) == 0 {
		return nil
	}
	return found[0]
}

func (n *node) findAll(path string) []*node {
	current := []*node{n}
	for _, step := range strings.Split(path, "/") {
		var next []*node
		for _, c := range current {
			for _, child := range c.children {
				if child.name == step {
					next = append(next, child)
				}
			}
		}
		current = next
	}
	return current
}

// findText returns the trimmed text of the first matching child, or fallback
// when the child is missing or blank.
func (n *node) findText(path, fallback string) string {
	child := n.find(path)
	if child == nil {
		return fallback
	}
	if text := strings.TrimSpace(child.text); text != "" {
		return text
	}
	return fallback
}
