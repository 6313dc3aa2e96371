// Package xmlutils wraps xmlpath queries used by the CAMT.053 reader.
package xmlutils

import (
	"fmt"
	"io"
	"strings"

	"gopkg.in/xmlpath.v2"
)

// Parse reads an XML document and returns its root node.
func Parse(r io.Reader) (*xmlpath.Node, error) {
	root, err := xmlpath.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse XML: %w", err)
	}
	return root, nil
}

// Nodes returns every node matched by path under node.
func Nodes(node *xmlpath.Node, path *xmlpath.Path) []*xmlpath.Node {
	var out []*xmlpath.Node
	iter := path.Iter(node)
	for iter.Next() {
		out = append(out, iter.Node())
	}
	return out
}

// First returns the cleaned text of the first node matched by the paths, tried
// in order, or "" when none matches a non-blank value.
func First(node *xmlpath.Node, paths ...*xmlpath.Path) string {
	for _, p := range paths {
		if v, ok := p.String(node); ok {
			if v = CleanText(v); v != "" {
				return v
			}
		}
	}
	return ""
}

// All returns the cleaned non-blank texts of every node matched by path.
func All(node *xmlpath.Node, path *xmlpath.Path) []string {
	var out []string
	for _, n := range Nodes(node, path) {
		if v := CleanText(n.String()); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// CleanText collapses runs of whitespace to single spaces.
func CleanText(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
