// Package dom reads back the markup the renderer produces, so surfaces that
// are not browsers (the terminal UI, tests) can find rows, inputs and
// controls from attributes alone.
package dom

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/Makepad-fr/tada/internal/surface"
)

// Element is an input or button found in the markup.
type Element struct {
	Tag      string // upper-case
	ID       string
	Class    string
	Ref      string
	Value    string
	ReadOnly bool
}

// Target converts the element into a click target.
func (e Element) Target() surface.Target {
	return surface.Target{Tag: e.Tag, Class: e.Class, ID: e.ID, Ref: e.Ref}
}

// Row is one list item: a title input and its controls.
type Row struct {
	Input    Element
	Controls []Element
}

// Control returns the button with the given class.
func (r Row) Control(class string) (Element, bool) {
	for _, c := range r.Controls {
		if c.Class == class {
			return c, true
		}
	}
	return Element{}, false
}

// Fragment is the parsed content of one container.
type Fragment struct {
	Rows []Row
	// Text is loose text outside any row, such as an empty-list placeholder.
	Text string
}

// Element finds an input or button by element id.
func (f Fragment) Element(id string) (Element, bool) {
	for _, r := range f.Rows {
		if r.Input.ID == id {
			return r.Input, true
		}
		for _, c := range r.Controls {
			if c.ID != "" && c.ID == id {
				return c, true
			}
		}
	}
	return Element{}, false
}

// Parse reads container markup.
func Parse(markup string) (Fragment, error) {
	ctx := &html.Node{Type: html.ElementNode, Data: "ul", DataAtom: atom.Ul}
	nodes, err := html.ParseFragment(strings.NewReader(markup), ctx)
	if err != nil {
		return Fragment{}, fmt.Errorf("parse markup: %w", err)
	}

	var f Fragment
	var text []string
	for _, n := range nodes {
		switch {
		case n.Type == html.ElementNode && n.DataAtom == atom.Li:
			f.Rows = append(f.Rows, parseRow(n))
		case n.Type == html.TextNode:
			if s := strings.TrimSpace(n.Data); s != "" {
				text = append(text, s)
			}
		}
	}
	f.Text = strings.Join(text, " ")
	return f, nil
}

func parseRow(li *html.Node) Row {
	var row Row
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.DataAtom {
			case atom.Input:
				row.Input = element(n)
				return
			case atom.Button:
				row.Controls = append(row.Controls, element(n))
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(li)
	return row
}

func element(n *html.Node) Element {
	e := Element{Tag: strings.ToUpper(n.Data)}
	for _, a := range n.Attr {
		switch a.Key {
		case "id":
			e.ID = a.Val
		case "class":
			e.Class = a.Val
		case surface.AttrRef:
			e.Ref = a.Val
		case "value":
			e.Value = a.Val
		case "readonly":
			e.ReadOnly = true
		}
	}
	return e
}
