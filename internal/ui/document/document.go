// Package document records what a screen rendered: the landmark nodes it
// drew, keyed by test id, and the plain text of the whole frame.
package document

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// Kind classifies a rendered node.
type Kind string

const (
	KindHeading Kind = "heading"
	KindSection Kind = "section"
	KindCard    Kind = "card"
	KindButton  Kind = "button"
	KindLink    Kind = "link"
	KindItem    Kind = "item"

	// Form controls. The page never renders these.
	KindInput    Kind = "input"
	KindSelect   Kind = "select"
	KindTextarea Kind = "textarea"
	KindForm     Kind = "form"
)

// Node is one rendered landmark.
type Node struct {
	TestID string
	Kind   Kind
	Text   string
}

// Document is built during a render and inspected afterwards.
type Document struct {
	nodes []Node
	body  string
}

// New returns an empty document.
func New() *Document {
	return &Document{}
}

// Add records a node. Styling escapes in text are stripped.
func (d *Document) Add(testID string, kind Kind, text string) {
	d.nodes = append(d.nodes, Node{TestID: testID, Kind: kind, Text: ansi.Strip(text)})
}

// SetBody records the full rendered frame.
func (d *Document) SetBody(rendered string) {
	d.body = ansi.Strip(rendered)
}

// Nodes returns the recorded nodes in render order.
func (d *Document) Nodes() []Node {
	return append([]Node(nil), d.nodes...)
}

// Has reports whether a node with testID was rendered.
func (d *Document) Has(testID string) bool {
	return d.Count(testID) > 0
}

// Count returns the number of nodes with testID.
func (d *Document) Count(testID string) int {
	n := 0
	for _, node := range d.nodes {
		if node.TestID == testID {
			n++
		}
	}
	return n
}

// CountPrefix returns the number of nodes whose test id starts with prefix.
func (d *Document) CountPrefix(prefix string) int {
	n := 0
	for _, node := range d.nodes {
		if strings.HasPrefix(node.TestID, prefix) {
			n++
		}
	}
	return n
}

// FormControls returns the number of form nodes of any kind.
func (d *Document) FormControls() int {
	n := 0
	for _, node := range d.nodes {
		switch node.Kind {
		case KindInput, KindSelect, KindTextarea, KindForm:
			n++
		}
	}
	return n
}

// Text returns the visible text: the rendered frame when one was recorded,
// otherwise the node texts one per line.
func (d *Document) Text() string {
	if d.body != "" {
		return d.body
	}
	var b strings.Builder
	for i, node := range d.nodes {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(node.Text)
	}
	return b.String()
}
