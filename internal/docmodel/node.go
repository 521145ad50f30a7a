package docmodel

import (
	"encoding/json"
	"strings"
)

// Node type names used in stored content trees.
const (
	TypeDoc            = "doc"
	TypeHeading        = "heading"
	TypeParagraph      = "paragraph"
	TypeBulletList     = "bulletList"
	TypeOrderedList    = "orderedList"
	TypeListItem       = "listItem"
	TypeCodeBlock      = "codeBlock"
	TypeBlockquote     = "blockquote"
	TypeTable          = "table"
	TypeTableRow       = "tableRow"
	TypeTableCell      = "tableCell"
	TypeTableHeader    = "tableHeader"
	TypeImage          = "image"
	TypeHorizontalRule = "horizontalRule"
	TypeHardBreak      = "hardBreak"
	TypeText           = "text"
	TypeTimestampLink  = "timestampLink"
)

// Mark type names applied to inline text nodes.
const (
	MarkBold   = "bold"
	MarkItalic = "italic"
	MarkCode   = "code"
	MarkLink   = "link"
)

// Mark annotates an inline text node with formatting.
type Mark struct {
	Type  string         `json:"type"`
	Attrs map[string]any `json:"attrs,omitempty"`
}

// Node is one element of a structured content tree. Exactly one of Text and
// Content is populated for most node types; leaf nodes such as image and
// horizontalRule carry neither.
type Node struct {
	Type    string         `json:"type"`
	Attrs   map[string]any `json:"attrs,omitempty"`
	Marks   []Mark         `json:"marks,omitempty"`
	Text    string         `json:"text,omitempty"`
	Content []*Node        `json:"content,omitempty"`
}

// NewDoc wraps block nodes in a document root.
func NewDoc(content ...*Node) *Node {
	return &Node{Type: TypeDoc, Content: content}
}

// NewText returns an inline text node with optional marks.
func NewText(text string, marks ...Mark) *Node {
	return &Node{Type: TypeText, Text: text, Marks: marks}
}

// NewTimestampLink returns an inline node pointing at a video offset.
func NewTimestampLink(seconds int) *Node {
	return &Node{Type: TypeTimestampLink, Attrs: map[string]any{"seconds": seconds}}
}

// ToJSON serializes the tree. Map keys are emitted in sorted order, so equal
// trees always produce identical bytes.
func (n *Node) ToJSON() (string, error) {
	data, err := json.Marshal(n)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// FromJSON parses a stored content tree.
func FromJSON(raw string) (*Node, error) {
	var node Node
	if err := json.Unmarshal([]byte(raw), &node); err != nil {
		return nil, err
	}
	return &node, nil
}

// PlainText flattens the tree into readable text. Block nodes are separated
// by newlines; timestamp links are dropped since they carry no prose.
func (n *Node) PlainText() string {
	var b strings.Builder
	n.writePlainText(&b)
	return strings.TrimSpace(b.String())
}

func (n *Node) writePlainText(b *strings.Builder) {
	if n.Type == TypeText {
		b.WriteString(n.Text)
		return
	}
	if n.Type == TypeHardBreak {
		b.WriteString("\n")
		return
	}
	for _, child := range n.Content {
		child.writePlainText(b)
	}
	if isBlockType(n.Type) {
		b.WriteString("\n")
	}
}

func isBlockType(nodeType string) bool {
	switch nodeType {
	case TypeHeading, TypeParagraph, TypeCodeBlock, TypeBlockquote,
		TypeBulletList, TypeOrderedList, TypeListItem, TypeTable, TypeTableRow:
		return true
	default:
		return false
	}
}

// Walk visits every node in the tree depth-first, parents before children.
// Returning false from the visitor stops descent into that node's children.
func (n *Node) Walk(visit func(*Node) bool) {
	if !visit(n) {
		return
	}
	for _, child := range n.Content {
		child.Walk(visit)
	}
}
