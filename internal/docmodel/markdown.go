package docmodel

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

// Section is one generated documentation section: a heading plus markdown
// body, optionally anchored to a video offset.
type Section struct {
	Heading      string
	Content      string
	TimestampRef string
}

var markdown = goldmark.New(goldmark.WithExtensions(extension.Table))

// FromSections converts generated sections into a single document tree. Each
// section contributes a level-2 heading followed by its converted markdown
// body; headings inside the body are demoted one level so they nest under the
// section heading.
func FromSections(sections []Section) *Node {
	var nodes []*Node

	for _, section := range sections {
		headingInline := SplitTimestamps(section.Heading)

		if section.TimestampRef != "" {
			if seconds := ParseTimestampRef(section.TimestampRef); seconds > 0 {
				headingInline = append(
					[]*Node{NewTimestampLink(seconds), NewText(" ")},
					headingInline...,
				)
			}
		}

		nodes = append(nodes, &Node{
			Type:    TypeHeading,
			Attrs:   map[string]any{"level": 2},
			Content: headingInline,
		})

		source := []byte(section.Content)
		root := markdown.Parser().Parse(text.NewReader(source))
		nodes = append(nodes, blockNodes(root, source)...)
	}

	return NewDoc(nodes...)
}

func blockNodes(parent ast.Node, source []byte) []*Node {
	var nodes []*Node
	for child := parent.FirstChild(); child != nil; child = child.NextSibling() {
		if converted := convertBlock(child, source); converted != nil {
			nodes = append(nodes, converted...)
		}
	}
	return nodes
}

func convertBlock(node ast.Node, source []byte) []*Node {
	switch n := node.(type) {
	case *ast.Heading:
		level := n.Level + 1
		if level > 6 {
			level = 6
		}
		return []*Node{{
			Type:    TypeHeading,
			Attrs:   map[string]any{"level": level},
			Content: inlineNodes(n, source, nil),
		}}
	case *ast.Paragraph:
		inline := inlineNodes(n, source, nil)
		if len(inline) == 0 {
			return nil
		}
		return []*Node{{Type: TypeParagraph, Content: inline}}
	case *ast.TextBlock:
		// Tight list items wrap their text in a TextBlock instead of a
		// paragraph; stored trees always use paragraphs.
		inline := inlineNodes(n, source, nil)
		if len(inline) == 0 {
			return nil
		}
		return []*Node{{Type: TypeParagraph, Content: inline}}
	case *ast.List:
		listType := TypeBulletList
		if n.IsOrdered() {
			listType = TypeOrderedList
		}
		var items []*Node
		for item := n.FirstChild(); item != nil; item = item.NextSibling() {
			items = append(items, &Node{
				Type:    TypeListItem,
				Content: blockNodes(item, source),
			})
		}
		return []*Node{{Type: listType, Content: items}}
	case *ast.FencedCodeBlock:
		var language any
		if lang := n.Language(source); len(lang) > 0 {
			language = string(lang)
		}
		return []*Node{{
			Type:    TypeCodeBlock,
			Attrs:   map[string]any{"language": language},
			Content: []*Node{NewText(codeLines(n, source))},
		}}
	case *ast.CodeBlock:
		return []*Node{{
			Type:    TypeCodeBlock,
			Attrs:   map[string]any{"language": nil},
			Content: []*Node{NewText(codeLines(n, source))},
		}}
	case *ast.Blockquote:
		return []*Node{{Type: TypeBlockquote, Content: blockNodes(n, source)}}
	case *ast.ThematicBreak:
		return []*Node{{Type: TypeHorizontalRule}}
	case *extast.Table:
		return []*Node{convertTable(n, source)}
	default:
		// Unknown block kinds degrade to their plain text rather than
		// dropping content on the floor.
		if node.HasChildren() {
			inline := inlineNodes(node, source, nil)
			if len(inline) > 0 {
				return []*Node{{Type: TypeParagraph, Content: inline}}
			}
		}
		return nil
	}
}

func convertTable(table *extast.Table, source []byte) *Node {
	var rows []*Node
	for row := table.FirstChild(); row != nil; row = row.NextSibling() {
		cellType := TypeTableCell
		if _, ok := row.(*extast.TableHeader); ok {
			cellType = TypeTableHeader
		}
		var cells []*Node
		for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
			cells = append(cells, &Node{
				Type: cellType,
				Content: []*Node{{
					Type:    TypeParagraph,
					Content: inlineNodes(cell, source, nil),
				}},
			})
		}
		rows = append(rows, &Node{Type: TypeTableRow, Content: cells})
	}
	return &Node{Type: TypeTable, Content: rows}
}

// inlineNodes converts a block's inline children. Adjacent literal text is
// coalesced before timestamp splitting: the parser fragments text at bracket
// boundaries, so a [video:MM:SS] marker can span several AST text nodes.
func inlineNodes(parent ast.Node, source []byte, marks []Mark) []*Node {
	var (
		nodes []*Node
		buf   strings.Builder
	)
	flush := func() {
		if buf.Len() == 0 {
			return
		}
		nodes = append(nodes, SplitTimestamps(buf.String(), marks...)...)
		buf.Reset()
	}

	for child := parent.FirstChild(); child != nil; child = child.NextSibling() {
		switch n := child.(type) {
		case *ast.Text:
			buf.Write(n.Segment.Value(source))
			if n.HardLineBreak() {
				flush()
				nodes = append(nodes, &Node{Type: TypeHardBreak})
			} else if n.SoftLineBreak() {
				buf.WriteString(" ")
			}
		case *ast.String:
			buf.Write(n.Value)
		default:
			flush()
			nodes = append(nodes, convertInline(child, source, marks)...)
		}
	}
	flush()
	return nodes
}

func convertInline(node ast.Node, source []byte, marks []Mark) []*Node {
	switch n := node.(type) {
	case *ast.Emphasis:
		mark := Mark{Type: MarkItalic}
		if n.Level >= 2 {
			mark = Mark{Type: MarkBold}
		}
		return inlineNodes(n, source, appendMark(marks, mark))
	case *ast.CodeSpan:
		return []*Node{NewText(nodeText(n, source), appendMark(marks, Mark{Type: MarkCode})...)}
	case *ast.Link:
		linkMark := Mark{Type: MarkLink, Attrs: map[string]any{"href": string(n.Destination)}}
		return []*Node{NewText(nodeText(n, source), appendMark(marks, linkMark)...)}
	case *ast.AutoLink:
		url := string(n.URL(source))
		linkMark := Mark{Type: MarkLink, Attrs: map[string]any{"href": url}}
		return []*Node{NewText(string(n.Label(source)), appendMark(marks, linkMark)...)}
	case *ast.Image:
		return []*Node{{
			Type: TypeImage,
			Attrs: map[string]any{
				"src": string(n.Destination),
				"alt": nodeText(n, source),
			},
		}}
	case *ast.RawHTML:
		return nil
	default:
		if node.HasChildren() {
			return inlineNodes(node, source, marks)
		}
		return nil
	}
}

// appendMark copies before appending so sibling branches never share a
// backing array.
func appendMark(marks []Mark, mark Mark) []Mark {
	combined := make([]Mark, 0, len(marks)+1)
	combined = append(combined, marks...)
	return append(combined, mark)
}

func nodeText(node ast.Node, source []byte) string {
	var b strings.Builder
	collectText(node, source, &b)
	return b.String()
}

func collectText(node ast.Node, source []byte, b *strings.Builder) {
	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		switch n := child.(type) {
		case *ast.Text:
			b.Write(n.Segment.Value(source))
		case *ast.String:
			b.Write(n.Value)
		default:
			collectText(child, source, b)
		}
	}
}

func codeLines(node interface {
	Lines() *text.Segments
}, source []byte) string {
	var b strings.Builder
	lines := node.Lines()
	for i := 0; i < lines.Len(); i++ {
		segment := lines.At(i)
		b.Write(segment.Value(source))
	}
	return strings.TrimRight(b.String(), "\n")
}
