package docmodel_test

import (
	"testing"

	"reeldocs/internal/docmodel"
)

func TestFromSectionsBuildsHeadingAndTimestampParagraph(t *testing.T) {
	doc := docmodel.FromSections([]docmodel.Section{
		{Heading: "Install", Content: "Run [video:01:15] npm install."},
	})

	if doc.Type != docmodel.TypeDoc {
		t.Fatalf("expected doc root, got %s", doc.Type)
	}
	if len(doc.Content) != 2 {
		t.Fatalf("expected heading and paragraph, got %d nodes", len(doc.Content))
	}

	heading := doc.Content[0]
	if heading.Type != docmodel.TypeHeading {
		t.Fatalf("expected heading first, got %s", heading.Type)
	}
	if level, ok := heading.Attrs["level"].(int); !ok || level != 2 {
		t.Fatalf("expected section heading level 2, got %v", heading.Attrs["level"])
	}
	if len(heading.Content) != 1 || heading.Content[0].Text != "Install" {
		t.Fatalf("unexpected heading content: %#v", heading.Content)
	}

	paragraph := doc.Content[1]
	if paragraph.Type != docmodel.TypeParagraph {
		t.Fatalf("expected paragraph, got %s", paragraph.Type)
	}
	if len(paragraph.Content) != 3 {
		t.Fatalf("expected 3 inline nodes, got %#v", paragraph.Content)
	}
	if paragraph.Content[0].Text != "Run " {
		t.Fatalf("unexpected leading text: %q", paragraph.Content[0].Text)
	}
	link := paragraph.Content[1]
	if link.Type != docmodel.TypeTimestampLink {
		t.Fatalf("expected timestampLink, got %s", link.Type)
	}
	if seconds, ok := link.Attrs["seconds"].(int); !ok || seconds != 75 {
		t.Fatalf("expected 75 seconds, got %v", link.Attrs["seconds"])
	}
	if paragraph.Content[2].Text != " npm install." {
		t.Fatalf("unexpected trailing text: %q", paragraph.Content[2].Text)
	}
}

func TestFromSectionsPrependsTimestampRefToHeading(t *testing.T) {
	doc := docmodel.FromSections([]docmodel.Section{
		{Heading: "Setup", Content: "Body.", TimestampRef: "02:30"},
	})

	heading := doc.Content[0]
	if len(heading.Content) != 3 {
		t.Fatalf("expected link, space, text in heading, got %#v", heading.Content)
	}
	if heading.Content[0].Type != docmodel.TypeTimestampLink {
		t.Fatalf("expected timestampLink first, got %s", heading.Content[0].Type)
	}
	if seconds := heading.Content[0].Attrs["seconds"].(int); seconds != 150 {
		t.Fatalf("expected 150 seconds, got %d", seconds)
	}
	if heading.Content[1].Text != " " || heading.Content[2].Text != "Setup" {
		t.Fatalf("unexpected heading tail: %#v", heading.Content[1:])
	}
}

func TestFromSectionsDemotesBodyHeadings(t *testing.T) {
	doc := docmodel.FromSections([]docmodel.Section{
		{Heading: "Guide", Content: "## Steps\n\nDo the thing."},
	})

	var bodyHeading *docmodel.Node
	doc.Walk(func(n *docmodel.Node) bool {
		if n.Type == docmodel.TypeHeading {
			if level, _ := n.Attrs["level"].(int); level == 3 {
				bodyHeading = n
			}
		}
		return true
	})
	if bodyHeading == nil {
		t.Fatal("expected body heading demoted to level 3")
	}
	if len(bodyHeading.Content) != 1 || bodyHeading.Content[0].Text != "Steps" {
		t.Fatalf("unexpected body heading: %#v", bodyHeading.Content)
	}
}

func TestFromSectionsConvertsListsAndCode(t *testing.T) {
	doc := docmodel.FromSections([]docmodel.Section{
		{
			Heading: "Commands",
			Content: "- first\n- second\n\n```sh\nnpm install\nnpm start\n```",
		},
	})

	var (
		list *docmodel.Node
		code *docmodel.Node
	)
	doc.Walk(func(n *docmodel.Node) bool {
		switch n.Type {
		case docmodel.TypeBulletList:
			list = n
		case docmodel.TypeCodeBlock:
			code = n
		}
		return true
	})

	if list == nil || len(list.Content) != 2 {
		t.Fatalf("expected bullet list with 2 items, got %#v", list)
	}
	item := list.Content[0]
	if item.Type != docmodel.TypeListItem {
		t.Fatalf("expected listItem, got %s", item.Type)
	}
	if len(item.Content) != 1 || item.Content[0].Type != docmodel.TypeParagraph {
		t.Fatalf("expected paragraph inside list item, got %#v", item.Content)
	}

	if code == nil {
		t.Fatal("expected code block")
	}
	if lang, _ := code.Attrs["language"].(string); lang != "sh" {
		t.Fatalf("unexpected code language: %v", code.Attrs["language"])
	}
	if len(code.Content) != 1 || code.Content[0].Text != "npm install\nnpm start" {
		t.Fatalf("unexpected code text: %#v", code.Content)
	}
}

func TestFromSectionsAppliesInlineMarks(t *testing.T) {
	doc := docmodel.FromSections([]docmodel.Section{
		{Heading: "Style", Content: "Use **bold** and *italic* and `code`."},
	})

	marksByText := map[string]string{}
	doc.Walk(func(n *docmodel.Node) bool {
		if n.Type == docmodel.TypeText && len(n.Marks) == 1 {
			marksByText[n.Text] = n.Marks[0].Type
		}
		return true
	})

	if marksByText["bold"] != docmodel.MarkBold {
		t.Fatalf("expected bold mark, got %q", marksByText["bold"])
	}
	if marksByText["italic"] != docmodel.MarkItalic {
		t.Fatalf("expected italic mark, got %q", marksByText["italic"])
	}
	if marksByText["code"] != docmodel.MarkCode {
		t.Fatalf("expected code mark, got %q", marksByText["code"])
	}
}

func TestFromSectionsConvertsTables(t *testing.T) {
	doc := docmodel.FromSections([]docmodel.Section{
		{Heading: "Matrix", Content: "| Flag | Effect |\n| --- | --- |\n| -v | verbose |"},
	})

	var table *docmodel.Node
	doc.Walk(func(n *docmodel.Node) bool {
		if n.Type == docmodel.TypeTable {
			table = n
			return false
		}
		return true
	})
	if table == nil {
		t.Fatal("expected table node")
	}
	if len(table.Content) != 2 {
		t.Fatalf("expected header and one body row, got %d", len(table.Content))
	}
	headerRow := table.Content[0]
	if headerRow.Content[0].Type != docmodel.TypeTableHeader {
		t.Fatalf("expected tableHeader cells, got %s", headerRow.Content[0].Type)
	}
	bodyRow := table.Content[1]
	if bodyRow.Content[0].Type != docmodel.TypeTableCell {
		t.Fatalf("expected tableCell cells, got %s", bodyRow.Content[0].Type)
	}
}
