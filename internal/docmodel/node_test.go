package docmodel_test

import (
	"strings"
	"testing"

	"reeldocs/internal/docmodel"
)

func TestSplitTimestampsExtractsMarkers(t *testing.T) {
	cases := []struct {
		name    string
		input   string
		types   []string
		seconds []int
	}{
		{
			name:  "no markers",
			input: "plain text",
			types: []string{docmodel.TypeText},
		},
		{
			name:    "marker in the middle",
			input:   "see [video:01:15] here",
			types:   []string{docmodel.TypeText, docmodel.TypeTimestampLink, docmodel.TypeText},
			seconds: []int{75},
		},
		{
			name:    "marker at the start",
			input:   "[video:00:09] intro",
			types:   []string{docmodel.TypeTimestampLink, docmodel.TypeText},
			seconds: []int{9},
		},
		{
			name:    "multiple markers",
			input:   "[video:10:00] and [video:12:30]",
			types:   []string{docmodel.TypeTimestampLink, docmodel.TypeText, docmodel.TypeTimestampLink},
			seconds: []int{600, 750},
		},
		{
			name:  "single digit seconds not matched",
			input: "[video:1:5] stays literal",
			types: []string{docmodel.TypeText},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			nodes := docmodel.SplitTimestamps(tc.input)
			if len(nodes) != len(tc.types) {
				t.Fatalf("expected %d nodes, got %#v", len(tc.types), nodes)
			}
			var gotSeconds []int
			var rebuilt strings.Builder
			for i, node := range nodes {
				if node.Type != tc.types[i] {
					t.Fatalf("node %d: expected %s, got %s", i, tc.types[i], node.Type)
				}
				if node.Type == docmodel.TypeTimestampLink {
					gotSeconds = append(gotSeconds, node.Attrs["seconds"].(int))
				} else {
					rebuilt.WriteString(node.Text)
				}
			}
			for i, want := range tc.seconds {
				if gotSeconds[i] != want {
					t.Fatalf("marker %d: expected %d seconds, got %d", i, want, gotSeconds[i])
				}
			}
			if len(tc.seconds) == 0 && rebuilt.String() != tc.input {
				t.Fatalf("text not preserved: %q", rebuilt.String())
			}
		})
	}
}

func TestSplitTimestampsEmptyInput(t *testing.T) {
	if nodes := docmodel.SplitTimestamps(""); nodes != nil {
		t.Fatalf("expected no nodes for empty input, got %#v", nodes)
	}
}

func TestParseTimestampRef(t *testing.T) {
	if got := docmodel.ParseTimestampRef("02:30"); got != 150 {
		t.Fatalf("expected 150, got %d", got)
	}
	if got := docmodel.ParseTimestampRef("not-a-ref"); got != 0 {
		t.Fatalf("expected 0 for junk, got %d", got)
	}
	if got := docmodel.ParseTimestampRef("1:2:3"); got != 0 {
		t.Fatalf("expected 0 for hour form, got %d", got)
	}
}

func TestJSONRoundTripIsStable(t *testing.T) {
	doc := docmodel.FromSections([]docmodel.Section{
		{Heading: "Install", Content: "Run [video:01:15] **now**.\n\n- a\n- b"},
	})

	first, err := doc.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON failed: %v", err)
	}
	parsed, err := docmodel.FromJSON(first)
	if err != nil {
		t.Fatalf("FromJSON failed: %v", err)
	}
	second, err := parsed.ToJSON()
	if err != nil {
		t.Fatalf("second ToJSON failed: %v", err)
	}
	if first != second {
		t.Fatalf("round trip changed bytes:\n%s\n%s", first, second)
	}
}

func TestPlainTextFlattensBlocks(t *testing.T) {
	doc := docmodel.FromSections([]docmodel.Section{
		{Heading: "Install", Content: "First line.\n\nSecond [video:01:00] line."},
	})

	text := doc.PlainText()
	if !strings.Contains(text, "Install") || !strings.Contains(text, "First line.") {
		t.Fatalf("missing content in plain text: %q", text)
	}
	if strings.Contains(text, "video:") {
		t.Fatalf("timestamp markers leaked into plain text: %q", text)
	}
	if !strings.Contains(text, "Second ") || !strings.Contains(text, " line.") {
		t.Fatalf("text around timestamp lost: %q", text)
	}
}
