package docmodel

import (
	"regexp"
	"strconv"
	"strings"
)

// timestampPattern matches inline video references such as [video:01:15].
// Minutes may be one or two digits; seconds are always two.
var timestampPattern = regexp.MustCompile(`\[video:(\d{1,2}):(\d{2})\]`)

// SplitTimestamps converts plain text into inline nodes, extracting every
// [video:MM:SS] marker into a timestampLink node with seconds = MM*60+SS.
// The surrounding text is preserved verbatim, including whitespace.
func SplitTimestamps(text string, marks ...Mark) []*Node {
	matches := timestampPattern.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		if text == "" {
			return nil
		}
		return []*Node{NewText(text, marks...)}
	}

	var nodes []*Node
	last := 0
	for _, match := range matches {
		if match[0] > last {
			nodes = append(nodes, NewText(text[last:match[0]], marks...))
		}
		minutes, _ := strconv.Atoi(text[match[2]:match[3]])
		seconds, _ := strconv.Atoi(text[match[4]:match[5]])
		nodes = append(nodes, NewTimestampLink(minutes*60+seconds))
		last = match[1]
	}
	if last < len(text) {
		nodes = append(nodes, NewText(text[last:], marks...))
	}
	return nodes
}

// ParseTimestampRef converts a "MM:SS" reference into seconds. Returns 0 for
// anything it cannot parse; callers treat 0 as "no reference".
func ParseTimestampRef(ref string) int {
	parts := strings.Split(ref, ":")
	if len(parts) != 2 {
		return 0
	}
	minutes, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0
	}
	seconds, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0
	}
	return minutes*60 + seconds
}
