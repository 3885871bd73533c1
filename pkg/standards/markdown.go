package standards

import (
	"regexp"
	"unicode/utf8"
)

type SegmentType string

const (
	SegmentText SegmentType = "text"
	SegmentLink SegmentType = "link"
	SegmentBold SegmentType = "bold"
)

// Segment is one piece of the lightweight markup used in help texts.
type Segment struct {
	Type    SegmentType `json:"type"`
	Content string      `json:"content"`
	Href    string      `json:"href,omitempty"`
}

var markupRe = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)|\*\*(.+?)\*\*`)

// ParseMarkdown splits text into plain, link ([text](url)) and bold (**text**)
// segments.
func ParseMarkdown(text string) []Segment {
	if text == "" {
		return nil
	}
	var segments []Segment
	last := 0
	for _, m := range markupRe.FindAllStringSubmatchIndex(text, -1) {
		if m[0] > last {
			segments = append(segments, Segment{Type: SegmentText, Content: text[last:m[0]]})
		}
		if m[2] >= 0 {
			segments = append(segments, Segment{Type: SegmentLink, Content: text[m[2]:m[3]], Href: text[m[4]:m[5]]})
		} else {
			segments = append(segments, Segment{Type: SegmentBold, Content: text[m[6]:m[7]]})
		}
		last = m[1]
	}
	if last < len(text) {
		segments = append(segments, Segment{Type: SegmentText, Content: text[last:]})
	}
	return segments
}

// PlainText drops the markup and keeps the visible text.
func PlainText(text string) string {
	var out []byte
	for _, seg := range ParseMarkdown(text) {
		out = append(out, seg.Content...)
	}
	return string(out)
}

// Truncate cuts text to maxLen runes and appends "..." when it had to cut.
func Truncate(text string, maxLen int) string {
	if maxLen < 0 || utf8.RuneCountInString(text) <= maxLen {
		return text
	}
	runes := []rune(text)
	return string(runes[:maxLen]) + "..."
}
