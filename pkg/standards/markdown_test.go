package standards

import (
	"reflect"
	"testing"
)

func TestParseMarkdown(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []Segment
	}{
		{"empty", "", nil},
		{"plain", "just text", []Segment{{Type: SegmentText, Content: "just text"}}},
		{
			"link and bold",
			"See [docs](https://learn.microsoft.com/x) and **note** this.",
			[]Segment{
				{Type: SegmentText, Content: "See "},
				{Type: SegmentLink, Content: "docs", Href: "https://learn.microsoft.com/x"},
				{Type: SegmentText, Content: " and "},
				{Type: SegmentBold, Content: "note"},
				{Type: SegmentText, Content: " this."},
			},
		},
		{
			"adjacent",
			"**a****b**",
			[]Segment{{Type: SegmentBold, Content: "a"}, {Type: SegmentBold, Content: "b"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseMarkdown(tt.in); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseMarkdown(%q) = %#v, want %#v", tt.in, got, tt.want)
			}
		})
	}
}

func TestPlainText(t *testing.T) {
	if got := PlainText("Use [the portal](https://x.test) **now**."); got != "Use the portal now." {
		t.Errorf("PlainText = %q", got)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"short", 10, "short"},
		{"exactly", 7, "exactly"},
		{"longer text", 6, "longer..."},
		{"héllo wörld", 5, "héllo..."},
	}
	for _, tt := range tests {
		if got := Truncate(tt.in, tt.max); got != tt.want {
			t.Errorf("Truncate(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}
}
