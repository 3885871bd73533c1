package standards

import (
	"net/url"
	"sort"
	"strings"

	"github.com/weppos/publicsuffix-go/publicsuffix"
)

// DomainCount aggregates documentation links by registrable domain.
type DomainCount struct {
	Domain    string
	Links     int
	Standards int
}

// Links returns every link segment found in the descriptive texts of s.
func Links(s Standard) []Segment {
	var out []Segment
	for _, text := range []string{s.HelpText, s.DocsDescription, s.ExecutiveText} {
		for _, seg := range ParseMarkdown(text) {
			if seg.Type == SegmentLink {
				out = append(out, seg)
			}
		}
	}
	return out
}

// LinkDomains groups the links of all records by registrable domain
// (learn.microsoft.com and docs.microsoft.com both count as microsoft.com).
// Relative or unparsable links are skipped.
func LinkDomains(records []Standard) []DomainCount {
	byDomain := make(map[string]*DomainCount)
	for _, s := range records {
		counted := make(map[string]bool)
		for _, l := range Links(s) {
			d, ok := registrableDomain(l.Href)
			if !ok {
				continue
			}
			dc := byDomain[d]
			if dc == nil {
				dc = &DomainCount{Domain: d}
				byDomain[d] = dc
			}
			dc.Links++
			if !counted[d] {
				dc.Standards++
				counted[d] = true
			}
		}
	}

	out := make([]DomainCount, 0, len(byDomain))
	for _, dc := range byDomain {
		out = append(out, *dc)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Links != out[j].Links {
			return out[i].Links > out[j].Links
		}
		return out[i].Domain < out[j].Domain
	})
	return out
}

func registrableDomain(href string) (string, bool) {
	u, err := url.Parse(strings.TrimSpace(href))
	if err != nil || u.Hostname() == "" {
		return "", false
	}
	host := strings.ToLower(u.Hostname())
	domain, err := publicsuffix.Domain(host)
	if err != nil {
		return host, true
	}
	return domain, true
}
