// Package compare checks a deployed standards page against the configured
// brand and page strings.
package compare

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/net/html"

	"github.com/protek/protek/pkg/config"
	"github.com/protek/protek/pkg/whttp"
)

// Page is the static text a deployment renders before any script runs.
type Page struct {
	Title           string `json:"title"`
	MetaDescription string `json:"metaDescription"`
	Header          string `json:"header"`
	H1              string `json:"h1"`
	Subtitle        string `json:"subtitle"`
}

// Field is one compared value.
type Field struct {
	Name     string `json:"name"`
	Expected string `json:"expected"`
	Actual   string `json:"actual"`
	Match    bool   `json:"match"`
}

// Fetch downloads url and extracts its Page.
func Fetch(ctx context.Context, client *retryablehttp.Client, url string) (Page, error) {
	res, err := whttp.Get(ctx, client, url)
	if err != nil {
		return Page{}, err
	}
	root, err := html.Parse(bytes.NewReader(res.Body))
	if err != nil {
		return Page{}, fmt.Errorf("parsing %s: %w", url, err)
	}
	return Extract(root), nil
}

// Extract reads the title, meta description, header text, first h1 and the
// paragraph that follows it.
func Extract(root *html.Node) Page {
	doc := goquery.NewDocumentFromNode(root)

	var p Page
	p.Title = whttp.CleanText(doc.Find("head title").First().Text())
	if desc, ok := doc.Find(`meta[name="description"]`).First().Attr("content"); ok {
		p.MetaDescription = whttp.CleanText(desc)
	}
	p.Header = whttp.CleanText(doc.Find("header").First().Text())

	h1 := doc.Find("h1").First()
	p.H1 = whttp.CleanText(h1.Text())
	if sub := h1.NextFiltered("p"); sub.Length() > 0 {
		p.Subtitle = whttp.CleanText(sub.Text())
	} else {
		p.Subtitle = whttp.CleanText(h1.Parent().Find("p").First().Text())
	}
	return p
}

// Against lines p up with cfg. The header only has to contain the brand
// name; every other field must match exactly.
func Against(p Page, cfg config.Config) []Field {
	fields := []Field{
		exact("title", cfg.MetaTitle, p.Title),
		exact("meta description", cfg.MetaDescription, p.MetaDescription),
		exact("h1", cfg.PageTitle, p.H1),
		exact("subtitle", cfg.PageSubtitle, p.Subtitle),
		{
			Name:     "header brand",
			Expected: cfg.BrandName,
			Actual:   p.Header,
			Match:    cfg.BrandName != "" && strings.Contains(p.Header, cfg.BrandName),
		},
	}
	return fields
}

// Mismatches reports how many fields differ.
func Mismatches(fields []Field) int {
	n := 0
	for _, f := range fields {
		if !f.Match {
			n++
		}
	}
	return n
}

func exact(name, expected, actual string) Field {
	return Field{Name: name, Expected: expected, Actual: actual, Match: expected == actual}
}
