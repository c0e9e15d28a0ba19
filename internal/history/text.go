package history

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// plainText drops markup and decodes entities
func plainText(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return s
	}

	var b strings.Builder
	z := html.NewTokenizer(strings.NewReader(s))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return b.String()
		case html.TextToken:
			b.Write(z.Text())
		}
	}
}

// identifierFromLine reads the bill number from the first line of a block.
// The number is usually a link to the bill text; otherwise the line is used.
func identifierFromLine(raw string) string {
	if strings.Contains(raw, "<") {
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
		if err == nil {
			if a := doc.Find("a").First(); a.Length() > 0 {
				if id := strings.TrimSpace(a.Text()); id != "" {
					return id
				}
			}
		}
	}
	return strings.TrimSpace(plainText(raw))
}
