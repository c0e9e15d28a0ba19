package pipeline

import (
	"bytes"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/ppiankov/billhist/internal/history"
	"github.com/ppiankov/billhist/internal/model"
)

var (
	// ErrEmptyDocument means the server answered with a zero-length page
	ErrEmptyDocument = errors.New("empty document")

	// ErrNoHistoryBlock means the page has no <pre> history block
	ErrNoHistoryBlock = errors.New("no history block")
)

// HistoryPage is the part of a bill history page the parser reads
type HistoryPage struct {
	Lines     []string         // Inner markup of the <pre> block, one entry per line
	Documents []model.Document // Links found inside the block
}

// ReadHistoryPage extracts the history block from a page. Links are
// resolved against pageURL when it is set.
func ReadHistoryPage(data []byte, pageURL string) (*HistoryPage, error) {
	if len(data) == 0 {
		return nil, ErrEmptyDocument
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	pre := doc.Find("pre").First()
	if pre.Length() == 0 {
		return nil, ErrNoHistoryBlock
	}
	inner, err := pre.Html()
	if err != nil {
		return nil, fmt.Errorf("reading history block: %w", err)
	}

	var base *url.URL
	if pageURL != "" {
		base, _ = url.Parse(pageURL)
	}

	page := &HistoryPage{
		Lines:     strings.Split(inner, "\n"),
		Documents: make([]model.Document, 0),
	}
	pre.Find("a").Each(func(_ int, a *goquery.Selection) {
		href, ok := a.Attr("href")
		href = strings.TrimSpace(href)
		if !ok || href == "" {
			return
		}
		page.Documents = append(page.Documents, model.Document{
			Label: strings.TrimSpace(a.Text()),
			Link:  resolveLink(base, href),
		})
	})

	return page, nil
}

// ParseBillPage reads a fetched history page into a bill
func ParseBillPage(data []byte, pageURL, session string) (*model.Bill, error) {
	page, err := ReadHistoryPage(data, pageURL)
	if err != nil {
		return nil, err
	}

	bill, err := history.Parse(session, page.Lines)
	if err != nil {
		return nil, err
	}
	bill.SourceURL = pageURL
	for _, d := range page.Documents {
		bill.AddDocument(d)
	}
	return bill, nil
}

// resolveLink makes href absolute against base, leaving it untouched when
// either cannot be parsed
func resolveLink(base *url.URL, href string) string {
	if base == nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}
