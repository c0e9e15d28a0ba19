package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/ppiankov/billhist/internal/model"
)

var (
	// "2009 Regular Session"
	regularSessionPattern = regexp.MustCompile(`^(\d{4})`)

	// "January 2008 Special Session", "December 2009 Extraordinary Session"
	specialSessionPattern = regexp.MustCompile(`\w\s(\d{4})`)
)

// DiscoverSessions builds the session registry from the session picker on
// the legislature's home page
func DiscoverSessions(ctx context.Context, source Source, sessionsURL string) (*model.SessionRegistry, error) {
	data, err := source.Fetch(ctx, sessionsURL)
	if err != nil {
		return nil, fmt.Errorf("fetch sessions: %w", err)
	}
	return ParseSessions(data)
}

// ParseSessions reads the options of the select#session element. Regular
// sessions are registered before special ones so option order does not
// matter. Special sessions without a regular session are dropped.
func ParseSessions(data []byte) (*model.SessionRegistry, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	options := doc.Find("select#session option")
	if options.Length() == 0 {
		return nil, fmt.Errorf("no session options found")
	}

	type special struct {
		year        int
		value, name string
	}
	var specials []special

	reg := model.NewSessionRegistry()
	options.Each(func(_ int, opt *goquery.Selection) {
		text := strings.TrimSpace(opt.Text())
		value, _ := opt.Attr("value")

		if m := regularSessionPattern.FindStringSubmatch(text); m != nil {
			year, _ := strconv.Atoi(m[1])
			reg.AddRegular(year, value)
			return
		}
		if m := specialSessionPattern.FindStringSubmatch(text); m != nil {
			year, _ := strconv.Atoi(m[1])
			specials = append(specials, special{year: year, value: value, name: text})
		}
	})

	for _, s := range specials {
		_ = reg.AddSpecial(s.year, s.value, s.name)
	}

	if reg.Len() == 0 {
		return nil, fmt.Errorf("no regular sessions found")
	}
	return reg, nil
}
