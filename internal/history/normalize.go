package history

import (
	"regexp"
	"strings"
	"time"

	"github.com/ppiankov/billhist/internal/model"
)

var (
	// "06-18.  S. " - the fixed-width date and house column
	recordPrefix = regexp.MustCompile(`^\s*\d{2}-\d{2}\.\s+[AS]\.\s*`)

	// Dot fill leading to the journal page and tally columns
	dotLeader = regexp.MustCompile(`\.{2,}`)
)

// NormalizeAction reduces a raw record to its action description.
//
//	"06-18.  S. Received from Assembly  ................... 220 "
//	=> "Received from Assembly"
func NormalizeAction(raw string) string {
	text := plainText(raw)
	text = recordPrefix.ReplaceAllString(text, "")
	if loc := dotLeader.FindStringIndex(text); loc != nil {
		text = text[:loc[0]]
	}
	return strings.TrimSpace(text)
}

// NewAction builds an action from a raw record
func NewAction(raw string, date time.Time, actor model.Chamber) model.Action {
	return model.Action{
		Date:  date,
		Actor: actor,
		Text:  NormalizeAction(raw),
	}
}
