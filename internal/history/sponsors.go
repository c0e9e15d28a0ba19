package history

import (
	"regexp"
	"strings"

	"github.com/ppiankov/billhist/internal/model"
)

const (
	introducedMarker  = "Introduced by"
	cosponsoredMarker = "cosponsored"
)

var (
	sponsorSeparators = regexp.MustCompile(`\s+and\s+|,|;`)

	// Plural role words head a list of names and are not part of any name
	introducedPrefix  = regexp.MustCompile(`Introduced by\s+(?:(?:Representatives|Senators)\s+)?`)
	cosponsoredPrefix = regexp.MustCompile(`cosponsored by\s+(?:(?:Representatives|Senators)\s+)?`)
)

// ExtractSponsors parses the "Introduced by ... cosponsored by ..." record.
// Entries without a marker inherit the role of the entry before them.
func ExtractSponsors(raw string) []model.Sponsor {
	text := plainText(raw)
	start := strings.Index(text, introducedMarker)
	if start < 0 {
		return nil
	}
	text = text[start:]
	if loc := dotLeader.FindStringIndex(text); loc != nil {
		text = text[:loc[0]]
	}

	var (
		sponsors []model.Sponsor
		role     model.SponsorRole
	)
	entries := sponsorSeparators.Split(text, -1)
	for i, entry := range entries {
		name := entry
		switch {
		case strings.Contains(entry, introducedMarker):
			role = model.RolePrimary
			name = afterMarker(entry, introducedPrefix, introducedMarker)
		case strings.Contains(entry, cosponsoredMarker):
			role = model.RoleCosponsor
			name = afterMarker(entry, cosponsoredPrefix, cosponsoredMarker)
		}

		name = strings.TrimSpace(name)
		// Only the record's closing period is punctuation; "Jr." keeps its own
		if i == len(entries)-1 {
			name = strings.TrimSpace(strings.TrimSuffix(name, "."))
		}
		if name == "" {
			continue
		}
		sponsors = append(sponsors, model.Sponsor{Name: name, Role: role})
	}

	return sponsors
}

func afterMarker(entry string, prefix *regexp.Regexp, marker string) string {
	if loc := prefix.FindStringIndex(entry); loc != nil {
		return entry[loc[1]:]
	}
	return entry[strings.Index(entry, marker)+len(marker):]
}
