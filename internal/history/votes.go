package history

import (
	"regexp"
	"strconv"

	"github.com/ppiankov/billhist/internal/model"
)

var rollCallPattern = regexp.MustCompile(`Ayes (\d+), Noes (\d+)`)

// DetectVote looks for a roll call tally in a raw record. The vote takes
// its chamber, date and motion from the action built from the same record.
func DetectVote(raw string, action model.Action) (model.Vote, bool) {
	m := rollCallPattern.FindStringSubmatch(raw)
	if m == nil {
		return model.Vote{}, false
	}

	yes, err := strconv.Atoi(m[1])
	if err != nil {
		return model.Vote{}, false
	}
	no, err := strconv.Atoi(m[2])
	if err != nil {
		return model.Vote{}, false
	}

	return model.Vote{
		Chamber: action.Actor,
		Date:    action.Date,
		Motion:  action.Text,
		Passed:  yes > no,
		Yes:     yes,
		No:      no,
		Other:   0,
	}, true
}
