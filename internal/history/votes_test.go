package history

import (
	"testing"
	"time"

	"github.com/ppiankov/billhist/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectVote(t *testing.T) {
	date := time.Date(2009, time.February, 10, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		raw    string
		found  bool
		yes    int
		no     int
		passed bool
	}{
		{name: "passed", raw: "02-10.  A. Passed.  Ayes 57, Noes 39 ......... 88", found: true, yes: 57, no: 39, passed: true},
		{name: "numeric not lexical", raw: "03-02.  S. Concurred in.  Ayes 9, Noes 10 ....... 301", found: true, yes: 9, no: 10, passed: false},
		{name: "two digits beat one", raw: "Ayes 10, Noes 9", found: true, yes: 10, no: 9, passed: true},
		{name: "tie fails", raw: "Ayes 16, Noes 16", found: true, yes: 16, no: 16, passed: false},
		{name: "no tally", raw: "02-11.  S. Received from Assembly", found: false},
		{name: "lower case keyword", raw: "ayes 57, noes 39", found: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			action := NewAction(tt.raw, date, model.ChamberLower)
			vote, ok := DetectVote(tt.raw, action)
			require.Equal(t, tt.found, ok)
			if !ok {
				return
			}
			assert.Equal(t, tt.yes, vote.Yes)
			assert.Equal(t, tt.no, vote.No)
			assert.Equal(t, 0, vote.Other)
			assert.Equal(t, tt.passed, vote.Passed)
			assert.Equal(t, vote.Yes > vote.No, vote.Passed)
			assert.Equal(t, model.ChamberLower, vote.Chamber)
			assert.Equal(t, date, vote.Date)
			assert.Equal(t, action.Text, vote.Motion)
		})
	}
}
