package history

import (
	"testing"
	"time"

	"github.com/ppiankov/billhist/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeAction(t *testing.T) {
	tests := []struct {
		raw      string
		expected string
	}{
		{"06-18.  S. Received from Assembly  ................... 220 ", "Received from Assembly"},
		{"01-15.  A. Read first time and referred to committee on Health ....... 12 ", "Read first time and referred to committee on Health"},
		{"02-10.  A. Passed.  Ayes 57, Noes 39 ..................... 88", "Passed.  Ayes 57, Noes 39"},
		{"03-05.  S. Failed to pass pursuant to Senate Joint Resolution 1 ", "Failed to pass pursuant to Senate Joint Resolution 1"},
		{`02-10.  A. <a href="/2009/votes/av0057.pdf">Passed</a>.  Ayes 57, Noes 39 .... 88`, "Passed.  Ayes 57, Noes 39"},
		{"04-01.  S. Referred to joint committee on Finance &amp; Audit", "Referred to joint committee on Finance & Audit"},
		{"Received from Assembly", "Received from Assembly"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeAction(tt.raw))
		})
	}
}

func TestNormalizeAction_Idempotent(t *testing.T) {
	inputs := []string{
		"06-18.  S. Received from Assembly  ................... 220 ",
		"02-10.  A. Passed.  Ayes 57, Noes 39 ..................... 88",
		"01-15.  A. Introduced by Representatives Smith, Jones and Lee; cosponsored by Senator Brown.",
		"04-01.  S. Referred to joint committee on Finance &amp; Audit",
	}

	for _, raw := range inputs {
		once := NormalizeAction(raw)
		assert.Equal(t, once, NormalizeAction(once), "normalizing %q twice", raw)
	}
}

func TestNewAction(t *testing.T) {
	date := time.Date(2009, time.June, 18, 0, 0, 0, 0, time.UTC)
	a := NewAction("06-18.  S. Received from Assembly  ......... 220", date, model.ChamberUpper)

	assert.Equal(t, date, a.Date)
	assert.Equal(t, model.ChamberUpper, a.Actor)
	assert.Equal(t, "Received from Assembly", a.Text)
}
