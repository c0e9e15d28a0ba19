package pipeline

import (
	"errors"
	"testing"

	"github.com/ppiankov/billhist/internal/history"
	"github.com/ppiankov/billhist/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const senateBillPage = `<html>
<head><title>2009 Senate Bill 12</title></head>
<body>
<h1>Bill History</h1>
<pre>
<a href="/2009/data/SB12.pdf">2009 SENATE BILL 12</a>

 An Act to create 118.19 (13) of the statutes; relating to: nurse
 licensing &amp; renewal.

2009
 02-03.  S. Introduced by Senators Hansen and Lehman;
            cosponsored by Representatives Sinicki and Pope-Roberts.
 02-03.  S. Read first time and referred to committee on <a href="../comm/sedu.html">Education</a> .... 44
 03-17.  S. Passed.  Ayes 18, Noes 15 ............. 102
 03-18.  A. Received from Senate
</pre>
</body>
</html>`

func TestReadHistoryPage(t *testing.T) {
	page, err := ReadHistoryPage([]byte(senateBillPage), "http://www.legis.state.wi.us/2009/data/SB12hst.html")
	require.NoError(t, err)

	assert.Contains(t, page.Lines[0], "2009 SENATE BILL 12")
	assert.Equal(t, []model.Document{
		{Label: "2009 SENATE BILL 12", Link: "http://www.legis.state.wi.us/2009/data/SB12.pdf"},
		{Label: "Education", Link: "http://www.legis.state.wi.us/2009/comm/sedu.html"},
	}, page.Documents)
}

func TestReadHistoryPage_NoBaseURL(t *testing.T) {
	page, err := ReadHistoryPage([]byte(senateBillPage), "")
	require.NoError(t, err)
	require.Len(t, page.Documents, 2)
	assert.Equal(t, "/2009/data/SB12.pdf", page.Documents[0].Link)
}

func TestReadHistoryPage_Errors(t *testing.T) {
	_, err := ReadHistoryPage(nil, "")
	assert.True(t, errors.Is(err, ErrEmptyDocument))

	_, err = ReadHistoryPage([]byte("<html><body><p>Not found</p></body></html>"), "")
	assert.True(t, errors.Is(err, ErrNoHistoryBlock))
}

func TestParseBillPage(t *testing.T) {
	pageURL := "http://www.legis.state.wi.us/2009/data/SB12hst.html"
	bill, err := ParseBillPage([]byte(senateBillPage), pageURL, "2009 Regular Session")
	require.NoError(t, err)

	assert.Equal(t, "2009 SENATE BILL 12", bill.ID)
	assert.Equal(t, model.ChamberUpper, bill.Chamber)
	assert.Equal(t, "2009 Regular Session", bill.Session)
	assert.Equal(t, pageURL, bill.SourceURL)
	assert.Equal(t, "An Act to create 118.19 (13) of the statutes; relating to: nurse licensing & renewal.", bill.Title)

	require.Len(t, bill.Actions, 4)
	assert.Equal(t, "Read first time and referred to committee on Education", bill.Actions[1].Text)
	assert.Equal(t, model.ChamberLower, bill.Actions[3].Actor)
	assert.Equal(t, "Received from Senate", bill.Actions[3].Text)

	require.Len(t, bill.Votes, 1)
	assert.True(t, bill.Votes[0].Passed)
	assert.Equal(t, 18, bill.Votes[0].Yes)

	assert.Equal(t, []model.Sponsor{
		{Name: "Hansen", Role: model.RolePrimary},
		{Name: "Lehman", Role: model.RolePrimary},
		{Name: "Sinicki", Role: model.RoleCosponsor},
		{Name: "Pope-Roberts", Role: model.RoleCosponsor},
	}, bill.Sponsors)
	assert.Len(t, bill.Documents, 2)
}

func TestParseBillPage_MalformedRecord(t *testing.T) {
	page := `<pre>
AB 3
 Relating to: nothing.
 01-02.  A. Introduced by Representative Kerkman.
</pre>`
	_, err := ParseBillPage([]byte(page), "", "2009")
	assert.True(t, errors.Is(err, history.ErrMalformedRecord), "record without a year must fail, got %v", err)
}
