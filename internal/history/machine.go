package history

import (
	"fmt"
	"strings"
	"time"

	"github.com/ppiankov/billhist/internal/model"
)

type state int

const (
	stateAwaitingTitle state = iota
	stateAwaitingSponsors
	stateEmitting
)

// dateContext is the running year/month/day/house. Each transition returns
// a new value so a record keeps the context it was opened with.
type dateContext struct {
	year  int
	month int
	day   int
	house string
}

func (c dateContext) withYear(year int) dateContext {
	c.year = year
	return c
}

func (c dateContext) withBoundary(l Line) dateContext {
	c.month = l.Month
	c.day = l.Day
	c.house = l.House
	return c
}

func (c dateContext) date() (time.Time, error) {
	if c.year == 0 {
		return time.Time{}, fmt.Errorf("no year before %02d-%02d", c.month, c.day)
	}
	if c.month < 1 || c.month > 12 {
		return time.Time{}, fmt.Errorf("month %d out of range", c.month)
	}
	d := time.Date(c.year, time.Month(c.month), c.day, 0, 0, 0, 0, time.UTC)
	if d.Day() != c.day {
		return time.Time{}, fmt.Errorf("no day %d in %d-%02d", c.day, c.year, c.month)
	}
	return d, nil
}

func (c dateContext) chamber() model.Chamber {
	chamber, _ := model.ChamberForHouse(c.house)
	return chamber
}

// machine holds the parse state of one history block
type machine struct {
	session string
	state   state
	id      string
	haveID  bool
	ctx     dateContext // running context, follows year lines
	open    dateContext // context of the record being buffered
	buffer  strings.Builder
	bill    *model.Bill
	line    int
}

// Parse turns the lines of one history block into a bill. Documents are not
// part of the text history and are attached by the caller.
func Parse(session string, lines []string) (*model.Bill, error) {
	m := &machine{session: session}
	for _, raw := range lines {
		if err := m.feed(raw); err != nil {
			return nil, err
		}
	}
	return m.finish()
}

func (m *machine) feed(raw string) error {
	m.line++
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	if !m.haveID {
		m.id = identifierFromLine(raw)
		m.haveID = true
		return nil
	}

	l := Classify(raw)
	switch l.Kind {
	case LineBareYear:
		m.ctx = m.ctx.withYear(l.Year)
		return nil
	case LineDateBoundary:
		record := m.buffer.String()
		m.buffer.Reset()
		// The closing record keeps the context it was opened under, even
		// when a year line sits between it and this date line
		closing := m.open
		m.ctx = m.ctx.withBoundary(l)
		m.open = m.ctx
		if err := m.flush(record, closing); err != nil {
			return err
		}
	}

	m.buffer.WriteString(l.Text)
	m.buffer.WriteByte(' ')
	return nil
}

func (m *machine) flush(record string, c dateContext) error {
	if m.state != stateAwaitingTitle {
		return m.emit(record, c)
	}

	title := strings.TrimSpace(plainText(record))
	if title == "" {
		return fmt.Errorf("%w: line %d: empty relating clause", ErrNoTitle, m.line)
	}
	m.bill = model.NewBill(m.session, m.ctx.chamber(), m.id, title)
	m.state = stateAwaitingSponsors
	return nil
}

func (m *machine) emit(record string, c dateContext) error {
	date, err := c.date()
	if err != nil {
		return &RecordError{Line: m.line, Reason: err.Error()}
	}

	action := NewAction(record, date, c.chamber())
	m.bill.AddAction(action)
	if vote, ok := DetectVote(record, action); ok {
		m.bill.AddVote(vote)
	}

	// Records before the introduction stay as plain actions
	if m.state == stateAwaitingSponsors && strings.Contains(record, introducedMarker) {
		for _, s := range ExtractSponsors(record) {
			m.bill.AddSponsor(s)
		}
		m.state = stateEmitting
	}
	return nil
}

func (m *machine) finish() (*model.Bill, error) {
	if !m.haveID {
		return nil, fmt.Errorf("%w: empty history block", ErrNoTitle)
	}
	if m.state == stateAwaitingTitle {
		return nil, fmt.Errorf("%w: no dated record in history of %s", ErrNoTitle, m.id)
	}

	// The last record has no date line after it
	if straggler := m.buffer.String(); strings.TrimSpace(straggler) != "" {
		if err := m.emit(straggler, m.open); err != nil {
			return nil, err
		}
	}
	return m.bill, nil
}
