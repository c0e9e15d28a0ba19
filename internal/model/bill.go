package model

import "time"

// Chamber identifies a legislative chamber
type Chamber string

const (
	ChamberUpper Chamber = "upper" // Senate
	ChamberLower Chamber = "lower" // Assembly
)

// HouseCode returns the one-letter code the legislature uses in bill
// numbers and history lines (S for the Senate, A for the Assembly)
func (c Chamber) HouseCode() string {
	if c == ChamberUpper {
		return "S"
	}
	return "A"
}

// Valid reports whether c is a known chamber
func (c Chamber) Valid() bool {
	return c == ChamberUpper || c == ChamberLower
}

// ChamberForHouse maps a one-letter house code back to a chamber
func ChamberForHouse(code string) (Chamber, bool) {
	switch code {
	case "S":
		return ChamberUpper, true
	case "A":
		return ChamberLower, true
	default:
		return "", false
	}
}

// SponsorRole classifies a sponsor entry
type SponsorRole string

const (
	RolePrimary   SponsorRole = "primary"
	RoleCosponsor SponsorRole = "cosponsor"
)

// Bill is one legislative bill assembled from its history page
type Bill struct {
	ID        string     `json:"bill_id"`              // Legislature's own bill number (e.g. "2009 Assembly Bill 1")
	Number    int        `json:"number"`               // Probe number the bill was found at
	Chamber   Chamber    `json:"chamber"`              // Chamber of origin
	Session   string     `json:"session"`              // Session or sub-session name
	Title     string     `json:"title"`                // Relating clause
	SourceURL string     `json:"source_url,omitempty"` // History page the bill was read from
	Actions   []Action   `json:"actions"`
	Votes     []Vote     `json:"votes"`
	Sponsors  []Sponsor  `json:"sponsors"`
	Documents []Document `json:"documents"`
}

// Action is a single dated procedural event
type Action struct {
	Date  time.Time `json:"date"`  // Calendar date, midnight UTC
	Actor Chamber   `json:"actor"` // Chamber the action happened in
	Text  string    `json:"text"`  // Normalized description
}

// Vote is a roll call detected inside an action
type Vote struct {
	Chamber Chamber   `json:"chamber"`
	Date    time.Time `json:"date"`
	Motion  string    `json:"motion"`
	Passed  bool      `json:"passed"`
	Yes     int       `json:"yes_count"`
	No      int       `json:"no_count"`
	Other   int       `json:"other_count"`
}

// Sponsor is a named author or coauthor of a bill
type Sponsor struct {
	Name string      `json:"name"`
	Role SponsorRole `json:"role"`
}

// Document is a link found in the history block
type Document struct {
	Label string `json:"label"`
	Link  string `json:"link"`
}

// NewBill creates a bill with its title set. Records are appended afterwards.
func NewBill(session string, chamber Chamber, id, title string) *Bill {
	return &Bill{
		ID:        id,
		Chamber:   chamber,
		Session:   session,
		Title:     title,
		Actions:   make([]Action, 0),
		Votes:     make([]Vote, 0),
		Sponsors:  make([]Sponsor, 0),
		Documents: make([]Document, 0),
	}
}

func (b *Bill) AddAction(a Action) {
	b.Actions = append(b.Actions, a)
}

func (b *Bill) AddVote(v Vote) {
	b.Votes = append(b.Votes, v)
}

func (b *Bill) AddSponsor(s Sponsor) {
	b.Sponsors = append(b.Sponsors, s)
}

func (b *Bill) AddDocument(d Document) {
	b.Documents = append(b.Documents, d)
}
